package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	CodeAppError   = "APP_ERROR"
	CodeValidation = "VALIDATION_ERROR"
	CodeStore      = "STORE_ERROR"
	CodeSession    = "SESSION_ERROR"
	CodeFlow       = "FLOW_ERROR"
	CodeProvider   = "PROVIDER_ERROR"
	CodeNotFound   = "NOT_FOUND"
)

type AppError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewAppError(message, code string, statusCode int, context map[string]any) *AppError {
	return &AppError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// ValidationError carries every failing field of one submit attempt.
type ValidationError struct {
	*AppError
	Fields map[string]string
}

func NewValidationError(message string, fields map[string]string) *ValidationError {
	return &ValidationError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: http.StatusUnprocessableEntity,
			Context: map[string]any{
				"fields": len(fields),
			},
		},
		Fields: fields,
	}
}

type StoreError struct {
	*AppError
	Operation string
	Key       string
}

func NewStoreError(message, operation, key string, cause error) *StoreError {
	return &StoreError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeStore,
			StatusCode: http.StatusInternalServerError,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

type SessionError struct {
	*AppError
	SessionID string
}

func NewSessionError(message, sessionID string, statusCode int) *SessionError {
	return &SessionError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeSession,
			StatusCode: statusCode,
			Context: map[string]any{
				"session_id": sessionID,
			},
		},
		SessionID: sessionID,
	}
}

// FlowError reports an onboarding event that is not allowed in the current flow state.
type FlowError struct {
	*AppError
	Step string
}

func NewFlowError(message, step string) *FlowError {
	return &FlowError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeFlow,
			StatusCode: http.StatusConflict,
			Context: map[string]any{
				"step": step,
			},
		},
		Step: step,
	}
}

type ProviderError struct {
	*AppError
	Provider string
	Platform string
}

func NewProviderError(message, provider, platform string, cause error) *ProviderError {
	return &ProviderError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeProvider,
			StatusCode: http.StatusBadGateway,
			Context: map[string]any{
				"provider": provider,
				"platform": platform,
			},
			Cause: cause,
		},
		Provider: provider,
		Platform: platform,
	}
}

func NewNotFoundError(message string, context map[string]any) *AppError {
	return NewAppError(message, CodeNotFound, http.StatusNotFound, context)
}

func (e *AppError) HTTPStatus() int {
	return e.StatusCode
}

func (e *AppError) ErrorCode() string {
	return e.Code
}

// coded is satisfied by AppError and every type embedding it.
type coded interface {
	error
	HTTPStatus() int
	ErrorCode() string
}

// StatusCode resolves the HTTP status carried by err, defaulting to 500.
func StatusCode(err error) int {
	var c coded
	if errors.As(err, &c) && c.HTTPStatus() > 0 {
		return c.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// Code resolves the error code carried by err, defaulting to CodeAppError.
func Code(err error) string {
	var c coded
	if errors.As(err, &c) && c.ErrorCode() != "" {
		return c.ErrorCode()
	}
	return CodeAppError
}
