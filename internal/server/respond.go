package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "github.com/kapu/collabhub-go/pkg/errors"
	"go.uber.org/zap"
)

// errorBody is the JSON shape of every failed request.
type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// respondError maps err onto its status and code. Server-side failures are
// logged and their detail is not echoed to the client.
func respondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := apperrors.StatusCode(err)
	body := errorBody{
		Code:    apperrors.Code(err),
		Message: err.Error(),
	}

	var ve *apperrors.ValidationError
	if errors.As(err, &ve) {
		body.Message = ve.Message
		body.Fields = ve.Fields
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.Int("status", status), zap.Error(err))
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			body.Message = appErr.Message
		} else {
			body.Message = http.StatusText(status)
		}
	}

	respondJSON(w, status, body)
}

func badRequest(message string, cause error) error {
	err := apperrors.NewAppError(message, apperrors.CodeValidation, http.StatusBadRequest, nil)
	if cause != nil {
		return err.WithCause(cause)
	}
	return err
}

// decodeJSON reads a small JSON body into dest, rejecting unknown fields.
func decodeJSON(r io.Reader, dest any) error {
	dec := json.NewDecoder(io.LimitReader(r, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return badRequest("invalid request body", err)
	}
	return nil
}
