package onboarding

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/kapu/collabhub-go/internal/domain"
	"github.com/kapu/collabhub-go/internal/steps"
	"github.com/kapu/collabhub-go/internal/store"
	apperrors "github.com/kapu/collabhub-go/pkg/errors"
	"go.uber.org/zap"
)

// OutcomeProcessing means the submit was accepted and the step is waiting on verification.
const OutcomeProcessing Outcome = "processing"

// Publisher receives flow events.
type Publisher interface {
	Publish(event domain.Event)
}

type FlowConfig struct {
	SessionID string
	UserType  domain.UserType
	Registry  *steps.Registry
	Verifier  *Verifier
	Store     store.Store
	Publisher Publisher
	// Files resolves uploaded file references. Nil accepts any non-empty reference.
	Files     steps.FileLookup
	FileURL   func(domain.FileRef) string
	Now       func() time.Time
	Logger    *zap.Logger
}

// Flow is one onboarding run for one session. Its methods are safe for concurrent use.
type Flow struct {
	cfg FlowConfig
	seq *Sequencer

	mu              sync.Mutex
	processing      bool
	processingLabel string
	cancelPending   func() bool
	pendingID       int
	closed          bool
	lastOutcome     Outcome
	lastError       string
}

// NewFlow starts a run at step 1. onComplete fires once with the accumulated data
// after the last step is accepted; onAbandon fires once when backing out of step 1.
func NewFlow(cfg FlowConfig, onComplete func(domain.Data), onAbandon func()) *Flow {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Registry == nil {
		cfg.Registry = steps.DefaultRegistry()
	}
	f := &Flow{cfg: cfg}
	f.seq = NewSequencer(cfg.UserType, onComplete, onAbandon)
	return f
}

type SubmitResult struct {
	Outcome Outcome                `json:"outcome"`
	Step    *domain.StepDescriptor `json:"step,omitempty"`
}

// Submit decodes and validates a form for the current step. Field failures come
// back as a ValidationError and leave the run where it was.
func (f *Flow) Submit(ctx context.Context, body io.Reader) (SubmitResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkIdle(); err != nil {
		return SubmitResult{}, err
	}
	f.lastError = ""

	current := f.seq.CurrentStep()
	entry, err := f.cfg.Registry.Lookup(current.Kind)
	if err != nil {
		return SubmitResult{}, err
	}
	form := entry.New(f.cfg.UserType)
	if err := steps.Decode(body, form); err != nil {
		return SubmitResult{}, apperrors.NewAppError("invalid step body", apperrors.CodeValidation, http.StatusBadRequest, map[string]any{
			"step": current.Kind.String(),
		}).WithCause(err)
	}
	steps.ResolveFiles(form, f.cfg.Files)
	if err := form.Validate().Err(); err != nil {
		f.cfg.Logger.Debug("Step validation failed",
			zap.String("session_id", f.cfg.SessionID),
			zap.String("step", current.Kind.String()),
		)
		return SubmitResult{}, err
	}
	payload, err := form.Payload()
	if err != nil {
		return SubmitResult{}, err
	}

	if entry.Delayed && f.cfg.Verifier != nil {
		f.startProcessing(current, entry.ProcessingLabel, form, payload)
		return SubmitResult{Outcome: OutcomeProcessing, Step: &current}, nil
	}

	outcome, err := f.accept(ctx, current, form, payload)
	if err != nil {
		return SubmitResult{}, err
	}
	return f.result(outcome), nil
}

// Back retreats one step, or abandons the run from step 1.
func (f *Flow) Back() (Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkIdle(); err != nil {
		return "", err
	}
	f.lastError = ""
	outcome := f.seq.Retreat()
	f.lastOutcome = outcome
	switch outcome {
	case OutcomeRetreated:
		f.publish(domain.EventStepRetreated, f.seq.CurrentStep())
	case OutcomeAbandoned:
		f.publish(domain.EventAbandoned, domain.StepDescriptor{})
	}
	return outcome, nil
}

// FlowState is the client view of a run.
type FlowState struct {
	UserType        domain.UserType        `json:"userType"`
	DisplayName     string                 `json:"displayName"`
	CurrentStep     *domain.StepDescriptor `json:"currentStep,omitempty"`
	StepCount       int                    `json:"stepCount"`
	Steps           []StepProgress         `json:"steps"`
	Processing      bool                   `json:"processing"`
	ProcessingLabel string                 `json:"processingLabel,omitempty"`
	Finished        bool                   `json:"finished"`
	Outcome         Outcome                `json:"outcome,omitempty"`
	// LastError is set when a delayed step failed after processing. The run
	// stays on that step and the form can be submitted again.
	LastError       string                 `json:"lastError,omitempty"`
}

func (f *Flow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()

	st := FlowState{
		UserType:    f.cfg.UserType,
		DisplayName: f.cfg.UserType.DisplayName(),
		StepCount:   f.seq.Len(),
		Steps:       f.seq.Progress(),
		Processing:  f.processing,
		Finished:    f.seq.Finished(),
		Outcome:     f.lastOutcome,
		LastError:   f.lastError,
	}
	if f.processing {
		st.ProcessingLabel = f.processingLabel
	}
	if !st.Finished {
		step := f.seq.CurrentStep()
		st.CurrentStep = &step
	}
	return st
}

// Data returns a copy of the accumulated answers.
func (f *Flow) Data() domain.Data {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seq.State().AccumulatedData
}

// Close cancels a pending verification. The run accepts no further events.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	if f.cancelPending != nil {
		f.cancelPending()
		f.cancelPending = nil
	}
	f.processing = false
}

func (f *Flow) checkIdle() error {
	step := ""
	if !f.seq.Finished() {
		step = f.seq.CurrentStep().Kind.String()
	}
	switch {
	case f.closed || f.seq.Finished():
		return apperrors.NewFlowError("onboarding has already finished", step)
	case f.processing:
		return apperrors.NewFlowError("step is still processing", step)
	}
	return nil
}

// startProcessing must be called with f.mu held.
func (f *Flow) startProcessing(step domain.StepDescriptor, label string, form steps.Form, payload domain.Data) {
	f.processing = true
	f.processingLabel = label
	f.pendingID++
	id := f.pendingID
	f.publish(domain.EventProcessingStarted, step)

	f.cancelPending = f.cfg.Verifier.Start(string(step.Kind), func() {
		f.finishProcessing(id, step, form, payload)
	})
}

func (f *Flow) finishProcessing(id int, step domain.StepDescriptor, form steps.Form, payload domain.Data) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed || !f.processing || id != f.pendingID {
		return
	}
	f.processing = false
	f.processingLabel = ""
	f.cancelPending = nil
	f.publish(domain.EventProcessingFinished, step)

	if _, err := f.accept(context.Background(), step, form, payload); err != nil {
		f.cfg.Logger.Error("Failed to accept verified step",
			zap.String("session_id", f.cfg.SessionID),
			zap.String("step", step.Kind.String()),
			zap.Error(err),
		)
		f.lastError = err.Error()
		f.publishError(step, f.lastError)
	}
}

// accept commits the form's side effects and advances. Must be called with f.mu held.
func (f *Flow) accept(ctx context.Context, step domain.StepDescriptor, form steps.Form, payload domain.Data) (Outcome, error) {
	if c, ok := form.(steps.Committer); ok {
		if f.cfg.Store == nil {
			return "", apperrors.NewStoreError("no profile store for session", "commit", step.Kind.String(), store.ErrNoProvider)
		}
		env := steps.CommitEnv{
			Store:    f.cfg.Store,
			UserType: f.cfg.UserType,
			Data:     f.seq.State().AccumulatedData,
			Now:      f.cfg.Now(),
			FileURL:  f.cfg.FileURL,
		}
		if err := c.Commit(ctx, env); err != nil {
			return "", err
		}
	}

	outcome := f.seq.Advance(payload)
	f.lastOutcome = outcome
	switch outcome {
	case OutcomeAdvanced:
		f.publish(domain.EventStepAdvanced, f.seq.CurrentStep())
	case OutcomeCompleted:
		f.publish(domain.EventCompleted, step)
	}
	f.cfg.Logger.Info("Onboarding step accepted",
		zap.String("session_id", f.cfg.SessionID),
		zap.String("step", step.Kind.String()),
		zap.String("outcome", string(outcome)),
	)
	return outcome, nil
}

func (f *Flow) result(outcome Outcome) SubmitResult {
	res := SubmitResult{Outcome: outcome}
	if !f.seq.Finished() {
		step := f.seq.CurrentStep()
		res.Step = &step
	}
	return res
}

func (f *Flow) publish(t domain.EventType, step domain.StepDescriptor) {
	f.emit(domain.Event{Type: t, Step: step.Index, Kind: step.Kind})
}

func (f *Flow) publishError(step domain.StepDescriptor, msg string) {
	f.emit(domain.Event{Type: domain.EventProcessingFailed, Step: step.Index, Kind: step.Kind, Error: msg})
}

func (f *Flow) emit(e domain.Event) {
	if f.cfg.Publisher == nil {
		return
	}
	e.SessionID = f.cfg.SessionID
	e.View = domain.ViewOnboarding
	e.Timestamp = f.cfg.Now()
	f.cfg.Publisher.Publish(e)
}
