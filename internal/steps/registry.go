package steps

import (
	"errors"
	"fmt"
	"sync"

	"github.com/kapu/collabhub-go/internal/domain"
)

// ErrUnknownStep is returned when a form is requested for an unregistered kind.
var ErrUnknownStep = errors.New("unknown step kind")

// Factory builds an empty form for a user type.
type Factory func(userType domain.UserType) Form

// Entry describes how a step kind is handled.
type Entry struct {
	Kind domain.StepKind
	New  Factory
	// Delayed steps run the simulated verification or payment before they advance.
	Delayed bool
	// ProcessingLabel is shown while a delayed step is processing.
	ProcessingLabel string
}

// Registry maps step kinds to their form factories.
type Registry struct {
	mu      sync.RWMutex
	entries map[domain.StepKind]Entry
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[domain.StepKind]Entry),
	}
}

// DefaultRegistry registers every form shipped with the service.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Entry{Kind: domain.StepSignUp, New: newSignUp})
	r.Register(Entry{Kind: domain.StepKYC, New: newKYC, Delayed: true, ProcessingLabel: "Verifying your documents"})
	r.Register(Entry{Kind: domain.StepBusinessKYC, New: newBusinessKYC, Delayed: true, ProcessingLabel: "Verifying business documents"})
	r.Register(Entry{Kind: domain.StepSocialConnection, New: newSocialConnection})
	r.Register(Entry{Kind: domain.StepProfileCreation, New: newProfileCreation})
	r.Register(Entry{Kind: domain.StepSubscription, New: newSubscription, Delayed: true, ProcessingLabel: "Processing payment"})
	return r
}

// Register adds or replaces the entry for its kind. Entries without a factory are ignored.
func (r *Registry) Register(e Entry) {
	if e.New == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.Kind] = e
}

// Lookup returns the entry registered for kind.
func (r *Registry) Lookup(kind domain.StepKind) (Entry, error) {
	if r == nil {
		return Entry{}, fmt.Errorf("step registry is nil")
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[kind]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownStep, kind)
	}
	return e, nil
}
