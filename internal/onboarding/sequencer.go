// Package onboarding drives one onboarding run: the linear step sequencer, the
// cancellable verification task and the flow that ties forms, store and events together.
package onboarding

import (
	"fmt"

	"github.com/kapu/collabhub-go/internal/domain"
)

// Outcome reports what an Advance or Retreat call did.
type Outcome string

const (
	OutcomeAdvanced  Outcome = "advanced"
	OutcomeRetreated Outcome = "retreated"
	OutcomeCompleted Outcome = "completed"
	OutcomeAbandoned Outcome = "abandoned"
	// OutcomeIgnored is returned for events arriving after the run finished.
	OutcomeIgnored Outcome = "ignored"
)

// State is a snapshot of the sequencer position and the answers collected so far.
type State struct {
	CurrentStepIndex int         `json:"currentStepIndex"`
	AccumulatedData  domain.Data `json:"-"`
}

// Sequencer walks the fixed step sequence of one user type. It is not safe for
// concurrent use; Flow serialises access.
type Sequencer struct {
	userType   domain.UserType
	steps      []domain.StepDescriptor
	index      int
	data       domain.Data
	finished   bool
	onComplete func(domain.Data)
	onAbandon  func()
}

// NewSequencer starts at step 1 with empty data. onComplete receives a copy of the
// accumulated data. Either callback may be nil.
func NewSequencer(u domain.UserType, onComplete func(domain.Data), onAbandon func()) *Sequencer {
	return &Sequencer{
		userType:   u,
		steps:      domain.Steps(u),
		index:      1,
		data:       domain.Data{},
		onComplete: onComplete,
		onAbandon:  onAbandon,
	}
}

func (s *Sequencer) UserType() domain.UserType {
	return s.userType
}

func (s *Sequencer) Len() int {
	return len(s.steps)
}

func (s *Sequencer) Finished() bool {
	return s.finished
}

// Advance merges payload and moves to the next step, or completes the run at the last step.
func (s *Sequencer) Advance(payload domain.Data) Outcome {
	if s.finished {
		return OutcomeIgnored
	}
	s.data.Merge(payload)
	if s.index == len(s.steps) {
		s.finished = true
		if s.onComplete != nil {
			s.onComplete(s.data.Clone())
		}
		return OutcomeCompleted
	}
	s.index++
	return OutcomeAdvanced
}

// Retreat moves back one step, or abandons the run from step 1. Data is kept.
func (s *Sequencer) Retreat() Outcome {
	if s.finished {
		return OutcomeIgnored
	}
	if s.index == 1 {
		s.finished = true
		if s.onAbandon != nil {
			s.onAbandon()
		}
		return OutcomeAbandoned
	}
	s.index--
	return OutcomeRetreated
}

// CurrentStep returns the descriptor at the current index. An out-of-range index
// is a broken invariant and panics.
func (s *Sequencer) CurrentStep() domain.StepDescriptor {
	if s.index < 1 || s.index > len(s.steps) {
		panic(fmt.Sprintf("onboarding: step index %d out of range [1,%d] for %s", s.index, len(s.steps), s.userType))
	}
	return s.steps[s.index-1]
}

func (s *Sequencer) State() State {
	return State{
		CurrentStepIndex: s.index,
		AccumulatedData:  s.data.Clone(),
	}
}

// StepProgress is a descriptor with its position relative to the current step.
type StepProgress struct {
	domain.StepDescriptor
	State domain.StepState `json:"state"`
}

func (s *Sequencer) Progress() []StepProgress {
	out := make([]StepProgress, len(s.steps))
	for i, d := range s.steps {
		out[i] = StepProgress{StepDescriptor: d, State: domain.StateAt(d.Index, s.index)}
	}
	return out
}
