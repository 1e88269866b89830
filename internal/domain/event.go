package domain

import "time"

type EventType string

const (
	EventStepAdvanced       EventType = "step_advanced"
	EventStepRetreated      EventType = "step_retreated"
	EventProcessingStarted  EventType = "processing_started"
	EventProcessingFinished EventType = "processing_finished"
	EventProcessingFailed   EventType = "processing_failed"
	EventCompleted          EventType = "completed"
	EventAbandoned          EventType = "abandoned"
	EventViewChanged        EventType = "view_changed"
)

func (e EventType) String() string {
	return string(e)
}

// Event is published to session subscribers whenever onboarding or the view changes.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"sessionId"`
	Step      int       `json:"step,omitempty"`
	Kind      StepKind  `json:"kind,omitempty"`
	View      View      `json:"view,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
