package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventStep   EventType = "step"
	EventReset  EventType = "reset"
	EventReject EventType = "reject"
)

// RejectKind tells which precondition an operation violated.
type RejectKind string

const (
	RejectState  RejectKind = "state"
	RejectSymbol RejectKind = "symbol"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// StepEvent is emitted after a symbol has been consumed.
type StepEvent struct {
	EventBase
	Transition
}

// ResetEvent is emitted after the current state was overwritten.
type ResetEvent struct {
	EventBase
	From StateID `json:"from"`
	To   StateID `json:"to"`
}

// RejectEvent is emitted when an operation fails validation. No state was changed.
type RejectEvent struct {
	EventBase
	Kind RejectKind `json:"kind"`
	Err  error      `json:"-"`
}

// LifecycleHooks defines callbacks for machine observability.
// Hooks run synchronously on the goroutine driving the machine.
type LifecycleHooks struct {
	OnStep   func(*StepEvent)
	OnReset  func(*ResetEvent)
	OnReject func(*RejectEvent)
}
