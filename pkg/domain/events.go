package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventLocationEnter    EventType = "location_enter"
	EventAdvance          EventType = "advance"
	EventJump             EventType = "jump"
	EventValidationFailed EventType = "validation_failed"
	EventReportRendered   EventType = "report_rendered"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Workflow  string    `json:"workflow"`
}

// LocationEvent represents entering a section or an endpoint.
type LocationEvent struct {
	EventBase
	Location Location `json:"location"`
	Cursor   int      `json:"cursor"`
}

// AdvanceEvent represents a progression being taken.
type AdvanceEvent struct {
	EventBase
	From Location `json:"from"`
	To   Location `json:"to"`
	Tags []string `json:"tags"`
	// Truncated counts the history entries discarded by the advance.
	Truncated int `json:"truncated"`
}

// ValidationEvent represents an advance rejected by missing required inputs.
type ValidationEvent struct {
	EventBase
	Location Location `json:"location"`
	Missing  []string `json:"missing"`
}

// ReportEvent represents a report endpoint being rendered.
type ReportEvent struct {
	EventBase
	Endpoint string   `json:"endpoint"`
	Tags     []string `json:"tags"`
}

// LifecycleHooks defines callbacks for session observability.
type LifecycleHooks struct {
	OnLocationEnter    func(context.Context, *LocationEvent)
	OnAdvance          func(context.Context, *AdvanceEvent)
	OnJump             func(context.Context, *LocationEvent)
	OnValidationFailed func(context.Context, *ValidationEvent)
	OnReportRendered   func(context.Context, *ReportEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnLocationEnter:    chain(h.OnLocationEnter, other.OnLocationEnter),
		OnAdvance:          chain(h.OnAdvance, other.OnAdvance),
		OnJump:             chain(h.OnJump, other.OnJump),
		OnValidationFailed: chain(h.OnValidationFailed, other.OnValidationFailed),
		OnReportRendered:   chain(h.OnReportRendered, other.OnReportRendered),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
