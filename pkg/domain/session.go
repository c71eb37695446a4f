package domain

import (
	"maps"
	"slices"
	"time"
)

// SessionState is the persisted form of a running session. It holds
// everything needed to rebuild the session against its workflow.
type SessionState struct {
	ID       string `json:"id"`
	Locale   string `json:"locale"`
	Workflow string `json:"workflow"`

	History    []HistoryEntry    `json:"history"`
	Cursor     int               `json:"cursor"`
	FormValues map[string]string `json:"form_values"`
	// Flagged lists the inputs of the current section whose error flag is set.
	Flagged []string `json:"flagged,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the state.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}
	next := *s
	next.History = make([]HistoryEntry, len(s.History))
	for i, h := range s.History {
		next.History[i] = h.Clone()
	}
	next.FormValues = maps.Clone(s.FormValues)
	if next.FormValues == nil {
		next.FormValues = make(map[string]string)
	}
	next.Flagged = slices.Clone(s.Flagged)
	return &next
}
