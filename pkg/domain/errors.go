package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrNotAtEndpoint is returned when a report is requested away from a report endpoint.
var ErrNotAtEndpoint = errors.New("current location is not a report endpoint")

// UnresolvedLinkError is returned when a link names no section or endpoint.
type UnresolvedLinkError struct {
	Workflow string
	Link     string
}

func (e *UnresolvedLinkError) Error() string {
	return fmt.Sprintf("workflow '%s': link '%s' does not resolve to a section or endpoint", e.Workflow, e.Link)
}

// HistoryIndexError is returned when a jump targets an index outside the history.
type HistoryIndexError struct {
	Index int
	Len   int
}

func (e *HistoryIndexError) Error() string {
	return fmt.Sprintf("history index %d out of range [0, %d)", e.Index, e.Len)
}

// ProgressionIndexError is returned when an advance names a progression the
// current location does not have.
type ProgressionIndexError struct {
	Location Location
	Index    int
	Count    int
}

func (e *ProgressionIndexError) Error() string {
	return fmt.Sprintf("location '%s' has %d progressions, index %d is invalid", e.Location, e.Count, e.Index)
}

// RequiredInputError is returned when an advance is rejected because required
// inputs are empty. It is recoverable: the error flags of the listed inputs are
// set and the user may retry.
type RequiredInputError struct {
	Location Location
	IDs      []string
}

func (e *RequiredInputError) Error() string {
	return fmt.Sprintf("location '%s' has empty required inputs: %s", e.Location, strings.Join(e.IDs, ", "))
}

// UnknownInputError is returned when an edit names an input the current section
// does not render.
type UnknownInputError struct {
	Location Location
	ID       string
}

func (e *UnknownInputError) Error() string {
	return fmt.Sprintf("location '%s' has no input '%s'", e.Location, e.ID)
}

// InvalidOptionError is returned when a select value names an option the input
// does not define, or several options for a single select.
type InvalidOptionError struct {
	ID     string
	Value  string
	Reason string
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("input '%s': invalid value '%s': %s", e.ID, e.Value, e.Reason)
}

// LocaleNotFoundError is returned when a locale has no language file.
type LocaleNotFoundError struct {
	Locale    string
	Available []string
}

func (e *LocaleNotFoundError) Error() string {
	return fmt.Sprintf("locale '%s' not found (available: %s)", e.Locale, strings.Join(e.Available, ", "))
}

// WorkflowNotFoundError is returned when a workflow name is not defined.
type WorkflowNotFoundError struct {
	Name      string
	Available []string
}

func (e *WorkflowNotFoundError) Error() string {
	return fmt.Sprintf("workflow '%s' not found (available: %s)", e.Name, strings.Join(e.Available, ", "))
}
