package ports

import (
	"context"

	"github.com/aretw0/tribble/pkg/domain"
)

// Engine runs session transitions against persisted state. Each call
// rebuilds the session from state, applies one operation and returns the
// resulting state; the input state is never modified.
type Engine interface {
	// Locales returns the available locales.
	Locales() []string

	// Workflows returns the workflow names defined for a locale.
	Workflows(locale string) ([]string, error)

	// Start creates the state of a new session at the workflow's index section.
	Start(ctx context.Context, locale, workflow string) (*domain.SessionState, error)

	// Render returns the read model for the state without changing it.
	Render(ctx context.Context, state *domain.SessionState) (*domain.Snapshot, error)

	// Edit sets an input value of the current section.
	Edit(ctx context.Context, state *domain.SessionState, id, value string) (*domain.SessionState, error)

	// Advance takes a progression of the current section. When required
	// inputs are empty it returns both the flagged state and a
	// *domain.RequiredInputError.
	Advance(ctx context.Context, state *domain.SessionState, progression int) (*domain.SessionState, error)

	// Jump moves to an earlier history entry.
	Jump(ctx context.Context, state *domain.SessionState, index int) (*domain.SessionState, error)

	// Report renders the report at the current report endpoint.
	Report(ctx context.Context, state *domain.SessionState) (string, error)
}
