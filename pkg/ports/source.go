package ports

import (
	"context"

	"github.com/aretw0/tribble/pkg/domain"
)

// WorkflowSource resolves workflows by locale and name.
type WorkflowSource interface {
	// Locales returns the available locales in sorted order.
	Locales() []string

	// Language returns the Language document for a locale.
	// Returns *domain.LocaleNotFoundError for unknown locales.
	Language(locale string) (*domain.Config, error)

	// Workflow returns a workflow and the Language document holding it.
	// Returns *domain.WorkflowNotFoundError for unknown names.
	Workflow(locale, name string) (*domain.Workflow, *domain.Config, error)
}

// Watchable defines an interface for sources that can notify about backend changes.
type Watchable interface {
	// Watch returns a channel that receives the name of each changed file.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}
