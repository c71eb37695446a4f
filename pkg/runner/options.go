package runner

import (
	"log/slog"

	"github.com/aretw0/tribble/pkg/ports"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithClipboard configures where reports are copied to.
func WithClipboard(clip ports.Clipboard) Option {
	return func(r *Runner) {
		r.Clipboard = clip
	}
}
