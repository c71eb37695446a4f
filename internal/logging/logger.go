package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/tribble/pkg/domain"
)

// Format selects the handler used by NewWriter.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// New creates a configured application logger.
// It writes to Stderr to keep Stdout free for the questionnaire and reports.
// It standardizes common keys (e.g., "error" -> "err").
func New(level slog.Level) *slog.Logger {
	return NewWriter(os.Stderr, level, FormatText)
}

// NewWriter creates a logger writing to w in the given format.
func NewWriter(w io.Writer, level slog.Level, format Format) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}
	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a level name (debug, info, warn, error) to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", name)
	}
	return level, nil
}

// Hooks returns lifecycle hooks that log every session event at debug level.
func Hooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLocationEnter: func(ctx context.Context, e *domain.LocationEvent) {
			logger.DebugContext(ctx, "location_enter", "workflow", e.Workflow, "location", e.Location, "cursor", e.Cursor)
		},
		OnAdvance: func(ctx context.Context, e *domain.AdvanceEvent) {
			logger.DebugContext(ctx, "advance", "workflow", e.Workflow, "from", e.From, "to", e.To, "tags", e.Tags, "truncated", e.Truncated)
		},
		OnJump: func(ctx context.Context, e *domain.LocationEvent) {
			logger.DebugContext(ctx, "jump", "workflow", e.Workflow, "location", e.Location, "cursor", e.Cursor)
		},
		OnValidationFailed: func(ctx context.Context, e *domain.ValidationEvent) {
			logger.DebugContext(ctx, "validation_failed", "workflow", e.Workflow, "location", e.Location, "missing", e.Missing)
		},
		OnReportRendered: func(ctx context.Context, e *domain.ReportEvent) {
			logger.DebugContext(ctx, "report_rendered", "workflow", e.Workflow, "endpoint", e.Endpoint, "tags", e.Tags)
		},
	}
}
