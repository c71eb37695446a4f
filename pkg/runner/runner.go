package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/tribble/internal/logging"
	"github.com/aretw0/tribble/pkg/domain"
	"github.com/aretw0/tribble/pkg/ports"
)

// ErrNoClipboard is reported when a copy is requested but no clipboard is configured.
var ErrNoClipboard = errors.New("no clipboard configured")

// Runner handles the interaction loop of a session using provided IO.
// It uses an IOHandler strategy to abstract the interaction mode (Text vs JSON).
type Runner struct {
	// Handler is the strategy for IO. Defaults to a TextHandler on Stdin/Stdout.
	Handler IOHandler

	// Clipboard receives copied reports. If nil, copying is reported as unavailable.
	Clipboard ports.Clipboard

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger
}

// reportCopier is implemented by engines that copy reports themselves.
type reportCopier interface {
	CopyReport(ctx context.Context, state *domain.SessionState, clip ports.Clipboard) <-chan error
}

// NewRunner creates a new Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	return r
}

// Run drives state until the user quits or the input ends, and returns the
// last state. Problems the user can fix are reported through the handler
// and do not stop the loop.
func (r *Runner) Run(ctx context.Context, engine ports.Engine, state *domain.SessionState) (*domain.SessionState, error) {
	for {
		snap, err := engine.Render(ctx, state)
		if err != nil {
			return state, fmt.Errorf("render error: %w", err)
		}
		if err := r.Handler.Output(ctx, snap); err != nil {
			return state, fmt.Errorf("output error: %w", err)
		}

		cmd, err := r.Handler.Input(ctx, snap)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return state, nil
			}
			return state, err
		}
		if cmd.Kind == CommandQuit {
			return state, nil
		}

		r.Logger.Debug("Command received", "command", cmd.Kind, "index", cmd.Index, "id", cmd.ID)
		next, err := r.apply(ctx, engine, state, cmd)
		if next != nil {
			state = next
		}
		if err != nil {
			if ctx.Err() != nil {
				return state, ctx.Err()
			}
			r.Handler.SystemOutput(ctx, describe(err, snap))
		}
	}
}

func (r *Runner) apply(ctx context.Context, engine ports.Engine, state *domain.SessionState, cmd Command) (*domain.SessionState, error) {
	switch cmd.Kind {
	case CommandAdvance:
		return engine.Advance(ctx, state, cmd.Index)
	case CommandJump:
		return engine.Jump(ctx, state, cmd.Index)
	case CommandEdit:
		return engine.Edit(ctx, state, cmd.ID, cmd.Value)
	case CommandCopy:
		if err := r.copyReport(ctx, engine, state); err != nil {
			return nil, err
		}
		r.Handler.SystemOutput(ctx, "Report copied to clipboard.")
		return nil, nil
	}
	return nil, fmt.Errorf("unknown command %q", cmd.Kind)
}

func (r *Runner) copyReport(ctx context.Context, engine ports.Engine, state *domain.SessionState) error {
	if r.Clipboard == nil {
		return ErrNoClipboard
	}

	var done <-chan error
	if c, ok := engine.(reportCopier); ok {
		done = c.CopyReport(ctx, state, r.Clipboard)
	} else {
		report, err := engine.Report(ctx, state)
		if err != nil {
			return err
		}
		ch := make(chan error, 1)
		go func() { ch <- r.Clipboard.Copy(ctx, report) }()
		done = ch
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// describe turns an engine error into a message for the user.
func describe(err error, snap *domain.Snapshot) string {
	var required *domain.RequiredInputError
	if errors.As(err, &required) {
		return fmt.Sprintf("%s (%d field(s) left empty)", snap.InputErrorMessage, len(required.IDs))
	}
	var progression *domain.ProgressionIndexError
	if errors.As(err, &progression) {
		if progression.Count == 0 {
			return "there is nowhere to go from here"
		}
		return fmt.Sprintf("choose a number between 1 and %d", progression.Count)
	}
	var history *domain.HistoryIndexError
	if errors.As(err, &history) {
		return fmt.Sprintf("choose a history entry between 1 and %d", history.Len)
	}
	if errors.Is(err, domain.ErrNotAtEndpoint) {
		return "there is no report to copy here"
	}
	return err.Error()
}
