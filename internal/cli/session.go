package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/tribble"
	"github.com/aretw0/tribble/internal/presentation/tui"
	"github.com/aretw0/tribble/pkg/clipboard"
	"github.com/aretw0/tribble/pkg/runner"
)

// RunSession runs one session of a workflow on the terminal until the user
// quits, the input ends or ctx is cancelled.
func RunSession(ctx context.Context, opts Options, stdin io.Reader, stdout io.Writer) error {
	logger := createLogger(opts, slog.LevelWarn)

	engine, err := createEngine(opts, logger)
	if err != nil {
		return err
	}
	name, err := selectWorkflow(engine, opts)
	if err != nil {
		return err
	}
	state, err := engine.Start(ctx, opts.Locale, name)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	logger.Info("Session started", "workflow", name, "locale", state.Locale)

	r := runner.NewRunner(createRunnerOptions(opts, logger, stdin, stdout)...)
	final, runErr := r.Run(ctx, engine, state)

	if !opts.JSON && final != nil && final.Cursor < len(final.History) {
		printSystemMessage(stdout, "Finished at '%s'.", final.History[final.Cursor].Location)
	}
	return handleExecutionError(runErr)
}

// createRunnerOptions picks the IO handler for the output. A terminal gets
// the banner, rendered markdown and the OSC 52 clipboard.
func createRunnerOptions(opts Options, logger *slog.Logger, stdin io.Reader, stdout io.Writer) []runner.Option {
	runnerOpts := []runner.Option{runner.WithLogger(logger)}

	if opts.JSON {
		return append(runnerOpts, runner.WithInputHandler(runner.NewJSONHandler(stdin, stdout)))
	}

	width, tty := terminalWidth(stdout)
	renderer := tui.NewPlainRenderer()
	if tty && !opts.Plain {
		tui.PrintBanner(stdout, tribble.Version)
		renderer = tui.NewRenderer(width)
	}
	runnerOpts = append(runnerOpts, runner.WithInputHandler(
		runner.NewTextHandler(stdin, stdout,
			runner.WithTextHandlerRenderer(renderer),
			runner.WithMaxInputSize(opts.MaxInput),
		),
	))

	if f, ok := stdout.(*os.File); ok && tty {
		runnerOpts = append(runnerOpts, runner.WithClipboard(clipboard.NewOSC52(f)))
	}
	return runnerOpts
}
