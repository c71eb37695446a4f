package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/tribble"
	"github.com/aretw0/tribble/internal/logging"
	"github.com/aretw0/tribble/pkg/config"
	"github.com/aretw0/tribble/pkg/domain"
)

// createEngine loads the configuration at opts.ConfigPath. Debug mode logs
// every session event.
func createEngine(opts Options, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*tribble.Engine, error) {
	engineOpts := []tribble.Option{
		tribble.WithLogger(logger),
		tribble.WithLoadOptions(config.WithLogger(logger)),
	}
	if opts.Debug {
		engineOpts = append(engineOpts, tribble.WithLifecycleHooks(logging.Hooks(logger)))
	}
	for _, h := range hooks {
		engineOpts = append(engineOpts, tribble.WithLifecycleHooks(h))
	}

	engine, err := tribble.New(opts.ConfigPath, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}

// selectWorkflow returns the workflow named by opts, or the only workflow
// of the locale when none is named.
func selectWorkflow(engine *tribble.Engine, opts Options) (string, error) {
	if opts.Workflow != "" {
		return opts.Workflow, nil
	}
	names, err := engine.Workflows(opts.Locale)
	if err != nil {
		return "", err
	}
	switch len(names) {
	case 0:
		return "", fmt.Errorf("locale %q defines no workflows", opts.Locale)
	case 1:
		return names[0], nil
	}
	return "", fmt.Errorf("choose a workflow with --workflow (available: %s)", strings.Join(names, ", "))
}
