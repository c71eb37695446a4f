package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/tribble/internal/presentation/graph"
	"github.com/aretw0/tribble/pkg/config"
	"github.com/aretw0/tribble/pkg/schema"
)

// Validate loads the configuration with schema and link checks enabled and
// prints a summary of every locale.
func Validate(opts Options, out io.Writer) error {
	logger := createLogger(opts, slog.LevelWarn)
	b, err := config.LoadBundle(opts.ConfigPath,
		config.WithLogger(logger),
		config.WithSchemaValidation(),
		config.WithLinkCheck(),
	)
	if err != nil {
		return err
	}
	for _, locale := range b.Locales() {
		lang := b.Languages[locale]
		label := locale
		if label == config.DefaultLocale {
			label = "(default)"
		}
		fmt.Fprintf(out, "%s: %d workflows\n", label, len(lang.Workflows))
	}
	return nil
}

// Graph prints a Mermaid diagram of a workflow.
func Graph(opts Options, out io.Writer) error {
	logger := createLogger(opts, slog.LevelWarn)
	engine, err := createEngine(opts, logger)
	if err != nil {
		return err
	}
	name, err := selectWorkflow(engine, opts)
	if err != nil {
		return err
	}
	wf, err := engine.Workflow(opts.Locale, name)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, graph.GenerateMermaid(wf, nil))
	return err
}

// Workflows prints the workflow names of a locale, one per line.
func Workflows(opts Options, out io.Writer) error {
	logger := createLogger(opts, slog.LevelWarn)
	engine, err := createEngine(opts, logger)
	if err != nil {
		return err
	}
	names, err := engine.Workflows(opts.Locale)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}

// PrintSchema writes the JSON Schema of the configuration document.
func PrintSchema(out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(schema.Document())
}
