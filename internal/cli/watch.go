package cli

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/aretw0/tribble"
	"github.com/aretw0/tribble/pkg/config"
)

// reloadDelay lets editors finish writing before the files are read again.
const reloadDelay = 100 * time.Millisecond

// watchAndReload reloads the engine whenever one of its configuration files
// changes, until ctx is done. A failed reload keeps the previous
// configuration in service. When a reload changes the set of language
// files, the watcher is restarted on the new set.
func watchAndReload(ctx context.Context, engine *tribble.Engine, logger *slog.Logger, out io.Writer) error {
	for {
		paths := sourcePaths(engine)
		watchCtx, cancel := context.WithCancel(ctx)
		events, err := engine.Watch(watchCtx)
		if err != nil {
			cancel()
			return err
		}
		logger.Info("Watching configuration", "paths", paths)

		restart := false
		for name := range events {
			printSystemMessage(out, "Change detected in '%s'.", name)
			select {
			case <-ctx.Done():
			case <-time.After(reloadDelay):
			}
			if ctx.Err() != nil {
				break
			}
			if err := engine.Reload(); err != nil {
				logger.Error("Reload failed, keeping the previous configuration", "err", err)
				printSystemMessage(out, "Reload failed: %v", err)
				continue
			}
			printSystemMessage(out, "Configuration reloaded.")
			if !slices.Equal(paths, sourcePaths(engine)) {
				restart = true
				break
			}
		}
		cancel()
		if !restart {
			return nil
		}
	}
}

func sourcePaths(engine *tribble.Engine) []string {
	if b, ok := engine.Source().(*config.Bundle); ok {
		return b.Paths()
	}
	return nil
}
