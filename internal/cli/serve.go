package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/aretw0/tribble"
	"github.com/aretw0/tribble/internal/metrics"
	httpAdapter "github.com/aretw0/tribble/pkg/adapters/http"
	"github.com/aretw0/tribble/pkg/adapters/memory"
	"github.com/aretw0/tribble/pkg/persistence/middleware"
	"github.com/aretw0/tribble/pkg/ports"
	"github.com/aretw0/tribble/pkg/session"
)

// shutdownTimeout bounds the wait for in-flight requests on shutdown.
const shutdownTimeout = 5 * time.Second

// Server is the HTTP server and the engine behind it.
type Server struct {
	HTTP   *http.Server
	API    *httpAdapter.Server
	Engine *tribble.Engine

	logger *slog.Logger
}

// NewServer loads the configuration and builds the HTTP server. Sessions
// live in memory for the lifetime of the process.
func NewServer(opts Options, logger *slog.Logger) (*Server, error) {
	collector := metrics.New()
	engine, err := createEngine(opts, logger, collector.Hooks())
	if err != nil {
		return nil, err
	}

	var store ports.SessionStore = memory.NewStore()
	if opts.SessionKey != "" {
		key, err := middleware.ParseKey(opts.SessionKey)
		if err != nil {
			return nil, fmt.Errorf("invalid session key: %w", err)
		}
		encrypt, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			return nil, err
		}
		store = middleware.Chain(store, encrypt)
	}

	sessions := session.NewManager(store, session.WithLogger(logger))
	api := httpAdapter.NewServer(engine, sessions,
		httpAdapter.WithLogger(logger),
		httpAdapter.WithMetrics(collector.Handler(), collector),
		httpAdapter.WithVersion(tribble.Version),
	)

	return &Server{
		HTTP: &http.Server{
			Addr:              opts.Addr(),
			Handler:           api.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		API:    api,
		Engine: engine,
		logger: logger,
	}, nil
}

// Serve runs the HTTP server until ctx is done, then shuts it down
// gracefully. With opts.Watch the configuration is reloaded on change.
func Serve(ctx context.Context, opts Options, out io.Writer) error {
	logger := createLogger(opts, slog.LevelInfo)
	srv, err := NewServer(opts, logger)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", srv.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", srv.HTTP.Addr, err)
	}
	// Streams end with ctx so Shutdown does not wait for them.
	srv.HTTP.BaseContext = func(net.Listener) context.Context { return ctx }
	printSystemMessage(out, "Serving '%s' on http://%s", opts.ConfigPath, ln.Addr())

	if opts.Watch {
		go func() {
			if err := watchAndReload(ctx, srv.Engine, logger, out); err != nil {
				logger.Error("Watcher stopped", "err", err)
			}
		}()
	}

	if opts.SessionTTL > 0 {
		go srv.expireSessions(ctx, opts.SessionTTL)
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.HTTP.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.HTTP.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
		return srv.HTTP.Close()
	}
	printSystemMessage(out, "Server stopped.")
	return nil
}

// expireSessions removes idle sessions until ctx is done. It sweeps a few
// times per ttl, capped at once a minute.
func (s *Server) expireSessions(ctx context.Context, ttl time.Duration) {
	interval := min(ttl/4, time.Minute)
	if interval <= 0 {
		interval = ttl
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.API.ExpireIdle(ctx, ttl)
			if err != nil {
				s.logger.Warn("Session sweep failed", "err", err)
				continue
			}
			if n > 0 {
				s.logger.Debug("Session sweep", "expired", n)
			}
		}
	}
}
