package tribble

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/aretw0/tribble/internal/logging"
	"github.com/aretw0/tribble/internal/runtime"
	"github.com/aretw0/tribble/pkg/config"
	"github.com/aretw0/tribble/pkg/domain"
	"github.com/aretw0/tribble/pkg/ports"
)

// Engine is the high-level entry point for the Tribble library.
// It resolves workflows from a source and runs session transitions against
// persisted state. An Engine is safe for concurrent use; the states it is
// given are never modified.
type Engine struct {
	mu     sync.RWMutex
	source ports.WorkflowSource

	path     string
	loadOpts []config.Option
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

var (
	_ ports.Engine    = (*Engine)(nil)
	_ ports.Watchable = (*Engine)(nil)
)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks. Hooks from repeated
// options are all called, in order.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLoadOptions passes options to the configuration loader.
func WithLoadOptions(opts ...config.Option) Option {
	return func(e *Engine) {
		e.loadOpts = append(e.loadOpts, opts...)
	}
}

func newEngine(opts []Option) *Engine {
	e := &Engine{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// New loads the configuration document at path, following the language
// files of a Root document, and returns an Engine serving its workflows.
func New(path string, opts ...Option) (*Engine, error) {
	if path == "" {
		return nil, errors.New("config path is required")
	}
	e := newEngine(opts)
	e.path = path
	b, err := e.load()
	if err != nil {
		return nil, err
	}
	e.source = b
	return e, nil
}

// NewFromSource returns an Engine serving the workflows of src. Such an
// Engine cannot be reloaded or watched unless src supports it.
func NewFromSource(src ports.WorkflowSource, opts ...Option) (*Engine, error) {
	if src == nil {
		return nil, errors.New("workflow source is nil")
	}
	e := newEngine(opts)
	e.source = src
	return e, nil
}

func (e *Engine) load() (*config.Bundle, error) {
	opts := append([]config.Option{config.WithLogger(e.logger)}, e.loadOpts...)
	return config.LoadBundle(e.path, opts...)
}

// Reload reads the configuration files again. On failure the workflows
// already loaded stay in service. Sessions started before a reload continue
// against the new workflows as long as every location they visited still
// exists.
func (e *Engine) Reload() error {
	if e.path == "" {
		return errors.New("engine was not loaded from a file")
	}
	b, err := e.load()
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.source = b
	e.mu.Unlock()
	e.logger.Info("Configuration reloaded", "path", e.path, "locales", b.Locales())
	return nil
}

// Source returns the workflow source currently in service.
func (e *Engine) Source() ports.WorkflowSource {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.source
}

// Watch returns a channel that signals when the underlying configuration
// changes. It watches the files of the configuration loaded at the time of
// the call.
func (e *Engine) Watch(ctx context.Context) (<-chan string, error) {
	src := e.Source()
	if b, ok := src.(*config.Bundle); ok {
		return config.Watch(ctx, b.Paths(), config.WithLogger(e.logger))
	}
	if w, ok := src.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current source does not support watching")
}

// Locales returns the available locales.
func (e *Engine) Locales() []string {
	return e.Source().Locales()
}

// Workflows returns the sorted workflow names defined for locale.
func (e *Engine) Workflows(locale string) ([]string, error) {
	cfg, err := e.Source().Language(locale)
	if err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(cfg.Workflows)), nil
}

// Workflow returns the named workflow of locale.
func (e *Engine) Workflow(locale, name string) (*domain.Workflow, error) {
	wf, _, err := e.Source().Workflow(locale, name)
	return wf, err
}

// Start creates the state of a new session at the workflow's index section.
// An empty locale selects the first available one.
func (e *Engine) Start(ctx context.Context, locale, workflow string) (*domain.SessionState, error) {
	src := e.Source()
	wf, cfg, err := src.Workflow(locale, workflow)
	if err != nil {
		return nil, err
	}
	s, err := runtime.NewSession(ctx, wf, e.sessionOpts(wf, cfg)...)
	if err != nil {
		return nil, err
	}
	st := s.State()
	st.Locale = resolveLocale(src, locale)
	return st, nil
}

// Render returns the read model for state without changing it.
func (e *Engine) Render(ctx context.Context, state *domain.SessionState) (*domain.Snapshot, error) {
	s, err := e.restore(ctx, state)
	if err != nil {
		return nil, err
	}
	return s.Snapshot(), nil
}

// Edit sets an input value of the current section.
func (e *Engine) Edit(ctx context.Context, state *domain.SessionState, id, value string) (*domain.SessionState, error) {
	s, err := e.restore(ctx, state)
	if err != nil {
		return nil, err
	}
	if err := s.Edit(id, value); err != nil {
		return nil, err
	}
	return next(state, s), nil
}

// Advance takes the progression at index. When required inputs are empty
// it returns the state with their error flags set together with a
// *domain.RequiredInputError.
func (e *Engine) Advance(ctx context.Context, state *domain.SessionState, progression int) (*domain.SessionState, error) {
	s, err := e.restore(ctx, state)
	if err != nil {
		return nil, err
	}
	if err := s.Advance(ctx, progression); err != nil {
		var required *domain.RequiredInputError
		if errors.As(err, &required) {
			return next(state, s), err
		}
		return nil, err
	}
	return next(state, s), nil
}

// Jump moves to the history entry at index.
func (e *Engine) Jump(ctx context.Context, state *domain.SessionState, index int) (*domain.SessionState, error) {
	s, err := e.restore(ctx, state)
	if err != nil {
		return nil, err
	}
	if err := s.Jump(ctx, index); err != nil {
		return nil, err
	}
	return next(state, s), nil
}

// Report renders the report at the current report endpoint.
func (e *Engine) Report(ctx context.Context, state *domain.SessionState) (string, error) {
	s, err := e.restore(ctx, state)
	if err != nil {
		return "", err
	}
	return s.Report(ctx)
}

// CopyReport renders the report and hands it to clip without blocking.
// The returned channel yields the outcome once.
func (e *Engine) CopyReport(ctx context.Context, state *domain.SessionState, clip ports.Clipboard) <-chan error {
	s, err := e.restore(ctx, state)
	if err != nil {
		done := make(chan error, 1)
		done <- err
		close(done)
		return done
	}
	return s.CopyReport(ctx, clip)
}

func (e *Engine) restore(ctx context.Context, state *domain.SessionState) (*runtime.Session, error) {
	if state == nil {
		return nil, errors.New("session state is nil")
	}
	wf, cfg, err := e.Source().Workflow(state.Locale, state.Workflow)
	if err != nil {
		return nil, err
	}
	return runtime.Restore(ctx, wf, state, e.sessionOpts(wf, cfg)...)
}

func (e *Engine) sessionOpts(wf *domain.Workflow, cfg *domain.Config) []runtime.Option {
	opts := []runtime.Option{
		runtime.WithLogger(e.logger.With("workflow", wf.Name)),
		runtime.WithLifecycleHooks(e.hooks),
	}
	if cfg != nil && cfg.InputErrorMessage != "" {
		opts = append(opts, runtime.WithInputErrorMessage(cfg.InputErrorMessage))
	}
	return opts
}

// next carries the identity of prev over to the state of s.
func next(prev *domain.SessionState, s *runtime.Session) *domain.SessionState {
	st := s.State()
	st.ID = prev.ID
	st.Locale = prev.Locale
	st.CreatedAt = prev.CreatedAt
	st.UpdatedAt = prev.UpdatedAt
	return st
}

// resolveLocale names the locale an empty request falls back to.
func resolveLocale(src ports.WorkflowSource, locale string) string {
	if locale != "" {
		return locale
	}
	locales := src.Locales()
	if len(locales) == 0 || slices.Contains(locales, "") {
		return locale
	}
	return locales[0]
}
