package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/tribble/internal/logging"
	"github.com/aretw0/tribble/internal/presentation/html"
	"github.com/aretw0/tribble/pkg/domain"
	"github.com/aretw0/tribble/pkg/ports"
	"github.com/aretw0/tribble/pkg/session"
)

// maxBodySize bounds request bodies.
const maxBodySize = 64 << 10

// SessionObserver is notified when sessions are created or deleted.
type SessionObserver interface {
	SessionCreated()
	SessionDeleted()
}

// Server exposes the session operations of an engine as a JSON API.
type Server struct {
	Engine   ports.Engine
	Sessions *session.Manager
	Streams  *StreamManager

	logger   *slog.Logger
	markdown *html.Renderer
	metrics  http.Handler
	observer SessionObserver
	version  string
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMetrics serves h at /metrics and reports session counts to observer.
func WithMetrics(h http.Handler, observer SessionObserver) Option {
	return func(s *Server) {
		s.metrics = h
		s.observer = observer
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// NewServer creates a Server storing sessions in sessions.
func NewServer(engine ports.Engine, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		Engine:   engine,
		Sessions: sessions,
		Streams:  NewStreamManager(),
		logger:   logging.NewNop(),
		markdown: html.NewRenderer(),
		version:  "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine ports.Engine, sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(engine, sessions, opts...).Routes()
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/locales", s.GetLocales)
	r.Get("/workflows", s.GetWorkflows)
	r.Get("/events", s.SubscribeEvents)
	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/edit", s.Edit)
			r.Post("/advance", s.Advance)
			r.Post("/jump", s.Jump)
			r.Get("/report", s.Report)
		})
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SessionView is the JSON form of a session.
type SessionView struct {
	ID     string `json:"id"`
	Locale string `json:"locale"`
	*domain.Snapshot
	// Markup holds the HTML of each element, aligned with Elements.
	// Only text elements have markup.
	Markup []string `json:"markup,omitempty"`
	// EndpointMarkup is the HTML of an instructional endpoint or of a
	// report preamble.
	EndpointMarkup string `json:"endpoint_markup,omitempty"`
	Error          string `json:"error,omitempty"`
}

// CreateSessionRequest is the body of POST /sessions.
type CreateSessionRequest struct {
	Locale   string `json:"locale"`
	Workflow string `json:"workflow"`
}

// EditRequest is the body of POST /sessions/{id}/edit.
type EditRequest struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// AdvanceRequest is the body of POST /sessions/{id}/advance.
type AdvanceRequest struct {
	Progression int `json:"progression"`
}

// JumpRequest is the body of POST /sessions/{id}/jump.
type JumpRequest struct {
	Index int `json:"index"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "tribble-http",
		"version": strings.TrimSpace(s.version),
	})
}

// GetLocales handles the GET /locales request.
func (s *Server) GetLocales(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine.Locales())
}

// GetWorkflows handles the GET /workflows?locale= request.
func (s *Server) GetWorkflows(w http.ResponseWriter, r *http.Request) {
	names, err := s.Engine.Workflows(r.URL.Query().Get("locale"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, names)
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// CreateSession handles the POST /sessions request.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body CreateSessionRequest
	if !s.decode(w, r, &body) {
		return
	}
	state, err := s.Engine.Start(r.Context(), body.Locale, body.Workflow)
	if err != nil {
		s.fail(w, err)
		return
	}
	state, err = s.Sessions.Create(r.Context(), state)
	if err != nil {
		s.fail(w, err)
		return
	}
	if s.observer != nil {
		s.observer.SessionCreated()
	}
	s.logger.Info("Session started", "session_id", state.ID, "workflow", state.Workflow, "locale", state.Locale)
	s.respond(w, r, http.StatusCreated, state, nil)
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	state, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respond(w, r, http.StatusOK, state, nil)
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.fail(w, err)
		return
	}
	if s.observer != nil {
		s.observer.SessionDeleted()
	}
	s.logger.Info("Session deleted", "session_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// ExpireIdle deletes the sessions idle for longer than maxIdle and returns
// how many were removed.
func (s *Server) ExpireIdle(ctx context.Context, maxIdle time.Duration) (int, error) {
	expired, err := s.Sessions.Expire(ctx, maxIdle)
	for _, id := range expired {
		if s.observer != nil {
			s.observer.SessionDeleted()
		}
		s.logger.Info("Session expired", "session_id", id)
	}
	return len(expired), err
}

// Edit handles the POST /sessions/{id}/edit request. Values the input
// cannot hold answer 422.
func (s *Server) Edit(w http.ResponseWriter, r *http.Request) {
	var body EditRequest
	if !s.decode(w, r, &body) {
		return
	}
	s.update(w, r, func(ctx context.Context, st *domain.SessionState) (*domain.SessionState, error) {
		return s.Engine.Edit(ctx, st, body.ID, body.Value)
	})
}

// Advance handles the POST /sessions/{id}/advance request. An advance
// rejected by empty required inputs answers 422 with the flagged session.
func (s *Server) Advance(w http.ResponseWriter, r *http.Request) {
	var body AdvanceRequest
	if !s.decode(w, r, &body) {
		return
	}
	s.update(w, r, func(ctx context.Context, st *domain.SessionState) (*domain.SessionState, error) {
		return s.Engine.Advance(ctx, st, body.Progression)
	})
}

// Jump handles the POST /sessions/{id}/jump request.
func (s *Server) Jump(w http.ResponseWriter, r *http.Request) {
	var body JumpRequest
	if !s.decode(w, r, &body) {
		return
	}
	s.update(w, r, func(ctx context.Context, st *domain.SessionState) (*domain.SessionState, error) {
		return s.Engine.Jump(ctx, st, body.Index)
	})
}

// Report handles the GET /sessions/{id}/report request.
func (s *Server) Report(w http.ResponseWriter, r *http.Request) {
	state, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	report, err := s.Engine.Report(r.Context(), state)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, report)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request, fn func(context.Context, *domain.SessionState) (*domain.SessionState, error)) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	state, err := s.Sessions.Update(ctx, id, func(st *domain.SessionState) (*domain.SessionState, error) {
		return fn(ctx, st)
	})

	var required *domain.RequiredInputError
	if errors.As(err, &required) && state != nil {
		s.logger.Debug("Advance rejected", "session_id", id, "missing", required.IDs)
		s.respond(w, r, http.StatusUnprocessableEntity, state, err)
		return
	}
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respond(w, r, http.StatusOK, state, nil)
}

// respond renders state, broadcasts it to subscribers and writes it.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, state *domain.SessionState, cause error) {
	view, err := s.view(r.Context(), state)
	if err != nil {
		s.fail(w, err)
		return
	}
	if cause != nil {
		view.Error = cause.Error()
	}
	if data, err := json.Marshal(view); err == nil {
		s.Streams.Broadcast(state.ID, string(data))
	}
	s.writeJSON(w, status, view)
}

func (s *Server) view(ctx context.Context, state *domain.SessionState) (*SessionView, error) {
	snap, err := s.Engine.Render(ctx, state)
	if err != nil {
		return nil, err
	}
	view := &SessionView{ID: state.ID, Locale: state.Locale, Snapshot: snap}
	if len(snap.Elements) > 0 {
		view.Markup = make([]string, len(snap.Elements))
		for i, elem := range snap.Elements {
			if elem.Kind != domain.ElementText {
				continue
			}
			if view.Markup[i], err = s.markdown.Render(elem.Text); err != nil {
				return nil, err
			}
		}
	}
	if ep := snap.Endpoint; ep != nil {
		source := ep.Text
		if ep.Kind == domain.EndpointReport {
			source = ep.Preamble
		}
		if source != "" {
			if view.EndpointMarkup, err = s.markdown.Render(source); err != nil {
				return nil, err
			}
		}
	}
	return view, nil
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.logger.Warn("Invalid request body", "path", r.URL.Path, "error", err)
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

// fail maps an error to its status code and writes it.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", "error", err)
	}
	s.writeError(w, status, err.Error())
}

func statusOf(err error) int {
	var (
		locale      *domain.LocaleNotFoundError
		workflow    *domain.WorkflowNotFoundError
		unresolved  *domain.UnresolvedLinkError
		history     *domain.HistoryIndexError
		progression *domain.ProgressionIndexError
		required    *domain.RequiredInputError
		input       *domain.UnknownInputError
		option      *domain.InvalidOptionError
	)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.As(err, &locale),
		errors.As(err, &workflow):
		return http.StatusNotFound
	case errors.As(err, &unresolved), errors.Is(err, domain.ErrNotAtEndpoint):
		return http.StatusConflict
	case errors.As(err, &required), errors.As(err, &option):
		return http.StatusUnprocessableEntity
	case errors.As(err, &history), errors.As(err, &progression), errors.As(err, &input):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		return 499
	}
	return http.StatusInternalServerError
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// StreamManager handles active SSE connections
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // SessionID -> Set of Channels
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

func (sm *StreamManager) Subscribe(sessionID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[sessionID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sessionID)
			}
		}
	}
}

// Broadcast sends msg to every subscriber of the session. Slow subscribers
// miss messages rather than blocking the request.
func (sm *StreamManager) Broadcast(sessionID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- msg:
		default:
		}
	}
}

// SubscribeEvents handles the GET /events request (SSE). With a session_id
// parameter it streams the session view after every change. Without one
// it streams configuration reloads, when the engine can watch.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	var events <-chan string
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		watcher, ok := s.Engine.(ports.Watchable)
		if !ok {
			s.writeError(w, http.StatusNotImplemented, "engine does not support watching")
			return
		}
		ch, err := watcher.Watch(r.Context())
		if err != nil {
			s.fail(w, err)
			return
		}
		events = ch
	} else {
		ch, cancel := s.Streams.Subscribe(sessionID)
		defer cancel()
		events = ch
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
