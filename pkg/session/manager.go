package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/tribble/internal/logging"
	"github.com/aretw0/tribble/pkg/domain"
	"github.com/aretw0/tribble/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.SessionStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithIDGenerator overrides how new session IDs are minted.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}

// WithClock overrides the time source used to stamp and expire sessions.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a new Session Manager with the given persistence store.
func NewManager(store ports.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		locks:  make(map[string]*lockEntry),
		logger: logging.NewNop(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Create assigns a new ID to state, stamps it and persists it.
func (m *Manager) Create(ctx context.Context, state *domain.SessionState) (*domain.SessionState, error) {
	created := state.Clone()
	created.ID = m.newID()
	created.CreatedAt = m.now()
	created.UpdatedAt = created.CreatedAt

	err := m.WithLock(ctx, created.ID, func(ctx context.Context) error {
		if err := m.store.Save(ctx, created.ID, created); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.logger.Debug("Session created", "session_id", created.ID, "workflow", created.Workflow, "locale", created.Locale)
	return created, nil
}

// Load retrieves an existing session from the store.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	var state *domain.SessionState
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		state, err = m.store.Load(ctx, sessionID)
		return err
	})
	return state, err
}

// Update loads a session, applies fn and saves the state it returns, all
// while holding the session lock. When fn returns a state together with an
// error the state is still saved; this records rejected advances, whose
// error flags are part of the session. The error from fn is returned as is.
func (m *Manager) Update(ctx context.Context, sessionID string, fn func(*domain.SessionState) (*domain.SessionState, error)) (*domain.SessionState, error) {
	var result *domain.SessionState
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		current, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}

		next, fnErr := fn(current)
		if next == nil {
			return fnErr
		}
		next.ID = current.ID
		next.Locale = current.Locale
		next.CreatedAt = current.CreatedAt
		next.UpdatedAt = m.now()

		if err := m.store.Save(ctx, sessionID, next); err != nil {
			return errors.Join(fnErr, fmt.Errorf("failed to save session: %w", err))
		}
		result = next
		return fnErr
	})
	return result, err
}

// Save persists the session state.
func (m *Manager) Save(ctx context.Context, sessionID string, state *domain.SessionState) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Save(ctx, sessionID, state)
	})
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		if _, err := m.store.Load(ctx, sessionID); err != nil {
			return err
		}
		return m.store.Delete(ctx, sessionID)
	})
}

// Expire deletes every session not updated within maxIdle and returns the
// deleted ids. Sessions removed concurrently are skipped.
func (m *Manager) Expire(ctx context.Context, maxIdle time.Duration) ([]string, error) {
	ids, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}
	cutoff := m.now().Add(-maxIdle)
	var expired []string
	for _, id := range ids {
		err := m.WithLock(ctx, id, func(ctx context.Context) error {
			state, err := m.store.Load(ctx, id)
			if err != nil {
				return err
			}
			if !state.UpdatedAt.Before(cutoff) {
				return nil
			}
			if err := m.store.Delete(ctx, id); err != nil {
				return err
			}
			expired = append(expired, id)
			return nil
		})
		if errors.Is(err, domain.ErrSessionNotFound) {
			continue
		}
		if err != nil {
			return expired, err
		}
	}
	if len(expired) > 0 {
		m.logger.Debug("Sessions expired", "count", len(expired), "max_idle", maxIdle)
	}
	return expired, nil
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
