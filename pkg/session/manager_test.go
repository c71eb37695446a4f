package session_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tribble/pkg/adapters/memory"
	"github.com/aretw0/tribble/pkg/domain"
	"github.com/aretw0/tribble/pkg/session"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	data map[string]*domain.SessionState
	mu   sync.Mutex
}

func (s *SlowStore) Save(ctx context.Context, sessionID string, state *domain.SessionState) error {
	time.Sleep(time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]*domain.SessionState)
	}
	s.data[sessionID] = state.Clone()
	return nil
}

func (s *SlowStore) Load(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	time.Sleep(time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()

	if state, ok := s.data[sessionID]; ok {
		return state.Clone(), nil
	}
	return nil, domain.ErrSessionNotFound
}

func (s *SlowStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

func (s *SlowStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

func newState(workflow string) *domain.SessionState {
	return &domain.SessionState{
		Workflow: workflow,
		History:  []domain.HistoryEntry{{Location: domain.Location("start"), Tags: []string{}}},
	}
}

func TestManager_UpdateSerializes(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store, session.WithIDGenerator(func() string { return "race-test" }))
	ctx := context.Background()

	created, err := manager.Create(ctx, newState("report"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	concurrentWrites := 20

	// Every update is a read-modify-write; without the session lock some
	// increments would be lost.
	for i := 0; i < concurrentWrites; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Update(ctx, created.ID, func(st *domain.SessionState) (*domain.SessionState, error) {
				st.FormValues["count"] += "x"
				return st, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	final, err := manager.Load(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, final.FormValues["count"], concurrentWrites)
}

func TestManager_Create(t *testing.T) {
	n := 0
	manager := session.NewManager(memory.NewStore(), session.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("s%d", n)
	}))
	ctx := context.Background()

	input := newState("report")
	input.Locale = "en"
	created, err := manager.Create(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, "s1", created.ID)
	assert.Empty(t, input.ID, "caller state must not be mutated")
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	loaded, err := manager.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "en", loaded.Locale)
	assert.Equal(t, "report", loaded.Workflow)

	ids, err := manager.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids)
}

func TestManager_CreateDefaultIDs(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	a, err := manager.Create(ctx, newState("report"))
	require.NoError(t, err)
	b, err := manager.Create(ctx, newState("report"))
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestManager_Update(t *testing.T) {
	ctx := context.Background()
	errRejected := errors.New("rejected")

	t.Run("Unknown Session", func(t *testing.T) {
		manager := session.NewManager(memory.NewStore())
		_, err := manager.Update(ctx, "missing", func(st *domain.SessionState) (*domain.SessionState, error) {
			t.Fatal("fn must not run")
			return st, nil
		})
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Identity Is Preserved", func(t *testing.T) {
		manager := session.NewManager(memory.NewStore())
		created, err := manager.Create(ctx, newState("report"))
		require.NoError(t, err)

		next, err := manager.Update(ctx, created.ID, func(st *domain.SessionState) (*domain.SessionState, error) {
			return &domain.SessionState{ID: "other", Workflow: st.Workflow, History: st.History}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, created.ID, next.ID)
		assert.Equal(t, created.CreatedAt, next.CreatedAt)
		assert.False(t, next.UpdatedAt.Before(created.UpdatedAt))
	})

	t.Run("State With Error Is Saved", func(t *testing.T) {
		manager := session.NewManager(memory.NewStore())
		created, err := manager.Create(ctx, newState("report"))
		require.NoError(t, err)

		next, err := manager.Update(ctx, created.ID, func(st *domain.SessionState) (*domain.SessionState, error) {
			st.Flagged = []string{"title"}
			return st, errRejected
		})
		assert.ErrorIs(t, err, errRejected)
		require.NotNil(t, next)

		loaded, err := manager.Load(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"title"}, loaded.Flagged)
	})

	t.Run("Nil State Is Not Saved", func(t *testing.T) {
		manager := session.NewManager(memory.NewStore())
		created, err := manager.Create(ctx, newState("report"))
		require.NoError(t, err)

		next, err := manager.Update(ctx, created.ID, func(st *domain.SessionState) (*domain.SessionState, error) {
			return nil, errRejected
		})
		assert.ErrorIs(t, err, errRejected)
		assert.Nil(t, next)

		loaded, err := manager.Load(ctx, created.ID)
		require.NoError(t, err)
		assert.Empty(t, loaded.Flagged)
	})
}

func TestManager_Delete(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	created, err := manager.Create(ctx, newState("report"))
	require.NoError(t, err)

	require.NoError(t, manager.Delete(ctx, created.ID))
	_, err = manager.Load(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	assert.ErrorIs(t, manager.Delete(ctx, created.ID), domain.ErrSessionNotFound)
}

func TestManager_CancelledContext(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := manager.Create(ctx, newState("report"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestManager_Expire(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	manager := session.NewManager(memory.NewStore(), session.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	stale, err := manager.Create(ctx, newState("report"))
	require.NoError(t, err)

	now = now.Add(30 * time.Minute)
	fresh, err := manager.Create(ctx, newState("report"))
	require.NoError(t, err)

	now = now.Add(45 * time.Minute)
	expired, err := manager.Expire(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{stale.ID}, expired)

	_, err = manager.Load(ctx, stale.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = manager.Load(ctx, fresh.ID)
	assert.NoError(t, err)

	_, err = manager.Update(ctx, fresh.ID, func(st *domain.SessionState) (*domain.SessionState, error) {
		return st, nil
	})
	require.NoError(t, err)
	now = now.Add(59 * time.Minute)
	expired, err = manager.Expire(ctx, time.Hour)
	require.NoError(t, err)
	assert.Empty(t, expired, "an update keeps the session alive")
}
