package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tribble/pkg/domain"
)

func contractState(id string) *domain.SessionState {
	return &domain.SessionState{
		ID:       id,
		Locale:   "en",
		Workflow: "report",
		History: []domain.HistoryEntry{
			{Location: "start", Tags: []string{"bug"}},
			{Location: "details", Tags: []string{}},
		},
		Cursor:     1,
		FormValues: map[string]string{"title": "Crash"},
	}
}

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore
// implementation adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := contractState(sessionID)

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.History, loaded.History)
		assert.Equal(t, state.Cursor, loaded.Cursor)
		assert.Equal(t, "Crash", loaded.FormValues["title"])
	})

	t.Run("Isolation", func(t *testing.T) {
		state := contractState(sessionID)
		require.NoError(t, store.Save(ctx, sessionID, state))

		state.FormValues["title"] = "changed after save"
		state.History[0].Tags[0] = "changed"

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "Crash", loaded.FormValues["title"])
		assert.Equal(t, "bug", loaded.History[0].Tags[0])

		loaded.FormValues["title"] = "changed after load"
		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "Crash", again.FormValues["title"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, contractState(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, contractState(id1))
		_ = store.Save(ctx, id2, contractState(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunWorkflowSourceContract verifies that a WorkflowSource resolves the given
// workflow and reports typed errors for unknown locales and names.
func RunWorkflowSourceContract(t *testing.T, src WorkflowSource, locale, workflow string) {
	t.Helper()

	t.Run("Locales", func(t *testing.T) {
		locales := src.Locales()
		require.NotEmpty(t, locales)
		assert.IsNonDecreasing(t, locales, "locales are sorted")
		assert.Contains(t, locales, locale)
	})

	t.Run("Workflow_Success", func(t *testing.T) {
		wf, lang, err := src.Workflow(locale, workflow)
		require.NoError(t, err)
		assert.Equal(t, workflow, wf.Name)
		assert.Same(t, wf, lang.Workflows[workflow])
	})

	t.Run("Default locale", func(t *testing.T) {
		_, err := src.Language("")
		assert.NoError(t, err)
	})

	t.Run("Unknown locale", func(t *testing.T) {
		_, err := src.Language("xx-non-existent")
		var localeErr *domain.LocaleNotFoundError
		assert.ErrorAs(t, err, &localeErr)
	})

	t.Run("Unknown workflow", func(t *testing.T) {
		_, _, err := src.Workflow(locale, "non-existent-workflow")
		var wfErr *domain.WorkflowNotFoundError
		assert.ErrorAs(t, err, &wfErr)
	})
}
