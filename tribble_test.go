package tribble_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tribble"
	"github.com/aretw0/tribble/pkg/adapters/memory"
	"github.com/aretw0/tribble/pkg/config"
	"github.com/aretw0/tribble/pkg/domain"
)

const feedbackYAML = `
input_err_msg: "Required."
workflows:
  feedback:
    tags: [bug, ui]
    index: start
    sections:
      start:
        - "What happened?"
        - { id: title, label: "Title" }
        - { id: area, label: "Area", options: ["Core", { text: "Interface", tags: [ui] }] }
        - { text: "Report it", link: "endpoint:summary", tags: [bug] }
        - { text: "Nothing", link: "endpoint:bye" }
    endpoints:
      summary:
        preamble: "Paste this."
        text: "# ${title} (${area})"
      bye: "Thanks!"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tribble.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestEngine_Lifecycle(t *testing.T) {
	eng, err := tribble.New(writeConfig(t, feedbackYAML))
	require.NoError(t, err)
	ctx := context.Background()

	names, err := eng.Workflows("")
	require.NoError(t, err)
	assert.Equal(t, []string{"feedback"}, names)

	state, err := eng.Start(ctx, "", "feedback")
	require.NoError(t, err)
	assert.Equal(t, []domain.HistoryEntry{{Location: "start", Tags: []string{}}}, state.History)

	snap, err := eng.Render(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, "Required.", snap.InputErrorMessage)
	assert.Len(t, snap.Fields, 2)
	assert.Len(t, snap.Progressions, 2)

	// Empty required inputs reject the advance but flag the fields.
	flagged, err := eng.Advance(ctx, state, 0)
	var required *domain.RequiredInputError
	require.ErrorAs(t, err, &required)
	assert.Equal(t, []string{"title", "area"}, required.IDs)
	require.NotNil(t, flagged)
	assert.Equal(t, []string{"title", "area"}, flagged.Flagged)
	assert.Equal(t, 0, flagged.Cursor)

	state, err = eng.Edit(ctx, flagged, "title", "Crash")
	require.NoError(t, err)
	state, err = eng.Edit(ctx, state, "area", "Interface")
	require.NoError(t, err)

	state, err = eng.Advance(ctx, state, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.EndpointLocation("summary"), state.History[state.Cursor].Location)
	assert.Equal(t, []string{"bug", "ui"}, state.History[0].Tags)

	report, err := eng.Report(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, "# Crash (Interface)\n\n<section>\n<details>Tribble internal data</details>\n\nYnVnLHVp\n\n</section>", report)

	snap, err = eng.Render(ctx, state)
	require.NoError(t, err)
	require.NotNil(t, snap.Endpoint)
	assert.Equal(t, "Paste this.", snap.Endpoint.Preamble)
	assert.True(t, snap.Terminal())

	state, err = eng.Jump(ctx, state, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, state.Cursor)
	assert.Len(t, state.History, 2)
	_, err = eng.Report(ctx, state)
	assert.ErrorIs(t, err, domain.ErrNotAtEndpoint)
}

func TestEngine_StateIsNotModified(t *testing.T) {
	eng, err := tribble.New(writeConfig(t, feedbackYAML))
	require.NoError(t, err)
	ctx := context.Background()

	state, err := eng.Start(ctx, "", "feedback")
	require.NoError(t, err)
	state.ID = "s1"
	state.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	before := state.Clone()

	edited, err := eng.Edit(ctx, state, "title", "x")
	require.NoError(t, err)
	assert.Equal(t, before, state)
	assert.Equal(t, "s1", edited.ID)
	assert.Equal(t, before.CreatedAt, edited.CreatedAt)
	assert.Equal(t, "x", edited.FormValues["title"])
}

func TestEngine_Errors(t *testing.T) {
	eng, err := tribble.New(writeConfig(t, feedbackYAML))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = eng.Start(ctx, "", "missing")
	var wfErr *domain.WorkflowNotFoundError
	assert.ErrorAs(t, err, &wfErr)

	_, err = eng.Start(ctx, "de", "feedback")
	var locErr *domain.LocaleNotFoundError
	assert.ErrorAs(t, err, &locErr)

	state, err := eng.Start(ctx, "", "feedback")
	require.NoError(t, err)

	_, err = eng.Edit(ctx, state, "nope", "x")
	var inputErr *domain.UnknownInputError
	assert.ErrorAs(t, err, &inputErr)

	_, err = eng.Advance(ctx, state, 7)
	var progErr *domain.ProgressionIndexError
	assert.ErrorAs(t, err, &progErr)

	_, err = eng.Jump(ctx, state, 3)
	var histErr *domain.HistoryIndexError
	assert.ErrorAs(t, err, &histErr)

	_, err = eng.Render(ctx, nil)
	assert.Error(t, err)

	_, err = tribble.New("")
	assert.Error(t, err)

	_, err = tribble.New(filepath.Join(t.TempDir(), "absent.yaml"))
	var fsErr *config.FilesystemError
	assert.ErrorAs(t, err, &fsErr)
}

func TestEngine_RootConfig(t *testing.T) {
	eng, err := tribble.New(filepath.Join("pkg", "config", "testdata", "root.yaml"))
	require.NoError(t, err)
	ctx := context.Background()

	assert.Equal(t, []string{"en", "fr"}, eng.Locales())

	state, err := eng.Start(ctx, "", "report")
	require.NoError(t, err)
	assert.Equal(t, "en", state.Locale)

	state, err = eng.Start(ctx, "fr", "rapport")
	require.NoError(t, err)
	state, err = eng.Advance(ctx, state, 0)
	require.NoError(t, err)

	snap, err := eng.Render(ctx, state)
	require.NoError(t, err)
	require.NotNil(t, snap.Endpoint)
	assert.Equal(t, domain.EndpointInstructional, snap.Endpoint.Kind)
	assert.Equal(t, "Merci", snap.Endpoint.Text)
}

func TestEngine_Reload(t *testing.T) {
	path := writeConfig(t, feedbackYAML)
	eng, err := tribble.New(path)
	require.NoError(t, err)
	ctx := context.Background()

	state, err := eng.Start(ctx, "", "feedback")
	require.NoError(t, err)
	state, err = eng.Edit(ctx, state, "title", "x")
	require.NoError(t, err)
	state, err = eng.Edit(ctx, state, "area", "Core")
	require.NoError(t, err)
	state, err = eng.Advance(ctx, state, 1)
	require.NoError(t, err)

	t.Run("Broken File Keeps Old Workflows", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("workflows: ["), 0644))
		var parseErr *config.ParseError
		assert.ErrorAs(t, eng.Reload(), &parseErr)

		_, err := eng.Render(ctx, state)
		assert.NoError(t, err)
	})

	t.Run("Vanished Location", func(t *testing.T) {
		changed := `
workflows:
  feedback:
    index: start
    sections:
      start:
        - { text: "Go", link: "endpoint:done" }
    endpoints:
      done: "Done"
`
		require.NoError(t, os.WriteFile(path, []byte(changed), 0644))
		require.NoError(t, eng.Reload())

		_, err := eng.Render(ctx, state)
		var linkErr *domain.UnresolvedLinkError
		require.ErrorAs(t, err, &linkErr)
		assert.Equal(t, "endpoint:bye", linkErr.Link)

		fresh, err := eng.Start(ctx, "", "feedback")
		require.NoError(t, err)
		snap, err := eng.Render(ctx, fresh)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultInputErrorMessage, snap.InputErrorMessage)
	})
}

func TestEngine_FromSource(t *testing.T) {
	wf := &domain.Workflow{
		Name:  "tiny",
		Index: "start",
		Sections: map[string]domain.Section{
			"start": {domain.ProgressionElement(domain.Progression{Text: "End", Link: "endpoint:end", Tags: []string{"done"}})},
		},
		Endpoints: map[string]domain.Endpoint{
			"end": {Kind: domain.EndpointReport, Text: "ok"},
		},
	}
	src, err := memory.NewFromWorkflows("en", wf)
	require.NoError(t, err)

	var entered []domain.Location
	eng, err := tribble.NewFromSource(src, tribble.WithLifecycleHooks(domain.LifecycleHooks{
		OnLocationEnter: func(_ context.Context, ev *domain.LocationEvent) {
			entered = append(entered, ev.Location)
		},
	}))
	require.NoError(t, err)
	ctx := context.Background()

	state, err := eng.Start(ctx, "en", "tiny")
	require.NoError(t, err)
	state, err = eng.Advance(ctx, state, 0)
	require.NoError(t, err)
	assert.Equal(t, []domain.Location{"start", "endpoint:end"}, entered)

	report, err := eng.Report(ctx, state)
	require.NoError(t, err)
	assert.Contains(t, report, "ZG9uZQ==")

	assert.Error(t, eng.Reload())
	_, err = eng.Watch(ctx)
	assert.Error(t, err)

	_, err = tribble.NewFromSource(nil)
	assert.Error(t, err)
}
