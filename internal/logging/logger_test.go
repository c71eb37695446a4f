package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tribble/pkg/domain"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{" warn ", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewWriter_RenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, slog.LevelInfo, FormatJSON)
	logger.Info("failed", "error", "boom")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "boom", entry["err"])
	assert.NotContains(t, entry, "error")
}

func TestNewWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, slog.LevelWarn, FormatText)
	logger.Info("hidden")
	assert.Empty(t, buf.String())
	logger.Warn("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestHooks(t *testing.T) {
	var buf bytes.Buffer
	hooks := Hooks(NewWriter(&buf, slog.LevelDebug, FormatText))
	ctx := context.Background()

	hooks.OnAdvance(ctx, &domain.AdvanceEvent{
		EventBase: domain.EventBase{Workflow: "report"},
		From:      "start",
		To:        "bug",
	})
	hooks.OnValidationFailed(ctx, &domain.ValidationEvent{
		EventBase: domain.EventBase{Workflow: "report"},
		Location:  "bug",
		Missing:   []string{"title"},
	})

	out := buf.String()
	assert.Contains(t, out, "msg=advance")
	assert.Contains(t, out, "from=start")
	assert.Contains(t, out, "msg=validation_failed")
	assert.Contains(t, out, "missing=[title]")
}
