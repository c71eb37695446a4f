package clipboard

import (
	"bytes"
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSC52_Copy(t *testing.T) {
	var buf bytes.Buffer
	clip := NewWriter(&buf, MultiplexerNone)

	require.NoError(t, clip.Copy(context.Background(), "hello"))

	out := buf.String()
	assert.Contains(t, out, "\x1b]52;c;")
	assert.Contains(t, out, base64.StdEncoding.EncodeToString([]byte("hello")))
}

func TestOSC52_Tmux(t *testing.T) {
	var buf bytes.Buffer
	clip := NewWriter(&buf, MultiplexerTmux)

	require.NoError(t, clip.Copy(context.Background(), "hello"))
	assert.Contains(t, buf.String(), "\x1bPtmux;")
}

func TestOSC52_NotATerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()

	clip := NewOSC52(f)
	assert.ErrorIs(t, clip.Copy(context.Background(), "hello"), ErrClipboardUnavailable)
}

func TestOSC52_Cancelled(t *testing.T) {
	var buf bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, NewWriter(&buf, MultiplexerNone).Copy(ctx, "hello"), context.Canceled)
	assert.Empty(t, buf.String())
}

func TestDetectMultiplexer(t *testing.T) {
	t.Setenv("TMUX", "/tmp/tmux-1000/default,1,0")
	assert.Equal(t, MultiplexerTmux, DetectMultiplexer())

	t.Setenv("TMUX", "")
	t.Setenv("TERM", "screen-256color")
	assert.Equal(t, MultiplexerScreen, DetectMultiplexer())

	t.Setenv("TERM", "xterm")
	assert.Equal(t, MultiplexerNone, DetectMultiplexer())
}
