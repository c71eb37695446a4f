package tui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3")

	out := buf.String()
	assert.Contains(t, out, "1.2.3")
	// A buffer is not a terminal, so no escape sequences are written.
	assert.NotContains(t, out, "\x1b[")
}

func TestNewRenderer(t *testing.T) {
	render := NewRenderer(40)
	out, err := render("# Title\n\nSome **bold** text")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "bold")
}

func TestNewPlainRenderer(t *testing.T) {
	out, err := NewPlainRenderer()("**x**")
	require.NoError(t, err)
	assert.Equal(t, "**x**", out)
}
