// Package clipboard copies reports to the user's clipboard through the
// terminal, using the OSC 52 escape sequence. This works over SSH and inside
// tmux or screen, without any system clipboard tool.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aymanbagabas/go-osc52/v2"
	"golang.org/x/term"
)

// ErrClipboardUnavailable is returned when the output is not a terminal.
var ErrClipboardUnavailable = errors.New("clipboard unavailable: output is not a terminal")

// Multiplexer selects how the sequence is wrapped for a terminal multiplexer.
type Multiplexer int

const (
	MultiplexerNone Multiplexer = iota
	MultiplexerTmux
	MultiplexerScreen
)

// DetectMultiplexer inspects the environment for tmux or screen.
func DetectMultiplexer() Multiplexer {
	switch {
	case os.Getenv("TMUX") != "":
		return MultiplexerTmux
	case strings.HasPrefix(os.Getenv("TERM"), "screen"):
		return MultiplexerScreen
	}
	return MultiplexerNone
}

// OSC52 writes clipboard sequences to a terminal.
type OSC52 struct {
	w   io.Writer
	tty bool
	mux Multiplexer
}

// NewOSC52 returns a clipboard writing to f. Copying fails with
// ErrClipboardUnavailable unless f is a terminal.
func NewOSC52(f *os.File) *OSC52 {
	return &OSC52{w: f, tty: term.IsTerminal(int(f.Fd())), mux: DetectMultiplexer()}
}

// NewWriter returns a clipboard that writes sequences to w unconditionally.
func NewWriter(w io.Writer, mux Multiplexer) *OSC52 {
	return &OSC52{w: w, tty: true, mux: mux}
}

// Copy writes text as an OSC 52 clipboard sequence.
func (c *OSC52) Copy(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !c.tty {
		return ErrClipboardUnavailable
	}
	seq := osc52.New(text)
	switch c.mux {
	case MultiplexerTmux:
		seq = seq.Tmux()
	case MultiplexerScreen:
		seq = seq.Screen()
	}
	if _, err := seq.WriteTo(c.w); err != nil {
		return fmt.Errorf("write clipboard sequence: %w", err)
	}
	return nil
}
