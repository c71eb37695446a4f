package runner

import (
	"context"

	"github.com/aretw0/tribble/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents the current location to the user.
	Output(ctx context.Context, snap *domain.Snapshot) error

	// Input reads the next command. snap is the view the command refers to.
	// It returns io.EOF when no more commands will arrive.
	Input(ctx context.Context, snap *domain.Snapshot) (Command, error)

	// SystemOutput presents a meta-message to the user (e.g. validation
	// problems, clipboard status). This is distinct from content rendering.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer is a function that transforms markdown before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// CommandKind names what a Command does.
type CommandKind string

const (
	CommandAdvance CommandKind = "advance"
	CommandJump    CommandKind = "jump"
	CommandEdit    CommandKind = "edit"
	CommandCopy    CommandKind = "copy"
	CommandQuit    CommandKind = "quit"
)

// Command is one user decision. Index is zero-based and applies to advance
// (progression) and jump (history entry). ID and Value apply to edit.
type Command struct {
	Kind  CommandKind `json:"command"`
	Index int         `json:"index,omitempty"`
	ID    string      `json:"id,omitempty"`
	Value string      `json:"value,omitempty"`
}
