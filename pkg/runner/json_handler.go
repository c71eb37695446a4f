package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/tribble/pkg/domain"
)

// JSONHandler implements the IOHandler interface for structured JSON-Lines
// communication: one snapshot object per output line, one command object
// per input line.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// Message is one line written by the JSONHandler.
type Message struct {
	Type     string           `json:"type"`
	Snapshot *domain.Snapshot `json:"snapshot,omitempty"`
	Message  string           `json:"message,omitempty"`
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Output(ctx context.Context, snap *domain.Snapshot) error {
	return h.Encoder.Encode(Message{Type: "snapshot", Snapshot: snap})
}

// Input decodes the next non-blank line as a Command. Edit values are taken
// as stored, except that select values are checked against the options.
func (h *JSONHandler) Input(ctx context.Context, snap *domain.Snapshot) (Command, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Command{}, err
		}
		line, err := h.Reader.ReadString('\n')
		text := strings.TrimSpace(line)
		if text == "" {
			if err != nil {
				return Command{}, err
			}
			continue
		}

		var cmd Command
		if jerr := json.Unmarshal([]byte(text), &cmd); jerr != nil {
			h.SystemOutput(ctx, fmt.Sprintf("invalid command: %v", jerr))
			if err != nil {
				return Command{}, err
			}
			continue
		}
		if cmd.Kind == CommandEdit {
			field, ferr := ResolveField(snap, cmd.ID)
			if ferr == nil {
				ferr = field.Input.Check(cmd.Value)
			}
			if ferr != nil {
				h.SystemOutput(ctx, ferr.Error())
				if err != nil {
					return Command{}, err
				}
				continue
			}
		}
		return cmd, nil
	}
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(Message{Type: "system", Message: msg})
}
