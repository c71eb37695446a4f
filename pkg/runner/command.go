package runner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/tribble/pkg/domain"
)

// ErrEmptyCommand is returned by ParseCommand for a blank line.
var ErrEmptyCommand = errors.New("empty command")

// ParseCommand parses a line typed at the prompt:
//
//	<n>               take progression n
//	j <n>             jump to history entry n
//	e <field> [value] edit a field, by id or number
//	c                 copy the report
//	q                 quit
//
// Numbers are one-based. A field given by number is returned in ID as the
// number; ResolveField maps it to an input id.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{}, ErrEmptyCommand
	}
	if n, err := strconv.Atoi(line); err == nil {
		return Command{Kind: CommandAdvance, Index: n - 1}, nil
	}

	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch strings.ToLower(verb) {
	case "j", "jump":
		n, err := strconv.Atoi(rest)
		if err != nil {
			return Command{}, fmt.Errorf("jump needs a history number, got %q", rest)
		}
		return Command{Kind: CommandJump, Index: n - 1}, nil
	case "e", "edit":
		if rest == "" {
			return Command{}, errors.New("edit needs a field")
		}
		id, value, _ := strings.Cut(rest, " ")
		return Command{Kind: CommandEdit, ID: id, Value: strings.TrimSpace(value)}, nil
	case "c", "copy":
		return Command{Kind: CommandCopy}, nil
	case "q", "quit", "exit":
		return Command{Kind: CommandQuit}, nil
	}
	return Command{}, fmt.Errorf("unknown command %q", line)
}

// ResolveField finds a field of the snapshot by input id or one-based number.
func ResolveField(snap *domain.Snapshot, ref string) (domain.Field, error) {
	for _, f := range snap.Fields {
		if f.Input.ID == ref {
			return f, nil
		}
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(snap.Fields) {
		return snap.Fields[n-1], nil
	}
	return domain.Field{}, &domain.UnknownInputError{Location: snap.Location, ID: ref}
}

// ParseValue converts what the user typed for an input into its stored form.
// Select options may be given by text or one-based number, several separated
// by commas for a multi-select. Booleans accept y/n, yes/no, true/false and 1/0.
// Number and range inputs must be integers within their bounds.
func ParseValue(in domain.InputElement, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case in.Select != nil:
		return parseSelect(in.ID, in.Select, raw)
	case in.IsBoolean():
		switch strings.ToLower(raw) {
		case "y", "yes", "true", "1":
			return "true", nil
		case "n", "no", "false", "0", "":
			return "false", nil
		}
		return "", fmt.Errorf("input '%s': answer y or n", in.ID)
	case in.TextLike.Type == domain.InputNumber || in.TextLike.Type == domain.InputRange:
		if err := in.Check(raw); err != nil {
			return "", err
		}
	}
	return raw, nil
}

func parseSelect(id string, sel *domain.SelectInput, raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	parts := []string{raw}
	if sel.Multiple {
		parts = strings.Split(raw, ",")
	}
	choices := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if n, err := strconv.Atoi(p); err == nil && n >= 1 && n <= len(sel.Options) {
			p = sel.Options[n-1].Text
		}
		choices = append(choices, p)
	}
	value := sel.Join(choices)
	if err := sel.Check(id, value); err != nil {
		return "", err
	}
	return value, nil
}
