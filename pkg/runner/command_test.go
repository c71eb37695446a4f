package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tribble/pkg/domain"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line    string
		want    Command
		wantErr bool
	}{
		{"2", Command{Kind: CommandAdvance, Index: 1}, false},
		{" j 1 ", Command{Kind: CommandJump, Index: 0}, false},
		{"jump 3", Command{Kind: CommandJump, Index: 2}, false},
		{"e title", Command{Kind: CommandEdit, ID: "title"}, false},
		{"e title Crash on save", Command{Kind: CommandEdit, ID: "title", Value: "Crash on save"}, false},
		{"c", Command{Kind: CommandCopy}, false},
		{"Q", Command{Kind: CommandQuit}, false},
		{"exit", Command{Kind: CommandQuit}, false},
		{"j x", Command{}, true},
		{"e", Command{}, true},
		{"dance", Command{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseCommand("   ")
	assert.ErrorIs(t, err, ErrEmptyCommand)
}

func TestResolveField(t *testing.T) {
	snap := &domain.Snapshot{
		Location: "bug",
		Fields: []domain.Field{
			{Input: domain.InputElement{ID: "title"}},
			{Input: domain.InputElement{ID: "area"}},
		},
	}

	f, err := ResolveField(snap, "area")
	require.NoError(t, err)
	assert.Equal(t, "area", f.Input.ID)

	f, err = ResolveField(snap, "1")
	require.NoError(t, err)
	assert.Equal(t, "title", f.Input.ID)

	_, err = ResolveField(snap, "3")
	var unknown *domain.UnknownInputError
	assert.ErrorAs(t, err, &unknown)
}

func TestParseValue(t *testing.T) {
	lo, hi := 1, 5
	single := domain.InputElement{ID: "area", Select: &domain.SelectInput{
		Options: []domain.SelectOption{{Text: "Backend"}, {Text: "Interface", Tags: []string{"ui"}}},
	}}
	multi := domain.InputElement{ID: "os", Select: &domain.SelectInput{
		Multiple: true,
		Options:  []domain.SelectOption{{Text: "Linux"}, {Text: "macOS"}, {Text: "Windows"}},
	}}
	boolean := domain.InputElement{ID: "crash", TextLike: &domain.TextInput{Type: domain.InputBoolean}}
	number := domain.InputElement{ID: "votes", TextLike: &domain.TextInput{Type: domain.InputRange, Min: &lo, Max: &hi}}
	text := domain.InputElement{ID: "title", TextLike: &domain.TextInput{Type: domain.InputText}}

	tests := []struct {
		name    string
		in      domain.InputElement
		raw     string
		want    string
		wantErr bool
	}{
		{"Select By Text", single, "Interface", "Interface", false},
		{"Select By Number", single, "1", "Backend", false},
		{"Select Unknown", single, "Frontend", "", true},
		{"Select Several On Single", single, "1, 2", "", true},
		{"Select Cleared", single, "", "", false},
		{"Multi By Numbers", multi, "1,3", "Linux, Windows", false},
		{"Multi Mixed", multi, "macOS, 1", "macOS, Linux", false},
		{"Multi Duplicate", multi, "1, Linux", "", true},
		{"Boolean Yes", boolean, "Y", "true", false},
		{"Boolean No", boolean, "no", "false", false},
		{"Boolean Blank", boolean, "", "false", false},
		{"Boolean Invalid", boolean, "maybe", "", true},
		{"Range In Bounds", number, "3", "3", false},
		{"Range Below", number, "0", "", true},
		{"Range Above", number, "6", "", true},
		{"Range Not Number", number, "three", "", true},
		{"Text Trimmed", text, "  Crash  ", "Crash", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseValue(tt.in, tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
