package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/tribble/pkg/domain"
)

func selectField(multiple bool, value string, options ...domain.SelectOption) domain.Field {
	return domain.Field{
		Input: domain.InputElement{ID: "sel", Label: "Sel", Select: &domain.SelectInput{Options: options, Multiple: multiple}},
		Value: value,
	}
}

func boolField(value string, tags ...string) domain.Field {
	return domain.Field{
		Input: domain.InputElement{ID: "flag", Label: "Flag", TextLike: &domain.TextInput{Type: domain.InputBoolean, Tags: tags}},
		Value: value,
	}
}

func TestFieldTags(t *testing.T) {
	tests := []struct {
		name  string
		field domain.Field
		want  []string
	}{
		{
			name:  "multi select with simple and tagged options",
			field: selectField(true, "A, B", domain.SelectOption{Text: "A"}, domain.SelectOption{Text: "B", Tags: []string{"t1"}}),
			want:  []string{"t1"},
		},
		{
			name:  "single select",
			field: selectField(false, "B", domain.SelectOption{Text: "A", Tags: []string{"a"}}, domain.SelectOption{Text: "B", Tags: []string{"b", "c"}}),
			want:  []string{"b", "c"},
		},
		{
			name:  "nothing selected",
			field: selectField(true, "", domain.SelectOption{Text: "A", Tags: []string{"a"}}),
			want:  nil,
		},
		{
			name:  "unknown option grants nothing",
			field: selectField(false, "Z", domain.SelectOption{Text: "A", Tags: []string{"a"}}),
			want:  nil,
		},
		{
			name:  "checked boolean",
			field: boolField("true", "urgent"),
			want:  []string{"urgent"},
		},
		{
			name:  "unchecked boolean",
			field: boolField("false", "urgent"),
			want:  nil,
		},
		{
			name: "text input",
			field: domain.Field{
				Input: domain.InputElement{ID: "t", TextLike: &domain.TextInput{Type: domain.InputText}},
				Value: "true",
			},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FieldTags(tt.field))
		})
	}
}

func TestAccumulateTags_SetSemantics(t *testing.T) {
	shared := selectField(true, "A, B",
		domain.SelectOption{Text: "A", Tags: []string{"t1", "t2"}},
		domain.SelectOption{Text: "B", Tags: []string{"t1"}},
	)
	got := AccumulateTags([]string{"t2", "p"}, []domain.Field{shared, boolField("true", "p", "b")})
	assert.Equal(t, []string{"t2", "p", "t1", "b"}, got)
}

func TestAccumulateTags_Empty(t *testing.T) {
	got := AccumulateTags(nil, nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFlattenTags_KeepsDuplicatesAcrossSections(t *testing.T) {
	history := []domain.HistoryEntry{
		{Location: "a", Tags: []string{"x", "y"}},
		{Location: "b", Tags: []string{"x"}},
		{Location: "endpoint:e", Tags: []string{}},
	}
	assert.Equal(t, []string{"x", "y", "x"}, FlattenTags(history))
}
