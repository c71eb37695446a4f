package domain_test

import (
	"testing"

	"github.com/aretw0/tribble/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWorkflow() *domain.Workflow {
	return &domain.Workflow{
		Name:  "Support",
		Index: "start",
		Sections: map[string]domain.Section{
			"start": {
				domain.TextElement("Hello"),
				domain.InputElementOf(domain.InputElement{ID: "name", Label: "Name", TextLike: &domain.TextInput{Type: domain.InputText}}),
				domain.ProgressionElement(domain.Progression{Text: "Next", Link: "details"}),
				domain.ProgressionElement(domain.Progression{Text: "Done", Link: "endpoint:summary"}),
			},
			"details": {
				domain.InputElementOf(domain.InputElement{ID: "os", Label: "OS", Select: &domain.SelectInput{
					Options: []domain.SelectOption{{Text: "Linux", Tags: []string{"linux"}}, {Text: "Mac"}},
				}}),
			},
		},
		Endpoints: map[string]domain.Endpoint{
			"summary": {Kind: domain.EndpointReport, Preamble: "Copy", Text: "${name}"},
		},
	}
}

func TestWorkflow_Resolve(t *testing.T) {
	wf := sampleWorkflow()

	tests := []struct {
		link     string
		want     domain.Location
		endpoint bool
		ok       bool
	}{
		{"details", "details", false, true},
		{"endpoint:summary", "endpoint:summary", true, true},
		{"missing", "missing", false, false},
		{"endpoint:missing", "endpoint:missing", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			loc, ok := wf.Resolve(tt.link)
			assert.Equal(t, tt.want, loc)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.endpoint, loc.IsEndpoint())
		})
	}
}

func TestWorkflow_Names(t *testing.T) {
	wf := sampleWorkflow()
	assert.Equal(t, []string{"details", "start"}, wf.SectionNames())
	assert.Equal(t, []string{"summary"}, wf.EndpointNames())
	assert.Equal(t, map[string]bool{"name": true, "os": true}, wf.InputIDs())
}

func TestSection_Elements(t *testing.T) {
	start := sampleWorkflow().Sections["start"]

	progs := start.Progressions()
	require.Len(t, progs, 2)
	assert.Equal(t, "Next", progs[0].Text)
	assert.Equal(t, "endpoint:summary", progs[1].Link)

	inputs := start.Inputs()
	require.Len(t, inputs, 1)
	assert.Equal(t, "name", inputs[0].ID)
	assert.Equal(t, "", inputs[0].DefaultValue())
}

func TestLocation(t *testing.T) {
	loc := domain.EndpointLocation("summary")
	assert.True(t, loc.IsEndpoint())
	assert.Equal(t, "summary", loc.Name())

	section := domain.Location("start")
	assert.False(t, section.IsEndpoint())
	assert.Equal(t, "start", section.Name())
}

func TestParseInputType(t *testing.T) {
	tests := []struct {
		name string
		want domain.InputType
		ok   bool
	}{
		{"", domain.InputText, true},
		{"datetime", domain.InputDatetimeLocal, true},
		{"datetime-local", domain.InputDatetimeLocal, true},
		{"boolean", domain.InputBoolean, true},
		{"week", domain.InputWeek, true},
		{"checkbox", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := domain.ParseInputType(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "checkbox", domain.InputBoolean.HTMLType())
	assert.Equal(t, "email", domain.InputEmail.HTMLType())
}

func TestSelectInput(t *testing.T) {
	single := domain.SelectInput{Options: []domain.SelectOption{{Text: "A", Tags: []string{"a"}}, {Text: "B"}}}
	multi := single
	multi.Multiple = true

	t.Run("Split", func(t *testing.T) {
		assert.Nil(t, single.Split(""))
		assert.Equal(t, []string{"A, B"}, single.Split("A, B"))
		assert.Equal(t, []string{"A", "B"}, multi.Split("A, B"))
	})

	t.Run("Join", func(t *testing.T) {
		assert.Equal(t, "A, B", multi.Join([]string{"A", "B"}))
	})

	t.Run("Check", func(t *testing.T) {
		assert.NoError(t, single.Check("x", ""))
		assert.NoError(t, single.Check("x", "A"))
		assert.NoError(t, multi.Check("x", "A, B"))

		var invalid *domain.InvalidOptionError
		assert.ErrorAs(t, single.Check("x", "A, B"), &invalid)
		assert.ErrorAs(t, multi.Check("x", "C"), &invalid)
		assert.ErrorAs(t, multi.Check("x", "A, A"), &invalid)
		assert.Equal(t, "x", invalid.ID)
	})

	t.Run("OptionTags", func(t *testing.T) {
		table := single.OptionTags()
		assert.Equal(t, []string{"a"}, table["A"])
		assert.Nil(t, table["B"])
	})
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "progression", domain.ElementProgression.String())
	assert.Equal(t, "instructional", domain.EndpointInstructional.String())
	assert.Equal(t, "root", domain.ConfigRoot.String())
	assert.Equal(t, "unknown", domain.ConfigKind(0).String())
}

func TestInputElement_Check(t *testing.T) {
	lo, hi := 1, 5
	boolean := domain.InputElement{ID: "crash", TextLike: &domain.TextInput{Type: domain.InputBoolean}}
	number := domain.InputElement{ID: "votes", TextLike: &domain.TextInput{Type: domain.InputNumber, Min: &lo, Max: &hi}}
	text := domain.InputElement{ID: "title", TextLike: &domain.TextInput{Type: domain.InputText}}
	sel := domain.InputElement{ID: "os", Select: &domain.SelectInput{Options: []domain.SelectOption{{Text: "Linux"}}}}

	tests := []struct {
		name  string
		in    domain.InputElement
		value string
		ok    bool
	}{
		{"boolean true", boolean, "true", true},
		{"boolean false", boolean, "false", true},
		{"boolean yes", boolean, "yes", false},
		{"boolean empty", boolean, "", false},
		{"number in bounds", number, "3", true},
		{"number empty", number, "", true},
		{"number below", number, "0", false},
		{"number above", number, "6", false},
		{"number fraction", number, "2.5", false},
		{"number word", number, "abc", false},
		{"text anything", text, "abc, def", true},
		{"select option", sel, "Linux", true},
		{"select unknown", sel, "BSD", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Check(tt.value)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			var invalid *domain.InvalidOptionError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.in.ID, invalid.ID)
		})
	}
}
