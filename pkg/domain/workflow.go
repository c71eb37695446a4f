package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Workflow is one complete branching questionnaire.
type Workflow struct {
	Name string `json:"name"`
	// Tags lists the classification labels this workflow may produce.
	// Tags never contain commas, the wire delimiter of the report trailer.
	Tags      []string            `json:"tags"`
	Sections  map[string]Section  `json:"sections"`
	Index     string              `json:"index"`
	Endpoints map[string]Endpoint `json:"endpoints"`
}

// SectionNames returns the section names in sorted order.
func (w *Workflow) SectionNames() []string {
	names := make([]string, 0, len(w.Sections))
	for name := range w.Sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EndpointNames returns the endpoint names in sorted order.
func (w *Workflow) EndpointNames() []string {
	names := make([]string, 0, len(w.Endpoints))
	for name := range w.Endpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InputIDs returns every input id declared anywhere in the workflow.
func (w *Workflow) InputIDs() map[string]bool {
	ids := make(map[string]bool)
	for _, section := range w.Sections {
		for _, elem := range section {
			if elem.Kind == ElementInput {
				ids[elem.Input.ID] = true
			}
		}
	}
	return ids
}

// Resolve maps a progression link to a location and reports whether the
// named section or endpoint exists.
func (w *Workflow) Resolve(link string) (Location, bool) {
	loc := Location(link)
	if loc.IsEndpoint() {
		_, ok := w.Endpoints[loc.Name()]
		return loc, ok
	}
	_, ok := w.Sections[link]
	return loc, ok
}

// Section is an ordered sequence of elements. Order is render and traversal order.
type Section []SectionElement

// Progressions returns the progression elements of the section in order.
func (s Section) Progressions() []Progression {
	var out []Progression
	for _, elem := range s {
		if elem.Kind == ElementProgression {
			out = append(out, *elem.Progression)
		}
	}
	return out
}

// Inputs returns the input elements of the section in order.
func (s Section) Inputs() []InputElement {
	var out []InputElement
	for _, elem := range s {
		if elem.Kind == ElementInput {
			out = append(out, *elem.Input)
		}
	}
	return out
}

// ElementKind discriminates SectionElement variants.
type ElementKind int

const (
	ElementText ElementKind = iota + 1
	ElementProgression
	ElementInput
)

func (k ElementKind) String() string {
	switch k {
	case ElementText:
		return "text"
	case ElementProgression:
		return "progression"
	case ElementInput:
		return "input"
	default:
		return "unknown"
	}
}

// SectionElement is one of Text, Progression or Input.
type SectionElement struct {
	Kind        ElementKind   `json:"kind"`
	Text        string        `json:"text,omitempty"`
	Progression *Progression  `json:"progression,omitempty"`
	Input       *InputElement `json:"input,omitempty"`
}

// TextElement builds a passive text element.
func TextElement(text string) SectionElement {
	return SectionElement{Kind: ElementText, Text: text}
}

// ProgressionElement builds a progression element.
func ProgressionElement(p Progression) SectionElement {
	return SectionElement{Kind: ElementProgression, Progression: &p}
}

// InputElementOf builds an input element.
func InputElementOf(in InputElement) SectionElement {
	return SectionElement{Kind: ElementInput, Input: &in}
}

// Progression is a user-triggered edge to a section or an endpoint.
type Progression struct {
	Text string `json:"text"`
	// Link names a section, or an endpoint when prefixed with EndpointPrefix.
	Link string   `json:"link"`
	Tags []string `json:"tags"`
}

// InputElement is a form field. Exactly one of TextLike and Select is set.
type InputElement struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Optional bool    `json:"optional"`
	Default  *string `json:"default,omitempty"`

	TextLike *TextInput   `json:"text_like,omitempty"`
	Select   *SelectInput `json:"select,omitempty"`
}

// DefaultValue returns the configured default or the empty string.
func (in InputElement) DefaultValue() string {
	if in.Default == nil {
		return ""
	}
	return *in.Default
}

// Check reports whether value is a valid stored value for the input.
// Booleans hold "true" or "false". Number and range inputs hold a whole
// number within their bounds, or nothing. Select values are checked by
// SelectInput.Check.
func (in InputElement) Check(value string) error {
	switch {
	case in.Select != nil:
		return in.Select.Check(in.ID, value)
	case in.TextLike == nil:
		return nil
	case in.IsBoolean():
		if value != "true" && value != "false" {
			return &InvalidOptionError{ID: in.ID, Value: value, Reason: "must be true or false"}
		}
	case in.TextLike.Type == InputNumber || in.TextLike.Type == InputRange:
		if value == "" {
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return &InvalidOptionError{ID: in.ID, Value: value, Reason: "not a whole number"}
		}
		if in.TextLike.Min != nil && n < *in.TextLike.Min {
			return &InvalidOptionError{ID: in.ID, Value: value, Reason: fmt.Sprintf("below the minimum %d", *in.TextLike.Min)}
		}
		if in.TextLike.Max != nil && n > *in.TextLike.Max {
			return &InvalidOptionError{ID: in.ID, Value: value, Reason: fmt.Sprintf("above the maximum %d", *in.TextLike.Max)}
		}
	}
	return nil
}

// IsBoolean reports whether the input is a boolean toggle.
func (in InputElement) IsBoolean() bool {
	return in.TextLike != nil && in.TextLike.Type == InputBoolean
}

// InputType is the subtype of a text-like input.
type InputType string

const (
	InputBoolean       InputType = "boolean"
	InputMultiline     InputType = "multiline"
	InputColor         InputType = "color"
	InputText          InputType = "text"
	InputDate          InputType = "date"
	InputDatetimeLocal InputType = "datetime-local"
	InputEmail         InputType = "email"
	InputMonth         InputType = "month"
	InputNumber        InputType = "number"
	InputPassword      InputType = "password"
	InputRange         InputType = "range"
	InputTel           InputType = "tel"
	InputTime          InputType = "time"
	InputURL           InputType = "url"
	InputWeek          InputType = "week"
)

// InputTypes lists every accepted subtype in declaration order.
var InputTypes = []InputType{
	InputBoolean, InputMultiline, InputColor, InputText, InputDate, InputDatetimeLocal,
	InputEmail, InputMonth, InputNumber, InputPassword, InputRange, InputTel,
	InputTime, InputURL, InputWeek,
}

// ParseInputType resolves a configured type name. "datetime" is an alias of
// "datetime-local" and an empty name means "text".
func ParseInputType(name string) (InputType, bool) {
	switch name {
	case "":
		return InputText, true
	case "datetime":
		return InputDatetimeLocal, true
	}
	for _, t := range InputTypes {
		if string(t) == name {
			return t, true
		}
	}
	return "", false
}

// HTMLType returns the HTML input type attribute used to render the subtype.
func (t InputType) HTMLType() string {
	if t == InputBoolean {
		return "checkbox"
	}
	return string(t)
}

// TextInput configures a text-like input.
type TextInput struct {
	Type InputType `json:"type"`
	// Min and Max bound number and range inputs. Range inputs always set both.
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
	// Tags are granted when a boolean input is checked.
	Tags []string `json:"tags,omitempty"`
}

// SelectInput configures a select input.
type SelectInput struct {
	Options  []SelectOption `json:"options"`
	Multiple bool           `json:"multiple"`
}

// OptionTags maps option display text to the tags it grants.
func (s SelectInput) OptionTags() map[string][]string {
	table := make(map[string][]string, len(s.Options))
	for _, opt := range s.Options {
		table[opt.Text] = opt.Tags
	}
	return table
}

// SelectionSeparator joins the chosen options of a multi-select value.
const SelectionSeparator = ", "

// Split returns the options named by a select value.
func (s SelectInput) Split(value string) []string {
	if value == "" {
		return nil
	}
	if !s.Multiple {
		return []string{value}
	}
	return strings.Split(value, SelectionSeparator)
}

// Check reports whether value names only defined options, and at most one
// of them for a single select.
func (s SelectInput) Check(id, value string) error {
	if value == "" {
		return nil
	}
	choices := strings.Split(value, SelectionSeparator)
	if !s.Multiple && len(choices) > 1 {
		return &InvalidOptionError{ID: id, Value: value, Reason: "only one option may be selected"}
	}
	table := s.OptionTags()
	seen := make(map[string]bool, len(choices))
	for _, c := range choices {
		if _, ok := table[c]; !ok {
			return &InvalidOptionError{ID: id, Value: value, Reason: "unknown option '" + c + "'"}
		}
		if seen[c] {
			return &InvalidOptionError{ID: id, Value: value, Reason: "option '" + c + "' selected twice"}
		}
		seen[c] = true
	}
	return nil
}

// Join builds a select value from chosen option texts.
func (s SelectInput) Join(choices []string) string {
	return strings.Join(choices, SelectionSeparator)
}

// SelectOption is a simple option (no tags) or an option carrying tags.
type SelectOption struct {
	Text string   `json:"text"`
	Tags []string `json:"tags,omitempty"`
}

// EndpointKind discriminates Endpoint variants.
type EndpointKind int

const (
	EndpointReport EndpointKind = iota + 1
	EndpointInstructional
)

func (k EndpointKind) String() string {
	switch k {
	case EndpointReport:
		return "report"
	case EndpointInstructional:
		return "instructional"
	default:
		return "unknown"
	}
}

// Endpoint is a terminal node of the workflow.
type Endpoint struct {
	Kind EndpointKind `json:"kind"`
	// Preamble is displayed before a report.
	Preamble string `json:"preamble,omitempty"`
	// Text is the report template (supports ${id}) or the instruction text.
	Text string `json:"text"`
}
