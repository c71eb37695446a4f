package dsl

import "github.com/aretw0/tribble/pkg/domain"

// SectionBuilder provides a fluent API for appending elements to a section.
type SectionBuilder struct {
	name    string
	builder *Builder
}

func (s *SectionBuilder) add(elem domain.SectionElement) *SectionBuilder {
	s.builder.wf.Sections[s.name] = append(s.builder.wf.Sections[s.name], elem)
	return s
}

// Text appends a markdown paragraph.
func (s *SectionBuilder) Text(text string) *SectionBuilder {
	return s.add(domain.TextElement(text))
}

// Go appends a progression to another section.
func (s *SectionBuilder) Go(text, section string, tags ...string) *SectionBuilder {
	return s.add(domain.ProgressionElement(domain.Progression{Text: text, Link: section, Tags: tags}))
}

// End appends a progression to an endpoint.
func (s *SectionBuilder) End(text, endpoint string, tags ...string) *SectionBuilder {
	link := string(domain.EndpointLocation(endpoint))
	return s.add(domain.ProgressionElement(domain.Progression{Text: text, Link: link, Tags: tags}))
}

// Input appends a text-like input, plain text unless an option says otherwise.
func (s *SectionBuilder) Input(id, label string, opts ...InputOption) *SectionBuilder {
	in := domain.InputElement{ID: id, Label: label, TextLike: &domain.TextInput{Type: domain.InputText}}
	for _, opt := range opts {
		opt(&in)
	}
	return s.add(domain.InputElementOf(in))
}

// Select appends a select input.
func (s *SectionBuilder) Select(id, label string, options []domain.SelectOption, opts ...InputOption) *SectionBuilder {
	in := domain.InputElement{ID: id, Label: label, Select: &domain.SelectInput{Options: options}}
	for _, opt := range opts {
		opt(&in)
	}
	return s.add(domain.InputElementOf(in))
}

// Section switches to another section of the same workflow.
func (s *SectionBuilder) Section(name string) *SectionBuilder {
	return s.builder.Section(name)
}

// Workflow returns to the workflow builder.
func (s *SectionBuilder) Workflow() *Builder {
	return s.builder
}

// Option builds a select option.
func Option(text string, tags ...string) domain.SelectOption {
	return domain.SelectOption{Text: text, Tags: tags}
}

// InputOption configures an input.
type InputOption func(*domain.InputElement)

// Type sets the subtype of a text-like input.
func Type(t domain.InputType) InputOption {
	return func(in *domain.InputElement) {
		if in.TextLike != nil {
			in.TextLike.Type = t
		}
	}
}

// Optional lets the user advance with the input empty.
func Optional() InputOption {
	return func(in *domain.InputElement) { in.Optional = true }
}

// Default sets the value the input starts with.
func Default(value string) InputOption {
	return func(in *domain.InputElement) { in.Default = &value }
}

// Bounds sets min and max of a number or range input.
func Bounds(lo, hi int) InputOption {
	return func(in *domain.InputElement) {
		if in.TextLike != nil {
			in.TextLike.Min, in.TextLike.Max = &lo, &hi
		}
	}
}

// Checkbox makes a boolean input granting tags when checked.
func Checkbox(tags ...string) InputOption {
	return func(in *domain.InputElement) {
		if in.TextLike != nil {
			in.TextLike.Type = domain.InputBoolean
			in.TextLike.Tags = tags
		}
	}
}

// Multiple allows several options of a select to be chosen.
func Multiple() InputOption {
	return func(in *domain.InputElement) {
		if in.Select != nil {
			in.Select.Multiple = true
		}
	}
}
