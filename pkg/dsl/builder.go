package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/tribble/pkg/adapters/memory"
	"github.com/aretw0/tribble/pkg/config"
	"github.com/aretw0/tribble/pkg/domain"
)

// Builder manages the workflow construction.
type Builder struct {
	wf    *domain.Workflow
	first string
}

// New creates a builder for the named workflow.
func New(name string) *Builder {
	return &Builder{
		wf: &domain.Workflow{
			Name:      name,
			Sections:  make(map[string]domain.Section),
			Endpoints: make(map[string]domain.Endpoint),
		},
	}
}

// Tags declares the tags the workflow uses.
func (b *Builder) Tags(tags ...string) *Builder {
	b.wf.Tags = append(b.wf.Tags, tags...)
	return b
}

// Index sets the starting section. It defaults to the first section added.
func (b *Builder) Index(section string) *Builder {
	b.wf.Index = section
	return b
}

// Section returns a builder appending to the named section, creating it
// if needed.
func (b *Builder) Section(name string) *SectionBuilder {
	if _, ok := b.wf.Sections[name]; !ok {
		b.wf.Sections[name] = domain.Section{}
		if b.first == "" {
			b.first = name
		}
	}
	return &SectionBuilder{name: name, builder: b}
}

// Report adds a report endpoint. template may reference input ids as ${id}.
func (b *Builder) Report(name, preamble, template string) *Builder {
	b.wf.Endpoints[name] = domain.Endpoint{Kind: domain.EndpointReport, Preamble: preamble, Text: template}
	return b
}

// Instructional adds an endpoint showing text.
func (b *Builder) Instructional(name, text string) *Builder {
	b.wf.Endpoints[name] = domain.Endpoint{Kind: domain.EndpointInstructional, Text: text}
	return b
}

// Build returns the workflow after checking its structure and links.
func (b *Builder) Build() (*domain.Workflow, error) {
	if b.wf.Name == "" {
		return nil, errors.New("workflow missing name")
	}
	if b.wf.Index == "" {
		b.wf.Index = b.first
	}
	if err := config.ValidateWorkflow(b.wf); err != nil {
		return nil, fmt.Errorf("workflow '%s': %w", b.wf.Name, err)
	}
	if err := config.ValidateLinks(b.wf); err != nil {
		return nil, fmt.Errorf("workflow '%s': %w", b.wf.Name, err)
	}
	return b.wf, nil
}

// Source builds the workflows and serves them under one locale.
func Source(locale string, builders ...*Builder) (*memory.Source, error) {
	workflows := make([]*domain.Workflow, 0, len(builders))
	for _, b := range builders {
		wf, err := b.Build()
		if err != nil {
			return nil, err
		}
		workflows = append(workflows, wf)
	}
	return memory.NewFromWorkflows(locale, workflows...)
}
