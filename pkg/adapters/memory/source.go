package memory

import (
	"fmt"
	"maps"
	"slices"

	"github.com/aretw0/tribble/pkg/domain"
)

// Source implements ports.WorkflowSource over Language documents held in memory.
type Source struct {
	languages map[string]*domain.Config
}

// NewSource creates a Source from Language documents keyed by locale.
func NewSource(languages map[string]*domain.Config) *Source {
	return &Source{languages: maps.Clone(languages)}
}

// NewFromWorkflows creates a single-locale Source from domain objects.
// This improves DX for tests.
func NewFromWorkflows(locale string, workflows ...*domain.Workflow) (*Source, error) {
	cfg := &domain.Config{
		Kind:              domain.ConfigLanguage,
		InputErrorMessage: domain.DefaultInputErrorMessage,
		Workflows:         make(map[string]*domain.Workflow, len(workflows)),
	}
	for _, wf := range workflows {
		if wf.Name == "" {
			return nil, fmt.Errorf("workflow missing name")
		}
		cfg.Workflows[wf.Name] = wf
	}
	return NewSource(map[string]*domain.Config{locale: cfg}), nil
}

// Locales returns the available locales in sorted order.
func (s *Source) Locales() []string {
	return slices.Sorted(maps.Keys(s.languages))
}

// Language returns the Language document for locale. An empty locale selects
// the first locale.
func (s *Source) Language(locale string) (*domain.Config, error) {
	if cfg, ok := s.languages[locale]; ok {
		return cfg, nil
	}
	if locale == "" && len(s.languages) > 0 {
		return s.languages[s.Locales()[0]], nil
	}
	return nil, &domain.LocaleNotFoundError{Locale: locale, Available: s.Locales()}
}

// Workflow returns a workflow and the Language document holding it.
func (s *Source) Workflow(locale, name string) (*domain.Workflow, *domain.Config, error) {
	cfg, err := s.Language(locale)
	if err != nil {
		return nil, nil, err
	}
	wf, ok := cfg.Workflows[name]
	if !ok {
		return nil, nil, &domain.WorkflowNotFoundError{Name: name, Available: slices.Sorted(maps.Keys(cfg.Workflows))}
	}
	return wf, cfg, nil
}
