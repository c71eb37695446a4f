package schema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

var (
	compileOnce sync.Once
	compiled    *gojsonschema.Schema
	compileErr  error
)

func compiledDocument() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled, compileErr = gojsonschema.NewSchema(gojsonschema.NewGoLoader(build()))
	})
	return compiled, compileErr
}

// Validate checks a decoded configuration document against Document.
// Failures are returned as an *AggregateError of *ValidationError.
func Validate(doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return ValidateJSON(data)
}

// ValidateJSON validates raw JSON bytes against Document.
func ValidateJSON(data []byte) error {
	s, err := compiledDocument()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	result, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if result.Valid() {
		return nil
	}
	aggr := &AggregateError{}
	for _, e := range result.Errors() {
		aggr.Add(e.Field(), e.Description(), scalar(e.Value()))
	}
	return aggr
}

// scalar drops composite values so messages stay one line.
func scalar(v any) any {
	switch v.(type) {
	case map[string]any, []any:
		return nil
	}
	return v
}

// ValidateYAML decodes a YAML document and validates it.
func ValidateYAML(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode yaml: %w", err)
	}
	return Validate(doc)
}
