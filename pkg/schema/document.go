package schema

import (
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/aretw0/tribble/pkg/domain"
)

// DraftVersion is the JSON Schema dialect emitted by Document.
const DraftVersion = "http://json-schema.org/draft-07/schema#"

// noComma rejects values that would break tag and option serialization.
const noComma = "^[^,]*$"

// Document returns the JSON Schema describing a Tribble configuration file.
func Document() *jsonschema.Schema {
	s := build()
	s.Version = DraftVersion
	s.Title = "Tribble configuration"
	s.Description = "A Root document mapping locales to language files, or a Language document holding workflows."
	return s
}

type property struct {
	name   string
	schema *jsonschema.Schema
}

func prop(name string, s *jsonschema.Schema) property {
	return property{name: name, schema: s}
}

func object(description string, required []string, props ...property) *jsonschema.Schema {
	p := orderedmap.New[string, *jsonschema.Schema]()
	for _, pr := range props {
		p.Set(pr.name, pr.schema)
	}
	return &jsonschema.Schema{
		Type:                 "object",
		Description:          description,
		Properties:           p,
		Required:             required,
		AdditionalProperties: jsonschema.FalseSchema,
	}
}

func mapOf(description string, value *jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:                 "object",
		Description:          description,
		AdditionalProperties: value,
	}
}

func arrayOf(description string, items *jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "array", Description: description, Items: items}
}

func str(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: description}
}

func tags(description string) *jsonschema.Schema {
	return arrayOf(description, &jsonschema.Schema{Type: "string", Pattern: noComma})
}

func build() *jsonschema.Schema {
	root := object("Root document", []string{"languages"},
		prop("languages", mapOf("Locale to language file path", str("Path relative to this file"))),
	)
	language := object("Language document", []string{"workflows"},
		prop("input_err_msg", str("Message shown next to required inputs left empty")),
		prop("workflows", mapOf("Workflows by name", workflow())),
	)
	for _, doc := range []*jsonschema.Schema{root, language} {
		doc.Properties.Set("$schema", str("JSON Schema reference URL"))
	}
	return &jsonschema.Schema{OneOf: []*jsonschema.Schema{root, language}}
}

func workflow() *jsonschema.Schema {
	return object("Workflow", []string{"index", "sections", "endpoints"},
		prop("tags", tags("Tags this workflow may emit")),
		prop("index", str("Name of the first section")),
		prop("sections", mapOf("Sections by name", arrayOf("Section elements", element()))),
		prop("endpoints", mapOf("Endpoints by name", endpoint())),
	)
}

func element() *jsonschema.Schema {
	progression := object("Progression", []string{"text", "link"},
		prop("text", str("Button text")),
		prop("link", str("Section name or endpoint:<name>")),
		prop("tags", tags("Tags recorded when this progression is taken")),
	)
	return &jsonschema.Schema{
		Description: "Text, progression, or input",
		OneOf: []*jsonschema.Schema{
			str("Text paragraph"),
			progression,
			textInput(),
			selectInput(),
		},
	}
}

func inputProps(extra ...property) []property {
	base := []property{
		prop("id", str("Form value identifier")),
		prop("label", str("Label shown to the user")),
		prop("optional", &jsonschema.Schema{Type: "boolean"}),
		prop("default", &jsonschema.Schema{
			Description: "Initial value",
			OneOf: []*jsonschema.Schema{
				{Type: "string"},
				{Type: "number"},
				{Type: "boolean"},
			},
		}),
	}
	return append(base, extra...)
}

func textInput() *jsonschema.Schema {
	kinds := make([]any, 0, len(domain.InputTypes)+1)
	for _, t := range domain.InputTypes {
		kinds = append(kinds, string(t))
	}
	kinds = append(kinds, "datetime")
	return object("Text-like input", []string{"id", "label"}, inputProps(
		prop("type", &jsonschema.Schema{Type: "string", Enum: kinds, Description: "Input type (defaults to text)"}),
		prop("min", &jsonschema.Schema{Type: "integer"}),
		prop("max", &jsonschema.Schema{Type: "integer"}),
		prop("tags", tags("Tags recorded when a boolean input is true")),
	)...)
}

func selectInput() *jsonschema.Schema {
	option := &jsonschema.Schema{
		Description: "Select option",
		OneOf: []*jsonschema.Schema{
			{Type: "string", Pattern: noComma},
			object("Option object", []string{"text"},
				prop("text", &jsonschema.Schema{Type: "string", Pattern: noComma}),
				prop("tags", tags("Tags recorded when this option is selected")),
			),
		},
	}
	return object("Select input", []string{"id", "label", "options"}, inputProps(
		prop("options", arrayOf("Options", option)),
		prop("can_select_multiple", &jsonschema.Schema{Type: "boolean"}),
	)...)
}

func endpoint() *jsonschema.Schema {
	return &jsonschema.Schema{
		Description: "Instructional text or report template",
		OneOf: []*jsonschema.Schema{
			str("Instructional endpoint"),
			object("Report endpoint", []string{"preamble", "text"},
				prop("preamble", str("Markdown shown above the report")),
				prop("text", str("Report template with ${id} placeholders")),
			),
		},
	}
}
