// Package schema describes the shape of Tribble configuration documents.
//
// Document returns a JSON Schema (draft-07) covering both the Root document
// (a locale to file map) and the Language document (error message plus
// workflows). The same schema backs Validate, which checks a decoded YAML
// document before the config loader builds domain types from it.
//
//	doc := map[string]any{}
//	_ = yaml.Unmarshal(data, &doc)
//	if err := schema.Validate(doc); err != nil {
//	    for _, e := range schema.ValidationErrors(err) {
//	        fmt.Println(e)
//	    }
//	}
//
// ValidationError and AggregateError are shared with the loader's structural
// checks so every configuration problem is reported the same way.
package schema
