/*
Package dsl provides a Go DSL for building Tribble workflows in code.

It is an alternative to the YAML configuration for tests, generated
questionnaires and embedding. Built workflows are checked with the same
structural rules and link checks as loaded ones.

Example usage:

	wf, err := dsl.New("report").
		Section("start").
		Text("What went wrong?").
		Input("title", "Title").
		Select("area", "Area", []domain.SelectOption{dsl.Option("Backend"), dsl.Option("Interface", "ui")}).
		End("Report it", "summary", "bug").
		Workflow().
		Report("summary", "Copy this into the tracker.", "# ${title} (${area})").
		Build()
*/
package dsl
