/*
Package tribble runs branching questionnaires that end in a generated report.

A workflow is a graph of sections. Each section shows text, collects input
through form fields and offers progressions to other sections or to an
endpoint. Report endpoints interpolate the collected values into a template
and append the classification tags gathered along the way, encoded so that
an issue tracker or a bot can read them back.

Workflows are declared in YAML. A Root document maps locales to Language
documents; a Language document holds the workflows of one language.

# Usage

The Engine is stateless: every operation takes a persisted session state
and returns the next one, so the host decides where sessions live.

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/tribble"
	)

	func main() {
		eng, err := tribble.New("./tribble.yaml")
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		state, err := eng.Start(ctx, "en", "report")
		if err != nil {
			log.Fatal(err)
		}

		state, err = eng.Edit(ctx, state, "title", "Crash on save")
		if err != nil {
			log.Fatal(err)
		}
		state, err = eng.Advance(ctx, state, 0)
		if err != nil {
			log.Fatal(err)
		}

		report, err := eng.Report(ctx, state)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(report)
	}

The pkg/session Manager serializes concurrent access to stored states and
pkg/adapters/http exposes the same operations over HTTP.
*/
package tribble
