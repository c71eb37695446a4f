package tribble_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/tribble"
	"github.com/aretw0/tribble/pkg/domain"
	"github.com/aretw0/tribble/pkg/dsl"
)

// ExampleNewFromSource drives a workflow built in code from start to report.
func ExampleNewFromSource() {
	src, err := dsl.Source("en", dsl.New("feedback").
		Tags("bug", "ui").
		Section("start").
		Input("title", "Title").
		Select("area", "Area", []domain.SelectOption{dsl.Option("Core"), dsl.Option("Interface", "ui")}).
		End("Report it", "summary", "bug").
		Workflow().
		Report("summary", "Paste this.", "# ${title} (${area})"))
	if err != nil {
		log.Fatal(err)
	}

	engine, err := tribble.NewFromSource(src)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	state, err := engine.Start(ctx, "", "feedback")
	if err != nil {
		log.Fatal(err)
	}
	state, _ = engine.Edit(ctx, state, "title", "Crash on save")
	state, _ = engine.Edit(ctx, state, "area", "Interface")
	state, err = engine.Advance(ctx, state, 0)
	if err != nil {
		log.Fatal(err)
	}

	report, err := engine.Report(ctx, state)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(report)
	// Output:
	// # Crash on save (Interface)
	//
	// <section>
	// <details>Tribble internal data</details>
	//
	// YnVnLHVp
	//
	// </section>
}
