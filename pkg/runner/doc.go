/*
Package runner drives a workflow session from a terminal or a pipe.

The Runner renders the current location, reads one command, applies it
through the engine and repeats until the user quits or the input ends.
Recoverable problems (an empty required field, an unknown option, a bad
progression number) are reported and the loop continues.

# Key Components

  - Runner: the loop, independent of how commands are read.
  - IOHandler: the interaction strategy.
  - TextHandler: interactive prompts with markdown rendering.
  - JSONHandler: JSON Lines snapshots out, JSON commands in.

# Usage

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
		runner.WithClipboard(clipboard.NewOSC52(os.Stdout)),
	)

	state, err := eng.Start(ctx, "en", "report")
	if err != nil {
		log.Fatal(err)
	}
	if _, err := r.Run(ctx, eng, state); err != nil {
		log.Fatal(err)
	}
*/
package runner
