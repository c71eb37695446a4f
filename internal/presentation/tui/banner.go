package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"  _____     _ _     _     ", "#34d399"},
	{" |_   _| __(_) |__ | |__  | | ___", "#2dd4bf"},
	{"   | || '__| | '_ \\| '_ \\ | |/ _ \\", "#22d3ee"},
	{"   | || |  | | |_) | |_) || |  __/", "#38bdf8"},
	{"   |_||_|  |_|_.__/|_.__/ |_|\\___|", "#60a5fa"},
}

// PrintBanner writes the Tribble banner and version to w, colored when w
// is a terminal that supports it.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("   "+version).Faint())
	fmt.Fprintln(w)
}
