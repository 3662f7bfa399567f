package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Wayfare banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text, color string
	}{
		{` __      __              __`, "#38bdf8"},
		{` \ \    / /_ _ _  _ ___ / _|__ _ _ _ ___`, "#22d3ee"},
		{`  \ \/\/ / _' | || |___|  _/ _' | '_/ -_)`, "#2dd4bf"},
		{`   \_/\_/\__,_|\_, |    |_| \__,_|_| \___|`, "#34d399"},
		{`               |__/`, "#4ade80"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  v"+version).Faint())
	fmt.Fprintln(w)
}
