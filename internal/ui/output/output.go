// Package output creates termenv outputs with the color handling used across fswatch.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// ColorProfile returns the color profile for w.
// NO_COLOR disables colors, FORCE_COLOR enables ANSI colors even when w is not a terminal.
func ColorProfile(w io.Writer) termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return termenv.ANSI
	}
	if f, ok := w.(*os.File); ok {
		return termenv.NewOutput(f).EnvColorProfile()
	}
	return termenv.Ascii
}

// New creates a termenv.Output writing to w. A nil w writes to stderr.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	opts = append(opts,
		termenv.WithProfile(ColorProfile(w)),
		termenv.WithTTY(true),
	)
	return termenv.NewOutput(w, opts...)
}
