// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"fmt"
	"os"
)

// ColorMode controls when ANSI color codes are used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // color when writing to a terminal and NO_COLOR is unset
	ColorAlways                  // always use colors
	ColorNever                   // never use colors
)

// ParseColorMode returns the mode named "auto", "always" or "never".  The
// empty string is ColorAuto.
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("unknown color mode: %q", s)
}

// palette maps the parts of a report to ANSI escape sequences.  The zero
// palette renders plain text.
type palette struct {
	errorSev string
	warning  string
	note     string
	gutter   string
	marker   string
	emph     string
	reset    string
}

var ansiPalette = palette{
	errorSev: "\033[1;31m",
	warning:  "\033[33m",
	note:     "\033[1;36m",
	gutter:   "\033[1;34m",
	marker:   "\033[1;31m",
	emph:     "\033[1m",
	reset:    "\033[0m",
}

func (p palette) severity(s Severity) string {
	switch s {
	case SeverityError:
		return p.errorSev
	case SeverityWarning:
		return p.warning
	default:
		return p.note
	}
}

// choosePalette selects colors for mode.  ColorAuto colors only terminals.
func choosePalette(mode ColorMode, w *os.File) palette {
	switch mode {
	case ColorAlways:
		return ansiPalette
	case ColorNever:
		return palette{}
	}
	if os.Getenv("NO_COLOR") != "" || !isTerminal(w) {
		return palette{}
	}
	return ansiPalette
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
