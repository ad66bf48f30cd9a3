// Package ansi decides whether ANSI escape codes may be written to an output
// and expands ${AnsiColor.*}-style placeholders in banner text.
package ansi

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Enabled controls ANSI output.
type Enabled int

const (
	// Detect enables ANSI output only when the writer is a terminal.
	Detect Enabled = iota
	Always
	Never
)

func (e Enabled) String() string {
	switch e {
	case Always:
		return "always"
	case Never:
		return "never"
	default:
		return "detect"
	}
}

// ParseEnabled parses "detect", "always" or "never". Empty means detect.
func ParseEnabled(s string) (Enabled, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "detect":
		return Detect, nil
	case "always":
		return Always, nil
	case "never":
		return Never, nil
	}
	return Detect, fmt.Errorf("ansi: invalid value %q (want detect, always or never)", s)
}

// For reports whether escape codes should be written to w.
func (e Enabled) For(w io.Writer) bool {
	switch e {
	case Always:
		return true
	case Never:
		return false
	}
	return Supported(w)
}

// IsTerminal returns true if w is backed by a terminal file descriptor.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	fd := f.Fd()
	return term.IsTerminal(int(fd)) || isatty.IsCygwinTerminal(fd)
}

// Supported applies the NO_COLOR and TERM=dumb conventions on top of IsTerminal.
func Supported(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return IsTerminal(w)
}

// Writer wraps f so escape codes render on consoles that need translation.
func Writer(f *os.File) io.Writer {
	return colorable.NewColorable(f)
}

const (
	fgDefault color.Attribute = 39
	bgDefault color.Attribute = 49
)

var foregrounds = map[string]color.Attribute{
	"DEFAULT":        fgDefault,
	"BLACK":          color.FgBlack,
	"RED":            color.FgRed,
	"GREEN":          color.FgGreen,
	"YELLOW":         color.FgYellow,
	"BLUE":           color.FgBlue,
	"MAGENTA":        color.FgMagenta,
	"CYAN":           color.FgCyan,
	"WHITE":          color.FgWhite,
	"BRIGHT_BLACK":   color.FgHiBlack,
	"BRIGHT_RED":     color.FgHiRed,
	"BRIGHT_GREEN":   color.FgHiGreen,
	"BRIGHT_YELLOW":  color.FgHiYellow,
	"BRIGHT_BLUE":    color.FgHiBlue,
	"BRIGHT_MAGENTA": color.FgHiMagenta,
	"BRIGHT_CYAN":    color.FgHiCyan,
	"BRIGHT_WHITE":   color.FgHiWhite,
}

var backgrounds = map[string]color.Attribute{
	"DEFAULT":        bgDefault,
	"BLACK":          color.BgBlack,
	"RED":            color.BgRed,
	"GREEN":          color.BgGreen,
	"YELLOW":         color.BgYellow,
	"BLUE":           color.BgBlue,
	"MAGENTA":        color.BgMagenta,
	"CYAN":           color.BgCyan,
	"WHITE":          color.BgWhite,
	"BRIGHT_BLACK":   color.BgHiBlack,
	"BRIGHT_RED":     color.BgHiRed,
	"BRIGHT_GREEN":   color.BgHiGreen,
	"BRIGHT_YELLOW":  color.BgHiYellow,
	"BRIGHT_BLUE":    color.BgHiBlue,
	"BRIGHT_MAGENTA": color.BgHiMagenta,
	"BRIGHT_CYAN":    color.BgHiCyan,
	"BRIGHT_WHITE":   color.BgHiWhite,
}

var styles = map[string]color.Attribute{
	"NORMAL":    color.Reset,
	"BOLD":      color.Bold,
	"FAINT":     color.Faint,
	"ITALIC":    color.Italic,
	"UNDERLINE": color.Underline,
}

var placeholderRe = regexp.MustCompile(`\$\{(AnsiColor|AnsiBackground|AnsiStyle|Ansi)\.([A-Z_]+)\}`)

// Reset restores the default style and foreground.
const Reset = "\x1b[0;39m"

// Escape returns the escape sequence for attr.
func Escape(attr color.Attribute) string {
	return fmt.Sprintf("\x1b[%dm", attr)
}

func lookup(kind, name string) (color.Attribute, bool) {
	var a color.Attribute
	var ok bool
	switch kind {
	case "AnsiColor":
		a, ok = foregrounds[name]
	case "AnsiBackground":
		a, ok = backgrounds[name]
	case "AnsiStyle":
		a, ok = styles[name]
	case "Ansi":
		if a, ok = foregrounds[name]; !ok {
			a, ok = styles[name]
		}
	}
	return a, ok
}

// Expand replaces ANSI placeholders in text. When enabled, each known
// placeholder becomes its escape sequence and Reset is appended if any were
// written. When disabled, known placeholders are removed. Unknown names are
// left untouched.
func Expand(text string, enabled bool) string {
	wrote := false
	out := placeholderRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := placeholderRe.FindStringSubmatch(m)
		attr, ok := lookup(sub[1], sub[2])
		if !ok {
			return m
		}
		if !enabled {
			return ""
		}
		wrote = true
		return Escape(attr)
	})
	if wrote {
		out += Reset
	}
	return out
}

// Colorize wraps s in the given attributes when enabled.
func Colorize(s string, enabled bool, attrs ...color.Attribute) string {
	if !enabled || len(attrs) == 0 {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

type paletteEntry struct {
	attr    color.Attribute
	r, g, b int
}

// Standard VGA values for the 16 basic colours.
var palette = []paletteEntry{
	{color.FgBlack, 0, 0, 0},
	{color.FgRed, 170, 0, 0},
	{color.FgGreen, 0, 170, 0},
	{color.FgYellow, 170, 85, 0},
	{color.FgBlue, 0, 0, 170},
	{color.FgMagenta, 170, 0, 170},
	{color.FgCyan, 0, 170, 170},
	{color.FgWhite, 170, 170, 170},
	{color.FgHiBlack, 85, 85, 85},
	{color.FgHiRed, 255, 85, 85},
	{color.FgHiGreen, 85, 255, 85},
	{color.FgHiYellow, 255, 255, 85},
	{color.FgHiBlue, 85, 85, 255},
	{color.FgHiMagenta, 255, 85, 255},
	{color.FgHiCyan, 85, 255, 255},
	{color.FgHiWhite, 255, 255, 255},
}

// Nearest returns the basic foreground colour closest to the 8-bit RGB value.
func Nearest(r, g, b uint8) color.Attribute {
	best := palette[0].attr
	bestDist := -1
	for _, p := range palette {
		dr, dg, db := int(r)-p.r, int(g)-p.g, int(b)-p.b
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			best, bestDist = p.attr, d
		}
	}
	return best
}
