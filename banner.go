package bootbanner

import (
	"bytes"
	"io"
	"io/fs"
	"strings"

	"github.com/fatih/color"

	"github.com/rickchristie/bootbanner/internal/ansi"
	"github.com/rickchristie/bootbanner/internal/version"
)

// Banner writes banner text.
//
// resources locates banner resources relative to the application; it may be
// nil. Implementations are called once per application run.
type Banner interface {
	PrintBanner(env *Environment, resources fs.FS, out io.Writer) error
}

// ANSIEnabled reports whether a banner may write escape codes to out.
// Writers handed to a Banner by the Printer carry the decision; any other
// writer is checked for a terminal.
func ANSIEnabled(out io.Writer) bool {
	if w, ok := out.(interface{ ANSIEnabled() bool }); ok {
		return w.ANSIEnabled()
	}
	return ansi.Supported(out)
}

// renderBuffer collects banner output before it reaches a sink.
type renderBuffer struct {
	bytes.Buffer
	ansi bool
}

func (b *renderBuffer) ANSIEnabled() bool { return b.ansi }

// DefaultMarker identifies the built-in banner.
const DefaultMarker = ":: App ::"

// strapLineSize is the column the version is right-aligned to.
const strapLineSize = 42

var defaultArt = []string{
	``,
	`  ____              _   ____                              `,
	` | __ )  ___   ___ | |_| __ )  __ _ _ __  _ __   ___ _ __ `,
	` |  _ \ / _ \ / _ \| __|  _ \ / _' | '_ \| '_ \ / _ \ '__|`,
	` | |_) | (_) | (_) | |_| |_) | (_| | | | | | | |  __/ |   `,
	` |____/ \___/ \___/ \__|____/ \__,_|_| |_|_| |_|\___|_|   `,
}

// DefaultBanner is the built-in ASCII art followed by the marker and the
// bootbanner version.
type DefaultBanner struct{}

// PrintBanner implements Banner.
func (DefaultBanner) PrintBanner(_ *Environment, _ fs.FS, out io.Writer) error {
	useColor := ANSIEnabled(out)

	var b strings.Builder
	for _, line := range defaultArt {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	marker := " " + DefaultMarker + " "
	ver := " (v" + version.Version + ")"
	padding := ""
	if n := strapLineSize - len(ver) - len(marker); n > 0 {
		padding = strings.Repeat(" ", n)
	}
	b.WriteString(ansi.Colorize(marker, useColor, color.FgGreen))
	b.WriteString(padding)
	b.WriteString(ansi.Colorize(ver, useColor, color.Faint))
	b.WriteString("\n\n")

	_, err := io.WriteString(out, b.String())
	return err
}

// Banners prints several banners in order, stopping at the first error.
type Banners struct {
	banners []Banner
}

// NewBanners returns a composite of bs. Nil entries are dropped.
func NewBanners(bs ...Banner) *Banners {
	c := &Banners{}
	for _, b := range bs {
		if b != nil {
			c.banners = append(c.banners, b)
		}
	}
	return c
}

// Parts returns the banners in print order.
func (c *Banners) Parts() []Banner {
	return append([]Banner(nil), c.banners...)
}

// PrintBanner implements Banner.
func (c *Banners) PrintBanner(env *Environment, resources fs.FS, out io.Writer) error {
	for _, b := range c.banners {
		if err := b.PrintBanner(env, resources, out); err != nil {
			return err
		}
	}
	return nil
}
