package main

import (
	"io"
	"os"

	"github.com/rickchristie/bootbanner"
	"github.com/rickchristie/bootbanner/internal/ansi"
)

// useColor reports whether f accepts ANSI escape codes.
func useColor(f *os.File) bool {
	return ansi.Supported(f)
}

// printBanner prints the built-in banner for the CLI's own commands.
func printBanner(w io.Writer, color bool) error {
	enabled := ansi.Never
	if color {
		enabled = ansi.Always
	}
	env := bootbanner.NewEnvironment(bootbanner.PropertySource{
		Name:       "cli",
		Properties: map[string]any{"output.ansi.enabled": enabled.String()},
	})
	_, err := bootbanner.Render(bootbanner.ModeConsole, bootbanner.DefaultBanner{}, env, nil, bootbanner.Sink{
		Out: w,
		Log: bootbanner.DisabledLogChannel(),
	})
	return err
}
