package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rickchristie/bootbanner"
	"github.com/rickchristie/bootbanner/internal/ansi"
)

const (
	defaultConfigPath = ".bootbanner/application.yaml"
	configPathEnv     = "BOOTBANNER_CONFIG_PATH"
)

// configPath returns BOOTBANNER_CONFIG_PATH, or the default location.
func configPath() string {
	if p := os.Getenv(configPathEnv); p != "" {
		return p
	}
	return defaultConfigPath
}

// appOptions returns the options shared by every command: an optional config
// file, banner resources next to it, and property arguments. ANSI output
// defaults to what the real stdout supports, since out may be a wrapper.
func appOptions(path string, args []string, out io.Writer) []bootbanner.Option {
	ansiDefault := ansi.Never
	if ansi.Supported(os.Stdout) {
		ansiDefault = ansi.Always
	}
	return []bootbanner.Option{
		bootbanner.WithConfigFile(path, true),
		bootbanner.WithResources(os.DirFS(filepath.Dir(path))),
		bootbanner.WithArgs(args),
		bootbanner.WithOutput(out),
		bootbanner.WithDefaultProperties(map[string]any{
			"output.ansi.enabled": ansiDefault.String(),
		}),
	}
}
