package main

import (
	"flag"
	"os"

	"github.com/rickchristie/bootbanner/internal/configure"
)

func runConfigure(args []string) error {
	fs := flag.NewFlagSet("configure", flag.ExitOnError)
	cfgPath := fs.String("config", configPath(), "Path to configuration file")
	fs.Parse(args)

	if err := printBanner(os.Stderr, useColor(os.Stderr)); err != nil {
		return err
	}
	return configure.Run(*cfgPath)
}
