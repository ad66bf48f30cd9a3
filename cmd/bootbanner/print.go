package main

import (
	"context"
	"flag"
	"io"
	"os"

	"github.com/rickchristie/bootbanner"
	"github.com/rickchristie/bootbanner/internal/ansi"
)

func runPrint(args []string) error {
	fs := flag.NewFlagSet("print", flag.ExitOnError)
	cfgPath := fs.String("config", configPath(), "Path to configuration file")
	mode := fs.String("mode", "", "Banner mode: off, console or log (default: banner.mode property)")
	fs.Parse(args)

	return printCmd(context.Background(), ansi.Writer(os.Stdout), *cfgPath, *mode, fs.Args())
}

// printCmd runs an application whose only startup work is the banner.
func printCmd(ctx context.Context, out io.Writer, cfgPath, mode string, args []string) error {
	opts := appOptions(cfgPath, args, out)
	if mode != "" {
		m, err := bootbanner.ParseMode(mode)
		if err != nil {
			return err
		}
		opts = append(opts, bootbanner.WithBannerMode(m))
	}

	appCtx, err := bootbanner.New(opts...).Run(ctx)
	if err != nil {
		return err
	}
	return appCtx.Close()
}
