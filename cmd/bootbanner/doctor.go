package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rickchristie/bootbanner"
	"github.com/rickchristie/bootbanner/internal/ansi"
	"github.com/rickchristie/bootbanner/internal/propsource"
	"github.com/rickchristie/bootbanner/internal/version"
)

func runDoctor(args []string) error {
	fs := flag.NewFlagSet("doctor", flag.ExitOnError)
	cfgPath := fs.String("config", configPath(), "Path to configuration file")
	fs.Parse(args)

	return doctor(os.Stderr, useColor(os.Stderr), *cfgPath, os.Environ())
}

func doctor(w io.Writer, useColor bool, cfgPath string, environ []string) error {
	if err := printBanner(w, useColor); err != nil {
		return err
	}
	fmt.Fprintf(w, "bootbanner %s\n\n", version.Full())

	settings, ok := doctorValidateConfig(w, useColor, cfgPath, environ)
	if !ok {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Fix the issues above and run 'bootbanner doctor' again.")
		return nil
	}

	fmt.Fprintln(w)
	printAgentSnippets(w, useColor, settings)
	return nil
}

// doctorValidateConfig loads the config file, resolves the banner it selects
// and prints check results. Returns the server settings and true if all
// checks passed.
func doctorValidateConfig(w io.Writer, useColor bool, cfgPath string, environ []string) (ServerSettings, bool) {
	allPassed := true
	fail := func(msg string) {
		printCheck(w, useColor, false, msg)
		allPassed = false
	}

	// Check 1: config file exists and parses
	if _, err := os.Stat(cfgPath); err != nil {
		fail(fmt.Sprintf("Config file readable (%s)", cfgPath))
		return ServerSettings{}, false
	}
	printCheck(w, useColor, true, fmt.Sprintf("Config file readable (%s)", cfgPath))

	format := strings.ToUpper(string(propsource.FormatOf(cfgPath)))
	if _, err := propsource.LoadFile(cfgPath); err != nil {
		fail(fmt.Sprintf("Config file is valid %s: %v", format, errors.Unwrap(err)))
		return ServerSettings{}, false
	}
	printCheck(w, useColor, true, fmt.Sprintf("Config file is valid %s", format))

	env, _, err := bootbanner.LoadEnvironment(bootbanner.EnvironmentConfig{
		Environ:    environ,
		ConfigFile: cfgPath,
	})
	if err != nil {
		fail(fmt.Sprintf("Environment loads: %v", err))
		return ServerSettings{}, false
	}

	// Check 2: banner and output settings
	mode, err := bootbanner.ParseMode(env.Get("banner.mode", ""))
	if err != nil {
		fail(fmt.Sprintf("banner.mode is valid: %v", err))
	} else {
		printCheck(w, useColor, true, fmt.Sprintf("banner.mode is valid (%s)", mode))
	}

	if enabled, err := ansi.ParseEnabled(env.Get("output.ansi.enabled", "")); err != nil {
		fail(fmt.Sprintf("output.ansi.enabled is valid: %v", err))
	} else {
		printCheck(w, useColor, true, fmt.Sprintf("output.ansi.enabled is valid (%s)", enabled))
	}

	if _, err := bootbanner.LoggingConfigFrom(env); err != nil {
		fail(fmt.Sprintf("logging settings are valid: %v", err))
	} else {
		printCheck(w, useColor, true, "logging settings are valid")
	}

	// Check 3: banner resources
	resources := os.DirFS(filepath.Dir(cfgPath))
	if !checkImages(w, useColor, env, resources) {
		allPassed = false
	}

	printer := bootbanner.NewPrinter(bootbanner.PrinterConfig{
		Resources: resources,
		Out:       io.Discard,
		Log:       bootbanner.DisabledLogChannel(),
	})
	banner := printer.Resolve(env)
	printCheck(w, useColor, true, "Banner source: "+describeBanner(banner))

	rb, err := bootbanner.Render(bootbanner.ModeConsole, banner, env, resources, bootbanner.Sink{
		Out: io.Discard,
		Log: bootbanner.DisabledLogChannel(),
	})
	if err != nil {
		fail(fmt.Sprintf("Banner renders: %v", err))
	} else {
		printCheck(w, useColor, true, fmt.Sprintf("Banner renders (%d lines)", strings.Count(rb.Text, "\n")))
	}

	// Check 4: server settings
	settings, err := serverSettingsFrom(env)
	if err != nil {
		fail(fmt.Sprintf("server settings are valid: %v", err))
		return settings, false
	}
	printCheck(w, useColor, true, fmt.Sprintf("server.port is > 0 (%d)", settings.Port))
	if settings.HealthCheckEnabled {
		printCheck(w, useColor, true, fmt.Sprintf("health_check_path is set (%s)", settings.HealthCheckPath))
	}

	return settings, allPassed
}

// checkImages prints a check for every banner image candidate that exists.
func checkImages(w io.Writer, useColor bool, env *bootbanner.Environment, resources fs.FS) bool {
	candidates := bootbanner.DefaultImageLocations
	if loc, ok := env.Lookup("banner.image.location"); ok {
		candidates = []string{env.Resolve(loc)}
	}
	ok := true
	for _, path := range candidates {
		if !fs.ValidPath(path) {
			continue
		}
		if _, err := fs.Stat(resources, path); err != nil {
			continue
		}
		if err := bootbanner.CheckImage(resources, path); err != nil {
			printCheck(w, useColor, false, fmt.Sprintf("Banner image decodes (%s): %v", path, err))
			ok = false
			continue
		}
		printCheck(w, useColor, true, fmt.Sprintf("Banner image decodes (%s)", path))
	}
	return ok
}

func describeBanner(b bootbanner.Banner) string {
	switch v := b.(type) {
	case *bootbanner.ResourceBanner:
		return "text resource " + v.Path
	case *bootbanner.ImageBanner:
		return "image resource " + v.Path
	case *bootbanner.Banners:
		var parts []string
		for _, p := range v.Parts() {
			parts = append(parts, describeBanner(p))
		}
		return strings.Join(parts, " + ")
	}
	return "default banner (no resource found)"
}

// printCheck prints a colored ✓ or ✗ check line.
func printCheck(w io.Writer, useColor bool, pass bool, msg string) {
	if pass {
		if useColor {
			fmt.Fprintf(w, "  \033[32m✓\033[0m %s\n", msg)
		} else {
			fmt.Fprintf(w, "  ✓ %s\n", msg)
		}
	} else {
		if useColor {
			fmt.Fprintf(w, "  \033[31m✗\033[0m %s\n", msg)
		} else {
			fmt.Fprintf(w, "  ✗ %s\n", msg)
		}
	}
}

// printAgentSnippets prints MCP connection config snippets for various AI agents.
func printAgentSnippets(w io.Writer, useColor bool, settings ServerSettings) {
	url := fmt.Sprintf("http://localhost:%d/mcp", settings.Port)

	heading := func(title string) {
		if useColor {
			fmt.Fprintf(w, "\033[1;36m%s\033[0m\n", title)
		} else {
			fmt.Fprintln(w, title)
		}
	}

	subheading := func(title string) {
		if useColor {
			fmt.Fprintf(w, "  \033[1m%s\033[0m\n", title)
		} else {
			fmt.Fprintf(w, "  %s\n", title)
		}
	}

	heading("Agent Connection Snippets")
	fmt.Fprintln(w)

	subheading("Claude Code")
	fmt.Fprintf(w, "  Run this command to add the server:\n\n")
	fmt.Fprintf(w, "    claude mcp add --transport http bootbanner %s\n\n", url)

	subheading("Cursor (.cursor/mcp.json)")
	fmt.Fprintf(w, `  {
    "mcpServers": {
      "bootbanner": {
        "url": "%s"
      }
    }
  }
`, url)
	fmt.Fprintln(w)

	subheading("Gemini CLI (~/.gemini/settings.json)")
	fmt.Fprintf(w, `  {
    "mcpServers": {
      "bootbanner": {
        "httpUrl": "%s"
      }
    }
  }
`, url)
}
