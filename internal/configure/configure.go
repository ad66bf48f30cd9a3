package configure

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/creasty/defaults"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/rickchristie/bootbanner/internal/propsource"
)

// Settings is the application config file written by the wizard. Keys match
// the properties read by bootbanner once the file is flattened.
type Settings struct {
	Application struct {
		Name    string `json:"name,omitempty" yaml:"name,omitempty"`
		Version string `json:"version,omitempty" yaml:"version,omitempty"`
	} `json:"application" yaml:"application"`

	Banner struct {
		Mode     string `json:"mode" yaml:"mode" default:"console"`
		Location string `json:"location" yaml:"location" default:"banner.txt"`
		Image    struct {
			Location string `json:"location,omitempty" yaml:"location,omitempty"`
			Width    int    `json:"width" yaml:"width" default:"76"`
			Margin   int    `json:"margin" yaml:"margin" default:"2"`
			Invert   bool   `json:"invert" yaml:"invert"`
		} `json:"image" yaml:"image"`
	} `json:"banner" yaml:"banner"`

	Output struct {
		Ansi struct {
			Enabled string `json:"enabled" yaml:"enabled" default:"detect"`
		} `json:"ansi" yaml:"ansi"`
	} `json:"output" yaml:"output"`

	Server struct {
		Port               int    `json:"port" yaml:"port" default:"8080"`
		HealthCheckEnabled bool   `json:"health_check_enabled" yaml:"health_check_enabled"`
		HealthCheckPath    string `json:"health_check_path,omitempty" yaml:"health_check_path,omitempty"`
	} `json:"server" yaml:"server"`

	Logging struct {
		Level  string `json:"level" yaml:"level" default:"info"`
		Format string `json:"format" yaml:"format" default:"json"`
		Output string `json:"output" yaml:"output" default:"stderr"`
	} `json:"logging" yaml:"logging"`
}

// Run runs the interactive configuration wizard.
// Reads existing config (if any), prompts for each field,
// writes updated config to the given path.
func Run(configPath string) error {
	return run(configPath, os.Stdin, os.Stderr)
}

func run(configPath string, input io.Reader, output io.Writer) error {
	scanner := bufio.NewScanner(input)
	cfg, isNew := loadExisting(configPath)
	if isNew {
		if err := defaults.Set(cfg); err != nil {
			return fmt.Errorf("failed to apply defaults: %w", err)
		}
	}

	p := &prompter{
		scanner: scanner,
		output:  output,
		isNew:   isNew,
	}

	fmt.Fprintf(output, "bootbanner configuration wizard\n")
	fmt.Fprintf(output, "Config file: %s\n\n", configPath)

	fmt.Fprintf(output, "=== Application ===\n")
	p.text("application.name", "", &cfg.Application.Name)
	p.text("application.version", "e.g. 1.2.3, empty = build info", &cfg.Application.Version)

	fmt.Fprintf(output, "\n=== Banner ===\n")
	p.choice("banner.mode", bannerModes, &cfg.Banner.Mode)
	p.text("banner.location", "text resource, relative to the config directory", &cfg.Banner.Location)
	p.text("banner.image.location", "empty = banner.gif, banner.jpg or banner.png", &cfg.Banner.Image.Location)
	p.integer("banner.image.width", "columns", 1, &cfg.Banner.Image.Width)
	p.integer("banner.image.margin", "columns", 0, &cfg.Banner.Image.Margin)
	p.boolean("banner.image.invert", &cfg.Banner.Image.Invert)

	fmt.Fprintf(output, "\n=== Output ===\n")
	p.choice("output.ansi.enabled", ansiModes, &cfg.Output.Ansi.Enabled)

	fmt.Fprintf(output, "\n=== Server ===\n")
	p.integer("server.port", "", 1, &cfg.Server.Port)
	p.boolean("server.health_check_enabled", &cfg.Server.HealthCheckEnabled)
	p.text("server.health_check_path", "e.g. /healthz, required when health_check_enabled is true", &cfg.Server.HealthCheckPath)

	fmt.Fprintf(output, "\n=== Logging ===\n")
	p.choice("logging.level", logLevels, &cfg.Logging.Level)
	p.choice("logging.format", logFormats, &cfg.Logging.Format)
	p.text("logging.output", "stdout, stderr, or file path", &cfg.Logging.Output)

	if err := writeConfig(configPath, cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(output, "\nConfiguration saved to %s\n", configPath)
	return nil
}

func loadExisting(configPath string) (*Settings, bool) {
	cfg := &Settings{}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg, true
	}
	// Start with whatever was parseable.
	if propsource.FormatOf(configPath) == propsource.FormatJSON {
		_ = json.Unmarshal(data, cfg)
	} else {
		_ = yaml.Unmarshal(data, cfg)
	}
	return cfg, false
}

var (
	bannerModes = []string{"off", "console", "log"}
	ansiModes   = []string{"detect", "always", "never"}
	logLevels   = []string{"debug", "info", "warn", "error"}
	logFormats  = []string{"json", "text"}
)

// writeConfig writes cfg as JSON when configPath ends in .json, YAML otherwise.
func writeConfig(configPath string, cfg *Settings) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	var data []byte
	var err error
	if propsource.FormatOf(configPath) == propsource.FormatJSON {
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", configPath, err)
	}
	return nil
}

// prompter asks one field per line. An empty answer keeps the shown value.
type prompter struct {
	scanner *bufio.Scanner
	output  io.Writer
	isNew   bool
}

// ask prints "field [hint] (default: shown): " and returns the trimmed answer.
func (p *prompter) ask(field, hint string, shown any) string {
	label := "current"
	if p.isNew {
		label = "default"
	}
	if hint != "" {
		field += " [" + hint + "]"
	}
	fmt.Fprintf(p.output, "%s (%s: %v): ", field, label, shown)
	if !p.scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(p.scanner.Text())
}

// until re-asks field until accept takes the answer or the answer is empty.
func (p *prompter) until(field, hint string, shown any, accept func(string) error) {
	for {
		in := p.ask(field, hint, shown)
		if in == "" {
			return
		}
		err := accept(in)
		if err == nil {
			return
		}
		fmt.Fprintf(p.output, "  %v, try again.\n", err)
	}
}

func (p *prompter) text(field, hint string, v *string) {
	if in := p.ask(field, hint, strconv.Quote(*v)); in != "" {
		*v = in
	}
}

func (p *prompter) integer(field, hint string, min int, v *int) {
	p.until(field, hint, *v, func(in string) error {
		n, err := cast.ToIntE(in)
		if err != nil {
			return fmt.Errorf("%q is not an integer", in)
		}
		if n < min {
			return fmt.Errorf("%s must be >= %d", field, min)
		}
		*v = n
		return nil
	})
}

func (p *prompter) boolean(field string, v *bool) {
	p.until(field, "yes/no", *v, func(in string) error {
		switch strings.ToLower(in) {
		case "true", "t", "yes", "y", "1":
			*v = true
		case "false", "f", "no", "n", "0":
			*v = false
		default:
			return fmt.Errorf("%q is not yes or no", in)
		}
		return nil
	})
}

func (p *prompter) choice(field string, allowed []string, v *string) {
	p.until(field, strings.Join(allowed, "|"), strconv.Quote(*v), func(in string) error {
		if !slices.Contains(allowed, in) {
			return fmt.Errorf("%q is not one of %s", in, strings.Join(allowed, ", "))
		}
		*v = in
		return nil
	})
}
