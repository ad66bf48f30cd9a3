package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Note: Tests using t.Setenv() cannot use t.Parallel() in Go.

func TestConfigPathDefault(t *testing.T) {
	t.Setenv(configPathEnv, "")
	if got := configPath(); got != defaultConfigPath {
		t.Fatalf("expected %q, got %q", defaultConfigPath, got)
	}
}

func TestConfigPathFromEnv(t *testing.T) {
	t.Setenv(configPathEnv, "/etc/app/application.json")
	if got := configPath(); got != "/etc/app/application.json" {
		t.Fatalf("expected env path, got %q", got)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestPrintCmdUsesResourcesNextToConfig(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg := writeFile(t, dir, "application.yaml", "application:\n  name: orders\nlogging:\n  level: error\n")
	writeFile(t, dir, "banner.txt", "Welcome to ${application.name}")

	var out bytes.Buffer
	if err := printCmd(context.Background(), &out, cfg, "", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "Welcome to orders\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestPrintCmdMissingConfigFallsBack(t *testing.T) {
	t.Parallel()
	cfg := filepath.Join(t.TempDir(), "missing.yaml")

	var out bytes.Buffer
	if err := printCmd(context.Background(), &out, cfg, "", []string{"--logging.level=error"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), ":: App ::") {
		t.Fatalf("expected default banner, got %q", out.String())
	}
}

func TestPrintCmdModeFlag(t *testing.T) {
	t.Parallel()
	cfg := filepath.Join(t.TempDir(), "missing.yaml")

	var out bytes.Buffer
	if err := printCmd(context.Background(), &out, cfg, "off", []string{"--logging.level=error"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}

	if err := printCmd(context.Background(), &out, cfg, "loud", nil); err == nil {
		t.Fatal("expected error for invalid mode")
	}
}

func TestPrintCmdPropertyArgs(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg := writeFile(t, dir, "application.yaml", "logging:\n  level: error\n")
	writeFile(t, dir, "other.txt", "Other banner")

	var out bytes.Buffer
	if err := printCmd(context.Background(), &out, cfg, "", []string{"--banner.location=other.txt"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "Other banner\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestPrintCmdInvalidConfig(t *testing.T) {
	t.Parallel()
	cfg := writeFile(t, t.TempDir(), "application.yaml", "banner: [unclosed\n")
	if err := printCmd(context.Background(), &bytes.Buffer{}, cfg, "", nil); err == nil {
		t.Fatal("expected error for invalid config file")
	}
}
