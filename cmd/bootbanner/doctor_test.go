package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runDoctorFor(t *testing.T, cfg string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := doctor(&buf, false, cfg, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return buf.String()
}

func TestDoctorValidConfig(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg := writeFile(t, dir, "application.yaml", "banner:\n  mode: log\nserver:\n  port: 9090\n")
	writeFile(t, dir, "banner.txt", "Hello")

	output := runDoctorFor(t, cfg)

	if strings.Contains(output, "✗") {
		t.Fatalf("expected all checks to pass, but found failures in output:\n%s", output)
	}
	for _, want := range []string{
		"Config file readable",
		"Config file is valid YAML",
		"banner.mode is valid (log)",
		"output.ansi.enabled is valid (detect)",
		"logging settings are valid",
		"Banner source: text resource banner.txt",
		"Banner renders (1 lines)",
		"server.port is > 0 (9090)",
		"claude mcp add --transport http bootbanner http://localhost:9090/mcp",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestDoctorDefaultBanner(t *testing.T) {
	t.Parallel()
	cfg := writeFile(t, t.TempDir(), "application.json", `{"server": {"port": 8081}}`)

	output := runDoctorFor(t, cfg)
	if !strings.Contains(output, "Config file is valid JSON") {
		t.Errorf("expected JSON check in output:\n%s", output)
	}
	if !strings.Contains(output, "Banner source: default banner (no resource found)") {
		t.Errorf("expected default banner source in output:\n%s", output)
	}
}

func TestDoctorMissingConfig(t *testing.T) {
	t.Parallel()
	output := runDoctorFor(t, filepath.Join(t.TempDir(), "nope.yaml"))

	if !strings.Contains(output, "✗ Config file readable") {
		t.Fatalf("expected failing readable check in output:\n%s", output)
	}
	if !strings.Contains(output, "Fix the issues above") {
		t.Fatalf("expected fix hint in output:\n%s", output)
	}
	if strings.Contains(output, "Agent Connection Snippets") {
		t.Fatalf("expected no snippets when checks fail:\n%s", output)
	}
}

func TestDoctorInvalidConfig(t *testing.T) {
	t.Parallel()
	cfg := writeFile(t, t.TempDir(), "application.json", `{"banner": `)

	output := runDoctorFor(t, cfg)
	if !strings.Contains(output, "✗ Config file is valid JSON") {
		t.Fatalf("expected failing JSON check in output:\n%s", output)
	}
}

func TestDoctorInvalidSettings(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		config string
		want   string
	}{
		{"mode", "banner:\n  mode: loud\n", "✗ banner.mode is valid"},
		{"ansi", "output:\n  ansi:\n    enabled: sometimes\n", "✗ output.ansi.enabled is valid"},
		{"logging", "logging:\n  format: xml\n", "✗ logging settings are valid"},
		{"port", "server:\n  port: 0\n", "✗ server settings are valid"},
		{"health path", "server:\n  health_check_enabled: true\n  health_check_path: \"\"\n", "✗ server settings are valid"},
		{"image width", "banner:\n  image:\n    width: 0\n", "✗ Banner renders"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			if tt.name == "image width" {
				writePNG(t, filepath.Join(dir, "banner.png"))
			}
			cfg := writeFile(t, dir, "application.yaml", tt.config)
			output := runDoctorFor(t, cfg)
			if !strings.Contains(output, tt.want) {
				t.Fatalf("expected %q in output:\n%s", tt.want, output)
			}
			if !strings.Contains(output, "Fix the issues above") {
				t.Fatalf("expected fix hint in output:\n%s", output)
			}
		})
	}
}

func TestDoctorImages(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "banner.png"))
	writeFile(t, dir, "banner.gif", "not a gif")
	cfg := writeFile(t, dir, "application.yaml", "banner:\n  image:\n    width: 8\n")

	output := runDoctorFor(t, cfg)
	if !strings.Contains(output, "✗ Banner image decodes (banner.gif)") {
		t.Errorf("expected failing gif check in output:\n%s", output)
	}
	if !strings.Contains(output, "✓ Banner image decodes (banner.png)") {
		t.Errorf("expected passing png check in output:\n%s", output)
	}
	if !strings.Contains(output, "Banner source: image resource banner.png") {
		t.Errorf("expected png to be selected in output:\n%s", output)
	}
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create png: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewGray(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
}

func TestPrintCheck(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	printCheck(&buf, true, true, "ok")
	printCheck(&buf, true, false, "bad")
	out := buf.String()
	if !strings.Contains(out, "\033[32m✓\033[0m ok") || !strings.Contains(out, "\033[31m✗\033[0m bad") {
		t.Fatalf("unexpected output %q", out)
	}
}
