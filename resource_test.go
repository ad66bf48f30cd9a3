package bootbanner

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/rickchristie/bootbanner/internal/version"
)

func printResource(t *testing.T, env *Environment, files map[string]string, useColor bool) string {
	t.Helper()
	buf := &renderBuffer{ansi: useColor}
	b := &ResourceBanner{Path: "banner.txt"}
	if err := b.PrintBanner(env, testResources(files), buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return buf.String()
}

func TestResourceBannerPlaceholders(t *testing.T) {
	t.Parallel()
	env := envWith(map[string]any{
		"application.version": "1.2.3",
		"application.title":   "Orders",
		"greeting":            "hello",
	})
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain", "Just text", "Just text\n"},
		{"version", "v=${application.version}", "v=1.2.3\n"},
		{"formatted version", "${application.title}${application.formatted-version}", "Orders (v1.2.3)\n"},
		{"framework version", "${bootbanner.version}", version.Version + "\n"},
		{"environment", "${greeting}", "hello\n"},
		{"default used", "${missing:fallback}", "fallback\n"},
		{"unresolved kept", "${missing}", "${missing}\n"},
		{"keeps newline", "line\n", "line\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := printResource(t, env, map[string]string{"banner.txt": tt.text}, false)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResourceBannerUnknownVersionUsesDefault(t *testing.T) {
	t.Parallel()
	got := printResource(t, emptyEnv(), map[string]string{"banner.txt": "${application.title:untitled}"}, false)
	if got != "untitled\n" {
		t.Errorf("got %q", got)
	}
}

func TestResourceBannerAnsi(t *testing.T) {
	t.Parallel()
	files := map[string]string{"banner.txt": "${AnsiColor.RED}red${Ansi.DEFAULT} text"}

	plain := printResource(t, emptyEnv(), files, false)
	if plain != "red text\n" {
		t.Errorf("expected ANSI placeholders stripped, got %q", plain)
	}

	colored := printResource(t, emptyEnv(), files, true)
	if !strings.Contains(colored, "\x1b[31m") {
		t.Errorf("expected red escape, got %q", colored)
	}
}

func TestResourceBannerMissingFile(t *testing.T) {
	t.Parallel()
	b := &ResourceBanner{Path: "nope.txt"}
	if err := b.PrintBanner(emptyEnv(), testResources(nil), &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for missing resource")
	}
}

func TestResourceBannerNoResources(t *testing.T) {
	t.Parallel()
	b := &ResourceBanner{Path: "banner.txt"}
	err := b.PrintBanner(emptyEnv(), nil, &bytes.Buffer{})
	if !errors.Is(err, ErrNoResources) {
		t.Fatalf("expected ErrNoResources, got %v", err)
	}
}

func TestResolveTextResource(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	p := NewPrinter(PrinterConfig{
		Resources: testResources(map[string]string{"banner.txt": "From file"}),
		Out:       &out,
		Log:       DisabledLogChannel(),
	})
	rb, err := p.Print(emptyEnv(), ModeConsole)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "From file\n" {
		t.Errorf("unexpected output %q", out.String())
	}
	if _, ok := rb.Source.(*ResourceBanner); !ok {
		t.Errorf("expected ResourceBanner source, got %T", rb.Source)
	}
}

func TestResolveCustomLocation(t *testing.T) {
	t.Parallel()
	p := NewPrinter(PrinterConfig{
		Resources: testResources(map[string]string{"art/custom.txt": "Custom"}),
		Out:       &bytes.Buffer{},
		Log:       DisabledLogChannel(),
	})
	b := p.Resolve(envWith(map[string]any{"banner.location": "art/custom.txt"}))
	rb, ok := b.(*ResourceBanner)
	if !ok || rb.Path != "art/custom.txt" {
		t.Fatalf("expected resource banner at art/custom.txt, got %#v", b)
	}
}

func TestResolveMissingResourceFallsBack(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		env  *Environment
	}{
		{"no file", emptyEnv()},
		{"missing location", envWith(map[string]any{"banner.location": "missing.txt"})},
		{"invalid location", envWith(map[string]any{"banner.location": "../outside.txt"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := NewPrinter(PrinterConfig{Resources: testResources(nil), Out: &bytes.Buffer{}, Log: DisabledLogChannel()})
			if _, ok := p.Resolve(tt.env).(DefaultBanner); !ok {
				t.Errorf("expected DefaultBanner fallback")
			}
		})
	}
}

// readFailFS fails every ReadFile after the first ok reads.
type readFailFS struct {
	fstest.MapFS
	ok int
}

func (f *readFailFS) ReadFile(name string) ([]byte, error) {
	if f.ok <= 0 {
		return nil, errors.New("permission denied")
	}
	f.ok--
	return f.MapFS.ReadFile(name)
}

func TestResolveUnreadableTextSkipped(t *testing.T) {
	t.Parallel()
	resources := &readFailFS{MapFS: fstest.MapFS{"banner.txt": {Data: []byte("hidden")}}}
	log, logBuf := captureLog()
	var out bytes.Buffer
	p := NewPrinter(PrinterConfig{Resources: resources, Out: &out, Log: log})

	rb, err := p.Print(emptyEnv(), ModeConsole)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := rb.Source.(DefaultBanner); !ok {
		t.Fatalf("expected DefaultBanner fallback, got %T", rb.Source)
	}
	if !strings.Contains(logBuf.String(), "banner.txt") {
		t.Errorf("expected a warning naming the resource, got %q", logBuf.String())
	}
}

func TestPrintFallsBackWhenResourceFailsToRender(t *testing.T) {
	t.Parallel()
	// Readable while resolving, unreadable when rendering.
	resources := &readFailFS{MapFS: fstest.MapFS{"banner.txt": {Data: []byte("gone")}}, ok: 1}
	log, logBuf := captureLog()
	var out bytes.Buffer
	p := NewPrinter(PrinterConfig{Resources: resources, Out: &out, Log: log})

	rb, err := p.Print(emptyEnv(), ModeConsole)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := rb.Source.(DefaultBanner); !ok {
		t.Fatalf("expected DefaultBanner fallback, got %T", rb.Source)
	}
	if rb.Text != out.String() || !strings.Contains(out.String(), DefaultMarker) {
		t.Errorf("expected only the default banner, got %q", out.String())
	}
	if !strings.Contains(logBuf.String(), "not printable") {
		t.Errorf("expected a warning, got %q", logBuf.String())
	}
}

func TestPrintExplicitBannerFailureIsNotReplaced(t *testing.T) {
	t.Parallel()
	p := NewPrinter(PrinterConfig{
		Banner:    failingBanner{},
		Resources: testResources(map[string]string{"banner.txt": "from resources"}),
		Out:       &bytes.Buffer{},
		Log:       DisabledLogChannel(),
	})
	if _, err := p.Print(emptyEnv(), ModeConsole); err == nil {
		t.Fatal("expected the explicit banner error")
	}
}

func TestResolveCustomFallback(t *testing.T) {
	t.Parallel()
	fallback := &dummyBanner{text: "fallback"}
	p := NewPrinter(PrinterConfig{Fallback: fallback, Out: &bytes.Buffer{}, Log: DisabledLogChannel()})
	if p.Resolve(emptyEnv()) != Banner(fallback) {
		t.Error("expected caller fallback")
	}
}

func TestApplicationVersion(t *testing.T) {
	t.Parallel()
	env := envWith(map[string]any{"base": "4.0", "application.version": "${base}.1"})
	if got := ApplicationVersion(env); got != "4.0.1" {
		t.Errorf("expected resolved version 4.0.1, got %q", got)
	}
}

func TestFormatVersion(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"":       "",
		"1.0":    " (v1.0)",
		"v2.3.4": " (v2.3.4)",
	}
	for in, want := range tests {
		if got := formatVersion(in); got != want {
			t.Errorf("formatVersion(%q) = %q, want %q", in, got, want)
		}
	}
}
