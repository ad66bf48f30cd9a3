package bootbanner

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rickchristie/bootbanner/internal/version"
)

func TestDefaultBannerPlain(t *testing.T) {
	t.Parallel()
	buf := &renderBuffer{}
	if err := (DefaultBanner{}).PrintBanner(emptyEnv(), nil, buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "\033[") {
		t.Error("expected no ANSI escape codes when color is disabled")
	}
	if !strings.Contains(out, DefaultMarker) {
		t.Errorf("expected marker %q in output", DefaultMarker)
	}
	if !strings.Contains(out, "(v"+version.Version+")") {
		t.Errorf("expected version in output, got:\n%s", out)
	}
}

func TestDefaultBannerStrapLineWidth(t *testing.T) {
	t.Parallel()
	buf := &renderBuffer{}
	if err := (DefaultBanner{}).PrintBanner(emptyEnv(), nil, buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var strap string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, DefaultMarker) {
			strap = line
		}
	}
	if len(strap) != strapLineSize {
		t.Errorf("expected strap line of %d columns, got %d: %q", strapLineSize, len(strap), strap)
	}
}

func TestDefaultBannerColor(t *testing.T) {
	t.Parallel()
	buf := &renderBuffer{ansi: true}
	if err := (DefaultBanner{}).PrintBanner(emptyEnv(), nil, buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "\033[32m") {
		t.Error("expected green marker")
	}
	if !strings.Contains(out, "\033[2m") {
		t.Error("expected faint version")
	}
}

func TestANSIEnabledPlainWriter(t *testing.T) {
	t.Parallel()
	if ANSIEnabled(&bytes.Buffer{}) {
		t.Error("expected a bytes.Buffer not to support ANSI")
	}
	if !ANSIEnabled(&renderBuffer{ansi: true}) {
		t.Error("expected render buffer decision to be honoured")
	}
}

func TestBannersPrintInOrder(t *testing.T) {
	t.Parallel()
	c := NewBanners(&dummyBanner{text: "first"}, nil, &dummyBanner{text: "second"})
	if len(c.Parts()) != 2 {
		t.Fatalf("expected nil banners to be dropped, got %d parts", len(c.Parts()))
	}
	var buf bytes.Buffer
	if err := c.PrintBanner(emptyEnv(), nil, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "first\nsecond\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestBannersStopAtFirstError(t *testing.T) {
	t.Parallel()
	c := NewBanners(failingBanner{}, &dummyBanner{text: "never"})
	var buf bytes.Buffer
	if err := c.PrintBanner(emptyEnv(), nil, &buf); err == nil {
		t.Fatal("expected error")
	}
	if buf.Len() != 0 {
		t.Errorf("expected later banners to be skipped, got %q", buf.String())
	}
}

func TestBannersPartsIsCopy(t *testing.T) {
	t.Parallel()
	c := NewBanners(&dummyBanner{text: "a"})
	parts := c.Parts()
	parts[0] = nil
	if c.Parts()[0] == nil {
		t.Error("expected Parts to return a copy")
	}
}
