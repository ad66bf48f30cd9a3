package bootbanner

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/rickchristie/bootbanner/internal/ansi"
	"github.com/rickchristie/bootbanner/internal/placeholder"
	"github.com/rickchristie/bootbanner/internal/version"
)

// Default resource locations, relative to the resources filesystem.
const (
	DefaultTextLocation = "banner.txt"
)

// DefaultImageLocations are tried in order when banner.image.location is unset.
var DefaultImageLocations = []string{"banner.gif", "banner.jpg", "banner.png"}

// ErrNoResources is returned by resource banners printed without a
// resources filesystem.
var ErrNoResources = errors.New("bootbanner: no resources filesystem")

// ResourceBanner prints a text resource. ${key} and ${key:default}
// placeholders are resolved against the version properties and then the
// environment; ANSI placeholders become escape codes or are stripped.
type ResourceBanner struct {
	Path string
}

// PrintBanner implements Banner.
func (b *ResourceBanner) PrintBanner(env *Environment, resources fs.FS, out io.Writer) error {
	if resources == nil {
		return ErrNoResources
	}
	data, err := fs.ReadFile(resources, b.Path)
	if err != nil {
		return fmt.Errorf("failed to read banner %s: %w", b.Path, err)
	}
	text := strings.ToValidUTF8(string(data), "�")

	props := versionProperties(env)
	text = placeholder.Resolve(text, func(key string) (string, bool) {
		if v, ok := props[key]; ok {
			return v, true
		}
		return env.Lookup(key)
	})
	text = ansi.Expand(text, ANSIEnabled(out))
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err = io.WriteString(out, text)
	return err
}

// ApplicationVersion returns application.version, falling back to the main
// module version stamped into the binary. Returns "" when neither is known.
func ApplicationVersion(env *Environment) string {
	if v, ok := env.Lookup("application.version"); ok && v != "" {
		return env.Resolve(v)
	}
	return version.MainModule()
}

func versionProperties(env *Environment) map[string]string {
	appVersion := ApplicationVersion(env)
	title := env.Get("application.title", env.Get("application.name", ""))
	props := map[string]string{
		"application.version":           appVersion,
		"application.formatted-version": formatVersion(appVersion),
		"application.title":             title,
		"bootbanner.version":            version.Version,
		"bootbanner.formatted-version":  formatVersion(version.Version),
	}
	// Unknown values stay unresolved so ${key:default} can apply.
	for k, v := range props {
		if v == "" {
			delete(props, k)
		}
	}
	return props
}

func formatVersion(v string) string {
	if v == "" {
		return ""
	}
	return " (v" + strings.TrimPrefix(v, "v") + ")"
}
