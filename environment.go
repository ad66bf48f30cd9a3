package bootbanner

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/spf13/cast"

	"github.com/rickchristie/bootbanner/internal/placeholder"
	"github.com/rickchristie/bootbanner/internal/propsource"
)

// PropertySource is a named set of properties. Keys are dotted paths such as
// "banner.mode".
type PropertySource struct {
	Name       string
	Properties map[string]any
}

// Environment is a read-only view over ordered property sources. The first
// source holding a key wins. A nil *Environment has no properties.
type Environment struct {
	sources []PropertySource
}

// NewEnvironment copies the given sources. Later changes to the maps are not
// observed.
func NewEnvironment(sources ...PropertySource) *Environment {
	copied := make([]PropertySource, 0, len(sources))
	for _, s := range sources {
		props := make(map[string]any, len(s.Properties))
		for k, v := range s.Properties {
			props[k] = v
		}
		copied = append(copied, PropertySource{Name: s.Name, Properties: props})
	}
	return &Environment{sources: copied}
}

// Lookup returns the raw string value of key.
func (e *Environment) Lookup(key string) (string, bool) {
	if e == nil {
		return "", false
	}
	for _, s := range e.sources {
		v, ok := s.Properties[key]
		if !ok {
			continue
		}
		str, err := cast.ToStringE(v)
		if err != nil {
			str = fmt.Sprint(v)
		}
		return str, true
	}
	return "", false
}

// Get returns the value of key with placeholders resolved, or def.
func (e *Environment) Get(key, def string) string {
	v, ok := e.Lookup(key)
	if !ok {
		return def
	}
	return e.Resolve(v)
}

// GetBool returns key parsed as a boolean, or def when unset.
func (e *Environment) GetBool(key string, def bool) (bool, error) {
	v, ok := e.Lookup(key)
	if !ok {
		return def, nil
	}
	b, err := cast.ToBoolE(e.Resolve(v))
	if err != nil {
		return def, fmt.Errorf("property %s: %w", key, err)
	}
	return b, nil
}

// GetInt returns key parsed as an integer, or def when unset.
func (e *Environment) GetInt(key string, def int) (int, error) {
	v, ok := e.Lookup(key)
	if !ok {
		return def, nil
	}
	i, err := cast.ToIntE(e.Resolve(v))
	if err != nil {
		return def, fmt.Errorf("property %s: %w", key, err)
	}
	return i, nil
}

// Indexed reads a list of records stored as prefix[0].field, prefix[1].field
// and so on, stopping at the first index with none of fields set. Values have
// placeholders resolved.
func (e *Environment) Indexed(prefix string, fields ...string) []map[string]string {
	var out []map[string]string
	for i := 0; ; i++ {
		rec := map[string]string{}
		for _, f := range fields {
			if v, ok := e.Lookup(fmt.Sprintf("%s[%d].%s", prefix, i, f)); ok {
				rec[f] = e.Resolve(v)
			}
		}
		if len(rec) == 0 {
			return out
		}
		out = append(out, rec)
	}
}

// Resolve expands ${key} and ${key:default} placeholders in text.
func (e *Environment) Resolve(text string) string {
	return placeholder.Resolve(text, e.Lookup)
}

// Keys returns every key across all sources, sorted.
func (e *Environment) Keys() []string {
	if e == nil {
		return nil
	}
	seen := map[string]bool{}
	var keys []string
	for _, s := range e.sources {
		for k := range s.Properties {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// SourceNames returns the source names in precedence order.
func (e *Environment) SourceNames() []string {
	if e == nil {
		return nil
	}
	names := make([]string, len(e.sources))
	for i, s := range e.sources {
		names[i] = s.Name
	}
	return names
}

// Property source names used by LoadEnvironment.
const (
	SourceCommandLine = "commandLineArgs"
	SourceSystemEnv   = "systemEnvironment"
	SourceConfigFile  = "configFile"
	SourceDefaults    = "defaultProperties"
)

// EnvironmentConfig describes where LoadEnvironment reads properties from.
type EnvironmentConfig struct {
	// Args are command-line arguments; --key=value options become properties.
	Args []string
	// Environ is a KEY=value list, usually os.Environ().
	Environ []string
	// ConfigFile is a YAML or JSON file. Empty means none.
	ConfigFile string
	// ConfigFileOptional skips a ConfigFile that does not exist.
	ConfigFileOptional bool
	// Defaults have the lowest precedence.
	Defaults map[string]any
}

// LoadEnvironment builds an Environment with precedence: command-line args,
// system environment, config file, defaults. It also returns the arguments
// that were not --key=value options.
func LoadEnvironment(cfg EnvironmentConfig) (*Environment, []string, error) {
	args, rest := propsource.FromArgs(cfg.Args)
	sources := []PropertySource{
		{Name: SourceCommandLine, Properties: args},
		{Name: SourceSystemEnv, Properties: propsource.FromEnviron(cfg.Environ)},
	}

	if cfg.ConfigFile != "" {
		props, err := propsource.LoadFile(cfg.ConfigFile)
		switch {
		case err == nil:
			sources = append(sources, PropertySource{Name: SourceConfigFile, Properties: props})
		case cfg.ConfigFileOptional && errors.Is(err, fs.ErrNotExist):
		default:
			return nil, nil, err
		}
	}

	if len(cfg.Defaults) > 0 {
		sources = append(sources, PropertySource{Name: SourceDefaults, Properties: cfg.Defaults})
	}
	return NewEnvironment(sources...), rest, nil
}
