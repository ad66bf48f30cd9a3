// Package propsource reads flat key/value properties from config files,
// process environment variables and command-line arguments.
package propsource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Format identifies a property file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf picks a Format from the file extension. Unknown extensions are YAML,
// which is a superset of JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// LoadFile reads and flattens a YAML or JSON property file.
func LoadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	props, err := Parse(data, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return props, nil
}

// Parse decodes data as the given format and flattens nested maps into
// dotted keys. Lists become indexed keys: "a.b[0]".
func Parse(data []byte, format Format) (map[string]any, error) {
	var tree any
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&tree); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, err
		}
	}

	out := map[string]any{}
	if tree == nil {
		return out, nil
	}
	if _, ok := asMap(tree); !ok {
		return nil, fmt.Errorf("top level must be a mapping, got %T", tree)
	}
	flatten("", tree, out)
	return out, nil
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		conv := make(map[string]any, len(m))
		for k, v := range m {
			conv[cast.ToString(k)] = v
		}
		return conv, true
	}
	return nil, false
}

func flatten(prefix string, v any, out map[string]any) {
	if m, ok := asMap(v); ok {
		for k, child := range m {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flatten(key, child, out)
		}
		return
	}
	if list, ok := v.([]any); ok {
		for i, child := range list {
			flatten(prefix+"["+strconv.Itoa(i)+"]", child, out)
		}
		return
	}
	out[prefix] = v
}

// FromEnviron converts KEY=value pairs (as returned by os.Environ) into
// properties. Each variable is available under its raw name and under a
// relaxed name: lower case with '_' replaced by '.', so BANNER_MODE also
// answers banner.mode.
func FromEnviron(environ []string) map[string]any {
	out := make(map[string]any, len(environ)*2)
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		out[name] = value
		out[RelaxedName(name)] = value
	}
	return out
}

// RelaxedName maps an environment variable name to a property key.
func RelaxedName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "_", ".")
}

// FromArgs extracts --key=value options. A bare --key maps to "".
// Arguments that are not options are returned in order as rest.
// A lone "--" ends option parsing.
func FromArgs(args []string) (props map[string]any, rest []string) {
	props = map[string]any{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			rest = append(rest, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "--") || len(arg) == 2 {
			rest = append(rest, arg)
			continue
		}
		name, value, _ := strings.Cut(arg[2:], "=")
		if name == "" {
			rest = append(rest, arg)
			continue
		}
		props[name] = value
	}
	return props, rest
}
