// Package placeholder expands ${key} and ${key:default} references in text.
package placeholder

import "strings"

const (
	prefix    = "${"
	suffix    = "}"
	separator = ":"

	// maxDepth bounds recursive expansion of values that contain placeholders.
	maxDepth = 16
)

// LookupFunc returns the value for key.
type LookupFunc func(key string) (string, bool)

// Resolve expands every placeholder in text. Values returned by lookup are
// expanded recursively. A placeholder with no value and no default is left
// unchanged, as is a self-referencing cycle.
func Resolve(text string, lookup LookupFunc) string {
	return resolve(text, lookup, map[string]bool{}, 0)
}

func resolve(text string, lookup LookupFunc, visiting map[string]bool, depth int) string {
	if depth > maxDepth || !strings.Contains(text, prefix) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for {
		start := strings.Index(text, prefix)
		if start < 0 {
			b.WriteString(text)
			return b.String()
		}
		end := matchingSuffix(text, start+len(prefix))
		if end < 0 {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:start])
		original := text[start : end+len(suffix)]
		inner := resolve(text[start+len(prefix):end], lookup, visiting, depth+1)
		b.WriteString(expand(inner, original, lookup, visiting, depth))
		text = text[end+len(suffix):]
	}
}

func expand(inner, original string, lookup LookupFunc, visiting map[string]bool, depth int) string {
	key, def, hasDefault := strings.Cut(inner, separator)
	if visiting[key] {
		return original
	}
	if v, ok := lookup(key); ok {
		visiting[key] = true
		v = resolve(v, lookup, visiting, depth+1)
		delete(visiting, key)
		return v
	}
	if hasDefault {
		return def
	}
	return original
}

// matchingSuffix returns the index of the "}" closing the placeholder whose
// body starts at from, honouring nested placeholders. Returns -1 if unclosed.
func matchingSuffix(text string, from int) int {
	nested := 0
	for i := from; i < len(text); i++ {
		switch {
		case strings.HasPrefix(text[i:], prefix):
			nested++
			i += len(prefix) - 1
		case strings.HasPrefix(text[i:], suffix):
			if nested == 0 {
				return i
			}
			nested--
		}
	}
	return -1
}

// Keys returns the outermost placeholder keys referenced by text, in order.
func Keys(text string) []string {
	var keys []string
	for {
		start := strings.Index(text, prefix)
		if start < 0 {
			return keys
		}
		end := matchingSuffix(text, start+len(prefix))
		if end < 0 {
			return keys
		}
		key, _, _ := strings.Cut(text[start+len(prefix):end], separator)
		keys = append(keys, key)
		text = text[end+len(suffix):]
	}
}
