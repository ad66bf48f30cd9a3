// Package sanitize masks property values before they leave the process.
package sanitize

import (
	"fmt"
	"regexp"
)

// Rule masks the values of keys matching Key. Within a matching value,
// Pattern is replaced with Replacement; an empty Pattern replaces the whole
// value.
type Rule struct {
	Key         string
	Pattern     string
	Replacement string
}

// DefaultRules hide values whose keys look like credentials.
var DefaultRules = []Rule{
	{Key: `(?i)(password|passwd|secret|token|credential|private[._-]?key)`, Replacement: "******"},
}

type compiledRule struct {
	key         *regexp.Regexp
	pattern     *regexp.Regexp
	replacement string
}

// Sanitizer applies regex-based masking to property values.
type Sanitizer struct {
	rules []compiledRule
}

// NewSanitizer creates a new Sanitizer. Returns an error on invalid regex patterns.
func NewSanitizer(rules []Rule) (*Sanitizer, error) {
	compiled := make([]compiledRule, len(rules))
	for i, r := range rules {
		key, err := regexp.Compile(r.Key)
		if err != nil {
			return nil, fmt.Errorf("sanitize: invalid key pattern %q: %v", r.Key, err)
		}
		c := compiledRule{key: key, replacement: r.Replacement}
		if r.Pattern != "" {
			if c.pattern, err = regexp.Compile(r.Pattern); err != nil {
				return nil, fmt.Errorf("sanitize: invalid regex pattern %q: %v", r.Pattern, err)
			}
		}
		compiled[i] = c
	}
	return &Sanitizer{rules: compiled}, nil
}

// Value applies every rule whose key pattern matches key, in order.
func (s *Sanitizer) Value(key, value string) string {
	for _, rule := range s.rules {
		if !rule.key.MatchString(key) {
			continue
		}
		if rule.pattern == nil {
			value = rule.replacement
			continue
		}
		value = rule.pattern.ReplaceAllString(value, rule.replacement)
	}
	return value
}
