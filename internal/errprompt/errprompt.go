// Package errprompt adds hints to the error text returned by the banner MCP
// tools so an agent knows which property or call to try next.
package errprompt

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule attaches Message to tool errors whose text matches Pattern.
type Rule struct {
	Pattern string
	Message string
}

// DefaultRules cover the errors returned by startup_banner and get_property.
var DefaultRules = []Rule{
	{Pattern: `(?i)no startup banner registered`, Message: "The banner was disabled for this run (banner.mode=off) or printed by a custom hook. Use get_property with key banner.mode to confirm."},
	{Pattern: `(?i)key parameter is required`, Message: "Pass a dotted property key, e.g. {\"key\": \"banner.mode\"}."},
}

type hint struct {
	re   *regexp.Regexp
	text string
}

// Matcher holds the hints built from mcp.error_prompts and DefaultRules.
type Matcher struct {
	hints []hint
}

// NewMatcher compiles rules in order.
func NewMatcher(rules []Rule) (*Matcher, error) {
	m := &Matcher{hints: make([]hint, 0, len(rules))}
	for i, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("errprompt: rule %d: invalid pattern %q: %v", i, r.Pattern, err)
		}
		m.hints = append(m.hints, hint{re: re, text: r.Message})
	}
	return m, nil
}

// Match returns the message of every rule matching errMsg, one per line, or
// "" when none match.
func (m *Matcher) Match(errMsg string) string {
	var sb strings.Builder
	for _, h := range m.hints {
		if !h.re.MatchString(errMsg) {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(h.text)
	}
	return sb.String()
}

// Annotate returns errMsg followed by a blank line and its hints.
func (m *Matcher) Annotate(errMsg string) string {
	hints := m.Match(errMsg)
	if hints == "" {
		return errMsg
	}
	return errMsg + "\n\n" + hints
}
