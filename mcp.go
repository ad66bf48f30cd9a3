package bootbanner

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rickchristie/bootbanner/internal/errprompt"
	"github.com/rickchristie/bootbanner/internal/placeholder"
	"github.com/rickchristie/bootbanner/internal/sanitize"
)

// BannerInfo is the JSON form of a RenderedBanner returned by the
// startup_banner tool.
type BannerInfo struct {
	RunID      string    `json:"run_id"`
	Mode       Mode      `json:"mode"`
	Version    string    `json:"version,omitempty"`
	SourceType string    `json:"source_type"`
	Text       string    `json:"text"`
	PrintedAt  time.Time `json:"printed_at"`
}

// Info converts r for serialization.
func (r *RenderedBanner) Info() BannerInfo {
	return BannerInfo{
		RunID:      r.RunID,
		Mode:       r.Mode,
		Version:    r.Version,
		SourceType: sourceType(r.Source),
		Text:       r.Text,
		PrintedAt:  r.PrintedAt,
	}
}

func sourceType(b Banner) string {
	switch b.(type) {
	case nil:
		return ""
	case DefaultBanner, *DefaultBanner:
		return "default"
	case *ResourceBanner:
		return "text"
	case *ImageBanner:
		return "image"
	case *Banners:
		return "composite"
	}
	return "custom"
}

// PropertyOutput is the output of the get_property tool.
type PropertyOutput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Found bool   `json:"found"`
	// References lists the keys the raw value refers to through placeholders.
	References []string `json:"references,omitempty"`
}

// toolRules builds the value sanitizer and error prompt matcher from the
// mcp.sanitize[i].{key,pattern,replacement} and
// mcp.error_prompts[i].{pattern,message} properties. Built-in rules come first.
func toolRules(env *Environment) (*sanitize.Sanitizer, *errprompt.Matcher, error) {
	sanitizeRules := append([]sanitize.Rule(nil), sanitize.DefaultRules...)
	for _, r := range env.Indexed("mcp.sanitize", "key", "pattern", "replacement") {
		sanitizeRules = append(sanitizeRules, sanitize.Rule{Key: r["key"], Pattern: r["pattern"], Replacement: r["replacement"]})
	}
	sanitizer, err := sanitize.NewSanitizer(sanitizeRules)
	if err != nil {
		return nil, nil, fmt.Errorf("mcp.sanitize: %w", err)
	}

	promptRules := append([]errprompt.Rule(nil), errprompt.DefaultRules...)
	for _, r := range env.Indexed("mcp.error_prompts", "pattern", "message") {
		promptRules = append(promptRules, errprompt.Rule{Pattern: r["pattern"], Message: r["message"]})
	}
	matcher, err := errprompt.NewMatcher(promptRules)
	if err != nil {
		return nil, nil, fmt.Errorf("mcp.error_prompts: %w", err)
	}
	return sanitizer, matcher, nil
}

// RegisterMCPTools registers startup_banner and get_property as MCP tools
// on the given MCP server. Fails on invalid mcp.sanitize or
// mcp.error_prompts rules.
func RegisterMCPTools(mcpServer *server.MCPServer, appCtx *Context) error {
	sanitizer, prompts, err := toolRules(appCtx.Environment())
	if err != nil {
		return err
	}
	toolError := func(msg string) *mcp.CallToolResult {
		return mcp.NewToolResultError(prompts.Annotate(msg))
	}

	bannerTool := mcp.NewTool("startup_banner",
		mcp.WithDescription("Return the banner printed when this application started, with its mode, version and run id. Fails when the banner was disabled."),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	mcpServer.AddTool(bannerTool, appCtx.loggedToolHandler("startup_banner", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rb, ok := appCtx.Banner()
		if !ok {
			return toolError(errBannerNotRegistered.Error()), nil
		}
		jsonBytes, err := json.Marshal(rb.Info())
		if err != nil {
			return mcp.NewToolResultError("failed to marshal startup banner"), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	}))

	propertyTool := mcp.NewTool("get_property",
		mcp.WithDescription("Look up a property in the application environment. Placeholders in the value are resolved and credential-like values are masked."),
		mcp.WithString("key",
			mcp.Required(),
			mcp.Description("The dotted property key, e.g. banner.mode"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	mcpServer.AddTool(propertyTool, appCtx.loggedToolHandler("get_property", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key, err := req.RequireString("key")
		if err != nil {
			return toolError("key parameter is required"), nil
		}
		env := appCtx.Environment()
		out := PropertyOutput{Key: key}
		if raw, ok := env.Lookup(key); ok {
			out.Value = sanitizer.Value(key, maskedResolve(env, sanitizer, raw, map[string]bool{key: true}))
			out.Found = true
			out.References = placeholder.Keys(raw)
		}
		jsonBytes, err := json.Marshal(out)
		if err != nil {
			return mcp.NewToolResultError("failed to marshal property"), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	}))
	return nil
}

// maskedResolve expands placeholders in raw, masking each referenced value
// with the rules for its own key. Keys in visiting are left unexpanded.
func maskedResolve(env *Environment, sanitizer *sanitize.Sanitizer, raw string, visiting map[string]bool) string {
	return placeholder.Resolve(raw, func(key string) (string, bool) {
		if visiting[key] {
			return "", false
		}
		v, ok := env.Lookup(key)
		if !ok {
			return "", false
		}
		visiting[key] = true
		v = maskedResolve(env, sanitizer, v, visiting)
		delete(visiting, key)
		return sanitizer.Value(key, v), true
	})
}

// loggedToolHandler wraps a tool handler to log request and response lengths.
func (c *Context) loggedToolHandler(tool string, handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		reqLen := requestLength(req)
		result, err := handler(ctx, req)
		respLen := resultLength(result)
		logger := c.Logger()
		logger.Info().
			Str("tool", tool).
			Int("request_bytes", reqLen).
			Int("response_bytes", respLen).
			Msg("tool call")
		return result, err
	}
}

// requestLength returns the JSON-encoded byte length of the request arguments.
func requestLength(req mcp.CallToolRequest) int {
	args := req.GetArguments()
	if len(args) == 0 {
		return 0
	}
	b, err := json.Marshal(args)
	if err != nil {
		return 0
	}
	return len(b)
}

// resultLength returns the total byte length of text content in a CallToolResult.
func resultLength(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	total := 0
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			total += len(tc.Text)
		}
	}
	return total
}
