package companyscout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Tool names registered for the research branches.
const (
	WebSearchToolName    = "web_search"
	ValuesSearchToolName = "company_values_search"
	ThinkToolName        = "think"
)

// Tool is one capability a research branch can invoke during its loop.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any
	Call(ctx context.Context, args map[string]any) (string, error)
}

// ToolRegistry maps tool names to implementations and satisfies ToolExecutor.
type ToolRegistry struct {
	tools map[string]Tool
	order []string
}

// NewToolRegistry builds a registry. Registration order is preserved in
// Specs so the model sees a stable tool list.
func NewToolRegistry(tools ...Tool) *ToolRegistry {
	r := &ToolRegistry{tools: make(map[string]Tool)}
	for _, t := range tools {
		if _, exists := r.tools[t.Name()]; !exists {
			r.order = append(r.order, t.Name())
		}
		r.tools[t.Name()] = t
	}
	return r
}

// Specs returns the tool descriptions offered to the model.
func (r *ToolRegistry) Specs() []ToolSpec {
	specs := make([]ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		specs = append(specs, ToolSpec{Name: t.Name(), Description: t.Description(), Parameters: t.Parameters()})
	}
	return specs
}

// ExecuteTool runs one registered tool. Unknown names and tool failures are
// both reported as a ToolError.
func (r *ToolRegistry) ExecuteTool(ctx context.Context, name string, args map[string]any) (string, error) {
	t, ok := r.tools[name]
	if !ok {
		return "", &ToolError{Tool: name, Err: errors.New("not registered")}
	}
	obs, err := t.Call(ctx, args)
	if err != nil {
		return "", &ToolError{Tool: name, Err: err}
	}
	return obs, nil
}

func stringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", fmt.Errorf("missing %q argument", key)
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%q argument must be a non-empty string", key)
	}
	return s, nil
}

func queryParameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "The search query to run",
			},
		},
		"required": []string{"query"},
	}
}

// Summary is the structured record used to compress raw webpage content
// fetched for snippet-less search results.
type Summary struct {
	Summary     string   `json:"summary"`
	KeyExcerpts []string `json:"key_excerpts,omitempty"`
}

// SearchTool wraps a SearchProvider as a research tool. An optional query
// suffix turns it into a domain-specific variant; an optional fetcher and
// summarizer fill in results whose snippets are empty.
type SearchTool struct {
	name        string
	description string
	provider    SearchProvider
	querySuffix string
	fetcher     FetchProvider
	summarizer  StructuredGenerator
	maxResults  int
}

// SearchToolOption configures a SearchTool.
type SearchToolOption func(*SearchTool)

// WithFetcher enables best-effort page fetching for results without snippets.
// Fetch failures are ignored; the result is kept with an empty snippet.
func WithFetcher(f FetchProvider) SearchToolOption {
	return func(t *SearchTool) { t.fetcher = f }
}

// WithSummarizer compresses fetched page content through the given model.
func WithSummarizer(g StructuredGenerator) SearchToolOption {
	return func(t *SearchTool) { t.summarizer = g }
}

// WithMaxResults caps how many results are formatted into the observation.
func WithMaxResults(n int) SearchToolOption {
	return func(t *SearchTool) {
		if n > 0 {
			t.maxResults = n
		}
	}
}

// NewWebSearchTool builds the general web search tool.
func NewWebSearchTool(provider SearchProvider, opts ...SearchToolOption) *SearchTool {
	t := &SearchTool{
		name:        WebSearchToolName,
		description: "Search the web for information about a company. Returns titles, URLs, and content snippets.",
		provider:    provider,
		maxResults:  5,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewValuesSearchTool builds the culture-focused search variant. It runs the
// same provider with the query steered toward values, culture, and employee
// review sources.
func NewValuesSearchTool(provider SearchProvider, opts ...SearchToolOption) *SearchTool {
	t := &SearchTool{
		name:        ValuesSearchToolName,
		description: "Search the web specifically for company values, culture, work environment, and employee reviews.",
		provider:    provider,
		querySuffix: " company values culture employee reviews work environment",
		maxResults:  5,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *SearchTool) Name() string        { return t.name }
func (t *SearchTool) Description() string { return t.description }

func (t *SearchTool) Parameters() map[string]any { return queryParameters() }

// Call runs the search and formats the results as a single observation.
func (t *SearchTool) Call(ctx context.Context, args map[string]any) (string, error) {
	query, err := stringArg(args, "query")
	if err != nil {
		return "", err
	}
	if t.provider == nil {
		return "", errors.New("no search provider configured")
	}
	results, err := t.provider.Search(ctx, query+t.querySuffix)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "No results found for query: " + query, nil
	}
	if len(results) > t.maxResults {
		results = results[:t.maxResults]
	}

	var b strings.Builder
	b.WriteString("Search results for \"")
	b.WriteString(query)
	b.WriteString("\":\n")
	for i, r := range results {
		snippet := strings.TrimSpace(r.Snippet)
		if snippet == "" {
			snippet = t.fillSnippet(ctx, r.URL)
		}
		fmt.Fprintf(&b, "\n%d. %s\n   URL: %s\n   %s\n", i+1, strings.TrimSpace(r.Title), r.URL, snippet)
	}
	return b.String(), nil
}

// fillSnippet fetches and optionally summarizes a page whose search snippet
// was empty. Any failure leaves a placeholder rather than failing the tool.
func (t *SearchTool) fillSnippet(ctx context.Context, url string) string {
	if t.fetcher == nil {
		return "(no snippet available)"
	}
	content, err := t.fetcher.Fetch(ctx, url)
	if err != nil || strings.TrimSpace(content) == "" {
		return "(no snippet available)"
	}
	const maxRaw = 2000
	if len(content) <= maxRaw || t.summarizer == nil {
		return strings.TrimSpace(truncateToRune(content, maxRaw))
	}
	var s Summary
	if err := t.summarizer.GenerateStructured(ctx, summarizeSystemPrompt, content, &s); err != nil {
		return strings.TrimSpace(truncateToRune(content, maxRaw))
	}
	out := s.Summary
	if len(s.KeyExcerpts) > 0 {
		out += "\nKey excerpts: " + strings.Join(s.KeyExcerpts, " | ")
	}
	return out
}

// truncateToRune cuts s to at most limit bytes without splitting a UTF-8
// sequence, walking back to the nearest rune boundary.
func truncateToRune(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

// ThinkTool is a reflection no-op: it records the model's reasoning as an
// observation so the model can plan its next step.
type ThinkTool struct{}

func (ThinkTool) Name() string { return ThinkToolName }

func (ThinkTool) Description() string {
	return "Record a strategic reflection on research progress and plan the next step. Does not gather new information."
}

func (ThinkTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"reflection": map[string]any{
				"type":        "string",
				"description": "Your reflection on the research so far and what to do next",
			},
		},
		"required": []string{"reflection"},
	}
}

func (ThinkTool) Call(_ context.Context, args map[string]any) (string, error) {
	reflection, err := stringArg(args, "reflection")
	if err != nil {
		return "", err
	}
	return "Reflection recorded: " + reflection, nil
}
