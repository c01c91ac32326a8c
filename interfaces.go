package companyscout

import "context"

// ToolSpec describes a tool offered to the model during a tool-calling turn.
// Parameters holds a JSON-schema object describing the tool's arguments.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// StructuredGenerator is a model call constrained to return data conforming
// to a declared record shape. The provider fills out (a pointer to a struct)
// or fails; callers apply a domain-specific fallback rather than propagate.
type StructuredGenerator interface {
	GenerateStructured(ctx context.Context, systemPrompt, userPrompt string, out any) error
}

// ToolCaller generates one assistant message which may carry zero or more
// tool calls. Implementations must be safe for concurrent use, since the
// three research branches share one client.
type ToolCaller interface {
	GenerateWithTools(ctx context.Context, systemPrompt string, history []Message, tools []ToolSpec) (Message, error)
}

// TextGenerator produces free-form prose from a system prompt and a message
// history. Used for transcript compression and final report synthesis.
type TextGenerator interface {
	GenerateText(ctx context.Context, systemPrompt string, history []Message) (string, error)
}

// ToolExecutor runs one registered tool and returns an observation string.
type ToolExecutor interface {
	ExecuteTool(ctx context.Context, name string, args map[string]any) (string, error)
}

// SearchResult is a single item returned by a SearchProvider.
type SearchResult struct {
	Title   string
	URL     string
	Snippet string
}

// SearchProvider executes a query and returns results.
type SearchProvider interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// FetchProvider retrieves raw content for a URL. The search tools use it to
// read pages whose search snippets are empty.
type FetchProvider interface {
	Fetch(ctx context.Context, url string) (string, error)
}
