package companyscout

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// Function adapters for the capability interfaces.

type toolCallerFunc func(ctx context.Context, systemPrompt string, history []Message, tools []ToolSpec) (Message, error)

func (f toolCallerFunc) GenerateWithTools(ctx context.Context, systemPrompt string, history []Message, tools []ToolSpec) (Message, error) {
	return f(ctx, systemPrompt, history, tools)
}

type textGenFunc func(ctx context.Context, systemPrompt string, history []Message) (string, error)

func (f textGenFunc) GenerateText(ctx context.Context, systemPrompt string, history []Message) (string, error) {
	return f(ctx, systemPrompt, history)
}

type structuredFunc func(ctx context.Context, systemPrompt, userPrompt string, out any) error

func (f structuredFunc) GenerateStructured(ctx context.Context, systemPrompt, userPrompt string, out any) error {
	return f(ctx, systemPrompt, userPrompt, out)
}

type searchFunc func(ctx context.Context, query string) ([]SearchResult, error)

func (f searchFunc) Search(ctx context.Context, query string) ([]SearchResult, error) {
	return f(ctx, query)
}

// scriptedModel requests one web search per turn for toolRounds turns, then
// answers with a plain message. Safe for concurrent branches.
type scriptedModel struct {
	mu         sync.Mutex
	toolRounds int
	calls      int
}

func (m *scriptedModel) GenerateWithTools(_ context.Context, _ string, history []Message, _ []ToolSpec) (Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	rounds := 0
	for _, msg := range history {
		if msg.Role == RoleTool {
			rounds++
		}
	}
	if rounds < m.toolRounds {
		return AssistantMessage("searching", ToolCall{
			ID:        "call-1",
			Name:      WebSearchToolName,
			Arguments: map[string]any{"query": history[0].Content},
		}), nil
	}
	return AssistantMessage("research finished"), nil
}

func (m *scriptedModel) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// countingSearch returns one canned result per query and counts calls.
type countingSearch struct {
	mu    sync.Mutex
	calls int
	fail  func(query string) error
}

func (s *countingSearch) Search(_ context.Context, query string) ([]SearchResult, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.fail != nil {
		if err := s.fail(query); err != nil {
			return nil, err
		}
	}
	return []SearchResult{{Title: "Result for " + query, URL: "https://example.com", Snippet: "snippet"}}, nil
}

func (s *countingSearch) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// topicSummaryCompressor labels each compression by the research topic named
// in the final instruction message, so tests can tell branches apart. When
// used as the report writer it echoes the report prompt.
func topicSummaryCompressor() textGenFunc {
	return func(_ context.Context, systemPrompt string, history []Message) (string, error) {
		if strings.Contains(systemPrompt, "synthesizing company research") {
			// Report synthesis: echo the prompt so tests can inspect the digest.
			return history[len(history)-1].Content, nil
		}
		topic := history[len(history)-1].Content
		switch {
		case strings.Contains(topic, "history"):
			return "PAST_SUMMARY", nil
		case strings.Contains(topic, "future"):
			return "FUTURE_SUMMARY", nil
		case strings.Contains(topic, "culture"):
			return "CULTURE_SUMMARY", nil
		}
		return "SUMMARY", nil
	}
}

var errScripted = errors.New("scripted failure")
