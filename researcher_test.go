package companyscout

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC)
}

func newTestResearcher(t *testing.T, model ToolCaller, compressor TextGenerator, searcher SearchProvider, opts ...ResearcherOption) *Researcher {
	t.Helper()
	cfg := ResearcherConfig{
		Kind:         "past",
		SystemPrompt: pastResearchSystemPrompt,
		Tools:        NewToolRegistry(NewWebSearchTool(searcher), ThinkTool{}),
	}
	opts = append([]ResearcherOption{WithResearcherClock(fixedClock)}, opts...)
	return NewResearcher(cfg, model, compressor, opts...)
}

func TestResearcherLoopTerminatesAfterToolFreeTurn(t *testing.T) {
	// k consecutive tool-calling turns means k+1 model calls and k tool
	// execution rounds.
	const k = 3
	model := &scriptedModel{toolRounds: k}
	searcher := &countingSearch{}
	compressor := textGenFunc(func(_ context.Context, _ string, _ []Message) (string, error) {
		return "compressed", nil
	})

	r := newTestResearcher(t, model, compressor, searcher)
	out, err := r.Run(context.Background(), "Research Acme history")
	require.NoError(t, err)

	assert.Equal(t, k+1, model.callCount())
	assert.Equal(t, k, searcher.callCount())
	assert.Equal(t, "compressed", out.CompressedResearch)
}

func TestResearcherNoToolCallsCompressesImmediately(t *testing.T) {
	model := &scriptedModel{toolRounds: 0}
	searcher := &countingSearch{}

	r := newTestResearcher(t, model, textGenFunc(func(_ context.Context, _ string, _ []Message) (string, error) {
		return "compressed", nil
	}), searcher)

	_, err := r.Run(context.Background(), "Research Acme history")
	require.NoError(t, err)
	assert.Equal(t, 1, model.callCount())
	assert.Equal(t, 0, searcher.callCount())
}

func TestResearcherRawNotes(t *testing.T) {
	model := &scriptedModel{toolRounds: 2}
	searcher := &countingSearch{}

	var compressHistory []Message
	compressor := textGenFunc(func(_ context.Context, _ string, history []Message) (string, error) {
		compressHistory = history
		return "compressed", nil
	})

	r := newTestResearcher(t, model, compressor, searcher)
	out, err := r.Run(context.Background(), "Research Acme history")
	require.NoError(t, err)

	require.Len(t, out.RawNotes, 1)

	// Raw notes are the tool and assistant contents, in original order.
	var want []string
	for _, m := range compressHistory[:len(compressHistory)-1] {
		if m.Role == RoleTool || m.Role == RoleAssistant {
			want = append(want, m.Content)
		}
	}
	assert.Equal(t, strings.Join(want, "\n"), out.RawNotes[0])
}

func TestResearcherCompressionPromptNamesTopic(t *testing.T) {
	model := &scriptedModel{toolRounds: 0}

	var lastInstruction string
	compressor := textGenFunc(func(_ context.Context, _ string, history []Message) (string, error) {
		lastInstruction = history[len(history)-1].Content
		return "compressed", nil
	})

	r := newTestResearcher(t, model, compressor, &countingSearch{})
	_, err := r.Run(context.Background(), "Research Acme history")
	require.NoError(t, err)
	assert.Contains(t, lastInstruction, "Research Acme history")
}

func TestResearcherToolFailureAbortsBranch(t *testing.T) {
	model := &scriptedModel{toolRounds: 2}
	searcher := &countingSearch{fail: func(string) error { return errScripted }}

	r := newTestResearcher(t, model, textGenFunc(func(_ context.Context, _ string, _ []Message) (string, error) {
		t.Fatal("compression must not run after a tool failure")
		return "", nil
	}), searcher)

	_, err := r.Run(context.Background(), "Research Acme history")
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, WebSearchToolName, toolErr.Tool)
	// The first failing call aborts: only one model call and one search.
	assert.Equal(t, 1, model.callCount())
	assert.Equal(t, 1, searcher.callCount())
}

func TestResearcherRoundCapForcesCompression(t *testing.T) {
	// The model never stops requesting tools; the cap must cut it off.
	model := &scriptedModel{toolRounds: 1 << 30}
	searcher := &countingSearch{}

	r := newTestResearcher(t, model, textGenFunc(func(_ context.Context, _ string, _ []Message) (string, error) {
		return "compressed", nil
	}), searcher, WithResearcherMaxToolRounds(2))

	out, err := r.Run(context.Background(), "Research Acme history")
	require.NoError(t, err)
	assert.Equal(t, "compressed", out.CompressedResearch)
	assert.Equal(t, 2, searcher.callCount())
	assert.Equal(t, 3, model.callCount())
}

func TestResearcherCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	model := toolCallerFunc(func(ctx context.Context, _ string, _ []Message, _ []ToolSpec) (Message, error) {
		cancel()
		return AssistantMessage("searching", ToolCall{ID: "c", Name: WebSearchToolName, Arguments: map[string]any{"query": "q"}}), nil
	})

	r := newTestResearcher(t, model, textGenFunc(func(_ context.Context, _ string, _ []Message) (string, error) {
		return "compressed", nil
	}), &countingSearch{})

	_, err := r.Run(ctx, "Research Acme history")
	require.ErrorIs(t, err, context.Canceled)
}
