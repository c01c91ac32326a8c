package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendNode(label string) NodeFunc[[]string] {
	return func(_ context.Context, state []string) ([]string, error) {
		return append(state, label), nil
	}
}

func TestRunFollowsEdgesToEnd(t *testing.T) {
	g := New[[]string]()
	g.AddNode("a", appendNode("a"))
	g.AddNode("b", appendNode("b"))
	g.AddNode("c", appendNode("c"))
	g.SetEntryPoint("a")
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", End)

	out, err := g.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, out)
}

func TestRunConditionalRouting(t *testing.T) {
	g := New[[]string]()
	g.AddNode("work", appendNode("work"))
	g.AddNode("done", appendNode("done"))
	g.SetEntryPoint("work")
	g.AddConditionalEdge("work", func(state []string) string {
		if len(state) < 3 {
			return "again"
		}
		return "finish"
	}, map[string]string{"again": "work", "finish": "done"})
	g.AddEdge("done", End)

	out, err := g.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"work", "work", "work", "done"}, out)
}

func TestRunMissingEdgeTerminates(t *testing.T) {
	g := New[[]string]()
	g.AddNode("only", appendNode("only"))
	g.SetEntryPoint("only")

	out, err := g.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, out)
}

func TestRunUnknownEntryPoint(t *testing.T) {
	g := New[[]string]()
	g.AddNode("a", appendNode("a"))
	g.SetEntryPoint("missing")

	_, err := g.Run(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `entry point "missing" not found`)
}

func TestRunUnknownRouteDecision(t *testing.T) {
	g := New[[]string]()
	g.AddNode("a", appendNode("a"))
	g.SetEntryPoint("a")
	g.AddConditionalEdge("a", func([]string) string { return "nowhere" }, map[string]string{"somewhere": End})

	_, err := g.Run(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no route for decision "nowhere"`)
}

func TestRunNodeErrorHalts(t *testing.T) {
	boom := errors.New("boom")
	g := New[[]string]()
	g.AddNode("a", appendNode("a"))
	g.AddNode("b", func(_ context.Context, state []string) ([]string, error) {
		return state, boom
	})
	g.SetEntryPoint("a")
	g.AddEdge("a", "b")
	g.AddEdge("b", End)

	_, err := g.Run(context.Background(), nil)
	require.ErrorIs(t, err, boom)
}

func TestRunStepCap(t *testing.T) {
	g := New[[]string](WithMaxSteps(5))
	g.AddNode("loop", appendNode("loop"))
	g.SetEntryPoint("loop")
	g.AddEdge("loop", "loop")

	out, err := g.Run(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeded 5 steps")
	assert.Len(t, out, 5)
}

func TestRunChecksContextBetweenNodes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	g := New[[]string]()
	g.AddNode("a", func(_ context.Context, state []string) ([]string, error) {
		cancel()
		return append(state, "a"), nil
	})
	g.AddNode("b", appendNode("b"))
	g.SetEntryPoint("a")
	g.AddEdge("a", "b")
	g.AddEdge("b", End)

	out, err := g.Run(ctx, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"a"}, out)
}
