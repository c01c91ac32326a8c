// Package graph provides a small directed state-graph executor. A graph is
// a set of named nodes, each a function from state to state, connected by
// unconditional or conditional edges. Execution starts at the entry point
// and follows edges until it reaches End, errors, or exceeds the step cap.
package graph

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// End is the terminal pseudo-node.
const End = "__end__"

const defaultMaxSteps = 64

// NodeFunc transforms the state. Returning an error halts execution.
type NodeFunc[S any] func(ctx context.Context, state S) (S, error)

// Router inspects the state after a node runs and returns a route key.
type Router[S any] func(state S) string

type edge[S any] struct {
	conditional bool
	to          string
	router      Router[S]
	routes      map[string]string
}

// Graph is a compiled set of nodes and edges over a state type S.
type Graph[S any] struct {
	nodes    map[string]NodeFunc[S]
	edges    map[string]edge[S]
	entry    string
	maxSteps int
	logger   *zap.Logger
}

// Option configures a Graph.
type Option func(*settings)

type settings struct {
	maxSteps int
	logger   *zap.Logger
}

// WithMaxSteps caps the number of node executions in one Run. The cap
// guards against routing cycles that never reach End.
func WithMaxSteps(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxSteps = n
		}
	}
}

// WithLogger sets the logger used for node-transition logging.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs an empty graph.
func New[S any](opts ...Option) *Graph[S] {
	cfg := settings{maxSteps: defaultMaxSteps, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Graph[S]{
		nodes:    make(map[string]NodeFunc[S]),
		edges:    make(map[string]edge[S]),
		maxSteps: cfg.maxSteps,
		logger:   cfg.logger,
	}
}

// AddNode registers a named node.
func (g *Graph[S]) AddNode(name string, fn NodeFunc[S]) {
	g.nodes[name] = fn
}

// AddEdge connects from to to unconditionally. Use End as the target to
// terminate after from.
func (g *Graph[S]) AddEdge(from, to string) {
	g.edges[from] = edge[S]{to: to}
}

// AddConditionalEdge routes from according to router's decision, mapped
// through routes. A route may target End.
func (g *Graph[S]) AddConditionalEdge(from string, router Router[S], routes map[string]string) {
	g.edges[from] = edge[S]{conditional: true, router: router, routes: routes}
}

// SetEntryPoint names the node where Run starts.
func (g *Graph[S]) SetEntryPoint(name string) {
	g.entry = name
}

// Run executes the graph from the entry point and returns the final state.
// The context is checked before every node, so cancellation stops execution
// between nodes even when node functions ignore it.
func (g *Graph[S]) Run(ctx context.Context, state S) (S, error) {
	current := g.entry
	if _, ok := g.nodes[current]; !ok {
		return state, fmt.Errorf("graph: entry point %q not found", current)
	}

	for step := 0; step < g.maxSteps; step++ {
		select {
		case <-ctx.Done():
			return state, ctx.Err()
		default:
		}

		fn, ok := g.nodes[current]
		if !ok {
			return state, fmt.Errorf("graph: node %q not found", current)
		}

		g.logger.Debug("graph node", zap.String("node", current), zap.Int("step", step))

		var err error
		state, err = fn(ctx, state)
		if err != nil {
			return state, fmt.Errorf("graph: node %q: %w", current, err)
		}

		e, ok := g.edges[current]
		if !ok {
			// No outgoing edge terminates the path.
			return state, nil
		}

		next := e.to
		if e.conditional {
			key := e.router(state)
			next, ok = e.routes[key]
			if !ok {
				return state, fmt.Errorf("graph: node %q has no route for decision %q", current, key)
			}
			g.logger.Debug("graph route", zap.String("node", current), zap.String("decision", key), zap.String("next", next))
		}
		if next == End {
			return state, nil
		}
		current = next
	}

	return state, fmt.Errorf("graph: exceeded %d steps without reaching end", g.maxSteps)
}
