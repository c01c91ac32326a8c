package companyscout

import (
	"time"

	"go.uber.org/zap"
)

// Option configures a Workflow.
type Option func(*Workflow)

// WithStructuredGenerator sets the model used for job-description analysis,
// research planning, and webpage summarization.
func WithStructuredGenerator(g StructuredGenerator) Option {
	return func(w *Workflow) { w.structured = g }
}

// WithResearchModel sets the tool-calling model used by the research
// branches.
func WithResearchModel(m ToolCaller) Option {
	return func(w *Workflow) { w.researchModel = m }
}

// WithTextGenerator sets the model used for transcript compression and
// final report synthesis.
func WithTextGenerator(g TextGenerator) Option {
	return func(w *Workflow) { w.writer = g }
}

// ChatModel bundles the three generation capabilities. The llm package's
// client satisfies it.
type ChatModel interface {
	StructuredGenerator
	ToolCaller
	TextGenerator
}

// WithChatModel sets one model for every generation capability.
func WithChatModel(m ChatModel) Option {
	return func(w *Workflow) {
		w.structured = m
		w.researchModel = m
		w.writer = m
	}
}

// WithSearchProvider sets the search backend behind the research tools.
func WithSearchProvider(p SearchProvider) Option {
	return func(w *Workflow) { w.searcher = p }
}

// WithFetchProvider sets the optional page fetcher used by the search tools
// for results without snippets.
func WithFetchProvider(f FetchProvider) Option {
	return func(w *Workflow) { w.fetcher = f }
}

// WithConductor overrides the assembled conductor. Intended for tests that
// substitute the whole fan-out stage.
func WithConductor(c *Conductor) Option {
	return func(w *Workflow) { w.conductor = c }
}

// WithMaxToolRounds caps each research branch's tool-execution rounds.
func WithMaxToolRounds(n int) Option {
	return func(w *Workflow) {
		if n > 0 {
			w.maxToolRounds = n
		}
	}
}

// WithLogger sets the workflow logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Workflow) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithClock overrides the date source used in prompts. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(w *Workflow) {
		if now != nil {
			w.now = now
		}
	}
}
