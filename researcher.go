package companyscout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jobseekr/companyscout/graph"
)

const defaultMaxToolRounds = 6

// ResearcherConfig is everything that distinguishes one research branch from
// another: the past, future, and culture researchers are the same component
// with different configurations.
type ResearcherConfig struct {
	// Kind labels the branch in logs and errors, e.g. "past".
	Kind string
	// SystemPrompt is the topic system-prompt template; it takes the
	// current date via fmt.Sprintf.
	SystemPrompt string
	// Tools is the fixed tool set offered on every model turn.
	Tools *ToolRegistry
}

// Researcher runs one bounded tool-calling loop: model call, then tool
// execution for as long as the model keeps requesting tools, then a final
// compression of the transcript into a summary.
type Researcher struct {
	cfg           ResearcherConfig
	model         ToolCaller
	compressor    TextGenerator
	maxToolRounds int
	logger        *zap.Logger
	now           func() time.Time
}

// ResearcherOption configures a Researcher.
type ResearcherOption func(*Researcher)

// WithResearcherLogger sets the branch logger.
func WithResearcherLogger(l *zap.Logger) ResearcherOption {
	return func(r *Researcher) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithResearcherMaxToolRounds caps how many tool-execution rounds run before
// compression is forced. The model's own decision to stop requesting tools
// is the primary termination condition; the cap bounds cost and latency.
func WithResearcherMaxToolRounds(n int) ResearcherOption {
	return func(r *Researcher) {
		if n > 0 {
			r.maxToolRounds = n
		}
	}
}

// WithResearcherClock overrides the date source used in prompts.
func WithResearcherClock(now func() time.Time) ResearcherOption {
	return func(r *Researcher) {
		if now != nil {
			r.now = now
		}
	}
}

// NewResearcher builds a research branch from its configuration and the
// injected model capabilities.
func NewResearcher(cfg ResearcherConfig, model ToolCaller, compressor TextGenerator, opts ...ResearcherOption) *Researcher {
	r := &Researcher{
		cfg:           cfg,
		model:         model,
		compressor:    compressor,
		maxToolRounds: defaultMaxToolRounds,
		logger:        zap.NewNop(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// researchRun carries one branch invocation through the loop graph.
type researchRun struct {
	ResearcherState
	rounds int
	output ResearcherOutput
}

// Run executes the loop for the given topic and returns the branch output.
// The state is private to this invocation and discarded afterwards.
func (r *Researcher) Run(ctx context.Context, topic string) (ResearcherOutput, error) {
	run := &researchRun{
		ResearcherState: ResearcherState{
			Topic:    topic,
			Messages: []Message{HumanMessage(topic)},
		},
	}

	g := graph.New[*researchRun](
		graph.WithLogger(r.logger),
		// Each tool round costs two steps (generate + tools), plus the
		// initial generate and the final compression.
		graph.WithMaxSteps(2*r.maxToolRounds+2),
	)
	g.AddNode("generate", r.generate)
	g.AddNode("execute_tools", r.executeTools)
	g.AddNode("compress", r.compress)
	g.SetEntryPoint("generate")
	g.AddConditionalEdge("generate", r.route, map[string]string{
		"execute_tools": "execute_tools",
		"compress":      "compress",
	})
	g.AddEdge("execute_tools", "generate")
	g.AddEdge("compress", graph.End)

	final, err := g.Run(ctx, run)
	if err != nil {
		return ResearcherOutput{}, fmt.Errorf("%s research: %w", r.cfg.Kind, err)
	}
	return final.output, nil
}

func (r *Researcher) generate(ctx context.Context, run *researchRun) (*researchRun, error) {
	sys := fmt.Sprintf(r.cfg.SystemPrompt, currentDate(r.now))
	msg, err := r.model.GenerateWithTools(ctx, sys, run.Messages, r.cfg.Tools.Specs())
	if err != nil {
		return run, &GenerationError{Op: "research:" + r.cfg.Kind, Err: err}
	}
	run.Messages = AppendMessages(run.Messages, []Message{msg})
	return run, nil
}

// route implements the sole termination condition: keep executing tools
// while the latest assistant message requests them, up to the round cap.
func (r *Researcher) route(run *researchRun) string {
	last := run.Messages[len(run.Messages)-1]
	if len(last.ToolCalls) > 0 && run.rounds < r.maxToolRounds {
		return "execute_tools"
	}
	if len(last.ToolCalls) > 0 {
		r.logger.Warn("tool round cap reached, forcing compression",
			zap.String("kind", r.cfg.Kind), zap.Int("rounds", run.rounds))
	}
	return "compress"
}

func (r *Researcher) executeTools(ctx context.Context, run *researchRun) (*researchRun, error) {
	last := run.Messages[len(run.Messages)-1]
	outputs := make([]Message, 0, len(last.ToolCalls))
	for _, call := range last.ToolCalls {
		obs, err := r.cfg.Tools.ExecuteTool(ctx, call.Name, call.Arguments)
		if err != nil {
			// A failing tool call aborts the whole branch.
			return run, err
		}
		outputs = append(outputs, ToolMessage(obs, call.ID, call.Name))
	}
	run.Messages = AppendMessages(run.Messages, outputs)
	run.rounds++
	r.logger.Debug("tool round complete",
		zap.String("kind", r.cfg.Kind),
		zap.Int("round", run.rounds),
		zap.Int("calls", len(outputs)))
	return run, nil
}

func (r *Researcher) compress(ctx context.Context, run *researchRun) (*researchRun, error) {
	history := AppendMessages(run.Messages, []Message{
		HumanMessage(fmt.Sprintf(compressResearchInstruction, run.Topic)),
	})
	sys := fmt.Sprintf(compressResearchSystemPrompt, currentDate(r.now))

	compressed, err := r.compressor.GenerateText(ctx, sys, history)
	if err != nil {
		return run, &GenerationError{Op: "compress:" + r.cfg.Kind, Err: err}
	}

	run.output = ResearcherOutput{
		CompressedResearch: compressed,
		RawNotes:           []string{rawNotes(run.Messages)},
	}
	return run, nil
}

// rawNotes joins the contents of every tool and assistant message, in
// original order, into one newline-separated entry.
func rawNotes(messages []Message) string {
	var notes []string
	for _, m := range messages {
		if m.Role == RoleTool || m.Role == RoleAssistant {
			notes = append(notes, m.Content)
		}
	}
	return strings.Join(notes, "\n")
}
