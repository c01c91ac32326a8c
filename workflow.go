package companyscout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jobseekr/companyscout/graph"
)

// Request is the input to one research run. CompanyName is required and
// must be at least two characters after trimming; the job fields are
// optional context.
type Request struct {
	CompanyName    string
	JobTitle       string
	JobDescription string
}

// Workflow is the top-level research orchestrator. It is stateless across
// runs and safe for concurrent use once constructed.
type Workflow struct {
	structured    StructuredGenerator
	researchModel ToolCaller
	writer        TextGenerator
	searcher      SearchProvider
	fetcher       FetchProvider
	conductor     *Conductor
	maxToolRounds int
	logger        *zap.Logger
	now           func() time.Time
}

// New constructs a Workflow with optional configuration. Unless a conductor
// is supplied explicitly, the three research branches are assembled from
// the configured research model, text generator, and search provider.
func New(opts ...Option) *Workflow {
	w := &Workflow{
		maxToolRounds: defaultMaxToolRounds,
		logger:        zap.NewNop(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.conductor == nil {
		w.conductor = w.assembleConductor()
	}
	return w
}

// assembleConductor instantiates the three branch configurations. They share
// one generic Researcher implementation and differ only in topic prompt and
// tool set; culture gets the values-focused search variant.
func (w *Workflow) assembleConductor() *Conductor {
	searchOpts := []SearchToolOption{}
	if w.fetcher != nil {
		searchOpts = append(searchOpts, WithFetcher(w.fetcher))
		if w.structured != nil {
			searchOpts = append(searchOpts, WithSummarizer(w.structured))
		}
	}

	baseTools := func() []Tool {
		return []Tool{NewWebSearchTool(w.searcher, searchOpts...), ThinkTool{}}
	}
	cultureTools := append(baseTools(), NewValuesSearchTool(w.searcher, searchOpts...))

	branch := func(kind, prompt string, tools []Tool) *Researcher {
		return NewResearcher(
			ResearcherConfig{Kind: kind, SystemPrompt: prompt, Tools: NewToolRegistry(tools...)},
			w.researchModel,
			w.writer,
			WithResearcherLogger(w.logger.Named(kind)),
			WithResearcherMaxToolRounds(w.maxToolRounds),
			WithResearcherClock(w.now),
		)
	}

	return NewConductor(
		branch("past", pastResearchSystemPrompt, baseTools()),
		branch("future", futureResearchSystemPrompt, baseTools()),
		branch("culture", cultureResearchSystemPrompt, cultureTools),
		w.logger,
	)
}

// Run executes the research workflow and returns the comprehensive report.
// It fails only on missing configuration, malformed input, or cancellation;
// every model failure along the way is recovered with a documented fallback.
func (w *Workflow) Run(ctx context.Context, req Request) (string, error) {
	if err := w.validate(); err != nil {
		return "", &WorkflowError{Stage: "config", Err: err}
	}
	if len(strings.TrimSpace(req.CompanyName)) < 2 {
		return "", &WorkflowError{Stage: "input", Err: errors.New("company name must be at least 2 characters")}
	}

	g := graph.New[*WorkflowState](graph.WithLogger(w.logger))
	g.AddNode("analyze_job_description", w.analyzeJobDescription)
	g.AddNode("plan_research", w.planResearch)
	g.AddNode("conduct_research", w.conductResearch)
	g.AddNode("generate_report", w.generateReport)
	g.SetEntryPoint("analyze_job_description")
	g.AddEdge("analyze_job_description", "plan_research")
	g.AddEdge("plan_research", "conduct_research")
	g.AddEdge("conduct_research", "generate_report")
	g.AddEdge("generate_report", graph.End)

	final, err := g.Run(ctx, NewWorkflowState(req))
	if err != nil {
		return "", err
	}
	return final.ComprehensiveReport, nil
}

// validate checks that every generation capability the stages call has been
// injected. A missing search provider is not fatal here: the search tools
// report it as a tool failure, which the join recovers from.
func (w *Workflow) validate() error {
	switch {
	case w.structured == nil:
		return errors.New("structured generator is not configured")
	case w.researchModel == nil:
		return errors.New("research model is not configured")
	case w.writer == nil:
		return errors.New("text generator is not configured")
	}
	return nil
}

// analyzeJobDescription extracts a JobAnalysis when a job description is
// present. Extraction failure leaves the analysis empty; the workflow
// proceeds either way.
func (w *Workflow) analyzeJobDescription(ctx context.Context, state *WorkflowState) (*WorkflowState, error) {
	if desc := strings.TrimSpace(state.JobDescription); desc != "" {
		var analysis JobAnalysis
		err := w.structured.GenerateStructured(ctx, jobAnalysisSystemPrompt, buildJobAnalysisPrompt(desc), &analysis)
		switch {
		case err == nil:
			state.JobAnalysis = analysis
		case ctx.Err() != nil:
			return state, ctx.Err()
		default:
			w.logger.Warn("job description analysis failed, continuing without it", zap.Error(err))
		}
	}

	framing := fmt.Sprintf("Analyzing company research for %s", state.CompanyName)
	if state.JobAnalysis.JobTitle != "" {
		framing += fmt.Sprintf(" for %s position", state.JobAnalysis.JobTitle)
	}
	state.Messages = AppendMessages(state.Messages, []Message{HumanMessage(framing)})
	return state, nil
}

// planResearch produces the ResearchPlan, falling back to the deterministic
// default plan when structured planning fails, and sets the research brief.
func (w *Workflow) planResearch(ctx context.Context, state *WorkflowState) (*WorkflowState, error) {
	var plan ResearchPlan
	err := w.structured.GenerateStructured(ctx, planningSystemPrompt,
		buildPlanningPrompt(state.CompanyName, state.JobAnalysis), &plan)
	switch {
	case err == nil:
	case ctx.Err() != nil:
		return state, ctx.Err()
	default:
		w.logger.Warn("research planning failed, using default plan", zap.Error(err))
		plan = DefaultResearchPlan(state.CompanyName)
	}
	state.ResearchPlan = plan

	brief := "Comprehensive company research for " + state.CompanyName
	if title := w.knownJobTitle(state); title != "" {
		brief += fmt.Sprintf(" - %s position", title)
	}
	state.ResearchBrief = brief
	return state, nil
}

func (w *Workflow) knownJobTitle(state *WorkflowState) string {
	if state.JobAnalysis.JobTitle != "" {
		return state.JobAnalysis.JobTitle
	}
	return state.JobTitle
}

// conductResearch invokes the fan-out/fan-in conductor. A failed join marks
// the research incomplete and records one aggregated error; it never fails
// the workflow.
func (w *Workflow) conductResearch(ctx context.Context, state *WorkflowState) (*WorkflowState, error) {
	findings, err := w.conductor.Conduct(ctx, state.CompanyName, state.ResearchPlan)
	if err != nil {
		if ctx.Err() != nil {
			return state, ctx.Err()
		}
		state.ProcessingErrors = AppendErrors(state.ProcessingErrors, []string{"research error: " + err.Error()})
		state.ResearchComplete = false
		return state, nil
	}

	state.PastFindings = findings.Past
	state.FutureFindings = findings.Future
	state.CultureFindings = findings.Culture
	state.ResearchComplete = true
	return state, nil
}

// generateReport is the terminal stage: digest the findings and synthesize
// prose, falling back to a "no findings" message or the annotated digest.
func (w *Workflow) generateReport(ctx context.Context, state *WorkflowState) (*WorkflowState, error) {
	digest := buildDigest(state)
	if digest == "" {
		state.ComprehensiveReport = noFindingsReport(state.CompanyName)
	} else {
		state.ComprehensiveReport = w.synthesizeReport(ctx, state, digest)
	}
	if ctx.Err() != nil {
		return state, ctx.Err()
	}

	state.Messages = AppendMessages(state.Messages, []Message{HumanMessage("Company research completed.")})
	return state, nil
}
