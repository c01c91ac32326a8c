// Package companyscout orchestrates LLM-driven research agents that gather
// and synthesize information about a company, optionally tailored to a job
// description, and merge their findings into a single report.
//
// # Architecture
//
// A Workflow runs four sequential stages on a directed state graph:
//
//  1. Analyze the job description (when one is supplied) into a JobAnalysis.
//  2. Plan the research, producing a ResearchPlan (with a deterministic
//     fallback when structured planning fails).
//  3. Conduct the research: three Researcher instances (past, future,
//     culture) run concurrently, each as a bounded tool-calling loop that
//     alternates model calls with tool execution until the model stops
//     requesting tools, then compresses its transcript into a summary.
//  4. Generate the report: a fixed-order digest of the findings plus one
//     final model call, with a non-fatal fallback to the raw digest.
//
// # Capability Interfaces
//
// The engine never talks to a concrete model or search service directly.
// Callers inject implementations of the small capability interfaces:
//
//	type StructuredGenerator interface {
//	    GenerateStructured(ctx context.Context, systemPrompt, userPrompt string, out any) error
//	}
//
//	type ToolCaller interface {
//	    GenerateWithTools(ctx context.Context, systemPrompt string, history []Message, tools []ToolSpec) (Message, error)
//	}
//
//	type TextGenerator interface {
//	    GenerateText(ctx context.Context, systemPrompt string, history []Message) (string, error)
//	}
//
// The llm subpackage provides an OpenAI-compatible client implementing all
// three; the search subpackage provides Tavily and DuckDuckGo backends for
// the search tools.
//
// # Basic Usage
//
//	model := llm.New(llm.WithAPIKey(key))
//	wf := companyscout.New(
//	    companyscout.WithChatModel(model),
//	    companyscout.WithSearchProvider(search.NewTavily(tavilyKey, "basic")),
//	)
//
//	report, err := wf.Run(ctx, companyscout.Request{CompanyName: "Acme"})
//	fmt.Println(report)
//
// The workflow is stateless across invocations; all state lives for the
// duration of one Run call. Cancelling the context cancels every in-flight
// model call, tool execution, and research branch.
package companyscout
