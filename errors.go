package companyscout

import "fmt"

// GenerationError reports a failed model call: the provider was unreachable,
// timed out, or returned output that does not conform to the requested shape.
type GenerationError struct {
	Op  string // which call failed, e.g. "job analysis", "research:past"
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (%s): %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ToolError reports a failed tool invocation. Inside a research loop it
// aborts the whole branch; there is no per-call retry.
type ToolError struct {
	Tool string
	Err  error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %q failed: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// AggregateResearchError reports that one or more of the concurrent research
// branches failed. The join is all-or-nothing: a single branch failure
// discards the output of every branch.
type AggregateResearchError struct {
	Err error // first branch failure observed by the join
}

func (e *AggregateResearchError) Error() string {
	return fmt.Sprintf("research failed: %v", e.Err)
}

func (e *AggregateResearchError) Unwrap() error { return e.Err }

// WorkflowError reports an unrecovered failure at a named workflow stage.
type WorkflowError struct {
	Stage string
	Err   error
}

func (e *WorkflowError) Error() string {
	return fmt.Sprintf("workflow stage %q: %v", e.Stage, e.Err)
}

func (e *WorkflowError) Unwrap() error { return e.Err }
