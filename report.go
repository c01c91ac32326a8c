package companyscout

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// buildDigest assembles the topic-labeled findings sections in fixed order:
// history, future, culture. Empty sections are omitted. An empty return
// value means no branch produced output.
func buildDigest(state *WorkflowState) string {
	var sections []string
	if state.PastFindings != "" {
		sections = append(sections, "## Company History and Background\n"+state.PastFindings)
	}
	if state.FutureFindings != "" {
		sections = append(sections, "## Future Prospects and Strategy\n"+state.FutureFindings)
	}
	if state.CultureFindings != "" {
		sections = append(sections, "## Company Culture and Work Environment\n"+state.CultureFindings)
	}
	return strings.Join(sections, "\n\n")
}

func noFindingsReport(companyName string) string {
	return fmt.Sprintf("# Company Research Report: %s\n\nNo research findings available due to processing errors.", companyName)
}

// synthesizeReport turns the digest into prose with one model call. A
// failing call is non-fatal: the raw digest is returned with an inline
// error annotation instead.
func (w *Workflow) synthesizeReport(ctx context.Context, state *WorkflowState, digest string) string {
	brief := state.ResearchBrief
	if brief == "" {
		brief = "Company research for " + state.CompanyName
	}

	prompt := buildReportPrompt(brief, digest, currentDate(w.now))
	report, err := w.writer.GenerateText(ctx, reportSystemPrompt, []Message{HumanMessage(prompt)})
	if err != nil {
		w.logger.Warn("report synthesis failed, returning raw digest", zap.Error(err))
		return fmt.Sprintf("# Company Research Report: %s\n\n%s\n\n*Note: report generation encountered an error: %v*",
			state.CompanyName, digest, err)
	}
	return report
}
