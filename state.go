package companyscout

import "fmt"

// JobAnalysis is the structured record extracted from a job description.
// The zero value represents "no analysis": either no job description was
// supplied or extraction failed.
type JobAnalysis struct {
	JobTitle               string   `json:"job_title"`
	Department             string   `json:"department,omitempty"`
	KeyResponsibilities    []string `json:"key_responsibilities"`
	RequiredSkills         []string `json:"required_skills"`
	CompanyValuesMentioned []string `json:"company_values_mentioned,omitempty"`
	SeniorityLevel         string   `json:"seniority_level,omitempty"`
}

// Empty reports whether the analysis carries no extracted information.
func (a JobAnalysis) Empty() bool {
	return a.JobTitle == "" && a.Department == "" &&
		len(a.KeyResponsibilities) == 0 && len(a.RequiredSkills) == 0 &&
		len(a.CompanyValuesMentioned) == 0 && a.SeniorityLevel == ""
}

// ResearchPlan directs the three research branches. It is always present
// after the planning stage: when structured planning fails the workflow
// substitutes DefaultResearchPlan.
type ResearchPlan struct {
	ResearchObjectives        []string `json:"research_objectives"`
	PastResearchFocus         string   `json:"past_research_focus"`
	FutureResearchFocus       string   `json:"future_research_focus"`
	CultureResearchFocus      string   `json:"culture_research_focus"`
	JobSpecificConsiderations []string `json:"job_specific_considerations,omitempty"`
}

// DefaultResearchPlan builds the deterministic fallback plan from the
// company name alone.
func DefaultResearchPlan(companyName string) ResearchPlan {
	return ResearchPlan{
		ResearchObjectives: []string{
			fmt.Sprintf("Comprehensive analysis of %s for job seekers", companyName),
		},
		PastResearchFocus:    fmt.Sprintf(defaultPastFocus, companyName),
		FutureResearchFocus:  fmt.Sprintf(defaultFutureFocus, companyName),
		CultureResearchFocus: fmt.Sprintf(defaultCultureFocus, companyName),
	}
}

// WorkflowState carries the top-level workflow through its four stages.
// Stages overwrite their own fields; Messages and ProcessingErrors are
// append-only and updated through AppendMessages/AppendErrors.
type WorkflowState struct {
	CompanyName    string
	JobTitle       string
	JobDescription string

	JobAnalysis  JobAnalysis
	ResearchPlan ResearchPlan

	ResearchBrief string

	PastFindings    string
	FutureFindings  string
	CultureFindings string

	ComprehensiveReport string
	ResearchComplete    bool

	ProcessingErrors []string
	Messages         []Message
}

// NewWorkflowState builds the initial state for one research request.
func NewWorkflowState(req Request) *WorkflowState {
	return &WorkflowState{
		CompanyName:    req.CompanyName,
		JobTitle:       req.JobTitle,
		JobDescription: req.JobDescription,
	}
}

// ResearcherState is the private state of one research branch. Topic is
// fixed for the branch's lifetime; Messages is append-only.
type ResearcherState struct {
	Topic    string
	Messages []Message
}

// ResearcherOutput is the only state that crosses back from a research
// branch into the conductor.
type ResearcherOutput struct {
	CompressedResearch string
	RawNotes           []string
}
