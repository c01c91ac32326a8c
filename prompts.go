package companyscout

import (
	"strings"
	"time"
)

// Default focus templates used when the research plan lacks a branch focus.
// Each takes the company name.
const (
	defaultPastFocus    = "Research %s history, founding, key milestones, and evolution up to present"
	defaultFutureFocus  = "Research %s future prospects, strategic plans, and growth opportunities"
	defaultCultureFocus = "Research %s company culture, values, work environment, and employee satisfaction"
)

// Topic system prompts for the three research branches. Each takes the
// current date.
const pastResearchSystemPrompt = `You are a specialized research assistant focused on company history and background analysis. For context, today's date is %s.

You are responsible for gathering comprehensive information about a company's history: founding story, key milestones, leadership changes, product timeline, financial trends, market position, notable achievements, and major challenges.

Use the tools provided to you in a tool-calling loop. Call the web search tool to gather information and the think tool to reflect on results and plan the next step. Stop calling tools once you have enough material to describe the company's trajectory; then write your findings as a normal message.`

const futureResearchSystemPrompt = `You are a specialized research assistant focused on company future prospects and strategic analysis. For context, today's date is %s.

You are responsible for gathering information about a company's direction: announced strategy, product roadmap, expansion plans, funding and financial outlook, leadership vision, market opportunities, and risks.

Use the tools provided to you in a tool-calling loop. Call the web search tool to gather information and the think tool to reflect on results and plan the next step. Stop calling tools once you can describe where the company is heading; then write your findings as a normal message.`

const cultureResearchSystemPrompt = `You are a specialized research assistant focused on company culture and values analysis. For context, today's date is %s.

You are responsible for gathering information about a company's culture: stated values, work environment, employee satisfaction, management style, diversity and inclusion, compensation philosophy, and how employees describe working there.

Use the tools provided to you in a tool-calling loop. The values-focused search tool targets culture and review sources; use the think tool to reflect on results and plan the next step. Stop calling tools once you can characterize the culture; then write your findings as a normal message.`

// Compression prompts. The system prompt takes the current date; the human
// instruction takes the research topic.
const compressResearchSystemPrompt = `You are a research assistant that has conducted research on a topic by calling several tools and web searches. Your job is now to clean up the findings while preserving all relevant statements and sources the researcher gathered. For context, today's date is %s.

Include all web search results and findings. Exclude think-tool calls and responses: they are internal reflections, not gathered facts. Repeat key information verbatim rather than paraphrasing, keep every source, and end with a Sources section listing each source with a sequential citation number.`

const compressResearchInstruction = `All above messages are about research conducted for the following research topic:

RESEARCH TOPIC: %s

Clean up these findings while preserving ALL information relevant to the topic. Do not summarize or paraphrase; do not drop details, facts, names, numbers, or sources. Organize the material in a cleaner format but keep all the substance.`

const jobAnalysisSystemPrompt = "You are an expert at analyzing job descriptions to extract key information for company research."

const planningSystemPrompt = "You are an expert research planner specializing in company analysis for job seekers."

const reportSystemPrompt = "You are an expert at synthesizing company research into comprehensive reports for job seekers."

// summarizeSystemPrompt guides webpage-content compression for search
// results that return raw page bodies instead of snippets.
const summarizeSystemPrompt = "You summarize raw webpage content for a downstream research agent. Preserve the most important facts and a few key excerpts; drop navigation, boilerplate, and advertising."

func buildJobAnalysisPrompt(jobDescription string) string {
	var b strings.Builder
	b.WriteString("Analyze the following job description and extract key information:\n\nJob Description:\n")
	b.WriteString(jobDescription)
	b.WriteString("\n\nExtract the job title, department, key responsibilities, required skills, company values mentioned, and seniority level. This information will be used to tailor company research for this specific role.")
	return b.String()
}

func buildPlanningPrompt(companyName string, analysis JobAnalysis) string {
	var b strings.Builder
	b.WriteString("Create a comprehensive company research plan for a job seeker:\n\n")
	b.WriteString("Company: ")
	b.WriteString(companyName)
	if analysis.JobTitle != "" {
		b.WriteString("\nJob Title: ")
		b.WriteString(analysis.JobTitle)
	}
	if analysis.Department != "" {
		b.WriteString("\nDepartment: ")
		b.WriteString(analysis.Department)
	}
	if analysis.SeniorityLevel != "" {
		b.WriteString("\nSeniority Level: ")
		b.WriteString(analysis.SeniorityLevel)
	}
	b.WriteString("\n\nPlan detailed research objectives and focus areas for three specialized research agents:\n")
	b.WriteString("1. Past research (company history and background)\n")
	b.WriteString("2. Future research (strategic plans and growth prospects)\n")
	b.WriteString("3. Culture research (values, work environment, employee satisfaction)\n\n")
	b.WriteString("Consider any job-specific context to tailor the research appropriately.")
	return b.String()
}

func buildReportPrompt(researchBrief, findings, date string) string {
	var b strings.Builder
	b.WriteString("Based on all the research conducted, create a comprehensive, well-structured answer to the overall research brief:\n<Research Brief>\n")
	b.WriteString(researchBrief)
	b.WriteString("\n</Research Brief>\n\nToday's date is ")
	b.WriteString(date)
	b.WriteString(".\n\nHere are the findings from the research:\n<Findings>\n")
	b.WriteString(findings)
	b.WriteString("\n</Findings>\n\n")
	b.WriteString("Write a detailed report that is well-organized with markdown headings, includes specific facts and insights from the research, references sources using [Title](URL) format, and gives a balanced, thorough analysis for a job seeker evaluating this company.")
	return b.String()
}

func currentDate(now func() time.Time) string {
	return now().Format("January 2, 2006")
}
