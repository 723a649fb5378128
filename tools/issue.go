package tools

import (
	"context"
	"log"

	"doc-assistant/llm"
)

// IssueSummaryTool condenses a raw issue report into a structured
// summary.
type IssueSummaryTool struct {
	llm    Generator
	prompt string
	logger *log.Logger
}

func NewIssueSummaryTool(client Generator, promptsDir string, logger *log.Logger) (*IssueSummaryTool, error) {
	prompt, err := loadPrompt(promptsDir, "issue_summary_prompt.txt")
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &IssueSummaryTool{llm: client, prompt: prompt, logger: logger}, nil
}

type issuePayload struct {
	ReportedIssues     []string `json:"reported_issues"`
	AffectedComponents []string `json:"affected_components"`
	Severity           string   `json:"severity"`
	Suggestions        []string `json:"suggestions"`
}

// Summarize digests an issue report. It never fails: any model or parse
// problem yields an empty summary that still carries the original text.
func (t *IssueSummaryTool) Summarize(ctx context.Context, issueText string) IssueSummary {
	fallback := IssueSummary{
		RawText:            issueText,
		ReportedIssues:     []string{},
		AffectedComponents: []string{},
		Severity:           SeverityLow,
		Suggestions:        []string{},
	}

	prompt := renderPrompt(t.prompt, map[string]string{"issue_text": issueText})

	raw, err := t.llm.GenerateJSON(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}})
	if err != nil {
		t.logger.Printf("issue summary generation failed: %v", err)
		return fallback
	}

	var payload issuePayload
	if !llm.DecodeJSON(raw, &payload) {
		t.logger.Printf("issue summary response was not a usable JSON object")
		return fallback
	}

	severity := payload.Severity
	if !validSeverities[severity] {
		if severity != "" {
			t.logger.Printf("invalid severity %q, defaulting to %s", severity, SeverityLow)
		}
		severity = SeverityLow
	}

	return IssueSummary{
		RawText:            issueText,
		ReportedIssues:     orEmpty(payload.ReportedIssues),
		AffectedComponents: orEmpty(payload.AffectedComponents),
		Severity:           severity,
		Suggestions:        orEmpty(payload.Suggestions),
	}
}

// orEmpty keeps list fields non-null in marshaled records.
func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
