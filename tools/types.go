package tools

// Tool names the router is allowed to pick.
const (
	ToolQA           = "qa"
	ToolIssueSummary = "issue_summary"
)

// Severity levels an issue summary may carry. Anything else is coerced
// to SeverityLow.
const (
	SeverityLow      = "Low"
	SeverityMedium   = "Medium"
	SeverityHigh     = "High"
	SeverityCritical = "Critical"
)

var validSeverities = map[string]bool{
	SeverityLow:      true,
	SeverityMedium:   true,
	SeverityHigh:     true,
	SeverityCritical: true,
}

// QAAnswer is the structured result of a document question.
type QAAnswer struct {
	Query      string   `json:"query"`
	Answer     string   `json:"answer"`
	Sources    []string `json:"sources"`
	Confidence float64  `json:"confidence"`
}

// IssueSummary is the structured digest of a raw issue report.
type IssueSummary struct {
	RawText            string   `json:"raw_text"`
	ReportedIssues     []string `json:"reported_issues"`
	AffectedComponents []string `json:"affected_components"`
	Severity           string   `json:"severity"`
	Suggestions        []string `json:"suggestions"`
}

// RouterDecision records which tool the router chose and why.
type RouterDecision struct {
	Tool      string         `json:"tool"`
	Rationale string         `json:"rationale"`
	ToolInput map[string]any `json:"tool_input"`
}

// Outcome bundles a routing decision with the chosen tool's result.
type Outcome struct {
	Decision RouterDecision `json:"decision"`
	Result   any            `json:"result"`
}
