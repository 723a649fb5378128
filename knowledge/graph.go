package knowledge

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"doc-assistant/tools"
)

// IssueGraph records issue summaries in Neo4j and links each one to the
// components it affects.
type IssueGraph struct {
	driver neo4j.DriverWithContext
	logger *log.Logger
}

func NewIssueGraph(driver neo4j.DriverWithContext, logger *log.Logger) *IssueGraph {
	if logger == nil {
		logger = log.Default()
	}
	return &IssueGraph{driver: driver, logger: logger}
}

// RecordSummary persists one summary as an Issue node with AFFECTS
// edges to its components and returns the generated issue id.
func (g *IssueGraph) RecordSummary(ctx context.Context, summary tools.IssueSummary) (string, error) {
	if g.driver == nil {
		return "", fmt.Errorf("graph driver not configured")
	}

	id := uuid.NewString()

	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
MERGE (i:Issue {id: $id})
SET i.severity = $severity,
    i.raw_text = $rawText,
    i.reported_issues = $issues,
    i.suggestions = $suggestions,
    i.created_at = datetime()
WITH i
UNWIND $components AS component
MERGE (c:Component {name: component})
MERGE (i)-[:AFFECTS]->(c)`

		_, err := tx.Run(ctx, query, map[string]any{
			"id":          id,
			"severity":    summary.Severity,
			"rawText":     summary.RawText,
			"issues":      summary.ReportedIssues,
			"suggestions": summary.Suggestions,
			"components":  summary.AffectedComponents,
		})
		return nil, err
	})
	if err != nil {
		return "", fmt.Errorf("record issue summary: %w", err)
	}

	g.logger.Printf("recorded issue %s affecting %d components", id, len(summary.AffectedComponents))
	return id, nil
}

// ComponentInsight aggregates the recorded issues touching one
// component.
type ComponentInsight struct {
	Component    string    `json:"component"`
	Issues       int64     `json:"issues"`
	Severities   []string  `json:"severities"`
	LastReported time.Time `json:"last_reported"`
}

// ComponentInsights lists components ordered by how many issues affect
// them.
func (g *IssueGraph) ComponentInsights(ctx context.Context) ([]ComponentInsight, error) {
	if g.driver == nil {
		return nil, fmt.Errorf("graph driver not configured")
	}

	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
MATCH (i:Issue)-[:AFFECTS]->(c:Component)
RETURN c.name AS component,
       count(i) AS issues,
       collect(DISTINCT i.severity) AS severities,
       max(i.created_at) AS last_reported
ORDER BY issues DESC`

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("query component insights: %w", err)
	}

	insights := make([]ComponentInsight, 0)
	for result.Next(ctx) {
		record := result.Record()

		insight := ComponentInsight{Severities: []string{}}
		if value, ok := record.Get("component"); ok {
			insight.Component = toString(value)
		}
		if value, ok := record.Get("issues"); ok {
			insight.Issues = toInt64(value)
		}
		if value, ok := record.Get("severities"); ok {
			insight.Severities = toStringList(value)
		}
		if value, ok := record.Get("last_reported"); ok {
			insight.LastReported = toTime(value)
		}
		insights = append(insights, insight)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("read component insights: %w", err)
	}

	return insights, nil
}

func toString(value any) string {
	s, _ := value.(string)
	return s
}

func toInt64(value any) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

func toStringList(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func toTime(value any) time.Time {
	t, _ := value.(time.Time)
	return t
}
