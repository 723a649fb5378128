package knowledge

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"doc-assistant/tools"
)

func TestRecordSummaryRequiresDriver(t *testing.T) {
	graph := NewIssueGraph(nil, log.New(io.Discard, "", 0))

	summary := tools.IssueSummary{
		RawText:            "checkout broken",
		ReportedIssues:     []string{"checkout fails"},
		AffectedComponents: []string{"payment gateway"},
		Severity:           tools.SeverityHigh,
		Suggestions:        []string{},
	}
	if _, err := graph.RecordSummary(context.Background(), summary); err == nil {
		t.Fatal("expected error when driver is nil")
	}
}

func TestComponentInsightsRequiresDriver(t *testing.T) {
	graph := NewIssueGraph(nil, log.New(io.Discard, "", 0))

	if _, err := graph.ComponentInsights(context.Background()); err == nil {
		t.Fatal("expected error when driver is nil")
	}
}

func TestConvertersTolerateUnexpectedTypes(t *testing.T) {
	if got := toString(42); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
	if got := toInt64("not a number"); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := toInt64(int64(7)); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
	if got := toStringList([]any{"db", 1, "api"}); len(got) != 2 {
		t.Fatalf("expected non-strings dropped, got %v", got)
	}
	if got := toStringList("oops"); len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
	if got := toTime("not a time"); !got.IsZero() {
		t.Fatalf("expected zero time, got %v", got)
	}
	stamp := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	if got := toTime(stamp); !got.Equal(stamp) {
		t.Fatalf("expected %v, got %v", stamp, got)
	}
}
