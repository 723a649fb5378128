package tools

import (
	"testing"

	"doc-assistant/vectordb"
)

func TestCalculateConfidenceEmptyResults(t *testing.T) {
	if got := CalculateConfidence(nil); got != 0.0 {
		t.Fatalf("expected 0.0 for no results, got %v", got)
	}
}

func TestCalculateConfidenceCapsAtOne(t *testing.T) {
	if got := CalculateConfidence(resultsWithSimilarities(0.9, 0.8, 0.85)); got != 1.0 {
		t.Fatalf("expected 1.0, got %v", got)
	}
}

func TestCalculateConfidenceAppliesFloor(t *testing.T) {
	if got := CalculateConfidence(resultsWithSimilarities(0.01)); got != 0.1 {
		t.Fatalf("expected 0.1, got %v", got)
	}
	if got := CalculateConfidence(resultsWithSimilarities(-0.5)); got != 0.1 {
		t.Fatalf("expected 0.1 for negative similarity, got %v", got)
	}
}

func TestCalculateConfidenceRoundsToTwoDecimals(t *testing.T) {
	if got := CalculateConfidence(resultsWithSimilarities(0.5, 0.6)); got != 0.66 {
		t.Fatalf("expected 0.66, got %v", got)
	}
}

func TestFormatContextLabelsBlocks(t *testing.T) {
	results := []vectordb.SearchResult{
		{Source: "a.txt", Ordinal: 0, Text: "first"},
		{Source: "b.txt", Ordinal: 2, Text: "second"},
	}

	got := FormatContext(results)
	want := "[a.txt:0]\nfirst\n\n[b.txt:2]\nsecond"
	if got != want {
		t.Fatalf("unexpected context: %q", got)
	}
}

func TestExtractSourcesKeepsOrderAndDuplicates(t *testing.T) {
	results := []vectordb.SearchResult{
		{Source: "a.txt", Ordinal: 1},
		{Source: "a.txt", Ordinal: 1},
		{Source: "b.txt", Ordinal: 0},
	}

	got := ExtractSources(results)
	if len(got) != 3 {
		t.Fatalf("expected 3 sources, got %d", len(got))
	}
	if got[0] != "a.txt:1" || got[1] != "a.txt:1" || got[2] != "b.txt:0" {
		t.Fatalf("unexpected sources: %v", got)
	}
}
