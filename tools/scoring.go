package tools

import (
	"context"
	"fmt"
	"math"
	"strings"

	"doc-assistant/vectordb"
)

// Searcher is the slice of the vector store the retrieval tools depend
// on.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]vectordb.SearchResult, error)
}

// FormatContext renders retrieval hits as labelled text blocks for a
// model prompt.
func FormatContext(results []vectordb.SearchResult) string {
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, fmt.Sprintf("[%s:%d]\n%s", r.Source, r.Ordinal, r.Text))
	}
	return strings.Join(blocks, "\n\n")
}

// ExtractSources lists the provenance labels of retrieval hits in rank
// order. Duplicates are kept so the list lines up with the context
// blocks handed to the model.
func ExtractSources(results []vectordb.SearchResult) []string {
	sources := make([]string, 0, len(results))
	for _, r := range results {
		sources = append(sources, fmt.Sprintf("%s:%d", r.Source, r.Ordinal))
	}
	return sources
}

// CalculateConfidence maps retrieval similarities to a score in
// [0.1, 1.0], rounded to two decimals. No results scores 0.0.
func CalculateConfidence(results []vectordb.SearchResult) float64 {
	if len(results) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, r := range results {
		sum += r.Similarity
	}

	score := sum / float64(len(results)) * 1.2
	if score < 0.1 {
		score = 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return math.Round(score*100) / 100
}
