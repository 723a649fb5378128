package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"doc-assistant/llm"
	"doc-assistant/vectordb"
)

type stubSearcher struct {
	results []vectordb.SearchResult
	err     error
	calls   int
}

func (s *stubSearcher) Search(ctx context.Context, query string, topK int) ([]vectordb.SearchResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

var _ Searcher = (*stubSearcher)(nil)

type stubGenerator struct {
	reply string
	err   error
	calls int
	last  []llm.Message
}

func (s *stubGenerator) GenerateJSON(ctx context.Context, messages []llm.Message) (string, error) {
	s.calls++
	s.last = messages
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

var _ Generator = (*stubGenerator)(nil)

type stubAnswerer struct {
	calls []string
}

func (s *stubAnswerer) Answer(ctx context.Context, query string) QAAnswer {
	s.calls = append(s.calls, query)
	return QAAnswer{Query: query, Answer: "stub answer", Sources: []string{}, Confidence: 0.5}
}

var _ Answerer = (*stubAnswerer)(nil)

type stubSummarizer struct {
	calls []string
}

func (s *stubSummarizer) Summarize(ctx context.Context, issueText string) IssueSummary {
	s.calls = append(s.calls, issueText)
	return IssueSummary{
		RawText:            issueText,
		ReportedIssues:     []string{},
		AffectedComponents: []string{},
		Severity:           SeverityLow,
		Suggestions:        []string{},
	}
}

var _ Summarizer = (*stubSummarizer)(nil)

type panickyAnswerer struct{}

func (panickyAnswerer) Answer(ctx context.Context, query string) QAAnswer {
	panic("answerer exploded")
}

func writePrompts(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	prompts := map[string]string{
		"qa_prompt.txt":            "Question: {{question}}\n\nContext:\n{{context}}",
		"issue_summary_prompt.txt": "Summarize:\n{{issue_text}}",
		"router_prompt.txt":        "Route: {{query}}",
	}
	for name, content := range prompts {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write prompt %s: %v", name, err)
		}
	}
	return dir
}

func resultsWithSimilarities(similarities ...float64) []vectordb.SearchResult {
	out := make([]vectordb.SearchResult, len(similarities))
	for i, similarity := range similarities {
		out[i] = vectordb.SearchResult{
			ID:         fmt.Sprintf("doc.txt_chunk_%d", i),
			Source:     "doc.txt",
			Ordinal:    i,
			Text:       "chunk text",
			Distance:   1 - similarity,
			Similarity: similarity,
		}
	}
	return out
}
