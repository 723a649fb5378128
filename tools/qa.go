package tools

import (
	"context"
	"log"

	"doc-assistant/llm"
)

// Thai-facing answer strings, kept identical across every degraded
// path so clients can match on them.
const (
	answerInsufficient = "ไม่พบข้อมูลเพียงพอ"
	answerError        = "เกิดข้อผิดพลาดในการประมวลผล"
)

// Generator is the slice of the language model client the extraction
// tools depend on.
type Generator interface {
	GenerateJSON(ctx context.Context, messages []llm.Message) (string, error)
}

// QATool answers questions over the indexed corpus: retrieve, ground a
// prompt in the hits, and extract a structured answer.
type QATool struct {
	searcher Searcher
	llm      Generator
	prompt   string
	topK     int
	logger   *log.Logger
}

func NewQATool(searcher Searcher, client Generator, promptsDir string, topK int, logger *log.Logger) (*QATool, error) {
	prompt, err := loadPrompt(promptsDir, "qa_prompt.txt")
	if err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = 4
	}
	if logger == nil {
		logger = log.Default()
	}
	return &QATool{
		searcher: searcher,
		llm:      client,
		prompt:   prompt,
		topK:     topK,
		logger:   logger,
	}, nil
}

// Answer resolves a question against the corpus. It never fails: every
// error path degrades to a well-formed record instead.
func (t *QATool) Answer(ctx context.Context, query string) QAAnswer {
	results, err := t.searcher.Search(ctx, query, t.topK)
	if err != nil {
		t.logger.Printf("qa search failed: %v", err)
		return QAAnswer{Query: query, Answer: answerError, Sources: []string{}, Confidence: 0.0}
	}

	if len(results) == 0 {
		return QAAnswer{Query: query, Answer: answerInsufficient, Sources: []string{}, Confidence: 0.0}
	}

	sources := ExtractSources(results)
	confidence := CalculateConfidence(results)

	prompt := renderPrompt(t.prompt, map[string]string{
		"question": query,
		"context":  FormatContext(results),
	})

	raw, err := t.llm.GenerateJSON(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}})
	if err != nil {
		t.logger.Printf("qa generation failed: %v", err)
		return QAAnswer{Query: query, Answer: answerInsufficient, Sources: sources, Confidence: 0.1}
	}

	data, ok := llm.ExtractJSON(raw)
	if !ok {
		t.logger.Printf("qa response contained no JSON object")
		return QAAnswer{Query: query, Answer: answerInsufficient, Sources: sources, Confidence: 0.1}
	}

	answer := answerInsufficient
	if value, present := data["answer"]; present {
		text, isString := value.(string)
		if !isString {
			t.logger.Printf("qa answer field was not a string")
			return QAAnswer{Query: query, Answer: answerInsufficient, Sources: sources, Confidence: 0.1}
		}
		answer = text
	}

	return QAAnswer{Query: query, Answer: answer, Sources: sources, Confidence: confidence}
}
