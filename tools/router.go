package tools

import (
	"context"
	"log"

	"doc-assistant/llm"
)

// Answerer handles document questions.
type Answerer interface {
	Answer(ctx context.Context, query string) QAAnswer
}

// Summarizer handles issue reports.
type Summarizer interface {
	Summarize(ctx context.Context, issueText string) IssueSummary
}

// Router asks the model which tool fits a free-form query, sanitizes
// the choice, and executes it. QA is the fallback at every stage.
type Router struct {
	llm    Generator
	qa     Answerer
	issue  Summarizer
	prompt string
	logger *log.Logger
}

func NewRouter(client Generator, qa Answerer, issue Summarizer, promptsDir string, logger *log.Logger) (*Router, error) {
	prompt, err := loadPrompt(promptsDir, "router_prompt.txt")
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Router{
		llm:    client,
		qa:     qa,
		issue:  issue,
		prompt: prompt,
		logger: logger,
	}, nil
}

// Process routes a query to a tool and runs it. It never fails: routing
// problems degrade to QA, and a panic anywhere below is converted into
// an error answer.
func (r *Router) Process(ctx context.Context, query string) (out Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Printf("router recovered from panic: %v", rec)
			out = Outcome{
				Decision: RouterDecision{
					Tool:      ToolQA,
					Rationale: "Error occurred, falling back to QA tool.",
					ToolInput: map[string]any{"query": query},
				},
				Result: QAAnswer{Query: query, Answer: answerError, Sources: []string{}, Confidence: 0.0},
			}
		}
	}()

	decision := r.route(ctx, query)
	return Outcome{Decision: decision, Result: r.execute(ctx, decision, query)}
}

// route asks the model for a tool choice and normalizes the reply into
// a valid decision.
func (r *Router) route(ctx context.Context, query string) RouterDecision {
	fallback := RouterDecision{
		Tool:      ToolQA,
		Rationale: "Unable to determine appropriate tool, defaulting to QA.",
		ToolInput: map[string]any{"query": query},
	}

	prompt := renderPrompt(r.prompt, map[string]string{"query": query})

	raw, err := r.llm.GenerateJSON(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}})
	if err != nil {
		r.logger.Printf("router generation failed: %v", err)
		return fallback
	}

	data, ok := llm.ExtractJSON(raw)
	if !ok {
		r.logger.Printf("router response contained no JSON object")
		return fallback
	}

	tool, _ := data["tool"].(string)
	if tool != ToolQA && tool != ToolIssueSummary {
		r.logger.Printf("router chose unknown tool %q, defaulting to qa", tool)
		return RouterDecision{
			Tool:      ToolQA,
			Rationale: "Unrecognized tool choice, defaulting to QA.",
			ToolInput: map[string]any{"query": query},
		}
	}

	rationale, ok := data["rationale"].(string)
	if !ok {
		rationale = "No rationale provided"
	}

	toolInput, _ := data["tool_input"].(map[string]any)
	if toolInput == nil {
		toolInput = map[string]any{}
	}

	switch tool {
	case ToolQA:
		if _, ok := toolInput["query"].(string); !ok {
			toolInput["query"] = query
		}
	case ToolIssueSummary:
		if _, ok := toolInput["issue_text"].(string); !ok {
			toolInput["issue_text"] = query
		}
	}

	return RouterDecision{Tool: tool, Rationale: rationale, ToolInput: toolInput}
}

// execute runs the chosen tool with its input, falling back to the
// original query when the input map lacks a usable value.
func (r *Router) execute(ctx context.Context, decision RouterDecision, query string) any {
	if decision.Tool == ToolIssueSummary {
		return r.issue.Summarize(ctx, stringField(decision.ToolInput, "issue_text", query))
	}
	return r.qa.Answer(ctx, stringField(decision.ToolInput, "query", query))
}

func stringField(input map[string]any, key, fallback string) string {
	if value, ok := input[key].(string); ok {
		return value
	}
	return fallback
}
