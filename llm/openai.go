package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// jsonModeInstruction is appended to the final message for providers that
// reject the response_format parameter (OpenRouter proxies some models
// that do).
const jsonModeInstruction = "\n\nIMPORTANT: Return your response as a valid JSON object only."

type openAIClient struct {
	client        *openai.Client
	model         string
	temperature   float32
	maxTokens     int
	jsonViaPrompt bool
}

func NewOpenAIClient(opts Options) Client {
	cfg := openai.DefaultConfig(opts.OpenAIAPIKey)
	if opts.OpenAIBaseURL != "" {
		cfg.BaseURL = opts.OpenAIBaseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}

	return &openAIClient{
		client:        openai.NewClientWithConfig(cfg),
		model:         opts.Model,
		temperature:   opts.Temperature,
		maxTokens:     opts.MaxTokens,
		jsonViaPrompt: strings.Contains(strings.ToLower(opts.OpenAIBaseURL), "openrouter.ai"),
	}
}

func (c *openAIClient) Generate(ctx context.Context, messages []Message) (string, error) {
	return c.complete(ctx, messages, false)
}

func (c *openAIClient) GenerateJSON(ctx context.Context, messages []Message) (string, error) {
	return c.complete(ctx, messages, true)
}

func (c *openAIClient) complete(ctx context.Context, messages []Message, jsonMode bool) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages provided")
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	req.Messages = make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		req.Messages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	if jsonMode {
		if c.jsonViaPrompt {
			last := len(req.Messages) - 1
			req.Messages[last].Content += jsonModeInstruction
		} else {
			req.ResponseFormat = &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			}
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create openai chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

var _ Client = (*openAIClient)(nil)
