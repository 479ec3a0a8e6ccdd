package answer

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Completer produces one answer text from a system and user prompt.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// GenerationError wraps a completion-service failure so the API layer
// can distinguish it from a refusal or a local bug.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// OpenAIGenerator completes prompts through the OpenAI chat API.
type OpenAIGenerator struct {
	api   *openai.Client
	model string
}

func NewOpenAIGenerator(apiKey, baseURL, model string) *OpenAIGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIGenerator{api: openai.NewClientWithConfig(cfg), model: model}
}

// Complete makes a single chat completion call. There is no retry; a
// failure aborts the request.
func (g *OpenAIGenerator) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := g.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", &GenerationError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &GenerationError{Err: fmt.Errorf("no choices returned")}
	}
	return resp.Choices[0].Message.Content, nil
}
