package strategy

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/openai/openai-go"
)

// Completer is the model gateway surface needed by the generation flow. Tests
// substitute a canned implementation.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// OpenAIGateway calls the chat completions endpoint with the fixed generation
// parameters (temperature 0.7, max tokens 4000).
type OpenAIGateway struct {
	client openai.Client
	model  string
}

func NewOpenAIGateway(model string) *OpenAIGateway {
	return &OpenAIGateway{
		client: openai.NewClient(),
		model:  model,
	}
}

func (g *OpenAIGateway) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	messages = append(messages, openai.UserMessage(userPrompt))

	res, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       g.model,
		Messages:    messages,
		Temperature: openai.Float(0.7),
		MaxTokens:   openai.Int(4000),
	})
	if err != nil {
		slog.Error("openai error: chat completions failed", "error", err)
		return "", fmt.Errorf("openai generation failed: %w", err)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("openai generation returned no choices")
	}

	return res.Choices[0].Message.Content, nil
}
