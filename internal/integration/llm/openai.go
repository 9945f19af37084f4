package llm

import (
	"context"
	"fmt"

	"github.com/codeware/chatbot-backend/internal/config"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIGenerator generates completions via the OpenAI chat API. Selected
// when PROVIDER=openai.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

func NewOpenAIGenerator(cfg config.OpenAIConfig, logger *zap.Logger) *OpenAIGenerator {
	return &OpenAIGenerator{
		client: openai.NewClient(cfg.APIKey),
		model:  cfg.ChatModel,
		logger: logger,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat completion: no choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}
