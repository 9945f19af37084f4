package embedding

import (
	"context"
	"fmt"

	"github.com/codeware/chatbot-backend/internal/config"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIEmbedder embeds text via the OpenAI embeddings API. Selected when
// PROVIDER=openai.
type OpenAIEmbedder struct {
	client     *openai.Client
	model      string
	dimensions int
	logger     *zap.Logger
}

func NewOpenAIEmbedder(cfg config.OpenAIConfig, logger *zap.Logger) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		client:     openai.NewClient(cfg.APIKey),
		model:      cfg.EmbeddingModel,
		dimensions: cfg.EmbeddingDimensions,
		logger:     logger,
	}
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai embeddings: expected %d vectors, got %d", len(texts), len(resp.Data))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, item := range resp.Data {
		vectors[i] = item.Embedding
	}
	return vectors, nil
}

func (e *OpenAIEmbedder) Dimensions() int {
	return e.dimensions
}
