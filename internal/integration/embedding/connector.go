// Package embedding provides Embedder implementations backed by external
// embedding services.
package embedding

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/codeware/chatbot-backend/internal/config"
	"github.com/codeware/chatbot-backend/internal/integration/common"
	pkghttp "github.com/codeware/chatbot-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const embeddingsEndpoint = "/api/embeddings"

// Connector embeds text via an Ollama-compatible embedding endpoint.
type Connector struct {
	config    config.EmbeddingConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.EmbeddingConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Embed generates the embedding vector for a single text.
func (c *Connector) Embed(ctx context.Context, text string) ([]float32, error) {
	req := embedRequest{Model: c.config.Model, Prompt: text}

	resp, err := retry.DoWithData(
		func() (*embedResponse, error) {
			var raw embedResponse
			if err := c.connector.DoRequest(ctx, http.MethodPost, embeddingsEndpoint, req, &raw); err != nil {
				return nil, err
			}
			return &raw, nil
		},
		append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...,
	)
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}

	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("embedding service returned an empty vector")
	}

	vector := make([]float32, len(resp.Embedding))
	for i, v := range resp.Embedding {
		vector[i] = float32(v)
	}

	ctxzap.Debug(ctx, "text embedded",
		zap.String("model", c.config.Model),
		zap.Int("dimensions", len(vector)),
	)

	return vector, nil
}

// EmbedBatch embeds texts one by one; the Ollama embeddings API has no
// batch call.
func (c *Connector) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := c.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d of %d: %w", i+1, len(texts), err)
		}
		vectors[i] = vector
	}
	return vectors, nil
}

// Dimensions returns the configured embedding dimensionality.
func (c *Connector) Dimensions() int {
	return c.config.Dimensions
}
