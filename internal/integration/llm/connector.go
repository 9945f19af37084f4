// Package llm provides Generator implementations backed by external
// text-generation services.
package llm

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

const generateEndpoint = "/api/generate"

// Connector generates completions via an Ollama-compatible endpoint.
type Connector struct {
	config    config.LLMConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate produces a completion for the prompt. Failures propagate to the
// caller; no answer is fabricated on error.
func (c *Connector) Generate(ctx context.Context, prompt string) (string, error) {
	ctxzap.Debug(ctx, "generating completion", zap.String("model", c.config.Model))

	req := generateRequest{Model: c.config.Model, Prompt: prompt, Stream: false}

	resp, err := retry.DoWithData(
		func() (*generateResponse, error) {
			var raw generateResponse
			if err := c.connector.DoRequest(ctx, http.MethodPost, generateEndpoint, req, &raw); err != nil {
				return nil, err
			}
			return &raw, nil
		},
		append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...,
	)
	if err != nil {
		return "", fmt.Errorf("generate completion: %w", err)
	}

	if resp.Response == "" {
		return "", fmt.Errorf("generation service returned an empty completion")
	}

	ctxzap.Info(ctx, "completion generated",
		zap.String("model", c.config.Model),
		zap.Int("completion_length", len(resp.Response)),
	)

	return resp.Response, nil
}
