// Package trigger calls the external workflow execution service when a
// rule-based trigger fires.
package trigger

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/codeware/chatbot-backend/internal/config"
	"github.com/codeware/chatbot-backend/internal/entity"
	"github.com/codeware/chatbot-backend/internal/integration/common"
	pkghttp "github.com/codeware/chatbot-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector executes a fired trigger against the external workflow
// endpoint and returns its message.
type Connector struct {
	config    config.TriggerConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.TriggerConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Execute runs the workflow for the trigger and returns its message. A
// network failure here surfaces to the caller as a service error; there is
// no silent fallback.
func (c *Connector) Execute(ctx context.Context, userID, triggerID string) (string, error) {
	ctxzap.Info(ctx, "executing trigger workflow", zap.String("trigger_id", triggerID))

	req := entity.TriggerExecRequest{UserID: userID, TriggerID: triggerID}

	resp, err := retry.DoWithData(
		func() (*entity.TriggerExecResponse, error) {
			var raw entity.TriggerExecResponse
			if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.ExecuteEndpoint, req, &raw); err != nil {
				return nil, err
			}
			return &raw, nil
		},
		append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...,
	)
	if err != nil {
		return "", fmt.Errorf("execute trigger %s: %w", triggerID, err)
	}

	ctxzap.Info(ctx, "trigger workflow executed", zap.String("trigger_id", triggerID))

	return resp.Message, nil
}
