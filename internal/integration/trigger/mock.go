package trigger

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector simulates the external workflow execution service.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{logger: logger}
}

func (m *MockConnector) Execute(ctx context.Context, userID, triggerID string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] executing trigger workflow",
		zap.String("user_id", userID),
		zap.String("trigger_id", triggerID),
	)
	return fmt.Sprintf("Simulated external API response for trigger_id %s", triggerID), nil
}
