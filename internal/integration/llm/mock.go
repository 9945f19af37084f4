package llm

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockGenerator fakes the generation service. It honours the grounding
// instruction of the prompt: with an empty context it produces the
// fallback sentence, otherwise a canned grounded answer.
type MockGenerator struct {
	logger *zap.Logger
}

func NewMockGenerator(logger *zap.Logger) *MockGenerator {
	return &MockGenerator{logger: logger}
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating completion", zap.Int("prompt_length", len(prompt)))

	if emptyContext(prompt) {
		return "Sorry, I couldn't find information about that.", nil
	}
	return "Based on the provided company information: this is a mock answer.", nil
}

// emptyContext detects a prompt whose Context slot contains no chunks.
func emptyContext(prompt string) bool {
	_, rest, ok := strings.Cut(prompt, "Context:\n")
	if !ok {
		return true
	}
	contextPart, _, _ := strings.Cut(rest, "\n\nQuestion:")
	return strings.TrimSpace(contextPart) == ""
}
