package embedding

import (
	"context"
	"math"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const mockDimensions = 32

// MockEmbedder produces deterministic pseudo-embeddings without any
// external service. Identical texts map to identical vectors, so retrieval
// still behaves sensibly in the mock configuration.
type MockEmbedder struct {
	logger *zap.Logger
}

func NewMockEmbedder(logger *zap.Logger) *MockEmbedder {
	return &MockEmbedder{logger: logger}
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	ctxzap.Debug(ctx, "[MOCK] embedding text", zap.Int("length", len(text)))

	vector := make([]float32, mockDimensions)
	for i, r := range text {
		vector[i%mockDimensions] += float32(r)
	}

	// Unit length keeps cosine scores in the expected range.
	var norm float64
	for _, v := range vector {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		inv := float32(1 / math.Sqrt(norm))
		for i := range vector {
			vector[i] *= inv
		}
	}

	return vector, nil
}

func (m *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vector
	}
	return vectors, nil
}

func (m *MockEmbedder) Dimensions() int {
	return mockDimensions
}
