package rag

import (
	"context"

	"github.com/codeware/chatbot-backend/internal/entity"
)

// Embedder maps text to a fixed-dimension vector. One concrete
// implementation is chosen at startup via configuration.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}

// VectorIndex stores (vector, chunk) tuples and answers nearest-neighbour
// queries. Query results come back best-first under the index's metric.
type VectorIndex interface {
	Query(ctx context.Context, vector []float32, topK int) ([]entity.RetrievalHit, error)
	Upsert(ctx context.Context, chunks []entity.DocumentChunk, vectors [][]float32) error
	// Dimension reports the dimensionality of stored vectors, 0 when empty.
	Dimension(ctx context.Context) (int, error)
}

// Generator produces a text completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
