// Package rag implements the retrieval-augmented answering pipeline:
// question embedding, nearest-neighbour retrieval and grounded generation.
package rag

import (
	"context"
	"fmt"

	"github.com/codeware/chatbot-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Retriever turns a question into an ordered set of supporting chunks.
// It is read-only with respect to the index and holds no per-request state.
type Retriever struct {
	embedder Embedder
	index    VectorIndex
	logger   *zap.Logger
}

func NewRetriever(embedder Embedder, index VectorIndex, logger *zap.Logger) *Retriever {
	return &Retriever{
		embedder: embedder,
		index:    index,
		logger:   logger,
	}
}

// ValidateDimensions checks that the embedder and the stored vectors agree
// on dimensionality. A mismatch is a fatal configuration error and must be
// raised at startup, not per query. An empty index passes: it constrains
// nothing yet.
func (r *Retriever) ValidateDimensions(ctx context.Context) error {
	stored, err := r.index.Dimension(ctx)
	if err != nil {
		return fmt.Errorf("read index dimension: %w", err)
	}
	if stored == 0 {
		return nil
	}
	if stored != r.embedder.Dimensions() {
		return fmt.Errorf("%w: embedder=%d index=%d",
			entity.ErrDimensionMismatch, r.embedder.Dimensions(), stored)
	}
	return nil
}

// Retrieve embeds the question and returns the topK nearest chunks,
// best-first. An empty index yields zero hits, not an error; upstream
// failures propagate unchanged.
func (r *Retriever) Retrieve(ctx context.Context, question string, topK int) ([]entity.RetrievalHit, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive, got %d", entity.ErrInvalidParameter, topK)
	}

	vector, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	hits, err := r.index.Query(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("query vector index: %w", err)
	}

	ctxzap.Debug(ctx, "chunks retrieved",
		zap.Int("top_k", topK),
		zap.Int("hit_count", len(hits)),
	)

	return hits, nil
}
