package ingest

import (
	"context"
	"fmt"

	"github.com/codeware/chatbot-backend/internal/entity"
	"github.com/codeware/chatbot-backend/internal/rag"
	"go.uber.org/zap"
)

// embedBatchSize bounds how many chunks are embedded per upstream call.
const embedBatchSize = 16

// Runner embeds corpus chunks and writes them to the vector index.
type Runner struct {
	embedder rag.Embedder
	index    rag.VectorIndex
	logger   *zap.Logger
}

func NewRunner(embedder rag.Embedder, index rag.VectorIndex, logger *zap.Logger) *Runner {
	return &Runner{
		embedder: embedder,
		index:    index,
		logger:   logger,
	}
}

// Run loads every document under dir and indexes it. Returns the number of
// chunks written. A non-empty index whose vectors disagree with the
// embedder's dimensionality aborts the job before anything is written.
func (r *Runner) Run(ctx context.Context, dir string) (int, error) {
	stored, err := r.index.Dimension(ctx)
	if err != nil {
		return 0, fmt.Errorf("read index dimension: %w", err)
	}
	if stored != 0 && stored != r.embedder.Dimensions() {
		return 0, fmt.Errorf("%w: embedder=%d index=%d",
			entity.ErrDimensionMismatch, r.embedder.Dimensions(), stored)
	}

	chunks, err := LoadDir(dir)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, fmt.Errorf("no documents found in %s", dir)
	}

	r.logger.Info("corpus loaded",
		zap.String("dir", dir),
		zap.Int("chunks", len(chunks)),
	)

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		vectors, err := r.embedder.EmbedBatch(ctx, chunkTexts(batch))
		if err != nil {
			return start, fmt.Errorf("embed batch starting at %d: %w", start, err)
		}

		if err := r.index.Upsert(ctx, batch, vectors); err != nil {
			return start, fmt.Errorf("upsert batch starting at %d: %w", start, err)
		}

		r.logger.Info("batch indexed",
			zap.Int("from", start),
			zap.Int("to", end),
		)
	}

	return len(chunks), nil
}

func chunkTexts(chunks []entity.DocumentChunk) []string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return texts
}
