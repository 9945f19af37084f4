package repository

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/codeware/chatbot-backend/internal/entity"
)

// ChunkMemory is an in-memory brute-force cosine-similarity index. It backs
// the mock configuration and tests; the serving deployment uses
// ChunkPostgres.
type ChunkMemory struct {
	mu      sync.RWMutex
	chunks  []entity.DocumentChunk
	vectors [][]float32
}

func NewChunkMemory() *ChunkMemory {
	return &ChunkMemory{}
}

func (r *ChunkMemory) Upsert(_ context.Context, chunks []entity.DocumentChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return entity.ErrInvalidParameter
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Every vector in the batch must agree with the stored dimension, or
	// with the first of the batch when the index is still empty.
	if len(vectors) > 0 {
		expected := len(vectors[0])
		if len(r.vectors) > 0 {
			expected = len(r.vectors[0])
		}
		for _, v := range vectors {
			if len(v) != expected {
				return entity.ErrDimensionMismatch
			}
		}
	}
	r.chunks = append(r.chunks, chunks...)
	r.vectors = append(r.vectors, vectors...)
	return nil
}

func (r *ChunkMemory) Query(_ context.Context, vector []float32, topK int) ([]entity.RetrievalHit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hits := make([]entity.RetrievalHit, 0, len(r.chunks))
	for i := range r.chunks {
		hits = append(hits, entity.RetrievalHit{
			Chunk: r.chunks[i],
			Score: cosineSimilarity(vector, r.vectors[i]),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })

	if topK < len(hits) {
		hits = hits[:topK]
	}
	return hits, nil
}

func (r *ChunkMemory) Dimension(context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.vectors) == 0 {
		return 0, nil
	}
	return len(r.vectors[0]), nil
}

func (r *ChunkMemory) Count(context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.chunks), nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
