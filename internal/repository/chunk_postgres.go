package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/codeware/chatbot-backend/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChunkPostgres is a pgvector-backed vector index. Chunks live in a named
// collection; similarity is cosine (the <=> operator returns cosine
// distance, so score = 1 - distance). The serving path only ever reads.
type ChunkPostgres struct {
	db         *pgxpool.Pool
	collection string
}

func NewChunkPostgres(db *pgxpool.Pool, collection string) *ChunkPostgres {
	return &ChunkPostgres{db: db, collection: collection}
}

// Upsert stores chunks with their embedding vectors. Used by the offline
// ingestion job only.
func (r *ChunkPostgres) Upsert(ctx context.Context, chunks []entity.DocumentChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks, %d vectors", entity.ErrInvalidParameter, len(chunks), len(vectors))
	}

	batch := &pgx.Batch{}
	for i, chunk := range chunks {
		batch.Queue(
			`INSERT INTO chunks (id, collection, text, source, language, embedding)
			 VALUES ($1, $2, $3, $4, $5, $6::vector)`,
			uuid.New(), r.collection, chunk.Text, chunk.Source, string(chunk.Language), vectorLiteral(vectors[i]),
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range chunks {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert chunk: %w", err)
		}
	}

	return nil
}

// Query returns the topK nearest chunks to the given vector, best-first.
// An empty collection yields zero hits.
func (r *ChunkPostgres) Query(ctx context.Context, vector []float32, topK int) ([]entity.RetrievalHit, error) {
	rows, err := r.db.Query(ctx,
		`SELECT text, source, language, 1 - (embedding <=> $2::vector) AS score
		 FROM chunks
		 WHERE collection = $1
		 ORDER BY embedding <=> $2::vector
		 LIMIT $3`,
		r.collection, vectorLiteral(vector), topK,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrIndexUnavailable, err)
	}
	defer rows.Close()

	var hits []entity.RetrievalHit
	for rows.Next() {
		var hit entity.RetrievalHit
		var language string
		if err := rows.Scan(&hit.Chunk.Text, &hit.Chunk.Source, &language, &hit.Score); err != nil {
			return nil, fmt.Errorf("scan chunk row: %w", err)
		}
		hit.Chunk.Language = entity.Language(language)
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrIndexUnavailable, err)
	}

	return hits, nil
}

// Dimension reports the dimensionality of the stored vectors, 0 when the
// collection is empty.
func (r *ChunkPostgres) Dimension(ctx context.Context) (int, error) {
	var dim int
	err := r.db.QueryRow(ctx,
		`SELECT vector_dims(embedding) FROM chunks WHERE collection = $1 LIMIT 1`,
		r.collection,
	).Scan(&dim)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", entity.ErrIndexUnavailable, err)
	}
	return dim, nil
}

// Count returns the number of chunks in the collection.
func (r *ChunkPostgres) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM chunks WHERE collection = $1`, r.collection,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", entity.ErrIndexUnavailable, err)
	}
	return count, nil
}

// vectorLiteral renders a vector in pgvector's text format: [x1,x2,...].
func vectorLiteral(vector []float32) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range vector {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	sb.WriteByte(']')
	return sb.String()
}
