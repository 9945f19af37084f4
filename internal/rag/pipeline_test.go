package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/codeware/chatbot-backend/internal/entity"
	"github.com/codeware/chatbot-backend/internal/repository"
)

// stubEmbedder returns a fixed vector per text, or a fixed error.
type stubEmbedder struct {
	vectors map[string][]float32
	dims    int
	err     error
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	v, ok := s.vectors[text]
	if !ok {
		return nil, fmt.Errorf("no stub vector for %q", text)
	}
	return v, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := s.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *stubEmbedder) Dimensions() int { return s.dims }

type stubGenerator struct {
	answer     string
	err        error
	lastPrompt string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

func seededIndex(t *testing.T, chunks []entity.DocumentChunk, vectors [][]float32) *repository.ChunkMemory {
	t.Helper()
	index := repository.NewChunkMemory()
	require.NoError(t, index.Upsert(context.Background(), chunks, vectors))
	return index
}

func TestRetrieveBestFirst(t *testing.T) {
	chunks := []entity.DocumentChunk{
		{Text: "packages and pricing", Source: "pricing.txt", Language: entity.LanguageEnglish},
		{Text: "coverage areas", Source: "coverage.txt", Language: entity.LanguageEnglish},
		{Text: "router setup guide", Source: "setup.txt", Language: entity.LanguageEnglish},
	}
	vectors := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.9, 0.1, 0},
	}
	index := seededIndex(t, chunks, vectors)
	embedder := &stubEmbedder{
		vectors: map[string][]float32{"what are your packages?": {1, 0, 0}},
		dims:    3,
	}

	r := NewRetriever(embedder, index, zap.NewNop())
	hits, err := r.Retrieve(context.Background(), "what are your packages?", 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "pricing.txt", hits[0].Chunk.Source)
	assert.Equal(t, "setup.txt", hits[1].Chunk.Source)
	assert.GreaterOrEqual(t, hits[0].Score, hits[1].Score)
}

func TestRetrieveEmptyIndex(t *testing.T) {
	embedder := &stubEmbedder{
		vectors: map[string][]float32{"anything": {1, 0}},
		dims:    2,
	}
	r := NewRetriever(embedder, repository.NewChunkMemory(), zap.NewNop())

	hits, err := r.Retrieve(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestRetrieveInvalidTopK(t *testing.T) {
	r := NewRetriever(&stubEmbedder{dims: 2}, repository.NewChunkMemory(), zap.NewNop())

	_, err := r.Retrieve(context.Background(), "q", 0)
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestRetrieveEmbedderError(t *testing.T) {
	wantErr := errors.New("embedding service unavailable")
	r := NewRetriever(&stubEmbedder{err: wantErr}, repository.NewChunkMemory(), zap.NewNop())

	_, err := r.Retrieve(context.Background(), "q", 3)
	assert.ErrorIs(t, err, wantErr)
}

func TestValidateDimensionsEmptyIndexPasses(t *testing.T) {
	r := NewRetriever(&stubEmbedder{dims: 768}, repository.NewChunkMemory(), zap.NewNop())
	assert.NoError(t, r.ValidateDimensions(context.Background()))
}

func TestValidateDimensionsMismatch(t *testing.T) {
	index := seededIndex(t,
		[]entity.DocumentChunk{{Text: "t", Source: "s.txt"}},
		[][]float32{{1, 0, 0}},
	)
	r := NewRetriever(&stubEmbedder{dims: 768}, index, zap.NewNop())

	err := r.ValidateDimensions(context.Background())
	assert.ErrorIs(t, err, entity.ErrDimensionMismatch)
}

func TestBuildPrompt(t *testing.T) {
	hits := []entity.RetrievalHit{
		{Chunk: entity.DocumentChunk{Text: "first chunk"}},
		{Chunk: entity.DocumentChunk{Text: "second chunk"}},
	}

	prompt := BuildPrompt(hits, "How fast is the connection?")

	assert.Contains(t, prompt, "first chunk\n\nsecond chunk")
	assert.Contains(t, prompt, "Question: How fast is the connection?")
	assert.Contains(t, prompt, FallbackAnswer)
	assert.Less(t,
		strings.Index(prompt, "first chunk"),
		strings.Index(prompt, "second chunk"),
	)
}

func TestAnswerCollectsDistinctSources(t *testing.T) {
	chunks := []entity.DocumentChunk{
		{Text: "part one", Source: "faq.txt"},
		{Text: "part two", Source: "faq.txt"},
		{Text: "other doc", Source: "pricing.txt"},
	}
	vectors := [][]float32{{1, 0}, {0.9, 0.1}, {0.8, 0.2}}
	index := seededIndex(t, chunks, vectors)
	embedder := &stubEmbedder{vectors: map[string][]float32{"q": {1, 0}}, dims: 2}
	gen := &stubGenerator{answer: "grounded answer"}

	p := NewPipeline(NewRetriever(embedder, index, zap.NewNop()), gen, 3, zap.NewNop())
	result, err := p.Answer(context.Background(), "q")
	require.NoError(t, err)

	assert.Equal(t, "grounded answer", result.Answer)
	assert.Equal(t, []string{"faq.txt", "pricing.txt"}, result.Sources)
	assert.Contains(t, gen.lastPrompt, "part one")
}

func TestAnswerEmptyIndexStillGenerates(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{"q": {1, 0}}, dims: 2}
	gen := &stubGenerator{answer: FallbackAnswer}

	p := NewPipeline(NewRetriever(embedder, repository.NewChunkMemory(), zap.NewNop()), gen, 3, zap.NewNop())
	result, err := p.Answer(context.Background(), "q")
	require.NoError(t, err)

	assert.Equal(t, FallbackAnswer, result.Answer)
	assert.Empty(t, result.Sources)
	assert.Contains(t, gen.lastPrompt, "Context:\n\n")
}

func TestAnswerGeneratorError(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{"q": {1, 0}}, dims: 2}
	wantErr := errors.New("model overloaded")
	gen := &stubGenerator{err: wantErr}

	p := NewPipeline(NewRetriever(embedder, repository.NewChunkMemory(), zap.NewNop()), gen, 3, zap.NewNop())
	result, err := p.Answer(context.Background(), "q")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, wantErr)
}
