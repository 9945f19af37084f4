package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/codeware/chatbot-backend/internal/entity"
	"github.com/codeware/chatbot-backend/internal/repository"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDirTxt(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "faq.txt", "How to pay?\n\nUse the app or bKash.")
	writeFile(t, dir, "faq_bn.txt", "কিভাবে পেমেন্ট করবেন?")
	writeFile(t, dir, "notes.md", "ignored")

	chunks, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	bySource := make(map[string]entity.DocumentChunk)
	for _, c := range chunks {
		bySource[c.Source] = c
	}

	en, ok := bySource["faq.txt"]
	require.True(t, ok)
	assert.Equal(t, entity.LanguageEnglish, en.Language)
	assert.Contains(t, en.Text, "bKash")

	bn, ok := bySource["faq_bn.txt"]
	require.True(t, ok)
	assert.Equal(t, entity.LanguageBangla, bn.Language)
}

func TestLoadDirMissing(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestSplitChunksParagraphAligned(t *testing.T) {
	para := strings.Repeat("x", 700)
	text := para + "\n\n" + para + "\n\n" + para

	chunks := splitChunks(text)
	require.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), maxChunkSize)
	}
}

func TestSplitChunksMergesSmallParagraphs(t *testing.T) {
	chunks := splitChunks("one\n\ntwo\n\nthree")
	require.Len(t, chunks, 1)
	assert.Equal(t, "one\n\ntwo\n\nthree", chunks[0])
}

func TestSplitChunksOversizedParagraph(t *testing.T) {
	big := strings.Repeat("y", maxChunkSize+100)
	chunks := splitChunks(big)
	require.Len(t, chunks, 1)
	assert.Equal(t, big, chunks[0])
}

func TestSplitChunksEmpty(t *testing.T) {
	assert.Empty(t, splitChunks(""))
	assert.Empty(t, splitChunks("\n\n  \n\n"))
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, entity.LanguageBangla, detectLanguage("faq_bn.txt"))
	assert.Equal(t, entity.LanguageBangla, detectLanguage("packages_BN.docx"))
	assert.Equal(t, entity.LanguageEnglish, detectLanguage("faq.txt"))
	assert.Equal(t, entity.LanguageEnglish, detectLanguage("bn_intro.txt"))
}

type countingEmbedder struct {
	dims  int
	calls int
}

func (c *countingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	v := make([]float32, c.dims)
	for i, r := range text {
		v[i%c.dims] += float32(r)
	}
	return v, nil
}

func (c *countingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.calls++
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := c.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (c *countingEmbedder) Dimensions() int { return c.dims }

func TestRunnerIndexesCorpus(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 20; i++ {
		writeFile(t, dir, fmt.Sprintf("doc%02d.txt", i), fmt.Sprintf("document number %d", i))
	}

	embedder := &countingEmbedder{dims: 4}
	index := repository.NewChunkMemory()

	runner := NewRunner(embedder, index, zap.NewNop())
	count, err := runner.Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 20, count)

	stored, err := index.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, stored)

	// 20 chunks at a batch size of 16 means two upstream calls.
	assert.Equal(t, 2, embedder.calls)
}

func TestRunnerDimensionMismatchAborts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "doc.txt", "some document")

	index := repository.NewChunkMemory()
	require.NoError(t, index.Upsert(context.Background(),
		[]entity.DocumentChunk{{Text: "seeded", Source: "old.txt"}},
		[][]float32{{1, 0, 0}},
	))

	// Embedder dimensionality changed since the collection was built.
	embedder := &countingEmbedder{dims: 4}
	runner := NewRunner(embedder, index, zap.NewNop())
	_, err := runner.Run(context.Background(), dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrDimensionMismatch)

	// Nothing was written and no embedding call was made.
	count, err := index.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 0, embedder.calls)
}

func TestRunnerEmptyCorpus(t *testing.T) {
	runner := NewRunner(&countingEmbedder{dims: 4}, repository.NewChunkMemory(), zap.NewNop())

	_, err := runner.Run(context.Background(), t.TempDir())
	assert.Error(t, err)
}
