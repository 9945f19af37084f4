package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/codeware/chatbot-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// FallbackAnswer is the sentence the prompt instructs the generator to
// produce when the retrieved context does not contain the answer.
const FallbackAnswer = "Sorry, I couldn't find information about that."

// promptTemplate grounds the generator: it may only use the supplied
// context, must answer in the question's language, and must fall back to
// FallbackAnswer when the context is insufficient.
const promptTemplate = "You are a helpful assistant for a broadband company. " +
	"Answer the user's question using ONLY the information from the context below. " +
	"Ensure the answer is in the same language as the question. " +
	"If the answer is present in the context, provide a clear, concise, and direct answer. " +
	"If the answer is not in the context, reply: '" + FallbackAnswer + "'\n" +
	"\nContext:\n%s\n\nQuestion: %s\nAnswer:"

// Pipeline assembles a grounded prompt from retrieved chunks and produces
// an answer with its cited sources.
type Pipeline struct {
	retriever *Retriever
	generator Generator
	topK      int
	logger    *zap.Logger
}

func NewPipeline(retriever *Retriever, generator Generator, topK int, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		retriever: retriever,
		generator: generator,
		topK:      topK,
		logger:    logger,
	}
}

// Answer runs retrieval and grounded generation for one question. Sources
// are derived from the chunks actually placed into the prompt, never from
// generator output. A generator failure is returned as-is; no answer is
// synthesized on error.
func (p *Pipeline) Answer(ctx context.Context, question string) (*entity.AnswerResult, error) {
	hits, err := p.retriever.Retrieve(ctx, question, p.topK)
	if err != nil {
		return nil, err
	}

	prompt := BuildPrompt(hits, question)

	answer, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	sources := collectSources(hits)

	ctxzap.Info(ctx, "answer generated",
		zap.Int("hit_count", len(hits)),
		zap.Int("source_count", len(sources)),
		zap.Int("answer_length", len(answer)),
	)

	return &entity.AnswerResult{Answer: answer, Sources: sources}, nil
}

// BuildPrompt fills the fixed template with the chunk texts (in retrieval
// order) and the verbatim question.
func BuildPrompt(hits []entity.RetrievalHit, question string) string {
	texts := make([]string, 0, len(hits))
	for _, hit := range hits {
		texts = append(texts, hit.Chunk.Text)
	}
	return fmt.Sprintf(promptTemplate, strings.Join(texts, "\n\n"), question)
}

// collectSources deduplicates the source identifiers of the retrieved
// chunks. Order follows first appearance but is not part of the contract.
func collectSources(hits []entity.RetrievalHit) []string {
	seen := make(map[string]struct{}, len(hits))
	sources := make([]string, 0, len(hits))
	for _, hit := range hits {
		if _, ok := seen[hit.Chunk.Source]; ok {
			continue
		}
		seen[hit.Chunk.Source] = struct{}{}
		sources = append(sources, hit.Chunk.Source)
	}
	return sources
}
