// Package chat implements the top-level question dispatcher: trigger rules
// first, retrieval-augmented answering otherwise.
package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/codeware/chatbot-backend/internal/entity"
	"github.com/codeware/chatbot-backend/internal/ruleflow"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// ChatUsecase dispatches one question to exactly one of two branches:
// rule-based trigger execution or the generative answering pipeline. It
// holds no per-request state; all shared resources are read-only after
// construction.
type ChatUsecase struct {
	matcher     TriggerMatcher
	answerer    Answerer
	triggerConn TriggerConnector
	answerCache *gocache.Cache
	logger      *zap.Logger
}

// NewUsecase creates a new chat use case. cacheTTL of 0 disables the
// answer cache for the generative branch.
func NewUsecase(
	matcher TriggerMatcher,
	answerer Answerer,
	triggerConn TriggerConnector,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *ChatUsecase {
	var answerCache *gocache.Cache
	if cacheTTL > 0 {
		answerCache = gocache.New(cacheTTL, 2*cacheTTL)
	}

	return &ChatUsecase{
		matcher:     matcher,
		answerer:    answerer,
		triggerConn: triggerConn,
		answerCache: answerCache,
		logger:      logger,
	}
}

// Ask answers one question. Upstream failures on either branch are
// returned to the caller; no fabricated answer is ever produced.
func (uc *ChatUsecase) Ask(ctx context.Context, userID, question string) (*entity.ChatResponse, error) {
	if match := uc.matcher.Check(question); match != nil {
		return uc.executeTrigger(ctx, userID, match)
	}
	return uc.answerWithRAG(ctx, question)
}

func (uc *ChatUsecase) executeTrigger(ctx context.Context, userID string, match *entity.TriggerMatch) (*entity.ChatResponse, error) {
	ctxzap.Info(ctx, "trigger rule fired",
		zap.String("trigger_id", match.TriggerID),
		zap.String("matched_keyword", match.MatchedKeyword),
	)

	message, err := uc.triggerConn.Execute(ctx, userID, match.TriggerID)
	if err != nil {
		return nil, fmt.Errorf("trigger execution: %w", err)
	}

	return &entity.ChatResponse{
		Triggered:      true,
		TriggerID:      match.TriggerID,
		MatchedKeyword: match.MatchedKeyword,
		Answer:         message,
	}, nil
}

func (uc *ChatUsecase) answerWithRAG(ctx context.Context, question string) (*entity.ChatResponse, error) {
	cacheKey := ruleflow.Normalize(question)

	if uc.answerCache != nil {
		if cached, ok := uc.answerCache.Get(cacheKey); ok {
			result := cached.(*entity.AnswerResult)
			ctxzap.Debug(ctx, "answer served from cache")
			return ragResponse(result), nil
		}
	}

	result, err := uc.answerer.Answer(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("answer question: %w", err)
	}

	if uc.answerCache != nil {
		uc.answerCache.SetDefault(cacheKey, result)
	}

	return ragResponse(result), nil
}

func ragResponse(result *entity.AnswerResult) *entity.ChatResponse {
	sources := result.Sources
	if sources == nil {
		sources = []string{}
	}
	return &entity.ChatResponse{
		Triggered: false,
		Answer:    result.Answer,
		Sources:   sources,
	}
}
