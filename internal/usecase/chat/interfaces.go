package chat

import (
	"context"

	"github.com/codeware/chatbot-backend/internal/entity"
)

// TriggerMatcher classifies a question against the configured keyword
// rules. Nil means no rule fired.
type TriggerMatcher interface {
	Check(question string) *entity.TriggerMatch
}

// Answerer produces a grounded answer with cited sources for a question
// that did not fire a trigger.
type Answerer interface {
	Answer(ctx context.Context, question string) (*entity.AnswerResult, error)
}

// TriggerConnector executes a fired trigger against the external workflow
// service and returns its message.
type TriggerConnector interface {
	Execute(ctx context.Context, userID, triggerID string) (string, error)
}
