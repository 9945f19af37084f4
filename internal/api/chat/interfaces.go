package chat

import (
	"context"

	"github.com/codeware/chatbot-backend/internal/entity"
)

// ChatUsecase dispatches one question and produces the chat response.
type ChatUsecase interface {
	Ask(ctx context.Context, userID, question string) (*entity.ChatResponse, error)
}
