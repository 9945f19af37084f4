package chat

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/codeware/chatbot-backend/internal/entity"
	"github.com/codeware/chatbot-backend/internal/pkg/logger"
	"github.com/codeware/chatbot-backend/internal/pkg/response"
	"github.com/codeware/chatbot-backend/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase   ChatUsecase
	validator *validator.Validator
}

func NewHandler(usecase ChatUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
	}
}

// Chat handles POST /chat - classify and answer one question
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Chat")

	var req entity.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.ValidateChat(&req); err != nil {
		ctxzap.Error(ctx, "failed to validate request", zap.Error(err))
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx = logger.AddFields(ctx, zap.String("user_id", req.UserID))
	ctxzap.Info(ctx, "handling question", zap.Int("question_length", len(req.Question)))

	resp, err := h.usecase.Ask(ctx, req.UserID, req.Question)
	if err != nil {
		// Upstream failure: surface it, never synthesize an answer.
		ctxzap.Error(ctx, "failed to answer question", zap.Error(err))
		response.Error(w, http.StatusBadGateway, err.Error())
		return
	}

	ctxzap.Info(ctx, "question handled",
		zap.Bool("triggered", resp.Triggered),
		zap.Int("source_count", len(resp.Sources)),
	)

	response.Success(w, resp)
}

// ExecuteTrigger handles POST /chatbot - simulated external workflow
// endpoint; real deployments replace it with an actual workflow trigger.
func (h *Handler) ExecuteTrigger(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ExecuteTrigger")

	var req entity.TriggerExecRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.ValidateTriggerExec(&req); err != nil {
		ctxzap.Error(ctx, "failed to validate request", zap.Error(err))
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctxzap.Info(ctx, "simulating trigger workflow", zap.String("trigger_id", req.TriggerID))

	response.Success(w, entity.TriggerExecResponse{
		UserID:    req.UserID,
		TriggerID: req.TriggerID,
		Message:   fmt.Sprintf("Simulated external API response for trigger_id %s", req.TriggerID),
	})
}
