package query

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aiwb/chatbot-backend/internal/entity"
	"github.com/aiwb/chatbot-backend/internal/pkg/logger"
	"github.com/aiwb/chatbot-backend/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase QueryUsecase
}

func NewHandler(usecase QueryUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// Query handles POST /query
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Query")

	var req entity.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Warn(ctx, "failed to decode query request", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Query == "" {
		response.Error(w, http.StatusBadRequest, "query is required")
		return
	}
	if req.BusinessID == "" {
		response.Error(w, http.StatusBadRequest, "businessId is required")
		return
	}

	ctx = logger.AddFields(ctx,
		zap.String("business_id", req.BusinessID),
		zap.String("conversation_id", req.ConversationID),
	)

	result, err := h.usecase.Answer(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, &entity.QueryResponse{
		Query:          req.Query,
		BusinessID:     req.BusinessID,
		Answer:         result.Answer,
		Sources:        result.Sources,
		ChunksUsed:     result.ChunksUsed,
		IsLead:         result.IsLead,
		ConversationID: result.ConversationID,
	})
}

// DeleteConversation handles DELETE /conversation/{conversation_id}
func (h *Handler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conversationID := chi.URLParam(r, "conversation_id")

	ctx = logger.AddFields(ctx,
		zap.String("conversation_id", conversationID),
		zap.String("action", "DeleteConversation"),
	)

	if conversationID == "" {
		response.Error(w, http.StatusBadRequest, "conversation id is required")
		return
	}

	if err := h.usecase.DeleteConversation(ctx, conversationID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, map[string]string{
		"message":         "Conversation deleted successfully",
		"conversation_id": conversationID,
	})
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.usecase.Health(r.Context()))
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrConversationNotFound):
		response.NotFound(w, "conversation not found")
	case errors.Is(err, entity.ErrVectorStoreDisabled),
		errors.Is(err, entity.ErrLLMDisabled):
		ctxzap.Warn(ctx, "capability disabled", zap.Error(err))
		response.ServiceUnavailable(w, err.Error())
	case errors.Is(err, entity.ErrInvalidParameter), errors.Is(err, entity.ErrMissingField):
		response.Error(w, http.StatusBadRequest, err.Error())
	default:
		ctxzap.Error(ctx, "internal error", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
