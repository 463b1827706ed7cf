package query

import (
	"context"

	"github.com/aiwb/chatbot-backend/internal/entity"
)

type QueryUsecase interface {
	Answer(ctx context.Context, req *entity.QueryRequest) (*entity.QueryResult, error)
	DeleteConversation(ctx context.Context, conversationID string) error
	Health(ctx context.Context) *entity.HealthResponse
}
