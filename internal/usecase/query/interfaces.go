package query

import (
	"context"

	"github.com/aiwb/chatbot-backend/internal/entity"
)

type LLM interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Complete(ctx context.Context, messages []entity.ChatMessage, temperature float64, maxTokens int) (string, error)
	Enabled() bool
}

type VectorIndex interface {
	Query(ctx context.Context, vector []float32, topK int, filter map[string]any) ([]entity.ScoredChunk, error)
	Stats(ctx context.Context) (*entity.IndexStats, error)
	Enabled() bool
}

type ConversationStore interface {
	Acquire(conversationID string) func()
	History(conversationID string) []entity.ChatMessage
	AppendTurn(conversationID, userContent, assistantContent string)
	Delete(conversationID string) error
}
