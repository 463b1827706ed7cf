package openai

import (
	"context"

	"github.com/aiwb/chatbot-backend/internal/entity"
)

// DisabledConnector stands in when no OpenAI API key is configured.
type DisabledConnector struct{}

func NewDisabledConnector() *DisabledConnector { return &DisabledConnector{} }

func (d *DisabledConnector) Enabled() bool { return false }

func (d *DisabledConnector) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, entity.ErrLLMDisabled
}

func (d *DisabledConnector) Complete(ctx context.Context, messages []entity.ChatMessage, temperature float64, maxTokens int) (string, error) {
	return "", entity.ErrLLMDisabled
}
