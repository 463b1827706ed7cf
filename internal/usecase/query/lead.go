package query

import (
	"context"
	"strings"

	"github.com/aiwb/chatbot-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const leadClassifierPrompt = `You classify customer messages by commercial intent. A message is a lead when it expresses interest in buying, pricing, subscribing, or booking a demo of our product or services.

Respond with exactly one word: lead or not_lead.`

const leadMaxTokens = 10

// ClassifyLead issues a single deterministic classification call. It only
// annotates the response: any failure degrades to false and is never
// surfaced to the caller.
func (uc *QueryUsecase) ClassifyLead(ctx context.Context, message string) bool {
	if !uc.llm.Enabled() {
		return false
	}

	messages := []entity.ChatMessage{
		{Role: entity.RoleSystem, Content: leadClassifierPrompt},
		{Role: entity.RoleUser, Content: message},
	}

	label, err := uc.llm.Complete(ctx, messages, 0, leadMaxTokens)
	if err != nil {
		ctxzap.Warn(ctx, "lead classification failed", zap.Error(err))
		return false
	}

	return strings.EqualFold(strings.TrimSpace(label), "lead")
}
