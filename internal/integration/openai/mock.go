package openai

import (
	"context"
	"hash/fnv"
	"strings"

	"github.com/aiwb/chatbot-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockDimension is the embedding dimension produced by the mock connector.
const MockDimension = 16

// MockConnector is a deterministic stand-in for the OpenAI connector, wired
// in by ENABLE_MOCKS and reused by the usecase tests.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{logger: logger}
}

func (m *MockConnector) Enabled() bool { return true }

// Embed maps each text to a deterministic pseudo-random vector, so equal
// texts always land on equal vectors and retrieval stays reproducible.
func (m *MockConnector) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	ctxzap.Info(ctx, "[MOCK] generating embeddings", zap.Int("count", len(texts)))

	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		h := fnv.New64a()
		h.Write([]byte(strings.ToLower(strings.TrimSpace(text))))
		seed := h.Sum64()

		vec := make([]float32, MockDimension)
		for i := range vec {
			seed = seed*6364136223846793005 + 1442695040888963407
			vec[i] = float32(int64(seed>>33))/float32(1<<31) + 1e-3
		}
		out = append(out, vec)
	}

	return out, nil
}

var leadKeywords = []string{
	"cost", "price", "pricing", "buy", "purchase", "subscribe",
	"subscription", "quote", "demo", "trial", "plan", "per month",
}

// Complete recognizes the lead-classification prompt and answers with its
// closed label set; any other prompt gets a canned grounded answer.
func (m *MockConnector) Complete(ctx context.Context, messages []entity.ChatMessage, temperature float64, maxTokens int) (string, error) {
	ctxzap.Info(ctx, "[MOCK] chat completion", zap.Int("messages", len(messages)))

	if len(messages) == 0 {
		return "", nil
	}

	if strings.Contains(messages[0].Content, "not_lead") {
		question := strings.ToLower(messages[len(messages)-1].Content)
		for _, kw := range leadKeywords {
			if strings.Contains(question, kw) {
				return "lead", nil
			}
		}
		return "not_lead", nil
	}

	return "Based on our documents, here is what I can tell you. [mock answer]", nil
}
