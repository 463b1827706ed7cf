package openai

import (
	"context"
	"fmt"

	"github.com/aiwb/chatbot-backend/internal/config"
	"github.com/aiwb/chatbot-backend/internal/entity"
	"github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// Connector wraps the OpenAI API for embeddings and chat completions.
type Connector struct {
	config config.OpenAIConfig
	llm    *openai.LLM
	logger *zap.Logger
}

func NewConnector(cfg config.OpenAIConfig, logger *zap.Logger) (*Connector, error) {
	llm, err := openai.New(
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.ChatModel),
		openai.WithEmbeddingModel(cfg.EmbeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("initialize openai client: %w", err)
	}

	return &Connector{
		config: cfg,
		llm:    llm,
		logger: logger,
	}, nil
}

func (c *Connector) Enabled() bool { return true }

// Embed generates one fixed-dimension vector per input text, order
// preserved, in a single batch call.
func (c *Connector) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var embeddings [][]float32
	err := retry.Do(func() error {
		out, err := c.llm.CreateEmbedding(ctx, texts)
		if err != nil {
			return err
		}
		embeddings = out
		return nil
	}, c.retryOptions(ctx)...)

	if err != nil {
		ctxzap.Error(ctx, "failed to generate embeddings", zap.Error(err))
		return nil, fmt.Errorf("generate embeddings: %w", err)
	}

	if len(embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d for %d texts", len(embeddings), len(texts))
	}

	ctxzap.Info(ctx, "generated embeddings",
		zap.Int("count", len(embeddings)),
		zap.String("model", c.config.EmbeddingModel),
	)

	return embeddings, nil
}

// Complete runs a chat completion over the ordered message sequence.
func (c *Connector) Complete(ctx context.Context, messages []entity.ChatMessage, temperature float64, maxTokens int) (string, error) {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		content = append(content, llms.TextParts(toRole(msg.Role), msg.Content))
	}

	var answer string
	err := retry.Do(func() error {
		resp, err := c.llm.GenerateContent(ctx, content,
			llms.WithTemperature(temperature),
			llms.WithMaxTokens(maxTokens),
		)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("completion returned no choices")
		}
		answer = resp.Choices[0].Content
		return nil
	}, c.retryOptions(ctx)...)

	if err != nil {
		ctxzap.Error(ctx, "chat completion failed", zap.Error(err))
		return "", fmt.Errorf("chat completion: %w", err)
	}

	return answer, nil
}

func (c *Connector) retryOptions(ctx context.Context) []retry.Option {
	return append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))
}

func toRole(role string) llms.ChatMessageType {
	switch role {
	case entity.RoleSystem:
		return llms.ChatMessageTypeSystem
	case entity.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
