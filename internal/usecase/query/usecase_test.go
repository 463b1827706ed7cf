package query

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aiwb/chatbot-backend/internal/config"
	"github.com/aiwb/chatbot-backend/internal/conversation"
	"github.com/aiwb/chatbot-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubLLM struct {
	enabled     bool
	embedErr    error
	completeErr error
	answer      string
	labels      map[string]string

	gotMessages [][]entity.ChatMessage
}

func (s *stubLLM) Enabled() bool { return s.enabled }

func (s *stubLLM) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if s.embedErr != nil {
		return nil, s.embedErr
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

func (s *stubLLM) Complete(_ context.Context, messages []entity.ChatMessage, _ float64, _ int) (string, error) {
	if s.completeErr != nil {
		return "", s.completeErr
	}
	s.gotMessages = append(s.gotMessages, messages)
	if strings.Contains(messages[0].Content, "not_lead") {
		label, ok := s.labels[messages[len(messages)-1].Content]
		if !ok {
			return "not_lead", nil
		}
		return label, nil
	}
	return s.answer, nil
}

type stubIndex struct {
	enabled  bool
	queryErr error
	filtered []entity.ScoredChunk
	all      []entity.ScoredChunk
}

func (s *stubIndex) Enabled() bool { return s.enabled }

func (s *stubIndex) Stats(context.Context) (*entity.IndexStats, error) {
	return &entity.IndexStats{}, nil
}

func (s *stubIndex) Query(_ context.Context, _ []float32, _ int, filter map[string]any) ([]entity.ScoredChunk, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	if filter == nil {
		return s.all, nil
	}
	return s.filtered, nil
}

func newTestUsecase(llm *stubLLM, index *stubIndex) *QueryUsecase {
	return NewUsecase(
		llm,
		index,
		conversation.NewCache(10, 0),
		config.OpenAIConfig{Temperature: 0.1, MaxTokens: 1000},
		zap.NewNop(),
	)
}

func TestAnswerRejectsDisabledCollaborators(t *testing.T) {
	uc := newTestUsecase(&stubLLM{enabled: true}, &stubIndex{enabled: false})
	_, err := uc.Answer(context.Background(), &entity.QueryRequest{Query: "q", BusinessID: "b"})
	require.ErrorIs(t, err, entity.ErrVectorStoreDisabled)

	uc = newTestUsecase(&stubLLM{enabled: false}, &stubIndex{enabled: true})
	_, err = uc.Answer(context.Background(), &entity.QueryRequest{Query: "q", BusinessID: "b"})
	require.ErrorIs(t, err, entity.ErrLLMDisabled)
}

func TestAnswerPipeline(t *testing.T) {
	llm := &stubLLM{enabled: true, answer: "grounded answer"}
	index := &stubIndex{
		enabled: true,
		filtered: []entity.ScoredChunk{
			{Text: "chunk one", Filename: "a.pdf", PageNumber: 1, ChunkIndex: 0, Score: 0.987654},
			{Text: "chunk two", Filename: "a.pdf", PageNumber: 2, ChunkIndex: 1, Score: 0.5},
		},
	}
	uc := newTestUsecase(llm, index)

	result, err := uc.Answer(context.Background(), &entity.QueryRequest{
		Query:          "what do we sell",
		BusinessID:     "acme",
		ConversationID: "conv-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "grounded answer", result.Answer)
	assert.Equal(t, 2, result.ChunksUsed)
	require.Len(t, result.Sources, 2)
	assert.Equal(t, 0.9877, result.Sources[0].SimilarityScore)
	assert.Equal(t, "a.pdf", result.Sources[0].Filename)

	// first recorded call is the answer completion
	messages := llm.gotMessages[0]
	require.GreaterOrEqual(t, len(messages), 2)
	assert.Equal(t, entity.RoleSystem, messages[0].Role)
	last := messages[len(messages)-1]
	assert.Equal(t, entity.RoleUser, last.Role)
	assert.Contains(t, last.Content, "[Document 1]: chunk one")
	assert.Contains(t, last.Content, "[Document 2]: chunk two")
	assert.Contains(t, last.Content, "Question: what do we sell")
}

func TestAnswerNewConversationRecordsTurn(t *testing.T) {
	llm := &stubLLM{enabled: true, answer: "hello there"}
	index := &stubIndex{enabled: true, filtered: []entity.ScoredChunk{{Text: "x"}}}
	cache := conversation.NewCache(10, 0)
	uc := NewUsecase(llm, index, cache, config.OpenAIConfig{}, zap.NewNop())

	_, err := uc.Answer(context.Background(), &entity.QueryRequest{
		Query: "hi", BusinessID: "b", ConversationID: "fresh",
	})
	require.NoError(t, err)

	history := cache.History("fresh")
	require.Len(t, history, 2)
	assert.Equal(t, entity.RoleUser, history[0].Role)
	assert.Equal(t, "hi", history[0].Content)
	assert.Equal(t, entity.RoleAssistant, history[1].Role)
	assert.Equal(t, "hello there", history[1].Content)
}

func TestAnswerHistorySplicedBetweenSystemAndUser(t *testing.T) {
	llm := &stubLLM{enabled: true, answer: "second answer"}
	index := &stubIndex{enabled: true, filtered: []entity.ScoredChunk{{Text: "x"}}}
	cache := conversation.NewCache(10, 0)
	cache.AppendTurn("conv", "earlier question", "earlier answer")
	uc := NewUsecase(llm, index, cache, config.OpenAIConfig{}, zap.NewNop())

	_, err := uc.Answer(context.Background(), &entity.QueryRequest{
		Query: "followup", BusinessID: "b", ConversationID: "conv",
	})
	require.NoError(t, err)

	messages := llm.gotMessages[0]
	require.Len(t, messages, 4)
	assert.Equal(t, entity.RoleSystem, messages[0].Role)
	assert.Equal(t, "earlier question", messages[1].Content)
	assert.Equal(t, "earlier answer", messages[2].Content)
	assert.Equal(t, entity.RoleUser, messages[3].Role)
}

func TestAnswerNoResultsListsAvailableBusinessIDs(t *testing.T) {
	llm := &stubLLM{enabled: true}
	index := &stubIndex{
		enabled:  true,
		filtered: nil,
		all: []entity.ScoredChunk{
			{Text: "x", BusinessID: "other-tenant"},
			{Text: "y", BusinessID: "other-tenant"},
		},
	}
	uc := newTestUsecase(llm, index)

	result, err := uc.Answer(context.Background(), &entity.QueryRequest{Query: "q", BusinessID: "missing"})
	require.NoError(t, err)

	assert.Zero(t, result.ChunksUsed)
	assert.Empty(t, result.Sources)
	assert.Contains(t, result.Answer, "No documents found for business ID 'missing'")
	assert.Contains(t, result.Answer, "other-tenant")
}

func TestAnswerEmptyIndex(t *testing.T) {
	uc := newTestUsecase(&stubLLM{enabled: true}, &stubIndex{enabled: true})

	result, err := uc.Answer(context.Background(), &entity.QueryRequest{Query: "q", BusinessID: "b"})
	require.NoError(t, err)
	assert.Contains(t, result.Answer, "No documents have been uploaded")
}

func TestAnswerRetrievalFailureDegradesToEmpty(t *testing.T) {
	index := &stubIndex{enabled: true, queryErr: errors.New("index is down")}
	uc := newTestUsecase(&stubLLM{enabled: true}, index)

	result, err := uc.Answer(context.Background(), &entity.QueryRequest{Query: "q", BusinessID: "b"})
	require.NoError(t, err)
	assert.Zero(t, result.ChunksUsed)
	assert.Contains(t, result.Answer, "No documents have been uploaded")
}

func TestClassifyLead(t *testing.T) {
	llm := &stubLLM{
		enabled: true,
		labels: map[string]string{
			"How much does this cost per month?": "lead",
			"hello":                              "not_lead",
			"shouty":                             " LEAD \n",
		},
	}
	uc := newTestUsecase(llm, &stubIndex{enabled: true})

	assert.True(t, uc.ClassifyLead(context.Background(), "How much does this cost per month?"))
	assert.False(t, uc.ClassifyLead(context.Background(), "hello"))
	assert.True(t, uc.ClassifyLead(context.Background(), "shouty"))
}

func TestClassifyLeadFailClosed(t *testing.T) {
	uc := newTestUsecase(&stubLLM{enabled: true, completeErr: errors.New("api down")}, &stubIndex{enabled: true})
	assert.False(t, uc.ClassifyLead(context.Background(), "How much does this cost?"))

	uc = newTestUsecase(&stubLLM{enabled: false}, &stubIndex{enabled: true})
	assert.False(t, uc.ClassifyLead(context.Background(), "How much does this cost?"))
}

func TestDeleteConversation(t *testing.T) {
	cache := conversation.NewCache(10, 0)
	cache.AppendTurn("known", "q", "a")
	uc := NewUsecase(&stubLLM{enabled: true}, &stubIndex{enabled: true}, cache, config.OpenAIConfig{}, zap.NewNop())

	require.NoError(t, uc.DeleteConversation(context.Background(), "known"))
	require.ErrorIs(t, uc.DeleteConversation(context.Background(), "unknown"), entity.ErrConversationNotFound)
}

func TestHealthReportsDisabledCollaborators(t *testing.T) {
	uc := newTestUsecase(&stubLLM{enabled: false}, &stubIndex{enabled: false})
	health := uc.Health(context.Background())

	assert.Equal(t, entity.HealthHealthy, health.Status)
	assert.Equal(t, entity.HealthDisabled, health.Services["pinecone"])
	assert.Equal(t, entity.HealthDisabled, health.Services["openai"])
}
