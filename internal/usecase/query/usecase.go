package query

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aiwb/chatbot-backend/internal/config"
	"github.com/aiwb/chatbot-backend/internal/entity"
	"github.com/aiwb/chatbot-backend/internal/integration/pinecone"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// QueryUsecase implements the retrieval-augmented answer pipeline
type QueryUsecase struct {
	llm           LLM
	vectors       VectorIndex
	conversations ConversationStore
	config        config.OpenAIConfig
	logger        *zap.Logger
}

// NewUsecase creates a new query use case
func NewUsecase(
	llm LLM,
	vectors VectorIndex,
	conversations ConversationStore,
	cfg config.OpenAIConfig,
	logger *zap.Logger,
) *QueryUsecase {
	return &QueryUsecase{
		llm:           llm,
		vectors:       vectors,
		conversations: conversations,
		config:        cfg,
		logger:        logger,
	}
}

// Answer runs the full query pipeline: retrieve, assemble context, read the
// conversation history, complete, write the turn back, classify the lead.
// Retrieval failures degrade to an empty result set; completion failures are
// returned to the caller.
func (uc *QueryUsecase) Answer(ctx context.Context, req *entity.QueryRequest) (*entity.QueryResult, error) {
	if !uc.vectors.Enabled() {
		return nil, entity.ErrVectorStoreDisabled
	}
	if !uc.llm.Enabled() {
		return nil, entity.ErrLLMDisabled
	}

	req.Normalize()

	chunks := uc.search(ctx, req.Query, pinecone.BusinessFilter(req.BusinessID), req.MaxChunks)

	ctxzap.Info(ctx, "retrieval done",
		zap.String("business_id", req.BusinessID),
		zap.Int("chunks", len(chunks)),
	)

	if len(chunks) == 0 {
		return uc.answerNoResults(ctx, req), nil
	}

	contextText, sources := buildContext(chunks)

	answer, err := uc.complete(ctx, req, contextText)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &entity.QueryResult{
		Answer:         answer,
		Sources:        sources,
		ChunksUsed:     len(chunks),
		IsLead:         uc.ClassifyLead(ctx, req.Query),
		ConversationID: req.ConversationID,
	}, nil
}

// complete assembles the message sequence and calls the model. When the
// request carries a conversation id, the read-complete-append sequence runs
// under that conversation's lock so concurrent turns cannot lose history.
func (uc *QueryUsecase) complete(ctx context.Context, req *entity.QueryRequest, contextText string) (string, error) {
	var history []entity.ChatMessage
	if req.ConversationID != "" {
		release := uc.conversations.Acquire(req.ConversationID)
		defer release()
		history = uc.conversations.History(req.ConversationID)
	}

	messages := buildMessages(history, contextText, req.Query)

	answer, err := uc.llm.Complete(ctx, messages, uc.config.Temperature, uc.config.MaxTokens)
	if err != nil {
		return "", err
	}

	if req.ConversationID != "" {
		uc.conversations.AppendTurn(req.ConversationID, req.Query, answer)
	}

	return answer, nil
}

// answerNoResults runs the diagnostic no-filter search so the caller can
// tell an empty index apart from a wrong business id.
func (uc *QueryUsecase) answerNoResults(ctx context.Context, req *entity.QueryRequest) *entity.QueryResult {
	result := &entity.QueryResult{
		Sources:        []entity.Source{},
		IsLead:         uc.ClassifyLead(ctx, req.Query),
		ConversationID: req.ConversationID,
	}

	all := uc.search(ctx, req.Query, nil, req.MaxChunks)
	if len(all) == 0 {
		result.Answer = "No documents have been uploaded to the system yet. Please upload documents first using the /upload endpoint."
		return result
	}

	businessIDs := distinctBusinessIDs(all)
	ctxzap.Info(ctx, "no chunks for business, index is not empty",
		zap.String("business_id", req.BusinessID),
		zap.Strings("available_business_ids", businessIDs),
	)

	result.Answer = fmt.Sprintf(
		"No documents found for business ID '%s'. Available business IDs in the system: [%s]",
		req.BusinessID, strings.Join(businessIDs, " "),
	)
	return result
}

// search embeds the query and runs the similarity search. Any failure is
// logged and degraded to an empty result set.
func (uc *QueryUsecase) search(ctx context.Context, text string, filter map[string]any, topK int) []entity.ScoredChunk {
	embeddings, err := uc.llm.Embed(ctx, []string{text})
	if err != nil {
		ctxzap.Error(ctx, "failed to embed query", zap.Error(err))
		return nil
	}

	chunks, err := uc.vectors.Query(ctx, embeddings[0], topK, filter)
	if err != nil {
		ctxzap.Error(ctx, "vector search failed", zap.Error(err))
		return nil
	}

	return chunks
}

// DeleteConversation removes one conversation's history.
func (uc *QueryUsecase) DeleteConversation(ctx context.Context, conversationID string) error {
	release := uc.conversations.Acquire(conversationID)
	defer release()

	if err := uc.conversations.Delete(conversationID); err != nil {
		return err
	}

	ctxzap.Info(ctx, "conversation deleted", zap.String("conversation_id", conversationID))
	return nil
}

// Health probes the collaborators for the health endpoint.
func (uc *QueryUsecase) Health(ctx context.Context) *entity.HealthResponse {
	services := map[string]string{
		"document_extractor": entity.HealthHealthy,
		"text_chunker":       entity.HealthHealthy,
	}

	switch {
	case !uc.vectors.Enabled():
		services["pinecone"] = entity.HealthDisabled
	default:
		if _, err := uc.vectors.Stats(ctx); err != nil {
			ctxzap.Error(ctx, "vector store health probe failed", zap.Error(err))
			services["pinecone"] = entity.HealthError
		} else {
			services["pinecone"] = entity.HealthHealthy
		}
	}

	if uc.llm.Enabled() {
		services["openai"] = entity.HealthHealthy
	} else {
		services["openai"] = entity.HealthDisabled
	}

	status := entity.HealthHealthy
	for _, s := range services {
		if s == entity.HealthError {
			status = entity.HealthError
			break
		}
	}

	return &entity.HealthResponse{Status: status, Services: services}
}

func distinctBusinessIDs(chunks []entity.ScoredChunk) []string {
	seen := make(map[string]struct{}, len(chunks))
	var ids []string
	for _, chunk := range chunks {
		id := chunk.BusinessID
		if id == "" {
			id = "unknown"
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
