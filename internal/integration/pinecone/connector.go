package pinecone

import (
	"context"
	"net/http"

	"github.com/aiwb/chatbot-backend/internal/config"
	"github.com/aiwb/chatbot-backend/internal/entity"
	"github.com/aiwb/chatbot-backend/internal/integration/common"
	pkghttp "github.com/aiwb/chatbot-backend/pkg/http"
	"github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Pinecone data-plane endpoints, served by the index host.
const (
	upsertEndpoint = "/vectors/upsert"
	queryEndpoint  = "/query"
	deleteEndpoint = "/vectors/delete"
	statsEndpoint  = "/describe_index_stats"
)

// Connector talks to one Pinecone index over its data-plane REST API.
type Connector struct {
	config    config.PineconeConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(cfg config.PineconeConfig, logger *zap.Logger) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(
			cfg.IndexHost,
			cfg.HTTPClientConfig,
			logger,
			pkghttp.WithAuthHeader("Api-Key", cfg.APIKey),
		),
		config: cfg,
		logger: logger,
	}
}

func (c *Connector) Enabled() bool { return true }

type upsertRequest struct {
	Vectors []entity.VectorRecord `json:"vectors"`
}

type upsertResponse struct {
	UpsertedCount int `json:"upsertedCount"`
}

// Upsert writes vector records; ids are deterministic, so re-upserting a
// chunk overwrites its record (last write wins).
func (c *Connector) Upsert(ctx context.Context, records []entity.VectorRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	ctxzap.Info(ctx, "upserting vectors", zap.Int("count", len(records)))

	var resp upsertResponse
	err := c.do(ctx, upsertEndpoint, &upsertRequest{Vectors: records}, &resp)
	if err != nil {
		ctxzap.Error(ctx, "failed to upsert vectors", zap.Error(err))
		return 0, err
	}

	return resp.UpsertedCount, nil
}

type queryRequest struct {
	Vector          []float32      `json:"vector"`
	TopK            int            `json:"topK"`
	Filter          map[string]any `json:"filter,omitempty"`
	IncludeMetadata bool           `json:"includeMetadata"`
}

type queryMatch struct {
	ID       string                `json:"id"`
	Score    float64               `json:"score"`
	Metadata entity.VectorMetadata `json:"metadata"`
}

type queryResponse struct {
	Matches []queryMatch `json:"matches"`
}

// Query runs a similarity search. A nil filter searches the whole index;
// passing entity.BusinessFilter restricts matches to one tenant.
func (c *Connector) Query(ctx context.Context, vector []float32, topK int, filter map[string]any) ([]entity.ScoredChunk, error) {
	req := &queryRequest{
		Vector:          vector,
		TopK:            topK,
		Filter:          filter,
		IncludeMetadata: true,
	}

	var resp queryResponse
	if err := c.do(ctx, queryEndpoint, req, &resp); err != nil {
		ctxzap.Error(ctx, "vector query failed", zap.Error(err))
		return nil, err
	}

	results := make([]entity.ScoredChunk, 0, len(resp.Matches))
	for _, match := range resp.Matches {
		results = append(results, entity.ScoredChunk{
			ID:         match.ID,
			Score:      match.Score,
			Text:       match.Metadata.Text,
			Filename:   match.Metadata.Filename,
			PageNumber: match.Metadata.PageNumber,
			ChunkIndex: match.Metadata.ChunkIndex,
			BusinessID: match.Metadata.BusinessID,
		})
	}

	ctxzap.Debug(ctx, "vector query done", zap.Int("matches", len(results)))
	return results, nil
}

type deleteRequest struct {
	Filter map[string]any `json:"filter"`
}

// DeleteByFilter removes every vector whose metadata field equals value.
func (c *Connector) DeleteByFilter(ctx context.Context, field, value string) error {
	ctxzap.Info(ctx, "deleting vectors", zap.String("field", field), zap.String("value", value))

	req := &deleteRequest{Filter: eqFilter(field, value)}
	if err := c.do(ctx, deleteEndpoint, req, nil); err != nil {
		ctxzap.Error(ctx, "failed to delete vectors", zap.Error(err))
		return err
	}

	return nil
}

type statsResponse struct {
	TotalVectorCount int     `json:"totalVectorCount"`
	Dimension        int     `json:"dimension"`
	IndexFullness    float64 `json:"indexFullness"`
}

// Stats reads the index statistics; the health endpoint uses it as a probe.
func (c *Connector) Stats(ctx context.Context) (*entity.IndexStats, error) {
	var resp statsResponse
	if err := c.do(ctx, statsEndpoint, struct{}{}, &resp); err != nil {
		return nil, err
	}

	return &entity.IndexStats{
		TotalVectorCount: resp.TotalVectorCount,
		Dimension:        resp.Dimension,
		IndexFullness:    resp.IndexFullness,
	}, nil
}

func (c *Connector) do(ctx context.Context, endpoint string, reqBody, respBody any) error {
	opts := append(
		c.config.Retry.ToRetryOptions(),
		retry.Context(ctx),
		retry.RetryIf(pkghttp.IsRetryable),
	)

	return retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, endpoint, reqBody, respBody)
	}, opts...)
}

func eqFilter(field, value string) map[string]any {
	return map[string]any{field: map[string]any{"$eq": value}}
}

// BusinessFilter builds the tenant-isolation filter used on every
// user-facing query.
func BusinessFilter(businessID string) map[string]any {
	return eqFilter("business_id", businessID)
}
