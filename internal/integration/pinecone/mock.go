package pinecone

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/aiwb/chatbot-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector is an in-memory vector store with cosine scoring. It backs
// ENABLE_MOCKS runs and the usecase tests.
type MockConnector struct {
	logger *zap.Logger

	mu      sync.RWMutex
	records map[string]entity.VectorRecord
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger:  logger,
		records: make(map[string]entity.VectorRecord),
	}
}

func (m *MockConnector) Enabled() bool { return true }

func (m *MockConnector) Upsert(ctx context.Context, records []entity.VectorRecord) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rec := range records {
		m.records[rec.ID] = rec
	}

	ctxzap.Info(ctx, "[MOCK] upserted vectors", zap.Int("count", len(records)))
	return len(records), nil
}

func (m *MockConnector) Query(ctx context.Context, vector []float32, topK int, filter map[string]any) ([]entity.ScoredChunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []entity.ScoredChunk
	for _, rec := range m.records {
		if !matchesFilter(rec.Metadata, filter) {
			continue
		}
		results = append(results, entity.ScoredChunk{
			ID:         rec.ID,
			Score:      cosine(vector, rec.Values),
			Text:       rec.Metadata.Text,
			Filename:   rec.Metadata.Filename,
			PageNumber: rec.Metadata.PageNumber,
			ChunkIndex: rec.Metadata.ChunkIndex,
			BusinessID: rec.Metadata.BusinessID,
		})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}

	return results, nil
}

func (m *MockConnector) DeleteByFilter(ctx context.Context, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, rec := range m.records {
		if metadataField(rec.Metadata, field) == value {
			delete(m.records, id)
		}
	}

	return nil
}

func (m *MockConnector) Stats(ctx context.Context) (*entity.IndexStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dimension := 0
	for _, rec := range m.records {
		dimension = len(rec.Values)
		break
	}

	return &entity.IndexStats{
		TotalVectorCount: len(m.records),
		Dimension:        dimension,
	}, nil
}

func matchesFilter(meta entity.VectorMetadata, filter map[string]any) bool {
	for field, cond := range filter {
		want := ""
		switch c := cond.(type) {
		case map[string]any:
			if eq, ok := c["$eq"].(string); ok {
				want = eq
			}
		case string:
			want = c
		}
		if metadataField(meta, field) != want {
			return false
		}
	}
	return true
}

func metadataField(meta entity.VectorMetadata, field string) string {
	switch field {
	case "business_id":
		return meta.BusinessID
	case "document_id":
		return meta.DocumentID
	case "filename":
		return meta.Filename
	default:
		return ""
	}
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
