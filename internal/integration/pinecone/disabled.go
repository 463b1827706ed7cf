package pinecone

import (
	"context"

	"github.com/aiwb/chatbot-backend/internal/entity"
)

// DisabledConnector stands in when Pinecone credentials are absent. Every
// call reports the configuration gap instead of failing on a nil reference.
type DisabledConnector struct{}

func NewDisabledConnector() *DisabledConnector { return &DisabledConnector{} }

func (d *DisabledConnector) Enabled() bool { return false }

func (d *DisabledConnector) Upsert(ctx context.Context, records []entity.VectorRecord) (int, error) {
	return 0, entity.ErrVectorStoreDisabled
}

func (d *DisabledConnector) Query(ctx context.Context, vector []float32, topK int, filter map[string]any) ([]entity.ScoredChunk, error) {
	return nil, entity.ErrVectorStoreDisabled
}

func (d *DisabledConnector) DeleteByFilter(ctx context.Context, field, value string) error {
	return entity.ErrVectorStoreDisabled
}

func (d *DisabledConnector) Stats(ctx context.Context) (*entity.IndexStats, error) {
	return nil, entity.ErrVectorStoreDisabled
}
