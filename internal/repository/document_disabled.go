package repository

import (
	"context"

	"github.com/aiwb/chatbot-backend/internal/entity"
)

var _ DocumentRepository = DisabledRepository{}

// DisabledRepository stands in when no database is configured. Ingestion still
// works; only the registry bookkeeping is unavailable.
type DisabledRepository struct{}

func (DisabledRepository) Enabled() bool { return false }

func (DisabledRepository) Ping(context.Context) error { return entity.ErrRegistryDisabled }

func (DisabledRepository) RecordDocument(context.Context, entity.DocumentRecord) (*entity.DocumentRecord, error) {
	return nil, entity.ErrRegistryDisabled
}

func (DisabledRepository) ListByBusiness(context.Context, string) ([]*entity.DocumentRecord, error) {
	return nil, entity.ErrRegistryDisabled
}

func (DisabledRepository) DeleteByDocumentID(context.Context, string) error {
	return entity.ErrRegistryDisabled
}

func (DisabledRepository) DeleteByBusinessID(context.Context, string) error {
	return entity.ErrRegistryDisabled
}
