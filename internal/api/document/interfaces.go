package document

import (
	"context"

	"github.com/aiwb/chatbot-backend/internal/entity"
)

type IngestUsecase interface {
	Upload(ctx context.Context, req *entity.UploadRequest) (*entity.UploadResponse, error)
	DeleteDocument(ctx context.Context, documentID string) error
	ClearBusiness(ctx context.Context, businessID string) error
	ListDocuments(ctx context.Context, businessID string) ([]*entity.DocumentRecord, error)
}
