package ingest

import (
	"context"

	"github.com/aiwb/chatbot-backend/internal/entity"
)

type VectorStore interface {
	Upsert(ctx context.Context, records []entity.VectorRecord) (int, error)
	DeleteByFilter(ctx context.Context, field, value string) error
	Enabled() bool
}

type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Enabled() bool
}

type Extractor interface {
	Extract(content []byte, filename string) (*entity.ExtractedDocument, error)
}

type Chunker interface {
	ChunkDocument(doc *entity.ExtractedDocument, businessID, documentID string) []entity.Chunk
}

type Validator interface {
	ValidateUpload(req *entity.UploadRequest) error
}
