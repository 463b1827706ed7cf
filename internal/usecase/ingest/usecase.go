package ingest

import (
	"context"
	"fmt"

	"github.com/aiwb/chatbot-backend/internal/entity"
	"github.com/aiwb/chatbot-backend/internal/extractor"
	"github.com/aiwb/chatbot-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// IngestUsecase implements the document ingestion pipeline:
// validate, extract, chunk, embed, upsert, record.
type IngestUsecase struct {
	extractor Extractor
	chunker   Chunker
	embedder  Embedder
	vectors   VectorStore
	registry  repository.DocumentRepository
	validator Validator
	logger    *zap.Logger
}

// NewUsecase creates a new ingest use case
func NewUsecase(
	ext Extractor,
	chunker Chunker,
	embedder Embedder,
	vectors VectorStore,
	registry repository.DocumentRepository,
	validator Validator,
	logger *zap.Logger,
) *IngestUsecase {
	return &IngestUsecase{
		extractor: ext,
		chunker:   chunker,
		embedder:  embedder,
		vectors:   vectors,
		registry:  registry,
		validator: validator,
		logger:    logger,
	}
}

// Upload processes one uploaded document. Extraction failures abort the
// request; vector-storage failures do not, they are reported in the
// vector_storage block so the caller can see a partial ingestion.
func (uc *IngestUsecase) Upload(ctx context.Context, req *entity.UploadRequest) (*entity.UploadResponse, error) {
	if err := uc.validator.ValidateUpload(req); err != nil {
		return nil, err
	}

	if req.DocumentID == "" {
		req.DocumentID = uuid.New().String()
	}

	doc, err := uc.extractor.Extract(req.Content, req.Filename)
	if err != nil {
		return nil, fmt.Errorf("extract document: %w", err)
	}

	summary := extractor.Summarize(doc)
	if !summary.HasContent {
		return nil, entity.ErrEmptyDocument
	}

	chunks := uc.chunker.ChunkDocument(doc, req.BusinessID, req.DocumentID)

	ctxzap.Info(ctx, "document extracted",
		zap.String("business_id", req.BusinessID),
		zap.String("document_id", req.DocumentID),
		zap.Int("total_pages", doc.TotalPages),
		zap.Int("chunks", len(chunks)),
	)

	report := uc.storeChunks(ctx, chunks)

	uc.recordDocument(ctx, req, doc, len(chunks))

	return &entity.UploadResponse{
		Message:         "Document processed successfully",
		BusinessID:      req.BusinessID,
		DocumentID:      req.DocumentID,
		Filename:        req.Filename,
		FileSize:        len(req.Content),
		DocumentSummary: summary,
		ExtractedContent: entity.ExtractedContentStats{
			TotalPages: doc.TotalPages,
			WordCount:  summary.WordCount,
			CharCount:  summary.CharCount,
			Preview:    summary.Preview,
		},
		VectorStorage: report,
	}, nil
}

// storeChunks embeds and upserts chunks, collecting the outcome into a
// report instead of failing the upload. Ingestion is not atomic: chunks
// can be created without being stored, and the report says why.
func (uc *IngestUsecase) storeChunks(ctx context.Context, chunks []entity.Chunk) entity.VectorStorageReport {
	report := entity.VectorStorageReport{ChunksCreated: len(chunks)}

	if !uc.vectors.Enabled() || !uc.embedder.Enabled() {
		return report
	}
	report.Enabled = true

	if len(chunks) == 0 {
		return report
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := uc.embedder.Embed(ctx, texts)
	if err != nil {
		ctxzap.Error(ctx, "failed to embed chunks", zap.Error(err))
		report.Error = fmt.Sprintf("embedding failed: %v", err)
		return report
	}

	records := make([]entity.VectorRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = entity.NewVectorRecord(chunk, vectors[i])
	}

	stored, err := uc.vectors.Upsert(ctx, records)
	if err != nil {
		ctxzap.Error(ctx, "failed to store vectors", zap.Error(err))
		report.Error = fmt.Sprintf("vector storage failed: %v", err)
		return report
	}

	report.ChunksStored = stored
	return report
}

// recordDocument writes the registry row; failures are logged, the upload
// already succeeded from the caller's point of view.
func (uc *IngestUsecase) recordDocument(ctx context.Context, req *entity.UploadRequest, doc *entity.ExtractedDocument, chunkCount int) {
	if !uc.registry.Enabled() {
		return
	}

	_, err := uc.registry.RecordDocument(ctx, entity.DocumentRecord{
		BusinessID: req.BusinessID,
		DocumentID: req.DocumentID,
		Filename:   req.Filename,
		TotalPages: doc.TotalPages,
		ChunkCount: chunkCount,
	})
	if err != nil {
		ctxzap.Error(ctx, "failed to record document", zap.Error(err))
	}
}

// DeleteDocument removes every vector belonging to one document, then the
// registry row if a registry is configured.
func (uc *IngestUsecase) DeleteDocument(ctx context.Context, documentID string) error {
	if err := uc.vectors.DeleteByFilter(ctx, "document_id", documentID); err != nil {
		return fmt.Errorf("delete document vectors: %w", err)
	}

	if uc.registry.Enabled() {
		if err := uc.registry.DeleteByDocumentID(ctx, documentID); err != nil && !repository.IsNotFound(err) {
			ctxzap.Error(ctx, "failed to delete registry row", zap.Error(err))
		}
	}

	ctxzap.Info(ctx, "document deleted", zap.String("document_id", documentID))
	return nil
}

// ClearBusiness removes every vector belonging to one tenant.
func (uc *IngestUsecase) ClearBusiness(ctx context.Context, businessID string) error {
	if err := uc.vectors.DeleteByFilter(ctx, "business_id", businessID); err != nil {
		return fmt.Errorf("clear business vectors: %w", err)
	}

	if uc.registry.Enabled() {
		if err := uc.registry.DeleteByBusinessID(ctx, businessID); err != nil {
			ctxzap.Error(ctx, "failed to clear registry rows", zap.Error(err))
		}
	}

	ctxzap.Info(ctx, "business data cleared", zap.String("business_id", businessID))
	return nil
}

// ListDocuments returns registry rows for one tenant. Requires a configured
// registry; without one it returns entity.ErrRegistryDisabled.
func (uc *IngestUsecase) ListDocuments(ctx context.Context, businessID string) ([]*entity.DocumentRecord, error) {
	return uc.registry.ListByBusiness(ctx, businessID)
}
