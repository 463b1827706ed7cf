package document

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/aiwb/chatbot-backend/internal/config"
	"github.com/aiwb/chatbot-backend/internal/entity"
	"github.com/aiwb/chatbot-backend/internal/pkg/logger"
	"github.com/aiwb/chatbot-backend/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase IngestUsecase
	cfg     config.FileUploadConfig
}

func NewHandler(usecase IngestUsecase, cfg config.FileUploadConfig) *Handler {
	return &Handler{
		usecase: usecase,
		cfg:     cfg,
	}
}

// Upload handles POST /upload
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Upload")

	if err := r.ParseMultipartForm(h.cfg.MaxUploadSize); err != nil {
		ctxzap.Error(ctx, "failed to parse multipart form", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid form data or size too large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		ctxzap.Warn(ctx, "no file provided", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		ctxzap.Error(ctx, "failed to read uploaded file", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	req := &entity.UploadRequest{
		BusinessID: r.FormValue("businessId"),
		DocumentID: r.FormValue("documentId"),
		Filename:   header.Filename,
		Content:    content,
	}

	ctxzap.Info(ctx, "processing upload",
		zap.String("business_id", req.BusinessID),
		zap.String("filename", req.Filename),
		zap.Int("file_size", len(content)),
	)

	resp, err := h.usecase.Upload(ctx, req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "upload processed",
		zap.String("document_id", resp.DocumentID),
		zap.Int("chunks_created", resp.VectorStorage.ChunksCreated),
		zap.Int("chunks_stored", resp.VectorStorage.ChunksStored),
	)

	response.Success(w, resp)
}

// DeleteDocument handles DELETE /document/{document_id}
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	documentID := chi.URLParam(r, "document_id")

	ctx = logger.AddFields(ctx,
		zap.String("document_id", documentID),
		zap.String("action", "DeleteDocument"),
	)

	if documentID == "" {
		response.Error(w, http.StatusBadRequest, "document id is required")
		return
	}

	if err := h.usecase.DeleteDocument(ctx, documentID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, map[string]string{
		"message":     "Document deleted successfully",
		"document_id": documentID,
	})
}

// ClearBusiness handles DELETE /clear/{business_id}
func (h *Handler) ClearBusiness(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	businessID := chi.URLParam(r, "business_id")

	ctx = logger.AddFields(ctx,
		zap.String("business_id", businessID),
		zap.String("action", "ClearBusiness"),
	)

	if businessID == "" {
		response.Error(w, http.StatusBadRequest, "business id is required")
		return
	}

	if err := h.usecase.ClearBusiness(ctx, businessID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, map[string]string{
		"message":    "Business data cleared successfully",
		"businessId": businessID,
	})
}

// ListDocuments handles GET /documents/{business_id}
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	businessID := chi.URLParam(r, "business_id")

	ctx = logger.AddFields(ctx,
		zap.String("business_id", businessID),
		zap.String("action", "ListDocuments"),
	)

	records, err := h.usecase.ListDocuments(ctx, businessID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	if records == nil {
		records = []*entity.DocumentRecord{}
	}

	response.Success(w, map[string]any{
		"businessId": businessID,
		"documents":  records,
	})
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrMissingField),
		errors.Is(err, entity.ErrMissingFilename),
		errors.Is(err, entity.ErrInvalidParameter),
		errors.Is(err, entity.ErrUnsupportedFileType),
		errors.Is(err, entity.ErrFileTooLarge),
		errors.Is(err, entity.ErrEmptyDocument):
		ctxzap.Warn(ctx, "upload rejected", zap.Error(err))
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrDocumentNotFound):
		response.NotFound(w, "document not found")
	case errors.Is(err, entity.ErrVectorStoreDisabled),
		errors.Is(err, entity.ErrRegistryDisabled):
		ctxzap.Warn(ctx, "capability disabled", zap.Error(err))
		response.ServiceUnavailable(w, err.Error())
	default:
		ctxzap.Error(ctx, "internal error", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
