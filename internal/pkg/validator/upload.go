package validator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aiwb/chatbot-backend/internal/config"
	"github.com/aiwb/chatbot-backend/internal/entity"
)

// UploadValidator checks document uploads before they reach the ingest
// pipeline.
type UploadValidator struct {
	cfg config.FileUploadConfig
}

func NewUploadValidator(cfg config.FileUploadConfig) *UploadValidator {
	return &UploadValidator{cfg: cfg}
}

// supported ingestion formats
var supportedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
}

// IsSupportedFile reports whether the filename has an ingestible extension.
func IsSupportedFile(filename string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// ValidateUpload checks the request the handler assembled from the multipart
// form.
func (v *UploadValidator) ValidateUpload(req *entity.UploadRequest) error {
	if req.BusinessID == "" {
		return fmt.Errorf("%w: businessId", entity.ErrMissingField)
	}

	if req.Filename == "" {
		return entity.ErrMissingFilename
	}

	if !IsSupportedFile(req.Filename) {
		return fmt.Errorf("%w: %s (only PDF and DOCX are supported)", entity.ErrUnsupportedFileType, req.Filename)
	}

	if len(req.Content) == 0 {
		return fmt.Errorf("%w: file is empty", entity.ErrInvalidParameter)
	}

	if v.cfg.MaxFileSize > 0 && int64(len(req.Content)) > v.cfg.MaxFileSize {
		return fmt.Errorf("%w: %d bytes (limit %d)", entity.ErrFileTooLarge, len(req.Content), v.cfg.MaxFileSize)
	}

	return nil
}
