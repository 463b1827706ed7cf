package extractor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aiwb/chatbot-backend/internal/entity"
	"go.uber.org/zap"
)

// Extractor turns uploaded document bytes into per-page text. PDF pages map
// one-to-one; a DOCX has no fixed pagination and becomes one logical page.
type Extractor struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract dispatches on the file extension. Unreadable or unsupported input
// yields an error and no pages, so ingestion aborts before any storage write.
func (e *Extractor) Extract(content []byte, filename string) (*entity.ExtractedDocument, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return e.extractPDF(content, filename)
	case ".docx":
		return e.extractDOCX(content, filename)
	default:
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedFileType, filename)
	}
}

const previewLen = 200

// Summarize computes basic statistics over an extracted document.
func Summarize(doc *entity.ExtractedDocument) entity.DocumentSummary {
	fullText := doc.FullText()

	preview := fullText
	if len(preview) > previewLen {
		preview = preview[:previewLen] + "..."
	}

	return entity.DocumentSummary{
		Filename:   doc.Filename,
		TotalPages: doc.TotalPages,
		WordCount:  len(strings.Fields(fullText)),
		CharCount:  len(fullText),
		Preview:    preview,
		HasContent: strings.TrimSpace(fullText) != "",
	}
}
