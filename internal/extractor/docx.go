package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/aiwb/chatbot-backend/internal/entity"
	"github.com/unidoc/unioffice/document"
	"go.uber.org/zap"
)

func (e *Extractor) extractDOCX(content []byte, filename string) (*entity.ExtractedDocument, error) {
	doc, err := document.Read(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open docx %s: %w", filename, err)
	}
	defer doc.Close()

	var b strings.Builder
	for _, para := range doc.Paragraphs() {
		for _, run := range para.Runs() {
			b.WriteString(run.Text())
		}
		b.WriteString("\n")
	}

	e.logger.Info("extracted docx", zap.String("filename", filename))

	// Word documents have no fixed pagination before rendering; the whole
	// body is treated as one page.
	return &entity.ExtractedDocument{
		Filename:   filename,
		TotalPages: 1,
		Pages: []entity.PageContent{
			{PageNumber: 1, Text: b.String()},
		},
	}, nil
}
