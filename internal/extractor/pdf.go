package extractor

import (
	"bytes"
	"fmt"

	"github.com/aiwb/chatbot-backend/internal/entity"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// Default page box used when a page carries no readable MediaBox (US Letter
// in PDF points).
const (
	defaultPageWidth  = 612
	defaultPageHeight = 792
)

func (e *Extractor) extractPDF(content []byte, filename string) (doc *entity.ExtractedDocument, err error) {
	// The parser panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("parse pdf %s: %v", filename, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", filename, err)
	}

	totalPages := reader.NumPage()
	doc = &entity.ExtractedDocument{
		Filename:   filename,
		TotalPages: totalPages,
		Pages:      make([]entity.PageContent, 0, totalPages),
	}

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, textErr := page.GetPlainText(nil)
		if textErr != nil {
			// A single unreadable page does not abort the document.
			e.logger.Warn("failed to extract page text",
				zap.String("filename", filename),
				zap.Int("page", pageNum),
				zap.Error(textErr),
			)
			text = ""
		}

		width, height := pageSize(page)
		doc.Pages = append(doc.Pages, entity.PageContent{
			PageNumber: pageNum,
			Text:       text,
			Width:      width,
			Height:     height,
		})
	}

	e.logger.Info("extracted pdf",
		zap.String("filename", filename),
		zap.Int("total_pages", totalPages),
	)

	return doc, nil
}

// pageSize reads the page MediaBox; best-effort since the box may live on an
// ancestor node the library does not resolve.
func pageSize(page pdf.Page) (width, height float64) {
	box := page.V.Key("MediaBox")
	if box.Kind() != pdf.Array || box.Len() != 4 {
		return defaultPageWidth, defaultPageHeight
	}

	x0 := box.Index(0).Float64()
	y0 := box.Index(1).Float64()
	x1 := box.Index(2).Float64()
	y1 := box.Index(3).Float64()

	width = x1 - x0
	height = y1 - y0
	if width <= 0 || height <= 0 {
		return defaultPageWidth, defaultPageHeight
	}

	return width, height
}
