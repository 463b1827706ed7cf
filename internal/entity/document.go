package entity

import (
	"strings"
	"time"
)

// PageContent is one page of extracted text with its physical dimensions.
type PageContent struct {
	PageNumber int
	Text       string
	Width      float64
	Height     float64
}

// ExtractedDocument is the output of the document extractor.
type ExtractedDocument struct {
	Filename   string
	TotalPages int
	Pages      []PageContent
}

// FullText concatenates all page texts in order.
func (d *ExtractedDocument) FullText() string {
	var b strings.Builder
	for _, p := range d.Pages {
		b.WriteString(p.Text)
		b.WriteString("\n")
	}
	return b.String()
}

// DocumentSummary holds basic statistics about an extracted document.
type DocumentSummary struct {
	Filename   string `json:"filename"`
	TotalPages int    `json:"total_pages"`
	WordCount  int    `json:"word_count"`
	CharCount  int    `json:"char_count"`
	Preview    string `json:"preview"`
	HasContent bool   `json:"has_content"`
}

// DocumentRecord is one row of the document registry.
type DocumentRecord struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"business_id"`
	DocumentID string    `json:"document_id"`
	Filename   string    `json:"filename"`
	TotalPages int       `json:"total_pages"`
	ChunkCount int       `json:"chunk_count"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// ChatMessage is one turn entry in a conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
