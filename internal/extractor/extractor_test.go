package extractor

import (
	"bytes"
	"testing"

	"github.com/aiwb/chatbot-backend/internal/entity"
	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func buildPDF(t *testing.T, pages ...string) []byte {
	t.Helper()

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetFont("Arial", "", 12)
	for _, text := range pages {
		doc.AddPage()
		doc.MultiCell(180, 8, text, "", "L", false)
	}

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestExtractPDF(t *testing.T) {
	e := New(zap.NewNop())

	content := buildPDF(t,
		"Alpha page with enough words to count.",
		"Beta page follows here.",
	)

	doc, err := e.Extract(content, "manual.pdf")
	require.NoError(t, err)

	assert.Equal(t, "manual.pdf", doc.Filename)
	assert.Equal(t, 2, doc.TotalPages)
	require.Len(t, doc.Pages, 2)
	assert.Equal(t, 1, doc.Pages[0].PageNumber)
	assert.Equal(t, 2, doc.Pages[1].PageNumber)
	assert.Contains(t, doc.Pages[0].Text, "Alpha")
	assert.Contains(t, doc.Pages[1].Text, "Beta")
	assert.Greater(t, doc.Pages[0].Width, 0.0)
	assert.Greater(t, doc.Pages[0].Height, 0.0)
}

func TestExtractRejectsUnsupportedExtension(t *testing.T) {
	e := New(zap.NewNop())

	_, err := e.Extract([]byte("plain text"), "notes.txt")
	assert.ErrorIs(t, err, entity.ErrUnsupportedFileType)
}

func TestExtractRejectsGarbagePDF(t *testing.T) {
	e := New(zap.NewNop())

	_, err := e.Extract([]byte("this is not a pdf"), "broken.pdf")
	assert.Error(t, err)
}

func TestExtractRejectsGarbageDOCX(t *testing.T) {
	e := New(zap.NewNop())

	_, err := e.Extract([]byte("this is not a docx"), "broken.docx")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	doc := &entity.ExtractedDocument{
		Filename:   "manual.pdf",
		TotalPages: 1,
		Pages: []entity.PageContent{
			{PageNumber: 1, Text: "Five words are right here."},
		},
	}

	summary := Summarize(doc)

	assert.Equal(t, "manual.pdf", summary.Filename)
	assert.Equal(t, 5, summary.WordCount)
	assert.True(t, summary.HasContent)
	assert.Contains(t, summary.Preview, "Five words")
}
