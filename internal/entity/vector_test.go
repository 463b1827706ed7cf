package entity

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorIDIsDeterministic(t *testing.T) {
	id1 := VectorID("biz-1", "manual.pdf", "page_1_chunk_0")
	id2 := VectorID("biz-1", "manual.pdf", "page_1_chunk_0")

	assert.Equal(t, "biz-1_manual.pdf_page_1_chunk_0", id1)
	assert.Equal(t, id1, id2, "same (tenant, filename, chunk) must yield the same id")
}

func TestNewVectorRecordTruncatesMetadataText(t *testing.T) {
	chunk := Chunk{
		Text:       strings.Repeat("a", MaxMetadataTextLen+500),
		ChunkID:    "page_2_chunk_3",
		PageNumber: 2,
		ChunkIndex: 3,
		Metadata: ChunkMetadata{
			BusinessID: "biz-1",
			DocumentID: "doc-1",
			Filename:   "manual.pdf",
			TotalPages: 7,
			ChunkSize:  MaxMetadataTextLen + 500,
		},
	}

	rec := NewVectorRecord(chunk, []float32{0.1, 0.2})

	assert.Equal(t, "biz-1_manual.pdf_page_2_chunk_3", rec.ID)
	assert.Len(t, rec.Metadata.Text, MaxMetadataTextLen)
	assert.Equal(t, 2, rec.Metadata.PageNumber)
	assert.Equal(t, 3, rec.Metadata.ChunkIndex)
	assert.Equal(t, 7, rec.Metadata.TotalPages)
	// The original chunk size is reported, not the truncated one.
	assert.Equal(t, MaxMetadataTextLen+500, rec.Metadata.ChunkSize)
}

func TestTruncateTextKeepsRunesIntact(t *testing.T) {
	// Cyrillic runes are two bytes; an odd byte budget must not split one.
	text := strings.Repeat("ж", 30)
	out := truncateText(text, 7)

	require.True(t, utf8.ValidString(out))
	assert.Equal(t, 6, len(out))
}
