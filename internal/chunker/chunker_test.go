package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/aiwb/chatbot-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNew(t *testing.T, size, overlap int) *Chunker {
	t.Helper()
	c, err := New(size, overlap)
	require.NoError(t, err)
	return c
}

func TestNewRejectsBadParameters(t *testing.T) {
	_, err := New(0, 0)
	assert.Error(t, err)

	_, err = New(1000, -1)
	assert.Error(t, err)

	_, err = New(1000, 1000)
	assert.Error(t, err)

	_, err = New(200, 500)
	assert.Error(t, err)

	_, err = New(1000, 200)
	assert.NoError(t, err)
}

func TestChunkBySentencesShortTextSingleChunk(t *testing.T) {
	c := mustNew(t, 1000, 200)

	text := "First sentence here. Second one follows! Does a third fit?"
	chunks := c.ChunkBySentences(text, 1, entity.ChunkMetadata{})

	require.Len(t, chunks, 1)
	assert.Equal(t, strings.TrimSpace(text), chunks[0].Text)
	assert.Equal(t, "page_1_chunk_0", chunks[0].ChunkID)
	assert.Equal(t, 0, chunks[0].ChunkIndex)
	assert.Equal(t, 1, chunks[0].PageNumber)
}

func TestChunkBySentencesEmptyInput(t *testing.T) {
	c := mustNew(t, 1000, 200)

	assert.Empty(t, c.ChunkBySentences("", 1, entity.ChunkMetadata{}))
	assert.Empty(t, c.ChunkBySentences("   \n\t  ", 1, entity.ChunkMetadata{}))
}

func TestChunkBySentencesTwentyFourHundredChars(t *testing.T) {
	c := mustNew(t, 1000, 200)

	// 24 sentences of exactly 100 characters each.
	var b strings.Builder
	for i := 0; i < 24; i++ {
		b.WriteString(strings.Repeat("a", 98))
		b.WriteString(". ")
	}
	text := b.String()
	require.Equal(t, 2400, len(text))

	chunks := c.ChunkBySentences(text, 1, entity.ChunkMetadata{})

	require.Len(t, chunks, 3)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.ChunkIndex)
		assert.LessOrEqual(t, len(chunk.Text), 1000)
		assert.Equal(t, len(chunk.Text), chunk.Metadata.ChunkSize)
	}
}

func TestChunkBySentencesOverlap(t *testing.T) {
	c := mustNew(t, 300, 80)

	var b strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "Sentence number %04d carries a bit of filler to give it length. ", i)
	}
	chunks := c.ChunkBySentences(b.String(), 1, entity.ChunkMetadata{})
	require.Greater(t, len(chunks), 1)

	for i := 0; i < len(chunks)-1; i++ {
		// The next chunk is seeded with the previous buffer's tail, so its
		// opening text must occur inside the previous chunk. Offsets are
		// approximate under overlap, so only the text is checked.
		prefix := chunks[i+1].Text[:30]
		assert.Contains(t, chunks[i].Text, prefix,
			"chunk %d should start with the tail of chunk %d", i+1, i)
	}
}

func TestChunkBySentencesOversizedSentence(t *testing.T) {
	c := mustNew(t, 1000, 200)

	oversized := strings.Repeat("b", 1500) + "."
	text := "A short opener. " + oversized + " And a closer."
	chunks := c.ChunkBySentences(text, 1, entity.ChunkMetadata{})

	require.Len(t, chunks, 3)
	assert.Equal(t, "A short opener.", chunks[0].Text)
	// The oversized sentence is never split mid-sentence.
	assert.Contains(t, chunks[1].Text, oversized)
	assert.Greater(t, len(chunks[1].Text), 1000)
}

func TestChunkBySentencesIndexIsContiguous(t *testing.T) {
	c := mustNew(t, 120, 30)

	var b strings.Builder
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&b, "Short sentence number %d sits right here. ", i)
	}
	chunks := c.ChunkBySentences(b.String(), 3, entity.ChunkMetadata{})
	require.NotEmpty(t, chunks)

	prevStart := -1
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.ChunkIndex)
		assert.Equal(t, fmt.Sprintf("page_3_chunk_%d", i), chunk.ChunkID)
		assert.GreaterOrEqual(t, chunk.StartChar, prevStart, "start offsets must not regress")
		prevStart = chunk.StartChar
	}
}

func TestChunkByFixedSize(t *testing.T) {
	c := mustNew(t, 1000, 200)

	text := strings.Repeat("x", 2500)
	chunks := c.ChunkByFixedSize(text, 1, entity.ChunkMetadata{})

	require.Len(t, chunks, 4)
	assert.Equal(t, 1000, len(chunks[0].Text))
	assert.Equal(t, 0, chunks[0].StartChar)
	assert.Equal(t, 800, chunks[1].StartChar)
	assert.Equal(t, 100, len(chunks[3].Text))
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.ChunkIndex)
	}
}

func TestChunkDocumentResetsIndexPerPage(t *testing.T) {
	c := mustNew(t, 100, 20)

	longText := strings.Repeat("A filler sentence to force several chunks. ", 8)
	doc := &entity.ExtractedDocument{
		Filename:   "manual.pdf",
		TotalPages: 3,
		Pages: []entity.PageContent{
			{PageNumber: 1, Text: longText, Width: 612, Height: 792},
			{PageNumber: 2, Text: "   \n  "},
			{PageNumber: 3, Text: longText, Width: 612, Height: 792},
		},
	}

	chunks := c.ChunkDocument(doc, "biz-1", "doc-1")
	require.NotEmpty(t, chunks)

	perPage := map[int][]entity.Chunk{}
	for _, chunk := range chunks {
		perPage[chunk.PageNumber] = append(perPage[chunk.PageNumber], chunk)
	}

	assert.Empty(t, perPage[2], "blank pages yield no chunks")
	for _, page := range []int{1, 3} {
		require.NotEmpty(t, perPage[page])
		for i, chunk := range perPage[page] {
			assert.Equal(t, i, chunk.ChunkIndex)
			assert.Equal(t, "biz-1", chunk.Metadata.BusinessID)
			assert.Equal(t, "doc-1", chunk.Metadata.DocumentID)
			assert.Equal(t, "manual.pdf", chunk.Metadata.Filename)
			assert.Equal(t, 3, chunk.Metadata.TotalPages)
		}
	}
}

func TestSplitSentencesReconstructsInput(t *testing.T) {
	text := "One. Two!  Three?\nFour without terminator"
	sentences := splitSentences(text)

	require.Len(t, sentences, 4)
	assert.Equal(t, text, strings.Join(sentences, ""))
}

func TestSplitSentencesIgnoresInlineDots(t *testing.T) {
	// A terminator not followed by whitespace does not break.
	text := "Версия 2.5 released. Done."
	sentences := splitSentences(text)

	require.Len(t, sentences, 2)
	assert.Equal(t, "Версия 2.5 released. ", sentences[0])
}
