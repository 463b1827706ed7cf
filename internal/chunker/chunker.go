package chunker

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aiwb/chatbot-backend/internal/entity"
)

// Default chunking parameters, matching the embedding model's sweet spot for
// retrieval granularity.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Chunker splits page text into bounded, overlapping, sentence-respecting
// segments. The size limit is a target: a single sentence longer than
// chunkSize is never split and becomes its own oversized chunk.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// New validates the chunking parameters. overlap must be strictly smaller
// than size, otherwise every chunk would re-seed a buffer at least as large
// as the budget and the algorithm could not make progress.
func New(chunkSize, chunkOverlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if chunkOverlap < 0 {
		return nil, fmt.Errorf("chunk overlap must be non-negative, got %d", chunkOverlap)
	}
	if chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)", chunkOverlap, chunkSize)
	}
	return &Chunker{chunkSize: chunkSize, chunkOverlap: chunkOverlap}, nil
}

// ChunkBySentences accumulates sentences greedily into chunks of up to
// chunkSize characters. When a sentence would overflow the budget the current
// chunk is emitted and the next buffer is seeded with the closed chunk's
// overlap tail followed by that sentence. Chunk indices are 0-based per page.
//
// StartChar/EndChar are tracked incrementally from buffer lengths; once
// overlap splicing happens they are positional hints, not exact offsets.
func (c *Chunker) ChunkBySentences(text string, pageNumber int, meta entity.ChunkMetadata) []entity.Chunk {
	sentences := splitSentences(text)

	var chunks []entity.Chunk
	var buffer string
	currentStart := 0
	chunkIndex := 0

	for _, sentence := range sentences {
		if strings.TrimSpace(sentence) == "" {
			continue
		}

		if len(buffer)+len(sentence) > c.chunkSize && buffer != "" {
			chunks = append(chunks, c.newChunk(
				strings.TrimSpace(buffer),
				pageNumber, chunkIndex,
				currentStart, currentStart+len(buffer),
				meta,
			))

			tail := c.overlapTail(buffer)
			currentStart += len(buffer) - len(tail)
			buffer = tail + sentence
			chunkIndex++
			continue
		}

		buffer += sentence
	}

	if trimmed := strings.TrimSpace(buffer); trimmed != "" {
		chunks = append(chunks, c.newChunk(
			trimmed,
			pageNumber, chunkIndex,
			currentStart, currentStart+len(buffer),
			meta,
		))
	}

	return chunks
}

// ChunkByFixedSize slides a window of chunkSize characters with stride
// chunkSize-chunkOverlap over raw text, ignoring sentence boundaries.
// Available as an alternate strategy; ingestion uses ChunkBySentences.
func (c *Chunker) ChunkByFixedSize(text string, pageNumber int, meta entity.ChunkMetadata) []entity.Chunk {
	var chunks []entity.Chunk
	chunkIndex := 0
	stride := c.chunkSize - c.chunkOverlap

	for i := 0; i < len(text); i += stride {
		end := i + c.chunkSize
		if end > len(text) {
			end = len(text)
		}
		// Back both cut points up to rune boundaries.
		start := runeStart(text, i)
		end = runeStart(text, end)

		chunkText := strings.TrimSpace(text[start:end])
		if chunkText == "" {
			continue
		}

		chunks = append(chunks, c.newChunk(chunkText, pageNumber, chunkIndex, start, end, meta))
		chunkIndex++
	}

	return chunks
}

// ChunkDocument chunks every non-blank page of an extracted document,
// attaching tenant and document context to each chunk. Chunk indices restart
// at 0 on every page.
func (c *Chunker) ChunkDocument(doc *entity.ExtractedDocument, businessID, documentID string) []entity.Chunk {
	var all []entity.Chunk

	for _, page := range doc.Pages {
		if strings.TrimSpace(page.Text) == "" {
			continue
		}

		meta := entity.ChunkMetadata{
			BusinessID: businessID,
			DocumentID: documentID,
			Filename:   doc.Filename,
			TotalPages: doc.TotalPages,
			PageWidth:  page.Width,
			PageHeight: page.Height,
		}

		all = append(all, c.ChunkBySentences(page.Text, page.PageNumber, meta)...)
	}

	return all
}

func (c *Chunker) newChunk(text string, pageNumber, chunkIndex, startChar, endChar int, meta entity.ChunkMetadata) entity.Chunk {
	meta.PageNumber = pageNumber
	meta.ChunkIndex = chunkIndex
	meta.StartChar = startChar
	meta.EndChar = endChar
	meta.ChunkSize = len(text)

	return entity.Chunk{
		Text:       text,
		ChunkID:    fmt.Sprintf("page_%d_chunk_%d", pageNumber, chunkIndex),
		PageNumber: pageNumber,
		ChunkIndex: chunkIndex,
		StartChar:  startChar,
		EndChar:    endChar,
		Metadata:   meta,
	}
}

// overlapTail returns the last chunkOverlap bytes of text, or all of it when
// shorter, never splitting a rune.
func (c *Chunker) overlapTail(text string) string {
	if len(text) <= c.chunkOverlap {
		return text
	}
	return text[runeStart(text, len(text)-c.chunkOverlap):]
}

// splitSentences breaks text after any of `.!?` followed by whitespace. The
// whitespace run stays attached to the finished sentence, so concatenating
// the segments reconstructs the input exactly.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	i := 0

	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size

		if r != '.' && r != '!' && r != '?' {
			continue
		}

		// Only break if the terminator is followed by whitespace.
		j := i
		for j < len(text) {
			ws, wsSize := utf8.DecodeRuneInString(text[j:])
			if !unicode.IsSpace(ws) {
				break
			}
			j += wsSize
		}
		if j == i {
			continue
		}

		sentences = append(sentences, text[start:j])
		start = j
		i = j
	}

	if start < len(text) {
		sentences = append(sentences, text[start:])
	}

	return sentences
}

// runeStart backs i up to the nearest rune boundary in s.
func runeStart(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}
