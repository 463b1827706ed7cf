package entity

import (
	"fmt"
	"unicode/utf8"
)

// MaxMetadataTextLen caps the chunk text copied into vector metadata. Pinecone
// limits per-record metadata size; the embedding is still computed from the
// full chunk text.
const MaxMetadataTextLen = 40000

// VectorMetadata is the flat metadata record persisted with every vector.
type VectorMetadata struct {
	Text       string `json:"text"`
	BusinessID string `json:"business_id"`
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	PageNumber int    `json:"page_number"`
	ChunkIndex int    `json:"chunk_index"`
	ChunkSize  int    `json:"chunk_size"`
	TotalPages int    `json:"total_pages"`
}

// VectorRecord is the persisted unit in the vector store, derived one-to-one
// from a Chunk at upsert time.
type VectorRecord struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata VectorMetadata `json:"metadata"`
}

// IndexStats mirrors the vector store's index statistics.
type IndexStats struct {
	TotalVectorCount int     `json:"total_vector_count"`
	Dimension        int     `json:"dimension"`
	IndexFullness    float64 `json:"index_fullness"`
}

// VectorID derives the deterministic store id for a chunk. Re-upserting the
// same (tenant, filename, chunk) overwrites instead of duplicating.
func VectorID(businessID, filename, chunkID string) string {
	return fmt.Sprintf("%s_%s_%s", businessID, filename, chunkID)
}

// NewVectorRecord builds the store record for a chunk and its embedding.
func NewVectorRecord(chunk Chunk, values []float32) VectorRecord {
	return VectorRecord{
		ID:     VectorID(chunk.Metadata.BusinessID, chunk.Metadata.Filename, chunk.ChunkID),
		Values: values,
		Metadata: VectorMetadata{
			Text:       truncateText(chunk.Text, MaxMetadataTextLen),
			BusinessID: chunk.Metadata.BusinessID,
			DocumentID: chunk.Metadata.DocumentID,
			Filename:   chunk.Metadata.Filename,
			PageNumber: chunk.PageNumber,
			ChunkIndex: chunk.ChunkIndex,
			ChunkSize:  chunk.Metadata.ChunkSize,
			TotalPages: chunk.Metadata.TotalPages,
		},
	}
}

// truncateText cuts s to at most max bytes without splitting a rune.
func truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
