package entity

// ChunkMetadata carries the page/document/tenant context attached to every chunk.
// Field names match what gets stored in the vector index, so filtered retrieval
// keeps working against data written by earlier versions.
type ChunkMetadata struct {
	BusinessID string  `json:"business_id"`
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	TotalPages int     `json:"total_pages"`
	PageWidth  float64 `json:"page_width"`
	PageHeight float64 `json:"page_height"`
	PageNumber int     `json:"page_number"`
	ChunkIndex int     `json:"chunk_index"`
	StartChar  int     `json:"start_char"`
	EndChar    int     `json:"end_char"`
	ChunkSize  int     `json:"chunk_size"`
}

// Chunk is a bounded span of text extracted from one page of one document.
// ChunkID is unique within a page; StartChar/EndChar are positional hints and
// are not exact once overlap splicing kicks in.
type Chunk struct {
	Text       string
	ChunkID    string
	PageNumber int
	ChunkIndex int
	StartChar  int
	EndChar    int
	Metadata   ChunkMetadata
}

// ScoredChunk is a retrieval match with its similarity score and the metadata
// fields flattened out of the vector record.
type ScoredChunk struct {
	ID         string
	Score      float64
	Text       string
	Filename   string
	PageNumber int
	ChunkIndex int
	BusinessID string
}

// Source is a citation record returned alongside an answer.
type Source struct {
	Filename        string  `json:"filename"`
	PageNumber      int     `json:"page_number"`
	ChunkIndex      int     `json:"chunk_index"`
	SimilarityScore float64 `json:"similarity_score"`
}
