package entity

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Query          string `json:"query"`
	BusinessID     string `json:"businessId"`
	ConversationID string `json:"conversation_id,omitempty"`
	MaxChunks      int    `json:"max_chunks,omitempty"`
}

// Normalize applies request defaults and bounds.
func (r *QueryRequest) Normalize() {
	if r.MaxChunks <= 0 {
		r.MaxChunks = 5
	}
	if r.MaxChunks > 20 {
		r.MaxChunks = 20
	}
}

// QueryResponse is the body returned by POST /query.
type QueryResponse struct {
	Query          string   `json:"query"`
	BusinessID     string   `json:"businessId"`
	Answer         string   `json:"answer"`
	Sources        []Source `json:"sources"`
	ChunksUsed     int      `json:"chunks_used"`
	IsLead         bool     `json:"is_lead"`
	ConversationID string   `json:"conversation_id,omitempty"`
}

// QueryResult is the query usecase output before HTTP shaping.
type QueryResult struct {
	Answer         string
	Sources        []Source
	ChunksUsed     int
	IsLead         bool
	ConversationID string
}

// UploadRequest carries one validated document upload into the ingest usecase.
type UploadRequest struct {
	BusinessID string
	DocumentID string
	Filename   string
	Content    []byte
}

// VectorStorageReport describes the (non-atomic) storage half of an ingestion.
// ChunksCreated can be non-zero while ChunksStored is zero; Error says why.
type VectorStorageReport struct {
	Enabled       bool   `json:"enabled"`
	ChunksCreated int    `json:"chunks_created"`
	ChunksStored  int    `json:"chunks_stored"`
	Error         string `json:"error,omitempty"`
}

// ExtractedContentStats summarizes the extraction step for the upload response.
type ExtractedContentStats struct {
	TotalPages int    `json:"total_pages"`
	WordCount  int    `json:"word_count"`
	CharCount  int    `json:"char_count"`
	Preview    string `json:"preview"`
}

// UploadResponse is the body returned by POST /upload.
type UploadResponse struct {
	Message          string                `json:"message"`
	BusinessID       string                `json:"businessId"`
	DocumentID       string                `json:"document_id"`
	Filename         string                `json:"filename"`
	FileSize         int                   `json:"file_size"`
	DocumentSummary  DocumentSummary       `json:"document_summary"`
	ExtractedContent ExtractedContentStats `json:"extracted_content"`
	VectorStorage    VectorStorageReport   `json:"vector_storage"`
}

// HealthResponse is the body returned by GET /health.
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// Health status values per collaborator.
const (
	HealthHealthy  = "healthy"
	HealthError    = "error"
	HealthDisabled = "disabled"
)
