package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aiwb/chatbot-backend/internal/chunker"
	"github.com/aiwb/chatbot-backend/internal/config"
	"github.com/aiwb/chatbot-backend/internal/entity"
	"github.com/aiwb/chatbot-backend/internal/pkg/validator"
	"github.com/aiwb/chatbot-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubExtractor struct {
	doc *entity.ExtractedDocument
	err error
}

func (s *stubExtractor) Extract(_ []byte, _ string) (*entity.ExtractedDocument, error) {
	return s.doc, s.err
}

type stubEmbedder struct {
	enabled bool
	err     error
}

func (s *stubEmbedder) Enabled() bool { return s.enabled }

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 2, 3}
	}
	return out, nil
}

type stubVectorStore struct {
	enabled   bool
	upsertErr error
	records   []entity.VectorRecord
	deleted   []string
}

func (s *stubVectorStore) Enabled() bool { return s.enabled }

func (s *stubVectorStore) Upsert(_ context.Context, records []entity.VectorRecord) (int, error) {
	if s.upsertErr != nil {
		return 0, s.upsertErr
	}
	s.records = append(s.records, records...)
	return len(records), nil
}

func (s *stubVectorStore) DeleteByFilter(_ context.Context, field, value string) error {
	s.deleted = append(s.deleted, field+"="+value)
	return nil
}

func singlePageDoc(text string) *entity.ExtractedDocument {
	return &entity.ExtractedDocument{
		Filename:   "guide.pdf",
		TotalPages: 1,
		Pages:      []entity.PageContent{{PageNumber: 1, Text: text, Width: 612, Height: 792}},
	}
}

func newTestUsecase(ext Extractor, embedder Embedder, store VectorStore) *IngestUsecase {
	ch, _ := chunker.New(1000, 200)
	return NewUsecase(
		ext,
		ch,
		embedder,
		store,
		repository.DisabledRepository{},
		validator.NewUploadValidator(config.FileUploadConfig{MaxFileSize: 1 << 20}),
		zap.NewNop(),
	)
}

func uploadRequest() *entity.UploadRequest {
	return &entity.UploadRequest{
		BusinessID: "acme",
		DocumentID: "doc-1",
		Filename:   "guide.pdf",
		Content:    []byte("%PDF-stub"),
	}
}

func TestUploadStoresChunks(t *testing.T) {
	store := &stubVectorStore{enabled: true}
	uc := newTestUsecase(
		&stubExtractor{doc: singlePageDoc("Our product ships worldwide. Returns are free within 30 days.")},
		&stubEmbedder{enabled: true},
		store,
	)

	resp, err := uc.Upload(context.Background(), uploadRequest())
	require.NoError(t, err)

	assert.True(t, resp.VectorStorage.Enabled)
	assert.Equal(t, 1, resp.VectorStorage.ChunksCreated)
	assert.Equal(t, 1, resp.VectorStorage.ChunksStored)
	assert.Empty(t, resp.VectorStorage.Error)
	assert.Equal(t, 1, resp.ExtractedContent.TotalPages)

	require.Len(t, store.records, 1)
	assert.Equal(t, "acme_guide.pdf_page_1_chunk_0", store.records[0].ID)
	assert.Equal(t, "acme", store.records[0].Metadata.BusinessID)
}

func TestUploadGeneratesDocumentID(t *testing.T) {
	uc := newTestUsecase(
		&stubExtractor{doc: singlePageDoc("Some content.")},
		&stubEmbedder{enabled: true},
		&stubVectorStore{enabled: true},
	)

	req := uploadRequest()
	req.DocumentID = ""
	resp, err := uc.Upload(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.DocumentID)
}

func TestUploadExtractionFailureAborts(t *testing.T) {
	uc := newTestUsecase(
		&stubExtractor{err: errors.New("corrupt file")},
		&stubEmbedder{enabled: true},
		&stubVectorStore{enabled: true},
	)

	_, err := uc.Upload(context.Background(), uploadRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract document")
}

func TestUploadStorageFailureIsReportedNotFatal(t *testing.T) {
	uc := newTestUsecase(
		&stubExtractor{doc: singlePageDoc("Some content worth chunking.")},
		&stubEmbedder{enabled: true},
		&stubVectorStore{enabled: true, upsertErr: errors.New("index unavailable")},
	)

	resp, err := uc.Upload(context.Background(), uploadRequest())
	require.NoError(t, err)

	assert.True(t, resp.VectorStorage.Enabled)
	assert.Equal(t, 1, resp.VectorStorage.ChunksCreated)
	assert.Zero(t, resp.VectorStorage.ChunksStored)
	assert.Contains(t, resp.VectorStorage.Error, "vector storage failed")
}

func TestUploadEmbeddingFailureIsReportedNotFatal(t *testing.T) {
	store := &stubVectorStore{enabled: true}
	uc := newTestUsecase(
		&stubExtractor{doc: singlePageDoc("Some content worth chunking.")},
		&stubEmbedder{enabled: true, err: errors.New("quota exceeded")},
		store,
	)

	resp, err := uc.Upload(context.Background(), uploadRequest())
	require.NoError(t, err)

	assert.Contains(t, resp.VectorStorage.Error, "embedding failed")
	assert.Empty(t, store.records)
}

func TestUploadDisabledVectorStore(t *testing.T) {
	uc := newTestUsecase(
		&stubExtractor{doc: singlePageDoc("Still extractable without an index.")},
		&stubEmbedder{enabled: true},
		&stubVectorStore{enabled: false},
	)

	resp, err := uc.Upload(context.Background(), uploadRequest())
	require.NoError(t, err)

	assert.False(t, resp.VectorStorage.Enabled)
	assert.Equal(t, 1, resp.VectorStorage.ChunksCreated)
	assert.Zero(t, resp.VectorStorage.ChunksStored)
}

func TestUploadRejectsUnsupportedFile(t *testing.T) {
	uc := newTestUsecase(&stubExtractor{}, &stubEmbedder{enabled: true}, &stubVectorStore{enabled: true})

	req := uploadRequest()
	req.Filename = "notes.txt"
	_, err := uc.Upload(context.Background(), req)
	require.ErrorIs(t, err, entity.ErrUnsupportedFileType)
}

func TestUploadRejectsEmptyDocument(t *testing.T) {
	uc := newTestUsecase(
		&stubExtractor{doc: singlePageDoc("   \n  ")},
		&stubEmbedder{enabled: true},
		&stubVectorStore{enabled: true},
	)

	_, err := uc.Upload(context.Background(), uploadRequest())
	require.ErrorIs(t, err, entity.ErrEmptyDocument)
}

func TestDeleteDocumentAndClearBusiness(t *testing.T) {
	store := &stubVectorStore{enabled: true}
	uc := newTestUsecase(&stubExtractor{}, &stubEmbedder{enabled: true}, store)

	require.NoError(t, uc.DeleteDocument(context.Background(), "doc-9"))
	require.NoError(t, uc.ClearBusiness(context.Background(), "acme"))

	assert.Equal(t, []string{"document_id=doc-9", "business_id=acme"}, store.deleted)
}

func TestListDocumentsWithoutRegistry(t *testing.T) {
	uc := newTestUsecase(&stubExtractor{}, &stubEmbedder{enabled: true}, &stubVectorStore{enabled: true})

	_, err := uc.ListDocuments(context.Background(), "acme")
	require.True(t, errors.Is(err, entity.ErrRegistryDisabled), "expected registry disabled, got: %v", err)
}

func TestUploadLargeDocumentChunksAcrossPages(t *testing.T) {
	sentence := strings.Repeat("word ", 19) + "stop. "
	page := strings.Repeat(sentence, 24)
	doc := &entity.ExtractedDocument{
		Filename:   "guide.pdf",
		TotalPages: 2,
		Pages: []entity.PageContent{
			{PageNumber: 1, Text: page, Width: 612, Height: 792},
			{PageNumber: 2, Text: page, Width: 612, Height: 792},
		},
	}

	store := &stubVectorStore{enabled: true}
	uc := newTestUsecase(&stubExtractor{doc: doc}, &stubEmbedder{enabled: true}, store)

	resp, err := uc.Upload(context.Background(), uploadRequest())
	require.NoError(t, err)

	assert.Equal(t, resp.VectorStorage.ChunksCreated, resp.VectorStorage.ChunksStored)
	assert.Greater(t, resp.VectorStorage.ChunksCreated, 2)

	for _, rec := range store.records {
		assert.LessOrEqual(t, len(rec.Metadata.Text), entity.MaxMetadataTextLen)
	}
}
