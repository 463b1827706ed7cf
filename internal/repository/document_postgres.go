package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aiwb/chatbot-backend/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentRepository records what was ingested per tenant. It is an optional
// capability: without DATABASE_URL the disabled implementation is wired in.
type DocumentRepository interface {
	RecordDocument(ctx context.Context, rec entity.DocumentRecord) (*entity.DocumentRecord, error)
	ListByBusiness(ctx context.Context, businessID string) ([]*entity.DocumentRecord, error)
	DeleteByDocumentID(ctx context.Context, documentID string) error
	DeleteByBusinessID(ctx context.Context, businessID string) error
	Ping(ctx context.Context) error
	Enabled() bool
}

var _ DocumentRepository = &DocumentPostgres{}

// DocumentPostgres implements DocumentRepository using PostgreSQL
type DocumentPostgres struct {
	db *pgxpool.Pool
}

func NewDocumentPostgres(db *pgxpool.Pool) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

func (r *DocumentPostgres) Enabled() bool { return true }

func (r *DocumentPostgres) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// RecordDocument upserts on (business_id, document_id), so re-ingesting a
// document updates its row instead of adding a duplicate.
func (r *DocumentPostgres) RecordDocument(ctx context.Context, rec entity.DocumentRecord) (*entity.DocumentRecord, error) {
	const query = `
		INSERT INTO documents (id, business_id, document_id, filename, total_pages, chunk_count, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (business_id, document_id) DO UPDATE
		SET filename = EXCLUDED.filename,
		    total_pages = EXCLUDED.total_pages,
		    chunk_count = EXCLUDED.chunk_count,
		    uploaded_at = now()
		RETURNING id, business_id, document_id, filename, total_pages, chunk_count, uploaded_at`

	row := r.db.QueryRow(ctx, query,
		uuid.New().String(), rec.BusinessID, rec.DocumentID, rec.Filename, rec.TotalPages, rec.ChunkCount)

	var out entity.DocumentRecord
	err := row.Scan(&out.ID, &out.BusinessID, &out.DocumentID, &out.Filename, &out.TotalPages, &out.ChunkCount, &out.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("record document: %w", err)
	}

	return &out, nil
}

func (r *DocumentPostgres) ListByBusiness(ctx context.Context, businessID string) ([]*entity.DocumentRecord, error) {
	const query = `
		SELECT id, business_id, document_id, filename, total_pages, chunk_count, uploaded_at
		FROM documents
		WHERE business_id = $1
		ORDER BY uploaded_at DESC`

	rows, err := r.db.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var records []*entity.DocumentRecord
	for rows.Next() {
		var rec entity.DocumentRecord
		if err := rows.Scan(&rec.ID, &rec.BusinessID, &rec.DocumentID, &rec.Filename, &rec.TotalPages, &rec.ChunkCount, &rec.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}

func (r *DocumentPostgres) DeleteByDocumentID(ctx context.Context, documentID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM documents WHERE document_id = $1`, documentID)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return entity.ErrDocumentNotFound
	}

	return nil
}

func (r *DocumentPostgres) DeleteByBusinessID(ctx context.Context, businessID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM documents WHERE business_id = $1`, businessID)
	if err != nil {
		return fmt.Errorf("delete business documents: %w", err)
	}

	return nil
}

// IsNotFound reports whether err is a missing-row condition.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, entity.ErrDocumentNotFound)
}
