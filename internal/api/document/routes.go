package document

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers document ingestion routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/upload", h.Upload)
	r.Delete("/document/{document_id}", h.DeleteDocument)
	r.Delete("/clear/{business_id}", h.ClearBusiness)
	r.Get("/documents/{business_id}", h.ListDocuments)
}
