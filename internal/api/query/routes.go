package query

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers query and conversation routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/query", h.Query)
	r.Delete("/conversation/{conversation_id}", h.DeleteConversation)
	r.Get("/health", h.Health)
}
