package api

import (
	"net/http"
	"time"

	"github.com/aiwb/chatbot-backend/internal/api/docs"
	documentapi "github.com/aiwb/chatbot-backend/internal/api/document"
	"github.com/aiwb/chatbot-backend/internal/api/middleware"
	queryapi "github.com/aiwb/chatbot-backend/internal/api/query"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(documentHandler *documentapi.Handler, queryHandler *queryapi.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)                 // Recover from panics
	r.Use(chimiddleware.RequestID)                 // Add request ID
	r.Use(middleware.Logger(logger))               // Log requests
	r.Use(middleware.CORS)                         // Handle CORS
	r.Use(chimiddleware.Timeout(60 * time.Second)) // Default timeout

	// Service banner
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message":"Welcome to AIWB Chatbot API"}`))
	})

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	// Register routes
	documentapi.RegisterRoutes(r, documentHandler)
	queryapi.RegisterRoutes(r, queryHandler)

	return r
}
