package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aiwb/chatbot-backend/internal/api"
	documentapi "github.com/aiwb/chatbot-backend/internal/api/document"
	queryapi "github.com/aiwb/chatbot-backend/internal/api/query"
	"github.com/aiwb/chatbot-backend/internal/chunker"
	"github.com/aiwb/chatbot-backend/internal/config"
	"github.com/aiwb/chatbot-backend/internal/conversation"
	"github.com/aiwb/chatbot-backend/internal/entity"
	"github.com/aiwb/chatbot-backend/internal/extractor"
	"github.com/aiwb/chatbot-backend/internal/integration/openai"
	"github.com/aiwb/chatbot-backend/internal/integration/pinecone"
	"github.com/aiwb/chatbot-backend/internal/pkg/validator"
	"github.com/aiwb/chatbot-backend/internal/repository"
	"github.com/aiwb/chatbot-backend/internal/telegram"
	"github.com/aiwb/chatbot-backend/internal/usecase/ingest"
	"github.com/aiwb/chatbot-backend/internal/usecase/query"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// llmConnector is the full surface of the OpenAI integration; the ingest and
// query usecases each see their own slice of it.
type llmConnector interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Complete(ctx context.Context, messages []entity.ChatMessage, temperature float64, maxTokens int) (string, error)
	Enabled() bool
}

// vectorConnector is the full surface of the Pinecone integration.
type vectorConnector interface {
	Upsert(ctx context.Context, records []entity.VectorRecord) (int, error)
	Query(ctx context.Context, vector []float32, topK int, filter map[string]any) ([]entity.ScoredChunk, error)
	DeleteByFilter(ctx context.Context, field, value string) error
	Stats(ctx context.Context) (*entity.IndexStats, error)
	Enabled() bool
}

type components struct {
	db       *pgxpool.Pool
	ingestUC *ingest.IngestUsecase
	queryUC  *query.QueryUsecase
}

func Build() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	comps, err := buildComponents(cfg, logger)
	if err != nil {
		return nil, err
	}

	// Setup API handlers
	documentHandler := documentapi.NewHandler(comps.ingestUC, cfg.FileUploadCfg)
	queryHandler := queryapi.NewHandler(comps.queryUC)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(documentHandler, queryHandler, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     comps.db,
		logger: logger,
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot
func BuildTelegramBot() (*telegram.Bot, *zap.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	if !cfg.TelegramCfg.Enabled() {
		return nil, nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}

	logger.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
	)

	comps, err := buildComponents(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	bot, err := telegram.NewBot(&cfg.TelegramCfg, comps.queryUC, logger)
	if err != nil {
		if comps.db != nil {
			comps.db.Close()
		}
		return nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	logger.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return bot, logger, nil
}

// buildComponents wires the pipeline shared by the HTTP server and the
// Telegram bot: registry, connectors, chunker, conversation cache, usecases.
func buildComponents(cfg *config.Config, logger *zap.Logger) (*components, error) {
	ctx := context.Background()

	// Document registry is optional. Without DATABASE_URL the disabled
	// implementation is wired in and listing endpoints return 503.
	var db *pgxpool.Pool
	var registry repository.DocumentRepository = repository.DisabledRepository{}

	if cfg.DatabaseURL != "" {
		pool, err := setupDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("setup database: %w", err)
		}

		logger.Info("Running database migrations")
		if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
			pool.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("Database migrations completed successfully")

		db = pool
		registry = repository.NewDocumentPostgres(pool)
	} else {
		logger.Warn("DATABASE_URL not set, document registry disabled")
	}

	// Initialize external service connectors (with mock support)
	var llmConn llmConnector
	var vectorConn vectorConnector

	switch {
	case cfg.EnableMocks:
		logger.Info("Using mock connectors for external services")
		llmConn = openai.NewMockConnector(logger)
		vectorConn = pinecone.NewMockConnector(logger)
	default:
		if cfg.OpenAICfg.Enabled() {
			conn, err := openai.NewConnector(cfg.OpenAICfg, logger)
			if err != nil {
				if db != nil {
					db.Close()
				}
				return nil, fmt.Errorf("initialize openai connector: %w", err)
			}
			llmConn = conn
		} else {
			logger.Warn("OPENAI_API_KEY not set, language-model capability disabled")
			llmConn = openai.NewDisabledConnector()
		}

		if cfg.PineconeCfg.Enabled() {
			vectorConn = pinecone.NewConnector(cfg.PineconeCfg, logger)
		} else {
			logger.Warn("Pinecone credentials not set, vector storage disabled")
			vectorConn = pinecone.NewDisabledConnector()
		}
	}

	textChunker, err := chunker.New(cfg.ChunkingCfg.Size, cfg.ChunkingCfg.Overlap)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, fmt.Errorf("initialize chunker: %w", err)
	}

	conversations := conversation.NewCache(cfg.ConversationCfg.MaxHistory, cfg.ConversationCfg.TTL)
	uploadValidator := validator.NewUploadValidator(cfg.FileUploadCfg)
	docExtractor := extractor.New(logger)

	ingestUC := ingest.NewUsecase(
		docExtractor,
		textChunker,
		llmConn,
		vectorConn,
		registry,
		uploadValidator,
		logger,
	)

	queryUC := query.NewUsecase(
		llmConn,
		vectorConn,
		conversations,
		cfg.OpenAICfg,
		logger,
	)
	logger.Info("Use cases initialized")

	return &components{
		db:       db,
		ingestUC: ingestUC,
		queryUC:  queryUC,
	}, nil
}
