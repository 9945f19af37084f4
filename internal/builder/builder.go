package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/codeware/chatbot-backend/internal/api"
	chatapi "github.com/codeware/chatbot-backend/internal/api/chat"
	"github.com/codeware/chatbot-backend/internal/config"
	"github.com/codeware/chatbot-backend/internal/integration/embedding"
	"github.com/codeware/chatbot-backend/internal/integration/llm"
	"github.com/codeware/chatbot-backend/internal/integration/trigger"
	"github.com/codeware/chatbot-backend/internal/pkg/logger"
	"github.com/codeware/chatbot-backend/internal/pkg/validator"
	"github.com/codeware/chatbot-backend/internal/rag"
	"github.com/codeware/chatbot-backend/internal/repository"
	"github.com/codeware/chatbot-backend/internal/ruleflow"
	"github.com/codeware/chatbot-backend/internal/telegram"
	"github.com/codeware/chatbot-backend/internal/usecase/chat"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	log.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
		zap.String("provider", cfg.Provider),
	)

	chatUC, db, err := buildChatUsecase(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	// Setup API handlers
	chatHandler := chatapi.NewHandler(chatUC, validator.New())
	log.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(chatHandler, log)
	log.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     db,
		logger: log,
	}, nil
}

// BuildTelegramBot creates the Telegram frontend around the same chat core.
func BuildTelegramBot() (*telegram.Bot, *zap.Logger, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	log.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
	)

	chatUC, db, err := buildChatUsecase(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	bot, err := telegram.NewBot(&cfg.TelegramCfg, chatUC, log)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	log.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return bot, log, nil
}

// buildChatUsecase wires the decision pipeline shared by every frontend:
// trigger matcher, retriever, answer pipeline and dispatcher. The returned
// pool is nil in the mock configuration.
func buildChatUsecase(ctx context.Context, cfg *config.Config, log *zap.Logger) (*chat.ChatUsecase, *pgxpool.Pool, error) {
	// Load the ordered trigger rule list. A missing or malformed flow
	// file is a fatal startup error.
	matcher, err := ruleflow.NewMatcherFromFile(cfg.FlowFile, ruleflow.NewZapObserver(log))
	if err != nil {
		return nil, nil, fmt.Errorf("load trigger flows: %w", err)
	}
	log.Info("Trigger rules loaded",
		zap.String("flow_file", cfg.FlowFile),
		zap.Int("rule_count", matcher.Rules()),
	)

	var (
		db        *pgxpool.Pool
		index     rag.VectorIndex
		embedder  rag.Embedder
		generator rag.Generator
		trigConn  chat.TriggerConnector
	)

	if cfg.EnableMocks {
		log.Info("Using mock connectors for external services")
		index = repository.NewChunkMemory()
		embedder = embedding.NewMockEmbedder(log)
		generator = llm.NewMockGenerator(log)
		trigConn = trigger.NewMockConnector(log)
	} else {
		db, err = setupDatabase(ctx, cfg, log)
		if err != nil {
			return nil, nil, fmt.Errorf("setup database: %w", err)
		}

		log.Info("Running database migrations")
		if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		log.Info("Database migrations completed successfully")

		index = repository.NewChunkPostgres(db, cfg.Collection)

		switch cfg.Provider {
		case config.ProviderOpenAI:
			embedder = embedding.NewOpenAIEmbedder(cfg.OpenAICfg, log)
			generator = llm.NewOpenAIGenerator(cfg.OpenAICfg, log)
		default:
			embedder = embedding.NewConnector(cfg.EmbeddingConnectorCfg, log)
			generator = llm.NewConnector(cfg.LLMConnectorCfg, log)
		}
		trigConn = trigger.NewConnector(cfg.TriggerConnectorCfg, log)
	}

	retriever := rag.NewRetriever(embedder, index, log)

	// Dimension mismatch between the embedder and stored vectors must
	// fail here, not per request.
	if err := retriever.ValidateDimensions(ctx); err != nil {
		if db != nil {
			db.Close()
		}
		return nil, nil, fmt.Errorf("validate embedding dimensions: %w", err)
	}

	pipeline := rag.NewPipeline(retriever, generator, cfg.TopK, log)

	chatUC := chat.NewUsecase(matcher, pipeline, trigConn, cfg.AnswerCacheTTL, log)
	log.Info("Use cases initialized")

	return chatUC, db, nil
}
