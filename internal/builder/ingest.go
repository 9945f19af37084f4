package builder

import (
	"context"
	"fmt"

	"github.com/codeware/chatbot-backend/internal/config"
	"github.com/codeware/chatbot-backend/internal/ingest"
	"github.com/codeware/chatbot-backend/internal/integration/embedding"
	"github.com/codeware/chatbot-backend/internal/pkg/logger"
	"github.com/codeware/chatbot-backend/internal/rag"
	"github.com/codeware/chatbot-backend/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// IngestJob is the offline indexing job built from configuration.
type IngestJob struct {
	runner    *ingest.Runner
	corpusDir string
	db        *pgxpool.Pool
	logger    *zap.Logger
}

// BuildIngest wires the embedder and vector index for the ingestion job.
// With ENABLE_MOCKS set the job runs against the in-memory index, which is
// only useful for smoke-testing the pipeline.
func BuildIngest() (*IngestJob, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	var (
		db       *pgxpool.Pool
		index    rag.VectorIndex
		embedder rag.Embedder
	)

	if cfg.EnableMocks {
		log.Info("Using mock embedder and in-memory index")
		index = repository.NewChunkMemory()
		embedder = embedding.NewMockEmbedder(log)
	} else {
		db, err = setupDatabase(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("setup database: %w", err)
		}

		if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
			db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}

		index = repository.NewChunkPostgres(db, cfg.Collection)

		if cfg.Provider == config.ProviderOpenAI {
			embedder = embedding.NewOpenAIEmbedder(cfg.OpenAICfg, log)
		} else {
			embedder = embedding.NewConnector(cfg.EmbeddingConnectorCfg, log)
		}
	}

	return &IngestJob{
		runner:    ingest.NewRunner(embedder, index, log),
		corpusDir: cfg.IngestCfg.CorpusDir,
		db:        db,
		logger:    log,
	}, nil
}

// Run executes the job and releases the database pool.
func (j *IngestJob) Run(ctx context.Context) error {
	defer func() {
		if j.db != nil {
			j.db.Close()
		}
	}()

	count, err := j.runner.Run(ctx, j.corpusDir)
	if err != nil {
		return err
	}

	j.logger.Info("ingestion completed",
		zap.String("corpus_dir", j.corpusDir),
		zap.Int("chunks_indexed", count),
	)
	return nil
}
