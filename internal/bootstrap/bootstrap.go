package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/askdocs/askdocs/internal/config"
	"github.com/askdocs/askdocs/internal/core/ports"
	"github.com/askdocs/askdocs/internal/core/usecase"
	"github.com/askdocs/askdocs/internal/infrastructure/extractor"
	"github.com/askdocs/askdocs/internal/infrastructure/llm/ollama"
	"github.com/askdocs/askdocs/internal/infrastructure/queue/nats"
	"github.com/askdocs/askdocs/internal/infrastructure/repository/postgres"
	"github.com/askdocs/askdocs/internal/infrastructure/resilience"
	"github.com/askdocs/askdocs/internal/infrastructure/storage/localfs"
	"github.com/askdocs/askdocs/internal/infrastructure/textproc"
	"github.com/askdocs/askdocs/internal/infrastructure/vector/qdrant"
)

// App wires configuration, infrastructure adapters and use cases for
// both binaries. The api uses IngestUC/AskUC/Repo; the worker uses
// Queue/ProcessUC.
type App struct {
	Config config.Config

	Queue ports.MessageQueue
	Repo  ports.DocumentRepository

	IngestUC  ports.DocumentIngestor
	ProcessUC ports.DocumentProcessor
	AskUC     ports.QuestionService

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
		Logger:             logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	ollamaClient := ollama.NewWithOptions(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, ollama.Options{
		ResilienceExecutor: executor,
	})
	embedder := ollama.NewEmbedder(ollamaClient)
	generator := ollama.NewGenerator(ollamaClient)

	vectorDB := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection)
	normalizer := textproc.NewNormalizer()
	splitter := textproc.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap, cfg.ChunkLookback)
	registry := extractor.NewRegistry(storage)

	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(repo, registry, normalizer, splitter, embedder, vectorDB, usecase.ProcessOptions{
		EmbedBatchSize:   cfg.EmbedBatchSize,
		EmbedConcurrency: cfg.EmbedConcurrency,
		EmbedRateLimit:   cfg.EmbedRatePerSec,
	})
	retrieveUC := usecase.NewRetrieveUseCase(embedder, vectorDB, cfg.RAGTopK)
	answerUC := usecase.NewAnswerUseCase(generator, ports.GenerationParams{
		Temperature: cfg.LLMTemperature,
		TopP:        cfg.LLMTopP,
		MaxTokens:   cfg.LLMMaxTokens,
	})
	askUC := usecase.NewAskUseCase(retrieveUC, answerUC)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		IngestUC:  ingestUC,
		ProcessUC: processUC,
		AskUC:     askUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
