package usecase

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/askdocs/askdocs/internal/core/domain"
	"github.com/askdocs/askdocs/internal/core/ports"
)

const (
	defaultEmbedBatchSize   = 16
	defaultEmbedConcurrency = 4
)

type ProcessOptions struct {
	EmbedBatchSize   int
	EmbedConcurrency int
	// EmbedRateLimit throttles embedding batches per second; zero means
	// unlimited.
	EmbedRateLimit float64
}

type ProcessDocumentUseCase struct {
	repo       ports.DocumentRepository
	extractor  ports.TextExtractor
	normalizer ports.Normalizer
	chunker    ports.Chunker
	embedder   ports.Embedder
	vectorDB   ports.VectorStore

	batchSize   int
	concurrency int
	limiter     *rate.Limiter
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	extractor ports.TextExtractor,
	normalizer ports.Normalizer,
	chunker ports.Chunker,
	embedder ports.Embedder,
	vectorDB ports.VectorStore,
	opts ProcessOptions,
) *ProcessDocumentUseCase {
	batchSize := opts.EmbedBatchSize
	if batchSize <= 0 {
		batchSize = defaultEmbedBatchSize
	}
	concurrency := opts.EmbedConcurrency
	if concurrency <= 0 {
		concurrency = defaultEmbedConcurrency
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.EmbedRateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.EmbedRateLimit), 1)
	}
	return &ProcessDocumentUseCase{
		repo:        repo,
		extractor:   extractor,
		normalizer:  normalizer,
		chunker:     chunker,
		embedder:    embedder,
		vectorDB:    vectorDB,
		batchSize:   batchSize,
		concurrency: concurrency,
		limiter:     limiter,
	}
}

// ProcessByID runs the full extract-normalize-chunk-embed-index pipeline
// for one uploaded document. The run is idempotent: previously indexed
// chunks for the document are removed before the new set is inserted, so
// re-processing never leaves duplicate or stale citations. On any
// failure the document is marked failed and a typed error is returned;
// no reader ever observes a partially indexed document as processed.
func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) (domain.ProcessingResult, error) {
	result, err := uc.runPipeline(ctx, documentID)
	if err != nil {
		if failErr := uc.repo.UpdateStatus(ctx, documentID, domain.StatusFailed, err.Error()); failErr != nil {
			return domain.ProcessingResult{}, fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return domain.ProcessingResult{
			DocumentID: documentID,
			Status:     domain.StatusFailed,
		}, err
	}
	return result, nil
}

func (uc *ProcessDocumentUseCase) runPipeline(ctx context.Context, documentID string) (domain.ProcessingResult, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return domain.ProcessingResult{}, fmt.Errorf("fetch document by id: %w", err)
	}

	raw, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		return domain.ProcessingResult{}, fmt.Errorf("extract text: %w", err)
	}

	text := uc.normalizer.Normalize(raw)
	chunks := uc.chunker.Split(doc.ID, text)

	// An empty document is a degenerate success, not a failure: it is
	// recorded as processed with zero chunks, and any chunks from an
	// earlier run are still purged.
	if len(chunks) == 0 {
		if err := uc.vectorDB.DeleteByDocument(ctx, doc.ID); err != nil {
			return domain.ProcessingResult{}, domain.WrapError(domain.ErrPipeline, "purge existing chunks", err)
		}
		if err := uc.repo.MarkProcessed(ctx, doc.ID, 0); err != nil {
			return domain.ProcessingResult{}, fmt.Errorf("mark processed: %w", err)
		}
		return domain.ProcessingResult{
			DocumentID: doc.ID,
			ChunkCount: 0,
			Status:     domain.StatusProcessed,
		}, nil
	}

	vectors, err := uc.embedChunks(ctx, chunks)
	if err != nil {
		return domain.ProcessingResult{}, domain.WrapError(domain.ErrPipeline, "embed chunks", err)
	}

	if err := uc.vectorDB.DeleteByDocument(ctx, doc.ID); err != nil {
		return domain.ProcessingResult{}, domain.WrapError(domain.ErrPipeline, "purge existing chunks", err)
	}
	if err := uc.vectorDB.IndexChunks(ctx, doc, chunks, vectors); err != nil {
		return domain.ProcessingResult{}, domain.WrapError(domain.ErrPipeline, "index chunks", err)
	}

	if err := uc.repo.MarkProcessed(ctx, doc.ID, len(chunks)); err != nil {
		return domain.ProcessingResult{}, fmt.Errorf("mark processed: %w", err)
	}

	return domain.ProcessingResult{
		DocumentID: doc.ID,
		ChunkCount: len(chunks),
		Status:     domain.StatusProcessed,
	}, nil
}

// embedChunks embeds the chunk texts in batches, fanning batches out
// across a bounded worker group. Results land at fixed offsets so the
// returned vectors align with the chunk order.
func (uc *ProcessDocumentUseCase) embedChunks(ctx context.Context, chunks []domain.Chunk) ([][]float32, error) {
	vectors := make([][]float32, len(chunks))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(uc.concurrency)

	for offset := 0; offset < len(chunks); offset += uc.batchSize {
		start := offset
		end := start + uc.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		group.Go(func() error {
			if err := uc.limiter.Wait(groupCtx); err != nil {
				return err
			}

			texts := make([]string, 0, end-start)
			for _, c := range chunks[start:end] {
				texts = append(texts, c.Text)
			}

			batch, err := uc.embedder.Embed(groupCtx, texts)
			if err != nil {
				return fmt.Errorf("embed batch [%d:%d]: %w", start, end, err)
			}
			if len(batch) != len(texts) {
				return fmt.Errorf("embed batch [%d:%d]: vectors/texts mismatch: %d/%d", start, end, len(batch), len(texts))
			}
			copy(vectors[start:end], batch)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}
