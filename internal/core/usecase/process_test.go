package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/askdocs/askdocs/internal/core/domain"
	"github.com/askdocs/askdocs/internal/infrastructure/textproc"
)

func newProcessUC(repo *repoFake, extractor *extractorFake, embedder *bagEmbedder, index *memoryIndex) *ProcessDocumentUseCase {
	return NewProcessDocumentUseCase(
		repo,
		extractor,
		textproc.NewNormalizer(),
		textproc.NewSplitter(60, 15, 25),
		embedder,
		index,
		ProcessOptions{EmbedBatchSize: 2, EmbedConcurrency: 2},
	)
}

func pendingDoc() *domain.Document {
	return &domain.Document{
		ID:       "doc-1",
		Filename: "notes.txt",
		Format:   ".txt",
		Status:   domain.StatusPending,
	}
}

func TestProcessIndexesChunksAndMarksProcessed(t *testing.T) {
	repo := &repoFake{doc: pendingDoc()}
	extractor := &extractorFake{text: "First sentence of the document. Second sentence with more words in it. Third one closes the file."}
	index := &memoryIndex{}
	uc := newProcessUC(repo, extractor, &bagEmbedder{}, index)

	result, err := uc.ProcessByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}
	if result.Status != domain.StatusProcessed {
		t.Fatalf("expected processed status, got %s", result.Status)
	}
	if result.ChunkCount == 0 || result.ChunkCount != len(index.points) {
		t.Fatalf("chunk count %d does not match indexed points %d", result.ChunkCount, len(index.points))
	}
	if repo.processedID != "doc-1" || repo.processedCount != result.ChunkCount {
		t.Fatalf("repository not marked processed with chunk count: %s/%d", repo.processedID, repo.processedCount)
	}
}

func TestProcessPurgesExistingChunksBeforeIndexing(t *testing.T) {
	repo := &repoFake{doc: pendingDoc()}
	extractor := &extractorFake{text: "Some content that will be chunked and indexed."}
	index := &memoryIndex{}
	uc := newProcessUC(repo, extractor, &bagEmbedder{}, index)

	if _, err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}

	deleteSeen := false
	for _, call := range index.calls {
		if call == "delete" {
			deleteSeen = true
		}
		if call == "index" && !deleteSeen {
			t.Fatalf("index called before delete: %v", index.calls)
		}
	}
	if !deleteSeen {
		t.Fatalf("expected DeleteByDocument call, got %v", index.calls)
	}
}

func TestProcessTwiceLeavesSingleChunkSet(t *testing.T) {
	repo := &repoFake{doc: pendingDoc()}
	extractor := &extractorFake{text: "Re-uploadable content. It spans a couple of sentences to produce chunks."}
	index := &memoryIndex{}
	uc := newProcessUC(repo, extractor, &bagEmbedder{}, index)

	first, err := uc.ProcessByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("first ProcessByID() error = %v", err)
	}
	second, err := uc.ProcessByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("second ProcessByID() error = %v", err)
	}
	if first.ChunkCount != second.ChunkCount {
		t.Fatalf("chunk counts differ between runs: %d vs %d", first.ChunkCount, second.ChunkCount)
	}
	if len(index.points) != second.ChunkCount {
		t.Fatalf("expected exactly one chunk set (%d points), got %d", second.ChunkCount, len(index.points))
	}
}

func TestProcessEmptyDocumentIsDegenerateSuccess(t *testing.T) {
	repo := &repoFake{doc: pendingDoc()}
	extractor := &extractorFake{text: "   \n\n  "}
	index := &memoryIndex{}
	uc := newProcessUC(repo, extractor, &bagEmbedder{}, index)

	result, err := uc.ProcessByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}
	if result.Status != domain.StatusProcessed || result.ChunkCount != 0 {
		t.Fatalf("expected processed with zero chunks, got %+v", result)
	}
	if repo.processedCount != 0 || repo.processedID != "doc-1" {
		t.Fatalf("repository not marked processed: %+v", repo)
	}
	for _, call := range index.calls {
		if call == "index" {
			t.Fatalf("no chunks should be indexed for empty document")
		}
	}
}

func TestProcessExtractionFailureMarksFailed(t *testing.T) {
	repo := &repoFake{doc: pendingDoc()}
	extractor := &extractorFake{err: domain.WrapError(domain.ErrExtraction, "read pdf", errors.New("corrupt xref"))}
	uc := newProcessUC(repo, extractor, &bagEmbedder{}, &memoryIndex{})

	result, err := uc.ProcessByID(context.Background(), "doc-1")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrExtraction) {
		t.Fatalf("expected extraction kind, got %v", err)
	}
	if result.Status != domain.StatusFailed {
		t.Fatalf("expected failed status in result, got %s", result.Status)
	}
	if len(repo.statusCalls) == 0 || repo.statusCalls[len(repo.statusCalls)-1].status != domain.StatusFailed {
		t.Fatalf("document not marked failed: %+v", repo.statusCalls)
	}
}

func TestProcessEmbedFailureIsPipelineError(t *testing.T) {
	repo := &repoFake{doc: pendingDoc()}
	extractor := &extractorFake{text: "Content to embed."}
	uc := newProcessUC(repo, extractor, &bagEmbedder{err: errors.New("model offline")}, &memoryIndex{})

	_, err := uc.ProcessByID(context.Background(), "doc-1")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrPipeline) {
		t.Fatalf("expected pipeline kind, got %v", err)
	}
}

func TestProcessIndexFailureMarksFailed(t *testing.T) {
	repo := &repoFake{doc: pendingDoc()}
	extractor := &extractorFake{text: "Content that fails at the indexing stage."}
	index := &memoryIndex{indexErr: errors.New("qdrant unreachable")}
	uc := newProcessUC(repo, extractor, &bagEmbedder{}, index)

	_, err := uc.ProcessByID(context.Background(), "doc-1")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrPipeline) {
		t.Fatalf("expected pipeline kind, got %v", err)
	}
	if len(repo.statusCalls) == 0 || repo.statusCalls[len(repo.statusCalls)-1].status != domain.StatusFailed {
		t.Fatalf("document not marked failed: %+v", repo.statusCalls)
	}
	if repo.processedID != "" {
		t.Fatalf("document must not be marked processed after index failure")
	}
}
