package ports

import (
	"context"
	"io"

	"github.com/askdocs/askdocs/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload
// orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename string, body io.Reader) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for running the
// extract-normalize-chunk-index pipeline on an uploaded document.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) (domain.ProcessingResult, error)
}

// ChunkRetriever converts a question into ranked candidate chunks.
type ChunkRetriever interface {
	Retrieve(ctx context.Context, query domain.Query) ([]domain.RetrievedChunk, error)
}

// AnswerComposer turns a question plus retrieved chunks into a grounded
// answer with citations.
type AnswerComposer interface {
	Answer(ctx context.Context, question string, chunks []domain.RetrievedChunk) domain.Answer
}

// QuestionService is the one-call inbound contract used by the API
// layer: retrieve then compose.
type QuestionService interface {
	Ask(ctx context.Context, query domain.Query) (domain.Answer, error)
}

// DocumentReader is the inbound read model for document metadata.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context) ([]domain.Document, error)
}
