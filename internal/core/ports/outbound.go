package ports

import (
	"context"
	"io"

	"github.com/askdocs/askdocs/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	MarkProcessed(ctx context.Context, id string, chunkCount int) error
	List(ctx context.Context) ([]domain.Document, error)
}

// ObjectStorage stores the raw bytes of uploaded documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes document-ingested events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts raw text from a stored document. Fails with
// domain.ErrUnsupportedFormat for formats it cannot read and
// domain.ErrExtraction for corrupt input.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// Normalizer cleans raw extracted text before splitting. Total and
// idempotent.
type Normalizer interface {
	Normalize(text string) string
}

// Chunker splits normalized text into overlapping retrieval units.
// Deterministic for identical input and configuration.
type Chunker interface {
	Split(documentID, text string) []domain.Chunk
}

// Embedder builds vectors for chunks and query text. Chunk and query
// embeddings must come from the same model so they live in one vector
// space.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorStore indexes chunks and answers nearest-neighbor queries.
// Upsert and Search are individually atomic; DeleteByDocument removes
// every chunk of one document so re-processing never leaves stale
// citations behind.
type VectorStore interface {
	IndexChunks(ctx context.Context, doc *domain.Document, chunks []domain.Chunk, vectors [][]float32) error
	Search(ctx context.Context, queryVector []float32, limit int) ([]domain.RetrievedChunk, error)
	DeleteByDocument(ctx context.Context, documentID string) error
}

// GenerationParams are passed through to the model, never computed by
// the core.
type GenerationParams struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// Generator is the language-model capability.
type Generator interface {
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)
	Model() string
}
