package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/askdocs/askdocs/internal/core/domain"
	"github.com/askdocs/askdocs/internal/core/ports"
)

const defaultTopK = 5

var errEmptyQuestion = errors.New("question is empty")

type RetrieveUseCase struct {
	embedder ports.Embedder
	vectorDB ports.VectorStore
	topK     int
}

func NewRetrieveUseCase(embedder ports.Embedder, vectorDB ports.VectorStore, topK int) *RetrieveUseCase {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &RetrieveUseCase{
		embedder: embedder,
		vectorDB: vectorDB,
		topK:     topK,
	}
}

// Retrieve embeds the question with the same embedder used for chunks,
// fetches the top-k nearest neighbors and applies the optional score
// cutoff. The result may hold fewer than k chunks, including zero; an
// empty index is not an error.
func (uc *RetrieveUseCase) Retrieve(ctx context.Context, query domain.Query) ([]domain.RetrievedChunk, error) {
	if strings.TrimSpace(query.Question) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "retrieve", errEmptyQuestion)
	}

	topK := query.TopK
	if topK <= 0 {
		topK = uc.topK
	}

	queryVector, err := uc.embedder.EmbedQuery(ctx, query.Question)
	if err != nil {
		return nil, domain.WrapError(domain.ErrRetrieval, "embed query", err)
	}

	candidates, err := uc.vectorDB.Search(ctx, queryVector, topK)
	if err != nil {
		return nil, domain.WrapError(domain.ErrRetrieval, "search vector index", err)
	}

	if query.MinScore > 0 {
		kept := candidates[:0]
		for _, c := range candidates {
			if c.Score >= query.MinScore {
				kept = append(kept, c)
			}
		}
		candidates = kept
	}

	domain.SortRetrieved(candidates)
	return candidates, nil
}
