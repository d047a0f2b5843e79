package usecase

import (
	"context"

	"github.com/askdocs/askdocs/internal/core/domain"
	"github.com/askdocs/askdocs/internal/core/ports"
)

// AskUseCase is the single-call question pipeline: retrieve candidate
// chunks, then compose the grounded answer from them.
type AskUseCase struct {
	retriever ports.ChunkRetriever
	composer  ports.AnswerComposer
}

func NewAskUseCase(retriever ports.ChunkRetriever, composer ports.AnswerComposer) *AskUseCase {
	return &AskUseCase{
		retriever: retriever,
		composer:  composer,
	}
}

func (uc *AskUseCase) Ask(ctx context.Context, query domain.Query) (domain.Answer, error) {
	chunks, err := uc.retriever.Retrieve(ctx, query)
	if err != nil {
		return domain.Answer{}, err
	}
	return uc.composer.Answer(ctx, query.Question, chunks), nil
}
