package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/askdocs/askdocs/internal/core/domain"
	"github.com/askdocs/askdocs/internal/core/ports"
)

// NoAnswerMessage is returned when retrieval produced nothing usable.
// It is a defined outcome, not an error: the system states that the
// documents do not contain the answer instead of inventing one.
const NoAnswerMessage = "I couldn't find any relevant information in the uploaded documents to answer this question."

type AnswerUseCase struct {
	generator ports.Generator
	params    ports.GenerationParams
}

func NewAnswerUseCase(generator ports.Generator, params ports.GenerationParams) *AnswerUseCase {
	return &AnswerUseCase{
		generator: generator,
		params:    params,
	}
}

// Answer composes a grounded answer from the supplied chunks. With zero
// chunks the model is never invoked. Citations are the distinct
// filenames of the chunks given to the model, not anything parsed back
// out of the generated text. A model failure is reported in the answer,
// never replaced with a guess.
func (uc *AnswerUseCase) Answer(ctx context.Context, question string, chunks []domain.RetrievedChunk) domain.Answer {
	if len(chunks) == 0 {
		return domain.Answer{
			Text:    NoAnswerMessage,
			Sources: []string{},
			Success: false,
			Model:   uc.generator.Model(),
		}
	}

	prompt := buildGroundedPrompt(question, chunks)
	text, err := uc.generator.Generate(ctx, prompt, uc.params)
	if err != nil {
		return domain.Answer{
			Sources:    []string{},
			Success:    false,
			ChunksUsed: len(chunks),
			Model:      uc.generator.Model(),
			Error:      domain.WrapError(domain.ErrGeneration, "generate answer", err).Error(),
		}
	}

	return domain.Answer{
		Text:       strings.TrimSpace(text),
		Sources:    distinctFilenames(chunks),
		Success:    true,
		ChunksUsed: len(chunks),
		Model:      uc.generator.Model(),
	}
}

func distinctFilenames(chunks []domain.RetrievedChunk) []string {
	seen := make(map[string]struct{}, len(chunks))
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if c.Filename == "" {
			continue
		}
		if _, ok := seen[c.Filename]; ok {
			continue
		}
		seen[c.Filename] = struct{}{}
		out = append(out, c.Filename)
	}
	sort.Strings(out)
	return out
}
