package usecase

import (
	"fmt"
	"strings"

	"github.com/askdocs/askdocs/internal/core/domain"
)

// buildGroundedPrompt enumerates each chunk under its source filename
// and constrains the model to that context. The wording carries the
// anti-hallucination contract: answer only from the sources, and say so
// when they do not contain the answer.
func buildGroundedPrompt(question string, chunks []domain.RetrievedChunk) string {
	var context strings.Builder
	for i, chunk := range chunks {
		context.WriteString(fmt.Sprintf("[SOURCE %d: %s]\n%s\n\n", i+1, chunk.Filename, chunk.Text))
	}

	return fmt.Sprintf(`You are a helpful assistant that answers questions based on provided documents.

CONTEXT FROM DOCUMENTS:
%s
QUESTION: %s

INSTRUCTIONS:
- Answer the question using ONLY the information provided in the context above
- If you cannot answer based on the provided context, say "I cannot find this information in the provided documents"
- Always cite your sources by mentioning the document name
- Be precise and factual
- Do not make up information not found in the context

ANSWER:`, context.String(), question)
}
