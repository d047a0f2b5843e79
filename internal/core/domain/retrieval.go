package domain

import "sort"

// Query is a question against the indexed corpus. MinScore drops
// candidates below the similarity cutoff even when they are inside the
// top-k; zero disables the cutoff.
type Query struct {
	Question string  `json:"question"`
	TopK     int     `json:"top_k"`
	MinScore float64 `json:"min_score"`
}

// RetrievedChunk is a chunk returned by vector search together with its
// similarity score and enough metadata to build a citation without
// re-reading the document.
type RetrievedChunk struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
}

// SortRetrieved orders chunks by descending score. Ties are broken by
// document id and ascending chunk index so identical queries produce
// identical orderings regardless of the vector engine's native tie order.
func SortRetrieved(chunks []RetrievedChunk) {
	sort.SliceStable(chunks, func(i, j int) bool {
		if chunks[i].Score != chunks[j].Score {
			return chunks[i].Score > chunks[j].Score
		}
		if chunks[i].DocumentID != chunks[j].DocumentID {
			return chunks[i].DocumentID < chunks[j].DocumentID
		}
		return chunks[i].ChunkIndex < chunks[j].ChunkIndex
	})
}

// Answer is the final response for one question. If Success is true,
// Sources is non-empty and the answer text is constrained to the
// retrieved chunks via the grounding prompt.
type Answer struct {
	Text       string   `json:"text"`
	Sources    []string `json:"sources"`
	Success    bool     `json:"success"`
	ChunksUsed int      `json:"chunks_used"`
	Model      string   `json:"model,omitempty"`
	Error      string   `json:"error,omitempty"`
}
