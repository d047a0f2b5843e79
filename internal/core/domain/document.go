package domain

import "time"

type DocumentStatus string

const (
	StatusPending   DocumentStatus = "pending"
	StatusProcessed DocumentStatus = "processed"
	StatusFailed    DocumentStatus = "failed"
)

// Document is the metadata record for one uploaded file. It becomes
// immutable once Status reaches processed; re-uploading creates a new
// Document with a fresh ID.
type Document struct {
	ID          string         `json:"id"`
	Filename    string         `json:"filename"`
	Format      string         `json:"format"`
	ByteSize    int64          `json:"byte_size"`
	StoragePath string         `json:"storage_path"`
	Status      DocumentStatus `json:"status"`
	ChunkCount  int            `json:"chunk_count"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Chunk is one bounded segment of a document's normalized text, the unit
// of retrieval. Start/End are rune offsets into the normalized text and
// Text is exactly that slice, so the normalized text is reconstructable
// from the non-overlapping parts of consecutive chunks.
type Chunk struct {
	DocumentID string `json:"document_id"`
	Index      int    `json:"index"`
	Text       string `json:"text"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
}

// Len reports the chunk length in runes.
func (c Chunk) Len() int {
	return c.End - c.Start
}

// ProcessingResult summarizes one pipeline run for a document.
type ProcessingResult struct {
	DocumentID string         `json:"document_id"`
	ChunkCount int            `json:"chunk_count"`
	Status     DocumentStatus `json:"status"`
}
