package textproc

import "github.com/askdocs/askdocs/internal/core/domain"

// Splitter cuts normalized text into overlapping chunks. It prefers to
// break at sentence-ending punctuation or line breaks found within
// Lookback runes behind the size limit, and hard-cuts at the limit when
// no boundary is close enough. Offsets are rune positions into the
// input, and chunk text is the exact input slice, so consecutive chunks
// reconstruct the source.
type Splitter struct {
	MaxSize  int
	Overlap  int
	Lookback int
}

func NewSplitter(maxSize, overlap, lookback int) *Splitter {
	if maxSize <= 0 {
		maxSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxSize {
		overlap = maxSize / 5
	}
	if lookback <= 0 || lookback > maxSize {
		lookback = maxSize / 5
	}
	return &Splitter{
		MaxSize:  maxSize,
		Overlap:  overlap,
		Lookback: lookback,
	}
}

func (s *Splitter) Split(documentID, text string) []domain.Chunk {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := s.MaxSize - s.Overlap
	if step <= 0 {
		step = 1
	}
	chunks := make([]domain.Chunk, 0, len(runes)/step+1)
	start := 0
	for {
		end := start + s.MaxSize
		if end >= len(runes) {
			end = len(runes)
		} else if cut := s.boundaryBefore(runes, start, end); cut > start {
			end = cut
		}

		chunks = append(chunks, domain.Chunk{
			DocumentID: documentID,
			Index:      len(chunks),
			Text:       string(runes[start:end]),
			Start:      start,
			End:        end,
		})

		if end == len(runes) {
			return chunks
		}

		next := end - s.Overlap
		if next <= start {
			// Boundary produced a chunk shorter than the overlap;
			// still must advance.
			next = start + 1
		}
		start = next
	}
}

// boundaryBefore scans backward from the hard cutoff for the nearest
// sentence end or line break, at most Lookback runes away. Returns the
// rune position just after the boundary, or -1.
func (s *Splitter) boundaryBefore(runes []rune, start, cutoff int) int {
	limit := cutoff - s.Lookback
	if limit < start {
		limit = start
	}
	for i := cutoff - 1; i >= limit; i-- {
		if runes[i] == '\n' {
			return i + 1
		}
		if isSentenceEnd(runes[i]) && (i+1 == len(runes) || isBreakAfter(runes[i+1])) {
			return i + 1
		}
	}
	return -1
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isBreakAfter(r rune) bool {
	return r == ' ' || r == '\n'
}
