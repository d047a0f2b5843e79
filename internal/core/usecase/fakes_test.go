package usecase

import (
	"context"
	"hash/fnv"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/askdocs/askdocs/internal/core/domain"
	"github.com/askdocs/askdocs/internal/core/ports"
)

type statusCall struct {
	status domain.DocumentStatus
	errMsg string
}

type repoFake struct {
	doc            *domain.Document
	getErr         error
	statusCalls    []statusCall
	processedID    string
	processedCount int
	markErr        error
}

func (f *repoFake) Create(context.Context, *domain.Document) error { return nil }

func (f *repoFake) GetByID(context.Context, string) (*domain.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copyDoc := *f.doc
	return &copyDoc, nil
}

func (f *repoFake) UpdateStatus(_ context.Context, _ string, status domain.DocumentStatus, errMessage string) error {
	f.statusCalls = append(f.statusCalls, statusCall{status: status, errMsg: errMessage})
	return nil
}

func (f *repoFake) MarkProcessed(_ context.Context, id string, chunkCount int) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.processedID = id
	f.processedCount = chunkCount
	return nil
}

func (f *repoFake) List(context.Context) ([]domain.Document, error) { return nil, nil }

type extractorFake struct {
	text string
	err  error
}

func (f *extractorFake) Extract(context.Context, *domain.Document) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

// bagEmbedder is a deterministic test embedder: token counts folded into
// a fixed-width vector, L2-normalized. Similar texts get similar
// vectors, which is all the retrieval tests need.
type bagEmbedder struct {
	err error
}

const bagDim = 64

func (f *bagEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		out = append(out, bagVector(text))
	}
	return out, nil
}

func (f *bagEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := f.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func bagVector(text string) []float32 {
	vec := make([]float32, bagDim)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, ".,!?;:\"'")
		if token == "" {
			continue
		}
		h := fnv.New32a()
		_, _ = h.Write([]byte(token))
		vec[h.Sum32()%bagDim]++
	}
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}
	n := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= n
	}
	return vec
}

type memPoint struct {
	id         string
	documentID string
	filename   string
	chunkIndex int
	text       string
	vector     []float32
}

// memoryIndex is an in-process vector store with cosine scoring, used to
// exercise the pipeline and retriever without a running engine.
type memoryIndex struct {
	points     []memPoint
	indexErr   error
	searchErr  error
	deleteErr  error
	calls      []string
	lastLimit  int
	deletedIDs []string
}

func (m *memoryIndex) IndexChunks(_ context.Context, doc *domain.Document, chunks []domain.Chunk, vectors [][]float32) error {
	m.calls = append(m.calls, "index")
	if m.indexErr != nil {
		return m.indexErr
	}
	for i, c := range chunks {
		m.points = append(m.points, memPoint{
			id:         uuid.NewString(),
			documentID: doc.ID,
			filename:   doc.Filename,
			chunkIndex: c.Index,
			text:       c.Text,
			vector:     vectors[i],
		})
	}
	return nil
}

func (m *memoryIndex) Search(_ context.Context, queryVector []float32, limit int) ([]domain.RetrievedChunk, error) {
	m.calls = append(m.calls, "search")
	m.lastLimit = limit
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	out := make([]domain.RetrievedChunk, 0, len(m.points))
	for _, p := range m.points {
		out = append(out, domain.RetrievedChunk{
			ChunkID:    p.id,
			DocumentID: p.documentID,
			Filename:   p.filename,
			ChunkIndex: p.chunkIndex,
			Text:       p.text,
			Score:      dot(queryVector, p.vector),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryIndex) DeleteByDocument(_ context.Context, documentID string) error {
	m.calls = append(m.calls, "delete")
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedIDs = append(m.deletedIDs, documentID)
	kept := m.points[:0]
	for _, p := range m.points {
		if p.documentID != documentID {
			kept = append(kept, p)
		}
	}
	m.points = kept
	return nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		if i >= len(b) {
			break
		}
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

type generatorFake struct {
	response string
	err      error
	called   bool
	prompt   string
}

func (f *generatorFake) Generate(_ context.Context, prompt string, _ ports.GenerationParams) (string, error) {
	f.called = true
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *generatorFake) Model() string { return "test-model" }
