package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/askdocs/askdocs/internal/core/domain"
)

func testChunks() ([]domain.Chunk, [][]float32) {
	chunks := []domain.Chunk{
		{DocumentID: "doc-1", Index: 0, Text: "first", Start: 0, End: 5},
		{DocumentID: "doc-1", Index: 1, Text: "second", Start: 3, End: 9},
	}
	vectors := [][]float32{{0.1, 0.2}, {0.3, 0.4}}
	return chunks, vectors
}

func TestIndexChunksEnsuresCollectionOncePerVectorSize(t *testing.T) {
	var ensureCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/collections/docs":
			atomic.AddInt32(&ensureCalls, 1)
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/docs/points":
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	doc := &domain.Document{ID: "doc-1", Filename: "a.txt"}
	chunks, vectors := testChunks()

	if err := client.IndexChunks(context.Background(), doc, chunks, vectors); err != nil {
		t.Fatalf("first IndexChunks() error = %v", err)
	}
	if err := client.IndexChunks(context.Background(), doc, chunks, vectors); err != nil {
		t.Fatalf("second IndexChunks() error = %v", err)
	}
	if got := atomic.LoadInt32(&ensureCalls); got != 1 {
		t.Fatalf("expected ensure collection called once, got %d", got)
	}
}

func TestIndexChunksSendsCitationPayload(t *testing.T) {
	var upsert struct {
		Points []struct {
			Payload map[string]any `json:"payload"`
		} `json:"points"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut && r.URL.Path == "/collections/docs/points" {
			if err := json.NewDecoder(r.Body).Decode(&upsert); err != nil {
				t.Fatalf("decode upsert: %v", err)
			}
			_, _ = w.Write([]byte(`{"status":"ok"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	doc := &domain.Document{ID: "doc-1", Filename: "report.pdf"}
	chunks, vectors := testChunks()
	if err := client.IndexChunks(context.Background(), doc, chunks, vectors); err != nil {
		t.Fatalf("IndexChunks() error = %v", err)
	}

	if len(upsert.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(upsert.Points))
	}
	payload := upsert.Points[1].Payload
	if payload["doc_id"] != "doc-1" || payload["filename"] != "report.pdf" || payload["chunk_index"] != float64(1) {
		t.Fatalf("payload missing citation metadata: %v", payload)
	}
}

func TestSearchDecodesScoredChunks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collections/docs/points/search" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"result":[
			{"id":"p1","score":0.91,"payload":{"doc_id":"doc-1","filename":"a.txt","chunk_index":2,"text":"hit"}},
			{"id":"p2","score":0.40,"payload":{"doc_id":"doc-2","filename":"b.txt","chunk_index":0,"text":"miss"}}
		]}`))
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	results, err := client.Search(context.Background(), []float32{0.1}, 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	first := results[0]
	if first.ChunkID != "p1" || first.DocumentID != "doc-1" || first.Filename != "a.txt" || first.ChunkIndex != 2 || first.Score != 0.91 {
		t.Fatalf("unexpected first result: %+v", first)
	}
}

func TestDeleteByDocumentFiltersOnDocID(t *testing.T) {
	var filter map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/collections/docs/points/delete") {
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("decode delete: %v", err)
			}
			filter, _ = body["filter"].(map[string]any)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	if err := client.DeleteByDocument(context.Background(), "doc-42"); err != nil {
		t.Fatalf("DeleteByDocument() error = %v", err)
	}

	raw, _ := json.Marshal(filter)
	if !strings.Contains(string(raw), "doc-42") || !strings.Contains(string(raw), "doc_id") {
		t.Fatalf("delete filter does not target the document: %s", raw)
	}
}

func TestUpsertErrorIncludesResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut && r.URL.Path == "/collections/docs" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Error(w, "wrong vector size", http.StatusBadRequest)
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	doc := &domain.Document{ID: "doc-1", Filename: "a.txt"}
	chunks, vectors := testChunks()
	err := client.IndexChunks(context.Background(), doc, chunks, vectors)
	if err == nil || !strings.Contains(err.Error(), "wrong vector size") {
		t.Fatalf("expected body in error, got %v", err)
	}
}
