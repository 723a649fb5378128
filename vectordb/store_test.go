package vectordb

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
)

type stubEmbedder struct {
	vectors [][]float32
	err     error
}

func (s *stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vectors, nil
}

var _ Embedder = (*stubEmbedder)(nil)

func TestAddRejectsEmptyBatch(t *testing.T) {
	store := NewStore(nil, &stubEmbedder{}, "text-embedding-3-small", 1536, log.New(io.Discard, "", 0))

	if err := store.Add(context.Background(), nil); !errors.Is(err, ErrNoChunks) {
		t.Fatalf("expected ErrNoChunks, got %v", err)
	}
	if err := store.Add(context.Background(), []Chunk{}); !errors.Is(err, ErrNoChunks) {
		t.Fatalf("expected ErrNoChunks for empty slice, got %v", err)
	}
}

func TestAddRequiresEmbedder(t *testing.T) {
	store := NewStore(nil, nil, "m", 8, log.New(io.Discard, "", 0))

	err := store.Add(context.Background(), []Chunk{{ID: "a_chunk_0", Source: "a", Text: "hello"}})
	if err == nil {
		t.Fatal("expected error when embedder is nil")
	}
}

func TestAddPropagatesEmbeddingFailure(t *testing.T) {
	store := NewStore(nil, &stubEmbedder{err: errors.New("provider down")}, "m", 8, log.New(io.Discard, "", 0))

	err := store.Add(context.Background(), []Chunk{{ID: "a_chunk_0", Source: "a", Text: "hello"}})
	if err == nil {
		t.Fatal("expected error when embedding fails")
	}
}

func TestAddRejectsEmbeddingCountMismatch(t *testing.T) {
	store := NewStore(nil, &stubEmbedder{vectors: [][]float32{{0.1}}}, "m", 1, log.New(io.Discard, "", 0))

	chunks := []Chunk{
		{ID: "a_chunk_0", Source: "a", Text: "one"},
		{ID: "a_chunk_1", Source: "a", Ordinal: 1, Text: "two"},
	}
	if err := store.Add(context.Background(), chunks); err == nil {
		t.Fatal("expected error on embedding count mismatch")
	}
}

func TestSearchRequiresPool(t *testing.T) {
	store := NewStore(nil, &stubEmbedder{vectors: [][]float32{{0.1}}}, "m", 1, log.New(io.Discard, "", 0))

	if _, err := store.Search(context.Background(), "query", 4); err == nil {
		t.Fatal("expected error when pool is nil")
	}
}
