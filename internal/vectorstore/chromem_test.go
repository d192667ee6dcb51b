// ABOUTME: Tests for the chromem-go backed vector index
// ABOUTME: Verifies reset, idempotent upsert, ordering, and empty-index queries

package vectorstore

import (
	"context"
	"testing"

	"github.com/uniqlabs/ragbot/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewInMemory("test_kb", nil)
	if err != nil {
		t.Fatalf("NewInMemory() error = %v", err)
	}
	return s
}

func testChunks() []models.Chunk {
	return []models.Chunk{
		{Source: "a.txt", ChunkID: 0, Text: "the head office is in Chennai"},
		{Source: "a.txt", ChunkID: 1, Text: "the company sells training courses"},
		{Source: "b.txt", ChunkID: 0, Text: "support is available on weekdays"},
	}
}

func testVectors() [][]float32 {
	return [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

func TestQuery_EmptyIndex(t *testing.T) {
	s := newTestStore(t)

	hits, err := s.Query(context.Background(), []float32{1, 0, 0}, 8)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("Query() returned %d hits, want 0 for empty index", len(hits))
	}
}

func TestUpsertAndQuery_SortedDescending(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Upsert(ctx, testChunks(), testVectors()); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	// Closest to the first vector, with some spill onto the second.
	hits, err := s.Query(ctx, []float32{0.9, 0.4, 0}, 3)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("Query() returned %d hits, want 3", len(hits))
	}

	for i := 1; i < len(hits); i++ {
		if hits[i].Similarity > hits[i-1].Similarity {
			t.Errorf("hits not sorted descending: hits[%d]=%v > hits[%d]=%v",
				i, hits[i].Similarity, i-1, hits[i-1].Similarity)
		}
	}

	best := hits[0]
	if best.Chunk.Source != "a.txt" || best.Chunk.ChunkID != 0 {
		t.Errorf("best hit = %s::%d, want a.txt::0", best.Chunk.Source, best.Chunk.ChunkID)
	}
	if best.Chunk.Text != "the head office is in Chennai" {
		t.Errorf("best hit text = %q", best.Chunk.Text)
	}
}

func TestQuery_ClampsTopK(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Upsert(ctx, testChunks(), testVectors()); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	hits, err := s.Query(ctx, []float32{1, 0, 0}, 50)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(hits) != 3 {
		t.Errorf("Query() returned %d hits, want 3 (clamped to index size)", len(hits))
	}
}

func TestUpsert_IdempotentByDocumentID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	chunk := models.Chunk{Source: "a.txt", ChunkID: 0, Text: "old text"}
	if err := s.Upsert(ctx, []models.Chunk{chunk}, [][]float32{{0, 1, 0}}); err != nil {
		t.Fatalf("first Upsert() error = %v", err)
	}

	// Same (source, chunk_id), new text and vector: must replace, not duplicate.
	chunk.Text = "new text"
	if err := s.Upsert(ctx, []models.Chunk{chunk}, [][]float32{{1, 0, 0}}); err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}

	if got := s.Count(); got != 1 {
		t.Fatalf("Count() = %d, want 1 after re-upserting the same id", got)
	}

	hits, err := s.Query(ctx, []float32{1, 0, 0}, 1)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if hits[0].Chunk.Text != "new text" {
		t.Errorf("hit text = %q, want %q", hits[0].Chunk.Text, "new text")
	}
	if hits[0].Similarity < 0.99 {
		t.Errorf("similarity = %v, want ~1.0 against the latest vector", hits[0].Similarity)
	}
}

func TestUpsert_LengthMismatch(t *testing.T) {
	s := newTestStore(t)

	err := s.Upsert(context.Background(), testChunks(), testVectors()[:2])
	if err == nil {
		t.Error("Upsert() error = nil, want length mismatch error")
	}
}

func TestReset_ClearsIndex(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Upsert(ctx, testChunks(), testVectors()); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	if got := s.Count(); got != 0 {
		t.Errorf("Count() = %d, want 0 after reset", got)
	}

	hits, err := s.Query(ctx, []float32{1, 0, 0}, 3)
	if err != nil {
		t.Fatalf("Query() after reset error = %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("Query() after reset returned %d hits, want 0", len(hits))
	}

	// Reset again on the freshly recreated collection: must stay idempotent.
	if err := s.Reset(ctx); err != nil {
		t.Errorf("second Reset() error = %v", err)
	}
}

func TestQuery_MetadataRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Upsert(ctx, testChunks(), testVectors()); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	hits, err := s.Query(ctx, []float32{0, 0, 1}, 1)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if hits[0].Chunk.Source != "b.txt" || hits[0].Chunk.ChunkID != 0 {
		t.Errorf("hit chunk = %s::%d, want b.txt::0", hits[0].Chunk.Source, hits[0].Chunk.ChunkID)
	}
}
