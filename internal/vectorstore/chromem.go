// ABOUTME: Vector index backed by chromem-go with precomputed embeddings
// ABOUTME: Supports full reset, idempotent upsert by chunk id, and top-k similarity query
package vectorstore

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"

	chromem "github.com/philippgille/chromem-go"
	"go.uber.org/zap"

	"github.com/uniqlabs/ragbot/internal/models"
)

// Store wraps a chromem-go collection holding knowledge chunks.
// All embeddings are computed by the caller; the collection's own
// embedding function is never used.
type Store struct {
	db     *chromem.DB
	name   string
	logger *zap.Logger

	mu  sync.Mutex
	col *chromem.Collection
}

// New opens a persistent store under path.
func New(path, collection string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory %s: %w", path, err)
	}

	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("opening chromem database: %w", err)
	}
	return newStore(db, collection, logger)
}

// NewInMemory creates a non-persistent store, used in tests.
func NewInMemory(collection string, logger *zap.Logger) (*Store, error) {
	return newStore(chromem.NewDB(), collection, logger)
}

func newStore(db *chromem.DB, collection string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{db: db, name: collection, logger: logger}

	col, err := db.GetOrCreateCollection(collection, nil, rejectEmbedding)
	if err != nil {
		return nil, fmt.Errorf("creating collection %s: %w", collection, err)
	}
	s.col = col
	return s, nil
}

// rejectEmbedding guards against chromem falling back to its own embedder;
// every document and query carries a precomputed vector.
func rejectEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("store requires precomputed embeddings")
}

// Reset deletes and recreates the collection. Safe to call when the
// collection does not exist.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.DeleteCollection(s.name); err != nil {
		return fmt.Errorf("deleting collection %s: %w", s.name, err)
	}
	col, err := s.db.GetOrCreateCollection(s.name, nil, rejectEmbedding)
	if err != nil {
		return fmt.Errorf("recreating collection %s: %w", s.name, err)
	}
	s.col = col

	s.logger.Info("vector index reset", zap.String("collection", s.name))
	return nil
}

// Upsert writes chunks[i] with embeddings[i], keyed by the chunk's
// document id. Writing an existing id replaces its text and vector.
func (s *Store) Upsert(ctx context.Context, chunks []models.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("chunk/embedding length mismatch: %d != %d", len(chunks), len(embeddings))
	}
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(chunks))
	for i, c := range chunks {
		docs[i] = chromem.Document{
			ID:      c.DocumentID(),
			Content: c.Text,
			Metadata: map[string]string{
				"source":   c.Source,
				"chunk_id": strconv.Itoa(c.ChunkID),
			},
			Embedding: embeddings[i],
		}
	}

	s.mu.Lock()
	col := s.col
	s.mu.Unlock()

	if err := col.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("upserting %d documents: %w", len(docs), err)
	}

	s.logger.Debug("upserted chunks", zap.String("collection", s.name), zap.Int("count", len(docs)))
	return nil
}

// Query returns up to topK hits sorted descending by similarity.
// An empty collection yields an empty result, never an error. topK is
// clamped to the collection size.
func (s *Store) Query(ctx context.Context, embedding []float32, topK int) ([]models.SearchHit, error) {
	s.mu.Lock()
	col := s.col
	s.mu.Unlock()

	count := col.Count()
	if count == 0 {
		return nil, nil
	}
	if topK > count {
		topK = count
	}

	results, err := col.QueryEmbedding(ctx, embedding, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying collection %s: %w", s.name, err)
	}

	hits := make([]models.SearchHit, 0, len(results))
	for _, r := range results {
		// A hit with unreadable metadata degrades to a zero-id, zero-score
		// chunk rather than failing the whole query.
		chunkID, idErr := strconv.Atoi(r.Metadata["chunk_id"])
		similarity := float64(r.Similarity)
		if idErr != nil {
			chunkID = 0
			similarity = 0.0
		}
		hits = append(hits, models.SearchHit{
			Chunk: models.Chunk{
				Source:  r.Metadata["source"],
				ChunkID: chunkID,
				Text:    r.Content,
			},
			Similarity: similarity,
		})
	}
	return hits, nil
}

// Count returns the number of indexed documents.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.col.Count()
}
