// ABOUTME: Capability interfaces consumed by the RAG engine
// ABOUTME: Lets the orchestrator's branching run against deterministic fakes in tests
package rag

import (
	"context"

	"github.com/uniqlabs/ragbot/internal/models"
)

// Embedder turns texts into fixed-length vectors, order-preserving.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer generates text from system instructions, a user turn, and
// prior conversation history.
type Completer interface {
	ChatComplete(ctx context.Context, system, user string, history []models.Message, maxTokens int, temperature float32) (string, error)
}

// Index is a persistent nearest-neighbor store over embedded chunks.
type Index interface {
	Reset(ctx context.Context) error
	Upsert(ctx context.Context, chunks []models.Chunk, embeddings [][]float32) error
	Query(ctx context.Context, embedding []float32, topK int) ([]models.SearchHit, error)
}
