// ABOUTME: Chunk represents a bounded slice of a knowledge source document
// ABOUTME: Chunk IDs are monotonically increasing within a source
package models

import "fmt"

// Chunk is a bounded piece of a source document prepared for indexing.
// Immutable once created by the chunker.
type Chunk struct {
	Source  string `json:"source"`
	ChunkID int    `json:"chunk_id"`
	Text    string `json:"text"`
}

// DocumentID returns the vector index document key for this chunk.
func (c Chunk) DocumentID() string {
	return fmt.Sprintf("%s::chunk::%d", c.Source, c.ChunkID)
}
