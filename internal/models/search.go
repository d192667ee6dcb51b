// ABOUTME: SearchHit pairs a retrieved chunk with its similarity score
// ABOUTME: Similarity is approximately cosine in [0,1] but callers must not assume strict bounds
package models

// SearchHit is one result of a vector index query.
type SearchHit struct {
	Chunk      Chunk   `json:"chunk"`
	Similarity float64 `json:"similarity"`
}
