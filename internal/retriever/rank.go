package retriever

import (
	"errors"
	"math"
	"sort"

	"document-chat/internal/models"
)

// DefaultTopK is the retrieval cutoff applied after ranking.
const DefaultTopK = 8

// ErrDimensionMismatch signals an internal contract violation: the query
// vector and a chunk embedding have different widths. Not user-recoverable.
var ErrDimensionMismatch = errors.New("retriever: embedding dimension mismatch")

// Cosine computes dot(a,b) / (||a||*||b||) over vectors of equal length.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Rank scores every chunk against the query vector and returns the top k
// by descending similarity. Ties keep insertion order. Fewer than k
// available chunks means all of them are returned.
func Rank(query []float32, chunks []models.Chunk, topK int) ([]models.ScoredChunk, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	scored := make([]models.ScoredChunk, 0, len(chunks))
	for _, chunk := range chunks {
		score, err := Cosine(query, chunk.Embedding)
		if err != nil {
			return nil, err
		}
		scored = append(scored, models.ScoredChunk{Chunk: chunk, Score: score})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}
