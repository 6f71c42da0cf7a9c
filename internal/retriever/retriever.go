package retriever

import (
	"context"

	"document-chat/internal/config"
	"document-chat/internal/models"
)

// Retriever returns the chunks most similar to a query vector, best first.
// Implementations index exactly one ProcessedDocument.
type Retriever interface {
	Retrieve(ctx context.Context, query []float32, topK int) ([]models.ScoredChunk, error)
}

// New builds the retriever backend named by the config for one document.
func New(ctx context.Context, backend string, doc *models.ProcessedDocument) (Retriever, error) {
	if backend == config.RetrieverChromem {
		return NewChromem(ctx, doc)
	}
	return NewMemory(doc), nil
}

// Memory ranks the document's chunks by brute-force cosine similarity.
// The default backend, and the one the tests exercise.
type Memory struct {
	chunks []models.Chunk
}

func NewMemory(doc *models.ProcessedDocument) *Memory {
	return &Memory{chunks: doc.Chunks}
}

func (m *Memory) Retrieve(_ context.Context, query []float32, topK int) ([]models.ScoredChunk, error) {
	return Rank(query, m.chunks, topK)
}
