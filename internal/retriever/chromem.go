package retriever

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"

	"document-chat/internal/models"
)

const chromemCollection = "document"

// Chromem indexes one document's chunks in an in-memory chromem-go
// collection and answers similarity queries from it.
type Chromem struct {
	collection *chromem.Collection
}

// NewChromem loads the document's embedded chunks into a fresh in-memory
// collection. Page numbers round-trip through document metadata.
func NewChromem(ctx context.Context, doc *models.ProcessedDocument) (*Chromem, error) {
	db := chromem.NewDB()
	collection, err := db.GetOrCreateCollection(chromemCollection, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("creating collection: %w", err)
	}

	docs := make([]chromem.Document, 0, len(doc.Chunks))
	for _, chunk := range doc.Chunks {
		docs = append(docs, chromem.Document{
			ID:        chunk.ID,
			Content:   chunk.Text,
			Metadata:  map[string]string{"page": strconv.Itoa(chunk.PageNumber)},
			Embedding: chunk.Embedding,
		})
	}
	if len(docs) > 0 {
		if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
			return nil, fmt.Errorf("indexing chunks: %w", err)
		}
	}
	return &Chromem{collection: collection}, nil
}

func (c *Chromem) Retrieve(ctx context.Context, query []float32, topK int) ([]models.ScoredChunk, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if n := c.collection.Count(); topK > n {
		topK = n
	}
	if topK == 0 {
		return nil, nil
	}

	results, err := c.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: query,
		NResults:       topK,
	})
	if err != nil {
		return nil, fmt.Errorf("querying collection: %w", err)
	}

	scored := make([]models.ScoredChunk, 0, len(results))
	for _, res := range results {
		page, err := strconv.Atoi(res.Metadata["page"])
		if err != nil {
			return nil, fmt.Errorf("corrupt page metadata on %s: %w", res.ID, err)
		}
		scored = append(scored, models.ScoredChunk{
			Chunk: models.Chunk{
				ID:         res.ID,
				Text:       res.Content,
				PageNumber: page,
				Embedding:  res.Embedding,
			},
			Score: float64(res.Similarity),
		})
	}
	return scored, nil
}
