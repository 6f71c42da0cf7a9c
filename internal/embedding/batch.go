package embedding

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"document-chat/internal/models"
)

// BatchSize bounds how many embedding calls are outstanding at once.
const BatchSize = 5

// ProgressFunc receives a human-readable status line per batch boundary.
// Purely observational, never blocks processing semantics.
type ProgressFunc func(status string)

// EmbedAll populates chunk embeddings in fixed-size batches. Calls within
// a batch run concurrently; batch N+1 never starts before batch N has
// settled. A failed chunk is logged and dropped, it does not abort its
// siblings or later batches. Only chunks that received an embedding are
// returned, in their original order.
func EmbedAll(ctx context.Context, embedder Embedder, chunks []models.Chunk, onProgress ProgressFunc) ([]models.Chunk, error) {
	embedded := make([]models.Chunk, 0, len(chunks))
	for start := 0; start < len(chunks); start += BatchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := start + BatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		report(onProgress, fmt.Sprintf("Embedding chunks %d-%d of %d", start+1, end, len(chunks)))

		vectors := make([][]float32, end-start)
		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				vec, err := embedder.EmbedQuery(ctx, chunks[i].Text)
				if err != nil {
					log.Warn().Err(err).Str("chunk", chunks[i].ID).Msg("Embedding failed, dropping chunk")
					return
				}
				vectors[i-start] = vec
			}(i)
		}
		wg.Wait()

		for i := start; i < end; i++ {
			if vectors[i-start] == nil {
				continue
			}
			chunk := chunks[i]
			chunk.Embedding = vectors[i-start]
			embedded = append(embedded, chunk)
		}
	}
	return embedded, nil
}

func report(onProgress ProgressFunc, status string) {
	if onProgress != nil {
		onProgress(status)
	}
}
