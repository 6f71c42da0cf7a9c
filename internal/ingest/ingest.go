package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"document-chat/internal/chunker"
	"document-chat/internal/embedding"
	"document-chat/internal/models"
	"document-chat/internal/parser"
)

// ErrEmptyDocument means extraction succeeded but produced no text worth
// indexing. Fatal for the upload, like an extraction failure.
var ErrEmptyDocument = errors.New("ingest: document contains no extractable text")

// Ingestor runs the upload pipeline: extract pages, chunk them, embed
// the chunks in batches.
type Ingestor struct {
	chunker  *chunker.Chunker
	embedder embedding.Embedder
}

func New(c *chunker.Chunker, e embedding.Embedder) *Ingestor {
	return &Ingestor{chunker: c, embedder: e}
}

// Process turns a document file into a ProcessedDocument. Any fatal error
// leaves no partial result; the caller's pre-upload state is untouched.
func (ig *Ingestor) Process(ctx context.Context, filePath string, onProgress embedding.ProgressFunc) (*models.ProcessedDocument, error) {
	pages, err := parser.ParsePages(filePath)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, ErrEmptyDocument
	}
	report(onProgress, fmt.Sprintf("Extracted %d pages", len(pages)))

	chunks := ig.chunker.Chunk(pages)
	log.Debug().Int("pages", len(pages)).Int("chunks", len(chunks)).Str("file", filePath).Msg("Chunked document")

	embedded, err := embedding.EmbedAll(ctx, ig.embedder, chunks, onProgress)
	if err != nil {
		return nil, err
	}
	if len(embedded) == 0 {
		return nil, ErrEmptyDocument
	}
	report(onProgress, fmt.Sprintf("Indexed %d of %d chunks", len(embedded), len(chunks)))

	return &models.ProcessedDocument{
		Chunks:   embedded,
		FullText: fullText(pages),
	}, nil
}

// fullText joins page texts in page order, separated by a blank line.
func fullText(pages []models.Page) string {
	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.Text
	}
	return strings.Join(texts, "\n\n")
}

func report(onProgress embedding.ProgressFunc, status string) {
	if onProgress != nil {
		onProgress(status)
	}
}
