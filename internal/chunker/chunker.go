package chunker

import (
	"errors"
	"fmt"

	"document-chat/internal/models"
)

const (
	DefaultChunkSize = 4000 // characters
	DefaultOverlap   = 500  // characters
)

// ErrChunkConfig is returned when the window cannot advance: the overlap
// must be positive and strictly smaller than the chunk size.
var ErrChunkConfig = errors.New("chunker: overlap must be > 0 and < chunk size")

// Chunker slides a fixed-size character window over each page's text.
type Chunker struct {
	chunkSize int
	overlap   int
}

// New validates the window bounds up front so the chunking loop can never
// stall on a non-positive step.
func New(chunkSize, overlap int) (*Chunker, error) {
	if chunkSize <= 0 || overlap <= 0 || overlap >= chunkSize {
		return nil, ErrChunkConfig
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}, nil
}

// Chunk splits every page into overlapping windows, preserving page order.
// Each window advances by chunkSize-overlap characters; the window whose
// end reaches the page length is emitted last, so trailing text is never
// lost. A page shorter than the chunk size yields exactly one chunk.
func (c *Chunker) Chunk(pages []models.Page) []models.Chunk {
	var chunks []models.Chunk
	step := c.chunkSize - c.overlap
	for _, page := range pages {
		if page.Text == "" {
			continue
		}
		for start := 0; ; start += step {
			end := start + c.chunkSize
			if end > len(page.Text) {
				end = len(page.Text)
			}
			chunks = append(chunks, models.Chunk{
				ID:         chunkID(page.PageNumber, start),
				Text:       page.Text[start:end],
				PageNumber: page.PageNumber,
			})
			if end == len(page.Text) {
				break
			}
		}
	}
	return chunks
}

// chunkID is deterministic per document: page number plus start offset.
func chunkID(pageNumber, offset int) string {
	return fmt.Sprintf("p%d-o%d", pageNumber, offset)
}
