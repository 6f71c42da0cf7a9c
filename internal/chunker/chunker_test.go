package chunker

import (
	"strings"
	"testing"

	"document-chat/internal/models"
)

func TestNewRejectsBadWindowBounds(t *testing.T) {
	cases := []struct {
		name      string
		chunkSize int
		overlap   int
	}{
		{"zero chunk size", 0, 0},
		{"zero overlap", 4000, 0},
		{"negative overlap", 4000, -1},
		{"overlap equals chunk size", 500, 500},
		{"overlap exceeds chunk size", 500, 600},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.chunkSize, tc.overlap); err != ErrChunkConfig {
				t.Fatalf("New(%d, %d) err = %v, want ErrChunkConfig", tc.chunkSize, tc.overlap, err)
			}
		})
	}
}

func TestShortPageYieldsSingleChunk(t *testing.T) {
	c, err := New(DefaultChunkSize, DefaultOverlap)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	page := models.Page{PageNumber: 1, Text: "a short page"}

	chunks := c.Chunk([]models.Page{page})
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != page.Text {
		t.Errorf("chunk text = %q, want the whole page", chunks[0].Text)
	}
	if chunks[0].PageNumber != 1 {
		t.Errorf("page number = %d, want 1", chunks[0].PageNumber)
	}
}

func TestTwoPageDocumentWindows(t *testing.T) {
	c, err := New(4000, 500)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	pages := []models.Page{
		{PageNumber: 1, Text: strings.Repeat("a", 4500)},
		{PageNumber: 2, Text: strings.Repeat("b", 100)},
	}

	chunks := c.Chunk(pages)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if chunks[0].ID != "p1-o0" || chunks[1].ID != "p1-o3500" || chunks[2].ID != "p2-o0" {
		t.Fatalf("unexpected chunk IDs: %q, %q, %q", chunks[0].ID, chunks[1].ID, chunks[2].ID)
	}
	if len(chunks[0].Text) != 4000 {
		t.Errorf("first window length = %d, want 4000", len(chunks[0].Text))
	}
	if len(chunks[1].Text) != 1000 {
		t.Errorf("second window length = %d, want 1000", len(chunks[1].Text))
	}
}

func TestFinalWindowReachesPageEnd(t *testing.T) {
	c, err := New(10, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	text := "abcdefghijklmnopqrstuvwxyz"
	chunks := c.Chunk([]models.Page{{PageNumber: 1, Text: text}})
	if len(chunks) == 0 {
		t.Fatal("no chunks produced")
	}
	last := chunks[len(chunks)-1]
	if !strings.HasSuffix(text, last.Text) {
		t.Errorf("final chunk %q does not end the page", last.Text)
	}
	// Every character must be covered by at least one window.
	covered := make([]bool, len(text))
	for _, ch := range chunks {
		offset := parseOffset(t, ch.ID)
		for i := offset; i < offset+len(ch.Text); i++ {
			covered[i] = true
		}
	}
	for i, ok := range covered {
		if !ok {
			t.Fatalf("character %d never covered by a window", i)
		}
	}
}

func TestPageExactlyChunkSize(t *testing.T) {
	c, err := New(100, 20)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	chunks := c.Chunk([]models.Page{{PageNumber: 3, Text: strings.Repeat("x", 100)}})
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk for an exact-size page, got %d", len(chunks))
	}
}

func TestEmptyPageProducesNothing(t *testing.T) {
	c, err := New(100, 20)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	chunks := c.Chunk([]models.Page{{PageNumber: 1, Text: ""}})
	if len(chunks) != 0 {
		t.Fatalf("expected no chunks for an empty page, got %d", len(chunks))
	}
}

func parseOffset(t *testing.T, id string) int {
	t.Helper()
	idx := strings.Index(id, "-o")
	if idx < 0 {
		t.Fatalf("malformed chunk ID %q", id)
	}
	var offset int
	for _, r := range id[idx+2:] {
		offset = offset*10 + int(r-'0')
	}
	return offset
}
