package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"document-chat/internal/models"
)

// fakeEmbedder fails for chunk texts listed in fail and records the order
// in which calls arrive.
type fakeEmbedder struct {
	mu    sync.Mutex
	fail  map[string]bool
	calls []string
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	f.mu.Unlock()
	if f.fail[text] {
		return nil, errors.New("embedding backend unavailable")
	}
	return []float32{1, 0, 0}, nil
}

func makeChunks(n int) []models.Chunk {
	chunks := make([]models.Chunk, n)
	for i := range chunks {
		chunks[i] = models.Chunk{
			ID:         fmt.Sprintf("p1-o%d", i*100),
			Text:       fmt.Sprintf("chunk-%d", i),
			PageNumber: 1,
		}
	}
	return chunks
}

func TestEmbedAllDropsFailedChunks(t *testing.T) {
	chunks := makeChunks(7)
	fake := &fakeEmbedder{fail: map[string]bool{"chunk-2": true, "chunk-5": true}}

	embedded, err := EmbedAll(context.Background(), fake, chunks, nil)
	if err != nil {
		t.Fatalf("EmbedAll: %v", err)
	}
	if len(embedded) != 5 {
		t.Fatalf("expected 5 surviving chunks, got %d", len(embedded))
	}
	for _, ch := range embedded {
		if ch.Text == "chunk-2" || ch.Text == "chunk-5" {
			t.Errorf("failed chunk %s survived", ch.Text)
		}
		if ch.Embedding == nil {
			t.Errorf("surviving chunk %s has no embedding", ch.ID)
		}
	}
}

func TestEmbedAllPreservesChunkOrder(t *testing.T) {
	chunks := makeChunks(12)
	fake := &fakeEmbedder{}

	embedded, err := EmbedAll(context.Background(), fake, chunks, nil)
	if err != nil {
		t.Fatalf("EmbedAll: %v", err)
	}
	if len(embedded) != len(chunks) {
		t.Fatalf("expected %d chunks, got %d", len(chunks), len(embedded))
	}
	for i, ch := range embedded {
		if ch.ID != chunks[i].ID {
			t.Fatalf("chunk %d out of order: got %s, want %s", i, ch.ID, chunks[i].ID)
		}
	}
}

func TestEmbedAllBatchOrdering(t *testing.T) {
	chunks := makeChunks(11)
	fake := &fakeEmbedder{}

	if _, err := EmbedAll(context.Background(), fake, chunks, nil); err != nil {
		t.Fatalf("EmbedAll: %v", err)
	}
	// Calls within a batch are unordered, but no call from batch N+1 may
	// arrive before every call of batch N.
	position := make(map[string]int, len(fake.calls))
	for i, text := range fake.calls {
		position[text] = i
	}
	for i := range chunks {
		batch := i / BatchSize
		for j := range chunks {
			if j/BatchSize > batch && position[chunks[j].Text] < position[chunks[i].Text] {
				t.Fatalf("batch %d call %q arrived before batch %d call %q",
					j/BatchSize, chunks[j].Text, batch, chunks[i].Text)
			}
		}
	}
}

func TestEmbedAllReportsProgressPerBatch(t *testing.T) {
	chunks := makeChunks(12)
	fake := &fakeEmbedder{}
	var statuses []string

	if _, err := EmbedAll(context.Background(), fake, chunks, func(s string) {
		statuses = append(statuses, s)
	}); err != nil {
		t.Fatalf("EmbedAll: %v", err)
	}
	if len(statuses) != 3 {
		t.Fatalf("expected 3 progress reports, got %d: %v", len(statuses), statuses)
	}
	if !strings.Contains(statuses[0], "1-5") || !strings.Contains(statuses[2], "11-12") {
		t.Errorf("unexpected progress statuses: %v", statuses)
	}
}

func TestEmbedAllHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := EmbedAll(ctx, &fakeEmbedder{}, makeChunks(3), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
