package models

// Page is one page of extracted document text, 1-based and ordered.
type Page struct {
	PageNumber int
	Text       string
}

// Chunk is a fixed-size window of one page's text. Embedding stays nil
// until the embedding phase has run; a chunk that never receives an
// embedding is dropped before retrieval.
type Chunk struct {
	ID         string
	Text       string
	PageNumber int
	Embedding  []float32
}

// ScoredChunk pairs a chunk with its similarity to the current query.
// It exists only for the duration of one answer.
type ScoredChunk struct {
	Chunk
	Score float64
}

// ProcessedDocument is the embedded form of one uploaded document:
// all surviving chunks plus the page texts concatenated in page order.
// Immutable after creation and owned by exactly one session.
type ProcessedDocument struct {
	Chunks   []Chunk
	FullText string
}

// Message is a single transcript entry.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
