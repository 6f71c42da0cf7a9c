package session

import (
	"errors"
	"testing"

	"document-chat/internal/models"
	"document-chat/internal/retriever"
)

func testDoc() (*models.ProcessedDocument, retriever.Retriever) {
	doc := &models.ProcessedDocument{
		Chunks:   []models.Chunk{{ID: "p1-o0", PageNumber: 1, Embedding: []float32{1}}},
		FullText: "text",
	}
	return doc, retriever.NewMemory(doc)
}

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry()
	s := r.Create("contract.pdf")
	if s.ID == "" {
		t.Fatal("session has no ID")
	}

	got, err := r.Get(s.ID)
	if err != nil || got != s {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if len(r.List()) != 1 {
		t.Fatalf("List length = %d, want 1", len(r.List()))
	}

	r.Delete(s.ID)
	if _, err := r.Get(s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err after delete = %v, want ErrNotFound", err)
	}
}

func TestAnswerRequiresDocument(t *testing.T) {
	s := NewRegistry().Create("empty")
	if err := s.BeginAnswer(); !errors.Is(err, ErrNoDocument) {
		t.Fatalf("err = %v, want ErrNoDocument", err)
	}
}

func TestSingleAnswerInFlight(t *testing.T) {
	s := NewRegistry().Create("doc")
	doc, rtr := testDoc()
	s.AttachDocument(doc, rtr, s.BeginUpload())

	if err := s.BeginAnswer(); err != nil {
		t.Fatalf("first BeginAnswer: %v", err)
	}
	if err := s.BeginAnswer(); !errors.Is(err, ErrAnswerInFlight) {
		t.Fatalf("second BeginAnswer err = %v, want ErrAnswerInFlight", err)
	}
	s.EndAnswer()
	if err := s.BeginAnswer(); err != nil {
		t.Fatalf("BeginAnswer after EndAnswer: %v", err)
	}
}

func TestStaleUploadIsDiscarded(t *testing.T) {
	s := NewRegistry().Create("doc")
	first := s.BeginUpload()
	second := s.BeginUpload()

	staleDoc, staleRtr := testDoc()
	if s.AttachDocument(staleDoc, staleRtr, first) {
		t.Fatal("stale upload attached")
	}
	if _, _, err := s.Document(); !errors.Is(err, ErrNoDocument) {
		t.Fatalf("stale upload became observable: %v", err)
	}

	doc, rtr := testDoc()
	if !s.AttachDocument(doc, rtr, second) {
		t.Fatal("current upload rejected")
	}
	got, _, err := s.Document()
	if err != nil || got != doc {
		t.Fatalf("Document = %v, %v", got, err)
	}
}

func TestTranscriptIsCopied(t *testing.T) {
	s := NewRegistry().Create("doc")
	s.Append(models.Message{Role: models.RoleUser, Content: "hi"})

	transcript := s.Transcript()
	transcript[0].Content = "mutated"
	if s.Transcript()[0].Content != "hi" {
		t.Error("transcript exposed internal state")
	}
}
