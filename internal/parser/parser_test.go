package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestParseTextSinglePage(t *testing.T) {
	path := writeFile(t, "doc.txt", "  hello world\nsecond line  ")

	pages, err := ParsePages(path)
	if err != nil {
		t.Fatalf("ParsePages: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	if pages[0].PageNumber != 1 {
		t.Errorf("page number = %d, want 1", pages[0].PageNumber)
	}
	if pages[0].Text != "hello world\nsecond line" {
		t.Errorf("unexpected page text %q", pages[0].Text)
	}
}

func TestParseMarkdownStripsMarkup(t *testing.T) {
	path := writeFile(t, "doc.md", "# Title\n\nSome **bold** text.\n\n- item one\n- item two\n")

	pages, err := ParsePages(path)
	if err != nil {
		t.Fatalf("ParsePages: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	text := pages[0].Text
	for _, want := range []string{"Title", "Some bold text.", "item one", "item two"} {
		if !strings.Contains(text, want) {
			t.Errorf("extracted text missing %q:\n%s", want, text)
		}
	}
	for _, marker := range []string{"#", "**", "- "} {
		if strings.Contains(text, marker) {
			t.Errorf("markup %q leaked into extracted text:\n%s", marker, text)
		}
	}
}

func TestParseUnsupportedFormat(t *testing.T) {
	path := writeFile(t, "doc.wav", "not a document")

	_, err := ParsePages(path)
	var extErr *ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("err = %v, want *ExtractionError", err)
	}
}

func TestParseCorruptPDF(t *testing.T) {
	path := writeFile(t, "doc.pdf", "this is not a pdf")

	_, err := ParsePages(path)
	var extErr *ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("err = %v, want *ExtractionError", err)
	}
}

func TestEmptyTextFileYieldsNoPages(t *testing.T) {
	path := writeFile(t, "doc.txt", "   \n  ")

	pages, err := ParsePages(path)
	if err != nil {
		t.Fatalf("ParsePages: %v", err)
	}
	if len(pages) != 0 {
		t.Fatalf("expected no pages, got %d", len(pages))
	}
}
