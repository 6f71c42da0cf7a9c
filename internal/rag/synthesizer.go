package rag

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"document-chat/internal/embedding"
	"document-chat/internal/llmservice"
	"document-chat/internal/models"
	"document-chat/internal/retriever"
)

// ErrNoContext is surfaced when the retrieval path finds nothing to
// ground an answer in (e.g. every chunk failed embedding).
var ErrNoContext = errors.New("rag: no retrievable content in document")

// Synthesizer builds the prompt for a question and drives streamed
// generation, appending a source-attribution footer after the answer.
type Synthesizer struct {
	embedder  embedding.Embedder
	generator llmservice.Generator
	topK      int
}

func NewSynthesizer(embedder embedding.Embedder, generator llmservice.Generator, topK int) *Synthesizer {
	if topK <= 0 {
		topK = retriever.DefaultTopK
	}
	return &Synthesizer{embedder: embedder, generator: generator, topK: topK}
}

// Answer starts producing the answer to question over doc. Fragments are
// written to the returned stream in order; the stream closes after the
// attribution footer or after an error fragment. Cancelling ctx stops
// production; fragments already emitted are the caller's to keep.
func (s *Synthesizer) Answer(ctx context.Context, doc *models.ProcessedDocument, rtr retriever.Retriever, question string) *Stream {
	out := make(chan Fragment, streamBuffer)
	strategy := SelectStrategy(question)
	log.Debug().Stringer("strategy", strategy).Msg("Answering question")

	go func() {
		defer close(out)
		if strategy == StrategySummary {
			s.answerSummary(ctx, out, doc, question)
		} else {
			s.answerRetrieval(ctx, out, rtr, question)
		}
	}()
	return &Stream{C: out}
}

// answerSummary prompts over the full document text. The ranker never
// runs on this path.
func (s *Synthesizer) answerSummary(ctx context.Context, out chan<- Fragment, doc *models.ProcessedDocument, question string) {
	text := doc.FullText
	if len(text) > models.MaxSummaryContextChars {
		text = text[:models.MaxSummaryContextChars] + models.TruncationMarker
	}
	prompt := fmt.Sprintf(models.SummaryPromptTemplate, text, question)
	if !s.generate(ctx, out, prompt) {
		return
	}
	emit(ctx, out, Fragment{Text: models.FullDocumentSource})
}

func (s *Synthesizer) answerRetrieval(ctx context.Context, out chan<- Fragment, rtr retriever.Retriever, question string) {
	queryVec, err := s.embedder.EmbedQuery(ctx, question)
	if err != nil {
		// Fatal for this turn, unlike per-chunk failures during upload.
		emit(ctx, out, Fragment{Err: fmt.Errorf("embedding the question: %w", err)})
		return
	}

	scored, err := rtr.Retrieve(ctx, queryVec, s.topK)
	if err != nil {
		emit(ctx, out, Fragment{Err: fmt.Errorf("ranking document chunks: %w", err)})
		return
	}
	if len(scored) == 0 {
		emit(ctx, out, Fragment{Err: ErrNoContext})
		return
	}

	var contextText strings.Builder
	for i, sc := range scored {
		if i > 0 {
			contextText.WriteString(models.ContextSeparator)
		}
		contextText.WriteString(sc.Text)
	}
	prompt := fmt.Sprintf(models.RetrievalPromptTemplate, contextText.String(), question)
	if !s.generate(ctx, out, prompt) {
		return
	}
	emit(ctx, out, Fragment{Text: citation(scored)})
}

// generate streams the completion, forwarding fragments verbatim and in
// order. On mid-stream failure a visible error fragment follows whatever
// was already forwarded. Returns whether the appendix should be emitted.
func (s *Synthesizer) generate(ctx context.Context, out chan<- Fragment, prompt string) bool {
	err := s.generator.GenerateStream(ctx, prompt, func(fragment string) error {
		if fragment == "" {
			return nil
		}
		if !emit(ctx, out, Fragment{Text: fragment}) {
			return ctx.Err()
		}
		return nil
	})
	if err != nil {
		emit(ctx, out, Fragment{Err: fmt.Errorf("generating answer: %w", err)})
		return false
	}
	return true
}

// citation lists the sorted unique page numbers behind the answer.
func citation(scored []models.ScoredChunk) string {
	seen := make(map[int]bool, len(scored))
	var pages []int
	for _, sc := range scored {
		if !seen[sc.PageNumber] {
			seen[sc.PageNumber] = true
			pages = append(pages, sc.PageNumber)
		}
	}
	sort.Ints(pages)

	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = strconv.Itoa(p)
	}
	if len(pages) == 1 {
		return fmt.Sprintf("\n\n*Source: Page %s*", parts[0])
	}
	return fmt.Sprintf("\n\n*Sources: Pages %s*", strings.Join(parts, ", "))
}
