package session

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"document-chat/internal/models"
	"document-chat/internal/retriever"
)

var (
	// ErrNotFound is returned for unknown session IDs.
	ErrNotFound = errors.New("session: not found")
	// ErrAnswerInFlight rejects a second question while one is pending.
	ErrAnswerInFlight = errors.New("session: an answer is already being generated")
	// ErrNoDocument is returned when a question arrives before an upload.
	ErrNoDocument = errors.New("session: no document has been uploaded")
)

// Session owns one processed document and its conversation transcript.
// All mutation goes through its methods; nothing is shared across
// sessions.
type Session struct {
	ID        string
	Title     string
	CreatedAt time.Time

	mu          sync.Mutex
	doc         *models.ProcessedDocument
	retriever   retriever.Retriever
	transcript  []models.Message
	answering   bool
	uploadEpoch uint64
}

// BeginUpload marks the start of a document upload and returns its epoch.
// Starting a new upload invalidates the epoch of any upload still in
// flight, so a stale result can never attach.
func (s *Session) BeginUpload() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadEpoch++
	return s.uploadEpoch
}

// AttachDocument installs the processed document if the epoch is still
// current. A superseded upload completes into nothing observable.
func (s *Session) AttachDocument(doc *models.ProcessedDocument, rtr retriever.Retriever, epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.uploadEpoch {
		return false
	}
	s.doc = doc
	s.retriever = rtr
	return true
}

// Document returns the session's document and retriever, or ErrNoDocument.
func (s *Session) Document() (*models.ProcessedDocument, retriever.Retriever, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, nil, ErrNoDocument
	}
	return s.doc, s.retriever, nil
}

// BeginAnswer claims the session's single answer slot. The caller must
// EndAnswer once the stream is fully consumed; transcript appends between
// the two calls cannot interleave with another turn's.
func (s *Session) BeginAnswer() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ErrNoDocument
	}
	if s.answering {
		return ErrAnswerInFlight
	}
	s.answering = true
	return nil
}

func (s *Session) EndAnswer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answering = false
}

// Append adds a message to the transcript.
func (s *Session) Append(msg models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, msg)
}

// Transcript returns a copy of the conversation so far.
func (s *Session) Transcript() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Registry is the explicit session table: every session is reached
// through it, there is no ambient global state.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

func (r *Registry) Create(title string) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: time.Now(),
	}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// List returns sessions ordered by creation time, oldest first.
func (r *Registry) List() []*Session {
	r.mu.RLock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
