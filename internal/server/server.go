package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"document-chat/internal/ingest"
	"document-chat/internal/rag"
	"document-chat/internal/session"
)

// Server exposes the document-chat boundary: session management, document
// upload with streamed progress, and a websocket chat with streamed
// answers.
type Server struct {
	registry    *session.Registry
	ingestor    *ingest.Ingestor
	synthesizer *rag.Synthesizer
	retriever   string // backend name
	uploadDir   string
	upgrader    websocket.Upgrader
}

func New(registry *session.Registry, ingestor *ingest.Ingestor, synthesizer *rag.Synthesizer, retrieverBackend, uploadDir string) *Server {
	return &Server{
		registry:    registry,
		ingestor:    ingestor,
		synthesizer: synthesizer,
		retriever:   retrieverBackend,
		uploadDir:   uploadDir,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/v1/sessions", s.handleListSessions)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("GET /api/v1/sessions/{id}/transcript", s.handleTranscript)
	mux.HandleFunc("POST /api/v1/sessions/{id}/document", s.handleUpload)
	mux.HandleFunc("GET /api/v1/ws", s.handleWebSocket)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// Run blocks serving the boundary API.
func (s *Server) Run(port string) error {
	log.Info().Str("port", port).Msg("Starting server")
	return http.ListenAndServe(":"+port, s.Handler())
}

type dataResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, body dataResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("Writing response failed")
	}
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, dataResponse{Status: "error", Message: message})
}
