package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"document-chat/internal/parser"
	"document-chat/internal/retriever"
)

type sessionInfo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sess := s.registry.Create(req.Title)
	writeJSON(w, http.StatusCreated, dataResponse{
		Status: "ok",
		Data:   sessionInfo{ID: sess.ID, Title: sess.Title},
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := s.registry.List()
	infos := make([]sessionInfo, len(sessions))
	for i, sess := range sessions {
		infos[i] = sessionInfo{ID: sess.ID, Title: sess.Title}
	}
	writeJSON(w, http.StatusOK, dataResponse{Status: "ok", Data: infos})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.registry.Delete(r.PathValue("id"))
	writeJSON(w, http.StatusOK, dataResponse{Status: "ok"})
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sess, err := s.registry.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Status: "ok", Data: sess.Transcript()})
}

// handleUpload ingests a document for a session, streaming progress as
// server-sent events. The terminal event carries the result; a failed
// upload leaves the session exactly as it was.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sess, err := s.registry.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid file")
		return
	}
	defer file.Close()

	tmpPath, err := s.saveUpload(file, header.Filename)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer os.Remove(tmpPath)

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")

	sendEvent := func(payload any) {
		data, err := json.Marshal(payload)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}

	epoch := sess.BeginUpload()
	doc, err := s.ingestor.Process(r.Context(), tmpPath, func(status string) {
		sendEvent(map[string]string{"status": "processing", "message": status})
	})
	if err != nil {
		var extErr *parser.ExtractionError
		if errors.As(err, &extErr) {
			log.Warn().Err(err).Str("session", sess.ID).Msg("Extraction failed")
		} else {
			log.Error().Err(err).Str("session", sess.ID).Msg("Upload failed")
		}
		sendEvent(map[string]string{"status": "error", "message": err.Error()})
		return
	}

	rtr, err := retriever.New(r.Context(), s.retriever, doc)
	if err != nil {
		sendEvent(map[string]string{"status": "error", "message": err.Error()})
		return
	}
	if !sess.AttachDocument(doc, rtr, epoch) {
		// A newer upload superseded this one; its result is discarded.
		sendEvent(map[string]string{"status": "superseded"})
		return
	}
	sendEvent(map[string]any{
		"status": "done",
		"title":  header.Filename,
		"chunks": len(doc.Chunks),
	})
}

func (s *Server) saveUpload(file io.Reader, name string) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("creating upload dir: %w", err)
	}
	dst, err := os.CreateTemp(s.uploadDir, "upload-*"+filepath.Ext(name))
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("writing upload: %w", err)
	}
	return dst.Name(), nil
}
