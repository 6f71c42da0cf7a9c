package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"document-chat/internal/models"
)

// Websocket frame types.
const (
	TypePing  = "ping"
	TypePong  = "pong"
	TypeChat  = "chat"  // request: one question for one session
	TypeDelta = "delta" // response: one ordered answer fragment
	TypeDone  = "done"  // response: the answer stream ended normally
	TypeError = "error" // response: user-visible failure for this turn
)

type wsRequest struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type wsChatPayload struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

type wsResponse struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// handleWebSocket drives the chat protocol: each chat request is answered
// by ordered delta frames followed by done, or by an error frame. The
// per-session single-answer guard rejects a second question while one is
// streaming.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		var req wsRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("Websocket read failed")
			}
			return
		}

		switch req.Type {
		case TypePing:
			if err := conn.WriteJSON(wsResponse{Type: TypePong}); err != nil {
				return
			}
		case TypeChat:
			var payload wsChatPayload
			if err := json.Unmarshal(req.Payload, &payload); err != nil {
				conn.WriteJSON(wsResponse{Type: TypeError, Payload: "invalid chat payload"})
				continue
			}
			if err := s.answer(ctx, conn, payload); err != nil {
				return
			}
		default:
			conn.WriteJSON(wsResponse{Type: TypeError, Payload: "unknown message type"})
		}
	}
}

// answer runs one question turn. A non-nil return means the connection
// is unusable; per-turn failures are reported in-band and return nil.
func (s *Server) answer(ctx context.Context, conn *websocket.Conn, payload wsChatPayload) error {
	sess, err := s.registry.Get(payload.SessionID)
	if err != nil {
		return conn.WriteJSON(wsResponse{Type: TypeError, Payload: err.Error()})
	}
	if err := sess.BeginAnswer(); err != nil {
		return conn.WriteJSON(wsResponse{Type: TypeError, Payload: err.Error()})
	}
	defer sess.EndAnswer()

	doc, rtr, err := sess.Document()
	if err != nil {
		return conn.WriteJSON(wsResponse{Type: TypeError, Payload: err.Error()})
	}

	sess.Append(models.Message{Role: models.RoleUser, Content: payload.Question})

	stream := s.synthesizer.Answer(ctx, doc, rtr, payload.Question)
	var answer []byte
	for fragment := range stream.C {
		if fragment.Err != nil {
			// The partial answer stands; the failure is its own visible
			// message, never a silent drop of the turn.
			if len(answer) > 0 {
				sess.Append(models.Message{Role: models.RoleAssistant, Content: string(answer)})
			}
			sess.Append(models.Message{Role: models.RoleAssistant, Content: fragment.Err.Error()})
			return conn.WriteJSON(wsResponse{Type: TypeError, Payload: fragment.Err.Error()})
		}
		answer = append(answer, fragment.Text...)
		if err := conn.WriteJSON(wsResponse{Type: TypeDelta, Payload: fragment.Text}); err != nil {
			// The connection died mid-stream; the caller's deferred
			// cancel unblocks the producer.
			return err
		}
	}

	sess.Append(models.Message{Role: models.RoleAssistant, Content: string(answer)})
	return conn.WriteJSON(wsResponse{Type: TypeDone})
}
