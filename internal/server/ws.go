package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// wsCommand is a client-to-server frame on the draft socket.
type wsCommand struct {
	Type     string `json:"type"` // "bid", "pause" or "resume"
	PlayerID string `json:"player_id"`
	TeamID   string `json:"team_id,omitempty"`
	Amount   int    `json:"amount,omitempty"`
}

// wsError is pushed back to a client whose command was rejected.
type wsError struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func (s *Server) upgrader() websocket.Upgrader {
	origin := s.cfg.AllowedOrigin
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if origin == "*" {
				return true
			}
			return r.Header.Get("Origin") == origin
		},
	}
}

// handleWS upgrades the connection and bridges it to the room's broadcast
// feed. Commands arriving on the socket go through the same manager calls as
// the REST endpoints.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")
	if _, err := s.rooms.Get(roomID); err != nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "room_id", roomID, "error", err)
		return
	}

	frames, unsubscribe := s.hub.Subscribe(roomID)
	defer unsubscribe()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go s.writeLoop(ctx, conn, frames)
	s.readLoop(ctx, conn, roomID)
}

func (s *Server) writeLoop(ctx context.Context, conn *websocket.Conn, frames <-chan []byte) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer conn.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn, roomID string) {
	defer conn.Close()
	conn.SetReadLimit(1 << 12)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket closed unexpectedly", "room_id", roomID, "error", err)
			}
			return
		}

		var cmd wsCommand
		if err := json.Unmarshal(payload, &cmd); err != nil {
			s.writeWSError(conn, "malformed command")
			continue
		}

		if err := s.dispatchCommand(ctx, roomID, cmd); err != nil {
			s.writeWSError(conn, err.Error())
		}
	}
}

func (s *Server) dispatchCommand(ctx context.Context, roomID string, cmd wsCommand) error {
	switch cmd.Type {
	case "bid":
		return s.drafts.SubmitBid(ctx, roomID, cmd.PlayerID, cmd.TeamID, cmd.Amount)
	case "pause":
		return s.drafts.Pause(ctx, roomID, cmd.PlayerID)
	case "resume":
		return s.drafts.Resume(ctx, roomID, cmd.PlayerID)
	default:
		return errUnknownCommand
	}
}

func (s *Server) writeWSError(conn *websocket.Conn, msg string) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	frame, err := json.Marshal(wsError{Type: "error", Error: msg})
	if err != nil {
		return
	}
	_ = conn.WriteMessage(websocket.TextMessage, frame)
}
