package server

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/draft"
)

// stateEnvelope is the wire frame pushed to websocket subscribers.
type stateEnvelope struct {
	Type  string      `json:"type"`
	State draft.State `json:"state"`
}

// Hub fans draft state updates out to websocket subscribers, grouped by room.
// It implements draft.Broadcaster. Slow subscribers are skipped rather than
// blocking the draft loop.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[chan []byte]struct{}
	last   map[string][]byte
	logger *slog.Logger
}

// NewHub returns an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[chan []byte]struct{}),
		last:   make(map[string][]byte),
		logger: logger,
	}
}

// Subscribe registers a new subscriber for the given room and returns its
// receive channel together with an unsubscribe function. The most recent
// state frame, if any, is queued immediately so late joiners catch up.
func (h *Hub) Subscribe(roomID string) (<-chan []byte, func()) {
	ch := make(chan []byte, 16)

	h.mu.Lock()
	subs, ok := h.rooms[roomID]
	if !ok {
		subs = make(map[chan []byte]struct{})
		h.rooms[roomID] = subs
	}
	subs[ch] = struct{}{}
	if frame, ok := h.last[roomID]; ok {
		ch <- frame
	}
	h.mu.Unlock()

	unsubscribe := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if subs, ok := h.rooms[roomID]; ok {
			delete(subs, ch)
			if len(subs) == 0 {
				delete(h.rooms, roomID)
				delete(h.last, roomID)
			}
		}
	}
	return ch, unsubscribe
}

// BroadcastState pushes a state snapshot to every subscriber of the room.
func (h *Hub) BroadcastState(roomID string, s draft.State) {
	frame, err := json.Marshal(stateEnvelope{Type: "state", State: s})
	if err != nil {
		h.logger.Error("marshaling state frame", "room_id", roomID, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last[roomID] = frame
	for ch := range h.rooms[roomID] {
		select {
		case ch <- frame:
		default:
			h.logger.Debug("dropping frame for slow subscriber", "room_id", roomID)
		}
	}
}

// Subscribers returns the current subscriber count for a room.
func (h *Hub) Subscribers(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}
