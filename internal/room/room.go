// Package room tracks draft lobbies: who is in the room, who hosts it, and
// which team slots are claimed. Slots can only be claimed or released while
// the room is unlocked; starting a draft locks it.
package room

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/draft"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrBadTeamCount = errors.New("team count must be between 2 and 8")
	ErrNotMember    = errors.New("player is not in this room")
	ErrBadSeat      = errors.New("no such team slot")
	ErrSeatTaken    = errors.New("team slot already claimed")
	ErrRoomLocked   = errors.New("room is locked while a draft runs")
	ErrNotHost      = errors.New("only the host may do that")
)

// Player is one connected participant.
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Room is a draft lobby. Copies returned from the Manager never alias
// internal state.
type Room struct {
	ID           string         `json:"id"`
	HostPlayerID string         `json:"host_player_id"`
	TeamCount    int            `json:"team_count"`
	Players      []Player       `json:"players"`
	Claims       map[int]string `json:"claims"` // seat index -> player id
	Locked       bool           `json:"locked"`
}

// Manager owns all rooms.
type Manager struct {
	mu     sync.RWMutex
	rooms  map[string]*Room
	logger *slog.Logger
}

// NewManager creates an empty room registry.
func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		rooms:  make(map[string]*Room),
		logger: logger,
	}
}

// Create opens a new room with the given host and team count. The host is
// joined automatically.
func (m *Manager) Create(hostName string, teamCount int) (Room, Player, error) {
	if teamCount < 2 || teamCount > 8 {
		return Room{}, Player{}, ErrBadTeamCount
	}

	host := Player{ID: uuid.NewString(), DisplayName: hostName}
	r := &Room{
		ID:           uuid.NewString(),
		HostPlayerID: host.ID,
		TeamCount:    teamCount,
		Players:      []Player{host},
		Claims:       make(map[int]string),
	}

	m.mu.Lock()
	m.rooms[r.ID] = r
	m.mu.Unlock()

	m.logger.Info("room created",
		slog.String("room_id", r.ID),
		slog.Int("team_count", teamCount),
	)
	return copyRoom(r), host, nil
}

// Join adds a player to a room.
func (m *Manager) Join(roomID, displayName string) (Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rooms[roomID]
	if !ok {
		return Player{}, ErrRoomNotFound
	}
	p := Player{ID: uuid.NewString(), DisplayName: displayName}
	r.Players = append(r.Players, p)
	return p, nil
}

// ClaimSeat assigns a team slot to a player. Rejected while locked, for
// unknown seats, for non-members, or when the seat belongs to someone else.
func (m *Manager) ClaimSeat(roomID, playerID string, seat int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rooms[roomID]
	if !ok {
		return ErrRoomNotFound
	}
	if r.Locked {
		return ErrRoomLocked
	}
	if seat < 0 || seat >= r.TeamCount {
		return ErrBadSeat
	}
	if !r.isMember(playerID) {
		return ErrNotMember
	}
	if owner, taken := r.Claims[seat]; taken && owner != playerID {
		return ErrSeatTaken
	}
	// One seat per player: release any previous claim first.
	for s, owner := range r.Claims {
		if owner == playerID {
			delete(r.Claims, s)
		}
	}
	r.Claims[seat] = playerID
	return nil
}

// ReleaseSeat gives up a player's claimed slot.
func (m *Manager) ReleaseSeat(roomID, playerID string, seat int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rooms[roomID]
	if !ok {
		return ErrRoomNotFound
	}
	if r.Locked {
		return ErrRoomLocked
	}
	if r.Claims[seat] != playerID {
		return ErrNotMember
	}
	delete(r.Claims, seat)
	return nil
}

// Lock freezes the room for a draft and returns the seat assignments in slot
// order. Unclaimed seats come back with an empty owner and get a bot. Host
// only; a room that is already locked stays untouched, so Unlock only ever
// reverts the lock the caller took.
func (m *Manager) Lock(roomID, callerPlayerID string) ([]draft.Seat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if callerPlayerID != r.HostPlayerID {
		return nil, ErrNotHost
	}
	if r.Locked {
		return nil, ErrRoomLocked
	}
	r.Locked = true

	seats := make([]draft.Seat, r.TeamCount)
	for i := 0; i < r.TeamCount; i++ {
		seat := draft.Seat{
			TeamID: fmt.Sprintf("team-%d", i+1),
			Name:   fmt.Sprintf("Team %d", i+1),
		}
		if owner, claimed := r.Claims[i]; claimed {
			seat.OwnerPlayerID = owner
			if p := r.player(owner); p != nil {
				seat.Name = p.DisplayName
			}
		}
		seats[i] = seat
	}
	return seats, nil
}

// Unlock reopens claims, used when a draft finishes or a start fails.
func (m *Manager) Unlock(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rooms[roomID]; ok {
		r.Locked = false
	}
}

// Get returns a copy of the room.
func (m *Manager) Get(roomID string) (Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[roomID]
	if !ok {
		return Room{}, ErrRoomNotFound
	}
	return copyRoom(r), nil
}

func (r *Room) isMember(playerID string) bool {
	return r.player(playerID) != nil
}

func (r *Room) player(playerID string) *Player {
	for i := range r.Players {
		if r.Players[i].ID == playerID {
			return &r.Players[i]
		}
	}
	return nil
}

func copyRoom(r *Room) Room {
	out := *r
	out.Players = append([]Player(nil), r.Players...)
	out.Claims = make(map[int]string, len(r.Claims))
	for k, v := range r.Claims {
		out.Claims[k] = v
	}
	return out
}
