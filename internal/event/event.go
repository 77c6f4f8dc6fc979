package event

import (
	"encoding/json"
	"time"
)

// Type identifies an event kind.
type Type string

const (
	DraftStarted    Type = "draft.started"
	DraftBidPlaced  Type = "draft.bid_placed"
	DraftLotDrawn   Type = "draft.lot_drawn"
	DraftLotSettled Type = "draft.lot_settled"
	DraftPaused     Type = "draft.paused"
	DraftResumed    Type = "draft.resumed"
	DraftCompleted  Type = "draft.completed"
)

// Event represents a single domain event.
type Event struct {
	ID          string          `json:"id" db:"id"`
	AggregateID string          `json:"aggregate_id" db:"aggregate_id"`
	Type        Type            `json:"type" db:"type"`
	Data        json.RawMessage `json:"data" db:"data"`
	Version     int             `json:"version" db:"version"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// DraftStartedData is the payload for DraftStarted events.
type DraftStartedData struct {
	RoomID        string `json:"room_id"`
	HostPlayerID  string `json:"host_player_id"`
	Generation    int    `json:"generation"`
	Participants  int    `json:"participants"`
	BudgetPerTeam int    `json:"budget_per_team"`
	TotalLots     int    `json:"total_lots"`
	SecondsPerBid int    `json:"seconds_per_bid"`
	Seed          int64  `json:"seed"`
}

// BidPlacedData is the payload for DraftBidPlaced events.
type BidPlacedData struct {
	TeamID    string `json:"team_id"`
	Amount    int    `json:"amount"`
	SpeciesID int    `json:"species_id"`
	LotIndex  int    `json:"lot_index"`
}

// LotDrawnData is the payload for DraftLotDrawn events.
type LotDrawnData struct {
	SpeciesID int `json:"species_id"`
	LotIndex  int `json:"lot_index"`
}

// LotSettledData is the payload for DraftLotSettled events. An empty
// WinnerTeamID means the lot went unclaimed and was discarded.
type LotSettledData struct {
	SpeciesID    int    `json:"species_id"`
	LotIndex     int    `json:"lot_index"`
	WinnerTeamID string `json:"winner_team_id,omitempty"`
	Price        int    `json:"price"`
}

// PauseData is the payload for DraftPaused and DraftResumed events.
type PauseData struct {
	ByPlayerID       string `json:"by_player_id"`
	RemainingSeconds int    `json:"remaining_seconds"`
}

// DraftCompletedData is the payload for DraftCompleted events.
type DraftCompletedData struct {
	LotsSettled int `json:"lots_settled"`
}
