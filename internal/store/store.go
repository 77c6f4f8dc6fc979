package store

import (
	"context"
	"time"
)

// DraftRecord is the durable summary of a finished draft.
type DraftRecord struct {
	ID            string    `db:"id"`
	RoomID        string    `db:"room_id"`
	TotalLots     int       `db:"total_lots"`
	LotsSettled   int       `db:"lots_settled"`
	BudgetPerTeam int       `db:"budget_per_team"`
	CompletedAt   time.Time `db:"completed_at"`
}

// TeamResult is one team's final standing.
type TeamResult struct {
	DraftID       string  `db:"draft_id"`
	TeamID        string  `db:"team_id"`
	Name          string  `db:"name"`
	OwnerPlayerID *string `db:"owner_player_id"`
	Spent         int     `db:"spent"`
	BudgetLeft    int     `db:"budget_left"`
}

// RosterRow is one won lot on a team's final roster.
type RosterRow struct {
	DraftID   string `db:"draft_id"`
	TeamID    string `db:"team_id"`
	Slot      int    `db:"slot"`
	SpeciesID int    `db:"species_id"`
	Price     int    `db:"price"`
}

// DraftRepository defines draft result persistence.
type DraftRepository interface {
	// SaveResults writes the record, team standings and roster atomically.
	SaveResults(ctx context.Context, rec *DraftRecord, teams []TeamResult, roster []RosterRow) error
	GetDraft(ctx context.Context, id string) (*DraftRecord, error)
	ListTeamResults(ctx context.Context, draftID string) ([]TeamResult, error)
	ListRoster(ctx context.Context, draftID, teamID string) ([]RosterRow, error)
	ListRecent(ctx context.Context, limit int) ([]DraftRecord, error)
}
