package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/clock"
	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/store"
)

// DraftRepo implements store.DraftRepository with sqlx.
type DraftRepo struct {
	db    *sqlx.DB
	clock clock.Clock
}

// NewDraftRepo returns a new DraftRepo.
func NewDraftRepo(db *sqlx.DB, clk clock.Clock) *DraftRepo {
	return &DraftRepo{db: db, clock: clk}
}

func (r *DraftRepo) SaveResults(ctx context.Context, rec *store.DraftRecord, teams []store.TeamResult, roster []store.RosterRow) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rec.CompletedAt = r.clock.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO drafts (id, room_id, total_lots, lots_settled, budget_per_team, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.RoomID, rec.TotalLots, rec.LotsSettled, rec.BudgetPerTeam, rec.CompletedAt,
	); err != nil {
		return fmt.Errorf("inserting draft record: %w", err)
	}

	for _, t := range teams {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO draft_teams (draft_id, team_id, name, owner_player_id, spent, budget_left)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			t.DraftID, t.TeamID, t.Name, t.OwnerPlayerID, t.Spent, t.BudgetLeft,
		); err != nil {
			return fmt.Errorf("inserting team result (team=%s): %w", t.TeamID, err)
		}
	}

	for _, row := range roster {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO draft_roster (draft_id, team_id, slot, species_id, price)
			 VALUES ($1, $2, $3, $4, $5)`,
			row.DraftID, row.TeamID, row.Slot, row.SpeciesID, row.Price,
		); err != nil {
			return fmt.Errorf("inserting roster row (team=%s slot=%d): %w", row.TeamID, row.Slot, err)
		}
	}

	return tx.Commit()
}

func (r *DraftRepo) GetDraft(ctx context.Context, id string) (*store.DraftRecord, error) {
	var rec store.DraftRecord
	err := r.db.GetContext(ctx, &rec, `SELECT * FROM drafts WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("getting draft: %w", err)
	}
	return &rec, nil
}

func (r *DraftRepo) ListTeamResults(ctx context.Context, draftID string) ([]store.TeamResult, error) {
	var teams []store.TeamResult
	err := r.db.SelectContext(ctx, &teams,
		`SELECT * FROM draft_teams WHERE draft_id = $1 ORDER BY team_id ASC`, draftID)
	if err != nil {
		return nil, fmt.Errorf("listing team results: %w", err)
	}
	return teams, nil
}

func (r *DraftRepo) ListRoster(ctx context.Context, draftID, teamID string) ([]store.RosterRow, error) {
	var roster []store.RosterRow
	err := r.db.SelectContext(ctx, &roster,
		`SELECT * FROM draft_roster WHERE draft_id = $1 AND team_id = $2 ORDER BY slot ASC`,
		draftID, teamID)
	if err != nil {
		return nil, fmt.Errorf("listing roster: %w", err)
	}
	return roster, nil
}

func (r *DraftRepo) ListRecent(ctx context.Context, limit int) ([]store.DraftRecord, error) {
	var drafts []store.DraftRecord
	err := r.db.SelectContext(ctx, &drafts,
		`SELECT * FROM drafts ORDER BY completed_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing drafts: %w", err)
	}
	return drafts, nil
}
