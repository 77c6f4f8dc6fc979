package entstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/clock"
	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/store"
)

// DraftRepo implements store.DraftRepository using database/sql.
type DraftRepo struct {
	db    *sql.DB
	clock clock.Clock
}

// NewDraftRepo returns a new DraftRepo.
func NewDraftRepo(db *sql.DB, clk clock.Clock) *DraftRepo {
	return &DraftRepo{db: db, clock: clk}
}

func (r *DraftRepo) SaveResults(ctx context.Context, rec *store.DraftRecord, teams []store.TeamResult, roster []store.RosterRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
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
	rec := &store.DraftRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, room_id, total_lots, lots_settled, budget_per_team, completed_at
		 FROM drafts WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.RoomID, &rec.TotalLots, &rec.LotsSettled, &rec.BudgetPerTeam, &rec.CompletedAt)
	if err != nil {
		return nil, fmt.Errorf("getting draft: %w", err)
	}
	return rec, nil
}

func (r *DraftRepo) ListTeamResults(ctx context.Context, draftID string) ([]store.TeamResult, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT draft_id, team_id, name, owner_player_id, spent, budget_left
		 FROM draft_teams WHERE draft_id = $1 ORDER BY team_id ASC`, draftID)
	if err != nil {
		return nil, fmt.Errorf("listing team results: %w", err)
	}
	defer rows.Close()

	var teams []store.TeamResult
	for rows.Next() {
		var t store.TeamResult
		if err := rows.Scan(&t.DraftID, &t.TeamID, &t.Name, &t.OwnerPlayerID, &t.Spent, &t.BudgetLeft); err != nil {
			return nil, fmt.Errorf("scanning team result row: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *DraftRepo) ListRoster(ctx context.Context, draftID, teamID string) ([]store.RosterRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT draft_id, team_id, slot, species_id, price
		 FROM draft_roster WHERE draft_id = $1 AND team_id = $2 ORDER BY slot ASC`,
		draftID, teamID)
	if err != nil {
		return nil, fmt.Errorf("listing roster: %w", err)
	}
	defer rows.Close()

	var roster []store.RosterRow
	for rows.Next() {
		var row store.RosterRow
		if err := rows.Scan(&row.DraftID, &row.TeamID, &row.Slot, &row.SpeciesID, &row.Price); err != nil {
			return nil, fmt.Errorf("scanning roster row: %w", err)
		}
		roster = append(roster, row)
	}
	return roster, rows.Err()
}

func (r *DraftRepo) ListRecent(ctx context.Context, limit int) ([]store.DraftRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, room_id, total_lots, lots_settled, budget_per_team, completed_at
		 FROM drafts ORDER BY completed_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing drafts: %w", err)
	}
	defer rows.Close()

	var drafts []store.DraftRecord
	for rows.Next() {
		var rec store.DraftRecord
		if err := rows.Scan(&rec.ID, &rec.RoomID, &rec.TotalLots, &rec.LotsSettled, &rec.BudgetPerTeam, &rec.CompletedAt); err != nil {
			return nil, fmt.Errorf("scanning draft row: %w", err)
		}
		drafts = append(drafts, rec)
	}
	return drafts, rows.Err()
}
