// Package results persists finished drafts and serves the results archive.
package results

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/draft"
	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/store"
)

// Archiver writes completed draft outcomes to the repository and answers
// archive queries. It implements draft.Archiver.
type Archiver struct {
	repo   store.DraftRepository
	logger *slog.Logger
	tracer trace.Tracer
}

// NewArchiver returns a new Archiver.
func NewArchiver(repo store.DraftRepository, logger *slog.Logger, tp trace.TracerProvider) *Archiver {
	return &Archiver{
		repo:   repo,
		logger: logger,
		tracer: tp.Tracer("github.com/MessiVomNr/PoNuzTracker-sub000/internal/results"),
	}
}

// Archive stores the final state of a completed draft. The repository write
// is atomic, so a failed archive leaves no partial rows behind.
func (a *Archiver) Archive(ctx context.Context, s draft.State) error {
	ctx, span := a.tracer.Start(ctx, "results.Archive")
	defer span.End()
	span.SetAttributes(
		attribute.String("draft.id", s.DraftID),
		attribute.Int("draft.lots_settled", s.LotsSettled),
	)

	rec := &store.DraftRecord{
		ID:            s.DraftID,
		RoomID:        s.RoomID,
		TotalLots:     s.TotalLots,
		LotsSettled:   s.LotsSettled,
		BudgetPerTeam: s.InitialBudget,
	}

	teams := make([]store.TeamResult, 0, len(s.Teams))
	var roster []store.RosterRow
	for _, t := range s.Teams {
		res := store.TeamResult{
			DraftID:    s.DraftID,
			TeamID:     t.ID,
			Name:       t.Name,
			Spent:      s.InitialBudget - t.Budget,
			BudgetLeft: t.Budget,
		}
		if t.OwnerPlayerID != "" {
			owner := t.OwnerPlayerID
			res.OwnerPlayerID = &owner
		}
		teams = append(teams, res)

		for i, slot := range t.Roster {
			roster = append(roster, store.RosterRow{
				DraftID:   s.DraftID,
				TeamID:    t.ID,
				Slot:      i,
				SpeciesID: slot.SpeciesID,
				Price:     slot.Price,
			})
		}
	}

	if err := a.repo.SaveResults(ctx, rec, teams, roster); err != nil {
		return fmt.Errorf("archiving draft %s: %w", s.DraftID, err)
	}

	a.logger.InfoContext(ctx, "draft archived",
		"draft_id", s.DraftID,
		"room_id", s.RoomID,
		"lots_settled", s.LotsSettled,
		"teams", len(teams),
	)
	return nil
}

// GetDraft returns an archived draft record.
func (a *Archiver) GetDraft(ctx context.Context, id string) (*store.DraftRecord, error) {
	return a.repo.GetDraft(ctx, id)
}

// TeamResults returns the per-team outcome of an archived draft.
func (a *Archiver) TeamResults(ctx context.Context, draftID string) ([]store.TeamResult, error) {
	return a.repo.ListTeamResults(ctx, draftID)
}

// Roster returns one team's acquired species in settlement order.
func (a *Archiver) Roster(ctx context.Context, draftID, teamID string) ([]store.RosterRow, error) {
	return a.repo.ListRoster(ctx, draftID, teamID)
}

// Recent returns the most recently completed drafts.
func (a *Archiver) Recent(ctx context.Context, limit int) ([]store.DraftRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return a.repo.ListRecent(ctx, limit)
}
