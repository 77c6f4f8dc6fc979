package draft_test

import (
	"errors"
	"testing"

	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/draft"
)

func biddableState() *draft.State {
	lot := draft.NewLot(25)
	return &draft.State{
		Phase:      draft.PhaseAuction,
		CurrentLot: &lot,
		Teams: []draft.Team{
			{ID: "team-a", Budget: 10000},
			{ID: "team-b", Budget: 300},
		},
		TotalLots:     5,
		InitialBudget: 10000,
	}
}

func TestValidateBid(t *testing.T) {
	tests := []struct {
		name    string
		setup   func() *draft.State
		teamID  string
		amount  int
		wantErr error
	}{
		{
			name:    "valid opening bid at minimum",
			setup:   biddableState,
			teamID:  "team-a",
			amount:  100,
			wantErr: nil,
		},
		{
			name: "no lot open in lobby",
			setup: func() *draft.State {
				s := biddableState()
				s.Phase = draft.PhaseLobby
				return s
			},
			teamID:  "team-a",
			amount:  100,
			wantErr: draft.ErrNoActiveLot,
		},
		{
			name: "no lot open after results",
			setup: func() *draft.State {
				s := biddableState()
				s.Phase = draft.PhaseResults
				s.CurrentLot = nil
				return s
			},
			teamID:  "team-a",
			amount:  100,
			wantErr: draft.ErrNoActiveLot,
		},
		{
			name: "rejected while paused",
			setup: func() *draft.State {
				s := biddableState()
				s.TimerPaused = true
				return s
			},
			teamID:  "team-a",
			amount:  100,
			wantErr: draft.ErrDraftPaused,
		},
		{
			name:    "zero amount",
			setup:   biddableState,
			teamID:  "team-a",
			amount:  0,
			wantErr: draft.ErrBidOffStep,
		},
		{
			name:    "negative amount",
			setup:   biddableState,
			teamID:  "team-a",
			amount:  -100,
			wantErr: draft.ErrBidOffStep,
		},
		{
			name:    "off-step amount",
			setup:   biddableState,
			teamID:  "team-a",
			amount:  150,
			wantErr: draft.ErrBidOffStep,
		},
		{
			name: "equal to highest bid",
			setup: func() *draft.State {
				s := biddableState()
				s.HighestBid = 500
				s.HighestBidderTeamID = "team-a"
				s.HasStarted = true
				return s
			},
			teamID:  "team-b",
			amount:  500,
			wantErr: draft.ErrBidNotHigher,
		},
		{
			name: "below highest bid",
			setup: func() *draft.State {
				s := biddableState()
				s.HighestBid = 500
				s.HighestBidderTeamID = "team-a"
				s.HasStarted = true
				return s
			},
			teamID:  "team-b",
			amount:  300,
			wantErr: draft.ErrBidNotHigher,
		},
		{
			name:    "unknown team",
			setup:   biddableState,
			teamID:  "team-z",
			amount:  100,
			wantErr: draft.ErrUnknownTeam,
		},
		{
			name:    "bid over budget",
			setup:   biddableState,
			teamID:  "team-b",
			amount:  400,
			wantErr: draft.ErrInsufficientBudget,
		},
		{
			name:    "bid of entire budget",
			setup:   biddableState,
			teamID:  "team-b",
			amount:  300,
			wantErr: nil,
		},
		{
			name: "raising own standing bid",
			setup: func() *draft.State {
				s := biddableState()
				s.HighestBid = 500
				s.HighestBidderTeamID = "team-a"
				s.HasStarted = true
				return s
			},
			teamID:  "team-a",
			amount:  600,
			wantErr: draft.ErrAlreadyHighestBidder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.setup()
			before := *s

			err := draft.ValidateBid(s, tt.teamID, tt.amount)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateBid() = %v, want %v", err, tt.wantErr)
			}

			// The predicate must never mutate the state it inspects.
			if s.HighestBid != before.HighestBid || s.HighestBidderTeamID != before.HighestBidderTeamID {
				t.Errorf("ValidateBid mutated state: %+v -> %+v", before, *s)
			}
		})
	}
}
