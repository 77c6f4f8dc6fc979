package draft

import (
	"errors"
	"fmt"

	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/dex"
)

// Configuration errors reported to the host at draft start.
var (
	ErrBadGeneration    = errors.New("generation outside supported range")
	ErrBadParticipants  = errors.New("participants must be between 2 and 8")
	ErrBadBudget        = errors.New("budget per team must not be negative")
	ErrBadTotalLots     = errors.New("total lots must be at least 1")
	ErrBadSecondsPerBid = errors.New("seconds per bid must be between 5 and 60")
)

// Settings configures one draft session.
type Settings struct {
	// Generation selects the species pool (1..9).
	Generation int `json:"generation"`
	// Participants is the number of team slots, 2..8.
	Participants int `json:"participants"`
	// BudgetPerTeam is the starting budget of every team.
	BudgetPerTeam int `json:"budget_per_team"`
	// TotalLots is how many lots are auctioned before the draft ends.
	TotalLots int `json:"total_lots"`
	// SecondsPerBid is the countdown window, reset on every accepted bid.
	SecondsPerBid int `json:"seconds_per_bid"`
	// BotDifficulty is the tier (1..5) assigned to unclaimed team slots.
	BotDifficulty int `json:"bot_difficulty"`
	// Seed drives the lot shuffle and bot personalities. Zero means the
	// manager derives one from the clock.
	Seed int64 `json:"seed"`
}

// Validate checks the settings bounds from the draft rules.
func (s Settings) Validate() error {
	if _, ok := dex.PoolSize(s.Generation); !ok {
		return fmt.Errorf("%w: %d", ErrBadGeneration, s.Generation)
	}
	if s.Participants < 2 || s.Participants > 8 {
		return fmt.Errorf("%w: %d", ErrBadParticipants, s.Participants)
	}
	if s.BudgetPerTeam < 0 {
		return fmt.Errorf("%w: %d", ErrBadBudget, s.BudgetPerTeam)
	}
	if s.TotalLots < 1 {
		return fmt.Errorf("%w: %d", ErrBadTotalLots, s.TotalLots)
	}
	if s.SecondsPerBid < 5 || s.SecondsPerBid > 60 {
		return fmt.Errorf("%w: %d", ErrBadSecondsPerBid, s.SecondsPerBid)
	}
	return nil
}
