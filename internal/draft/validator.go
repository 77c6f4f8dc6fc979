package draft

import "errors"

// BidStep is the minimum bid and the granularity every bid must align to.
const BidStep = 100

// Bid rejection reasons. These are local and non-fatal: rejected bids leave
// the state untouched and are dropped silently at the transport edge.
var (
	ErrNoActiveLot          = errors.New("no lot is open for bidding")
	ErrDraftPaused          = errors.New("draft is paused")
	ErrUnknownTeam          = errors.New("unknown team")
	ErrBidOffStep           = errors.New("bid must be a positive multiple of the bid step")
	ErrBidNotHigher         = errors.New("bid does not beat the standing highest bid")
	ErrInsufficientBudget   = errors.New("bid exceeds team budget")
	ErrAlreadyHighestBidder = errors.New("team already holds the highest bid")
)

// ValidateBid is the pure bid predicate: it inspects the state and a proposed
// bid and returns nil if the bid should be accepted. It never mutates state,
// so it can be exercised exhaustively without timer or engine concerns.
//
// Bids are rejected while the draft is paused: pause is host-controlled
// adjudication time, so the bidding baseline is frozen with the clock.
func ValidateBid(s *State, teamID string, amount int) error {
	if s.Phase != PhaseAuction || s.CurrentLot == nil {
		return ErrNoActiveLot
	}
	if s.TimerPaused {
		return ErrDraftPaused
	}
	if amount < BidStep || amount%BidStep != 0 {
		return ErrBidOffStep
	}
	if amount <= s.HighestBid {
		return ErrBidNotHigher
	}
	team := s.Team(teamID)
	if team == nil {
		return ErrUnknownTeam
	}
	if amount > team.Budget {
		return ErrInsufficientBudget
	}
	if teamID == s.HighestBidderTeamID {
		return ErrAlreadyHighestBidder
	}
	return nil
}
