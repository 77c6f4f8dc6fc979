package draft

import "github.com/MessiVomNr/PoNuzTracker-sub000/internal/dex"

// Settlement describes the outcome of closing one lot.
type Settlement struct {
	SpeciesID    int
	LotIndex     int
	WinnerTeamID string // empty when the lot went unclaimed
	Price        int
	Completed    bool // true when the draft froze into Results
}

// LotAllocator performs the atomic settlement on timer expiry: award the
// current lot to the highest bidder, deduct its budget, append to its roster,
// then advance to the next lot or end the draft.
type LotAllocator struct {
	pool *LotPool
}

// NewLotAllocator returns an allocator drawing from the given pool.
func NewLotAllocator(pool *LotPool) *LotAllocator {
	return &LotAllocator{pool: pool}
}

// Settle closes the current lot. A lot nobody bid on is discarded unclaimed.
// The state is advanced to the next lot, or frozen into Results when the
// configured lot count is reached or the pool runs dry.
func (a *LotAllocator) Settle(s *State) Settlement {
	out := Settlement{
		SpeciesID: s.CurrentLot.SpeciesID,
		LotIndex:  s.CurrentLotIndex,
	}

	if s.HasStarted && s.HighestBidderTeamID != "" {
		team := s.Team(s.HighestBidderTeamID)
		team.Budget -= s.HighestBid
		team.Roster = append(team.Roster, RosterSlot{
			SpeciesID: s.CurrentLot.SpeciesID,
			Price:     s.HighestBid,
		})
		out.WinnerTeamID = team.ID
		out.Price = s.HighestBid
	}

	s.LotsSettled++
	s.HighestBid = 0
	s.HighestBidderTeamID = ""
	s.HasStarted = false

	if s.LotsSettled >= s.TotalLots {
		a.freeze(s)
		out.Completed = true
		return out
	}
	next, ok := a.pool.Next()
	if !ok {
		// Pool exhausted before TotalLots: end early rather than error.
		a.freeze(s)
		out.Completed = true
		return out
	}
	s.CurrentLotIndex++
	lot := NewLot(next)
	s.CurrentLot = &lot
	s.Phase = PhaseAuction
	return out
}

func (a *LotAllocator) freeze(s *State) {
	s.Phase = PhaseResults
	s.CurrentLot = nil
	s.TimerRunning = false
	s.TimerPaused = false
	s.RemainingSeconds = 0
}

// NewLot builds the immutable lot view for a species id.
func NewLot(speciesID int) Lot {
	return Lot{
		SpeciesID: speciesID,
		Label:     dex.SpeciesLabel(speciesID),
		Flags:     dex.SpeciesFlags(speciesID),
		Power:     dex.PowerScore(speciesID),
	}
}
