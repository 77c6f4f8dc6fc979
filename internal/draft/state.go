package draft

import "github.com/MessiVomNr/PoNuzTracker-sub000/internal/dex"

// Phase is the lifecycle stage of a draft session.
type Phase string

const (
	PhaseLobby     Phase = "lobby"
	PhaseAuction   Phase = "auction"
	PhaseResolving Phase = "resolving"
	PhaseResults   Phase = "results"
)

// Lot is a single species up for auction. Immutable once drawn.
type Lot struct {
	SpeciesID int       `json:"species_id"`
	Label     string    `json:"label"`
	Flags     dex.Flags `json:"flags"`
	Power     int       `json:"power"`
}

// RosterSlot records one won lot and its settled price.
type RosterSlot struct {
	SpeciesID int `json:"species_id"`
	Price     int `json:"price"`
}

// Team is a budget-holding participant. An empty OwnerPlayerID marks a
// bot-controlled team.
type Team struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	OwnerPlayerID string       `json:"owner_player_id,omitempty"`
	Budget        int          `json:"budget"`
	Roster        []RosterSlot `json:"roster"`
}

// State is the authoritative snapshot of one draft session. It is mutated
// only by Engine event handlers and copied out for rendering.
type State struct {
	DraftID             string `json:"draft_id"`
	RoomID              string `json:"room_id"`
	Phase               Phase  `json:"phase"`
	Teams               []Team `json:"teams"`
	CurrentLotIndex     int    `json:"current_lot_index"`
	CurrentLot          *Lot   `json:"current_lot,omitempty"`
	HighestBid          int    `json:"highest_bid"`
	HighestBidderTeamID string `json:"highest_bidder_team_id,omitempty"`
	HasStarted          bool   `json:"has_started"`
	RemainingSeconds    int    `json:"remaining_seconds"`
	TimerRunning        bool   `json:"timer_running"`
	TimerPaused         bool   `json:"timer_paused"`
	LotsSettled         int    `json:"lots_settled"`
	TotalLots           int    `json:"total_lots"`
	SecondsPerBid       int    `json:"seconds_per_bid"`
	InitialBudget       int    `json:"initial_budget"`
}

// Team returns the team with the given id, or nil.
func (s *State) Team(id string) *Team {
	for i := range s.Teams {
		if s.Teams[i].ID == id {
			return &s.Teams[i]
		}
	}
	return nil
}

// LotsRemaining counts the current lot plus everything still undrawn.
func (s *State) LotsRemaining() int {
	return s.TotalLots - s.LotsSettled
}

// TotalRemainingBudget sums the budgets of all teams.
func (s *State) TotalRemainingBudget() int {
	total := 0
	for i := range s.Teams {
		total += s.Teams[i].Budget
	}
	return total
}

// clone deep-copies the state so snapshots never alias engine-owned slices.
func (s *State) clone() State {
	out := *s
	out.Teams = make([]Team, len(s.Teams))
	for i, t := range s.Teams {
		out.Teams[i] = t
		out.Teams[i].Roster = append([]RosterSlot(nil), t.Roster...)
	}
	if s.CurrentLot != nil {
		lot := *s.CurrentLot
		out.CurrentLot = &lot
	}
	return out
}
