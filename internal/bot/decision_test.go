package bot_test

import (
	"testing"

	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/bot"
	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/draft"
)

// contested returns an auction snapshot with a standing bid held by the
// leader team.
func contested(botBudget, leaderBudget, highestBid int) draft.State {
	lot := draft.NewLot(25)
	return draft.State{
		Phase:      draft.PhaseAuction,
		CurrentLot: &lot,
		Teams: []draft.Team{
			{ID: "team-bot", Budget: botBudget},
			{ID: "team-lead", Budget: leaderBudget},
		},
		HighestBid:          highestBid,
		HighestBidderTeamID: "team-lead",
		HasStarted:          true,
		CurrentLotIndex:     1,
		LotsSettled:         1,
		TotalLots:           11,
		SecondsPerBid:       15,
		InitialBudget:       10000,
	}
}

func TestProposeAbstainGuards(t *testing.T) {
	tests := []struct {
		name  string
		state func() draft.State
	}{
		{
			name: "not in auction phase",
			state: func() draft.State {
				s := contested(10000, 5000, 500)
				s.Phase = draft.PhaseLobby
				return s
			},
		},
		{
			name: "no current lot",
			state: func() draft.State {
				s := contested(10000, 5000, 500)
				s.CurrentLot = nil
				return s
			},
		},
		{
			name: "paused",
			state: func() draft.State {
				s := contested(10000, 5000, 500)
				s.TimerPaused = true
				return s
			},
		},
		{
			name: "already leading",
			state: func() draft.State {
				s := contested(10000, 5000, 500)
				s.HighestBidderTeamID = "team-bot"
				return s
			},
		},
		{
			name: "cannot afford minimal raise",
			state: func() draft.State {
				return contested(500, 5000, 500)
			},
		},
		{
			name: "not a participant",
			state: func() draft.State {
				s := contested(10000, 5000, 500)
				s.Teams = s.Teams[1:]
				return s
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := bot.NewProfile(7, 0, "team-bot", 5)
			// Repeated calls so a lucky frequency draw cannot mask the guard.
			for i := 0; i < 50; i++ {
				if amount, ok := p.Propose(tt.state()); ok {
					t.Fatalf("Propose() = (%d, true), want abstain", amount)
				}
			}
		})
	}
}

// TestProposeSafeSteal: when the leader cannot answer a minimal raise, the bot
// takes the lot for exactly one step more, never overpaying.
func TestProposeSafeSteal(t *testing.T) {
	// Leader holds 500 but has only 600 left: it cannot reach 700.
	s := contested(10000, 600, 500)

	for seat := 0; seat < 10; seat++ {
		p := bot.NewProfile(31, seat, "team-bot", 1)
		amount, ok := p.Propose(s)
		if !ok {
			t.Fatalf("seat %d: Propose() abstained, want steal", seat)
		}
		if amount != 600 {
			t.Fatalf("seat %d: Propose() = %d, want exactly 600", seat, amount)
		}
	}
}

func TestProposeAmountsAreValidBids(t *testing.T) {
	p := bot.NewProfile(99, 3, "team-bot", 4)

	states := []draft.State{
		contested(10000, 5000, 500),
		contested(4000, 9000, 1200),
		contested(800, 3000, 300),
	}
	// Fresh lot with no bid yet.
	fresh := contested(10000, 10000, 0)
	fresh.HighestBidderTeamID = ""
	fresh.HasStarted = false
	states = append(states, fresh)

	for i := 0; i < 400; i++ {
		s := states[i%len(states)]
		amount, ok := p.Propose(s)
		if !ok {
			continue
		}
		team := s.Team("team-bot")
		if amount%draft.BidStep != 0 {
			t.Fatalf("iteration %d: amount %d off step", i, amount)
		}
		if amount <= s.HighestBid {
			t.Fatalf("iteration %d: amount %d does not beat %d", i, amount, s.HighestBid)
		}
		if amount > team.Budget {
			t.Fatalf("iteration %d: amount %d exceeds budget %d", i, amount, team.Budget)
		}
	}
}

func TestProposeDeterministicPerSeed(t *testing.T) {
	a := bot.NewProfile(555, 2, "team-bot", 3)
	b := bot.NewProfile(555, 2, "team-bot", 3)

	s := contested(10000, 5000, 500)
	for i := 0; i < 100; i++ {
		amountA, okA := a.Propose(s)
		amountB, okB := b.Propose(s)
		if amountA != amountB || okA != okB {
			t.Fatalf("iteration %d: (%d,%v) vs (%d,%v)", i, amountA, okA, amountB, okB)
		}
	}
}

// TestProposeDifficultyScalesActivity: a top-tier bot acts far more often than
// a bottom-tier one against the same stream of snapshots.
func TestProposeDifficultyScalesActivity(t *testing.T) {
	timid := bot.NewProfile(12, 0, "team-bot", 1)
	ruthless := bot.NewProfile(12, 0, "team-bot", 5)

	s := contested(10000, 5000, 500)

	const rounds = 300
	var timidActs, ruthlessActs int
	for i := 0; i < rounds; i++ {
		if _, ok := timid.Propose(s); ok {
			timidActs++
		}
		if _, ok := ruthless.Propose(s); ok {
			ruthlessActs++
		}
	}

	if ruthlessActs <= timidActs {
		t.Fatalf("tier 5 acted %d times, tier 1 %d times; expected tier 5 to act more", ruthlessActs, timidActs)
	}
}

// TestProposeFinalLotReleasesReserve: with one lot remaining the reserve
// collapses, letting a bot commit essentially its whole budget.
func TestProposeFinalLotReleasesReserve(t *testing.T) {
	s := contested(2000, 5000, 1800)
	s.LotsSettled = 10
	s.TotalLots = 11 // one lot remaining

	found := false
	for seat := 0; seat < 20 && !found; seat++ {
		p := bot.NewProfile(64, seat, "team-bot", 5)
		for i := 0; i < 50; i++ {
			if amount, ok := p.Propose(s); ok {
				if amount > 2000 {
					t.Fatalf("amount %d exceeds budget", amount)
				}
				if amount >= 1900 {
					found = true
					break
				}
			}
		}
	}
	if !found {
		t.Fatal("no bot ever committed its near-full budget on the final lot")
	}
}
