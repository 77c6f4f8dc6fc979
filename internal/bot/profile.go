// Package bot implements the AI bidders that fill unclaimed team slots.
// Each bot is a single-pass scoring function over a read-only state
// snapshot: no lookahead, no opponent modelling, one candidate bid per tick
// at most. Proposals are routed through the same validation as human bids.
package bot

import (
	"fmt"
	"math/rand"

	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/draft"
)

// Difficulty is an ordered tier from 1 (timid) to 5 (ruthless).
type Difficulty int

const (
	DifficultyMin Difficulty = 1
	DifficultyMax Difficulty = 5
)

// clampDifficulty folds out-of-range tiers back into 1..5.
func clampDifficulty(d Difficulty) Difficulty {
	if d < DifficultyMin {
		return DifficultyMin
	}
	if d > DifficultyMax {
		return DifficultyMax
	}
	return d
}

// Trait is a named heuristic flavouring a bot's bidding behaviour. A bot has
// one primary trait; a secondary trait unlocks at the top difficulty tier.
type Trait string

const (
	// TraitNone disables a trait slot.
	TraitNone Trait = ""
	// TraitCollector wants every rarity-flagged lot a little more.
	TraitCollector Trait = "collector"
	// TraitDenier undervalues lots but keeps bidding pressure on leaders.
	TraitDenier Trait = "denier"
	// TraitSniper favours large, decisive raises.
	TraitSniper Trait = "sniper"
	// TraitHoarder protects a deeper budget reserve.
	TraitHoarder Trait = "hoarder"
	// TraitSpender lets the reserve go early and bids more often.
	TraitSpender Trait = "spender"
)

var allTraits = []Trait{TraitCollector, TraitDenier, TraitSniper, TraitHoarder, TraitSpender}

// Profile is one bot's fixed personality for a draft session. Only its RNG
// stream evolves; everything else is immutable after creation.
type Profile struct {
	ID          string
	Difficulty  Difficulty
	Primary     Trait
	Secondary   Trait
	ReserveBias float64

	teamID string
	rng    *rand.Rand
}

// TeamID returns the team this bot controls.
func (p *Profile) TeamID() string { return p.teamID }

// NewProfile derives a reproducible bot personality from the draft seed and
// the bot's seat index. The secondary trait is only active at the top tier.
func NewProfile(draftSeed int64, seatIndex int, teamID string, difficulty Difficulty) *Profile {
	difficulty = clampDifficulty(difficulty)
	rng := rand.New(rand.NewSource(draftSeed + int64(seatIndex)*7919))

	primary := allTraits[rng.Intn(len(allTraits))]
	secondary := TraitNone
	if difficulty == DifficultyMax {
		for {
			secondary = allTraits[rng.Intn(len(allTraits))]
			if secondary != primary {
				break
			}
		}
	}

	return &Profile{
		ID:          fmt.Sprintf("bot-%d", seatIndex),
		teamID:      teamID,
		Difficulty:  difficulty,
		Primary:     primary,
		Secondary:   secondary,
		ReserveBias: 0.15 + rng.Float64()*0.25,
		rng:         rng,
	}
}

// has reports whether a trait is active on this profile.
func (p *Profile) has(t Trait) bool {
	return p.Primary == t || p.Secondary == t
}

// Factory adapts NewProfile to the draft manager's BotFactory signature.
func Factory(draftSeed int64, seatIndex int, teamID string, difficulty int) draft.Bidder {
	return NewProfile(draftSeed, seatIndex, teamID, Difficulty(difficulty))
}
