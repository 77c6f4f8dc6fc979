package bot_test

import (
	"testing"

	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/bot"
)

func TestNewProfileClampsDifficulty(t *testing.T) {
	tests := []struct {
		name string
		in   bot.Difficulty
		want bot.Difficulty
	}{
		{"below range", 0, bot.DifficultyMin},
		{"negative", -3, bot.DifficultyMin},
		{"in range", 3, 3},
		{"above range", 9, bot.DifficultyMax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := bot.NewProfile(1, 0, "team-1", tt.in)
			if p.Difficulty != tt.want {
				t.Errorf("Difficulty = %d, want %d", p.Difficulty, tt.want)
			}
		})
	}
}

func TestNewProfileSecondaryTrait(t *testing.T) {
	// Secondary traits unlock only at the top tier, and never duplicate the
	// primary.
	for seat := 0; seat < 20; seat++ {
		low := bot.NewProfile(42, seat, "team-1", bot.DifficultyMax-1)
		if low.Secondary != bot.TraitNone {
			t.Errorf("seat %d: tier %d has secondary %q, want none", seat, low.Difficulty, low.Secondary)
		}

		top := bot.NewProfile(42, seat, "team-1", bot.DifficultyMax)
		if top.Secondary == bot.TraitNone {
			t.Errorf("seat %d: top tier has no secondary trait", seat)
		}
		if top.Secondary == top.Primary {
			t.Errorf("seat %d: secondary equals primary %q", seat, top.Primary)
		}
	}
}

func TestNewProfileReproducible(t *testing.T) {
	a := bot.NewProfile(1234, 2, "team-3", 4)
	b := bot.NewProfile(1234, 2, "team-3", 4)

	if a.Primary != b.Primary || a.Secondary != b.Secondary {
		t.Errorf("traits diverged: (%q,%q) vs (%q,%q)", a.Primary, a.Secondary, b.Primary, b.Secondary)
	}
	if a.ReserveBias != b.ReserveBias {
		t.Errorf("ReserveBias diverged: %v vs %v", a.ReserveBias, b.ReserveBias)
	}
}

func TestNewProfileSeatsDiffer(t *testing.T) {
	// Different seats on the same draft seed should not all share one
	// personality.
	biases := make(map[float64]bool)
	for seat := 0; seat < 6; seat++ {
		p := bot.NewProfile(77, seat, "team-1", 3)
		biases[p.ReserveBias] = true
	}
	if len(biases) < 2 {
		t.Fatal("all seats derived an identical reserve bias")
	}
}

func TestFactoryBuildsBidder(t *testing.T) {
	b := bot.Factory(9, 1, "team-2", 3)
	if b.TeamID() != "team-2" {
		t.Errorf("TeamID() = %q, want team-2", b.TeamID())
	}
}
