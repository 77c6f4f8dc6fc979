package dex_test

import (
	"testing"

	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/dex"
)

func TestPoolSize(t *testing.T) {
	tests := []struct {
		generation int
		want       int
		ok         bool
	}{
		{1, 151, true},
		{2, 251, true},
		{9, 1025, true},
		{0, 0, false},
		{10, 0, false},
		{-1, 0, false},
	}
	for _, tt := range tests {
		got, ok := dex.PoolSize(tt.generation)
		if got != tt.want || ok != tt.ok {
			t.Errorf("PoolSize(%d) = (%d, %v), want (%d, %v)", tt.generation, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSpeciesFlags(t *testing.T) {
	tests := []struct {
		name string
		id   int
		want dex.Flags
	}{
		{"Bulbasaur is a starter", 1, dex.Flags{Starter: true}},
		{"Dragonite is a pseudo-legendary", 149, dex.Flags{PseudoLegendary: true}},
		{"Articuno is a sub-legendary", 144, dex.Flags{SubLegendary: true}},
		{"Mewtwo is a legendary", 150, dex.Flags{Legendary: true}},
		{"Mew is a mythical", 151, dex.Flags{Mythical: true}},
		{"Rattata is unflagged", 19, dex.Flags{}},
		{"unknown id is unflagged", 99999, dex.Flags{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dex.SpeciesFlags(tt.id); got != tt.want {
				t.Errorf("SpeciesFlags(%d) = %+v, want %+v", tt.id, got, tt.want)
			}
		})
	}
}

func TestFlagsHelpers(t *testing.T) {
	if (dex.Flags{}).Any() {
		t.Error("zero Flags reported Any() = true")
	}
	f := dex.Flags{Starter: true, Legendary: true}
	if !f.Any() {
		t.Error("set Flags reported Any() = false")
	}
	if got := f.Count(); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}
}

func TestPowerScoreOrdersByRarity(t *testing.T) {
	// Class anchors dominate the per-id spread, so a legendary always outranks
	// an unflagged species.
	legendary := dex.PowerScore(150)
	common := dex.PowerScore(19)
	if legendary <= common {
		t.Errorf("PowerScore(legendary)=%d <= PowerScore(common)=%d", legendary, common)
	}

	// Stable per id.
	if dex.PowerScore(150) != legendary {
		t.Error("PowerScore is not deterministic")
	}

	// Two commons with different ids should usually differ.
	if dex.PowerScore(19) == dex.PowerScore(20) {
		t.Error("adjacent ids produced identical scores")
	}
}

func TestSpeciesLabel(t *testing.T) {
	if got := dex.SpeciesLabel(25); got != "No. 0025" {
		t.Errorf("SpeciesLabel(25) = %q, want %q", got, "No. 0025")
	}
}
