// Package dex provides the slice of species metadata the draft engine
// consumes: generation pool bounds, rarity flags and a power score. Full
// display metadata (names, sprites, typing) lives in the client catalog and
// is resolved there.
package dex

import "fmt"

// poolSizes maps a generation to the highest national dex number it contains.
var poolSizes = map[int]int{
	1: 151,
	2: 251,
	3: 386,
	4: 493,
	5: 649,
	6: 721,
	7: 809,
	8: 905,
	9: 1025,
}

// MaxGeneration is the newest generation the pool can be drawn from.
const MaxGeneration = 9

// PoolSize returns the number of species available for a generation.
func PoolSize(generation int) (int, bool) {
	n, ok := poolSizes[generation]
	return n, ok
}

// Flags marks the rarity classes a species belongs to.
type Flags struct {
	Starter         bool `json:"starter,omitempty"`
	PseudoLegendary bool `json:"pseudo_legendary,omitempty"`
	SubLegendary    bool `json:"sub_legendary,omitempty"`
	Legendary       bool `json:"legendary,omitempty"`
	Mythical        bool `json:"mythical,omitempty"`
}

// Any reports whether the species carries any rarity flag.
func (f Flags) Any() bool {
	return f.Starter || f.PseudoLegendary || f.SubLegendary || f.Legendary || f.Mythical
}

// Count returns the number of set rarity flags.
func (f Flags) Count() int {
	n := 0
	for _, b := range []bool{f.Starter, f.PseudoLegendary, f.SubLegendary, f.Legendary, f.Mythical} {
		if b {
			n++
		}
	}
	return n
}

// Base forms of the regional starter trios.
var starters = idSet(
	1, 4, 7, // Kanto
	152, 155, 158, // Johto
	252, 255, 258, // Hoenn
	387, 390, 393, // Sinnoh
	495, 498, 501, // Unova
	650, 653, 656, // Kalos
	722, 725, 728, // Alola
	810, 813, 816, // Galar
	906, 909, 912, // Paldea
)

// Fully evolved pseudo-legendaries.
var pseudoLegendaries = idSet(
	149, 248, 373, 376, 445, 635, 706, 784, 887, 998,
)

var subLegendaries = idSet(
	144, 145, 146, // birds
	243, 244, 245, // beasts
	377, 378, 379, 380, 381, // regis, eon duo
	480, 481, 482, 485, 486, 488, // lake trio, Heatran, Regigigas, Cresselia
	638, 639, 640, 641, 642, 645, // swords, genies
	772, 773, // Type: Null line
	785, 786, 787, 788, // tapus
	793, 794, 795, 796, 797, 798, 799, 803, 804, 805, 806, // ultra beasts
	891, 892, 894, 895, 896, 897, // Kubfu line, Regieleki/drago, steeds
	905,            // Enamorus
	1001, 1002, 1003, 1004, // treasures of ruin
	1014, 1015, 1016, 1017, // loyal three, Ogerpon
)

var legendaries = idSet(
	150,
	249, 250,
	382, 383, 384,
	483, 484, 487,
	643, 644, 646,
	716, 717, 718,
	789, 790, 791, 792, 800,
	888, 889, 890, 898,
	1007, 1008, 1024,
)

var mythicals = idSet(
	151, 251, 385, 386,
	489, 490, 491, 492, 493,
	494, 647, 648, 649,
	719, 720, 721,
	801, 802, 807, 808, 809,
	893, 1025,
)

// SpeciesFlags returns the rarity flags for a national dex number. Unknown
// ids return the zero value.
func SpeciesFlags(id int) Flags {
	return Flags{
		Starter:         starters[id],
		PseudoLegendary: pseudoLegendaries[id],
		SubLegendary:    subLegendaries[id],
		Legendary:       legendaries[id],
		Mythical:        mythicals[id],
	}
}

// PowerScore returns a deterministic stand-in for a species' base stat total.
// It is anchored on the rarity class with a small id-keyed spread so that two
// species of the same class are not interchangeable to the bot engine.
func PowerScore(id int) int {
	f := SpeciesFlags(id)
	base := 440
	switch {
	case f.Legendary:
		base = 670
	case f.Mythical:
		base = 620
	case f.PseudoLegendary:
		base = 600
	case f.SubLegendary:
		base = 580
	case f.Starter:
		base = 520
	}
	// Spread of -20..+29, stable per id.
	return base + (id*37)%50 - 20
}

// SpeciesLabel returns a stable placeholder label for a national dex number.
// Real display names come from the client catalog.
func SpeciesLabel(id int) string {
	return fmt.Sprintf("No. %04d", id)
}

func idSet(ids ...int) map[int]bool {
	m := make(map[int]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}
