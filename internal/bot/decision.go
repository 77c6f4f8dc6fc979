package bot

import "github.com/MessiVomNr/PoNuzTracker-sub000/internal/draft"

// scoreContext is the mutable scoring state threaded through the modifier
// pipeline. Stages adjust it in a fixed order; the final numbers drive the
// candidate bid.
type scoreContext struct {
	state *draft.State
	lot   *draft.Lot
	team  *draft.Team

	lotsRemaining int

	frequency      float64    // chance to act at all this tick
	desire         float64    // 0..1 want for the current lot
	reserveFrac    float64    // fraction of budget withheld from this lot
	aggression     float64    // multiplier on the price ceiling
	bandWeights    [3]float64 // small / medium / large increment weights
	pressureChance float64    // chance to jump a big share of the headroom
}

// modifier is one pipeline stage.
type modifier func(p *Profile, sc *scoreContext)

// pipeline is applied in this exact order: difficulty tuning first, then one
// stage per behaviour trait, then the situational adjustments and clamps.
var pipeline = []modifier{
	difficultyTuning,
	collectorStage,
	denierStage,
	sniperStage,
	hoarderStage,
	spenderStage,
	situational,
	clampScores,
}

// Propose computes at most one candidate bid for the current snapshot.
// Abstaining (ok == false) is the common case; the frequency draw is what
// staggers bot competition instead of a raise on every tick.
func (p *Profile) Propose(s draft.State) (amount int, ok bool) {
	if s.Phase != draft.PhaseAuction || s.CurrentLot == nil || s.TimerPaused {
		return 0, false
	}
	team := s.Team(p.teamID)
	if team == nil {
		return 0, false
	}

	// Gate: never raise our own standing bid, never bid past the budget.
	minRaise := s.HighestBid + draft.BidStep
	if s.HighestBidderTeamID == p.teamID || team.Budget < minRaise {
		return 0, false
	}

	// Safe-steal: if the leader cannot afford to answer a minimal raise,
	// take the lot for exactly one step more. No reason to pay extra.
	if leader := s.Team(s.HighestBidderTeamID); leader != nil {
		if leader.Budget < s.HighestBid+2*draft.BidStep {
			return minRaise, true
		}
	}

	sc := &scoreContext{
		state:         &s,
		lot:           s.CurrentLot,
		team:          team,
		lotsRemaining: s.LotsRemaining(),
	}
	for _, stage := range pipeline {
		stage(p, sc)
	}

	if p.rng.Float64() > sc.frequency {
		return 0, false
	}

	ceiling := p.maxPay(sc)
	reserve := int(float64(team.Budget) * sc.reserveFrac)
	high := minInt(ceiling, team.Budget-reserve)
	high = minInt(high, team.Budget)
	if high < minRaise {
		return 0, false
	}

	candidate := p.pickIncrement(sc, minRaise, high)
	candidate = roundToStep(candidate)
	if candidate < minRaise {
		candidate = minRaise
	}
	if candidate > high {
		candidate = roundDownToStep(high)
	}
	if candidate < minRaise {
		return 0, false
	}
	return candidate, true
}

// maxPay derives the price ceiling from the market anchor: the average
// remaining budget per remaining lot, scaled by desire, rarity, power and
// difficulty aggression.
func (p *Profile) maxPay(sc *scoreContext) int {
	lotsLeft := sc.lotsRemaining
	if lotsLeft < 1 {
		lotsLeft = 1
	}
	anchor := float64(sc.state.TotalRemainingBudget()) / float64(lotsLeft)

	rarityMult := 1.0 + 0.18*float64(sc.lot.Flags.Count())
	powerMult := clampF(float64(sc.lot.Power)/520.0, 0.80, 1.45)

	return int(anchor * (0.55 + 0.9*sc.desire) * rarityMult * powerMult * sc.aggression)
}

// pickIncrement chooses a raise size: a weighted draw between small, medium
// and large bands, or occasionally a pressure jump across a large share of
// the remaining headroom.
func (p *Profile) pickIncrement(sc *scoreContext, minRaise, high int) int {
	base := sc.state.HighestBid

	if p.rng.Float64() < sc.pressureChance && high > minRaise {
		frac := 0.5 + 0.4*p.rng.Float64()
		return base + int(float64(high-base)*frac)
	}

	total := sc.bandWeights[0] + sc.bandWeights[1] + sc.bandWeights[2]
	draw := p.rng.Float64() * total

	var inc int
	switch {
	case draw < sc.bandWeights[0]:
		// Small: 100-300.
		inc = draft.BidStep * (1 + p.rng.Intn(3))
	case draw < sc.bandWeights[0]+sc.bandWeights[1]:
		// Medium: 400-1100.
		inc = 400 + draft.BidStep*p.rng.Intn(8)
	default:
		// Large: 1200 up to a quarter of the budget.
		ceil := roundDownToStep(sc.team.Budget / 4)
		if ceil < 1200 {
			ceil = 1200
		}
		span := (ceil-1200)/draft.BidStep + 1
		inc = 1200 + draft.BidStep*p.rng.Intn(span)
	}
	return base + inc
}

// difficultyTuning sets the tier baselines.
func difficultyTuning(p *Profile, sc *scoreContext) {
	tier := float64(p.Difficulty - 1) // 0..4

	sc.frequency = [5]float64{0.50, 0.62, 0.73, 0.84, 0.95}[p.Difficulty-1]
	sc.desire = 0.32 + 0.03*float64(p.Difficulty)
	sc.reserveFrac = p.ReserveBias * (1 - 0.12*tier)
	sc.aggression = 0.85 + 0.10*tier
	sc.bandWeights = [3]float64{0.55 - 0.07*tier, 0.32 + 0.02*tier, 0.13 + 0.05*tier}
	sc.pressureChance = 0.06 + 0.04*tier

	f := sc.lot.Flags
	switch {
	case f.Mythical:
		sc.desire += 0.32
	case f.Legendary:
		sc.desire += 0.28
	case f.PseudoLegendary:
		sc.desire += 0.22
	case f.SubLegendary:
		sc.desire += 0.18
	case f.Starter:
		sc.desire += 0.12
	}
}

func collectorStage(p *Profile, sc *scoreContext) {
	if !p.has(TraitCollector) || !sc.lot.Flags.Any() {
		return
	}
	sc.desire += 0.15
	sc.frequency += 0.05
}

func denierStage(p *Profile, sc *scoreContext) {
	if !p.has(TraitDenier) {
		return
	}
	sc.desire -= 0.18
	sc.frequency += 0.08
}

func sniperStage(p *Profile, sc *scoreContext) {
	if !p.has(TraitSniper) {
		return
	}
	sc.bandWeights[0] -= 0.10
	sc.bandWeights[2] += 0.15
	sc.pressureChance += 0.10
}

func hoarderStage(p *Profile, sc *scoreContext) {
	if !p.has(TraitHoarder) {
		return
	}
	sc.reserveFrac += 0.12
	sc.frequency -= 0.05
}

func spenderStage(p *Profile, sc *scoreContext) {
	if !p.has(TraitSpender) {
		return
	}
	sc.reserveFrac *= 0.5
	sc.frequency += 0.06
}

// situational applies the context bonuses: act sooner on a lot nobody has
// opened, push harder in the endgame, and let the reserve collapse as the
// draft runs out of lots ("spend it or lose it" on the final one).
func situational(p *Profile, sc *scoreContext) {
	if !sc.state.HasStarted {
		sc.frequency += 0.08
	}
	if sc.state.CurrentLotIndex == 0 {
		sc.frequency += 0.05
	}
	if sc.lotsRemaining <= 3 {
		sc.frequency += 0.10
	}
	if sc.lotsRemaining >= 1 {
		sc.reserveFrac *= float64(sc.lotsRemaining-1) / float64(sc.lotsRemaining)
	}
}

func clampScores(p *Profile, sc *scoreContext) {
	sc.frequency = clampF(sc.frequency, 0.05, 0.99)
	sc.desire = clampF(sc.desire, 0.05, 1.0)
	sc.reserveFrac = clampF(sc.reserveFrac, 0, 0.9)
	for i := range sc.bandWeights {
		if sc.bandWeights[i] < 0.01 {
			sc.bandWeights[i] = 0.01
		}
	}
	sc.pressureChance = clampF(sc.pressureChance, 0, 0.5)
}

func roundToStep(v int) int {
	return (v + draft.BidStep/2) / draft.BidStep * draft.BidStep
}

func roundDownToStep(v int) int {
	return v / draft.BidStep * draft.BidStep
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
