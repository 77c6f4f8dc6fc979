package draft

// TimerController is the single authoritative countdown for a draft. It has
// no goroutine of its own: the manager supplies ticks at 1 Hz and the client
// side only renders the remaining seconds it is told (the server timeout is
// what settles the lot).
type TimerController struct {
	remaining int
	running   bool
	paused    bool
	fired     bool
}

// Reset arms the countdown at the given number of seconds. Called on every
// accepted bid, so each bid re-opens the full window.
func (t *TimerController) Reset(seconds int) {
	t.remaining = seconds
	t.running = true
	t.fired = false
}

// Stop disarms the countdown without firing.
func (t *TimerController) Stop() {
	t.running = false
	t.paused = false
}

// Pause freezes the countdown in place.
func (t *TimerController) Pause() {
	if t.running {
		t.paused = true
	}
}

// Resume un-freezes the countdown and adds bonus seconds.
func (t *TimerController) Resume(bonusSeconds int) {
	if !t.paused {
		return
	}
	t.paused = false
	t.remaining += bonusSeconds
}

// Tick advances the countdown by one second. It is a no-op while paused or
// disarmed. Expiry is reported exactly once per armed window; remaining never
// goes negative.
func (t *TimerController) Tick() (remaining int, expired bool) {
	if !t.running || t.paused {
		return t.remaining, false
	}
	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining == 0 && !t.fired {
		t.fired = true
		t.running = false
		return 0, true
	}
	return t.remaining, false
}

// Remaining returns the current countdown value.
func (t *TimerController) Remaining() int { return t.remaining }

// Running reports whether the countdown is armed.
func (t *TimerController) Running() bool { return t.running }

// Paused reports whether the countdown is frozen.
func (t *TimerController) Paused() bool { return t.paused }
