package draft

import "time"

// SetTickInterval overrides the manager cadence and returns a restore func.
func SetTickInterval(d time.Duration) func() {
	prev := tickInterval
	tickInterval = d
	return func() { tickInterval = prev }
}
