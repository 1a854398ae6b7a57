package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock stamps requests when they are created and forecasts when they are
// built, so one fake clock fixes both ends in tests.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now is the current UTC time at the whole-second resolution the event
// headers carry.
func Now() time.Time {
	return clock.Now().UTC().Truncate(time.Second)
}
