package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock provides time operations that can be faked in tests.
// clockwork.Clock and clockwork.FakeClock both satisfy it.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) clockwork.Ticker
}

// New returns the system clock
func New() Clock {
	return clockwork.NewRealClock()
}

// NewFake returns a controllable clock starting at t
func NewFake(t time.Time) *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(t)
}
