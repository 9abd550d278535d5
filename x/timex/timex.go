package timex

import "time"

// PeriodFromHz returns the period for a requested frequency.
// freqHz==0 is coerced to 1 to avoid division by zero.
func PeriodFromHz(freqHz uint32) time.Duration {
	if freqHz == 0 {
		freqHz = 1
	}
	return time.Duration(uint64(time.Second) / uint64(freqHz))
}

// Periodic is a free-running busy-wait timer. Start arms it at a rate; each
// Wait blocks until the next period boundary. Boundaries are derived from the
// start instant, so time spent between Waits does not accumulate as drift.
//
// Wait spins; it is meant for short bit-timing windows, not for scheduling.
type Periodic struct {
	period time.Duration
	next   time.Time

	// Now defaults to time.Now.
	Now func() time.Time
}

// Start arms the timer at freqHz.
func (p *Periodic) Start(freqHz uint32) {
	if p.Now == nil {
		p.Now = time.Now
	}
	p.period = PeriodFromHz(freqHz)
	p.next = p.Now().Add(p.period)
}

// Wait blocks until the current period elapses.
func (p *Periodic) Wait() {
	if p.period == 0 {
		return
	}
	for p.Now().Before(p.next) {
	}
	p.next = p.next.Add(p.period)
}
