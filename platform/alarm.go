package platform

// Alarm computes successive targets for a compare alarm on a free-running
// 32-bit microsecond counter, such as the rp2040 TIMER.
type Alarm struct {
	// Period in counter units.
	Period uint32

	next uint32
}

// Arm returns the first target, one period after now.
func (a *Alarm) Arm(now uint32) uint32 {
	a.next = now + a.Period
	return a.next
}

// Next returns the target following the one that just fired. Targets stay
// phase-locked to Arm so handler latency does not accumulate. If the handler
// ran so late that the following target is already behind now, it re-bases
// on now; a target in the past would only match after the counter wraps.
func (a *Alarm) Next(now uint32) uint32 {
	a.next += a.Period
	if int32(a.next-now) <= 0 {
		a.next = now + a.Period
	}
	return a.next
}
