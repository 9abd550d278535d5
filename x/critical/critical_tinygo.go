//go:build tinygo

package critical

import "runtime/interrupt"

// Do runs fn with interrupts globally masked.
func Do(fn func()) {
	st := interrupt.Disable()
	fn()
	interrupt.Restore(st)
}
