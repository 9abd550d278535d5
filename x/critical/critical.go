// Package critical provides the single global critical section shared by the
// interrupt handlers and the main loop.
//
// On TinyGo builds the section masks interrupts for its duration. On host
// builds, where "interrupts" are goroutines, it is a process-wide mutex.
// Either way the section is coarse and NOT reentrant: calling Do from inside
// Do deadlocks on host and is undefined on hardware. Keep bodies short and
// never perform blocking I/O inside one.
package critical

// Cell holds a value that is only reachable from inside the critical section.
type Cell[T any] struct {
	v T
}

// NewCell returns a Cell holding v.
func NewCell[T any](v T) *Cell[T] { return &Cell[T]{v: v} }

// With runs fn on the guarded value inside the critical section.
func (c *Cell[T]) With(fn func(v *T)) {
	Do(func() { fn(&c.v) })
}

// Get runs fn inside the critical section and returns its result.
func Get[T, R any](c *Cell[T], fn func(v *T) R) (r R) {
	Do(func() { r = fn(&c.v) })
	return r
}
