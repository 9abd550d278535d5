// Package ringbuf provides a fixed-capacity circular FIFO used to hand bytes
// from an interrupt handler to a polling consumer.
//
// The ring has Slots storage slots of which Slots-1 are usable: head == tail
// means empty, so one slot is always sacrificed to tell full from empty.
// Pushing into a full ring overwrites the oldest element; a producer is never
// blocked and never told to retry.
//
// A Ring has no internal synchronisation. Callers sharing one between an
// interrupt handler and the main loop must wrap every access in the global
// critical section (see x/critical).
package ringbuf

// Slots is the number of storage slots in a Ring.
const Slots = 128

// Ring is a single-owner circular buffer. The zero value is an empty ring.
type Ring[T any] struct {
	head uint16 // next slot to pop
	tail uint16 // next slot to push
	buf  [Slots]T
}

// New returns an empty ring.
func New[T any]() *Ring[T] { return &Ring[T]{} }

// Cap is the number of elements the ring can hold before it starts to
// overwrite (Slots-1).
func (r *Ring[T]) Cap() int { return Slots - 1 }

// Push appends v. On overflow the oldest element is dropped.
func (r *Ring[T]) Push(v T) {
	r.buf[r.tail] = v
	r.tail = (r.tail + 1) % Slots
	if r.tail == r.head {
		r.head = (r.head + 1) % Slots
	}
}

// Pop removes and returns the oldest element. ok is false when empty.
func (r *Ring[T]) Pop() (v T, ok bool) {
	if r.head == r.tail {
		return v, false
	}
	v = r.buf[r.head]
	r.head = (r.head + 1) % Slots
	return v, true
}

// Clear empties the ring. Slot contents are not zeroed.
func (r *Ring[T]) Clear() {
	r.head = 0
	r.tail = 0
}

// IsEmpty reports whether Pop would return nothing.
func (r *Ring[T]) IsEmpty() bool { return r.head == r.tail }

// Size returns the number of queued elements: (tail - head) mod Slots.
func (r *Ring[T]) Size() int {
	return int((r.tail + Slots - r.head) % Slots)
}

// Drain pops up to len(dst) elements into dst in FIFO order and returns how
// many were copied.
func (r *Ring[T]) Drain(dst []T) (n int) {
	for n < len(dst) {
		v, ok := r.Pop()
		if !ok {
			break
		}
		dst[n] = v
		n++
	}
	return n
}
