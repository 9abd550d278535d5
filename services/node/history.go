package node

// Sample is the storage type of one channel.
type Sample interface{ ~int16 | ~uint16 }

// History is a fixed-depth circular buffer of samples. Unwritten slots hold
// zero and take part in the mean until the buffer has wrapped once.
type History[T Sample] struct {
	buf  [HistoryDepth]T
	next uint8
	last T
	seen bool
}

// Push stores v, overwriting the oldest slot.
func (h *History[T]) Push(v T) {
	h.buf[h.next] = v
	h.next = (h.next + 1) % HistoryDepth
	h.last, h.seen = v, true
}

// Last returns the most recently pushed sample.
func (h *History[T]) Last() (T, bool) { return h.last, h.seen }

// Sum adds every slot, written or not.
func (h *History[T]) Sum() int32 {
	var s int32
	for _, v := range h.buf {
		s += int32(v)
	}
	return s
}

// Mean divides Sum by n. It reports false when n is zero.
func (h *History[T]) Mean(n uint8) (T, bool) {
	if n == 0 {
		return 0, false
	}
	return T(h.Sum() / int32(n)), true
}

// WriteValue records one read result: a good value is pushed and clears the
// error flag, a failure leaves the history untouched and sets it.
func WriteValue[T Sample](h *History[T], errFlag *bool, v T, err error) {
	if err != nil {
		*errFlag = true
		return
	}
	h.Push(v)
	*errFlag = false
}
