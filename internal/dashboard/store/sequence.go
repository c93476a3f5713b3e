package store

import "sync/atomic"

// Sequence hands out monotonically increasing reconcile sequence
// numbers. Every remote fetch takes a number at issue time; the stores
// apply a response only when its number beats the last applied one, so
// overlapping in-flight cycles resolve deterministically.
type Sequence struct {
	n atomic.Uint64
}

// Next returns the next sequence number.
func (s *Sequence) Next() uint64 {
	return s.n.Add(1)
}

// Current returns the most recently issued number.
func (s *Sequence) Current() uint64 {
	return s.n.Load()
}
