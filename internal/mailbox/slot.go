// Package mailbox provides the single-slot handoff between the frame
// producer and the presentation consumer.
//
// A Slot holds at most one value. Offer never blocks: when the slot is
// still full the new value is dropped, not queued.
package mailbox

import "sync/atomic"

// Stats is a snapshot of slot counters.
type Stats struct {
	// Offered is the number of Offer calls.
	Offered uint64 `json:"offered"`
	// Delivered is the number of values taken by Poll.
	Delivered uint64 `json:"delivered"`
	// Dropped is the number of values discarded because the slot was full.
	Dropped uint64 `json:"dropped"`
}

// Slot is a capacity-1, drop-new-on-full handoff.
// Offer and Poll are safe for concurrent use.
type Slot[T any] struct {
	ch chan T

	offered   atomic.Uint64
	delivered atomic.Uint64
	dropped   atomic.Uint64
}

// New creates an empty Slot.
func New[T any]() *Slot[T] {
	return &Slot[T]{ch: make(chan T, 1)}
}

// Offer stores v if the slot is empty and reports whether it was stored.
func (s *Slot[T]) Offer(v T) bool {
	s.offered.Add(1)
	select {
	case s.ch <- v:
		return true
	default:
		s.dropped.Add(1)
		return false
	}
}

// Poll takes the stored value, if any, without blocking.
func (s *Slot[T]) Poll() (T, bool) {
	select {
	case v := <-s.ch:
		s.delivered.Add(1)
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// Stats returns the current counters.
func (s *Slot[T]) Stats() Stats {
	return Stats{
		Offered:   s.offered.Load(),
		Delivered: s.delivered.Load(),
		Dropped:   s.dropped.Load(),
	}
}
