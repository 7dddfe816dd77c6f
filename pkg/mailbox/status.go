package mailbox

import "sync/atomic"

// Status words. The literal values are load-bearing: bit 0 is Closed,
// bit 1 is Scheduled, and bits 2..31 pack the suspend count in units of
// SuspendUnit. Open's zero value must coincide with the zero value of
// the containing struct's storage, so a zero-initialized Status starts
// life Open.
const (
	Open        uint32 = 0
	Closed      uint32 = 1
	Scheduled   uint32 = 2
	SuspendUnit uint32 = 4
)

// status is a single packed atomic word encoding primary state +
// scheduled bit + suspend count, per spec §4.1. Every transition is a
// CAS-retry loop; there is deliberately no lock anywhere in this file.
type status struct {
	word atomic.Uint32
}

func (s *status) load() uint32 {
	return s.word.Load()
}

func shouldProcessMessage(v uint32) bool {
	return v&^Scheduled == 0
}

func isSuspended(v uint32) bool {
	return v&^Scheduled&^uint32(1) != 0
}

func isScheduled(v uint32) bool {
	return v&Scheduled != 0
}

func isClosed(v uint32) bool {
	return v == Closed
}

// suspend increments the suspend count by SuspendUnit. It returns true
// iff this call caused the Open(-ish) → Suspended transition, i.e. the
// suspend count was zero before this call. No-op on Closed.
func (s *status) suspend() bool {
	for {
		cur := s.word.Load()
		if isClosed(cur) {
			// Closed is terminal but still needs a publishing store so
			// that writes ordered-before this call by the caller are
			// visible to whoever next reads the word.
			s.word.Store(Closed)
			return false
		}
		wasIdle := cur&^Scheduled&^uint32(1) == 0
		next := cur + SuspendUnit
		if s.word.CompareAndSwap(cur, next) {
			return wasIdle
		}
	}
}

// resume decrements the suspend count by SuspendUnit when it is
// positive (a no-op otherwise). It returns true iff the resulting
// suspend count is zero. No-op on Closed (returns false).
func (s *status) resume() bool {
	for {
		cur := s.word.Load()
		if isClosed(cur) {
			s.word.Store(Closed)
			return false
		}
		suspendCount := cur &^ Scheduled &^ uint32(1)
		next := cur
		if suspendCount > 0 {
			next = cur - SuspendUnit
		}
		if s.word.CompareAndSwap(cur, next) {
			return next&^Scheduled&^uint32(1) == 0
		}
	}
}

// becomeClosed CASes the word to the exact value Closed, wiping
// scheduled and suspend bits. Returns true iff this call performed the
// transition; an already-closed mailbox returns false and leaves the
// word untouched (it is already the idempotent target value).
func (s *status) becomeClosed() bool {
	for {
		cur := s.word.Load()
		if cur == Closed {
			return false
		}
		if s.word.CompareAndSwap(cur, Closed) {
			return true
		}
	}
}

// setAsScheduled sets the Scheduled bit from pure Open or pure
// Suspended (i.e. whenever Closed and Scheduled are both clear,
// regardless of suspend count). Returns true iff this call set the bit.
func (s *status) setAsScheduled() bool {
	for {
		cur := s.word.Load()
		if cur&(Closed|Scheduled) != 0 {
			return false
		}
		next := cur | Scheduled
		if s.word.CompareAndSwap(cur, next) {
			return true
		}
	}
}

// setAsIdle clears the Scheduled bit regardless of primary state and
// always eventually succeeds. On an already-closed word it performs a
// volatile store instead of a CAS: the store is required so that writes
// the draining worker performed before calling setAsIdle are published
// with the same ordering a successful CAS would have given them.
func (s *status) setAsIdle() {
	for {
		cur := s.word.Load()
		if cur == Closed {
			s.word.Store(Closed)
			return
		}
		next := cur &^ Scheduled
		if s.word.CompareAndSwap(cur, next) {
			return
		}
	}
}
