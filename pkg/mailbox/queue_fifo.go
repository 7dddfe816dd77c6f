package mailbox

import (
	"context"
	"sync/atomic"
)

// fifoNode is the boxed node of the unbounded MPSC queue. Boxed rather
// than intrusive because, unlike the system queue, user envelopes are
// opaque and must not be assumed to carry a next field of their own.
type fifoNode struct {
	next atomic.Pointer[fifoNode]
	val  *Envelope
}

// FIFOQueue is an unbounded, non-blocking, single-consumer-optimized
// FIFO. It assumes exactly one goroutine calls Dequeue at a time (the
// mailbox's own run loop) and must not be paired with a dispatcher that
// allows concurrent runs of the same mailbox (spec §4.3).
//
// Grounded directly on pkg/lib/mpsc.go: same head/tail node-swap
// technique, generalized from interface{} payloads to *Envelope.
type FIFOQueue struct {
	head, tail atomic.Pointer[fifoNode]
	length     atomic.Int64
}

var _ UserQueue = (*FIFOQueue)(nil)

func NewFIFOQueue() *FIFOQueue {
	stub := &fifoNode{}
	q := &FIFOQueue{}
	q.head.Store(stub)
	q.tail.Store(stub)
	return q
}

func (q *FIFOQueue) Enqueue(_ context.Context, _ Receiver, env *Envelope, _ *deadLetterMailbox) error {
	n := &fifoNode{val: env}
	prev := q.head.Swap(n)
	prev.next.Store(n)
	q.length.Add(1)
	return nil
}

func (q *FIFOQueue) Dequeue() *Envelope {
	tail := q.tail.Load()
	next := tail.next.Load()
	if next == nil {
		return nil
	}
	q.tail.Store(next)
	v := next.val
	next.val = nil
	q.length.Add(-1)
	return v
}

func (q *FIFOQueue) HasMessages() bool {
	return q.tail.Load().next.Load() != nil
}

func (q *FIFOQueue) NumberOfMessages() int64 {
	return q.length.Load()
}

func (q *FIFOQueue) CleanUp(owner Receiver, deadLetters *deadLetterMailbox) {
	if deadLetters == nil {
		return
	}
	for env := q.Dequeue(); env != nil; env = q.Dequeue() {
		deadLetters.enqueue(owner, env)
	}
}
