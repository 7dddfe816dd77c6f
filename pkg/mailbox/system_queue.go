package mailbox

import "sync/atomic"

// systemQueue is a lock-free intrusive LIFO (Treiber stack) of
// SystemMessage nodes, closed by swapping in the noMessage sentinel.
//
// Grounded on pkg/lib/mpsc.go's single-pointer-CAS lock-free queue,
// generalized from an MPSC FIFO with a boxed node type to a Treiber
// LIFO over the intrusive next field the message type itself carries
// (spec §9: "an intrusive-link abstraction ... rather than boxing each
// node in a container").
type systemQueue struct {
	head atomic.Pointer[SystemMessage]

	deadLetters *deadLetterMailbox
}

func newSystemQueue() *systemQueue {
	return &systemQueue{}
}

// enqueue links msg onto the head of the list. Precondition: msg.next
// is nil (msg is virgin). If the queue has been closed (head holds the
// noMessage sentinel), msg is redirected to the dead-letter mailbox's
// system queue instead and this call never touches the closed list.
func (q *systemQueue) enqueue(receiver Receiver, msg *SystemMessage) {
	for {
		old := q.head.Load()
		if old == noMessage {
			if q.deadLetters != nil {
				q.deadLetters.systemEnqueue(receiver, msg)
			}
			return
		}
		msg.next = old
		if q.head.CompareAndSwap(old, msg) {
			return
		}
		// Lost the race: unlink and retry from the beginning.
		msg.next = nil
	}
}

// drain atomically swaps the current head for newHead and returns the
// old list reversed into FIFO (earliest-enqueued first). The caller
// becomes sole owner of the returned chain and may unlink nodes as it
// consumes them. A closed queue (head holds noMessage) stays closed:
// drain leaves the sentinel in place and returns nil.
func (q *systemQueue) drain(newHead *SystemMessage) *SystemMessage {
	var old *SystemMessage
	for {
		old = q.head.Load()
		if old == noMessage {
			return nil
		}
		if q.head.CompareAndSwap(old, newHead) {
			break
		}
	}
	var reversed *SystemMessage
	for old != nil && old != noMessage {
		next := old.next
		old.next = reversed
		reversed = old
		old = next
	}
	return reversed
}

// hasMessages reports whether the list is non-empty and not closed.
func (q *systemQueue) hasMessages() bool {
	h := q.head.Load()
	return h != nil && h != noMessage
}

// close swaps in the closed sentinel, returning any messages that were
// still queued (already reversed into FIFO order). Subsequent enqueues
// observe the sentinel and divert to dead letters.
func (q *systemQueue) close() *SystemMessage {
	return q.drain(noMessage)
}

// unlink clears msg's next pointer, making it virgin again so it may be
// safely re-enqueued (e.g. forwarded to dead letters).
func unlink(msg *SystemMessage) *SystemMessage {
	next := msg.next
	msg.next = nil
	return next
}
