package mailbox

import "context"

// UserQueue is the pluggable FIFO (or priority/deque) user-message
// queue every Mailbox variant is built from (spec §4.3). Implementations
// are thread-safe for any number of producers; Dequeue is called only
// by the mailbox's own run loop and may assume a single consumer.
type UserQueue interface {
	// Enqueue pushes an envelope addressed to receiver. Bounded
	// variants with a positive push-timeout divert to deadLetters on
	// timeout instead of returning an error (spec §7: "not an error").
	Enqueue(ctx context.Context, receiver Receiver, env *Envelope, deadLetters *deadLetterMailbox) error
	// Dequeue returns the next envelope, or nil if the queue is empty.
	Dequeue() *Envelope
	// HasMessages is a best-effort, O(1) hint.
	HasMessages() bool
	// NumberOfMessages is a best-effort count; may be conservative
	// (e.g. always 0) when an O(1) answer isn't available (spec §4.3).
	NumberOfMessages() int64
	// CleanUp drains any residual envelopes to deadLetters, addressed
	// to owner.
	CleanUp(owner Receiver, deadLetters *deadLetterMailbox)
}

// DequeCapable is an extension capability advertised by queues that
// support LIFO injection ahead of the FIFO head, used by stash/unstash
// patterns above the core (spec §5, §9).
type DequeCapable interface {
	EnqueueFirst(env *Envelope)
}

// PriorityComparator orders two envelopes; Less reports whether a
// should be dequeued before b. Tie-break order is unspecified (spec §8).
type PriorityComparator func(a, b *Envelope) bool

// asDequeCapable is a capability query helper used by the factory to
// validate a declared mailbox requirement (spec §4.6).
func asDequeCapable(q UserQueue) (DequeCapable, bool) {
	d, ok := q.(DequeCapable)
	return d, ok
}
