package mailbox

import (
	"context"
	"sync/atomic"
	"time"

	gods "github.com/Workiva/go-datastructures/queue"
)

// BoundedPolicy captures spec §4.3's "Bounded policy": a positive
// PushTimeout uses a timed offer that diverts to dead letters on
// expiry; a zero PushTimeout uses unbounded-blocking put semantics.
type BoundedPolicy struct {
	Capacity    int
	PushTimeout time.Duration
}

// BoundedQueue is a bounded FIFO. When PushTimeout > 0 it is backed by a
// channel and a timed offer (grounded on internal/actor/waiter.go's
// chanWaiter select-over-channel-and-time.After idiom); when
// PushTimeout == 0 it is backed by a go-datastructures RingBuffer whose
// Put/Get block until space/data is available, matching
// Tochemey-goakt/actor/bounded_mailbox.go's BoundedMailbox.
type BoundedQueue struct {
	policy BoundedPolicy

	// timed-offer path
	ch chan *Envelope

	// unbounded-blocking-put path
	ring *gods.RingBuffer

	length atomic.Int64
}

var _ UserQueue = (*BoundedQueue)(nil)

// NewBoundedQueue builds a BoundedQueue per policy. It does not validate
// Capacity itself; construction-time validation of the factory's config
// lives in factory.go, which rejects only negative capacities (spec §7:
// "Factory misconfiguration ... fails eagerly on construction").
func NewBoundedQueue(policy BoundedPolicy) *BoundedQueue {
	q := &BoundedQueue{policy: policy}
	if policy.PushTimeout > 0 {
		q.ch = make(chan *Envelope, policy.Capacity)
	} else {
		q.ring = gods.NewRingBuffer(uint64(policy.Capacity))
	}
	return q
}

func (q *BoundedQueue) Enqueue(ctx context.Context, receiver Receiver, env *Envelope, deadLetters *deadLetterMailbox) error {
	if q.ring != nil {
		if err := q.ring.Put(env); err != nil {
			return err
		}
		q.length.Add(1)
		return nil
	}

	timer := time.NewTimer(q.policy.PushTimeout)
	defer timer.Stop()
	select {
	case q.ch <- env:
		q.length.Add(1)
		return nil
	case <-timer.C:
		if deadLetters != nil {
			deadLetters.enqueue(receiver, env)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *BoundedQueue) Dequeue() *Envelope {
	if q.ring != nil {
		if q.ring.Len() == 0 {
			return nil
		}
		item, err := q.ring.Get()
		if err != nil {
			return nil
		}
		q.length.Add(-1)
		env, _ := item.(*Envelope)
		return env
	}

	select {
	case env := <-q.ch:
		q.length.Add(-1)
		return env
	default:
		return nil
	}
}

func (q *BoundedQueue) HasMessages() bool {
	if q.ring != nil {
		return q.ring.Len() > 0
	}
	return len(q.ch) > 0
}

func (q *BoundedQueue) NumberOfMessages() int64 {
	return q.length.Load()
}

func (q *BoundedQueue) CleanUp(owner Receiver, deadLetters *deadLetterMailbox) {
	if deadLetters != nil {
		for env := q.Dequeue(); env != nil; env = q.Dequeue() {
			deadLetters.enqueue(owner, env)
		}
	}
	if q.ring != nil {
		q.ring.Dispose()
	}
}
