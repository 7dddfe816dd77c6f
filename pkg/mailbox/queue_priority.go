package mailbox

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

// heapItem wraps an envelope with the insertion sequence used to break
// ties in FIFO order between equally-ranked messages.
type heapItem struct {
	env *Envelope
	seq uint64
}

// priorityHeap implements container/heap.Interface over heapItems,
// delegating ordering to the queue's PriorityComparator.
type priorityHeap struct {
	items []heapItem
	less  PriorityComparator
}

func (h priorityHeap) Len() int { return len(h.items) }
func (h priorityHeap) Less(i, j int) bool {
	if h.less(h.items[i].env, h.items[j].env) {
		return true
	}
	if h.less(h.items[j].env, h.items[i].env) {
		return false
	}
	return h.items[i].seq < h.items[j].seq
}
func (h priorityHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *priorityHeap) Push(x interface{}) {
	h.items = append(h.items, x.(heapItem))
}
func (h *priorityHeap) Pop() interface{} {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

// PriorityQueue is a bounded-or-unbounded priority-ordered user queue.
// Ordering is caller-supplied via PriorityComparator; ties fall back to
// arrival order (spec §8: "insertion order is preserved among messages
// the comparator considers equal").
//
// Grounded on Tochemey-goakt/actors/unbounded_priority_mailbox.go,
// which pairs container/heap with a mutex; extended here with the same
// BoundedPolicy timed-offer used by BoundedQueue and DequeQueue so a
// caller can request a bounded priority mailbox from the factory.
type PriorityQueue struct {
	mu     sync.Mutex
	h      priorityHeap
	seq    uint64
	policy BoundedPolicy
}

var _ UserQueue = (*PriorityQueue)(nil)

func NewPriorityQueue(cmp PriorityComparator, policy BoundedPolicy) (*PriorityQueue, error) {
	if cmp == nil {
		return nil, ErrNilComparator
	}
	q := &PriorityQueue{policy: policy}
	q.h.less = cmp
	heap.Init(&q.h)
	return q, nil
}

func (q *PriorityQueue) bounded() bool {
	return q.policy.Capacity > 0
}

func (q *PriorityQueue) tryPush(env *Envelope) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.bounded() && q.h.Len() >= q.policy.Capacity {
		return false
	}
	q.seq++
	heap.Push(&q.h, heapItem{env: env, seq: q.seq})
	return true
}

func (q *PriorityQueue) Enqueue(ctx context.Context, receiver Receiver, env *Envelope, deadLetters *deadLetterMailbox) error {
	if q.tryPush(env) {
		return nil
	}
	if q.policy.PushTimeout <= 0 {
		for {
			if q.tryPush(env) {
				return nil
			}
			select {
			case <-time.After(time.Millisecond):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	timer := time.NewTimer(q.policy.PushTimeout)
	defer timer.Stop()
	for {
		if q.tryPush(env) {
			return nil
		}
		select {
		case <-timer.C:
			if deadLetters != nil {
				deadLetters.enqueue(receiver, env)
			}
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}
}

func (q *PriorityQueue) Dequeue() *Envelope {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.h.Len() == 0 {
		return nil
	}
	item := heap.Pop(&q.h).(heapItem)
	return item.env
}

func (q *PriorityQueue) HasMessages() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.h.Len() > 0
}

func (q *PriorityQueue) NumberOfMessages() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(q.h.Len())
}

func (q *PriorityQueue) CleanUp(owner Receiver, deadLetters *deadLetterMailbox) {
	if deadLetters == nil {
		return
	}
	for env := q.Dequeue(); env != nil; env = q.Dequeue() {
		deadLetters.enqueue(owner, env)
	}
}
