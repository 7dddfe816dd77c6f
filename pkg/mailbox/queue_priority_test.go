package mailbox

import (
	"context"
	"testing"
)

func TestPriorityQueueOrdersByComparator(t *testing.T) {
	byPriority := func(a, b *Envelope) bool {
		return a.Message.(int) < b.Message.(int)
	}
	q, err := NewPriorityQueue(byPriority, BoundedPolicy{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	for _, v := range []int{5, 1, 3, 1} {
		if err := q.Enqueue(ctx, nil, NewEnvelope(v, nil), nil); err != nil {
			t.Fatalf("enqueue %d: %v", v, err)
		}
	}

	want := []int{1, 1, 3, 5}
	for i, w := range want {
		env := q.Dequeue()
		if env == nil {
			t.Fatalf("expected an envelope at position %d", i)
		}
		if env.Message.(int) != w {
			t.Fatalf("position %d: expected %d, got %v", i, w, env.Message)
		}
	}
}

func TestPriorityQueueTiesPreserveInsertionOrder(t *testing.T) {
	allEqual := func(a, b *Envelope) bool { return false }
	q, err := NewPriorityQueue(allEqual, BoundedPolicy{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	q.Enqueue(ctx, nil, NewEnvelope("first", nil), nil)
	q.Enqueue(ctx, nil, NewEnvelope("second", nil), nil)

	if got := q.Dequeue(); got.Message != "first" {
		t.Fatalf("expected insertion order to break ties, got %v", got.Message)
	}
}

func TestNewPriorityQueueRequiresComparator(t *testing.T) {
	if _, err := NewPriorityQueue(nil, BoundedPolicy{}); err != ErrNilComparator {
		t.Fatalf("expected ErrNilComparator, got %v", err)
	}
}
