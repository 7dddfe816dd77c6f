package mailbox

import (
	"context"
	"testing"
)

func TestDequeQueueEnqueueFirstBypassesFIFO(t *testing.T) {
	q := NewDequeQueue(BoundedPolicy{})
	ctx := context.Background()

	q.Enqueue(ctx, nil, NewEnvelope("back-1", nil), nil)
	q.Enqueue(ctx, nil, NewEnvelope("back-2", nil), nil)
	q.EnqueueFirst(NewEnvelope("front", nil))

	if got := q.Dequeue(); got.Message != "front" {
		t.Fatalf("expected front-injected message first, got %v", got.Message)
	}
	if got := q.Dequeue(); got.Message != "back-1" {
		t.Fatalf("expected FIFO order to resume after the injected message, got %v", got.Message)
	}
}

func TestDequeQueueSatisfiesDequeCapable(t *testing.T) {
	q := NewDequeQueue(BoundedPolicy{})
	if _, ok := asDequeCapable(q); !ok {
		t.Fatalf("DequeQueue must satisfy DequeCapable")
	}
}

func TestFIFOQueueDoesNotSatisfyDequeCapable(t *testing.T) {
	q := NewFIFOQueue()
	if _, ok := asDequeCapable(q); ok {
		t.Fatalf("FIFOQueue must not satisfy DequeCapable")
	}
}
