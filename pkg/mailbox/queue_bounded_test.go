package mailbox

import (
	"context"
	"testing"
	"time"
)

func TestBoundedQueueDivertsOnTimeout(t *testing.T) {
	q := NewBoundedQueue(BoundedPolicy{Capacity: 1, PushTimeout: 20 * time.Millisecond})
	ctx := context.Background()

	if err := q.Enqueue(ctx, "owner", NewEnvelope("first", nil), nil); err != nil {
		t.Fatalf("first enqueue should succeed: %v", err)
	}

	var captured []DeadLetter
	stream := NewEventStream[DeadLetter]()
	stream.Subscribe(func(l DeadLetter) { captured = append(captured, l) })
	dl := newDeadLetterMailbox(nil, nil, stream, nil)

	if err := q.Enqueue(ctx, "owner", NewEnvelope("second", nil), dl); err != nil {
		t.Fatalf("timed-out enqueue should not return an error: %v", err)
	}

	if len(captured) != 1 {
		t.Fatalf("expected the second message to divert to dead letters, got %d captures", len(captured))
	}
	if captured[0].Message != "second" {
		t.Fatalf("unexpected diverted payload: %v", captured[0].Message)
	}

	if q.NumberOfMessages() != 1 {
		t.Fatalf("bounded queue should still hold exactly the first message, got %d", q.NumberOfMessages())
	}
}

func TestBoundedQueueRingBufferPath(t *testing.T) {
	q := NewBoundedQueue(BoundedPolicy{Capacity: 2})
	ctx := context.Background()

	if err := q.Enqueue(ctx, "owner", NewEnvelope("a", nil), nil); err != nil {
		t.Fatalf("enqueue a: %v", err)
	}
	if err := q.Enqueue(ctx, "owner", NewEnvelope("b", nil), nil); err != nil {
		t.Fatalf("enqueue b: %v", err)
	}

	first := q.Dequeue()
	if first == nil || first.Message != "a" {
		t.Fatalf("expected FIFO order from the ring-buffer path, got %v", first)
	}
}
