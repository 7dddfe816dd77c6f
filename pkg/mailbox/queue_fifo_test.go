package mailbox

import (
	"context"
	"testing"
)

func TestFIFOQueuePreservesOrder(t *testing.T) {
	q := NewFIFOQueue()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		env := NewEnvelope(i, nil)
		if err := q.Enqueue(ctx, nil, env, nil); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}

	if q.NumberOfMessages() != 3 {
		t.Fatalf("expected 3 queued messages, got %d", q.NumberOfMessages())
	}

	for i := 0; i < 3; i++ {
		env := q.Dequeue()
		if env == nil {
			t.Fatalf("expected an envelope at position %d", i)
		}
		if env.Message.(int) != i {
			t.Fatalf("expected message %d, got %v", i, env.Message)
		}
	}

	if q.Dequeue() != nil {
		t.Fatalf("queue should be empty")
	}
	if q.HasMessages() {
		t.Fatalf("HasMessages should be false on an empty queue")
	}
}

func TestFIFOQueueCleanUpDivertsResidual(t *testing.T) {
	q := NewFIFOQueue()
	q.Enqueue(context.Background(), "owner", NewEnvelope("stray", nil), nil)

	var captured []DeadLetter
	stream := NewEventStream[DeadLetter]()
	stream.Subscribe(func(l DeadLetter) { captured = append(captured, l) })
	dl := newDeadLetterMailbox(nil, nil, stream, nil)

	q.CleanUp("owner", dl)

	if len(captured) != 1 {
		t.Fatalf("expected 1 dead letter, got %d", len(captured))
	}
	if captured[0].Message != "stray" {
		t.Fatalf("unexpected dead letter payload: %v", captured[0].Message)
	}
}
