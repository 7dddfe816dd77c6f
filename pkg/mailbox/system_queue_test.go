package mailbox

import "testing"

func TestSystemQueueDrainIsFIFO(t *testing.T) {
	q := newSystemQueue()

	first := NewSystemMessage(Suspend{}, nil)
	second := NewSystemMessage(Resume{}, nil)
	third := NewSystemMessage(Terminate{}, nil)

	q.enqueue(nil, first)
	q.enqueue(nil, second)
	q.enqueue(nil, third)

	head := q.drain(nil)
	order := []*SystemMessage{}
	for msg := head; msg != nil; {
		order = append(order, msg)
		msg = unlink(msg)
	}

	if len(order) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(order))
	}
	if order[0] != first || order[1] != second || order[2] != third {
		t.Fatalf("drain must return messages in enqueue (FIFO) order despite LIFO push")
	}
}

func TestSystemQueueCloseDivertsSubsequentEnqueues(t *testing.T) {
	dl := newDeadLetterMailbox(nil, nil, nil, nil)
	q := newSystemQueue()
	q.deadLetters = dl

	q.enqueue(nil, NewSystemMessage(Suspend{}, nil))
	q.close()

	late := NewSystemMessage(Resume{}, nil)
	q.enqueue(nil, late)

	if q.hasMessages() {
		t.Fatalf("a closed system queue must never report messages again")
	}
}

func TestSystemQueueCloseReturnsResidual(t *testing.T) {
	q := newSystemQueue()
	q.enqueue(nil, NewSystemMessage(Suspend{}, nil))
	q.enqueue(nil, NewSystemMessage(Resume{}, nil))

	residual := q.close()
	if residual == nil {
		t.Fatalf("close must return messages still queued at the time of closing")
	}
}
