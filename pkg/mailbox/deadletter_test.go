package mailbox

import (
	"errors"
	"testing"
)

type failingJournal struct {
	err error
}

func (f *failingJournal) Record(DeadLetter) error { return f.err }

func TestDeadLetterMailboxPublishesForwardFailure(t *testing.T) {
	journalErr := errors.New("disk full")
	journal := &failingJournal{err: journalErr}

	var captured []DeadLetterForwardFailure
	failures := NewEventStream[DeadLetterForwardFailure]()
	failures.Subscribe(func(f DeadLetterForwardFailure) { captured = append(captured, f) })

	dl := newDeadLetterMailbox(nil, journal, nil, failures)
	msg := NewSystemMessage(Terminate{}, "sender")

	dl.systemEnqueue("receiver", msg)

	if len(captured) != 1 {
		t.Fatalf("expected 1 forward failure, got %d", len(captured))
	}
	if captured[0].Receiver != "receiver" {
		t.Fatalf("unexpected receiver: %v", captured[0].Receiver)
	}
	if captured[0].Err != journalErr {
		t.Fatalf("expected the journal's own error, got %v", captured[0].Err)
	}
}

func TestDeadLetterMailboxNoFailureOnSuccess(t *testing.T) {
	journal := &failingJournal{err: nil}

	var captured []DeadLetterForwardFailure
	failures := NewEventStream[DeadLetterForwardFailure]()
	failures.Subscribe(func(f DeadLetterForwardFailure) { captured = append(captured, f) })

	dl := newDeadLetterMailbox(nil, journal, nil, failures)
	dl.systemEnqueue("receiver", NewSystemMessage(Terminate{}, nil))

	if len(captured) != 0 {
		t.Fatalf("expected no forward failures, got %d", len(captured))
	}
}
