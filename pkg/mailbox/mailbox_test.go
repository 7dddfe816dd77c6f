package mailbox

import (
	"context"
	"sync"
	"testing"
)

// recordingInvoker captures the order system and user messages were
// delivered in, so tests can assert system-before-user priority.
type recordingInvoker struct {
	mu    sync.Mutex
	trace []string
}

func (r *recordingInvoker) Invoke(env *Envelope) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trace = append(r.trace, "user:"+env.Message.(string))
}

func (r *recordingInvoker) SystemInvoke(msg *SystemMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trace = append(r.trace, "system")
	return nil
}

func newTestMailbox(inv Invoker) *Mailbox {
	dispatcher := NewSynchronizedDispatcher(10, 0)
	mb := NewMailbox("owner", NewFIFOQueue(), dispatcher, nil)
	mb.SetActor(inv)
	return mb
}

// newUndispatchedMailbox has no dispatcher, so Enqueue/SystemEnqueue
// only queue messages and never trigger a run turn on their own; the
// test drives Run explicitly to observe ordering within a single turn.
func newUndispatchedMailbox(inv Invoker) *Mailbox {
	mb := NewMailbox("owner", NewFIFOQueue(), nil, nil)
	mb.SetActor(inv)
	return mb
}

func TestMailboxProcessesSystemBeforeUser(t *testing.T) {
	inv := &recordingInvoker{}
	mb := newUndispatchedMailbox(inv)
	ctx := context.Background()

	mb.Enqueue(ctx, NewEnvelope("hello", nil))
	mb.SystemEnqueue(NewSystemMessage(Suspend{}, nil))
	mb.Resume()

	if err := mb.Run(ctx, RunPolicy{Throughput: 10}); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(inv.trace) == 0 || inv.trace[0] != "system" {
		t.Fatalf("expected system message to be processed before the user message, got %v", inv.trace)
	}
}

func TestMailboxRefusesRunWithoutActor(t *testing.T) {
	mb := NewMailbox("owner", NewFIFOQueue(), NewSynchronizedDispatcher(10, 0), nil)
	err := mb.Run(context.Background(), RunPolicy{Throughput: 1})
	if err != ErrActorNotSet {
		t.Fatalf("expected ErrActorNotSet, got %v", err)
	}
}

func TestMailboxSuspendedSkipsUserMessages(t *testing.T) {
	inv := &recordingInvoker{}
	mb := newTestMailbox(inv)
	ctx := context.Background()

	mb.Suspend()
	mb.Enqueue(ctx, NewEnvelope("should-not-run", nil))

	for _, entry := range inv.trace {
		if entry == "user:should-not-run" {
			t.Fatalf("a suspended mailbox must not invoke user messages")
		}
	}
	if !mb.HasMessages() {
		t.Fatalf("the message should remain queued, not dropped")
	}
}

func TestMailboxClosedEnqueueDivertsToDeadLetters(t *testing.T) {
	var captured []DeadLetter
	stream := NewEventStream[DeadLetter]()
	stream.Subscribe(func(l DeadLetter) { captured = append(captured, l) })
	dl := newDeadLetterMailbox(nil, nil, stream, nil)

	inv := &recordingInvoker{}
	dispatcher := NewSynchronizedDispatcher(10, 0)
	mb := NewMailbox("owner", NewFIFOQueue(), dispatcher, dl)
	mb.SetActor(inv)

	mb.Close()
	if err := mb.Enqueue(context.Background(), NewEnvelope("late", nil)); err != nil {
		t.Fatalf("enqueue to a closed mailbox should not itself error: %v", err)
	}

	if len(captured) != 1 || captured[0].Message != "late" {
		t.Fatalf("expected the late send to be diverted to dead letters, got %v", captured)
	}
}

func TestMailboxCleanUpDrainsWithoutClosing(t *testing.T) {
	var captured []DeadLetter
	stream := NewEventStream[DeadLetter]()
	stream.Subscribe(func(l DeadLetter) { captured = append(captured, l) })
	dl := newDeadLetterMailbox(nil, nil, stream, nil)

	inv := &recordingInvoker{}
	mb := newUndispatchedMailbox(inv)
	mb.deadLetters = dl
	mb.system.deadLetters = dl
	ctx := context.Background()

	mb.Enqueue(ctx, NewEnvelope("stray-user", nil))
	mb.SystemEnqueue(NewSystemMessage(Watch{}, nil))

	mb.CleanUp()

	if mb.IsClosed() {
		t.Fatalf("CleanUp must not itself transition the mailbox to Closed")
	}
	if len(captured) != 2 {
		t.Fatalf("expected both queues drained to dead letters, got %v", captured)
	}
	if mb.HasMessages() || mb.HasSystemMessages() {
		t.Fatalf("both queues should be empty after CleanUp")
	}

	if err := mb.SystemEnqueue(NewSystemMessage(Watch{}, nil)); err != nil {
		t.Fatalf("system enqueue after CleanUp should not itself error: %v", err)
	}
	if len(captured) != 3 {
		t.Fatalf("post-CleanUp system sends should still divert to dead letters, got %v", captured)
	}
}

func TestMailboxScheduledMutualExclusion(t *testing.T) {
	mb := NewMailbox("owner", NewFIFOQueue(), NewSynchronizedDispatcher(10, 0), nil)
	if !mb.status.setAsScheduled() {
		t.Fatalf("setup: expected to schedule")
	}
	if mb.canBeScheduledForExecution(true, false) {
		t.Fatalf("a mailbox already scheduled must not be schedulable again")
	}
}
