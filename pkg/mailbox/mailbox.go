package mailbox

import (
	"context"
	"fmt"
	"time"
)

// Invoker is the actor-side execution object a Mailbox drives. The
// mailbox never interprets message contents; it only sequences delivery
// and enforces at-most-once-concurrent execution (spec §1, §4.4).
type Invoker interface {
	// Invoke processes one user envelope. A panic here propagates to the
	// dispatcher's recover callback uncaught; the mailbox does not catch
	// it (spec §4.4.2: "a panicking invocation is the dispatcher's
	// concern, not the mailbox's").
	Invoke(env *Envelope)
	// SystemInvoke processes one system message. Only a fatal error
	// (one that should stop the run loop outright) is returned; ordinary
	// failures are expected to be reported through application-level
	// mechanisms (e.g. a Failed command to the parent), not this return
	// value.
	SystemInvoke(msg *SystemMessage) error
}

// RunPolicy bounds a single Run invocation the way an Akka dispatcher
// bounds a single Mailbox.run: a throughput budget on user messages and
// an optional wall-clock deadline that can cut a run short even with
// budget remaining (spec §4.4.2).
type RunPolicy struct {
	Throughput             int
	ThroughputDeadlineTime NanoDuration
}

// NanoDuration mirrors the source's optional deadline: zero means "no
// deadline", matching Scala's Duration.Undefined rather than requiring
// callers to thread a pointer or a bool through the config layer.
type NanoDuration = int64

// Mailbox is the per-actor ingress and scheduling unit (spec §1-§4). It
// owns the packed status word, the system queue, and a pluggable
// UserQueue, and drives both through Run under a dispatcher's exclusive
// invocation guarantee.
//
// Grounded on internal/actor/mailbox.go's schedule/process/run triple:
// the source's dispatcher.Schedule(mailbox.run) callback becomes this
// package's Dispatcher.Schedule(m.run, m.onPanic), where run calls
// Run(context.Background(), policy) with the dispatcher's policy.
type Mailbox struct {
	receiver Receiver

	status status
	system *systemQueue
	user   UserQueue

	deadLetters *deadLetterMailbox
	invoker     Invoker

	dispatcher Dispatcher
}

// NewMailbox wires a Mailbox for receiver around the given user queue.
// The dead-letter sink is shared by the system queue (closed-mailbox
// diversion) and the user queue (bounded-timeout / cleanup diversion).
func NewMailbox(receiver Receiver, userQueue UserQueue, dispatcher Dispatcher, deadLetters *deadLetterMailbox) *Mailbox {
	sysq := newSystemQueue()
	sysq.deadLetters = deadLetters
	return &Mailbox{
		receiver:    receiver,
		system:      sysq,
		user:        userQueue,
		deadLetters: deadLetters,
		dispatcher:  dispatcher,
	}
}

// SetActor publishes the execution object. Enqueue/SystemEnqueue may be
// called before SetActor (messages simply queue up), but Run refuses to
// start without one (spec §4.2: "a mailbox may exist and accept
// messages before it has anywhere to deliver them").
func (m *Mailbox) SetActor(invoker Invoker) {
	m.invoker = invoker
}

// Enqueue appends env to the user queue and requests scheduling. On a
// closed mailbox the envelope is diverted to dead letters instead
// (spec §4.2, Open Question resolved in SPEC_FULL.md: closed-mailbox
// user sends are dead letters, not errors).
func (m *Mailbox) Enqueue(ctx context.Context, env *Envelope) error {
	if isClosed(m.status.load()) {
		if m.deadLetters != nil {
			m.deadLetters.enqueue(m.receiver, env)
		}
		return nil
	}
	if err := m.user.Enqueue(ctx, m.receiver, env, m.deadLetters); err != nil {
		return err
	}
	return m.registerForExecution(true, false)
}

// EnqueueFirst pushes env to the front of the user queue if the
// underlying queue supports it (spec §5, §9), and requests scheduling.
func (m *Mailbox) EnqueueFirst(ctx context.Context, env *Envelope) error {
	deque, ok := asDequeCapable(m.user)
	if !ok {
		return ErrQueueCapabilityUnsupported("EnqueueFirst")
	}
	if isClosed(m.status.load()) {
		if m.deadLetters != nil {
			m.deadLetters.enqueue(m.receiver, env)
		}
		return nil
	}
	deque.EnqueueFirst(env)
	return m.registerForExecution(true, false)
}

// SystemEnqueue links msg onto the system queue and requests scheduling
// unconditionally, matching the source's rule that system traffic is
// always worth waking the mailbox for, closed or not (the closed case is
// handled inside systemQueue.enqueue itself).
func (m *Mailbox) SystemEnqueue(msg *SystemMessage) error {
	m.system.enqueue(m.receiver, msg)
	return m.registerForExecution(false, true)
}

// Suspend/Resume/IsSuspended/IsClosed expose the packed status word's
// primary transitions (spec §4.1).
func (m *Mailbox) Suspend() bool     { return m.status.suspend() }
func (m *Mailbox) Resume() bool      { return m.status.resume() }
func (m *Mailbox) IsSuspended() bool { return isSuspended(m.status.load()) }
func (m *Mailbox) IsClosed() bool    { return isClosed(m.status.load()) }
func (m *Mailbox) HasSystemMessages() bool { return m.system.hasMessages() }
func (m *Mailbox) HasMessages() bool       { return m.user.HasMessages() }
func (m *Mailbox) NumberOfMessages() int64 { return m.user.NumberOfMessages() }

// registerForExecution implements spec §4.4's CanBeScheduledForExecution
// gate: schedule iff not already scheduled, not closed, and there is
// something worth running for given the hints. hasMessageHint/
// hasSystemMessageHint are best-effort hints from the caller (the
// source keeps them named exactly this way); when both are false the
// method still consults the queues directly rather than trusting a
// stale hint (spec Open Question: preserved verbatim from the source,
// see SPEC_FULL.md).
func (m *Mailbox) registerForExecution(hasMessageHint, hasSystemMessageHint bool) error {
	if m.dispatcher == nil {
		return nil
	}
	if !m.canBeScheduledForExecution(hasMessageHint, hasSystemMessageHint) {
		return nil
	}
	if !m.status.setAsScheduled() {
		return nil
	}
	if err := m.dispatcher.Schedule(m.run, m.onPanic); err != nil {
		m.status.setAsIdle()
		return err
	}
	return nil
}

func (m *Mailbox) canBeScheduledForExecution(hasMessageHint, hasSystemMessageHint bool) bool {
	cur := m.status.load()
	if isClosed(cur) {
		return false
	}
	if isScheduled(cur) {
		return false
	}
	if hasSystemMessageHint || m.system.hasMessages() {
		return true
	}
	if isSuspended(cur) {
		return false
	}
	return hasMessageHint || m.user.HasMessages()
}

// onPanic is the dispatcher's recover callback: a panic inside Run
// unwinds past Run's own tail defer untouched (it re-panics rather than
// clearing status), so this is the only place that clears Scheduled and
// re-registers on the panic path (spec invariant 8: "run() always ends
// with the Scheduled bit cleared and registerForExecution invoked
// exactly once").
func (m *Mailbox) onPanic(recovered interface{}) {
	if m.deadLetters != nil {
		m.deadLetters.log.Sugar().Errorw("mailbox run panicked", "receiver", fmt.Sprintf("%v", m.receiver), "panic", recovered)
	}
	m.status.setAsIdle()
	if err := m.registerForExecution(false, false); err != nil && m.deadLetters != nil {
		m.deadLetters.log.Sugar().Errorw("failed to reschedule after panic", "receiver", fmt.Sprintf("%v", m.receiver), "error", err)
	}
}

// run is the dispatcher-invoked body: process system traffic (always
// first, always to exhaustion or closedness), then user traffic bounded
// by the dispatcher's throughput/deadline policy, per spec §4.4.
func (m *Mailbox) run() {
	policy := RunPolicy{Throughput: 1}
	if m.dispatcher != nil {
		policy.Throughput = m.dispatcher.Throughput()
		if m.dispatcher.IsThroughputDeadlineTimeDefined() {
			policy.ThroughputDeadlineTime = m.dispatcher.ThroughputDeadlineTime()
		}
	}
	m.Run(context.Background(), policy)
}

// Run executes one scheduling turn: drain system messages, then process
// up to policy.Throughput user messages (or until ctx is cancelled, or
// until the optional deadline elapses), then set idle and — if more
// work arrived meanwhile — reschedule. Exported so callers that manage
// their own dispatcher loop (e.g. tests, or a synchronous dispatcher)
// can drive a mailbox directly without going through Schedule.
//
// The idle+reschedule tail runs from a single deferred call so it fires
// on every return path exactly once (spec invariant 8), including the
// early returns on a missing actor or a fatal error. A panic unwinding
// through here is deliberately left untouched — it is re-panicked
// immediately so onPanic remains the sole place that clears Scheduled
// and re-registers on that path.
func (m *Mailbox) Run(ctx context.Context, policy RunPolicy) (err error) {
	defer func() {
		if r := recover(); r != nil {
			panic(r)
		}
		m.status.setAsIdle()
		if regErr := m.registerForExecution(false, false); regErr != nil && err == nil {
			err = regErr
		}
	}()

	if m.invoker == nil {
		return ErrActorNotSet
	}

	if err = m.processAllSystemMessages(ctx); err != nil {
		return err
	}

	if !isClosed(m.status.load()) && !isSuspended(m.status.load()) {
		userCtx, cancel := ctx, func() {}
		if policy.ThroughputDeadlineTime > 0 {
			userCtx, cancel = context.WithCancel(ctx)
			timer := afterFunc(time.Duration(policy.ThroughputDeadlineTime), cancel)
			defer timer.Stop()
		}
		uerr := m.processUserMessages(userCtx, policy)
		cancel()
		if uerr != nil {
			// Distinguish the caller's ctx being cancelled (must be
			// surfaced) from the internal deadline-derived context
			// expiring (a normal yield, not a caller-visible error):
			// only the outer ctx's own Err() proves the former.
			if uerr == ErrInterrupted && ctx.Err() == nil {
				return nil
			}
			return uerr
		}
	}

	return nil
}

// processAllSystemMessages drains the system queue to exhaustion. If the
// queue becomes closed mid-batch (e.g. a Terminate invocation calls
// Close), every message already captured by the drain swap but not yet
// delivered is diverted to the dead-letter mailbox's system queue
// instead of being handed to SystemInvoke on a now-closed actor (spec
// §4.4.1).
//
// ctx cancellation is checked between invocations, never mid-invocation,
// mapping the source's cooperative thread-interrupt polling onto
// context.Context. Observing it does not abandon the in-hand chain: per
// §4.4.1 the interrupt is remembered and the drain (including
// dead-letter forwarding of any tail diverted by a mid-batch close)
// runs to completion first, and ErrInterrupted is only returned once
// nothing already captured remains undelivered or unforwarded — a
// system message is never lost while the mailbox is non-closed, even
// on interrupt.
func (m *Mailbox) processAllSystemMessages(ctx context.Context) error {
	interrupted := false
	for {
		msg := m.system.drain(nil)
		if msg == nil {
			break
		}
		for msg != nil {
			if !interrupted {
				select {
				case <-ctx.Done():
					interrupted = true
				default:
				}
			}
			if isClosed(m.status.load()) {
				for msg != nil {
					next := unlink(msg)
					if m.deadLetters != nil {
						m.deadLetters.systemEnqueue(m.receiver, msg)
					}
					msg = next
				}
				if interrupted {
					return ErrInterrupted
				}
				return nil
			}
			next := unlink(msg)
			if err := m.invoker.SystemInvoke(msg); err != nil {
				return err
			}
			msg = next
		}
		if interrupted {
			break
		}
		if isClosed(m.status.load()) {
			break
		}
		if !m.system.hasMessages() {
			break
		}
	}
	if interrupted {
		return ErrInterrupted
	}
	return nil
}

// processUserMessages processes up to policy.Throughput user envelopes,
// checking for a suspend/close/cancellation/deadline between every
// invocation and re-draining any system traffic that arrived in between
// (spec §4.4.2: "system messages that arrive during a user-message run
// take priority over the next user message").
func (m *Mailbox) processUserMessages(ctx context.Context, policy RunPolicy) error {
	left := policy.Throughput
	if left <= 0 {
		left = 1
	}

	for left > 0 {
		select {
		case <-ctx.Done():
			return ErrInterrupted
		default:
		}

		if m.system.hasMessages() {
			if err := m.processAllSystemMessages(ctx); err != nil {
				return err
			}
		}

		cur := m.status.load()
		if isClosed(cur) || isSuspended(cur) {
			return nil
		}

		env := m.user.Dequeue()
		if env == nil {
			return nil
		}

		m.invoker.Invoke(env)
		left--
	}
	return nil
}

// CleanUp drains both queues to dead letters (spec §4.5): the system
// queue via a closed-sentinel swap (which itself permanently blocks
// further system enqueues from linking, independent of the packed
// status word), and the user queue via its own CleanUp. It does not
// transition the status word, so it may be called on a mailbox that is
// not, and may never become, status-Closed — spec §4.5's "invoked when
// the owning actor is unregistered (but the mailbox is not necessarily
// already Closed)". Idempotent: closing an already-closed system queue
// or draining an already-empty user queue is a no-op.
func (m *Mailbox) CleanUp() {
	if remaining := m.system.close(); remaining != nil {
		for msg := remaining; msg != nil; {
			next := unlink(msg)
			if m.deadLetters != nil {
				m.deadLetters.systemEnqueue(m.receiver, msg)
			}
			msg = next
		}
	}
	m.user.CleanUp(m.receiver, m.deadLetters)
}

// becomeClosed CASes the status word to terminally Closed (spec §4.1).
// It does not itself drain the queues — Close pairs it with CleanUp for
// a full teardown.
func (m *Mailbox) becomeClosed() bool {
	return m.status.becomeClosed()
}

// Close is the full-teardown entry point used by the owning actor
// system's shutdown path: it drains both queues to dead letters and
// marks the mailbox terminally Closed (spec §4.5, §6). Idempotent.
func (m *Mailbox) Close() bool {
	m.CleanUp()
	return m.becomeClosed()
}
