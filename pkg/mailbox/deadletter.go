package mailbox

import "go.uber.org/zap"

// DeadLetter is a message (user or system) that could not be delivered
// to its intended receiver, together with that receiver and the sender
// (spec §3, §7). It does not record why delivery failed.
type DeadLetter struct {
	Receiver Receiver
	Message  interface{}
	Sender   interface{}
}

// deadLetterMailbox is the sink every mailbox diverts undeliverable
// messages to: a closed mailbox's user enqueues, a bounded queue's
// timed-out offers, and residual envelopes found during CleanUp (spec
// §3: "must never recurse back into the mailbox that produced it").
//
// Grounded on pkg/glog's zap.Logger for the fallback log path, and on
// internal/journal for durable persistence of what would otherwise be a
// silently dropped message.
type deadLetterMailbox struct {
	log      *zap.Logger
	journal  DeadLetterJournal
	stream   *EventStream[DeadLetter]
	failures *EventStream[DeadLetterForwardFailure]
}

// DeadLetterJournal persists dead letters for later inspection. See
// internal/journal for the msgpack-backed implementation. An error
// forwarding a system message during mailbox close is published to the
// dead-letter mailbox's failure stream instead of being swallowed
// silently (spec §7: "forwarding failure ... logged to the event
// stream").
type DeadLetterJournal interface {
	Record(DeadLetter) error
}

func newDeadLetterMailbox(log *zap.Logger, journal DeadLetterJournal, stream *EventStream[DeadLetter], failures *EventStream[DeadLetterForwardFailure]) *deadLetterMailbox {
	if log == nil {
		log = zap.NewNop()
	}
	return &deadLetterMailbox{log: log, journal: journal, stream: stream, failures: failures}
}

func (d *deadLetterMailbox) enqueue(receiver Receiver, env *Envelope) {
	if env == nil {
		return
	}
	letter := DeadLetter{Receiver: receiver, Message: env.Message, Sender: env.Sender}
	d.record(letter)
}

// systemEnqueue forwards msg to the dead-letter sink. If the durable
// journal rejects the record, the failure is published to the
// dead-letter mailbox's failure stream rather than dropped, since a
// stray system message is exactly the kind of event an operator needs
// to know was lost twice over.
func (d *deadLetterMailbox) systemEnqueue(receiver Receiver, msg *SystemMessage) {
	if msg == nil {
		return
	}
	letter := DeadLetter{Receiver: receiver, Message: msg.Command, Sender: msg.Sender}
	if err := d.record(letter); err != nil && d.failures != nil {
		d.failures.Publish(DeadLetterForwardFailure{Receiver: receiver, Command: msg.Command, Err: err})
	}
}

func (d *deadLetterMailbox) record(letter DeadLetter) error {
	d.log.Debug("dead letter", zap.Any("receiver", letter.Receiver), zap.Any("message", letter.Message))
	var err error
	if d.journal != nil {
		err = d.journal.Record(letter)
	}
	if d.stream != nil {
		d.stream.Publish(letter)
	}
	return err
}
