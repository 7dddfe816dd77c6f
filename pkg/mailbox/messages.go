package mailbox

// SystemCommand is the payload a SystemMessage carries: one of the
// built-in control commands below, or an application-defined command
// the embedding layer chooses to route through the system queue.
type SystemCommand interface{}

// Built-in control commands. The mailbox does not interpret these; it
// only transports them in priority order ahead of user traffic. The
// actor execution object (out of scope here, referenced only through
// the Invoker contract) is the one that acts on them — e.g. Terminate
// is expected to call Mailbox.Close as part of handling it.
type (
	Create    struct{}
	Suspend   struct{}
	Resume    struct{}
	Terminate struct{}
	Watch     struct{ Watcher Receiver }
	Unwatch   struct{ Watcher Receiver }
	Failed    struct {
		Child Receiver
		Cause error
	}
)

// SystemMessage is a node in the intrusive singly-linked system-message
// list (spec §3, §9: "the source uses mutable next fields on
// system-message nodes ... to avoid allocation"). A SystemMessage must
// be virgin (next == nil) before it is enqueued and after it has been
// consumed. Mailbox unlinks every message it consumes or forwards; the
// enqueue side does not check the precondition and overwrites next.
type SystemMessage struct {
	Command SystemCommand
	Sender  interface{}

	next *SystemMessage
}

// NewSystemMessage builds a virgin SystemMessage ready to enqueue.
func NewSystemMessage(command SystemCommand, sender interface{}) *SystemMessage {
	return &SystemMessage{Command: command, Sender: sender}
}

// noMessage is the distinguished sentinel marking a closed system queue.
// Any SystemMessage whose address equals this one is never delivered;
// it is only ever compared against by pointer identity.
var noMessage = &SystemMessage{}
