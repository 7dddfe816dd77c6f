package mailbox

import (
	"time"

	"github.com/duke-git/lancet/v2/maputil"
	"go.uber.org/zap"
)

func durationOf(d NanoDuration) time.Duration {
	return time.Duration(d)
}

// Config is one named mailbox type's construction parameters, matching
// what an actor-system config file expresses (spec §7). Kind selects
// which UserQueue constructor to use; Capacity/PushTimeout apply to the
// bounded/deque/priority kinds; Comparator is required for "priority".
type Config struct {
	Kind        string
	Capacity    int
	PushTimeout NanoDuration
	Comparator  PriorityComparator
	// Requires lists capability names (currently only "EnqueueFirst")
	// the embedding layer needs from whatever queue this config
	// produces; validated eagerly at Register time (spec §4.6, §7).
	Requires []string
}

const (
	KindFIFO     = "fifo"
	KindBounded  = "bounded"
	KindDeque    = "deque"
	KindPriority = "priority"
)

// Factory builds named Mailbox instances from registered Configs. Eager
// validation at Register time means a misconfigured mailbox type is
// caught at startup rather than on first use (spec §7: "fails eagerly
// on construction, not on first send").
//
// Grounded on internal/actor/manager.go's ConcurrentMap-backed registry
// pattern and internal/config/config.go's Load/Default/validate shape.
type Factory struct {
	log      *zap.Logger
	journal  DeadLetterJournal
	stream   *EventStream[DeadLetter]
	failures *EventStream[DeadLetterForwardFailure]
	configs  *maputil.ConcurrentMap[string, Config]
}

func NewFactory(log *zap.Logger, journal DeadLetterJournal, stream *EventStream[DeadLetter], failures *EventStream[DeadLetterForwardFailure]) *Factory {
	if log == nil {
		log = zap.NewNop()
	}
	return &Factory{
		log:      log,
		journal:  journal,
		stream:   stream,
		failures: failures,
		configs:  maputil.NewConcurrentMap[string, Config](8),
	}
}

// Register validates cfg and makes it available under name. Returns an
// error immediately on an unknown kind, a negative capacity or a missing
// priority comparator instead of deferring the failure to construction
// time. PushTimeout is not checked.
func (f *Factory) Register(name string, cfg Config) error {
	if err := validate(cfg); err != nil {
		return wrap(err, "register mailbox type "+name)
	}
	if len(cfg.Requires) > 0 {
		probe, err := buildUserQueue(cfg)
		if err != nil {
			return wrap(err, "register mailbox type "+name)
		}
		for _, req := range cfg.Requires {
			if req == "EnqueueFirst" {
				if _, ok := asDequeCapable(probe); !ok {
					return ErrQueueCapabilityUnsupported(req)
				}
			}
		}
	}
	f.configs.Set(name, cfg)
	return nil
}

func validate(cfg Config) error {
	switch cfg.Kind {
	case KindFIFO:
		return nil
	case KindBounded, KindDeque:
		if cfg.Capacity < 0 {
			return ErrInvalidCapacity
		}
		return nil
	case KindPriority:
		if cfg.Capacity < 0 {
			return ErrInvalidCapacity
		}
		if cfg.Comparator == nil {
			return ErrNilComparator
		}
		return nil
	default:
		return ErrUnknownMailboxType(cfg.Kind)
	}
}

func buildUserQueue(cfg Config) (UserQueue, error) {
	policy := BoundedPolicy{Capacity: cfg.Capacity, PushTimeout: durationOf(cfg.PushTimeout)}
	switch cfg.Kind {
	case KindFIFO:
		return NewFIFOQueue(), nil
	case KindBounded:
		return NewBoundedQueue(policy), nil
	case KindDeque:
		return NewDequeQueue(policy), nil
	case KindPriority:
		return NewPriorityQueue(cfg.Comparator, policy)
	default:
		return nil, ErrUnknownMailboxType(cfg.Kind)
	}
}

// New builds a Mailbox of the named, previously-registered type for
// receiver, wired to dispatcher and this factory's shared dead-letter
// sink.
func (f *Factory) New(name string, receiver Receiver, dispatcher Dispatcher) (*Mailbox, error) {
	cfg, ok := f.configs.Get(name)
	if !ok {
		return nil, ErrUnknownMailboxType(name)
	}
	q, err := buildUserQueue(cfg)
	if err != nil {
		return nil, wrap(err, "build mailbox "+name)
	}
	dl := newDeadLetterMailbox(f.log, f.journal, f.stream, f.failures)
	return NewMailbox(receiver, q, dispatcher, dl), nil
}
