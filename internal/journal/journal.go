package journal

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/flowcell/actorkit/pkg/mailbox"
)

// entry is the on-disk msgpack record for one dead letter. Receiver,
// Message and Sender are all stored as strings: format uses a value's
// String method when it has one and %v otherwise, so the record keeps
// only that text form, not the original concrete type.
type entry struct {
	Receiver string
	Message  string
	Sender   string
}

// Journal durably records dead letters to a rotating file, giving an
// operator a way to inspect what an actor system dropped after the
// fact instead of only seeing it fly by in logs.
//
// Uses the same lumberjack.Logger rotation pattern as internal/glog,
// paired with msgpack for a compact on-disk record.
type Journal struct {
	mu  sync.Mutex
	out *lumberjack.Logger
}

var _ mailbox.DeadLetterJournal = (*Journal)(nil)

func New(path string) *Journal {
	return &Journal{
		out: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    50,
			MaxBackups: 10,
			MaxAge:     7,
			LocalTime:  true,
		},
	}
}

// Record implements mailbox.DeadLetterJournal.
func (j *Journal) Record(letter mailbox.DeadLetter) error {
	rec := entry{
		Receiver: format(letter.Receiver),
		Message:  format(letter.Message),
		Sender:   format(letter.Sender),
	}
	data, err := msgpack.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "marshal dead letter")
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if _, err := j.out.Write(append(data, '\n')); err != nil {
		return errors.Wrap(err, "write dead letter")
	}
	return nil
}

func (j *Journal) Close() error {
	if err := j.out.Close(); err != nil {
		return errors.Wrap(err, "close dead letter journal")
	}
	return nil
}

func format(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", v)
}
