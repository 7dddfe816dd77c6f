package main

import (
	"context"
	"fmt"
	"time"

	"github.com/flowcell/actorkit/internal/config"
	"github.com/flowcell/actorkit/internal/glog"
	"github.com/flowcell/actorkit/internal/journal"
	"github.com/flowcell/actorkit/pkg/mailbox"
)

func main() {
	cfg := config.Default()
	glog.Init(&cfg.Glog)
	defer glog.Sync()

	dl := journal.New("./logs/dead-letters.log")
	defer dl.Close()

	stream := mailbox.NewEventStream[mailbox.DeadLetter]()
	stream.Subscribe(func(letter mailbox.DeadLetter) {
		glog.L().Sugar().Warnw("dead letter", "receiver", letter.Receiver, "message", letter.Message)
	})

	failures := mailbox.NewEventStream[mailbox.DeadLetterForwardFailure]()
	failures.Subscribe(func(f mailbox.DeadLetterForwardFailure) {
		glog.L().Sugar().Errorw("dead letter forwarding failed", "receiver", f.Receiver, "command", fmt.Sprintf("%T", f.Command), "error", f.Err)
	})

	factory := mailbox.NewFactory(glog.L(), dl, stream, failures)
	if err := factory.Register("worker", mailbox.Config{Kind: mailbox.KindFIFO}); err != nil {
		panic(err)
	}
	if err := factory.Register("bounded", mailbox.Config{
		Kind:        mailbox.KindBounded,
		Capacity:    4,
		PushTimeout: int64(50 * time.Millisecond),
	}); err != nil {
		panic(err)
	}

	receiver := "worker-1"
	dispatcher := mailbox.NewGoroutineDispatcher(10, 0)
	mb, err := factory.New("worker", receiver, dispatcher)
	if err != nil {
		panic(err)
	}
	mb.SetActor(&printInvoker{name: receiver})

	if err := mb.SystemEnqueue(mailbox.NewSystemMessage(mailbox.Create{}, nil)); err != nil {
		panic(err)
	}
	for i := 0; i < 5; i++ {
		env := mailbox.NewEnvelope(fmt.Sprintf("hello #%d", i), nil)
		if err := mb.Enqueue(context.Background(), env); err != nil {
			panic(err)
		}
	}

	time.Sleep(100 * time.Millisecond)
	mb.Close()
}

// printInvoker is a minimal demo Invoker; real embedders supply their
// own actor behavior on top of mailbox.Invoker.
type printInvoker struct {
	name string
}

func (p *printInvoker) Invoke(env *mailbox.Envelope) {
	glog.L().Sugar().Infow("invoke", "receiver", p.name, "message", env.Message)
}

func (p *printInvoker) SystemInvoke(msg *mailbox.SystemMessage) error {
	glog.L().Sugar().Infow("system invoke", "receiver", p.name, "command", fmt.Sprintf("%T", msg.Command))
	return nil
}
