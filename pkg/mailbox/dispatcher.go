package mailbox

import (
	"github.com/panjf2000/ants/v2"
)

// Dispatcher is the scheduling substrate a Mailbox runs its turns on
// (spec §4.4, §6). Schedule must guarantee it never invokes fn for the
// same mailbox concurrently with another still-running invocation for
// that mailbox — the mailbox itself only guarantees it won't submit a
// second Schedule while one is outstanding (the Scheduled bit), so a
// dispatcher that fans work out to multiple workers still preserves
// at-most-once-concurrent execution per mailbox.
//
// Grounded on internal/actor/dispatch.go's Dispatcher interface.
type Dispatcher interface {
	// Schedule submits fn for execution. recoverFun is invoked with the
	// recovered value if fn panics; the dispatcher is responsible for
	// calling recover() around fn, not the mailbox.
	Schedule(fn func(), recoverFun func(recovered interface{})) error
	// Throughput bounds how many user messages a single Run may process
	// before yielding back to the dispatcher (spec §4.4.2).
	Throughput() int
	// ThroughputDeadlineTime is the maximum wall-clock duration, in
	// nanoseconds, a single Run may spend on user messages regardless of
	// remaining throughput budget. Meaningful only when
	// IsThroughputDeadlineTimeDefined reports true.
	ThroughputDeadlineTime() NanoDuration
	IsThroughputDeadlineTimeDefined() bool
}

// GoroutineDispatcher schedules every run on its own goroutine, the
// simplest possible dispatcher and the one used when no pool is
// configured. Grounded on internal/actor/dispatch.go's
// goroutineDispatcher.
type GoroutineDispatcher struct {
	throughput             int
	throughputDeadlineTime NanoDuration
}

func NewGoroutineDispatcher(throughput int, deadline NanoDuration) *GoroutineDispatcher {
	if throughput <= 0 {
		throughput = 1
	}
	return &GoroutineDispatcher{throughput: throughput, throughputDeadlineTime: deadline}
}

func (d *GoroutineDispatcher) Schedule(fn func(), recoverFun func(interface{})) error {
	go func() {
		if recoverFun != nil {
			defer func() {
				if r := recover(); r != nil {
					recoverFun(r)
				}
			}()
		}
		fn()
	}()
	return nil
}

func (d *GoroutineDispatcher) Throughput() int { return d.throughput }
func (d *GoroutineDispatcher) ThroughputDeadlineTime() NanoDuration {
	return d.throughputDeadlineTime
}
func (d *GoroutineDispatcher) IsThroughputDeadlineTimeDefined() bool {
	return d.throughputDeadlineTime > 0
}

// SynchronizedDispatcher runs fn on the calling goroutine, used by tests
// that need deterministic single-threaded scheduling (spec §8's
// testable properties rely on this to observe ordering without races).
// Grounded on internal/actor/dispatch.go's synchronizedDispatcher.
type SynchronizedDispatcher struct {
	throughput             int
	throughputDeadlineTime NanoDuration
}

func NewSynchronizedDispatcher(throughput int, deadline NanoDuration) *SynchronizedDispatcher {
	if throughput <= 0 {
		throughput = 1
	}
	return &SynchronizedDispatcher{throughput: throughput, throughputDeadlineTime: deadline}
}

func (d *SynchronizedDispatcher) Schedule(fn func(), recoverFun func(interface{})) error {
	if recoverFun != nil {
		defer func() {
			if r := recover(); r != nil {
				recoverFun(r)
			}
		}()
	}
	fn()
	return nil
}

func (d *SynchronizedDispatcher) Throughput() int { return d.throughput }
func (d *SynchronizedDispatcher) ThroughputDeadlineTime() NanoDuration {
	return d.throughputDeadlineTime
}
func (d *SynchronizedDispatcher) IsThroughputDeadlineTimeDefined() bool {
	return d.throughputDeadlineTime > 0
}

// AntsDispatcher schedules runs onto a bounded goroutine pool, used when
// many mailboxes must share a fixed worker budget rather than each
// spawning its own goroutine (spec §6: "a shared pool is a legitimate
// dispatcher strategy"). Grounded on pkg/lib/workers.go's ants.Pool
// wrapper.
type AntsDispatcher struct {
	pool                   *ants.Pool
	throughput             int
	throughputDeadlineTime NanoDuration
}

func NewAntsDispatcher(size int, throughput int, deadline NanoDuration) (*AntsDispatcher, error) {
	pool, err := ants.NewPool(size, ants.WithNonblocking(false))
	if err != nil {
		return nil, wrap(err, "create ants pool")
	}
	if throughput <= 0 {
		throughput = 1
	}
	return &AntsDispatcher{pool: pool, throughput: throughput, throughputDeadlineTime: deadline}, nil
}

func (d *AntsDispatcher) Schedule(fn func(), recoverFun func(interface{})) error {
	return d.pool.Submit(func() {
		if recoverFun != nil {
			defer func() {
				if r := recover(); r != nil {
					recoverFun(r)
				}
			}()
		}
		fn()
	})
}

func (d *AntsDispatcher) Throughput() int { return d.throughput }
func (d *AntsDispatcher) ThroughputDeadlineTime() NanoDuration {
	return d.throughputDeadlineTime
}
func (d *AntsDispatcher) IsThroughputDeadlineTimeDefined() bool {
	return d.throughputDeadlineTime > 0
}

// Release tears down the underlying pool. Not part of the Dispatcher
// interface since not every dispatcher owns a releasable resource.
func (d *AntsDispatcher) Release() {
	d.pool.Release()
}
