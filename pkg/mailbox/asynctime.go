package mailbox

import (
	"time"

	"github.com/RussellLuo/timingwheel"
)

// tw is a process-wide hierarchical timing wheel used for the
// throughput-deadline watchdog (spec §4.4.2): cheaper than a
// time.Timer per Run call when many mailboxes run concurrently, at the
// cost of millisecond-scale coarseness, which is acceptable for a
// deadline whose whole purpose is "don't run user code for too long".
//
// Grounded on pkg/lib/timex/asynctime.go's package-level
// timingwheel.NewTimingWheel(1*time.Millisecond, 3600) + AfterFunc.
var tw = timingwheel.NewTimingWheel(1*time.Millisecond, 3600)

func init() {
	tw.Start()
}

func afterFunc(d time.Duration, f func()) *timingwheel.Timer {
	return tw.AfterFunc(d, f)
}
