package logxd

import (
	"context"
	"time"

	"golang.org/x/sys/unix"
)

// DefaultReapInterval is how often the reaper sweeps the registry when
// no interval is configured.
const DefaultReapInterval = 5 * time.Second

// Reaper periodically scans a Registry and destroys sessions whose
// owning client process is no longer alive.
type Reaper struct {
	Registry *Registry
	Interval time.Duration

	// onReap, if set, is called with the number of sessions reaped on
	// each sweep.
	onReap func(n int)
}

func NewReaper(r *Registry) *Reaper {
	return &Reaper{Registry: r, Interval: DefaultReapInterval}
}

// isAlive sends signal 0 to pid: delivery success or EPERM (owned by
// another user) both mean the process exists; ESRCH or anything else
// means it's gone.
func isAlive(pid uint32) bool {
	err := unix.Kill(int(pid), 0)
	if err == nil || err == unix.EPERM {
		return true
	}
	return false
}

// Run sweeps on Interval until ctx is cancelled.
func (rp *Reaper) Run(ctx context.Context) {
	interval := rp.Interval
	if interval <= 0 {
		interval = DefaultReapInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := rp.Registry.CleanupDead(isAlive)
			if rp.onReap != nil {
				rp.onReap(n)
			}
		}
	}
}
