package logx

import (
	"fmt"
	"time"
)

// MaxTimers bounds the number of concurrently live named timers per
// logger; the table is a fixed-capacity array, not a growable map.
const MaxTimers = 5

// TimerNameMaxLen bounds a timer name; longer names are truncated and
// always null-terminated in spirit (Go strings don't need the NUL, but
// the same byte bound applies).
const TimerNameMaxLen = 64

// timer is one named stopwatch entry.
type timer struct {
	name          string
	startInstant  time.Time
	accumulatedNs uint64
	running       bool
}

// timerTable is the fixed-capacity stopwatch store embedded in every
// Logger. All operations assume the caller already holds the logger's
// mutex.
type timerTable struct {
	entries [MaxTimers]timer
	count   int
}

func truncateName(name string) string {
	if len(name) > TimerNameMaxLen {
		return name[:TimerNameMaxLen]
	}
	return name
}

func (t *timerTable) find(name string) int {
	for i := 0; i < t.count; i++ {
		if t.entries[i].name == name {
			return i
		}
	}
	return -1
}

// saturatingSub computes now.Sub(start) in nanoseconds, clamped to 0 on
// a backward clock; on overflow Time.Sub itself saturates, so the
// result is at most math.MaxInt64.
func saturatingSub(now, start time.Time) uint64 {
	d := now.Sub(start)
	if d < 0 {
		return 0
	}
	return uint64(d.Nanoseconds())
}

// start begins a new named timer, or resumes an existing paused one.
// Returns a diagnostic string to surface on the side channel, or "" if
// nothing noteworthy happened.
func (t *timerTable) start(name string) (diag string) {
	name = truncateName(name)

	if idx := t.find(name); idx >= 0 {
		e := &t.entries[idx]
		if e.running {
			return fmt.Sprintf("[LogX] Timer[%s] already running", name)
		}
		e.startInstant = time.Now()
		e.running = true
		return ""
	}

	if t.count >= MaxTimers {
		return fmt.Sprintf("[LogX] Max timer capacity (%d) reached, can't start Timer[%s]", MaxTimers, name)
	}

	t.entries[t.count] = timer{
		name:         name,
		startInstant: time.Now(),
		running:      true,
	}
	t.count++
	return ""
}

func (t *timerTable) pause(name string) {
	idx := t.find(name)
	if idx < 0 {
		return
	}
	e := &t.entries[idx]
	if !e.running {
		return
	}
	e.accumulatedNs += saturatingSub(time.Now(), e.startInstant)
	e.running = false
}

func (t *timerTable) resume(name string) {
	idx := t.find(name)
	if idx < 0 {
		return
	}
	e := &t.entries[idx]
	if e.running {
		return
	}
	e.startInstant = time.Now()
	e.running = true
}

// stop finalizes a timer's accumulated duration and removes it from the
// table by left-compaction. ok is false if no such timer existed.
func (t *timerTable) stop(name string) (d time.Duration, ok bool) {
	idx := t.find(name)
	if idx < 0 {
		return 0, false
	}
	e := &t.entries[idx]
	if e.running {
		e.accumulatedNs += saturatingSub(time.Now(), e.startInstant)
	}
	d = time.Duration(e.accumulatedNs)

	for i := idx; i < t.count-1; i++ {
		t.entries[i] = t.entries[i+1]
	}
	t.count--
	return d, true
}

// formatDuration renders a duration as "Hh:Mm:Ss:Mmmms", matching the
// line logged by stop().
func formatDuration(d time.Duration) string {
	ms := d.Milliseconds()
	h := ms / (1000 * 60 * 60)
	ms %= 1000 * 60 * 60
	m := ms / (1000 * 60)
	ms %= 1000 * 60
	s := ms / 1000
	ms %= 1000
	return fmt.Sprintf("%dh:%dm:%ds:%dms", h, m, s, ms)
}
