package logxd

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kulasekaran/logx/logx"
)

// numBuckets is the registry's bucket count; must be a power of two so
// the hash reduces to a mask.
const numBuckets = 256

// session binds one client process to its owned logger.
type session struct {
	pid      uint32
	logger   logx.Logger
	lastSeen time.Time
}

// node is one link in a bucket's singly-linked chain.
type node struct {
	sess session
	next atomic.Pointer[node]
}

// Registry is the hash-sharded pid -> logger map. Reads (Find) walk a
// bucket chain lock-free via atomic loads; every mutation (Create,
// Destroy, reap) takes mu, which serializes all structural edits
// across every bucket.
type Registry struct {
	mu      sync.Mutex
	buckets [numBuckets]atomic.Pointer[node]
}

func NewRegistry() *Registry {
	return &Registry{}
}

func bucketIndex(pid uint32) uint32 {
	return pid & (numBuckets - 1)
}

// Find performs a lock-free lookup of the logger owned by pid.
func (r *Registry) Find(pid uint32) (logx.Logger, bool) {
	n := r.buckets[bucketIndex(pid)].Load()
	for n != nil {
		if n.sess.pid == pid {
			return n.sess.logger, true
		}
		n = n.next.Load()
	}
	return nil, false
}

// Create allocates a new session for pid, owning a freshly created
// logger. Returns an error if a session for pid already exists.
func (r *Registry) Create(pid uint32, cfg *logx.Config) (logx.Logger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := bucketIndex(pid)
	for n := r.buckets[idx].Load(); n != nil; n = n.next.Load() {
		if n.sess.pid == pid {
			return nil, ErrLoggerExists
		}
	}

	lg, err := logx.Create(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCreateFailed, err)
	}

	head := r.buckets[idx].Load()
	newNode := &node{sess: session{pid: pid, logger: lg, lastSeen: time.Now()}}
	newNode.next.Store(head)
	r.buckets[idx].Store(newNode) // release: publishes the new chain head

	return lg, nil
}

// Destroy removes and closes the session owned by pid.
func (r *Registry) Destroy(pid uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.destroyLocked(pid)
}

func (r *Registry) destroyLocked(pid uint32) error {
	idx := bucketIndex(pid)

	var prev *node
	for n := r.buckets[idx].Load(); n != nil; n = n.next.Load() {
		if n.sess.pid == pid {
			next := n.next.Load()
			if prev == nil {
				r.buckets[idx].Store(next)
			} else {
				prev.next.Store(next)
			}
			n.sess.logger.Close()
			return nil
		}
		prev = n
	}
	return ErrLoggerNotFound
}

// CleanupDead scans every bucket and destroys sessions whose owning
// pid is no longer alive, as determined by isAlive. Returns the number
// of sessions reaped.
func (r *Registry) CleanupDead(isAlive func(pid uint32) bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	reaped := 0
	for idx := range r.buckets {
		var prev *node
		n := r.buckets[idx].Load()
		for n != nil {
			next := n.next.Load()
			if !isAlive(n.sess.pid) {
				if prev == nil {
					r.buckets[idx].Store(next)
				} else {
					prev.next.Store(next)
				}
				n.sess.logger.Close()
				reaped++
			} else {
				prev = n
			}
			n = next
		}
	}
	return reaped
}

// Len reports the total number of live sessions; intended for tests
// and diagnostics, not the hot path.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for idx := range r.buckets {
		for cur := r.buckets[idx].Load(); cur != nil; cur = cur.next.Load() {
			n++
		}
	}
	return n
}
