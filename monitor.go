package gputhread

import "sync/atomic"

// ReleaseMonitor decides whether a Release call drops the last reference
// to a Thread.
//
// OnRelease runs on the goroutine that called Release and may be called
// concurrently by independent clients. Returning an error aborts the
// release; the thread stays alive.
type ReleaseMonitor interface {
	OnRelease(t *Thread) (bool, error)
}

// ReleaseMonitorFunc adapts a function to ReleaseMonitor.
type ReleaseMonitorFunc func(t *Thread) (bool, error)

// OnRelease calls f(t).
func (f ReleaseMonitorFunc) OnRelease(t *Thread) (bool, error) {
	return f(t)
}

type soleOwner struct{}

func (soleOwner) OnRelease(*Thread) (bool, error) { return true, nil }

// SoleOwner returns the monitor used when a thread is not shared: the first
// Release is final.
func SoleOwner() ReleaseMonitor {
	return soleOwner{}
}

// RefCount is a ReleaseMonitor backed by an atomic reference count shared by
// every call site that acquired the thread. The last Release is final.
//
// Thread safety: RefCount is safe for concurrent use.
type RefCount struct {
	n atomic.Int64
}

// NewRefCount returns a RefCount holding n references.
func NewRefCount(n int) *RefCount {
	r := &RefCount{}
	r.n.Store(int64(n))
	return r
}

// Acquire adds one reference.
func (r *RefCount) Acquire() {
	r.n.Add(1)
}

// Count returns the number of references currently held.
func (r *RefCount) Count() int {
	return int(r.n.Load())
}

// OnRelease drops one reference and reports whether it was the last one.
// Releasing with no references held returns ErrRefCountUnderflow and leaves
// the count untouched.
func (r *RefCount) OnRelease(*Thread) (bool, error) {
	for {
		cur := r.n.Load()
		if cur <= 0 {
			return false, ErrRefCountUnderflow
		}
		if r.n.CompareAndSwap(cur, cur-1) {
			return cur == 1, nil
		}
	}
}

var (
	_ ReleaseMonitor = soleOwner{}
	_ ReleaseMonitor = (*RefCount)(nil)
	_ ReleaseMonitor = ReleaseMonitorFunc(nil)
)
