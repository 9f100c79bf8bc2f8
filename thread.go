package gputhread

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gputhread/taskqueue"
)

// TaskEndpoint is the part of a Thread's task queue clients post GPU work
// to. Shutdown is reserved for the Thread itself.
type TaskEndpoint interface {
	// Post queues fn without waiting. It fails with taskqueue.ErrStopped
	// once the thread has been torn down.
	Post(fn func()) error

	// PostAndWait queues fn and waits until it has run or ctx is done.
	PostAndWait(ctx context.Context, fn func()) error

	// IsCurrent reports whether the caller runs on the dedicated thread.
	IsCurrent() bool

	// ThreadID returns the OS thread id of the dedicated thread.
	ThreadID() int

	// Name returns the queue name.
	Name() string
}

// endpoint narrows a Queue to TaskEndpoint so clients cannot stop it.
type endpoint struct {
	q *taskqueue.Queue
}

func (e endpoint) Post(fn func()) error                             { return e.q.Post(fn) }
func (e endpoint) PostAndWait(ctx context.Context, fn func()) error { return e.q.PostAndWait(ctx, fn) }
func (e endpoint) IsCurrent() bool                                  { return e.q.IsCurrent() }
func (e endpoint) ThreadID() int                                    { return e.q.ThreadID() }
func (e endpoint) Name() string                                     { return e.q.Name() }

var _ TaskEndpoint = endpoint{}

// Thread is a dedicated graphics thread owning one GPU context that any
// number of clients can share.
//
// Clients obtain their own Context with NewContext, make it current from a
// task posted to Queue, and call Release when done. The ReleaseMonitor
// decides which Release is the last one; that call schedules destruction of
// the GPU context on the dedicated thread and stops the thread.
//
// Thread safety: all methods are safe for concurrent use.
type Thread struct {
	name     string
	queue    *taskqueue.Queue
	monitor  ReleaseMonitor
	conn     *Connection
	logger   *slog.Logger
	released atomic.Bool

	// current is the client Context made current on the dedicated thread.
	// Written only by tasks running on that thread.
	current atomic.Pointer[Context]
}

// Create starts a dedicated thread and creates its GPU context on it.
//
// Without WithSharedContext the context comes from
// Platform.NewCompatContext; with it, from Platform.NewSharedContext using
// attrs unchanged. Create returns once the context exists. If construction
// fails the thread is stopped before the error is returned.
func Create(p Platform, attrs Attribs, opts ...Option) (*Thread, error) {
	if p == nil {
		return nil, ErrNilPlatform
	}
	if err := attrs.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.monitor == nil {
		o.monitor = SoleOwner()
	}
	if o.logger == nil {
		o.logger = Logger()
	}

	attrs = attrs.Clone()
	mode := ModeCompat
	if o.shared != nil {
		mode = ModeShared
	}

	q := taskqueue.New(o.name, taskqueue.WithLogger(o.logger))

	var native Native
	var err error
	werr := q.PostAndWait(context.Background(), func() {
		if mode == ModeShared {
			native, err = p.NewSharedContext(o.shared, attrs.Clone())
		} else {
			native, err = p.NewCompatContext(attrs.Clone())
		}
	})
	if werr != nil {
		err = werr
	}
	if err == nil && native == nil {
		err = ErrNilContext
	}
	if err != nil {
		q.QuitSafely()
		<-q.Done()
		o.logger.Warn("gputhread: context creation failed", "name", o.name, "mode", mode, "err", err)
		return nil, fmt.Errorf("gputhread: create %s context: %w", mode, err)
	}

	t := &Thread{
		name:    o.name,
		queue:   q,
		monitor: o.monitor,
		conn:    newConnection(native, attrs, mode),
		logger:  o.logger,
	}
	t.logger.Info("gputhread: thread started",
		"name", t.name,
		"mode", mode,
		"gles", t.conn.GLESVersion(),
		"tid", q.ThreadID(),
	)
	return t, nil
}

// Release gives up one reference to the thread.
//
// The ReleaseMonitor is consulted on the calling goroutine. If it reports
// the last reference, the GPU context is destroyed on the dedicated thread
// after every task already posted, and the thread then exits. Release never
// waits for that; use Done.
//
// A monitor error is returned as is (wrapped) and nothing is torn down.
// Once teardown has been scheduled Release returns ErrReleased.
func (t *Thread) Release() error {
	if t.released.Load() {
		return ErrReleased
	}

	final, err := t.monitor.OnRelease(t)
	if err != nil {
		return fmt.Errorf("gputhread: release monitor: %w", err)
	}
	if !final {
		t.logger.Debug("gputhread: released, still referenced", "name", t.name)
		return nil
	}

	if !t.released.CompareAndSwap(false, true) {
		return ErrReleased
	}
	t.conn.markClosing()

	if err := t.queue.PostFinal(t.destroy); err != nil {
		return fmt.Errorf("gputhread: schedule context destruction: %w", err)
	}
	t.logger.Debug("gputhread: teardown scheduled", "name", t.name)
	return nil
}

// destroy runs on the dedicated thread as its final task.
func (t *Thread) destroy() {
	t.current.Store(nil)
	t.conn.markDestroyed()
	if err := t.conn.native.Destroy(); err != nil {
		t.logger.Warn("gputhread: destroy context", "name", t.name, "err", err)
		return
	}
	t.logger.Info("gputhread: context destroyed", "name", t.name)
}

// NewContext returns a new client Context bound to the thread's GPU
// context. It may be called from any goroutine and does not change the
// reference count; the Context must only be used on the dedicated thread.
func (t *Thread) NewContext() (*Context, error) {
	if t.conn.Closing() {
		return nil, ErrContextDestroyed
	}
	return &Context{thread: t}, nil
}

// Queue returns the endpoint for posting GPU work to the dedicated thread.
//
// The thread is shared: make your own Context current at the start of each
// task before issuing graphics calls.
func (t *Thread) Queue() TaskEndpoint {
	return endpoint{q: t.queue}
}

// SharedContext returns the native context for chaining another Thread from
// this one, or nil once teardown has been decided.
func (t *Thread) SharedContext() Native {
	if t.conn.Closing() {
		return nil
	}
	return t.conn.native
}

// Connection returns the thread's GPU context description.
func (t *Thread) Connection() *Connection {
	return t.conn
}

// Done returns a channel closed when the dedicated thread has exited.
func (t *Thread) Done() <-chan struct{} {
	return t.queue.Done()
}

// Name returns the thread name.
func (t *Thread) Name() string {
	return t.name
}
