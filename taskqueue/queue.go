// Package taskqueue runs tasks sequentially on one dedicated OS thread.
//
// A Queue owns a single worker goroutine that is locked to its OS thread for
// its whole life. Tasks execute one at a time in submission order, which
// makes the queue a suitable home for thread-affine resources such as
// EGL/GL contexts or Vulkan devices: everything that touches the resource is
// posted to the queue instead of guarded by a lock.
//
// Shutdown is cooperative. QuitSafely closes the queue to new work, lets the
// worker finish everything already queued, and then the worker exits. Tasks
// posted after QuitSafely are rejected with ErrStopped and never run.
package taskqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
)

var (
	// ErrStopped is returned when a task is posted after QuitSafely.
	ErrStopped = errors.New("taskqueue: queue stopped")

	// ErrNilTask is returned when a nil task is posted.
	ErrNilTask = errors.New("taskqueue: nil task")

	// ErrTaskPanicked wraps a panic recovered from a task run by PostAndWait.
	ErrTaskPanicked = errors.New("taskqueue: task panicked")
)

// Queue is a FIFO task queue bound to one OS thread.
//
// Thread safety: all methods are safe for concurrent use.
type Queue struct {
	name   string
	logger *slog.Logger

	mu    sync.Mutex
	tasks []func()
	quit  bool

	// wake has capacity 1 so producers never block on it.
	wake chan struct{}

	// done is closed when the worker goroutine exits.
	done chan struct{}

	tid    atomic.Int64
	inTask atomic.Bool
}

// New starts a queue and returns once its worker is running on a locked OS
// thread, so IsCurrent and ThreadID are valid as soon as New returns.
func New(name string, opts ...Option) *Queue {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	q := &Queue{
		name:   name,
		logger: o.logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	started := make(chan struct{})
	go q.loop(started)
	<-started

	q.logger.Debug("taskqueue: started", "queue", name, "tid", q.ThreadID())
	return q
}

// loop is the worker. It never unlocks its OS thread: when the goroutine
// exits the runtime terminates the thread instead of handing it to other
// goroutines with stale thread-local driver state.
func (q *Queue) loop(started chan<- struct{}) {
	defer close(q.done)
	runtime.LockOSThread()

	q.tid.Store(int64(currentThreadID()))
	close(started)

	for {
		task, ok := q.next()
		if !ok {
			q.logger.Debug("taskqueue: drained, exiting", "queue", q.name)
			return
		}
		q.run(task)
	}
}

// next blocks until a task is available or the queue has quit and is empty.
func (q *Queue) next() (func(), bool) {
	for {
		q.mu.Lock()
		if len(q.tasks) > 0 {
			task := q.tasks[0]
			q.tasks[0] = nil
			q.tasks = q.tasks[1:]
			q.mu.Unlock()
			return task, true
		}
		if q.quit {
			q.mu.Unlock()
			return nil, false
		}
		q.mu.Unlock()
		<-q.wake
	}
}

// run executes one task. A panicking task is logged and swallowed so that a
// single faulty client cannot take down a thread shared with others.
func (q *Queue) run(task func()) {
	q.inTask.Store(true)
	defer q.inTask.Store(false)
	defer func() {
		if r := recover(); r != nil {
			q.logger.Warn("taskqueue: task panicked", "queue", q.name, "panic", r)
		}
	}()
	task()
}

func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Post appends fn to the queue without waiting for it to run.
// It returns ErrStopped if QuitSafely has already been called.
func (q *Queue) Post(fn func()) error {
	return q.post(fn, false)
}

// PostFinal appends fn and closes the queue in one step: fn is the last task
// the worker will ever run. No task posted concurrently can be ordered after
// it.
func (q *Queue) PostFinal(fn func()) error {
	return q.post(fn, true)
}

func (q *Queue) post(fn func(), final bool) error {
	if fn == nil {
		return ErrNilTask
	}

	q.mu.Lock()
	if q.quit {
		q.mu.Unlock()
		q.logger.Warn("taskqueue: rejected task after quit", "queue", q.name)
		return ErrStopped
	}
	q.tasks = append(q.tasks, fn)
	if final {
		q.quit = true
	}
	q.mu.Unlock()

	q.signal()
	return nil
}

// PostAndWait runs fn on the queue and waits until it has finished or ctx is
// done. When called from the queue's own thread fn runs inline, since waiting
// on ourselves would deadlock. Inline execution needs OS thread ids; on
// systems without them a reentrant call waits until ctx ends.
//
// A panic in fn is recovered and returned wrapped in ErrTaskPanicked.
// If ctx ends first, fn may still run later.
func (q *Queue) PostAndWait(ctx context.Context, fn func()) error {
	if fn == nil {
		return ErrNilTask
	}
	if haveThreadID && q.IsCurrent() {
		return callRecover(fn)
	}

	result := make(chan error, 1)
	err := q.Post(func() {
		result <- callRecover(fn)
	})
	if err != nil {
		return err
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func callRecover(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
		}
	}()
	fn()
	return nil
}

// QuitSafely stops accepting new tasks. Tasks already queued still run, then
// the worker exits. QuitSafely does not wait; use Done for that.
// It is safe to call more than once.
func (q *Queue) QuitSafely() {
	q.mu.Lock()
	already := q.quit
	q.quit = true
	q.mu.Unlock()

	if !already {
		q.logger.Debug("taskqueue: quit requested", "queue", q.name)
	}
	q.signal()
}

// Done returns a channel that is closed once the worker has exited.
func (q *Queue) Done() <-chan struct{} {
	return q.done
}

// IsRunning reports whether the queue still accepts tasks.
func (q *Queue) IsRunning() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return !q.quit
}

// Pending returns the number of tasks waiting to run.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Name returns the name given to New.
func (q *Queue) Name() string {
	return q.name
}

// ThreadID returns the OS thread id of the worker, or 0 on systems where
// thread ids are not available.
func (q *Queue) ThreadID() int {
	return int(q.tid.Load())
}

// IsCurrent reports whether the caller is running on the queue's worker
// thread. After the worker exits it always returns false.
func (q *Queue) IsCurrent() bool {
	select {
	case <-q.done:
		return false
	default:
	}
	if haveThreadID {
		return q.tid.Load() == int64(currentThreadID())
	}
	// Without thread ids, the best available answer is whether a task is
	// executing right now.
	return q.inTask.Load()
}

// CurrentThreadID returns the OS thread id of the caller, or 0 on systems
// where thread ids are not available.
func CurrentThreadID() int {
	return currentThreadID()
}

// ThreadIDsSupported reports whether ThreadID and CurrentThreadID return
// real OS thread ids on this system.
func ThreadIDsSupported() bool {
	return haveThreadID
}
