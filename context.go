package gputhread

import (
	"fmt"
	"sync"
)

// Context is one client's view of a Thread's shared GPU context: its own
// surface state on top of the shared Connection.
//
// Contexts are cheap and do not take part in reference counting; releasing
// one never touches the shared GPU context. Apart from the accessors,
// methods must be called on the Thread's dedicated thread.
type Context struct {
	thread *Thread

	mu       sync.Mutex
	surface  *pbuffer
	released bool
}

type pbuffer struct {
	width, height int
}

// Connection returns the shared GPU context this Context is bound to.
func (c *Context) Connection() *Connection {
	return c.thread.conn
}

// Thread returns the owning Thread.
func (c *Context) Thread() *Thread {
	return c.thread
}

// CreatePbufferSurface gives the Context an offscreen surface.
func (c *Context) CreatePbufferSurface(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSurfaceSize, width, height)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return ErrContextReleased
	}
	if c.surface != nil {
		return ErrSurfaceExists
	}
	c.surface = &pbuffer{width: width, height: height}
	return nil
}

// HasSurface reports whether the Context has a surface.
func (c *Context) HasSurface() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.surface != nil
}

// SurfaceSize returns the surface dimensions, or zeros without a surface.
func (c *Context) SurfaceSize() (width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.surface == nil {
		return 0, 0
	}
	return c.surface.width, c.surface.height
}

// MakeCurrent binds the Context to the dedicated thread, replacing whichever
// client Context was current before. Tasks queued before the final
// Thread.Release can still do this; the context is destroyed after them.
func (c *Context) MakeCurrent() error {
	if !c.thread.queue.IsCurrent() {
		return ErrWrongThread
	}
	if c.thread.conn.Destroyed() {
		return ErrContextDestroyed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return ErrContextReleased
	}
	if c.surface == nil {
		return ErrNoSurface
	}
	c.thread.current.Store(c)
	return nil
}

// DetachCurrent unbinds the Context if it is current.
func (c *Context) DetachCurrent() error {
	if !c.thread.queue.IsCurrent() {
		return ErrWrongThread
	}
	c.thread.current.CompareAndSwap(c, nil)
	return nil
}

// IsCurrent reports whether the Context is the one bound to the thread.
func (c *Context) IsCurrent() bool {
	return c.thread.current.Load() == c
}

// ReleaseSurface drops the surface, detaching the Context if needed.
func (c *Context) ReleaseSurface() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.releaseSurfaceLocked()
}

func (c *Context) releaseSurfaceLocked() {
	c.thread.current.CompareAndSwap(c, nil)
	c.surface = nil
}

// Release drops the Context's own state. The shared GPU context is released
// through Thread.Release, not here.
func (c *Context) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.releaseSurfaceLocked()
	c.released = true
}
