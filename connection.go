package gputhread

import (
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Mode records which construction path produced a Connection.
type Mode int

const (
	// ModeCompat is a standalone context created without a parent.
	ModeCompat Mode = iota

	// ModeShared is a context chained from a parent context.
	ModeShared
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeCompat:
		return "compat"
	case ModeShared:
		return "shared"
	default:
		return "unknown"
	}
}

// Connection is the GPU context owned by a Thread, together with the
// configuration it was created with. It is immutable apart from the
// one-way transitions to closing and then destroyed.
type Connection struct {
	native Native
	attrs  Attribs
	mode   Mode

	// closing is set by the final Release on the caller's goroutine.
	// destroyed is set by the destroy task on the owning thread.
	closing   atomic.Bool
	destroyed atomic.Bool
}

func newConnection(native Native, attrs Attribs, mode Mode) *Connection {
	return &Connection{
		native: native,
		attrs:  attrs.Clone(),
		mode:   mode,
	}
}

// Attribs returns a copy of the configuration attributes.
func (c *Connection) Attribs() Attribs {
	return c.attrs.Clone()
}

// Mode returns the construction path.
func (c *Connection) Mode() Mode {
	return c.mode
}

// TextureFrames reports whether texture frames can be exchanged through
// this context. Compat contexts have no parent to share textures with.
func (c *Connection) TextureFrames() bool {
	return c.mode == ModeShared
}

// GLESVersion returns the OpenGL ES version of the context. The compat path
// always uses the conservative version 2.
func (c *Connection) GLESVersion() int {
	if c.mode == ModeCompat {
		return 2
	}
	return c.attrs.GLESVersion()
}

// SurfaceFormat returns the texture format matching the colour attributes.
func (c *Connection) SurfaceFormat() gputypes.TextureFormat {
	return c.attrs.SurfaceFormat()
}

// Native returns the platform context. It must only be used on the
// owning thread.
func (c *Connection) Native() Native {
	return c.native
}

// DeviceProvider returns the platform context as a gpucontext.DeviceProvider
// when the platform supports it, so renderers such as gg can draw with the
// shared device.
func (c *Connection) DeviceProvider() (gpucontext.DeviceProvider, bool) {
	dp, ok := c.native.(gpucontext.DeviceProvider)
	return dp, ok
}

// Closing reports whether teardown has been decided. No new clients are
// accepted from then on, but tasks queued before the final Release still
// run against the live context.
func (c *Connection) Closing() bool {
	return c.closing.Load()
}

// Destroyed reports whether the native context has been destroyed.
func (c *Connection) Destroyed() bool {
	return c.destroyed.Load()
}

func (c *Connection) markClosing() {
	c.closing.Store(true)
}

func (c *Connection) markDestroyed() {
	c.destroyed.Store(true)
}
