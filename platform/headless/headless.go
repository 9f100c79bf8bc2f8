// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package headless provides a gputhread.Platform for hosts without a GPU.
//
// Contexts carry no device. They implement gpucontext.DeviceProvider with nil
// device, queue and adapter and an unknown adapter type, so renderers that accept a provider fall back
// to their CPU path, while the thread, release protocol and client contexts
// behave exactly as they do on real hardware. This is what tooling and CI
// machines run on.
package headless

import (
	"errors"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/gputhread"
)

var (
	// ErrDestroyed is returned when a context is destroyed twice.
	ErrDestroyed = errors.New("headless: context already destroyed")

	// ErrParentDestroyed is returned when chaining from a destroyed context.
	ErrParentDestroyed = errors.New("headless: parent context destroyed")
)

// Platform creates headless contexts.
type Platform struct {
	live atomic.Int64
}

// New returns a headless Platform.
func New() *Platform {
	return &Platform{}
}

// Live returns the number of contexts created and not yet destroyed.
func (p *Platform) Live() int {
	return int(p.live.Load())
}

// NewCompatContext implements gputhread.Platform.
func (p *Platform) NewCompatContext(attrs gputhread.Attribs) (gputhread.Native, error) {
	return p.newContext(nil, attrs), nil
}

// NewSharedContext implements gputhread.Platform. A parent from another
// platform is accepted; it simply shares nothing.
func (p *Platform) NewSharedContext(parent gputhread.Native, attrs gputhread.Attribs) (gputhread.Native, error) {
	pc, _ := parent.(*Context)
	if pc != nil && pc.Destroyed() {
		return nil, ErrParentDestroyed
	}
	return p.newContext(pc, attrs), nil
}

func (p *Platform) newContext(parent *Context, attrs gputhread.Attribs) *Context {
	p.live.Add(1)
	return &Context{
		p:      p,
		parent: parent,
		format: attrs.SurfaceFormat(),
	}
}

// Context is a headless GPU context.
type Context struct {
	p         *Platform
	parent    *Context
	format    gputypes.TextureFormat
	destroyed atomic.Bool
}

// Device returns nil for the headless context.
func (c *Context) Device() gpucontext.Device { return nil }

// Queue returns nil for the headless context.
func (c *Context) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the headless context.
func (c *Context) Adapter() gpucontext.Adapter { return nil }

// AdapterInfo reports an unknown adapter named "headless".
func (c *Context) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "headless", Type: gpucontext.AdapterTypeUnknown}
}

// SurfaceFormat returns the format named by the creation attributes, or
// TextureFormatUndefined.
func (c *Context) SurfaceFormat() gputypes.TextureFormat { return c.format }

// Parent returns the context this one was chained from, or nil.
func (c *Context) Parent() *Context { return c.parent }

// Destroyed reports whether Destroy has been called.
func (c *Context) Destroyed() bool { return c.destroyed.Load() }

// Destroy implements gputhread.Native.
func (c *Context) Destroy() error {
	if !c.destroyed.CompareAndSwap(false, true) {
		return ErrDestroyed
	}
	c.p.live.Add(-1)
	return nil
}

var (
	_ gputhread.Platform        = (*Platform)(nil)
	_ gputhread.Native          = (*Context)(nil)
	_ gpucontext.DeviceProvider = (*Context)(nil)
)
