// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package halgpu implements gputhread.Platform on top of gogpu/wgpu's
// hardware abstraction layer.
//
// A compat context opens its own HAL instance and takes the first discrete
// or integrated GPU the driver reports, falling back to the first adapter,
// with no optional features and default limits. A shared context opens a
// second device on its parent's adapter, so both contexts live on the same
// GPU and instance. The instance is reference counted and destroyed with
// the last context using it.
//
// Contexts expose HalDevice and HalQueue, the provider shape gg's GPU
// accelerators accept for device sharing.
package halgpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gputhread"
)

var (
	// ErrBackendUnavailable is returned when the HAL backend is not
	// compiled in or not supported by the system.
	ErrBackendUnavailable = errors.New("halgpu: backend not available")

	// ErrNoAdapter is returned when the instance exposes no GPU adapter.
	ErrNoAdapter = errors.New("halgpu: no GPU adapters found")

	// ErrForeignParent is returned when a shared context is requested with
	// a parent that was not created by halgpu.
	ErrForeignParent = errors.New("halgpu: parent context is not a halgpu context")

	// ErrParentDestroyed is returned when chaining from a destroyed context.
	ErrParentDestroyed = errors.New("halgpu: parent context destroyed")

	// ErrDestroyed is returned when a destroyed context is used.
	ErrDestroyed = errors.New("halgpu: context destroyed")
)

// Platform creates HAL-backed contexts.
type Platform struct {
	backend gputypes.Backend
	logger  *slog.Logger
}

// Option configures a Platform.
type Option func(*Platform)

// WithBackend selects the HAL backend. The default is Vulkan.
func WithBackend(b gputypes.Backend) Option {
	return func(p *Platform) {
		p.backend = b
	}
}

// WithLogger sets the logger for adapter and device diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(p *Platform) {
		p.logger = l
	}
}

// New returns a Platform.
func New(opts ...Option) *Platform {
	p := &Platform{
		backend: gputypes.BackendVulkan,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = gputhread.Logger()
	}
	return p
}

// instance is a HAL instance shared by a compat context and every context
// chained from it.
type instance struct {
	hal      hal.Instance
	adapters []hal.ExposedAdapter
	refs     atomic.Int32
}

func (i *instance) acquire() {
	i.refs.Add(1)
}

func (i *instance) release() {
	if i.refs.Add(-1) == 0 {
		i.hal.Destroy()
	}
}

// NewCompatContext implements gputhread.Platform.
func (p *Platform) NewCompatContext(attrs gputhread.Attribs) (gputhread.Native, error) {
	backend, ok := hal.GetBackend(p.backend)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, p.backend)
	}
	halInstance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create instance: %w", err)
	}

	inst := &instance{
		hal:      halInstance,
		adapters: halInstance.EnumerateAdapters(nil),
	}
	if len(inst.adapters) == 0 {
		halInstance.Destroy()
		return nil, ErrNoAdapter
	}

	inst.acquire()
	c, err := p.open(inst, selectAdapter(inst.adapters), nil, attrs)
	if err != nil {
		inst.release()
		return nil, err
	}
	return c, nil
}

// NewSharedContext implements gputhread.Platform.
func (p *Platform) NewSharedContext(parent gputhread.Native, attrs gputhread.Attribs) (gputhread.Native, error) {
	pc, ok := parent.(*Context)
	if !ok || pc == nil {
		return nil, ErrForeignParent
	}
	if pc.destroyed.Load() {
		return nil, ErrParentDestroyed
	}

	pc.inst.acquire()
	c, err := p.open(pc.inst, pc.adapter, pc, attrs)
	if err != nil {
		pc.inst.release()
		return nil, err
	}
	return c, nil
}

// selectAdapter prefers a hardware GPU over software and unknown adapters.
func selectAdapter(adapters []hal.ExposedAdapter) *hal.ExposedAdapter {
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			return &adapters[i]
		}
	}
	return &adapters[0]
}

func (p *Platform) open(inst *instance, adapter *hal.ExposedAdapter, parent *Context, attrs gputhread.Attribs) (*Context, error) {
	dev, err := adapter.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return nil, fmt.Errorf("halgpu: open device on %s: %w", adapter.Info.Name, err)
	}

	p.logger.Info("halgpu: device opened",
		"adapter", adapter.Info.Name,
		"shared", parent != nil,
	)
	return &Context{
		inst:    inst,
		adapter: adapter,
		parent:  parent,
		device:  dev.Device,
		queue:   dev.Queue,
		format:  attrs.SurfaceFormat(),
		logger:  p.logger,
	}, nil
}

// Context is a HAL device opened for one gputhread.Thread. Apart from the
// accessors, its methods must be called on that thread.
type Context struct {
	inst      *instance
	adapter   *hal.ExposedAdapter
	parent    *Context
	device    hal.Device
	queue     hal.Queue
	format    gputypes.TextureFormat
	logger    *slog.Logger
	destroyed atomic.Bool
}

// HalDevice returns the hal.Device.
func (c *Context) HalDevice() any { return c.device }

// HalQueue returns the hal.Queue.
func (c *Context) HalQueue() any { return c.queue }

// AdapterName returns the name of the GPU the context runs on.
func (c *Context) AdapterName() string { return c.adapter.Info.Name }

// Parent returns the context this one was chained from, or nil.
func (c *Context) Parent() *Context { return c.parent }

// SurfaceFormat returns the format named by the creation attributes.
func (c *Context) SurfaceFormat() gputypes.TextureFormat { return c.format }

// Destroy implements gputhread.Native.
func (c *Context) Destroy() error {
	if !c.destroyed.CompareAndSwap(false, true) {
		return ErrDestroyed
	}
	c.device.Destroy()
	c.device = nil
	c.queue = nil
	c.inst.release()
	c.logger.Info("halgpu: device destroyed", "adapter", c.adapter.Info.Name)
	return nil
}

var _ gputhread.Native = (*Context)(nil)
