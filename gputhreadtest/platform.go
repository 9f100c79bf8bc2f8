// Package gputhreadtest provides a recording gputhread.Platform for tests.
//
// Contexts created by Platform are plain Go values. The platform records
// which construction path was used, the attributes it was given, and the
// OS thread each context was created and destroyed on, and it can be told
// to fail the next construction or destruction.
package gputhreadtest

import (
	"errors"
	"sync"

	"github.com/gogpu/gputhread"
	"github.com/gogpu/gputhread/taskqueue"
)

var (
	// ErrInjected is returned by operations the test asked to fail.
	ErrInjected = errors.New("gputhreadtest: injected failure")

	// ErrDoubleDestroy is returned when a context is destroyed twice.
	ErrDoubleDestroy = errors.New("gputhreadtest: context destroyed twice")
)

// Platform is a gputhread.Platform that records everything it is asked to do.
type Platform struct {
	mu            sync.Mutex
	contexts      []*Context
	failCreate    error
	failDestroy   error
	onDestroyHook func(*Context)
}

// New returns an empty Platform.
func New() *Platform {
	return &Platform{}
}

// Context is a context created by Platform.
type Context struct {
	p *Platform

	// Mode is the construction path that produced the context.
	Mode gputhread.Mode

	// Parent is the parent context for shared contexts.
	Parent gputhread.Native

	// Attribs is the attribute list the platform was called with.
	Attribs gputhread.Attribs

	// CreatedOn is the OS thread id the context was created on.
	CreatedOn int

	mu          sync.Mutex
	destroyed   int
	destroyedOn int
}

// FailNextCreate makes the next construction call return err
// (ErrInjected when err is nil).
func (p *Platform) FailNextCreate(err error) {
	if err == nil {
		err = ErrInjected
	}
	p.mu.Lock()
	p.failCreate = err
	p.mu.Unlock()
}

// FailNextDestroy makes the next Destroy call return err
// (ErrInjected when err is nil). The context still counts as destroyed.
func (p *Platform) FailNextDestroy(err error) {
	if err == nil {
		err = ErrInjected
	}
	p.mu.Lock()
	p.failDestroy = err
	p.mu.Unlock()
}

// OnDestroy registers a hook run inside Destroy, on the destroying thread.
func (p *Platform) OnDestroy(fn func(*Context)) {
	p.mu.Lock()
	p.onDestroyHook = fn
	p.mu.Unlock()
}

// NewCompatContext implements gputhread.Platform.
func (p *Platform) NewCompatContext(attrs gputhread.Attribs) (gputhread.Native, error) {
	return p.create(gputhread.ModeCompat, nil, attrs)
}

// NewSharedContext implements gputhread.Platform.
func (p *Platform) NewSharedContext(parent gputhread.Native, attrs gputhread.Attribs) (gputhread.Native, error) {
	return p.create(gputhread.ModeShared, parent, attrs)
}

func (p *Platform) create(mode gputhread.Mode, parent gputhread.Native, attrs gputhread.Attribs) (gputhread.Native, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.failCreate; err != nil {
		p.failCreate = nil
		return nil, err
	}
	c := &Context{
		p:         p,
		Mode:      mode,
		Parent:    parent,
		Attribs:   attrs.Clone(),
		CreatedOn: taskqueue.CurrentThreadID(),
	}
	p.contexts = append(p.contexts, c)
	return c, nil
}

// Contexts returns every context created so far, oldest first.
func (p *Platform) Contexts() []*Context {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*Context(nil), p.contexts...)
}

// Created returns the number of contexts created on the given path.
func (p *Platform) Created(mode gputhread.Mode) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.contexts {
		if c.Mode == mode {
			n++
		}
	}
	return n
}

// Live returns the number of contexts not yet destroyed.
func (p *Platform) Live() int {
	n := 0
	for _, c := range p.Contexts() {
		if c.Destroyed() == 0 {
			n++
		}
	}
	return n
}

// Destroy implements gputhread.Native.
func (c *Context) Destroy() error {
	c.mu.Lock()
	c.destroyed++
	c.destroyedOn = taskqueue.CurrentThreadID()
	n := c.destroyed
	c.mu.Unlock()

	c.p.mu.Lock()
	hook := c.p.onDestroyHook
	err := c.p.failDestroy
	c.p.failDestroy = nil
	c.p.mu.Unlock()

	if hook != nil {
		hook(c)
	}
	if n > 1 {
		return ErrDoubleDestroy
	}
	return err
}

// Destroyed returns how many times Destroy was called.
func (c *Context) Destroyed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}

// DestroyedOn returns the OS thread id of the last Destroy call.
func (c *Context) DestroyedOn() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyedOn
}

var _ gputhread.Platform = (*Platform)(nil)
