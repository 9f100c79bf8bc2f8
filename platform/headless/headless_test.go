// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package headless

import (
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/gputhread"
)

func TestPlatform_CompatContext(t *testing.T) {
	p := New()
	n, err := p.NewCompatContext(gputhread.ConfigRGBA())
	require.NoError(t, err)

	c := n.(*Context)
	assert.Nil(t, c.Device())
	assert.Nil(t, c.Queue())
	assert.Nil(t, c.Adapter())
	assert.Equal(t, gpucontext.AdapterTypeUnknown, c.AdapterInfo().Type)
	assert.Equal(t, "headless", c.AdapterInfo().Name)
	assert.Nil(t, c.Parent())
	assert.Equal(t, gputypes.TextureFormatRGBA8Unorm, c.SurfaceFormat())
	assert.Equal(t, 1, p.Live())

	require.NoError(t, c.Destroy())
	assert.ErrorIs(t, c.Destroy(), ErrDestroyed)
	assert.Zero(t, p.Live())
}

func TestPlatform_SharedContext(t *testing.T) {
	p := New()
	parent, err := p.NewCompatContext(gputhread.ConfigPlain())
	require.NoError(t, err)

	child, err := p.NewSharedContext(parent, gputhread.Attribs{gputhread.AttribRedSize, 5})
	require.NoError(t, err)
	assert.Same(t, parent, child.(*Context).Parent())
	assert.Equal(t, gputypes.TextureFormatUndefined, child.(*Context).SurfaceFormat())

	require.NoError(t, parent.Destroy())
	_, err = p.NewSharedContext(parent, gputhread.ConfigPlain())
	assert.ErrorIs(t, err, ErrParentDestroyed)
}

func TestPlatform_WithThread(t *testing.T) {
	p := New()
	refs := gputhread.NewRefCount(2)

	th, err := gputhread.Create(p, gputhread.ConfigRGBA(), gputhread.WithReleaseMonitor(refs))
	require.NoError(t, err)

	dp, ok := th.Connection().DeviceProvider()
	require.True(t, ok, "headless contexts are device providers")
	assert.Equal(t, gputypes.TextureFormatRGBA8Unorm, dp.SurfaceFormat())
	assert.Equal(t, gpucontext.AdapterTypeUnknown, dp.AdapterInfo().Type)

	child, err := gputhread.Create(p, gputhread.ConfigRGBA(), gputhread.WithSharedContext(th.SharedContext()))
	require.NoError(t, err)
	assert.Equal(t, 2, p.Live())

	require.NoError(t, child.Release())
	<-child.Done()
	require.NoError(t, th.Release())
	require.NoError(t, th.Release())
	<-th.Done()

	assert.Zero(t, p.Live())
}
