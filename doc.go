// Package gputhread shares one GPU context between independent clients
// through a dedicated graphics thread.
//
// # Overview
//
// GPU contexts such as EGL contexts are thread-affine: they must be created,
// made current, used and destroyed on one OS thread. Components like video
// encoders and decoders each need a context, but giving every one of them a
// private context and thread is wasteful. A Thread owns a single context on
// a single OS thread and lets any number of clients post work to it.
//
// # Quick Start
//
//	refs := gputhread.NewRefCount(2)
//	th, err := gputhread.Create(headless.New(), gputhread.ConfigRGBA(),
//	    gputhread.WithReleaseMonitor(refs),
//	)
//	if err != nil {
//	    return err
//	}
//
//	// Each client:
//	c, _ := th.NewContext()
//	_ = c.CreatePbufferSurface(1280, 720)
//	_ = th.Queue().PostAndWait(ctx, func() {
//	    if err := c.MakeCurrent(); err != nil {
//	        return
//	    }
//	    // GPU work
//	})
//	_ = th.Release() // the second Release destroys the context
//
// # Release Protocol
//
// Release asks the thread's ReleaseMonitor whether the caller held the last
// reference. SoleOwner (the default) says yes every time; RefCount counts
// holders atomically. On the final release the context destruction is
// queued behind all earlier work and the queue is closed in the same step:
// nothing posted later can run against a destroyed context. Late posts fail
// with taskqueue.ErrStopped.
//
// # Platforms
//
// Contexts come from a Platform:
//   - platform/halgpu: gogpu/wgpu HAL devices (Vulkan by default)
//   - platform/headless: no GPU, for tooling and CI
//   - gputhreadtest: recording fakes for tests
//
// Without WithSharedContext a thread uses the platform's compatibility path,
// which targets old or non-compliant drivers and disables texture frames.
package gputhread
