package gputhread

import "errors"

var (
	// ErrNilPlatform is returned by Create when no Platform is given.
	ErrNilPlatform = errors.New("gputhread: nil platform")

	// ErrInvalidAttribs is returned for malformed configuration attributes.
	ErrInvalidAttribs = errors.New("gputhread: invalid config attributes")

	// ErrNilContext is returned when a Platform reports success but returns
	// no context.
	ErrNilContext = errors.New("gputhread: platform returned nil context")

	// ErrReleased is returned by Release once teardown has been scheduled.
	ErrReleased = errors.New("gputhread: thread already released")

	// ErrContextDestroyed is returned when the shared GPU context has been
	// (or is about to be) destroyed.
	ErrContextDestroyed = errors.New("gputhread: context destroyed")

	// ErrWrongThread is returned when a thread-affine operation is called
	// off the dedicated thread.
	ErrWrongThread = errors.New("gputhread: not on the graphics thread")

	// ErrNoSurface is returned by MakeCurrent on a Context without a surface.
	ErrNoSurface = errors.New("gputhread: context has no surface")

	// ErrSurfaceExists is returned when a Context already has a surface.
	ErrSurfaceExists = errors.New("gputhread: surface already created")

	// ErrInvalidSurfaceSize is returned for non-positive surface dimensions.
	ErrInvalidSurfaceSize = errors.New("gputhread: invalid surface size")

	// ErrContextReleased is returned when a released Context is used.
	ErrContextReleased = errors.New("gputhread: context wrapper released")

	// ErrRefCountUnderflow is returned by RefCount when released more often
	// than acquired.
	ErrRefCountUnderflow = errors.New("gputhread: reference count underflow")
)
