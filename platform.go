package gputhread

// Native is a context created by a Platform.
//
// Destroy is called exactly once, on the thread the context was created on.
type Native interface {
	Destroy() error
}

// Platform is the native graphics layer a Thread creates contexts with.
//
// Both constructors are called on the dedicated thread of the Thread being
// created. Implementations must not retain attrs.
type Platform interface {
	// NewCompatContext creates a standalone context on the most compatible
	// code path the platform has. It is used when no parent context is
	// given, which historically means an old or non-compliant driver.
	NewCompatContext(attrs Attribs) (Native, error)

	// NewSharedContext creates a context that shares resources with parent.
	NewSharedContext(parent Native, attrs Attribs) (Native, error)
}
