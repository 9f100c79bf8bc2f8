package gputhread

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Attribs is an ordered list of EGL-style configuration attributes:
// key/value pairs, optionally terminated by AttribNone.
type Attribs []int32

// Attribute keys. Values match the EGL enums so lists can be handed to an
// EGL implementation unchanged.
const (
	AttribNone           int32 = 0x3038
	AttribAlphaSize      int32 = 0x3021
	AttribBlueSize       int32 = 0x3022
	AttribGreenSize      int32 = 0x3023
	AttribRedSize        int32 = 0x3024
	AttribSurfaceType    int32 = 0x3033
	AttribRenderableType int32 = 0x3040
	AttribRecordable     int32 = 0x3142 // EGL_RECORDABLE_ANDROID
)

// Attribute values.
const (
	RenderableGLES2 int32 = 0x0004
	RenderableGLES3 int32 = 0x0040
	SurfacePbuffer  int32 = 0x0001
)

// ConfigPlain requests an 8-bit RGB GLES2 context.
func ConfigPlain() Attribs {
	return Attribs{
		AttribRedSize, 8,
		AttribGreenSize, 8,
		AttribBlueSize, 8,
		AttribRenderableType, RenderableGLES2,
		AttribNone,
	}
}

// ConfigRGBA is ConfigPlain with an 8-bit alpha channel.
func ConfigRGBA() Attribs {
	return Attribs{
		AttribRedSize, 8,
		AttribGreenSize, 8,
		AttribBlueSize, 8,
		AttribAlphaSize, 8,
		AttribRenderableType, RenderableGLES2,
		AttribNone,
	}
}

// ConfigPixelBuffer is ConfigPlain restricted to pbuffer surfaces.
func ConfigPixelBuffer() Attribs {
	return Attribs{
		AttribRedSize, 8,
		AttribGreenSize, 8,
		AttribBlueSize, 8,
		AttribRenderableType, RenderableGLES2,
		AttribSurfaceType, SurfacePbuffer,
		AttribNone,
	}
}

// ConfigPixelRGBABuffer is ConfigRGBA restricted to pbuffer surfaces.
func ConfigPixelRGBABuffer() Attribs {
	return Attribs{
		AttribRedSize, 8,
		AttribGreenSize, 8,
		AttribBlueSize, 8,
		AttribAlphaSize, 8,
		AttribRenderableType, RenderableGLES2,
		AttribSurfaceType, SurfacePbuffer,
		AttribNone,
	}
}

// ConfigRecordable is ConfigPlain usable as a video encoder input surface.
func ConfigRecordable() Attribs {
	return Attribs{
		AttribRedSize, 8,
		AttribGreenSize, 8,
		AttribBlueSize, 8,
		AttribRenderableType, RenderableGLES2,
		AttribRecordable, 1,
		AttribNone,
	}
}

// pairs returns the attribute list without its terminator.
func (a Attribs) pairs() Attribs {
	if n := len(a); n > 0 && a[n-1] == AttribNone {
		return a[:n-1]
	}
	return a
}

// Validate checks that a is a well-formed attribute list: complete
// key/value pairs, no keys after AttribNone, no key given twice.
func (a Attribs) Validate() error {
	p := a.pairs()
	if len(p)%2 != 0 {
		return fmt.Errorf("%w: %d values do not form key/value pairs", ErrInvalidAttribs, len(p))
	}
	seen := make(map[int32]struct{}, len(p)/2)
	for i := 0; i < len(p); i += 2 {
		key := p[i]
		if key == AttribNone {
			return fmt.Errorf("%w: terminator at index %d", ErrInvalidAttribs, i)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate key %#x", ErrInvalidAttribs, key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// Get returns the value stored for key.
func (a Attribs) Get(key int32) (int32, bool) {
	p := a.pairs()
	for i := 0; i+1 < len(p); i += 2 {
		if p[i] == key {
			return p[i+1], true
		}
	}
	return 0, false
}

// Clone returns a copy of a that shares no memory with it.
func (a Attribs) Clone() Attribs {
	if a == nil {
		return nil
	}
	return append(Attribs(nil), a...)
}

// GLESVersion returns the OpenGL ES major version the list asks for.
func (a Attribs) GLESVersion() int {
	if rt, ok := a.Get(AttribRenderableType); ok && rt&RenderableGLES3 != 0 {
		return 3
	}
	return 2
}

// SurfaceFormat maps the colour channel sizes to a texture format.
// Only 8-bit channels have a mapping; anything else is undefined.
func (a Attribs) SurfaceFormat() gputypes.TextureFormat {
	r, _ := a.Get(AttribRedSize)
	g, _ := a.Get(AttribGreenSize)
	b, _ := a.Get(AttribBlueSize)
	alpha, hasAlpha := a.Get(AttribAlphaSize)

	switch {
	case r == 8 && g == 8 && b == 8 && (!hasAlpha || alpha == 8):
		return gputypes.TextureFormatRGBA8Unorm
	case r == 8 && g == 0 && b == 0 && !hasAlpha:
		return gputypes.TextureFormatR8Unorm
	default:
		return gputypes.TextureFormatUndefined
	}
}
