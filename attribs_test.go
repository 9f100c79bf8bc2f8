package gputhread

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttribs_Validate(t *testing.T) {
	tests := []struct {
		name    string
		attrs   Attribs
		wantErr bool
	}{
		{"empty", Attribs{}, false},
		{"nil", nil, false},
		{"terminator only", Attribs{AttribNone}, false},
		{"plain", ConfigPlain(), false},
		{"rgba", ConfigRGBA(), false},
		{"pixel buffer", ConfigPixelBuffer(), false},
		{"pixel rgba buffer", ConfigPixelRGBABuffer(), false},
		{"recordable", ConfigRecordable(), false},
		{"unterminated", Attribs{AttribRedSize, 8}, false},
		{"odd", Attribs{AttribRedSize, 8, AttribGreenSize}, true},
		{"odd terminated", Attribs{AttribRedSize, AttribNone}, true},
		{"terminator in middle", Attribs{AttribNone, 0, AttribRedSize, 8}, true},
		{"duplicate key", Attribs{AttribRedSize, 8, AttribRedSize, 5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.attrs.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAttribs)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAttribs_Get(t *testing.T) {
	a := ConfigRecordable()

	v, ok := a.Get(AttribRecordable)
	require.True(t, ok)
	assert.Equal(t, int32(1), v)

	v, ok = a.Get(AttribRedSize)
	require.True(t, ok)
	assert.Equal(t, int32(8), v)

	_, ok = a.Get(AttribAlphaSize)
	assert.False(t, ok)

	// Values are never matched as keys.
	_, ok = Attribs{AttribRenderableType, AttribRedSize}.Get(AttribRedSize)
	assert.False(t, ok)
}

func TestAttribs_Clone(t *testing.T) {
	a := ConfigPlain()
	b := a.Clone()
	b[1] = 5
	assert.Equal(t, int32(8), a[1])
	assert.Nil(t, Attribs(nil).Clone())
}

func TestAttribs_PresetsAreIndependent(t *testing.T) {
	a := ConfigRGBA()
	a[1] = 1
	assert.Equal(t, int32(8), ConfigRGBA()[1])
}

func TestAttribs_GLESVersion(t *testing.T) {
	assert.Equal(t, 2, ConfigPlain().GLESVersion())
	assert.Equal(t, 2, Attribs{}.GLESVersion())
	assert.Equal(t, 3, Attribs{AttribRenderableType, RenderableGLES3}.GLESVersion())
	assert.Equal(t, 3, Attribs{AttribRenderableType, RenderableGLES2 | RenderableGLES3}.GLESVersion())
}

func TestAttribs_SurfaceFormat(t *testing.T) {
	tests := []struct {
		name  string
		attrs Attribs
		want  gputypes.TextureFormat
	}{
		{"rgb888", ConfigPlain(), gputypes.TextureFormatRGBA8Unorm},
		{"rgba8888", ConfigRGBA(), gputypes.TextureFormatRGBA8Unorm},
		{"r8", Attribs{AttribRedSize, 8}, gputypes.TextureFormatR8Unorm},
		{"rgb565", Attribs{AttribRedSize, 5, AttribGreenSize, 6, AttribBlueSize, 5}, gputypes.TextureFormatUndefined},
		{"rgb888 alpha 1", Attribs{AttribRedSize, 8, AttribGreenSize, 8, AttribBlueSize, 8, AttribAlphaSize, 1}, gputypes.TextureFormatUndefined},
		{"empty", Attribs{}, gputypes.TextureFormatUndefined},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.attrs.SurfaceFormat())
		})
	}
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "compat", ModeCompat.String())
	assert.Equal(t, "shared", ModeShared.String())
	assert.Equal(t, "unknown", Mode(42).String())
}
