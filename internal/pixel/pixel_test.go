package pixel

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	test := []struct {
		name                    string
		width, height, channels int
		wantErr                 error
		wantLen                 int
	}{
		{name: "rgba", width: 4, height: 4, channels: 4, wantLen: 64},
		{name: "rgb", width: 2, height: 3, channels: 3, wantLen: 18},
		{name: "gray", width: 5, height: 1, channels: 1, wantLen: 5},
		{name: "empty", width: 0, height: 7, channels: 4, wantLen: 0},
		{name: "two channels", width: 1, height: 1, channels: 2, wantErr: ErrUnsupportedChannels},
		{name: "zero channels", width: 1, height: 1, channels: 0, wantErr: ErrUnsupportedChannels},
		{name: "negative", width: -1, height: 1, channels: 4, wantErr: ErrInvalidSize},
		{name: "overflow", width: math.MaxInt / 2, height: 3, channels: 4, wantErr: ErrImageTooLarge},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := New(tt.width, tt.height, tt.channels)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, buf.Pix, tt.wantLen)
			assert.Equal(t, uint64(tt.wantLen*8), buf.Capacity())
		})
	}
}

func TestBufferAccess(t *testing.T) {
	buf, err := New(3, 2, 4)
	require.NoError(t, err)
	at := buf.Offset(2, 1, 3)
	assert.Equal(t, len(buf.Pix)-1, at)
	assert.Equal(t, 4*3+1*4+2, buf.Offset(1, 1, 2))
	buf.Pix[at] = 0xab

	cp := buf.Copy()
	cp.Pix[at] = 0
	assert.Equal(t, uint8(0xab), buf.Pix[at], "copy does not alias")
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 31),
				G: uint8(y * 17),
				B: uint8(x ^ y),
				A: uint8(200 + x),
			})
		}
	}
	return img
}

func TestFromImageRGBA(t *testing.T) {
	src := gradient(5, 4)
	buf, err := FromImage(src, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, buf.Width)
	assert.Equal(t, 4, buf.Height)
	assert.Equal(t, src.Pix, buf.Pix)

	out, ok := buf.Image().(*image.NRGBA)
	require.True(t, ok)
	assert.Equal(t, src.Pix, out.Pix)
}

func TestFromImageRGB(t *testing.T) {
	src := gradient(3, 3)
	buf, err := FromImage(src, 3)
	require.NoError(t, err)
	require.Len(t, buf.Pix, 27)
	c := src.NRGBAAt(2, 1)
	assert.Equal(t, []uint8{c.R, c.G, c.B}, buf.Pix[buf.Offset(2, 1, 0):buf.Offset(2, 1, 0)+3])

	out := buf.Image().(*image.NRGBA)
	assert.Equal(t, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}, out.NRGBAAt(2, 1))
}

func TestFromImageGray(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 2))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 30)
	}
	buf, err := FromImage(src, 1)
	require.NoError(t, err)
	assert.Equal(t, src.Pix, buf.Pix)

	out, ok := buf.Image().(*image.Gray)
	require.True(t, ok)
	assert.Equal(t, src.Pix, out.Pix)
}

func TestFromImageOffsetBounds(t *testing.T) {
	src := gradient(6, 6)
	sub := src.SubImage(image.Rect(2, 3, 5, 6))
	buf, err := FromImage(sub, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, buf.Width)
	assert.Equal(t, 3, buf.Height)
	c := src.NRGBAAt(2, 3)
	assert.Equal(t, []uint8{c.R, c.G, c.B, c.A}, buf.Pix[:4])
}

func TestFromImageUnsupported(t *testing.T) {
	_, err := FromImage(gradient(1, 1), 2)
	assert.ErrorIs(t, err, ErrUnsupportedChannels)
}
