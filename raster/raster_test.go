package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndAddressing(t *testing.T) {
	r := New(3, 2)
	require.Equal(t, 6, len(r.Pixels))
	r.Set(2, 1, Pixel{R: 10, G: 20, B: 30, A: 255})
	assert.Equal(t, Pixel{R: 10, G: 20, B: 30, A: 255}, r.At(2, 1))
}

func TestCloneIsIndependent(t *testing.T) {
	r := New(2, 2)
	r.Set(0, 0, Pixel{R: 1, G: 2, B: 3, A: 255})
	c := r.Clone()
	c.Set(0, 0, Pixel{R: 9, G: 9, B: 9, A: 255})
	assert.Equal(t, uint8(1), r.At(0, 0).R)
	assert.Equal(t, uint8(9), c.At(0, 0).R)
}

func TestDecodePNGFlattensAlpha(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, G: 0, B: 0, A: 128})
	img.Set(1, 0, color.RGBA{R: 0, G: 255, B: 0, A: 0})
	img.Set(0, 1, color.RGBA{R: 0, G: 0, B: 255, A: 255})
	img.Set(1, 1, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	r, format, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, format)
	for _, p := range r.Pixels {
		assert.Equal(t, uint8(255), p.A)
	}
}

func TestDownscaleNoopWhenWithinCap(t *testing.T) {
	r := New(10, 10)
	out := Downscale(r, 4096)
	assert.Same(t, r, out)
}

func TestDownscalePreservesAspectRatio(t *testing.T) {
	r := New(8000, 4000)
	out := Downscale(r, 4096)
	assert.Equal(t, 4096, out.Width)
	assert.Equal(t, 2048, out.Height)
}
