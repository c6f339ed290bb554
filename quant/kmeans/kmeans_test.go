package kmeans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yingkitw/img2svg/raster"
)

func halfSplitRaster() *raster.Raster {
	r := raster.New(10, 10)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if x < 5 {
				r.Set(x, y, raster.Pixel{R: 255, A: 255})
			} else {
				r.Set(x, y, raster.Pixel{B: 255, A: 255})
			}
		}
	}
	return r
}

func TestQuantizeDeterministicWithSameSeed(t *testing.T) {
	r := halfSplitRaster()
	q := Quantizer{Options: Options{Seed: 42, EdgeThreshold: 0.2}}
	pal1, lab1, err := q.Quantize(r, 2)
	require.NoError(t, err)
	pal2, lab2, err := q.Quantize(r, 2)
	require.NoError(t, err)
	assert.Equal(t, pal1, pal2)
	assert.Equal(t, lab1.Labels, lab2.Labels)
}

func TestAdaptiveKThresholds(t *testing.T) {
	assert.Equal(t, 64, AdaptiveK(100, 100))
	assert.Equal(t, 128, AdaptiveK(500, 500))
	assert.Equal(t, 256, AdaptiveK(2000, 2000))
}

func TestQuantizeTwoColorImageSeparates(t *testing.T) {
	r := halfSplitRaster()
	q := Quantizer{Options: Options{Seed: 1, EdgeThreshold: 0.2}}
	pal, labeled, err := q.Quantize(r, 2)
	require.NoError(t, err)
	require.Len(t, pal, 2)

	leftLabel := labeled.At(0, 0)
	rightLabel := labeled.At(9, 0)
	assert.NotEqual(t, leftLabel, rightLabel)
}

func TestSobelEdgeMaskFlatImageHasNoEdges(t *testing.T) {
	r := raster.New(5, 5)
	for i := range r.Pixels {
		r.Pixels[i] = raster.Pixel{R: 100, G: 100, B: 100, A: 255}
	}
	mask := sobelEdgeMask(r, 0.1)
	for _, e := range mask {
		assert.False(t, e)
	}
}
