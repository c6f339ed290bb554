package median

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yingkitw/img2svg/raster"
)

func checkerRaster() *raster.Raster {
	r := raster.New(2, 2)
	r.Set(0, 0, raster.Pixel{R: 0, G: 0, B: 0, A: 255})
	r.Set(1, 0, raster.Pixel{R: 255, G: 255, B: 255, A: 255})
	r.Set(0, 1, raster.Pixel{R: 255, G: 255, B: 255, A: 255})
	r.Set(1, 1, raster.Pixel{R: 0, G: 0, B: 0, A: 255})
	return r
}

func TestQuantizeKEqualsOneYieldsSingleColor(t *testing.T) {
	r := checkerRaster()
	pal, labeled, err := Quantizer{}.Quantize(r, 1)
	require.NoError(t, err)
	assert.Len(t, pal, 1)
	for _, idx := range labeled.Labels {
		assert.Equal(t, 0, idx)
	}
}

func TestQuantizeKShrinksToUniqueColorCount(t *testing.T) {
	r := checkerRaster() // only 2 unique colors
	pal, _, err := Quantizer{}.Quantize(r, 8)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(pal), 2)
}

func TestLabelsAreNearestUnderSquaredDistance(t *testing.T) {
	r := raster.New(4, 1)
	r.Set(0, 0, raster.Pixel{R: 255, G: 0, B: 0, A: 255})
	r.Set(1, 0, raster.Pixel{R: 250, G: 5, B: 5, A: 255})
	r.Set(2, 0, raster.Pixel{R: 0, G: 0, B: 255, A: 255})
	r.Set(3, 0, raster.Pixel{R: 5, G: 0, B: 250, A: 255})

	pal, labeled, err := Quantizer{}.Quantize(r, 2)
	require.NoError(t, err)
	require.Len(t, pal, 2)

	for x := 0; x < 4; x++ {
		idx := labeled.At(x, 0)
		px := r.At(x, 0)
		want := pal.IndexNear(px)
		assert.Equal(t, want, idx)
	}
}

func TestSingleUniqueColorDoesNotSplit(t *testing.T) {
	r := raster.New(3, 3)
	for i := range r.Pixels {
		r.Pixels[i] = raster.Pixel{R: 42, G: 42, B: 42, A: 255}
	}
	pal, _, err := Quantizer{}.Quantize(r, 16)
	require.NoError(t, err)
	assert.Len(t, pal, 1)
}
