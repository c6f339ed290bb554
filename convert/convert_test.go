package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yingkitw/img2svg/raster"
	"github.com/yingkitw/img2svg/shape"
)

// solidRaster returns a width x height raster filled with one color.
func solidRaster(width, height int, c raster.Pixel) *raster.Raster {
	r := raster.New(width, height)
	for i := range r.Pixels {
		r.Pixels[i] = c
	}
	return r
}

// splitRaster returns a width x height raster whose left half is a and
// whose right half is b, a vertical straight boundary at x == width/2.
func splitRaster(width, height int, a, b raster.Pixel) *raster.Raster {
	r := raster.New(width, height)
	half := width / 2
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < half {
				r.Set(x, y, a)
			} else {
				r.Set(x, y, b)
			}
		}
	}
	return r
}

func TestConvertRasterSolidColorProducesNoLayers(t *testing.T) {
	r := solidRaster(4, 4, raster.Pixel{R: 200, G: 20, B: 20, A: 255})
	opts := DefaultOptions()
	opts.Colors = 1

	doc, err := convertRaster(r, opts)
	require.NoError(t, err)
	assert.Equal(t, 4, doc.Width)
	assert.Equal(t, 4, doc.Height)
	assert.Empty(t, doc.Layers, "a single-color image has no non-background color to trace")
}

func TestConvertRasterSplitImageProducesOneLayer(t *testing.T) {
	r := splitRaster(4, 4, raster.Pixel{R: 0, G: 0, B: 0, A: 255}, raster.Pixel{R: 255, G: 255, B: 255, A: 255})
	opts := DefaultOptions()
	opts.Colors = 2

	doc, err := convertRaster(r, opts)
	require.NoError(t, err)
	require.Len(t, doc.Layers, 1, "the non-background half should produce exactly one shaped layer")
	layer := doc.Layers[0]
	assert.Equal(t, 8, layer.Area)
	require.Len(t, layer.Paths, 1)
	assert.NotEmpty(t, layer.Paths[0].Segments)
}

func TestConvertRasterEnhancedPipelineProducesCubicSegments(t *testing.T) {
	r := splitRaster(8, 8, raster.Pixel{R: 10, G: 10, B: 10, A: 255}, raster.Pixel{R: 240, G: 240, B: 240, A: 255})
	opts := DefaultOptions()
	opts.Pipeline = PipelineEnhanced
	opts.Colors = 2

	doc, err := convertRaster(r, opts)
	require.NoError(t, err)
	require.Len(t, doc.Layers, 1)
	require.NotEmpty(t, doc.Layers[0].Paths)
	for _, seg := range doc.Layers[0].Paths[0].Segments {
		assert.Equal(t, shape.CubicTo, seg.Kind, "enhanced pipeline shapes every segment as a cubic")
	}
}

func TestOptionsValidateRejectsOutOfRangeColors(t *testing.T) {
	opts := DefaultOptions()
	opts.Colors = 0
	err := opts.validate()
	require.Error(t, err)
	var convErr *Error
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, InvalidOption, convErr.Kind)
}

func TestOptionsValidateAllowsZeroColorsForEnhanced(t *testing.T) {
	opts := DefaultOptions()
	opts.Pipeline = PipelineEnhanced
	opts.Colors = 0
	assert.NoError(t, opts.validate())
}
