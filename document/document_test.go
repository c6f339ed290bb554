package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yingkitw/img2svg/raster"
	"github.com/yingkitw/img2svg/shape"
)

func rectPath(x0, y0, x1, y1 float64) *shape.Shaped {
	return &shape.Shaped{
		Start: shape.Point{X: x0, Y: y0},
		Segments: []shape.Segment{
			{Kind: shape.LineTo, To: shape.Point{X: x1, Y: y0}},
			{Kind: shape.LineTo, To: shape.Point{X: x1, Y: y1}},
			{Kind: shape.LineTo, To: shape.Point{X: x0, Y: y1}},
		},
	}
}

func TestFormatNumberIntegerWhenRoundsToZero(t *testing.T) {
	assert.Equal(t, "3", formatNumber(3.04))
	assert.Equal(t, "3.1", formatNumber(3.06))
	assert.Equal(t, "0", formatNumber(-0.01))
}

func TestMergeColinearPointsDropsNearlyStraightPoint(t *testing.T) {
	pts := []shape.Point{{X: 0, Y: 0}, {X: 5, Y: 0.2}, {X: 10, Y: 0}}
	merged := mergeColinearPoints(pts, 1.5)
	assert.Len(t, merged, 2)
}

func TestMergeColinearPointsKeepsSharpTurn(t *testing.T) {
	pts := []shape.Point{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 10, Y: 0}}
	merged := mergeColinearPoints(pts, 1.5)
	assert.Len(t, merged, 3)
}

func TestNewOrdersLayersByAreaDescending(t *testing.T) {
	layers := []ColorLayer{
		{Color: raster.RGB{R: 0, G: 0, B: 255}, Area: 4, Paths: []*shape.Shaped{rectPath(0, 0, 2, 2)}},
		{Color: raster.RGB{R: 255}, Area: 16, Paths: []*shape.Shaped{rectPath(0, 0, 4, 4)}},
	}
	doc := New(8, 8, raster.RGB{G: 255}, layers)
	assert.Equal(t, 16, doc.Layers[0].Area)
	assert.Equal(t, 4, doc.Layers[1].Area)
}

func TestRenderIncludesBackgroundAndLayers(t *testing.T) {
	layers := []ColorLayer{
		{Color: raster.RGB{B: 255}, Area: 8, Paths: []*shape.Shaped{rectPath(2, 0, 4, 4)}},
	}
	doc := New(4, 4, raster.RGB{R: 255}, layers)
	out := Render(doc)
	assert.Contains(t, out, "viewport=\"0 0 4 4\"")
	assert.Contains(t, out, "fill=\"rgb(255,0,0)\"")
	assert.Contains(t, out, "fill=\"rgb(0,0,255)\"")
	assert.Contains(t, out, "stroke=\"rgb(0,0,255)\"")
	assert.True(t, strings.Contains(out, "Z"))
}

func TestRenderSkipsPathForK1(t *testing.T) {
	doc := New(4, 4, raster.RGB{R: 255}, nil)
	out := Render(doc)
	assert.NotContains(t, out, "<path")
}
