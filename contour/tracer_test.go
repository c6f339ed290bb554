package contour

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yingkitw/img2svg/region"
)

func maskFromGrid(w, h int, bits []bool) *region.Mask {
	return &region.Mask{Width: w, Height: h, Bits: bits}
}

func TestTraceFullMaskProducesOneClosedContour(t *testing.T) {
	m := maskFromGrid(2, 2, []bool{true, true, true, true})
	contours, err := Trace(m)
	require.NoError(t, err)
	require.Len(t, contours, 1)
	assert.GreaterOrEqual(t, len(contours[0]), 4)
	assert.NotZero(t, contours[0].SignedArea())
}

func TestTraceDisjointPixelsProduceSeparateContours(t *testing.T) {
	// 5x5, true at (0,0) and (4,4), everything else false.
	bits := make([]bool, 25)
	bits[0] = true
	bits[24] = true
	m := maskFromGrid(5, 5, bits)
	contours, err := Trace(m)
	require.NoError(t, err)
	assert.Len(t, contours, 2)
}

func TestTraceCheckerboardSaddleStaysDisjoint(t *testing.T) {
	// 2x2 checkerboard: true at (0,0) and (1,1).
	m := maskFromGrid(2, 2, []bool{true, false, false, true})
	contours, err := Trace(m)
	require.NoError(t, err)
	assert.Len(t, contours, 2)
	for _, c := range contours {
		minX, minY, maxX, maxY := c.BoundingBox()
		assert.LessOrEqual(t, maxX-minX, 1.0)
		assert.LessOrEqual(t, maxY-minY, 1.0)
	}
}

func TestTraceEmptyMaskProducesNoContours(t *testing.T) {
	m := maskFromGrid(3, 3, make([]bool, 9))
	contours, err := Trace(m)
	require.NoError(t, err)
	assert.Empty(t, contours)
}

func TestTraceOrdersContoursBySmallestStartingPoint(t *testing.T) {
	bits := make([]bool, 25)
	bits[0] = true  // (0,0) — should sort first
	bits[24] = true // (4,4) — should sort second
	m := maskFromGrid(5, 5, bits)
	contours, err := Trace(m)
	require.NoError(t, err)
	require.Len(t, contours, 2)
	assert.True(t, less(contours[0][0], contours[1][0]) || contours[0][0] == contours[1][0])
}
