package shape

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yingkitw/img2svg/contour"
)

func rectContour(x0, y0, x1, y1 float64) contour.Contour {
	return contour.Contour{
		{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
	}
}

func TestSmoothPreservesPointCount(t *testing.T) {
	c := rectContour(0, 0, 4, 4)
	smoothed := smooth(c, 5, nil)
	assert.Len(t, smoothed, len(c))
}

func TestSmoothLockedPointUnchanged(t *testing.T) {
	c := rectContour(0, 0, 4, 4)
	locked := []bool{true, false, false, false}
	smoothed := smooth(c, 3, locked)
	assert.Equal(t, c[0], smoothed[0])
}

func TestLockCornersMarksRightAngles(t *testing.T) {
	c := rectContour(0, 0, 4, 4)
	locked := lockCorners(c, 30)
	for i, l := range locked {
		assert.True(t, l, "corner %d should be locked", i)
	}
}

func TestSimplifyRDPCollapsesColinearPoints(t *testing.T) {
	c := contour.Contour{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0},
		{X: 3, Y: 3}, {X: 0, Y: 3},
	}
	simplified := simplifyRDP(c, 0.5)
	assert.Less(t, len(simplified), len(c))
}

func TestBorderSnapClampsNearEdgePoints(t *testing.T) {
	c := contour.Contour{{X: 0.3, Y: 0.4}, {X: 3.8, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}}
	snapped := borderSnap(c, 4, 4)
	assert.Equal(t, 0.0, snapped[0].X)
	assert.Equal(t, 0.0, snapped[0].Y)
	assert.Equal(t, 4.0, snapped[1].X)
}

func TestInjectCornersAddsExactCorner(t *testing.T) {
	// Diagonal chamfer between the top border and the left border.
	c := contour.Contour{
		{X: 1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 4}, {X: 4, Y: 4}, {X: 4, Y: 0},
	}
	injected := injectCorners(c, 4, 4)
	found := false
	for _, p := range injected {
		if p.X == 0 && p.Y == 0 {
			found = true
		}
	}
	assert.True(t, found, "expected the exact corner (0,0) to be injected")
}

func TestClassifyThinStripe(t *testing.T) {
	c := rectContour(5, 0, 6, 10)
	thin, minP, maxP := classifyThinStripe(c)
	assert.True(t, thin)
	assert.Equal(t, Point{X: 5, Y: 0}, minP)
	assert.Equal(t, Point{X: 6, Y: 10}, maxP)
}

func TestIsDegenerateTinyBox(t *testing.T) {
	c := rectContour(0, 0, 1, 1)
	assert.True(t, isDegenerate(c))
}

func TestIsDegenerateFalseForNormalBox(t *testing.T) {
	c := rectContour(0, 0, 10, 10)
	assert.False(t, isDegenerate(c))
}

func TestShapeAllClassicProducesLinePath(t *testing.T) {
	contours := []contour.Contour{rectContour(2, 2, 8, 8)}
	opts := DefaultClassicOptions(10, 10)
	shaped, err := ShapeAll(context.Background(), contours, opts)
	require.NoError(t, err)
	require.Len(t, shaped, 1)
	for _, seg := range shaped[0].Segments {
		assert.Equal(t, LineTo, seg.Kind)
	}
}

func TestShapeAllEnhancedProducesCubicPath(t *testing.T) {
	contours := []contour.Contour{rectContour(2, 2, 8, 8)}
	opts := DefaultEnhancedOptions(10, 10)
	shaped, err := ShapeAll(context.Background(), contours, opts)
	require.NoError(t, err)
	require.Len(t, shaped, 1)
	require.NotEmpty(t, shaped[0].Segments)
	assert.Equal(t, CubicTo, shaped[0].Segments[0].Kind)
}

func TestShapeAllPreservesInputOrder(t *testing.T) {
	contours := []contour.Contour{
		rectContour(0, 0, 10, 10),
		rectContour(20, 20, 30, 30),
	}
	opts := DefaultClassicOptions(40, 40)
	shaped, err := ShapeAll(context.Background(), contours, opts)
	require.NoError(t, err)
	require.Len(t, shaped, 2)
	assert.Equal(t, Point{X: 0, Y: 0}, shaped[0].Start)
	assert.Equal(t, Point{X: 20, Y: 20}, shaped[1].Start)
}
