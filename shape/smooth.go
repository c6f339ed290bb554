package shape

import (
	"math"

	"github.com/yingkitw/img2svg/contour"
)

// lockCorners marks points whose turning angle exceeds thresholdDeg;
// locked points pass through smoothing and simplification unchanged
// (spec.md §4.5 step 1).
func lockCorners(c contour.Contour, thresholdDeg float64) []bool {
	n := len(c)
	locked := make([]bool, n)
	if n < 3 {
		return locked
	}
	for i := 0; i < n; i++ {
		prev := c[(i-1+n)%n]
		next := c[(i+1)%n]
		if turningAngleDeg(prev, c[i], next) >= thresholdDeg {
			locked[i] = true
		}
	}
	return locked
}

func turningAngleDeg(prev, cur, next Point) float64 {
	v1x, v1y := cur.X-prev.X, cur.Y-prev.Y
	v2x, v2y := next.X-cur.X, next.Y-cur.Y
	if (v1x == 0 && v1y == 0) || (v2x == 0 && v2y == 0) {
		return 0
	}
	a1 := math.Atan2(v1y, v1x)
	a2 := math.Atan2(v2y, v2x)
	d := a2 - a1
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d < -math.Pi {
		d += 2 * math.Pi
	}
	return math.Abs(d) * 180 / math.Pi
}

// smooth applies passes rounds of 0.25/0.5/0.25 neighbor averaging,
// wrapping the closed polyline; locked points are left unchanged and
// their neighbors average against the locked point's current (fixed)
// position. Point count is preserved exactly (spec.md §4.5 step 1).
func smooth(c contour.Contour, passes int, locked []bool) contour.Contour {
	n := len(c)
	cur := append(contour.Contour(nil), c...)
	if n == 0 {
		return cur
	}
	for p := 0; p < passes; p++ {
		next := make(contour.Contour, n)
		for i := 0; i < n; i++ {
			if locked != nil && locked[i] {
				next[i] = cur[i]
				continue
			}
			prev := cur[(i-1+n)%n]
			nxt := cur[(i+1)%n]
			next[i] = Point{
				X: 0.25*prev.X + 0.5*cur[i].X + 0.25*nxt.X,
				Y: 0.25*prev.Y + 0.5*cur[i].Y + 0.25*nxt.Y,
			}
		}
		cur = next
	}
	return cur
}
