package shape

import (
	"math"

	"github.com/yingkitw/img2svg/contour"
)

// borderSnap moves any point within 0.5 pixels of an image edge exactly
// onto that edge, then drops consecutive duplicates (spec.md §4.5 step 3).
func borderSnap(c contour.Contour, width, height float64) contour.Contour {
	out := make(contour.Contour, len(c))
	for i, p := range c {
		x, y := p.X, p.Y
		if math.Abs(x) <= 0.5 {
			x = 0
		} else if math.Abs(x-width) <= 0.5 {
			x = width
		}
		if math.Abs(y) <= 0.5 {
			y = 0
		} else if math.Abs(y-height) <= 0.5 {
			y = height
		}
		out[i] = Point{X: x, Y: y}
	}
	return dedupCyclic(out, 1e-3)
}

func dedupCyclic(c contour.Contour, tol float64) contour.Contour {
	if len(c) == 0 {
		return c
	}
	var out contour.Contour
	for _, p := range c {
		if len(out) == 0 {
			out = append(out, p)
			continue
		}
		last := out[len(out)-1]
		if math.Hypot(p.X-last.X, p.Y-last.Y) > tol {
			out = append(out, p)
		}
	}
	if len(out) > 1 {
		first, last := out[0], out[len(out)-1]
		if math.Hypot(first.X-last.X, first.Y-last.Y) <= tol {
			out = out[:len(out)-1]
		}
	}
	return out
}

type borderSide int

const (
	noBorder borderSide = iota
	top
	bottom
	left
	right
)

func horizontalBorder(p Point, height float64) borderSide {
	if p.Y == 0 {
		return top
	}
	if p.Y == height {
		return bottom
	}
	return noBorder
}

func verticalBorder(p Point, width float64) borderSide {
	if p.X == 0 {
		return left
	}
	if p.X == width {
		return right
	}
	return noBorder
}

// injectCorners inserts the exact image corner between two consecutive
// points whose edge is diagonal but whose endpoints sit on two different
// single borders, turning a marching-squares chamfer into a 90° corner
// (spec.md §4.5 step 4).
func injectCorners(c contour.Contour, width, height float64) contour.Contour {
	n := len(c)
	if n < 2 {
		return c
	}
	var out contour.Contour
	for i := 0; i < n; i++ {
		p := c[i]
		q := c[(i+1)%n]
		out = append(out, p)
		if p.X == q.X || p.Y == q.Y {
			continue
		}
		pv, ph := verticalBorder(p, width), horizontalBorder(p, height)
		qv, qh := verticalBorder(q, width), horizontalBorder(q, height)
		switch {
		case pv != noBorder && qh != noBorder:
			out = append(out, Point{X: p.X, Y: q.Y})
		case ph != noBorder && qv != noBorder:
			out = append(out, Point{X: q.X, Y: p.Y})
		}
	}
	return out
}

// classifyThinStripe reports whether c's bounding box is narrow on one
// axis and long on the other, the case emitted as a rectangle instead
// of a polyline (spec.md §4.5 step 6).
func classifyThinStripe(c contour.Contour) (thin bool, minP, maxP Point) {
	minX, minY, maxX, maxY := c.BoundingBox()
	minP, maxP = Point{X: minX, Y: minY}, Point{X: maxX, Y: maxY}
	w, h := maxX-minX, maxY-minY
	thin = (w < 2 && h > 2) || (h < 2 && w > 2)
	return
}

// isDegenerate reports whether c should be dropped: near-zero area or a
// bounding box side shorter than 2 pixels on either axis (spec.md §4.5
// step 5).
func isDegenerate(c contour.Contour) bool {
	minX, minY, maxX, maxY := c.BoundingBox()
	w, h := maxX-minX, maxY-minY
	if math.Abs(c.SignedArea()) < 0.5 {
		return true
	}
	return w < 2 || h < 2
}
