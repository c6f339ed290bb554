// Package contour traces binary region masks into closed, sub-pixel
// polylines with marching squares (spec.md §4.4).
package contour

import "math"

// Point is a floating-point 2D coordinate in image space; the top-left
// pixel center is at (0.5, 0.5) and the image rectangle is
// [0, width] x [0, height] (spec.md §3).
type Point struct {
	X, Y float64
}

// Contour is an ordered, closed polyline of Points; the first point is
// implicitly equal to the last (spec.md §3, §9: "represent contours as
// ordered sequences without an explicit duplicate at the end").
type Contour []Point

// SignedArea computes the polygon's signed area via the shoelace formula,
// treating the sequence as closed.
func (c Contour) SignedArea() float64 {
	n := len(c)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return sum / 2
}

// BoundingBox returns the axis-aligned bounding box (minX, minY, maxX, maxY).
func (c Contour) BoundingBox() (minX, minY, maxX, maxY float64) {
	if len(c) == 0 {
		return
	}
	minX, minY = c[0].X, c[0].Y
	maxX, maxY = c[0].X, c[0].Y
	for _, p := range c[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return
}
