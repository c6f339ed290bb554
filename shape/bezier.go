package shape

import (
	"math"

	"github.com/yingkitw/img2svg/contour"
)

// cubic is a Bézier segment as its four control points: P0, C1, C2, P3.
type cubic [4]Point

const maxFitDepth = 12

// fitCubicRecursive fits one open point sequence with one or more cubic
// Béziers, splitting at the worst-error point and recursing whenever the
// fit error exceeds tolerance (spec.md §4.5 step 7).
func fitCubicRecursive(pts contour.Contour, tolerance float64) []cubic {
	return fitCubicRec(pts, tolerance, 0)
}

func fitCubicRec(pts contour.Contour, tolerance float64, depth int) []cubic {
	n := len(pts)
	if n < 2 {
		return nil
	}
	if n == 2 || depth >= maxFitDepth {
		return []cubic{straightAsCubic(pts[0], pts[n-1])}
	}

	t0 := estimateTangent(pts, 0, true)
	t1 := estimateTangent(pts, n-1, false)
	u := chordLengthParam(pts)

	curve, maxErr, worstIdx := fitOneCubic(pts, u, t0, t1)
	if maxErr <= tolerance {
		return []cubic{curve}
	}

	u2 := reparameterize(curve, pts, u)
	curve2, maxErr2, worstIdx2 := fitOneCubic(pts, u2, t0, t1)
	if maxErr2 <= tolerance {
		return []cubic{curve2}
	}
	if maxErr2 < maxErr {
		worstIdx = worstIdx2
	}

	if worstIdx <= 0 || worstIdx >= n-1 {
		worstIdx = n / 2
	}
	left := fitCubicRec(pts[:worstIdx+1], tolerance, depth+1)
	right := fitCubicRec(pts[worstIdx:], tolerance, depth+1)
	return append(left, right...)
}

func straightAsCubic(a, b Point) cubic {
	c1 := Point{X: a.X + (b.X-a.X)/3, Y: a.Y + (b.Y-a.Y)/3}
	c2 := Point{X: a.X + 2*(b.X-a.X)/3, Y: a.Y + 2*(b.Y-a.Y)/3}
	return cubic{a, c1, c2, b}
}

func estimateTangent(pts contour.Contour, idx int, forward bool) Point {
	var d Point
	if forward {
		d = Point{X: pts[idx+1].X - pts[idx].X, Y: pts[idx+1].Y - pts[idx].Y}
	} else {
		d = Point{X: pts[idx-1].X - pts[idx].X, Y: pts[idx-1].Y - pts[idx].Y}
	}
	length := math.Hypot(d.X, d.Y)
	if length == 0 {
		return Point{}
	}
	return Point{X: d.X / length, Y: d.Y / length}
}

func chordLengthParam(pts contour.Contour) []float64 {
	n := len(pts)
	u := make([]float64, n)
	total := 0.0
	for i := 1; i < n; i++ {
		total += math.Hypot(pts[i].X-pts[i-1].X, pts[i].Y-pts[i-1].Y)
		u[i] = total
	}
	if total == 0 {
		return u
	}
	for i := range u {
		u[i] /= total
	}
	return u
}

// fitOneCubic solves the standard least-squares system for the two
// tangent-handle lengths (alpha1, alpha2) given fixed endpoint tangents,
// falling back to a third-of-chord handle length when the system is
// near-singular.
func fitOneCubic(pts contour.Contour, u []float64, t0, t1 Point) (curve cubic, maxErr float64, worstIdx int) {
	n := len(pts)
	p0, p3 := pts[0], pts[n-1]
	chord := math.Hypot(p3.X-p0.X, p3.Y-p0.Y)

	var c00, c01, c11, x0, x1 float64
	for i := 0; i < n; i++ {
		ui := u[i]
		b0 := (1 - ui) * (1 - ui) * (1 - ui)
		b1 := 3 * ui * (1 - ui) * (1 - ui)
		b2 := 3 * ui * ui * (1 - ui)
		b3 := ui * ui * ui

		a1x, a1y := b1*t0.X, b1*t0.Y
		a2x, a2y := b2*t1.X, b2*t1.Y

		c00 += a1x*a1x + a1y*a1y
		c01 += a1x*a2x + a1y*a2y
		c11 += a2x*a2x + a2y*a2y

		rx := pts[i].X - (b0*p0.X + b3*p3.X)
		ry := pts[i].Y - (b0*p0.Y + b3*p3.Y)
		x0 += a1x*rx + a1y*ry
		x1 += a2x*rx + a2y*ry
	}

	det := c00*c11 - c01*c01
	var alpha1, alpha2 float64
	if math.Abs(det) > 1e-9 {
		alpha1 = (x0*c11 - x1*c01) / det
		alpha2 = (c00*x1 - c01*x0) / det
	}
	if math.Abs(det) <= 1e-9 || alpha1 <= 1e-6 || alpha2 <= 1e-6 {
		alpha1 = chord / 3
		alpha2 = chord / 3
	}

	c1 := Point{X: p0.X + alpha1*t0.X, Y: p0.Y + alpha1*t0.Y}
	c2 := Point{X: p3.X + alpha2*t1.X, Y: p3.Y + alpha2*t1.Y}
	curve = cubic{p0, c1, c2, p3}

	maxErr = 0
	worstIdx = 0
	for i, p := range pts {
		b := evalCubic(curve, u[i])
		d := math.Hypot(p.X-b.X, p.Y-b.Y)
		if d > maxErr {
			maxErr = d
			worstIdx = i
		}
	}
	return curve, maxErr, worstIdx
}

func evalCubic(c cubic, t float64) Point {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	cc := 3 * mt * t * t
	d := t * t * t
	return Point{
		X: a*c[0].X + b*c[1].X + cc*c[2].X + d*c[3].X,
		Y: a*c[0].Y + b*c[1].Y + cc*c[2].Y + d*c[3].Y,
	}
}

// evalCubicDeriv evaluates the first or second derivative of c at t via
// the standard control-point-difference construction.
func evalCubicDeriv(c cubic, t float64, order int) Point {
	d1 := [3]Point{
		{X: 3 * (c[1].X - c[0].X), Y: 3 * (c[1].Y - c[0].Y)},
		{X: 3 * (c[2].X - c[1].X), Y: 3 * (c[2].Y - c[1].Y)},
		{X: 3 * (c[3].X - c[2].X), Y: 3 * (c[3].Y - c[2].Y)},
	}
	if order == 1 {
		mt := 1 - t
		return Point{
			X: mt*mt*d1[0].X + 2*mt*t*d1[1].X + t*t*d1[2].X,
			Y: mt*mt*d1[0].Y + 2*mt*t*d1[1].Y + t*t*d1[2].Y,
		}
	}
	d2 := [2]Point{
		{X: 2 * (d1[1].X - d1[0].X), Y: 2 * (d1[1].Y - d1[0].Y)},
		{X: 2 * (d1[2].X - d1[1].X), Y: 2 * (d1[2].Y - d1[1].Y)},
	}
	mt := 1 - t
	return Point{X: mt*d2[0].X + t*d2[1].X, Y: mt*d2[0].Y + t*d2[1].Y}
}

// reparameterize runs one Newton-Raphson root-finding pass per point,
// nudging each parameter toward the closest point on curve.
func reparameterize(curve cubic, pts contour.Contour, u []float64) []float64 {
	out := make([]float64, len(u))
	for i, p := range pts {
		out[i] = newtonRaphson(curve, p, u[i])
	}
	return out
}

func newtonRaphson(curve cubic, p Point, u float64) float64 {
	q := evalCubic(curve, u)
	q1 := evalCubicDeriv(curve, u, 1)
	q2 := evalCubicDeriv(curve, u, 2)

	num := (q.X-p.X)*q1.X + (q.Y-p.Y)*q1.Y
	den := q1.X*q1.X + q1.Y*q1.Y + (q.X-p.X)*q2.X + (q.Y-p.Y)*q2.Y
	if den == 0 {
		return u
	}
	newU := u - num/den
	if newU < 0 {
		newU = 0
	}
	if newU > 1 {
		newU = 1
	}
	return newU
}

// enforceG1 rotates adjacent control handles at every junction between
// consecutive curves (including the closing junction) so they are
// colinear with their averaged shared tangent, preserving each handle's
// own length (spec.md §4.5 step 7, G1 continuity).
func enforceG1(curves []cubic) {
	n := len(curves)
	if n < 2 {
		return
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		junction := curves[i][3]
		inVec := Point{X: junction.X - curves[i][2].X, Y: junction.Y - curves[i][2].Y}
		outVec := Point{X: curves[j][1].X - junction.X, Y: curves[j][1].Y - junction.Y}
		inLen := math.Hypot(inVec.X, inVec.Y)
		outLen := math.Hypot(outVec.X, outVec.Y)
		if inLen == 0 || outLen == 0 {
			continue
		}
		dirX := inVec.X/inLen + outVec.X/outLen
		dirY := inVec.Y/inLen + outVec.Y/outLen
		dirLen := math.Hypot(dirX, dirY)
		if dirLen == 0 {
			continue
		}
		dirX, dirY = dirX/dirLen, dirY/dirLen
		curves[i][2] = Point{X: junction.X - dirX*inLen, Y: junction.Y - dirY*inLen}
		curves[j][1] = Point{X: junction.X + dirX*outLen, Y: junction.Y + dirY*outLen}
	}
}

// clampControlPoints confines every control point to the image bounding
// box expanded by 15%, then shrinks any handle that now overshoots its
// segment's own chord length, preventing bulges (spec.md §4.5 step 7).
func clampControlPoints(curves []cubic, width, height float64) {
	const expand = 0.15
	minX, minY := -width*expand, -height*expand
	maxX, maxY := width*(1+expand), height*(1+expand)

	clampPt := func(p Point) Point {
		return Point{
			X: math.Min(math.Max(p.X, minX), maxX),
			Y: math.Min(math.Max(p.Y, minY), maxY),
		}
	}
	clampHandle := func(endpoint, handle Point, chord float64) Point {
		handle = clampPt(handle)
		dx, dy := handle.X-endpoint.X, handle.Y-endpoint.Y
		length := math.Hypot(dx, dy)
		if length > chord && length > 0 {
			scale := chord / length
			handle = Point{X: endpoint.X + dx*scale, Y: endpoint.Y + dy*scale}
		}
		return handle
	}

	for i := range curves {
		chord := math.Hypot(curves[i][3].X-curves[i][0].X, curves[i][3].Y-curves[i][0].Y)
		if chord == 0 {
			chord = 1
		}
		curves[i][1] = clampHandle(curves[i][0], curves[i][1], chord)
		curves[i][2] = clampHandle(curves[i][3], curves[i][2], chord)
	}
}
