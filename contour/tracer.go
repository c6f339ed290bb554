package contour

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/yingkitw/img2svg/region"
)

// edge identifies one of the four sides of a marching-squares cell.
type edge int

const (
	edgeTop edge = iota
	edgeRight
	edgeBottom
	edgeLeft
)

// segment is an undirected line between two edge-midpoints of one cell.
type segment struct {
	a, b Point
}

// Trace runs marching squares over mask, padded on all four sides by one
// zero row/column, and returns the resulting closed contours ordered
// stably by their smallest point (spec.md §4.4).
//
// Each 2x2 cell of the padded grid is classified by which of its four
// edges separate a mask pixel from a non-mask (or out-of-bounds) pixel;
// zero such edges emit nothing, two are joined into one segment, and the
// degenerate four-edge "saddle" case (opposite corners share a value)
// is always resolved by enclosing the two pixels carrying the mask's
// true value separately, never by connecting through the cell center.
func Trace(mask *region.Mask) ([]Contour, error) {
	w, h := mask.Width, mask.Height

	at := func(x, y int) bool {
		if x < 0 || x >= w || y < 0 || y >= h {
			return false
		}
		return mask.At(x, y)
	}

	var segments []segment
	for py := 0; py <= h; py++ {
		for px := 0; px <= w; px++ {
			tl := at(px-1, py-1)
			tr := at(px, py-1)
			bl := at(px-1, py)
			br := at(px, py)
			// Corners sit at pixel centers, so pixel (x, y) is sampled at
			// (x+0.5, y+0.5) and its contour stays inside [x, x+1]x[y, y+1].
			x0, y0 := float64(px)-0.5, float64(py)-0.5
			x1, y1 := float64(px)+0.5, float64(py)+0.5
			segments = append(segments, cellSegments(tl, tr, br, bl, x0, y0, x1, y1)...)
		}
	}

	return chain(segments)
}

// cellSegments returns the 0, 1, or 2 segments a single marching-squares
// cell contributes, given its four corner states and image-space bounds.
func cellSegments(tl, tr, br, bl bool, x0, y0, x1, y1 float64) []segment {
	differTop := tl != tr
	differRight := tr != br
	differBottom := br != bl
	differLeft := bl != tl

	mid := func(e edge) Point {
		switch e {
		case edgeTop:
			return Point{(x0 + x1) / 2, y0}
		case edgeRight:
			return Point{x1, (y0 + y1) / 2}
		case edgeBottom:
			return Point{(x0 + x1) / 2, y1}
		default:
			return Point{x0, (y0 + y1) / 2}
		}
	}

	if differTop && differRight && differBottom && differLeft {
		// Saddle: diagonal corners share a value, the other diagonal is
		// the opposite value. Enclose each "true" corner on its own.
		if tl {
			return []segment{
				{mid(edgeLeft), mid(edgeTop)},
				{mid(edgeRight), mid(edgeBottom)},
			}
		}
		return []segment{
			{mid(edgeTop), mid(edgeRight)},
			{mid(edgeBottom), mid(edgeLeft)},
		}
	}

	var edges []edge
	if differTop {
		edges = append(edges, edgeTop)
	}
	if differRight {
		edges = append(edges, edgeRight)
	}
	if differBottom {
		edges = append(edges, edgeBottom)
	}
	if differLeft {
		edges = append(edges, edgeLeft)
	}
	if len(edges) == 0 {
		return nil
	}
	return []segment{{mid(edges[0]), mid(edges[1])}}
}

// pointKey quantizes a Point to a hashable grid coordinate; segment
// endpoints always land on half-integer coordinates, so multiplying by
// 2 and rounding is exact.
type pointKey struct{ x, y int64 }

func keyOf(p Point) pointKey {
	return pointKey{int64(round(p.X * 2)), int64(round(p.Y * 2))}
}

func round(v float64) float64 {
	if v < 0 {
		return -round(-v)
	}
	return float64(int64(v + 0.5))
}

// chain links undirected segments into closed polylines by walking the
// shared-endpoint graph; each endpoint has degree 0 or 2 by construction.
func chain(segments []segment) ([]Contour, error) {
	adj := make(map[pointKey][]int, len(segments)*2)
	for i, s := range segments {
		adj[keyOf(s.a)] = append(adj[keyOf(s.a)], i)
		adj[keyOf(s.b)] = append(adj[keyOf(s.b)], i)
	}

	visited := make([]bool, len(segments))
	var contours []Contour

	for i := range segments {
		if visited[i] {
			continue
		}
		startKey := keyOf(segments[i].a)
		curPoint := segments[i].a
		nextPoint := segments[i].b
		curSeg := i

		var poly Contour
		poly = append(poly, curPoint)

		for {
			visited[curSeg] = true
			poly = append(poly, nextPoint)
			nextKey := keyOf(nextPoint)
			if nextKey == startKey {
				break
			}
			found := -1
			for _, segIdx := range adj[nextKey] {
				if !visited[segIdx] {
					found = segIdx
					break
				}
			}
			if found == -1 {
				return nil, errors.New("contour: dangling marching-squares segment, mask boundary did not close")
			}
			curSeg = found
			s := segments[found]
			if keyOf(s.a) == nextKey {
				curPoint, nextPoint = s.a, s.b
			} else {
				curPoint, nextPoint = s.b, s.a
			}
		}

		poly = poly[:len(poly)-1] // drop the duplicated closing point
		if len(poly) >= 3 {
			contours = append(contours, poly)
		}
	}

	normalizeOrder(contours)
	return contours, nil
}

// normalizeOrder rotates each contour so it starts at its lexicographically
// smallest point, then sorts all contours by that point, giving a stable,
// deterministic emission order (spec.md §4.4, §5).
func normalizeOrder(contours []Contour) {
	for _, c := range contours {
		minIdx := 0
		for i, p := range c {
			if less(p, c[minIdx]) {
				minIdx = i
			}
		}
		rotate(c, minIdx)
	}
	sort.Slice(contours, func(i, j int) bool {
		return less(contours[i][0], contours[j][0])
	})
}

func less(a, b Point) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}

func rotate(c Contour, start int) {
	if start == 0 {
		return
	}
	rotated := make(Contour, len(c))
	for i := range c {
		rotated[i] = c[(start+i)%len(c)]
	}
	copy(c, rotated)
}
