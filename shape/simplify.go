package shape

import (
	"math"

	"github.com/yingkitw/img2svg/contour"
)

// simplifyRDP runs classic Ramer-Douglas-Peucker over a closed polyline.
// The cycle is split into two open chains at its first point and the
// point farthest from it, each simplified independently, then rejoined
// (spec.md §4.5 step 2, classic variant).
func simplifyRDP(c contour.Contour, eps float64) contour.Contour {
	n := len(c)
	if n < 4 {
		return c
	}
	maxDist, splitIdx := -1.0, 1
	for i := 1; i < n; i++ {
		d := math.Hypot(c[i].X-c[0].X, c[i].Y-c[0].Y)
		if d > maxDist {
			maxDist = d
			splitIdx = i
		}
	}
	chainA := append(contour.Contour{}, c[0:splitIdx+1]...)
	chainB := append(append(contour.Contour{}, c[splitIdx:]...), c[0])
	a := rdpOpen(chainA, eps)
	b := rdpOpen(chainB, eps)
	out := append(contour.Contour{}, a[:len(a)-1]...)
	out = append(out, b[:len(b)-1]...)
	return out
}

func rdpOpen(pts contour.Contour, eps float64) contour.Contour {
	if len(pts) < 3 {
		return pts
	}
	maxDist := -1.0
	idx := -1
	for i := 1; i < len(pts)-1; i++ {
		d := perpDist(pts[i], pts[0], pts[len(pts)-1])
		if d > maxDist {
			maxDist = d
			idx = i
		}
	}
	if idx == -1 || maxDist <= eps {
		return contour.Contour{pts[0], pts[len(pts)-1]}
	}
	left := rdpOpen(pts[:idx+1], eps)
	right := rdpOpen(pts[idx:], eps)
	out := append(contour.Contour{}, left[:len(left)-1]...)
	out = append(out, right...)
	return out
}

func perpDist(p, a, b Point) float64 {
	if a == b {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	dx, dy := b.X-a.X, b.Y-a.Y
	num := math.Abs(dy*p.X - dx*p.Y + b.X*a.Y - b.Y*a.X)
	den := math.Hypot(dx, dy)
	return num / den
}

// simplifyVW runs Visvalingam-Whyatt, preserving locked corner points
// as fixed segment boundaries (spec.md §4.5 step 2, enhanced variant).
func simplifyVW(c contour.Contour, locked []bool, threshold float64) contour.Contour {
	var lockedIdx []int
	for i, l := range locked {
		if l {
			lockedIdx = append(lockedIdx, i)
		}
	}
	if len(lockedIdx) == 0 {
		return vwClosed(c, threshold)
	}
	if len(lockedIdx) == 1 {
		start := lockedIdx[0]
		rotated := append(append(contour.Contour{}, c[start:]...), c[:start]...)
		seg := append(append(contour.Contour{}, rotated...), rotated[0])
		simplified := vwOpen(seg, threshold)
		return simplified[:len(simplified)-1]
	}

	var result contour.Contour
	for s := range lockedIdx {
		start := lockedIdx[s]
		end := lockedIdx[(s+1)%len(lockedIdx)]
		seg := extractCyclic(c, start, end)
		simplified := vwOpen(seg, threshold)
		if s == 0 {
			result = append(result, simplified...)
		} else {
			result = append(result, simplified[1:]...)
		}
	}
	return result
}

func triangleArea(a, b, c Point) float64 {
	return 0.5 * math.Abs((b.X-a.X)*(c.Y-a.Y)-(c.X-a.X)*(b.Y-a.Y))
}

// vwOpen simplifies an open chain, always preserving both endpoints.
func vwOpen(pts contour.Contour, threshold float64) contour.Contour {
	cur := append(contour.Contour{}, pts...)
	for len(cur) > 2 {
		minArea := math.Inf(1)
		minIdx := -1
		for i := 1; i < len(cur)-1; i++ {
			a := triangleArea(cur[i-1], cur[i], cur[i+1])
			if a < minArea {
				minArea = a
				minIdx = i
			}
		}
		if minIdx == -1 || minArea >= threshold {
			break
		}
		cur = append(cur[:minIdx], cur[minIdx+1:]...)
	}
	return cur
}

// vwClosed simplifies a cyclic polyline with no fixed points, stopping
// once three points remain or the smallest triangle exceeds threshold.
func vwClosed(c contour.Contour, threshold float64) contour.Contour {
	cur := append(contour.Contour{}, c...)
	for len(cur) > 3 {
		n := len(cur)
		minArea := math.Inf(1)
		minIdx := -1
		for i := 0; i < n; i++ {
			a := triangleArea(cur[(i-1+n)%n], cur[i], cur[(i+1)%n])
			if a < minArea {
				minArea = a
				minIdx = i
			}
		}
		if minIdx == -1 || minArea >= threshold {
			break
		}
		next := append(contour.Contour{}, cur[:minIdx]...)
		next = append(next, cur[minIdx+1:]...)
		cur = next
	}
	return cur
}

// extractCyclic returns the inclusive sub-sequence of c from index start
// to index end, walking forward and wrapping around the cycle.
func extractCyclic(c contour.Contour, start, end int) contour.Contour {
	n := len(c)
	var seg contour.Contour
	i := start
	for {
		seg = append(seg, c[i])
		if i == end {
			break
		}
		i = (i + 1) % n
	}
	return seg
}
