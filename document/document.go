// Package document assembles shaped paths into an ordered vector
// document and renders it as text (spec.md §3, §4.6).
package document

import (
	"sort"

	"github.com/yingkitw/img2svg/raster"
	"github.com/yingkitw/img2svg/shape"
)

// ColorLayer is one non-background palette color plus every shaped path
// carrying it and the pixel count it covers (spec.md §3).
type ColorLayer struct {
	Color raster.RGB
	Paths []*shape.Shaped
	Area  int
}

// Document is the fully assembled output: viewport size, background
// color, and non-background layers ordered back-to-front by area
// (spec.md §3, §4.6).
type Document struct {
	Width, Height int
	Background    raster.RGB
	Layers        []ColorLayer
}

// New builds a Document, sorting layers by descending area with ties
// broken by the smallest leading coordinate among each layer's paths,
// the same x-then-y point order the contour tracer sorts contours by
// (spec.md §5).
func New(width, height int, background raster.RGB, layers []ColorLayer) *Document {
	sorted := append([]ColorLayer{}, layers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Area != sorted[j].Area {
			return sorted[i].Area > sorted[j].Area
		}
		return pointLess(leadingPoint(sorted[i]), leadingPoint(sorted[j]))
	})
	return &Document{Width: width, Height: height, Background: background, Layers: sorted}
}

func leadingPoint(l ColorLayer) shape.Point {
	best := shape.Point{X: 1e18, Y: 1e18}
	for _, p := range l.Paths {
		if p == nil || len(p.Segments) == 0 {
			continue
		}
		if pointLess(p.Start, best) {
			best = p.Start
		}
	}
	return best
}

func pointLess(p, q shape.Point) bool {
	if p.X != q.X {
		return p.X < q.X
	}
	return p.Y < q.Y
}
