// Package quant provides the palette-reduction interfaces shared by the
// classic (median-cut) and enhanced (edge-aware k-means++) quantizer
// strategies (spec.md §4.2).
package quant

import "github.com/yingkitw/img2svg/raster"

// Palette is an ordered sequence of up to 256 representative colors
// (spec.md §3 "Palette"). The median-cut quantizer shrinks K to the unique
// color count when the input has fewer distinct colors than requested; the
// k-means quantizer does not, and returns K entries (at most one per
// pixel), where an entry no pixel is labeled with stays the zero color.
// K >= 1 always holds for a non-empty Raster.
type Palette []raster.RGB

// IndexNear returns the index of the palette entry nearest p under squared
// Euclidean RGB distance, breaking ties to the lowest index (spec.md §8).
func (p Palette) IndexNear(px raster.Pixel) int {
	best := 0
	bestDist := -1
	for i, c := range p {
		d := sqDist(px, c)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func sqDist(p raster.Pixel, c raster.RGB) int {
	dr := int(p.R) - int(c.R)
	dg := int(p.G) - int(c.G)
	db := int(p.B) - int(c.B)
	return dr*dr + dg*dg + db*db
}

// LabeledImage is the same shape as a Raster; each cell holds a palette
// index in [0, K). Indices cover every non-empty palette entry: there are
// no orphan labels (spec.md §3 "Labeled image").
type LabeledImage struct {
	Width, Height int
	Labels        []int
}

// NewLabeledImage allocates a zeroed LabeledImage of the given dimensions.
func NewLabeledImage(width, height int) *LabeledImage {
	return &LabeledImage{Width: width, Height: height, Labels: make([]int, width*height)}
}

// At returns the palette index at (x, y).
func (l *LabeledImage) At(x, y int) int { return l.Labels[y*l.Width+x] }

// Set writes the palette index at (x, y).
func (l *LabeledImage) Set(x, y, idx int) { l.Labels[y*l.Width+x] = idx }

// Quantizer reduces a Raster's color palette to at most K representative
// colors and labels every pixel with the index of its nearest
// representative. K may shrink if the input has fewer unique colors than
// requested (spec.md §3 "Palette" invariant).
type Quantizer interface {
	Quantize(r *raster.Raster, k int) (Palette, *LabeledImage, error)
}
