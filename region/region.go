// Package region groups labeled pixels by color, nominates a background
// color, and produces per-color boolean masks for the contour tracer
// (spec.md §4.3).
package region

import (
	"github.com/yingkitw/img2svg/quant"
)

// BackgroundPolicy selects which palette color becomes the document
// background (spec.md §4.3).
type BackgroundPolicy int

const (
	// LargestArea picks the palette entry with the highest pixel count
	// (the classic pipeline's default).
	LargestArea BackgroundPolicy = iota
	// BorderFrequency picks the color whose labels appear most often
	// along the one-pixel-wide image border (the enhanced pipeline's
	// default).
	BorderFrequency
)

// Index holds per-color pixel counts, the chosen background index, and
// the labeled image needed to build masks on demand.
type Index struct {
	labeled *quant.LabeledImage
	k       int
	// Areas[i] is the number of pixels labeled with palette index i.
	Areas []int
	// Background is the palette index nominated as background.
	Background int
}

// Build computes per-color pixel counts and nominates a background color
// using policy, ties broken to the lower palette index (spec.md §4.3).
func Build(labeled *quant.LabeledImage, k int, policy BackgroundPolicy) *Index {
	areas := make([]int, k)
	for _, idx := range labeled.Labels {
		areas[idx]++
	}

	var bg int
	switch policy {
	case BorderFrequency:
		bg = borderFrequencyBackground(labeled, k)
	default:
		bg = largestAreaBackground(areas)
	}

	return &Index{labeled: labeled, k: k, Areas: areas, Background: bg}
}

func largestAreaBackground(areas []int) int {
	best := 0
	for i, a := range areas {
		if a > areas[best] {
			best = i
		}
	}
	return best
}

// borderFrequencyBackground counts label occurrences along the one-pixel
// border (top row, bottom row, left and right columns; corner cells
// counted once each), tie-broken to the lowest palette index.
func borderFrequencyBackground(labeled *quant.LabeledImage, k int) int {
	counts := make([]int, k)
	w, h := labeled.Width, labeled.Height
	for x := 0; x < w; x++ {
		counts[labeled.At(x, 0)]++
		if h > 1 {
			counts[labeled.At(x, h-1)]++
		}
	}
	for y := 1; y < h-1; y++ {
		counts[labeled.At(0, y)]++
		if w > 1 {
			counts[labeled.At(w-1, y)]++
		}
	}
	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}
	return best
}

// Mask is a binary image of width*height, true where the pixel carries
// the color this mask was built for.
type Mask struct {
	Width, Height int
	Bits          []bool
}

func (m *Mask) At(x, y int) bool { return m.Bits[y*m.Width+x] }

// MaskFor returns the boolean mask for palette index color. Masks are
// built one at a time and are meant to be released before the next
// color's mask is requested (spec.md §5 memory policy).
func (idx *Index) MaskFor(color int) *Mask {
	w, h := idx.labeled.Width, idx.labeled.Height
	bits := make([]bool, w*h)
	for i, label := range idx.labeled.Labels {
		bits[i] = label == color
	}
	return &Mask{Width: w, Height: h, Bits: bits}
}

// NonBackgroundColors returns every palette index other than the
// background, excluding indices with zero area (a shrunk palette may
// leave trailing unused entries).
func (idx *Index) NonBackgroundColors() []int {
	var cs []int
	for i, a := range idx.Areas {
		if i == idx.Background || a == 0 {
			continue
		}
		cs = append(cs, i)
	}
	return cs
}
