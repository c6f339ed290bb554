// Package preprocess applies an edge-preserving bilateral smoother and a
// posterizer to a raster before quantization (spec.md §4.1). Used for
// photographic input where flat-color quantization would otherwise shatter
// smooth gradients into speckle.
package preprocess

import (
	"math"

	"github.com/yingkitw/img2svg/raster"
)

// Options controls the strength of the two filters. Zero-value Options is
// not meaningful; use DefaultOptions.
type Options struct {
	// Radius is the bilateral filter's square window half-width in pixels.
	Radius int
	// ColorSigma is the standard deviation of the color-similarity Gaussian,
	// in 8-bit channel units.
	ColorSigma float64
	// Iterations is how many times the bilateral pass is applied.
	Iterations int
	// Levels is the number of posterization levels per channel.
	Levels int
}

// DefaultOptions matches spec.md §4.1: "Default radius 2, two iterations"
// and "levels ≈ 128 halves effective color count".
func DefaultOptions() Options {
	return Options{Radius: 2, ColorSigma: 32, Iterations: 2, Levels: 128}
}

// Run returns a new raster with bilateral smoothing followed by
// posterization applied; the input raster is never mutated (spec.md §9:
// stages hand off large buffers by value).
func Run(r *raster.Raster, opt Options) *raster.Raster {
	out := r
	for i := 0; i < opt.Iterations; i++ {
		out = bilateral(out, opt.Radius, opt.ColorSigma)
	}
	return posterize(out, opt.Levels)
}

// bilateral applies one pass of an edge-preserving bilateral filter: each
// output pixel is a weighted sum of pixels in a square window, weighted by
// the product of a precomputed spatial Gaussian (per offset) and a
// precomputed 256-entry range-weight table indexed by the L1 color
// distance between center and neighbor, per spec.md §4.1 ("must use a
// precomputed 256-entry range-weight table ... to avoid transcendental
// calls in the inner loop"). Border handling is clamp-to-edge (see
// DESIGN.md Open Question decisions).
func bilateral(r *raster.Raster, radius int, colorSigma float64) *raster.Raster {
	spatial := spatialWeights(radius)
	rangeTable := rangeWeightTable(colorSigma)

	out := raster.New(r.Width, r.Height)
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			center := r.At(x, y)
			var sumR, sumG, sumB, sumW float64
			idx := 0
			for dy := -radius; dy <= radius; dy++ {
				ny := clampInt(y+dy, r.Height-1)
				for dx := -radius; dx <= radius; dx++ {
					nx := clampInt(x+dx, r.Width-1)
					neighbor := r.At(nx, ny)
					dist := l1ColorDistance(center, neighbor)
					w := spatial[idx] * rangeTable[dist]
					sumR += w * float64(neighbor.R)
					sumG += w * float64(neighbor.G)
					sumB += w * float64(neighbor.B)
					sumW += w
					idx++
				}
			}
			out.Set(x, y, raster.Pixel{
				R: clampChannel(sumR / sumW),
				G: clampChannel(sumG / sumW),
				B: clampChannel(sumB / sumW),
				A: center.A,
			})
		}
	}
	return out
}

func clampInt(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

func clampChannel(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func l1ColorDistance(a, b raster.Pixel) int {
	d := absInt(int(a.R)-int(b.R)) + absInt(int(a.G)-int(b.G)) + absInt(int(a.B)-int(b.B))
	if d > 255 {
		d = 255
	}
	return d
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// spatialWeights precomputes the spatial Gaussian for every offset in the
// (2*radius+1)^2 window, in row-major (dy, dx) order matching the inner
// loop order in bilateral.
func spatialWeights(radius int) []float64 {
	sigma := float64(radius) / 2
	if sigma == 0 {
		sigma = 1
	}
	side := 2*radius + 1
	w := make([]float64, side*side)
	idx := 0
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d2 := float64(dx*dx + dy*dy)
			w[idx] = math.Exp(-d2 / (2 * sigma * sigma))
			idx++
		}
	}
	return w
}

// rangeWeightTable precomputes the color-similarity Gaussian for every
// possible L1 color distance, 0..255.
func rangeWeightTable(colorSigma float64) [256]float64 {
	var t [256]float64
	for d := 0; d < 256; d++ {
		fd := float64(d)
		t[d] = math.Exp(-(fd * fd) / (2 * colorSigma * colorSigma))
	}
	return t
}

// posterize divides each channel by 256/levels, multiplies back, and
// clamps, per spec.md §4.1.
func posterize(r *raster.Raster, levels int) *raster.Raster {
	if levels <= 0 || levels >= 256 {
		return r
	}
	step := 256 / levels
	out := raster.New(r.Width, r.Height)
	for i, p := range r.Pixels {
		out.Pixels[i] = raster.Pixel{
			R: posterizeChannel(p.R, step),
			G: posterizeChannel(p.G, step),
			B: posterizeChannel(p.B, step),
			A: p.A,
		}
	}
	return out
}

func posterizeChannel(c uint8, step int) uint8 {
	v := (int(c) / step) * step
	if v > 255 {
		v = 255
	}
	return uint8(v)
}
