// Package kmeans implements the "enhanced" edge-aware k-means++ color
// quantizer of spec.md §4.2.2. Where the classic median-cut quantizer
// (quant/median) partitions the color cube by repeated bisection, this
// quantizer clusters by iterative refinement and keeps hard color
// boundaries crisp by consulting a Sobel edge map before smoothing away
// label speckle.
package kmeans

import (
	"math"
	"math/rand"

	"github.com/yingkitw/img2svg/quant"
	"github.com/yingkitw/img2svg/raster"
)

// Perceptual channel weights applied before squaring RGB differences,
// approximating luminance sensitivity (spec.md §4.2.2, §9 "deliberate").
const (
	weightR = 2.0
	weightG = 4.0
	weightB = 3.0
)

const lloydIterations = 8
const majorityPasses = 2

// Options configures the enhanced quantizer beyond the palette size K.
type Options struct {
	// Seed drives the k-means++ RNG; required for spec.md §5/§8 determinism.
	Seed int64
	// EdgeThreshold is the Sobel magnitude cutoff, as a fraction in [0,1]
	// of the image's observed magnitude range (spec.md §4.2.2 step 2).
	EdgeThreshold float64
}

// Quantizer implements quant.Quantizer with edge-aware k-means++.
type Quantizer struct {
	Options Options
}

var _ quant.Quantizer = Quantizer{}

// AdaptiveK chooses K in {64, 128, 256} by image area when the caller
// does not specify one (spec.md §4.2.2 step 1).
func AdaptiveK(width, height int) int {
	area := width * height
	switch {
	case area <= 128*128:
		return 64
	case area <= 512*512:
		return 128
	default:
		return 256
	}
}

// Quantize implements the enhanced edge-aware k-means++ quantizer.
func (q Quantizer) Quantize(r *raster.Raster, k int) (quant.Palette, *quant.LabeledImage, error) {
	if k <= 0 {
		k = AdaptiveK(r.Width, r.Height)
	}
	npx := r.Width * r.Height
	if k > npx {
		k = npx
	}
	if k < 1 {
		k = 1
	}

	edgeThreshold := q.Options.EdgeThreshold
	if edgeThreshold <= 0 {
		edgeThreshold = 0.1
	}
	edges := sobelEdgeMask(r, edgeThreshold)

	rng := rand.New(rand.NewSource(q.Options.Seed))
	centers := seedPlusPlus(r, k, rng)
	centers = lloydRefine(r, centers, lloydIterations, rng)

	labels := labelNearest(r, centers)

	smoothed := edgeAwareMajoritySmooth(labels, edges, r.Width, r.Height, majorityPasses)

	pal := recolor(r, smoothed, len(centers))

	return pal, smoothed, nil
}

// weightedSqDist is the squared RGB distance under the perceptual weights
// of spec.md §4.2.2, applied consistently in seeding and refinement (§9).
func weightedSqDist(a, b raster.Pixel) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return weightR*dr*dr + weightG*dg*dg + weightB*db*db
}

func pixelToCenter(c raster.RGB) raster.Pixel {
	return raster.Pixel{R: c.R, G: c.G, B: c.B, A: 255}
}

// seedPlusPlus picks the first center uniformly at random, then each
// subsequent center with probability proportional to its squared weighted
// distance to the nearest already-chosen center (spec.md §4.2.2 step 3).
func seedPlusPlus(r *raster.Raster, k int, rng *rand.Rand) []raster.RGB {
	n := len(r.Pixels)
	centers := make([]raster.RGB, 0, k)
	first := rng.Intn(n)
	centers = append(centers, toRGB(r.Pixels[first]))

	minDist := make([]float64, n)
	for i, p := range r.Pixels {
		minDist[i] = weightedSqDist(p, pixelToCenter(centers[0]))
	}

	for len(centers) < k {
		var total float64
		for _, d := range minDist {
			total += d
		}
		var chosen int
		if total <= 0 {
			// All remaining pixels coincide with a chosen center; fall back
			// to uniform choice so the loop still makes progress.
			chosen = rng.Intn(n)
		} else {
			target := rng.Float64() * total
			var running float64
			for i, d := range minDist {
				running += d
				if running >= target {
					chosen = i
					break
				}
			}
		}
		newCenter := toRGB(r.Pixels[chosen])
		centers = append(centers, newCenter)
		for i, p := range r.Pixels {
			d := weightedSqDist(p, pixelToCenter(newCenter))
			if d < minDist[i] {
				minDist[i] = d
			}
		}
	}
	return centers
}

func toRGB(p raster.Pixel) raster.RGB { return raster.RGB{R: p.R, G: p.G, B: p.B} }

// lloydRefine runs Lloyd's algorithm for iterations rounds using the
// weighted distance, reseeding any empty cluster from the farthest point
// from its nearest center (spec.md §4.2.2 step 4).
func lloydRefine(r *raster.Raster, centers []raster.RGB, iterations int, rng *rand.Rand) []raster.RGB {
	k := len(centers)
	assign := make([]int, len(r.Pixels))
	for iter := 0; iter < iterations; iter++ {
		for i, p := range r.Pixels {
			assign[i] = nearestCenter(p, centers)
		}

		rsum := make([]float64, k)
		gsum := make([]float64, k)
		bsum := make([]float64, k)
		count := make([]int, k)
		for i, p := range r.Pixels {
			c := assign[i]
			rsum[c] += float64(p.R)
			gsum[c] += float64(p.G)
			bsum[c] += float64(p.B)
			count[c]++
		}

		farthestDist := -1.0
		farthestIdx := 0
		for i, p := range r.Pixels {
			d := weightedSqDist(p, pixelToCenter(centers[assign[i]]))
			if d > farthestDist {
				farthestDist = d
				farthestIdx = i
			}
		}

		for c := 0; c < k; c++ {
			if count[c] == 0 {
				centers[c] = toRGB(r.Pixels[farthestIdx])
				continue
			}
			centers[c] = raster.RGB{
				R: uint8(rsum[c] / float64(count[c])),
				G: uint8(gsum[c] / float64(count[c])),
				B: uint8(bsum[c] / float64(count[c])),
			}
		}
	}
	return centers
}

func nearestCenter(p raster.Pixel, centers []raster.RGB) int {
	best := 0
	bestDist := math.MaxFloat64
	for i, c := range centers {
		d := weightedSqDist(p, pixelToCenter(c))
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func labelNearest(r *raster.Raster, centers []raster.RGB) *quant.LabeledImage {
	labeled := quant.NewLabeledImage(r.Width, r.Height)
	for i, p := range r.Pixels {
		labeled.Labels[i] = nearestCenter(p, centers)
	}
	return labeled
}

// edgeAwareMajoritySmooth runs `passes` rounds of 3x3 majority-vote label
// smoothing, but only ever replaces a label when the pixel is not on the
// edge mask (spec.md §4.2.2 step 6).
func edgeAwareMajoritySmooth(labeled *quant.LabeledImage, edges []bool, w, h, passes int) *quant.LabeledImage {
	cur := labeled
	for p := 0; p < passes; p++ {
		next := quant.NewLabeledImage(w, h)
		copy(next.Labels, cur.Labels)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				idx := y*w + x
				if edges[idx] {
					continue
				}
				next.Labels[idx] = majorityLabel(cur, x, y, w, h)
			}
		}
		cur = next
	}
	return cur
}

func majorityLabel(labeled *quant.LabeledImage, x, y, w, h int) int {
	counts := make(map[int]int, 9)
	for dy := -1; dy <= 1; dy++ {
		ny := y + dy
		if ny < 0 || ny >= h {
			continue
		}
		for dx := -1; dx <= 1; dx++ {
			nx := x + dx
			if nx < 0 || nx >= w {
				continue
			}
			counts[labeled.At(nx, ny)]++
		}
	}
	best := labeled.At(x, y)
	bestCount := -1
	// Deterministic tie-break: lowest label index wins, matching the
	// overall palette's lowest-index tie convention (spec.md §4.2, §4.3).
	for label := 0; label < 256; label++ {
		c, ok := counts[label]
		if !ok {
			continue
		}
		if c > bestCount {
			bestCount = c
			best = label
		}
	}
	return best
}

// recolor replaces each palette entry with the mean of the ORIGINAL
// (pre-smoothing, pre-quantization) pixels now assigned to it after
// smoothing, restoring color fidelity (spec.md §4.2.2 step 7).
func recolor(r *raster.Raster, labeled *quant.LabeledImage, k int) quant.Palette {
	rsum := make([]float64, k)
	gsum := make([]float64, k)
	bsum := make([]float64, k)
	count := make([]int, k)
	for i, p := range r.Pixels {
		c := labeled.Labels[i]
		rsum[c] += float64(p.R)
		gsum[c] += float64(p.G)
		bsum[c] += float64(p.B)
		count[c]++
	}
	pal := make(quant.Palette, k)
	for c := 0; c < k; c++ {
		if count[c] == 0 {
			continue
		}
		pal[c] = raster.RGB{
			R: uint8(rsum[c] / float64(count[c])),
			G: uint8(gsum[c] / float64(count[c])),
			B: uint8(bsum[c] / float64(count[c])),
		}
	}
	return pal
}
