package quant

import "github.com/yingkitw/img2svg/raster"

// KDPalette is a binary-split search structure over a Palette's RGB
// entries, giving O(log K) nearest-color lookup instead of Palette's
// O(K) linear scan. It is adapted from the teacher's TreePalette
// (_examples/soniakeys-quant/palette.go), which partitions color.RGBA64
// values by recursive splits on R, G or B; this version partitions
// raster.RGB entries and is built directly from a Palette, so both
// quantizers can hand their result palette to BuildKDPalette for fast
// per-pixel labeling once K grows past a few dozen colors.
type KDPalette struct {
	leaf bool
	// leaf fields
	index int
	color raster.RGB
	// split fields
	channel   int // 0=R, 1=G, 2=B
	threshold uint8
	low, high *KDPalette
}

const (
	splitR = iota
	splitG
	splitB
)

// BuildKDPalette builds a balanced KD-tree over p by recursively splitting
// at the median value of the widest channel, the same tie-break order
// (R, G, B) spec.md §4.2.1 requires of the median-cut quantizer itself.
func BuildKDPalette(p Palette) *KDPalette {
	idx := make([]int, len(p))
	for i := range idx {
		idx[i] = i
	}
	return buildKD(p, idx)
}

func buildKD(p Palette, idx []int) *KDPalette {
	if len(idx) == 1 {
		return &KDPalette{leaf: true, index: idx[0], color: p[idx[0]]}
	}
	channel, lo, hi := widestChannel(p, idx)
	if lo == hi {
		// No variation left to split on: every remaining entry has the
		// same color, so collapse them into one leaf carrying the lowest
		// index, the one IndexNear's lowest-index tie-break would pick.
		best := idx[0]
		for _, i := range idx {
			if i < best {
				best = i
			}
		}
		return &KDPalette{leaf: true, index: best, color: p[best]}
	}
	// threshold is guaranteed (by medianValue, mirroring the teacher's
	// median.go medianCut) to separate idx into two non-empty groups
	// whenever lo != hi, i.e. whenever the chosen channel has any value
	// spread at all.
	threshold := medianValue(p, idx, channel)
	var low, high []int
	for _, i := range idx {
		if channelValue(p[i], channel) < threshold {
			low = append(low, i)
		} else {
			high = append(high, i)
		}
	}
	return &KDPalette{
		channel:   channel,
		threshold: threshold,
		low:       buildKD(p, low),
		high:      buildKD(p, high),
	}
}

func channelValue(c raster.RGB, channel int) uint8 {
	switch channel {
	case splitR:
		return c.R
	case splitG:
		return c.G
	default:
		return c.B
	}
}

func widestChannel(p Palette, idx []int) (channel int, lo, hi uint8) {
	minR, maxR := uint8(255), uint8(0)
	minG, maxG := uint8(255), uint8(0)
	minB, maxB := uint8(255), uint8(0)
	for _, i := range idx {
		c := p[i]
		if c.R < minR {
			minR = c.R
		}
		if c.R > maxR {
			maxR = c.R
		}
		if c.G < minG {
			minG = c.G
		}
		if c.G > maxG {
			maxG = c.G
		}
		if c.B < minB {
			minB = c.B
		}
		if c.B > maxB {
			maxB = c.B
		}
	}
	channel, lo, hi = splitR, minR, maxR
	if int(maxG)-int(minG) > int(hi)-int(lo) {
		channel, lo, hi = splitG, minG, maxG
	}
	if int(maxB)-int(minB) > int(hi)-int(lo) {
		channel, lo, hi = splitB, minB, maxB
	}
	return
}

// medianValue returns a split value m such that partitioning idx by
// channelValue(c) < m yields two non-empty groups, given the precondition
// (checked by the caller via widestChannel) that channel has non-zero
// range over idx. Mirrors the teacher's median.go medianCut: take the
// middle element after sort, then walk outward through any run of
// duplicates to find an actual value boundary, picking whichever side
// gives the more equitable cut.
func medianValue(p Palette, idx []int, channel int) uint8 {
	vals := make([]uint8, len(idx))
	for i, ix := range idx {
		vals[i] = channelValue(p[ix], channel)
	}
	// insertion sort: idx sets here are small (palette-sized, K<=256)
	for i := 1; i < len(vals); i++ {
		v := vals[i]
		j := i - 1
		for j >= 0 && vals[j] > v {
			vals[j+1] = vals[j]
			j--
		}
		vals[j+1] = v
	}
	m1 := len(vals) / 2
	if vals[m1] != vals[m1-1] {
		return vals[m1]
	}
	m2 := m1
	for m1--; m1 > 0 && vals[m1] == vals[m1-1]; m1-- {
	}
	for m2++; m2 < len(vals) && vals[m2] == vals[m2-1]; m2++ {
	}
	if m1 > len(vals)-m2 {
		return vals[m1]
	}
	return vals[m2]
}

// IndexNear returns the palette index nearest px under squared Euclidean
// RGB distance, breaking ties to the lowest index, exactly matching
// Palette.IndexNear's contract (spec.md §8's labeling invariant). Unlike
// the teacher's TreePalette.search, which descends once with no
// backtracking, IndexNear backtracks: after descending to the nearest
// leaf it unwinds the recursion and, at each split, also searches the far
// side whenever the query point could be closer than the split plane than
// to the current best match. This is the standard kd-tree exact
// nearest-neighbor correction, needed here because the spec's accuracy
// invariant (not just typical-case speed) must hold.
func (t *KDPalette) IndexNear(px raster.Pixel) int {
	best := t.leftmostLeaf()
	bestDist := sqDist(px, best.color)
	bestIdx := best.index
	t.search(px, &bestIdx, &bestDist)
	return bestIdx
}

func (t *KDPalette) leftmostLeaf() *KDPalette {
	n := t
	for !n.leaf {
		n = n.low
	}
	return n
}

func (t *KDPalette) search(px raster.Pixel, bestIdx *int, bestDist *int) {
	if t.leaf {
		d := sqDist(px, t.color)
		if d < *bestDist || (d == *bestDist && t.index < *bestIdx) {
			*bestDist = d
			*bestIdx = t.index
		}
		return
	}
	v := channelValueFromPixel(px, t.channel)
	near, far := t.low, t.high
	if v >= t.threshold {
		near, far = t.high, t.low
	}
	near.search(px, bestIdx, bestDist)
	planeDist := int(v) - int(t.threshold)
	if planeDist*planeDist <= *bestDist {
		far.search(px, bestIdx, bestDist)
	}
}

func channelValueFromPixel(px raster.Pixel, channel int) uint8 {
	switch channel {
	case splitR:
		return px.R
	case splitG:
		return px.G
	default:
		return px.B
	}
}
