// Package median implements median-cut color quantization, the "classic"
// quantizer strategy of spec.md §4.2.1.
package median

import (
	"container/heap"
	"sort"

	"github.com/yingkitw/img2svg/quant"
	"github.com/yingkitw/img2svg/raster"
)

// Quantizer implements quant.Quantizer with median-cut bucket splitting,
// adapted from the teacher's median-cut cluster/heap/split machinery
// (_examples/soniakeys-quant/median/median.go) to operate on
// raster.Raster/quant.LabeledImage instead of image.Image/image.Paletted,
// and to the deterministic tie-break rules spec.md §4.2.1 requires.
type Quantizer struct{}

var _ quant.Quantizer = Quantizer{}

// Quantize implements median-cut color quantization (spec.md §4.2.1):
// repeatedly split the splittable bucket holding the most pixels (ties to
// the earlier-created bucket) at the median value of its widest RGB
// channel, until k buckets exist or no bucket is splittable. Buckets are
// ranked by pixel count only; their channel extent does not affect which
// one is split next.
func (Quantizer) Quantize(r *raster.Raster, k int) (quant.Palette, *quant.LabeledImage, error) {
	qz := newQuantizer(r, k)
	qz.cluster()
	pal := qz.palette()
	labeled := qz.label(pal)
	return pal, labeled, nil
}

type point struct{ x, y int32 }
type chValues []uint8

func (c chValues) Len() int           { return len(c) }
func (c chValues) Less(i, j int) bool { return c[i] < c[j] }
func (c chValues) Swap(i, j int)      { c[i], c[j] = c[j], c[i] }

type cluster struct {
	id       int // insertion order, used as a deterministic heap tie-break
	px       []point
	widestCh int
}

const ( // channel identifiers, in tie-break priority order R, G, B
	wr = iota
	wg
	wb
)

type quantizer struct {
	r  *raster.Raster
	cs []cluster
	ch chValues
}

func newQuantizer(r *raster.Raster, nq int) *quantizer {
	if nq < 1 {
		nq = 1
	}
	npx := r.Width * r.Height
	if nq > npx {
		nq = npx
	}
	qz := &quantizer{
		r:  r,
		ch: make(chValues, npx),
		cs: make([]cluster, nq),
	}
	px := make([]point, npx)
	i := 0
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			px[i] = point{int32(x), int32(y)}
			i++
		}
	}
	qz.cs[0].px = px
	qz.cs[0].id = 0
	return qz
}

type queue []*cluster

func (q queue) Len() int { return len(q) }
func (q queue) Less(i, j int) bool {
	if len(q[i].px) != len(q[j].px) {
		return len(q[i].px) > len(q[j].px)
	}
	// Deterministic tie-break: earlier-created cluster splits first.
	return q[i].id < q[j].id
}
func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *queue) Push(x interface{}) {
	*q = append(*q, x.(*cluster))
}
func (q *queue) Pop() interface{} {
	old := *q
	n := len(old)
	c := old[n-1]
	*q = old[:n-1]
	return c
}

func (qz *quantizer) pixelAt(p point) raster.Pixel {
	return qz.r.At(int(p.x), int(p.y))
}

func (qz *quantizer) cluster() {
	if len(qz.cs) <= 1 {
		// K=1 (spec.md §8 boundary behavior): the single cluster already
		// holds every pixel, nothing to split.
		return
	}
	pq := new(queue)
	c := &qz.cs[0]
	nextID := 1
	var m uint8
	for i := 1; ; {
		if qz.setWidestChannel(c) {
			heap.Push(pq, c)
		}
		if len(*pq) == 0 {
			qz.cs = qz.cs[:i]
			break
		}
		s := heap.Pop(pq).(*cluster)
		m = qz.medianCut(s)
		c = &qz.cs[i]
		c.id = nextID
		nextID++
		i++
		qz.split(s, c, m)
		if i == len(qz.cs) {
			break
		}
		if qz.setWidestChannel(s) {
			heap.Push(pq, s)
		}
	}
}

// setWidestChannel finds the channel with the largest extent in c's pixel
// set, tie-broken in R, G, B order per spec.md §4.2.1 ("the split must
// choose the first channel in tie order R,G,B when extents are equal").
// Returns false if the cluster has no color variation at all (cannot be
// split further).
func (q *quantizer) setWidestChannel(c *cluster) bool {
	var maxR, maxG, maxB uint8
	minR, minG, minB := uint8(255), uint8(255), uint8(255)
	for _, p := range c.px {
		px := q.pixelAt(p)
		if px.R < minR {
			minR = px.R
		}
		if px.R > maxR {
			maxR = px.R
		}
		if px.G < minG {
			minG = px.G
		}
		if px.G > maxG {
			maxG = px.G
		}
		if px.B < minB {
			minB = px.B
		}
		if px.B > maxB {
			maxB = px.B
		}
	}
	rangeR := int(maxR) - int(minR)
	rangeG := int(maxG) - int(minG)
	rangeB := int(maxB) - int(minB)

	c.widestCh = wr
	best := rangeR
	if rangeG > best {
		c.widestCh = wg
		best = rangeG
	}
	if rangeB > best {
		c.widestCh = wb
		best = rangeB
	}
	return best > 0
}

func channelOf(p raster.Pixel, ch int) uint8 {
	switch ch {
	case wr:
		return p.R
	case wg:
		return p.G
	default:
		return p.B
	}
}

// medianCut returns a split value m such that v < m partitions c.px into
// two non-empty groups; on an even split, sort.Sort keeps the lower of
// the two middle elements (spec.md §4.2.1's determinism clause).
func (q *quantizer) medianCut(c *cluster) uint8 {
	px := c.px
	ch := q.ch[:len(px)]
	for i, p := range px {
		ch[i] = channelOf(q.pixelAt(p), c.widestCh)
	}
	sort.Sort(ch)
	m1 := len(ch) / 2
	if ch[m1] != ch[m1-1] {
		return ch[m1]
	}
	m2 := m1
	for m1--; m1 > 0 && ch[m1] == ch[m1-1]; m1-- {
	}
	for m2++; m2 < len(ch) && ch[m2] == ch[m2-1]; m2++ {
	}
	if m1 > len(ch)-m2 {
		return ch[m1]
	}
	return ch[m2]
}

func (q *quantizer) split(s, c *cluster, m uint8) {
	px := s.px
	i := 0
	last := len(px) - 1
	for i <= last {
		v := channelOf(q.pixelAt(px[i]), s.widestCh)
		if v < m {
			i++
		} else {
			px[last], px[i] = px[i], px[last]
			last--
		}
	}
	s.px = px[:i]
	c.px = px[i:]
}

func (qz *quantizer) palette() quant.Palette {
	pal := make(quant.Palette, len(qz.cs))
	for i := range qz.cs {
		px := qz.cs[i].px
		var rsum, gsum, bsum int64
		for _, p := range px {
			pix := qz.pixelAt(p)
			rsum += int64(pix.R)
			gsum += int64(pix.G)
			bsum += int64(pix.B)
		}
		n := int64(len(px))
		pal[i] = raster.RGB{
			R: uint8(rsum / n),
			G: uint8(gsum / n),
			B: uint8(bsum / n),
		}
	}
	return pal
}

// label assigns every original pixel the index of its nearest palette
// entry (spec.md §4.2.1 step 4), ties broken to the lowest index. The
// clusters already partition the image exactly, so labeling walks the
// clusters directly instead of re-scanning the whole raster per pixel.
// Lookup goes through a KDPalette rather than Palette's own linear scan:
// every pixel in the image is relabeled here, so the O(log K) tree pays
// for itself well before K approaches the 256-entry ceiling.
func (qz *quantizer) label(pal quant.Palette) *quant.LabeledImage {
	tree := quant.BuildKDPalette(pal)
	labeled := quant.NewLabeledImage(qz.r.Width, qz.r.Height)
	for _, c := range qz.cs {
		for _, p := range c.px {
			labeled.Set(int(p.x), int(p.y), tree.IndexNear(qz.pixelAt(p)))
		}
	}
	return labeled
}
