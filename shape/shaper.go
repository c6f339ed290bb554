package shape

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/yingkitw/img2svg/contour"
)

// ShapeAll runs the shaping pipeline over every contour concurrently,
// returning one Shaped path per surviving contour in input order;
// dropped (degenerate) contours simply contribute no entry. ctx is
// checked once per contour for cooperative cancellation, and results
// are collected into an indexed slot rather than a shared accumulator
// so worker order never affects output order (spec.md §5, §9).
func ShapeAll(ctx context.Context, contours []contour.Contour, opts Options) ([]*Shaped, error) {
	slots := make([]*Shaped, len(contours))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range contours {
		i, c := i, c
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			shaped, keep, err := shapeOne(c, opts)
			if err != nil {
				return err
			}
			if keep {
				slots[i] = shaped
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*Shaped, 0, len(slots))
	for _, s := range slots {
		if s != nil {
			out = append(out, s)
		}
	}
	return out, nil
}

// shapeOne runs the full per-contour pipeline of spec.md §4.5 and
// reports whether the contour survived (false means it was filtered as
// degenerate).
func shapeOne(c contour.Contour, opts Options) (*Shaped, bool, error) {
	width := float64(opts.ImageWidth)
	height := float64(opts.ImageHeight)

	var locked []bool
	if opts.Pipeline == Enhanced {
		locked = lockCorners(c, opts.CornerAngleDeg)
	}

	smoothed := smooth(c, opts.Smooth, locked)

	var simplified contour.Contour
	if opts.Pipeline == Enhanced {
		simplified = simplifyVW(smoothed, locked, opts.VWAreaThreshold)
	} else {
		simplified = simplifyRDP(smoothed, opts.RDPEpsilon)
	}

	snapped := borderSnap(simplified, width, height)
	injected := injectCorners(snapped, width, height)
	if len(injected) < 3 {
		return nil, false, nil
	}

	if thin, minP, maxP := classifyThinStripe(injected); thin {
		return rectanglePath(minP, maxP), true, nil
	}
	if isDegenerate(injected) {
		return nil, false, nil
	}

	if opts.Pipeline == Classic {
		return polylinePath(injected), true, nil
	}
	shaped, err := fitBeziers(injected, opts, width, height)
	if err != nil {
		return nil, false, err
	}
	return shaped, true, nil
}

func polylinePath(c contour.Contour) *Shaped {
	s := &Shaped{Start: c[0]}
	for _, p := range c[1:] {
		s.Segments = append(s.Segments, Segment{Kind: LineTo, To: p})
	}
	return s
}

func rectanglePath(minP, maxP Point) *Shaped {
	return &Shaped{
		Start: Point{X: minP.X, Y: minP.Y},
		Segments: []Segment{
			{Kind: LineTo, To: Point{X: maxP.X, Y: minP.Y}},
			{Kind: LineTo, To: Point{X: maxP.X, Y: maxP.Y}},
			{Kind: LineTo, To: Point{X: minP.X, Y: maxP.Y}},
		},
	}
}

// fitBeziers splits the polyline into open sub-sequences at its sharp
// corners (re-derived from the final, cleaned-up polyline so injected
// 90° corners are split points too), fits one or more cubics per
// sub-sequence, then enforces G1 continuity and bounding-box clamping
// across the whole closed chain (spec.md §4.5 step 7).
func fitBeziers(c contour.Contour, opts Options, width, height float64) (*Shaped, error) {
	locked := lockCorners(c, opts.CornerAngleDeg)
	var lockedIdx []int
	for i, l := range locked {
		if l {
			lockedIdx = append(lockedIdx, i)
		}
	}

	var subs []contour.Contour
	if len(lockedIdx) == 0 {
		subs = append(subs, append(append(contour.Contour{}, c...), c[0]))
	} else {
		for s := range lockedIdx {
			start := lockedIdx[s]
			end := lockedIdx[(s+1)%len(lockedIdx)]
			subs = append(subs, extractCyclic(c, start, end))
		}
	}

	var curves []cubic
	for _, s := range subs {
		curves = append(curves, fitCubicRecursive(s, opts.BezierTolerance)...)
	}
	if len(curves) == 0 {
		return polylinePath(c), nil
	}

	enforceG1(curves)
	clampControlPoints(curves, width, height)

	shaped := &Shaped{Start: curves[0][0]}
	for _, cur := range curves {
		shaped.Segments = append(shaped.Segments, Segment{Kind: CubicTo, To: cur[3], C1: cur[1], C2: cur[2]})
	}
	return shaped, nil
}
