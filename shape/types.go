// Package shape turns traced contours into smoothed, simplified paths
// ready for emission: straight polylines for the classic pipeline, or
// cubic Bézier chains for the enhanced pipeline (spec.md §4.5).
package shape

import (
	"math"

	"github.com/yingkitw/img2svg/contour"
)

// Point is the shaper's coordinate type, shared with the tracer.
type Point = contour.Point

// Pipeline selects which shaping strategy a contour goes through.
type Pipeline int

const (
	// Classic simplifies with Ramer-Douglas-Peucker and emits straight
	// line segments only.
	Classic Pipeline = iota
	// Enhanced locks sharp corners, simplifies with Visvalingam-Whyatt,
	// and fits cubic Béziers between corners.
	Enhanced
)

// SegmentKind distinguishes a straight path segment from a curved one.
type SegmentKind int

const (
	LineTo SegmentKind = iota
	CubicTo
)

// Segment is one edge of a shaped path. C1/C2 are only meaningful when
// Kind is CubicTo.
type Segment struct {
	Kind   SegmentKind
	To     Point
	C1, C2 Point
}

// Shaped is one closed path: a starting point plus the sequence of
// segments that lead back to it. Closure is implicit (spec.md §9).
type Shaped struct {
	Start    Point
	Segments []Segment
}

// Options configures one pass of the shaper (spec.md §4.5, §6).
type Options struct {
	Pipeline Pipeline

	// Smooth is the number of 0.25/0.5/0.25 averaging passes.
	Smooth int
	// CornerAngleDeg is the turning-angle threshold above which a point
	// is locked against smoothing and simplification (enhanced only).
	CornerAngleDeg float64

	// RDPEpsilon is the perpendicular-distance tolerance for classic
	// simplification, in image pixels.
	RDPEpsilon float64
	// VWAreaThreshold is the triangle-area tolerance for enhanced
	// simplification, in square image pixels.
	VWAreaThreshold float64
	// BezierTolerance is the maximum allowed fit error, in image pixels.
	BezierTolerance float64

	ImageWidth  int
	ImageHeight int
}

// DefaultClassicOptions returns spec-default settings for the classic
// (line-only) pipeline (spec.md §4.5 step 1-2 defaults).
func DefaultClassicOptions(width, height int) Options {
	return Options{
		Pipeline:    Classic,
		Smooth:      5,
		RDPEpsilon:  2.0,
		ImageWidth:  width,
		ImageHeight: height,
	}
}

// DefaultEnhancedOptions returns spec-default settings for the enhanced
// (Bézier) pipeline. The Visvalingam-Whyatt area threshold scales with
// image size since spec.md §4.5 step 2 calls for a size-derived
// threshold rather than a fixed constant.
func DefaultEnhancedOptions(width, height int) Options {
	area := float64(width) * float64(height)
	return Options{
		Pipeline:        Enhanced,
		Smooth:          5,
		CornerAngleDeg:  30,
		VWAreaThreshold: math.Max(0.5, area*2e-5),
		BezierTolerance: 1.0,
		ImageWidth:      width,
		ImageHeight:     height,
	}
}
