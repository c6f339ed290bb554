package document

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/yingkitw/img2svg/raster"
	"github.com/yingkitw/img2svg/shape"
)

// colinearTolerance is the maximum perpendicular distance, in pixels,
// at which an intermediate line-to point is merged away (spec.md §4.6).
const colinearTolerance = 1.5

// Render serializes doc as a text vector document: a viewport header, one
// background rectangle, then one path per non-background layer ordered
// back-to-front, each with a matching gap-filling stroke (spec.md §4.6).
func Render(doc *Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<svg viewport=\"0 0 %d %d\" fill-rule=\"evenodd\">\n", doc.Width, doc.Height)
	fmt.Fprintf(&b, "  <rect x=\"0\" y=\"0\" width=\"%d\" height=\"%d\" fill=\"%s\"/>\n",
		doc.Width, doc.Height, colorString(doc.Background))

	for _, layer := range doc.Layers {
		fill := colorString(layer.Color)
		var d strings.Builder
		for _, p := range layer.Paths {
			if p == nil || len(p.Segments) == 0 {
				continue
			}
			for _, cmd := range pathCommands(p) {
				d.WriteString(cmd)
				d.WriteByte(' ')
			}
		}
		fmt.Fprintf(&b, "  <path d=\"%s\" fill=\"%s\" stroke=\"%s\" stroke-width=\"0.5\"/>\n",
			strings.TrimSpace(d.String()), fill, fill)
	}
	b.WriteString("</svg>\n")
	return b.String()
}

// pathCommands renders one sub-contour as move-to, line-to, cubic, and a
// final close-path command, merging consecutive colinear line-to runs.
func pathCommands(p *shape.Shaped) []string {
	cmds := []string{"M" + fmtPoint(p.Start)}
	cur := p.Start

	segs := p.Segments
	i := 0
	for i < len(segs) {
		if segs[i].Kind == shape.CubicTo {
			s := segs[i]
			cmds = append(cmds, "C"+fmtPoint(s.C1)+" "+fmtPoint(s.C2)+" "+fmtPoint(s.To))
			cur = s.To
			i++
			continue
		}
		runStart := i
		for i < len(segs) && segs[i].Kind == shape.LineTo {
			i++
		}
		pts := make([]shape.Point, 0, i-runStart+1)
		pts = append(pts, cur)
		for j := runStart; j < i; j++ {
			pts = append(pts, segs[j].To)
		}
		merged := mergeColinearPoints(pts, colinearTolerance)
		for _, m := range merged[1:] {
			cmds = append(cmds, "L"+fmtPoint(m))
		}
		cur = merged[len(merged)-1]
	}
	cmds = append(cmds, "Z")
	return cmds
}

// mergeColinearPoints drops any interior point within tol of the line
// joining its kept neighbors, one left-to-right pass (spec.md §4.6).
func mergeColinearPoints(pts []shape.Point, tol float64) []shape.Point {
	if len(pts) < 3 {
		return pts
	}
	out := []shape.Point{pts[0]}
	i := 1
	for i < len(pts)-1 {
		a := out[len(out)-1]
		b := pts[i]
		c := pts[i+1]
		if perpDistToSegment(b, a, c) <= tol {
			i++
			continue
		}
		out = append(out, b)
		i++
	}
	out = append(out, pts[len(pts)-1])
	return out
}

func perpDistToSegment(p, a, b shape.Point) float64 {
	if a == b {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	dx, dy := b.X-a.X, b.Y-a.Y
	num := math.Abs(dy*p.X - dx*p.Y + b.X*a.Y - b.Y*a.X)
	den := math.Hypot(dx, dy)
	return num / den
}

func fmtPoint(p shape.Point) string {
	return formatNumber(p.X) + "," + formatNumber(p.Y)
}

// formatNumber renders v as a bare integer when its fractional part
// rounds to zero at one decimal place, otherwise as one decimal place
// (spec.md §4.6, §6).
func formatNumber(v float64) string {
	rounded := math.Round(v*10) / 10
	if rounded == math.Trunc(rounded) {
		return strconv.FormatInt(int64(rounded), 10)
	}
	return strconv.FormatFloat(rounded, 'f', 1, 64)
}

func colorString(c raster.RGB) string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}
