package raster

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// DefaultMaxSize is the default cap on the longer image edge (spec.md §5,
// §6 "max-size"); images larger than this are downscaled before the rest
// of the pipeline runs.
const DefaultMaxSize = 4096

// lanczos3 is a Lanczos-windowed sinc kernel with a 3-lobe support,
// matching spec.md §5's "Auto-downscale (Lanczos-3)". golang.org/x/image/draw
// ships BiLinear and CatmullRom kernels (see _examples/golang-image/draw/scale.go)
// but no Lanczos kernel, so the kernel function itself is supplied here
// using the same draw.Kernel{Support, At} shape as the package's own
// built-ins.
var lanczos3 = &draw.Kernel{Support: 3, At: lanczos3At}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	piX := math.Pi * x
	return math.Sin(piX) / piX
}

func lanczos3At(t float64) float64 {
	if t >= 3 {
		return 0
	}
	return sinc(t) * sinc(t/3)
}

// Downscale returns r unchanged if its longer edge is within maxSize
// (DefaultMaxSize if maxSize <= 0), otherwise returns a new Raster scaled
// down, preserving aspect ratio, using the Lanczos-3 kernel.
func Downscale(r *Raster, maxSize int) *Raster {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	longer := r.Width
	if r.Height > longer {
		longer = r.Height
	}
	if longer <= maxSize {
		return r
	}
	scale := float64(maxSize) / float64(longer)
	dw := int(math.Round(float64(r.Width) * scale))
	dh := int(math.Round(float64(r.Height) * scale))
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	src := rasterAsImage(r)
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	lanczos3.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	return FromImage(dst)
}

// rasterAsImage adapts a Raster to image.Image without copying pixel data
// into a new representation, so Downscale's Lanczos pass reads directly
// from the pipeline's own buffer.
type rasterImage struct{ r *Raster }

func rasterAsImage(r *Raster) image.Image { return rasterImage{r} }

func (ri rasterImage) ColorModel() color.Model { return color.RGBAModel }

func (ri rasterImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, ri.r.Width, ri.r.Height)
}

func (ri rasterImage) At(x, y int) color.Color {
	p := ri.r.At(x, y)
	return color.RGBA{R: p.R, G: p.G, B: p.B, A: 255}
}
