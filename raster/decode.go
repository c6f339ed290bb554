package raster

import (
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// Format identifies a decodable input container. Detection is by content
// sniffing via image.DecodeConfig/image.Decode's registered format chain,
// except for WebP and GIF which golang.org/x/image/stdlib register under
// their own names.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	FormatWebP Format = "webp"
	FormatGIF  Format = "gif"
)

func init() {
	// Registering here (rather than relying on decoder package side effects
	// alone) keeps the set of accepted formats explicit and auditable.
	image.RegisterFormat("bmp", "BM", bmp.Decode, bmp.DecodeConfig)
	image.RegisterFormat("tiff", "II*\x00", tiff.Decode, tiff.DecodeConfig)
	image.RegisterFormat("tiff", "MM\x00*", tiff.Decode, tiff.DecodeConfig)
	image.RegisterFormat("webp", "RIFF????WEBP", webp.Decode, webp.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG\r\n\x1a\n", png.Decode, png.DecodeConfig)
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("gif", "GIF8?a", gif.Decode, gif.DecodeConfig)
}

// Decode reads a raster from r, flattening alpha to opaque and, for
// animated formats (GIF), keeping only the first frame. It returns the
// decoded Raster and the sniffed format name.
func Decode(r io.Reader) (*Raster, Format, error) {
	img, formatName, err := image.Decode(r)
	if err != nil {
		return nil, "", errors.Wrap(err, "raster: decode")
	}
	if g, ok := img.(*image.Paletted); ok && formatName == "gif" {
		// image.Decode on a GIF only ever returns the first frame; nothing
		// further to do, but keep the branch to document the invariant
		// spec.md §6 requires ("animated inputs use the first frame").
		img = g
	}
	rast := FromImage(img)
	return rast, Format(formatName), nil
}

// FromImage converts any decoded image.Image into a Raster, flattening
// alpha to fully opaque per spec.md §1 ("alpha is read but rendered
// opaque") and converting non-RGB color spaces to RGB via the standard
// color.Color RGBA() conversion.
func FromImage(img image.Image) *Raster {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bch, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			out.Pixels[y*w+x] = Pixel{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(bch >> 8),
				A: 255,
			}
		}
	}
	return out
}
