package convert

import (
	"context"
	"os"

	"github.com/pkg/errors"

	"github.com/yingkitw/img2svg/contour"
	"github.com/yingkitw/img2svg/document"
	"github.com/yingkitw/img2svg/preprocess"
	"github.com/yingkitw/img2svg/quant"
	"github.com/yingkitw/img2svg/quant/kmeans"
	"github.com/yingkitw/img2svg/quant/median"
	"github.com/yingkitw/img2svg/raster"
	"github.com/yingkitw/img2svg/region"
	"github.com/yingkitw/img2svg/shape"
)

// Convert reads inputPath, runs the full vectorization pipeline, and
// writes the resulting document to outputPath (spec.md §6 "Library
// call"). Each stage validates its own inputs and returns the first
// error it hits; no later stage runs.
func Convert(inputPath, outputPath string, opts Options) error {
	if err := opts.validate(); err != nil {
		return err
	}
	log := opts.Logger

	f, err := os.Open(inputPath)
	if err != nil {
		return newStageError(InvalidInput, "decode", 0, 0, -1, errors.Wrap(err, "open input"))
	}
	defer f.Close()

	r, format, err := raster.Decode(f)
	if err != nil {
		return newStageError(InvalidInput, "decode", 0, 0, -1, errors.Wrap(err, "decode raster"))
	}
	if r.Width == 0 || r.Height == 0 {
		return newStageError(InvalidInput, "decode", r.Width, r.Height, -1, errors.New("zero-dimension image"))
	}
	log.Info().Str("format", string(format)).Int("width", r.Width).Int("height", r.Height).Msg("decoded input")

	maxSize := opts.MaxSize
	if maxSize <= 0 {
		maxSize = raster.DefaultMaxSize
	}
	r = raster.Downscale(r, maxSize)

	doc, err := convertRaster(r, opts)
	if err != nil {
		return err
	}

	out := document.Render(doc)
	if err := os.WriteFile(outputPath, []byte(out), 0o644); err != nil {
		return newStageError(ResourceExhausted, "write", r.Width, r.Height, -1, errors.Wrap(err, "write output"))
	}
	log.Info().Str("output", outputPath).Msg("wrote document")
	return nil
}

// convertRaster runs preprocess through document assembly over an
// already-decoded, already-downscaled raster. Split out from Convert so
// the pipeline core can be exercised without file I/O.
func convertRaster(r *raster.Raster, opts Options) (*document.Document, error) {
	log := opts.Logger

	if opts.Preprocess {
		r = preprocess.Run(r, preprocess.DefaultOptions())
		log.Debug().Msg("preprocess applied")
	}

	pal, labeled, bgPolicy, err := quantize(r, opts)
	if err != nil {
		return nil, newStageError(Internal, "quantize", r.Width, r.Height, -1, errors.Wrap(err, "quantize"))
	}
	log.Info().Int("palette_size", len(pal)).Msg("quantized")

	idx := region.Build(labeled, len(pal), bgPolicy)

	shapeOpts := shape.DefaultClassicOptions(r.Width, r.Height)
	if opts.Pipeline == PipelineEnhanced {
		shapeOpts = shape.DefaultEnhancedOptions(r.Width, r.Height)
	}
	shapeOpts.Smooth = opts.Smooth

	var layers []document.ColorLayer
	for _, color := range idx.NonBackgroundColors() {
		mask := idx.MaskFor(color)

		contours, err := contour.Trace(mask)
		if err != nil {
			return nil, newStageError(Internal, "contour", r.Width, r.Height, color, errors.Wrap(err, "trace contour"))
		}
		if len(contours) == 0 {
			continue
		}

		shaped, err := shape.ShapeAll(context.Background(), contours, shapeOpts)
		if err != nil {
			return nil, newStageError(Internal, "shape", r.Width, r.Height, color, errors.Wrap(err, "shape contours"))
		}
		if len(shaped) == 0 {
			continue
		}

		layers = append(layers, document.ColorLayer{
			Color: pal[color],
			Paths: shaped,
			Area:  idx.Areas[color],
		})
		log.Debug().Int("color_index", color).Int("contours", len(contours)).Msg("shaped color layer")
	}

	return document.New(r.Width, r.Height, pal[idx.Background], layers), nil
}

// quantize runs the configured pipeline's quantizer and returns its
// palette, labeled image, and the background-nomination policy that
// pairs with it (spec.md §4.2, §4.3).
func quantize(r *raster.Raster, opts Options) (quant.Palette, *quant.LabeledImage, region.BackgroundPolicy, error) {
	if opts.Pipeline == PipelineEnhanced {
		k := opts.Colors
		if k == 0 {
			k = kmeans.AdaptiveK(r.Width, r.Height)
		}
		q := kmeans.Quantizer{Options: kmeans.Options{Seed: opts.Seed, EdgeThreshold: opts.Threshold}}
		pal, labeled, err := q.Quantize(r, k)
		return pal, labeled, region.BorderFrequency, err
	}

	q := median.Quantizer{}
	pal, labeled, err := q.Quantize(r, opts.Colors)
	return pal, labeled, region.LargestArea, err
}
