// Package convert wires the raster, preprocess, quant, region, contour,
// shape, and document packages into the single library entry point
// spec.md §6 describes: convert(inputPath, outputPath, options).
package convert

import (
	"github.com/rs/zerolog"

	"github.com/yingkitw/img2svg/raster"
)

// Pipeline selects the classic (median-cut, straight lines) or enhanced
// (k-means++, Bézier curves) variant (spec.md §2, §6).
type Pipeline int

const (
	PipelineClassic Pipeline = iota
	PipelineEnhanced
)

// Options configures one conversion run (spec.md §6 "Configuration
// options, enumerated").
type Options struct {
	// Colors is the target palette size K. Zero selects AdaptiveK for
	// the enhanced pipeline; the classic pipeline requires an explicit
	// value in [1, 64].
	Colors int
	// Smooth is the number of corner-aware/plain smoothing passes.
	Smooth int
	// Threshold is the Sobel edge-magnitude cutoff fraction, enhanced
	// pipeline only.
	Threshold float64
	// Preprocess enables the bilateral+posterize filter before
	// quantization.
	Preprocess bool
	Pipeline   Pipeline
	// MaxSize caps the longer edge before downscaling; <= 0 uses
	// raster.DefaultMaxSize.
	MaxSize int
	// Seed drives the k-means++ seeder; ignored by the classic pipeline.
	Seed int64

	Logger zerolog.Logger
}

// DefaultOptions returns spec.md §6's defaults for the classic pipeline.
func DefaultOptions() Options {
	return Options{
		Colors:     16,
		Smooth:     5,
		Threshold:  0.1,
		Preprocess: false,
		Pipeline:   PipelineClassic,
		MaxSize:    raster.DefaultMaxSize,
		Seed:       42,
		Logger:     zerolog.Nop(),
	}
}

// validate checks Options against spec.md §6's allowed ranges, returning
// an InvalidOption Error naming the offending field.
func (o Options) validate() error {
	switch o.Pipeline {
	case PipelineEnhanced:
		if o.Colors != 0 && (o.Colors < 2 || o.Colors > 256) {
			return newOptionError("colors %d outside [2,256] for the enhanced pipeline", o.Colors)
		}
	default:
		if o.Colors < 1 || o.Colors > 64 {
			return newOptionError("colors %d outside [1,64] for the classic pipeline", o.Colors)
		}
	}
	if o.Smooth < 0 || o.Smooth > 10 {
		return newOptionError("smooth %d outside [0,10]", o.Smooth)
	}
	if o.Threshold < 0 || o.Threshold > 1 {
		return newOptionError("threshold %v outside [0,1]", o.Threshold)
	}
	return nil
}
