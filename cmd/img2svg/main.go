// Command img2svg converts a raster image, or every raster image under a
// directory, into a vector document (spec.md §6 "CLI surface").
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/yingkitw/img2svg/convert"
)

var supportedExt = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".bmp": true,
	".tif": true, ".tiff": true, ".webp": true, ".gif": true,
}

// CLI is the kong-parsed argument set, one flag per spec.md §6's option
// table plus the input/output path pair.
type CLI struct {
	Input  string `arg:"" help:"Input image file or, with --batch, a directory."`
	Output string `arg:"" help:"Output .svg file or, with --batch, a directory."`

	Colors     int     `help:"Target palette size K (1-64 classic, 0 or 2-256 enhanced)." default:"16"`
	Smooth     int     `help:"Number of smoothing passes, 0-10." default:"5"`
	Threshold  float64 `help:"Sobel edge-magnitude cutoff fraction, 0-1." default:"0.1"`
	Preprocess bool    `help:"Apply bilateral smoothing and posterize before quantizing."`
	Pipeline   string  `help:"classic (straight lines) or enhanced (cubic Béziers)." enum:"classic,enhanced" default:"classic"`
	MaxSize    int     `help:"Downscale cap on the longer image edge." default:"4096"`
	Seed       int64   `help:"RNG seed for k-means++ determinism." default:"42"`

	Batch   bool `help:"Treat input/output as directories and convert every supported image underneath."`
	Verbose bool `help:"Emit debug-level log lines."`
}

func (c CLI) toOptions() convert.Options {
	opts := convert.DefaultOptions()
	opts.Colors = c.Colors
	opts.Smooth = c.Smooth
	opts.Threshold = c.Threshold
	opts.Preprocess = c.Preprocess
	opts.MaxSize = c.MaxSize
	opts.Seed = c.Seed
	if c.Pipeline == "enhanced" {
		opts.Pipeline = convert.PipelineEnhanced
	}
	return opts
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("img2svg"),
		kong.Description("Convert raster images into vector documents."),
	)

	level := zerolog.InfoLevel
	if cli.Verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	opts := cli.toOptions()
	opts.Logger = logger

	var err error
	if cli.Batch {
		err = runBatch(cli.Input, cli.Output, opts, logger)
	} else {
		err = convert.Convert(cli.Input, cli.Output, opts)
	}
	if err != nil {
		logger.Error().Err(err).Msg("conversion failed")
		os.Exit(1)
	}
}

// runBatch walks every supported image under inputDir, converting each to
// the mirrored path under outputDir with a .svg extension, per spec.md
// §6 ("mirroring the tree ... exit code 0 on full success, non-zero if
// any file failed").
func runBatch(inputDir, outputDir string, opts convert.Options, log zerolog.Logger) error {
	var failures []string

	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() {
			return nil
		}
		if !supportedExt[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		rel, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(outputDir, rel)
		dst = strings.TrimSuffix(dst, filepath.Ext(dst)) + ".svg"

		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}

		if err := convert.Convert(path, dst, opts); err != nil {
			log.Error().Err(err).Str("file", path).Msg("conversion failed")
			failures = append(failures, path)
			return nil
		}
		log.Info().Str("file", path).Str("output", dst).Msg("converted")
		return nil
	})
	if err != nil {
		return err
	}
	if len(failures) > 0 {
		return fmt.Errorf("img2svg: %d of the walked files failed to convert", len(failures))
	}
	return nil
}
