package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yingkitw/img2svg/convert"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if x < 2 {
				img.Set(x, y, color.RGBA{R: 10, G: 10, B: 10, A: 255})
			} else {
				img.Set(x, y, color.RGBA{R: 240, G: 240, B: 240, A: 255})
			}
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestCLIToOptionsMapsFlags(t *testing.T) {
	cli := CLI{Colors: 8, Smooth: 3, Threshold: 0.2, Preprocess: true, Pipeline: "enhanced", MaxSize: 2048, Seed: 7}
	opts := cli.toOptions()
	assert.Equal(t, 8, opts.Colors)
	assert.Equal(t, 3, opts.Smooth)
	assert.Equal(t, convert.PipelineEnhanced, opts.Pipeline)
	assert.True(t, opts.Preprocess)
}

func TestRunBatchConvertsMatchingFilesAndMirrorsTree(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(inDir, "sub"), 0o755))
	writePNG(t, filepath.Join(inDir, "a.png"))
	writePNG(t, filepath.Join(inDir, "sub", "b.png"))
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "notes.txt"), []byte("ignore me"), 0o644))

	opts := convert.DefaultOptions()
	opts.Colors = 2
	err := runBatch(inDir, outDir, opts, opts.Logger)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(outDir, "a.svg"))
	assert.FileExists(t, filepath.Join(outDir, "sub", "b.svg"))
	assert.NoFileExists(t, filepath.Join(outDir, "notes.svg"))
}
