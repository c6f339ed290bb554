package kmeans

import (
	"math"

	"github.com/yingkitw/img2svg/raster"
)

var sobelX = [3][3]int{
	{-1, 0, 1},
	{-2, 0, 2},
	{-1, 0, 1},
}

var sobelY = [3][3]int{
	{-1, -2, -1},
	{0, 0, 0},
	{1, 2, 1},
}

// sobelEdgeMask computes a Sobel gradient magnitude per pixel over
// luminance, then thresholds at threshold*range to produce a boolean
// edge mask (spec.md §4.2.2 step 2). Border pixels clamp to the nearest
// interior neighbor, consistent with preprocess's own border policy
// (DESIGN.md Open Question decisions).
func sobelEdgeMask(r *raster.Raster, threshold float64) []bool {
	w, h := r.Width, r.Height
	mag := make([]float64, w*h)
	maxMag := 0.0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var gx, gy int
			for dy := -1; dy <= 1; dy++ {
				ny := clampInt(y+dy, h-1)
				for dx := -1; dx <= 1; dx++ {
					nx := clampInt(x+dx, w-1)
					lum := luminance(r.At(nx, ny))
					gx += sobelX[dy+1][dx+1] * lum
					gy += sobelY[dy+1][dx+1] * lum
				}
			}
			m := math.Hypot(float64(gx), float64(gy))
			mag[y*w+x] = m
			if m > maxMag {
				maxMag = m
			}
		}
	}
	mask := make([]bool, w*h)
	if maxMag == 0 {
		return mask
	}
	cutoff := threshold * maxMag
	for i, m := range mag {
		mask[i] = m >= cutoff
	}
	return mask
}

func luminance(p raster.Pixel) int {
	return (299*int(p.R) + 587*int(p.G) + 114*int(p.B)) / 1000
}

func clampInt(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
