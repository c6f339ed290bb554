package region

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yingkitw/img2svg/quant"
)

func labeledFromGrid(w, h int, labels []int) *quant.LabeledImage {
	li := quant.NewLabeledImage(w, h)
	copy(li.Labels, labels)
	return li
}

func TestLargestAreaBackground(t *testing.T) {
	// 0 appears 6 times, 1 appears 2 times, in a 4x2 grid.
	li := labeledFromGrid(4, 2, []int{
		0, 0, 0, 1,
		0, 0, 0, 1,
	})
	idx := Build(li, 2, LargestArea)
	assert.Equal(t, 0, idx.Background)
	assert.Equal(t, []int{6, 2}, idx.Areas)
}

func TestLargestAreaTieBreaksToLowerIndex(t *testing.T) {
	li := labeledFromGrid(2, 1, []int{0, 1})
	idx := Build(li, 2, LargestArea)
	assert.Equal(t, 0, idx.Background)
}

func TestBorderFrequencyBackground(t *testing.T) {
	// 5x5: every border cell is 0; the 3x3 interior is 1.
	labels := make([]int, 25)
	for i := range labels {
		labels[i] = 1
	}
	li := quant.NewLabeledImage(5, 5)
	copy(li.Labels, labels)
	for x := 0; x < 5; x++ {
		li.Set(x, 0, 0)
		li.Set(x, 4, 0)
	}
	for y := 0; y < 5; y++ {
		li.Set(0, y, 0)
		li.Set(4, y, 0)
	}
	idx := Build(li, 2, BorderFrequency)
	assert.Equal(t, 0, idx.Background)
}

func TestMaskForAndNonBackgroundColors(t *testing.T) {
	li := labeledFromGrid(2, 2, []int{0, 1, 1, 2})
	idx := Build(li, 3, LargestArea)
	assert.Equal(t, 1, idx.Background) // label 1 has area 2, the max

	mask := idx.MaskFor(2)
	assert.True(t, mask.At(1, 1))
	assert.False(t, mask.At(0, 0))

	nonBg := idx.NonBackgroundColors()
	assert.ElementsMatch(t, []int{0, 2}, nonBg)
}
