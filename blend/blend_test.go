package blend

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egor7orlov/watermark/images"
)

// solidBuffer fills a buffer with a single pixel value.
func solidBuffer(width, height, channels int, p images.Pixel) *images.Buffer {
	b := images.NewBuffer(width, height, channels)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			b.Set(x, y, p)
		}
	}
	return b
}

// gradientBuffer fills a buffer with a distinct value per coordinate so
// any misplaced read shows up in comparisons.
func gradientBuffer(width, height int) *images.Buffer {
	b := images.NewBuffer(width, height, 3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			b.Set(x, y, images.Pixel{
				R: uint8(x * 17),
				G: uint8(y * 23),
				B: uint8(x + y),
				A: 255,
			})
		}
	}
	return b
}

func TestBlendZeroPercentIsIdentity(t *testing.T) {
	base := gradientBuffer(10, 7)
	wm := solidBuffer(3, 4, 3, images.Pixel{R: 255, G: 255, B: 255, A: 255})

	for _, placement := range []Placement{Grid(), Single(2, 1)} {
		out := Blend(base, wm, placement, NoTransparency(), 0)

		require.Equal(t, 3, out.Channels)
		require.Equal(t, base.Width, out.Width)
		require.Equal(t, base.Height, out.Height)
		for y := 0; y < base.Height; y++ {
			for x := 0; x < base.Width; x++ {
				assert.Equal(t, base.At(x, y), out.At(x, y), "pixel (%d,%d)", x, y)
			}
		}
	}
}

func TestBlendFullPercentSinglePlacement(t *testing.T) {
	// Base 4x4, solid red 2x2 watermark at offset (1,1): exactly the four
	// covered pixels become red, the other twelve stay untouched.
	base := gradientBuffer(4, 4)
	red := images.Pixel{R: 255, G: 0, B: 0, A: 255}
	wm := solidBuffer(2, 2, 3, red)

	out := Blend(base, wm, Single(1, 1), NoTransparency(), 100)

	covered := 0
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if x >= 1 && x <= 2 && y >= 1 && y <= 2 {
				assert.Equal(t, red, out.At(x, y), "covered pixel (%d,%d)", x, y)
				covered++
			} else {
				assert.Equal(t, base.At(x, y), out.At(x, y), "uncovered pixel (%d,%d)", x, y)
			}
		}
	}
	assert.Equal(t, 4, covered)
}

func TestGridTilingWrapsPartialTiles(t *testing.T) {
	// Non-divisor dimensions: a 3x4 tile over a 10x10 base leaves partial
	// tiles on the right and bottom edges, which must wrap by destination
	// coordinate modulo rather than run past the tile.
	base := solidBuffer(10, 10, 3, images.Pixel{A: 255})
	wm := images.NewBuffer(3, 4, 3)
	for sy := 0; sy < 4; sy++ {
		for sx := 0; sx < 3; sx++ {
			wm.Set(sx, sy, images.Pixel{R: uint8(sx * 40), G: uint8(sy * 30), B: uint8(sx + sy), A: 255})
		}
	}

	out := Blend(base, wm, Grid(), NoTransparency(), 100)

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			want := wm.At(x%3, y%4)
			assert.Equal(t, want, out.At(x, y), "pixel (%d,%d) should come from tile (%d,%d)", x, y, x%3, y%4)
		}
	}
}

func TestAlphaExemptionIdempotentAcrossPercents(t *testing.T) {
	base := gradientBuffer(4, 4)
	// 2x2 watermark: left column fully transparent, right column opaque white.
	wm := images.NewBuffer(2, 2, 4)
	wm.Set(0, 0, images.Pixel{R: 9, G: 9, B: 9, A: 0})
	wm.Set(0, 1, images.Pixel{R: 9, G: 9, B: 9, A: 0})
	wm.Set(1, 0, images.Pixel{R: 255, G: 255, B: 255, A: 255})
	wm.Set(1, 1, images.Pixel{R: 255, G: 255, B: 255, A: 255})

	for _, pct := range []Percent{0, 50, 100} {
		t.Run(fmt.Sprintf("percent_%d", pct), func(t *testing.T) {
			out := Blend(base, wm, Grid(), WatermarkAlpha(), pct)
			for y := 0; y < 4; y++ {
				for x := 0; x < 4; x++ {
					if x%2 == 0 {
						assert.Equal(t, base.At(x, y), out.At(x, y), "transparent pixel (%d,%d)", x, y)
					} else if pct == 100 {
						assert.Equal(t, images.Pixel{R: 255, G: 255, B: 255, A: 255}, out.At(x, y))
					}
				}
			}
		})
	}
}

func TestPartialAlphaStillBlendsFully(t *testing.T) {
	// Alpha values in (0,255) do not scale the mix; only exactly 0 exempts.
	base := solidBuffer(1, 1, 3, images.Pixel{R: 200, G: 100, B: 50, A: 255})
	wm := solidBuffer(1, 1, 4, images.Pixel{R: 0, G: 200, B: 250, A: 128})

	out := Blend(base, wm, Grid(), WatermarkAlpha(), 25)

	assert.Equal(t, images.Pixel{R: 150, G: 125, B: 100, A: 255}, out.At(0, 0))
}

func TestColorKeyExemptionIdempotentAcrossPercents(t *testing.T) {
	key := images.Pixel{R: 1, G: 2, B: 3, A: 255}
	base := gradientBuffer(6, 6)
	wm := images.NewBuffer(2, 1, 3)
	wm.Set(0, 0, key)
	wm.Set(1, 0, images.Pixel{R: 250, G: 250, B: 250, A: 255})

	for _, pct := range []Percent{0, 50, 100} {
		out := Blend(base, wm, Grid(), ColorKey(key), pct)
		for y := 0; y < 6; y++ {
			for x := 0; x < 6; x += 2 {
				assert.Equal(t, base.At(x, y), out.At(x, y), "keyed pixel (%d,%d) at percent %d", x, y, pct)
			}
		}
	}
}

func TestColorKeyIgnoresWatermarkAlpha(t *testing.T) {
	// A 4-channel watermark pixel matching the key RGB is exempt even with
	// a nonzero alpha value; the key comparison reads RGB only.
	key := images.Pixel{R: 10, G: 20, B: 30}
	base := solidBuffer(1, 1, 3, images.Pixel{R: 200, G: 100, B: 50, A: 255})
	wm := solidBuffer(1, 1, 4, images.Pixel{R: 10, G: 20, B: 30, A: 37})

	out := Blend(base, wm, Grid(), ColorKey(key), 100)

	assert.Equal(t, base.At(0, 0), out.At(0, 0))
}

func TestBlendFormulaTruncates(t *testing.T) {
	// (25*0+75*200)/100, (25*200+75*100)/100, (25*250+75*50)/100
	// = (150, 125, 100) with truncating division.
	base := solidBuffer(1, 1, 3, images.Pixel{R: 200, G: 100, B: 50, A: 255})
	wm := solidBuffer(1, 1, 3, images.Pixel{R: 0, G: 200, B: 250, A: 255})

	out := Blend(base, wm, Single(0, 0), NoTransparency(), 25)

	assert.Equal(t, images.Pixel{R: 150, G: 125, B: 100, A: 255}, out.At(0, 0))
}

func TestUncoveredPixelsIgnorePercent(t *testing.T) {
	base := gradientBuffer(5, 5)
	wm := solidBuffer(2, 2, 3, images.Pixel{R: 255, G: 255, B: 255, A: 255})

	out := Blend(base, wm, Single(3, 3), NoTransparency(), 100)

	assert.Equal(t, base.At(0, 0), out.At(0, 0))
	assert.Equal(t, base.At(2, 2), out.At(2, 2))
	assert.Equal(t, base.At(4, 2), out.At(4, 2))
	assert.NotEqual(t, base.At(3, 3), out.At(3, 3))
}

func TestBlendDoesNotMutateInputs(t *testing.T) {
	base := gradientBuffer(8, 8)
	wm := solidBuffer(3, 3, 3, images.Pixel{R: 1, G: 2, B: 3, A: 255})
	baseCopy := append([]uint8(nil), base.Pix...)
	wmCopy := append([]uint8(nil), wm.Pix...)

	Blend(base, wm, Grid(), NoTransparency(), 60)

	assert.Equal(t, baseCopy, base.Pix)
	assert.Equal(t, wmCopy, wm.Pix)
}

func TestValidateSingle(t *testing.T) {
	base := images.NewBuffer(4, 4, 3)
	small := images.NewBuffer(2, 2, 3)
	big := images.NewBuffer(5, 5, 3)

	assert.NoError(t, ValidateSingle(base, small, 0, 0))
	assert.NoError(t, ValidateSingle(base, small, 2, 2))
	assert.Error(t, ValidateSingle(base, small, 3, 0), "x offset past the legal range")
	assert.Error(t, ValidateSingle(base, small, 0, -1), "negative y offset")
	assert.Error(t, ValidateSingle(base, big, 0, 0), "watermark larger than base")
}

func TestNewPercent(t *testing.T) {
	for _, v := range []int{0, 1, 50, 100} {
		pct, err := NewPercent(v)
		require.NoError(t, err)
		assert.Equal(t, Percent(v), pct)
	}
	for _, v := range []int{-1, 101, 1000} {
		_, err := NewPercent(v)
		assert.Error(t, err, "percent %d", v)
	}
}

func TestParallelCoversAllRows(t *testing.T) {
	// Partitions are disjoint, so each slot is written by exactly one
	// goroutine.
	seen := make([]bool, 1000)
	Parallel(len(seen), func(start, end int) {
		for i := start; i < end; i++ {
			seen[i] = true
		}
	})

	for i, ok := range seen {
		require.True(t, ok, "row %d not visited", i)
	}
}
