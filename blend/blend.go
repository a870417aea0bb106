package blend

import (
	"runtime"
	"sync"

	"github.com/egor7orlov/watermark/images"
)

// Blend composites a watermark onto a base image and returns a newly
// allocated 3-channel buffer of the base image's dimensions. Neither input
// buffer is mutated.
//
// For every base coordinate the engine finds the covering watermark pixel
// (if any) through the placement policy, applies the transparency
// exemption, and otherwise mixes the two pixels channel-wise with
// truncating integer arithmetic:
//
//	out_c = (pct*W_c + (100-pct)*B_c) / 100
//
// Uncovered and exempt pixels copy the base pixel verbatim, whatever the
// percentage. Partial watermark alpha (1..254) does not scale the mix; only
// an alpha of exactly 0 exempts a pixel under the alpha policy.
//
// Preconditions are the caller's job (see ValidateSingle and NewPercent);
// given valid inputs the engine is total and never fails.
//
// Arguments:
// - base: The base image buffer, read-only here.
// - wm: The watermark buffer, read-only here.
// - placement: Single or Grid placement policy.
// - transparency: Transparency exemption policy.
// - pct: Blend percentage in [0,100].
//
// Returns:
// - A new opaque 3-channel buffer, same dimensions as base.
func Blend(base, wm *images.Buffer, placement Placement, transparency Transparency, pct Percent) *images.Buffer {
	out := images.NewBuffer(base.Width, base.Height, 3)
	p := int(pct)

	Parallel(base.Height, func(partStart, partEnd int) {
		for y := partStart; y < partEnd; y++ {
			for x := 0; x < base.Width; x++ {
				b := base.At(x, y)

				sx, sy, covered := placement.source(x, y, wm.Width, wm.Height)
				if !covered {
					out.Set(x, y, b)
					continue
				}

				w := wm.At(sx, sy)
				if transparency.exempt(w) {
					out.Set(x, y, b)
					continue
				}

				out.Set(x, y, images.Pixel{
					R: mix(p, w.R, b.R),
					G: mix(p, w.G, b.G),
					B: mix(p, w.B, b.B),
					A: 255,
				})
			}
		}
	})

	return out
}

// mix blends one channel. Truncating integer division is load-bearing: the
// reference output is defined bit-for-bit in terms of it, so no rounding.
func mix(pct int, w, b uint8) uint8 {
	return uint8((pct*int(w) + (100-pct)*int(b)) / 100)
}

// Parallel partitions dataSize rows across one goroutine per CPU and waits
// for all of them. Each pixel computation reads only the immutable inputs
// and writes only its own output cell, so no synchronization beyond the
// final join is needed. Small inputs run serially.
func Parallel(dataSize int, fn func(partStart, partEnd int)) {
	numGoroutines := runtime.NumCPU()
	if dataSize < numGoroutines*2 {
		fn(0, dataSize)
		return
	}

	partSize := dataSize / numGoroutines

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		partStart := i * partSize
		partEnd := partStart + partSize
		if i == numGoroutines-1 {
			partEnd = dataSize
		}
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(partStart, partEnd)
	}
	wg.Wait()
}
