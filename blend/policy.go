// Package blend implements the watermark compositing engine: a pure
// function from a base buffer, a watermark buffer, a placement policy, a
// transparency policy and a blend percentage to a new output buffer.
package blend

import (
	"github.com/pkg/errors"

	"github.com/egor7orlov/watermark/images"
)

// PlacementMode selects how watermark pixels map onto the base image.
type PlacementMode int

const (
	// PlaceSingle puts one copy of the watermark at a fixed offset.
	PlaceSingle PlacementMode = iota
	// PlaceGrid tiles the watermark from (0,0) across the whole base image.
	PlaceGrid
)

// Placement is a tagged placement policy. Build one with Single or Grid;
// the zero value is a single placement at (0,0).
type Placement struct {
	mode             PlacementMode
	offsetX, offsetY int
}

// Single places the watermark's top-left corner at (offsetX, offsetY) in
// base-image coordinates. The caller is responsible for keeping the offsets
// inside [0, Wbase-Wwm] x [0, Hbase-Hwm]; ValidateSingle checks that.
func Single(offsetX, offsetY int) Placement {
	return Placement{mode: PlaceSingle, offsetX: offsetX, offsetY: offsetY}
}

// Grid tiles the watermark from (0,0) with no offset and no gap, wrapping
// per axis by destination-coordinate modulo.
func Grid() Placement {
	return Placement{mode: PlaceGrid}
}

// Mode returns the placement variant.
func (p Placement) Mode() PlacementMode { return p.mode }

// source maps a destination coordinate to a watermark coordinate and
// reports whether the watermark covers it at all.
func (p Placement) source(x, y, wmWidth, wmHeight int) (int, int, bool) {
	if p.mode == PlaceGrid {
		return x % wmWidth, y % wmHeight, true
	}
	sx := x - p.offsetX
	sy := y - p.offsetY
	if sx < 0 || sx >= wmWidth || sy < 0 || sy >= wmHeight {
		return 0, 0, false
	}
	return sx, sy, true
}

// ValidateSingle checks that a watermark fits inside the base image at the
// given offsets. Grid placement needs no such check.
//
// Arguments:
// - base: The base image buffer.
// - wm: The watermark buffer.
// - offsetX: Horizontal offset of the watermark's top-left corner.
// - offsetY: Vertical offset of the watermark's top-left corner.
//
// Returns:
// - error: nil when 0 <= offsetX <= Wbase-Wwm and 0 <= offsetY <= Hbase-Hwm.
func ValidateSingle(base, wm *images.Buffer, offsetX, offsetY int) error {
	if wm.Width > base.Width || wm.Height > base.Height {
		return errors.Errorf("watermark %dx%d does not fit base %dx%d",
			wm.Width, wm.Height, base.Width, base.Height)
	}
	if offsetX < 0 || offsetX > base.Width-wm.Width {
		return errors.Errorf("x offset %d outside [0, %d]", offsetX, base.Width-wm.Width)
	}
	if offsetY < 0 || offsetY > base.Height-wm.Height {
		return errors.Errorf("y offset %d outside [0, %d]", offsetY, base.Height-wm.Height)
	}
	return nil
}

// TransparencyMode selects which watermark pixels are exempt from blending.
type TransparencyMode int

const (
	// TransparencyNone blends every covered pixel.
	TransparencyNone TransparencyMode = iota
	// TransparencyAlpha passes the base pixel through wherever the
	// watermark's alpha channel is exactly 0.
	TransparencyAlpha
	// TransparencyColorKey passes the base pixel through wherever the
	// watermark's RGB triple exactly equals the key color.
	TransparencyColorKey
)

// Transparency is a tagged transparency policy. The constructors make the
// alpha and color-key variants mutually exclusive by construction; the zero
// value blends everything.
type Transparency struct {
	mode TransparencyMode
	key  images.Pixel
}

// NoTransparency blends every covered watermark pixel.
func NoTransparency() Transparency {
	return Transparency{mode: TransparencyNone}
}

// WatermarkAlpha exempts pixels whose watermark alpha is exactly 0. Only
// meaningful for 4-channel watermarks; the caller selects it only when the
// watermark decoded with an alpha channel.
func WatermarkAlpha() Transparency {
	return Transparency{mode: TransparencyAlpha}
}

// ColorKey exempts pixels whose RGB triple exactly equals key. The key's
// alpha component is ignored.
func ColorKey(key images.Pixel) Transparency {
	return Transparency{mode: TransparencyColorKey, key: key}
}

// Mode returns the transparency variant.
func (t Transparency) Mode() TransparencyMode { return t.mode }

// exempt reports whether the watermark pixel w is treated as fully
// transparent, regardless of the blend percentage.
func (t Transparency) exempt(w images.Pixel) bool {
	switch t.mode {
	case TransparencyAlpha:
		return w.A == 0
	case TransparencyColorKey:
		return w.RGBEqual(t.key)
	default:
		return false
	}
}

// Percent is a blend percentage in [0,100]. 0 leaves the base image
// untouched, 100 replaces covered pixels with the watermark.
type Percent int

// NewPercent validates v and returns it as a Percent.
func NewPercent(v int) (Percent, error) {
	if v < 0 || v > 100 {
		return 0, errors.Errorf("blend percentage %d outside [0, 100]", v)
	}
	return Percent(v), nil
}
