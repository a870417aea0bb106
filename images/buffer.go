// Package images - pixel buffers and the file codecs that produce them.
package images

// Pixel holds one pixel's 8-bit channel values. For 3-channel buffers the
// alpha component is always 255.
type Pixel struct {
	R, G, B, A uint8
}

// RGBEqual reports whether two pixels carry identical red, green and blue
// values. Alpha is deliberately ignored: flat-color key matching compares
// the RGB triple only, even when the watermark carries an alpha channel.
func (p Pixel) RGBEqual(o Pixel) bool {
	return p.R == o.R && p.G == o.G && p.B == o.B
}

// Buffer is a decoded raster image: packed 8-bit channel data plus the
// metadata the blend engine needs. Pix is row-major with a stride of
// Width*Channels, the same layout discipline as image.RGBA.
//
// Buffers are treated as immutable once decoded; the blend engine only ever
// writes into a buffer it allocated itself.
type Buffer struct {
	// Width of the image in pixels, always >= 1.
	Width int
	// Height of the image in pixels, always >= 1.
	Height int
	// Channels per pixel: 3 (RGB) or 4 (RGBA).
	Channels int
	// Pix holds the packed channel data, len = Width*Height*Channels.
	Pix []uint8
}

// NewBuffer allocates a zeroed buffer of the given geometry.
//
// Arguments:
// - width: Image width in pixels.
// - height: Image height in pixels.
// - channels: Channel count, 3 or 4.
//
// Returns:
// - The allocated buffer.
func NewBuffer(width, height, channels int) *Buffer {
	return &Buffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}
}

// HasAlpha reports whether the buffer carries a meaningful alpha channel.
func (b *Buffer) HasAlpha() bool {
	return b.Channels == 4
}

// PixOffset returns the index of the first channel value of the pixel at
// (x, y).
func (b *Buffer) PixOffset(x, y int) int {
	return (y*b.Width + x) * b.Channels
}

// At returns the pixel at (x, y). For 3-channel buffers the returned alpha
// is 255.
func (b *Buffer) At(x, y int) Pixel {
	i := b.PixOffset(x, y)
	p := Pixel{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2], A: 255}
	if b.Channels == 4 {
		p.A = b.Pix[i+3]
	}
	return p
}

// Set writes the pixel at (x, y). The alpha component is stored only when
// the buffer has 4 channels.
func (b *Buffer) Set(x, y int, p Pixel) {
	i := b.PixOffset(x, y)
	b.Pix[i] = p.R
	b.Pix[i+1] = p.G
	b.Pix[i+2] = p.B
	if b.Channels == 4 {
		b.Pix[i+3] = p.A
	}
}
