package images

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"

	"github.com/chai2010/webp"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
)

// ErrUnsupportedColorModel is returned when a file decodes to a color model
// outside 24-bit RGB / 32-bit RGBA (grayscale, paletted, 16-bit and CMYK
// images are out of scope).
var ErrUnsupportedColorModel = errors.New("unsupported color model: want 24-bit RGB or 32-bit RGBA")

// DecodeError wraps any failure to parse an image file into a Buffer.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError wraps any failure to write a Buffer out as an image file.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// Decode reads an image file into a Buffer. The format is selected by the
// file extension.
//
// Arguments:
// - path: Path to a .jpg/.jpeg/.png/.bmp/.webp file.
//
// Returns:
// - *Buffer: The decoded pixel buffer.
// - error: ErrUnsupportedFormat, ErrUnsupportedColorModel, or a *DecodeError
//   wrapping the parser failure.
func Decode(path string) (*Buffer, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	var img image.Image
	switch format {
	case FormatJPEG:
		img, err = jpeg.Decode(f)
	case FormatPNG:
		img, err = png.Decode(f)
	case FormatBMP:
		img, err = bmp.Decode(f)
	case FormatWebP:
		img, err = webp.Decode(f)
	}
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	buf, err := FromImage(img)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return buf, nil
}

// FromImage converts a decoded image.Image into a Buffer.
//
// The channel count follows the decoded color model: JPEG luma/chroma and
// opaque RGBA-typed images (24-bit BMP, truecolor PNG) become 3-channel
// buffers; NRGBA images and RGBA images with any translucent pixel become
// 4-channel buffers with meaningful alpha. Every other color model is
// rejected with ErrUnsupportedColorModel.
func FromImage(img image.Image) (*Buffer, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	switch m := img.(type) {
	case *image.YCbCr:
		buf := NewBuffer(width, height, 3)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				r, g, b, _ := m.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				i := buf.PixOffset(x, y)
				buf.Pix[i] = uint8(r >> 8)
				buf.Pix[i+1] = uint8(g >> 8)
				buf.Pix[i+2] = uint8(b >> 8)
			}
		}
		return buf, nil

	case *image.NRGBA:
		buf := NewBuffer(width, height, 4)
		for y := 0; y < height; y++ {
			row := m.Pix[m.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			copy(buf.Pix[y*width*4:(y+1)*width*4], row[:width*4])
		}
		return buf, nil

	case *image.RGBA:
		if m.Opaque() {
			buf := NewBuffer(width, height, 3)
			for y := 0; y < height; y++ {
				for x := 0; x < width; x++ {
					src := m.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
					i := buf.PixOffset(x, y)
					buf.Pix[i] = m.Pix[src]
					buf.Pix[i+1] = m.Pix[src+1]
					buf.Pix[i+2] = m.Pix[src+2]
				}
			}
			return buf, nil
		}
		// Translucent RGBA is premultiplied; un-premultiply per pixel so the
		// stored channel values match the source colors.
		buf := NewBuffer(width, height, 4)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				c := m.RGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
				n := nrgbaFromPremultiplied(c.R, c.G, c.B, c.A)
				buf.Set(x, y, n)
			}
		}
		return buf, nil

	default:
		return nil, errors.Wrapf(ErrUnsupportedColorModel, "%T", img)
	}
}

// nrgbaFromPremultiplied reverses alpha premultiplication for one pixel.
func nrgbaFromPremultiplied(r, g, b, a uint8) Pixel {
	if a == 0 {
		return Pixel{A: 0}
	}
	if a == 255 {
		return Pixel{R: r, G: g, B: b, A: 255}
	}
	return Pixel{
		R: uint8((uint32(r)*255 + uint32(a)/2) / uint32(a)),
		G: uint8((uint32(g)*255 + uint32(a)/2) / uint32(a)),
		B: uint8((uint32(b)*255 + uint32(a)/2) / uint32(a)),
		A: a,
	}
}

// ToImage converts a Buffer back into an image.Image suitable for the
// encoders and for resampling. 3-channel buffers become opaque *image.RGBA,
// 4-channel buffers become *image.NRGBA.
func ToImage(b *Buffer) image.Image {
	if b.Channels == 4 {
		img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
		for y := 0; y < b.Height; y++ {
			copy(img.Pix[y*img.Stride:y*img.Stride+b.Width*4], b.Pix[y*b.Width*4:(y+1)*b.Width*4])
		}
		return img
	}

	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			src := b.PixOffset(x, y)
			dst := img.PixOffset(x, y)
			img.Pix[dst] = b.Pix[src]
			img.Pix[dst+1] = b.Pix[src+1]
			img.Pix[dst+2] = b.Pix[src+2]
			img.Pix[dst+3] = 255
		}
	}
	return img
}

// Encode writes a Buffer to a file in the format implied by the path's
// extension.
//
// Arguments:
// - path: Output path; the extension selects the encoder.
// - b: Buffer to write.
// - quality: JPEG/WebP quality in [1,100]; ignored by PNG and BMP.
//
// Returns:
// - error: ErrUnsupportedFormat or an *EncodeError wrapping the failure.
func Encode(path string, b *Buffer, quality int) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if quality < 1 {
		quality = 1
	} else if quality > 100 {
		quality = 100
	}

	f, err := os.Create(path)
	if err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	defer f.Close()

	img := ToImage(b)
	switch format {
	case FormatJPEG:
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: quality})
	case FormatPNG:
		err = png.Encode(f, img)
	case FormatBMP:
		err = bmp.Encode(f, img)
	case FormatWebP:
		err = webp.Encode(f, img, &webp.Options{Quality: float32(quality)})
	}
	if err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	return nil
}
