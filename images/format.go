package images

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Format represents supported image file formats.
type Format string

const (
	// FormatJPEG is the JPEG image format.
	FormatJPEG Format = "jpeg"
	// FormatPNG is the PNG image format.
	FormatPNG Format = "png"
	// FormatBMP is the BMP image format.
	FormatBMP Format = "bmp"
	// FormatWebP is the WebP image format.
	FormatWebP Format = "webp"
)

// ErrUnsupportedFormat is returned when a file extension maps to no known
// image format.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// SupportedExtensions lists the file extensions the codecs accept, in the
// form filepath.Ext returns them.
func SupportedExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".bmp", ".webp"}
}

// FormatFromPath derives the image format from a file path's extension.
//
// Arguments:
// - path: File path whose extension selects the format.
//
// Returns:
// - Format: The matching format.
// - error: ErrUnsupportedFormat if the extension is not recognized.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".png":
		return FormatPNG, nil
	case ".bmp":
		return FormatBMP, nil
	case ".webp":
		return FormatWebP, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedFormat, "extension %q (supported: %v)", ext, SupportedExtensions())
	}
}
