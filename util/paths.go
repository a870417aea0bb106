package util

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ValidateFile checks that a file exists and carries one of the supported
// extensions (compared case-insensitively).
//
// Arguments:
// - path: The file path to validate.
// - supportedExtensions: Acceptable extensions, each with a leading dot.
//
// Returns:
// - error: Describes the first failed check, nil when the path is usable.
func ValidateFile(path string, supportedExtensions []string) error {
	if path == "" {
		return errors.New("empty file path")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return errors.Errorf("file not found: %s", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range supportedExtensions {
		if ext == supported {
			return nil
		}
	}
	return errors.Errorf("unsupported file extension %q (supported: %v)", ext, supportedExtensions)
}

// ValidateOutputPath checks that an output path's extension is supported
// and that its parent directory exists, without requiring the file itself
// to exist yet.
func ValidateOutputPath(path string, supportedExtensions []string) error {
	if path == "" {
		return errors.New("empty output path")
	}

	ext := strings.ToLower(filepath.Ext(path))
	ok := false
	for _, supported := range supportedExtensions {
		if ext == supported {
			ok = true
			break
		}
	}
	if !ok {
		return errors.Errorf("unsupported output extension %q (supported: %v)", ext, supportedExtensions)
	}

	dir := filepath.Dir(path)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return errors.Errorf("output directory not found: %s", dir)
	}
	return nil
}
