// Package config loads optional pipeline defaults from a YAML file.
package config

import (
	"os"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// DefaultJPEGQuality is used when neither the config file nor a flag sets
// the encoder quality.
const DefaultJPEGQuality = 95

// Defaults holds optional default answers for the interactive session.
// Explicit flags and interactive answers always win over these values.
type Defaults struct {
	// OutputPath is the default output file path.
	OutputPath string `yaml:"output_path"`
	// JPEGQuality is the JPEG/WebP encoder quality in [1,100].
	JPEGQuality int `yaml:"jpeg_quality"`
	// Percent is the default blend percentage, nil if unset.
	Percent *int `yaml:"percent"`
	// Grid is the default placement mode, nil if unset.
	Grid *bool `yaml:"grid"`
}

// Quality returns the configured encoder quality, falling back to
// DefaultJPEGQuality.
func (d Defaults) Quality() int {
	if d.JPEGQuality >= 1 && d.JPEGQuality <= 100 {
		return d.JPEGQuality
	}
	return DefaultJPEGQuality
}

// Load reads defaults from a YAML file. A missing file is not an error:
// the zero Defaults are returned so every value falls back to its prompt.
func Load(path string) (Defaults, error) {
	var d Defaults
	if path == "" {
		return d, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return d, errors.Wrapf(err, "read config %s", path)
	}

	if err := yaml.Unmarshal(data, &d); err != nil {
		return d, errors.Wrapf(err, "parse config %s", path)
	}
	if d.Percent != nil && (*d.Percent < 0 || *d.Percent > 100) {
		return Defaults{}, errors.Errorf("config percent %d outside [0, 100]", *d.Percent)
	}
	return d, nil
}
