package prompt

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/egor7orlov/watermark/blend"
	"github.com/egor7orlov/watermark/images"
)

// ParseIntInRange parses s as a decimal integer and checks it against
// [min, max] inclusive.
func ParseIntInRange(s string, min, max int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.Errorf("%q is not an integer", s)
	}
	if v < min || v > max {
		return 0, errors.Errorf("%d outside [%d, %d]", v, min, max)
	}
	return v, nil
}

// ParsePercent parses a blend percentage in [0, 100].
func ParsePercent(s string) (blend.Percent, error) {
	v, err := ParseIntInRange(s, 0, 100)
	if err != nil {
		return 0, err
	}
	return blend.NewPercent(v)
}

// ParseScale parses a watermark pre-scale percentage. An empty answer means
// 100, i.e. no scaling.
func ParseScale(s string) (int, error) {
	if strings.TrimSpace(s) == "" {
		return 100, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.Errorf("%q is not an integer", s)
	}
	return validateScale(v)
}

func validateScale(v int) (int, error) {
	if v < 1 || v > 400 {
		return 0, errors.Errorf("scale %d outside [1, 400]", v)
	}
	return v, nil
}

// ParseYesNo parses y/yes/n/no, case-insensitively.
func ParseYesNo(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, errors.Errorf("%q is not y or n", s)
	}
}

// ParseColorKey parses a flat key color given as three comma- or
// space-separated integers in [0, 255].
func ParseColorKey(s string) (images.Pixel, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) != 3 {
		return images.Pixel{}, errors.Errorf("%q is not three R,G,B values", s)
	}

	var channels [3]uint8
	for i, field := range fields {
		v, err := ParseIntInRange(field, 0, 255)
		if err != nil {
			return images.Pixel{}, err
		}
		channels[i] = uint8(v)
	}
	return images.Pixel{R: channels[0], G: channels[1], B: channels[2], A: 255}, nil
}
