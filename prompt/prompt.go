// Package prompt gathers and validates the blend pipeline's inputs. Every
// answer goes through a pure parse function returning a typed result; the
// interactive session re-prompts on invalid input instead of terminating,
// while values preset on the command line are validated exactly once.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"

	"github.com/egor7orlov/watermark/blend"
	"github.com/egor7orlov/watermark/config"
	"github.com/egor7orlov/watermark/images"
	"github.com/egor7orlov/watermark/util"
)

// Preset carries values already supplied on the command line. A set value
// skips its prompt; if it fails validation the whole run fails rather than
// falling back to a prompt.
type Preset struct {
	// BasePath is the base image path.
	BasePath string
	// WatermarkPath is the watermark image path.
	WatermarkPath string
	// OutputPath is the output image path.
	OutputPath string
	// Percent is the blend percentage, nil if not supplied.
	Percent *int
	// Grid selects tiled placement, nil if not supplied.
	Grid *bool
	// OffsetX is the single-placement x offset, nil if not supplied.
	OffsetX *int
	// OffsetY is the single-placement y offset, nil if not supplied.
	OffsetY *int
	// UseAlpha selects alpha-channel transparency, nil if not supplied.
	UseAlpha *bool
	// ColorKey is a flat key color as "R,G,B", empty if not supplied.
	ColorKey string
	// Scale is the watermark pre-scale percentage, nil if not supplied.
	// The scale prompt only fires when the watermark path itself was
	// prompted; with WatermarkPath preset, a nil Scale means 100.
	Scale *int
}

// Inputs is everything the blend pipeline needs, fully validated: decoded
// buffers, policies built through their constructors, and the output path.
type Inputs struct {
	Base         *images.Buffer
	Watermark    *images.Buffer
	Placement    blend.Placement
	Transparency blend.Transparency
	Percent      blend.Percent
	OutputPath   string
}

// Session runs the interactive dialogue over an arbitrary reader/writer
// pair, which keeps it scriptable in tests.
type Session struct {
	in  *bufio.Reader
	out io.Writer
}

// NewSession wraps the given streams in a Session.
func NewSession(in io.Reader, out io.Writer) *Session {
	return &Session{in: bufio.NewReader(in), out: out}
}

// Gather collects, validates and decodes all pipeline inputs.
//
// Arguments:
// - preset: Command-line values that skip their prompts.
// - defaults: Optional config-file defaults, offered when a prompt is left
//   empty.
//
// Returns:
// - *Inputs: The validated pipeline inputs.
// - error: The first fatal failure (decode error, preset conflict, closed
//   input stream).
func (s *Session) Gather(preset Preset, defaults config.Defaults) (*Inputs, error) {
	basePath, err := s.imagePath(preset.BasePath, "Base image path: ")
	if err != nil {
		return nil, err
	}
	base, err := images.Decode(basePath)
	if err != nil {
		return nil, err
	}

	wmPath, err := s.imagePath(preset.WatermarkPath, "Watermark image path: ")
	if err != nil {
		return nil, err
	}
	wm, err := images.Decode(wmPath)
	if err != nil {
		return nil, err
	}

	scale, err := s.scalePercent(preset)
	if err != nil {
		return nil, err
	}
	if scale != 100 {
		wm, err = scaleBuffer(wm, scale)
		if err != nil {
			return nil, err
		}
	}

	transparency, err := s.transparency(preset, wm)
	if err != nil {
		return nil, err
	}

	pct, err := s.percent(preset.Percent, defaults.Percent)
	if err != nil {
		return nil, err
	}

	placement, err := s.placement(preset, defaults.Grid, base, wm)
	if err != nil {
		return nil, err
	}

	outputPath, err := s.outputPath(preset.OutputPath, defaults.OutputPath)
	if err != nil {
		return nil, err
	}

	return &Inputs{
		Base:         base,
		Watermark:    wm,
		Placement:    placement,
		Transparency: transparency,
		Percent:      pct,
		OutputPath:   outputPath,
	}, nil
}

// ask prints the question and reads one trimmed answer line.
func (s *Session) ask(question string) (string, error) {
	fmt.Fprint(s.out, question)
	line, err := s.in.ReadString('\n')
	if err != nil && line == "" {
		return "", errors.Wrap(err, "read input")
	}
	return strings.TrimSpace(line), nil
}

// askUntil re-prompts until parse accepts the answer or the stream ends.
func (s *Session) askUntil(question string, parse func(string) error) error {
	for {
		line, err := s.ask(question)
		if err != nil {
			return err
		}
		if err := parse(line); err != nil {
			fmt.Fprintf(s.out, "invalid input: %v\n", err)
			continue
		}
		return nil
	}
}

func (s *Session) imagePath(preset, question string) (string, error) {
	if preset != "" {
		if err := util.ValidateFile(preset, images.SupportedExtensions()); err != nil {
			return "", err
		}
		return preset, nil
	}

	var path string
	err := s.askUntil(question, func(line string) error {
		if err := util.ValidateFile(line, images.SupportedExtensions()); err != nil {
			return err
		}
		path = line
		return nil
	})
	return path, err
}

func (s *Session) scalePercent(preset Preset) (int, error) {
	if preset.Scale != nil {
		return validateScale(*preset.Scale)
	}

	// The pre-scale question belongs to the interactive watermark dialogue.
	// A watermark supplied up front is scaled only through its own preset
	// value, so runs driven entirely by flags never block on this prompt.
	if preset.WatermarkPath != "" {
		return 100, nil
	}

	scale := 100
	err := s.askUntil("Watermark scale percent [1-400, enter for 100]: ", func(line string) error {
		v, err := ParseScale(line)
		if err != nil {
			return err
		}
		scale = v
		return nil
	})
	return scale, err
}

func (s *Session) transparency(preset Preset, wm *images.Buffer) (blend.Transparency, error) {
	if wm.HasAlpha() {
		if preset.ColorKey != "" {
			return blend.Transparency{}, errors.New("a flat key color requires a watermark without an alpha channel")
		}
		useAlpha := false
		if preset.UseAlpha != nil {
			useAlpha = *preset.UseAlpha
		} else {
			err := s.askUntil("Watermark has an alpha channel. Treat fully transparent pixels as invisible? [y/n]: ", func(line string) error {
				v, err := ParseYesNo(line)
				if err != nil {
					return err
				}
				useAlpha = v
				return nil
			})
			if err != nil {
				return blend.Transparency{}, err
			}
		}
		if useAlpha {
			return blend.WatermarkAlpha(), nil
		}
		return blend.NoTransparency(), nil
	}

	if preset.UseAlpha != nil && *preset.UseAlpha {
		return blend.Transparency{}, errors.New("watermark has no alpha channel")
	}
	if preset.ColorKey != "" {
		key, err := ParseColorKey(preset.ColorKey)
		if err != nil {
			return blend.Transparency{}, err
		}
		return blend.ColorKey(key), nil
	}

	useKey := false
	err := s.askUntil("Treat one flat color in the watermark as transparent? [y/n]: ", func(line string) error {
		v, err := ParseYesNo(line)
		if err != nil {
			return err
		}
		useKey = v
		return nil
	})
	if err != nil {
		return blend.Transparency{}, err
	}
	if !useKey {
		return blend.NoTransparency(), nil
	}

	var key images.Pixel
	err = s.askUntil("Key color as R,G,B in [0-255]: ", func(line string) error {
		v, err := ParseColorKey(line)
		if err != nil {
			return err
		}
		key = v
		return nil
	})
	if err != nil {
		return blend.Transparency{}, err
	}
	return blend.ColorKey(key), nil
}

func (s *Session) percent(preset, fallback *int) (blend.Percent, error) {
	if preset != nil {
		return blend.NewPercent(*preset)
	}

	question := "Blend percentage [0-100]: "
	if fallback != nil {
		question = fmt.Sprintf("Blend percentage [0-100, enter for %d]: ", *fallback)
	}

	var pct blend.Percent
	err := s.askUntil(question, func(line string) error {
		if line == "" && fallback != nil {
			line = strconv.Itoa(*fallback)
		}
		v, err := ParsePercent(line)
		if err != nil {
			return err
		}
		pct = v
		return nil
	})
	return pct, err
}

func (s *Session) placement(preset Preset, fallbackGrid *bool, base, wm *images.Buffer) (blend.Placement, error) {
	var grid bool
	switch {
	case preset.Grid != nil:
		grid = *preset.Grid
	default:
		question := "Tile the watermark across the whole image? [y/n]: "
		if fallbackGrid != nil {
			question = fmt.Sprintf("Tile the watermark across the whole image? [y/n, enter for %s]: ", yesNo(*fallbackGrid))
		}
		err := s.askUntil(question, func(line string) error {
			if line == "" && fallbackGrid != nil {
				grid = *fallbackGrid
				return nil
			}
			v, err := ParseYesNo(line)
			if err != nil {
				return err
			}
			grid = v
			return nil
		})
		if err != nil {
			return blend.Placement{}, err
		}
	}

	if grid {
		if preset.OffsetX != nil || preset.OffsetY != nil {
			return blend.Placement{}, errors.New("offsets only apply to single placement")
		}
		return blend.Grid(), nil
	}

	// The watermark must fit before any offset is legal at all.
	if wm.Width > base.Width || wm.Height > base.Height {
		return blend.Placement{}, errors.Errorf("watermark %dx%d does not fit base %dx%d",
			wm.Width, wm.Height, base.Width, base.Height)
	}
	maxX := base.Width - wm.Width
	maxY := base.Height - wm.Height

	offsetX, err := s.offset(preset.OffsetX, maxX, fmt.Sprintf("X offset [0-%d]: ", maxX))
	if err != nil {
		return blend.Placement{}, err
	}
	offsetY, err := s.offset(preset.OffsetY, maxY, fmt.Sprintf("Y offset [0-%d]: ", maxY))
	if err != nil {
		return blend.Placement{}, err
	}

	if err := blend.ValidateSingle(base, wm, offsetX, offsetY); err != nil {
		return blend.Placement{}, err
	}
	return blend.Single(offsetX, offsetY), nil
}

func (s *Session) offset(preset *int, max int, question string) (int, error) {
	if preset != nil {
		return ParseIntInRange(strconv.Itoa(*preset), 0, max)
	}

	var v int
	err := s.askUntil(question, func(line string) error {
		parsed, err := ParseIntInRange(line, 0, max)
		if err != nil {
			return err
		}
		v = parsed
		return nil
	})
	return v, err
}

func (s *Session) outputPath(preset, fallback string) (string, error) {
	if preset != "" {
		if err := util.ValidateOutputPath(preset, images.SupportedExtensions()); err != nil {
			return "", err
		}
		return preset, nil
	}

	question := "Output image path: "
	if fallback != "" {
		question = fmt.Sprintf("Output image path [enter for %s]: ", fallback)
	}

	var path string
	err := s.askUntil(question, func(line string) error {
		if line == "" && fallback != "" {
			line = fallback
		}
		if err := util.ValidateOutputPath(line, images.SupportedExtensions()); err != nil {
			return err
		}
		path = line
		return nil
	})
	return path, err
}

func yesNo(v bool) string {
	if v {
		return "y"
	}
	return "n"
}

// scaleBuffer resamples the watermark to scale percent of its original
// dimensions with Lanczos3, keeping its channel layout.
func scaleBuffer(b *images.Buffer, scale int) (*images.Buffer, error) {
	width := b.Width * scale / 100
	height := b.Height * scale / 100
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	resized := resize.Resize(uint(width), uint(height), images.ToImage(b), resize.Lanczos3)
	out, err := images.FromImage(resized)
	if err != nil {
		return nil, errors.Wrap(err, "scale watermark")
	}
	return out, nil
}
