package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/egor7orlov/watermark/blend"
	"github.com/egor7orlov/watermark/config"
	"github.com/egor7orlov/watermark/images"
	"github.com/egor7orlov/watermark/prompt"
)

func main() {
	var (
		configPath    string
		basePath      string
		watermarkPath string
		outputPath    string
		colorKey      string
		percent       int
		offsetX       int
		offsetY       int
		scale         int
		quality       int
		grid          bool
		useAlpha      bool
	)
	flag.StringVar(&configPath, "config", "", "Path to an optional YAML defaults file")
	flag.StringVar(&basePath, "base", "", "Base image path (.jpg, .jpeg, .png, .bmp, .webp)")
	flag.StringVar(&watermarkPath, "watermark", "", "Watermark image path")
	flag.StringVar(&outputPath, "output", "", "Output image path")
	flag.StringVar(&colorKey, "key", "", "Flat transparency key color as R,G,B")
	flag.IntVar(&percent, "percent", 0, "Blend percentage in [0,100]")
	flag.IntVar(&offsetX, "x", 0, "Watermark x offset for single placement")
	flag.IntVar(&offsetY, "y", 0, "Watermark y offset for single placement")
	flag.IntVar(&scale, "scale", 100, "Watermark pre-scale percent in [1,400]")
	flag.IntVar(&quality, "quality", 0, "JPEG/WebP quality in [1,100]")
	flag.BoolVar(&grid, "grid", false, "Tile the watermark across the whole image")
	flag.BoolVar(&useAlpha, "alpha", false, "Treat watermark alpha-0 pixels as transparent")
	flag.Parse()

	defaults, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Only flags the user actually passed skip their prompts.
	preset := prompt.Preset{
		BasePath:      basePath,
		WatermarkPath: watermarkPath,
		OutputPath:    outputPath,
		ColorKey:      colorKey,
	}
	qualitySet := false
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "percent":
			preset.Percent = &percent
		case "grid":
			preset.Grid = &grid
		case "x":
			preset.OffsetX = &offsetX
		case "y":
			preset.OffsetY = &offsetY
		case "alpha":
			preset.UseAlpha = &useAlpha
		case "scale":
			preset.Scale = &scale
		case "quality":
			qualitySet = true
		}
	})

	session := prompt.NewSession(os.Stdin, os.Stdout)
	inputs, err := session.Gather(preset, defaults)
	if err != nil {
		log.Fatalf("Input error: %v", err)
	}

	fmt.Printf("Base image: %dx%d, %d channels\n",
		inputs.Base.Width, inputs.Base.Height, inputs.Base.Channels)
	fmt.Printf("Watermark:  %dx%d, %d channels\n",
		inputs.Watermark.Width, inputs.Watermark.Height, inputs.Watermark.Channels)

	start := time.Now()
	out := blend.Blend(inputs.Base, inputs.Watermark, inputs.Placement, inputs.Transparency, inputs.Percent)

	encodeQuality := defaults.Quality()
	if qualitySet {
		encodeQuality = quality
	}
	if err := images.Encode(inputs.OutputPath, out, encodeQuality); err != nil {
		log.Fatalf("Output error: %v", err)
	}

	fmt.Printf("Wrote %s in %v\n", inputs.OutputPath, time.Since(start))
}
