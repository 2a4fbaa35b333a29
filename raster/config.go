package raster

import (
	"fmt"
	"strings"
)

// Format selects the image encoder.
type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// Config controls how a symbol becomes a pixel image.
type Config struct {
	// StrokeThicknesses yields one image per value.
	StrokeThicknesses []int `yaml:"stroke_thicknesses"`
	CanvasWidth       int   `yaml:"canvas_width"`
	CanvasHeight      int   `yaml:"canvas_height"`
	// StaffLineSpacing is the gap between the five lines of a staff.
	StaffLineSpacing int `yaml:"staff_line_spacing"`
	// StaffLineVerticalOffsets places the top line of a staff. Each offset
	// yields its own image; nil draws no staff lines.
	StaffLineVerticalOffsets []int `yaml:"staff_line_vertical_offsets"`

	Format Format `yaml:"format"`
	// Workers bounds the number of records rendered concurrently.
	Workers int `yaml:"workers"`
	// Supersample renders at this multiple of the canvas size and scales
	// the result down.
	Supersample int `yaml:"supersample"`
	// RandomPosition places the symbol at a pseudo-random spot derived
	// from Seed and the record ID instead of the canvas centre.
	RandomPosition bool  `yaml:"random_position"`
	Seed           int64 `yaml:"seed"`
	// BoundingBoxes writes bounding_boxes.json next to the label dirs.
	BoundingBoxes bool `yaml:"bounding_boxes"`
}

const maxSupersample = 16

// DefaultConfig matches the settings the HOMUS images are usually
// generated with.
func DefaultConfig() Config {
	return Config{
		StrokeThicknesses: []int{3},
		CanvasWidth:       96,
		CanvasHeight:      192,
		StaffLineSpacing:  14,
		Format:            PNG,
		Workers:           1,
		Supersample:       1,
	}
}

func (c Config) Validate() error {
	if len(c.StrokeThicknesses) == 0 {
		return fmt.Errorf("at least one stroke thickness is required")
	}
	for _, t := range c.StrokeThicknesses {
		if t <= 0 {
			return fmt.Errorf("stroke thickness must be positive, got %d", t)
		}
	}
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		return fmt.Errorf("canvas size must be positive, got %dx%d", c.CanvasWidth, c.CanvasHeight)
	}
	if c.StaffLineSpacing <= 0 {
		return fmt.Errorf("staff line spacing must be positive, got %d", c.StaffLineSpacing)
	}
	if _, err := c.Format.ext(); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Supersample < 1 || c.Supersample > maxSupersample {
		return fmt.Errorf("supersample must be between 1 and %d, got %d", maxSupersample, c.Supersample)
	}
	return nil
}

func (f Format) ext() (string, error) {
	switch Format(strings.ToLower(string(f))) {
	case PNG, "":
		return "png", nil
	case BMP:
		return "bmp", nil
	case TIFF, "tif":
		return "tiff", nil
	}
	return "", fmt.Errorf("unsupported image format %q", string(f))
}

// Variant is one rendering of a record.
type Variant struct {
	Thickness int
	// Staff is set when StaffOffset applies.
	Staff       bool
	StaffOffset int
}

// Variants expands the configuration into the images produced per record.
func (c Config) Variants() []Variant {
	var vs []Variant
	for _, t := range c.StrokeThicknesses {
		if len(c.StaffLineVerticalOffsets) == 0 {
			vs = append(vs, Variant{Thickness: t})
			continue
		}
		for _, o := range c.StaffLineVerticalOffsets {
			vs = append(vs, Variant{Thickness: t, Staff: true, StaffOffset: o})
		}
	}
	return vs
}
