package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/juruen/homus/preview"
	"github.com/juruen/homus/raster"
)

func main() {
	inputName := flag.String("i", "", "record to convert")
	outputName := flag.String("o", "", "output filename")
	extract := flag.String("e", "", "output kind, p - pdf, i - image")
	thickness := flag.Int("t", 3, "stroke thickness for images")
	label := flag.Bool("l", false, "add the label to the pdf")
	flag.Parse()
	var err error

	switch *extract {
	case "i":
		err = renderImage(*inputName, *outputName, *thickness)
	case "":
		fallthrough
	case "p":
		err = pdf(*inputName, *outputName, *label)
	default:
		err = fmt.Errorf("unknown output kind %q", *extract)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func outputFor(inputName, outputName, ext string) string {
	if outputName != "" {
		return outputName
	}
	return strings.TrimSuffix(inputName, filepath.Ext(inputName)) + ext
}

func pdf(inputName, outputName string, label bool) error {
	if inputName == "" {
		return errors.New("missing input file")
	}
	gen := preview.CreatePdfGenerator(inputName, outputFor(inputName, outputName, ".pdf"), preview.PdfGeneratorOptions{
		AddLabel: label,
	})
	return gen.Generate()
}

func renderImage(inputName, outputName string, thickness int) error {
	if inputName == "" {
		return errors.New("missing input file")
	}

	s, err := raster.LoadRecord(inputName)
	if err != nil {
		return err
	}

	cfg := raster.DefaultConfig()
	cfg.StrokeThicknesses = []int{thickness}
	if err := cfg.Validate(); err != nil {
		return err
	}

	id := raster.RecordID(filepath.Base(inputName))
	img := raster.Render(s, cfg, raster.Variant{Thickness: thickness}, raster.Place(s, cfg, id))

	out, err := os.Create(outputFor(inputName, outputName, ".png"))
	if err != nil {
		return fmt.Errorf("can't create outputfile %w", err)
	}
	defer out.Close()

	return raster.Encode(out, img, raster.PNG)
}
