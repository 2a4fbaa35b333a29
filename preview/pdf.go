// Package preview draws a single record as vector graphics for
// inspection, independent of the raster settings.
package preview

import (
	"github.com/unidoc/unipdf/v3/contentstream"
	"github.com/unidoc/unipdf/v3/contentstream/draw"
	"github.com/unidoc/unipdf/v3/creator"

	"github.com/juruen/homus/encoding/homus"
	"github.com/juruen/homus/log"
	"github.com/juruen/homus/raster"
)

const (
	defaultLineWidth = 3.0
	defaultMargin    = 16.0
	// dotLength matches the segment the raster renderer uses for dots.
	dotLength = 0.25
)

type PdfGenerator struct {
	recordPath     string
	outputFilePath string
	options        PdfGeneratorOptions
}

type PdfGeneratorOptions struct {
	// LineWidth in points, one point per dataset unit.
	LineWidth float64
	Margin    float64
	AddLabel  bool
}

func CreatePdfGenerator(recordPath, outputFilePath string, options PdfGeneratorOptions) *PdfGenerator {
	if options.LineWidth <= 0 {
		options.LineWidth = defaultLineWidth
	}
	if options.Margin <= 0 {
		options.Margin = defaultMargin
	}
	return &PdfGenerator{recordPath: recordPath, outputFilePath: outputFilePath, options: options}
}

func (p *PdfGenerator) Generate() error {
	s, err := raster.LoadRecord(p.recordPath)
	if err != nil {
		return err
	}

	c, err := p.build(s)
	if err != nil {
		return err
	}
	return c.WriteToFile(p.outputFilePath)
}

func (p *PdfGenerator) build(s *homus.Symbol) (*creator.Creator, error) {
	b := s.Bounds()
	margin := p.options.Margin

	c := creator.New()
	c.SetPageSize(creator.PageSize{float64(b.Dx()) + 2*margin, float64(b.Dy()) + 2*margin})
	page := c.NewPage()

	// pdf y grows upwards
	toPage := func(pt homus.Point) draw.Point {
		return draw.NewPoint(float64(pt.X-b.Min.X)+margin, c.Height()-(float64(pt.Y-b.Min.Y)+margin))
	}

	contentCreator := contentstream.NewContentCreator()
	for _, path := range strokePaths(s, toPage) {
		contentCreator.Add_q()
		contentCreator.Add_w(p.options.LineWidth)
		contentCreator.Add_J("1")
		contentCreator.Add_j("1")
		contentCreator.Add_RG(0.0, 0.0, 0.0)

		draw.DrawPathWithCreator(path, contentCreator)

		contentCreator.Add_S()
		contentCreator.Add_Q()
	}

	ops := contentCreator.Operations()
	if err := page.AppendContentStream(string(ops.Bytes())); err != nil {
		return nil, err
	}

	if p.options.AddLabel {
		para := c.NewParagraph(s.Label)
		para.SetFontSize(8)
		para.SetPos(4, 4)
		if err := c.Draw(para); err != nil {
			return nil, err
		}
	}

	log.Trace.Printf("preview of %s: %d strokes on %.0fx%.0f", p.recordPath, len(s.Strokes), c.Width(), c.Height())
	return c, nil
}

// strokePaths turns every stroke into a page path. A single point becomes
// a short segment so the round cap draws it as a dot.
func strokePaths(s *homus.Symbol, toPage func(homus.Point) draw.Point) []draw.Path {
	paths := make([]draw.Path, 0, len(s.Strokes))
	for _, stroke := range s.Strokes {
		path := draw.NewPath()
		for _, pt := range stroke {
			path = path.AppendPoint(toPage(pt))
		}
		if len(stroke) == 1 {
			path = path.AppendPoint(toPage(stroke[0]).Add(dotLength, 0))
		}
		paths = append(paths, path)
	}
	return paths
}
