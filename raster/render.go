package raster

import (
	"hash/fnv"
	"image"
	"image/color"
	"image/draw"
	"math/rand"

	"github.com/nfnt/resize"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"github.com/juruen/homus/encoding/homus"
)

// dotLength turns a single point stroke into a segment short enough to
// render as a round dot.
const dotLength = 0.25

// Placement is where a symbol lands on the canvas.
type Placement struct {
	// Offset is added to every point after the symbol origin has been
	// moved to (0,0).
	Offset image.Point
	// Box is the symbol bounding box in canvas pixels.
	Box image.Rectangle
}

// Place computes the position of s on the canvas. Unless RandomPosition
// is set the symbol is centred; the random position only depends on the
// seed and recordID.
func Place(s *homus.Symbol, cfg Config, recordID string) Placement {
	b := s.Bounds()
	w, h := b.Dx(), b.Dy()

	var off image.Point
	if cfg.RandomPosition {
		rng := rand.New(rand.NewSource(cfg.Seed ^ int64(recordHash(recordID))))
		off.X = rng.Intn(maxInt(cfg.CanvasWidth-w, 0) + 1)
		off.Y = rng.Intn(maxInt(cfg.CanvasHeight-h, 0) + 1)
	} else {
		off.X = (cfg.CanvasWidth - w) / 2
		off.Y = (cfg.CanvasHeight - h) / 2
	}

	return Placement{
		Offset: off,
		Box:    image.Rect(off.X, off.Y, off.X+w, off.Y+h),
	}
}

func recordHash(id string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(id))
	return h.Sum64()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Render draws s for one variant: white canvas, black strokes of the
// variant thickness and, if requested, a five line staff. Parts of the
// symbol falling outside the canvas are cut off.
func Render(s *homus.Symbol, cfg Config, v Variant, p Placement) *image.Gray {
	k := cfg.Supersample
	if k < 1 {
		k = 1
	}

	// draw on the canvas plus a margin wide enough for a stroke cap, the
	// scanner clips whatever lies further out
	canvas := image.Rect(0, 0, cfg.CanvasWidth, cfg.CanvasHeight)
	area := canvas.Inset(-(v.Thickness + 1))
	shift := area.Min.Mul(-1)

	work := image.NewGray(image.Rect(0, 0, area.Dx()*k, area.Dy()*k))
	draw.Draw(work, work.Bounds(), image.White, image.Point{}, draw.Src)

	if v.Staff {
		for i := 0; i < 5; i++ {
			y := v.StaffOffset + i*cfg.StaffLineSpacing
			hline(work, (y+shift.Y)*k, k)
		}
	}

	drawStrokes(work, s, v.Thickness, p.Offset.Add(shift), k)

	cropped := image.NewGray(image.Rect(0, 0, cfg.CanvasWidth*k, cfg.CanvasHeight*k))
	draw.Draw(cropped, cropped.Bounds(), work, image.Pt(shift.X*k, shift.Y*k), draw.Src)
	work = cropped

	if k == 1 {
		return work
	}
	scaled := resize.Resize(uint(cfg.CanvasWidth), uint(cfg.CanvasHeight), work, resize.Lanczos3)
	if g, ok := scaled.(*image.Gray); ok {
		return g
	}
	out := image.NewGray(canvas)
	draw.Draw(out, out.Bounds(), scaled, scaled.Bounds().Min, draw.Src)
	return out
}

// hline fills rows y..y+n across the full width.
func hline(img *image.Gray, y, n int) {
	b := img.Bounds()
	for row := y; row < y+n; row++ {
		if row < b.Min.Y || row >= b.Max.Y {
			continue
		}
		line := img.Pix[img.PixOffset(b.Min.X, row):img.PixOffset(b.Max.X-1, row)+1]
		for i := range line {
			line[i] = 0
		}
	}
}

func drawStrokes(img *image.Gray, s *homus.Symbol, thickness int, off image.Point, k int) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)

	origin := s.Bounds().Min
	scale := float64(k)
	at := func(p homus.Point) fixed.Point26_6 {
		// pixel centres sit at +0.5
		x := (float64(p.X-origin.X+off.X) + 0.5) * scale
		y := (float64(p.Y-origin.Y+off.Y) + 0.5) * scale
		return fixed.Point26_6{X: toFixed(x), Y: toFixed(y)}
	}

	for _, stroke := range s.Strokes {
		pts := dedupe(stroke)
		if len(pts) == 0 {
			continue
		}

		dasher.Clear()
		dasher.SetWinding(true)
		scanner.SetColor(color.Black)
		dasher.SetStroke(
			toFixed(float64(thickness*k)), toFixed(4), rasterx.RoundCap, rasterx.RoundCap,
			rasterx.RoundGap, rasterx.Round, nil, 0,
		)
		start := at(pts[0])
		dasher.Start(start)
		if len(pts) == 1 {
			dasher.Line(fixed.Point26_6{X: start.X + toFixed(dotLength), Y: start.Y})
		}
		for _, p := range pts[1:] {
			dasher.Line(at(p))
		}
		dasher.Stop(false)
		dasher.Draw()
	}
}

// dedupe drops consecutive repeats, which carry no direction for the
// stroker.
func dedupe(stroke homus.Stroke) homus.Stroke {
	out := make(homus.Stroke, 0, len(stroke))
	for i, p := range stroke {
		if i > 0 && p == stroke[i-1] {
			continue
		}
		out = append(out, p)
	}
	return out
}

func toFixed(f float64) fixed.Int26_6 {
	return fixed.Int26_6(f * 64)
}
