// Package homus reads and writes the text record format of the
// Handwritten Online Musical Symbols dataset.
//
// A record holds the symbol class on its first line, followed by one
// stroke per line. A stroke is a list of "x,y" points separated by ';'.
//
//	Quarter-Note
//	55,71;55,72;56,74;
//	54,40;54,41;
package homus

import "image"

// Point is a pen position in dataset coordinates.
type Point struct {
	X int
	Y int
}

// Stroke is one pen-down trace.
type Stroke []Point

// Symbol is a single labeled handwritten sample.
type Symbol struct {
	Label   string
	Strokes []Stroke
}

// New returns an empty symbol ready to be unmarshaled.
func New() *Symbol {
	return &Symbol{}
}

// Bounds returns the inclusive bounding box of all points, as a half open
// rectangle: a symbol whose points span x=3..7 has Dx() == 5.
func (s *Symbol) Bounds() image.Rectangle {
	first := true
	var r image.Rectangle
	for _, stroke := range s.Strokes {
		for _, p := range stroke {
			if first {
				r = image.Rect(p.X, p.Y, p.X+1, p.Y+1)
				first = false
				continue
			}
			if p.X < r.Min.X {
				r.Min.X = p.X
			}
			if p.Y < r.Min.Y {
				r.Min.Y = p.Y
			}
			if p.X+1 > r.Max.X {
				r.Max.X = p.X + 1
			}
			if p.Y+1 > r.Max.Y {
				r.Max.Y = p.Y + 1
			}
		}
	}
	return r
}

// NumPoints counts the points over all strokes.
func (s *Symbol) NumPoints() int {
	n := 0
	for _, stroke := range s.Strokes {
		n += len(stroke)
	}
	return n
}
