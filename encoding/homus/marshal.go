package homus

import (
	"bytes"
	"errors"
	"strconv"
)

// MarshalText implements encoding.TextMarshaler for
// transforming a Symbol into a record
func (s *Symbol) MarshalText() ([]byte, error) {
	if s.Label == "" {
		return nil, errors.New("homus: symbol has no label")
	}

	w := new(writer)
	w.writeLabel(s.Label)
	for _, stroke := range s.Strokes {
		w.writeStroke(stroke)
	}
	return w.Bytes(), nil
}

type writer struct {
	b bytes.Buffer
}

func (w *writer) Bytes() []byte {
	return w.b.Bytes()
}

func (w *writer) writeLabel(label string) {
	w.b.WriteString(label)
	w.b.WriteByte('\n')
}

func (w *writer) writeStroke(stroke Stroke) {
	for _, p := range stroke {
		w.b.WriteString(strconv.Itoa(p.X))
		w.b.WriteByte(',')
		w.b.WriteString(strconv.Itoa(p.Y))
		w.b.WriteByte(';')
	}
	w.b.WriteByte('\n')
}
