package homus

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// MaxCoordinate bounds the absolute value of a point coordinate. Pen
// tablets report a few thousand units at most.
const MaxCoordinate = 1 << 16

// SyntaxError describes a record that does not follow the format.
// Line is 1-based; 0 means the record as a whole.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return "homus: " + e.Msg
	}
	return fmt.Sprintf("homus: line %d: %s", e.Line, e.Msg)
}

// UnmarshalText implements encoding.TextUnmarshaler for
// transforming a record into a Symbol
func (s *Symbol) UnmarshalText(data []byte) error {
	r := newReader(data)

	label, err := r.readLabel()
	if err != nil {
		return err
	}

	var strokes []Stroke
	for r.next() {
		stroke, err := r.readStroke()
		if err != nil {
			return err
		}
		if len(stroke) == 0 {
			continue
		}
		strokes = append(strokes, stroke)
	}
	if err := r.err(); err != nil {
		return &SyntaxError{Line: r.line, Msg: err.Error()}
	}

	if len(strokes) == 0 {
		return &SyntaxError{Msg: "record has no strokes"}
	}

	s.Label = label
	s.Strokes = strokes
	return nil
}

// Parse is a shortcut for New followed by UnmarshalText.
func Parse(data []byte) (*Symbol, error) {
	s := New()
	if err := s.UnmarshalText(data); err != nil {
		return nil, err
	}
	return s, nil
}

type reader struct {
	scanner *bufio.Scanner
	line    int
	text    string
}

func newReader(data []byte) *reader {
	sc := bufio.NewScanner(bytes.NewReader(data))
	// long strokes exceed the default token size
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	return &reader{scanner: sc}
}

func (r *reader) next() bool {
	if !r.scanner.Scan() {
		return false
	}
	r.line++
	r.text = strings.TrimSpace(r.scanner.Text())
	return true
}

func (r *reader) err() error {
	return r.scanner.Err()
}

func (r *reader) readLabel() (string, error) {
	if !r.next() {
		if err := r.err(); err != nil {
			return "", &SyntaxError{Line: 1, Msg: err.Error()}
		}
		return "", &SyntaxError{Msg: "empty record"}
	}
	label := strings.TrimPrefix(r.text, "\ufeff")
	if label == "" {
		return "", &SyntaxError{Line: r.line, Msg: "missing symbol label"}
	}
	if strings.ContainsAny(label, ",;") {
		return "", &SyntaxError{Line: r.line, Msg: fmt.Sprintf("label %q looks like stroke data", label)}
	}
	return label, nil
}

func (r *reader) readStroke() (Stroke, error) {
	if r.text == "" {
		return nil, nil
	}

	fields := strings.Split(r.text, ";")
	stroke := make(Stroke, 0, len(fields))
	for _, field := range fields {
		// each line ends with a trailing ';'
		if field == "" {
			continue
		}
		p, err := parsePoint(field)
		if err != nil {
			return nil, &SyntaxError{Line: r.line, Msg: err.Error()}
		}
		stroke = append(stroke, p)
	}
	return stroke, nil
}

func parsePoint(field string) (Point, error) {
	xs, ys, ok := strings.Cut(field, ",")
	if !ok {
		return Point{}, fmt.Errorf("point %q is not x,y", field)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return Point{}, fmt.Errorf("bad x coordinate in %q", field)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return Point{}, fmt.Errorf("bad y coordinate in %q", field)
	}
	if !inRange(x) || !inRange(y) {
		return Point{}, fmt.Errorf("point %q out of range", field)
	}
	return Point{X: x, Y: y}, nil
}

func inRange(n int) bool {
	return n >= -MaxCoordinate && n <= MaxCoordinate
}
