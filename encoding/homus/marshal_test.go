package homus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalText(t *testing.T) {
	points := make(Stroke, 0)
	for i := 0; i < 20; i++ {
		points = append(points, Point{X: 100, Y: i})
	}

	s := Symbol{
		Label: "Quarter-Note",
		Strokes: []Stroke{
			points,
			{{X: 10, Y: 10}, {X: 40, Y: 80}},
		},
	}

	data, err := s.MarshalText()
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, s.Label, parsed.Label)
	assert.Equal(t, s.Strokes, parsed.Strokes)
}

func TestMarshalTextFormat(t *testing.T) {
	s := Symbol{
		Label:   "Dot",
		Strokes: []Stroke{{{X: 1, Y: 2}, {X: 3, Y: 4}}},
	}

	data, err := s.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Dot\n1,2;3,4;\n", string(data))
}

func TestMarshalTextNoLabel(t *testing.T) {
	s := Symbol{Strokes: []Stroke{{{X: 1, Y: 2}}}}
	_, err := s.MarshalText()
	assert.Error(t, err)
}
