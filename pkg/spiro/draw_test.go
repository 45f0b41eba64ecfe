package spiro

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameDrawing(t *testing.T) {
	p := Params{A: 1, B: 1, C: 0, Color: Color{0, 128, 255, 255}, Width: 2.5, ParamMax: 20}
	f := Frame{Params: p, Points: Sample(1, 1, 0)}

	doc, err := f.Drawing(DrawOptions{Width: 300, Height: 300, Margin: 0.4, Title: "Spiro"})
	require.NoError(t, err)
	require.Equal(t, 1, doc.Paths.NumPaths())
	// radius 2 plus 40%, rounded up
	assert.Equal(t, 3, doc.Extent)

	out := doc.String()
	assert.Contains(t, out, `viewBox="-3 -3 6 6"`)
	assert.Contains(t, out, "stroke:#0080ff")
	assert.Contains(t, out, "stroke-width:2.50")
	assert.Contains(t, out, "fill:none")
	assert.Contains(t, out, `d="M 2.0000,0.0000 L `)
	assert.Contains(t, out, " Z\"")
	assert.Equal(t, 1, strings.Count(out, "<path"))
}

func TestFrameDrawingEmpty(t *testing.T) {
	doc, err := Frame{Params: Default()}.Drawing(DrawOptions{Width: 10, Height: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Paths.NumPaths())

	_, err = Frame{}.Drawing(DrawOptions{})
	assert.Error(t, err)
}

func TestStrokeStyleOpacity(t *testing.T) {
	p := Default()
	p.SetColor(Color{255, 255, 255, 51})
	assert.Contains(t, StrokeStyle(p), "stroke-opacity:0.200")
}
