package util

import (
	"bytes"
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
)

///////////////////////////////////////////////////////////////////////////////
/// SVG
///////////////////////////////////////////////////////////////////////////////

// An object for building and writing SVG documents made only of paths.
// The view box is square and centred on the origin so the drawing keeps an
// equal aspect ratio regardless of the pixel size.
type SVG struct {
	Name          string
	Title         string
	Width, Height int
	Extent        int    // half side of the view box in user units
	Background    string // optional fill for the whole view box
	FlipY         bool   // draw with positive y pointing up
	Paths         *Paths
}

func NewBlankSVG(width, height int) (*SVG, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("width and height must be positive, got %dx%d", width, height)
	}
	return &SVG{
		Name:   "blank",
		Width:  width,
		Height: height,
		Extent: 1,
		FlipY:  true,
		Paths:  NewPaths(nil),
	}, nil
}

// FitExtent sizes the view box so a circle of the given radius, plus a
// fractional margin, is fully visible
func (s *SVG) FitExtent(radius, margin float64) {
	e := int(math.Ceil(radius * (1 + margin)))
	if e < 1 {
		e = 1
	}
	s.Extent = e
}

// WriteTo renders the document
func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	canvas := svg.New(&buf)

	e := s.Extent
	canvas.Startview(s.Width, s.Height, -e, -e, 2*e, 2*e)
	if s.Title != "" {
		canvas.Title(s.Title)
	}
	if s.Background != "" {
		canvas.Rect(-e, -e, 2*e, 2*e, "fill:"+s.Background)
	}
	if s.FlipY {
		canvas.Gtransform("scale(1,-1)")
	}
	for _, p := range s.Paths.Paths {
		if p.Style != "" {
			canvas.Path(p.CommandsStr, fmt.Sprintf(`id="%s"`, p.ID), p.Style)
		} else {
			canvas.Path(p.CommandsStr, fmt.Sprintf(`id="%s"`, p.ID))
		}
	}
	if s.FlipY {
		canvas.Gend()
	}
	canvas.End()

	return buf.WriteTo(w)
}

// String renders the document to a string
func (s *SVG) String() string {
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return ""
	}
	return buf.String()
}
