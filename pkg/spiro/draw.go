package spiro

import (
	"fmt"

	"github.com/richard-senior/spiro/pkg/util"
)

// DrawOptions controls the SVG a frame is rendered to
type DrawOptions struct {
	Width, Height int
	Margin        float64 // fraction of the curve radius left free around it
	Background    string  // empty for transparent
	Title         string
}

// StrokeStyle is the CSS for the curve: colour and width from the params,
// no fill, and a width that does not scale with the view box
func StrokeStyle(p Params) string {
	return fmt.Sprintf("fill:none;stroke:%s;stroke-opacity:%.3f;stroke-width:%.2f;stroke-linejoin:round;vector-effect:non-scaling-stroke",
		p.Color.Hex(), p.Color.Opacity(), p.Width)
}

// Drawing turns a frame into a single polyline centred on the origin with
// equal aspect, no axes and no grid
func (f Frame) Drawing(opts DrawOptions) (*util.SVG, error) {
	doc, err := util.NewBlankSVG(opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}
	doc.Name = "spiro"
	doc.Title = opts.Title
	doc.Background = opts.Background

	if len(f.Points) == 0 {
		return doc, nil
	}
	doc.FitExtent(util.MaxRadius(f.Points), opts.Margin)

	path, err := util.NewPathFromPoints(f.Points, "curve")
	if err != nil {
		return nil, err
	}
	// the last sample sits one step short of t = 2π·a where the curve meets its start
	path.Close()
	path.Style = StrokeStyle(f.Params)
	doc.Paths.AddPath(path)
	return doc, nil
}
