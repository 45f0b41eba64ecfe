package util

import (
	"fmt"
	"math"
	"strconv"
)

///////////////////////////////////////////////////////////////////////////////
/// POINT
///////////////////////////////////////////////////////////////////////////////

// Point represents a 2D point with X and Y coordinates
type Point struct {
	X, Y float64
}

func NewPoint(x float64, y float64) Point {
	return Point{X: x, Y: y}
}

// Distance returns the euclidean distance between p and q
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Radius returns the distance of p from the origin
func (p Point) Radius() float64 {
	return math.Hypot(p.X, p.Y)
}

// MaxRadius returns the largest distance of any point from the origin
func MaxRadius(points []Point) float64 {
	max := 0.0
	for _, p := range points {
		if r := p.Radius(); r > max {
			max = r
		}
	}
	return max
}

///////////////////////////////////////////////////////////////////////////////
/// PATH
///////////////////////////////////////////////////////////////////////////////

// coordinate precision used when writing path data
const pathPrecision = 4

/**
* Represents the information contained in a single SVG '<path>' tag
* built from an ordered polyline
 */
type Path struct {
	ID          string
	Points      []Point
	CommandsStr string
	Style       string
	IsClosed    bool
}

// NewPathFromPoints builds an open polyline: a move to the first point
// followed by a line to each subsequent point
func NewPathFromPoints(points []Point, id string) (*Path, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("must supply an array of Points to this constructor")
	}
	if id == "" {
		id = "pathFromPoints"
	}

	// ~2 coords of ~10 bytes each per point
	buf := make([]byte, 0, len(points)*24)
	buf = append(buf, "M "...)
	buf = appendCoord(buf, points[0])
	for i := 1; i < len(points); i++ {
		buf = append(buf, " L "...)
		buf = appendCoord(buf, points[i])
	}

	return &Path{
		ID:          id,
		Points:      points,
		CommandsStr: string(buf),
		IsClosed:    false,
	}, nil
}

func appendCoord(buf []byte, p Point) []byte {
	buf = strconv.AppendFloat(buf, p.X, 'f', pathPrecision, 64)
	buf = append(buf, ',')
	return strconv.AppendFloat(buf, p.Y, 'f', pathPrecision, 64)
}

// Close marks the path as closed so a trailing Z is emitted
func (p *Path) Close() {
	if !p.IsClosed {
		p.CommandsStr += " Z"
		p.IsClosed = true
	}
}

///////////////////////////////////////////////////////////////////////////////
/// PATHS
///////////////////////////////////////////////////////////////////////////////

// Holds information about paths, which is an array of Path structures
type Paths struct {
	Paths []*Path
}

func NewPaths(paths []*Path) *Paths {
	if paths == nil {
		paths = []*Path{}
	}
	return &Paths{Paths: paths}
}

func (p *Paths) NumPaths() int {
	return len(p.Paths)
}

func (p *Paths) AddPath(path *Path) {
	p.Paths = append(p.Paths, path)
}
