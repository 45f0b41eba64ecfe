package spiro

import (
	"math"

	"github.com/richard-senior/spiro/pkg/util"
)

// Step is the nominal angular distance between samples, in radians
const Step = 0.001

// Period is the length of the curve's natural domain [0, 2π·a)
func Period(a uint32) float64 {
	return 2 * math.Pi * float64(a)
}

// SampleCount is the number of points Sample emits for a given a.
// Resolution grows linearly with a and ignores b and c.
func SampleCount(a uint32) int {
	return int(Period(a) / Step)
}

// Sample traces the curve for (a, b, c) over [0, 2π·a) in increasing t:
//
//	k = b·t/a
//	x = (a+b)·cos(k) − c·cos(t+k)
//	y = (a+b)·sin(k) − c·sin(t+k)
//
// The output is deterministic for a given triple. a must be at least 1;
// a = 0 has no domain and yields nil.
func Sample(a, b, c uint32) []util.Point {
	return SampleInto(nil, a, b, c)
}

// SampleInto is Sample reusing dst's backing array when it is large enough
func SampleInto(dst []util.Point, a, b, c uint32) []util.Point {
	if a == 0 {
		return dst[:0]
	}
	n := SampleCount(a)
	if cap(dst) < n {
		dst = make([]util.Point, n)
	}
	dst = dst[:n]

	af, bf, cf := float64(a), float64(b), float64(c)
	ab := af + bf
	ratio := bf / af
	// the domain is half-open so the closing point at t = 2π·a is left out
	dt := Period(a) / float64(n)

	for i := range dst {
		t := float64(i) * dt
		k := ratio * t
		sk, ck := math.Sincos(k)
		stk, ctk := math.Sincos(t + k)
		dst[i] = util.Point{
			X: ab*ck - cf*ctk,
			Y: ab*sk - cf*stk,
		}
	}
	return dst
}

// Extent bounds the distance of any point of the curve from the origin
func Extent(a, b, c uint32) float64 {
	return float64(a) + float64(b) + float64(c)
}

// Sampler memoises the last sequence so repeated frames with unchanged
// shape skip the recompute. Not safe for concurrent use.
type Sampler struct {
	a, b, c uint32
	valid   bool
	points  []util.Point
}

// Points returns the sequence for p's shape. A recompute always allocates,
// so slices handed out earlier are never overwritten; callers must not modify them.
func (s *Sampler) Points(p Params) []util.Point {
	if s.valid && s.a == p.A && s.b == p.B && s.c == p.C {
		return s.points
	}
	s.points = Sample(p.A, p.B, p.C)
	s.a, s.b, s.c = p.A, p.B, p.C
	s.valid = true
	return s.points
}

// Reset drops the cached sequence
func (s *Sampler) Reset() {
	s.valid = false
	s.points = nil
}
