package spiro

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

const (
	// DefaultParamMax is the shared upper bound for a, b and c on a fresh model
	DefaultParamMax uint32 = 20
	// ParamMaxLimit is the largest value param_max itself may be edited to
	ParamMaxLimit uint32 = 50

	DefaultWidth float32 = 1.0
	MinWidth     float32 = 0.5
	MaxWidth     float32 = 5.0
)

// ErrInvalidParams is wrapped by Validate for any out-of-range field
var ErrInvalidParams = errors.New("invalid parameters")

// Params is the full state of one curve: its shape (A, B, C bounded by
// ParamMax) and its presentation (Color, Width).
// Mutate through the setters so every write stays within range.
type Params struct {
	A        uint32  `json:"a"`
	B        uint32  `json:"b"`
	C        uint32  `json:"c"`
	Color    Color   `json:"color"`
	Width    float32 `json:"width"`
	ParamMax uint32  `json:"param_max"`
}

// Default returns the pre-randomize state. A, B and C are zero here, which
// is degenerate, so callers follow it with Randomize.
func Default() Params {
	return Params{
		Color:    LightRed,
		Width:    DefaultWidth,
		ParamMax: DefaultParamMax,
	}
}

// Rand is the randomness Randomize draws from. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Uint32N(n uint32) uint32
}

type globalRand struct{}

func (globalRand) Uint32N(n uint32) uint32 { return rand.Uint32N(n) }

// Randomize reseeds A, B and C from the global source
func (p *Params) Randomize() {
	p.RandomizeWith(globalRand{})
}

// RandomizeWith draws A, B and C independently and uniformly from [1, ParamMax).
// ParamMax itself is never drawn even though the setters accept it.
// With ParamMax <= 1 the range is empty and all three become 1.
func (p *Params) RandomizeWith(r Rand) {
	if p.ParamMax <= 1 {
		p.A, p.B, p.C = 1, 1, 1
		return
	}
	n := p.ParamMax - 1
	p.A = 1 + r.Uint32N(n)
	p.B = 1 + r.Uint32N(n)
	p.C = 1 + r.Uint32N(n)
}

func (p *Params) SetA(v int) { p.A = clampShape(v, p.ParamMax) }
func (p *Params) SetB(v int) { p.B = clampShape(v, p.ParamMax) }
func (p *Params) SetC(v int) { p.C = clampShape(v, p.ParamMax) }

// SetParamMax clamps the bound to [1, ParamMaxLimit] and pulls A, B and C
// back inside it
func (p *Params) SetParamMax(v int) {
	p.ParamMax = uint32(clampInt(v, 1, int(ParamMaxLimit)))
	p.A = clampShape(int(p.A), p.ParamMax)
	p.B = clampShape(int(p.B), p.ParamMax)
	p.C = clampShape(int(p.C), p.ParamMax)
}

// SetWidth clamps the stroke width to [MinWidth, MaxWidth]. NaN resets it.
func (p *Params) SetWidth(v float64) {
	if math.IsNaN(v) {
		p.Width = DefaultWidth
		return
	}
	p.Width = float32(math.Max(float64(MinWidth), math.Min(float64(MaxWidth), v)))
}

func (p *Params) SetColor(c Color) { p.Color = c }

// Clamp brings every field back within its range. Used on values that
// arrive from outside the setters, such as a decoded record.
func (p *Params) Clamp() {
	p.SetParamMax(int(p.ParamMax))
	p.SetWidth(float64(p.Width))
}

// Validate reports the first field outside its range without changing anything
func (p Params) Validate() error {
	if p.ParamMax < 1 || p.ParamMax > ParamMaxLimit {
		return fmt.Errorf("%w: param_max %d outside [1, %d]", ErrInvalidParams, p.ParamMax, ParamMaxLimit)
	}
	for _, f := range []struct {
		name string
		v    uint32
	}{{"a", p.A}, {"b", p.B}, {"c", p.C}} {
		if f.v < 1 || f.v > p.ParamMax {
			return fmt.Errorf("%w: %s %d outside [1, %d]", ErrInvalidParams, f.name, f.v, p.ParamMax)
		}
	}
	if math.IsNaN(float64(p.Width)) || p.Width < MinWidth || p.Width > MaxWidth {
		return fmt.Errorf("%w: width %.2f outside [%.1f, %.1f]", ErrInvalidParams, p.Width, MinWidth, MaxWidth)
	}
	return nil
}

func clampShape(v int, max uint32) uint32 {
	if max < 1 {
		max = 1
	}
	return uint32(clampInt(v, 1, int(max)))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
