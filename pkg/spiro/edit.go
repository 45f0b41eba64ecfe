package spiro

// Edit is a partial update from a host control. Nil fields are left alone.
type Edit struct {
	A, B, C  *int
	ParamMax *int
	Width    *float64
	Color    *Color
}

// Empty reports whether the edit changes nothing
func (e Edit) Empty() bool {
	return e.A == nil && e.B == nil && e.C == nil && e.ParamMax == nil && e.Width == nil && e.Color == nil
}

// Apply writes the edit through the clamping setters. The bound goes first
// so the shape values are clamped against the new ParamMax.
func (e Edit) Apply(p *Params) {
	if e.ParamMax != nil {
		p.SetParamMax(*e.ParamMax)
	}
	if e.A != nil {
		p.SetA(*e.A)
	}
	if e.B != nil {
		p.SetB(*e.B)
	}
	if e.C != nil {
		p.SetC(*e.C)
	}
	if e.Width != nil {
		p.SetWidth(*e.Width)
	}
	if e.Color != nil {
		p.SetColor(*e.Color)
	}
}
