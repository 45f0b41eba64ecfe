package spiro

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Color is a straight (non-premultiplied) 8-bit RGBA colour.
// It has no effect on geometry.
type Color struct {
	R, G, B, A uint8
}

var LightRed = Color{R: 255, G: 128, B: 128, A: 255}

// Hex returns #rrggbb, dropping alpha
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// HexA returns #rrggbbaa
func (c Color) HexA() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Opacity returns alpha as a fraction in [0, 1]
func (c Color) Opacity() float64 {
	return float64(c.A) / 255
}

// ParseColor accepts #rgb, #rrggbb and #rrggbbaa (leading # optional).
// Missing alpha means fully opaque.
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return Color{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// MarshalJSON writes the colour as [r, g, b, a]
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]uint8{c.R, c.G, c.B, c.A})
}

// UnmarshalJSON reads either [r, g, b, a] or a hex string
func (c *Color) UnmarshalJSON(data []byte) error {
	var arr [4]uint8
	if err := json.Unmarshal(data, &arr); err == nil {
		*c = Color{R: arr[0], G: arr[1], B: arr[2], A: arr[3]}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("colour must be [r,g,b,a] or a hex string: %w", err)
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
