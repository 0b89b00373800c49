package tiled

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an 8-bit per channel color as found in Tiled documents.
type Color struct {
	R, G, B, A uint8
}

// IsZero reports whether c is the zero value, which documents use for "no
// color set".
func (c Color) IsZero() bool {
	return c == Color{}
}

// Hex formats c the way Tiled writes colors: #RRGGBB when opaque,
// #AARRGGBB otherwise.
func (c Color) Hex() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.A, c.R, c.G, c.B)
}

// RGBAHex formats c as #RRGGBBAA.
func (c Color) RGBAHex() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Float returns the channels scaled to [0, 1].
func (c Color) Float() (r, g, b, a float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255
}

// ColorFromFloat builds a Color from channels in [0, 1], rounding to the
// nearest 8-bit value.
func ColorFromFloat(r, g, b, a float64) Color {
	return Color{R: unitToByte(r), G: unitToByte(g), B: unitToByte(b), A: unitToByte(a)}
}

func unitToByte(v float64) uint8 {
	v = min(max(v, 0), 1)
	return uint8(v*255 + 0.5)
}

// ParseColor parses a Tiled color attribute: #RRGGBB or #AARRGGBB, with the
// short forms #RGB and #ARGB expanded by doubling each digit. The leading #
// is optional.
func ParseColor(s string) (Color, error) {
	digits, err := expandHex(s)
	if err != nil {
		return Color{}, err
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(digits) == 6 {
		return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	}
	return Color{A: uint8(v >> 24), R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// ParseRGBA parses a host-style #RRGGBBAA string (or #RRGGBB, #RGB, #RGBA).
func ParseRGBA(s string) (Color, error) {
	digits, err := expandHex(s)
	if err != nil {
		return Color{}, err
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(digits) == 6 {
		return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// ExpandHex normalizes a short color string: "#854" becomes "#885544".
func ExpandHex(s string) (string, error) {
	digits, err := expandHex(s)
	if err != nil {
		return "", err
	}
	return "#" + digits, nil
}

func expandHex(s string) (string, error) {
	digits := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	switch len(digits) {
	case 3, 4:
		var sb strings.Builder
		for _, r := range digits {
			sb.WriteRune(r)
			sb.WriteRune(r)
		}
		digits = sb.String()
	case 6, 8:
	default:
		return "", fmt.Errorf("invalid color %q", s)
	}
	for _, r := range digits {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return "", fmt.Errorf("invalid color %q", s)
		}
	}
	return digits, nil
}
