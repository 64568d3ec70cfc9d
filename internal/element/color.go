// Package element defines the tagged element model shared by the format
// parser and dispatcher: colors, extents, attributes, alignment, mouse
// buttons, and the Element/Tag sum type itself.
package element

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is either a reset marker or a premultiplied-alpha ARGB value, never
// both; the zero value is Reset.
type Color struct {
	isSet bool
	argb  uint32 // 0xAARRGGBB, alpha already premultiplied into RGB
}

// Reset is the "-" / absent color.
var Reset = Color{}

// ErrInvalidColor is returned by ParseColor for malformed input.
type ErrInvalidColor struct {
	Value string
	Cause string
}

func (e *ErrInvalidColor) Error() string {
	if e.Cause != "" {
		return fmt.Sprintf("invalid color %q: %s", e.Value, e.Cause)
	}
	return fmt.Sprintf("invalid color %q", e.Value)
}

// ParseColor parses "-" (reset), "" (reset), or a "#"-prefixed hex string of
// 3, 4, 6, or 8 digits. 3-digit expands each nibble; 4-digit is alpha+RGB;
// 6-digit implies full opacity; 8-digit is literal ARGB, alpha premultiplied
// into the stored channels.
func ParseColor(s string) (Color, error) {
	if s == "" || s == "-" {
		return Reset, nil
	}
	if s[0] != '#' {
		return Color{}, &ErrInvalidColor{Value: s, Cause: "must start with '#' or be '-'"}
	}
	hex := s[1:]
	var a, r, g, b uint8
	switch len(hex) {
	case 3:
		rr, err := parseNibble(hex[0])
		if err != nil {
			return Color{}, &ErrInvalidColor{Value: s, Cause: err.Error()}
		}
		gg, err := parseNibble(hex[1])
		if err != nil {
			return Color{}, &ErrInvalidColor{Value: s, Cause: err.Error()}
		}
		bb, err := parseNibble(hex[2])
		if err != nil {
			return Color{}, &ErrInvalidColor{Value: s, Cause: err.Error()}
		}
		a, r, g, b = 0xFF, rr*17, gg*17, bb*17
	case 4:
		aa, err := parseNibble(hex[0])
		if err != nil {
			return Color{}, &ErrInvalidColor{Value: s, Cause: err.Error()}
		}
		rr, err := parseNibble(hex[1])
		if err != nil {
			return Color{}, &ErrInvalidColor{Value: s, Cause: err.Error()}
		}
		gg, err := parseNibble(hex[2])
		if err != nil {
			return Color{}, &ErrInvalidColor{Value: s, Cause: err.Error()}
		}
		bb, err := parseNibble(hex[3])
		if err != nil {
			return Color{}, &ErrInvalidColor{Value: s, Cause: err.Error()}
		}
		a, r, g, b = aa*17, rr*17, gg*17, bb*17
	case 6:
		v, err := parseHexByte(hex, 0)
		if err != nil {
			return Color{}, &ErrInvalidColor{Value: s, Cause: err.Error()}
		}
		g2, err := parseHexByte(hex, 2)
		if err != nil {
			return Color{}, &ErrInvalidColor{Value: s, Cause: err.Error()}
		}
		b2, err := parseHexByte(hex, 4)
		if err != nil {
			return Color{}, &ErrInvalidColor{Value: s, Cause: err.Error()}
		}
		a, r, g, b = 0xFF, v, g2, b2
	case 8:
		aa, err := parseHexByte(hex, 0)
		if err != nil {
			return Color{}, &ErrInvalidColor{Value: s, Cause: err.Error()}
		}
		rr, err := parseHexByte(hex, 2)
		if err != nil {
			return Color{}, &ErrInvalidColor{Value: s, Cause: err.Error()}
		}
		gg, err := parseHexByte(hex, 4)
		if err != nil {
			return Color{}, &ErrInvalidColor{Value: s, Cause: err.Error()}
		}
		bb, err := parseHexByte(hex, 6)
		if err != nil {
			return Color{}, &ErrInvalidColor{Value: s, Cause: err.Error()}
		}
		a, r, g, b = aa, rr, gg, bb
	default:
		return Color{}, &ErrInvalidColor{Value: s, Cause: fmt.Sprintf("expected 3, 4, 6, or 8 hex digits, got %d", len(hex))}
	}

	// Premultiply alpha into the stored channels, matching the source's
	// internal representation (see DATA MODEL §3).
	pr := premultiply(r, a)
	pg := premultiply(g, a)
	pb := premultiply(b, a)

	return Color{
		isSet: true,
		argb:  uint32(a)<<24 | uint32(pr)<<16 | uint32(pg)<<8 | uint32(pb),
	}, nil
}

func premultiply(c, a uint8) uint8 {
	return uint8((uint16(c) * uint16(a)) / 0xFF)
}

func parseNibble(c byte) (uint8, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	default:
		return 0, fmt.Errorf("invalid hex digit '%c'", c)
	}
}

func parseHexByte(hex string, offset int) (uint8, error) {
	hi, err := parseNibble(hex[offset])
	if err != nil {
		return 0, err
	}
	lo, err := parseNibble(hex[offset+1])
	if err != nil {
		return 0, err
	}
	return hi<<4 | lo, nil
}

// IsSet reports whether this Color carries a value rather than meaning reset.
func (c Color) IsSet() bool { return c.isSet }

// ARGB returns the packed 0xAARRGGBB value with premultiplied alpha.
func (c Color) ARGB() uint32 { return c.argb }

// Alpha returns the alpha channel, 0 for Reset.
func (c Color) Alpha() uint8 { return uint8(c.argb >> 24) }

// RGB returns the (premultiplied) red, green, blue channels.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c.argb >> 16), uint8(c.argb >> 8), uint8(c.argb)
}

// String renders the canonical "#AARRGGBB" form, or "-" for Reset.
func (c Color) String() string {
	if !c.isSet {
		return "-"
	}
	return fmt.Sprintf("#%08x", c.argb)
}

// Colorful converts to a go-colorful Color for downstream rendering (e.g. the
// demo lipgloss renderer), un-premultiplying alpha back to straight RGB.
func (c Color) Colorful() colorful.Color {
	if !c.isSet || c.Alpha() == 0 {
		return colorful.Color{}
	}
	a := float64(c.Alpha()) / 0xFF
	r, g, b := c.RGB()
	return colorful.Color{
		R: float64(r) / 0xFF / a,
		G: float64(g) / 0xFF / a,
		B: float64(b) / 0xFF / a,
	}
}
