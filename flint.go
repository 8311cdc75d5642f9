package flint

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an 8-bit RGBA color. Not premultiplied.
type Color struct {
	R, G, B, A uint8
}

// Common colors.
var (
	ColorTransparent = Color{}
	ColorBlack       = Color{0, 0, 0, 255}
	ColorWhite       = Color{255, 255, 255, 255}
)

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{r, g, b, 255}
}

// RGBA returns a color with the given alpha.
func RGBA(r, g, b, a uint8) Color {
	return Color{r, g, b, a}
}

// ColorFromARGB unpacks a 0xAARRGGBB value.
func ColorFromARGB(argb uint32) Color {
	return Color{
		R: uint8(argb >> 16),
		G: uint8(argb >> 8),
		B: uint8(argb),
		A: uint8(argb >> 24),
	}
}

// ParseHexColor parses "#rrggbb" or "#rrggbbaa".
func ParseHexColor(s string) (Color, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return Color{}, fmt.Errorf("flint: invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("flint: invalid color %q", s)
	}
	if len(hex) == 6 {
		return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
	}
	return RGBA(uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// RGBA implements color.Color. The result is alpha-premultiplied.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(c.A)
	a |= a << 8
	r = uint32(c.R) * a / 0xff
	g = uint32(c.G) * a / 0xff
	b = uint32(c.B) * a / 0xff
	return r, g, b, a
}

// WithAlpha returns c with its alpha scaled by alpha/255.
func (c Color) WithAlpha(alpha uint8) Color {
	if alpha == 255 {
		return c
	}
	c.A = uint8(uint16(c.A) * uint16(alpha) / 255)
	return c
}

// Vec2 is a 2D vector used for positions, offsets, and polygon points.
type Vec2 struct {
	X, Y float64
}

// Overflow controls whether a node's children may paint outside its rect.
type Overflow uint8

const (
	OverflowVisible Overflow = iota // children extend the node's bounds
	OverflowHidden                  // children are clipped to the node's rect
	OverflowScroll                  // clipped, children offset by the scroll position
)

func (o Overflow) String() string {
	switch o {
	case OverflowVisible:
		return "visible"
	case OverflowHidden:
		return "hidden"
	case OverflowScroll:
		return "scroll"
	default:
		return "unknown"
	}
}

// ParseOverflow converts a CSS-like keyword into an Overflow mode.
func ParseOverflow(s string) (Overflow, bool) {
	switch s {
	case "visible":
		return OverflowVisible, true
	case "hidden":
		return OverflowHidden, true
	case "scroll":
		return OverflowScroll, true
	}
	return OverflowHidden, false
}

// Edge identifies one side of a node's border.
type Edge uint8

const (
	EdgeTop Edge = iota
	EdgeRight
	EdgeBottom
	EdgeLeft
)

// Border is a solid border of the given width.
type Border struct {
	Width float64
	Color Color
}

// ClipOp selects how a clip rectangle combines with the current clip.
type ClipOp uint8

const (
	ClipIntersect  ClipOp = iota // keep only the inside of the rectangle
	ClipDifference               // keep only the outside of the rectangle
)

// FontWeight selects a face variant within a family.
type FontWeight uint8

const (
	FontNormal FontWeight = iota
	FontBold
	FontItalic
)

func (w FontWeight) String() string {
	switch w {
	case FontBold:
		return "bold"
	case FontItalic:
		return "italic"
	default:
		return "normal"
	}
}
