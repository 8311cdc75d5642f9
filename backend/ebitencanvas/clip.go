package ebitencanvas

import (
	"image"
	"math"

	"github.com/phanxgames/flint"
)

// deviceRect rounds b outward to whole pixels.
func deviceRect(b flint.Bound) image.Rectangle {
	return image.Rect(
		int(math.Floor(b.Left)), int(math.Floor(b.Top)),
		int(math.Ceil(b.Right)), int(math.Ceil(b.Bottom)),
	)
}

// snapBound rounds b outward to whole device pixels, matching deviceRect.
func snapBound(b flint.Bound) flint.Bound {
	return flint.Bound{
		Left: math.Floor(b.Left), Top: math.Floor(b.Top),
		Right: math.Ceil(b.Right), Bottom: math.Ceil(b.Bottom),
	}
}

func snapOut(p flint.ClipPath) flint.ClipPath {
	out := make(flint.ClipPath, len(p))
	for i, b := range p {
		out[i] = snapBound(b)
	}
	return out
}

func rectPoints(r flint.Rect) []flint.Vec2 {
	return []flint.Vec2{
		{X: r.X, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y + r.Height},
		{X: r.X, Y: r.Y + r.Height},
	}
}

// strokeQuads returns the four edge quads of a stroke of width w centered on
// the outline of r.
func strokeQuads(r flint.Rect, w float64) [4][4]flint.Vec2 {
	h := w / 2
	ol, ot, or, ob := r.X-h, r.Y-h, r.X+r.Width+h, r.Y+r.Height+h
	il, it, ir, ib := r.X+h, r.Y+h, r.X+r.Width-h, r.Y+r.Height-h
	if il > ir {
		il, ir = r.X+r.Width/2, r.X+r.Width/2
	}
	if it > ib {
		it, ib = r.Y+r.Height/2, r.Y+r.Height/2
	}
	return [4][4]flint.Vec2{
		{{X: ol, Y: ot}, {X: or, Y: ot}, {X: or, Y: it}, {X: ol, Y: it}},
		{{X: ol, Y: ib}, {X: or, Y: ib}, {X: or, Y: ob}, {X: ol, Y: ob}},
		{{X: ol, Y: it}, {X: il, Y: it}, {X: il, Y: ib}, {X: ol, Y: ib}},
		{{X: ir, Y: it}, {X: or, Y: it}, {X: or, Y: ib}, {X: ir, Y: ib}},
	}
}
