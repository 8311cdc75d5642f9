package flint

import "math"

// Rect is an axis-aligned rectangle given by its top-left corner and size.
// The coordinate system has its origin at the top-left, with Y increasing
// downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// IsEmpty reports whether the rectangle covers no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Bound converts r to edge form.
func (r Rect) Bound() Bound {
	return Bound{Left: r.X, Top: r.Y, Right: r.X + r.Width, Bottom: r.Y + r.Height}
}

// Bound is an axis-aligned bounding box given by its edges.
type Bound struct {
	Left, Top, Right, Bottom float64
}

// BoundXYWH builds a Bound from a position and size.
func BoundXYWH(x, y, w, h float64) Bound {
	return Bound{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

// Width returns the horizontal extent.
func (b Bound) Width() float64 { return b.Right - b.Left }

// Height returns the vertical extent.
func (b Bound) Height() float64 { return b.Bottom - b.Top }

// Area returns Width*Height, or 0 for empty bounds.
func (b Bound) Area() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.Width() * b.Height()
}

// IsEmpty reports whether the bound covers no area.
func (b Bound) IsEmpty() bool {
	return b.Right <= b.Left || b.Bottom <= b.Top
}

// Rect converts b to position and size form.
func (b Bound) Rect() Rect {
	return Rect{X: b.Left, Y: b.Top, Width: b.Width(), Height: b.Height()}
}

// Contains reports whether (x, y) lies inside b. Edges are inside.
func (b Bound) Contains(x, y float64) bool {
	return x >= b.Left && x <= b.Right && y >= b.Top && y <= b.Bottom
}

// Intersects reports whether b and o overlap with a non-zero area.
// Bounds sharing only an edge do not intersect.
func (b Bound) Intersects(o Bound) bool {
	return b.Left < o.Right && b.Right > o.Left &&
		b.Top < o.Bottom && b.Bottom > o.Top
}

// Intersect returns the overlap of b and o. ok is false when they do not
// overlap with a non-zero area.
func (b Bound) Intersect(o Bound) (out Bound, ok bool) {
	if !b.Intersects(o) {
		return Bound{}, false
	}
	return Bound{
		Left:   math.Max(b.Left, o.Left),
		Top:    math.Max(b.Top, o.Top),
		Right:  math.Min(b.Right, o.Right),
		Bottom: math.Min(b.Bottom, o.Bottom),
	}, true
}

// Union returns the smallest bound containing both b and o.
func (b Bound) Union(o Bound) Bound {
	return Bound{
		Left:   math.Min(b.Left, o.Left),
		Top:    math.Min(b.Top, o.Top),
		Right:  math.Max(b.Right, o.Right),
		Bottom: math.Max(b.Bottom, o.Bottom),
	}
}

// Translate returns b moved by (dx, dy).
func (b Bound) Translate(dx, dy float64) Bound {
	b.Left += dx
	b.Right += dx
	b.Top += dy
	b.Bottom += dy
	return b
}

// Outset grows b by d on every side.
func (b Bound) Outset(d float64) Bound {
	b.Left -= d
	b.Top -= d
	b.Right += d
	b.Bottom += d
	return b
}

// ClipPath is a set of device-space rectangles whose union is the drawable
// area. A nil ClipPath returned from the region tracker means "no clip".
type ClipPath []Bound

// Bounds returns the bounding box of all rectangles in the path.
func (p ClipPath) Bounds() Bound {
	if len(p) == 0 {
		return Bound{}
	}
	b := p[0]
	for _, r := range p[1:] {
		b = b.Union(r)
	}
	return b
}

// Contains reports whether (x, y) lies inside any rectangle of the path.
func (p ClipPath) Contains(x, y float64) bool {
	for _, r := range p {
		if r.Contains(x, y) {
			return true
		}
	}
	return false
}

// Intersect returns the pairwise overlaps of p and q. The result is non-nil
// even when nothing overlaps.
func (p ClipPath) Intersect(q ClipPath) ClipPath {
	out := make(ClipPath, 0, len(p))
	for _, a := range p {
		for _, b := range q {
			if r, ok := a.Intersect(b); ok {
				out = append(out, r)
			}
		}
	}
	return out
}

// Subtract returns p with cut removed. Each rectangle splits into at most four
// bands around the cut.
func (p ClipPath) Subtract(cut Bound) ClipPath {
	out := make(ClipPath, 0, len(p))
	for _, r := range p {
		in, ok := r.Intersect(cut)
		if !ok {
			out = append(out, r)
			continue
		}
		bands := [4]Bound{
			{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: in.Top},
			{Left: r.Left, Top: in.Bottom, Right: r.Right, Bottom: r.Bottom},
			{Left: r.Left, Top: in.Top, Right: in.Left, Bottom: in.Bottom},
			{Left: in.Right, Top: in.Top, Right: r.Right, Bottom: in.Bottom},
		}
		for _, b := range bands {
			if !b.IsEmpty() {
				out = append(out, b)
			}
		}
	}
	return out
}

// Disjoint returns rectangles covering the same area as p with no two
// overlapping, so a backend can draw once per rectangle without blending any
// pixel twice. Empty rectangles are dropped.
func (p ClipPath) Disjoint() ClipPath {
	out := make(ClipPath, 0, len(p))
	for _, r := range p {
		if r.IsEmpty() {
			continue
		}
		pieces := ClipPath{r}
		for _, o := range out {
			pieces = pieces.Subtract(o)
			if len(pieces) == 0 {
				break
			}
		}
		out = append(out, pieces...)
	}
	return out
}
