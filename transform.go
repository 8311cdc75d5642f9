package flint

import "math"

// Affine is a 2D affine matrix stored as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Affine [6]float64

// IdentityAffine is the identity transform.
var IdentityAffine = Affine{1, 0, 0, 1, 0, 0}

// TranslateAffine returns a pure translation.
func TranslateAffine(x, y float64) Affine {
	return Affine{1, 0, 0, 1, x, y}
}

// Multiply returns m * c (c is applied first).
func (m Affine) Multiply(c Affine) Affine {
	return Affine{
		m[0]*c[0] + m[2]*c[1],
		m[1]*c[0] + m[3]*c[1],
		m[0]*c[2] + m[2]*c[3],
		m[1]*c[2] + m[3]*c[3],
		m[0]*c[4] + m[2]*c[5] + m[4],
		m[1]*c[4] + m[3]*c[5] + m[5],
	}
}

// Invert returns the inverse of m, or the identity if m is singular.
func (m Affine) Invert() Affine {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return IdentityAffine
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Affine{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// Apply transforms the point (x, y).
func (m Affine) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// IsTranslation reports whether m has no rotation, scale, or skew.
func (m Affine) IsTranslation() bool {
	return m[0] == 1 && m[1] == 0 && m[2] == 0 && m[3] == 1
}

// TransformBound maps the four corners of b through m and returns their
// axis-aligned bounding box.
func (m Affine) TransformBound(b Bound) Bound {
	if m.IsTranslation() {
		return b.Translate(m[4], m[5])
	}
	x0, y0 := m.Apply(b.Left, b.Top)
	x1, y1 := m.Apply(b.Right, b.Top)
	x2, y2 := m.Apply(b.Left, b.Bottom)
	x3, y3 := m.Apply(b.Right, b.Bottom)
	return Bound{
		Left:   min(x0, x1, x2, x3),
		Top:    min(y0, y1, y2, y3),
		Right:  max(x0, x1, x2, x3),
		Bottom: max(y0, y1, y2, y3),
	}
}

// computeLocalTransform builds the parent-space transform of a node: a
// rotation of degrees about the center of rect, then a translation to the
// rect's position.
//
//	Translate(X+ox, Y+oy) -> Rotate -> Translate(-ox, -oy)
func computeLocalTransform(rect Rect, degrees float64) Affine {
	if degrees == 0 {
		return TranslateAffine(rect.X, rect.Y)
	}
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	ox := rect.Width / 2
	oy := rect.Height / 2
	return Affine{
		cos, sin, -sin, cos,
		rect.X + ox - (cos*ox - sin*oy),
		rect.Y + oy - (sin*ox + cos*oy),
	}
}
