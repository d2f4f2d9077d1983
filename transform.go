package vellum

import "math"

// Affine is a 2D affine matrix stored as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Affine [6]float64

// IdentityAffine is the identity matrix.
var IdentityAffine = Affine{1, 0, 0, 1, 0, 0}

// TranslateAffine returns a translation matrix.
func TranslateAffine(tx, ty float64) Affine {
	return Affine{1, 0, 0, 1, tx, ty}
}

// ScaleAffine returns a scale matrix.
func ScaleAffine(sx, sy float64) Affine {
	return Affine{sx, 0, 0, sy, 0, 0}
}

// RotateAffine returns a rotation matrix for an angle in degrees
// (clockwise on screen, since Y grows downward).
func RotateAffine(deg float64) Affine {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return Affine{cos, sin, -sin, cos, 0, 0}
}

// Mul returns m * child, i.e. child is applied first.
func (m Affine) Mul(c Affine) Affine {
	return Affine{
		m[0]*c[0] + m[2]*c[1],
		m[1]*c[0] + m[3]*c[1],
		m[0]*c[2] + m[2]*c[3],
		m[1]*c[2] + m[3]*c[3],
		m[0]*c[4] + m[2]*c[5] + m[4],
		m[1]*c[4] + m[3]*c[5] + m[5],
	}
}

// Invert returns the inverse matrix.
// Returns the identity matrix if m is singular (determinant ≈ 0).
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

// Apply transforms a point.
func (m Affine) Apply(p Vec2) Vec2 {
	return Vec2{m[0]*p.X + m[2]*p.Y + m[4], m[1]*p.X + m[3]*p.Y + m[5]}
}

// ApplyRect returns the axis-aligned bounding box of r after transformation.
func (m Affine) ApplyRect(r Rect) Rect {
	p0 := m.Apply(Vec2{r.X, r.Y})
	p1 := m.Apply(Vec2{r.X + r.Width, r.Y})
	p2 := m.Apply(Vec2{r.X + r.Width, r.Y + r.Height})
	p3 := m.Apply(Vec2{r.X, r.Y + r.Height})

	minX := math.Min(math.Min(p0.X, p1.X), math.Min(p2.X, p3.X))
	minY := math.Min(math.Min(p0.Y, p1.Y), math.Min(p2.Y, p3.Y))
	maxX := math.Max(math.Max(p0.X, p1.X), math.Max(p2.X, p3.X))
	maxY := math.Max(math.Max(p0.Y, p1.Y), math.Max(p2.Y, p3.Y))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Transform is a node's local placement relative to its parent.
// Rotation is in degrees.
type Transform struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
	Rotation float64 `json:"rotation"`
}

// IdentityTransform places a node at its parent's origin, unscaled.
var IdentityTransform = Transform{ScaleX: 1, ScaleY: 1}

// Affine computes the local matrix.
//
// Composition order:
//
//	Scale -> Rotate -> Translate(X, Y)
func (t Transform) Affine() Affine {
	sin, cos := math.Sincos(t.Rotation * math.Pi / 180)
	sx, sy := t.ScaleX, t.ScaleY
	return Affine{
		cos * sx,
		sin * sx,
		-sin * sy,
		cos * sy,
		t.X,
		t.Y,
	}
}
