// Package geom implements the 2D affine transform math shared by the
// renderer and the text geometry extractor.
package geom

// Matrix is a 2D affine transform in SVG order (a b c d e f):
//
//	| a c e |
//	| b d f |
//	| 0 0 1 |
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity returns the identity transform, the composition base.
func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Matrix {
	return Matrix{A: 1, D: 1, E: tx, F: ty}
}

// Scale returns a scale by (sx, sy).
func Scale(sx, sy float64) Matrix {
	return Matrix{A: sx, D: sy}
}

// Mul returns the product m×n, the transform that applies n first and m
// second. Walking an ancestor chain outermost-first and right-multiplying
// each local matrix yields the local-to-absolute transform.
func (m Matrix) Mul(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

// Apply maps a local point through the transform.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// Compose parses a chain of transform attribute values ordered from the
// outermost ancestor down to the element and returns the combined
// local-to-absolute matrix.
func Compose(chain []string) Matrix {
	m := Identity()
	for _, attr := range chain {
		m = m.Mul(ParseTransform(attr))
	}
	return m
}

// MMToUnit converts millimeters to SVG user units at the CSS 96dpi ratio.
const MMToUnit = 96.0 / 25.4

// MMToUnits converts a length in millimeters to SVG user units.
func MMToUnits(mm float64) float64 {
	return mm * MMToUnit
}
