// Package transform provides the centered transforms that the initializer
// writes its starting pose into.
package transform

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"transforminit/internal/models"
)

// Transform is a spatial transform with a center of rotation and a
// translation that can be set from outside.
type Transform interface {
	InputSpaceDimension() int
	OutputSpaceDimension() int
	Center() models.Point
	Translation() models.Vector
	SetCenter(c models.Point)
	SetTranslation(t models.Vector)
}

// CenteredAffine maps x to A·(x − c) + c + t, where A is the matrix,
// c the center and t the translation.
type CenteredAffine struct {
	matrix      *mat.Dense
	center      models.Point
	translation models.Vector
}

// NewCenteredAffine returns an identity transform of dimension n.
func NewCenteredAffine(n int) *CenteredAffine {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return &CenteredAffine{
		matrix:      m,
		center:      make(models.Point, n),
		translation: make(models.Vector, n),
	}
}

// InputSpaceDimension implements Transform.
func (t *CenteredAffine) InputSpaceDimension() int { return len(t.center) }

// OutputSpaceDimension implements Transform.
func (t *CenteredAffine) OutputSpaceDimension() int { return len(t.translation) }

// Center implements Transform.
func (t *CenteredAffine) Center() models.Point { return t.center.Clone() }

// Translation implements Transform.
func (t *CenteredAffine) Translation() models.Vector { return t.translation.Clone() }

// SetCenter implements Transform. The translation is kept, so the offset
// changes with the center.
func (t *CenteredAffine) SetCenter(c models.Point) { t.center = c.Clone() }

// SetTranslation implements Transform.
func (t *CenteredAffine) SetTranslation(v models.Vector) { t.translation = v.Clone() }

// Matrix returns a copy of the linear part.
func (t *CenteredAffine) Matrix() *mat.Dense { return mat.DenseCopyOf(t.matrix) }

// SetMatrix replaces the linear part.
func (t *CenteredAffine) SetMatrix(m mat.Matrix) error {
	r, c := m.Dims()
	n := len(t.center)
	if r != n || c != n {
		return fmt.Errorf("matrix is %dx%d, transform needs %dx%d", r, c, n, n)
	}
	t.matrix = mat.DenseCopyOf(m)
	return nil
}

// Offset returns t + c − A·c, the translation of the equivalent
// uncentered affine transform.
func (t *CenteredAffine) Offset() models.Vector {
	n := len(t.center)
	c := mat.NewVecDense(n, t.center.Clone())
	var ac mat.VecDense
	ac.MulVec(t.matrix, c)

	out := make(models.Vector, n)
	for i := 0; i < n; i++ {
		out[i] = t.translation[i] + t.center[i] - ac.AtVec(i)
	}
	return out
}

// TransformPoint applies the transform to p.
func (t *CenteredAffine) TransformPoint(p models.Point) models.Point {
	n := len(t.center)
	var ap mat.VecDense
	ap.MulVec(t.matrix, mat.NewVecDense(n, p.Clone()))

	offset := t.Offset()
	out := make(models.Point, n)
	for i := 0; i < n; i++ {
		out[i] = ap.AtVec(i) + offset[i]
	}
	return out
}

// Parameters returns the matrix in row-major order followed by the
// translation.
func (t *CenteredAffine) Parameters() []float64 {
	n := len(t.center)
	params := make([]float64, 0, n*n+n)
	for i := 0; i < n; i++ {
		params = append(params, t.matrix.RawRowView(i)...)
	}
	return append(params, t.translation...)
}
