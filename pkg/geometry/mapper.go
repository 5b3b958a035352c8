package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"transforminit/internal/models"
)

// IndexMapper maps many grid indices of one geometry into physical space.
// The matrix direction · diag(spacing) is built once, so Map allocates
// nothing.
type IndexMapper struct {
	n      int
	matrix []float64
	origin []float64
}

// NewIndexMapper prepares the index-to-physical mapping of g.
func NewIndexMapper(g models.ImageGeometry) *IndexMapper {
	n := g.Dimension()
	var m mat.Dense
	m.Mul(g.DirectionMatrix(), mat.NewDiagDense(n, append([]float64(nil), g.Spacing...)))
	return &IndexMapper{
		n:      n,
		matrix: mat.DenseCopyOf(&m).RawMatrix().Data,
		origin: append([]float64(nil), g.Origin...),
	}
}

// Map writes the physical position of index into dst, which must have
// one element per axis.
func (im *IndexMapper) Map(index []int, dst []float64) {
	copy(dst, im.origin)
	for row := 0; row < im.n; row++ {
		r := im.matrix[row*im.n : (row+1)*im.n]
		for col, v := range index {
			dst[row] += r[col] * float64(v)
		}
	}
}

// PhysicalMapper finds the nearest grid index of physical points. The
// inverse of direction · diag(spacing) is factored once.
type PhysicalMapper struct {
	n       int
	inverse []float64
	origin  []float64
	size    []int
	rel     []float64
}

// NewPhysicalMapper prepares the physical-to-index mapping of g.
func NewPhysicalMapper(g models.ImageGeometry) (*PhysicalMapper, error) {
	n := g.Dimension()
	var m, inv mat.Dense
	m.Mul(g.DirectionMatrix(), mat.NewDiagDense(n, append([]float64(nil), g.Spacing...)))
	if err := inv.Inverse(&m); err != nil {
		return nil, fmt.Errorf("grid matrix is singular: %w", err)
	}
	return &PhysicalMapper{
		n:       n,
		inverse: mat.DenseCopyOf(&inv).RawMatrix().Data,
		origin:  append([]float64(nil), g.Origin...),
		size:    append([]int(nil), g.Size...),
		rel:     make([]float64, n),
	}, nil
}

// Index writes the nearest grid index of p into dst and reports whether
// it lies inside the grid. A PhysicalMapper is not safe for concurrent use.
func (pm *PhysicalMapper) Index(p []float64, dst []int) bool {
	floats.SubTo(pm.rel, p, pm.origin)
	inside := true
	for row := 0; row < pm.n; row++ {
		r := pm.inverse[row*pm.n : (row+1)*pm.n]
		dst[row] = int(math.Round(floats.Dot(r, pm.rel)))
		if dst[row] < 0 || dst[row] >= pm.size[row] {
			inside = false
		}
	}
	return inside
}

// SameGrid reports whether a and b describe the same grid, so that a
// sample offset in one addresses the same physical point in the other.
func SameGrid(a, b models.ImageGeometry) bool {
	if a.Dimension() != b.Dimension() {
		return false
	}
	for i := range a.Size {
		if a.Size[i] != b.Size[i] {
			return false
		}
	}
	if !floats.Equal(a.Spacing, b.Spacing) || !floats.Equal(a.Origin, b.Origin) {
		return false
	}
	return mat.Equal(a.DirectionMatrix(), b.DirectionMatrix())
}
