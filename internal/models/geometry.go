package models

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// orthonormalTolerance bounds how far DᵀD may drift from the identity
// before a direction matrix is rejected.
const orthonormalTolerance = 1e-6

// Point is a location in physical (world) coordinates.
type Point []float64

// Vector is a displacement in physical (world) coordinates.
type Vector []float64

// Dimension returns the number of coordinates of the point.
func (p Point) Dimension() int { return len(p) }

// Clone returns a copy of the point that shares no storage with p.
func (p Point) Clone() Point {
	out := make(Point, len(p))
	copy(out, p)
	return out
}

// Dimension returns the number of components of the vector.
func (v Vector) Dimension() int { return len(v) }

// Clone returns a copy of the vector that shares no storage with v.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// ImageGeometry describes how an image's discrete grid maps into physical space.
//
// A grid index i maps to origin + Direction · (Spacing ⊙ i). Indices run
// from 0 to Size[axis]-1 along every axis.
type ImageGeometry struct {
	// Origin is the physical position of index (0, 0, ..., 0)
	Origin Point

	// Spacing is the physical distance between neighbouring samples per axis
	Spacing []float64

	// Direction holds the axis direction cosines as columns.
	// A nil Direction is treated as the identity.
	Direction *mat.Dense

	// Size is the number of samples along each axis
	Size []int
}

// NewImageGeometry builds an axis-aligned geometry with identity direction.
func NewImageGeometry(size []int, spacing []float64, origin Point) ImageGeometry {
	return ImageGeometry{
		Origin:  origin.Clone(),
		Spacing: append([]float64(nil), spacing...),
		Size:    append([]int(nil), size...),
	}
}

// Dimension returns N, the number of grid axes.
func (g ImageGeometry) Dimension() int { return len(g.Size) }

// NumberOfSamples returns the product of the per-axis sizes.
func (g ImageGeometry) NumberOfSamples() int {
	if len(g.Size) == 0 {
		return 0
	}
	n := 1
	for _, s := range g.Size {
		n *= s
	}
	return n
}

// DirectionMatrix returns the direction matrix, substituting the identity
// when none was set.
func (g ImageGeometry) DirectionMatrix() *mat.Dense {
	n := g.Dimension()
	if g.Direction != nil {
		return g.Direction
	}
	return mat.DenseCopyOf(identity(n))
}

// Validate checks the geometry invariants: matching lengths, positive
// sizes and spacings, and an orthonormal N×N direction matrix.
func (g ImageGeometry) Validate() error {
	n := g.Dimension()
	if n == 0 {
		return errors.New("geometry has no axes")
	}
	if len(g.Origin) != n {
		return fmt.Errorf("origin has %d components, expected %d", len(g.Origin), n)
	}
	if len(g.Spacing) != n {
		return fmt.Errorf("spacing has %d components, expected %d", len(g.Spacing), n)
	}
	for i := 0; i < n; i++ {
		if g.Size[i] <= 0 {
			return fmt.Errorf("size along axis %d must be positive, got %d", i, g.Size[i])
		}
		if !(g.Spacing[i] > 0) {
			return fmt.Errorf("spacing along axis %d must be positive, got %g", i, g.Spacing[i])
		}
	}
	if g.Direction == nil {
		return nil
	}
	r, c := g.Direction.Dims()
	if r != n || c != n {
		return fmt.Errorf("direction is %dx%d, expected %dx%d", r, c, n, n)
	}
	var gram mat.Dense
	gram.Mul(g.Direction.T(), g.Direction)
	if !mat.EqualApprox(&gram, identity(n), orthonormalTolerance) {
		return errors.New("direction matrix is not orthonormal")
	}
	return nil
}

func identity(n int) *mat.DiagDense {
	d := make([]float64, n)
	for i := range d {
		d[i] = 1
	}
	return mat.NewDiagDense(n, d)
}
