// Package geometry converts between the discrete grid of an image and
// continuous physical coordinates.
//
// Every function here works for any dimension N. The mapping used
// throughout is
//
//	physical = origin + direction · (spacing ⊙ index)
//
// where index may be continuous. The functions are pure and never modify
// their inputs.
package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"transforminit/internal/models"
)

// ContinuousIndexToPhysical maps a (possibly fractional) grid index into
// physical space.
func ContinuousIndexToPhysical(g models.ImageGeometry, index []float64) models.Point {
	n := g.Dimension()
	scaled := make([]float64, n)
	floats.MulTo(scaled, g.Spacing, index)

	var p mat.VecDense
	p.MulVec(g.DirectionMatrix(), mat.NewVecDense(n, scaled))
	p.AddVec(&p, mat.NewVecDense(n, g.Origin.Clone()))

	return models.Point(p.RawVector().Data)
}

// IndexToPhysical maps an integer grid index into physical space.
func IndexToPhysical(g models.ImageGeometry, index []int) models.Point {
	cont := make([]float64, len(index))
	for i, v := range index {
		cont[i] = float64(v)
	}
	return ContinuousIndexToPhysical(g, cont)
}

// PhysicalToContinuousIndex is the inverse of ContinuousIndexToPhysical.
// It solves direction · v = p − origin and divides by the spacing.
func PhysicalToContinuousIndex(g models.ImageGeometry, p models.Point) ([]float64, error) {
	n := g.Dimension()
	if len(p) != n {
		return nil, fmt.Errorf("point has %d components, geometry has %d axes", len(p), n)
	}
	rel := make([]float64, n)
	floats.SubTo(rel, p, g.Origin)

	var v mat.VecDense
	if err := v.SolveVec(g.DirectionMatrix(), mat.NewVecDense(n, rel)); err != nil {
		return nil, fmt.Errorf("direction matrix is singular: %w", err)
	}
	index := v.RawVector().Data
	floats.Div(index, g.Spacing)
	return index, nil
}

// PhysicalToIndex returns the nearest grid index of p and whether that
// index lies inside the grid.
func PhysicalToIndex(g models.ImageGeometry, p models.Point) ([]int, bool) {
	cont, err := PhysicalToContinuousIndex(g, p)
	if err != nil {
		return nil, false
	}
	index := make([]int, len(cont))
	inside := true
	for i, c := range cont {
		index[i] = int(math.Round(c))
		if index[i] < 0 || index[i] >= g.Size[i] {
			inside = false
		}
	}
	return index, inside
}

// Center returns the physical position of the geometric center of the
// grid, the continuous index (size-1)/2 along every axis.
func Center(g models.ImageGeometry) models.Point {
	index := make([]float64, g.Dimension())
	for i, s := range g.Size {
		index[i] = float64(s-1) / 2.0
	}
	return ContinuousIndexToPhysical(g, index)
}

// PhysicalOrigin returns the physical position of index (0, ..., 0).
func PhysicalOrigin(g models.ImageGeometry) models.Point {
	return g.Origin.Clone()
}

// Corners returns the physical positions of the 2^N grid corners. Corner k
// takes index size-1 along axis i when bit i of k is set and 0 otherwise.
// Axes of size one yield coinciding corners, which are kept.
func Corners(g models.ImageGeometry) []models.Point {
	n := g.Dimension()
	count := 1 << uint(n)
	corners := make([]models.Point, 0, count)
	for k := 0; k < count; k++ {
		index := make([]int, n)
		for axis := 0; axis < n; axis++ {
			if k&(1<<uint(axis)) != 0 {
				index[axis] = g.Size[axis] - 1
			}
		}
		corners = append(corners, IndexToPhysical(g, index))
	}
	return corners
}

// MinPerAxis returns, independently for each coordinate axis, the smallest
// value found across points. It returns nil for an empty slice.
func MinPerAxis(points []models.Point) models.Point {
	if len(points) == 0 {
		return nil
	}
	n := len(points[0])
	out := make(models.Point, n)
	column := make([]float64, len(points))
	for axis := 0; axis < n; axis++ {
		for i, p := range points {
			column[i] = p[axis]
		}
		out[axis] = floats.Min(column)
	}
	return out
}

// Subtract returns the displacement a − b.
func Subtract(a, b models.Point) models.Vector {
	out := make(models.Vector, len(a))
	floats.SubTo(out, a, b)
	return out
}

// Translate returns p + v.
func Translate(p models.Point, v models.Vector) models.Point {
	out := make(models.Point, len(p))
	floats.AddTo(out, p, v)
	return out
}
