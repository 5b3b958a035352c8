// Package moments computes intensity-weighted centroids of images in
// physical coordinates.
package moments

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"transforminit/internal/models"
	"transforminit/pkg/geometry"
	"transforminit/pkg/volume"
)

const (
	// DegenerateMassTolerance is the smallest total mass, in absolute value,
	// that still yields a defined centroid.
	DegenerateMassTolerance = 1e-12

	// DegenerateRelativeTolerance bounds how far positive and negative
	// weights may cancel: |mass| must reach this fraction of Σ|weight|.
	DegenerateRelativeTolerance = 1e-6
)

// ErrDegenerate is returned when the total mass of the considered samples
// is too small to normalize the first moments.
var ErrDegenerate = errors.New("total mass of image is zero")

// Centroid is the result of a moments computation.
type Centroid struct {
	// Point is the intensity-weighted mean physical position
	Point models.Point

	// Mass is the sum of the sample weights
	Mass float64
}

// Calculator computes the centroid of an image, optionally restricted to
// the samples covered by a mask. A nil mask includes every sample.
type Calculator interface {
	Compute(img *volume.Image, mask *volume.Mask) (Centroid, error)
}

// ImageCalculator is the default Calculator. It weights every sample's
// physical position by its intensity.
//
// The last successful result is kept for inspection.
type ImageCalculator struct {
	centroid Centroid
	computed bool
}

// NewImageCalculator returns a calculator with no result yet.
func NewImageCalculator() *ImageCalculator {
	return &ImageCalculator{}
}

// Compute implements Calculator.
func (c *ImageCalculator) Compute(img *volume.Image, mask *volume.Mask) (Centroid, error) {
	c.computed = false
	if img == nil {
		return Centroid{}, errors.New("no image to compute moments of")
	}
	if err := img.Geometry.Validate(); err != nil {
		return Centroid{}, fmt.Errorf("invalid image geometry: %w", err)
	}
	if len(img.Data) != img.Geometry.NumberOfSamples() {
		return Centroid{}, fmt.Errorf("image holds %d samples, geometry expects %d",
			len(img.Data), img.Geometry.NumberOfSamples())
	}
	if mask != nil {
		if mask.Dimension() != img.Dimension() {
			return Centroid{}, fmt.Errorf("mask has %d axes, image has %d", mask.Dimension(), img.Dimension())
		}
		if err := mask.Geometry.Validate(); err != nil {
			return Centroid{}, fmt.Errorf("invalid mask geometry: %w", err)
		}
		if len(mask.Data) != mask.Geometry.NumberOfSamples() {
			return Centroid{}, fmt.Errorf("mask holds %d samples, geometry expects %d",
				len(mask.Data), mask.Geometry.NumberOfSamples())
		}
	}

	n := img.Dimension()
	mapper := geometry.NewIndexMapper(img.Geometry)
	covers, err := maskLookup(img.Geometry, mask)
	if err != nil {
		return Centroid{}, err
	}

	var mass, absMass float64
	var count int
	sum := make([]float64, n)
	p := make([]float64, n)
	index := make([]int, n)
	for offset, value := range img.Data {
		if value == 0 {
			continue
		}
		volume.IndexOf(img.Geometry.Size, offset, index)
		mapper.Map(index, p)
		if covers != nil && !covers(offset, p) {
			continue
		}
		mass += value
		absMass += math.Abs(value)
		count++
		floats.AddScaled(sum, value, p)
	}

	if math.IsNaN(mass) || math.Abs(mass) < DegenerateMassTolerance ||
		math.Abs(mass) < DegenerateRelativeTolerance*absMass {
		return Centroid{}, fmt.Errorf("%w (mass %g, absolute mass %g over %d samples)",
			ErrDegenerate, mass, absMass, count)
	}

	floats.Scale(1/mass, sum)
	centroid := Centroid{Point: models.Point(sum), Mass: mass}

	c.centroid = centroid
	c.computed = true
	return centroid, nil
}

// Computed reports whether the last call to Compute succeeded.
func (c *ImageCalculator) Computed() bool { return c.computed }

// CenterOfGravity returns the centroid of the last successful computation.
func (c *ImageCalculator) CenterOfGravity() models.Point {
	return c.centroid.Point.Clone()
}

// TotalMass returns the mass of the last successful computation.
func (c *ImageCalculator) TotalMass() float64 { return c.centroid.Mass }

// maskLookup returns the inclusion test for mask, or nil when there is
// no mask. A mask on the image's own grid is addressed by sample offset;
// any other mask is looked up through physical coordinates, and points
// outside its grid are excluded.
func maskLookup(g models.ImageGeometry, mask *volume.Mask) (func(offset int, p []float64) bool, error) {
	if mask == nil {
		return nil, nil
	}
	if geometry.SameGrid(g, mask.Geometry) {
		return func(offset int, _ []float64) bool {
			return mask.Data[offset] != 0
		}, nil
	}
	pm, err := geometry.NewPhysicalMapper(mask.Geometry)
	if err != nil {
		return nil, fmt.Errorf("invalid mask geometry: %w", err)
	}
	index := make([]int, mask.Dimension())
	return func(_ int, p []float64) bool {
		return pm.Index(p, index) && mask.Inside(index)
	}, nil
}
