// Package volume holds N-dimensional scalar images and binary masks
// together with their physical geometry.
package volume

import (
	"fmt"

	"transforminit/internal/models"
)

// Image is a scalar N-dimensional image. Samples are stored row-major
// with axis 0 varying fastest.
type Image struct {
	Geometry models.ImageGeometry
	Data     []float64
}

// Mask marks the samples of a grid that take part in a computation.
// A sample is included iff its value is nonzero.
type Mask struct {
	Geometry models.ImageGeometry
	Data     []uint8
}

// NewImage allocates a zero-filled image for the given geometry.
func NewImage(g models.ImageGeometry) (*Image, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid image geometry: %w", err)
	}
	return &Image{
		Geometry: g,
		Data:     make([]float64, g.NumberOfSamples()),
	}, nil
}

// NewUniformImage allocates an image whose every sample equals value.
func NewUniformImage(g models.ImageGeometry, value float64) (*Image, error) {
	img, err := NewImage(g)
	if err != nil {
		return nil, err
	}
	for i := range img.Data {
		img.Data[i] = value
	}
	return img, nil
}

// NewMask allocates an all-zero mask for the given geometry.
func NewMask(g models.ImageGeometry) (*Mask, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mask geometry: %w", err)
	}
	return &Mask{
		Geometry: g,
		Data:     make([]uint8, g.NumberOfSamples()),
	}, nil
}

// Dimension returns the number of axes of the image.
func (img *Image) Dimension() int { return img.Geometry.Dimension() }

// Len returns the number of samples.
func (img *Image) Len() int { return len(img.Data) }

// At returns the sample at the given grid index.
func (img *Image) At(index []int) float64 {
	return img.Data[Offset(img.Geometry.Size, index)]
}

// Set stores value at the given grid index.
func (img *Image) Set(index []int, value float64) {
	img.Data[Offset(img.Geometry.Size, index)] = value
}

// Dimension returns the number of axes of the mask.
func (m *Mask) Dimension() int { return m.Geometry.Dimension() }

// Inside reports whether the sample at index is included by the mask.
func (m *Mask) Inside(index []int) bool {
	return m.Data[Offset(m.Geometry.Size, index)] != 0
}

// Set marks the sample at index as included or excluded.
func (m *Mask) Set(index []int, inside bool) {
	var v uint8
	if inside {
		v = 1
	}
	m.Data[Offset(m.Geometry.Size, index)] = v
}

// Offset converts a grid index into a position in the sample slice.
func Offset(size, index []int) int {
	offset := 0
	stride := 1
	for axis := range size {
		offset += index[axis] * stride
		stride *= size[axis]
	}
	return offset
}

// IndexOf is the inverse of Offset; it writes the grid index of offset
// into index, which must have len(size) elements.
func IndexOf(size []int, offset int, index []int) {
	for axis, s := range size {
		index[axis] = offset % s
		offset /= s
	}
}
