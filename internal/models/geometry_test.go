package models

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

// TestValidate covers the geometry invariants
func TestValidate(t *testing.T) {
	valid := NewImageGeometry([]int{4, 5}, []float64{1, 2}, Point{0, 0})

	tests := []struct {
		name    string
		modify  func(g *ImageGeometry)
		wantErr bool
	}{
		{"valid", func(g *ImageGeometry) {}, false},
		{"no axes", func(g *ImageGeometry) { g.Size = nil }, true},
		{"short origin", func(g *ImageGeometry) { g.Origin = Point{0} }, true},
		{"short spacing", func(g *ImageGeometry) { g.Spacing = []float64{1} }, true},
		{"zero size", func(g *ImageGeometry) { g.Size = []int{4, 0} }, true},
		{"zero spacing", func(g *ImageGeometry) { g.Spacing = []float64{1, 0} }, true},
		{"negative spacing", func(g *ImageGeometry) { g.Spacing = []float64{-1, 1} }, true},
		{"rotation", func(g *ImageGeometry) { g.Direction = mat.NewDense(2, 2, []float64{0, 1, -1, 0}) }, false},
		{"wrong direction shape", func(g *ImageGeometry) { g.Direction = mat.NewDense(3, 3, nil) }, true},
		{"sheared direction", func(g *ImageGeometry) { g.Direction = mat.NewDense(2, 2, []float64{1, 1, 0, 1}) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewImageGeometry(valid.Size, valid.Spacing, valid.Origin)
			tt.modify(&g)
			err := g.Validate()
			if tt.wantErr && err == nil {
				t.Errorf("Expected an error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

// TestNumberOfSamples checks the product of sizes
func TestNumberOfSamples(t *testing.T) {
	g := NewImageGeometry([]int{3, 4, 5}, []float64{1, 1, 1}, Point{0, 0, 0})
	if n := g.NumberOfSamples(); n != 60 {
		t.Errorf("Expected 60 samples, got %d", n)
	}
	if n := (ImageGeometry{}).NumberOfSamples(); n != 0 {
		t.Errorf("Expected 0 samples for an empty geometry, got %d", n)
	}
}

// TestDirectionMatrixDefault checks the identity fallback
func TestDirectionMatrixDefault(t *testing.T) {
	g := NewImageGeometry([]int{2, 2, 2}, []float64{1, 1, 1}, Point{0, 0, 0})
	d := g.DirectionMatrix()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if d.At(i, j) != want {
				t.Errorf("Expected D[%d][%d]=%g, got %g", i, j, want, d.At(i, j))
			}
		}
	}
}
