package transform

import (
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"transforminit/internal/models"
)

// TestNewCenteredAffine verifies the identity defaults
func TestNewCenteredAffine(t *testing.T) {
	tr := NewCenteredAffine(3)
	if tr.InputSpaceDimension() != 3 || tr.OutputSpaceDimension() != 3 {
		t.Errorf("Expected 3-D transform, got %d/%d", tr.InputSpaceDimension(), tr.OutputSpaceDimension())
	}
	p := models.Point{1, 2, 3}
	if got := tr.TransformPoint(p); !floats.Equal(got, p) {
		t.Errorf("Expected identity mapping, got %v", got)
	}
	if got := tr.Parameters(); !floats.Equal(got, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0}) {
		t.Errorf("Unexpected parameters %v", got)
	}
}

// TestCenterAndTranslationAreCopied makes sure callers cannot alias the state
func TestCenterAndTranslationAreCopied(t *testing.T) {
	tr := NewCenteredAffine(2)
	c := models.Point{1, 1}
	tr.SetCenter(c)
	c[0] = 5
	if tr.Center()[0] != 1 {
		t.Errorf("SetCenter kept a reference to the caller's slice")
	}
	got := tr.Translation()
	got[0] = 9
	if tr.Translation()[0] != 0 {
		t.Errorf("Translation returned internal storage")
	}
}

// TestOffsetWithRotation checks t + c − A·c for a 90 degree rotation
func TestOffsetWithRotation(t *testing.T) {
	tr := NewCenteredAffine(2)
	if err := tr.SetMatrix(mat.NewDense(2, 2, []float64{0, -1, 1, 0})); err != nil {
		t.Fatalf("SetMatrix failed: %v", err)
	}
	tr.SetCenter(models.Point{1, 0})
	tr.SetTranslation(models.Vector{0, 2})

	// A·c = (0, 1), offset = (0,2) + (1,0) − (0,1)
	if got := tr.Offset(); !floats.EqualApprox(got, []float64{1, 1}, 1e-12) {
		t.Errorf("Expected offset (1,1), got %v", got)
	}
	// The center maps onto center + translation
	if got := tr.TransformPoint(models.Point{1, 0}); !floats.EqualApprox(got, []float64{1, 2}, 1e-12) {
		t.Errorf("Expected (1,2), got %v", got)
	}

	if err := tr.SetMatrix(mat.NewDense(3, 3, nil)); err == nil {
		t.Errorf("Expected an error for a matrix of the wrong size")
	}
}

// TestParameterFileRoundTrip saves and reloads a transform
func TestParameterFileRoundTrip(t *testing.T) {
	tr := NewCenteredAffine(3)
	tr.SetCenter(models.Point{4.5, 4.5, 4.5})
	tr.SetTranslation(models.Vector{5, 5, 5})

	path := filepath.Join(t.TempDir(), "out", "TransformParameters.yaml")
	if err := SaveParameters(path, tr, "geometry"); err != nil {
		t.Fatalf("SaveParameters failed: %v", err)
	}

	loaded, pf, err := LoadParameters(path)
	if err != nil {
		t.Fatalf("LoadParameters failed: %v", err)
	}
	if pf.NumberOfParameters != 12 {
		t.Errorf("Expected 12 parameters, got %d", pf.NumberOfParameters)
	}
	if pf.InitializationMode != "geometry" {
		t.Errorf("Expected mode geometry, got %q", pf.InitializationMode)
	}
	if !floats.Equal(loaded.Center(), tr.Center()) {
		t.Errorf("Expected center %v, got %v", tr.Center(), loaded.Center())
	}
	if !floats.Equal(loaded.Parameters(), tr.Parameters()) {
		t.Errorf("Expected parameters %v, got %v", tr.Parameters(), loaded.Parameters())
	}
}

// TestRestoreRejectsInconsistentRecords covers malformed parameter files
func TestRestoreRejectsInconsistentRecords(t *testing.T) {
	tests := []struct {
		name string
		pf   ParameterFile
	}{
		{"zero dimension", ParameterFile{Dimension: 0}},
		{"short parameters", ParameterFile{Dimension: 2, Parameters: []float64{1, 0, 0, 1}, CenterOfRotation: []float64{0, 0}}},
		{"short center", ParameterFile{Dimension: 2, Parameters: []float64{1, 0, 0, 1, 0, 0}, CenterOfRotation: []float64{0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.pf.Restore(); err == nil {
				t.Errorf("Expected an error")
			}
		})
	}
}
