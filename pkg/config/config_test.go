package config

import (
	"os"
	"path/filepath"
	"testing"

	"transforminit/internal/models"
	"transforminit/pkg/initializer"
	"transforminit/pkg/volume"
)

// TestLoadConfigMissingFile falls back to the defaults
func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Initialization.Mode != initializer.Geometry {
		t.Errorf("Expected default mode geometry, got %s", cfg.Initialization.Mode)
	}
	if cfg.Output.ParameterFile != "TransformParameters.yaml" {
		t.Errorf("Unexpected default parameter file %q", cfg.Output.ParameterFile)
	}
}

// TestSaveLoadRoundTrip writes a configuration and reads it back
func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "transforminit.yaml")

	cfg := DefaultConfig()
	cfg.Initialization.Mode = initializer.GeometryTop
	cfg.Fixed.Path = "fixed.bin"
	cfg.Fixed.Size = []int{10, 10, 10}
	cfg.Fixed.Spacing = []float64{1, 1, 1}
	cfg.Fixed.Origin = []float64{0, 0, 0}
	cfg.Moving.Direction = []float64{1, 0, 0, 1}

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Initialization.Mode != initializer.GeometryTop {
		t.Errorf("Expected mode geometrytop, got %s", loaded.Initialization.Mode)
	}
	if loaded.Fixed.Path != "fixed.bin" || len(loaded.Fixed.Size) != 3 {
		t.Errorf("Fixed image config not restored: %+v", loaded.Fixed)
	}
	if len(loaded.Moving.Direction) != 4 {
		t.Errorf("Expected 4 direction entries, got %v", loaded.Moving.Direction)
	}
}

// TestLoadConfigInvalidYAML reports parse errors
func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("initialization:\n  mode: sideways\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Errorf("Expected an error for an unknown mode")
	}
}

// TestImageConfigGeometry converts the YAML description into a geometry
func TestImageConfigGeometry(t *testing.T) {
	ic := ImageConfig{
		Size:      []int{4, 4},
		Spacing:   []float64{0.5, 2},
		Direction: []float64{0, -1, 1, 0},
	}
	g, err := ic.Geometry()
	if err != nil {
		t.Fatalf("Geometry failed: %v", err)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Expected a valid geometry, got %v", err)
	}
	if len(g.Origin) != 2 || g.Origin[0] != 0 || g.Origin[1] != 0 {
		t.Errorf("Expected zero origin, got %v", g.Origin)
	}
	if g.Direction.At(0, 1) != -1 {
		t.Errorf("Direction should be read row by row")
	}

	ic.Direction = []float64{1, 0, 0}
	if _, err := ic.Geometry(); err == nil {
		t.Errorf("Expected an error for a short direction")
	}
	if _, err := (ImageConfig{}).Geometry(); err == nil {
		t.Errorf("Expected an error for a missing spacing")
	}
}

// TestImageConfigLoad reads a raw image with its mask
func TestImageConfigLoad(t *testing.T) {
	dir := t.TempDir()
	g := models.NewImageGeometry([]int{2, 2}, []float64{1, 1}, models.Point{0, 0})
	img, _ := volume.NewUniformImage(g, 3)
	imgPath := filepath.Join(dir, "img.bin")
	if err := volume.SaveRaw(imgPath, img); err != nil {
		t.Fatalf("SaveRaw failed: %v", err)
	}
	maskPath := filepath.Join(dir, "mask.raw")
	if err := os.WriteFile(maskPath, []byte{1, 0, 0, 1}, 0644); err != nil {
		t.Fatalf("Failed to write mask: %v", err)
	}

	ic := ImageConfig{Path: imgPath, Format: FormatRaw, Size: []int{2, 2}, Spacing: []float64{1, 1}, MaskPath: maskPath}
	loaded, mask, err := ic.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.At([]int{1, 1}) != 3 {
		t.Errorf("Expected sample value 3, got %g", loaded.At([]int{1, 1}))
	}
	if mask == nil || !mask.Inside([]int{0, 0}) || mask.Inside([]int{1, 0}) {
		t.Errorf("Mask not loaded as expected")
	}

	ic.Format = "dicom"
	if _, _, err := ic.Load(); err == nil {
		t.Errorf("Expected an error for an unknown format")
	}
}
