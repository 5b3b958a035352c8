// Package config provides configuration loading and management for transforminit.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"transforminit/internal/models"
	"transforminit/pkg/initializer"
)

// Image formats understood by ImageConfig.Format.
const (
	FormatRaw     = "raw"
	FormatPicture = "picture"
)

// ImageConfig describes where an image is stored and how its grid maps
// into physical space
type ImageConfig struct {
	// Path is the file holding the samples
	Path string `yaml:"path"`

	// Format is either "raw" (little-endian float64) or "picture" (2-D PNG/JPEG/TIFF/BMP)
	Format string `yaml:"format"`

	// Size is the number of samples per axis; optional for pictures
	Size []int `yaml:"size,omitempty"`

	// Spacing is the physical sample distance per axis in mm
	Spacing []float64 `yaml:"spacing"`

	// Origin is the physical position of the first sample
	Origin []float64 `yaml:"origin"`

	// Direction holds the direction cosine matrix row by row; empty means identity
	Direction []float64 `yaml:"direction,omitempty"`

	// MaskPath optionally points at a raw byte mask aligned with the image
	MaskPath string `yaml:"maskPath,omitempty"`
}

// Config represents the application configuration loaded from YAML
type Config struct {
	// Fixed and Moving describe the two images of the registration
	Fixed  ImageConfig `yaml:"fixed"`
	Moving ImageConfig `yaml:"moving"`

	// Initialization parameters
	Initialization struct {
		// Mode selects the initialization strategy
		Mode initializer.Mode `yaml:"mode"`
	} `yaml:"initialization"`

	// Output parameters
	Output struct {
		// ParameterFile is where the initialized transform is written
		ParameterFile string `yaml:"parameterFile"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Fixed = ImageConfig{Format: FormatRaw}
	cfg.Moving = ImageConfig{Format: FormatRaw}

	cfg.Initialization.Mode = initializer.Geometry

	cfg.Output.ParameterFile = "TransformParameters.yaml"
	cfg.Output.Verbose = false

	return cfg
}

// Geometry converts the image description into an ImageGeometry.
// Size may be empty for pictures; it is filled in when the file is read.
func (ic ImageConfig) Geometry() (models.ImageGeometry, error) {
	n := len(ic.Spacing)
	if n == 0 {
		return models.ImageGeometry{}, fmt.Errorf("image %q has no spacing", ic.Path)
	}
	g := models.ImageGeometry{
		Origin:  models.Point(append([]float64(nil), ic.Origin...)),
		Spacing: append([]float64(nil), ic.Spacing...),
		Size:    append([]int(nil), ic.Size...),
	}
	if len(g.Origin) == 0 {
		g.Origin = make(models.Point, n)
	}
	if len(ic.Direction) > 0 {
		if len(ic.Direction) != n*n {
			return models.ImageGeometry{}, fmt.Errorf("image %q direction has %d entries, expected %d",
				ic.Path, len(ic.Direction), n*n)
		}
		g.Direction = mat.NewDense(n, n, append([]float64(nil), ic.Direction...))
	}
	return g, nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
