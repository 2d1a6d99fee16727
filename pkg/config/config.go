// Package config provides configuration loading and management for the
// surface extraction commands. It handles loading configuration from YAML
// files and provides default values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Marker kinds accepted by Tracking.Marker
const (
	MarkerMemory = "memory"
	MarkerLSM    = "lsm"
)

// ErrInvalid is wrapped by every error returned by Validate
var ErrInvalid = errors.New("invalid configuration")

// Config represents the application configuration loaded from YAML
type Config struct {
	// Threshold selects the voxels making up the shape
	Threshold struct {
		// Min is the smallest voxel value inside the shape (inclusive)
		Min int `yaml:"min"`

		// Max is the largest voxel value inside the shape (inclusive)
		Max int `yaml:"max"`
	} `yaml:"threshold"`

	// Tracking parameters
	Tracking struct {
		// Interior selects the interior adjacency for every pair of
		// directions; exterior adjacency otherwise
		Interior bool `yaml:"interior"`

		// MaxTrials bounds the random search for a first bel
		MaxTrials int `yaml:"maxTrials"`

		// Seed of the random generator used by the bel search
		Seed int64 `yaml:"seed"`

		// Marker is the visited set of the traversals: "memory" or "lsm"
		Marker string `yaml:"marker"`

		// LSMDir holds the lsm marker files; empty keeps them in memory
		LSMDir string `yaml:"lsmDir"`
	} `yaml:"tracking"`

	// Visitor parameters
	Visitor struct {
		// Source is the reference point of the distance traversal. The
		// traversal starts at the surfel nearest to it; when empty it starts
		// at the first bel found and distances are measured from there.
		Source []float64 `yaml:"source,omitempty"`
	} `yaml:"visitor"`

	// Render parameters
	Render struct {
		// Enabled turns image output on
		Enabled bool `yaml:"enabled"`

		// Dir is the directory images are written to
		Dir string `yaml:"dir"`

		// Axis is the projection axis: x, y or z
		Axis string `yaml:"axis"`

		// Scale is the number of pixels per spel
		Scale int `yaml:"scale"`

		// HueCycles is how many times the distance colormap runs through
		// the hue circle
		HueCycles int `yaml:"hueCycles"`

		// Slices also writes one contour image per spel layer along Axis
		Slices bool `yaml:"slices"`
	} `yaml:"render"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Threshold.Min = 1
	cfg.Threshold.Max = 255

	cfg.Tracking.Interior = true
	cfg.Tracking.MaxTrials = 100000
	cfg.Tracking.Seed = 1
	cfg.Tracking.Marker = MarkerMemory

	cfg.Render.Enabled = false
	cfg.Render.Dir = "render"
	cfg.Render.Axis = "z"
	cfg.Render.Scale = 4
	cfg.Render.HueCycles = 1

	cfg.Output.Verbose = false

	return cfg
}

// Validate reports the first inconsistent value
func (c *Config) Validate() error {
	if c.Threshold.Min > c.Threshold.Max {
		return fmt.Errorf("%w: threshold min %d above max %d", ErrInvalid, c.Threshold.Min, c.Threshold.Max)
	}
	if c.Tracking.MaxTrials < 1 {
		return fmt.Errorf("%w: maxTrials must be positive, got %d", ErrInvalid, c.Tracking.MaxTrials)
	}
	switch c.Tracking.Marker {
	case MarkerMemory, MarkerLSM:
	default:
		return fmt.Errorf("%w: unknown marker %q", ErrInvalid, c.Tracking.Marker)
	}
	if n := len(c.Visitor.Source); n != 0 && n != 3 {
		return fmt.Errorf("%w: visitor source needs 3 coordinates, got %d", ErrInvalid, n)
	}
	switch c.Render.Axis {
	case "x", "y", "z":
	default:
		return fmt.Errorf("%w: render axis must be x, y or z, got %q", ErrInvalid, c.Render.Axis)
	}
	if c.Render.Scale < 1 {
		return fmt.Errorf("%w: render scale must be positive, got %d", ErrInvalid, c.Render.Scale)
	}
	if c.Render.HueCycles < 1 {
		return fmt.Errorf("%w: hueCycles must be positive, got %d", ErrInvalid, c.Render.HueCycles)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

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
