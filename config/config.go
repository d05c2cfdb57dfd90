// Package config - configuration for FOMO target construction and evaluation.
package config

import (
	"os"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultConfidenceThreshold is the minimum softmax probability a predicted
// cell needs to keep its arg-max class.
const DefaultConfidenceThreshold float32 = 0.25

// Grid is the size of the FOMO output lattice.
type Grid struct {
	Height int `json:"height" yaml:"height"`
	Width  int `json:"width"  yaml:"width"`
}

// Config holds the evaluation parameters.
type Config struct {
	Grid                Grid    `json:"grid"                yaml:"grid"`
	ConfidenceThreshold float32 `json:"confidenceThreshold" yaml:"confidenceThreshold"`
	// Number of goroutines used by dataset evaluation.
	Workers  int    `json:"workers"  yaml:"workers"`
	LogLevel string `json:"logLevel" yaml:"logLevel"`
}

// Default returns the configuration for a 96x96 input with an 8x downsampling backbone.
func Default() Config {
	return Config{
		Grid:                Grid{Height: 12, Width: 12},
		ConfidenceThreshold: DefaultConfidenceThreshold,
		Workers:             runtime.NumCPU(),
		LogLevel:            "info",
	}
}

// Parse decodes YAML on top of Default and validates the result.
//
// Arguments:
//   - data: The YAML document.
//
// Returns:
//   - Config: The merged configuration.
//   - error: An error if decoding or validation fails.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "config decoding failed")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses a YAML configuration file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading config %s", path)
	}
	return Parse(data)
}

// Validate checks that every field is usable.
func (c Config) Validate() error {
	if c.Grid.Height <= 0 || c.Grid.Width <= 0 {
		return errors.Errorf("grid must be positive, got %dx%d", c.Grid.Height, c.Grid.Width)
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return errors.Errorf("confidence threshold %f outside [0, 1]", c.ConfidenceThreshold)
	}
	if c.Workers <= 0 {
		return errors.Errorf("workers must be positive, got %d", c.Workers)
	}
	return nil
}
