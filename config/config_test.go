package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, float32(0.25), cfg.ConfidenceThreshold)
	assert.Equal(t, Grid{Height: 12, Width: 12}, cfg.Grid)
	assert.Positive(t, cfg.Workers)
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
grid:
  height: 4
  width: 6
confidenceThreshold: 0.5
workers: 2
`))
	require.NoError(t, err)
	assert.Equal(t, Grid{Height: 4, Width: 6}, cfg.Grid)
	assert.Equal(t, float32(0.5), cfg.ConfidenceThreshold)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "zero grid", yaml: "grid: {height: 0, width: 4}"},
		{name: "threshold above one", yaml: "confidenceThreshold: 1.5"},
		{name: "negative workers", yaml: "workers: -1"},
		{name: "malformed", yaml: "grid: ["},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fomo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grid: {height: 8, width: 8}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Grid.Height)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
