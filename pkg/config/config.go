// Package config provides configuration loading and management for ndtracks.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"ndtracks/pkg/colormap"
	"ndtracks/pkg/tracks"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Layer display parameters
	Layer struct {
		// TailLength is how far back in time a track is drawn
		TailLength int `yaml:"tailLength"`

		// HeadLength is how far ahead in time a track is drawn
		HeadLength int `yaml:"headLength"`

		// TailWidth is the line width of rendered tracks
		TailWidth float64 `yaml:"tailWidth"`

		// Colormap names the colormap used for properties
		Colormap string `yaml:"colormap"`

		// ColorBy is the property used for colouring when the file names none
		ColorBy string `yaml:"colorBy"`
	} `yaml:"layer"`

	// Frame rendering parameters
	Render struct {
		// Width and Height of rendered frames in pixels
		Width  int `yaml:"width"`
		Height int `yaml:"height"`

		// PointRadius is the radius of the markers drawn at the current time
		PointRadius float64 `yaml:"pointRadius"`

		// Background is a hex colour such as "#000000"
		Background string `yaml:"background"`

		// ShowGraph draws lineage edges between parent and child tracks
		ShowGraph bool `yaml:"showGraph"`

		// ShowLabels draws "ID:n" next to each point at the current time
		ShowLabels bool `yaml:"showLabels"`

		// OutputDir is where frame sequences are written
		OutputDir string `yaml:"outputDir"`
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

	cfg.Layer.TailLength = tracks.DefaultTailLength
	cfg.Layer.HeadLength = tracks.DefaultHeadLength
	cfg.Layer.TailWidth = tracks.DefaultTailWidth
	cfg.Layer.Colormap = colormap.Default
	cfg.Layer.ColorBy = tracks.ColTrackID

	cfg.Render.Width = 800
	cfg.Render.Height = 600
	cfg.Render.PointRadius = 3
	cfg.Render.Background = "#000000"
	cfg.Render.ShowGraph = true
	cfg.Render.ShowLabels = false
	cfg.Render.OutputDir = "frames"

	cfg.Output.Verbose = false

	return cfg
}

// Validate checks values that cannot be fixed up later
func (c *Config) Validate() error {
	if c.Layer.TailLength < 0 || c.Layer.HeadLength < 0 {
		return fmt.Errorf("tail and head length must be non-negative")
	}
	if c.Layer.TailWidth <= 0 {
		return fmt.Errorf("tail width must be positive, got %v", c.Layer.TailWidth)
	}
	if _, err := colormap.Get(c.Layer.Colormap); err != nil {
		return err
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("frame size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	}
	return nil
}

// LayerParams converts the layer section into tracks.Params
func (c *Config) LayerParams() *tracks.Params {
	p := tracks.DefaultParams()
	p.TailLength = c.Layer.TailLength
	p.HeadLength = c.Layer.HeadLength
	p.TailWidth = c.Layer.TailWidth
	p.Colormap = c.Layer.Colormap
	if c.Layer.ColorBy != "" {
		p.ColorBy = c.Layer.ColorBy
	}
	return p
}

// LoadConfig reads and validates a YAML config. A missing file yields the defaults.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

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

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes cfg as YAML, creating parent directories.
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

// CreateDefaultConfigFile writes DefaultConfig to configPath.
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
