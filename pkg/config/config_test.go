package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadConfigMissingFile verifies defaults are returned when no file exists
func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Expected defaults for a missing file, got error: %v", err)
	}
	if cfg.Layer.TailLength != 30 {
		t.Errorf("Expected default tail length 30, got %d", cfg.Layer.TailLength)
	}
	if cfg.Layer.Colormap != "turbo" {
		t.Errorf("Expected default colormap turbo, got %s", cfg.Layer.Colormap)
	}
}

// TestLoadConfigOverrides verifies file values override defaults
func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ndtracks.yaml")
	content := "layer:\n  tailLength: 5\n  colormap: viridis\nrender:\n  width: 320\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Layer.TailLength != 5 || cfg.Layer.Colormap != "viridis" {
		t.Errorf("Expected tail length 5 and viridis, got %d and %s", cfg.Layer.TailLength, cfg.Layer.Colormap)
	}
	if cfg.Render.Width != 320 || cfg.Render.Height != 600 {
		t.Errorf("Expected 320x600 frames, got %dx%d", cfg.Render.Width, cfg.Render.Height)
	}

	p := cfg.LayerParams()
	if p.TailLength != 5 || p.Colormap != "viridis" {
		t.Errorf("Expected layer params to follow the config, got %+v", p)
	}
}

// TestLoadConfigInvalid verifies unknown colormaps and bad YAML are rejected
func TestLoadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"colormap.yaml": "layer:\n  colormap: rainbow-unicorn\n",
		"syntax.yaml":   "layer: [unclosed\n",
		"width.yaml":    "render:\n  width: -1\n",
	}
	for name, content := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Errorf("Expected error loading %s", name)
		}
	}
}

// TestCreateDefaultConfigFile verifies a written default file loads back
func TestCreateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ndtracks.yaml")
	if err := CreateDefaultConfigFile(path); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load created config: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("Expected defaults after reload, got %+v", cfg)
	}
}
