package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 300, cfg.Window.Width)
	assert.Equal(t, 300, cfg.Window.Height)
	assert.Equal(t, 32, cfg.Torus.Rows)
	assert.Equal(t, 32, cfg.Torus.Columns)
	assert.Equal(t, float32(1), cfg.Torus.InnerRadius)
	assert.Equal(t, float32(2), cfg.Torus.OuterRadius)
	assert.Equal(t, 30.0, cfg.Render.FrameRate)
	assert.Equal(t, time.Second/30, cfg.Delay())
	assert.True(t, cfg.Render.VSync)
	assert.Equal(t, uint32(1), cfg.Render.MSAA)
	assert.Equal(t, [4]float64{0, 0, 0, 1}, cfg.Render.ClearColor)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "torus.toml", `
[window]
title = "spin"
width = 640

[torus]
rows = 48
outer_radius = 3.5
workers = 4

[render]
frame_rate = 60.0
msaa = 4
clear_color = [0.1, 0.2, 0.3, 1.0]

[log]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "spin", cfg.Window.Title)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 300, cfg.Window.Height)
	assert.Equal(t, 48, cfg.Torus.Rows)
	assert.Equal(t, 32, cfg.Torus.Columns)
	assert.Equal(t, float32(3.5), cfg.Torus.OuterRadius)
	assert.Equal(t, 4, cfg.Torus.Workers)
	assert.Equal(t, 60.0, cfg.Render.FrameRate)
	assert.Equal(t, uint32(4), cfg.Render.MSAA)
	assert.Equal(t, [4]float64{0.1, 0.2, 0.3, 1.0}, cfg.Render.ClearColor)

	level, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "torus.yml", `
window:
  height: 200
torus:
  columns: 16
  saturation: 0.5
render:
  vsync: false
  profile: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 200, cfg.Window.Height)
	assert.Equal(t, 16, cfg.Torus.Columns)
	assert.Equal(t, float32(0.5), cfg.Torus.Saturation)
	assert.False(t, cfg.Render.VSync)
	assert.True(t, cfg.Render.Profile)
	assert.Len(t, cfg.SessionOptions(), 7)
}

func TestLoadEmptyYAMLKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "empty.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown extension", "torus.json", `{}`},
		{"unknown toml key", "torus.toml", "[torus]\nspokes = 3\n"},
		{"unknown yaml key", "torus.yaml", "torus:\n  spokes: 3\n"},
		{"malformed toml", "torus.toml", "[torus\n"},
		{"invalid value", "torus.toml", "[torus]\nrows = 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"zero height", func(c *Config) { c.Window.Height = 0 }},
		{"zero rows", func(c *Config) { c.Torus.Rows = 0 }},
		{"zero columns", func(c *Config) { c.Torus.Columns = 0 }},
		{"too many vertices", func(c *Config) { c.Torus.Rows, c.Torus.Columns = 256, 256 }},
		{"zero inner radius", func(c *Config) { c.Torus.InnerRadius = 0 }},
		{"negative outer radius", func(c *Config) { c.Torus.OuterRadius = -1 }},
		{"saturation above one", func(c *Config) { c.Torus.Saturation = 1.5 }},
		{"negative alpha", func(c *Config) { c.Torus.Alpha = -0.1 }},
		{"zero workers", func(c *Config) { c.Torus.Workers = 0 }},
		{"zero frame rate", func(c *Config) { c.Render.FrameRate = 0 }},
		{"msaa 2", func(c *Config) { c.Render.MSAA = 2 }},
		{"clear color out of range", func(c *Config) { c.Render.ClearColor[2] = 2 }},
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLargestTorusIsValid(t *testing.T) {
	cfg := Default()
	cfg.Torus.Rows, cfg.Torus.Columns = 255, 255
	assert.NoError(t, cfg.Validate())
}

func TestOptionHelpers(t *testing.T) {
	cfg := Default()

	assert.Len(t, cfg.SessionOptions(), 6)
	assert.Len(t, cfg.WindowOptions(), 3)
	assert.Len(t, cfg.RendererOptions(), 5)
}

func TestExampleConfigLoads(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "examples", "torus.toml"))
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Torus.Workers)
	assert.Equal(t, Default().Window, cfg.Window)
	assert.Equal(t, Default().Render, cfg.Render)
}
