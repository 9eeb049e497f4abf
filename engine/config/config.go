// Package config loads and validates the settings a torus host is built from.
//
// A Config starts from Default and may be overlaid by a TOML or YAML file. Unknown keys are rejected.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-torus/engine/mesh"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every load and validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// maxFileSize bounds the config files Load will read.
const maxFileSize = 1 << 20

// Config is the complete host configuration.
type Config struct {
	Window WindowConfig `toml:"window" yaml:"window"`
	Torus  TorusConfig  `toml:"torus" yaml:"torus"`
	Render RenderConfig `toml:"render" yaml:"render"`
	Log    LogConfig    `toml:"log" yaml:"log"`
}

// WindowConfig sizes and titles the window. The surface and the projection aspect follow it.
type WindowConfig struct {
	Title  string `toml:"title" yaml:"title"`
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
}

// TorusConfig shapes and colors the generated mesh.
type TorusConfig struct {
	Rows        int     `toml:"rows" yaml:"rows"`
	Columns     int     `toml:"columns" yaml:"columns"`
	InnerRadius float32 `toml:"inner_radius" yaml:"inner_radius"`
	OuterRadius float32 `toml:"outer_radius" yaml:"outer_radius"`
	Saturation  float32 `toml:"saturation" yaml:"saturation"`
	Value       float32 `toml:"value" yaml:"value"`
	Alpha       float32 `toml:"alpha" yaml:"alpha"`
	Workers     int     `toml:"workers" yaml:"workers"`
}

// RenderConfig controls the frame loop and the GPU backend.
type RenderConfig struct {
	FrameRate       float64    `toml:"frame_rate" yaml:"frame_rate"`
	VSync           bool       `toml:"vsync" yaml:"vsync"`
	MSAA            uint32     `toml:"msaa" yaml:"msaa"`
	Software        bool       `toml:"software" yaml:"software"`
	ClearColor      [4]float64 `toml:"clear_color" yaml:"clear_color"`
	ValidateShaders bool       `toml:"validate_shaders" yaml:"validate_shaders"`
	Profile         bool       `toml:"profile" yaml:"profile"`
}

// LogConfig selects the log level: debug, info, warn or error.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// Default returns the configuration of the reference scene: a 300x300 canvas showing a 32x32
// torus of radii 1 and 2, redrawn 30 times a second on an opaque black background.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "oxy-torus",
			Width:  300,
			Height: 300,
		},
		Torus: TorusConfig{
			Rows:        32,
			Columns:     32,
			InnerRadius: 1,
			OuterRadius: 2,
			Saturation:  1,
			Value:       1,
			Alpha:       1,
			Workers:     1,
		},
		Render: RenderConfig{
			FrameRate:       30,
			VSync:           true,
			MSAA:            1,
			ClearColor:      [4]float64{0, 0, 0, 1},
			ValidateShaders: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path over Default and validates the result. The format is chosen by extension:
// .toml, .yaml or .yml.
//
// Parameters:
//   - path: the config file to read
//
// Returns:
//   - Config: the loaded configuration
//   - error: an error wrapping ErrInvalidConfig if the file cannot be read, parsed or validated
func Load(path string) (Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if info.Size() > maxFileSize {
		return Config{}, fmt.Errorf("%w: %s is %d bytes", ErrInvalidConfig, path, info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return Parse(data, FormatTOML)
	case ".yaml", ".yml":
		return Parse(data, FormatYAML)
	default:
		return Config{}, fmt.Errorf("%w: unsupported extension %q", ErrInvalidConfig, ext)
	}
}

// Format is a config file encoding.
type Format int

const (
	// FormatTOML decodes with go-toml.
	FormatTOML Format = iota
	// FormatYAML decodes with yaml.v3.
	FormatYAML
)

// Parse decodes data over Default and validates the result.
func Parse(data []byte, format Format) (Config, error) {
	cfg := Default()
	var err error
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&cfg)
		// An empty document leaves the defaults in place.
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		err = fmt.Errorf("unknown format %d", format)
	}
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field against the ranges the components accept.
//
// Returns:
//   - error: an error wrapping ErrInvalidConfig naming the first bad field
func (c Config) Validate() error {
	bad := func(field string, v any) error {
		return fmt.Errorf("%w: %s = %v", ErrInvalidConfig, field, v)
	}

	if c.Window.Width <= 0 {
		return bad("window.width", c.Window.Width)
	}
	if c.Window.Height <= 0 {
		return bad("window.height", c.Window.Height)
	}

	t := c.Torus
	if t.Rows < 1 {
		return bad("torus.rows", t.Rows)
	}
	if t.Columns < 1 {
		return bad("torus.columns", t.Columns)
	}
	if (t.Rows+1)*(t.Columns+1) > mesh.MaxVertices {
		return bad("torus.rows*columns", fmt.Sprintf("%dx%d", t.Rows, t.Columns))
	}
	if !(t.InnerRadius > 0) {
		return bad("torus.inner_radius", t.InnerRadius)
	}
	if !(t.OuterRadius > 0) {
		return bad("torus.outer_radius", t.OuterRadius)
	}
	for _, f := range []struct {
		name string
		v    float32
	}{
		{"torus.saturation", t.Saturation},
		{"torus.value", t.Value},
		{"torus.alpha", t.Alpha},
	} {
		if !(f.v >= 0 && f.v <= 1) {
			return bad(f.name, f.v)
		}
	}
	if t.Workers < 1 {
		return bad("torus.workers", t.Workers)
	}

	r := c.Render
	if !(r.FrameRate > 0) {
		return bad("render.frame_rate", r.FrameRate)
	}
	if r.MSAA != 1 && r.MSAA != 4 {
		return bad("render.msaa", r.MSAA)
	}
	for i, ch := range r.ClearColor {
		if !(ch >= 0 && ch <= 1) {
			return bad(fmt.Sprintf("render.clear_color[%d]", i), ch)
		}
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return bad("log.level", c.Log.Level)
	}
	return nil
}

// SlogLevel parses Level into a slog.Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}
