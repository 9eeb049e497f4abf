package engine

import (
	"github.com/Carmen-Shannon/oxy-torus/engine/config"
	"github.com/Carmen-Shannon/oxy-torus/engine/renderer"
	"github.com/Carmen-Shannon/oxy-torus/engine/session"
	"github.com/Carmen-Shannon/oxy-torus/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithConfig replaces the default configuration.
//
// Parameters:
//   - cfg: the configuration the window, renderer and session are built from
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithConfig(cfg config.Config) EngineBuilderOption {
	return func(e *engine) {
		e.cfg = cfg
	}
}

// WithWindow sets a custom configured window for the engine to use rather than allowing the engine
// to create and manage one internally.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets a renderer for the engine to draw through instead of creating one on the window.
//
// Parameters:
//   - r: a ready Renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithSessionOptions appends session options after the ones derived from the configuration.
//
// Parameters:
//   - opts: session options to apply last
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSessionOptions(opts ...session.SessionBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.sessionOptions = append(e.sessionOptions, opts...)
	}
}
