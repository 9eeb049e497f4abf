package config

import (
	"time"

	"github.com/Carmen-Shannon/oxy-torus/engine/mesh"
	"github.com/Carmen-Shannon/oxy-torus/engine/profiler"
	"github.com/Carmen-Shannon/oxy-torus/engine/renderer"
	"github.com/Carmen-Shannon/oxy-torus/engine/session"
	"github.com/Carmen-Shannon/oxy-torus/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// Delay is the pause between frames implied by Render.FrameRate.
func (c Config) Delay() time.Duration {
	return time.Duration(float64(time.Second) / c.Render.FrameRate)
}

// SessionOptions translates the torus and frame loop settings into session options.
// The canvas size is taken from the window settings; a host that knows the real framebuffer
// size should append session.WithCanvasSize after these.
func (c Config) SessionOptions() []session.SessionBuilderOption {
	opts := []session.SessionBuilderOption{
		session.WithSegments(c.Torus.Rows, c.Torus.Columns),
		session.WithRadii(c.Torus.InnerRadius, c.Torus.OuterRadius),
		session.WithCanvasSize(uint32(c.Window.Width), uint32(c.Window.Height)),
		session.WithDelay(c.Delay()),
		session.WithMeshWorkers(c.Torus.Workers),
		session.WithTorusOptions(mesh.WithColor(c.Torus.Saturation, c.Torus.Value, c.Torus.Alpha)),
	}
	if c.Render.Profile {
		opts = append(opts, session.WithProfiler(profiler.NewProfiler()))
	}
	return opts
}

// WindowOptions translates the window settings into window options.
func (c Config) WindowOptions() []window.WindowBuilderOption {
	return []window.WindowBuilderOption{
		window.WithTitle(c.Window.Title),
		window.WithWidth(c.Window.Width),
		window.WithHeight(c.Window.Height),
	}
}

// RendererOptions translates the render settings into renderer options.
func (c Config) RendererOptions() []renderer.RendererBuilderOption {
	present := renderer.PresentModeUncapped
	if c.Render.VSync {
		present = renderer.PresentModeVSync
	}
	msaa := renderer.MSAAOff
	if c.Render.MSAA == uint32(renderer.MSAA4x) {
		msaa = renderer.MSAA4x
	}
	cc := c.Render.ClearColor
	return []renderer.RendererBuilderOption{
		renderer.WithPresentMode(present),
		renderer.WithMSAA(msaa),
		renderer.WithForceSoftwareRenderer(c.Render.Software),
		renderer.WithClearColor(wgpu.Color{R: cc[0], G: cc[1], B: cc[2], A: cc[3]}),
		renderer.WithShaderValidation(c.Render.ValidateShaders),
	}
}
