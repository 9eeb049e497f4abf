package session

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-torus/common"
	"github.com/Carmen-Shannon/oxy-torus/engine/mesh"
	"github.com/Carmen-Shannon/oxy-torus/engine/profiler"
	"github.com/Carmen-Shannon/oxy-torus/engine/renderer"
	"github.com/Carmen-Shannon/oxy-torus/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-torus/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-torus/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-torus/engine/transform"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrSubmission wraps any failure while encoding, submitting or presenting a frame. It stops the loop.
var ErrSubmission = errors.New("frame submission")

// ErrNotIdle is returned by Start when the session has already been started.
var ErrNotIdle = errors.New("session already started")

// PipelineKey is the key the torus pipeline is registered under.
const PipelineKey = "torus"

// State is the lifecycle state of a RenderSession.
type State int32

const (
	// StateIdle is a session that has not been started.
	StateIdle State = iota
	// StateRunning is a session whose setup succeeded and whose loop is ticking.
	StateRunning
	// StateStopped is terminal: the context was cancelled, setup failed or a tick failed.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Renderer is the part of renderer.Renderer a session drives.
type Renderer interface {
	RegisterPipelines(pipelines ...pipeline.Pipeline) error
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int, indexFormat wgpu.IndexFormat) error
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error
	WriteBuffers(writes []bind_group_provider.BufferWrite) error
	BeginFrame() error
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error
	EndFrame() error
	Present()
}

var _ Renderer = renderer.Renderer(nil)

// renderSession is the implementation of the RenderSession interface.
type renderSession struct {
	renderer Renderer

	delay    time.Duration
	clock    Clock
	profiler *profiler.Profiler

	rows        int
	columns     int
	innerRadius float32
	outerRadius float32
	width       uint32
	height      uint32

	torusOptions     []mesh.TorusOption
	transformOptions []transform.TransformBuilderOption

	state atomic.Int32
	frame atomic.Uint32

	mesh            *mesh.Mesh
	meshProvider    bind_group_provider.BindGroupProvider
	uniformProvider bind_group_provider.BindGroupProvider
	transform       *transform.Transform
}

// RenderSession owns the torus resources and the frame loop that draws them.
//
// A session moves Idle -> Running -> Stopped. Start performs the one-time setup and then ticks
// immediately, re-arming after a fixed delay until the context is cancelled or a tick fails.
// Ticks never overlap and missed deadlines are not caught up.
type RenderSession interface {
	// Start generates and uploads the torus, builds the pipeline, binds the uniform buffer and
	// runs the frame loop on the calling goroutine.
	//
	// Parameters:
	//   - ctx: cancelling ctx stops the loop before the next re-arm
	//
	// Returns:
	//   - error: nil after cancellation, an error wrapping mesh.ErrInvalidGeometry or color.ErrInvalidColor
	//     when the torus cannot be generated, an error wrapping renderer.ErrGraphicsInit when GPU setup fails,
	//     or an error wrapping ErrSubmission when a tick fails
	Start(ctx context.Context) error

	// Tick draws one frame: begin, advance the frame counter, update and upload the transform,
	// draw, end and present.
	//
	// Returns:
	//   - error: an error wrapping ErrSubmission if any step fails
	Tick() error

	// State returns the current lifecycle state.
	State() State

	// Frame returns the number of ticks that have advanced the counter.
	Frame() uint32

	// Mesh returns the generated torus, or nil before setup.
	Mesh() *mesh.Mesh

	// Transform returns the transform state, or nil before setup.
	Transform() *transform.Transform

	// Release releases the session's GPU buffers. The renderer itself is owned by the caller.
	Release()
}

var _ RenderSession = &renderSession{}

// NewRenderSession creates an idle RenderSession that will draw through r.
// Defaults match a 300x300 canvas with a 32x32 torus of radii 1 and 2 redrawn every 1/30 s.
//
// Parameters:
//   - r: the renderer to draw through
//   - options: variadic list of SessionBuilderOption functions
//
// Returns:
//   - RenderSession: the idle session
func NewRenderSession(r Renderer, options ...SessionBuilderOption) RenderSession {
	s := &renderSession{
		renderer:    r,
		delay:       time.Second / 30,
		clock:       realClock{},
		rows:        32,
		columns:     32,
		innerRadius: 1,
		outerRadius: 2,
		width:       300,
		height:      300,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *renderSession) Start(ctx context.Context) error {
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return ErrNotIdle
	}

	if err := s.setup(); err != nil {
		s.state.Store(int32(StateStopped))
		common.Logger().Error("session setup failed", "error", err)
		return err
	}
	common.Logger().Info("session running",
		"vertices", s.mesh.VertexCount(), "indices", s.mesh.IndexCount(), "delay", s.delay)

	defer s.state.Store(int32(StateStopped))
	for {
		if ctx.Err() != nil {
			common.Logger().Info("session stopped", "frames", s.frame.Load())
			return nil
		}
		if err := s.Tick(); err != nil {
			common.Logger().Error("session tick failed", "frame", s.frame.Load(), "error", err)
			return err
		}
		select {
		case <-ctx.Done():
		case <-s.clock.After(s.delay):
		}
	}
}

func (s *renderSession) setup() error {
	m, err := mesh.GenerateTorus(s.rows, s.columns, s.innerRadius, s.outerRadius, s.torusOptions...)
	if err != nil {
		return fmt.Errorf("generate torus: %w", err)
	}
	s.mesh = m

	s.meshProvider = bind_group_provider.NewBindGroupProvider("Torus Mesh")
	if err := s.renderer.InitMeshBuffers(s.meshProvider, m.VertexBytes(), m.IndexBytes(), m.IndexCount(), m.IndexFormat()); err != nil {
		return graphicsInit("upload mesh", err)
	}

	vs, fs, err := shader.NewTorusShaders()
	if err != nil {
		return graphicsInit("load shaders", err)
	}
	p := pipeline.NewPipeline(PipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithVertexLayout(mesh.VertexLayout()),
		pipeline.WithCullMode(wgpu.CullModeBack),
		pipeline.WithDepthTestEnabled(true),
	)
	if err := s.renderer.RegisterPipelines(p); err != nil {
		return graphicsInit("register pipeline", err)
	}

	s.uniformProvider = bind_group_provider.NewBindGroupProvider("Torus Uniforms")
	if err := s.renderer.InitBindGroup(s.uniformProvider, vs.BindGroupLayoutDescriptor(0), nil, nil); err != nil {
		return graphicsInit("bind uniforms", err)
	}

	s.transform = transform.New(s.width, s.height, s.transformOptions...)
	return nil
}

// graphicsInit tags a GPU setup failure with renderer.ErrGraphicsInit unless the renderer already did.
func graphicsInit(step string, err error) error {
	if errors.Is(err, renderer.ErrGraphicsInit) {
		return fmt.Errorf("%s: %w", step, err)
	}
	return fmt.Errorf("%w: %s: %w", renderer.ErrGraphicsInit, step, err)
}

func (s *renderSession) Tick() error {
	if s.transform == nil {
		return fmt.Errorf("%w: session not set up", ErrSubmission)
	}

	if err := s.renderer.BeginFrame(); err != nil {
		return fmt.Errorf("%w: begin frame: %w", ErrSubmission, err)
	}

	frame := s.frame.Add(1)
	s.transform.Update(frame)

	if err := s.renderer.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: s.uniformProvider,
		Binding:  0,
		Offset:   0,
		Data:     s.transform.Bytes(),
	}}); err != nil {
		return fmt.Errorf("%w: write uniforms: %w", ErrSubmission, err)
	}

	if err := s.renderer.DrawCall(PipelineKey, s.meshProvider, 1, []bind_group_provider.BindGroupProvider{s.uniformProvider}); err != nil {
		return fmt.Errorf("%w: draw: %w", ErrSubmission, err)
	}

	if err := s.renderer.EndFrame(); err != nil {
		return fmt.Errorf("%w: end frame: %w", ErrSubmission, err)
	}
	s.renderer.Present()

	if s.profiler != nil {
		s.profiler.Tick()
	}
	common.Logger().Debug("frame presented", "frame", frame, "angle", transform.AngleForFrame(frame))
	return nil
}

func (s *renderSession) State() State {
	return State(s.state.Load())
}

func (s *renderSession) Frame() uint32 {
	return s.frame.Load()
}

func (s *renderSession) Mesh() *mesh.Mesh {
	return s.mesh
}

func (s *renderSession) Transform() *transform.Transform {
	return s.transform
}

func (s *renderSession) Release() {
	if s.meshProvider != nil {
		s.meshProvider.Release()
	}
	if s.uniformProvider != nil {
		s.uniformProvider.Release()
	}
}
