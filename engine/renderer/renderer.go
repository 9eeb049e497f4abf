package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-torus/common"
	"github.com/Carmen-Shannon/oxy-torus/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-torus/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-torus/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrGraphicsInit wraps every failure to create or configure GPU resources. Initialization is
// all-or-nothing: callers treat it as fatal.
var ErrGraphicsInit = errors.New("graphics init")

// ErrNoFrame is returned by DrawCall and EndFrame when no frame is in progress.
var ErrNoFrame = errors.New("no frame in progress")

// Surface is what the Renderer needs from a window: a platform surface descriptor and its size in pixels.
type Surface interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	msaa                 MSAASampleCount
	clearColor           wgpu.Color
	validateShaders      bool
}

// Renderer is the GPU front end used by a render session. It owns the pipeline cache and forwards
// resource creation and frame encoding to the backend, wrapping creation failures in ErrGraphicsInit.
//
// A frame is BeginFrame, one or more DrawCall, EndFrame, then Present.
type Renderer interface {
	// Pipeline retrieves the cached Pipeline associated with the given key, or nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines validates each pipeline (shader presence, vertex layout agreement and,
	// unless disabled, naga compilation of both stages), creates the GPU pipeline and caches it by
	// key. Keys already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error wrapping ErrGraphicsInit if validation or creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// InitMeshBuffers creates immutable vertex and index buffers initialized with the given bytes and
	// stores them on the provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffers on
	//   - vertexData: packed vertex bytes
	//   - indexData: packed index bytes
	//   - indexCount: the number of indices drawn by a full draw
	//   - indexFormat: the element format of indexData
	//
	// Returns:
	//   - error: an error wrapping ErrGraphicsInit if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int, indexFormat wgpu.IndexFormat) error

	// InitBindGroup creates the buffers and bind group described by descriptor and stores them on the
	// provider. Buffer sizes default to each entry's MinBindingSize.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created bind group on
	//   - descriptor: the layout descriptor defining the bind group entries
	//   - bufferUsageOverrides: additional buffer usage flags keyed by binding (nil safe)
	//   - bufferSizeOverrides: buffer sizes keyed by binding (nil safe)
	//
	// Returns:
	//   - error: an error wrapping ErrGraphicsInit if creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error

	// WriteBuffers queues the given buffer writes.
	//
	// Parameters:
	//   - writes: the writes to queue, applied in order
	//
	// Returns:
	//   - error: the first queue error
	WriteBuffers(writes []bind_group_provider.BufferWrite) error

	// BeginFrame acquires the current surface texture and begins the render pass, clearing color to
	// the configured clear color and depth to 1.0.
	BeginFrame() error

	// DrawCall binds the cached pipeline, the mesh buffers and the bind groups (group i = bindGroups[i])
	// and issues one indexed draw over the provider's full index count.
	//
	// Parameters:
	//   - pipelineKey: the key of a registered pipeline
	//   - meshProvider: the provider holding vertex and index buffers
	//   - instanceCount: the number of instances to draw
	//   - bindGroups: providers whose bind groups are set in order
	//
	// Returns:
	//   - error: an error if the pipeline is unknown or no frame is in progress
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame ends the render pass and submits the recorded commands.
	EndFrame() error

	// Present shows the submitted frame and releases the surface texture.
	Present()

	// SurfaceFormat returns the preferred surface format the color target uses.
	SurfaceFormat() wgpu.TextureFormat

	// Release releases every GPU object the renderer created.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer for the given surface: it requests an adapter and device, then
// configures the surface, a depth attachment and the render pass.
//
// Parameters:
//   - backendType: the type of rendering backend to use
//   - surface: the window surface to render into
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the configured Renderer
//   - error: an error wrapping ErrGraphicsInit if any step fails
func NewRenderer(backendType RendererBackendType, surface Surface, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:              &sync.Mutex{},
		pipelineCache:   make(map[string]pipeline.Pipeline),
		backendType:     backendType,
		presentMode:     PresentModeVSync,
		msaa:            MSAAOff,
		clearColor:      wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		validateShaders: true,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	if r.backend == nil {
		switch backendType {
		case BackendTypeWGPU:
			fallthrough
		default:
			b, err := newWGPURendererBackend(surface.SurfaceDescriptor(), wgpuBackendConfig{
				forceFallbackAdapter: r.forceFallbackAdapter,
				sampleCount:          r.msaa,
				presentMode:          r.presentMode,
				clearColor:           r.clearColor,
			})
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrGraphicsInit, err)
			}
			r.backend = b
		}
	}

	if err := r.backend.ConfigureSurface(surface.Width(), surface.Height()); err != nil {
		r.backend.Release()
		return nil, fmt.Errorf("%w: configure surface: %w", ErrGraphicsInit, err)
	}
	common.Logger().Info("renderer ready",
		"width", surface.Width(), "height", surface.Height(),
		"format", r.backend.SurfaceFormat(), "msaa", uint32(r.msaa))
	return r, nil
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrGraphicsInit, err)
		}
		if r.validateShaders {
			for _, st := range []shader.ShaderType{shader.ShaderTypeVertex, shader.ShaderTypeFragment} {
				if err := p.Shader(st).Validate(); err != nil {
					return fmt.Errorf("%w: pipeline %s: %w", ErrGraphicsInit, key, err)
				}
			}
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("%w: pipeline %s: %w", ErrGraphicsInit, key, err)
		}
		r.pipelineCache[key] = p
		common.Logger().Debug("pipeline registered", "key", key)
	}
	return nil
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int, indexFormat wgpu.IndexFormat) error {
	if err := r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount, indexFormat); err != nil {
		return fmt.Errorf("%w: mesh buffers for %s: %w", ErrGraphicsInit, provider.Label(), err)
	}
	common.Logger().Debug("mesh buffers uploaded",
		"provider", provider.Label(), "vertexBytes", len(vertexData), "indexBytes", len(indexData))
	return nil
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error {
	if err := r.backend.InitBindGroup(provider, descriptor, bufferUsageOverrides, bufferSizeOverrides); err != nil {
		return fmt.Errorf("%w: bind group for %s: %w", ErrGraphicsInit, provider.Label(), err)
	}
	return nil
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	r.mu.Lock()
	p, exists := r.pipelineCache[pipelineKey]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}
	return r.backend.DrawCall(p, meshProvider, instanceCount, bindGroups)
}

func (r *renderer) EndFrame() error {
	return r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) SurfaceFormat() wgpu.TextureFormat {
	return r.backend.SurfaceFormat()
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, p := range r.pipelineCache {
		if rp := p.RenderPipeline(); rp != nil {
			rp.Release()
			p.SetRenderPipeline(nil)
		}
		delete(r.pipelineCache, key)
	}
	r.backend.Release()
}
