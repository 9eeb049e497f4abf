package pipeline

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-torus/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrMissingShader is returned when a render pipeline lacks a vertex or fragment shader.
	ErrMissingShader = errors.New("pipeline: vertex and fragment shaders are required")

	// ErrLayoutMismatch is returned when the declared vertex buffer layout disagrees with the
	// vertex inputs reflected from the vertex shader.
	ErrLayoutMismatch = errors.New("pipeline: vertex layout does not match vertex shader")
)

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	pipelineKey string

	vertexShader, fragmentShader shader.Shader

	// renderPipeline is set by the Renderer once the GPU object exists.
	renderPipeline *wgpu.RenderPipeline

	vertexLayouts []wgpu.VertexBufferLayout

	depthTestEnabled  bool
	depthWriteEnabled bool
	depthCompare      wgpu.CompareFunction
	depthFormat       wgpu.TextureFormat
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendEnabled      bool
	blendState        *wgpu.BlendState
}

// Pipeline describes a render pipeline: its shaders, vertex buffer layouts, primitive state and
// depth state. The Renderer turns a Pipeline into a GPU pipeline in RegisterPipelines and stores the
// result back on it.
type Pipeline interface {
	// PipelineKey returns the unique key used to cache this pipeline.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// Shader returns the shader bound to the given stage, or nil.
	//
	// Parameters:
	//   - shaderType: the stage to look up
	//
	// Returns:
	//   - shader.Shader: the shader or nil
	Shader(shaderType shader.ShaderType) shader.Shader

	// RenderPipeline returns the GPU pipeline, or nil before registration.
	RenderPipeline() *wgpu.RenderPipeline

	// SetRenderPipeline stores the GPU pipeline created by the Renderer.
	SetRenderPipeline(p *wgpu.RenderPipeline)

	// VertexLayouts returns the declared vertex buffer layouts, falling back to the layouts reflected
	// from the vertex shader when none were declared.
	VertexLayouts() []wgpu.VertexBufferLayout

	// Validate checks that both shaders are present and that declared vertex layouts agree with the
	// vertex shader's inputs.
	//
	// Returns:
	//   - error: ErrMissingShader or ErrLayoutMismatch, or nil
	Validate() error

	DepthTestEnabled() bool
	DepthWriteEnabled() bool
	DepthCompare() wgpu.CompareFunction
	DepthFormat() wgpu.TextureFormat
	CullMode() wgpu.CullMode
	Topology() wgpu.PrimitiveTopology
	FrontFace() wgpu.FrontFace
	WriteMask() wgpu.ColorWriteMask
	BlendEnabled() bool
	BlendState() *wgpu.BlendState
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a render pipeline description. Defaults: triangle list, counter-clockwise
// front faces, no culling, depth test and write enabled with compare "less" against a Depth24Plus
// attachment, all color channels written, blending off.
//
// Parameters:
//   - pipelineKey: the unique key for the pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: the configured pipeline description
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		depthCompare:      wgpu.CompareFunctionLess,
		depthFormat:       wgpu.TextureFormatDepth24Plus,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) VertexLayouts() []wgpu.VertexBufferLayout {
	if len(p.vertexLayouts) > 0 || p.vertexShader == nil {
		return p.vertexLayouts
	}
	return p.vertexShader.VertexLayouts()
}

func (p *pipeline) Validate() error {
	if p.vertexShader == nil || p.fragmentShader == nil {
		return fmt.Errorf("%w: %s", ErrMissingShader, p.pipelineKey)
	}
	if len(p.vertexLayouts) == 0 {
		return nil
	}
	reflected := p.vertexShader.VertexLayouts()
	if len(reflected) != len(p.vertexLayouts) {
		return fmt.Errorf("%w: %s declares %d buffers, shader %s reads %d",
			ErrLayoutMismatch, p.pipelineKey, len(p.vertexLayouts), p.vertexShader.Key(), len(reflected))
	}
	for i, want := range reflected {
		got := p.vertexLayouts[i]
		if got.ArrayStride != want.ArrayStride {
			return fmt.Errorf("%w: %s buffer %d stride %d, shader expects %d",
				ErrLayoutMismatch, p.pipelineKey, i, got.ArrayStride, want.ArrayStride)
		}
		if !slices.Equal(got.Attributes, want.Attributes) {
			return fmt.Errorf("%w: %s buffer %d attributes %v, shader expects %v",
				ErrLayoutMismatch, p.pipelineKey, i, got.Attributes, want.Attributes)
		}
	}
	return nil
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

// DepthCompare returns the configured compare function, or Always when depth testing is disabled.
func (p *pipeline) DepthCompare() wgpu.CompareFunction {
	if !p.depthTestEnabled {
		return wgpu.CompareFunctionAlways
	}
	return p.depthCompare
}

func (p *pipeline) DepthFormat() wgpu.TextureFormat {
	return p.depthFormat
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}
