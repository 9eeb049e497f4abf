package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-torus/engine/mesh"
	"github.com/Carmen-Shannon/oxy-torus/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func torusPipeline(t *testing.T, opts ...PipelineBuilderOption) Pipeline {
	t.Helper()
	vs, fs, err := shader.NewTorusShaders()
	require.NoError(t, err)
	return NewPipeline("torus", append([]PipelineBuilderOption{
		WithVertexShader(vs),
		WithFragmentShader(fs),
	}, opts...)...)
}

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("empty")
	assert.Equal(t, "empty", p.PipelineKey())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.True(t, p.DepthTestEnabled())
	assert.True(t, p.DepthWriteEnabled())
	assert.Equal(t, wgpu.CompareFunctionLess, p.DepthCompare())
	assert.Equal(t, wgpu.TextureFormatDepth24Plus, p.DepthFormat())
	assert.Equal(t, wgpu.ColorWriteMaskAll, p.WriteMask())
	assert.False(t, p.BlendEnabled())
	assert.Nil(t, p.RenderPipeline())
	assert.Empty(t, p.VertexLayouts())
}

func TestValidateMissingShader(t *testing.T) {
	vs, _, err := shader.NewTorusShaders()
	require.NoError(t, err)

	p := NewPipeline("half", WithVertexShader(vs))
	assert.ErrorIs(t, p.Validate(), ErrMissingShader)
}

func TestValidateTorusLayout(t *testing.T) {
	p := torusPipeline(t,
		WithVertexLayout(mesh.VertexLayout()),
		WithCullMode(wgpu.CullModeBack),
	)
	require.NoError(t, p.Validate())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())

	layouts := p.VertexLayouts()
	require.Len(t, layouts, 1)
	assert.Equal(t, uint64(mesh.VertexStride), layouts[0].ArrayStride)
}

func TestVertexLayoutsFallBackToShader(t *testing.T) {
	p := torusPipeline(t)
	require.NoError(t, p.Validate())
	require.Len(t, p.VertexLayouts(), 1)
	assert.Equal(t, mesh.VertexLayout().Attributes, p.VertexLayouts()[0].Attributes)
}

func TestValidateLayoutMismatch(t *testing.T) {
	wrongStride := mesh.VertexLayout()
	wrongStride.ArrayStride = 32

	wrongOffset := mesh.VertexLayout()
	wrongOffset.Attributes = []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 1},
	}

	tests := []struct {
		name    string
		layouts []wgpu.VertexBufferLayout
	}{
		{"stride", []wgpu.VertexBufferLayout{wrongStride}},
		{"offset", []wgpu.VertexBufferLayout{wrongOffset}},
		{"buffer count", []wgpu.VertexBufferLayout{mesh.VertexLayout(), mesh.VertexLayout()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := torusPipeline(t, WithVertexLayout(tt.layouts...))
			assert.ErrorIs(t, p.Validate(), ErrLayoutMismatch)
		})
	}
}

func TestDepthCompareDisabled(t *testing.T) {
	p := NewPipeline("overlay", WithDepthTestEnabled(false), WithDepthCompare(wgpu.CompareFunctionGreater))
	assert.Equal(t, wgpu.CompareFunctionAlways, p.DepthCompare())

	p = NewPipeline("reversed", WithDepthCompare(wgpu.CompareFunctionGreater))
	assert.Equal(t, wgpu.CompareFunctionGreater, p.DepthCompare())
}
