package bind_group_provider

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProviderDefaults(t *testing.T) {
	p := NewBindGroupProvider("torus")
	assert.Equal(t, "torus", p.Label())
	assert.Equal(t, wgpu.IndexFormatUint16, p.IndexFormat())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.VertexBuffer())
	assert.Nil(t, p.Buffer(0))
	assert.Empty(t, p.Buffers())
}

func TestIndexState(t *testing.T) {
	p := NewBindGroupProvider("torus", WithIndexFormat(wgpu.IndexFormatUint32))
	assert.Equal(t, wgpu.IndexFormatUint32, p.IndexFormat())

	p.SetIndexBuffer(nil, wgpu.IndexFormatUint16)
	p.SetIndexCount(48)
	assert.Equal(t, wgpu.IndexFormatUint16, p.IndexFormat())
	assert.Equal(t, 48, p.IndexCount())

	p.Release()
	assert.Zero(t, p.IndexCount())
}
