// Package mesh generates the torus geometry and packs it for upload to vertex and index buffers.
package mesh

import (
	"github.com/Carmen-Shannon/oxy-torus/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Mesh is an indexed triangle list with 16-bit indices.
type Mesh struct {
	Vertices []GPUVertex
	Indices  []uint16
}

// VertexCount returns the number of vertices in the mesh.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// IndexCount returns the number of indices in the mesh. It is always a multiple of 3.
func (m *Mesh) IndexCount() int {
	return len(m.Indices)
}

// VertexBytes packs every vertex into one little-endian buffer of VertexStride bytes per vertex.
//
// Returns:
//   - []byte: the vertex buffer contents
func (m *Mesh) VertexBytes() []byte {
	buf := make([]byte, VertexStride*len(m.Vertices))
	for i := range m.Vertices {
		m.Vertices[i].put(buf[i*VertexStride:])
	}
	return buf
}

// IndexBytes packs the indices into a little-endian buffer of 2 bytes per index.
func (m *Mesh) IndexBytes() []byte {
	return common.Uint16sToBytes(m.Indices)
}

// IndexFormat is the index buffer format matching Indices.
func (m *Mesh) IndexFormat() wgpu.IndexFormat {
	return wgpu.IndexFormatUint16
}
