package shader

import (
	_ "embed"
)

// TorusVertexSource is the vertex stage of the torus pipeline. It reads position and color
// from vertex buffer slot 0 and the mvp matrix from @group(0) @binding(0).
//
//go:embed assets/torus_vertex.wgsl
var TorusVertexSource string

// TorusFragmentSource is the fragment stage of the torus pipeline. It outputs the interpolated vertex color.
//
//go:embed assets/torus_fragment.wgsl
var TorusFragmentSource string

const (
	// TorusVertexKey is the cache key of the torus vertex shader.
	TorusVertexKey = "torus-vertex"
	// TorusFragmentKey is the cache key of the torus fragment shader.
	TorusFragmentKey = "torus-fragment"
)

// NewTorusShaders parses the embedded torus vertex and fragment shaders.
//
// Returns:
//   - Shader: the vertex shader
//   - Shader: the fragment shader
//   - error: an error wrapping ErrInvalidShader if either source fails to parse
func NewTorusShaders() (Shader, Shader, error) {
	vs, err := NewShader(TorusVertexKey, ShaderTypeVertex, TorusVertexSource)
	if err != nil {
		return nil, nil, err
	}
	fs, err := NewShader(TorusFragmentKey, ShaderTypeFragment, TorusFragmentSource)
	if err != nil {
		return nil, nil, err
	}
	return vs, fs, nil
}
