package shader

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga"
)

// ErrInvalidShader is returned when WGSL source is missing an entry point or fails validation.
var ErrInvalidShader = errors.New("invalid shader")

// ShaderType identifies the pipeline stage a shader is written for.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage of a render pipeline.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage, paired with a vertex shader.
	ShaderTypeFragment
)

// String returns the WGSL attribute name of the stage.
func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// shader is the implementation of the Shader interface.
type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	entryPoint                 string
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	vertexLayouts              []wgpu.VertexBufferLayout
}

// Shader is a parsed WGSL shader. Reflection data (entry point, vertex buffer layouts, bind group
// layouts with buffer sizes) is extracted once at construction and used by the renderer to build
// pipeline and bind group layouts.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used as the shader module label.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL shader source code.
	Source() string

	// ShaderType returns the pipeline stage of the shader.
	ShaderType() ShaderType

	// EntryPoint returns the name of the @vertex or @fragment function.
	EntryPoint() string

	// VertexLayouts returns one vertex buffer layout per vertex input struct, in declaration order.
	// Fragment shaders return nil.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the reflected layouts
	VertexLayouts() []wgpu.VertexBufferLayout

	// BindGroupLayoutDescriptors returns the reflected bind group layouts keyed by group index.
	// Buffer entries carry MinBindingSize computed from the bound type.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptor returns the descriptor for one group, or an empty descriptor.
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName returns the WGSL variable declared at the group and binding, or "".
	BindGroupVarName(group, binding int) string

	// Validate compiles the source with naga and reports any front-end error.
	//
	// Returns:
	//   - error: an error wrapping ErrInvalidShader, or nil
	Validate() error
}

var _ Shader = &shader{}

// NewShader parses WGSL source for the given stage.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage the source implements
//   - source: the WGSL source
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error wrapping ErrInvalidShader if the source is empty or has no entry point for the stage
func NewShader(key string, shaderType ShaderType, source string) (Shader, error) {
	if source == "" {
		return nil, fmt.Errorf("%w: %s has no source", ErrInvalidShader, key)
	}
	s := &shader{
		key:        key,
		source:     source,
		shaderType: shaderType,
	}
	s.entryPoint = parseEntryPoint(source, shaderType)
	if s.entryPoint == "" {
		return nil, fmt.Errorf("%w: %s has no @%s entry point", ErrInvalidShader, key, shaderType)
	}
	if shaderType == ShaderTypeVertex {
		s.vertexLayouts = parseVertexLayouts(source)
	}

	visibility := wgpu.ShaderStageVertex
	if shaderType == ShaderTypeFragment {
		visibility = wgpu.ShaderStageFragment
	}
	s.bindGroupLayoutDescriptors, s.bindingVarNames = parseBindGroupLayouts(source, visibility)
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupVarName(group, binding int) string {
	return s.bindingVarNames[group][binding]
}

func (s *shader) Validate() error {
	spirv, err := naga.Compile(s.source)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidShader, s.key, err)
	}
	if len(spirv) == 0 {
		return fmt.Errorf("%w: %s compiled to empty SPIR-V", ErrInvalidShader, s.key)
	}
	return nil
}
