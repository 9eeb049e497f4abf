package transform

import "github.com/Carmen-Shannon/oxy-torus/common"

// TransformBuilderOption is a functional option used to configure a Transform during construction.
type TransformBuilderOption func(*config)

type config struct {
	eye, target, up common.Vec3
	axis            common.Vec3
	fovDegrees      float32
	near, far       float32
}

func defaultConfig() config {
	return config{
		eye:        common.Vec3{X: 0, Y: 0, Z: 20},
		target:     common.Vec3{},
		up:         common.Vec3{X: 0, Y: 1, Z: 0},
		axis:       common.Vec3{X: 0, Y: 1, Z: 1},
		fovDegrees: 45,
		near:       0.1,
		far:        100,
	}
}

// WithEye sets the camera position.
func WithEye(eye common.Vec3) TransformBuilderOption {
	return func(c *config) {
		c.eye = eye
	}
}

// WithFOV sets the vertical field of view in degrees.
//
// Parameters:
//   - degrees: the field of view
//
// Returns:
//   - TransformBuilderOption: a function that sets the field of view
func WithFOV(degrees float32) TransformBuilderOption {
	return func(c *config) {
		c.fovDegrees = degrees
	}
}

// WithClipPlanes sets the near and far clip distances.
func WithClipPlanes(near, far float32) TransformBuilderOption {
	return func(c *config) {
		c.near = near
		c.far = far
	}
}

// WithRotationAxis sets the model rotation axis. It is normalized when the rotation is built.
func WithRotationAxis(axis common.Vec3) TransformBuilderOption {
	return func(c *config) {
		c.axis = axis
	}
}
