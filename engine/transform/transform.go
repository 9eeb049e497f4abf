// Package transform holds the camera and model matrices of a render session and derives the
// per-frame model-view-projection matrix.
package transform

import (
	"github.com/Carmen-Shannon/oxy-torus/common"
)

// MatrixSize is the byte size of one 4x4 float32 matrix.
const MatrixSize = 64

// Transform holds view, projection and their product, which are fixed after construction,
// plus model and mvp, which change every frame. All matrices are column-major.
type Transform struct {
	view        [16]float32
	projection  [16]float32
	precombined [16]float32
	model       [16]float32
	mvp         [16]float32

	axis common.Vec3
}

// New creates a Transform for a viewport of the given size using the default camera:
// eye at (0, 0, 20) looking at the origin with +Y up, a 45 degree vertical field of view
// and clip planes at 0.1 and 100. Rotation is about (0, 1, 1).
//
// Parameters:
//   - width: viewport width in pixels
//   - height: viewport height in pixels
//   - opts: optional overrides for the camera and rotation
//
// Returns:
//   - *Transform: the initialized transform, with model set to identity
func New(width, height uint32, opts ...TransformBuilderOption) *Transform {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	t := &Transform{axis: cfg.axis}
	common.LookAt(t.view[:],
		cfg.eye.X, cfg.eye.Y, cfg.eye.Z,
		cfg.target.X, cfg.target.Y, cfg.target.Z,
		cfg.up.X, cfg.up.Y, cfg.up.Z)
	aspect := common.Extent{Width: width, Height: height}.Aspect()
	common.Perspective(t.projection[:], common.DegToRad(cfg.fovDegrees), aspect, cfg.near, cfg.far)
	common.Mul4(t.precombined[:], t.projection[:], t.view[:])

	common.Identity(t.model[:])
	t.mvp = t.precombined
	return t
}

// Update recomputes model and mvp for the given frame counter. The rotation angle is
// (frame mod 360) degrees.
//
// Parameters:
//   - frame: the current frame counter
func (t *Transform) Update(frame uint32) {
	var id [16]float32
	common.Identity(id[:])
	common.Rotate(t.model[:], id[:], t.axis.X, t.axis.Y, t.axis.Z, AngleForFrame(frame))
	common.Mul4(t.mvp[:], t.precombined[:], t.model[:])
}

// AngleForFrame returns the rotation angle in radians for a frame counter.
func AngleForFrame(frame uint32) float32 {
	return common.DegToRad(float32(frame % 360))
}

// View returns a copy of the view matrix.
func (t *Transform) View() [16]float32 { return t.view }

// Projection returns a copy of the projection matrix.
func (t *Transform) Projection() [16]float32 { return t.projection }

// Precombined returns a copy of projection * view.
func (t *Transform) Precombined() [16]float32 { return t.precombined }

// Model returns a copy of the current model matrix.
func (t *Transform) Model() [16]float32 { return t.model }

// MVP returns a copy of the current model-view-projection matrix.
func (t *Transform) MVP() [16]float32 { return t.mvp }

// Bytes returns the current mvp as MatrixSize little-endian bytes for a uniform buffer write.
func (t *Transform) Bytes() []byte {
	return common.Float32sToBytes(t.mvp[:])
}
