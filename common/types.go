// package common contains math helpers and plain data types that are used throughout this engine. They are not interface-wrapped
// structs, just plain structs that express commonly used data-types.
package common

// Vec3 is a plain three component vector used for camera placement and rotation axes.
type Vec3 struct {
	X, Y, Z float32
}

// Extent is a width/height pair in pixels.
type Extent struct {
	Width  uint32
	Height uint32
}

// Aspect returns width divided by height, or 1 for a degenerate extent.
func (e Extent) Aspect() float32 {
	if e.Height == 0 {
		return 1
	}
	return float32(e.Width) / float32(e.Height)
}
