// Package color converts HSV plus alpha colors into the RGBA values written into mesh vertices.
package color

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// ErrInvalidColor is returned when saturation, value or alpha fall outside [0, 1], or the hue is not finite.
var ErrInvalidColor = errors.New("invalid color")

// RGBA is a linear color with each channel in [0, 1].
type RGBA struct {
	R, G, B, A float32
}

// Array returns the color as a 4 element array in R, G, B, A order.
func (c RGBA) Array() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

// HSVAToRGBA converts a hue in degrees plus saturation, value and alpha into RGBA.
// Hues outside [0, 360) are wrapped. A zero saturation yields the gray (v, v, v, a).
//
// Parameters:
//   - h: hue in degrees
//   - s: saturation in [0, 1]
//   - v: value (brightness) in [0, 1]
//   - a: alpha in [0, 1]
//
// Returns:
//   - RGBA: the converted color
//   - error: ErrInvalidColor if h is NaN or infinite, or if s, v or a is out of range
func HSVAToRGBA(h, s, v, a float32) (RGBA, error) {
	if math32.IsNaN(h) || math32.IsInf(h, 0) {
		return RGBA{}, fmt.Errorf("%w: hue %v is not finite", ErrInvalidColor, h)
	}
	if err := checkUnit("saturation", s); err != nil {
		return RGBA{}, err
	}
	if err := checkUnit("value", v); err != nil {
		return RGBA{}, err
	}
	if err := checkUnit("alpha", a); err != nil {
		return RGBA{}, err
	}
	if s == 0 {
		return RGBA{R: v, G: v, B: v, A: a}, nil
	}

	th := math32.Mod(h, 360)
	if th < 0 {
		th += 360
	}
	i := int(math32.Floor(th / 60))
	i = max(0, min(i, 5))
	f := th/60 - float32(i)
	m := v * (1 - s)
	n := v * (1 - s*f)
	k := v * (1 - s*(1-f))

	r := [6]float32{v, n, m, m, k, v}
	g := [6]float32{k, v, v, n, m, m}
	b := [6]float32{m, m, k, v, v, n}
	return RGBA{R: r[i], G: g[i], B: b[i], A: a}, nil
}

func checkUnit(name string, x float32) error {
	if math32.IsNaN(x) || x < 0 || x > 1 {
		return fmt.Errorf("%w: %s %v outside [0, 1]", ErrInvalidColor, name, x)
	}
	return nil
}
