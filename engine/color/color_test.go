package color

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-6

func assertRGBA(t *testing.T, want, got RGBA) {
	t.Helper()
	assert.InDelta(t, want.R, got.R, tol, "r")
	assert.InDelta(t, want.G, got.G, tol, "g")
	assert.InDelta(t, want.B, got.B, tol, "b")
	assert.InDelta(t, want.A, got.A, tol, "a")
}

func TestHSVAToRGBAPrimaries(t *testing.T) {
	tests := []struct {
		name string
		h    float32
		want RGBA
	}{
		{"red", 0, RGBA{1, 0, 0, 1}},
		{"yellow", 60, RGBA{1, 1, 0, 1}},
		{"green", 120, RGBA{0, 1, 0, 1}},
		{"cyan", 180, RGBA{0, 1, 1, 1}},
		{"blue", 240, RGBA{0, 0, 1, 1}},
		{"magenta", 300, RGBA{1, 0, 1, 1}},
		{"wrapped red", 360, RGBA{1, 0, 0, 1}},
		{"negative hue", -120, RGBA{0, 0, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HSVAToRGBA(tt.h, 1, 1, 1)
			require.NoError(t, err)
			assertRGBA(t, tt.want, got)
		})
	}
}

func TestHSVAToRGBAIntermediate(t *testing.T) {
	got, err := HSVAToRGBA(30, 1, 1, 1)
	require.NoError(t, err)
	assertRGBA(t, RGBA{1, 0.5, 0, 1}, got)

	got, err = HSVAToRGBA(90, 0.5, 0.8, 0.25)
	require.NoError(t, err)
	assertRGBA(t, RGBA{0.6, 0.8, 0.4, 0.25}, got)
}

func TestHSVAToRGBAZeroSaturation(t *testing.T) {
	got, err := HSVAToRGBA(200, 0, 0.3, 0.7)
	require.NoError(t, err)
	assert.Equal(t, RGBA{0.3, 0.3, 0.3, 0.7}, got)
}

func TestHSVAToRGBAInvalid(t *testing.T) {
	tests := []struct {
		name    string
		s, v, a float32
	}{
		{"saturation", 1.5, 1, 1},
		{"value", 1, 2, 1},
		{"alpha", 1, 1, 1.01},
		{"negative value", 1, -0.1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HSVAToRGBA(0, tt.s, tt.v, tt.a)
			assert.ErrorIs(t, err, ErrInvalidColor)
		})
	}
}

func TestHSVAToRGBANonFiniteHue(t *testing.T) {
	for _, h := range []float32{math32.NaN(), math32.Inf(1), math32.Inf(-1)} {
		got, err := HSVAToRGBA(h, 1, 1, 1)
		assert.ErrorIs(t, err, ErrInvalidColor, "hue %v", h)
		assert.Equal(t, RGBA{}, got)
	}
}

func TestHSVAToRGBAHueJustBelowZero(t *testing.T) {
	got, err := HSVAToRGBA(-1e-7, 1, 1, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1, got.R, 1e-5)
}

func TestRGBAArray(t *testing.T) {
	assert.Equal(t, [4]float32{0.1, 0.2, 0.3, 0.4}, RGBA{0.1, 0.2, 0.3, 0.4}.Array())
}
