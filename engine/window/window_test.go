package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowDefaults(t *testing.T) {
	w := newEngineWindow()

	assert.Equal(t, "oxy-torus", w.title)
	assert.Equal(t, 300, w.Width())
	assert.Equal(t, 300, w.Height())
}

func TestWindowOptions(t *testing.T) {
	w := newEngineWindow(WithTitle("torus"), WithWidth(640), WithHeight(480))

	assert.Equal(t, "torus", w.title)
	assert.Equal(t, 640, w.Width())
	assert.Equal(t, 480, w.Height())
}

func TestWindowOptionsIgnoreNonPositive(t *testing.T) {
	w := newEngineWindow(WithTitle(""), WithWidth(0), WithHeight(-1))

	assert.Equal(t, "oxy-torus", w.title)
	assert.Equal(t, 300, w.Width())
	assert.Equal(t, 300, w.Height())
}

func TestUninitializedWindow(t *testing.T) {
	w := newEngineWindow()

	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.ErrorIs(t, w.Close(), ErrNotInitialized)

	w.RequestClose()
	w.RequestClose()
	assert.True(t, w.closeRequested.Load())
}

func TestProcessMessagesReturnsWhenNotRunning(t *testing.T) {
	w := newEngineWindow()
	called := false
	w.SetUpdateCallback(func() { called = true })

	w.ProcessMessages()

	assert.False(t, called)
}
