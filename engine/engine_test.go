package engine

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-torus/engine/config"
	"github.com/Carmen-Shannon/oxy-torus/engine/renderer"
	"github.com/Carmen-Shannon/oxy-torus/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-torus/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-torus/engine/session"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWindow struct {
	closeOnce sync.Once
	closeCh   chan struct{}
	closed    atomic.Bool
}

func newFakeWindow() *fakeWindow {
	return &fakeWindow{closeCh: make(chan struct{})}
}

func (w *fakeWindow) SetUpdateCallback(func())                   {}
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *fakeWindow) Width() int                                 { return 300 }
func (w *fakeWindow) Height() int                                { return 300 }
func (w *fakeWindow) ProcessMessages()                           { <-w.closeCh }

func (w *fakeWindow) IsRunning() bool {
	select {
	case <-w.closeCh:
		return false
	default:
		return true
	}
}

func (w *fakeWindow) RequestClose() {
	w.closeOnce.Do(func() { close(w.closeCh) })
}

func (w *fakeWindow) Close() error {
	w.closed.Store(true)
	return nil
}

type fakeRenderer struct {
	mu       sync.Mutex
	frames   int
	endErr   error
	released atomic.Bool
}

func (r *fakeRenderer) Pipeline(string) pipeline.Pipeline                    { return nil }
func (r *fakeRenderer) RegisterPipelines(...pipeline.Pipeline) error         { return nil }
func (r *fakeRenderer) WriteBuffers([]bind_group_provider.BufferWrite) error { return nil }
func (r *fakeRenderer) BeginFrame() error                                    { return nil }
func (r *fakeRenderer) Present()                                             {}
func (r *fakeRenderer) SurfaceFormat() wgpu.TextureFormat                    { return wgpu.TextureFormatBGRA8Unorm }
func (r *fakeRenderer) Release()                                             { r.released.Store(true) }

func (r *fakeRenderer) InitMeshBuffers(bind_group_provider.BindGroupProvider, []byte, []byte, int, wgpu.IndexFormat) error {
	return nil
}

func (r *fakeRenderer) InitBindGroup(bind_group_provider.BindGroupProvider, wgpu.BindGroupLayoutDescriptor, map[int]wgpu.BufferUsage, map[int]uint64) error {
	return nil
}

func (r *fakeRenderer) DrawCall(string, bind_group_provider.BindGroupProvider, uint32, []bind_group_provider.BindGroupProvider) error {
	return nil
}

func (r *fakeRenderer) EndFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames++
	return r.endErr
}

func (r *fakeRenderer) frameCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

var _ renderer.Renderer = &fakeRenderer{}

func runAsync(e Engine) <-chan error {
	done := make(chan error, 1)
	go func() { done <- e.Run() }()
	return done
}

func TestRunStopsOnQuit(t *testing.T) {
	w := newFakeWindow()
	r := &fakeRenderer{}
	e, err := NewEngine(WithWindow(w), WithRenderer(r), WithSessionOptions(session.WithDelay(time.Millisecond)))
	require.NoError(t, err)

	done := runAsync(e)
	require.Eventually(t, func() bool { return r.frameCount() >= 3 }, 5*time.Second, time.Millisecond)
	e.Quit()
	e.Quit()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Quit")
	}
	assert.Equal(t, session.StateStopped, e.Session().State())
	assert.True(t, r.released.Load())
	assert.True(t, w.closed.Load())
}

func TestRunStopsWhenWindowCloses(t *testing.T) {
	w := newFakeWindow()
	r := &fakeRenderer{}
	e, err := NewEngine(WithWindow(w), WithRenderer(r), WithSessionOptions(session.WithDelay(time.Millisecond)))
	require.NoError(t, err)

	done := runAsync(e)
	require.Eventually(t, func() bool { return r.frameCount() >= 1 }, 5*time.Second, time.Millisecond)
	w.RequestClose()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after the window closed")
	}
}

func TestRunReturnsSessionError(t *testing.T) {
	w := newFakeWindow()
	r := &fakeRenderer{endErr: errors.New("device lost")}
	e, err := NewEngine(WithWindow(w), WithRenderer(r))
	require.NoError(t, err)

	select {
	case err := <-runAsync(e):
		assert.ErrorIs(t, err, session.ErrSubmission)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after the session failed")
	}
	assert.Equal(t, 1, r.frameCount())
	assert.True(t, w.closed.Load())
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Torus.Rows = 0

	e, err := NewEngine(WithConfig(cfg), WithWindow(newFakeWindow()), WithRenderer(&fakeRenderer{}))

	assert.Nil(t, e)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
