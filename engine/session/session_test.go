package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-torus/engine/color"
	"github.com/Carmen-Shannon/oxy-torus/engine/mesh"
	"github.com/Carmen-Shannon/oxy-torus/engine/renderer"
	"github.com/Carmen-Shannon/oxy-torus/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-torus/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-torus/engine/transform"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	calls       []string
	writes      [][]byte
	pipelines   []pipeline.Pipeline
	indexCount  int
	indexFormat wgpu.IndexFormat
	drawKey     string
	drawGroups  int
	registerErr error
	endErr      error
}

func (f *fakeRenderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	f.calls = append(f.calls, "register")
	if f.registerErr != nil {
		return f.registerErr
	}
	f.pipelines = append(f.pipelines, pipelines...)
	return nil
}

func (f *fakeRenderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int, indexFormat wgpu.IndexFormat) error {
	f.calls = append(f.calls, "mesh")
	f.indexCount = indexCount
	f.indexFormat = indexFormat
	return nil
}

func (f *fakeRenderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error {
	f.calls = append(f.calls, "bindgroup")
	return nil
}

func (f *fakeRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) error {
	f.calls = append(f.calls, "write")
	for _, w := range writes {
		f.writes = append(f.writes, w.Data)
	}
	return nil
}

func (f *fakeRenderer) BeginFrame() error {
	f.calls = append(f.calls, "begin")
	return nil
}

func (f *fakeRenderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	f.calls = append(f.calls, "draw")
	f.drawKey = pipelineKey
	f.drawGroups = len(bindGroups)
	return nil
}

func (f *fakeRenderer) EndFrame() error {
	f.calls = append(f.calls, "end")
	return f.endErr
}

func (f *fakeRenderer) Present() {
	f.calls = append(f.calls, "present")
}

func (f *fakeRenderer) count(call string) int {
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

// fakeClock reports every re-arm on armed and releases the loop only when the test sends on fire.
type fakeClock struct {
	armed chan time.Duration
	fire  chan time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{
		armed: make(chan time.Duration, 16),
		fire:  make(chan time.Time),
	}
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.armed <- d
	return c.fire
}

func startAsync(ctx context.Context, s RenderSession) <-chan error {
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()
	return done
}

func waitArmed(t *testing.T, clk *fakeClock) time.Duration {
	t.Helper()
	select {
	case d := <-clk.armed:
		return d
	case <-time.After(5 * time.Second):
		t.Fatal("loop never re-armed")
		return 0
	}
}

func TestStartRunsSetupThenTicks(t *testing.T) {
	r := &fakeRenderer{}
	clk := newFakeClock()
	s := NewRenderSession(r, WithClock(clk))
	ctx, cancel := context.WithCancel(context.Background())
	done := startAsync(ctx, s)

	assert.Equal(t, time.Second/30, waitArmed(t, clk))
	assert.Equal(t, StateRunning, s.State())
	assert.Equal(t, uint32(1), s.Frame())
	assert.Equal(t,
		[]string{"mesh", "register", "bindgroup", "begin", "write", "draw", "end", "present"},
		r.calls)

	clk.fire <- time.Time{}
	waitArmed(t, clk)
	assert.Equal(t, uint32(2), s.Frame())

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, StateStopped, s.State())
	assert.Equal(t, 2, r.count("present"))
	assert.Equal(t, 2, r.count("begin"))
}

func TestSetupUploadsTorus(t *testing.T) {
	r := &fakeRenderer{}
	clk := newFakeClock()
	s := NewRenderSession(r, WithClock(clk), WithSegments(8, 6), WithMeshWorkers(2))
	ctx, cancel := context.WithCancel(context.Background())
	done := startAsync(ctx, s)
	waitArmed(t, clk)
	cancel()
	require.NoError(t, <-done)

	require.NotNil(t, s.Mesh())
	assert.Equal(t, (8+1)*(6+1), s.Mesh().VertexCount())
	assert.Equal(t, 8*6*6, r.indexCount)
	assert.Equal(t, wgpu.IndexFormatUint16, r.indexFormat)

	require.Len(t, r.pipelines, 1)
	p := r.pipelines[0]
	assert.Equal(t, PipelineKey, p.PipelineKey())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.CompareFunctionLess, p.DepthCompare())
	assert.Equal(t, []wgpu.VertexBufferLayout{mesh.VertexLayout()}, p.VertexLayouts())

	assert.Equal(t, PipelineKey, r.drawKey)
	assert.Equal(t, 1, r.drawGroups)
}

func TestTickWritesMVPForFrame(t *testing.T) {
	r := &fakeRenderer{}
	clk := newFakeClock()
	s := NewRenderSession(r, WithClock(clk))
	ctx, cancel := context.WithCancel(context.Background())
	done := startAsync(ctx, s)
	waitArmed(t, clk)
	clk.fire <- time.Time{}
	waitArmed(t, clk)
	cancel()
	require.NoError(t, <-done)

	want := transform.New(300, 300)
	require.Len(t, r.writes, 2)
	for i, data := range r.writes {
		want.Update(uint32(i + 1))
		assert.Len(t, data, transform.MatrixSize)
		assert.Equal(t, want.Bytes(), data, "frame %d", i+1)
	}
}

func TestEndFrameFailureStopsLoop(t *testing.T) {
	r := &fakeRenderer{endErr: errors.New("device lost")}
	clk := newFakeClock()
	s := NewRenderSession(r, WithClock(clk))

	err := s.Start(context.Background())

	assert.ErrorIs(t, err, ErrSubmission)
	assert.Equal(t, StateStopped, s.State())
	assert.Equal(t, 0, r.count("present"))
	assert.Empty(t, clk.armed)
}

func TestSetupFailureDrawsNothing(t *testing.T) {
	r := &fakeRenderer{registerErr: errors.New("bad pipeline")}
	s := NewRenderSession(r, WithClock(newFakeClock()))

	err := s.Start(context.Background())

	assert.ErrorIs(t, err, renderer.ErrGraphicsInit)
	assert.Equal(t, StateStopped, s.State())
	assert.Equal(t, 0, r.count("begin"))
	assert.Equal(t, 0, r.count("draw"))
}

func TestInvalidGeometryFailsSetup(t *testing.T) {
	r := &fakeRenderer{}
	s := NewRenderSession(r, WithClock(newFakeClock()), WithSegments(0, 32))

	err := s.Start(context.Background())

	assert.ErrorIs(t, err, mesh.ErrInvalidGeometry)
	assert.NotErrorIs(t, err, renderer.ErrGraphicsInit)
	assert.Equal(t, StateStopped, s.State())
	assert.Empty(t, r.calls)
}

func TestInvalidColorFailsSetup(t *testing.T) {
	r := &fakeRenderer{}
	s := NewRenderSession(r, WithClock(newFakeClock()), WithTorusOptions(mesh.WithColor(2, 1, 1)))

	err := s.Start(context.Background())

	assert.ErrorIs(t, err, color.ErrInvalidColor)
	assert.NotErrorIs(t, err, renderer.ErrGraphicsInit)
	assert.Empty(t, r.calls)
}

func TestStartTwice(t *testing.T) {
	r := &fakeRenderer{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewRenderSession(r, WithClock(newFakeClock()))

	require.NoError(t, s.Start(ctx))
	assert.ErrorIs(t, s.Start(ctx), ErrNotIdle)
}

func TestCancelledContextSkipsTicks(t *testing.T) {
	r := &fakeRenderer{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewRenderSession(r, WithClock(newFakeClock()))

	require.NoError(t, s.Start(ctx))
	assert.Equal(t, uint32(0), s.Frame())
	assert.Equal(t, 0, r.count("begin"))
}

func TestTickBeforeSetup(t *testing.T) {
	s := NewRenderSession(&fakeRenderer{})
	assert.ErrorIs(t, s.Tick(), ErrSubmission)
	assert.Equal(t, StateIdle, s.State())
}

func TestDelayOptions(t *testing.T) {
	s := NewRenderSession(&fakeRenderer{}, WithFrameRate(60)).(*renderSession)
	assert.Equal(t, time.Second/60, s.delay)

	s = NewRenderSession(&fakeRenderer{}, WithDelay(0)).(*renderSession)
	assert.Equal(t, time.Second/30, s.delay)

	s = NewRenderSession(&fakeRenderer{}, WithDelay(50*time.Millisecond)).(*renderSession)
	assert.Equal(t, 50*time.Millisecond, s.delay)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "stopped", StateStopped.String())
}
