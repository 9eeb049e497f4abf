package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stepClock struct {
	t time.Time
}

func (c *stepClock) now() time.Time { return c.t }

func (c *stepClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTickLogsOncePerInterval(t *testing.T) {
	clk := &stepClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithNow(clk.now), WithInterval(time.Second))

	for i := 0; i < 9; i++ {
		clk.advance(100 * time.Millisecond)
		assert.False(t, p.Tick())
	}
	clk.advance(100 * time.Millisecond)
	assert.True(t, p.Tick())
	assert.InDelta(t, 10.0, p.Last().FPS, 0.001)
	assert.Greater(t, p.Last().SysMB, 0.0)

	clk.advance(100 * time.Millisecond)
	assert.False(t, p.Tick())
}

func TestWithIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler(WithInterval(0))
	assert.Equal(t, time.Second, p.updateInterval)

	p = NewProfiler(WithInterval(250 * time.Millisecond))
	assert.Equal(t, 250*time.Millisecond, p.updateInterval)
}
