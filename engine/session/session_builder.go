package session

import (
	"time"

	"github.com/Carmen-Shannon/oxy-torus/engine/mesh"
	"github.com/Carmen-Shannon/oxy-torus/engine/profiler"
	"github.com/Carmen-Shannon/oxy-torus/engine/transform"
)

// SessionBuilderOption is a functional option applied to a RenderSession during construction via NewRenderSession.
type SessionBuilderOption func(*renderSession)

// WithDelay sets the fixed delay between the end of one tick and the start of the next.
// Values <= 0 keep the default of 1/30 s.
//
// Parameters:
//   - d: the delay between ticks
//
// Returns:
//   - SessionBuilderOption: a function that applies the delay option to a session
func WithDelay(d time.Duration) SessionBuilderOption {
	return func(s *renderSession) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithFrameRate sets the delay from a target frame rate. Values <= 0 keep the default of 30.
func WithFrameRate(fps float64) SessionBuilderOption {
	return func(s *renderSession) {
		if fps > 0 {
			s.delay = time.Duration(float64(time.Second) / fps)
		}
	}
}

// WithClock replaces the scheduler's time source.
func WithClock(c Clock) SessionBuilderOption {
	return func(s *renderSession) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithProfiler ticks the given profiler once per presented frame.
func WithProfiler(p *profiler.Profiler) SessionBuilderOption {
	return func(s *renderSession) {
		s.profiler = p
	}
}

// WithSegments sets the torus ring and tube segment counts.
//
// Parameters:
//   - rows: number of ring segments around the tube
//   - columns: number of tube segments around the torus
//
// Returns:
//   - SessionBuilderOption: a function that applies the segment option to a session
func WithSegments(rows, columns int) SessionBuilderOption {
	return func(s *renderSession) {
		s.rows = rows
		s.columns = columns
	}
}

// WithRadii sets the tube (inner) and center-line (outer) radii of the torus.
func WithRadii(inner, outer float32) SessionBuilderOption {
	return func(s *renderSession) {
		s.innerRadius = inner
		s.outerRadius = outer
	}
}

// WithCanvasSize sets the surface size the projection's aspect ratio is derived from.
func WithCanvasSize(width, height uint32) SessionBuilderOption {
	return func(s *renderSession) {
		s.width = width
		s.height = height
	}
}

// WithMeshWorkers fills torus rings on n workers at setup time.
func WithMeshWorkers(n int) SessionBuilderOption {
	return func(s *renderSession) {
		s.torusOptions = append(s.torusOptions, mesh.WithWorkers(n))
	}
}

// WithTorusOptions forwards options to the geometry generator.
func WithTorusOptions(opts ...mesh.TorusOption) SessionBuilderOption {
	return func(s *renderSession) {
		s.torusOptions = append(s.torusOptions, opts...)
	}
}

// WithTransformOptions forwards options to the transform state.
func WithTransformOptions(opts ...transform.TransformBuilderOption) SessionBuilderOption {
	return func(s *renderSession) {
		s.transformOptions = append(s.transformOptions, opts...)
	}
}
