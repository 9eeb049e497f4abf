package mesh

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-torus/common"
	"github.com/Carmen-Shannon/oxy-torus/engine/color"
	"github.com/chewxy/math32"
)

// ErrInvalidGeometry is returned when torus parameters cannot produce a valid 16-bit indexed mesh.
var ErrInvalidGeometry = errors.New("invalid geometry")

// MaxVertices is the largest vertex count addressable by 16-bit indices.
const MaxVertices = 1 << 16

// GenerateTorus builds a torus around the Y axis. The ring (row) loop and tube (column) loop are
// inclusive on both ends, so the seam is closed with duplicated vertices and the mesh holds
// (rows+1)*(columns+1) vertices and rows*columns*6 indices. Vertex hue follows the tube angle.
//
// Parameters:
//   - rows: number of ring segments, at least 1
//   - columns: number of tube segments, at least 1
//   - innerRadius: tube cross-section radius, greater than 0
//   - outerRadius: distance from the torus center to the tube center, greater than 0
//   - opts: generation options
//
// Returns:
//   - *Mesh: the generated mesh
//   - error: ErrInvalidGeometry for bad parameters, or a wrapped color.ErrInvalidColor
func GenerateTorus(rows, columns int, innerRadius, outerRadius float32, opts ...TorusOption) (*Mesh, error) {
	cfg := defaultTorusConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if rows < 1 || columns < 1 {
		return nil, fmt.Errorf("%w: segments must be at least 1, got rows=%d columns=%d", ErrInvalidGeometry, rows, columns)
	}
	if !(innerRadius > 0) || !(outerRadius > 0) {
		return nil, fmt.Errorf("%w: radii must be positive, got inner=%v outer=%v", ErrInvalidGeometry, innerRadius, outerRadius)
	}
	if rows >= MaxVertices || columns >= MaxVertices || (rows+1)*(columns+1) > MaxVertices {
		return nil, fmt.Errorf("%w: %dx%d segments exceed %d vertices", ErrInvalidGeometry, rows, columns, MaxVertices)
	}

	// Color depends only on the tube index, so one row of colors serves every ring.
	stride := columns + 1
	colors := make([][4]float32, stride)
	for ii := 0; ii < stride; ii++ {
		hue := 360 * float32(ii) / float32(columns)
		c, err := color.HSVAToRGBA(hue, cfg.saturation, cfg.value, cfg.alpha)
		if err != nil {
			return nil, fmt.Errorf("torus color for column %d: %w", ii, err)
		}
		colors[ii] = c.Array()
	}

	m := &Mesh{
		Vertices: make([]GPUVertex, (rows+1)*stride),
		Indices:  make([]uint16, rows*columns*6),
	}
	t := &torusFill{
		mesh:    m,
		colors:  colors,
		rows:    rows,
		columns: columns,
		inner:   innerRadius,
		outer:   outerRadius,
	}

	if cfg.workers < 2 {
		for i := 0; i <= rows; i++ {
			t.ring(i)
		}
	} else {
		t.parallel(cfg.workers)
	}

	common.Logger().Debug("torus generated",
		"rows", rows, "columns", columns,
		"vertices", m.VertexCount(), "indices", m.IndexCount(),
		"workers", cfg.workers)
	return m, nil
}

// torusFill writes disjoint slices of a preallocated mesh, one ring at a time.
type torusFill struct {
	mesh    *Mesh
	colors  [][4]float32
	rows    int
	columns int
	inner   float32
	outer   float32
}

// ring fills the vertices of ring i and, for i < rows, the indices of the quad strip
// joining ring i to ring i+1.
func (t *torusFill) ring(i int) {
	stride := t.columns + 1
	r := 2 * math32.Pi * float32(i) / float32(t.rows)
	cr := math32.Cos(r)*t.inner + t.outer
	y := math32.Sin(r) * t.inner

	verts := t.mesh.Vertices[i*stride : (i+1)*stride]
	for ii := range verts {
		tt := 2 * math32.Pi * float32(ii) / float32(t.columns)
		verts[ii] = GPUVertex{
			Position: [3]float32{cr * math32.Cos(tt), y, cr * math32.Sin(tt)},
			Color:    t.colors[ii],
		}
	}

	if i == t.rows {
		return
	}
	idx := t.mesh.Indices[i*t.columns*6 : (i+1)*t.columns*6]
	for ii := 0; ii < t.columns; ii++ {
		base := uint16(stride*i + ii)
		s := uint16(stride)
		q := idx[ii*6 : ii*6+6]
		q[0], q[1], q[2] = base, base+s, base+1
		q[3], q[4], q[5] = base+s, base+s+1, base+1
	}
}

// parallel fans rings out to a worker pool and waits for all of them.
func (t *torusFill) parallel(workers int) {
	pool := worker.NewDynamicWorkerPool(workers, 256, 1*time.Second)
	defer pool.Stop()

	var wg sync.WaitGroup
	for i := 0; i <= t.rows; i++ {
		wg.Add(1)
		ring := i
		pool.SubmitTask(worker.Task{
			ID: ring,
			Do: func() (any, error) {
				defer wg.Done()
				t.ring(ring)
				return nil, nil
			},
		})
	}
	wg.Wait()
}
