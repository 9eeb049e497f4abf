package mesh

// TorusOption is a functional option used to configure torus generation.
type TorusOption func(*torusConfig)

type torusConfig struct {
	workers    int
	saturation float32
	value      float32
	alpha      float32
}

func defaultTorusConfig() torusConfig {
	return torusConfig{
		workers:    1,
		saturation: 1,
		value:      1,
		alpha:      1,
	}
}

// WithWorkers sets how many workers fill rings in parallel. Values below 2 keep generation
// on the calling goroutine. The generated mesh is identical for every worker count.
//
// Parameters:
//   - n: the number of pool workers
//
// Returns:
//   - TorusOption: a function that sets the worker count
func WithWorkers(n int) TorusOption {
	return func(c *torusConfig) {
		c.workers = n
	}
}

// WithColor overrides the saturation, value and alpha used for every vertex color.
// Hue always follows the tube angle. The defaults are 1, 1, 1.
//
// Parameters:
//   - s: saturation in [0, 1]
//   - v: value in [0, 1]
//   - a: alpha in [0, 1]
//
// Returns:
//   - TorusOption: a function that sets the color components
func WithColor(s, v, a float32) TorusOption {
	return func(c *torusConfig) {
		c.saturation = s
		c.value = v
		c.alpha = a
	}
}
