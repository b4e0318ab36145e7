package experiment

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravwell/internal/config"
	"github.com/san-kum/gravwell/internal/integrators"
	"github.com/san-kum/gravwell/internal/metrics"
	"github.com/san-kum/gravwell/internal/sim"
)

// Layout places n bodies on the horizontal plane within spread of the
// origin. Positions are (x, z) offsets.
type Layout func(n int, spread float64, rng *rand.Rand) []mgl64.Vec2

type Registry struct {
	integrators map[string]func() integrators.Integrator
	inputs      map[string]func(config.InputConfig) sim.InputSource
	layouts     map[string]Layout
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() integrators.Integrator),
		inputs:      make(map[string]func(config.InputConfig) sim.InputSource),
		layouts:     make(map[string]Layout),
	}

	for _, name := range integrators.Names() {
		name := name
		r.integrators[name] = func() integrators.Integrator {
			integ, _ := integrators.Get(name)
			return integ
		}
	}

	r.inputs["hold"] = func(config.InputConfig) sim.InputSource { return sim.Hold{} }
	r.inputs["never"] = func(config.InputConfig) sim.InputSource { return sim.Never{} }
	r.inputs["pulse"] = func(c config.InputConfig) sim.InputSource {
		return sim.Pulse{Period: c.Period, Duty: c.Duty}
	}
	r.inputs["windows"] = func(c config.InputConfig) sim.InputSource {
		ws := make(sim.Windows, len(c.Windows))
		for i, w := range c.Windows {
			ws[i] = sim.Window{Start: w.Start, End: w.End}
		}
		return ws
	}

	r.layouts["ring"] = ringLayout
	r.layouts["grid"] = gridLayout
	r.layouts["random"] = randomLayout

	return r
}

func (r *Registry) GetIntegrator(name string) (integrators.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetInput(cfg config.InputConfig) (sim.InputSource, error) {
	fn, ok := r.inputs[cfg.Mode]
	if !ok {
		return nil, fmt.Errorf("unknown input mode: %s", cfg.Mode)
	}
	return fn(cfg), nil
}

func (r *Registry) GetLayout(name string) (Layout, error) {
	fn, ok := r.layouts[name]
	if !ok {
		return nil, fmt.Errorf("unknown layout: %s", name)
	}
	return fn, nil
}

func (r *Registry) ListLayouts() []string     { return sortedKeys(r.layouts) }
func (r *Registry) ListInputs() []string      { return sortedKeys(r.inputs) }
func (r *Registry) ListIntegrators() []string { return sortedKeys(r.integrators) }

// DefaultMetrics are attached to every run. settle is the distance at
// which a grabbed body counts as settled.
func (r *Registry) DefaultMetrics(settle float64) []sim.Metric {
	return []sim.Metric{
		metrics.NewGrabs(),
		metrics.NewReleases(),
		metrics.NewPeakTracked(),
		metrics.NewMeanDistance(),
		metrics.NewSettled(settle),
		metrics.NewContainment(),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ringLayout(n int, spread float64, _ *rand.Rand) []mgl64.Vec2 {
	out := make([]mgl64.Vec2, n)
	for i := range out {
		theta := 2 * math.Pi * float64(i) / float64(n)
		out[i] = mgl64.Vec2{spread * math.Cos(theta), spread * math.Sin(theta)}
	}
	return out
}

// gridLayout fills the square inscribed in the spread circle, so every
// body lies within spread of the origin.
func gridLayout(n int, spread float64, _ *rand.Rand) []mgl64.Vec2 {
	out := make([]mgl64.Vec2, 0, n)
	if n == 0 {
		return out
	}
	side := int(math.Ceil(math.Sqrt(float64(n))))
	half := spread / math.Sqrt2
	step := 0.0
	if side > 1 {
		step = 2 * half / float64(side-1)
	}
	for i := 0; i < n; i++ {
		row, col := i/side, i%side
		x, z := -half+float64(col)*step, -half+float64(row)*step
		if side == 1 {
			x, z = 0, 0
		}
		out = append(out, mgl64.Vec2{x, z})
	}
	return out
}

// randomLayout samples uniformly over the spread disc.
func randomLayout(n int, spread float64, rng *rand.Rand) []mgl64.Vec2 {
	out := make([]mgl64.Vec2, n)
	for i := range out {
		r := spread * math.Sqrt(rng.Float64())
		theta := 2 * math.Pi * rng.Float64()
		out[i] = mgl64.Vec2{r * math.Cos(theta), r * math.Sin(theta)}
	}
	return out
}
