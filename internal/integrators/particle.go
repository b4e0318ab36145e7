package integrators

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Particle is the integrable part of a body.
type Particle struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	// Accel is the acceleration applied on the previous step.
	Accel mgl64.Vec3
}

type Integrator interface {
	Step(p *Particle, accel mgl64.Vec3, dt float64)
}

var registry = map[string]func() Integrator{
	"euler":         func() Integrator { return NewEuler() },
	"semi_implicit": func() Integrator { return NewSemiImplicit() },
	"verlet":        func() Integrator { return NewVerlet() },
}

// Get returns a fresh integrator by name.
func Get(name string) (Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
