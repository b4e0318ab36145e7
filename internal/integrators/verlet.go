package integrators

import "github.com/go-gl/mathgl/mgl64"

// Verlet is velocity Verlet using the acceleration stored on the particle
// from its previous step.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(p *Particle, accel mgl64.Vec3, dt float64) {
	halfDt2 := 0.5 * dt * dt
	p.Position = p.Position.Add(p.Velocity.Mul(dt)).Add(p.Accel.Mul(halfDt2))
	p.Velocity = p.Velocity.Add(p.Accel.Add(accel).Mul(0.5 * dt))
	p.Accel = accel
}
