package integrators

import "github.com/go-gl/mathgl/mgl64"

// Euler advances position with the old velocity.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(p *Particle, accel mgl64.Vec3, dt float64) {
	p.Position = p.Position.Add(p.Velocity.Mul(dt))
	p.Velocity = p.Velocity.Add(accel.Mul(dt))
	p.Accel = accel
}

// SemiImplicit updates velocity first and moves with the new velocity, the
// order rigid body engines use. A velocity written before the step is
// therefore perturbed only by this step's acceleration.
type SemiImplicit struct{}

func NewSemiImplicit() *SemiImplicit {
	return &SemiImplicit{}
}

func (s *SemiImplicit) Step(p *Particle, accel mgl64.Vec3, dt float64) {
	p.Velocity = p.Velocity.Add(accel.Mul(dt))
	p.Position = p.Position.Add(p.Velocity.Mul(dt))
	p.Accel = accel
}
