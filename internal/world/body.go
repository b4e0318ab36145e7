package world

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/san-kum/gravwell/internal/grab"
)

// BodySpec describes a body to spawn.
type BodySpec struct {
	Center   mgl64.Vec3
	Velocity mgl64.Vec3
	Radius   float64
	Mass     float64
	Layer    int
	// Kinematic bodies ignore gravity and the floor.
	Kinematic bool
}

// RigidBody is a sphere that can be grabbed. It is its own collider and
// grab state holder.
type RigidBody struct {
	id        uint64
	center    mgl64.Vec3
	velocity  mgl64.Vec3
	accel     mgl64.Vec3
	radius    float64
	mass      float64
	layer     int
	kinematic bool
	destroyed bool

	grabbed bool
	owner   any
	grabs   int

	cpBody  *cp.Body
	cpShape *cp.Shape
}

var (
	_ grab.Body      = (*RigidBody)(nil)
	_ grab.GrabState = (*RigidBody)(nil)
	_ grab.Collider  = (*RigidBody)(nil)
)

func (b *RigidBody) ID() uint64 { return b.id }

func (b *RigidBody) Valid() bool { return b != nil && !b.destroyed }

func (b *RigidBody) Center() mgl64.Vec3 { return b.center }

func (b *RigidBody) Velocity() mgl64.Vec3 { return b.velocity }

func (b *RigidBody) SetVelocity(v mgl64.Vec3) { b.velocity = v }

func (b *RigidBody) Radius() float64 { return b.radius }

func (b *RigidBody) Mass() float64 { return b.mass }

func (b *RigidBody) Layer() int { return b.layer }

func (b *RigidBody) GrabState() grab.GrabState { return b }

// Body returns the body itself; a RigidBody is its own collider.
func (b *RigidBody) Body() grab.Body { return b }

// SetGrabbed records a grab or release. A release from a grabber that no
// longer owns the body is ignored, so a later grabber keeps it.
func (b *RigidBody) SetGrabbed(grabbed bool, owner any) {
	if grabbed {
		b.grabbed = true
		b.owner = owner
		b.grabs++
		return
	}
	if b.owner != nil && b.owner != owner {
		return
	}
	b.grabbed = false
	b.owner = nil
}

func (b *RigidBody) Grabbed() bool { return b.grabbed }

// Owner is the grabber currently holding the body, nil when released.
func (b *RigidBody) Owner() any { return b.owner }

// Grabs counts how many times the body has been grabbed.
func (b *RigidBody) Grabs() int { return b.grabs }

// Prop is static scenery. It collides with queries but has no rigid body,
// so it is never grabbed.
type Prop struct {
	center mgl64.Vec3
	radius float64
	layer  int

	cpShape *cp.Shape
}

func (p *Prop) Body() grab.Body { return nil }

func (p *Prop) Center() mgl64.Vec3 { return p.center }

func (p *Prop) Radius() float64 { return p.radius }
