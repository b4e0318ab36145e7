package world

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/san-kum/gravwell/internal/grab"
	"github.com/san-kum/gravwell/internal/integrators"
	"go.uber.org/zap"
)

const DefaultGravity = 9.81

var _ grab.Space = (*World)(nil)

type Option func(*World)

// WithGravity sets the downward acceleration.
func WithGravity(g float64) Option {
	return func(w *World) { w.gravity = g }
}

// WithFloor puts a floor plane at height y.
func WithFloor(y float64) Option {
	return func(w *World) {
		w.floor = y
		w.hasFloor = true
	}
}

func WithoutFloor() Option {
	return func(w *World) { w.hasFloor = false }
}

func WithIntegrator(integ integrators.Integrator) Option {
	return func(w *World) {
		if integ != nil {
			w.integ = integ
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(w *World) {
		if log != nil {
			w.log = log
		}
	}
}

// World owns bodies, props and the broadphase index.
type World struct {
	layers   *Layers
	space    *cp.Space
	integ    integrators.Integrator
	gravity  float64
	floor    float64
	hasFloor bool
	log      *zap.Logger

	nextID    uint64
	bodies    []*RigidBody
	props     []*Prop
	colliders map[*cp.Shape]queryHit
	hits      []queryHit

	time  float64
	steps int
}

type queryHit struct {
	id       uint64
	collider grab.Collider
	center   mgl64.Vec3
	radius   float64
}

func New(layers *Layers, opts ...Option) *World {
	if layers == nil {
		layers, _ = NewLayers()
	}
	w := &World{
		layers:    layers,
		space:     cp.NewSpace(),
		integ:     integrators.NewSemiImplicit(),
		gravity:   DefaultGravity,
		hasFloor:  true,
		log:       zap.NewNop(),
		colliders: make(map[*cp.Shape]queryHit),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *World) Layers() *Layers { return w.layers }

// Spawn adds a dynamic (or kinematic) sphere.
func (w *World) Spawn(spec BodySpec) (*RigidBody, error) {
	if spec.Radius <= 0 {
		return nil, fmt.Errorf("%w, got %f", ErrInvalidRadius, spec.Radius)
	}
	if w.layers.LayerName(spec.Layer) == "" {
		return nil, fmt.Errorf("%w: index %d", ErrUnknownLayer, spec.Layer)
	}
	mass := spec.Mass
	if mass <= 0 {
		mass = 1
	}

	w.nextID++
	b := &RigidBody{
		id:        w.nextID,
		center:    spec.Center,
		velocity:  spec.Velocity,
		radius:    spec.Radius,
		mass:      mass,
		layer:     spec.Layer,
		kinematic: spec.Kinematic,
	}

	b.cpBody = w.space.AddBody(cp.NewKinematicBody())
	b.cpBody.SetPosition(footprint(spec.Center))
	b.cpShape = w.space.AddShape(cp.NewCircle(b.cpBody, spec.Radius, cp.Vector{}))
	b.cpShape.SetFilter(categoryFilter(spec.Layer))

	w.bodies = append(w.bodies, b)
	w.colliders[b.cpShape] = queryHit{id: b.id, collider: b}
	return b, nil
}

// AddProp adds static scenery that queries can hit but grabbers cannot hold.
func (w *World) AddProp(center mgl64.Vec3, radius float64, layer int) (*Prop, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("%w, got %f", ErrInvalidRadius, radius)
	}
	if w.layers.LayerName(layer) == "" {
		return nil, fmt.Errorf("%w: index %d", ErrUnknownLayer, layer)
	}
	w.nextID++
	p := &Prop{center: center, radius: radius, layer: layer}
	p.cpShape = w.space.AddShape(cp.NewCircle(w.space.StaticBody, radius, footprint(center)))
	p.cpShape.SetFilter(categoryFilter(layer))

	w.props = append(w.props, p)
	w.colliders[p.cpShape] = queryHit{id: w.nextID, collider: p, center: center, radius: radius}
	return p, nil
}

// Destroy removes a body. Grabbers holding it see it as invalid.
func (w *World) Destroy(b *RigidBody) {
	if !b.Valid() {
		return
	}
	b.destroyed = true
	delete(w.colliders, b.cpShape)
	w.space.RemoveShape(b.cpShape)
	w.space.RemoveBody(b.cpBody)
	for i, other := range w.bodies {
		if other == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	w.log.Debug("body destroyed", zap.Uint64("id", b.id))
}

// Bodies returns the live bodies in spawn order.
func (w *World) Bodies() []*RigidBody {
	out := make([]*RigidBody, len(w.bodies))
	copy(out, w.bodies)
	return out
}

func (w *World) Props() []*Prop { return w.props }

func (w *World) Time() float64 { return w.time }

func (w *World) Steps() int { return w.steps }

// OverlapCapsule writes up to len(buf) colliders of the mask's categories
// that overlap the capsule p1-p2 and returns how many it wrote. Hits are
// ordered by spawn order.
func (w *World) OverlapCapsule(p1, p2 mgl64.Vec3, radius float64, buf []grab.Collider, mask grab.Mask) int {
	if len(buf) == 0 || mask == 0 {
		return 0
	}

	w.hits = w.hits[:0]
	filter := cp.ShapeFilter{Group: 0, Categories: ^uint(0), Mask: uint(mask)}
	w.space.BBQuery(capsuleBounds(p1, p2, radius), filter, func(shape *cp.Shape, _ interface{}) {
		hit, ok := w.colliders[shape]
		if !ok {
			return
		}
		center, r := hit.center, hit.radius
		if b, ok := hit.collider.(*RigidBody); ok {
			center, r = b.center, b.radius
		}
		if segmentDistance(center, p1, p2) <= radius+r {
			w.hits = append(w.hits, hit)
		}
	}, nil)

	sort.Slice(w.hits, func(i, j int) bool { return w.hits[i].id < w.hits[j].id })
	n := min(len(w.hits), len(buf))
	for i := 0; i < n; i++ {
		buf[i] = w.hits[i].collider
	}
	return n
}

// Step advances every body by dt and refreshes the index.
func (w *World) Step(dt float64) {
	down := mgl64.Vec3{0, -w.gravity, 0}
	for _, b := range w.bodies {
		accel := down
		if b.kinematic {
			accel = mgl64.Vec3{}
		}
		p := integrators.Particle{Position: b.center, Velocity: b.velocity, Accel: b.accel}
		w.integ.Step(&p, accel, dt)

		if w.hasFloor && !b.kinematic && p.Position.Y()-b.radius < w.floor {
			p.Position[1] = w.floor + b.radius
			if p.Velocity.Y() < 0 {
				p.Velocity[1] = 0
			}
		}

		b.center, b.velocity, b.accel = p.Position, p.Velocity, p.Accel
		b.cpBody.SetPosition(footprint(b.center))
		// Re-adding the shape recaches its bounds from the moved body.
		w.space.RemoveShape(b.cpShape)
		w.space.AddShape(b.cpShape)
	}
	w.time += dt
	w.steps++
}

// footprint projects a 3D point onto the horizontal plane of the index.
func footprint(p mgl64.Vec3) cp.Vector {
	return cp.Vector{X: p.X(), Y: p.Z()}
}

func categoryFilter(layer int) cp.ShapeFilter {
	return cp.ShapeFilter{Group: 0, Categories: uint(grab.MaskOf(layer)), Mask: ^uint(0)}
}

func capsuleBounds(p1, p2 mgl64.Vec3, radius float64) cp.BB {
	return cp.BB{
		L: math.Min(p1.X(), p2.X()) - radius,
		B: math.Min(p1.Z(), p2.Z()) - radius,
		R: math.Max(p1.X(), p2.X()) + radius,
		T: math.Max(p1.Z(), p2.Z()) + radius,
	}
}

// segmentDistance is the distance from p to the segment a-b.
func segmentDistance(p, a, b mgl64.Vec3) float64 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return p.Sub(a).Len()
	}
	t := p.Sub(a).Dot(ab) / lenSq
	t = math.Max(0, math.Min(1, t))
	return p.Sub(a.Add(ab.Mul(t))).Len()
}
