package grab

import "github.com/go-gl/mathgl/mgl64"

// Mask is a category bitmask. Layer n maps to bit 1<<n.
type Mask uint32

// MaskOf returns the bitmask for a layer index, or 0 for an invalid index.
func MaskOf(layer int) Mask {
	if layer < 0 || layer >= 32 {
		return 0
	}
	return Mask(1) << uint(layer)
}

// Has reports whether m shares any bit with other.
func (m Mask) Has(other Mask) bool { return m&other != 0 }

// Space answers bounded overlap queries. OverlapCapsule writes at most
// len(buf) colliders whose category matches mask and returns how many it
// wrote. A return value equal to len(buf) means the result may be truncated.
type Space interface {
	OverlapCapsule(p1, p2 mgl64.Vec3, radius float64, buf []Collider, mask Mask) int
}

// Layers resolves category names to layer indices, -1 when undefined.
type Layers interface {
	NameToLayer(name string) int
}

// Collider is a query hit. Body returns nil when the collider is not
// attached to a rigid body.
type Collider interface {
	Body() Body
}

// Body is a physics-enabled object that can be pulled. Implementations are
// used as map keys and must be comparable, typically pointers.
type Body interface {
	// Valid reports false once the body has been destroyed.
	Valid() bool
	// Center is the center of the body's bounding volume.
	Center() mgl64.Vec3
	Velocity() mgl64.Vec3
	SetVelocity(v mgl64.Vec3)
	// GrabState may return nil for bodies without a grab state holder.
	GrabState() GrabState
}

// GrabState is notified when a grabber starts or stops pulling a body.
type GrabState interface {
	SetGrabbed(grabbed bool, owner any)
}

// Transform is an externally movable position.
type Transform interface {
	Position() mgl64.Vec3
	SetPosition(p mgl64.Vec3)
}

// RangeLight is a cosmetic light whose range follows the grab radius.
type RangeLight interface {
	SetRange(r float64)
}
