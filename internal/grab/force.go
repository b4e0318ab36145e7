package grab

import "github.com/go-gl/mathgl/mgl64"

const (
	// StopDistance is the absolute distance below which a body is left alone.
	StopDistance = 0.1

	// DampingFactor scales the per-tick travel distance into the threshold
	// below which velocity tapers with the square of the distance.
	DampingFactor = 0.1
)

// PullVelocity computes the velocity that moves a body at pos toward anchor.
// The speed is strength*dt regardless of distance; closer than
// speed*DampingFactor it is scaled by distance squared. ok is false when the
// body is within StopDistance and its velocity should be left unchanged.
func PullVelocity(anchor, pos mgl64.Vec3, strength, dt float64) (v mgl64.Vec3, ok bool) {
	dir := anchor.Sub(pos)
	dist := dir.Len()
	if dist < StopDistance {
		return mgl64.Vec3{}, false
	}

	speed := strength * dt
	v = dir.Mul(speed / dist)
	if dist < speed*DampingFactor {
		v = v.Mul(dist * dist)
	}
	return v, true
}

// Pull overwrites the body's velocity with PullVelocity. It reports whether
// the velocity was changed.
func Pull(b Body, anchor mgl64.Vec3, strength, dt float64) bool {
	v, ok := PullVelocity(anchor, b.Center(), strength, dt)
	if !ok {
		return false
	}
	b.SetVelocity(v)
	return true
}
