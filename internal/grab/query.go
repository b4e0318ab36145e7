package grab

import (
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

const (
	// DefaultCapacity is the initial size of the query buffer.
	DefaultCapacity = 64

	// The capsule spans this vertical range so height never excludes a body
	// in a level-sized world.
	capsuleFloor   = -100.0
	capsuleCeiling = 100.0
)

// OverlapQuery collects candidate colliders in a vertical capsule around an
// anchor. Its buffer only grows: whenever a query fills it, capacity doubles
// and the query is issued again.
type OverlapQuery struct {
	space Space
	buf   []Collider
	grows int
	log   *zap.Logger
}

// NewOverlapQuery wraps space with a buffer of capacity colliders, or
// DefaultCapacity when capacity is not positive.
func NewOverlapQuery(space Space, capacity int) *OverlapQuery {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &OverlapQuery{
		space: space,
		buf:   make([]Collider, capacity),
		log:   zap.NewNop(),
	}
}

// Capsule returns the end points of the query capsule for an anchor.
func Capsule(anchor mgl64.Vec3) (p1, p2 mgl64.Vec3) {
	p1 = mgl64.Vec3{anchor.X(), capsuleFloor, anchor.Z()}
	p2 = mgl64.Vec3{anchor.X(), capsuleCeiling, anchor.Z()}
	return p1, p2
}

// Collect returns every collider of the mask's category within radius of
// the anchor's vertical axis. The result aliases the internal buffer and is
// only valid until the next call.
func (q *OverlapQuery) Collect(anchor mgl64.Vec3, radius float64, mask Mask) []Collider {
	p1, p2 := Capsule(anchor)
	count := q.space.OverlapCapsule(p1, p2, radius, q.buf, mask)
	for count >= len(q.buf) {
		q.grow()
		count = q.space.OverlapCapsule(p1, p2, radius, q.buf, mask)
	}
	return q.buf[:count]
}

func (q *OverlapQuery) grow() {
	next := len(q.buf) * 2
	q.log.Info("query buffer full, growing",
		zap.Int("from", len(q.buf)),
		zap.Int("to", next),
	)
	q.buf = make([]Collider, next)
	q.grows++
}

// Capacity is the current buffer size.
func (q *OverlapQuery) Capacity() int { return len(q.buf) }

// Grows is the number of times the buffer has doubled.
func (q *OverlapQuery) Grows() int { return q.grows }
