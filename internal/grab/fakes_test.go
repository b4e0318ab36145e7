package grab

import "github.com/go-gl/mathgl/mgl64"

type notice struct {
	grabbed bool
	owner   any
}

type fakeBody struct {
	name      string
	center    mgl64.Vec3
	velocity  mgl64.Vec3
	mask      Mask
	destroyed bool
	detached  bool
	notices   []notice
}

func newFakeBody(name string, x, y, z float64) *fakeBody {
	return &fakeBody{name: name, center: mgl64.Vec3{x, y, z}, mask: 1}
}

func (b *fakeBody) Valid() bool              { return b != nil && !b.destroyed }
func (b *fakeBody) Center() mgl64.Vec3       { return b.center }
func (b *fakeBody) Velocity() mgl64.Vec3     { return b.velocity }
func (b *fakeBody) SetVelocity(v mgl64.Vec3) { b.velocity = v }
func (b *fakeBody) GrabState() GrabState     { return b }

func (b *fakeBody) SetGrabbed(grabbed bool, owner any) {
	b.notices = append(b.notices, notice{grabbed: grabbed, owner: owner})
}

func (b *fakeBody) grabs() int {
	n := 0
	for _, e := range b.notices {
		if e.grabbed {
			n++
		}
	}
	return n
}

func (b *fakeBody) releases() int { return len(b.notices) - b.grabs() }

// fakeCollider is a hit whose body lookup can fail.
type fakeCollider struct {
	body *fakeBody
}

func (c fakeCollider) Body() Body {
	if c.body == nil || c.body.detached {
		return nil
	}
	return c.body
}

func collidersOf(bodies ...*fakeBody) []Collider {
	out := make([]Collider, len(bodies))
	for i, b := range bodies {
		out[i] = fakeCollider{body: b}
	}
	return out
}

// fakeSpace returns bodies whose center is within radius of the capsule
// axis, honoring the buffer bound like a non-allocating physics query.
type fakeSpace struct {
	bodies []*fakeBody
	calls  int
	p1, p2 mgl64.Vec3
}

func (s *fakeSpace) OverlapCapsule(p1, p2 mgl64.Vec3, radius float64, buf []Collider, mask Mask) int {
	s.calls++
	s.p1, s.p2 = p1, p2
	n := 0
	for _, b := range s.bodies {
		if b.destroyed || !b.mask.Has(mask) {
			continue
		}
		dx, dz := b.center.X()-p1.X(), b.center.Z()-p1.Z()
		if dx*dx+dz*dz > radius*radius {
			continue
		}
		if n == len(buf) {
			break
		}
		buf[n] = fakeCollider{body: b}
		n++
	}
	return n
}

type fakeLayers map[string]int

func (l fakeLayers) NameToLayer(name string) int {
	if i, ok := l[name]; ok {
		return i
	}
	return -1
}

type fakeTransform struct {
	pos mgl64.Vec3
}

func (t *fakeTransform) Position() mgl64.Vec3     { return t.pos }
func (t *fakeTransform) SetPosition(p mgl64.Vec3) { t.pos = p }

type fakeLight struct {
	rng float64
}

func (l *fakeLight) SetRange(r float64) { l.rng = r }
