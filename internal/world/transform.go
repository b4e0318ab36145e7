package world

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravwell/internal/grab"
)

var (
	_ grab.Transform  = (*Transform)(nil)
	_ grab.RangeLight = (*Light)(nil)
)

// Transform is a freely movable point.
type Transform struct {
	pos mgl64.Vec3
}

func NewTransform(pos mgl64.Vec3) *Transform {
	return &Transform{pos: pos}
}

func (t *Transform) Position() mgl64.Vec3 { return t.pos }

func (t *Transform) SetPosition(p mgl64.Vec3) { t.pos = p }

// Translate moves the transform by d.
func (t *Transform) Translate(d mgl64.Vec3) { t.pos = t.pos.Add(d) }

// Light is a point light whose range is driven by a grabber.
type Light struct {
	Range float64
}

func (l *Light) SetRange(r float64) { l.Range = r }

// Child is a transform attached to a parent at a fixed offset, the way an
// anchor point hangs off the object that carries it.
type Child struct {
	parent grab.Transform
	offset mgl64.Vec3
}

var _ grab.Transform = (*Child)(nil)

func NewChild(parent grab.Transform, offset mgl64.Vec3) *Child {
	return &Child{parent: parent, offset: offset}
}

func (c *Child) Position() mgl64.Vec3 { return c.parent.Position().Add(c.offset) }

// SetPosition moves the child relative to its parent.
func (c *Child) SetPosition(p mgl64.Vec3) { c.offset = p.Sub(c.parent.Position()) }

func (c *Child) Offset() mgl64.Vec3 { return c.offset }
