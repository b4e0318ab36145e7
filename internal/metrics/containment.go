package metrics

import "github.com/san-kum/gravwell/internal/sim"

// Containment is the fraction of steps on which every grabbed body stayed
// inside the grab radius.
type Containment struct {
	name       string
	violations int
	samples    int
}

func NewContainment() *Containment {
	return &Containment{name: "containment"}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(s *sim.Snapshot) {
	c.samples++
	for _, b := range s.Bodies {
		if !b.Grabbed {
			continue
		}
		d := b.Center.Sub(s.Anchor)
		// The query ignores height, so only the horizontal offset counts.
		if d.X()*d.X()+d.Z()*d.Z() > (s.Radius+b.Radius)*(s.Radius+b.Radius) {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
