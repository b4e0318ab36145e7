package grab

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Grabber", func() {
	var (
		space  *fakeSpace
		layers fakeLayers
		self   *fakeTransform
		light  *fakeLight
		cfg    Config
	)

	BeforeEach(func() {
		space = &fakeSpace{}
		layers = fakeLayers{"Default": 0, "Grabbable": 3}
		self = &fakeTransform{pos: mgl64.Vec3{0, 10, 0}}
		light = &fakeLight{}
		cfg = Config{Category: "Grabbable", PullStrength: 200, MaxRadius: 10}
	})

	newGrabber := func() *Grabber {
		g, err := New(cfg, Deps{Space: space, Layers: layers, Self: self, Light: light})
		Expect(err).NotTo(HaveOccurred())
		return g
	}

	grabbable := func(name string, x, y, z float64) *fakeBody {
		b := newFakeBody(name, x, y, z)
		b.mask = MaskOf(3)
		space.bodies = append(space.bodies, b)
		return b
	}

	Describe("construction", func() {
		It("resolves the category to a single-bit mask", func() {
			g := newGrabber()
			Expect(g.Mask()).To(Equal(Mask(1 << 3)))
		})

		It("fails fast on an empty category", func() {
			cfg.Category = ""
			_, err := New(cfg, Deps{Space: space, Layers: layers, Self: self})
			Expect(err).To(MatchError(ErrEmptyCategory))
		})

		It("fails fast on an undefined category and names it", func() {
			cfg.Category = "Pickups"
			_, err := New(cfg, Deps{Space: space, Layers: layers, Self: self})
			Expect(errors.Is(err, ErrUnknownCategory)).To(BeTrue())

			var catErr *CategoryError
			Expect(errors.As(err, &catErr)).To(BeTrue())
			Expect(catErr.Category).To(Equal("Pickups"))
			Expect(err.Error()).To(ContainSubstring(`"Pickups"`))
		})

		It("rejects non-positive strength and radius", func() {
			cfg.PullStrength = 0
			_, err := New(cfg, Deps{Space: space, Layers: layers, Self: self})
			Expect(err).To(MatchError(ErrParameterBounds))

			cfg.PullStrength = 200
			cfg.MaxRadius = -1
			_, err = New(cfg, Deps{Space: space, Layers: layers, Self: self})
			Expect(err).To(MatchError(ErrParameterBounds))
		})

		It("requires its collaborators", func() {
			_, err := New(cfg, Deps{Layers: layers, Self: self})
			Expect(err).To(MatchError(ErrMissingDependency))
		})

		It("anchors on itself when no anchor is given", func() {
			g := newGrabber()
			self.pos = mgl64.Vec3{4, 10, 5}
			Expect(g.Anchor()).To(Equal(mgl64.Vec3{4, 10, 5}))
		})
	})

	Describe("Sync", func() {
		It("pins the height to the radius and sizes the light", func() {
			g := newGrabber()
			self.pos = mgl64.Vec3{1, 3, 2}

			g.Sync()

			Expect(self.pos).To(Equal(mgl64.Vec3{1, 10, 2}))
			Expect(light.rng).To(Equal(20.0))
		})

		It("follows live radius changes", func() {
			g := newGrabber()
			Expect(g.SetMaxRadius(6)).To(Succeed())
			g.Sync()
			Expect(self.pos.Y()).To(Equal(6.0))
			Expect(light.rng).To(Equal(12.0))

			Expect(g.SetMaxRadius(0)).To(MatchError(ErrParameterBounds))
			Expect(g.Config().MaxRadius).To(Equal(6.0))
		})
	})

	Describe("Step", func() {
		It("pulls bodies in range and ignores the rest", func() {
			near := grabbable("near", 5, 10, 0)
			far := grabbable("far", 50, 10, 0)
			other := newFakeBody("other", 1, 10, 0)
			other.mask = MaskOf(0)
			space.bodies = append(space.bodies, other)
			g := newGrabber()

			report := g.Step(true, 0.02)

			Expect(report).To(Equal(StepReport{Pulling: true, Candidates: 1, Started: 1, Pulled: 1, Tracked: 1}))
			Expect(near.velocity.ApproxEqualThreshold(mgl64.Vec3{-4, 0, 0}, 1e-9)).To(BeTrue())
			Expect(near.notices).To(Equal([]notice{{true, g}}))
			Expect(far.notices).To(BeEmpty())
			Expect(other.notices).To(BeEmpty())
		})

		It("releases everything when pulling stops", func() {
			a := grabbable("a", 1, 10, 0)
			b := grabbable("b", 0, 10, 2)
			g := newGrabber()
			g.Step(true, 0.02)
			Expect(g.Tracked()).To(Equal(2))

			report := g.Step(false, 0.02)

			Expect(report).To(Equal(StepReport{Stopped: 2}))
			Expect(g.Tracked()).To(BeZero())
			Expect(a.releases()).To(Equal(1))
			Expect(b.releases()).To(Equal(1))

			Expect(g.Step(false, 0.02)).To(Equal(StepReport{}))
			Expect(a.releases()).To(Equal(1))
		})

		It("drops bodies that leave range", func() {
			a := grabbable("a", 3, 10, 0)
			g := newGrabber()
			g.Step(true, 0.02)

			a.center = mgl64.Vec3{30, 10, 0}
			report := g.Step(true, 0.02)

			Expect(report.Stopped).To(Equal(1))
			Expect(g.IsTracking(a)).To(BeFalse())
			Expect(a.notices).To(Equal([]notice{{true, g}, {false, g}}))
		})

		It("skips bodies destroyed since the last query", func() {
			a := grabbable("a", 3, 10, 0)
			g := newGrabber()
			g.Step(true, 0.02)

			a.destroyed = true
			a.velocity = mgl64.Vec3{}
			Expect(func() { g.Step(true, 0.02) }).NotTo(Panic())
			Expect(a.velocity).To(Equal(mgl64.Vec3{}))
			Expect(g.Tracked()).To(BeZero())
		})

		It("grows the query buffer under crowding", func() {
			for i := 0; i < 100; i++ {
				grabbable("c", float64(i%7), 10, 0)
			}
			g := newGrabber()

			report := g.Step(true, 0.02)

			Expect(report.Candidates).To(Equal(100))
			Expect(report.Tracked).To(Equal(100))
			Expect(g.QueryCapacity()).To(Equal(128))
			Expect(g.QueryGrows()).To(Equal(1))
		})

		It("leaves bodies at the anchor alone", func() {
			a := grabbable("a", 0.05, 10, 0)
			a.velocity = mgl64.Vec3{0, -1, 0}
			g := newGrabber()

			report := g.Step(true, 0.02)

			Expect(report.Pulled).To(BeZero())
			Expect(report.Tracked).To(Equal(1))
			Expect(a.velocity).To(Equal(mgl64.Vec3{0, -1, 0}))
		})

		It("pulls toward a separate anchor", func() {
			anchor := &fakeTransform{pos: mgl64.Vec3{10, 10, 0}}
			a := grabbable("a", 12, 10, 0)
			g, err := New(cfg, Deps{Space: space, Layers: layers, Self: self, Anchor: anchor})
			Expect(err).NotTo(HaveOccurred())

			g.Step(true, 0.02)

			Expect(a.velocity.ApproxEqualThreshold(mgl64.Vec3{-4, 0, 0}, 1e-9)).To(BeTrue())
		})
	})
})
