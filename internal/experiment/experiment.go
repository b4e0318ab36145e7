package experiment

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravwell/internal/config"
	"github.com/san-kum/gravwell/internal/grab"
	"github.com/san-kum/gravwell/internal/sim"
	"github.com/san-kum/gravwell/internal/world"
	"go.uber.org/zap"
)

// SettleDistance is the anchor distance at which default metrics count a
// grabbed body as settled.
const SettleDistance = 1.0

type Option func(*Experiment)

func WithLogger(log *zap.Logger) Option {
	return func(e *Experiment) {
		if log != nil {
			e.log = log
		}
	}
}

func WithRegistry(r *Registry) Option {
	return func(e *Experiment) {
		if r != nil {
			e.registry = r
		}
	}
}

// WithInput replaces the configured input, for callers that drive pulling
// themselves.
func WithInput(in sim.InputSource) Option {
	return func(e *Experiment) { e.input = in }
}

// Experiment assembles a world, a grabber rig and a simulator from a
// config.
type Experiment struct {
	cfg      *config.Config
	registry *Registry
	log      *zap.Logger
	input    sim.InputSource
	rng      *rand.Rand

	world     *world.World
	rig       *world.Transform
	anchor    grab.Transform
	light     *world.Light
	grabber   *grab.Grabber
	simulator *sim.Simulator
	bodies    []*world.RigidBody
}

func New(cfg *config.Config, opts ...Option) *Experiment {
	e := &Experiment{
		cfg:      cfg,
		registry: NewRegistry(),
		log:      zap.NewNop(),
		rng:      rand.New(rand.NewSource(cfg.Sim.Seed)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Experiment) Setup(metrics []sim.Metric) error {
	cfg := e.cfg
	if err := cfg.Validate(); err != nil {
		return err
	}

	layers, err := world.NewLayers(cfg.Layers...)
	if err != nil {
		return fmt.Errorf("layers: %w", err)
	}
	integ, err := e.registry.GetIntegrator(cfg.Sim.Integrator)
	if err != nil {
		return err
	}
	if e.input == nil {
		if e.input, err = e.registry.GetInput(cfg.Input); err != nil {
			return err
		}
	}

	e.world = world.New(layers,
		world.WithGravity(cfg.Sim.Gravity),
		world.WithFloor(cfg.Sim.Floor),
		world.WithIntegrator(integ),
		world.WithLogger(e.log.Named("world")),
	)
	if err := e.populate(layers); err != nil {
		return err
	}

	e.rig = world.NewTransform(mgl64.Vec3(cfg.Rig.Position))
	e.anchor = e.rig
	if off, ok := cfg.AnchorOffset(); ok {
		e.anchor = world.NewChild(e.rig, mgl64.Vec3(off))
	}
	deps := grab.Deps{Space: e.world, Layers: layers, Self: e.rig, Anchor: e.anchor}
	if cfg.Rig.Light {
		e.light = &world.Light{}
		deps.Light = e.light
	}

	e.grabber, err = grab.New(cfg.Grabber, deps, grab.WithLogger(e.log.Named("grabber")))
	if err != nil {
		return err
	}

	e.simulator = sim.New(e.world, e.grabber, e.rig, e.input)
	e.simulator.SetLogger(e.log.Named("sim"))
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	e.scheduleDestroy()

	e.log.Info("experiment ready",
		zap.Int("bodies", len(e.bodies)),
		zap.Int("decoys", cfg.Scene.Decoys),
		zap.Int("props", cfg.Scene.Props),
		zap.String("layout", cfg.Scene.Layout),
		zap.Int64("seed", cfg.Sim.Seed),
	)
	return nil
}

// populate spawns the grabbable bodies, the decoys on another layer and
// the static props.
func (e *Experiment) populate(layers *world.Layers) error {
	scene := e.cfg.Scene
	layout, err := e.registry.GetLayout(scene.Layout)
	if err != nil {
		return err
	}
	if _, err := grab.ResolveCategory(layers, e.cfg.Grabber.Category); err != nil {
		return err
	}
	grabLayer := layers.NameToLayer(e.cfg.Grabber.Category)
	origin := mgl64.Vec2{e.cfg.Rig.Position[0], e.cfg.Rig.Position[2]}

	for _, p := range layout(scene.Bodies, scene.Spread, e.rng) {
		b, err := e.world.Spawn(world.BodySpec{
			Center: e.place(origin.Add(p)),
			Radius: scene.Radius,
			Mass:   scene.Mass,
			Layer:  grabLayer,
		})
		if err != nil {
			return err
		}
		e.bodies = append(e.bodies, b)
	}

	if scene.Decoys > 0 {
		decoyLayer := layers.NameToLayer(scene.DecoyLayer)
		if decoyLayer < 0 {
			return fmt.Errorf("%w: decoy layer %q", world.ErrUnknownLayer, scene.DecoyLayer)
		}
		for _, p := range randomLayout(scene.Decoys, scene.Spread, e.rng) {
			if _, err := e.world.Spawn(world.BodySpec{
				Center: e.place(origin.Add(p)),
				Radius: scene.Radius,
				Mass:   scene.Mass,
				Layer:  decoyLayer,
			}); err != nil {
				return err
			}
		}
	}

	for _, p := range randomLayout(scene.Props, scene.Spread, e.rng) {
		center := mgl64.Vec3{origin.X() + p.X(), e.cfg.Sim.Floor + scene.Radius, origin.Y() + p.Y()}
		if _, err := e.world.AddProp(center, scene.Radius*2, grabLayer); err != nil {
			return err
		}
	}
	return nil
}

func (e *Experiment) place(p mgl64.Vec2) mgl64.Vec3 {
	y := e.cfg.Sim.Floor + e.cfg.Scene.Radius + e.rng.Float64()*e.cfg.Scene.Height
	return mgl64.Vec3{p.X(), y, p.Y()}
}

func (e *Experiment) scheduleDestroy() {
	n := min(e.cfg.Scene.DestroyCount, len(e.bodies))
	if n == 0 {
		return
	}
	victims := append([]*world.RigidBody(nil), e.bodies[:n]...)
	e.simulator.Schedule(e.cfg.Scene.DestroyAt, func(w *world.World) {
		for _, b := range victims {
			w.Destroy(b)
		}
		e.log.Info("bodies destroyed", zap.Int("count", len(victims)))
	})
}

func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		Dt:       e.cfg.Sim.Dt,
		Duration: e.cfg.Sim.Duration,
		Seed:     e.cfg.Sim.Seed,
		Drift:    mgl64.Vec3(e.cfg.Rig.Drift),
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.SimConfig())
}

// Factory returns a sim.Factory that sets up a fresh experiment from a copy
// of cfg for each seed.
func Factory(cfg *config.Config, log *zap.Logger) sim.Factory {
	return func(seed int64) (*sim.Simulator, error) {
		c := *cfg
		c.Sim.Seed = seed
		e := New(&c, WithLogger(log))
		if err := e.Setup(e.registry.DefaultMetrics(SettleDistance)); err != nil {
			return nil, err
		}
		return e.Simulator(), nil
	}
}

func (e *Experiment) Config() *config.Config     { return e.cfg }
func (e *Experiment) Registry() *Registry        { return e.registry }
func (e *Experiment) Simulator() *sim.Simulator  { return e.simulator }
func (e *Experiment) World() *world.World        { return e.world }
func (e *Experiment) Grabber() *grab.Grabber     { return e.grabber }
func (e *Experiment) Rig() *world.Transform      { return e.rig }
func (e *Experiment) Anchor() grab.Transform     { return e.anchor }
func (e *Experiment) Light() *world.Light        { return e.light }
func (e *Experiment) Input() sim.InputSource     { return e.input }
func (e *Experiment) Bodies() []*world.RigidBody { return e.bodies }
