package grab

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// Config holds the tunable grabber parameters.
type Config struct {
	// Category is the layer name of grabbable objects.
	Category     string  `yaml:"category"`
	PullStrength float64 `yaml:"pull_strength"`
	MaxRadius    float64 `yaml:"max_radius"`
}

// Validate checks the numeric parameters. Category resolution happens in New.
func (c Config) Validate() error {
	if c.PullStrength <= 0 {
		return fmt.Errorf("%w: pull strength must be positive, got %f", ErrParameterBounds, c.PullStrength)
	}
	if c.MaxRadius <= 0 {
		return fmt.Errorf("%w: max radius must be positive, got %f", ErrParameterBounds, c.MaxRadius)
	}
	return nil
}

// Deps are the collaborators a grabber works against. Anchor defaults to
// Self and Light is optional.
type Deps struct {
	Space  Space
	Layers Layers
	Self   Transform
	Anchor Transform
	Light  RangeLight
}

// Option configures a Grabber in New.
type Option func(*Grabber)

func WithLogger(log *zap.Logger) Option {
	return func(g *Grabber) {
		if log != nil {
			g.log = log
		}
	}
}

// WithCapacity sets the initial query buffer size.
func WithCapacity(n int) Option {
	return func(g *Grabber) { g.capacity = n }
}

// StepReport summarizes one physics tick.
type StepReport struct {
	Pulling    bool
	Candidates int
	Started    int
	Stopped    int
	Pulled     int
	Tracked    int
}

// Grabber pulls every grabbable body around its anchor while pulling is
// active and releases them all when it is not.
type Grabber struct {
	cfg      Config
	mask     Mask
	self     Transform
	anchor   Transform
	light    RangeLight
	query    *OverlapQuery
	tracker  *Tracker
	capacity int
	log      *zap.Logger
}

// New resolves the category and wires the grabber. It fails when the
// category cannot be resolved so a misconfigured grabber never runs.
func New(cfg Config, deps Deps, opts ...Option) (*Grabber, error) {
	if deps.Space == nil || deps.Layers == nil || deps.Self == nil {
		return nil, fmt.Errorf("%w: space, layers and self transform are required", ErrMissingDependency)
	}
	mask, err := ResolveCategory(deps.Layers, cfg.Category)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Grabber{
		cfg:    cfg,
		mask:   mask,
		self:   deps.Self,
		anchor: deps.Anchor,
		light:  deps.Light,
		log:    zap.NewNop(),
	}
	if g.anchor == nil {
		g.anchor = deps.Self
	}
	for _, opt := range opts {
		opt(g)
	}

	g.query = NewOverlapQuery(deps.Space, g.capacity)
	g.query.log = g.log
	g.tracker = NewTracker(g)
	g.tracker.log = g.log

	g.log.Info("grabber ready",
		zap.String("category", cfg.Category),
		zap.Uint32("mask", uint32(mask)),
		zap.Float64("pull_strength", cfg.PullStrength),
		zap.Float64("max_radius", cfg.MaxRadius),
	)
	return g, nil
}

// ResolveCategory turns a layer name into a single-bit mask.
func ResolveCategory(layers Layers, name string) (Mask, error) {
	if strings.TrimSpace(name) == "" {
		return 0, ErrEmptyCategory
	}
	mask := MaskOf(layers.NameToLayer(name))
	if mask == 0 {
		return 0, &CategoryError{Category: name, Wrapped: ErrUnknownCategory}
	}
	return mask, nil
}

// Sync is the per-frame tick. It keeps the grabber's height equal to its
// radius and the light's range at twice the radius.
func (g *Grabber) Sync() {
	pos := g.self.Position()
	if pos.Y() != g.cfg.MaxRadius {
		g.self.SetPosition(mgl64.Vec3{pos.X(), g.cfg.MaxRadius, pos.Z()})
	}
	if g.light != nil {
		g.light.SetRange(g.cfg.MaxRadius * 2)
	}
}

// Step is the physics tick. While pulling it refreshes the tracked set from
// a new query and pulls every tracked body; otherwise it releases them all.
func (g *Grabber) Step(pulling bool, dt float64) StepReport {
	if !pulling {
		stopped := g.tracker.DropAll()
		return StepReport{Stopped: stopped}
	}

	anchor := g.anchor.Position()
	candidates := g.query.Collect(anchor, g.cfg.MaxRadius, g.mask)
	started, stopped := g.tracker.Reconcile(candidates)

	pulled := 0
	g.tracker.Each(func(b Body) {
		if !b.Valid() {
			return
		}
		if Pull(b, anchor, g.cfg.PullStrength, dt) {
			pulled++
		}
	})

	return StepReport{
		Pulling:    true,
		Candidates: len(candidates),
		Started:    started,
		Stopped:    stopped,
		Pulled:     pulled,
		Tracked:    g.tracker.Len(),
	}
}

// Release drops every tracked body.
func (g *Grabber) Release() int { return g.tracker.DropAll() }

// SetMaxRadius changes the grab radius. The height and light follow on the
// next Sync.
func (g *Grabber) SetMaxRadius(r float64) error {
	cfg := g.cfg
	cfg.MaxRadius = r
	if err := cfg.Validate(); err != nil {
		return err
	}
	g.cfg = cfg
	return nil
}

func (g *Grabber) Config() Config         { return g.cfg }
func (g *Grabber) Mask() Mask             { return g.mask }
func (g *Grabber) Anchor() mgl64.Vec3     { return g.anchor.Position() }
func (g *Grabber) Tracked() int           { return g.tracker.Len() }
func (g *Grabber) IsTracking(b Body) bool { return g.tracker.Contains(b) }
func (g *Grabber) Each(fn func(Body))     { g.tracker.Each(fn) }
func (g *Grabber) QueryCapacity() int     { return g.query.Capacity() }
func (g *Grabber) QueryGrows() int        { return g.query.Grows() }
