package sim

import (
	"context"
	"fmt"
	"sort"

	"github.com/san-kum/gravwell/internal/grab"
	"github.com/san-kum/gravwell/internal/world"
	"go.uber.org/zap"
)

type event struct {
	at    float64
	fired bool
	fn    func(*world.World)
}

// Simulator drives a grabber and its world on a fixed step: a visual sync,
// a physics tick with the current input, then the world step.
type Simulator struct {
	world     *world.World
	grabber   *grab.Grabber
	rig       *world.Transform
	input     InputSource
	metrics   []Metric
	observers []Observer
	events    []*event
	log       *zap.Logger
}

func New(w *world.World, g *grab.Grabber, rig *world.Transform, input InputSource) *Simulator {
	if input == nil {
		input = Hold{}
	}
	return &Simulator{
		world:     w,
		grabber:   g,
		rig:       rig,
		input:     input,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       zap.NewNop(),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) SetLogger(log *zap.Logger) {
	if log != nil {
		s.log = log
	}
}

// Schedule runs fn once, after the first step that reaches time at.
func (s *Simulator) Schedule(at float64, fn func(*world.World)) {
	s.events = append(s.events, &event{at: at, fn: fn})
	sort.SliceStable(s.events, func(i, j int) bool { return s.events[i].at < s.events[j].at })
}

func (s *Simulator) World() *world.World    { return s.world }
func (s *Simulator) Grabber() *grab.Grabber { return s.grabber }
func (s *Simulator) Input() InputSource     { return s.input }
func (s *Simulator) Rig() *world.Transform  { return s.rig }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 0.5)
	result := &Result{
		Frames:  make([]Frame, 0, steps),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	s.log.Info("run started",
		zap.Int("steps", steps),
		zap.Float64("dt", cfg.Dt),
		zap.Int("bodies", len(s.world.Bodies())),
	)

	t := 0.0
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		snap := s.Tick(i, t, cfg)
		t = snap.Time

		mean, max := snap.Distances()
		result.Frames = append(result.Frames, Frame{
			Time:         snap.Time,
			Pulling:      snap.Report.Pulling,
			Candidates:   snap.Report.Candidates,
			Started:      snap.Report.Started,
			Stopped:      snap.Report.Stopped,
			Pulled:       snap.Report.Pulled,
			Tracked:      snap.Report.Tracked,
			MeanDistance: mean,
			MaxDistance:  max,
		})
		result.StepsTaken++
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.QueryCapacity = s.grabber.QueryCapacity()
	result.QueryGrows = s.grabber.QueryGrows()

	s.log.Info("run finished",
		zap.Int("steps", result.StepsTaken),
		zap.Int("query_capacity", result.QueryCapacity),
	)
	return result, nil
}

// Tick advances one fixed step starting at time t and returns the
// resulting snapshot after metrics and observers have seen it.
func (s *Simulator) Tick(step int, t float64, cfg Config) *Snapshot {
	if s.rig != nil && cfg.Drift.Len() != 0 {
		s.rig.Translate(cfg.Drift.Mul(cfg.Dt))
	}

	s.grabber.Sync()
	report := s.grabber.Step(s.input.Pulling(t), cfg.Dt)
	s.world.Step(cfg.Dt)
	t += cfg.Dt

	for _, ev := range s.events {
		if !ev.fired && t >= ev.at {
			ev.fired = true
			ev.fn(s.world)
		}
	}

	snap := s.snapshot(step, t, report)
	for _, m := range s.metrics {
		m.Observe(snap)
	}
	for _, obs := range s.observers {
		obs.OnStep(snap)
	}
	return snap
}

func (s *Simulator) snapshot(step int, t float64, report grab.StepReport) *Snapshot {
	bodies := s.world.Bodies()
	snap := &Snapshot{
		Step:     step,
		Time:     t,
		Anchor:   s.grabber.Anchor(),
		Radius:   s.grabber.Config().MaxRadius,
		Report:   report,
		Bodies:   make([]BodyView, len(bodies)),
		Capacity: s.grabber.QueryCapacity(),
	}
	if s.rig != nil {
		snap.Position = s.rig.Position()
	}
	for i, b := range bodies {
		snap.Bodies[i] = BodyView{
			ID:       b.ID(),
			Center:   b.Center(),
			Velocity: b.Velocity(),
			Radius:   b.Radius(),
			Grabbed:  s.grabber.IsTracking(b),
		}
	}
	return snap
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}
