package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravwell/internal/grab"
	"github.com/san-kum/gravwell/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	world   *world.World
	grabber *grab.Grabber
	rig     *world.Transform
	bodies  []*world.RigidBody
}

func newFixture(t *testing.T, offsets ...mgl64.Vec3) *fixture {
	t.Helper()
	layers, err := world.NewLayers("Grabbable")
	require.NoError(t, err)
	w := world.New(layers, world.WithGravity(0), world.WithoutFloor())

	rig := world.NewTransform(mgl64.Vec3{0, 10, 0})
	g, err := grab.New(grab.Config{Category: "Grabbable", PullStrength: 200, MaxRadius: 10},
		grab.Deps{Space: w, Layers: layers, Self: rig})
	require.NoError(t, err)

	f := &fixture{world: w, grabber: g, rig: rig}
	for _, off := range offsets {
		b, err := w.Spawn(world.BodySpec{
			Center: mgl64.Vec3{0, 10, 0}.Add(off),
			Radius: 0.25,
			Layer:  layers.NameToLayer("Grabbable"),
		})
		require.NoError(t, err)
		f.bodies = append(f.bodies, b)
	}
	return f
}

type countingObserver struct{ steps int }

func (c *countingObserver) OnStep(*Snapshot) { c.steps++ }

type trackedMetric struct{ last, resets int }

func (m *trackedMetric) Name() string        { return "tracked" }
func (m *trackedMetric) Observe(s *Snapshot) { m.last = s.Report.Tracked }
func (m *trackedMetric) Value() float64      { return float64(m.last) }
func (m *trackedMetric) Reset()              { m.last = 0; m.resets++ }

func TestSimulatorRun(t *testing.T) {
	f := newFixture(t, mgl64.Vec3{3, 0, 0}, mgl64.Vec3{0, 0, -4}, mgl64.Vec3{-2, 1, 2})
	s := New(f.world, f.grabber, f.rig, Hold{})

	obs := &countingObserver{}
	metric := &trackedMetric{}
	s.AddObserver(obs)
	s.AddMetric(metric)

	result, err := s.Run(context.Background(), Config{Dt: 0.02, Duration: 3})
	require.NoError(t, err)

	assert.Equal(t, 150, result.StepsTaken)
	assert.Len(t, result.Frames, 150)
	assert.Equal(t, 150, obs.steps)
	assert.Equal(t, 1, metric.resets)
	assert.Equal(t, 3.0, result.Metrics["tracked"])

	first := result.Frames[0]
	assert.True(t, first.Pulling)
	assert.Equal(t, 3, first.Started)
	assert.Equal(t, 3, first.Candidates)

	last := result.Frames[len(result.Frames)-1]
	assert.Equal(t, 3, last.Tracked)
	assert.Zero(t, last.Started)
	assert.Less(t, last.MaxDistance, 0.5)
	assert.Equal(t, grab.DefaultCapacity, result.QueryCapacity)
	assert.Zero(t, result.QueryGrows)
}

func TestSimulatorReleasesWhenInputStops(t *testing.T) {
	f := newFixture(t, mgl64.Vec3{3, 0, 0}, mgl64.Vec3{0, 0, 3})
	s := New(f.world, f.grabber, f.rig, Windows{{Start: 0, End: 0.5}})

	result, err := s.Run(context.Background(), Config{Dt: 0.02, Duration: 1})
	require.NoError(t, err)

	stopped := 0
	for _, fr := range result.Frames {
		if !fr.Pulling {
			assert.Zero(t, fr.Tracked)
		}
		stopped += fr.Stopped
	}
	assert.Equal(t, 2, stopped)
	for _, b := range f.bodies {
		assert.False(t, b.Grabbed())
		assert.Nil(t, b.Owner())
	}
}

func TestSimulatorNeverPulls(t *testing.T) {
	f := newFixture(t, mgl64.Vec3{3, 0, 0})
	s := New(f.world, f.grabber, f.rig, Never{})

	result, err := s.Run(context.Background(), Config{Dt: 0.1, Duration: 1})
	require.NoError(t, err)
	for _, fr := range result.Frames {
		assert.False(t, fr.Pulling)
		assert.Zero(t, fr.Tracked)
	}
	assert.Equal(t, mgl64.Vec3{3, 10, 0}, f.bodies[0].Center())
}

func TestSimulatorScheduledDestroy(t *testing.T) {
	f := newFixture(t, mgl64.Vec3{3, 0, 0}, mgl64.Vec3{0, 0, 3})
	s := New(f.world, f.grabber, f.rig, Hold{})

	victim := f.bodies[0]
	fired := 0
	s.Schedule(0.5, func(w *world.World) {
		fired++
		w.Destroy(victim)
	})

	result, err := s.Run(context.Background(), Config{Dt: 0.02, Duration: 1})
	require.NoError(t, err)

	assert.Equal(t, 1, fired)
	assert.False(t, victim.Valid())
	assert.Equal(t, 1, result.Frames[len(result.Frames)-1].Tracked)
	assert.Equal(t, 2, result.Frames[0].Tracked)
}

func TestSimulatorDrift(t *testing.T) {
	f := newFixture(t)
	s := New(f.world, f.grabber, f.rig, Hold{})

	_, err := s.Run(context.Background(), Config{Dt: 0.1, Duration: 1, Drift: mgl64.Vec3{1, 0, 0}})
	require.NoError(t, err)

	pos := f.rig.Position()
	assert.InDelta(t, 1.0, pos.X(), 1e-9)
	assert.Equal(t, 10.0, pos.Y())
}

func TestSimulatorInvalidConfig(t *testing.T) {
	f := newFixture(t)
	s := New(f.world, f.grabber, f.rig, nil)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1}},
		{"negative dt", Config{Dt: -0.1, Duration: 1}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Run(context.Background(), tt.cfg)
			if err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSimulatorContextCancellation(t *testing.T) {
	f := newFixture(t, mgl64.Vec3{3, 0, 0})
	s := New(f.world, f.grabber, f.rig, Hold{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx, Config{Dt: 0.01, Duration: 100})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	assert.Zero(t, result.StepsTaken)
}

func TestEnsembleRun(t *testing.T) {
	seeds := make(chan int64, 4)
	factory := func(seed int64) (*Simulator, error) {
		seeds <- seed
		f := newFixture(t, mgl64.Vec3{float64(seed%3) + 1, 0, 0})
		return New(f.world, f.grabber, f.rig, Hold{}), nil
	}

	e := NewEnsemble(factory, 4, 10)
	e.SetLimit(2)
	results, err := e.Run(context.Background(), Config{Dt: 0.02, Duration: 0.5})
	require.NoError(t, err)
	require.Len(t, results, 4)
	close(seeds)

	got := map[int64]bool{}
	for s := range seeds {
		got[s] = true
	}
	assert.Equal(t, map[int64]bool{10: true, 11: true, 12: true, 13: true}, got)
	for _, r := range results {
		assert.Equal(t, 25, r.StepsTaken)
	}
}

func TestEnsembleFactoryError(t *testing.T) {
	boom := errors.New("boom")
	e := NewEnsemble(func(int64) (*Simulator, error) { return nil, boom }, 2, 0)
	_, err := e.Run(context.Background(), Config{Dt: 0.1, Duration: 1})
	assert.ErrorIs(t, err, boom)
}
