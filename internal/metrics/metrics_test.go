package metrics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravwell/internal/grab"
	"github.com/san-kum/gravwell/internal/sim"
)

func snapshot(report grab.StepReport, bodies ...sim.BodyView) *sim.Snapshot {
	return &sim.Snapshot{
		Anchor: mgl64.Vec3{0, 10, 0},
		Radius: 10,
		Report: report,
		Bodies: bodies,
	}
}

func grabbedAt(x, y, z float64) sim.BodyView {
	return sim.BodyView{Center: mgl64.Vec3{x, y, z}, Radius: 0.5, Grabbed: true}
}

func TestTransitionCounters(t *testing.T) {
	grabs, releases, peak := NewGrabs(), NewReleases(), NewPeakTracked()
	steps := []grab.StepReport{
		{Pulling: true, Started: 3, Tracked: 3},
		{Pulling: true, Started: 2, Stopped: 1, Tracked: 4},
		{Stopped: 4},
	}
	for _, r := range steps {
		s := snapshot(r)
		grabs.Observe(s)
		releases.Observe(s)
		peak.Observe(s)
	}

	if grabs.Value() != 5 {
		t.Errorf("expected 5 grabs, got %v", grabs.Value())
	}
	if releases.Value() != 5 {
		t.Errorf("expected 5 releases, got %v", releases.Value())
	}
	if peak.Value() != 4 {
		t.Errorf("expected peak 4, got %v", peak.Value())
	}

	grabs.Reset()
	releases.Reset()
	peak.Reset()
	if grabs.Value() != 0 || releases.Value() != 0 || peak.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestMeanDistance(t *testing.T) {
	m := NewMeanDistance()
	m.Observe(snapshot(grab.StepReport{}))
	if m.Value() != 0 {
		t.Errorf("idle steps should not count, got %v", m.Value())
	}

	m.Observe(snapshot(grab.StepReport{Pulling: true, Tracked: 2}, grabbedAt(2, 10, 0), grabbedAt(0, 10, 4)))
	m.Observe(snapshot(grab.StepReport{Pulling: true, Tracked: 1}, grabbedAt(1, 10, 0)))

	expected := (3.0 + 1.0) / 2
	if math.Abs(m.Value()-expected) > 1e-9 {
		t.Errorf("expected %f, got %f", expected, m.Value())
	}
}

func TestSettled(t *testing.T) {
	m := NewSettled(0.5)
	if m.Value() != 0 {
		t.Error("expected zero before any observation")
	}

	ungrabbed := sim.BodyView{Center: mgl64.Vec3{0, 10, 0}}
	m.Observe(snapshot(grab.StepReport{Tracked: 2}, grabbedAt(0.1, 10, 0), grabbedAt(3, 10, 0), ungrabbed))
	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %v", m.Value())
	}

	m.Observe(snapshot(grab.StepReport{Tracked: 1}, grabbedAt(0, 10.2, 0)))
	if m.Value() != 1 {
		t.Errorf("only the last step counts, got %v", m.Value())
	}
}

func TestContainment(t *testing.T) {
	m := NewContainment()
	if m.Value() != 1 {
		t.Error("expected full containment with no samples")
	}

	// Height does not matter, only the horizontal offset.
	m.Observe(snapshot(grab.StepReport{Tracked: 1}, grabbedAt(5, 80, 0)))
	m.Observe(snapshot(grab.StepReport{Tracked: 1}, grabbedAt(11, 10, 0)))
	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %v", m.Value())
	}

	m.Reset()
	if m.Value() != 1 {
		t.Error("expected reset to clear violations")
	}
}
