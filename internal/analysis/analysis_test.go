package analysis

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/gravwell/internal/config"
	"github.com/san-kum/gravwell/internal/sim"
)

func TestDominantPeriodSquareWave(t *testing.T) {
	dt := 0.01
	data := make([]float64, 800)
	for i := range data {
		if math.Mod(float64(i)*dt, 2.0) < 1.0 {
			data[i] = 12
		}
	}

	period, ok := DominantPeriod(data, dt)
	if !ok {
		t.Fatal("expected a period")
	}
	if math.Abs(period-2.0) > 1e-9 {
		t.Errorf("expected period 2.0, got %f", period)
	}
}

func TestDominantPeriodFlat(t *testing.T) {
	data := make([]float64, 64)
	for i := range data {
		data[i] = 5
	}
	if _, ok := DominantPeriod(data, 0.02); ok {
		t.Error("flat series should have no period")
	}
}

func TestPowerSpectrumRemovesMean(t *testing.T) {
	data := []float64{3, 4, 3, 4, 3, 4, 3, 4}
	ps := PowerSpectrum(data)
	if len(ps) != 4 {
		t.Fatalf("expected 4 bins, got %d", len(ps))
	}
	if ps[0] > 1e-9 {
		t.Errorf("bin 0 should be zero, got %f", ps[0])
	}
	if PowerSpectrum([]float64{1}) != nil {
		t.Error("single sample should give no spectrum")
	}
}

func TestSettleTime(t *testing.T) {
	frames := []sim.Frame{
		{Time: 0.1, Pulling: true, Tracked: 3, MaxDistance: 5},
		{Time: 0.2, Pulling: true, Tracked: 3, MaxDistance: 0.5},
		{Time: 0.3, Pulling: true, Tracked: 3, MaxDistance: 2},
		{Time: 0.4, Pulling: true, Tracked: 3, MaxDistance: 0.8},
		{Time: 0.5, Pulling: true, Tracked: 3, MaxDistance: 0.2},
	}
	at, ok := SettleTime(frames, 1.0)
	if !ok || at != 0.4 {
		t.Errorf("expected settle at 0.4, got %f (%v)", at, ok)
	}

	frames = append(frames, sim.Frame{Time: 0.6})
	if _, ok := SettleTime(frames, 1.0); ok {
		t.Error("a run that ends empty has not settled")
	}
}

func TestSummarize(t *testing.T) {
	frames := []sim.Frame{
		{Time: 0.5, Pulling: true, Started: 4, Tracked: 4},
		{Time: 1.0, Pulling: true, Started: 1, Tracked: 5},
		{Time: 1.5, Stopped: 5},
	}
	s := Summarize(frames)
	if s.Frames != 3 || s.PeakTracked != 5 || s.Started != 5 || s.Stopped != 5 {
		t.Errorf("unexpected summary %+v", s)
	}
	if math.Abs(s.PullingTime-1.0) > 1e-9 {
		t.Errorf("expected 1s pulling, got %f", s.PullingTime)
	}
}

func TestSweepRadius(t *testing.T) {
	cfg := config.GetPreset("sparse")
	cfg.Sim.Duration = 1

	points, err := Sweep(context.Background(), cfg, ParamRadius, 2, 10, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Tracked != 0 {
		t.Errorf("radius 2 should reach nothing on a ring of 9, got %d", points[0].Tracked)
	}
	if points[1].Tracked != 6 || points[1].Captured != 1 {
		t.Errorf("radius 10 should hold the whole ring, got %+v", points[1])
	}
	if cfg.Grabber.MaxRadius != config.DefaultMaxRadius {
		t.Error("sweep must not modify the base config")
	}

	plot := SweepToASCII(points, 20, 5)
	if strings.Count(plot, "\n") != 5 || strings.Count(plot, "•") != 2 {
		t.Errorf("unexpected plot:\n%s", plot)
	}
}

func TestSweepUnknownParam(t *testing.T) {
	_, err := Sweep(context.Background(), config.DefaultConfig(), "colour", 1, 2, 2, nil)
	if !errors.Is(err, config.ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}
