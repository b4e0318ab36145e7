package sim

import "math"

// Hold pulls on every tick.
type Hold struct{}

func (Hold) Pulling(float64) bool { return true }

// Never keeps the grabber idle.
type Never struct{}

func (Never) Pulling(float64) bool { return false }

// Pulse pulls for the first Duty fraction of every Period seconds.
type Pulse struct {
	Period float64
	Duty   float64
}

func (p Pulse) Pulling(t float64) bool {
	if p.Period <= 0 {
		return false
	}
	phase := math.Mod(t, p.Period) / p.Period
	return phase < p.Duty
}

// Window is a half-open span [Start, End) of simulated time.
type Window struct {
	Start float64
	End   float64
}

// Windows pulls while t falls inside any window.
type Windows []Window

func (ws Windows) Pulling(t float64) bool {
	for _, w := range ws {
		if t >= w.Start && t < w.End {
			return true
		}
	}
	return false
}

// Switch is flipped by a caller between ticks, as a held mouse button would
// be.
type Switch struct {
	On bool
}

func (s *Switch) Pulling(float64) bool { return s.On }

func (s *Switch) Toggle() { s.On = !s.On }
