package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravwell/internal/grab"
)

// InputSource supplies the pulling signal for each physics tick.
type InputSource interface {
	Pulling(t float64) bool
}

type Metric interface {
	Name() string
	Observe(s *Snapshot)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s *Snapshot)
}

// BodyView is a read-only copy of a body at the end of a tick.
type BodyView struct {
	ID       uint64
	Center   mgl64.Vec3
	Velocity mgl64.Vec3
	Radius   float64
	Grabbed  bool
}

// Snapshot is the state handed to metrics and observers after each tick.
type Snapshot struct {
	Step     int
	Time     float64
	Anchor   mgl64.Vec3
	Position mgl64.Vec3
	Radius   float64
	Report   grab.StepReport
	Bodies   []BodyView
	Capacity int
}

// Distances returns the mean and max distance of grabbed bodies to the
// anchor, zero when nothing is grabbed.
func (s *Snapshot) Distances() (mean, max float64) {
	n := 0
	for _, b := range s.Bodies {
		if !b.Grabbed {
			continue
		}
		d := b.Center.Sub(s.Anchor).Len()
		mean += d
		if d > max {
			max = d
		}
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return mean / float64(n), max
}

type Config struct {
	Dt       float64
	Duration float64
	Seed     int64
	// Drift moves the grabber by this much per second.
	Drift mgl64.Vec3
}

// Frame is one row of recorded output.
type Frame struct {
	Time         float64 `json:"t"`
	Pulling      bool    `json:"pulling"`
	Candidates   int     `json:"candidates"`
	Started      int     `json:"started"`
	Stopped      int     `json:"stopped"`
	Pulled       int     `json:"pulled"`
	Tracked      int     `json:"tracked"`
	MeanDistance float64 `json:"mean_distance"`
	MaxDistance  float64 `json:"max_distance"`
}

type Result struct {
	Frames        []Frame
	Metrics       map[string]float64
	StepsTaken    int
	QueryCapacity int
	QueryGrows    int
}
