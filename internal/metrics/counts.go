package metrics

import "github.com/san-kum/gravwell/internal/sim"

// Grabs counts grab transitions over a run.
type Grabs struct {
	name  string
	total int
}

func NewGrabs() *Grabs {
	return &Grabs{name: "grabs"}
}

func (g *Grabs) Name() string { return g.name }

func (g *Grabs) Observe(s *sim.Snapshot) {
	g.total += s.Report.Started
}

func (g *Grabs) Value() float64 { return float64(g.total) }

func (g *Grabs) Reset() { g.total = 0 }

// Releases counts release transitions, both from leaving range and from
// input stopping.
type Releases struct {
	name  string
	total int
}

func NewReleases() *Releases {
	return &Releases{name: "releases"}
}

func (r *Releases) Name() string { return r.name }

func (r *Releases) Observe(s *sim.Snapshot) {
	r.total += s.Report.Stopped
}

func (r *Releases) Value() float64 { return float64(r.total) }

func (r *Releases) Reset() { r.total = 0 }

type PeakTracked struct {
	name string
	peak int
}

func NewPeakTracked() *PeakTracked {
	return &PeakTracked{name: "peak_tracked"}
}

func (p *PeakTracked) Name() string { return p.name }

func (p *PeakTracked) Observe(s *sim.Snapshot) {
	if s.Report.Tracked > p.peak {
		p.peak = s.Report.Tracked
	}
}

func (p *PeakTracked) Value() float64 { return float64(p.peak) }

func (p *PeakTracked) Reset() { p.peak = 0 }
