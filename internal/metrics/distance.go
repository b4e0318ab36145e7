package metrics

import "github.com/san-kum/gravwell/internal/sim"

// MeanDistance averages the mean anchor distance of grabbed bodies over
// every step that had at least one grabbed body.
type MeanDistance struct {
	name    string
	sum     float64
	samples int
}

func NewMeanDistance() *MeanDistance {
	return &MeanDistance{name: "mean_distance"}
}

func (m *MeanDistance) Name() string { return m.name }

func (m *MeanDistance) Observe(s *sim.Snapshot) {
	if s.Report.Tracked == 0 {
		return
	}
	mean, _ := s.Distances()
	m.sum += mean
	m.samples++
}

func (m *MeanDistance) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanDistance) Reset() {
	m.sum = 0
	m.samples = 0
}

// Settled is the fraction of grabbed bodies within tolerance of the anchor
// at the last observed step.
type Settled struct {
	name      string
	tolerance float64
	settled   int
	grabbed   int
}

func NewSettled(tolerance float64) *Settled {
	return &Settled{name: "settled", tolerance: tolerance}
}

func (st *Settled) Name() string { return st.name }

func (st *Settled) Observe(s *sim.Snapshot) {
	st.settled, st.grabbed = 0, 0
	for _, b := range s.Bodies {
		if !b.Grabbed {
			continue
		}
		st.grabbed++
		if b.Center.Sub(s.Anchor).Len() <= st.tolerance {
			st.settled++
		}
	}
}

func (st *Settled) Value() float64 {
	if st.grabbed == 0 {
		return 0
	}
	return float64(st.settled) / float64(st.grabbed)
}

func (st *Settled) Reset() {
	st.settled = 0
	st.grabbed = 0
}
