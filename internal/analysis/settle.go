package analysis

import "github.com/san-kum/gravwell/internal/sim"

// SettleTime is the earliest frame time from which every following frame
// holds at least one body with all of them within tolerance of the anchor.
// ok is false when the run never settles.
func SettleTime(frames []sim.Frame, tolerance float64) (t float64, ok bool) {
	start := -1
	for i, f := range frames {
		if f.Tracked > 0 && f.MaxDistance <= tolerance {
			if start < 0 {
				start = i
			}
			continue
		}
		start = -1
	}
	if start < 0 {
		return 0, false
	}
	return frames[start].Time, true
}

// Summary condenses a recorded run.
type Summary struct {
	Frames      int
	PullingTime float64
	PeakTracked int
	Started     int
	Stopped     int
}

func Summarize(frames []sim.Frame) Summary {
	s := Summary{Frames: len(frames)}
	prev := 0.0
	for _, f := range frames {
		if f.Pulling {
			s.PullingTime += f.Time - prev
		}
		prev = f.Time
		s.PeakTracked = max(s.PeakTracked, f.Tracked)
		s.Started += f.Started
		s.Stopped += f.Stopped
	}
	return s
}
