package audio

import (
	"math"
	"testing"
)

func buffers() [][]float32 {
	return [][]float32{make([]float32, BufferSize), make([]float32, BufferSize)}
}

func peak(out [][]float32) float64 {
	p := 0.0
	for _, ch := range out {
		for _, v := range ch {
			p = math.Max(p, math.Abs(float64(v)))
		}
	}
	return p
}

func TestSilentUntilPulling(t *testing.T) {
	h := NewHum(nil)
	out := buffers()
	h.Process(out)
	if p := peak(out); p != 0 {
		t.Errorf("expected silence while idle, got peak %f", p)
	}

	h.Update(true, 1)
	for i := 0; i < 20; i++ {
		h.Process(out)
	}
	if p := peak(out); p == 0 || p > 1 {
		t.Errorf("expected audible output within [-1,1], got peak %f", p)
	}
}

func TestUpdateClampsLoad(t *testing.T) {
	h := NewHum(nil)
	h.Update(true, 7)
	if h.load != 1 {
		t.Errorf("expected load clamped to 1, got %f", h.load)
	}
	h.Update(false, -2)
	if h.load != 0 || h.pulling {
		t.Errorf("unexpected state load=%f pulling=%v", h.load, h.pulling)
	}
}

func TestTriangle(t *testing.T) {
	tests := []struct{ phase, want float64 }{
		{0, 1}, {0.25, 0}, {0.5, -1}, {0.75, 0}, {1.5, -1},
	}
	for _, tt := range tests {
		if got := triangle(tt.phase); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("triangle(%v) = %v, want %v", tt.phase, got, tt.want)
		}
	}
}
