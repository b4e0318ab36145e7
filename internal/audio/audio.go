// Package audio plays a low hum while a grabber pulls. The hum's filter
// opens as more bodies are held.
package audio

import (
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"
)

const (
	SampleRate = 44100
	BufferSize = 1024
)

// Hum is a small pad synth: detuned triangle waves through a one-pole low
// pass and a stereo delay.
type Hum struct {
	stream *portaudio.Stream
	log    *zap.Logger

	mu      sync.Mutex
	pulling bool
	load    float64

	// Audio thread state.
	time     float64
	gain     float64
	smooth   float64
	filter   [2]float64
	delay    [2][]float64
	delayPos int

	Active bool
}

func NewHum(log *zap.Logger) *Hum {
	if log == nil {
		log = zap.NewNop()
	}
	delayLen := int(float64(SampleRate) * 0.4)
	return &Hum{
		log:   log,
		delay: [2][]float64{make([]float64, delayLen), make([]float64, delayLen)},
	}
}

// Start opens the default output device. A failure leaves the hum silent
// and is returned for the caller to log.
func (h *Hum) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, h.Process)
	if err != nil {
		portaudio.Terminate()
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return err
	}
	h.stream = stream
	h.Active = true
	h.log.Info("audio started", zap.Int("sample_rate", SampleRate))
	return nil
}

func (h *Hum) Stop() {
	if h.stream != nil {
		h.stream.Stop()
		h.stream.Close()
		h.stream = nil
		portaudio.Terminate()
	}
	h.Active = false
}

// Update sets what the hum follows: whether pulling is held and the
// fraction of bodies in range that are tracked.
func (h *Hum) Update(pulling bool, load float64) {
	h.mu.Lock()
	h.pulling = pulling
	h.load = math.Min(math.Max(load, 0), 1)
	h.mu.Unlock()
}

func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// lpf is a one-pole low pass; it returns the output, which is also the
// new state.
func lpf(sample, cutoff, dt, state float64) float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	return state + alpha*(sample-state)
}

// Process fills out with one stereo buffer. It is the stream callback.
func (h *Hum) Process(out [][]float32) {
	freqs := []float64{55.00, 82.41, 110.00, 164.81}

	h.mu.Lock()
	pulling, load := h.pulling, h.load
	h.mu.Unlock()

	target := 0.0
	if pulling {
		target = 0.3
	}
	dt := 1.0 / float64(SampleRate)

	for i := range out[0] {
		// Per-sample smoothing keeps the press and release from clicking.
		h.gain += (target - h.gain) * 0.0005
		h.smooth += (load - h.smooth) * 0.0002
		cutoff := 120.0 + 900.0*h.smooth

		var l, r float64
		for j, f := range freqs {
			lfo := 0.7 + 0.3*math.Sin(h.time*0.5+float64(j))
			l += triangle(h.time*f*0.998) * lfo / float64(len(freqs))
			r += triangle(h.time*f*1.002) * lfo / float64(len(freqs))
		}
		h.filter[0] = lpf(l, cutoff, dt, h.filter[0])
		h.filter[1] = lpf(r, cutoff, dt, h.filter[1])

		dl, dr := h.delay[0][h.delayPos], h.delay[1][h.delayPos]
		mixL := h.filter[0]*h.gain + dl*0.3 + dr*0.1
		mixR := h.filter[1]*h.gain + dr*0.3 + dl*0.1
		h.delay[0][h.delayPos] = mixL * 0.6
		h.delay[1][h.delayPos] = mixR * 0.6
		h.delayPos = (h.delayPos + 1) % len(h.delay[0])

		out[0][i] = float32(mixL)
		out[1][i] = float32(mixR)
		h.time += dt
	}
}
