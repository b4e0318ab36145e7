package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/san-kum/gravwell/internal/config"
	"github.com/san-kum/gravwell/internal/experiment"
	"go.uber.org/zap"
)

const (
	ParamRadius   = "radius"
	ParamStrength = "strength"
)

// SweepPoint is the outcome of one run at one parameter value.
type SweepPoint struct {
	Param        float64
	Tracked      int
	Captured     float64
	MeanDistance float64
}

// Sweep runs the base configuration once per value of param between lo and
// hi and records how much of the scene ended up held. Any parameter
// config.SetParam knows can be swept.
func Sweep(ctx context.Context, base *config.Config, param string, lo, hi float64, steps int, log *zap.Logger) ([]SweepPoint, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if steps <= 1 {
		steps = 2
	}
	step := (hi - lo) / float64(steps-1)

	points := make([]SweepPoint, 0, steps)
	for i := 0; i < steps; i++ {
		value := lo + float64(i)*step
		cfg, err := base.With(map[string]float64{param: value})
		if err != nil {
			return nil, err
		}

		exp := experiment.New(cfg, experiment.WithLogger(log))
		if err := exp.Setup(nil); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", param, value, err)
		}
		res, err := exp.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", param, value, err)
		}

		p := SweepPoint{Param: value}
		if n := len(res.Frames); n > 0 {
			last := res.Frames[n-1]
			p.Tracked = last.Tracked
			p.MeanDistance = last.MeanDistance
		}
		if total := len(exp.Bodies()); total > 0 {
			p.Captured = float64(p.Tracked) / float64(total)
		}
		log.Debug("sweep point", zap.String("param", param), zap.Float64("value", value), zap.Int("tracked", p.Tracked))
		points = append(points, p)
	}
	return points, nil
}

// SweepToASCII plots the captured fraction against the parameter.
func SweepToASCII(points []SweepPoint, width, height int) string {
	if len(points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i, p := range points {
		col := i * width / len(points)
		if col >= width {
			col = width - 1
		}
		row := height - 1 - int(p.Captured*float64(height-1)+0.5)
		row = max(0, min(height-1, row))
		canvas[row][col] = '•'
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}
