package tui

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/san-kum/gravwell/internal/sim"
)

const (
	width       = 70
	height      = 24
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

type point struct{ x, y int }

// LiveRenderer draws a top-down view of the grab area after each step:
// x runs left to right and z top to bottom.
type LiveRenderer struct {
	name      string
	frameRate int
	out       io.Writer
	lastFrame time.Time
	canvas    [][]rune
	trail     []point
}

func NewLiveRenderer(name string, frameRate int) *LiveRenderer {
	return NewLiveRendererTo(os.Stdout, name, frameRate)
}

// NewLiveRendererTo renders to w. A frameRate of zero or less draws every
// step.
func NewLiveRendererTo(w io.Writer, name string, frameRate int) *LiveRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	return &LiveRenderer{
		name:      name,
		frameRate: frameRate,
		out:       w,
		canvas:    canvas,
		trail:     make([]point, 0, 40),
	}
}

func (r *LiveRenderer) OnStep(s *sim.Snapshot) {
	if r.frameRate > 0 {
		if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
			return
		}
		r.lastFrame = time.Now()
	}
	fmt.Fprint(r.out, clearScreen+r.Frame(s))
}

// Frame returns the text of one frame without terminal control codes.
func (r *LiveRenderer) Frame(s *sim.Snapshot) string {
	r.clear()

	// The view spans 1.5 radii around the anchor. Terminal cells are about
	// twice as tall as wide, so x gets twice the resolution of z.
	extent := math.Max(s.Radius*1.5, 1)
	sx := float64(width/2) / extent
	sz := float64(height/2) / extent
	project := func(x, z float64) (int, int) {
		return width/2 + int(math.Round((x-s.Anchor.X())*sx)),
			height/2 + int(math.Round((z-s.Anchor.Z())*sz))
	}

	for i := 0; i < 96; i++ {
		theta := 2 * math.Pi * float64(i) / 96
		r.set(project(s.Anchor.X()+s.Radius*math.Cos(theta), s.Anchor.Z()+s.Radius*math.Sin(theta)))
	}

	px, py := project(s.Position.X(), s.Position.Z())
	r.trail = append(r.trail, point{px, py})
	if len(r.trail) > 40 {
		r.trail = r.trail[1:]
	}
	for _, pt := range r.trail {
		r.put(pt.x, pt.y, ':')
	}

	for _, b := range s.Bodies {
		x, y := project(b.Center.X(), b.Center.Z())
		c := 'o'
		if b.Grabbed {
			c = '@'
		}
		r.put(x, y, c)
	}

	ax, ay := project(s.Anchor.X(), s.Anchor.Z())
	r.put(ax, ay, '+')

	return r.render(s)
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int) {
	if x >= 0 && x < width && y >= 0 && y < height && r.canvas[y][x] == ' ' {
		r.canvas[y][x] = '.'
	}
}

func (r *LiveRenderer) put(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

func (r *LiveRenderer) render(s *sim.Snapshot) string {
	var b strings.Builder
	state := "idle"
	if s.Report.Pulling {
		state = "PULL"
	}
	fmt.Fprintf(&b, "  %s  t=%.2fs  %s\n", r.name, s.Time, state)
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")
	mean, max := s.Distances()
	fmt.Fprintf(&b, "  tracked=%d candidates=%d +%d -%d  mean=%.2f max=%.2f  buf=%d\n",
		s.Report.Tracked, s.Report.Candidates, s.Report.Started, s.Report.Stopped, mean, max, s.Capacity)
	return b.String()
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
