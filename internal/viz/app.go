package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravwell/internal/config"
	"github.com/san-kum/gravwell/internal/experiment"
	"github.com/san-kum/gravwell/internal/sim"
	"go.uber.org/zap"
)

const (
	canvasCols = 60
	canvasRows = 22
	historyCap = 240
	frameTime  = time.Second / 30
	moveStep   = 1.0
	minRadius  = 1.0
)

type TickMsg time.Time

// App steps an experiment in real time. Pulling is driven by a switch the
// user toggles, the way a held button would drive it.
type App struct {
	cfg    *config.Config
	name   string
	log    *zap.Logger
	sw     *sim.Switch
	exp    *experiment.Experiment
	simCfg sim.Config
	canvas *Canvas

	step     int
	t        float64
	perFrame int
	last     *sim.Snapshot
	tracked  []float64
	distance []float64
	paused   bool
	status   string

	// Preset menu, shown until a preset is chosen.
	choosing bool
	presets  []string
	cursor   int
}

func NewApp(cfg *config.Config, name string, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{
		cfg:    cfg,
		name:   name,
		log:    log,
		sw:     &sim.Switch{},
		canvas: NewCanvas(canvasCols, canvasRows),
	}
	if err := a.reset(); err != nil {
		return nil, err
	}
	return a, nil
}

// NewMenu starts on a preset list and builds the chosen preset.
func NewMenu(log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		log:      log,
		sw:       &sim.Switch{},
		canvas:   NewCanvas(canvasCols, canvasRows),
		choosing: true,
		presets:  config.ListPresets(),
	}
}

func (a *App) choose() {
	name := a.presets[a.cursor]
	cfg := config.GetPreset(name)
	a.cfg, a.name = cfg, name
	if err := a.reset(); err != nil {
		a.status = err.Error()
		return
	}
	a.choosing = false
}

func (a *App) reset() error {
	exp := experiment.New(a.cfg, experiment.WithInput(a.sw), experiment.WithLogger(a.log))
	if err := exp.Setup(exp.Registry().DefaultMetrics(experiment.SettleDistance)); err != nil {
		return err
	}
	a.exp = exp
	a.simCfg = exp.SimConfig()
	a.perFrame = max(1, int(math.Round(frameTime.Seconds()/a.simCfg.Dt)))
	a.step, a.t = 0, 0
	a.last = nil
	a.tracked = a.tracked[:0]
	a.distance = a.distance[:0]
	return nil
}

func (a *App) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(frameTime, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a, a.handleKey(msg)
	case TickMsg:
		if !a.paused && !a.choosing {
			a.Advance(a.perFrame)
		}
		return a, tick()
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if a.choosing {
		return a.menuKey(msg)
	}
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return tea.Quit
	case " ", "space":
		a.sw.Toggle()
	case "p":
		a.paused = !a.paused
	case "r":
		if err := a.reset(); err != nil {
			a.status = err.Error()
		}
	case "+", "=":
		a.setRadius(a.cfg.Grabber.MaxRadius + 1)
	case "-", "_":
		a.setRadius(a.cfg.Grabber.MaxRadius - 1)
	case "left", "h":
		a.exp.Rig().Translate(mgl64.Vec3{-moveStep, 0, 0})
	case "right", "l":
		a.exp.Rig().Translate(mgl64.Vec3{moveStep, 0, 0})
	case "up", "k":
		a.exp.Rig().Translate(mgl64.Vec3{0, 0, -moveStep})
	case "down", "j":
		a.exp.Rig().Translate(mgl64.Vec3{0, 0, moveStep})
	}
	return nil
}

func (a *App) menuKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.presets)-1 {
			a.cursor++
		}
	case "enter", " ", "space":
		a.choose()
	}
	return nil
}

func (a *App) setRadius(r float64) {
	r = math.Max(r, minRadius)
	if err := a.exp.Grabber().SetMaxRadius(r); err != nil {
		a.status = err.Error()
		return
	}
	a.cfg.Grabber.MaxRadius = r
	a.status = fmt.Sprintf("radius %.0f", r)
}

// Advance runs n fixed steps.
func (a *App) Advance(n int) {
	for i := 0; i < n; i++ {
		snap := a.exp.Simulator().Tick(a.step, a.t, a.simCfg)
		a.step++
		a.t = snap.Time
		a.last = snap

		mean, _ := snap.Distances()
		a.tracked = appendCapped(a.tracked, float64(snap.Report.Tracked))
		a.distance = appendCapped(a.distance, mean)
	}
}

func appendCapped(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyCap {
		xs = xs[len(xs)-historyCap:]
	}
	return xs
}

func (a *App) Choosing() bool                     { return a.choosing }
func (a *App) Pulling() bool                      { return a.sw.On }
func (a *App) Paused() bool                       { return a.paused }
func (a *App) Time() float64                      { return a.t }
func (a *App) Last() *sim.Snapshot                { return a.last }
func (a *App) Experiment() *experiment.Experiment { return a.exp }

func (a *App) View() string {
	if a.choosing {
		return a.viewMenu()
	}
	left := Panel.Render(strings.Join(a.draw(), "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, a.stats()) + "\n" + a.help()
}

// draw renders the top-down view centered on the anchor.
func (a *App) draw() []string {
	c := a.canvas
	c.Clear()
	if a.last == nil {
		return c.Rows()
	}
	s := a.last

	w, h := c.Width*2, c.Height*4
	extent := math.Max(s.Radius*1.5, 1)
	scale := float64(min(w, h)) / 2 / extent
	project := func(x, z float64) (int, int) {
		return w/2 + int(math.Round((x-s.Anchor.X())*scale)),
			h/2 + int(math.Round((z-s.Anchor.Z())*scale))
	}

	c.Circle(w/2, h/2, int(math.Round(s.Radius*scale)))
	c.DrawLine(w/2-2, h/2, w/2+2, h/2)
	c.DrawLine(w/2, h/2-2, w/2, h/2+2)

	for _, b := range s.Bodies {
		x, y := project(b.Center.X(), b.Center.Z())
		if b.Grabbed {
			c.Dot(x, y)
		} else {
			c.Set(x, y)
		}
	}
	return c.Rows()
}

func (a *App) stats() string {
	var b strings.Builder
	b.WriteString(Title.Render("gravwell") + " " + Subtle.Render(a.name) + "\n\n")

	state := StatusIdle.Render("IDLE")
	if a.sw.On {
		state = StatusPulling.Render("PULLING")
	}
	if a.paused {
		state += " " + Subtle.Render("(paused)")
	}
	b.WriteString(state + "\n\n")

	row := func(label, value string) {
		b.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("time", fmt.Sprintf("%.2fs", a.t))
	row("radius", fmt.Sprintf("%.1f", a.cfg.Grabber.MaxRadius))
	if s := a.last; s != nil {
		mean, far := s.Distances()
		row("tracked", fmt.Sprintf("%d / %d", s.Report.Tracked, len(s.Bodies)))
		row("candidates", fmt.Sprintf("%d", s.Report.Candidates))
		row("grab/rel", fmt.Sprintf("+%d -%d", s.Report.Started, s.Report.Stopped))
		row("distance", fmt.Sprintf("%.2f / %.2f", mean, far))
		row("buffer", fmt.Sprintf("%d", s.Capacity))
		b.WriteString(ProgressBar(float64(s.Report.Candidates)/float64(max(s.Capacity, 1)), 24) + "\n")
	}
	if l := a.exp.Light(); l != nil {
		row("light", fmt.Sprintf("%.1f", l.Range))
	}

	b.WriteString("\n" + Separator(30) + "\n")
	b.WriteString(Subtle.Render("tracked") + "\n" + Sparkline(a.tracked, 30) + "\n")
	if len(a.distance) >= 2 {
		graph := asciigraph.Plot(a.distance, asciigraph.Height(6), asciigraph.Width(30), asciigraph.Caption("mean distance"))
		b.WriteString("\n" + Graph.Render(graph) + "\n")
	}
	if a.status != "" {
		b.WriteString("\n" + Subtle.Render(a.status) + "\n")
	}
	return Panel.Render(b.String())
}

func (a *App) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n  " + Title.Render("GRAVWELL") + "\n  " + Subtle.Render("choose a scene") + "\n  " + Separator(26) + "\n\n")
	for i, name := range a.presets {
		if i == a.cursor {
			b.WriteString("  " + StatusPulling.Render("▸ "+name) + "\n")
		} else {
			b.WriteString("    " + Subtle.Render(name) + "\n")
		}
	}
	if a.status != "" {
		b.WriteString("\n  " + StatusIdle.Render(a.status) + "\n")
	}
	b.WriteString("\n  " + KeyHint.Render("j/k navigate  enter select  q quit") + "\n")
	return b.String()
}

func (a *App) help() string {
	return KeyHint.Render("space pull  arrows move  +/- radius  p pause  r reset  q quit")
}

// Run starts the interactive view and blocks until the user quits. A nil
// cfg starts on the preset menu.
func Run(cfg *config.Config, name string, log *zap.Logger) error {
	app := NewMenu(log)
	if cfg != nil {
		var err error
		if app, err = NewApp(cfg, name, log); err != nil {
			return err
		}
	}
	_, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}
