package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravwell/internal/audio"
	"github.com/san-kum/gravwell/internal/config"
	"github.com/san-kum/gravwell/internal/experiment"
	"github.com/san-kum/gravwell/internal/sim"
	"go.uber.org/zap"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColGrid    = rl.NewColor(30, 30, 30, 255)
	ColPull    = rl.NewColor(120, 200, 255, 255)
	ColDecoy   = rl.NewColor(90, 70, 70, 255)
)

const telemetryCap = 300

// App is a window onto a running experiment. The mouse steers the
// grabber across the ground and the left button pulls.
type App struct {
	Cfg    *config.Config
	Name   string
	Log    *zap.Logger
	Exp    *experiment.Experiment
	Switch *sim.Switch
	SimCfg sim.Config
	Step   int
	Time   float64
	Last   *sim.Snapshot

	Camera       rl.Camera3D
	CamPosTarget rl.Vector3
	CamTgtTarget rl.Vector3
	Running      bool
	Telemetry    []float64
	Font         rl.Font

	Audio *audio.Hum
}

func initWindow() {
	rl.InitWindow(1280, 720, "gravwell")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

func NewApp(cfg *config.Config, name string, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	app := &App{
		Cfg:       cfg,
		Name:      name,
		Log:       log,
		Switch:    &sim.Switch{},
		Running:   true,
		Telemetry: make([]float64, 0, telemetryCap),
		Font:      loadFont(),
		Audio:     audio.NewHum(log.Named("audio")),
	}
	if err := app.Audio.Start(); err != nil {
		log.Warn("audio unavailable", zap.Error(err))
	}
	if err := app.reset(); err != nil {
		app.Audio.Stop()
		return nil, err
	}
	return app, nil
}

// Run opens the window and blocks until it is closed.
func Run(cfg *config.Config, name string, log *zap.Logger) error {
	initWindow()
	defer rl.CloseWindow()

	app, err := NewApp(cfg, name, log)
	if err != nil {
		return err
	}
	defer app.Audio.Stop()
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			return
		}
		a.Update()
		a.Draw()
	}
}

func (a *App) reset() error {
	exp := experiment.New(a.Cfg, experiment.WithInput(a.Switch), experiment.WithLogger(a.Log))
	if err := exp.Setup(exp.Registry().DefaultMetrics(experiment.SettleDistance)); err != nil {
		return err
	}
	a.Exp = exp
	a.SimCfg = exp.SimConfig()
	a.Step, a.Time, a.Last = 0, 0, nil
	a.Telemetry = a.Telemetry[:0]

	r := float32(a.Cfg.Grabber.MaxRadius)
	pos := a.Cfg.Rig.Position
	a.Camera = rl.NewCamera3D(
		rl.NewVector3(float32(pos[0]), r*2.5, float32(pos[2])+r*3),
		rl.NewVector3(float32(pos[0]), 0, float32(pos[2])),
		rl.NewVector3(0, 1, 0),
		45.0,
		rl.CameraPerspective,
	)
	a.CamPosTarget = a.Camera.Position
	a.CamTgtTarget = a.Camera.Target
	return nil
}

func (a *App) Update() {
	dt := float32(rl.GetFrameTime())

	// The grabber follows the mouse on the ground plane.
	ray := rl.GetMouseRay(rl.GetMousePosition(), a.Camera)
	if x, z, ok := groundHit(ray, float32(a.Cfg.Sim.Floor)); ok {
		rig := a.Exp.Rig()
		p := rig.Position()
		rig.SetPosition(mgl64.Vec3{float64(x), p.Y(), float64(z)})
	}
	a.Switch.On = rl.IsMouseButtonDown(rl.MouseLeftButton)

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		r := a.Cfg.Grabber.MaxRadius + float64(wheel)
		if r >= 1 {
			if err := a.Exp.Grabber().SetMaxRadius(r); err == nil {
				a.Cfg.Grabber.MaxRadius = r
			}
		}
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		if err := a.reset(); err != nil {
			a.Log.Error("reset failed", zap.Error(err))
		}
	}

	if a.Running {
		a.tick()
	}

	if rl.IsKeyDown(rl.KeyW) {
		a.CamPosTarget.Z -= 0.5
	}
	if rl.IsKeyDown(rl.KeyS) {
		a.CamPosTarget.Z += 0.5
	}
	if rl.IsKeyDown(rl.KeyA) {
		a.CamPosTarget.X -= 0.5
	}
	if rl.IsKeyDown(rl.KeyD) {
		a.CamPosTarget.X += 0.5
	}

	lerp := min(5.0*dt, 1.0)
	a.Camera.Position = rl.Vector3Lerp(a.Camera.Position, a.CamPosTarget, lerp)
	a.Camera.Target = rl.Vector3Lerp(a.Camera.Target, a.CamTgtTarget, lerp)
}

// tick advances one fixed step and feeds the hum and the telemetry strip.
func (a *App) tick() {
	snap := a.Exp.Simulator().Tick(a.Step, a.Time, a.SimCfg)
	a.Step++
	a.Time = snap.Time
	a.Last = snap

	a.Telemetry = append(a.Telemetry, float64(snap.Report.Tracked))
	if len(a.Telemetry) > telemetryCap {
		a.Telemetry = a.Telemetry[1:]
	}

	load := 0.0
	if len(snap.Bodies) > 0 {
		load = float64(snap.Report.Tracked) / float64(len(snap.Bodies))
	}
	a.Audio.Update(snap.Report.Pulling, load)
}

// groundHit intersects a ray with the horizontal plane y = floor.
func groundHit(ray rl.Ray, floor float32) (x, z float32, ok bool) {
	if ray.Direction.Y == 0 {
		return 0, 0, false
	}
	t := (floor - ray.Position.Y) / ray.Direction.Y
	if t <= 0 {
		return 0, 0, false
	}
	return ray.Position.X + t*ray.Direction.X, ray.Position.Z + t*ray.Direction.Z, true
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	rl.BeginMode3D(a.Camera)
	a.drawGrid(40, 2)
	a.drawScene()
	rl.EndMode3D()

	a.DrawHUD()
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	a.drawText("gravwell", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", a.Name), 160, 34, 16, ColText)

	status, col := "IDLE", ColTextDim
	if a.Switch.On {
		status, col = "PULLING", ColPull
	}
	if !a.Running {
		status, col = "PAUSED", ColTextDim
	}
	a.drawText(status, 1150, 30, 16, col)

	if s := a.Last; s != nil {
		mean, far := s.Distances()
		a.drawText(fmt.Sprintf("t %.2fs  tracked %d/%d  buffer %d  radius %.0f", s.Time, s.Report.Tracked, len(s.Bodies), s.Capacity, s.Radius), 30, 70, 14, ColText)
		a.drawText(fmt.Sprintf("distance mean %.2f max %.2f", mean, far), 30, 90, 14, ColText)
	}
	a.DrawTelemetry()

	a.drawText("[LMB] PULL  [WHEEL] RADIUS  [WASD] CAMERA  [SPACE] PAUSE  [R] RESET  [Q] QUIT", 560, 680, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, 680, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}
	rectX, rectY := 30, 600
	width, height := 400, 60

	maxVal := 1.0
	for _, v := range a.Telemetry {
		maxVal = max(maxVal, v)
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		py := float32(rectY+height) - float32(val/maxVal)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("tracked %d", int(a.Telemetry[len(a.Telemetry)-1])), rectX+width+10, rectY+height-10, 14, ColText)
}
