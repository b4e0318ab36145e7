package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
)

func vec(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X()), float32(v.Y()), float32(v.Z()))
}

func (a *App) drawGrid(slices int, spacing float32) {
	half := float32(slices) * spacing / 2
	y := float32(a.Cfg.Sim.Floor)
	for i := -slices / 2; i <= slices/2; i++ {
		pos := float32(i) * spacing
		rl.DrawLine3D(rl.NewVector3(pos, y, -half), rl.NewVector3(pos, y, half), ColGrid)
		rl.DrawLine3D(rl.NewVector3(-half, y, pos), rl.NewVector3(half, y, pos), ColGrid)
	}
}

// drawScene draws the grab capsule as rings on the floor and at the
// anchor, the props, and every body, tracked ones bright with a tether.
func (a *App) drawScene() {
	s := a.Last
	if s == nil {
		return
	}
	anchor := vec(s.Anchor)
	floor := rl.NewVector3(anchor.X, float32(a.Cfg.Sim.Floor)+0.01, anchor.Z)
	r := float32(s.Radius)

	ring := ColTextDim
	if s.Report.Pulling {
		ring = ColPull
	}
	rl.DrawCircle3D(floor, r, rl.NewVector3(1, 0, 0), 90, ring)
	rl.DrawCircle3D(anchor, r, rl.NewVector3(1, 0, 0), 90, rl.ColorAlpha(ring, 0.3))
	rl.DrawLine3D(floor, anchor, ColTextDim)
	rl.DrawSphere(anchor, 0.3, ColSelect)

	if l := a.Exp.Light(); l != nil && s.Report.Pulling {
		rl.DrawSphereWires(anchor, float32(l.Range)/2, 8, 12, rl.ColorAlpha(ColPull, 0.08))
	}

	for _, p := range a.Exp.World().Props() {
		rl.DrawCubeWires(vec(p.Center()), float32(p.Radius()), float32(p.Radius()), float32(p.Radius()), ColTextDim)
	}

	grabLayer := a.Exp.World().Layers().NameToLayer(a.Cfg.Grabber.Category)
	for _, b := range a.Exp.World().Bodies() {
		pos := vec(b.Center())
		switch {
		case b.Grabbed():
			rl.DrawLine3D(pos, anchor, rl.ColorAlpha(ColPull, 0.4))
			rl.DrawSphere(pos, float32(b.Radius()), ColSelect)
		case b.Layer() != grabLayer:
			rl.DrawSphere(pos, float32(b.Radius()), ColDecoy)
		default:
			rl.DrawSphere(pos, float32(b.Radius()), ColAccent)
		}
	}
}
