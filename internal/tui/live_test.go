package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravwell/internal/grab"
	"github.com/san-kum/gravwell/internal/sim"
)

func snapshot() *sim.Snapshot {
	anchor := mgl64.Vec3{0, 10, 0}
	return &sim.Snapshot{
		Time:     1.5,
		Anchor:   anchor,
		Position: anchor,
		Radius:   10,
		Report:   grab.StepReport{Pulling: true, Candidates: 1, Tracked: 1},
		Bodies: []sim.BodyView{
			{Center: mgl64.Vec3{5, 0, 0}, Grabbed: true},
			{Center: mgl64.Vec3{-12, 0, 0}},
			{Center: mgl64.Vec3{500, 0, 0}},
		},
		Capacity: 64,
	}
}

func TestFrameMarksBodies(t *testing.T) {
	r := NewLiveRendererTo(&bytes.Buffer{}, "default", 0)
	frame := r.Frame(snapshot())

	lines := strings.Split(frame, "\n")
	if !strings.Contains(lines[0], "PULL") || !strings.Contains(lines[0], "t=1.50s") {
		t.Errorf("unexpected header %q", lines[0])
	}

	mid := lines[2+height/2]
	anchorCol := 2 + width/2
	if mid[anchorCol] != '+' {
		t.Errorf("expected anchor at center, got %q", mid[anchorCol])
	}
	grabbed := strings.Index(mid, "@")
	free := strings.Index(mid, "o")
	if grabbed <= anchorCol {
		t.Errorf("grabbed body should be right of the anchor, row %q", mid)
	}
	if free < 0 || free >= anchorCol {
		t.Errorf("free body should be left of the anchor, row %q", mid)
	}
	if !strings.Contains(frame, "tracked=1 candidates=1") {
		t.Error("missing status line")
	}
}

func TestOnStepThrottles(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRendererTo(&buf, "default", 1)
	r.OnStep(snapshot())
	first := buf.Len()
	r.OnStep(snapshot())
	if first == 0 || buf.Len() != first {
		t.Errorf("expected exactly one frame, wrote %d then %d bytes", first, buf.Len())
	}
}

func TestStartStop(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRendererTo(&buf, "default", 0)
	r.Start()
	r.Stop()
	if buf.String() != hideCursor+showCursor {
		t.Errorf("unexpected control codes %q", buf.String())
	}
}
