package engine

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/viewfinder/viewfinder/internal/overlay"
)

type fakeCamera struct {
	calls []bool
	err   error
}

func (c *fakeCamera) Start(front bool) error {
	c.calls = append(c.calls, front)
	return c.err
}

type sizedCamera struct {
	fakeCamera
	w, h float64
}

func (c *sizedCamera) CurrentFrameSize() (float64, float64) { return c.w, c.h }

func newTestEngine(t *testing.T, cam Camera) *Engine {
	t.Helper()
	e, err := NewEngine(Options{Width: 800, Height: 600, DefaultRatio: "1:1", Camera: cam})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestNewEngineDefaults(t *testing.T) {
	e, err := NewEngine(Options{Width: 800, Height: 600})
	if err != nil {
		t.Fatal(err)
	}
	if got := e.Snapshot().Ratio.Name; got != overlay.DefaultRatioName {
		t.Errorf("ratio = %q, want %q", got, overlay.DefaultRatioName)
	}
	if e.Style() != overlay.DefaultStyle() {
		t.Errorf("style = %+v", e.Style())
	}
	if _, err := NewEngine(Options{DefaultRatio: "5:7"}); !errors.Is(err, ErrUnknownRatio) {
		t.Errorf("err = %v, want ErrUnknownRatio", err)
	}
}

func TestEngineCommandErrors(t *testing.T) {
	e := newTestEngine(t, nil)
	if err := e.SetMode("lasso"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("SetMode err = %v", err)
	}
	if err := e.SelectRatio("5:7"); !errors.Is(err, ErrUnknownRatio) {
		t.Errorf("SelectRatio err = %v", err)
	}
	if err := e.SwitchCamera(); !errors.Is(err, ErrNoCamera) {
		t.Errorf("SwitchCamera err = %v", err)
	}
}

func TestEngineTick(t *testing.T) {
	e := newTestEngine(t, nil)

	if e.Tick() == "" {
		t.Fatal("first tick should render")
	}
	if got := e.Tick(); got != "" {
		t.Fatalf("idle tick rendered %s", got)
	}

	if err := e.SetMode("angle"); err != nil {
		t.Fatal(err)
	}
	e.PointerDown(200, 200)
	for i := 0; i < 3; i++ {
		out := e.Tick()
		if out == "" {
			t.Fatalf("tick %d: pending marker not rendered", i)
		}
		var cmds []overlay.DrawCommand
		if err := json.Unmarshal([]byte(out), &cmds); err != nil {
			t.Fatal(err)
		}
		if last := cmds[len(cmds)-1]; last.Role != "marker" {
			t.Fatalf("tick %d: last command = %+v", i, last)
		}
	}

	e.PointerDown(300, 300)
	e.Tick()
	if got := e.Tick(); got != "" {
		t.Errorf("tick after completing the line rendered %s", got)
	}
}

func TestEngineHitTest(t *testing.T) {
	e := newTestEngine(t, nil)
	if err := e.SetMode("vertical"); err != nil {
		t.Fatal(err)
	}
	e.PointerDown(300, 300)

	if got, want := e.HitTest(305, 300), `{"index":0,"kind":"line"}`; got != want {
		t.Errorf("HitTest = %s, want %s", got, want)
	}
	if got := e.HitTest(500, 300); got != "" {
		t.Errorf("HitTest miss = %q", got)
	}
	if !e.HasSelection() {
		t.Error("new line not selected")
	}
	if !e.DeleteSelected() || e.HasSelection() {
		t.Error("delete failed")
	}
}

func TestEngineSwitchCamera(t *testing.T) {
	cam := &fakeCamera{}
	e := newTestEngine(t, cam)
	e.SetMode("vertical")
	e.PointerDown(300, 300)
	before := e.GetSnapshot()

	if err := e.SwitchCamera(); err != nil {
		t.Fatal(err)
	}
	if e.Facing() != "user" || len(cam.calls) != 1 || !cam.calls[0] {
		t.Errorf("facing = %s, calls = %v", e.Facing(), cam.calls)
	}
	if e.GetSnapshot() != before {
		t.Error("camera switch touched overlay state")
	}

	cam.err = errors.New("denied")
	if err := e.SwitchCamera(); err == nil {
		t.Fatal("expected error")
	}
	if e.Facing() != "user" {
		t.Errorf("facing = %s after failed switch", e.Facing())
	}
}

func TestEngineSwitchCameraResizes(t *testing.T) {
	cam := &sizedCamera{w: 600, h: 800}
	e := newTestEngine(t, cam)
	e.Tick()

	if err := e.SwitchCamera(); err != nil {
		t.Fatal(err)
	}
	if v := e.Snapshot().Viewport; v.Width != 600 || v.Height != 800 {
		t.Errorf("viewport = %+v", v)
	}
	if !e.Dirty() {
		t.Error("resize after switch should owe a render")
	}
}

func TestEngineLoadSnapshot(t *testing.T) {
	src := newTestEngine(t, nil)
	src.SetMode("horizontal")
	src.PointerDown(400, 200)
	snap := src.GetSnapshot()

	dst := newTestEngine(t, nil)
	if err := dst.LoadSnapshot([]byte(snap)); err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if dst.GetSnapshot() != snap {
		t.Errorf("snapshot = %s, want %s", dst.GetSnapshot(), snap)
	}
	if dst.Render() != src.Render() {
		t.Error("renders differ")
	}
	if err := dst.LoadSnapshot([]byte(`{"lines":[{"type":"blob"}]}`)); err == nil {
		t.Error("expected error for bad snapshot")
	}
}

func TestRatiosToJSON(t *testing.T) {
	out := RatiosToJSON([]overlay.Ratio{{Name: "1:1", Value: 1}, {Name: "2:1", Value: 2}}, "2:1")
	want := `[{"name":"1:1","value":1,"selected":false},{"name":"2:1","value":2,"selected":true}]`
	if out != want {
		t.Errorf("got %s, want %s", out, want)
	}
}
