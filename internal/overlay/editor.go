package overlay

// Mode decides what a tap on empty frame space creates.
type Mode int

const (
	ModeDot Mode = iota
	ModeVertical
	ModeHorizontal
	ModeAngle
)

func (m Mode) String() string {
	switch m {
	case ModeDot:
		return "dot"
	case ModeVertical:
		return "vertical"
	case ModeHorizontal:
		return "horizontal"
	case ModeAngle:
		return "angle"
	default:
		return "unknown"
	}
}

// ParseMode maps a mode name to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "dot":
		return ModeDot, true
	case "vertical":
		return ModeVertical, true
	case "horizontal":
		return ModeHorizontal, true
	case "angle":
		return ModeAngle, true
	}
	return 0, false
}

// Editor resolves pointer gestures and commands into guide mutations. It
// owns the session State and is not safe for concurrent use. Every mutating
// method reports whether anything changed so callers can repaint.
type Editor struct {
	state     *State
	viewportW float64
	viewportH float64
	ratio     Ratio
	mode      Mode
	phase     Phase
}

// NewEditor creates an empty session for a viewport and target ratio.
func NewEditor(viewportW, viewportH float64, ratio Ratio) *Editor {
	return &Editor{
		state:     NewState(ComputeFrame(viewportW, viewportH, ratio.Value)),
		viewportW: viewportW,
		viewportH: viewportH,
		ratio:     ratio,
		mode:      ModeDot,
		phase:     Idle{},
	}
}

// RestoreEditor rebuilds a session from saved guides. Lines are clamped to
// the recomputed frame, an out-of-range selection is dropped, and a pending
// start is only kept in Angle mode.
func RestoreEditor(viewportW, viewportH float64, ratio Ratio, mode Mode, dots []Dot, lines []Line, selected int, pending *Point) *Editor {
	e := NewEditor(viewportW, viewportH, ratio)
	e.mode = mode
	for _, d := range dots {
		e.state.AddDot(Point{X: d.X, Y: d.Y})
	}
	for _, l := range lines {
		e.state.appendLine(l)
	}
	e.state.Select(selected)
	if pending != nil && mode == ModeAngle {
		e.phase = AwaitingSecondAnglePoint{Start: ClampToFrame(*pending, e.state.Frame())}
	}
	return e
}

// Resize recomputes the frame for a new viewport size.
func (e *Editor) Resize(viewportW, viewportH float64) bool {
	if viewportW == e.viewportW && viewportH == e.viewportH {
		return false
	}
	e.viewportW = viewportW
	e.viewportH = viewportH
	e.reframe()
	return true
}

// SelectRatio recomputes the frame for a new target ratio.
func (e *Editor) SelectRatio(r Ratio) bool {
	if r == e.ratio {
		return false
	}
	e.ratio = r
	e.reframe()
	return true
}

func (e *Editor) reframe() {
	e.state.SetFrame(ComputeFrame(e.viewportW, e.viewportH, e.ratio.Value))
	if p, ok := e.phase.(AwaitingSecondAnglePoint); ok {
		e.phase = AwaitingSecondAnglePoint{Start: ClampToFrame(p.Start, e.state.Frame())}
	}
}

// SetMode switches the creation mode. Leaving Angle mode discards a pending
// start point. The selection is never touched.
func (e *Editor) SetMode(m Mode) bool {
	if m == e.mode {
		return false
	}
	e.mode = m
	if _, ok := e.phase.(AwaitingSecondAnglePoint); ok && m != ModeAngle {
		e.phase = Idle{}
	}
	return true
}

// PointerDown handles a press at p.
func (e *Editor) PointerDown(p Point) bool {
	frame := e.state.Frame()

	if hit, ok := FindHit(p, e.state.lines, frame); ok {
		if sel, selected := e.state.Selected(); selected && sel == hit.Index {
			e.phase = Dragging{Session: e.sessionFor(hit, p)}
			return true
		}
		e.state.Select(hit.Index)
		e.phase = ArmedSelect{Index: hit.Index}
		return true
	}

	if !frame.Contains(p) {
		_, hadSelection := e.state.Selected()
		e.state.Select(NoSelection)
		e.settle()
		return hadSelection
	}

	switch e.mode {
	case ModeDot:
		e.state.AddDot(p)
		e.settle()
	case ModeVertical:
		e.selectNew(e.state.AddAxisLine(Vertical, p.X))
	case ModeHorizontal:
		e.selectNew(e.state.AddAxisLine(Horizontal, p.Y))
	case ModeAngle:
		if pending, ok := e.phase.(AwaitingSecondAnglePoint); ok {
			e.selectNew(e.state.AddAngleLine(pending.Start, p))
		} else {
			e.phase = AwaitingSecondAnglePoint{Start: p}
		}
	}
	return true
}

// settle drops an armed selection or a drag whose pointer-up never arrived.
// A pending angle start survives.
func (e *Editor) settle() {
	switch e.phase.(type) {
	case ArmedSelect, Dragging:
		e.phase = Idle{}
	}
}

func (e *Editor) selectNew(index int) {
	e.state.Select(index)
	e.phase = ArmedSelect{Index: index}
}

func (e *Editor) sessionFor(hit Hit, p Point) DragSession {
	if hit.Kind == HitEndpoint {
		return EndpointDrag{Index: hit.Index, Which: hit.Which}
	}
	l, _ := e.state.Line(hit.Index)
	return LineBodyDrag{Index: hit.Index, Start: p, Original: l}
}

// PointerMove drags the engaged line. It does nothing unless dragging.
func (e *Editor) PointerMove(p Point) bool {
	d, ok := e.phase.(Dragging)
	if !ok {
		return false
	}
	d.Session.apply(e.state, p)
	return true
}

// PointerUp ends a drag. The selection survives.
func (e *Editor) PointerUp() bool {
	if _, ok := e.phase.(Dragging); !ok {
		return false
	}
	e.phase = Idle{}
	return true
}

// DeleteSelected removes the selected line. It is refused while a drag is
// active so the drag session can never point at a shifted index.
func (e *Editor) DeleteSelected() bool {
	if _, ok := e.phase.(Dragging); ok {
		return false
	}
	if !e.state.DeleteSelected() {
		return false
	}
	if _, ok := e.phase.(ArmedSelect); ok {
		e.phase = Idle{}
	}
	return true
}

// FindHit runs the hit tester against the current lines and frame.
func (e *Editor) FindHit(p Point) (Hit, bool) {
	return FindHit(p, e.state.lines, e.state.Frame())
}

// Frame returns the current frame.
func (e *Editor) Frame() Frame { return e.state.Frame() }

// Viewport returns the viewport size.
func (e *Editor) Viewport() (w, h float64) { return e.viewportW, e.viewportH }

// Ratio returns the selected target ratio.
func (e *Editor) Ratio() Ratio { return e.ratio }

// Mode returns the creation mode.
func (e *Editor) Mode() Mode { return e.mode }

// Phase returns the gesture phase.
func (e *Editor) Phase() Phase { return e.phase }

// Lines returns a copy of the lines.
func (e *Editor) Lines() []Line { return e.state.Lines() }

// Dots returns a copy of the dots.
func (e *Editor) Dots() []Dot { return e.state.Dots() }

// Selected returns the selected line index.
func (e *Editor) Selected() (int, bool) { return e.state.Selected() }

// HasSelection reports whether the delete affordance should be shown.
func (e *Editor) HasSelection() bool {
	_, ok := e.state.Selected()
	return ok
}

// PendingStart returns the first endpoint of an angle line awaiting its
// second tap.
func (e *Editor) PendingStart() (Point, bool) {
	p, ok := e.phase.(AwaitingSecondAnglePoint)
	return p.Start, ok
}

// Scene captures everything the projector needs.
func (e *Editor) Scene() Scene {
	sc := Scene{
		ViewportW: e.viewportW,
		ViewportH: e.viewportH,
		Frame:     e.state.Frame(),
		Dots:      e.state.Dots(),
		Lines:     e.state.Lines(),
		Selected:  e.state.selected,
	}
	if p, ok := e.PendingStart(); ok {
		sc.Pending = &p
	}
	return sc
}
