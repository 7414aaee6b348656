package overlay

// DragSession records what an active drag manipulates.
type DragSession interface {
	// LineIndex is the line being dragged.
	LineIndex() int
	// apply moves the dragged part to follow the pointer.
	apply(s *State, pointer Point)
}

// EndpointDrag moves one endpoint of an angle line to the pointer.
type EndpointDrag struct {
	Index int
	Which int
}

// LineBodyDrag translates a whole line by the pointer's travel since Start.
type LineBodyDrag struct {
	Index    int
	Start    Point
	Original Line
}

func (d EndpointDrag) LineIndex() int { return d.Index }
func (d LineBodyDrag) LineIndex() int { return d.Index }

func (d EndpointDrag) apply(s *State, pointer Point) {
	l, ok := s.Line(d.Index)
	if !ok {
		return
	}
	a, ok := l.(AngleLine)
	if !ok {
		return
	}
	s.setLine(d.Index, a.WithEndpoint(d.Which, ClampToFrame(pointer, s.Frame())))
}

func (d LineBodyDrag) apply(s *State, pointer Point) {
	delta := pointer.Sub(d.Start)

	switch orig := d.Original.(type) {
	case AxisLine:
		if orig.Axis == Vertical {
			orig.Offset += delta.X
		} else {
			orig.Offset += delta.Y
		}
		s.setLine(d.Index, orig)
	case AngleLine:
		// Each endpoint is clamped on its own, so the segment compresses
		// against the frame edge rather than rotating.
		s.setLine(d.Index, AngleLine{
			P1: orig.P1.Add(delta),
			P2: orig.P2.Add(delta),
		})
	}
}

// Phase is the gesture state of the editor.
type Phase interface {
	String() string
	isPhase()
}

// Idle means no gesture is in progress.
type Idle struct{}

// ArmedSelect means the last tap selected a line without starting a drag.
type ArmedSelect struct {
	Index int
}

// Dragging means pointer moves mutate the line named by Session.
type Dragging struct {
	Session DragSession
}

// AwaitingSecondAnglePoint holds the first endpoint of an angle line being
// created with two taps.
type AwaitingSecondAnglePoint struct {
	Start Point
}

func (Idle) isPhase()                     {}
func (ArmedSelect) isPhase()              {}
func (Dragging) isPhase()                 {}
func (AwaitingSecondAnglePoint) isPhase() {}

func (Idle) String() string                     { return "idle" }
func (ArmedSelect) String() string              { return "armed" }
func (Dragging) String() string                 { return "dragging" }
func (AwaitingSecondAnglePoint) String() string { return "awaiting-second-angle-point" }
