package overlay

// Axis is the orientation of an axis-aligned guide.
type Axis int

const (
	Vertical Axis = iota
	Horizontal
)

func (a Axis) String() string {
	switch a {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	default:
		return "unknown"
	}
}

// ParseAxis maps "vertical" / "horizontal" to an Axis.
func ParseAxis(s string) (Axis, bool) {
	switch s {
	case "vertical":
		return Vertical, true
	case "horizontal":
		return Horizontal, true
	}
	return 0, false
}

// Guide is the closed set of guide shapes: Dot, AxisLine and AngleLine.
type Guide interface {
	isGuide()
}

// Line is a guide kept in the selectable line collection.
type Line interface {
	Guide
	isLine()
}

// Dot is a free point. Dots may sit anywhere in the viewport.
type Dot struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// AxisLine is a vertical line at x = Offset spanning the frame height, or a
// horizontal line at y = Offset spanning the frame width.
type AxisLine struct {
	Axis   Axis
	Offset float64
}

// AngleLine is a free segment between two endpoints inside the frame.
type AngleLine struct {
	P1 Point
	P2 Point
}

func (Dot) isGuide()       {}
func (AxisLine) isGuide()  {}
func (AngleLine) isGuide() {}

func (AxisLine) isLine()  {}
func (AngleLine) isLine() {}

// Endpoint returns endpoint 1 or 2.
func (l AngleLine) Endpoint(which int) Point {
	if which == 2 {
		return l.P2
	}
	return l.P1
}

// WithEndpoint returns a copy with endpoint 1 or 2 replaced by p.
func (l AngleLine) WithEndpoint(which int, p Point) AngleLine {
	if which == 2 {
		l.P2 = p
	} else {
		l.P1 = p
	}
	return l
}

// Span returns the two ends of an axis line as drawn inside f.
func (l AxisLine) Span(f Frame) (Point, Point) {
	if l.Axis == Vertical {
		return Point{X: l.Offset, Y: f.Y}, Point{X: l.Offset, Y: f.Bottom()}
	}
	return Point{X: f.X, Y: l.Offset}, Point{X: f.Right(), Y: l.Offset}
}

// ClampLine returns l with every coordinate clamped into f.
func ClampLine(l Line, f Frame) Line {
	switch l := l.(type) {
	case AxisLine:
		l.Offset = f.ClampOffset(l.Axis, l.Offset)
		return l
	case AngleLine:
		l.P1 = ClampToFrame(l.P1, f)
		l.P2 = ClampToFrame(l.P2, f)
		return l
	}
	return l
}
