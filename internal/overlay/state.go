package overlay

// NoSelection is the selected index when no line is selected.
const NoSelection = -1

// State holds the guides of one editing session and the line selection.
// Line coordinates are kept clamped to the current frame.
type State struct {
	frame    Frame
	dots     []Dot
	lines    []Line
	selected int
}

// NewState creates an empty state constrained by frame.
func NewState(frame Frame) *State {
	return &State{
		frame:    frame,
		selected: NoSelection,
	}
}

// Frame returns the frame the lines are clamped to.
func (s *State) Frame() Frame {
	return s.frame
}

// SetFrame replaces the frame and re-clamps every line into it.
func (s *State) SetFrame(f Frame) {
	s.frame = f
	for i, l := range s.lines {
		s.lines[i] = ClampLine(l, f)
	}
}

// AddDot appends a free dot at p and returns its index among the dots.
func (s *State) AddDot(p Point) int {
	s.dots = append(s.dots, Dot{X: p.X, Y: p.Y})
	return len(s.dots) - 1
}

// AddAxisLine appends an axis line with offset clamped into the frame.
func (s *State) AddAxisLine(axis Axis, offset float64) int {
	return s.appendLine(AxisLine{Axis: axis, Offset: offset})
}

// AddAngleLine appends a segment with both endpoints clamped into the frame.
func (s *State) AddAngleLine(p1, p2 Point) int {
	return s.appendLine(AngleLine{P1: p1, P2: p2})
}

func (s *State) appendLine(l Line) int {
	s.lines = append(s.lines, ClampLine(l, s.frame))
	return len(s.lines) - 1
}

// Select selects the line at index, or clears the selection for
// NoSelection. Out-of-range indices leave the selection untouched.
func (s *State) Select(index int) bool {
	if index != NoSelection && (index < 0 || index >= len(s.lines)) {
		return false
	}
	s.selected = index
	return true
}

// Selected returns the selected line index.
func (s *State) Selected() (int, bool) {
	return s.selected, s.selected != NoSelection
}

// DeleteSelected removes the selected line and clears the selection.
// Later lines shift down by one. It reports whether a line was removed.
func (s *State) DeleteSelected() bool {
	i := s.selected
	if i == NoSelection {
		return false
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.selected = NoSelection
	return true
}

// Line returns the line at index.
func (s *State) Line(index int) (Line, bool) {
	if index < 0 || index >= len(s.lines) {
		return nil, false
	}
	return s.lines[index], true
}

// setLine replaces the line at index after clamping it into the frame.
func (s *State) setLine(index int, l Line) {
	if index < 0 || index >= len(s.lines) {
		return
	}
	s.lines[index] = ClampLine(l, s.frame)
}

// Lines returns a copy of the line collection.
func (s *State) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Dots returns a copy of the dot collection.
func (s *State) Dots() []Dot {
	out := make([]Dot, len(s.dots))
	copy(out, s.dots)
	return out
}
