package overlay

import "encoding/json"

// DrawCommand is a single drawing primitive. Renderers execute the list in
// order (back to front) on a Canvas2D context or a raster surface.
//
// Op is "rect", "line" or "circle". Role is one of "mask", "frame",
// "guide", "dot", "handle" or "marker"; guides and handles carry the index
// of their line.
type DrawCommand struct {
	Op          string  `json:"op"`
	Role        string  `json:"role"`
	Index       *int    `json:"index,omitempty"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	W           float64 `json:"w"`
	H           float64 `json:"h"`
	X1          float64 `json:"x1"`
	Y1          float64 `json:"y1"`
	X2          float64 `json:"x2"`
	Y2          float64 `json:"y2"`
	R           float64 `json:"r"`
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
}

// Scene is the read-only input of Project.
type Scene struct {
	ViewportW float64
	ViewportH float64
	Frame     Frame
	Dots      []Dot
	Lines     []Line
	Selected  int
	Pending   *Point
}

// Style holds the colors and sizes used by Project. Colors are CSS hex
// strings, optionally with an alpha byte.
type Style struct {
	Guide        string  `json:"guide" yaml:"guide"`
	Selected     string  `json:"selected" yaml:"selected"`
	Mask         string  `json:"mask" yaml:"mask"`
	Frame        string  `json:"frame" yaml:"frame"`
	Marker       string  `json:"marker" yaml:"marker"`
	LineWidth    float64 `json:"lineWidth" yaml:"lineWidth"`
	FrameWidth   float64 `json:"frameWidth" yaml:"frameWidth"`
	DotRadius    float64 `json:"dotRadius" yaml:"dotRadius"`
	HandleRadius float64 `json:"handleRadius" yaml:"handleRadius"`
	MarkerRadius float64 `json:"markerRadius" yaml:"markerRadius"`
}

// DefaultStyle returns the stock overlay look.
func DefaultStyle() Style {
	return Style{
		Guide:        "#ffffff",
		Selected:     "#4da3ff",
		Mask:         "#00000080",
		Frame:        "#ffffffcc",
		Marker:       "#ffd24d",
		LineWidth:    3,
		FrameWidth:   2,
		DotRadius:    6,
		HandleRadius: 9,
		MarkerRadius: 7,
	}
}

// Merge returns s with every zero field taken from base.
func (s Style) Merge(base Style) Style {
	pick := func(v, d string) string {
		if v == "" {
			return d
		}
		return v
	}
	pickf := func(v, d float64) float64 {
		if v <= 0 {
			return d
		}
		return v
	}
	return Style{
		Guide:        pick(s.Guide, base.Guide),
		Selected:     pick(s.Selected, base.Selected),
		Mask:         pick(s.Mask, base.Mask),
		Frame:        pick(s.Frame, base.Frame),
		Marker:       pick(s.Marker, base.Marker),
		LineWidth:    pickf(s.LineWidth, base.LineWidth),
		FrameWidth:   pickf(s.FrameWidth, base.FrameWidth),
		DotRadius:    pickf(s.DotRadius, base.DotRadius),
		HandleRadius: pickf(s.HandleRadius, base.HandleRadius),
		MarkerRadius: pickf(s.MarkerRadius, base.MarkerRadius),
	}
}

// Project turns a scene into draw commands. Order: the four mask bands
// around the frame, the frame border, lines, dots, handles of a selected
// angle line, then the pending angle marker.
func Project(sc Scene, st Style) []DrawCommand {
	f := sc.Frame
	cmds := make([]DrawCommand, 0, 6+len(sc.Lines)+len(sc.Dots))

	for _, r := range maskBands(sc.ViewportW, sc.ViewportH, f) {
		if r.W <= 0 || r.H <= 0 {
			continue
		}
		cmds = append(cmds, DrawCommand{Op: "rect", Role: "mask", X: r.X, Y: r.Y, W: r.W, H: r.H, Fill: st.Mask})
	}

	cmds = append(cmds, DrawCommand{
		Op: "rect", Role: "frame",
		X: f.X, Y: f.Y, W: f.W, H: f.H,
		Stroke: st.Frame, StrokeWidth: st.FrameWidth,
	})

	for i, l := range sc.Lines {
		color := st.Guide
		if i == sc.Selected {
			color = st.Selected
		}
		var a, b Point
		switch l := l.(type) {
		case AxisLine:
			a, b = l.Span(f)
		case AngleLine:
			a, b = l.P1, l.P2
		default:
			continue
		}
		cmds = append(cmds, DrawCommand{
			Op: "line", Role: "guide", Index: intPtr(i),
			X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y,
			Stroke: color, StrokeWidth: st.LineWidth,
		})
	}

	for _, d := range sc.Dots {
		cmds = append(cmds, DrawCommand{Op: "circle", Role: "dot", X: d.X, Y: d.Y, R: st.DotRadius, Fill: st.Guide})
	}

	if sc.Selected >= 0 && sc.Selected < len(sc.Lines) {
		if a, ok := sc.Lines[sc.Selected].(AngleLine); ok {
			for _, p := range []Point{a.P1, a.P2} {
				cmds = append(cmds, DrawCommand{
					Op: "circle", Role: "handle", Index: intPtr(sc.Selected),
					X: p.X, Y: p.Y, R: st.HandleRadius,
					Fill: st.Selected, Stroke: st.Guide, StrokeWidth: st.FrameWidth,
				})
			}
		}
	}

	if sc.Pending != nil {
		cmds = append(cmds, DrawCommand{
			Op: "circle", Role: "marker",
			X: sc.Pending.X, Y: sc.Pending.Y, R: st.MarkerRadius,
			Fill: st.Marker,
		})
	}

	return cmds
}

type rect struct{ X, Y, W, H float64 }

// maskBands covers the viewport outside f with four non-overlapping bands:
// full-width top and bottom, frame-height left and right.
func maskBands(vw, vh float64, f Frame) [4]rect {
	return [4]rect{
		{0, 0, vw, f.Y},
		{0, f.Bottom(), vw, vh - f.Bottom()},
		{0, f.Y, f.X, f.H},
		{f.Right(), f.Y, vw - f.Right(), f.H},
	}
}

func intPtr(v int) *int { return &v }

// DrawCommandsToJSON serializes draw commands to a JSON string.
func DrawCommandsToJSON(cmds []DrawCommand) (string, error) {
	if cmds == nil {
		cmds = []DrawCommand{}
	}
	data, err := json.Marshal(cmds)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
