// Package document is the JSON form of an overlay session. Live sessions
// broadcast it with every render and the capture exporter decodes it to
// re-project the guides on the server.
package document

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/viewfinder/viewfinder/internal/overlay"
)

var (
	ErrUnknownLineType = errors.New("unknown line type")
	ErrInvalidLine     = errors.New("invalid line")
	ErrUnknownMode     = errors.New("unknown mode")
	ErrInvalidRatio    = errors.New("invalid ratio")
)

type LineType string

const (
	LineTypeAxis  LineType = "axis"
	LineTypeAngle LineType = "angle"
)

type Snapshot struct {
	Viewport     Viewport       `json:"viewport"`
	Ratio        overlay.Ratio  `json:"ratio"`
	Frame        overlay.Frame  `json:"frame"`
	Mode         string         `json:"mode"`
	Dots         []overlay.Dot  `json:"dots"`
	Lines        []Line         `json:"lines"`
	Selected     int            `json:"selected"`
	PendingStart *overlay.Point `json:"pendingStart,omitempty"`
}

type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Line is the tagged JSON form of overlay.AxisLine and overlay.AngleLine.
type Line struct {
	Type   LineType       `json:"type"`
	Axis   string         `json:"axis,omitempty"`
	Offset float64        `json:"offset,omitempty"`
	P1     *overlay.Point `json:"p1,omitempty"`
	P2     *overlay.Point `json:"p2,omitempty"`
}

// FromEditor captures the current state of an editor.
func FromEditor(e *overlay.Editor) Snapshot {
	w, h := e.Viewport()
	lines := e.Lines()

	s := Snapshot{
		Viewport: Viewport{Width: w, Height: h},
		Ratio:    e.Ratio(),
		Frame:    e.Frame(),
		Mode:     e.Mode().String(),
		Dots:     e.Dots(),
		Lines:    make([]Line, 0, len(lines)),
		Selected: overlay.NoSelection,
	}
	for _, l := range lines {
		s.Lines = append(s.Lines, lineToJSON(l))
	}
	if sel, ok := e.Selected(); ok {
		s.Selected = sel
	}
	if p, ok := e.PendingStart(); ok {
		s.PendingStart = &p
	}
	return s
}

func lineToJSON(l overlay.Line) Line {
	switch l := l.(type) {
	case overlay.AxisLine:
		return Line{Type: LineTypeAxis, Axis: l.Axis.String(), Offset: l.Offset}
	case overlay.AngleLine:
		p1, p2 := l.P1, l.P2
		return Line{Type: LineTypeAngle, P1: &p1, P2: &p2}
	}
	return Line{}
}

// ToLine converts the JSON form back into an overlay line.
func (l Line) ToLine() (overlay.Line, error) {
	switch l.Type {
	case LineTypeAxis:
		axis, ok := overlay.ParseAxis(l.Axis)
		if !ok {
			return nil, fmt.Errorf("%w: axis %q", ErrInvalidLine, l.Axis)
		}
		return overlay.AxisLine{Axis: axis, Offset: l.Offset}, nil
	case LineTypeAngle:
		if l.P1 == nil || l.P2 == nil {
			return nil, fmt.Errorf("%w: angle line needs p1 and p2", ErrInvalidLine)
		}
		return overlay.AngleLine{P1: *l.P1, P2: *l.P2}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLineType, l.Type)
	}
}

// Parse decodes a snapshot from JSON.
func Parse(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

// Editor rebuilds an editor from the snapshot. The ratio is resolved by name
// against ratios first; an unregistered name falls back to the stored value.
// The frame is recomputed rather than trusted.
func (s Snapshot) Editor(ratios *overlay.RatioTable) (*overlay.Editor, error) {
	ratio := s.Ratio
	if r, ok := ratios.Lookup(s.Ratio.Name); ok {
		ratio = r
	} else if !(ratio.Value > 0) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRatio, s.Ratio.Name)
	}

	mode := overlay.ModeDot
	if s.Mode != "" {
		m, ok := overlay.ParseMode(s.Mode)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMode, s.Mode)
		}
		mode = m
	}

	lines := make([]overlay.Line, 0, len(s.Lines))
	for i, l := range s.Lines {
		line, err := l.ToLine()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		lines = append(lines, line)
	}

	return overlay.RestoreEditor(s.Viewport.Width, s.Viewport.Height, ratio, mode, s.Dots, lines, s.Selected, s.PendingStart), nil
}
