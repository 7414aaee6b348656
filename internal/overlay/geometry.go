// Package overlay is the interactive guide editor: frame geometry, the guide
// model, hit testing, the drag state machine and the draw-command projector.
// Everything here is synchronous and owned by a single caller.
package overlay

import "math"

// frameMargin is the share of the constraining viewport axis the frame occupies.
const frameMargin = 0.92

// Point is a position in viewport pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Frame is the centered rectangle matching the selected aspect ratio.
type Frame struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
	Ratio float64 `json:"ratio"`
}

// Right returns the x coordinate of the frame's right edge.
func (f Frame) Right() float64 { return f.X + f.W }

// Bottom returns the y coordinate of the frame's bottom edge.
func (f Frame) Bottom() float64 { return f.Y + f.H }

// Contains reports whether p lies inside the frame, edges included.
func (f Frame) Contains(p Point) bool {
	return p.X >= f.X && p.X <= f.Right() &&
		p.Y >= f.Y && p.Y <= f.Bottom()
}

// ClampOffset clamps an axis line offset to the frame span on that axis.
func (f Frame) ClampOffset(axis Axis, offset float64) float64 {
	if axis == Vertical {
		return clamp(offset, f.X, f.Right())
	}
	return clamp(offset, f.Y, f.Bottom())
}

// ComputeFrame returns the centered frame of the given ratio inside a
// viewport. The frame fills 92% of whichever viewport axis constrains it.
// A viewport with a non-positive side collapses the frame to its center point; a non-positive ratio is
// treated as square.
func ComputeFrame(viewportW, viewportH, ratio float64) Frame {
	viewportW = math.Max(viewportW, 0)
	viewportH = math.Max(viewportH, 0)
	if !(ratio > 0) || math.IsInf(ratio, 0) {
		ratio = 1
	}

	if viewportW == 0 || viewportH == 0 {
		return Frame{X: math.Round(viewportW / 2), Y: math.Round(viewportH / 2), Ratio: ratio}
	}

	var w, h float64
	if viewportW/viewportH > ratio {
		h = viewportH * frameMargin
		w = h * ratio
	} else {
		w = viewportW * frameMargin
		h = w / ratio
	}

	// Rounding the origin must not push the far edge past the viewport.
	x := clamp(math.Round((viewportW-w)/2), 0, math.Max(viewportW-w, 0))
	y := clamp(math.Round((viewportH-h)/2), 0, math.Max(viewportH-h, 0))

	return Frame{X: x, Y: y, W: w, H: h, Ratio: ratio}
}

// ClampToFrame clamps both coordinates of p independently into the frame.
func ClampToFrame(p Point, f Frame) Point {
	return Point{
		X: clamp(p.X, f.X, f.Right()),
		Y: clamp(p.Y, f.Y, f.Bottom()),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
