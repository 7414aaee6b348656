package overlay

import (
	"math"
	"testing"
)

func TestComputeFrame(t *testing.T) {
	tests := []struct {
		name   string
		w, h   float64
		ratio  float64
		expect Frame
	}{
		{"square in landscape", 800, 600, 1, Frame{X: 124, Y: 24, W: 552, H: 552, Ratio: 1}},
		{"4:3 fills width", 800, 600, 4.0 / 3.0, Frame{X: 32, Y: 24, W: 736, H: 552, Ratio: 4.0 / 3.0}},
		{"portrait in landscape", 800, 600, 9.0 / 16.0, Frame{X: 245, Y: 24, W: 310.5, H: 552, Ratio: 9.0 / 16.0}},
		{"landscape in portrait", 400, 800, 16.0 / 9.0, Frame{X: 16, Y: 297, W: 368, H: 207, Ratio: 16.0 / 9.0}},
		{"zero viewport", 0, 0, 1, Frame{Ratio: 1}},
		{"invalid ratio is square", 800, 600, 0, Frame{X: 124, Y: 24, W: 552, H: 552, Ratio: 1}},
		{"negative size", -10, 600, 1, Frame{X: 0, Y: 300, W: 0, H: 0, Ratio: 1}},
		{"zero height narrow", 100, 0, 1, Frame{X: 50, Y: 0, W: 0, H: 0, Ratio: 1}},
		{"zero height wide", 800, 0, 4.0 / 3.0, Frame{X: 400, Y: 0, W: 0, H: 0, Ratio: 4.0 / 3.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeFrame(tt.w, tt.h, tt.ratio)
			if !approxFrame(got, tt.expect) {
				t.Errorf("ComputeFrame(%v, %v, %v) = %+v, want %+v", tt.w, tt.h, tt.ratio, got, tt.expect)
			}
		})
	}
}

func TestComputeFrameInsideViewport(t *testing.T) {
	sizes := [][2]float64{{800, 600}, {375, 812}, {1, 1}, {1920, 1080}, {333, 777}, {100, 0}, {800, 0}, {0, 600}}
	for _, size := range sizes {
		for _, r := range BuiltinRatios().All() {
			f := ComputeFrame(size[0], size[1], r.Value)
			if f.X < 0 || f.Y < 0 || f.Right() > size[0]+1e-9 || f.Bottom() > size[1]+1e-9 {
				t.Errorf("%vx%v %s: frame %+v escapes viewport", size[0], size[1], r.Name, f)
			}
			if f.H > 0 && math.Abs(f.W/f.H-r.Value) > 1e-6 {
				t.Errorf("%vx%v %s: aspect %v, want %v", size[0], size[1], r.Name, f.W/f.H, r.Value)
			}
		}
	}
}

func TestClampToFrame(t *testing.T) {
	f := Frame{X: 10, Y: 20, W: 100, H: 50}
	tests := []struct {
		in, want Point
	}{
		{Point{50, 40}, Point{50, 40}},
		{Point{0, 0}, Point{10, 20}},
		{Point{500, 500}, Point{110, 70}},
		{Point{5, 60}, Point{10, 60}},
	}
	for _, tt := range tests {
		if got := ClampToFrame(tt.in, f); got != tt.want {
			t.Errorf("ClampToFrame(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFrameContainsEdges(t *testing.T) {
	f := Frame{X: 10, Y: 10, W: 10, H: 10}
	for _, p := range []Point{{10, 10}, {20, 20}, {15, 10}} {
		if !f.Contains(p) {
			t.Errorf("Contains(%v) = false, want true", p)
		}
	}
	for _, p := range []Point{{9.9, 15}, {15, 20.1}} {
		if f.Contains(p) {
			t.Errorf("Contains(%v) = true, want false", p)
		}
	}
}

func approxFrame(a, b Frame) bool {
	const eps = 1e-9
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps &&
		math.Abs(a.W-b.W) < eps && math.Abs(a.H-b.H) < eps &&
		math.Abs(a.Ratio-b.Ratio) < eps
}
