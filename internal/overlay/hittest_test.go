package overlay

import (
	"math"
	"testing"
)

var testFrame = Frame{X: 124, Y: 24, W: 552, H: 552, Ratio: 1}

func TestFindHit(t *testing.T) {
	lines := []Line{
		AxisLine{Axis: Vertical, Offset: 300},
		AngleLine{P1: Point{305, 100}, P2: Point{500, 100}},
		AxisLine{Axis: Horizontal, Offset: 400},
	}

	tests := []struct {
		name  string
		p     Point
		want  Hit
		found bool
	}{
		{"vertical body", Point{310, 300}, Hit{Index: 0, Kind: HitLine}, true},
		{"endpoint beats earlier body", Point{300, 100}, Hit{Index: 1, Kind: HitEndpoint, Which: 1}, true},
		{"second endpoint", Point{495, 95}, Hit{Index: 1, Kind: HitEndpoint, Which: 2}, true},
		{"angle body", Point{400, 110}, Hit{Index: 1, Kind: HitLine}, true},
		{"horizontal body", Point{600, 390}, Hit{Index: 2, Kind: HitLine}, true},
		{"lowest index wins", Point{300, 400}, Hit{Index: 0, Kind: HitLine}, true},
		{"threshold is exclusive", Point{318, 300}, Hit{}, false},
		{"just inside threshold", Point{317.9, 300}, Hit{Index: 0, Kind: HitLine}, true},
		{"outside vertical span", Point{300, 10}, Hit{}, false},
		{"empty space", Point{600, 250}, Hit{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindHit(tt.p, lines, testFrame)
			if ok != tt.found || got != tt.want {
				t.Errorf("FindHit(%v) = %+v, %v; want %+v, %v", tt.p, got, ok, tt.want, tt.found)
			}
			again, _ := FindHit(tt.p, lines, testFrame)
			if again != got {
				t.Errorf("FindHit not idempotent: %+v then %+v", got, again)
			}
		})
	}
}

func TestFindHitOverlappingEndpoints(t *testing.T) {
	lines := []Line{
		AngleLine{P1: Point{200, 200}, P2: Point{400, 200}},
		AngleLine{P1: Point{205, 205}, P2: Point{395, 195}},
		AngleLine{P1: Point{210, 400}, P2: Point{400, 205}},
	}

	tests := []struct {
		name string
		p    Point
		want Hit
	}{
		{"first line's first endpoint", Point{203, 203}, Hit{Index: 0, Kind: HitEndpoint, Which: 1}},
		{"first line's second endpoint", Point{398, 200}, Hit{Index: 0, Kind: HitEndpoint, Which: 2}},
		{"later line once earlier ones are out of reach", Point{200, 400}, Hit{Index: 2, Kind: HitEndpoint, Which: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindHit(tt.p, lines, testFrame)
			if !ok || got != tt.want {
				t.Errorf("FindHit(%v) = %+v, %v; want %+v", tt.p, got, ok, tt.want)
			}
		})
	}
}

func TestFindHitIgnoresDotsAndEmpty(t *testing.T) {
	if _, ok := FindHit(Point{200, 200}, nil, testFrame); ok {
		t.Error("hit with no lines")
	}
}

func TestDistanceToSegment(t *testing.T) {
	tests := []struct {
		name    string
		p, a, b Point
		want    float64
	}{
		{"perpendicular", Point{5, 5}, Point{0, 0}, Point{10, 0}, 5},
		{"before start", Point{-3, 4}, Point{0, 0}, Point{10, 0}, 5},
		{"past end", Point{13, 4}, Point{0, 0}, Point{10, 0}, 5},
		{"degenerate", Point{3, 4}, Point{0, 0}, Point{0, 0}, 5},
		{"on segment", Point{2, 2}, Point{0, 0}, Point{4, 4}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DistanceToSegment(tt.p, tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
