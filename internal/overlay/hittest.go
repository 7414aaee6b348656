package overlay

// HitThreshold is the pixel distance within which a pointer touches a
// line body or an endpoint.
const HitThreshold = 18.0

// HitKind says which part of a line was hit.
type HitKind int

const (
	HitEndpoint HitKind = iota + 1
	HitLine
)

func (k HitKind) String() string {
	switch k {
	case HitEndpoint:
		return "endpoint"
	case HitLine:
		return "line"
	default:
		return "none"
	}
}

// MarshalText encodes the kind by name.
func (k HitKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Hit identifies the line under the pointer. Which is 1 or 2 for endpoint
// hits and 0 otherwise.
type Hit struct {
	Index int     `json:"index"`
	Kind  HitKind `json:"kind"`
	Which int     `json:"which,omitempty"`
}

// FindHit returns the line under p. Endpoints of angle lines are scanned
// first across the whole collection, so an endpoint anywhere beats any line
// body. Within a pass the lowest index wins. Dots are never hit.
func FindHit(p Point, lines []Line, frame Frame) (Hit, bool) {
	for i, l := range lines {
		a, ok := l.(AngleLine)
		if !ok {
			continue
		}
		if p.Distance(a.P1) < HitThreshold {
			return Hit{Index: i, Kind: HitEndpoint, Which: 1}, true
		}
		if p.Distance(a.P2) < HitThreshold {
			return Hit{Index: i, Kind: HitEndpoint, Which: 2}, true
		}
	}

	for i, l := range lines {
		if lineBodyHit(p, l, frame) {
			return Hit{Index: i, Kind: HitLine}, true
		}
	}

	return Hit{}, false
}

func lineBodyHit(p Point, l Line, frame Frame) bool {
	switch l := l.(type) {
	case AxisLine:
		if l.Axis == Vertical {
			return abs(p.X-l.Offset) < HitThreshold &&
				p.Y >= frame.Y && p.Y <= frame.Bottom()
		}
		return abs(p.Y-l.Offset) < HitThreshold &&
			p.X >= frame.X && p.X <= frame.Right()
	case AngleLine:
		return DistanceToSegment(p, l.P1, l.P2) < HitThreshold
	}
	return false
}

// DistanceToSegment returns the distance from p to the segment a-b. A
// zero-length segment measures to a.
func DistanceToSegment(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.Distance(a)
	}

	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = clamp(t, 0, 1)

	return p.Distance(Point{X: a.X + t*dx, Y: a.Y + t*dy})
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
