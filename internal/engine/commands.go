package engine

import (
	"encoding/json"

	"github.com/viewfinder/viewfinder/internal/overlay"
)

// HitTestResult is the JSON form of a hit test answer.
type HitTestResult struct {
	Index int    `json:"index"`
	Kind  string `json:"kind"`
	Which int    `json:"which,omitempty"`
}

// HitToJSON serializes a hit.
func HitToJSON(h overlay.Hit) string {
	data, _ := json.Marshal(HitTestResult{
		Index: h.Index,
		Kind:  h.Kind.String(),
		Which: h.Which,
	})
	return string(data)
}

// RatioOption is one entry of the ratio picker.
type RatioOption struct {
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Selected bool    `json:"selected"`
}

// RatiosToJSON serializes the ratio picker, flagging the active ratio.
func RatiosToJSON(ratios []overlay.Ratio, active string) string {
	opts := make([]RatioOption, len(ratios))
	for i, r := range ratios {
		opts[i] = RatioOption{Name: r.Name, Value: r.Value, Selected: r.Name == active}
	}
	data, _ := json.Marshal(opts)
	return string(data)
}
