package overlay

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultRatioName is the ratio a new session starts with.
const DefaultRatioName = "4:3"

// Ratio is a named target aspect ratio (width / height).
type Ratio struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
}

var builtinRatios = []Ratio{
	{Name: "1:1", Value: 1},
	{Name: "4:5", Value: 4.0 / 5.0},
	{Name: "3:4", Value: 3.0 / 4.0},
	{Name: "2:3", Value: 2.0 / 3.0},
	{Name: "9:16", Value: 9.0 / 16.0},
	{Name: "4:3", Value: 4.0 / 3.0},
	{Name: "3:2", Value: 3.0 / 2.0},
	{Name: "16:9", Value: 16.0 / 9.0},
}

// RatioTable is an ordered lookup of named ratios.
type RatioTable struct {
	order  []Ratio
	byName map[string]Ratio
}

// BuiltinRatios returns a table holding the built-in ratios.
func BuiltinRatios() *RatioTable {
	t, _ := NewRatioTable(builtinRatios...)
	return t
}

// NewRatioTable builds a table from ratios. A later entry replaces an earlier
// one with the same name in place. Entries with an empty name or a
// non-positive value are rejected.
func NewRatioTable(ratios ...Ratio) (*RatioTable, error) {
	t := &RatioTable{byName: make(map[string]Ratio, len(ratios))}
	for _, r := range ratios {
		if err := t.add(r); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// With returns a copy of the table extended by ratios.
func (t *RatioTable) With(ratios ...Ratio) (*RatioTable, error) {
	return NewRatioTable(append(t.All(), ratios...)...)
}

func (t *RatioTable) add(r Ratio) error {
	if r.Name == "" {
		return errors.New("ratio has no name")
	}
	if !(r.Value > 0) {
		return fmt.Errorf("ratio %q: value must be positive", r.Name)
	}
	if _, ok := t.byName[r.Name]; ok {
		for i := range t.order {
			if t.order[i].Name == r.Name {
				t.order[i] = r
			}
		}
	} else {
		t.order = append(t.order, r)
	}
	t.byName[r.Name] = r
	return nil
}

// Lookup returns the ratio registered under name.
func (t *RatioTable) Lookup(name string) (Ratio, bool) {
	r, ok := t.byName[name]
	return r, ok
}

// All returns the ratios in registration order.
func (t *RatioTable) All() []Ratio {
	out := make([]Ratio, len(t.order))
	copy(out, t.order)
	return out
}

// ParseRatio reads a "W:H" label into a ratio, e.g. "16:9".
func ParseRatio(label string) (Ratio, error) {
	w, h, ok := strings.Cut(label, ":")
	if !ok {
		return Ratio{}, fmt.Errorf("ratio %q: expected W:H", label)
	}
	wv, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
	if err != nil {
		return Ratio{}, fmt.Errorf("ratio %q: width: %w", label, err)
	}
	hv, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
	if err != nil {
		return Ratio{}, fmt.Errorf("ratio %q: height: %w", label, err)
	}
	if !(wv > 0) || !(hv > 0) {
		return Ratio{}, fmt.Errorf("ratio %q: sides must be positive", label)
	}
	return Ratio{Name: label, Value: wv / hv}, nil
}
