// Package presets loads the optional YAML file that extends the ratio picker
// and restyles the overlay.
package presets

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/viewfinder/viewfinder/internal/overlay"
)

// File is the on-disk layout:
//
//	defaultRatio: "3:2"
//	ratios:
//	  - name: "21:9"
//	  - name: "cinema"
//	    value: 2.39
//	style:
//	  selected: "#ff6600"
type File struct {
	DefaultRatio string          `yaml:"defaultRatio"`
	Ratios       []overlay.Ratio `yaml:"ratios"`
	Style        overlay.Style   `yaml:"style"`
}

// Presets is a resolved preset file ready to hand to the engine.
type Presets struct {
	Ratios       *overlay.RatioTable
	DefaultRatio string
	Style        overlay.Style
}

// Default returns the built-in presets.
func Default() Presets {
	return Presets{
		Ratios:       overlay.BuiltinRatios(),
		DefaultRatio: overlay.DefaultRatioName,
		Style:        overlay.DefaultStyle(),
	}
}

// Load reads presets from path. An empty path yields the defaults.
func Load(path string) (Presets, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Presets{}, fmt.Errorf("read presets: %w", err)
	}
	return Parse(data)
}

// Parse resolves a preset document. Ratios without a value are parsed from
// their "W:H" name; they extend the built-ins, replacing same-named entries.
func Parse(data []byte) (Presets, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Presets{}, fmt.Errorf("parse presets: %w", err)
	}

	extra := make([]overlay.Ratio, 0, len(f.Ratios))
	for _, r := range f.Ratios {
		if r.Value == 0 {
			parsed, err := overlay.ParseRatio(r.Name)
			if err != nil {
				return Presets{}, err
			}
			r.Value = parsed.Value
		}
		extra = append(extra, r)
	}

	table, err := overlay.BuiltinRatios().With(extra...)
	if err != nil {
		return Presets{}, fmt.Errorf("presets: %w", err)
	}

	p := Presets{
		Ratios:       table,
		DefaultRatio: overlay.DefaultRatioName,
		Style:        f.Style.Merge(overlay.DefaultStyle()),
	}
	if f.DefaultRatio != "" {
		if _, ok := table.Lookup(f.DefaultRatio); !ok {
			return Presets{}, fmt.Errorf("presets: default ratio %q is not defined", f.DefaultRatio)
		}
		p.DefaultRatio = f.DefaultRatio
	}
	return p, nil
}
