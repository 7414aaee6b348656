package presets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/viewfinder/viewfinder/internal/overlay"
)

func TestParse(t *testing.T) {
	doc := `
defaultRatio: cinema
ratios:
  - name: "21:9"
  - name: cinema
    value: 2.39
  - name: "1:1"
    value: 1.05
style:
  selected: "#ff6600"
  lineWidth: 4
`
	p, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.DefaultRatio != "cinema" {
		t.Errorf("default = %q", p.DefaultRatio)
	}
	if r, ok := p.Ratios.Lookup("21:9"); !ok || r.Value != 21.0/9.0 {
		t.Errorf("21:9 = %+v, %v", r, ok)
	}
	if r, _ := p.Ratios.Lookup("1:1"); r.Value != 1.05 {
		t.Errorf("1:1 override = %v", r.Value)
	}
	if n := len(p.Ratios.All()); n != len(overlay.BuiltinRatios().All())+2 {
		t.Errorf("ratio count = %d", n)
	}
	if p.Style.Selected != "#ff6600" || p.Style.LineWidth != 4 {
		t.Errorf("style overrides lost: %+v", p.Style)
	}
	if p.Style.Guide != overlay.DefaultStyle().Guide {
		t.Errorf("style defaults lost: %+v", p.Style)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad yaml", "ratios: [:"},
		{"unparsable ratio name", "ratios:\n  - name: wide\n"},
		{"negative value", "ratios:\n  - name: odd\n    value: -1\n"},
		{"undefined default", "defaultRatio: \"5:7\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	p, err := Load("")
	if err != nil || p.DefaultRatio != overlay.DefaultRatioName {
		t.Fatalf("Load(\"\") = %+v, %v", p, err)
	}

	path := filepath.Join(t.TempDir(), "presets.yaml")
	if err := os.WriteFile(path, []byte("defaultRatio: \"16:9\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err = Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.DefaultRatio != "16:9" {
		t.Errorf("default = %q", p.DefaultRatio)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
