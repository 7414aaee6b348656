package overlay

import "testing"

func TestBuiltinRatios(t *testing.T) {
	table := BuiltinRatios()
	if _, ok := table.Lookup(DefaultRatioName); !ok {
		t.Fatalf("default ratio %q missing", DefaultRatioName)
	}
	r, ok := table.Lookup("16:9")
	if !ok || r.Value != 16.0/9.0 {
		t.Errorf("Lookup(16:9) = %+v, %v", r, ok)
	}
	if _, ok := table.Lookup("5:4"); ok {
		t.Error("Lookup(5:4) found an unregistered ratio")
	}
}

func TestRatioTableWith(t *testing.T) {
	base := BuiltinRatios()
	ext, err := base.With(Ratio{Name: "21:9", Value: 21.0 / 9.0}, Ratio{Name: "1:1", Value: 1.01})
	if err != nil {
		t.Fatalf("With: %v", err)
	}
	all := ext.All()
	if len(all) != len(base.All())+1 {
		t.Fatalf("len = %d, want %d", len(all), len(base.All())+1)
	}
	if all[0].Name != "1:1" || all[0].Value != 1.01 {
		t.Errorf("replaced entry moved or kept old value: %+v", all[0])
	}
	if all[len(all)-1].Name != "21:9" {
		t.Errorf("new entry not appended: %+v", all[len(all)-1])
	}
	if r, _ := base.Lookup("1:1"); r.Value != 1 {
		t.Error("With mutated the receiver")
	}

	if _, err := NewRatioTable(Ratio{Name: "bad", Value: 0}); err == nil {
		t.Error("expected error for non-positive value")
	}
	if _, err := NewRatioTable(Ratio{Value: 1}); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestParseRatio(t *testing.T) {
	tests := []struct {
		label   string
		want    float64
		wantErr bool
	}{
		{"16:9", 16.0 / 9.0, false},
		{" 4 : 5 ", 0.8, false},
		{"2.39:1", 2.39, false},
		{"16x9", 0, true},
		{"0:1", 0, true},
		{"a:b", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			r, err := ParseRatio(tt.label)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && r.Value != tt.want {
				t.Errorf("value = %v, want %v", r.Value, tt.want)
			}
		})
	}
}
