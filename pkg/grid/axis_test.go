package grid

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/flowgrid/pkg/errors"
)

func TestParseOrientation(t *testing.T) {
	tests := []struct {
		in      string
		want    Orientation
		wantErr bool
	}{
		{"vertical", Vertical, false},
		{"Horizontal", Horizontal, false},
		{"HORIZONTAL", Horizontal, false},
		{"", Vertical, true},
		{"diagonal", Vertical, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOrientation(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOrientation(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidOrientation) {
				t.Errorf("error code = %v", errors.GetCode(err))
			}
			if got != tt.want {
				t.Errorf("ParseOrientation(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestOrientationJSON(t *testing.T) {
	b, err := json.Marshal(Config{Tracks: 2, Orientation: Horizontal, BaseInset: 4})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(b), `{"tracks":2,"orientation":"horizontal","inset":4}`; got != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}

	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Orientation != Horizontal {
		t.Errorf("Orientation = %v, want horizontal", cfg.Orientation)
	}
	if err := json.Unmarshal([]byte(`{"orientation":"sideways"}`), &cfg); err == nil {
		t.Error("Unmarshal(sideways) succeeded")
	}
}

func TestAxisRoundTrip(t *testing.T) {
	for _, o := range []Orientation{Vertical, Horizontal} {
		a := AxisFor(o)
		r := a.Rect(10, 20, 30, 40)
		if a.CrossStart(r) != 10 || a.MainStart(r) != 20 || a.CrossEnd(r) != 40 || a.MainEnd(r) != 60 {
			t.Errorf("%v: axis accessors disagree with Rect(): %v", o, r)
		}
	}
	if m, c := AxisFor(Vertical).Extents(300, 500); m != 500 || c != 300 {
		t.Errorf("vertical Extents = (%d, %d)", m, c)
	}
	if m, c := AxisFor(Horizontal).Extents(300, 500); m != 300 || c != 500 {
		t.Errorf("horizontal Extents = (%d, %d)", m, c)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		code errors.Code
	}{
		{"valid", Config{Tracks: 3}, ""},
		{"zero tracks", Config{Tracks: 0}, errors.ErrCodeInvalidConfig},
		{"negative tracks", Config{Tracks: -2}, errors.ErrCodeInvalidConfig},
		{"negative inset", Config{Tracks: 1, BaseInset: -1}, errors.ErrCodeInvalidConfig},
		{"bad orientation", Config{Tracks: 1, Orientation: 7}, errors.ErrCodeInvalidOrientation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.code == "" {
				if err != nil {
					t.Errorf("Validate() = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want code %v", err, tt.code)
			}
		})
	}
}
