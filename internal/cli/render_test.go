package cli

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/flowgrid/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,dot,png", []string{"svg", "dot", "png"}},
		{"pdf only", "pdf", []string{"pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, parseFormats(tt.input)); diff != "" {
				t.Errorf("parseFormats(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestValidFormatsMap(t *testing.T) {
	for _, f := range []string{"svg", "json", "dot", "png", "pdf"} {
		if !pipeline.ValidFormats[f] {
			t.Errorf("ValidFormats[%q] = false, want true", f)
		}
	}
	if pipeline.ValidFormats["invalid"] {
		t.Error("ValidFormats[invalid] should be false")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		format  string
		formats int
		want    string
	}{
		{"default name", "", "svg", 1, "flowgrid.svg"},
		{"default name several", "", "png", 2, "flowgrid.png"},
		{"single format as given", "out/grid.svg", "svg", 1, "out/grid.svg"},
		{"single format odd extension", "grid.image", "png", 1, "grid.image"},
		{"base name", "out/grid", "pdf", 2, "out/grid.pdf"},
		{"known extension stripped", "out/grid.svg", "json", 2, "out/grid.json"},
		{"unknown extension kept", "grid.v2", "dot", 3, "grid.v2.dot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.output, tt.format, tt.formats); got != tt.want {
				t.Errorf("outputPath(%q, %q, %d) = %q, want %q", tt.output, tt.format, tt.formats, got, tt.want)
			}
		})
	}
}

func TestGridFlagsApply(t *testing.T) {
	f := gridFlags{tracks: 4, orientation: "horizontal", width: 640, count: 9}
	set := map[string]bool{"tracks": true, "orientation": true, "count": true}
	opts := pipeline.Options{Tracks: 3, Orientation: "vertical", Width: 300, Height: 600, Count: 31}

	if err := f.apply(&opts, func(name string) bool { return set[name] }); err != nil {
		t.Fatal(err)
	}
	if opts.Tracks != 4 || opts.Orientation != "horizontal" || opts.Count != 9 {
		t.Errorf("flags not applied: %+v", opts)
	}
	if opts.Width != 300 || opts.Height != 600 {
		t.Errorf("unset flags changed the viewport to %dx%d", opts.Width, opts.Height)
	}
}

func TestGridFlagsMissingSizeFile(t *testing.T) {
	f := gridFlags{sizeFile: "does-not-exist.toml"}
	var opts pipeline.Options
	if err := f.apply(&opts, func(string) bool { return false }); err == nil {
		t.Error("missing size file was accepted")
	}
}
