package grid

import (
	"slices"
	"testing"
)

func TestVisibleIndices(t *testing.T) {
	l := BuildLayout(demoSizes, 31, Config{Tracks: 3}, 300, 250)

	tests := []struct {
		name   string
		offset int
		main   int
		want   []int
	}{
		{"top", 0, 250, []int{0, 1, 3}},
		{"edge touching is not visible", 0, 200, []int{0, 1}},
		{"middle", 450, 100, []int{4, 5, 6, 7, 8, 9}},
		{"bottom", 1050, 250, []int{22, 23, 24, 25, 26, 27, 28, 29, 30}},
		{"past content", 1300, 250, nil},
		{"zero extent", 100, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VisibleIndices(l, tt.offset, tt.main, 300)
			if !slices.Equal(got, tt.want) {
				t.Errorf("VisibleIndices() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVisibleIndicesMatchesPredicate(t *testing.T) {
	l := BuildLayout(demoSizes, 31, Config{Tracks: 3}, 300, 250)
	for offset := 0; offset <= 1100; offset += 37 {
		vp := Window(l.Axis(), offset, 250, 300)
		got := VisibleIndices(l, offset, 250, 300)
		for i, r := range l.Rects {
			want := !r.Degenerate() && r.Intersects(vp)
			if slices.Contains(got, i) != want {
				t.Errorf("offset %d: item %d %v visible=%v, want %v", offset, i, r, !want, want)
			}
		}
	}
}

func TestVisibleIndicesEmpty(t *testing.T) {
	if got := VisibleIndices(nil, 0, 100, 100); got != nil {
		t.Errorf("VisibleIndices(nil) = %v", got)
	}
	l := BuildLayout(demoSizes, 0, Config{Tracks: 3}, 300, 250)
	if got := VisibleIndices(l, 0, 100, 100); got != nil {
		t.Errorf("VisibleIndices(empty) = %v", got)
	}
}
