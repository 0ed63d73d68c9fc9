package render

import "github.com/matzehuels/flowgrid/pkg/grid"

// Option configures a renderer.
type Option func(*options)

type options struct {
	inset    int
	viewport *viewport
	labels   bool
}

type viewport struct {
	offset int
	extent int
}

// WithInsets shrinks each item by the decoration insets derived from base.
func WithInsets(base int) Option { return func(o *options) { o.inset = max(base, 0) } }

// WithViewport marks the window [offset, offset+extent) along the main axis
// and highlights the items it intersects.
func WithViewport(offset, extent int) Option {
	return func(o *options) { o.viewport = &viewport{offset: offset, extent: extent} }
}

// WithLabels prints each item's index.
func WithLabels() Option { return func(o *options) { o.labels = true } }

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// decorated returns item i's rectangle after insets.
func (o options) decorated(l *grid.Layout, i int) grid.Rect {
	r := l.Rect(i)
	return o.insetsFor(l, r).Apply(r)
}

func (o options) insetsFor(l *grid.Layout, r grid.Rect) grid.Insets {
	if o.inset == 0 {
		return grid.Insets{}
	}
	return grid.ComputeInsets(l.Axis(), r, o.inset, l.CrossExtent, l.MainExtent())
}

// visible returns the set of items inside the viewport, or nil without one.
func (o options) visible(l *grid.Layout) map[int]bool {
	if o.viewport == nil {
		return nil
	}
	set := make(map[int]bool)
	for _, i := range grid.VisibleIndices(l, o.viewport.offset, o.viewport.extent, l.CrossExtent) {
		set[i] = true
	}
	return set
}

// palette cycles fill colors by item index.
var palette = []string{"#4e79a7", "#f28e2b", "#59a14f", "#b07aa1", "#76b7b2", "#edc948", "#ff9da7", "#9c755f"}

func fill(i int) string { return palette[i%len(palette)] }
