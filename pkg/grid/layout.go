package grid

import (
	"time"

	"github.com/matzehuels/flowgrid/pkg/observability"
)

// Layout is the computed rectangle for every item, index-aligned with the
// item indices. A Layout is immutable once built; any change to the item
// count, the viewport size, the track count or the orientation produces a new
// one.
type Layout struct {
	Orientation Orientation `json:"orientation" bson:"orientation"`
	Tracks      int         `json:"tracks" bson:"tracks"`
	Unit        int         `json:"unit" bson:"unit"`
	CrossExtent int         `json:"cross_extent" bson:"cross_extent"`
	Rects       []Rect      `json:"rects" bson:"rects"`
}

// BuildLayout packs count items sized by policy into a grid of cfg.Tracks
// tracks across a viewport of width x height pixels. A count of zero or less
// yields an empty layout without running the packer.
func BuildLayout(policy SizePolicy, count int, cfg Config, width, height int) *Layout {
	axis := AxisFor(cfg.Orientation)
	_, cross := axis.Extents(width, height)
	g := NewGeometry(cfg.Tracks, cross, cfg.Orientation)

	l := &Layout{
		Orientation: cfg.Orientation,
		Tracks:      cfg.Tracks,
		Unit:        g.Unit,
		CrossExtent: cross,
	}
	if count <= 0 {
		return l
	}

	hooks := observability.Layout()
	hooks.OnPackStart(count, cfg.Tracks)
	start := time.Now()

	specs := make([]ItemSizeSpec, count)
	for i := range specs {
		specs[i] = policy.Size(i)
	}
	l.Rects = Pack(specs, g)

	hooks.OnPackComplete(count, len(l.Unplaceable()), time.Since(start))
	return l
}

// Axis returns the coordinate mapping for the layout's orientation.
func (l *Layout) Axis() Axis { return AxisFor(l.Orientation) }

// Geometry reconstructs the track geometry the layout was packed with.
func (l *Layout) Geometry() Geometry {
	return Geometry{Tracks: l.Tracks, CrossExtent: l.CrossExtent, Unit: l.Unit, Axis: l.Axis()}
}

// Len returns the number of items.
func (l *Layout) Len() int { return len(l.Rects) }

// Rect returns the rectangle of item i.
func (l *Layout) Rect(i int) Rect { return l.Rects[i] }

// MainExtent returns the total content length along the main axis.
func (l *Layout) MainExtent() int {
	axis := l.Axis()
	var end int
	for _, r := range l.Rects {
		end = max(end, axis.MainEnd(r))
	}
	return end
}

// Unplaceable returns the indices whose items could not be placed.
func (l *Layout) Unplaceable() []int {
	var out []int
	for i, r := range l.Rects {
		if r.Degenerate() {
			out = append(out, i)
		}
	}
	return out
}

// Size returns the full content size in pixels as (width, height).
func (l *Layout) Size() (width, height int) {
	if l.Orientation == Horizontal {
		return l.MainExtent(), l.CrossExtent
	}
	return l.CrossExtent, l.MainExtent()
}
