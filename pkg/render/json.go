package render

import (
	"encoding/json"

	"github.com/matzehuels/flowgrid/pkg/grid"
)

type jsonOutput struct {
	Orientation string        `json:"orientation"`
	Tracks      int           `json:"tracks"`
	Unit        int           `json:"unit"`
	Width       int           `json:"width"`
	Height      int           `json:"height"`
	Items       []jsonItem    `json:"items"`
	Unplaceable []int         `json:"unplaceable,omitempty"`
	Viewport    *jsonViewport `json:"viewport,omitempty"`
}

type jsonItem struct {
	Index  int          `json:"index"`
	Rect   grid.Rect    `json:"rect"`
	Insets *grid.Insets `json:"insets,omitempty"`
}

type jsonViewport struct {
	Offset  int       `json:"offset"`
	Extent  int       `json:"extent"`
	Window  grid.Rect `json:"window"`
	Visible []int     `json:"visible"`
}

// RenderJSON describes the placed items, their insets and the viewport as
// indented JSON.
func RenderJSON(l *grid.Layout, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	w, h := l.Size()
	out := jsonOutput{
		Orientation: l.Orientation.String(),
		Tracks:      l.Tracks,
		Unit:        l.Unit,
		Width:       w,
		Height:      h,
		Items:       []jsonItem{},
		Unplaceable: l.Unplaceable(),
	}
	for i, r := range l.Rects {
		if r.Degenerate() {
			continue
		}
		item := jsonItem{Index: i, Rect: r}
		if in := o.insetsFor(l, r); !in.Zero() {
			item.Insets = &in
		}
		out.Items = append(out.Items, item)
	}
	if o.viewport != nil {
		visible := grid.VisibleIndices(l, o.viewport.offset, o.viewport.extent, l.CrossExtent)
		if visible == nil {
			visible = []int{}
		}
		out.Viewport = &jsonViewport{
			Offset:  o.viewport.offset,
			Extent:  o.viewport.extent,
			Window:  grid.Window(l.Axis(), o.viewport.offset, o.viewport.extent, l.CrossExtent),
			Visible: visible,
		}
	}
	return json.MarshalIndent(out, "", "  ")
}
