package pipeline

import (
	"encoding/json"

	"github.com/matzehuels/flowgrid/pkg/grid"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout packs specs with the grid options. Sizes are taken from the
// already evaluated list so the layout matches its cache key exactly.
func GenerateLayout(specs []grid.ItemSizeSpec, opts Options) (*grid.Layout, error) {
	cfg, err := opts.GridConfig()
	if err != nil {
		return nil, err
	}
	policy := grid.SizeFunc(func(i int) grid.ItemSizeSpec { return specs[i] })
	return grid.BuildLayout(policy, len(specs), cfg, opts.Width, opts.Height), nil
}

// MarshalLayout serializes a layout for caching.
func MarshalLayout(l *grid.Layout) ([]byte, error) {
	return json.Marshal(l)
}

// UnmarshalLayout restores a cached layout.
func UnmarshalLayout(data []byte) (*grid.Layout, error) {
	var l grid.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// =============================================================================
// View
// =============================================================================

// ComputeView runs a headless engine with the option's sizes and applies the
// requested scroll: a jump to ScrollTo if set, otherwise a scroll by Offset
// from the start. An invalid ScrollTo is reported as an error and leaves the
// view at the start.
func ComputeView(opts Options) (View, error) {
	cfg, err := opts.GridConfig()
	if err != nil {
		return View{}, err
	}
	eng, err := grid.New(cfg, opts.SizePolicy(), grid.WithLogger(opts.Logger))
	if err != nil {
		return View{}, err
	}
	eng.SetItemCount(opts.Count)
	eng.SetViewport(opts.Width, opts.Height)
	if err := eng.Layout(); err != nil {
		return View{}, err
	}

	if opts.ScrollTo != nil {
		if _, err := eng.ScrollToIndex(*opts.ScrollTo); err != nil {
			return snapshot(eng, opts), err
		}
	} else if opts.Offset > 0 {
		eng.ScrollBy(opts.Offset)
	}
	return snapshot(eng, opts), nil
}

func snapshot(eng *grid.Engine, opts Options) View {
	v := View{
		Offset:     eng.Offset(),
		CanScroll:  eng.CanScroll(),
		Visible:    eng.Visible(),
		Placements: make(map[int]grid.Rect),
	}
	main, _ := grid.AxisFor(eng.Config().Orientation).Extents(opts.Width, opts.Height)
	v.MaxOffset = grid.MaxOffset(eng.ContentExtent(), main)
	if v.Visible == nil {
		v.Visible = []int{}
	}
	for _, i := range v.Visible {
		if r, ok := eng.Placement(i); ok {
			v.Placements[i] = r
		}
		if in, err := eng.Insets(i); err == nil && !in.Zero() {
			if v.Insets == nil {
				v.Insets = make(map[int]grid.Insets)
			}
			v.Insets[i] = in
		}
	}
	return v
}
