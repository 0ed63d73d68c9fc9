package grid

// Insets is the spacing removed from each side of an item's rectangle.
type Insets struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Zero reports whether no side is inset.
func (in Insets) Zero() bool { return in == Insets{} }

// Apply shrinks r by the insets. Degenerate rectangles are returned unchanged.
func (in Insets) Apply(r Rect) Rect {
	if r.Degenerate() {
		return r
	}
	return Rect{
		Left:   r.Left + in.Left,
		Top:    r.Top + in.Top,
		Right:  r.Right - in.Right,
		Bottom: r.Bottom - in.Bottom,
	}
}

// ComputeInsets derives the insets of r inside a grid whose cross axis spans
// [0, crossExtent) and whose content ends at mainExtent. Edges on the outer
// boundary get no inset; interior edges get half of base, so two abutting
// items are separated by one full base inset.
func ComputeInsets(axis Axis, r Rect, base, crossExtent, mainExtent int) Insets {
	if r.Degenerate() {
		return Insets{}
	}
	half := base / 2
	edge := func(outer bool) int {
		if outer {
			return 0
		}
		return half
	}

	crossLead := edge(axis.CrossStart(r) <= 0)
	crossTrail := edge(axis.CrossEnd(r) >= crossExtent)
	mainLead := edge(axis.MainStart(r) <= 0)
	mainTrail := edge(axis.MainEnd(r) >= mainExtent)

	return axis.Insets(crossLead, mainLead, crossTrail, mainTrail)
}
