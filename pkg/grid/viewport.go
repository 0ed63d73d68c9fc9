package grid

// Window returns the viewport rectangle in content coordinates for a scroll
// offset along the main axis.
func Window(axis Axis, offset, mainExtent, crossExtent int) Rect {
	return axis.Rect(0, offset, crossExtent, mainExtent)
}

// VisibleIndices returns, in ascending order, the items of l whose rectangle
// intersects the viewport [offset, offset+mainExtent) x [0, crossExtent).
// Unplaceable items never intersect.
//
// The scan is linear in the item count, which is fine for a few thousand
// items; larger data sets would want a spatial index over l.Rects.
func VisibleIndices(l *Layout, offset, mainExtent, crossExtent int) []int {
	if l == nil || l.Len() == 0 {
		return nil
	}
	vp := Window(l.Axis(), offset, mainExtent, crossExtent)
	var out []int
	for i, r := range l.Rects {
		if vp.Intersects(r) {
			out = append(out, i)
		}
	}
	return out
}
