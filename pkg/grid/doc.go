// Package grid packs proportionally sized items into a fixed number of
// equal-width tracks and manages a scrolling viewport over the result.
//
// # Packing
//
// Each item asks for a size in track units through a [SizePolicy]. The
// [Packer] keeps a [Skyline], the filled-to extent of every track along the
// main axis, and places each item, in index order, at the lowest row where
// enough contiguous tracks are free, choosing the leftmost window on ties.
// The pixel size of one unit is the cross-axis extent divided by the track
// count; the truncation remainder is added to track 0 so the tracks fill the
// viewport exactly. Items that cannot fit get the zero [Rect] and are never
// shown.
//
// The packer works in (cross, main) coordinates. An [Axis] maps those to
// screen rectangles, so a [Horizontal] grid is the same computation with the
// axes swapped.
//
// # Viewport
//
// An [Engine] owns one [Layout] at a time and rebuilds it when the item count,
// the viewport size, the track count or the orientation changes. Scrolling
// never rebuilds; it moves the offset, recomputes the visible set and syncs
// slot bindings through a [Recycler] so that exactly the visible items hold a
// [Slot] from the host's [SlotPool].
//
//	eng, err := grid.New(grid.Config{Tracks: 3}, sizes, grid.WithPool(pool))
//	if err != nil {
//	    return err
//	}
//	eng.SetItemCount(31)
//	eng.SetViewport(300, 600)
//	_ = eng.Layout()
//	eng.ScrollBy(120)
//	_, _ = eng.ScrollToIndex(30)
//
// Smooth scrolling is delegated to an [Animator]; the engine supplies only the
// distance to travel and cancels the animation when another scroll arrives.
//
// An Engine is not safe for concurrent use.
package grid
