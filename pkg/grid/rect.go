package grid

import "fmt"

// Rect is an integer pixel rectangle. Left and Top are inclusive, Right and
// Bottom exclusive. The zero Rect marks an item that could not be placed.
type Rect struct {
	Left   int `json:"left" bson:"left"`
	Top    int `json:"top" bson:"top"`
	Right  int `json:"right" bson:"right"`
	Bottom int `json:"bottom" bson:"bottom"`
}

// Width returns the horizontal span of the rectangle.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns the vertical span of the rectangle.
func (r Rect) Height() int { return r.Bottom - r.Top }

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool { return r.Right <= r.Left || r.Bottom <= r.Top }

// Degenerate reports whether r is the unplaceable placeholder (0,0,0,0).
func (r Rect) Degenerate() bool { return r == Rect{} }

// Intersects reports whether r and o share at least one pixel.
// Both rectangles are treated as half-open, so touching edges do not intersect
// and an empty rectangle intersects nothing.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.Left < o.Right && o.Left < r.Right &&
		r.Top < o.Bottom && o.Top < r.Bottom
}

// Contains reports whether o lies entirely within r.
func (r Rect) Contains(o Rect) bool {
	return o.Left >= r.Left && o.Right <= r.Right &&
		o.Top >= r.Top && o.Bottom <= r.Bottom
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.Left, r.Top, r.Right, r.Bottom)
}
