package grid

import (
	"strings"

	"github.com/matzehuels/flowgrid/pkg/errors"
)

// Orientation selects the main axis, the one along which content grows and
// scrolls.
type Orientation int

const (
	// Vertical flows items top to bottom; tracks are columns.
	Vertical Orientation = iota
	// Horizontal flows items left to right; tracks are rows.
	Horizontal
)

func (o Orientation) String() string {
	switch o {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	}
	return "unknown"
}

// ParseOrientation maps "vertical" or "horizontal" (any case) to an Orientation.
func ParseOrientation(s string) (Orientation, error) {
	if err := errors.ValidateOrientation(s); err != nil {
		return Vertical, err
	}
	if strings.EqualFold(s, "horizontal") {
		return Horizontal, nil
	}
	return Vertical, nil
}

// MarshalText implements encoding.TextMarshaler so configs and JSON payloads
// carry the orientation by name.
func (o Orientation) MarshalText() ([]byte, error) {
	if o != Vertical && o != Horizontal {
		return nil, errors.New(errors.ErrCodeInvalidOrientation, "unknown orientation %d", int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Orientation) UnmarshalText(b []byte) error {
	v, err := ParseOrientation(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Axis maps between (cross, main) layout coordinates and screen rectangles.
// The packer, the viewport tracker and the scroll controller only ever talk in
// main/cross terms; the axis is chosen once from the orientation.
type Axis interface {
	// Rect builds a screen rectangle from a cross-axis span and a main-axis span.
	Rect(crossStart, mainStart, crossLen, mainLen int) Rect
	MainStart(r Rect) int
	MainEnd(r Rect) int
	CrossStart(r Rect) int
	CrossEnd(r Rect) int
	// Units splits a proportional size into (cross span, main units).
	Units(s ItemSizeSpec) (cross, main int)
	// Extents splits a viewport size into (main, cross) extents.
	Extents(width, height int) (main, cross int)
	// Insets maps per-axis leading/trailing spacing to screen sides.
	Insets(crossLead, mainLead, crossTrail, mainTrail int) Insets
}

// AxisFor returns the axis mapping for o.
func AxisFor(o Orientation) Axis {
	if o == Horizontal {
		return horizontalAxis{}
	}
	return verticalAxis{}
}

type verticalAxis struct{}

func (verticalAxis) Rect(cs, ms, cl, ml int) Rect {
	return Rect{Left: cs, Top: ms, Right: cs + cl, Bottom: ms + ml}
}
func (verticalAxis) MainStart(r Rect) int  { return r.Top }
func (verticalAxis) MainEnd(r Rect) int    { return r.Bottom }
func (verticalAxis) CrossStart(r Rect) int { return r.Left }
func (verticalAxis) CrossEnd(r Rect) int   { return r.Right }
func (verticalAxis) Units(s ItemSizeSpec) (int, int) {
	return s.WidthUnits, s.HeightUnits
}
func (verticalAxis) Extents(w, h int) (int, int) { return h, w }
func (verticalAxis) Insets(cl, ml, ct, mt int) Insets {
	return Insets{Left: cl, Top: ml, Right: ct, Bottom: mt}
}

type horizontalAxis struct{}

func (horizontalAxis) Rect(cs, ms, cl, ml int) Rect {
	return Rect{Left: ms, Top: cs, Right: ms + ml, Bottom: cs + cl}
}
func (horizontalAxis) MainStart(r Rect) int  { return r.Left }
func (horizontalAxis) MainEnd(r Rect) int    { return r.Right }
func (horizontalAxis) CrossStart(r Rect) int { return r.Top }
func (horizontalAxis) CrossEnd(r Rect) int   { return r.Bottom }
func (horizontalAxis) Units(s ItemSizeSpec) (int, int) {
	return s.HeightUnits, s.WidthUnits
}
func (horizontalAxis) Extents(w, h int) (int, int) { return w, h }
func (horizontalAxis) Insets(cl, ml, ct, mt int) Insets {
	return Insets{Left: ml, Top: cl, Right: mt, Bottom: ct}
}
