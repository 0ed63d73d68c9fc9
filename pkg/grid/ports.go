package grid

import (
	"context"

	"github.com/matzehuels/flowgrid/pkg/errors"
)

// ItemSizeSpec is the proportional size requested for one item, in track units.
// WidthUnits is the horizontal size and HeightUnits the vertical size,
// regardless of orientation.
type ItemSizeSpec struct {
	WidthUnits  int `json:"w" toml:"w"`
	HeightUnits int `json:"h" toml:"h"`
}

// Valid reports whether both units are positive.
func (s ItemSizeSpec) Valid() bool { return s.WidthUnits > 0 && s.HeightUnits > 0 }

// SizePolicy supplies the proportional size for each item index. It is queried
// once per item per full layout pass and must be stable within a pass.
type SizePolicy interface {
	Size(index int) ItemSizeSpec
}

// SizeFunc adapts a plain function to [SizePolicy].
type SizeFunc func(index int) ItemSizeSpec

// Size calls f(index).
func (f SizeFunc) Size(index int) ItemSizeSpec { return f(index) }

// Slot identifies a reusable rendering slot handed out by a [SlotPool].
type Slot int

// SlotPool supplies and reclaims rendering slots. The engine decides which
// indices need a slot; the pool owns what a slot actually is.
type SlotPool interface {
	// Acquire returns a slot ready to render the item at index.
	Acquire(index int) Slot
	// Release returns a slot to the pool. The slot may be handed out again.
	Release(s Slot)
	// MeasureAndPlace positions a bound slot at r, in viewport coordinates.
	MeasureAndPlace(s Slot, r Rect)
}

// Renotifier is implemented by pools that can redraw an item whose decorated
// size changed after it was first measured. The engine calls it at most once
// per index per full layout.
type Renotifier interface {
	Renotify(index int, s Slot)
}

// Animator interpolates a scroll over time. AnimateTo must call onTick with
// successive deltas whose sum is vector, on the same goroutine that owns the
// engine, and must stop once ctx is done.
type Animator interface {
	AnimateTo(ctx context.Context, vector int, onTick func(delta int))
}

// Config holds the values read once per layout trigger.
type Config struct {
	Tracks      int         `json:"tracks" toml:"tracks"`
	Orientation Orientation `json:"orientation" toml:"orientation"`
	BaseInset   int         `json:"inset" toml:"inset"`
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	if err := errors.ValidateTracks(c.Tracks); err != nil {
		return err
	}
	if err := errors.ValidateInset(c.BaseInset); err != nil {
		return err
	}
	if c.Orientation != Vertical && c.Orientation != Horizontal {
		return errors.New(errors.ErrCodeInvalidOrientation, "unknown orientation %d", int(c.Orientation))
	}
	return nil
}
