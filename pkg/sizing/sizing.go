// Package sizing provides [grid.SizePolicy] implementations and loads them
// from TOML or JSON size files.
//
// A policy resolves an index in three steps: an explicit per-index entry
// wins, then the pattern (optionally repeating), then the default size.
//
//	default = { w = 1, h = 1 }
//	pattern = [ { w = 1, h = 1 }, { w = 2, h = 2 }, { w = 4, h = 1 }, { w = 3, h = 2 } ]
//
//	[[item]]
//	index = 12
//	w = 3
//	h = 1
package sizing

import (
	"github.com/matzehuels/flowgrid/pkg/grid"
)

// Unit is the 1x1 size.
var Unit = grid.ItemSizeSpec{WidthUnits: 1, HeightUnits: 1}

// Fixed gives every item the same size.
type Fixed grid.ItemSizeSpec

// Size implements grid.SizePolicy.
func (f Fixed) Size(int) grid.ItemSizeSpec { return grid.ItemSizeSpec(f) }

// Pattern sizes the first len(Specs) items from Specs and every later item
// from Default. With Repeat set the pattern cycles instead.
type Pattern struct {
	Specs   []grid.ItemSizeSpec
	Default grid.ItemSizeSpec
	Repeat  bool
}

// Size implements grid.SizePolicy.
func (p Pattern) Size(i int) grid.ItemSizeSpec {
	if i < 0 {
		return p.Default
	}
	n := len(p.Specs)
	switch {
	case n == 0:
		return p.Default
	case i < n:
		return p.Specs[i]
	case p.Repeat:
		return p.Specs[i%n]
	}
	return p.Default
}

// Table overrides individual indices on top of a fallback policy.
type Table struct {
	Items    map[int]grid.ItemSizeSpec
	Fallback grid.SizePolicy
}

// Size implements grid.SizePolicy.
func (t Table) Size(i int) grid.ItemSizeSpec {
	if s, ok := t.Items[i]; ok {
		return s
	}
	if t.Fallback == nil {
		return Unit
	}
	return t.Fallback.Size(i)
}

// Demo is the sample sequence (1,1), (2,2), (4,1), (3,2) followed by 1x1
// items. On three tracks the third item is wider than the grid and is never
// placed.
func Demo() Pattern {
	return Pattern{
		Specs: []grid.ItemSizeSpec{
			{WidthUnits: 1, HeightUnits: 1},
			{WidthUnits: 2, HeightUnits: 2},
			{WidthUnits: 4, HeightUnits: 1},
			{WidthUnits: 3, HeightUnits: 2},
		},
		Default: Unit,
	}
}

// Specs evaluates p for indices [0, n).
func Specs(p grid.SizePolicy, n int) []grid.ItemSizeSpec {
	if n <= 0 {
		return nil
	}
	out := make([]grid.ItemSizeSpec, n)
	for i := range out {
		out[i] = p.Size(i)
	}
	return out
}
