package grid

import "math"

// Geometry fixes the track grid for one layout pass.
//
// Unit is the pixel size of one track (CrossExtent / Tracks, truncated). The
// truncation remainder is given to track 0 so the tracks always fill the cross
// extent exactly: track 0 is Unit+Remainder wide and every later track starts
// Remainder pixels further along.
type Geometry struct {
	Tracks      int
	CrossExtent int
	Unit        int
	Axis        Axis
}

// NewGeometry derives the track unit from the available cross-axis extent.
// tracks must be positive.
func NewGeometry(tracks, crossExtent int, o Orientation) Geometry {
	return Geometry{
		Tracks:      tracks,
		CrossExtent: crossExtent,
		Unit:        crossExtent / tracks,
		Axis:        AxisFor(o),
	}
}

// Remainder is the part of the cross extent lost to integer division.
func (g Geometry) Remainder() int { return g.CrossExtent - g.Tracks*g.Unit }

// TrackStart returns the cross-axis pixel position where track c begins.
func (g Geometry) TrackStart(c int) int {
	if c == 0 {
		return 0
	}
	return c*g.Unit + g.Remainder()
}

// SpanLength returns the cross-axis pixel length of span tracks starting at c.
// A span pivoting on track 0 is stretched by the remainder.
func (g Geometry) SpanLength(c, span int) int {
	l := span * g.Unit
	if c == 0 {
		l += g.Remainder()
	}
	return l
}

// Packer places items one at a time against a skyline.
// A Packer is not safe for concurrent use.
type Packer struct {
	geom Geometry
	sky  *Skyline
}

// NewPacker returns a packer with an empty skyline.
func NewPacker(g Geometry) *Packer {
	return &Packer{geom: g, sky: NewSkyline(g.Tracks)}
}

// Skyline exposes the packer's occupancy model.
func (p *Packer) Skyline() *Skyline { return p.sky }

// Place assigns a rectangle to the next item. It returns the zero Rect and
// false when the item cannot be placed: its span exceeds the track count, its
// units are not positive, its main-axis end would overflow an int, or the
// viewport is narrower than one track per lane.
func (p *Packer) Place(spec ItemSizeSpec) (Rect, bool) {
	if p.geom.Unit <= 0 || !spec.Valid() {
		return Rect{}, false
	}
	span, mainUnits := p.geom.Axis.Units(spec)
	track, row, ok := findGap(p.sky, span)
	if !ok || mainUnits > (math.MaxInt-row)/p.geom.Unit {
		return Rect{}, false
	}
	length := mainUnits * p.geom.Unit
	p.sky.Commit(track, span, row+length)
	return p.geom.Axis.Rect(
		p.geom.TrackStart(track), row,
		p.geom.SpanLength(track, span), length,
	), true
}

// Pack lays out specs in order, one rectangle per spec. Unplaceable items get
// the zero Rect and do not stop the pass.
func Pack(specs []ItemSizeSpec, g Geometry) []Rect {
	if len(specs) == 0 {
		return nil
	}
	p := NewPacker(g)
	rects := make([]Rect, len(specs))
	for i, s := range specs {
		rects[i], _ = p.Place(s)
	}
	return rects
}

// findGap returns the pivot for an item spanning span tracks: the lowest row
// at which span contiguous tracks are all filled no further than that row,
// and the leftmost such track at that row.
//
// Scanning rows upward from the skyline floor and tracks left to right stops
// at the first window whose highest track is at or below the row, so the
// answer is the smallest window maximum with ties going left. Windows never
// extend past the last track.
func findGap(sky *Skyline, span int) (track, row int, ok bool) {
	n := sky.Tracks()
	if span < 1 || span > n {
		return 0, 0, false
	}
	track = -1
	for c := 0; c+span <= n; c++ {
		if m := sky.MaxExtent(c, span); track < 0 || m < row {
			track, row = c, m
		}
	}
	return track, row, true
}
