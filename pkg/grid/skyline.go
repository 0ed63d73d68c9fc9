package grid

// Skyline tracks how far each track is filled along the main axis.
// It is owned by a single packing pass and mutated in place.
type Skyline struct {
	occupancy []int
}

// NewSkyline returns an empty skyline with the given number of tracks.
func NewSkyline(tracks int) *Skyline {
	return &Skyline{occupancy: make([]int, tracks)}
}

// Tracks returns the number of tracks.
func (s *Skyline) Tracks() int { return len(s.occupancy) }

// At returns the filled-to extent of track i.
func (s *Skyline) At(i int) int { return s.occupancy[i] }

// MaxExtent returns the highest occupancy over [start, start+span).
func (s *Skyline) MaxExtent(start, span int) int {
	m := s.occupancy[start]
	for _, v := range s.occupancy[start+1 : start+span] {
		m = max(m, v)
	}
	return m
}

// Commit sets every track in [start, start+span) to extent.
func (s *Skyline) Commit(start, span, extent int) {
	for i := start; i < start+span; i++ {
		s.occupancy[i] = extent
	}
}

// Floor returns the lowest occupancy.
func (s *Skyline) Floor() int {
	m := s.occupancy[0]
	for _, v := range s.occupancy[1:] {
		m = min(m, v)
	}
	return m
}

// Ceiling returns the highest occupancy.
func (s *Skyline) Ceiling() int { return s.MaxExtent(0, len(s.occupancy)) }

// Reset clears all tracks back to zero.
func (s *Skyline) Reset() { clear(s.occupancy) }
