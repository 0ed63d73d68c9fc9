package grid

// ScrollState is the scroll offset along the main axis. The zero value is
// scrolled to the start.
type ScrollState struct {
	offset int
}

// Offset returns the current offset.
func (s *ScrollState) Offset() int { return s.offset }

// MaxOffset is the largest valid offset for content of length total seen
// through a viewport of length viewport.
func MaxOffset(total, viewport int) int {
	return max(0, total-viewport)
}

// Clamp forces the offset back into [0, MaxOffset(total, viewport)], for
// example after the viewport grew or the content shrank.
func (s *ScrollState) Clamp(total, viewport int) {
	s.offset = min(max(s.offset, 0), MaxOffset(total, viewport))
}

// ApplyDelta scrolls by d and returns the delta actually applied. The result
// is smaller in magnitude than d when an edge is reached; callers treat the
// mismatch as an edge-effect signal. Nothing moves when the content is shorter
// than the viewport.
func (s *ScrollState) ApplyDelta(d, total, viewport int) int {
	if total < viewport {
		return 0
	}
	var applied int
	switch {
	case d > 0 && s.offset+viewport+d > total:
		applied = total - s.offset - viewport
	case d < 0 && s.offset+d <= 0:
		applied = -s.offset
	default:
		applied = d
	}
	s.offset += applied
	return applied
}

// JumpTo brings the main-axis span [start, end) into view with the least
// movement and reports whether the offset changed. A span already fully inside
// the window is left alone. A span before the window, or one longer than the
// window, is aligned to the leading edge; otherwise its trailing edge is
// aligned with the window's trailing edge. The result is clamped to the
// content of length total, so repeating a jump never moves twice.
func (s *ScrollState) JumpTo(start, end, viewport, total int) bool {
	if start >= s.offset && end <= s.offset+viewport {
		return false
	}
	next := end - viewport
	if start < s.offset || end-start > viewport {
		next = start
	}
	next = min(max(next, 0), MaxOffset(total, viewport))
	if next == s.offset {
		return false
	}
	s.offset = next
	return true
}

// TargetVector is the signed main-axis distance from the current offset to
// start. A smooth scroller that applies exactly this much lands the target's
// leading edge on the viewport's leading edge.
func (s *ScrollState) TargetVector(start int) int {
	return start - s.offset
}
