package grid

import "testing"

func TestApplyDelta(t *testing.T) {
	tests := []struct {
		name        string
		offset      int
		d           int
		total       int
		viewport    int
		wantApplied int
		wantOffset  int
	}{
		{"forward inside", 0, 50, 1000, 300, 50, 50},
		{"forward to end", 0, 1000, 1000, 300, 700, 700},
		{"forward at end", 700, 10, 1000, 300, 0, 700},
		{"backward inside", 200, -50, 1000, 300, -50, 150},
		{"backward past start", 40, -100, 1000, 300, -40, 0},
		{"backward exactly to start", 40, -40, 1000, 300, -40, 0},
		{"backward at start", 0, -10, 1000, 300, 0, 0},
		{"content shorter than viewport", 0, 50, 200, 300, 0, 0},
		{"content equals viewport", 0, 50, 300, 300, 0, 0},
		{"zero delta", 100, 0, 1000, 300, 0, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ScrollState{offset: tt.offset}
			if got := s.ApplyDelta(tt.d, tt.total, tt.viewport); got != tt.wantApplied {
				t.Errorf("ApplyDelta() = %d, want %d", got, tt.wantApplied)
			}
			if s.Offset() != tt.wantOffset {
				t.Errorf("Offset() = %d, want %d", s.Offset(), tt.wantOffset)
			}
		})
	}
}

func TestApplyDeltaStaysInRange(t *testing.T) {
	const total, viewport = 1234, 250
	var s ScrollState
	for _, d := range []int{300, 900, 77, -5000, 1, 2000, -3, -1231} {
		s.ApplyDelta(d, total, viewport)
		if s.Offset() < 0 || s.Offset() > MaxOffset(total, viewport) {
			t.Fatalf("after delta %d offset = %d, want within [0, %d]", d, s.Offset(), MaxOffset(total, viewport))
		}
	}
}

func TestJumpTo(t *testing.T) {
	tests := []struct {
		name       string
		offset     int
		start, end int
		wantMoved  bool
		wantOffset int
	}{
		{"already visible", 100, 150, 250, false, 100},
		{"exactly fills window", 100, 100, 400, false, 100},
		{"before window aligns leading", 300, 100, 200, true, 100},
		{"after window aligns trailing", 0, 500, 600, true, 300},
		{"partly below aligns trailing", 0, 250, 350, true, 50},
		{"partly above aligns leading", 200, 150, 250, true, 150},
		{"taller than window aligns leading", 0, 400, 800, true, 400},
		{"clamped at end", 0, 900, 1000, true, 700},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ScrollState{offset: tt.offset}
			moved := s.JumpTo(tt.start, tt.end, 300, 1000)
			if moved != tt.wantMoved {
				t.Errorf("JumpTo() = %v, want %v", moved, tt.wantMoved)
			}
			if s.Offset() != tt.wantOffset {
				t.Errorf("Offset() = %d, want %d", s.Offset(), tt.wantOffset)
			}
			if s.JumpTo(tt.start, tt.end, 300, 1000) {
				t.Errorf("second JumpTo() moved again to %d", s.Offset())
			}
		})
	}
}

func TestClampAndMaxOffset(t *testing.T) {
	if got := MaxOffset(100, 300); got != 0 {
		t.Errorf("MaxOffset(100, 300) = %d, want 0", got)
	}
	s := ScrollState{offset: 900}
	s.Clamp(1000, 300)
	if s.Offset() != 700 {
		t.Errorf("Clamp() offset = %d, want 700", s.Offset())
	}
	s = ScrollState{offset: -5}
	s.Clamp(1000, 300)
	if s.Offset() != 0 {
		t.Errorf("Clamp() offset = %d, want 0", s.Offset())
	}
}

func TestTargetVector(t *testing.T) {
	s := ScrollState{offset: 400}
	if got := s.TargetVector(100); got != -300 {
		t.Errorf("TargetVector(100) = %d, want -300", got)
	}
	if got := s.TargetVector(1000); got != 600 {
		t.Errorf("TargetVector(1000) = %d, want 600", got)
	}
}
