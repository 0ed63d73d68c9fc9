package cli

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/flowgrid/pkg/grid"
	"github.com/matzehuels/flowgrid/pkg/sizing"
)

// newDemoGrid shows the 31 demo items on 3 tracks in a 300x250 viewport.
func newDemoGrid(t *testing.T) GridModel {
	t.Helper()
	logger := log.New(io.Discard)
	logger.SetLevel(log.FatalLevel)
	m, err := NewGridModel(grid.Config{Tracks: 3}, sizing.Demo(), 31, 300, 250, logger)
	if err != nil {
		t.Fatalf("NewGridModel() error = %v", err)
	}
	return m
}

func press(m GridModel, keys string) (GridModel, tea.Cmd) {
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)})
	return model.(GridModel), cmd
}

func send(m GridModel, msg tea.Msg) (GridModel, tea.Cmd) {
	model, cmd := m.Update(msg)
	return model.(GridModel), cmd
}

func TestGridModelInitial(t *testing.T) {
	m := newDemoGrid(t)

	if diff := cmp.Diff([]int{0, 1, 3}, m.Engine().Visible()); diff != "" {
		t.Errorf("Visible() mismatch (-want +got):\n%s", diff)
	}
	if len(m.pool.items) != 3 || len(m.pool.rects) != 3 {
		t.Errorf("pool holds %d slots, %d placed", len(m.pool.items), len(m.pool.rects))
	}
	if !strings.Contains(m.View(), "offset 0/1050") {
		t.Errorf("status line missing from view:\n%s", m.View())
	}
}

func TestGridModelScrollKeys(t *testing.T) {
	m := newDemoGrid(t)

	m, _ = press(m, "j")
	if got := m.Engine().Offset(); got != cellHeight {
		t.Errorf("after j offset = %d, want %d", got, cellHeight)
	}
	m, _ = press(m, "k")
	m, _ = press(m, "k")
	if got := m.Engine().Offset(); got != 0 {
		t.Errorf("after k k offset = %d, want 0", got)
	}
	m, _ = press(m, "G")
	if m.Engine().Offset() != 1050 || m.Target != 30 {
		t.Errorf("after G offset = %d target = %d", m.Engine().Offset(), m.Target)
	}
	m, _ = press(m, "g")
	if m.Engine().Offset() != 0 || m.Target != 0 {
		t.Errorf("after g offset = %d target = %d", m.Engine().Offset(), m.Target)
	}
}

func TestGridModelSlotsFollowVisibleSet(t *testing.T) {
	m := newDemoGrid(t)
	for range 60 {
		m, _ = press(m, "j")
		if live, visible := len(m.pool.items), len(m.Engine().Visible()); live != visible {
			t.Fatalf("offset %d: %d live slots for %d visible items", m.Engine().Offset(), live, visible)
		}
	}
	// Scrolling recycles: far fewer slots are made than items pass by.
	if made := m.pool.created(); made > 12 {
		t.Errorf("made %d slots, want reuse", made)
	}
}

func TestGridModelGlide(t *testing.T) {
	m := newDemoGrid(t)
	m.Target = 10

	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("glide did not schedule a frame")
	}
	frames := 0
	for cmd != nil {
		m, cmd = send(m, frameMsg{})
		frames++
		if frames > 100 {
			t.Fatal("glide never finished")
		}
	}
	if got := m.Engine().Offset(); got != 600 {
		t.Errorf("offset after glide = %d, want 600", got)
	}
	if frames < 2 {
		t.Errorf("glide took %d frames, want an animation", frames)
	}
}

func TestGridModelGlideInterruptedByScroll(t *testing.T) {
	m := newDemoGrid(t)
	m.Target = 30

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = send(m, frameMsg{})
	m, _ = press(m, "j")
	offset := m.Engine().Offset()

	m, cmd := send(m, frameMsg{})
	if cmd != nil {
		t.Error("cancelled glide kept scheduling frames")
	}
	if m.Engine().Offset() != offset {
		t.Errorf("cancelled glide moved the view from %d to %d", offset, m.Engine().Offset())
	}
}

func TestGridModelUnplaceableTarget(t *testing.T) {
	m := newDemoGrid(t)
	m.Target = 2

	m, _ = press(m, "J")
	if !strings.Contains(m.status, "no placement") {
		t.Errorf("status = %q", m.status)
	}
	if m.Engine().Offset() != 0 {
		t.Errorf("offset = %d, want 0", m.Engine().Offset())
	}
	m, _ = press(m, "j")
	if m.status != "" {
		t.Errorf("status not cleared: %q", m.status)
	}
}

func TestGridModelWindowResize(t *testing.T) {
	m := newDemoGrid(t)

	m, _ = send(m, tea.WindowSizeMsg{Width: 30, Height: 10 + chromeLines})
	if diff := cmp.Diff([]int{0, 1}, m.Engine().Visible()); diff != "" {
		t.Errorf("Visible() mismatch (-want +got):\n%s", diff)
	}
	if got := strings.Count(m.canvas(), "\n") + 1; got != 10 {
		t.Errorf("canvas has %d rows, want 10", got)
	}
}

func TestGridModelReconfigure(t *testing.T) {
	m := newDemoGrid(t)

	m, _ = press(m, "+")
	if got := m.Engine().Config().Tracks; got != 4 {
		t.Errorf("tracks = %d, want 4", got)
	}
	for range 4 {
		m, _ = press(m, "-")
	}
	if got := m.Engine().Config().Tracks; got != 1 {
		t.Errorf("tracks = %d, want 1", got)
	}
	if m.status == "" {
		t.Error("zero tracks was accepted silently")
	}

	m, _ = press(m, "o")
	if got := m.Engine().Config().Orientation; got != grid.Horizontal {
		t.Errorf("orientation = %v", got)
	}
}

func TestGridModelQuit(t *testing.T) {
	m := newDemoGrid(t)
	_, cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestClampCells(t *testing.T) {
	tests := []struct {
		lo, hi, px, n int
		a, b          int
	}{
		{0, 100, 10, 30, 0, 10},
		{104, 196, 10, 30, 10, 20},
		{-50, 40, 20, 12, 0, 2},
		{200, 400, 20, 5, 5, 5},
	}
	for _, tt := range tests {
		a, b := clampCells(tt.lo, tt.hi, tt.px, tt.n)
		if a != tt.a || b != tt.b {
			t.Errorf("clampCells(%d, %d, %d, %d) = %d, %d; want %d, %d",
				tt.lo, tt.hi, tt.px, tt.n, a, b, tt.a, tt.b)
		}
	}
	if floorDiv(-1, 10) != -1 || floorDiv(-10, 10) != -1 || floorDiv(9, 10) != 0 {
		t.Error("floorDiv does not round down")
	}
}
