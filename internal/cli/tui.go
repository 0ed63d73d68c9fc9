package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowgrid/pkg/animate"
	"github.com/matzehuels/flowgrid/pkg/errors"
	"github.com/matzehuels/flowgrid/pkg/grid"
)

// Each terminal cell stands for a cellWidth x cellHeight pixel block.
const (
	cellWidth  = 10
	cellHeight = 20
)

// chromeLines is the number of terminal lines the viewer uses around the grid.
const chromeLines = 4

var frameInterval = time.Second / 60

// =============================================================================
// cellPool - slot pool backing the terminal viewer
// =============================================================================

// cellPool hands out integer slots and remembers where each was placed, in
// viewport pixels. Released slots are reused before new ones are made.
type cellPool struct {
	next       grid.Slot
	free       []grid.Slot
	items      map[grid.Slot]int
	rects      map[grid.Slot]grid.Rect
	acquires   int
	releases   int
	renotified int
}

func newCellPool() *cellPool {
	return &cellPool{
		items: make(map[grid.Slot]int),
		rects: make(map[grid.Slot]grid.Rect),
	}
}

func (p *cellPool) Acquire(index int) grid.Slot {
	p.acquires++
	var s grid.Slot
	if n := len(p.free); n > 0 {
		s, p.free = p.free[n-1], p.free[:n-1]
	} else {
		s = p.next
		p.next++
	}
	p.items[s] = index
	return s
}

func (p *cellPool) Release(s grid.Slot) {
	p.releases++
	delete(p.items, s)
	delete(p.rects, s)
	p.free = append(p.free, s)
}

func (p *cellPool) MeasureAndPlace(s grid.Slot, r grid.Rect) { p.rects[s] = r }

func (p *cellPool) Renotify(int, grid.Slot) { p.renotified++ }

// created is the number of distinct slots ever made.
func (p *cellPool) created() int { return int(p.next) }

// =============================================================================
// GridModel - interactive viewport over a packed grid
// =============================================================================

type frameMsg struct{}

type gridKeyMap struct {
	Up, Down, PageUp, PageDown key.Binding
	Home, End                  key.Binding
	Next, Prev, Jump, Glide    key.Binding
	MoreTracks, FewerTracks    key.Binding
	Rotate, Quit               key.Binding
}

var gridKeys = gridKeyMap{
	Up:          key.NewBinding(key.WithKeys("up", "k")),
	Down:        key.NewBinding(key.WithKeys("down", "j")),
	PageUp:      key.NewBinding(key.WithKeys("pgup", "b")),
	PageDown:    key.NewBinding(key.WithKeys("pgdown", " ")),
	Home:        key.NewBinding(key.WithKeys("home", "g")),
	End:         key.NewBinding(key.WithKeys("end", "G")),
	Next:        key.NewBinding(key.WithKeys("n", "right", "l")),
	Prev:        key.NewBinding(key.WithKeys("p", "left", "h")),
	Jump:        key.NewBinding(key.WithKeys("J")),
	Glide:       key.NewBinding(key.WithKeys("enter")),
	MoreTracks:  key.NewBinding(key.WithKeys("+", "=")),
	FewerTracks: key.NewBinding(key.WithKeys("-")),
	Rotate:      key.NewBinding(key.WithKeys("o")),
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c", "esc")),
}

// GridModel is the bubbletea model for browsing a layout in the terminal.
// The engine, the pool and the stepper are only touched from Update, which
// bubbletea runs on a single goroutine.
type GridModel struct {
	engine  *grid.Engine
	pool    *cellPool
	stepper *animate.Stepper

	// Target is the item the jump and glide keys scroll to.
	Target int
	status string
	width  int
	height int
}

// NewGridModel lays out count items in a width x height pixel viewport.
func NewGridModel(cfg grid.Config, sizes grid.SizePolicy, count, width, height int, logger *log.Logger) (GridModel, error) {
	pool := newCellPool()
	stepper := animate.NewStepper()
	eng, err := grid.New(cfg, sizes,
		grid.WithPool(pool),
		grid.WithAnimator(stepper),
		grid.WithLogger(logger))
	if err != nil {
		return GridModel{}, err
	}
	eng.SetItemCount(count)
	eng.SetViewport(width, height)
	if err := eng.Layout(); err != nil {
		return GridModel{}, err
	}
	return GridModel{
		engine:  eng,
		pool:    pool,
		stepper: stepper,
		width:   width,
		height:  height,
	}, nil
}

// Engine returns the engine driving the view.
func (m GridModel) Engine() *grid.Engine { return m.engine }

func (m GridModel) Init() tea.Cmd {
	return nil
}

func (m GridModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width * cellWidth
		m.height = max(msg.Height-chromeLines, 1) * cellHeight
		m.engine.SetViewport(m.width, m.height)
		m.relayout()

	case frameMsg:
		if m.stepper.Step() {
			return m, nextFrame()
		}

	case tea.KeyMsg:
		m.status = ""
		page := m.mainExtent()
		switch {
		case key.Matches(msg, gridKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, gridKeys.Up):
			m.engine.ScrollBy(-cellHeight)
		case key.Matches(msg, gridKeys.Down):
			m.engine.ScrollBy(cellHeight)
		case key.Matches(msg, gridKeys.PageUp):
			m.engine.ScrollBy(-page)
		case key.Matches(msg, gridKeys.PageDown):
			m.engine.ScrollBy(page)
		case key.Matches(msg, gridKeys.Home):
			m.Target = 0
			m.jump()
		case key.Matches(msg, gridKeys.End):
			m.Target = max(m.engine.ItemCount()-1, 0)
			m.jump()
		case key.Matches(msg, gridKeys.Next):
			m.Target = min(m.Target+1, max(m.engine.ItemCount()-1, 0))
		case key.Matches(msg, gridKeys.Prev):
			m.Target = max(m.Target-1, 0)
		case key.Matches(msg, gridKeys.Jump):
			m.jump()
		case key.Matches(msg, gridKeys.Glide):
			if err := m.engine.SmoothScrollToIndex(m.Target); err != nil {
				m.status = errors.UserMessage(err)
				return m, nil
			}
			if m.stepper.Running() {
				return m, nextFrame()
			}
		case key.Matches(msg, gridKeys.MoreTracks):
			m.reconfigure(func(c *grid.Config) { c.Tracks++ })
		case key.Matches(msg, gridKeys.FewerTracks):
			m.reconfigure(func(c *grid.Config) { c.Tracks-- })
		case key.Matches(msg, gridKeys.Rotate):
			m.reconfigure(func(c *grid.Config) {
				if c.Orientation == grid.Vertical {
					c.Orientation = grid.Horizontal
				} else {
					c.Orientation = grid.Vertical
				}
			})
		}
	}
	return m, nil
}

func (m *GridModel) jump() {
	if _, err := m.engine.ScrollToIndex(m.Target); err != nil {
		m.status = errors.UserMessage(err)
	}
}

func (m *GridModel) reconfigure(change func(*grid.Config)) {
	cfg := m.engine.Config()
	change(&cfg)
	if err := m.engine.Reconfigure(cfg); err != nil {
		m.status = errors.UserMessage(err)
		return
	}
	m.relayout()
}

func (m *GridModel) relayout() {
	if err := m.engine.Layout(); err != nil {
		m.status = errors.UserMessage(err)
	}
}

func (m GridModel) mainExtent() int {
	main, _ := grid.AxisFor(m.engine.Config().Orientation).Extents(m.width, m.height)
	return main
}

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

func (m GridModel) View() string {
	var b strings.Builder
	cfg := m.engine.Config()

	b.WriteString(StyleTitle.Render("flowgrid"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d tracks · %s · target %d", cfg.Tracks, cfg.Orientation, m.Target)))
	b.WriteString("\n")
	b.WriteString(m.canvas())
	b.WriteString("\n")

	maxOffset := grid.MaxOffset(m.engine.ContentExtent(), m.mainExtent())
	b.WriteString(StyleDim.Render(fmt.Sprintf("offset %d/%d · visible %d · slots %d live %d made · recycled %d · renotified %d",
		m.engine.Offset(), maxOffset, len(m.engine.Visible()),
		len(m.pool.items), m.pool.created(), m.pool.releases, m.pool.renotified)))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(StyleWarning.Render(m.status))
	} else {
		b.WriteString(StyleDim.Render("j/k scroll  n/p target  J jump  ⏎ glide  +/- tracks  o rotate  q quit"))
	}
	return b.String()
}

// canvas draws every placed slot as a block of colored cells.
func (m GridModel) canvas() string {
	cols := max(m.width/cellWidth, 1)
	rows := max(m.height/cellHeight, 1)

	owner := make([][]int, rows)
	label := make([][]rune, rows)
	for y := range owner {
		owner[y] = make([]int, cols)
		label[y] = []rune(strings.Repeat(" ", cols))
		for x := range owner[y] {
			owner[y][x] = -1
		}
	}

	for _, i := range m.engine.Visible() {
		s, ok := m.engine.SlotFor(i)
		if !ok {
			continue
		}
		r := m.pool.rects[s]
		x0, x1 := clampCells(r.Left, r.Right, cellWidth, cols)
		y0, y1 := clampCells(r.Top, r.Bottom, cellHeight, rows)
		if x0 >= x1 || y0 >= y1 {
			continue
		}
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				owner[y][x] = i
			}
		}
		for k, ch := range strconv.Itoa(i) {
			if x0+k < x1 {
				label[y0][x0+k] = ch
			}
		}
	}

	var b strings.Builder
	for y := range owner {
		if y > 0 {
			b.WriteString("\n")
		}
		for x := 0; x < cols; {
			end := x + 1
			for end < cols && owner[y][end] == owner[y][x] {
				end++
			}
			b.WriteString(m.cellStyle(owner[y][x]).Render(string(label[y][x:end])))
			x = end
		}
	}
	return b.String()
}

func (m GridModel) cellStyle(item int) lipgloss.Style {
	switch {
	case item < 0:
		return gridEmptyStyle
	case item == m.Target:
		return gridTargetStyle
	}
	return lipgloss.NewStyle().Foreground(colorWhite).Background(itemColors[item%len(itemColors)])
}

// clampCells maps the pixel span [lo, hi) to whole cells of size px, clipped
// to [0, n).
func clampCells(lo, hi, px, n int) (int, int) {
	a := floorDiv(lo+px/2, px)
	b := floorDiv(hi+px/2, px)
	return min(max(a, 0), n), min(max(b, 0), n)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
