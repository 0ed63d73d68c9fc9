package grid

import (
	"context"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowgrid/pkg/errors"
	"github.com/matzehuels/flowgrid/pkg/observability"
)

// Engine packs items into a track grid and manages a scrolling viewport over
// the result: which items are visible, which slots render them, and how far
// the content is scrolled.
//
// An Engine is single-threaded. Every method must be called from the goroutine
// that owns the render loop, including the Animator's tick callbacks.
type Engine struct {
	cfg      Config
	axis     Axis
	sizes    SizePolicy
	pool     SlotPool
	animator Animator
	logger   *log.Logger

	count         int
	width, height int

	layout *Layout
	total  int
	stale  bool
	passes int

	scroll   ScrollState
	visible  []int
	recycler *Recycler
	notified map[int]struct{}

	cancelAnim context.CancelFunc
	inPass     bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithPool sets the slot pool. Without one the engine hands out slot numbers
// and places nothing, which is enough for headless layout.
func WithPool(p SlotPool) Option { return func(e *Engine) { e.pool = p } }

// WithAnimator sets the smooth-scroll helper. Without one smooth scrolls jump
// in a single tick.
func WithAnimator(a Animator) Option { return func(e *Engine) { e.animator = a } }

// WithLogger sets the logger. Defaults to log.Default().
func WithLogger(l *log.Logger) Option { return func(e *Engine) { e.logger = l } }

// New validates cfg and returns an engine with no items and an empty viewport.
// An invalid configuration is fatal: no engine is returned.
func New(cfg Config, sizes SizePolicy, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sizes == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "size policy is required")
	}
	e := &Engine{
		cfg:      cfg,
		axis:     AxisFor(cfg.Orientation),
		sizes:    sizes,
		stale:    true,
		notified: make(map[int]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.pool == nil {
		e.pool = &headlessPool{}
	}
	if e.animator == nil {
		e.animator = InstantAnimator{}
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	e.recycler = NewRecycler(e.pool)
	return e, nil
}

// Config returns the active configuration.
func (e *Engine) Config() Config { return e.cfg }

// Reconfigure swaps track count, orientation or inset. The layout is rebuilt
// on the next pass and, because offsets along the old main axis mean nothing
// along the new one, an orientation change scrolls back to the start.
func (e *Engine) Reconfigure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.cancelAnimation()
	if cfg.Orientation != e.cfg.Orientation {
		e.scroll = ScrollState{}
		e.recycler.ReleaseAll()
		e.visible = nil
	}
	e.cfg = cfg
	e.axis = AxisFor(cfg.Orientation)
	e.stale = true
	return nil
}

// SetItemCount changes the number of items. The layout is rebuilt on the next
// pass if the count differs.
func (e *Engine) SetItemCount(n int) {
	if n != e.count {
		e.count = n
		e.stale = true
	}
}

// ItemCount returns the number of items.
func (e *Engine) ItemCount() int { return e.count }

// SetViewport changes the available size in pixels. The layout is rebuilt on
// the next pass if it differs.
func (e *Engine) SetViewport(width, height int) {
	if width != e.width || height != e.height {
		e.width, e.height = width, height
		e.stale = true
	}
}

// Invalidate forces a rebuild on the next pass, for data-set changes that keep
// the item count.
func (e *Engine) Invalidate() { e.stale = true }

// Reset scraps every slot binding and forces a rebuild, for when the data set
// is replaced wholesale.
func (e *Engine) Reset() {
	e.cancelAnimation()
	e.recycler.ReleaseAll()
	e.visible = nil
	e.stale = true
}

// Layout runs a full pass: rebuild the layout if anything structural changed,
// then recompute the visible set and sync slot bindings. It fails only when
// called from inside another pass, e.g. from a pool callback.
func (e *Engine) Layout() error {
	if e.inPass {
		return errReentrant()
	}
	if e.count <= 0 {
		e.rebuild()
		e.clearVisible()
		return nil
	}
	e.ensureLayout()
	e.refresh(false)
	return nil
}

// ScrollBy scrolls by d pixels along the main axis and returns the delta
// actually applied. Any in-flight smooth scroll is cancelled first.
func (e *Engine) ScrollBy(d int) int {
	e.cancelAnimation()
	return e.scrollBy(d)
}

// ScrollToIndex brings item i into view with the least movement and reports
// whether the offset changed. When it moves, every slot binding is discarded
// and rebuilt. An out-of-range index is logged and otherwise ignored; the
// returned error has code OUT_OF_RANGE. An unplaceable target is ignored the
// same way with code UNPLACEABLE.
func (e *Engine) ScrollToIndex(i int) (bool, error) {
	if e.inPass {
		return false, errReentrant()
	}
	e.cancelAnimation()
	r, err := e.target(i)
	if err != nil {
		return false, err
	}

	moved := e.scroll.JumpTo(e.axis.MainStart(r), e.axis.MainEnd(r), e.mainExtent(), e.total)
	observability.Layout().OnJump(i, e.scroll.Offset(), moved)
	if !moved {
		e.logger.Debug("scroll target already visible", "index", i, "offset", e.scroll.Offset())
		return false, nil
	}

	e.recycler.ReleaseAll()
	e.refresh(true)
	return true, nil
}

// SmoothScrollToIndex animates towards item i through the Animator. The
// engine contributes only the target vector, the distance from the current
// offset to the item's leading edge; each tick is applied like ScrollBy but
// without cancelling the animation it belongs to. Validation matches
// ScrollToIndex.
func (e *Engine) SmoothScrollToIndex(i int) error {
	if e.inPass {
		return errReentrant()
	}
	e.cancelAnimation()
	r, err := e.target(i)
	if err != nil {
		return err
	}

	vector := e.scroll.TargetVector(e.axis.MainStart(r))
	if vector == 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.cancelAnim = cancel
	e.animator.AnimateTo(ctx, vector, func(delta int) {
		if ctx.Err() != nil {
			return
		}
		e.scrollBy(delta)
	})
	return nil
}

// CanScroll reports whether the content is longer than the viewport along the
// main axis.
func (e *Engine) CanScroll() bool {
	return e.count > 0 && e.layout != nil && e.total > e.mainExtent()
}

// Offset returns the scroll offset along the main axis.
func (e *Engine) Offset() int { return e.scroll.Offset() }

// Visible returns the visible item indices in ascending order.
func (e *Engine) Visible() []int { return slices.Clone(e.visible) }

// Current returns the current layout, or nil before the first pass.
func (e *Engine) Current() *Layout { return e.layout }

// ContentExtent returns the total content length along the main axis.
func (e *Engine) ContentExtent() int { return e.total }

// Passes returns how many times the layout has been rebuilt.
func (e *Engine) Passes() int { return e.passes }

// SlotFor returns the slot currently rendering item i.
func (e *Engine) SlotFor(i int) (Slot, bool) { return e.recycler.SlotFor(i) }

// IndexFor returns the item rendered by slot s.
func (e *Engine) IndexFor(s Slot) (int, bool) { return e.recycler.IndexFor(s) }

// Insets returns the decoration insets of item i.
func (e *Engine) Insets(i int) (Insets, error) {
	if e.layout == nil || i < 0 || i >= e.layout.Len() {
		return Insets{}, errors.New(errors.ErrCodeOutOfRange, "no item at index %d", i)
	}
	return e.insets(e.layout.Rect(i)), nil
}

// Placement returns the viewport-space rectangle item i is drawn in, after
// insets. ok is false when the item is not visible.
func (e *Engine) Placement(i int) (Rect, bool) {
	if e.layout == nil || i < 0 || i >= e.layout.Len() {
		return Rect{}, false
	}
	if _, bound := e.recycler.SlotFor(i); !bound {
		return Rect{}, false
	}
	return e.place(i), true
}

func (e *Engine) mainExtent() int {
	m, _ := e.axis.Extents(e.width, e.height)
	return m
}

func (e *Engine) crossExtent() int {
	_, c := e.axis.Extents(e.width, e.height)
	return c
}

func (e *Engine) ensureLayout() bool {
	if e.stale || e.layout == nil {
		e.rebuild()
		return true
	}
	return false
}

// resync rebuilds a stale layout and brings the visible set and the slot
// bindings in line with it, so no binding outlives its item.
func (e *Engine) resync() {
	if !e.ensureLayout() {
		return
	}
	if e.count <= 0 {
		e.clearVisible()
		return
	}
	e.refresh(false)
}

func (e *Engine) clearVisible() {
	e.recycler.ReleaseAll()
	e.visible = nil
}

func (e *Engine) rebuild() {
	e.layout = BuildLayout(e.sizes, e.count, e.cfg, e.width, e.height)
	e.total = e.layout.MainExtent()
	e.scroll.Clamp(e.total, e.mainExtent())
	clear(e.notified)
	e.stale = false
	e.passes++
}

func (e *Engine) target(i int) (Rect, error) {
	e.resync()
	if i < 0 || i >= e.layout.Len() {
		err := errors.New(errors.ErrCodeOutOfRange, "cannot scroll to %d, item count is %d", i, e.layout.Len())
		e.logger.Error("scroll target out of range", "index", i, "count", e.layout.Len())
		return Rect{}, err
	}
	r := e.layout.Rect(i)
	if r.Degenerate() {
		e.logger.Warn("scroll target was not placed", "index", i)
		return Rect{}, errors.New(errors.ErrCodeUnplaceable, "item %d has no placement", i)
	}
	return r, nil
}

func (e *Engine) scrollBy(d int) int {
	if e.count <= 0 || e.layout == nil || e.inPass {
		return 0
	}
	applied := e.scroll.ApplyDelta(d, e.total, e.mainExtent())
	observability.Layout().OnScroll(d, applied)
	if applied != 0 {
		e.refresh(false)
	}
	return applied
}

// refresh recomputes the visible set and syncs the recycler against it.
// Pool callbacks run inside it, so it holds the pass flag.
func (e *Engine) refresh(full bool) {
	e.inPass = true
	defer func() { e.inPass = false }()

	e.visible = VisibleIndices(e.layout, e.scroll.Offset(), e.mainExtent(), e.crossExtent())

	var renotify []int
	bound, released := e.recycler.Sync(e.visible, func(i int) Rect {
		r := e.place(i)
		if r != e.visibleRect(i) {
			if _, done := e.notified[i]; !done {
				e.notified[i] = struct{}{}
				renotify = append(renotify, i)
			}
		}
		return r
	})
	observability.Layout().OnRecycle(len(e.visible), bound, released)

	if rn, ok := e.pool.(Renotifier); ok {
		for _, i := range renotify {
			if s, bound := e.recycler.SlotFor(i); bound {
				rn.Renotify(i, s)
			}
		}
	}
	if full {
		e.logger.Debug("relaid out", "offset", e.scroll.Offset(), "visible", len(e.visible))
	}
}

// visibleRect is item i's layout rectangle in viewport coordinates.
func (e *Engine) visibleRect(i int) Rect {
	r := e.layout.Rect(i)
	o := e.scroll.Offset()
	return e.axis.Rect(
		e.axis.CrossStart(r), e.axis.MainStart(r)-o,
		e.axis.CrossEnd(r)-e.axis.CrossStart(r), e.axis.MainEnd(r)-e.axis.MainStart(r),
	)
}

// place is item i's decorated rectangle in viewport coordinates.
func (e *Engine) place(i int) Rect {
	return e.insets(e.layout.Rect(i)).Apply(e.visibleRect(i))
}

func (e *Engine) insets(r Rect) Insets {
	return ComputeInsets(e.axis, r, e.cfg.BaseInset, e.layout.CrossExtent, e.total)
}

func errReentrant() error {
	return errors.New(errors.ErrCodeReentrantLayout, "layout pass already in progress")
}

func (e *Engine) cancelAnimation() {
	if e.cancelAnim != nil {
		e.cancelAnim()
		e.cancelAnim = nil
	}
}

// InstantAnimator completes every smooth scroll in a single tick.
type InstantAnimator struct{}

// AnimateTo calls onTick(vector) unless ctx is already done.
func (InstantAnimator) AnimateTo(ctx context.Context, vector int, onTick func(int)) {
	if ctx.Err() == nil {
		onTick(vector)
	}
}

// headlessPool numbers slots and reuses released ones. It renders nothing.
type headlessPool struct {
	next Slot
	free []Slot
}

func (p *headlessPool) Acquire(int) Slot {
	if n := len(p.free); n > 0 {
		s := p.free[n-1]
		p.free = p.free[:n-1]
		return s
	}
	p.next++
	return p.next
}

func (p *headlessPool) Release(s Slot) {
	p.free = append(p.free, s)
}

func (p *headlessPool) MeasureAndPlace(Slot, Rect) {}
