package grid

import (
	"context"
	"slices"
)

// pattern returns the first specs in order, then (1,1) for every later index.
func pattern(specs ...ItemSizeSpec) SizeFunc {
	return func(i int) ItemSizeSpec {
		if i < len(specs) {
			return specs[i]
		}
		return ItemSizeSpec{WidthUnits: 1, HeightUnits: 1}
	}
}

func spec(w, h int) ItemSizeSpec { return ItemSizeSpec{WidthUnits: w, HeightUnits: h} }

// demoSizes is the four-item pattern (1,1),(2,2),(4,1),(3,2) followed by 1x1
// items.
var demoSizes = pattern(spec(1, 1), spec(2, 2), spec(4, 1), spec(3, 2))

// fakePool records every call made by the recycler.
type fakePool struct {
	next     Slot
	live     map[Slot]int
	acquires int
	releases int
	placed   map[Slot]Rect

	renotified []int
	onPlace    func()
}

func newFakePool() *fakePool {
	return &fakePool{live: make(map[Slot]int), placed: make(map[Slot]Rect)}
}

func (p *fakePool) Acquire(index int) Slot {
	p.next++
	p.acquires++
	p.live[p.next] = index
	return p.next
}

func (p *fakePool) Release(s Slot) {
	p.releases++
	delete(p.live, s)
	delete(p.placed, s)
}

func (p *fakePool) MeasureAndPlace(s Slot, r Rect) {
	p.placed[s] = r
	if p.onPlace != nil {
		p.onPlace()
	}
}

func (p *fakePool) Renotify(index int, _ Slot) {
	p.renotified = append(p.renotified, index)
}

// liveIndices returns the indices the pool believes are bound, sorted.
func (p *fakePool) liveIndices() []int {
	out := make([]int, 0, len(p.live))
	for _, i := range p.live {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

// manualAnimator captures an animation and lets the test drive its ticks.
type manualAnimator struct {
	ctx    context.Context
	vector int
	tick   func(int)
	calls  int
}

func (a *manualAnimator) AnimateTo(ctx context.Context, vector int, onTick func(int)) {
	a.ctx, a.vector, a.tick = ctx, vector, onTick
	a.calls++
}
