package grid

import "slices"

// Recycler binds rendering slots to visible item indices. It keeps a
// one-to-one mapping in both directions, so finding the slot of an index and
// the index of a slot are both constant time.
type Recycler struct {
	pool    SlotPool
	byIndex map[int]Slot
	bySlot  map[Slot]int
}

// NewRecycler returns a recycler drawing slots from pool.
func NewRecycler(pool SlotPool) *Recycler {
	return &Recycler{
		pool:    pool,
		byIndex: make(map[int]Slot),
		bySlot:  make(map[Slot]int),
	}
}

// Sync makes the bound set equal visible. Slots of indices that left the set
// go back to the pool first, so a bounded pool can hand them straight to the
// newly visible indices. place supplies the viewport-space rectangle for each
// visible index; every bound slot is measured and placed once per call.
// It returns how many slots were newly bound and how many were released.
func (r *Recycler) Sync(visible []int, place func(index int) Rect) (bound, released int) {
	keep := make(map[int]struct{}, len(visible))
	for _, i := range visible {
		keep[i] = struct{}{}
	}

	for _, i := range r.Indices() {
		if _, ok := keep[i]; !ok {
			r.unbind(i)
			released++
		}
	}

	for _, i := range visible {
		s, ok := r.byIndex[i]
		if !ok {
			s = r.pool.Acquire(i)
			r.bind(i, s)
			bound++
		}
		r.pool.MeasureAndPlace(s, place(i))
	}
	return bound, released
}

// ReleaseAll returns every bound slot to the pool.
func (r *Recycler) ReleaseAll() int {
	n := len(r.byIndex)
	for _, i := range r.Indices() {
		r.unbind(i)
	}
	return n
}

// SlotFor returns the slot bound to index, if any.
func (r *Recycler) SlotFor(index int) (Slot, bool) {
	s, ok := r.byIndex[index]
	return s, ok
}

// IndexFor returns the index bound to slot, if any.
func (r *Recycler) IndexFor(s Slot) (int, bool) {
	i, ok := r.bySlot[s]
	return i, ok
}

// Indices returns the bound indices in ascending order.
func (r *Recycler) Indices() []int {
	out := make([]int, 0, len(r.byIndex))
	for i := range r.byIndex {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of bound slots.
func (r *Recycler) Len() int { return len(r.byIndex) }

func (r *Recycler) bind(i int, s Slot) {
	r.byIndex[i] = s
	r.bySlot[s] = i
}

func (r *Recycler) unbind(i int) {
	s := r.byIndex[i]
	delete(r.byIndex, i)
	delete(r.bySlot, s)
	r.pool.Release(s)
}
