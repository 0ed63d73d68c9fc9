// Package animate provides frame-driven scroll animation for hosts that own a
// render loop.
//
// A [Stepper] implements grid.Animator without timers or goroutines: the host
// calls [Stepper.Step] once per frame from the same goroutine that drives the
// layout engine, and each step hands the engine the next slice of the scroll
// vector. This keeps the engine single-threaded; a new scroll request cancels
// the context of the animation in flight and the stepper drops it on the next
// frame.
//
//	s := animate.NewStepper(animate.WithFrames(20))
//	eng, _ := grid.New(cfg, sizes, grid.WithAnimator(s))
//	_ = eng.SmoothScrollToIndex(40)
//	for s.Step() {
//	    draw()
//	}
package animate

import (
	"context"
	"math"
)

// DefaultFrames is the length of an animation at 60 frames per second, about
// a quarter of a second.
const DefaultFrames = 15

// Easing maps linear progress in [0, 1] to eased progress in [0, 1].
type Easing func(t float64) float64

// Linear applies the same delta every frame.
func Linear(t float64) float64 { return t }

// EaseOutCubic starts fast and decelerates into the target.
func EaseOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// Option configures a Stepper.
type Option func(*Stepper)

// WithFrames sets how many frames an animation lasts. Values below 1 are
// treated as 1.
func WithFrames(n int) Option { return func(s *Stepper) { s.frames = max(n, 1) } }

// WithEasing sets the easing curve.
func WithEasing(e Easing) Option { return func(s *Stepper) { s.ease = e } }

// Stepper animates one scroll at a time, advanced explicitly by Step.
type Stepper struct {
	frames int
	ease   Easing
	active *run
}

type run struct {
	ctx     context.Context
	vector  int
	applied int
	frame   int
	onTick  func(int)
}

// NewStepper returns a stepper with DefaultFrames and EaseOutCubic unless
// overridden.
func NewStepper(opts ...Option) *Stepper {
	s := &Stepper{frames: DefaultFrames, ease: EaseOutCubic}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnimateTo replaces any pending animation with one covering vector pixels.
// Nothing happens until the next Step.
func (s *Stepper) AnimateTo(ctx context.Context, vector int, onTick func(delta int)) {
	if vector == 0 || ctx.Err() != nil {
		s.active = nil
		return
	}
	s.active = &run{ctx: ctx, vector: vector, onTick: onTick}
}

// Running reports whether an animation is pending.
func (s *Stepper) Running() bool {
	if s.active != nil && s.active.ctx.Err() != nil {
		s.active = nil
	}
	return s.active != nil
}

// Step advances the current animation by one frame and reports whether more
// frames remain. The deltas handed to onTick over a full run sum to the
// requested vector exactly.
func (s *Stepper) Step() bool {
	if !s.Running() {
		return false
	}
	r := s.active
	r.frame++
	progress := s.ease(float64(r.frame) / float64(s.frames))
	target := int(math.Round(float64(r.vector) * progress))
	if r.frame >= s.frames {
		target = r.vector
	}
	if delta := target - r.applied; delta != 0 {
		r.applied = target
		r.onTick(delta)
	}
	if r.frame >= s.frames {
		s.active = nil
		return false
	}
	return s.active == r
}
