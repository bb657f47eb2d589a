package sprout

import (
	"github.com/phanxgames/sprout/behavior"
	"github.com/phanxgames/sprout/easing"
)

// AnimationState is the runtime progress of one Animation against one
// sprite. Update applies dt to the sprite and returns the state to use on
// the next tick (nil once finished), the resulting status, and the part of
// dt the animation did not use.
//
// A state that reported Success must not be updated again.
type AnimationState interface {
	Update(s *Sprite, dt float64) (next AnimationState, status behavior.Status, leftover float64)
}

// NewState starts animation a on sprite s. Tweens capture the sprite's current value
// as their starting point.
func NewState(a Animation, s *Sprite) AnimationState {
	return a.newState(s)
}

// property selects the sprite field pair a tween writes.
type property uint8

const (
	propPosition property = iota
	propRotation
	propScale
	propOpacity
)

// tweenState interpolates a property from begin to end. Rotation and opacity
// only use the first component.
type tweenState struct {
	prop     property
	elapsed  float64
	begin    [2]float64
	delta    [2]float64
	end      [2]float64
	duration float64
}

func newTween(prop property, duration float64, begin, delta [2]float64) tweenState {
	return tweenState{
		prop:     prop,
		begin:    begin,
		delta:    delta,
		end:      [2]float64{begin[0] + delta[0], begin[1] + delta[1]},
		duration: sanitizeDuration(duration),
	}
}

// newTweenTo is newTween with an exact target, so the final snap lands on
// the requested value rather than begin+(target-begin).
func newTweenTo(prop property, duration float64, begin, target [2]float64) tweenState {
	t := newTween(prop, duration, begin, [2]float64{target[0] - begin[0], target[1] - begin[1]})
	t.end = target
	return t
}

// sanitizeDuration maps negative and NaN durations to zero.
func sanitizeDuration(d float64) float64 {
	if d > 0 {
		return d
	}
	return 0
}

func (t tweenState) Update(s *Sprite, dt float64) (AnimationState, behavior.Status, float64) {
	return t.advance(s, dt, easing.Linear, false)
}

// advance moves the tween forward. Once elapsed reaches the duration the
// property is snapped to its exact end value, so repeated small steps never
// drift past or short of the target.
func (t tweenState) advance(s *Sprite, dt float64, fn easing.Func, eased bool) (AnimationState, behavior.Status, float64) {
	t.elapsed += dt
	if t.elapsed >= t.duration {
		t.apply(s, t.end[0], t.end[1])
		return nil, behavior.Success, t.elapsed - t.duration
	}

	factor := t.elapsed / t.duration
	if eased {
		factor = easing.Ease(fn, factor)
	}
	t.apply(s, t.begin[0]+t.delta[0]*factor, t.begin[1]+t.delta[1]*factor)
	return t, behavior.Running, 0
}

func (t tweenState) apply(s *Sprite, a, b float64) {
	switch t.prop {
	case propPosition:
		s.X, s.Y = a, b
	case propRotation:
		s.Rotation = a
	case propScale:
		s.ScaleX, s.ScaleY = a, b
	case propOpacity:
		s.Opacity = a
	}
}

type flipState struct {
	x, y bool
}

func (f flipState) Update(s *Sprite, dt float64) (AnimationState, behavior.Status, float64) {
	s.FlipX = f.x
	s.FlipY = f.y
	return nil, behavior.Success, dt
}

type visibilityState struct {
	visible bool
}

func (v visibilityState) Update(s *Sprite, dt float64) (AnimationState, behavior.Status, float64) {
	s.Visible = v.visible
	return nil, behavior.Success, dt
}

// blinkState splits duration into total equal periods and toggles
// visibility at every period boundary.
type blinkState struct {
	elapsed  float64
	duration float64
	done     int
	total    int
}

func (b blinkState) Update(s *Sprite, dt float64) (AnimationState, behavior.Status, float64) {
	if b.total <= 0 || b.duration <= 0 {
		return nil, behavior.Success, dt
	}

	b.elapsed += dt
	if b.elapsed >= b.duration {
		// Apply any toggles still owed so an even total restores visibility.
		for ; b.done < b.total; b.done++ {
			s.Visible = !s.Visible
		}
		return nil, behavior.Success, b.elapsed - b.duration
	}

	period := b.duration / float64(b.total)
	for b.done < b.total && b.elapsed >= float64(b.done+1)*period {
		s.Visible = !s.Visible
		b.done++
	}
	return b, behavior.Running, 0
}

// easeState remaps the progress of a wrapped tween.
type easeState struct {
	fn    easing.Func
	inner AnimationState
}

func (e easeState) Update(s *Sprite, dt float64) (AnimationState, behavior.Status, float64) {
	t, ok := e.inner.(tweenState)
	if !ok {
		// Discrete animations have no continuous progress to ease.
		return e.inner.Update(s, dt)
	}
	next, status, leftover := t.advance(s, dt, e.fn, true)
	if next == nil {
		return nil, status, leftover
	}
	return easeState{fn: e.fn, inner: next}, status, leftover
}

type callState struct {
	cb Callback
}

func (c callState) Update(s *Sprite, dt float64) (AnimationState, behavior.Status, float64) {
	if c.cb != nil {
		c.cb.Invoke(s)
	}
	return nil, behavior.Success, dt
}

// --- Animation → state ---

func (a MoveTo) newState(s *Sprite) AnimationState {
	return newTweenTo(propPosition, a.Duration, [2]float64{s.X, s.Y}, [2]float64{a.X, a.Y})
}

func (a MoveBy) newState(s *Sprite) AnimationState {
	return newTween(propPosition, a.Duration, [2]float64{s.X, s.Y}, [2]float64{a.X, a.Y})
}

func (a RotateTo) newState(s *Sprite) AnimationState {
	return newTweenTo(propRotation, a.Duration, [2]float64{s.Rotation}, [2]float64{a.Deg})
}

func (a RotateBy) newState(s *Sprite) AnimationState {
	return newTween(propRotation, a.Duration, [2]float64{s.Rotation}, [2]float64{a.Deg})
}

func (a ScaleTo) newState(s *Sprite) AnimationState {
	return newTweenTo(propScale, a.Duration, [2]float64{s.ScaleX, s.ScaleY}, [2]float64{a.X, a.Y})
}

func (a ScaleBy) newState(s *Sprite) AnimationState {
	return newTween(propScale, a.Duration, [2]float64{s.ScaleX, s.ScaleY}, [2]float64{a.X, a.Y})
}

func (a FlipX) newState(s *Sprite) AnimationState {
	return flipState{x: a.Flip, y: s.FlipY}
}

func (a FlipY) newState(s *Sprite) AnimationState {
	return flipState{x: s.FlipX, y: a.Flip}
}

func (Show) newState(*Sprite) AnimationState {
	return visibilityState{visible: true}
}

func (Hide) newState(*Sprite) AnimationState {
	return visibilityState{visible: false}
}

func (ToggleVisibility) newState(s *Sprite) AnimationState {
	return visibilityState{visible: !s.Visible}
}

func (a Blink) newState(*Sprite) AnimationState {
	return blinkState{duration: a.Duration, total: 2 * a.Times}
}

func (a FadeIn) newState(s *Sprite) AnimationState {
	return newTweenTo(propOpacity, a.Duration, [2]float64{s.Opacity}, [2]float64{1})
}

func (a FadeOut) newState(s *Sprite) AnimationState {
	return newTweenTo(propOpacity, a.Duration, [2]float64{s.Opacity}, [2]float64{0})
}

func (a FadeTo) newState(s *Sprite) AnimationState {
	return newTweenTo(propOpacity, a.Duration, [2]float64{s.Opacity}, [2]float64{a.Opacity})
}

func (a Ease) newState(s *Sprite) AnimationState {
	if a.Animation == nil {
		return callState{}
	}
	return easeState{fn: a.Func, inner: a.Animation.newState(s)}
}

func (a Call) newState(*Sprite) AnimationState {
	return callState{cb: a.Callback()}
}
