package sprout

import (
	"errors"
	"fmt"
	"math"

	"github.com/phanxgames/sprout/behavior"
	"github.com/phanxgames/sprout/easing"
)

// Animation describes one effect on a sprite: what to animate, not how far
// it has progressed. Animations are immutable, comparable values; a scene
// uses == on them (through Behavior.Equal) to find registered behaviors.
//
// The set of animations is closed: MoveTo, MoveBy, RotateTo, RotateBy,
// ScaleTo, ScaleBy, FlipX, FlipY, Show, Hide, ToggleVisibility, Blink,
// FadeIn, FadeOut, FadeTo, Ease and Call.
type Animation interface {
	newState(s *Sprite) AnimationState
}

// Behavior is a behavior tree over animations.
type Behavior = behavior.Behavior[Animation]

// Action wraps a single animation as a behavior.
func Action(a Animation) Behavior {
	return behavior.Action(a)
}

// Wait returns a behavior that does nothing for seconds.
func Wait(seconds float64) Behavior {
	return behavior.Wait[Animation](seconds)
}

// WaitForever returns a behavior that never finishes.
func WaitForever() Behavior {
	return behavior.WaitForever[Animation]()
}

// MoveTo moves the sprite to (X, Y) over Duration seconds.
type MoveTo struct {
	Duration float64
	X, Y     float64
}

// MoveBy moves the sprite by (X, Y) over Duration seconds.
type MoveBy struct {
	Duration float64
	X, Y     float64
}

// RotateTo rotates the sprite to Deg degrees over Duration seconds.
type RotateTo struct {
	Duration float64
	Deg      float64
}

// RotateBy rotates the sprite by Deg degrees over Duration seconds.
type RotateBy struct {
	Duration float64
	Deg      float64
}

// ScaleTo scales the sprite to (X, Y) over Duration seconds.
type ScaleTo struct {
	Duration float64
	X, Y     float64
}

// ScaleBy changes the sprite's scale by (X, Y) over Duration seconds.
type ScaleBy struct {
	Duration float64
	X, Y     float64
}

// FlipX sets the sprite's horizontal flip immediately.
type FlipX struct {
	Flip bool
}

// FlipY sets the sprite's vertical flip immediately.
type FlipY struct {
	Flip bool
}

// Show makes the sprite visible immediately.
type Show struct{}

// Hide makes the sprite invisible immediately.
type Hide struct{}

// ToggleVisibility flips the sprite's visibility immediately.
type ToggleVisibility struct{}

// Blink toggles visibility 2*Times times, evenly spread over Duration
// seconds, so the sprite ends as visible as it started.
type Blink struct {
	Duration float64
	Times    int
}

// FadeIn tweens opacity to 1 over Duration seconds.
type FadeIn struct {
	Duration float64
}

// FadeOut tweens opacity to 0 over Duration seconds.
type FadeOut struct {
	Duration float64
}

// FadeTo tweens opacity to Opacity over Duration seconds.
type FadeTo struct {
	Duration float64
	Opacity  float64
}

// Ease runs Animation with its progress remapped through Func. Only the
// continuous animations (move, rotate, scale, fade) are affected; anything
// else runs unchanged.
type Ease struct {
	Func      easing.Func
	Animation Animation
}

// Callback is a side effect run by a Call animation.
type Callback interface {
	Invoke(s *Sprite)
}

// CallbackFunc adapts a function to Callback.
type CallbackFunc func(s *Sprite)

// Invoke implements Callback.
func (f CallbackFunc) Invoke(s *Sprite) { f(s) }

// Call invokes a callback once and finishes immediately. Calls compare by
// identity: copies of one Call are equal, two calls built separately are
// not, even around the same callback.
type Call struct {
	box *callbackBox
}

type callbackBox struct {
	cb Callback
}

// NewCall boxes cb as a Call animation.
func NewCall(cb Callback) Call {
	return Call{box: &callbackBox{cb: cb}}
}

// CallFunc boxes fn as a Call animation.
func CallFunc(fn func(s *Sprite)) Call {
	return NewCall(CallbackFunc(fn))
}

// Callback returns the boxed callback, or nil for the zero Call.
func (c Call) Callback() Callback {
	if c.box == nil {
		return nil
	}
	return c.box.cb
}

// ErrInvalidAnimation is returned (wrapped) by Validate.
var ErrInvalidAnimation = errors.New("sprout: invalid animation")

// Validate reports animations that cannot run meaningfully: negative or NaN
// durations, NaN targets, negative blink counts, unknown easing functions
// and empty Ease or Call values. Zero durations are valid and finish on the
// first tick.
func Validate(a Animation) error {
	switch a := a.(type) {
	case nil:
		return fmt.Errorf("%w: nil animation", ErrInvalidAnimation)
	case MoveTo:
		return checkValues(a, a.Duration, a.X, a.Y)
	case MoveBy:
		return checkValues(a, a.Duration, a.X, a.Y)
	case RotateTo:
		return checkValues(a, a.Duration, a.Deg)
	case RotateBy:
		return checkValues(a, a.Duration, a.Deg)
	case ScaleTo:
		return checkValues(a, a.Duration, a.X, a.Y)
	case ScaleBy:
		return checkValues(a, a.Duration, a.X, a.Y)
	case FadeIn:
		return checkValues(a, a.Duration)
	case FadeOut:
		return checkValues(a, a.Duration)
	case FadeTo:
		return checkValues(a, a.Duration, a.Opacity)
	case Blink:
		if a.Times < 0 {
			return fmt.Errorf("%w: %T times %d", ErrInvalidAnimation, a, a.Times)
		}
		return checkValues(a, a.Duration)
	case Ease:
		if !a.Func.Valid() {
			return fmt.Errorf("%w: %v", ErrInvalidAnimation, a.Func)
		}
		if a.Animation == nil {
			return fmt.Errorf("%w: ease without animation", ErrInvalidAnimation)
		}
		return Validate(a.Animation)
	case Call:
		if a.Callback() == nil {
			return fmt.Errorf("%w: call without callback", ErrInvalidAnimation)
		}
	}
	return nil
}

// ValidateBehavior validates every animation in b.
func ValidateBehavior(b Behavior) error {
	return b.Walk(Validate)
}

func checkValues(a Animation, duration float64, values ...float64) error {
	if math.IsNaN(duration) || duration < 0 {
		return fmt.Errorf("%w: %T duration %v", ErrInvalidAnimation, a, duration)
	}
	for _, v := range values {
		if math.IsNaN(v) {
			return fmt.Errorf("%w: %T has NaN target", ErrInvalidAnimation, a)
		}
	}
	return nil
}
