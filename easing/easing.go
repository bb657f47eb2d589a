// Package easing maps normalized tween progress through the easing curves of
// [gween]. Every curve is selected by a [Func] tag and evaluated over a
// progress value clamped to [0, 1], so [Ease] is total over all real inputs.
//
// [gween]: https://github.com/tanema/gween
package easing

import (
	"fmt"
	"math"

	"github.com/tanema/gween/ease"
)

// Func identifies an easing curve.
type Func uint8

const (
	Linear Func = iota
	QuadraticIn
	QuadraticOut
	QuadraticInOut
	CubicIn
	CubicOut
	CubicInOut
	QuarticIn
	QuarticOut
	QuarticInOut
	QuinticIn
	QuinticOut
	QuinticInOut
	SineIn
	SineOut
	SineInOut
	CircularIn
	CircularOut
	CircularInOut
	ExponentialIn
	ExponentialOut
	ExponentialInOut
	ElasticIn
	ElasticOut
	ElasticInOut
	BackIn
	BackOut
	BackInOut
	BounceIn
	BounceOut
	BounceInOut

	numFuncs
)

var curves = [numFuncs]ease.TweenFunc{
	Linear:           ease.Linear,
	QuadraticIn:      ease.InQuad,
	QuadraticOut:     ease.OutQuad,
	QuadraticInOut:   ease.InOutQuad,
	CubicIn:          ease.InCubic,
	CubicOut:         ease.OutCubic,
	CubicInOut:       ease.InOutCubic,
	QuarticIn:        ease.InQuart,
	QuarticOut:       ease.OutQuart,
	QuarticInOut:     ease.InOutQuart,
	QuinticIn:        ease.InQuint,
	QuinticOut:       ease.OutQuint,
	QuinticInOut:     ease.InOutQuint,
	SineIn:           ease.InSine,
	SineOut:          ease.OutSine,
	SineInOut:        ease.InOutSine,
	CircularIn:       ease.InCirc,
	CircularOut:      ease.OutCirc,
	CircularInOut:    ease.InOutCirc,
	ExponentialIn:    ease.InExpo,
	ExponentialOut:   ease.OutExpo,
	ExponentialInOut: ease.InOutExpo,
	ElasticIn:        ease.InElastic,
	ElasticOut:       ease.OutElastic,
	ElasticInOut:     ease.InOutElastic,
	BackIn:           ease.InBack,
	BackOut:          ease.OutBack,
	BackInOut:        ease.InOutBack,
	BounceIn:         ease.InBounce,
	BounceOut:        ease.OutBounce,
	BounceInOut:      ease.InOutBounce,
}

var names = [numFuncs]string{
	Linear:           "linear",
	QuadraticIn:      "quadratic_in",
	QuadraticOut:     "quadratic_out",
	QuadraticInOut:   "quadratic_in_out",
	CubicIn:          "cubic_in",
	CubicOut:         "cubic_out",
	CubicInOut:       "cubic_in_out",
	QuarticIn:        "quartic_in",
	QuarticOut:       "quartic_out",
	QuarticInOut:     "quartic_in_out",
	QuinticIn:        "quintic_in",
	QuinticOut:       "quintic_out",
	QuinticInOut:     "quintic_in_out",
	SineIn:           "sine_in",
	SineOut:          "sine_out",
	SineInOut:        "sine_in_out",
	CircularIn:       "circular_in",
	CircularOut:      "circular_out",
	CircularInOut:    "circular_in_out",
	ExponentialIn:    "exponential_in",
	ExponentialOut:   "exponential_out",
	ExponentialInOut: "exponential_in_out",
	ElasticIn:        "elastic_in",
	ElasticOut:       "elastic_out",
	ElasticInOut:     "elastic_in_out",
	BackIn:           "back_in",
	BackOut:          "back_out",
	BackInOut:        "back_in_out",
	BounceIn:         "bounce_in",
	BounceOut:        "bounce_out",
	BounceInOut:      "bounce_in_out",
}

// Ease returns the eased progress for p. p is clamped to [0, 1] first; NaN is
// treated as 0. Ease(fn, 0) is exactly 0 and Ease(fn, 1) exactly 1. Unknown
// tags fall back to Linear.
func Ease(fn Func, p float64) float64 {
	// Endpoints are pinned: some gween curves (InExpo) stop short of 1.
	switch {
	case math.IsNaN(p) || p <= 0:
		return 0
	case p >= 1:
		return 1
	}
	return float64(fn.TweenFunc()(float32(p), 0, 1, 1))
}

// TweenFunc returns the underlying gween curve, for callers that drive
// gween tweens directly.
func (fn Func) TweenFunc() ease.TweenFunc {
	if !fn.Valid() {
		return ease.Linear
	}
	return curves[fn]
}

// Valid reports whether fn names a known curve.
func (fn Func) Valid() bool {
	return fn < numFuncs
}

func (fn Func) String() string {
	if !fn.Valid() {
		return fmt.Sprintf("easing.Func(%d)", uint8(fn))
	}
	return names[fn]
}

// MarshalText implements encoding.TextMarshaler.
func (fn Func) MarshalText() ([]byte, error) {
	if !fn.Valid() {
		return nil, fmt.Errorf("easing: unknown func %d", uint8(fn))
	}
	return []byte(names[fn]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts the snake
// case names produced by String.
func (fn *Func) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*fn = parsed
	return nil
}

// Parse looks up a curve by name.
func Parse(name string) (Func, error) {
	for i, n := range names {
		if n == name {
			return Func(i), nil
		}
	}
	return Linear, fmt.Errorf("easing: unknown func %q", name)
}
