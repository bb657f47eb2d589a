package sprout

import "fmt"

// Color is an RGB tint with components in [0, 1]. Opacity is carried
// separately on the sprite.
type Color struct {
	R, G, B float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// EventType identifies a kind of scene animation event.
type EventType uint8

const (
	EventAnimationFinished EventType = iota // a behavior finished with Success
	EventAnimationFailed                    // a behavior finished with Failure
	EventAnimationStopped                   // a behavior was stopped before finishing
	EventSpriteRemoved                      // a sprite left the tree after RemoveChildWhenDone
)

func (e EventType) String() string {
	switch e {
	case EventAnimationFinished:
		return "animation_finished"
	case EventAnimationFailed:
		return "animation_failed"
	case EventAnimationStopped:
		return "animation_stopped"
	case EventSpriteRemoved:
		return "sprite_removed"
	default:
		return fmt.Sprintf("sprout.EventType(%d)", uint8(e))
	}
}
