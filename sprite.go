package sprout

import (
	"github.com/google/uuid"
)

// Sprite is a node of the scene tree: a shared texture plus the visual
// properties the animation system tweens. A sprite exclusively owns its
// children; textures are shared and never owned by a single sprite.
//
// Property fields may be written directly. Sprites must only be touched from
// the goroutine that ticks their scene.
type Sprite struct {
	// Identity
	id   uuid.UUID
	Name string

	// Hierarchy
	parent        *Sprite
	children      []*Sprite
	childrenIndex map[uuid.UUID]int
	scene         *Scene

	// Transform (local). Rotation is in degrees.
	X, Y             float64
	Rotation         float64
	ScaleX, ScaleY   float64
	AnchorX, AnchorY float64

	// Appearance
	Color   Color
	Opacity float64
	Visible bool
	FlipX   bool
	FlipY   bool

	texture Texture

	// Metadata
	UserData any
}

// NewSprite creates a sprite that draws texture. The anchor defaults to the
// texture's center.
func NewSprite(name string, texture Texture) *Sprite {
	return &Sprite{
		id:            uuid.New(),
		Name:          name,
		childrenIndex: make(map[uuid.UUID]int),
		ScaleX:        1,
		ScaleY:        1,
		AnchorX:       0.5,
		AnchorY:       0.5,
		Color:         ColorWhite,
		Opacity:       1,
		Visible:       true,
		texture:       texture,
	}
}

// NewContainer creates a sprite with no texture. It draws nothing itself but
// still transforms and draws its children.
func NewContainer(name string) *Sprite {
	return NewSprite(name, nil)
}

// ID returns the sprite's identity. IDs are never reused.
func (s *Sprite) ID() uuid.UUID {
	return s.id
}

// Parent returns the owning sprite, or nil for scene roots and detached sprites.
func (s *Sprite) Parent() *Sprite {
	return s.parent
}

// Scene returns the scene this sprite is attached to, or nil.
func (s *Sprite) Scene() *Scene {
	return s.scene
}

// Texture returns the sprite's texture (nil for containers).
func (s *Sprite) Texture() Texture {
	return s.texture
}

// SetTexture replaces the sprite's texture.
func (s *Sprite) SetTexture(t Texture) {
	s.texture = t
}

// --- Tree manipulation ---

// AddChild appends child to this sprite's children and returns its id.
// Panics if child is nil, already has an owner, or is an ancestor of this
// sprite.
func (s *Sprite) AddChild(child *Sprite) uuid.UUID {
	if child == nil {
		panic("sprout: cannot add nil child")
	}
	if child.parent != nil || child.scene != nil {
		panic("sprout: child already has an owner; remove it first")
	}
	if isAncestor(child, s) {
		panic("sprout: adding child would create a cycle")
	}
	child.parent = s
	s.children = append(s.children, child)
	s.childrenIndex[child.id] = len(s.children) - 1
	if s.scene != nil {
		s.scene.attach(child)
		if s.scene.debug {
			s.scene.debugCheckTreeDepth(child)
			s.scene.debugCheckChildCount(s)
		}
	}
	return child.id
}

// RemoveChild detaches the sprite with the given id from this sprite's
// children or any deeper descendant and returns it, or nil when no such
// sprite exists below this one. If this sprite belongs to a scene, every
// animation registered on the removed subtree is stopped first.
func (s *Sprite) RemoveChild(id uuid.UUID) *Sprite {
	if i, ok := s.childrenIndex[id]; ok {
		return s.removeChildAt(i)
	}
	for _, child := range s.children {
		if removed := child.RemoveChild(id); removed != nil {
			return removed
		}
	}
	return nil
}

// RemoveFromParent detaches this sprite from its parent or, for a root, from
// its scene. No-op for detached sprites.
func (s *Sprite) RemoveFromParent() {
	switch {
	case s.parent != nil:
		s.parent.removeChildAt(s.parent.childrenIndex[s.id])
	case s.scene != nil:
		s.scene.RemoveChild(s.id)
	}
}

// Child finds the sprite with the given id among this sprite's children or
// deeper descendants. Returns nil when not found. The returned sprite may be
// mutated in place.
func (s *Sprite) Child(id uuid.UUID) *Sprite {
	if i, ok := s.childrenIndex[id]; ok {
		return s.children[i]
	}
	for _, child := range s.children {
		if found := child.Child(id); found != nil {
			return found
		}
	}
	return nil
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (s *Sprite) Children() []*Sprite {
	return s.children
}

// NumChildren returns the number of direct children.
func (s *Sprite) NumChildren() int {
	return len(s.children)
}

// ChildAt returns the direct child at the given index.
func (s *Sprite) ChildAt(index int) *Sprite {
	return s.children[index]
}

// --- Helpers ---

// removeChildAt removes the direct child at index i, re-indexes the tail of
// the child list and detaches the child's subtree from the scene.
func (s *Sprite) removeChildAt(i int) *Sprite {
	child := s.children[i]
	s.children = removeAt(s.children, i)
	delete(s.childrenIndex, child.id)
	reindex(s.children, s.childrenIndex, i)
	child.parent = nil
	if s.scene != nil {
		s.scene.detach(child)
	}
	return child
}

// removeAt removes list[i] with copy+nil so the backing array does not retain
// a dangling pointer.
func removeAt(list []*Sprite, i int) []*Sprite {
	copy(list[i:], list[i+1:])
	list[len(list)-1] = nil
	return list[:len(list)-1]
}

// reindex rewrites index entries for list[from:]. Entries before from are
// unaffected by a removal at from.
func reindex(list []*Sprite, index map[uuid.UUID]int, from int) {
	for i := from; i < len(list); i++ {
		index[list[i].id] = i
	}
}

// isAncestor reports whether candidate is sprite or one of its ancestors.
func isAncestor(candidate, sprite *Sprite) bool {
	for p := sprite; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// FindByName returns s or the first descendant named name, depth first.
func (s *Sprite) FindByName(name string) *Sprite {
	if s.Name == name {
		return s
	}
	for _, child := range s.children {
		if found := child.FindByName(name); found != nil {
			return found
		}
	}
	return nil
}

// walk calls fn for s and every descendant, parents first.
func (s *Sprite) walk(fn func(*Sprite)) {
	fn(s)
	for _, child := range s.children {
		child.walk(fn)
	}
}
