package sprout

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/phanxgames/sprout/behavior"
)

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, animation lifecycle events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event AnimationEvent)
}

// AnimationEvent carries animation lifecycle data for the ECS bridge.
type AnimationEvent struct {
	Type     EventType
	SpriteID uuid.UUID
	// Behavior is the behavior that finished, failed or was stopped. Zero for
	// EventSpriteRemoved.
	Behavior Behavior
}

type behaviorState = behavior.State[Animation, AnimationState]

// entry is one registered behavior on one sprite.
type entry struct {
	id       uuid.UUID
	behavior Behavior
	state    *behaviorState
	paused   bool
	done     bool
}

// Scene owns a forest of root sprites and schedules the behaviors running on
// them. Behaviors reference sprites by id only; a sprite's registrations are
// dropped when it leaves the scene.
//
// A Scene is not safe for concurrent use.
type Scene struct {
	children      []*Sprite
	childrenIndex map[uuid.UUID]int

	// Flat index of every sprite attached to the scene, at any depth.
	sprites map[uuid.UUID]*Sprite

	// Registry. order keeps ids in first-registration order so ticks are
	// deterministic.
	running  map[uuid.UUID][]*entry
	order    []uuid.UUID
	removing map[uuid.UUID]struct{}

	store EntityStore
	log   *zap.Logger
	debug bool
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{
		childrenIndex: make(map[uuid.UUID]int),
		sprites:       make(map[uuid.UUID]*Sprite),
		running:       make(map[uuid.UUID][]*entry),
		removing:      make(map[uuid.UUID]struct{}),
		log:           zap.NewNop(),
	}
}

// --- Sprite tree ---

// AddChild adds sp as a root sprite and returns its id. Panics if sp is nil
// or already has an owner.
func (s *Scene) AddChild(sp *Sprite) uuid.UUID {
	if sp == nil {
		panic("sprout: cannot add nil sprite to scene")
	}
	if sp.parent != nil || sp.scene != nil {
		panic("sprout: sprite already has an owner; remove it first")
	}
	s.children = append(s.children, sp)
	s.childrenIndex[sp.id] = len(s.children) - 1
	s.attach(sp)
	if s.debug {
		s.debugCheckRootCount()
	}
	return sp.id
}

// RemoveChild detaches the sprite with the given id, at any depth, and
// returns it. Every animation registered on the removed subtree is stopped.
// Returns nil when no such sprite is in the scene.
func (s *Scene) RemoveChild(id uuid.UUID) *Sprite {
	if i, ok := s.childrenIndex[id]; ok {
		sp := s.children[i]
		s.children = removeAt(s.children, i)
		delete(s.childrenIndex, id)
		reindex(s.children, s.childrenIndex, i)
		s.detach(sp)
		return sp
	}
	for _, root := range s.children {
		if removed := root.RemoveChild(id); removed != nil {
			return removed
		}
	}
	return nil
}

// Child finds the sprite with the given id at any depth. Returns nil when not
// found. The returned sprite may be mutated in place.
func (s *Scene) Child(id uuid.UUID) *Sprite {
	return s.sprites[id]
}

// Children returns the root sprites. The returned slice MUST NOT be mutated.
func (s *Scene) Children() []*Sprite {
	return s.children
}

// Len returns the number of sprites in the scene at any depth.
func (s *Scene) Len() int {
	return len(s.sprites)
}

// FindByName returns the first sprite named name, searching roots in order
// and each subtree depth first. Nil if none matches.
func (s *Scene) FindByName(name string) *Sprite {
	for _, root := range s.children {
		if found := root.FindByName(name); found != nil {
			return found
		}
	}
	return nil
}

// attach registers sp's subtree in the flat index.
func (s *Scene) attach(sp *Sprite) {
	sp.walk(func(n *Sprite) {
		n.scene = s
		s.sprites[n.id] = n
	})
}

// detach stops every registration of sp's subtree and unregisters it.
func (s *Scene) detach(sp *Sprite) {
	sp.walk(func(n *Sprite) {
		s.StopAll(n.id)
		delete(s.sprites, n.id)
		delete(s.removing, n.id)
		n.scene = nil
	})
}

// --- Scheduling ---

// Run registers b as a new animation on the sprite with the given id and
// returns a handle to it. Any number of behaviors may run on one sprite;
// they are independent. The behavior starts on the next Update.
//
// Running on an id that is not in the scene logs a warning and returns an
// inactive handle.
func (s *Scene) Run(id uuid.UUID, b Behavior) *Handle {
	e := &entry{id: id, behavior: b}
	if _, ok := s.sprites[id]; !ok {
		s.log.Warn("run on unknown sprite", zap.Stringer("sprite", id))
		e.done = true
		return &Handle{scene: s, e: e}
	}
	e.state = behavior.NewState[Animation, AnimationState](b)
	list, ok := s.running[id]
	if !ok {
		s.order = append(s.order, id)
	}
	s.running[id] = append(list, e)
	return &Handle{scene: s, e: e}
}

// Pause pauses the first registered animation on id that is structurally
// equal to b, and moves it to the end of the sprite's list. Reports whether
// a match was found.
func (s *Scene) Pause(id uuid.UUID, b Behavior) bool {
	return s.setPaused(id, b, func(bool) bool { return true })
}

// Resume resumes the first animation on id equal to b and moves it to the
// end of the sprite's list.
func (s *Scene) Resume(id uuid.UUID, b Behavior) bool {
	return s.setPaused(id, b, func(bool) bool { return false })
}

// Toggle flips the paused flag of the first animation on id equal to b and
// moves it to the end of the sprite's list.
func (s *Scene) Toggle(id uuid.UUID, b Behavior) bool {
	return s.setPaused(id, b, func(p bool) bool { return !p })
}

// setPaused moves the first match to the end of the list. Because of the
// move, repeated pause/resume of duplicate behaviors alternates between them.
func (s *Scene) setPaused(id uuid.UUID, b Behavior, next func(bool) bool) bool {
	list := s.running[id]
	i := s.find(list, b)
	if i < 0 {
		return false
	}
	e := list[i]
	e.paused = next(e.paused)
	list = slices.Delete(list, i, i+1)
	s.running[id] = append(list, e)
	return true
}

// Stop removes the first animation on id equal to b. Reports whether a match
// was found.
func (s *Scene) Stop(id uuid.UUID, b Behavior) bool {
	i := s.find(s.running[id], b)
	if i < 0 {
		return false
	}
	s.stopEntry(s.running[id][i])
	return true
}

// StopAll removes every animation registered on id and returns how many were
// stopped.
func (s *Scene) StopAll(id uuid.UUID) int {
	list, ok := s.running[id]
	if !ok {
		return 0
	}
	delete(s.running, id)
	s.removeOrder(id)
	n := 0
	for _, e := range list {
		if e.done {
			continue
		}
		e.done = true
		n++
		s.emit(AnimationEvent{Type: EventAnimationStopped, SpriteID: id, Behavior: e.behavior})
	}
	return n
}

// RemoveChildWhenDone removes the sprite as soon as it has no running
// animations: immediately if it has none now, otherwise after the tick in
// which its count reaches zero. Paused animations count as running. Running
// more animations on a marked sprite does not unmark it. Reports whether the
// sprite is in the scene.
func (s *Scene) RemoveChildWhenDone(id uuid.UUID) bool {
	if _, ok := s.sprites[id]; !ok {
		return false
	}
	if n, _ := s.RunningFor(id); n == 0 {
		s.removeSprite(id)
		return true
	}
	s.removing[id] = struct{}{}
	return true
}

// Running returns the number of registered animations across all sprites,
// paused ones included.
func (s *Scene) Running() int {
	n := 0
	for _, list := range s.running {
		n += countActive(list)
	}
	return n
}

// RunningFor returns the number of animations registered on id. The boolean
// is false when the sprite is not in the scene, which distinguishes "no
// animations" from "no such sprite".
func (s *Scene) RunningFor(id uuid.UUID) (int, bool) {
	if _, ok := s.sprites[id]; !ok {
		return 0, false
	}
	return countActive(s.running[id]), true
}

// Update advances every unpaused animation by dt seconds. Animations that
// finish or fail are dropped. Afterwards, sprites marked with
// RemoveChildWhenDone whose count reached zero are removed.
//
// Callbacks run during Update may add, stop or remove freely: a stopped
// animation is not ticked again, and an animation registered mid-tick starts
// on the next Update.
func (s *Scene) Update(dt float64) {
	var stats tickStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	// Every entry ticked below comes from the pre-tick registry, whichever
	// sprite a callback registers on.
	order := slices.Clone(s.order)
	snapshot := make(map[uuid.UUID][]*entry, len(order))
	for _, id := range order {
		snapshot[id] = slices.Clone(s.running[id])
	}

	for _, id := range order {
		list := snapshot[id]
		sp := s.sprites[id]
		if len(list) == 0 || sp == nil {
			continue
		}
		leaf := s.leaf(sp)
		for _, e := range list {
			if e.done || e.paused {
				continue
			}
			stats.ticked++
			status, _ := e.state.Tick(dt, leaf)
			if e.done {
				// Stopped by a callback during its own tick.
				continue
			}
			switch status {
			case behavior.Success:
				e.done = true
				stats.finished++
				s.emit(AnimationEvent{Type: EventAnimationFinished, SpriteID: id, Behavior: e.behavior})
			case behavior.Failure:
				e.done = true
				stats.failed++
				s.emit(AnimationEvent{Type: EventAnimationFailed, SpriteID: id, Behavior: e.behavior})
			}
		}
	}

	s.compact()
	stats.pruned = s.prune()

	if s.debug {
		stats.elapsed = time.Since(t0)
		s.debugLog(stats)
	}
}

// leaf returns the leaf evaluator for animations on sp. The tween state is
// created lazily from the live sprite the first time an action is reached.
func (s *Scene) leaf(sp *Sprite) behavior.Leaf[Animation, AnimationState] {
	return func(dt float64, a Animation, st *AnimationState) (behavior.Status, float64) {
		if sp.scene != s {
			// Removed by a callback earlier in this tick; the entry is
			// already stopped.
			return behavior.Running, 0
		}
		if *st == nil {
			*st = NewState(a, sp)
		}
		next, status, leftover := (*st).Update(sp, dt)
		*st = next
		return status, leftover
	}
}

// compact drops finished entries and empty lists.
func (s *Scene) compact() {
	for _, id := range slices.Clone(s.order) {
		list := slices.DeleteFunc(s.running[id], func(e *entry) bool { return e.done })
		if len(list) == 0 {
			delete(s.running, id)
			s.removeOrder(id)
			continue
		}
		s.running[id] = list
	}
}

// prune removes marked sprites that have no animations left and returns how
// many were removed.
func (s *Scene) prune() int {
	n := 0
	for id := range s.removing {
		if _, ok := s.sprites[id]; !ok {
			delete(s.removing, id)
			continue
		}
		if count, _ := s.RunningFor(id); count == 0 {
			s.removeSprite(id)
			n++
		}
	}
	return n
}

func (s *Scene) removeSprite(id uuid.UUID) {
	sp := s.sprites[id]
	if sp == nil {
		return
	}
	sp.RemoveFromParent()
	s.emit(AnimationEvent{Type: EventSpriteRemoved, SpriteID: id})
}

func (s *Scene) stopEntry(e *entry) {
	if e.done {
		return
	}
	e.done = true
	list := slices.DeleteFunc(s.running[e.id], func(o *entry) bool { return o == e })
	if len(list) == 0 {
		delete(s.running, e.id)
		s.removeOrder(e.id)
	} else {
		s.running[e.id] = list
	}
	s.emit(AnimationEvent{Type: EventAnimationStopped, SpriteID: e.id, Behavior: e.behavior})
}

// find returns the index of the first live entry equal to b, or -1.
func (s *Scene) find(list []*entry, b Behavior) int {
	return slices.IndexFunc(list, func(e *entry) bool {
		return !e.done && e.behavior.Equal(b)
	})
}

func (s *Scene) removeOrder(id uuid.UUID) {
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
}

func (s *Scene) emit(ev AnimationEvent) {
	if s.store != nil {
		s.store.EmitEvent(ev)
	}
}

func countActive(list []*entry) int {
	n := 0
	for _, e := range list {
		if !e.done {
			n++
		}
	}
	return n
}

// --- Configuration ---

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// SetLogger sets the logger used for warnings and debug output. A nil logger
// disables logging.
func (s *Scene) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	s.log = log
}

// Logger returns the scene's logger.
func (s *Scene) Logger() *zap.Logger {
	return s.log
}

// SetDebugMode enables or disables debug mode. When enabled, tree depth and
// child count warnings are logged and per-tick stats are logged at debug
// level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// --- Handle ---

// Handle refers to exactly one animation registered with Scene.Run. Unlike
// the structural lookups on Scene, handle operations never match a different
// animation and never reorder the sprite's list.
type Handle struct {
	scene *Scene
	e     *entry
}

// SpriteID returns the id the animation was registered on.
func (h *Handle) SpriteID() uuid.UUID { return h.e.id }

// Behavior returns the registered behavior.
func (h *Handle) Behavior() Behavior { return h.e.behavior }

// Active reports whether the animation is still registered: it has not
// finished, failed or been stopped.
func (h *Handle) Active() bool { return !h.e.done }

// Paused reports whether the animation is paused.
func (h *Handle) Paused() bool { return h.e.paused }

// Pause pauses the animation. No-op once inactive.
func (h *Handle) Pause() {
	if !h.e.done {
		h.e.paused = true
	}
}

// Resume resumes the animation. No-op once inactive.
func (h *Handle) Resume() {
	if !h.e.done {
		h.e.paused = false
	}
}

// Toggle flips the paused flag. No-op once inactive.
func (h *Handle) Toggle() {
	if !h.e.done {
		h.e.paused = !h.e.paused
	}
}

// Stop removes the animation. Reports whether it was still active.
func (h *Handle) Stop() bool {
	if h.e.done {
		return false
	}
	h.scene.stopEntry(h.e)
	return true
}
