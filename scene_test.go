package sprout

import (
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/phanxgames/sprout/behavior"
)

type eventLog struct {
	events []AnimationEvent
}

func (l *eventLog) EmitEvent(e AnimationEvent) {
	l.events = append(l.events, e)
}

func (l *eventLog) types() []EventType {
	out := make([]EventType, len(l.events))
	for i, e := range l.events {
		out[i] = e.Type
	}
	return out
}

// probe is an animation that records how often its state is updated. Its
// state stays non-nil after finishing so a second update would be visible.
type probe struct {
	rec *probeRecord
}

type probeRecord struct {
	duration  float64
	updates   int
	afterDone int
}

type probeState struct {
	rec     *probeRecord
	elapsed float64
	done    bool
}

func (p probe) newState(*Sprite) AnimationState {
	return &probeState{rec: p.rec}
}

func (p *probeState) Update(_ *Sprite, dt float64) (AnimationState, behavior.Status, float64) {
	p.rec.updates++
	if p.done {
		p.rec.afterDone++
	}
	p.elapsed += dt
	if p.elapsed >= p.rec.duration {
		p.done = true
		return p, behavior.Success, p.elapsed - p.rec.duration
	}
	return p, behavior.Running, 0
}

func newSceneWithSprite(t *testing.T) (*Scene, *Sprite, uuid.UUID) {
	t.Helper()
	s := NewScene()
	sp := newTestSprite("s")
	return s, sp, s.AddChild(sp)
}

func assertRunningFor(t *testing.T, s *Scene, id uuid.UUID, want int, wantOK bool) {
	t.Helper()
	n, ok := s.RunningFor(id)
	if n != want || ok != wantOK {
		t.Errorf("RunningFor = (%d, %v), want (%d, %v)", n, ok, want, wantOK)
	}
}

// --- Deferred removal ---

func TestFadeOutDeferredRemoval(t *testing.T) {
	s, _, id := newSceneWithSprite(t)
	s.Run(id, Action(FadeOut{Duration: 1}))

	if !s.RemoveChildWhenDone(id) {
		t.Fatal("RemoveChildWhenDone reported unknown sprite")
	}
	if s.Child(id) == nil {
		t.Fatal("sprite removed before its animation finished")
	}

	s.Update(0.9)
	if s.Child(id) == nil {
		t.Fatal("sprite removed after 0.9s")
	}
	assertRunningFor(t, s, id, 1, true)

	s.Update(0.2)
	if s.Child(id) != nil {
		t.Error("sprite still in tree after 1.1s")
	}
	if len(s.Children()) != 0 {
		t.Errorf("roots = %d, want 0", len(s.Children()))
	}
	assertRunningFor(t, s, id, 0, false)
	if s.Running() != 0 {
		t.Errorf("Running = %d, want 0", s.Running())
	}
}

func TestRemoveChildWhenDoneImmediate(t *testing.T) {
	s, _, id := newSceneWithSprite(t)
	log := &eventLog{}
	s.SetEntityStore(log)

	s.RemoveChildWhenDone(id)
	if s.Child(id) != nil {
		t.Error("idle sprite not removed synchronously")
	}
	if got := log.types(); len(got) != 1 || got[0] != EventSpriteRemoved {
		t.Errorf("events = %v", got)
	}
	if s.RemoveChildWhenDone(id) {
		t.Error("RemoveChildWhenDone on a removed sprite reported true")
	}
}

func TestPausedAnimationPreventsRemoval(t *testing.T) {
	s, _, id := newSceneWithSprite(t)
	b := Action(FadeOut{Duration: 1})
	s.Run(id, b)
	s.Pause(id, b)
	s.RemoveChildWhenDone(id)

	for range 3 {
		s.Update(10)
	}
	if s.Child(id) == nil {
		t.Fatal("sprite with a paused animation was removed")
	}

	s.Resume(id, b)
	s.Update(1)
	if s.Child(id) != nil {
		t.Error("sprite not removed after resumed animation finished")
	}
}

func TestMarkedSpriteStaysMarked(t *testing.T) {
	s, _, id := newSceneWithSprite(t)
	s.Run(id, Action(FadeOut{Duration: 1}))
	s.RemoveChildWhenDone(id)
	s.Update(0.5)

	s.Run(id, Action(MoveBy{Duration: 2, X: 1}))
	s.Update(0.5)
	if s.Child(id) == nil {
		t.Fatal("removed while a second animation was running")
	}
	s.Update(1.5)
	if s.Child(id) != nil {
		t.Error("re-registering unmarked the sprite")
	}
}

// --- Pause / resume ---

func TestPauseFreezesAndResumeContinues(t *testing.T) {
	s, sp, id := newSceneWithSprite(t)
	b := Action(MoveTo{Duration: 1, X: 100})
	s.Run(id, b)

	s.Update(0.25)
	assertNear(t, "X before pause", sp.X, 25)

	if !s.Pause(id, b) {
		t.Fatal("Pause found no match")
	}
	for range 5 {
		s.Update(1)
	}
	if sp.X != 25 {
		t.Errorf("X moved while paused: %v", sp.X)
	}

	s.Resume(id, b)
	s.Update(0.25)
	assertNear(t, "X after resume", sp.X, 50)
}

func TestToggle(t *testing.T) {
	s, sp, id := newSceneWithSprite(t)
	b := Action(MoveBy{Duration: 1, X: 10})
	s.Run(id, b)

	s.Toggle(id, b)
	s.Update(0.5)
	if sp.X != 0 {
		t.Errorf("X = %v while toggled off", sp.X)
	}
	s.Toggle(id, b)
	s.Update(0.5)
	assertNear(t, "X", sp.X, 5)

	if s.Toggle(id, Action(Hide{})) {
		t.Error("Toggle matched an unregistered behavior")
	}
}

func TestStructuralLookupReordersToEnd(t *testing.T) {
	s, _, id := newSceneWithSprite(t)
	b := Action(MoveBy{Duration: 1, X: 1})
	h1 := s.Run(id, b)
	h2 := s.Run(id, b)

	order := func() []*entry { return s.running[id] }
	expect := func(step string, first, second *Handle, p1, p2 bool) {
		t.Helper()
		list := order()
		if len(list) != 2 || list[0] != first.e || list[1] != second.e {
			t.Fatalf("%s: wrong order", step)
		}
		if first.Paused() != p1 || second.Paused() != p2 {
			t.Fatalf("%s: paused = (%v, %v), want (%v, %v)", step, first.Paused(), second.Paused(), p1, p2)
		}
	}

	// The first structural match is acted upon and moved to the end, so
	// repeated calls alternate between duplicates.
	s.Pause(id, b)
	expect("pause 1", h2, h1, false, true)
	s.Pause(id, b)
	expect("pause 2", h1, h2, true, true)
	s.Resume(id, b)
	expect("resume 1", h2, h1, true, false)
	s.Resume(id, b)
	expect("resume 2", h1, h2, false, false)
}

// --- Stop ---

func TestStopRemovesFirstMatch(t *testing.T) {
	s, _, id := newSceneWithSprite(t)
	log := &eventLog{}
	s.SetEntityStore(log)
	b := Action(FadeOut{Duration: 1})
	h1 := s.Run(id, b)
	h2 := s.Run(id, b)

	if !s.Stop(id, b) {
		t.Fatal("Stop found no match")
	}
	if h1.Active() || !h2.Active() {
		t.Errorf("active = (%v, %v), want (false, true)", h1.Active(), h2.Active())
	}
	assertRunningFor(t, s, id, 1, true)
	if got := log.types(); len(got) != 1 || got[0] != EventAnimationStopped {
		t.Errorf("events = %v", got)
	}
	if s.Stop(id, Action(Show{})) {
		t.Error("Stop matched an unregistered behavior")
	}
}

func TestStopAll(t *testing.T) {
	s, sp, id := newSceneWithSprite(t)
	s.Run(id, Action(MoveBy{Duration: 1, X: 10}))
	s.Run(id, Action(FadeOut{Duration: 1}))

	if n := s.StopAll(id); n != 2 {
		t.Errorf("StopAll = %d, want 2", n)
	}
	s.Update(1)
	if sp.X != 0 || sp.Opacity != 1 {
		t.Error("stopped animations still ran")
	}
	assertRunningFor(t, s, id, 0, true)
	if n := s.StopAll(id); n != 0 {
		t.Errorf("second StopAll = %d", n)
	}
}

// --- Handles ---

func TestHandleControlsExactEntry(t *testing.T) {
	s, sp, id := newSceneWithSprite(t)
	b := Action(MoveBy{Duration: 1, X: 10})
	h1 := s.Run(id, b)
	h2 := s.Run(id, b)

	h2.Pause()
	if list := s.running[id]; list[0] != h1.e || list[1] != h2.e {
		t.Error("handle pause reordered the list")
	}
	s.Update(0.5)
	assertNear(t, "X", sp.X, 5)

	h2.Toggle()
	if h2.Paused() {
		t.Error("Toggle did not resume")
	}
	h2.Pause()
	if !h2.Stop() {
		t.Error("Stop on active handle returned false")
	}
	if h2.Stop() {
		t.Error("second Stop returned true")
	}
	h2.Resume()
	if h2.Active() || !h2.Paused() {
		t.Error("stopped handle changed state")
	}

	s.Update(0.5)
	if sp.X != 10 {
		t.Errorf("X = %v, want 10", sp.X)
	}
	if h1.Active() {
		t.Error("finished handle still active")
	}
	if h1.SpriteID() != id || !h1.Behavior().Equal(b) {
		t.Error("handle accessors")
	}
}

func TestRunUnknownSprite(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := NewScene()
	s.SetLogger(zap.New(core))

	h := s.Run(uuid.New(), Action(Show{}))
	if h.Active() {
		t.Error("handle for unknown sprite is active")
	}
	if s.Running() != 0 {
		t.Errorf("Running = %d", s.Running())
	}
	if logs.FilterMessage("run on unknown sprite").Len() != 1 {
		t.Error("missing warning")
	}
	h.Pause()
	h.Stop()
}

// --- Tick semantics ---

func TestRunningCounts(t *testing.T) {
	s, _, id := newSceneWithSprite(t)
	other := newTestSprite("other")
	otherID := s.AddChild(other)

	assertRunningFor(t, s, id, 0, true)
	assertRunningFor(t, s, uuid.New(), 0, false)

	s.Run(id, Action(FadeOut{Duration: 1}))
	h := s.Run(id, WaitForever())
	s.Run(otherID, Action(Hide{}))
	h.Pause()
	if s.Running() != 3 {
		t.Errorf("Running = %d, want 3", s.Running())
	}

	s.Update(1)
	if s.Running() != 1 {
		t.Errorf("Running after tick = %d, want 1 (the paused one)", s.Running())
	}
	assertRunningFor(t, s, otherID, 0, true)
}

func TestSchedulerNeverReinvokesTerminalState(t *testing.T) {
	s, _, id := newSceneWithSprite(t)
	single := &probeRecord{duration: 0.5}
	repeated := &probeRecord{duration: 0.5}
	s.Run(id, Action(probe{rec: single}))
	s.Run(id, behavior.Repeat(2, Action(probe{rec: repeated})))

	for range 10 {
		s.Update(0.3)
	}
	if single.updates != 2 || single.afterDone != 0 {
		t.Errorf("single: updates = %d, afterDone = %d", single.updates, single.afterDone)
	}
	// 0.3, 0.3 (done, 0.1 left) | 0.1, 0.3, 0.3 (done)
	if repeated.updates != 5 || repeated.afterDone != 0 {
		t.Errorf("repeated: updates = %d, afterDone = %d", repeated.updates, repeated.afterDone)
	}
}

func TestSequenceCarriesLeftoverBetweenAnimations(t *testing.T) {
	s, sp, id := newSceneWithSprite(t)
	s.Run(id, behavior.Sequence(
		Action(MoveTo{Duration: 0.5, X: 10}),
		Action(Hide{}),
		Action(MoveTo{Duration: 1, X: 10, Y: 10}),
	))

	s.Update(1)
	if sp.X != 10 || sp.Visible {
		t.Errorf("first steps not applied: X = %v, visible = %v", sp.X, sp.Visible)
	}
	assertNear(t, "Y", sp.Y, 5)
}

func TestConcurrentAnimationsAreIndependent(t *testing.T) {
	s, sp, id := newSceneWithSprite(t)
	s.Run(id, Action(MoveTo{Duration: 1, X: 10}))
	s.Run(id, Action(FadeOut{Duration: 2}))

	s.Update(1)
	if sp.X != 10 {
		t.Errorf("X = %v", sp.X)
	}
	assertNear(t, "opacity", sp.Opacity, 0.5)
	assertRunningFor(t, s, id, 1, true)
}

func TestFailureDropsEntry(t *testing.T) {
	s, _, id := newSceneWithSprite(t)
	log := &eventLog{}
	s.SetEntityStore(log)
	s.Run(id, behavior.Invert(Action(Show{})))

	s.Update(0.1)
	assertRunningFor(t, s, id, 0, true)
	if got := log.types(); len(got) != 1 || got[0] != EventAnimationFailed {
		t.Errorf("events = %v", got)
	}
}

func TestCallbackMayMutateScene(t *testing.T) {
	s, _, id := newSceneWithSprite(t)
	var late *Handle
	s.Run(id, behavior.Sequence(
		Action(CallFunc(func(sp *Sprite) {
			late = s.Run(sp.ID(), Action(MoveBy{Duration: 1, X: 1}))
		})),
		WaitForever(),
	))

	s.Update(0.5)
	if late == nil || !late.Active() {
		t.Fatal("callback did not register")
	}
	if x := s.Child(id).X; x != 0 {
		t.Errorf("animation registered mid-tick already ran: X = %v", x)
	}
	s.Update(0.5)
	assertNear(t, "X", s.Child(id).X, 0.5)
}

func TestCallbackRegisteringOnLaterSprite(t *testing.T) {
	s := NewScene()
	a := s.AddChild(newTestSprite("a"))
	b := s.AddChild(newTestSprite("b"))
	s.Run(a, behavior.Sequence(
		Action(CallFunc(func(*Sprite) {
			s.Run(b, Action(MoveBy{Duration: 1, X: 1}))
		})),
		WaitForever(),
	))
	s.Run(b, WaitForever())

	s.Update(0.5)
	if x := s.Child(b).X; x != 0 {
		t.Errorf("animation registered mid-tick on another sprite already ran: X = %v", x)
	}
	assertRunningFor(t, s, b, 2, true)
	s.Update(0.5)
	assertNear(t, "X", s.Child(b).X, 0.5)
}

func TestCallbackRemovingItsSprite(t *testing.T) {
	s, sp, id := newSceneWithSprite(t)
	s.Run(id, behavior.Sequence(
		Action(CallFunc(func(sp *Sprite) { s.RemoveChild(sp.ID()) })),
		Action(MoveBy{Duration: 1, X: 1}),
	))
	s.Run(id, Action(MoveBy{Duration: 1, Y: 1}))

	s.Update(0.5)
	if s.Child(id) != nil {
		t.Fatal("sprite not removed")
	}
	if sp.X != 0 || sp.Y != 0 {
		t.Errorf("animation ran after removal: (%v, %v)", sp.X, sp.Y)
	}
	if s.Running() != 0 {
		t.Errorf("Running = %d", s.Running())
	}
}

// --- Tree coupling ---

func TestRemoveChildStopsSubtree(t *testing.T) {
	s := NewScene()
	log := &eventLog{}
	s.SetEntityStore(log)
	parent := NewContainer("parent")
	child := newTestSprite("child")
	grandchild := newTestSprite("grandchild")
	parent.AddChild(child)
	child.AddChild(grandchild)
	s.AddChild(parent)

	s.Run(child.ID(), Action(FadeOut{Duration: 1}))
	s.Run(grandchild.ID(), Action(FadeOut{Duration: 1}))
	s.RemoveChildWhenDone(grandchild.ID())

	if got := s.RemoveChild(child.ID()); got != child {
		t.Fatalf("RemoveChild = %v, want child", got)
	}
	if s.Running() != 0 {
		t.Errorf("Running = %d after removing subtree", s.Running())
	}
	assertRunningFor(t, s, grandchild.ID(), 0, false)
	if child.Scene() != nil || grandchild.Scene() != nil {
		t.Error("removed sprites still reference the scene")
	}
	if len(s.removing) != 0 {
		t.Error("removed sprite left in the deferred set")
	}
	if got := log.types(); len(got) != 2 || got[0] != EventAnimationStopped || got[1] != EventAnimationStopped {
		t.Errorf("events = %v", got)
	}
	if parent.NumChildren() != 0 {
		t.Error("child still attached")
	}
}

func TestSpriteRemoveChildInSceneStopsRegistrations(t *testing.T) {
	s := NewScene()
	parent := NewContainer("parent")
	s.AddChild(parent)
	child := newTestSprite("child")
	parent.AddChild(child)

	if s.Child(child.ID()) != child {
		t.Fatal("child added after the parent joined the scene is not indexed")
	}
	s.Run(child.ID(), WaitForever())
	parent.RemoveChild(child.ID())
	if s.Running() != 0 {
		t.Errorf("Running = %d", s.Running())
	}
	if s.Child(child.ID()) != nil {
		t.Error("detached child still indexed")
	}
}

func TestSceneRootsReindex(t *testing.T) {
	s := NewScene()
	var ids []uuid.UUID
	for range 4 {
		ids = append(ids, s.AddChild(NewContainer("root")))
	}
	s.RemoveChild(ids[0])
	for i, sp := range s.Children() {
		if s.childrenIndex[sp.ID()] != i {
			t.Errorf("root %d indexed at %d", i, s.childrenIndex[sp.ID()])
		}
	}
	if s.Len() != 3 {
		t.Errorf("Len = %d, want 3", s.Len())
	}
	if s.RemoveChild(ids[0]) != nil {
		t.Error("removed root found again")
	}
}

func TestSceneAddChildPanicsOnOwnedSprite(t *testing.T) {
	s := NewScene()
	p := NewContainer("p")
	c := NewContainer("c")
	p.AddChild(c)
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	s.AddChild(c)
}

// --- Debug ---

func TestDebugModeLogsTicks(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s, _, id := newSceneWithSprite(t)
	s.SetLogger(zap.New(core))
	s.SetDebugMode(true)

	s.Run(id, Action(Hide{}))
	s.Update(0.1)

	entries := logs.FilterMessage("tick").All()
	if len(entries) != 1 {
		t.Fatalf("tick logs = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["ticked"] != int64(1) || fields["finished"] != int64(1) {
		t.Errorf("fields = %v", fields)
	}
}

func TestDebugModeWarnsOnDeepTree(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := NewScene()
	s.SetLogger(zap.New(core))
	s.SetDebugMode(true)

	parent := NewContainer("n")
	s.AddChild(parent)
	for range debugMaxTreeDepth + 1 {
		c := NewContainer("n")
		parent.AddChild(c)
		parent = c
	}
	if logs.FilterMessage("tree depth exceeds threshold").Len() == 0 {
		t.Error("no depth warning")
	}
}
