// Package sprout animates 2D sprites for [Ebitengine] with behavior trees.
//
// A [Scene] owns a forest of [Sprite] values and a scheduler. Animations are
// small immutable values ([MoveTo], [FadeOut], [Blink], ...) combined into a
// [Behavior] tree with the constructors of package behavior: sequences,
// parallel branches, repeats, conditionals and loops. Each scene tick
// advances every running behavior by the same time step, so leftover time
// from a finished tween carries into the next one and animations stay in
// sync regardless of frame rate.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	scene := sprout.NewScene()
//	hero := sprout.NewSprite("hero", sprout.NewImageTexture(img))
//	hero.SetPosition(100, 100)
//	id := scene.AddChild(hero)
//
//	scene.Run(id, behavior.Sequence(
//		sprout.Action(sprout.Ease{
//			Func:      easing.QuadraticOut,
//			Animation: sprout.MoveBy{Duration: 1, X: 200},
//		}),
//		sprout.Action(sprout.FadeOut{Duration: 0.5}),
//	))
//	scene.RemoveChildWhenDone(id)
//
//	sprout.Run(scene, sprout.RunConfig{
//		Title: "My Game", Width: 640, Height: 480,
//	})
//
// For full control, implement [ebiten.Game] yourself and call
// [Scene.Update] and [Scene.DrawTo] directly:
//
//	type Game struct{ scene *sprout.Scene }
//
//	func (g *Game) Update() error               { g.scene.Update(1.0 / 60); return nil }
//	func (g *Game) Draw(s *ebiten.Image)        { g.scene.DrawTo(s) }
//	func (g *Game) Layout(w, h int) (int, int)  { return w, h }
//
// # Scene graph
//
// Sprites form trees. Children inherit their parent's transform; flips apply
// to the sprite's own texture only. [Scene.AddChild] returns the sprite's id,
// which is how the scheduler refers to it. Removing a sprite stops every
// animation registered on it and on its descendants.
//
// # Scheduling
//
// [Scene.Run] registers a behavior on a sprite and returns a [Handle].
// Any number of behaviors may run on one sprite. [Scene.Pause],
// [Scene.Resume], [Scene.Toggle] and [Scene.Stop] find a registered behavior
// by structural equality; use the handle when several equal behaviors run on
// the same sprite and the exact one matters.
//
// [Scene.RemoveChildWhenDone] removes a sprite once all of its animations
// have finished, which is the usual way to retire effects such as damage
// numbers or particles.
//
// # Data-driven behaviors
//
// A [Library] loads named behaviors from YAML, with callbacks bound by name
// through [Library.RegisterCallback]. [WatchLibrary] reports edits to library
// files so [Run] can hot-reload them, and a [Scenario] replays scheduler
// commands from a script. Package script binds callbacks to Lua functions.
//
// # ECS integration
//
// Set an [EntityStore] on a scene to receive [AnimationEvent] values for
// finished, failed and stopped animations and for removed sprites. Package
// ecs provides a [donburi] adapter.
//
// [Ebitengine]: https://ebitengine.org
// [donburi]: https://github.com/yohamta/donburi
package sprout
