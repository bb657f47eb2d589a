// Package ecs provides ECS adapters for sprout's animation scheduler.
//
// The primary adapter is [NewDonburiStore], which bridges sprout animation
// events (finished, failed, stopped, sprite removed) into a [Donburi] world
// as typed events. Subscribe to [AnimationEventType] in your ECS systems to
// receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//
// Systems can also start animations without holding the scene: attach a
// [SpriteRef] and an [AnimateRequest] to an entity and call
// [ProcessRequests] once per tick.
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
