// Package ecs provides ECS adapters for sprout.
package ecs

import (
	"github.com/google/uuid"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"

	"github.com/phanxgames/sprout"
)

// AnimationEventType is the Donburi event type for sprout animation events.
// Subscribe to this in your ECS systems to learn when animations finish,
// fail or are stopped and when deferred sprites are removed.
var AnimationEventType = events.NewEventType[sprout.AnimationEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Animation events are published to AnimationEventType and can be
// consumed with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) sprout.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event sprout.AnimationEvent) {
	AnimationEventType.Publish(s.world, event)
}

// SpriteRef links an entity to a sprite in a scene.
type SpriteRef struct {
	ID uuid.UUID
}

// AnimateRequest asks for Behavior to be run on the entity's sprite.
type AnimateRequest struct {
	Behavior sprout.Behavior
}

var (
	// SpriteComponent holds an entity's SpriteRef.
	SpriteComponent = donburi.NewComponentType[SpriteRef]()
	// AnimateComponent holds a pending AnimateRequest. ProcessRequests
	// consumes it.
	AnimateComponent = donburi.NewComponentType[AnimateRequest]()
)

var requestQuery = donburi.NewQuery(filter.Contains(SpriteComponent, AnimateComponent))

// ProcessRequests runs every pending AnimateRequest on its entity's sprite
// and removes the request component. Returns the number of behaviors started.
// Requests for sprites that are not in the scene are dropped.
func ProcessRequests(world donburi.World, scene *sprout.Scene) int {
	type pending struct {
		entity donburi.Entity
		id     uuid.UUID
		b      sprout.Behavior
	}
	// Collect first; removing components while iterating a query is unsafe.
	var reqs []pending
	requestQuery.Each(world, func(e *donburi.Entry) {
		reqs = append(reqs, pending{
			entity: e.Entity(),
			id:     SpriteComponent.Get(e).ID,
			b:      AnimateComponent.Get(e).Behavior,
		})
	})

	started := 0
	for _, r := range reqs {
		if h := scene.Run(r.id, r.b); h.Active() {
			started++
		}
		world.Entry(r.entity).RemoveComponent(AnimateComponent)
	}
	return started
}

// FindBySprite returns the first entity referencing the sprite with the given
// id.
func FindBySprite(world donburi.World, id uuid.UUID) (donburi.Entity, bool) {
	var found donburi.Entity
	ok := false
	donburi.NewQuery(filter.Contains(SpriteComponent)).Each(world, func(e *donburi.Entry) {
		if !ok && SpriteComponent.Get(e).ID == id {
			found = e.Entity()
			ok = true
		}
	})
	return found, ok
}
