// Package ecs forwards vellum change descriptors into an ECS world.
//
// The adapter is [NewDonburiSink], which publishes every committed
// [vellum.ChangeDescriptor] to a [Donburi] world as a typed event. Systems
// subscribe to [ChangeEventType] to refresh whatever they derive from the
// document (canvas sprites, layer widgets, property panels).
//
// Usage:
//
//	doc.SetChangeSink(ecs.NewDonburiSink(world))
//	ecs.ChangeEventType.Subscribe(world, onChange)
//	// once per frame:
//	ecs.ChangeEventType.ProcessEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
