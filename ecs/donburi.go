package ecs

import (
	"github.com/phanxgames/vellum"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ChangeEventType is the Donburi event type for document changes.
var ChangeEventType = events.NewEventType[vellum.ChangeDescriptor]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates a ChangeSink backed by a Donburi world. Changes are
// queued on ChangeEventType and delivered by ProcessEvents, so subscribers
// run on the ECS schedule rather than inside the mutating call.
func NewDonburiSink(world donburi.World) vellum.ChangeSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) Changed(c vellum.ChangeDescriptor) {
	ChangeEventType.Publish(s.world, c)
}

// Panels reports which views a batch of queued changes invalidates. It is
// meant for subscribers that coalesce a frame's worth of events before
// redrawing.
type Panels struct {
	Canvas, Layers, Properties bool
}

// Merge folds c into p.
func (p *Panels) Merge(c vellum.ChangeDescriptor) {
	p.Canvas = p.Canvas || c.AffectsCanvas()
	p.Layers = p.Layers || c.AffectsLayers()
	p.Properties = p.Properties || c.AffectsPanel()
}

// Any reports whether any view needs a refresh.
func (p Panels) Any() bool {
	return p.Canvas || p.Layers || p.Properties
}
