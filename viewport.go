package vellum

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// viewAnim holds the active zoom or pan tweens. A zoom tween drives Scale
// around a fixed screen anchor; pan tweens drive Offset directly.
type viewAnim struct {
	zoom   *gween.Tween
	anchor Vec2

	panX *gween.Tween
	panY *gween.Tween

	doneZoom, doneX, doneY bool
}

// ViewportState is the persisted part of a Viewport.
type ViewportState struct {
	Offset Vec2    `json:"offset"`
	Scale  float64 `json:"scale"`
}

// Viewport maps between screen space and document space:
//
//	screen = document*Scale + Offset
//
// Scale is always kept within [MinScale, MaxScale].
type Viewport struct {
	// Offset is the screen position of the document origin.
	Offset Vec2
	// Scale is the zoom factor (1.0 = 100%).
	Scale float64

	MinScale float64
	MaxScale float64
	// ZoomStep is the additive delta applied by ZoomIn and ZoomOut.
	ZoomStep float64

	anim *viewAnim
}

// NewViewport creates a viewport at 100% with the zoom limits from cfg.
func NewViewport(cfg Config) *Viewport {
	v := &Viewport{
		Scale:    1,
		MinScale: cfg.MinScale,
		MaxScale: cfg.MaxScale,
		ZoomStep: cfg.ZoomStep,
	}
	v.Scale = v.clampScale(1)
	return v
}

// State returns the offset and scale.
func (v *Viewport) State() ViewportState {
	return ViewportState{Offset: v.Offset, Scale: v.Scale}
}

// Restore sets offset and scale from a saved state, clamping the scale.
// Any running animation is stopped.
func (v *Viewport) Restore(s ViewportState) {
	v.anim = nil
	v.Offset = s.Offset
	v.Scale = v.clampScale(s.Scale)
}

// ScreenToDocument converts a screen point to document coordinates.
func (v *Viewport) ScreenToDocument(p Vec2) Vec2 {
	return Vec2{(p.X - v.Offset.X) / v.Scale, (p.Y - v.Offset.Y) / v.Scale}
}

// DocumentToScreen converts a document point to screen coordinates.
func (v *Viewport) DocumentToScreen(p Vec2) Vec2 {
	return Vec2{p.X*v.Scale + v.Offset.X, p.Y*v.Scale + v.Offset.Y}
}

// Matrix returns the document-to-screen transform.
func (v *Viewport) Matrix() Affine {
	return Affine{v.Scale, 0, 0, v.Scale, v.Offset.X, v.Offset.Y}
}

// ZoomPercent returns the scale as a rounded percentage, as shown next to
// the zoom buttons.
func (v *Viewport) ZoomPercent() int {
	return int(math.Round(v.Scale * 100))
}

// --- Direct manipulation ---

// ZoomAt adds deltaScale to the scale, clamped, keeping the document point
// under screenPoint fixed on screen.
func (v *Viewport) ZoomAt(screenPoint Vec2, deltaScale float64) {
	v.anim = nil
	v.setScaleAt(screenPoint, v.Scale+deltaScale)
}

// SetScale sets an absolute scale, clamped, anchored at screenPoint.
func (v *Viewport) SetScale(screenPoint Vec2, scale float64) {
	v.anim = nil
	v.setScaleAt(screenPoint, scale)
}

// ZoomIn zooms in by ZoomStep around screenPoint.
func (v *Viewport) ZoomIn(screenPoint Vec2) {
	v.ZoomAt(screenPoint, v.ZoomStep)
}

// ZoomOut zooms out by ZoomStep around screenPoint.
func (v *Viewport) ZoomOut(screenPoint Vec2) {
	v.ZoomAt(screenPoint, -v.ZoomStep)
}

// Pan shifts the view by a screen-space delta.
func (v *Viewport) Pan(delta Vec2) {
	v.anim = nil
	v.Offset = v.Offset.Add(delta)
}

// FitRect zooms and pans so docRect fills screen, leaving padding screen
// pixels on every side. Empty rects only center.
func (v *Viewport) FitRect(docRect, screen Rect, padding float64) {
	v.anim = nil
	if !docRect.IsEmpty() {
		availW := math.Max(screen.Width-2*padding, 1)
		availH := math.Max(screen.Height-2*padding, 1)
		v.Scale = v.clampScale(math.Min(availW/docRect.Width, availH/docRect.Height))
	}
	c := docRect.Center()
	sc := screen.Center()
	v.Offset = Vec2{sc.X - c.X*v.Scale, sc.Y - c.Y*v.Scale}
}

func (v *Viewport) setScaleAt(screenPoint Vec2, scale float64) {
	doc := v.ScreenToDocument(screenPoint)
	v.Scale = v.clampScale(scale)
	v.Offset = Vec2{screenPoint.X - doc.X*v.Scale, screenPoint.Y - doc.Y*v.Scale}
}

func (v *Viewport) clampScale(s float64) float64 {
	if math.IsNaN(s) {
		return v.Scale
	}
	if v.MinScale > 0 && s < v.MinScale {
		s = v.MinScale
	}
	if v.MaxScale > 0 && s > v.MaxScale {
		s = v.MaxScale
	}
	return s
}

// --- Animation ---

// AnimateZoomAt tweens the scale to target over duration seconds, keeping
// the document point under screenPoint fixed throughout. A nil easeFn uses
// ease.OutQuad.
func (v *Viewport) AnimateZoomAt(screenPoint Vec2, target float64, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.OutQuad
	}
	target = v.clampScale(target)
	v.anim = &viewAnim{
		zoom:   gween.New(float32(v.Scale), float32(target), duration, easeFn),
		anchor: screenPoint,
		doneX:  true,
		doneY:  true,
	}
}

// AnimatePan tweens the offset by delta over duration seconds. A nil easeFn
// uses ease.OutQuad.
func (v *Viewport) AnimatePan(delta Vec2, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.OutQuad
	}
	to := v.Offset.Add(delta)
	v.anim = &viewAnim{
		panX:     gween.New(float32(v.Offset.X), float32(to.X), duration, easeFn),
		panY:     gween.New(float32(v.Offset.Y), float32(to.Y), duration, easeFn),
		doneZoom: true,
	}
}

// Animating reports whether a tween is in progress.
func (v *Viewport) Animating() bool {
	return v.anim != nil
}

// StopAnimation abandons any running tween, leaving the view where it is.
func (v *Viewport) StopAnimation() {
	v.anim = nil
}

// Update advances running tweens by dt seconds and reports whether the view
// changed.
func (v *Viewport) Update(dt float32) bool {
	a := v.anim
	if a == nil {
		return false
	}
	if !a.doneZoom {
		val, done := a.zoom.Update(dt)
		v.setScaleAt(a.anchor, float64(val))
		a.doneZoom = done
	}
	if !a.doneX {
		val, done := a.panX.Update(dt)
		v.Offset.X = float64(val)
		a.doneX = done
	}
	if !a.doneY {
		val, done := a.panY.Update(dt)
		v.Offset.Y = float64(val)
		a.doneY = done
	}
	if a.doneZoom && a.doneX && a.doneY {
		v.anim = nil
	}
	return true
}
