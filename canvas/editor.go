package canvas

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/vellum"
)

// zoomTweenSeconds is the duration of keyboard zoom animations.
const zoomTweenSeconds = 0.15

// Input is one frame of user input, decoupled from Ebitengine so that
// editor behavior can be driven from tests.
type Input struct {
	Cursor vellum.Vec2
	// Click is true on the frame the left button goes down.
	Click bool
	// Panning is true while the right or middle button is held.
	Panning bool
	Wheel   float64
	Shift   bool
	Ctrl    bool
	// Keys holds the keys that went down this frame.
	Keys []ebiten.Key
}

// readInput samples Ebitengine's input state.
func readInput() Input {
	x, y := ebiten.CursorPosition()
	_, wy := ebiten.Wheel()
	return Input{
		Cursor:  vellum.Vec2{X: float64(x), Y: float64(y)},
		Click:   inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		Panning: ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) || ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle),
		Wheel:   wy,
		Shift:   ebiten.IsKeyPressed(ebiten.KeyShift),
		Ctrl:    ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta),
		Keys:    inpututil.AppendJustPressedKeys(nil),
	}
}

// Editor is an ebiten.Game that displays a document and maps input to
// pipeline calls:
//
//	left click        select (shift toggles)
//	right/middle drag pan
//	wheel             zoom at cursor
//	= / -             animated zoom at screen center
//	0                 fit selection (or everything)
//	Delete, Backspace delete selection
//	H                 toggle visibility of selected nodes
//	Escape            clear selection
//	Ctrl+Z / Ctrl+Y   undo / redo
type Editor struct {
	doc    *vellum.Document
	canvas *Canvas

	width, height int
	panning       bool
	lastCursor    vellum.Vec2
	status        string
}

// NewEditor creates an editor for doc.
func NewEditor(doc *vellum.Document, opts Options) *Editor {
	return &Editor{doc: doc, canvas: New(opts), width: 960, height: 640}
}

// Run opens a window and blocks until it is closed.
func (e *Editor) Run(title string) error {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(e.width, e.height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(e)
}

// Update implements ebiten.Game.
func (e *Editor) Update() error {
	e.apply(readInput())
	e.doc.Viewport().Update(1 / float32(ebiten.TPS()))
	return nil
}

// Draw implements ebiten.Game.
func (e *Editor) Draw(screen *ebiten.Image) {
	e.canvas.Draw(screen, e.doc)
	line := fmt.Sprintf("%d%%  %d selected", e.doc.Viewport().ZoomPercent(), e.doc.Selection().Len())
	if e.status != "" {
		line += "  " + e.status
	}
	ebitenutil.DebugPrintAt(screen, line, 4, e.height-16)
}

// Layout implements ebiten.Game.
func (e *Editor) Layout(outsideWidth, outsideHeight int) (int, int) {
	e.width, e.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

func (e *Editor) center() vellum.Vec2 {
	return vellum.Vec2{X: float64(e.width) / 2, Y: float64(e.height) / 2}
}

// apply maps one frame of input to pipeline and viewport calls.
func (e *Editor) apply(in Input) {
	view := e.doc.Viewport()

	if in.Panning {
		if e.panning {
			if d := in.Cursor.Sub(e.lastCursor); d != (vellum.Vec2{}) {
				view.Pan(d)
			}
		}
		e.panning = true
	} else {
		e.panning = false
	}
	e.lastCursor = in.Cursor

	if in.Wheel != 0 {
		view.ZoomAt(in.Cursor, in.Wheel*view.ZoomStep)
	}
	if in.Click {
		e.doc.SelectAt(in.Cursor, in.Shift)
	}

	for _, k := range in.Keys {
		e.key(k, in)
	}
}

func (e *Editor) key(k ebiten.Key, in Input) {
	view := e.doc.Viewport()
	switch k {
	case ebiten.KeyEqual, ebiten.KeyNumpadAdd:
		view.AnimateZoomAt(e.center(), view.Scale+view.ZoomStep, zoomTweenSeconds, nil)
	case ebiten.KeyMinus, ebiten.KeyNumpadSubtract:
		view.AnimateZoomAt(e.center(), view.Scale-view.ZoomStep, zoomTweenSeconds, nil)
	case ebiten.KeyDigit0:
		e.fit()
	case ebiten.KeyDelete, ebiten.KeyBackspace:
		c := e.doc.DeleteSelected()
		e.setStatus("deleted %d", len(c.AffectedIDs))
	case ebiten.KeyH:
		for _, id := range e.doc.Selection().IDs() {
			e.doc.ToggleVisibility(id)
		}
	case ebiten.KeyEscape:
		e.doc.ClearSelection()
	case ebiten.KeyZ:
		if in.Ctrl && in.Shift {
			e.redo()
		} else if in.Ctrl {
			e.undo()
		}
	case ebiten.KeyY:
		if in.Ctrl {
			e.redo()
		}
	}
}

// fit frames the selection, or every visible root when nothing is selected.
func (e *Editor) fit() {
	box, ok := e.doc.Selection().BoundingBox()
	if !ok {
		tree := e.doc.Tree()
		for _, id := range tree.Children(vellum.NoParent) {
			r, found := tree.WorldBounds(id)
			if !found || !tree.EffectiveVisibility(id) {
				continue
			}
			if !ok {
				box, ok = r, true
			} else {
				box = box.Union(r)
			}
		}
	}
	if !ok {
		return
	}
	screen := vellum.Rect{Width: float64(e.width), Height: float64(e.height)}
	e.doc.Viewport().FitRect(box, screen, 32)
}

func (e *Editor) undo() {
	if _, err := e.doc.Undo(); err != nil {
		e.setStatus("undo failed: %v", err)
	}
}

func (e *Editor) redo() {
	if _, err := e.doc.Redo(); err != nil {
		e.setStatus("redo failed: %v", err)
	}
}

func (e *Editor) setStatus(format string, args ...any) {
	e.status = fmt.Sprintf(format, args...)
}
