// Package canvas renders a vellum document with Ebitengine and turns mouse
// and keyboard input into pipeline calls.
//
// Rendering happens in two steps. [Compile] walks the document's render list
// and produces screen-space [Command] values; it is pure and has no
// Ebitengine dependency at runtime. [Canvas.Draw] submits those commands to
// an *ebiten.Image by stretching a 1x1 white pixel, the same way sprites and
// solid rectangles are batched in a retained-mode scene graph.
package canvas

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/vellum"
)

// CommandKind identifies the type of a draw command.
type CommandKind uint8

const (
	CommandRect CommandKind = iota // solid quad: the unit square mapped by Geo
	CommandText                    // debug-font label at Pos
)

// Command is a single screen-space draw operation.
type Command struct {
	Kind CommandKind
	// ID is the node that produced the command, or "" for overlays.
	ID vellum.NodeID
	// Geo maps the unit square to screen space (CommandRect).
	Geo   vellum.Affine
	Color vellum.Color
	Alpha float64
	// Text and Pos describe a label (CommandText).
	Text string
	Pos  vellum.Vec2
}

// Options controls what Compile emits.
type Options struct {
	// Screen is the visible area. Nodes whose screen bounds miss it are
	// culled. A zero rect disables culling.
	Screen vellum.Rect
	// Labels draws each shape's name at its origin.
	Labels bool
	// Background fills the screen before drawing.
	Background vellum.Color
	// SelectionColor outlines the selection bounding box.
	SelectionColor vellum.Color
}

// DefaultOptions returns a light-gray board with a blue selection outline.
func DefaultOptions() Options {
	return Options{
		Background:     vellum.Color{R: 0.93, G: 0.93, B: 0.93},
		SelectionColor: vellum.Color{R: 0.2, G: 0.5, B: 1},
	}
}

// Compile converts the document's visible nodes into paint-ordered screen
// commands, followed by the selection outline.
func Compile(doc *vellum.Document, opts Options) []Command {
	return compileInto(nil, doc, opts)
}

func compileInto(out []Command, doc *vellum.Document, opts Options) []Command {
	view := doc.Viewport().Matrix()
	cull := !opts.Screen.IsEmpty()

	for _, it := range doc.Tree().RenderList() {
		if it.Kind == vellum.KindGroup {
			continue
		}
		m := view.Mul(it.World)
		box := vellum.Rect{Width: it.Size.Width, Height: it.Size.Height}
		if cull && !m.ApplyRect(box).Intersects(opts.Screen) {
			continue
		}
		app := it.Appearance
		origin := m.Apply(vellum.Vec2{})

		switch it.Kind {
		case vellum.KindShape, vellum.KindImage:
			out = append(out, rectCommand(it.ID, m, box, app.Fill, app.Opacity))
			out = appendStroke(out, it.ID, m, box, app.StrokeWidth, app.Stroke, app.Opacity)
			if it.Kind == vellum.KindImage {
				out = append(out, textCommand(it.ID, "["+it.Content+"]", origin, app.Stroke, app.Opacity))
			} else if opts.Labels {
				out = append(out, textCommand(it.ID, it.Name, origin, app.Stroke, app.Opacity))
			}
		case vellum.KindText:
			out = append(out, textCommand(it.ID, it.Content, origin, app.Fill, app.Opacity))
		}
	}

	if box, ok := doc.Selection().BoundingBox(); ok {
		v := doc.Viewport()
		tl := v.DocumentToScreen(vellum.Vec2{X: box.X, Y: box.Y})
		br := v.DocumentToScreen(vellum.Vec2{X: box.X + box.Width, Y: box.Y + box.Height})
		screenBox := vellum.Rect{X: tl.X, Y: tl.Y, Width: br.X - tl.X, Height: br.Y - tl.Y}
		out = appendStroke(out, "", vellum.IdentityAffine, screenBox, 1, opts.SelectionColor, 1)
	}
	return out
}

func rectCommand(id vellum.NodeID, m vellum.Affine, r vellum.Rect, c vellum.Color, alpha float64) Command {
	geo := m.Mul(vellum.TranslateAffine(r.X, r.Y)).Mul(vellum.ScaleAffine(r.Width, r.Height))
	return Command{Kind: CommandRect, ID: id, Geo: geo, Color: c, Alpha: alpha}
}

func textCommand(id vellum.NodeID, s string, at vellum.Vec2, c vellum.Color, alpha float64) Command {
	return Command{Kind: CommandText, ID: id, Text: s, Pos: at, Color: c, Alpha: alpha}
}

// appendStroke emits four edge quads drawn inside r. The width is limited to
// half the shorter side so opposite edges never overlap.
func appendStroke(out []Command, id vellum.NodeID, m vellum.Affine, r vellum.Rect, width float64, c vellum.Color, alpha float64) []Command {
	w := math.Min(width, math.Min(r.Width, r.Height)/2)
	if w <= 0 {
		return out
	}
	return append(out,
		rectCommand(id, m, vellum.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: w}, c, alpha),
		rectCommand(id, m, vellum.Rect{X: r.X, Y: r.Y + r.Height - w, Width: r.Width, Height: w}, c, alpha),
		rectCommand(id, m, vellum.Rect{X: r.X, Y: r.Y + w, Width: w, Height: r.Height - 2*w}, c, alpha),
		rectCommand(id, m, vellum.Rect{X: r.X + r.Width - w, Y: r.Y + w, Width: w, Height: r.Height - 2*w}, c, alpha),
	)
}

// --- Ebitengine submission ---

// Canvas draws documents onto Ebitengine images.
type Canvas struct {
	Options Options

	white    *ebiten.Image
	commands []Command
}

// New creates a canvas with the given options.
func New(opts Options) *Canvas {
	return &Canvas{Options: opts}
}

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image.
func (c *Canvas) ensureWhitePixel() *ebiten.Image {
	if c.white == nil {
		c.white = ebiten.NewImage(1, 1)
		c.white.Fill(color.White)
	}
	return c.white
}

// Draw paints doc onto screen, culling to the screen bounds.
func (c *Canvas) Draw(screen *ebiten.Image, doc *vellum.Document) {
	opts := c.Options
	b := screen.Bounds()
	opts.Screen = vellum.Rect{X: float64(b.Min.X), Y: float64(b.Min.Y), Width: float64(b.Dx()), Height: float64(b.Dy())}
	screen.Fill(toRGBA(opts.Background, 1))

	c.commands = compileInto(c.commands[:0], doc, opts)
	white := c.ensureWhitePixel()

	var op ebiten.DrawImageOptions
	for i := range c.commands {
		cmd := &c.commands[i]
		switch cmd.Kind {
		case CommandRect:
			op.GeoM.Reset()
			op.GeoM.Concat(commandGeoM(cmd))
			op.ColorScale.Reset()
			a := float32(cmd.Alpha)
			op.ColorScale.Scale(float32(cmd.Color.R)*a, float32(cmd.Color.G)*a, float32(cmd.Color.B)*a, a)
			screen.DrawImage(white, &op)
		case CommandText:
			if cmd.Text != "" {
				ebitenutil.DebugPrintAt(screen, cmd.Text, int(cmd.Pos.X)+2, int(cmd.Pos.Y)+2)
			}
		}
	}
}

// commandGeoM converts a command's affine into an ebiten.GeoM.
func commandGeoM(cmd *Command) ebiten.GeoM {
	var m ebiten.GeoM
	m.SetElement(0, 0, cmd.Geo[0])
	m.SetElement(1, 0, cmd.Geo[1])
	m.SetElement(0, 1, cmd.Geo[2])
	m.SetElement(1, 1, cmd.Geo[3])
	m.SetElement(0, 2, cmd.Geo[4])
	m.SetElement(1, 2, cmd.Geo[5])
	return m
}

func toRGBA(c vellum.Color, alpha float64) color.RGBA {
	return color.RGBA{
		R: uint8(math.Round(c.R * alpha * 255)),
		G: uint8(math.Round(c.G * alpha * 255)),
		B: uint8(math.Round(c.B * alpha * 255)),
		A: uint8(math.Round(alpha * 255)),
	}
}
