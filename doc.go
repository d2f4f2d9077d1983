// Package vellum is the document engine of a layered 2D design editor.
//
// Vellum holds the scene graph, the selection, the property-mutation
// pipeline and the viewport transform. It keeps the layer list, the property
// panel and the canvas consistent without drawing anything itself; the
// [github.com/phanxgames/vellum/canvas] package is an [Ebitengine] renderer
// built on top of it.
//
// # Quick start
//
//	doc, err := vellum.New(vellum.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	group, _, _ := doc.CreateNode(vellum.KindGroup, vellum.NoParent, vellum.Vec2{})
//	box, _, _ := doc.CreateNode(vellum.KindShape, group, vellum.Vec2{X: 40, Y: 40})
//	doc.SetProperty([]vellum.NodeID{box}, vellum.AttrFill, "#3399ff")
//
// # Nodes
//
// Every element is a [Node] of one of four kinds: [KindGroup], [KindShape],
// [KindImage] or [KindText]. Only groups hold children. Nodes live in a flat
// [Store] keyed by [NodeID]; hierarchy is kept as ordered id lists, so a
// lookup by id is O(1) and there are no shared pointers to go stale. The
// store hands out copies. Children are painted in list order, last on top.
//
// # Pipeline
//
// All changes go through [Document]: [Document.SetProperty],
// [Document.ToggleVisibility], [Document.ToggleExpand], [Document.MoveNode],
// [Document.DeleteSelected], [Document.CreateNode] and the selection calls.
// Each returns a [ChangeDescriptor] whose helpers
// ([ChangeDescriptor.AffectsCanvas], [ChangeDescriptor.AffectsLayers],
// [ChangeDescriptor.AffectsPanel]) say which views need refreshing.
// Structural failures leave the document untouched. Multi-target property
// edits are all-or-nothing.
//
// # Derived views
//
// [Tree] answers hierarchy questions: children, ancestors, depth, effective
// visibility, world transforms, hit testing, the paint-ordered
// [Tree.RenderList] and the layer list rows from [Tree.LayerRows].
// [Selection.CommonProperty] feeds the property panel and returns [Mixed]
// when the selected nodes disagree.
//
// # Viewport
//
// [Viewport] maps screen points to document points and back. Zooming is
// anchored at a screen point and clamped to [Config.MinScale] and
// [Config.MaxScale]. Animated zoom and pan use [gween] tweens advanced by
// [Viewport.Update].
//
// # Persistence
//
// [Document.Export] returns a [Snapshot] that encodes to JSON;
// [Document.Import] validates a snapshot before replacing the document.
// Undo and redo replay snapshots up to [Config.HistoryLimit].
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package vellum
