package vellum

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// ChangeSink receives every non-empty ChangeDescriptor the pipeline emits,
// after the document has been updated.
type ChangeSink interface {
	Changed(c ChangeDescriptor)
}

// ChangeSinkFunc adapts a function to ChangeSink.
type ChangeSinkFunc func(c ChangeDescriptor)

// Changed implements ChangeSink.
func (f ChangeSinkFunc) Changed(c ChangeDescriptor) { f(c) }

// Document is the single entry point for reading and changing a drawing.
// It owns the node store, the tree view, the selection and the viewport,
// and keeps them consistent across every call.
//
// A Document is not safe for concurrent use. Background readers should work
// from Export between pipeline calls.
type Document struct {
	cfg   Config
	log   *log.Logger
	store *Store
	tree  *Tree
	sel   *Selection
	view  *Viewport
	hist  history
	sink  ChangeSink

	// names counts nodes created per kind for default names.
	names map[NodeKind]int
}

// New creates an empty document.
func New(cfg Config) (*Document, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("vellum: config: %w", err)
	}
	store := NewStore(cfg.NewID)
	tree := NewTree(store)
	return &Document{
		cfg:   cfg,
		log:   cfg.logger(),
		store: store,
		tree:  tree,
		sel:   NewSelection(tree),
		view:  NewViewport(cfg),
		hist:  history{limit: cfg.HistoryLimit},
		names: make(map[NodeKind]int),
	}, nil
}

// Store returns the node store. Use it for reads only; writes that bypass
// the Document skip selection upkeep and history.
func (d *Document) Store() *Store { return d.store }

// Tree returns the hierarchical read view.
func (d *Document) Tree() *Tree { return d.tree }

// Selection returns the selection. Change it through Select, SelectRange and
// ClearSelection so listeners are notified.
func (d *Document) Selection() *Selection { return d.sel }

// Viewport returns the pan/zoom state.
func (d *Document) Viewport() *Viewport { return d.view }

// Config returns the settings the document was created with.
func (d *Document) Config() Config { return d.cfg }

// SetChangeSink installs the listener for change descriptors. Nil removes it.
func (d *Document) SetChangeSink(s ChangeSink) { d.sink = s }

// commit logs, checks and publishes an applied change.
func (d *Document) commit(op string, c ChangeDescriptor) ChangeDescriptor {
	if c.IsEmpty() {
		return c
	}
	d.log.Debug("change", "op", op, "kind", c.Kind, "ids", c.AffectedIDs, "attr", c.Attr)
	if d.cfg.Debug {
		d.debugCheckInvariants(op, c)
	}
	if d.sink != nil {
		d.sink.Changed(c)
	}
	return c
}

// reject logs a refused operation and returns err unchanged.
func (d *Document) reject(op string, err error) error {
	d.log.Warn("rejected", "op", op, "id", ErrorID(err), "err", err)
	return err
}

// --- Property edits ---

// SetProperty assigns value to attr on every id. All targets are validated
// before any is changed; the first failing target is named by the returned
// *Error. Duplicate ids are applied once.
func (d *Document) SetProperty(ids []NodeID, attr Attr, value any) (ChangeDescriptor, error) {
	const op = "setProperty"
	if len(ids) == 0 {
		return noChange, nil
	}
	targets := make([]*Node, 0, len(ids))
	values := make([]any, 0, len(ids))
	seen := make(map[NodeID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		n, ok := d.store.nodes[id]
		if !ok {
			return noChange, d.reject(op, opError(op, id, ErrNotFound))
		}
		v, err := validateAttr(op, n, attr, value)
		if err != nil {
			return noChange, d.reject(op, err)
		}
		targets = append(targets, n)
		values = append(values, v)
	}

	d.hist.push(d.store.snapshot())
	affected := make([]NodeID, len(targets))
	for i, n := range targets {
		n.set(attr, values[i])
		affected[i] = n.ID
	}
	kind, _ := classifyAttrs([]Attr{attr})
	return d.commit(op, ChangeDescriptor{Kind: kind, AffectedIDs: affected, Attr: attr}), nil
}

// SetSelectedProperty applies SetProperty to the current selection, as the
// property panel does.
func (d *Document) SetSelectedProperty(attr Attr, value any) (ChangeDescriptor, error) {
	return d.SetProperty(d.sel.IDs(), attr, value)
}

// UpdateNode applies several attributes to one node atomically.
func (d *Document) UpdateNode(id NodeID, attrs Attrs) (ChangeDescriptor, error) {
	const op = "update"
	before := d.store.snapshot()
	c, err := d.store.Update(id, attrs)
	if err != nil {
		return noChange, d.reject(op, err)
	}
	if !c.IsEmpty() {
		d.hist.push(before)
	}
	return d.commit(op, c), nil
}

// ToggleVisibility flips the node's own visible flag. Descendants keep their
// flags. Missing ids are ignored.
func (d *Document) ToggleVisibility(id NodeID) ChangeDescriptor {
	n, ok := d.store.nodes[id]
	if !ok {
		return noChange
	}
	d.hist.push(d.store.snapshot())
	n.Visible = !n.Visible
	return d.commit("toggleVisibility", ChangeDescriptor{
		Kind:        ChangeVisibility,
		AffectedIDs: []NodeID{id},
		Attr:        AttrVisible,
	})
}

// ToggleExpand flips a group's expanded flag in the layer list. It never
// fails; missing ids and non-groups are ignored. Expansion is not recorded
// in the undo history.
func (d *Document) ToggleExpand(id NodeID) ChangeDescriptor {
	n, ok := d.store.nodes[id]
	if !ok || !n.IsGroup() {
		return noChange
	}
	n.Expanded = !n.Expanded
	return d.commit("toggleExpand", ChangeDescriptor{
		Kind:        ChangeExpand,
		AffectedIDs: []NodeID{id},
		Attr:        AttrExpanded,
	})
}

// --- Structure edits ---

// MoveNode reparents id under newParent at index (see Store.Reparent). The
// selection is unaffected since moves never delete.
func (d *Document) MoveNode(id, newParent NodeID, index int) (ChangeDescriptor, error) {
	const op = "moveNode"
	before := d.store.snapshot()
	if err := d.store.Reparent(id, newParent, index); err != nil {
		return noChange, d.reject(op, err)
	}
	d.hist.push(before)
	return d.commit(op, ChangeDescriptor{Kind: ChangeStructure, AffectedIDs: []NodeID{id}}), nil
}

// DeleteSelected removes every selected node and its descendants. Deleting
// an empty selection is a no-op.
func (d *Document) DeleteSelected() ChangeDescriptor {
	return d.DeleteNodes(d.sel.IDs())
}

// DeleteNodes removes each id and its descendants, skipping ids that are
// already gone (including those removed as descendants of an earlier id).
// Every removed id is purged from the selection.
func (d *Document) DeleteNodes(ids []NodeID) ChangeDescriptor {
	var before Snapshot
	var removed []NodeID
	for _, id := range ids {
		if !d.store.Has(id) {
			continue
		}
		if removed == nil {
			before = d.store.snapshot()
		}
		r, err := d.store.Remove(id)
		if err != nil {
			continue
		}
		removed = append(removed, r...)
	}
	if len(removed) == 0 {
		return noChange
	}
	d.hist.push(before)
	d.sel.Purge(removed)
	return d.commit("delete", ChangeDescriptor{Kind: ChangeStructure, AffectedIDs: removed})
}

// CreateNode adds a node of kind at the top of parent's children. at is a
// document-space point that becomes the node's origin. The node gets the
// configured default size and appearance and a default name, and becomes
// the selection.
func (d *Document) CreateNode(kind NodeKind, parent NodeID, at Vec2) (NodeID, ChangeDescriptor, error) {
	local := at
	if parent != NoParent && d.store.Has(parent) {
		local = d.tree.WorldTransform(parent).Invert().Apply(at)
	}
	attrs := Attrs{
		AttrX:       local.X,
		AttrY:       local.Y,
		AttrOpacity: d.cfg.DefaultAppearance.Opacity,
	}
	if kind != KindGroup {
		app := d.cfg.DefaultAppearance
		attrs[AttrWidth] = d.cfg.DefaultSize.Width
		attrs[AttrHeight] = d.cfg.DefaultSize.Height
		attrs[AttrFill] = app.Fill
		attrs[AttrStroke] = app.Stroke
		attrs[AttrStrokeWidth] = app.StrokeWidth
	}
	if kind == KindText {
		attrs[AttrContent] = "Text"
	}
	return d.CreateNodeWithAttrs(kind, parent, attrs)
}

// CreateNodeWithAttrs adds a node with exactly the given attributes (plus a
// default name when none is given) and selects it.
func (d *Document) CreateNodeWithAttrs(kind NodeKind, parent NodeID, attrs Attrs) (NodeID, ChangeDescriptor, error) {
	const op = "createNode"
	if _, named := attrs[AttrName]; !named && kind.IsValid() {
		withName := make(Attrs, len(attrs)+1)
		for k, v := range attrs {
			withName[k] = v
		}
		withName[AttrName] = d.defaultName(kind)
		attrs = withName
	}
	before := d.store.snapshot()
	id, err := d.store.Create(kind, parent, attrs)
	if err != nil {
		return "", noChange, d.reject(op, err)
	}
	d.hist.push(before)
	d.names[kind]++
	d.sel.SelectSingle(id)
	return id, d.commit(op, ChangeDescriptor{Kind: ChangeStructure, AffectedIDs: []NodeID{id}}), nil
}

var defaultNames = map[NodeKind]string{
	KindGroup: "Group",
	KindShape: "Rectangle",
	KindImage: "Image",
	KindText:  "Text",
}

// defaultName returns the next "<Kind> <n>" label, e.g. "Rectangle 3".
func (d *Document) defaultName(kind NodeKind) string {
	return fmt.Sprintf("%s %d", defaultNames[kind], d.names[kind]+1)
}

// --- Selection ---

// Select replaces the selection with id, or toggles id when extend is set
// (shift-click). Missing ids are ignored.
func (d *Document) Select(id NodeID, extend bool) ChangeDescriptor {
	var changed bool
	if extend {
		changed = d.sel.ToggleExtend(id)
	} else {
		changed = d.sel.SelectSingle(id)
	}
	return d.selectionChanged("select", changed)
}

// SelectRange selects the layer rows between the anchor and id.
func (d *Document) SelectRange(id NodeID) ChangeDescriptor {
	return d.selectionChanged("selectRange", d.sel.SelectRange(id))
}

// SelectAt selects the topmost node under a screen point. A miss clears the
// selection unless extend is set.
func (d *Document) SelectAt(screen Vec2, extend bool) ChangeDescriptor {
	id, ok := d.tree.HitTest(d.view.ScreenToDocument(screen))
	if !ok {
		if extend {
			return noChange
		}
		return d.ClearSelection()
	}
	return d.Select(id, extend)
}

// ClearSelection empties the selection.
func (d *Document) ClearSelection() ChangeDescriptor {
	return d.selectionChanged("clearSelection", d.sel.Clear())
}

func (d *Document) selectionChanged(op string, changed bool) ChangeDescriptor {
	if !changed {
		return noChange
	}
	return d.commit(op, ChangeDescriptor{Kind: ChangeSelection, AffectedIDs: d.sel.IDs()})
}

// --- Snapshots ---

// Export returns the full document state.
func (d *Document) Export() Snapshot {
	snap := d.store.snapshot()
	snap.Viewport = d.view.State()
	return snap
}

// Import replaces the document with snap. The snapshot is validated first;
// on error the document is unchanged. The selection and undo history are
// cleared.
func (d *Document) Import(snap Snapshot) (ChangeDescriptor, error) {
	if err := d.store.restore(snap); err != nil {
		return noChange, d.reject("import", err)
	}
	if snap.Viewport.Scale > 0 {
		d.view.Restore(snap.Viewport)
	}
	d.sel.Clear()
	d.hist.reset()
	d.afterRestore()
	return d.commit("import", ChangeDescriptor{Kind: ChangeDocument}), nil
}

// afterRestore resynchronizes derived state after the node table was swapped.
func (d *Document) afterRestore() {
	d.sel.purgeMissing()
	clear(d.names)
	for _, n := range d.store.nodes {
		d.names[n.Kind]++
	}
}

