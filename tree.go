package vellum

import (
	"iter"
	"slices"
)

// Tree is the read-only hierarchical view over a Store. It holds no node
// data of its own; every read resolves ids through the store.
type Tree struct {
	store *Store
}

// NewTree returns a tree view over s.
func NewTree(s *Store) *Tree {
	return &Tree{store: s}
}

// Children returns the ordered children of id, bottom first. For NoParent
// it returns the root list. Non-groups and missing ids have no children.
func (t *Tree) Children(id NodeID) []NodeID {
	if id == NoParent {
		return t.store.Roots()
	}
	n, ok := t.store.nodes[id]
	if !ok {
		return nil
	}
	return slices.Clone(n.children)
}

// Ancestors returns the chain from id's immediate parent up to its root.
func (t *Tree) Ancestors(id NodeID) []NodeID {
	var out []NodeID
	n, ok := t.store.nodes[id]
	for ok && n.ParentID != NoParent {
		out = append(out, n.ParentID)
		n, ok = t.store.nodes[n.ParentID]
	}
	return out
}

// IsAncestor reports whether candidate is a strict ancestor of id.
func (t *Tree) IsAncestor(candidate, id NodeID) bool {
	return t.store.isAncestor(candidate, id)
}

// Depth returns the distance from the root level (root-level nodes are 0),
// or -1 when id does not exist.
func (t *Tree) Depth(id NodeID) int {
	if !t.store.Has(id) {
		return -1
	}
	return len(t.Ancestors(id))
}

// EffectiveVisibility reports whether id and every ancestor are visible.
// Missing ids are never visible.
func (t *Tree) EffectiveVisibility(id NodeID) bool {
	n, ok := t.store.nodes[id]
	if !ok {
		return false
	}
	for ok {
		if !n.Visible {
			return false
		}
		if n.ParentID == NoParent {
			return true
		}
		n, ok = t.store.nodes[n.ParentID]
	}
	return false
}

// Traverse yields ids in paint order: pre-order depth-first, children in
// child order. root == NoParent walks the whole document. With visibleOnly
// set, subtrees rooted at hidden nodes are skipped entirely. The sequence can
// be ranged over any number of times.
func (t *Tree) Traverse(root NodeID, visibleOnly bool) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		var walk func(id NodeID) bool
		walk = func(id NodeID) bool {
			n, ok := t.store.nodes[id]
			if !ok {
				return true
			}
			if visibleOnly && !n.Visible {
				return true
			}
			if !yield(id) {
				return false
			}
			for _, c := range n.children {
				if !walk(c) {
					return false
				}
			}
			return true
		}

		if root != NoParent {
			if visibleOnly && !t.EffectiveVisibility(root) {
				return
			}
			walk(root)
			return
		}
		for _, id := range t.store.roots {
			if !walk(id) {
				return
			}
		}
	}
}

// --- World-space reads ---

// WorldTransform returns the matrix mapping id's local space to document
// space. Missing ids yield the identity.
func (t *Tree) WorldTransform(id NodeID) Affine {
	m := IdentityAffine
	for n, ok := t.store.nodes[id]; ok; n, ok = t.store.nodes[n.ParentID] {
		m = n.Transform.Affine().Mul(m)
		if n.ParentID == NoParent {
			break
		}
	}
	return m
}

// WorldOpacity returns the product of opacities from id up to its root.
func (t *Tree) WorldOpacity(id NodeID) float64 {
	alpha := 1.0
	for n, ok := t.store.nodes[id]; ok; n, ok = t.store.nodes[n.ParentID] {
		alpha *= n.Appearance.Opacity
		if n.ParentID == NoParent {
			break
		}
	}
	return alpha
}

// WorldBounds returns id's axis-aligned bounding box in document space.
// A group's bounds are the union of its descendants' bounds, or its own box
// when it has no descendants.
func (t *Tree) WorldBounds(id NodeID) (Rect, bool) {
	n, ok := t.store.nodes[id]
	if !ok {
		return Rect{}, false
	}
	return t.worldBounds(n, t.WorldTransform(id)), true
}

func (t *Tree) worldBounds(n *Node, world Affine) Rect {
	own := world.ApplyRect(Rect{Width: n.Size.Width, Height: n.Size.Height})
	if len(n.children) == 0 {
		return own
	}
	var out Rect
	for i, c := range n.children {
		child := t.store.nodes[c]
		r := t.worldBounds(child, world.Mul(child.Transform.Affine()))
		if i == 0 {
			out = r
		} else {
			out = out.Union(r)
		}
	}
	return out
}

// HitTest returns the topmost effectively-visible non-group node whose box
// contains the document-space point p.
func (t *Tree) HitTest(p Vec2) (NodeID, bool) {
	var hit NodeID
	found := false
	t.walkWorld(func(n *Node, world Affine, _ float64) {
		if n.IsGroup() || n.Size.Width == 0 || n.Size.Height == 0 {
			return
		}
		local := world.Invert().Apply(p)
		if (Rect{Width: n.Size.Width, Height: n.Size.Height}).Contains(local.X, local.Y) {
			hit, found = n.ID, true
		}
	})
	return hit, found
}

// walkWorld visits visible nodes in paint order with their accumulated world
// matrix and opacity, computing each from its parent's.
func (t *Tree) walkWorld(visit func(n *Node, world Affine, alpha float64)) {
	var walk func(id NodeID, parent Affine, parentAlpha float64)
	walk = func(id NodeID, parent Affine, parentAlpha float64) {
		n, ok := t.store.nodes[id]
		if !ok || !n.Visible {
			return
		}
		world := parent.Mul(n.Transform.Affine())
		alpha := parentAlpha * n.Appearance.Opacity
		visit(n, world, alpha)
		for _, c := range n.children {
			walk(c, world, alpha)
		}
	}
	for _, id := range t.store.roots {
		walk(id, IdentityAffine, 1)
	}
}

// --- Derived views ---

// RenderItem is a paint-ordered node snapshot handed to an external renderer.
// Appearance.Opacity already includes every ancestor's opacity.
type RenderItem struct {
	ID         NodeID
	Kind       NodeKind
	Name       string
	World      Affine
	Size       Size
	Appearance Appearance
	Content    string
}

// RenderList returns every effectively-visible node in paint order.
func (t *Tree) RenderList() []RenderItem {
	items := make([]RenderItem, 0, t.store.Len())
	t.walkWorld(func(n *Node, world Affine, alpha float64) {
		app := n.Appearance
		app.Opacity = alpha
		items = append(items, RenderItem{
			ID:         n.ID,
			Kind:       n.Kind,
			Name:       n.Name,
			World:      world,
			Size:       n.Size,
			Appearance: app,
			Content:    n.Content,
		})
	})
	return items
}

// LayerRow is one line of the layer list.
type LayerRow struct {
	ID               NodeID
	Name             string
	Kind             NodeKind
	Depth            int
	Visible          bool
	EffectiveVisible bool
	Expanded         bool
	Selected         bool
	HasChildren      bool
}

// LayerRows returns the rows of the layer list in pre-order. Children of
// collapsed groups are omitted. sel may be nil.
func (t *Tree) LayerRows(sel *Selection) []LayerRow {
	var rows []LayerRow
	var walk func(id NodeID, depth int, parentVisible bool)
	walk = func(id NodeID, depth int, parentVisible bool) {
		n, ok := t.store.nodes[id]
		if !ok {
			return
		}
		effective := parentVisible && n.Visible
		rows = append(rows, LayerRow{
			ID:               id,
			Name:             n.Name,
			Kind:             n.Kind,
			Depth:            depth,
			Visible:          n.Visible,
			EffectiveVisible: effective,
			Expanded:         n.Expanded,
			Selected:         sel != nil && sel.Contains(id),
			HasChildren:      len(n.children) > 0,
		})
		if n.IsGroup() && !n.Expanded {
			return
		}
		for _, c := range n.children {
			walk(c, depth+1, effective)
		}
	}
	for _, id := range t.store.roots {
		walk(id, 0, true)
	}
	return rows
}
