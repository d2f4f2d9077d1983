package vellum

import "slices"

// Selection tracks the ordered set of selected ids plus the anchor, the id
// most recently selected without the extend modifier. Every member is
// guaranteed to exist in the store as long as callers purge after deletes
// (the Document does this).
type Selection struct {
	tree   *Tree
	ids    []NodeID
	anchor NodeID
}

// NewSelection returns an empty selection over t.
func NewSelection(t *Tree) *Selection {
	return &Selection{tree: t}
}

// IDs returns the selected ids in selection order.
func (s *Selection) IDs() []NodeID {
	return slices.Clone(s.ids)
}

// Len returns the number of selected nodes.
func (s *Selection) Len() int {
	return len(s.ids)
}

// IsEmpty reports whether nothing is selected.
func (s *Selection) IsEmpty() bool {
	return len(s.ids) == 0
}

// Contains reports whether id is selected.
func (s *Selection) Contains(id NodeID) bool {
	return slices.Contains(s.ids, id)
}

// Anchor returns the anchor id, or NoParent when there is none.
func (s *Selection) Anchor() NodeID {
	return s.anchor
}

// SelectSingle replaces the selection with id and makes it the anchor.
// Stale ids are ignored. Reports whether the selection changed.
func (s *Selection) SelectSingle(id NodeID) bool {
	if !s.tree.store.Has(id) {
		return false
	}
	if len(s.ids) == 1 && s.ids[0] == id && s.anchor == id {
		return false
	}
	s.ids = append(s.ids[:0], id)
	s.anchor = id
	return true
}

// ToggleExtend adds id when absent and removes it when present (shift-click).
// The anchor is kept unless the selection empties, which clears it; toggling
// into an empty selection anchors on id. Stale ids are ignored.
func (s *Selection) ToggleExtend(id NodeID) bool {
	if !s.tree.store.Has(id) {
		return false
	}
	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
		if len(s.ids) == 0 {
			s.anchor = NoParent
		}
		return true
	}
	if len(s.ids) == 0 {
		s.anchor = id
	}
	s.ids = append(s.ids, id)
	return true
}

// SelectRange selects every layer row between the anchor and id, inclusive,
// in layer-list order. Without an anchor (or when either end is not a
// listed row) it behaves like SelectSingle. The anchor is unchanged.
func (s *Selection) SelectRange(id NodeID) bool {
	if !s.tree.store.Has(id) {
		return false
	}
	if s.anchor == NoParent {
		return s.SelectSingle(id)
	}
	rows := s.tree.LayerRows(nil)
	from, to := -1, -1
	for i, r := range rows {
		if r.ID == s.anchor {
			from = i
		}
		if r.ID == id {
			to = i
		}
	}
	if from < 0 || to < 0 {
		return s.SelectSingle(id)
	}
	if from > to {
		from, to = to, from
	}
	next := make([]NodeID, 0, to-from+1)
	for _, r := range rows[from : to+1] {
		next = append(next, r.ID)
	}
	if slices.Equal(next, s.ids) {
		return false
	}
	s.ids = next
	return true
}

// Clear empties the selection and the anchor.
func (s *Selection) Clear() bool {
	changed := len(s.ids) > 0 || s.anchor != NoParent
	s.ids = s.ids[:0]
	s.anchor = NoParent
	return changed
}

// Purge drops every member of removed, leaving other members in order.
func (s *Selection) Purge(removed []NodeID) bool {
	if len(removed) == 0 || len(s.ids) == 0 {
		return false
	}
	gone := make(map[NodeID]struct{}, len(removed))
	for _, id := range removed {
		gone[id] = struct{}{}
	}
	before := len(s.ids)
	s.ids = slices.DeleteFunc(s.ids, func(id NodeID) bool {
		_, ok := gone[id]
		return ok
	})
	if _, ok := gone[s.anchor]; ok || len(s.ids) == 0 {
		s.anchor = NoParent
	}
	return len(s.ids) != before
}

// purgeMissing drops members that no longer exist in the store.
func (s *Selection) purgeMissing() bool {
	var missing []NodeID
	for _, id := range s.ids {
		if !s.tree.store.Has(id) {
			missing = append(missing, id)
		}
	}
	if s.anchor != NoParent && !s.tree.store.Has(s.anchor) {
		missing = append(missing, s.anchor)
	}
	return s.Purge(missing)
}

// BoundingBox returns the union of the selected nodes' world bounds.
func (s *Selection) BoundingBox() (Rect, bool) {
	var box Rect
	found := false
	for _, id := range s.ids {
		r, ok := s.tree.WorldBounds(id)
		if !ok {
			continue
		}
		if !found {
			box, found = r, true
		} else {
			box = box.Union(r)
		}
	}
	return box, found
}

// CommonProperty returns the value of attr shared by every selected node, or
// Mixed when they differ. It returns nil when nothing is selected, attr is
// unknown, or attr does not apply to every selected node.
func (s *Selection) CommonProperty(attr Attr) any {
	if len(s.ids) == 0 || !attr.IsKnown() {
		return nil
	}
	var common any
	for i, id := range s.ids {
		n, ok := s.tree.store.nodes[id]
		if !ok {
			return nil
		}
		v, ok := n.Value(attr)
		if !ok {
			return nil
		}
		if i == 0 {
			common = v
		} else if v != common {
			return Mixed
		}
	}
	return common
}
