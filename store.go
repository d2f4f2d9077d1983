package vellum

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"
)

// NewUUID returns a random node id. It is the default id generator.
func NewUUID() NodeID {
	return NodeID(uuid.NewString())
}

// Store owns every node in a flat table keyed by id. Hierarchy is kept as
// id lists: each group's child order plus the root list. Nothing outside the
// store holds a *Node.
type Store struct {
	nodes map[NodeID]*Node
	roots []NodeID
	newID func() NodeID
}

// NewStore creates an empty store. A nil newID uses NewUUID.
func NewStore(newID func() NodeID) *Store {
	if newID == nil {
		newID = NewUUID
	}
	return &Store{
		nodes: make(map[NodeID]*Node),
		newID: newID,
	}
}

// Len returns the number of nodes.
func (s *Store) Len() int {
	return len(s.nodes)
}

// Has reports whether id exists.
func (s *Store) Has(id NodeID) bool {
	_, ok := s.nodes[id]
	return ok
}

// Get returns a copy of the node.
func (s *Store) Get(id NodeID) (Node, error) {
	n, ok := s.nodes[id]
	if !ok {
		return Node{}, opError("get", id, ErrNotFound)
	}
	return n.clone(), nil
}

// Roots returns a copy of the root-level order, bottom first.
func (s *Store) Roots() []NodeID {
	return slices.Clone(s.roots)
}

// IDs returns every id in pre-order paint order.
func (s *Store) IDs() []NodeID {
	out := make([]NodeID, 0, len(s.nodes))
	for _, id := range s.roots {
		out = s.appendSubtree(out, id)
	}
	return out
}

// LocalBounds returns the node's box in its parent's space.
func (s *Store) LocalBounds(id NodeID) (Rect, error) {
	n, ok := s.nodes[id]
	if !ok {
		return Rect{}, opError("bounds", id, ErrNotFound)
	}
	return n.LocalBounds(), nil
}

// --- Mutation ---

// Create inserts a new node at the top of parent's child order (or of the
// root list when parent is NoParent) and returns its id. attrs are validated
// before anything is inserted.
func (s *Store) Create(kind NodeKind, parent NodeID, attrs Attrs) (NodeID, error) {
	if !kind.IsValid() {
		return "", attrError("create", "", AttrKind, ErrInvalidValue, "unknown kind %d", kind)
	}
	if parent != NoParent {
		p, ok := s.nodes[parent]
		if !ok || !p.IsGroup() {
			return "", opError("create", parent, ErrInvalidParent)
		}
	}

	id := s.newID()
	if _, dup := s.nodes[id]; dup || id == NoParent {
		return "", &Error{Op: "create", ID: id, Err: ErrInvalidValue, Detail: "id generator returned an unusable id"}
	}

	n := newNode(id, kind, parent)
	if err := applyAttrs("create", n, attrs); err != nil {
		return "", err
	}

	s.nodes[id] = n
	list := s.childList(parent)
	*list = append(*list, id)
	return id, nil
}

// Update applies a partial attribute update. Every attribute is validated
// before any is applied.
func (s *Store) Update(id NodeID, attrs Attrs) (ChangeDescriptor, error) {
	n, ok := s.nodes[id]
	if !ok {
		return noChange, opError("update", id, ErrNotFound)
	}
	if len(attrs) == 0 {
		return noChange, nil
	}
	if err := applyAttrs("update", n, attrs); err != nil {
		return noChange, err
	}
	kind, attr := classifyAttrs(attrs.sortedKeys())
	return ChangeDescriptor{Kind: kind, AffectedIDs: []NodeID{id}, Attr: attr}, nil
}

// applyAttrs validates every attribute, then assigns them all.
func applyAttrs(op string, n *Node, attrs Attrs) error {
	keys := attrs.sortedKeys()
	values := make([]any, len(keys))
	for i, k := range keys {
		v, err := validateAttr(op, n, k, attrs[k])
		if err != nil {
			return err
		}
		values[i] = v
	}
	for i, k := range keys {
		n.set(k, values[i])
	}
	return nil
}

// Remove deletes the node and, for groups, every descendant. The returned
// ids start with id followed by its descendants in pre-order.
func (s *Store) Remove(id NodeID) ([]NodeID, error) {
	n, ok := s.nodes[id]
	if !ok {
		return nil, opError("remove", id, ErrNotFound)
	}
	removed := s.appendSubtree(nil, id)

	list := s.childList(n.ParentID)
	*list = removeID(*list, id)
	for _, rid := range removed {
		delete(s.nodes, rid)
	}
	return removed, nil
}

// Reparent moves id into newParent's child order at index, clamped to
// [0, len] where len is measured after id has been detached. NoParent moves
// the node to root level. The store is unchanged on failure.
func (s *Store) Reparent(id, newParent NodeID, index int) error {
	n, ok := s.nodes[id]
	if !ok {
		return opError("reparent", id, ErrNotFound)
	}
	if newParent != NoParent {
		if newParent == id || s.isAncestor(id, newParent) {
			return &Error{Op: "reparent", ID: id, Err: ErrCycleDetected,
				Detail: fmt.Sprintf("%s is inside %s", newParent, id)}
		}
		p, ok := s.nodes[newParent]
		if !ok || !p.IsGroup() {
			return &Error{Op: "reparent", ID: newParent, Err: ErrInvalidParent}
		}
	}

	old := s.childList(n.ParentID)
	*old = removeID(*old, id)

	n.ParentID = newParent
	list := s.childList(newParent)
	*list = insertID(*list, index, id)
	return nil
}

// --- Helpers ---

// childList returns the order list that holds parent's children.
// parent must be NoParent or an existing group.
func (s *Store) childList(parent NodeID) *[]NodeID {
	if parent == NoParent {
		return &s.roots
	}
	return &s.nodes[parent].children
}

// appendSubtree appends id and its descendants in pre-order.
func (s *Store) appendSubtree(out []NodeID, id NodeID) []NodeID {
	n, ok := s.nodes[id]
	if !ok {
		return out
	}
	out = append(out, id)
	for _, c := range n.children {
		out = s.appendSubtree(out, c)
	}
	return out
}

// isAncestor reports whether candidate is a strict ancestor of id.
func (s *Store) isAncestor(candidate, id NodeID) bool {
	steps := 0
	for n, ok := s.nodes[id]; ok && n.ParentID != NoParent; n, ok = s.nodes[n.ParentID] {
		if n.ParentID == candidate {
			return true
		}
		steps++
		if steps > len(s.nodes) {
			return false // corrupted parent chain; Validate reports it
		}
	}
	return false
}

// Validate checks every structural and value invariant and returns all
// violations joined, or nil.
func (s *Store) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	ids := slices.Sorted(maps.Keys(s.nodes))
	seen := make(map[NodeID]int, len(s.nodes))
	for _, id := range s.roots {
		seen[id]++
		n, ok := s.nodes[id]
		switch {
		case !ok:
			fail("root list references missing node %s", id)
		case n.ParentID != NoParent:
			fail("root list holds %s whose parent is %s", id, n.ParentID)
		}
	}

	for _, id := range ids {
		n := s.nodes[id]
		if n.ID != id {
			fail("node stored under %s claims id %s", id, n.ID)
		}
		if !n.Kind.IsValid() {
			fail("node %s has invalid kind %d", id, n.Kind)
		}
		if n.ParentID != NoParent {
			p, ok := s.nodes[n.ParentID]
			switch {
			case !ok:
				fail("node %s references missing parent %s", id, n.ParentID)
			case !p.IsGroup():
				fail("node %s has non-group parent %s", id, n.ParentID)
			case indexOf(p.children, id) < 0:
				fail("node %s missing from child order of %s", id, n.ParentID)
			}
		}
		if !n.IsGroup() && len(n.children) > 0 {
			fail("non-group node %s has children", id)
		}
		for _, c := range n.children {
			seen[c]++
			child, ok := s.nodes[c]
			switch {
			case !ok:
				fail("group %s lists missing child %s", id, c)
			case child.ParentID != id:
				fail("group %s lists %s whose parent is %s", id, c, child.ParentID)
			}
		}
		if s.inCycle(id) {
			fail("node %s is its own ancestor", id)
		}
		if n.Appearance.Opacity < 0 || n.Appearance.Opacity > 1 {
			fail("node %s opacity %v outside [0, 1]", id, n.Appearance.Opacity)
		}
		if n.Appearance.StrokeWidth < 0 {
			fail("node %s has negative stroke width", id)
		}
		if n.Size.Width < 0 || n.Size.Height < 0 {
			fail("node %s has negative size", id)
		}
	}

	for _, id := range slices.Sorted(maps.Keys(seen)) {
		if seen[id] > 1 {
			fail("node %s appears in %d order lists", id, seen[id])
		}
	}
	for _, id := range ids {
		if seen[id] == 0 {
			fail("node %s is not in any order list", id)
		}
	}
	return errors.Join(errs...)
}

// inCycle walks id's parent chain looking for id.
func (s *Store) inCycle(id NodeID) bool {
	n := s.nodes[id]
	for steps := 0; n != nil && n.ParentID != NoParent; steps++ {
		if n.ParentID == id || steps > len(s.nodes) {
			return true
		}
		n = s.nodes[n.ParentID]
	}
	return false
}
