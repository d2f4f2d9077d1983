package vellum

import (
	"errors"
	"fmt"
	"slices"
	"testing"
)

// seqIDs returns a deterministic id generator: n1, n2, ...
func seqIDs() func() NodeID {
	n := 0
	return func() NodeID {
		n++
		return NodeID(fmt.Sprintf("n%d", n))
	}
}

func mustCreate(t *testing.T, s *Store, kind NodeKind, parent NodeID, attrs Attrs) NodeID {
	t.Helper()
	id, err := s.Create(kind, parent, attrs)
	if err != nil {
		t.Fatalf("Create(%v, %q): %v", kind, parent, err)
	}
	return id
}

func assertIDs(t *testing.T, name string, got, want []NodeID) {
	t.Helper()
	if !slices.Equal(got, want) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertValid(t *testing.T, s *Store) {
	t.Helper()
	if err := s.Validate(); err != nil {
		t.Fatalf("store invariants violated: %v", err)
	}
}

func TestNewStoreDefaultsToUUID(t *testing.T) {
	s := NewStore(nil)
	id := mustCreate(t, s, KindShape, NoParent, nil)
	if len(id) != 36 {
		t.Errorf("id %q does not look like a UUID", id)
	}
}

func TestCreateAppendsOnTop(t *testing.T) {
	s := NewStore(seqIDs())
	g := mustCreate(t, s, KindGroup, NoParent, nil)
	a := mustCreate(t, s, KindShape, g, nil)
	b := mustCreate(t, s, KindShape, g, nil)
	r := mustCreate(t, s, KindText, NoParent, Attrs{AttrContent: "hi"})

	assertIDs(t, "roots", s.Roots(), []NodeID{g, r})
	n, _ := s.Get(g)
	assertIDs(t, "children", n.Children(), []NodeID{a, b})
	assertIDs(t, "pre-order", s.IDs(), []NodeID{g, a, b, r})
	assertValid(t, s)
}

func TestCreateErrors(t *testing.T) {
	s := NewStore(seqIDs())
	shape := mustCreate(t, s, KindShape, NoParent, nil)

	tests := []struct {
		name    string
		kind    NodeKind
		parent  NodeID
		attrs   Attrs
		wantErr error
	}{
		{"missing parent", KindShape, "ghost", nil, ErrInvalidParent},
		{"non-group parent", KindShape, shape, nil, ErrInvalidParent},
		{"invalid kind", NodeKind(9), NoParent, nil, ErrInvalidValue},
		{"bad attr", KindShape, NoParent, Attrs{AttrWidth: -5}, ErrInvalidValue},
		{"immutable attr", KindShape, NoParent, Attrs{AttrKind: "group"}, ErrImmutableAttribute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := s.Len()
			_, err := s.Create(tt.kind, tt.parent, tt.attrs)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if s.Len() != before {
				t.Errorf("Len = %d after failed create, want %d", s.Len(), before)
			}
			assertValid(t, s)
		})
	}
}

func TestCreateRejectsDuplicateID(t *testing.T) {
	s := NewStore(func() NodeID { return "same" })
	mustCreate(t, s, KindShape, NoParent, nil)
	if _, err := s.Create(KindShape, NoParent, nil); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("err = %v, want ErrInvalidValue", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestGetReturnsCopy(t *testing.T) {
	s := NewStore(seqIDs())
	id := mustCreate(t, s, KindShape, NoParent, Attrs{AttrName: "box"})
	n, _ := s.Get(id)
	n.Name = "changed"
	again, _ := s.Get(id)
	if again.Name != "box" {
		t.Errorf("Name = %q, mutation of copy leaked into store", again.Name)
	}
	if _, err := s.Get("ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdate(t *testing.T) {
	s := NewStore(seqIDs())
	id := mustCreate(t, s, KindShape, NoParent, nil)

	c, err := s.Update(id, Attrs{AttrX: 5, AttrY: 6})
	if err != nil {
		t.Fatal(err)
	}
	if c.Kind != ChangeProperty || c.Attr != "" {
		t.Errorf("descriptor = %+v, want multi-attr property change", c)
	}
	c, _ = s.Update(id, Attrs{AttrVisible: false})
	if c.Kind != ChangeVisibility {
		t.Errorf("Kind = %v, want visibility", c.Kind)
	}

	// Atomic: the valid x must not be applied when width fails.
	_, err = s.Update(id, Attrs{AttrX: 99, AttrWidth: -1})
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("err = %v, want ErrInvalidValue", err)
	}
	n, _ := s.Get(id)
	if n.Transform.X != 5 {
		t.Errorf("X = %v, partial update applied", n.Transform.X)
	}

	if _, err := s.Update(id, Attrs{AttrKind: "group"}); !errors.Is(err, ErrImmutableAttribute) {
		t.Errorf("err = %v, want ErrImmutableAttribute", err)
	}
	if _, err := s.Update("ghost", Attrs{AttrX: 1}); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if c, err := s.Update(id, nil); err != nil || !c.IsEmpty() {
		t.Errorf("empty update = %+v, %v", c, err)
	}
}

func TestRemoveReturnsSubtree(t *testing.T) {
	s := NewStore(seqIDs())
	g := mustCreate(t, s, KindGroup, NoParent, nil)
	inner := mustCreate(t, s, KindGroup, g, nil)
	a := mustCreate(t, s, KindShape, inner, nil)
	b := mustCreate(t, s, KindShape, g, nil)
	other := mustCreate(t, s, KindShape, NoParent, nil)

	removed, err := s.Remove(g)
	if err != nil {
		t.Fatal(err)
	}
	assertIDs(t, "removed", removed, []NodeID{g, inner, a, b})
	assertIDs(t, "roots", s.Roots(), []NodeID{other})
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
	assertValid(t, s)

	if _, err := s.Remove(g); !errors.Is(err, ErrNotFound) {
		t.Errorf("second remove err = %v, want ErrNotFound", err)
	}
}

func TestReparent(t *testing.T) {
	s := NewStore(seqIDs())
	g := mustCreate(t, s, KindGroup, NoParent, nil)
	s1 := mustCreate(t, s, KindShape, g, nil)
	s2 := mustCreate(t, s, KindShape, g, nil)

	if err := s.Reparent(s1, g, 1); err != nil {
		t.Fatal(err)
	}
	n, _ := s.Get(g)
	assertIDs(t, "children", n.Children(), []NodeID{s2, s1})

	if err := s.Reparent(s1, NoParent, 0); err != nil {
		t.Fatal(err)
	}
	assertIDs(t, "roots", s.Roots(), []NodeID{s1, g})
	moved, _ := s.Get(s1)
	if moved.ParentID != NoParent {
		t.Errorf("ParentID = %q, want root", moved.ParentID)
	}
	assertValid(t, s)
}

func TestReparentFailuresLeaveStoreUntouched(t *testing.T) {
	s := NewStore(seqIDs())
	outer := mustCreate(t, s, KindGroup, NoParent, nil)
	inner := mustCreate(t, s, KindGroup, outer, nil)
	deep := mustCreate(t, s, KindGroup, inner, nil)
	shape := mustCreate(t, s, KindShape, NoParent, nil)

	tests := []struct {
		name    string
		id      NodeID
		parent  NodeID
		wantErr error
	}{
		{"self", outer, outer, ErrCycleDetected},
		{"child", outer, inner, ErrCycleDetected},
		{"grandchild", outer, deep, ErrCycleDetected},
		{"non-group", inner, shape, ErrInvalidParent},
		{"missing parent", inner, "ghost", ErrInvalidParent},
		{"missing node", "ghost", outer, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := s.IDs()
			err := s.Reparent(tt.id, tt.parent, 0)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			assertIDs(t, "ids", s.IDs(), before)
			assertValid(t, s)
		})
	}
}

func TestValidateDetectsCorruption(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(s *Store, g, a NodeID)
	}{
		{"orphan", func(s *Store, g, a NodeID) { s.nodes[g].children = nil }},
		{"duplicate entry", func(s *Store, g, a NodeID) { s.roots = append(s.roots, a) }},
		{"missing child", func(s *Store, g, a NodeID) { s.nodes[g].children = append(s.nodes[g].children, "ghost") }},
		{"cycle", func(s *Store, g, a NodeID) {
			s.roots = removeID(s.roots, g)
			s.nodes[g].ParentID = g
			s.nodes[g].children = append(s.nodes[g].children, g)
		}},
		{"opacity", func(s *Store, g, a NodeID) { s.nodes[a].Appearance.Opacity = 2 }},
		{"shape with children", func(s *Store, g, a NodeID) { s.nodes[a].children = []NodeID{g} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(seqIDs())
			g := mustCreate(t, s, KindGroup, NoParent, nil)
			a := mustCreate(t, s, KindShape, g, nil)
			assertValid(t, s)
			tt.corrupt(s, g, a)
			if err := s.Validate(); err == nil {
				t.Error("Validate() = nil, want violation")
			}
		})
	}
}
