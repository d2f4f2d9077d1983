package vellum

import "testing"

func TestSelectSingle(t *testing.T) {
	_, tr, g, a, _, _, _ := buildTree(t)
	sel := NewSelection(tr)

	if !sel.SelectSingle(a) {
		t.Fatal("first select should report a change")
	}
	if sel.SelectSingle(a) {
		t.Error("reselecting the same node should be a no-op")
	}
	sel.SelectSingle(g)
	assertIDs(t, "ids", sel.IDs(), []NodeID{g})
	if sel.Anchor() != g {
		t.Errorf("Anchor = %q, want %q", sel.Anchor(), g)
	}
	if sel.SelectSingle("ghost") {
		t.Error("stale id should be ignored")
	}
	assertIDs(t, "after stale", sel.IDs(), []NodeID{g})
}

func TestToggleExtend(t *testing.T) {
	_, tr, _, a, _, b, c := buildTree(t)
	sel := NewSelection(tr)

	sel.ToggleExtend(a)
	if sel.Anchor() != a {
		t.Errorf("toggle into empty selection should anchor; got %q", sel.Anchor())
	}
	sel.ToggleExtend(b)
	sel.ToggleExtend(c)
	assertIDs(t, "extended", sel.IDs(), []NodeID{a, b, c})
	if sel.Anchor() != a {
		t.Errorf("Anchor = %q, want %q", sel.Anchor(), a)
	}

	sel.ToggleExtend(b)
	assertIDs(t, "toggled off", sel.IDs(), []NodeID{a, c})

	sel.ToggleExtend(a)
	sel.ToggleExtend(c)
	if !sel.IsEmpty() || sel.Anchor() != NoParent {
		t.Errorf("emptied selection: ids=%v anchor=%q", sel.IDs(), sel.Anchor())
	}
	if sel.ToggleExtend("ghost") {
		t.Error("stale id should be ignored")
	}
}

func TestSelectRange(t *testing.T) {
	_, tr, g, a, inner, b, c := buildTree(t)
	sel := NewSelection(tr)

	sel.SelectRange(a)
	assertIDs(t, "no anchor", sel.IDs(), []NodeID{a})

	sel.SelectRange(c)
	assertIDs(t, "forward", sel.IDs(), []NodeID{a, inner, b, c})

	sel.SelectSingle(b)
	sel.SelectRange(g)
	assertIDs(t, "backward", sel.IDs(), []NodeID{g, a, inner, b})
	if sel.Anchor() != b {
		t.Errorf("Anchor = %q, want %q", sel.Anchor(), b)
	}
}

func TestPurge(t *testing.T) {
	_, tr, g, a, _, b, c := buildTree(t)
	sel := NewSelection(tr)
	sel.SelectSingle(a)
	sel.ToggleExtend(b)
	sel.ToggleExtend(c)

	if !sel.Purge([]NodeID{g, a, b}) {
		t.Fatal("Purge should report a change")
	}
	assertIDs(t, "after purge", sel.IDs(), []NodeID{c})
	if sel.Anchor() != NoParent {
		t.Errorf("purged anchor kept: %q", sel.Anchor())
	}
	if sel.Purge([]NodeID{"ghost"}) {
		t.Error("purging unselected ids should be a no-op")
	}
}

func TestBoundingBox(t *testing.T) {
	_, tr, _, a, _, _, c := buildTree(t)
	sel := NewSelection(tr)
	if _, ok := sel.BoundingBox(); ok {
		t.Error("empty selection has no box")
	}
	sel.SelectSingle(a)
	sel.ToggleExtend(c)
	box, ok := sel.BoundingBox()
	if !ok {
		t.Fatal("BoundingBox not found")
	}
	assertRect(t, "box", box, Rect{100, 0, 150, 50})
}

func TestCommonProperty(t *testing.T) {
	s, tr, g, a, _, b, _ := buildTree(t)
	sel := NewSelection(tr)

	if v := sel.CommonProperty(AttrOpacity); v != nil {
		t.Errorf("empty selection = %v, want nil", v)
	}

	sel.SelectSingle(a)
	sel.ToggleExtend(b)
	if v := sel.CommonProperty(AttrOpacity); v != 1.0 {
		t.Errorf("shared opacity = %v, want 1", v)
	}
	s.nodes[a].Appearance.Opacity = 0.8
	if v := sel.CommonProperty(AttrOpacity); v != Mixed {
		t.Errorf("differing opacity = %v, want Mixed", v)
	}

	sel.ToggleExtend(g)
	if v := sel.CommonProperty(AttrFill); v != nil {
		t.Errorf("fill across group = %v, want nil", v)
	}
	if v := sel.CommonProperty(Attr("bogus")); v != nil {
		t.Errorf("unknown attr = %v, want nil", v)
	}
}
