package vellum

import (
	"strings"
	"testing"
)

func TestLoadScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"malformed", `{"steps": [`, "parse script"},
		{"empty", `{"steps": []}`, "no steps"},
		{"unknown action", `{"steps": [{"action": "explode"}]}`, "unknown action"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScript([]byte(tt.json))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

const scenarioScript = `{"steps": [
	{"action": "create", "kind": "group", "as": "G"},
	{"action": "create", "kind": "shape", "parent": "G", "as": "S1"},
	{"action": "create", "kind": "shape", "parent": "G", "as": "S2"},
	{"action": "move", "id": "S1", "parent": "G", "index": 1},
	{"action": "set", "ids": ["S1", "S2"], "attr": "opacity", "value": 0.5},
	{"action": "set", "ids": ["G"], "attr": "fillColor", "value": "#ff0000", "expectError": true},
	{"action": "move", "id": "G", "parent": "S1", "expectError": true},
	{"action": "select", "id": "S1"},
	{"action": "select", "id": "S2", "extend": true},
	{"action": "set", "attr": "strokeColor", "value": "#00ff00"},
	{"action": "toggleVisibility", "id": "G"},
	{"action": "toggleExpand", "id": "G"},
	{"action": "zoom", "x": 100, "y": 100, "delta": 0.1},
	{"action": "pan", "dx": 5, "dy": -5}
]}`

func TestScriptRunsScenario(t *testing.T) {
	script, err := LoadScript([]byte(scenarioScript))
	if err != nil {
		t.Fatal(err)
	}
	doc := newTestDoc(t)
	res, err := script.Run(doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Changes) != script.Len() {
		t.Errorf("Changes = %d, want %d", len(res.Changes), script.Len())
	}

	g, s1, s2 := res.IDs["G"], res.IDs["S1"], res.IDs["S2"]
	assertIDs(t, "children(G)", doc.Tree().Children(g), []NodeID{s2, s1})
	for _, id := range []NodeID{s1, s2} {
		n := getNode(t, doc, id)
		assertNear(t, "opacity", n.Appearance.Opacity, 0.5)
		if n.Appearance.Stroke.Hex() != "#00ff00" {
			t.Errorf("stroke = %s", n.Appearance.Stroke.Hex())
		}
	}
	gn := getNode(t, doc, g)
	if gn.Visible || gn.Expanded {
		t.Errorf("G visible=%v expanded=%v, want both false", gn.Visible, gn.Expanded)
	}
	assertNear(t, "scale", doc.Viewport().Scale, 1.1)
	assertVec(t, "offset", doc.Viewport().Offset, Vec2{-5, -15})
}

func TestScriptDeleteAndUndo(t *testing.T) {
	script, err := LoadScript([]byte(`{"steps": [
		{"action": "create", "kind": "group", "as": "G"},
		{"action": "create", "kind": "shape", "parent": "G"},
		{"action": "create", "kind": "text", "parent": "G", "attrs": {"content": "hi", "width": 40, "height": 12}},
		{"action": "select", "id": "G"},
		{"action": "delete"},
		{"action": "delete"},
		{"action": "undo"},
		{"action": "redo"},
		{"action": "undo"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	doc := newTestDoc(t)
	res, err := script.Run(doc)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(res.Changes[4].AffectedIDs); got != 3 {
		t.Errorf("delete removed %d ids, want 3", got)
	}
	if !res.Changes[5].IsEmpty() {
		t.Errorf("second delete = %+v, want no change", res.Changes[5])
	}
	if doc.Store().Len() != 3 {
		t.Errorf("Len = %d after undo, want 3", doc.Store().Len())
	}
	kids := doc.Tree().Children(res.IDs["G"])
	if n := getNode(t, doc, kids[1]); n.Content != "hi" || n.Name != "Text 1" {
		t.Errorf("text node = %+v", n)
	}
}

func TestScriptStopsAtFailure(t *testing.T) {
	script, _ := LoadScript([]byte(`{"steps": [
		{"action": "create", "kind": "shape", "as": "S"},
		{"action": "set", "ids": ["S"], "attr": "width", "value": -1},
		{"action": "create", "kind": "shape"}
	]}`))
	doc := newTestDoc(t)
	res, err := script.Run(doc)
	if err == nil || !strings.Contains(err.Error(), "step 1") {
		t.Fatalf("err = %v, want failure at step 1", err)
	}
	if len(res.Changes) != 1 || doc.Store().Len() != 1 {
		t.Errorf("script continued past the failure: %d changes, %d nodes", len(res.Changes), doc.Store().Len())
	}

	unexpected, _ := LoadScript([]byte(`{"steps": [{"action": "clear", "expectError": true}]}`))
	if _, err := unexpected.Run(newTestDoc(t)); err == nil {
		t.Error("a step expected to fail must not pass silently")
	}
}
