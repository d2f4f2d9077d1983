package vellum

import (
	"encoding/json"
	"errors"
	"fmt"
)

// scriptStep is a single pipeline call in a script. Node references are
// either literal ids or aliases bound by an earlier create step's "as".
type scriptStep struct {
	Action string `json:"action"`
	As     string `json:"as,omitempty"`

	Kind   string   `json:"kind,omitempty"`
	ID     string   `json:"id,omitempty"`
	IDs    []string `json:"ids,omitempty"`
	Parent string   `json:"parent,omitempty"`
	Index  int      `json:"index,omitempty"`
	Extend bool     `json:"extend,omitempty"`

	Attr  string         `json:"attr,omitempty"`
	Value any            `json:"value,omitempty"`
	Attrs map[string]any `json:"attrs,omitempty"`

	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
	DX    float64 `json:"dx,omitempty"`
	DY    float64 `json:"dy,omitempty"`
	Delta float64 `json:"delta,omitempty"`

	// ExpectError makes the step pass only if the pipeline rejects it.
	ExpectError bool `json:"expectError,omitempty"`
}

// scriptFile is the top-level JSON structure for a script.
type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// Script replays a sequence of pipeline calls against a Document. It is
// used for fixtures, reproductions and the command-line runner.
type Script struct {
	steps []scriptStep
}

// ScriptResult reports what a script run did.
type ScriptResult struct {
	// Changes holds the descriptor of every step, in order.
	Changes []ChangeDescriptor
	// IDs maps each "as" alias to the id it was bound to.
	IDs map[string]NodeID
}

var scriptActions = map[string]bool{
	"create": true, "select": true, "selectRange": true, "clear": true,
	"set": true, "update": true, "toggleVisibility": true, "toggleExpand": true,
	"move": true, "delete": true, "zoom": true, "pan": true,
	"undo": true, "redo": true,
}

// LoadScript parses a JSON script. Unknown actions are rejected up front.
func LoadScript(jsonData []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, errors.New("parse script: no steps")
	}
	for i, st := range f.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: f.Steps}, nil
}

// Len returns the number of steps.
func (s *Script) Len() int { return len(s.steps) }

// Run executes every step in order and stops at the first unexpected
// outcome. The document keeps the changes made by earlier steps.
func (s *Script) Run(doc *Document) (ScriptResult, error) {
	res := ScriptResult{IDs: make(map[string]NodeID)}
	for i, st := range s.steps {
		c, err := s.step(doc, st, res.IDs)
		switch {
		case st.ExpectError && err == nil:
			return res, fmt.Errorf("step %d (%s): expected an error", i, st.Action)
		case !st.ExpectError && err != nil:
			return res, fmt.Errorf("step %d (%s): %w", i, st.Action, err)
		}
		res.Changes = append(res.Changes, c)
	}
	return res, nil
}

func (s *Script) step(doc *Document, st scriptStep, ids map[string]NodeID) (ChangeDescriptor, error) {
	ref := func(r string) NodeID {
		if id, ok := ids[r]; ok {
			return id
		}
		return NodeID(r)
	}
	refs := func(rs []string) []NodeID {
		out := make([]NodeID, len(rs))
		for i, r := range rs {
			out[i] = ref(r)
		}
		return out
	}

	switch st.Action {
	case "create":
		kind, err := ParseNodeKind(st.Kind)
		if err != nil {
			return noChange, err
		}
		var id NodeID
		var c ChangeDescriptor
		if st.Attrs != nil {
			attrs := make(Attrs, len(st.Attrs))
			for k, v := range st.Attrs {
				attrs[Attr(k)] = v
			}
			id, c, err = doc.CreateNodeWithAttrs(kind, ref(st.Parent), attrs)
		} else {
			id, c, err = doc.CreateNode(kind, ref(st.Parent), Vec2{st.X, st.Y})
		}
		if err == nil && st.As != "" {
			ids[st.As] = id
		}
		return c, err
	case "select":
		return doc.Select(ref(st.ID), st.Extend), nil
	case "selectRange":
		return doc.SelectRange(ref(st.ID)), nil
	case "clear":
		return doc.ClearSelection(), nil
	case "set":
		if st.IDs == nil {
			return doc.SetSelectedProperty(Attr(st.Attr), st.Value)
		}
		return doc.SetProperty(refs(st.IDs), Attr(st.Attr), st.Value)
	case "update":
		attrs := make(Attrs, len(st.Attrs))
		for k, v := range st.Attrs {
			attrs[Attr(k)] = v
		}
		return doc.UpdateNode(ref(st.ID), attrs)
	case "toggleVisibility":
		return doc.ToggleVisibility(ref(st.ID)), nil
	case "toggleExpand":
		return doc.ToggleExpand(ref(st.ID)), nil
	case "move":
		return doc.MoveNode(ref(st.ID), ref(st.Parent), st.Index)
	case "delete":
		if st.IDs == nil {
			return doc.DeleteSelected(), nil
		}
		return doc.DeleteNodes(refs(st.IDs)), nil
	case "zoom":
		doc.Viewport().ZoomAt(Vec2{st.X, st.Y}, st.Delta)
		return noChange, nil
	case "pan":
		doc.Viewport().Pan(Vec2{st.DX, st.DY})
		return noChange, nil
	case "undo":
		return doc.Undo()
	case "redo":
		return doc.Redo()
	}
	return noChange, fmt.Errorf("unknown action %q", st.Action)
}
