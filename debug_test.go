package vellum

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func newLoggedDoc(t *testing.T, buf *bytes.Buffer) *Document {
	t.Helper()
	cfg := DefaultConfig()
	cfg.NewID = seqIDs()
	cfg.Debug = true
	cfg.Logger = log.NewWithOptions(buf, log.Options{Level: log.DebugLevel})
	doc, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestDebugPanicsOnCorruption(t *testing.T) {
	doc := newTestDoc(t)
	g, s1, _ := groupWithTwo(t, doc)
	// Corrupt the store behind the pipeline's back.
	doc.store.nodes[g].children = removeID(doc.store.nodes[g].children, s1)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		if msg, ok := r.(string); !ok || !strings.Contains(msg, "toggleVisibility") {
			t.Errorf("panic = %v, want mention of the operation", r)
		}
	}()
	doc.ToggleVisibility(g)
}

func TestCheckInvariantsSelection(t *testing.T) {
	doc := newTestDoc(t)
	id := mustCreateNode(t, doc, KindShape, NoParent)
	if err := doc.CheckInvariants(); err != nil {
		t.Fatal(err)
	}
	delete(doc.store.nodes, id)
	doc.store.roots = nil
	if err := doc.CheckInvariants(); err == nil {
		t.Error("dangling selection should be reported")
	}
}

func TestPipelineLogging(t *testing.T) {
	var buf bytes.Buffer
	doc := newLoggedDoc(t, &buf)
	id := mustCreateNode(t, doc, KindShape, NoParent)
	doc.SetProperty([]NodeID{id}, AttrWidth, -1)

	out := buf.String()
	for _, want := range []string{"op=createNode", "invariants ok", "rejected", "op=setProperty"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestDebugTreeDepthWarning(t *testing.T) {
	var buf bytes.Buffer
	doc := newLoggedDoc(t, &buf)
	parent := NoParent
	for range debugMaxTreeDepth + 2 {
		parent = mustCreateNode(t, doc, KindGroup, parent)
	}
	if !strings.Contains(buf.String(), "tree depth exceeds threshold") {
		t.Error("expected a tree depth warning")
	}
}
