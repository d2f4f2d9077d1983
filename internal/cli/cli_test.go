package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phanxgames/vellum"
)

const testScript = `{"steps": [
	{"action": "create", "kind": "group", "as": "G"},
	{"action": "create", "kind": "shape", "parent": "G", "attrs": {"name": "Box", "width": 40, "height": 20}},
	{"action": "create", "kind": "text", "attrs": {"name": "Caption", "content": "hello"}},
	{"action": "toggleVisibility", "id": "G"}
]}`

// execute runs the CLI with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunToStdout(t *testing.T) {
	script := writeFile(t, t.TempDir(), "script.json", testScript)
	stdout, _, err := execute(t, "run", script)
	if err != nil {
		t.Fatal(err)
	}
	snap, err := vellum.ReadSnapshot(strings.NewReader(stdout))
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Nodes) != 3 || len(snap.Roots) != 2 {
		t.Errorf("snapshot has %d nodes, %d roots", len(snap.Nodes), len(snap.Roots))
	}
}

func TestRunInspectValidate(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "script.json", testScript)
	out := filepath.Join(dir, "doc.json")

	_, stderr, err := execute(t, "run", script, "-o", out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr, "Wrote 3 nodes") || !strings.Contains(stderr, out) {
		t.Errorf("stderr = %q", stderr)
	}

	stdout, _, err := execute(t, "inspect", out)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"doc.json", "Group 1", "Box", "Caption", "hidden", "zoom"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("inspect output missing %q:\n%s", want, stdout)
		}
	}

	stdout, _, err = execute(t, "validate", out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "is valid") || !strings.Contains(stdout, "3 nodes in 2 root(s)") {
		t.Errorf("validate output = %q", stdout)
	}
}

func TestRunFromInput(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.json")
	if _, _, err := execute(t, "run", writeFile(t, dir, "a.json", testScript), "-o", base); err != nil {
		t.Fatal(err)
	}
	more := writeFile(t, dir, "b.json", `{"steps": [{"action": "create", "kind": "image"}]}`)
	stdout, _, err := execute(t, "run", more, "-i", base)
	if err != nil {
		t.Fatal(err)
	}
	snap, err := vellum.ReadSnapshot(strings.NewReader(stdout))
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Nodes) != 4 {
		t.Errorf("nodes = %d, want 4", len(snap.Nodes))
	}
}

func TestRunReportsFailingStep(t *testing.T) {
	script := writeFile(t, t.TempDir(), "bad.json", `{"steps": [
		{"action": "create", "kind": "shape", "as": "S"},
		{"action": "set", "ids": ["S"], "attr": "width", "value": -5}
	]}`)
	_, stderr, err := execute(t, "run", script)
	if !errors.Is(err, vellum.ErrInvalidValue) {
		t.Fatalf("err = %v, want ErrInvalidValue", err)
	}
	if !strings.Contains(stderr, "failed after 1 of 2 steps") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"version", `{"version": 9, "roots": [], "nodes": []}`},
		{"duplicate", `{"version": 1, "roots": ["a"], "nodes": [
			{"id": "a", "kind": "shape", "name": "A", "visible": true},
			{"id": "a", "kind": "shape", "name": "B", "visible": true}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "snap.json", tt.json)
			stdout, _, err := execute(t, "validate", path)
			if !errors.Is(err, vellum.ErrInvalidSnapshot) {
				t.Errorf("err = %v, want ErrInvalidSnapshot", err)
			}
			if !strings.Contains(stdout, "is invalid") {
				t.Errorf("stdout = %q", stdout)
			}
		})
	}
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "script.json", `{"steps": [{"action": "zoom", "x": 0, "y": 0, "delta": 10}]}`)

	cfg := writeFile(t, dir, "vellum.toml", "max_scale = 2.0\n")
	stdout, _, err := execute(t, "--config", cfg, "run", script)
	if err != nil {
		t.Fatal(err)
	}
	snap, err := vellum.ReadSnapshot(strings.NewReader(stdout))
	if err != nil {
		t.Fatal(err)
	}
	if snap.Viewport.Scale != 2 {
		t.Errorf("scale = %v, want 2 (clamped by config)", snap.Viewport.Scale)
	}

	bad := writeFile(t, dir, "bad.toml", "zoom_step = -1\n")
	if _, _, err := execute(t, "--config", bad, "run", script); err == nil {
		t.Error("expected an invalid config error")
	}
}

func TestRenderLayerRow(t *testing.T) {
	tests := []struct {
		name string
		row  vellum.LayerRow
		want []string
	}{
		{
			name: "collapsed group",
			row:  vellum.LayerRow{ID: "g", Name: "Group 1", Kind: vellum.KindGroup, HasChildren: true, Visible: true, EffectiveVisible: true},
			want: []string{iconCollapsed, "Group 1", "group", "(collapsed)", "g"},
		},
		{
			name: "hidden selected shape",
			row:  vellum.LayerRow{ID: "s", Name: "Box", Kind: vellum.KindShape, Depth: 2, Selected: true},
			want: []string{iconLeaf, "Box", "shape", "hidden", "*"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderLayerRow(tt.row)
			if indent := strings.Repeat("  ", tt.row.Depth); !strings.HasPrefix(got, indent) {
				t.Errorf("row %q not indented by %d levels", got, tt.row.Depth)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("row %q missing %q", got, w)
				}
			}
		})
	}
}
