package vellum

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
)

// SnapshotVersion is the format version written by Export.
const SnapshotVersion = 1

// NodeRecord is the serialized form of a Node.
type NodeRecord struct {
	ID         NodeID     `json:"id"`
	Kind       NodeKind   `json:"kind"`
	Name       string     `json:"name"`
	ParentID   NodeID     `json:"parentId,omitempty"`
	Children   []NodeID   `json:"children,omitempty"`
	Transform  Transform  `json:"transform"`
	Size       Size       `json:"size"`
	Visible    bool       `json:"visible"`
	Appearance Appearance `json:"appearance"`
	Expanded   bool       `json:"expanded,omitempty"`
	Content    string     `json:"content,omitempty"`
}

// Snapshot is the full serializable state of a document. Nodes are listed
// in pre-order paint order; Roots holds the root-level order.
type Snapshot struct {
	Version  int           `json:"version"`
	Roots    []NodeID      `json:"roots"`
	Nodes    []NodeRecord  `json:"nodes"`
	Viewport ViewportState `json:"viewport"`
}

func recordOf(n *Node) NodeRecord {
	return NodeRecord{
		ID:         n.ID,
		Kind:       n.Kind,
		Name:       n.Name,
		ParentID:   n.ParentID,
		Children:   slices.Clone(n.children),
		Transform:  n.Transform,
		Size:       n.Size,
		Visible:    n.Visible,
		Appearance: n.Appearance,
		Expanded:   n.Expanded,
		Content:    n.Content,
	}
}

func (r NodeRecord) node() *Node {
	return &Node{
		ID:         r.ID,
		Kind:       r.Kind,
		Name:       r.Name,
		ParentID:   r.ParentID,
		children:   slices.Clone(r.Children),
		Transform:  r.Transform,
		Size:       r.Size,
		Visible:    r.Visible,
		Appearance: r.Appearance,
		Expanded:   r.Expanded,
		Content:    r.Content,
	}
}

// snapshot captures the node table without viewport state.
func (s *Store) snapshot() Snapshot {
	snap := Snapshot{
		Version: SnapshotVersion,
		Roots:   slices.Clone(s.roots),
		Nodes:   make([]NodeRecord, 0, len(s.nodes)),
	}
	for _, id := range s.IDs() {
		snap.Nodes = append(snap.Nodes, recordOf(s.nodes[id]))
	}
	return snap
}

// restore replaces the store's contents with snap. Nothing changes unless
// the snapshot passes every invariant check.
func (s *Store) restore(snap Snapshot) error {
	if snap.Version < 1 || snap.Version > SnapshotVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, snap.Version)
	}
	staged := &Store{
		nodes: make(map[NodeID]*Node, len(snap.Nodes)),
		roots: slices.Clone(snap.Roots),
		newID: s.newID,
	}
	for i, r := range snap.Nodes {
		if r.ID == NoParent {
			return fmt.Errorf("%w: record %d has no id", ErrInvalidSnapshot, i)
		}
		if _, dup := staged.nodes[r.ID]; dup {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidSnapshot, r.ID)
		}
		staged.nodes[r.ID] = r.node()
	}
	if err := staged.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	s.nodes, s.roots = staged.nodes, staged.roots
	return nil
}

// WriteSnapshot encodes snap as indented JSON.
func WriteSnapshot(w io.Writer, snap Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a JSON snapshot. The result is not validated until
// it is imported.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}
