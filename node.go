package vellum

import "slices"

// Size is a node's intrinsic box, before its transform is applied.
type Size struct {
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// Appearance holds paint properties. Groups only use Opacity; fill and
// stroke apply to shapes, images and text.
type Appearance struct {
	Fill        Color   `json:"fill" toml:"fill"`
	Stroke      Color   `json:"stroke" toml:"stroke"`
	StrokeWidth float64 `json:"strokeWidth" toml:"stroke_width"`
	Opacity     float64 `json:"opacity" toml:"opacity"`
}

// Node is a single document entity. A single flat struct is used for all
// kinds; fields that do not apply to a kind stay at their zero value.
//
// Nodes obtained from a Store are copies. Mutating them has no effect on
// the document; route changes through the Document instead.
type Node struct {
	// Identity
	ID   NodeID
	Kind NodeKind
	Name string

	// Hierarchy
	ParentID NodeID
	children []NodeID

	Transform  Transform
	Size       Size
	Visible    bool
	Appearance Appearance

	// Expanded is layer-list state for groups. It never affects rendering.
	Expanded bool

	// Content is the text string (KindText) or asset reference (KindImage).
	Content string
}

// Children returns a copy of the group's child order, bottom first.
func (n *Node) Children() []NodeID {
	return slices.Clone(n.children)
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// IsGroup reports whether the node can hold children.
func (n *Node) IsGroup() bool {
	return n.Kind == KindGroup
}

// LocalBounds returns the node's box in its parent's coordinate space.
func (n *Node) LocalBounds() Rect {
	return n.Transform.Affine().ApplyRect(Rect{Width: n.Size.Width, Height: n.Size.Height})
}

// clone returns a deep copy safe to hand out to callers.
func (n *Node) clone() Node {
	c := *n
	c.children = slices.Clone(n.children)
	return c
}

// nodeDefaults sets the field values shared by every kind.
func nodeDefaults(n *Node) {
	n.Transform = IdentityTransform
	n.Visible = true
	n.Appearance.Opacity = 1
	if n.Kind == KindGroup {
		n.Expanded = true
	}
}

// newNode creates a node of the given kind with defaults applied.
func newNode(id NodeID, kind NodeKind, parent NodeID) *Node {
	n := &Node{ID: id, Kind: kind, ParentID: parent}
	nodeDefaults(n)
	return n
}

// --- Child list helpers ---

// indexOf returns the position of id in list, or -1.
func indexOf(list []NodeID, id NodeID) int {
	return slices.Index(list, id)
}

// removeID removes id from list in place, preserving order.
func removeID(list []NodeID, id NodeID) []NodeID {
	i := indexOf(list, id)
	if i < 0 {
		return list
	}
	return slices.Delete(list, i, i+1)
}

// insertID inserts id at index, clamped to [0, len(list)].
func insertID(list []NodeID, index int, id NodeID) []NodeID {
	if index < 0 {
		index = 0
	}
	if index > len(list) {
		index = len(list)
	}
	return slices.Insert(list, index, id)
}
