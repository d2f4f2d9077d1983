package vellum

// ChangeKind classifies a ChangeDescriptor so the UI layer can decide what
// to re-render.
type ChangeKind uint8

const (
	ChangeNone       ChangeKind = iota // nothing changed
	ChangeSelection                    // selection membership or anchor changed
	ChangeProperty                     // appearance or geometry of existing nodes
	ChangeVisibility                   // a visible flag flipped
	ChangeExpand                       // a group's expanded flag flipped (layer list only)
	ChangeStructure                    // nodes created, deleted or reordered
	ChangeDocument                     // whole document replaced (import, undo, redo)
)

var changeKindNames = [...]string{"none", "selection", "property", "visibility", "expand", "structure", "document"}

// String implements fmt.Stringer.
func (k ChangeKind) String() string {
	if int(k) < len(changeKindNames) {
		return changeKindNames[k]
	}
	return "unknown"
}

// MarshalText encodes the kind by name.
func (k ChangeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ChangeDescriptor reports what a pipeline call changed.
type ChangeDescriptor struct {
	Kind        ChangeKind `json:"kind"`
	AffectedIDs []NodeID   `json:"affectedIds,omitempty"`
	// Attr is set for single-attribute property changes.
	Attr Attr `json:"attr,omitempty"`
}

// IsEmpty reports whether nothing changed.
func (c ChangeDescriptor) IsEmpty() bool {
	return c.Kind == ChangeNone
}

// AffectsCanvas reports whether the rendered output may differ.
func (c ChangeDescriptor) AffectsCanvas() bool {
	switch c.Kind {
	case ChangeProperty, ChangeVisibility, ChangeStructure, ChangeDocument, ChangeSelection:
		return true
	}
	return false
}

// AffectsLayers reports whether the layer list must be rebuilt.
func (c ChangeDescriptor) AffectsLayers() bool {
	switch c.Kind {
	case ChangeSelection, ChangeVisibility, ChangeExpand, ChangeStructure, ChangeDocument:
		return true
	case ChangeProperty:
		return c.Attr == AttrName || c.Attr == ""
	}
	return false
}

// AffectsPanel reports whether the property panel must re-read values.
func (c ChangeDescriptor) AffectsPanel() bool {
	switch c.Kind {
	case ChangeSelection, ChangeProperty, ChangeStructure, ChangeDocument:
		return true
	}
	return false
}

var noChange = ChangeDescriptor{Kind: ChangeNone}

// classifyAttrs picks the narrowest change kind for an attribute update.
func classifyAttrs(keys []Attr) (ChangeKind, Attr) {
	if len(keys) == 1 {
		switch keys[0] {
		case AttrVisible:
			return ChangeVisibility, keys[0]
		case AttrExpanded:
			return ChangeExpand, keys[0]
		}
		return ChangeProperty, keys[0]
	}
	return ChangeProperty, ""
}
