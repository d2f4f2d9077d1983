package vellum

import (
	"encoding/json"
	"maps"
	"math"
	"slices"
)

// Attr names a node property as the property panel and layer list refer to it.
type Attr string

// Immutable attributes. Updates naming them fail with ErrImmutableAttribute.
const (
	AttrID     Attr = "id"
	AttrKind   Attr = "kind"
	AttrParent Attr = "parentId" // changed only through reparent/move
)

// Settable attributes.
const (
	AttrName        Attr = "name"
	AttrX           Attr = "x"
	AttrY           Attr = "y"
	AttrWidth       Attr = "width"
	AttrHeight      Attr = "height"
	AttrRotation    Attr = "rotation" // degrees
	AttrScaleX      Attr = "scaleX"
	AttrScaleY      Attr = "scaleY"
	AttrFill        Attr = "fillColor"
	AttrStroke      Attr = "strokeColor"
	AttrStrokeWidth Attr = "strokeWidth"
	AttrOpacity     Attr = "opacity"
	AttrVisible     Attr = "visible"
	AttrExpanded    Attr = "expanded"
	AttrContent     Attr = "content"
)

type attrType uint8

const (
	attrNumber attrType = iota
	attrString
	attrBool
	attrColor
)

// settableAttrs maps every settable attribute to its value type.
var settableAttrs = map[Attr]attrType{
	AttrName:        attrString,
	AttrX:           attrNumber,
	AttrY:           attrNumber,
	AttrWidth:       attrNumber,
	AttrHeight:      attrNumber,
	AttrRotation:    attrNumber,
	AttrScaleX:      attrNumber,
	AttrScaleY:      attrNumber,
	AttrFill:        attrColor,
	AttrStroke:      attrColor,
	AttrStrokeWidth: attrNumber,
	AttrOpacity:     attrNumber,
	AttrVisible:     attrBool,
	AttrExpanded:    attrBool,
	AttrContent:     attrString,
}

// Attrs is a partial set of attribute values, used for creation and updates.
type Attrs map[Attr]any

// sortedKeys returns the attribute names in a stable order so validation
// always reports the same first failure.
func (a Attrs) sortedKeys() []Attr {
	return slices.Sorted(maps.Keys(a))
}

// IsImmutable reports whether attr can never be changed by an update.
func (a Attr) IsImmutable() bool {
	return a == AttrID || a == AttrKind || a == AttrParent
}

// IsKnown reports whether attr names a node property.
func (a Attr) IsKnown() bool {
	_, ok := settableAttrs[a]
	return ok || a.IsImmutable()
}

// AppliesTo reports whether a node of the given kind carries attr.
func (a Attr) AppliesTo(kind NodeKind) bool {
	switch a {
	case AttrFill, AttrStroke, AttrStrokeWidth:
		return kind != KindGroup
	case AttrExpanded:
		return kind == KindGroup
	case AttrContent:
		return kind == KindImage || kind == KindText
	}
	return a.IsKnown()
}

// Mixed is returned by Selection.CommonProperty when the selected nodes
// disagree on a value.
var Mixed = mixedValue{}

type mixedValue struct{}

func (mixedValue) String() string { return "<mixed>" }

// validateAttr checks that value can be assigned to attr on n and returns the
// normalized value (float64, string, bool or Color).
func validateAttr(op string, n *Node, attr Attr, value any) (any, error) {
	if attr.IsImmutable() {
		return nil, attrError(op, n.ID, attr, ErrImmutableAttribute, "%s cannot be changed", attr)
	}
	typ, ok := settableAttrs[attr]
	if !ok {
		return nil, attrError(op, n.ID, attr, ErrInvalidValue, "unknown attribute")
	}
	if !attr.AppliesTo(n.Kind) {
		return nil, attrError(op, n.ID, attr, ErrInvalidValue, "not applicable to %s nodes", n.Kind)
	}

	switch typ {
	case attrNumber:
		f, ok := toFloat(value)
		if !ok {
			return nil, attrError(op, n.ID, attr, ErrInvalidValue, "want number, got %T", value)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, attrError(op, n.ID, attr, ErrInvalidValue, "value %v is not finite", f)
		}
		switch attr {
		case AttrOpacity:
			f = clamp01(f)
		case AttrStrokeWidth:
			f = math.Max(f, 0)
		case AttrWidth, AttrHeight:
			if f < 0 {
				return nil, attrError(op, n.ID, attr, ErrInvalidValue, "size must not be negative, got %v", f)
			}
		}
		return f, nil
	case attrString:
		s, ok := value.(string)
		if !ok {
			return nil, attrError(op, n.ID, attr, ErrInvalidValue, "want string, got %T", value)
		}
		return s, nil
	case attrBool:
		b, ok := value.(bool)
		if !ok {
			return nil, attrError(op, n.ID, attr, ErrInvalidValue, "want bool, got %T", value)
		}
		return b, nil
	case attrColor:
		switch v := value.(type) {
		case Color:
			return v.quantize(), nil
		case string:
			c, err := ParseColor(v)
			if err != nil {
				return nil, attrError(op, n.ID, attr, ErrInvalidValue, "%v", err)
			}
			return c, nil
		}
		return nil, attrError(op, n.ID, attr, ErrInvalidValue, "want color, got %T", value)
	}
	return nil, attrError(op, n.ID, attr, ErrInvalidValue, "unsupported attribute type")
}

// toFloat accepts every numeric type the property panel or a JSON decoder
// may hand us.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// Value returns the current value of attr, or false when attr does not
// apply to the node's kind.
func (n *Node) Value(attr Attr) (any, bool) {
	if !attr.AppliesTo(n.Kind) {
		return nil, false
	}
	switch attr {
	case AttrID:
		return n.ID, true
	case AttrKind:
		return n.Kind, true
	case AttrParent:
		return n.ParentID, true
	case AttrName:
		return n.Name, true
	case AttrX:
		return n.Transform.X, true
	case AttrY:
		return n.Transform.Y, true
	case AttrWidth:
		return n.Size.Width, true
	case AttrHeight:
		return n.Size.Height, true
	case AttrRotation:
		return n.Transform.Rotation, true
	case AttrScaleX:
		return n.Transform.ScaleX, true
	case AttrScaleY:
		return n.Transform.ScaleY, true
	case AttrFill:
		return n.Appearance.Fill, true
	case AttrStroke:
		return n.Appearance.Stroke, true
	case AttrStrokeWidth:
		return n.Appearance.StrokeWidth, true
	case AttrOpacity:
		return n.Appearance.Opacity, true
	case AttrVisible:
		return n.Visible, true
	case AttrExpanded:
		return n.Expanded, true
	case AttrContent:
		return n.Content, true
	}
	return nil, false
}

// set assigns a value already normalized by validateAttr.
func (n *Node) set(attr Attr, v any) {
	switch attr {
	case AttrName:
		n.Name = v.(string)
	case AttrX:
		n.Transform.X = v.(float64)
	case AttrY:
		n.Transform.Y = v.(float64)
	case AttrWidth:
		n.Size.Width = v.(float64)
	case AttrHeight:
		n.Size.Height = v.(float64)
	case AttrRotation:
		n.Transform.Rotation = v.(float64)
	case AttrScaleX:
		n.Transform.ScaleX = v.(float64)
	case AttrScaleY:
		n.Transform.ScaleY = v.(float64)
	case AttrFill:
		n.Appearance.Fill = v.(Color)
	case AttrStroke:
		n.Appearance.Stroke = v.(Color)
	case AttrStrokeWidth:
		n.Appearance.StrokeWidth = v.(float64)
	case AttrOpacity:
		n.Appearance.Opacity = v.(float64)
	case AttrVisible:
		n.Visible = v.(bool)
	case AttrExpanded:
		n.Expanded = v.(bool)
	case AttrContent:
		n.Content = v.(string)
	}
}
