package vellum

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an operation references an id that is not
	// in the store.
	ErrNotFound = errors.New("vellum: node not found")

	// ErrInvalidParent is returned when a parent id is missing or is not a group.
	ErrInvalidParent = errors.New("vellum: invalid parent")

	// ErrCycleDetected is returned when a reparent would make a node its own
	// ancestor.
	ErrCycleDetected = errors.New("vellum: containment cycle")

	// ErrInvalidValue is returned when a property value fails type or range
	// validation, or the property does not apply to the node's kind.
	ErrInvalidValue = errors.New("vellum: invalid property value")

	// ErrImmutableAttribute is returned when an update targets id, kind or
	// parentId.
	ErrImmutableAttribute = errors.New("vellum: attribute is immutable")

	// ErrInvalidSnapshot is returned by Import when a snapshot is malformed or
	// would violate a tree invariant. It is joined with the violations found.
	ErrInvalidSnapshot = errors.New("vellum: invalid snapshot")
)

// Error describes a failed operation. It unwraps to one of the sentinel
// errors above so callers can use errors.Is, and carries the offending id
// for errors.As.
type Error struct {
	Op     string // operation name, e.g. "setProperty"
	ID     NodeID // offending node, if any
	Attr   Attr   // offending attribute, if any
	Detail string // extra human-readable context
	Err    error  // sentinel
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Op + ": " + e.Err.Error()
	if e.ID != "" {
		msg += fmt.Sprintf(" (node %s)", e.ID)
	}
	if e.Attr != "" {
		msg += fmt.Sprintf(" (attr %s)", e.Attr)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap returns the sentinel error.
func (e *Error) Unwrap() error { return e.Err }

func opError(op string, id NodeID, err error) *Error {
	return &Error{Op: op, ID: id, Err: err}
}

// attrError builds an error for an attribute-level failure.
func attrError(op string, id NodeID, attr Attr, err error, format string, args ...any) *Error {
	return &Error{Op: op, ID: id, Attr: attr, Err: err, Detail: fmt.Sprintf(format, args...)}
}

// ErrorID returns the node id carried by err, or "" when err is not an *Error.
func ErrorID(err error) NodeID {
	var e *Error
	if errors.As(err, &e) {
		return e.ID
	}
	return ""
}
