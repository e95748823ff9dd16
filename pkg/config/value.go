package config

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a configuration value. The set is closed:
// adding a new kind means adding a new Value implementation, nothing in the
// binder or serializer needs to change.
type Kind int

const (
	// KindBool is a boolean value, rendered as "true"/"false".
	KindBool Kind = iota

	// KindInt is a base-10 integer value.
	KindInt

	// KindFloat is a floating point value.
	KindFloat

	// KindString is a free-form string value.
	KindString

	// KindEnum is a string value restricted to a declared token set.
	KindEnum

	// KindObject is a composite node with named fields.
	KindObject

	// KindList is an ordered collection of same-shaped values.
	KindList
)

// String returns the kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	case KindObject:
		return "object"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ErrKindMismatch is returned by ParseFromValue when the source value has a
// different kind than the target. The operation is a no-op in that case:
// neither side is modified.
var ErrKindMismatch = errors.New("config: value kind mismatch")

// Value is a single typed configuration slot. Every implementation is
// default-constructible, tracks whether it was explicitly supplied by a
// document, and converts to and from the document's textual representation.
//
// ParseFromAttribute and ParseFromNode are best-effort: text that cannot be
// converted to the kind's native type falls back to the kind's default, but
// the slot is still marked parsed because the document did supply it.
type Value interface {
	// Kind returns the value's category.
	Kind() Kind

	// IsParsed reports whether the value was explicitly supplied by a
	// document (or copied from a parsed value) rather than defaulted.
	IsParsed() bool

	// Reset restores the kind's default and clears the parsed flag.
	Reset()

	// ParseFromValue copies the storage of another value of the same kind
	// and marks this value parsed. A cross-kind copy returns
	// ErrKindMismatch and leaves both sides unchanged.
	ParseFromValue(other Value) error

	// ParseFromAttribute converts attribute text to the native type and
	// marks the value parsed.
	ParseFromAttribute(text string)

	// ParseFromNode converts an element's content (text for scalar kinds,
	// child structure for composite kinds) and marks the value parsed.
	ParseFromNode(el *Element)

	// Format renders the canonical textual form. indent is the nesting
	// depth for composite kinds; newline appends a trailing newline.
	// Neither flag alters the represented value.
	Format(indent int, newline bool) string

	// CloneEmpty returns a fresh value of the same shape (same kind, same
	// declared structure) with default storage and no parsed flag.
	CloneEmpty() Value
}

// freezer is implemented by every Value. Freezing propagates from a Node to
// all of its descendants so any later mutation attempt fails fast.
type freezer interface {
	freeze()
}

// assertMutable panics on an attempt to mutate a frozen value. A frozen tree
// may already be read concurrently without synchronization; continuing after
// such an attempt would risk inconsistent reads, so this is fatal.
func assertMutable(frozen bool) {
	if frozen {
		panic("config: mutation of frozen configuration")
	}
}

// indentUnit is one level of indentation in rendered dumps.
const indentUnit = "    "

func indentOf(depth int) string {
	out := ""
	for i := 0; i < depth; i++ {
		out += indentUnit
	}
	return out
}

func terminate(s string, newline bool) string {
	if newline {
		return s + "\n"
	}
	return s
}
