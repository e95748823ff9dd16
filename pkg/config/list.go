package config

import "strings"

// ListValue is an ordered collection of same-shaped values. The shape is
// given by a prototype at construction; every parsed item is a fresh clone
// of that prototype. The kind's default is the empty list.
type ListValue struct {
	proto  Value
	items  []Value
	parsed bool
	frozen bool
}

// NewList creates a list slot whose items share the prototype's shape.
func NewList(proto Value) *ListValue {
	return &ListValue{proto: proto}
}

// Kind implements Value.
func (l *ListValue) Kind() Kind { return KindList }

// IsParsed implements Value.
func (l *ListValue) IsParsed() bool { return l.parsed }

// Len returns the number of items.
func (l *ListValue) Len() int { return len(l.items) }

// Items returns the parsed items in document order.
func (l *ListValue) Items() []Value {
	out := make([]Value, len(l.items))
	copy(out, l.items)
	return out
}

// Strings returns the items rendered in their canonical textual form. Handy
// for lists of scalar values such as hostname lists.
func (l *ListValue) Strings() []string {
	out := make([]string, len(l.items))
	for i, item := range l.items {
		out[i] = strings.TrimSpace(item.Format(0, false))
	}
	return out
}

// Reset implements Value.
func (l *ListValue) Reset() {
	assertMutable(l.frozen)
	l.items = nil
	l.parsed = false
}

// ParseFromValue implements Value. Lists only share a kind when their item
// prototypes do.
func (l *ListValue) ParseFromValue(other Value) error {
	assertMutable(l.frozen)
	from, ok := other.(*ListValue)
	if !ok || from.proto.Kind() != l.proto.Kind() {
		return ErrKindMismatch
	}
	items := make([]Value, 0, len(from.items))
	for _, item := range from.items {
		clone := l.proto.CloneEmpty()
		if err := clone.ParseFromValue(item); err != nil {
			return err
		}
		items = append(items, clone)
	}
	l.items = items
	l.parsed = true
	return nil
}

// ParseFromAttribute implements Value. An attribute cannot carry list
// structure, so the text is parsed as a single item.
func (l *ListValue) ParseFromAttribute(text string) {
	assertMutable(l.frozen)
	item := l.proto.CloneEmpty()
	item.ParseFromAttribute(text)
	l.items = append(l.items, item)
	l.parsed = true
}

// ParseFromNode implements Value. Each call appends one item parsed from the
// element; the binder calls this once per matching child element.
func (l *ListValue) ParseFromNode(el *Element) {
	assertMutable(l.frozen)
	item := l.proto.CloneEmpty()
	item.ParseFromNode(el)
	l.items = append(l.items, item)
	l.parsed = true
}

// Format implements Value. Items render one per line at the given depth.
func (l *ListValue) Format(indent int, newline bool) string {
	if len(l.items) == 0 {
		return terminate("[]", newline)
	}
	var sb strings.Builder
	for i, item := range l.items {
		sb.WriteString(indentOf(indent))
		sb.WriteString("- ")
		sb.WriteString(item.Format(indent+1, false))
		if i < len(l.items)-1 || newline {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// CloneEmpty implements Value.
func (l *ListValue) CloneEmpty() Value { return NewList(l.proto.CloneEmpty()) }

// appendEmpty appends a fresh item clone and returns it for the binder to
// fill in. Marks the list parsed: a matching child element was present.
func (l *ListValue) appendEmpty() Value {
	assertMutable(l.frozen)
	item := l.proto.CloneEmpty()
	l.items = append(l.items, item)
	l.parsed = true
	return item
}

func (l *ListValue) freeze() {
	l.frozen = true
	for _, item := range l.items {
		item.(freezer).freeze()
	}
}
