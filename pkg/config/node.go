package config

import "fmt"

// Field is a named slot of a Node. Field order follows declaration order,
// which mirrors document order for reproducible serialization.
type Field struct {
	name  string
	value Value
}

// Name returns the field name as it appears in documents.
func (f Field) Name() string { return f.name }

// Value returns the field's slot.
func (f Field) Value() Value { return f.value }

// Node is a composite configuration value: an ordered set of uniquely named
// fields, each either a scalar slot or a child Node. The field set is fixed
// by the schema at construction time; documents never add fields.
//
// A Node starts mutable, gets populated by a Binder, and is frozen with
// Freeze before being shared across goroutines. Frozen nodes need no
// locking: immutability is the synchronization mechanism.
type Node struct {
	name   string
	fields []Field
	index  map[string]int
	parsed bool
	frozen bool
}

// NewNode creates an empty mutable node with the given document name.
func NewNode(name string) *Node {
	return &Node{
		name:  name,
		index: make(map[string]int),
	}
}

// Name returns the node's document name.
func (n *Node) Name() string { return n.name }

// AddField declares a field. Declaring a duplicate name or mutating a frozen
// node is a schema programming error and panics. Returns the node for
// chained schema construction.
func (n *Node) AddField(name string, v Value) *Node {
	assertMutable(n.frozen)
	if _, exists := n.index[name]; exists {
		panic(fmt.Sprintf("config: duplicate field %q in node %q", name, n.name))
	}
	n.index[name] = len(n.fields)
	n.fields = append(n.fields, Field{name: name, value: v})
	return n
}

// AddNode declares a child node field named after the child.
func (n *Node) AddNode(child *Node) *Node {
	return n.AddField(child.name, child)
}

// Fields returns the fields in declaration order.
func (n *Node) Fields() []Field {
	out := make([]Field, len(n.fields))
	copy(out, n.fields)
	return out
}

// Get returns the named field's slot.
func (n *Node) Get(name string) (Value, bool) {
	i, ok := n.index[name]
	if !ok {
		return nil, false
	}
	return n.fields[i].value, true
}

// Child returns the named field when it is a child node.
func (n *Node) Child(name string) (*Node, bool) {
	v, ok := n.Get(name)
	if !ok {
		return nil, false
	}
	child, ok := v.(*Node)
	return child, ok
}

// GetBool returns the named boolean field's value and parsed flag. A missing
// or differently-kinded field reads as the default, unparsed.
func (n *Node) GetBool(name string) (bool, bool) {
	if v, ok := n.Get(name); ok {
		if b, ok := v.(*BoolValue); ok {
			return b.Bool(), b.IsParsed()
		}
	}
	return false, false
}

// GetInt returns the named integer field's value and parsed flag.
func (n *Node) GetInt(name string) (int, bool) {
	if v, ok := n.Get(name); ok {
		if i, ok := v.(*IntValue); ok {
			return i.Int(), i.IsParsed()
		}
	}
	return 0, false
}

// GetFloat returns the named float field's value and parsed flag.
func (n *Node) GetFloat(name string) (float64, bool) {
	if v, ok := n.Get(name); ok {
		if f, ok := v.(*FloatValue); ok {
			return f.Float(), f.IsParsed()
		}
	}
	return 0, false
}

// GetString returns the named string field's value and parsed flag.
func (n *Node) GetString(name string) (string, bool) {
	if v, ok := n.Get(name); ok {
		if s, ok := v.(*StringValue); ok {
			return s.Str(), s.IsParsed()
		}
	}
	return "", false
}

// GetEnum returns the named enum field's token and parsed flag.
func (n *Node) GetEnum(name string) (string, bool) {
	if v, ok := n.Get(name); ok {
		if e, ok := v.(*EnumValue); ok {
			return e.Token(), e.IsParsed()
		}
	}
	return "", false
}

// GetList returns the named list field.
func (n *Node) GetList(name string) (*ListValue, bool) {
	if v, ok := n.Get(name); ok {
		if l, ok := v.(*ListValue); ok {
			return l, true
		}
	}
	return nil, false
}

// Kind implements Value.
func (n *Node) Kind() Kind { return KindObject }

// IsParsed implements Value. A node is parsed when its document element was
// present, regardless of how many of its fields the document filled in.
func (n *Node) IsParsed() bool { return n.parsed }

// Reset implements Value. Resets every field and clears the parsed flag.
func (n *Node) Reset() {
	assertMutable(n.frozen)
	for _, f := range n.fields {
		f.value.Reset()
	}
	n.parsed = false
}

// ParseFromValue implements Value. Layers every parsed field of the source
// node onto this node. A per-field kind mismatch skips that field and
// continues with its siblings; the whole operation only fails when the
// source is not a node.
func (n *Node) ParseFromValue(other Value) error {
	assertMutable(n.frozen)
	from, ok := other.(*Node)
	if !ok {
		return ErrKindMismatch
	}
	for _, src := range from.fields {
		if !src.value.IsParsed() {
			continue
		}
		dst, ok := n.Get(src.name)
		if !ok {
			continue
		}
		// Cross-kind copies are rejected by the target slot and leave it
		// unchanged.
		_ = dst.ParseFromValue(src.value)
	}
	n.parsed = true
	return nil
}

// ParseFromAttribute implements Value. Composite structure cannot come from
// an attribute; the presence of the attribute still marks the node parsed.
func (n *Node) ParseFromAttribute(text string) {
	assertMutable(n.frozen)
	n.parsed = true
}

// ParseFromNode implements Value. Binds the element subtree into this node
// without include expansion; use a Binder for full document binding.
func (n *Node) ParseFromNode(el *Element) {
	_ = bindNode(n, el, nil, nil, n.name)
}

// Format implements Value. Renders the node body with every field included;
// use a Serializer to control the default-field policy.
func (n *Node) Format(indent int, newline bool) string {
	s := Serializer{IncludeDefaults: true}
	out := s.renderBody(n, indent)
	if !newline && len(out) > 0 && out[len(out)-1] == '\n' {
		out = out[:len(out)-1]
	}
	return out
}

// CloneEmpty implements Value. The clone shares the schema shape only: all
// storage is at defaults and nothing is parsed or frozen.
func (n *Node) CloneEmpty() Value { return n.CloneSchema() }

// CloneSchema returns a fresh mutable node with the same declared fields.
func (n *Node) CloneSchema() *Node {
	clone := NewNode(n.name)
	for _, f := range n.fields {
		clone.AddField(f.name, f.value.CloneEmpty())
	}
	return clone
}

// Freeze irreversibly makes this node and every descendant immutable,
// making the tree safe for unsynchronized concurrent reads.
func (n *Node) Freeze() { n.freeze() }

// Frozen reports whether the node has been frozen.
func (n *Node) Frozen() bool { return n.frozen }

func (n *Node) freeze() {
	n.frozen = true
	for _, f := range n.fields {
		f.value.(freezer).freeze()
	}
}
