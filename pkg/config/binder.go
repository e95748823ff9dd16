package config

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// IncludeAttr is the attribute that transcludes another document into the
// element carrying it. The included document is bound first and acts as a
// layer of defaults: scalar and node values set locally always win. List
// fields concatenate instead, included items first and local items after
// them in document order.
const IncludeAttr = "include"

// Diagnostic is a non-fatal binding observation, e.g. a scalar field that
// matched more than one element. Diagnostics never abort binding.
type Diagnostic struct {
	// Path is the slash-separated field path from the root node.
	Path string

	// Message describes the observation.
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Path, d.Message)
}

// Binder walks a parsed document and a schema node tree in lockstep, binding
// attributes and child elements to the matching fields. Fields absent from
// the document keep their defaults and stay unparsed; document content with
// no declared field is ignored.
type Binder struct {
	logger   zerolog.Logger
	resolver Resolver
	diags    []Diagnostic
}

// NewBinder creates a binder. The resolver may be nil, in which case include
// directives are a binding error.
func NewBinder(logger zerolog.Logger, resolver Resolver) *Binder {
	return &Binder{
		logger:   logger.With().Str("component", "config-binder").Logger(),
		resolver: resolver,
	}
}

// Bind populates the node tree from the document element. It returns an
// error only for structural failures: an include reference that cannot be
// resolved or parsed. Per-field conversion issues are handled locally by the
// value kinds and reported via Diagnostics.
func (b *Binder) Bind(node *Node, el *Element) error {
	b.diags = nil
	start := time.Now()

	if err := bindNode(node, el, b.resolver, b, node.Name()); err != nil {
		return err
	}

	b.logger.Debug().
		Str("root", node.Name()).
		Int("diagnostics", len(b.diags)).
		Dur("elapsed", time.Since(start)).
		Msg("Document bound")
	return nil
}

// Diagnostics returns the non-fatal observations of the last Bind call.
func (b *Binder) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(b.diags))
	copy(out, b.diags)
	return out
}

func (b *Binder) note(path, message string) {
	if b == nil {
		return
	}
	b.diags = append(b.diags, Diagnostic{Path: path, Message: message})
}

// bindNode binds one element into one node. b may be nil when called through
// Node.ParseFromNode; include expansion then requires a non-nil resolver or
// fails.
func bindNode(n *Node, el *Element, res Resolver, b *Binder, path string) error {
	assertMutable(n.frozen)

	if ref, ok := el.Attribute(IncludeAttr); ok {
		if res == nil {
			return fmt.Errorf("%s: include %q: no resolver configured", path, ref)
		}
		included, err := res.Resolve(ref)
		if err != nil {
			return fmt.Errorf("%s: include %q: %w", path, ref, err)
		}
		scratch := n.CloneSchema()
		if err := bindNode(scratch, included, res, b, path); err != nil {
			return err
		}
		// Included values layer below local ones: local binding below
		// overwrites anything both documents set.
		if err := n.ParseFromValue(scratch); err != nil {
			return fmt.Errorf("%s: include %q: %w", path, ref, err)
		}
	}

	for _, f := range n.fields {
		fieldPath := path + "/" + f.name
		v := f.value

		if text, ok := el.Attribute(f.name); ok {
			v.ParseFromAttribute(text)
			continue
		}

		children := el.ChildrenNamed(f.name)
		if len(children) == 0 {
			continue
		}

		switch field := v.(type) {
		case *Node:
			if len(children) > 1 {
				b.note(fieldPath, fmt.Sprintf("%d elements for a single node field, binding the first", len(children)))
			}
			if err := bindNode(field, children[0], res, b, fieldPath); err != nil {
				return err
			}

		case *ListValue:
			for _, c := range children {
				item := field.appendEmpty()
				if child, ok := item.(*Node); ok {
					if err := bindNode(child, c, res, b, fieldPath); err != nil {
						return err
					}
				} else {
					item.ParseFromNode(c)
				}
			}

		default:
			if len(children) > 1 {
				b.note(fieldPath, fmt.Sprintf("%d elements for a scalar field, binding the first", len(children)))
			}
			v.ParseFromNode(children[0])
		}
	}

	n.parsed = true
	return nil
}
