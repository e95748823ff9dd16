package config

import (
	"encoding/xml"
	"strings"
)

// Serializer renders a node tree back to text. The text form is a
// line-oriented diagnostic dump for operators; the XML form is a faithful
// inverse of binding: re-binding it into a fresh same-schema node reproduces
// every parsed leaf. Rendering never fails and copes with partially bound
// trees.
type Serializer struct {
	// IncludeDefaults emits every declared field. When false only fields
	// explicitly supplied by a document are emitted.
	IncludeDefaults bool
}

// Render returns the indented "name = value" diagnostic dump, one field per
// line, nesting shown by indentation.
func (s Serializer) Render(n *Node) string {
	var sb strings.Builder
	sb.WriteString(n.Name())
	sb.WriteString("\n")
	sb.WriteString(s.renderBody(n, 1))
	return sb.String()
}

func (s Serializer) renderBody(n *Node, depth int) string {
	var sb strings.Builder
	for _, f := range n.fields {
		if !s.IncludeDefaults && !f.value.IsParsed() {
			continue
		}
		switch v := f.value.(type) {
		case *Node:
			sb.WriteString(indentOf(depth))
			sb.WriteString(f.name)
			sb.WriteString("\n")
			sb.WriteString(s.renderBody(v, depth+1))
		case *ListValue:
			sb.WriteString(indentOf(depth))
			sb.WriteString(f.name)
			sb.WriteString("\n")
			for _, item := range v.items {
				if child, ok := item.(*Node); ok {
					sb.WriteString(indentOf(depth + 1))
					sb.WriteString(child.Name())
					sb.WriteString("\n")
					sb.WriteString(s.renderBody(child, depth+2))
				} else {
					sb.WriteString(indentOf(depth + 1))
					sb.WriteString("- ")
					sb.WriteString(item.Format(depth+1, true))
				}
			}
		default:
			sb.WriteString(indentOf(depth))
			sb.WriteString(f.name)
			sb.WriteString(" = ")
			sb.WriteString(f.value.Format(depth, true))
		}
	}
	return sb.String()
}

// RenderXML returns a document that binds back to an equivalent tree. Every
// value is emitted as element text, which the binder accepts for any field
// it would also accept as an attribute.
func (s Serializer) RenderXML(n *Node) string {
	var sb strings.Builder
	s.renderXMLNode(&sb, n, n.Name(), 0)
	return sb.String()
}

func (s Serializer) renderXMLNode(sb *strings.Builder, n *Node, tag string, depth int) {
	sb.WriteString(indentOf(depth))
	sb.WriteString("<")
	sb.WriteString(tag)
	sb.WriteString(">\n")

	for _, f := range n.fields {
		if !s.IncludeDefaults && !f.value.IsParsed() {
			continue
		}
		switch v := f.value.(type) {
		case *Node:
			s.renderXMLNode(sb, v, f.name, depth+1)
		case *ListValue:
			for _, item := range v.items {
				if child, ok := item.(*Node); ok {
					s.renderXMLNode(sb, child, f.name, depth+1)
				} else {
					s.renderXMLLeaf(sb, f.name, item, depth+1)
				}
			}
		default:
			s.renderXMLLeaf(sb, f.name, f.value, depth+1)
		}
	}

	sb.WriteString(indentOf(depth))
	sb.WriteString("</")
	sb.WriteString(tag)
	sb.WriteString(">\n")
}

func (s Serializer) renderXMLLeaf(sb *strings.Builder, tag string, v Value, depth int) {
	sb.WriteString(indentOf(depth))
	sb.WriteString("<")
	sb.WriteString(tag)
	sb.WriteString(">")
	sb.WriteString(escapeXML(v.Format(0, false)))
	sb.WriteString("</")
	sb.WriteString(tag)
	sb.WriteString(">\n")
}

func escapeXML(s string) string {
	var sb strings.Builder
	// EscapeText only fails on a failing writer; strings.Builder never does.
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}

// ToMap converts the tree to plain maps and slices for YAML or JSON dumps.
func (s Serializer) ToMap(n *Node) map[string]any {
	out := make(map[string]any, len(n.fields))
	for _, f := range n.fields {
		if !s.IncludeDefaults && !f.value.IsParsed() {
			continue
		}
		out[f.name] = s.toAny(f.value)
	}
	return out
}

func (s Serializer) toAny(v Value) any {
	switch val := v.(type) {
	case *BoolValue:
		return val.Bool()
	case *IntValue:
		return val.Int()
	case *FloatValue:
		return val.Float()
	case *Node:
		return s.ToMap(val)
	case *ListValue:
		items := make([]any, 0, len(val.items))
		for _, item := range val.items {
			items = append(items, s.toAny(item))
		}
		return items
	default:
		return strings.TrimSpace(v.Format(0, false))
	}
}
