package config

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Attr is a named attribute of a document element.
type Attr struct {
	Name  string
	Value string
}

// Element is a parsed document node. The binder consumes exactly two queries
// from it: attribute lookup and ordered named-children lookup. Nothing else
// about the document format leaks into the configuration core.
type Element struct {
	// Name is the element tag.
	Name string

	// Attrs are the element attributes in document order.
	Attrs []Attr

	// Text is the element's concatenated character data, trimmed.
	Text string

	// Children are the child elements in document order.
	Children []*Element
}

// Attribute returns the named attribute's text.
func (e *Element) Attribute(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// ChildrenNamed returns all child elements with the given tag, in document
// order.
func (e *Element) ChildrenNamed(name string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// FirstChild returns the first child element with the given tag.
func (e *Element) FirstChild(name string) (*Element, bool) {
	for _, c := range e.Children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// ParseDocument reads an XML document and returns its root element.
// A document that cannot be tokenized is a fatal error at this boundary.
func ParseDocument(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)

	var root *Element
	var stack []*Element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed document: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: t.Name.Local}
			for _, a := range t.Attr {
				el.Attrs = append(el.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("malformed document: multiple root elements")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("malformed document: unexpected end of element %q", t.Name.Local)
			}
			top := stack[len(stack)-1]
			top.Text = strings.TrimSpace(top.Text)
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("malformed document: no root element")
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("malformed document: unterminated element %q", stack[len(stack)-1].Name)
	}
	return root, nil
}

// ParseDocumentFile reads an XML document from a file.
func ParseDocumentFile(path string) (*Element, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document %s: %w", path, err)
	}
	defer f.Close()

	root, err := ParseDocument(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

// Resolver loads a transcluded document by its include reference.
type Resolver interface {
	Resolve(ref string) (*Element, error)
}

// FileResolver resolves include references as file paths relative to a base
// directory.
type FileResolver struct {
	base string
}

// NewFileResolver creates a resolver rooted at the given directory.
func NewFileResolver(base string) *FileResolver {
	return &FileResolver{base: base}
}

// Resolve implements Resolver.
func (r *FileResolver) Resolve(ref string) (*Element, error) {
	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.base, path)
	}
	return ParseDocumentFile(path)
}
