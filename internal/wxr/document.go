package wxr

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// NoContent is the sentinel returned for lookups of fields that are absent
// from an item.
const NoContent = "No Content Found"

// State describes the outcome of a namespaced field lookup.
type State int

const (
	// Missing means the element is not present at all.
	Missing State = iota
	// Empty means the element is present but carries no text.
	Empty
	// Found means the element is present and carries text.
	Found
)

// Value is the result of a field lookup. Callers pick sentinel or
// empty-string semantics explicitly, so absent content is never confused
// with literal content.
type Value struct {
	state State
	text  string
}

// State reports whether the field was found, empty, or missing.
func (v Value) State() State { return v.state }

// Or returns the field text, or sentinel when the field was not found.
func (v Value) Or(sentinel string) string {
	if v.state == Found {
		return v.text
	}
	return sentinel
}

// OrEmpty returns the field text, or "" when the field was not found.
func (v Value) OrEmpty() string {
	return v.Or("")
}

type node struct {
	name     xml.Name
	attrs    []xml.Attr
	text     strings.Builder
	hasText  bool
	children []*node
}

func (n *node) attr(local string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

func (n *node) child(name xml.Name) *node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

func (n *node) childrenNamed(name xml.Name) []*node {
	var out []*node
	for _, c := range n.children {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

// document is one parsed export file: an element tree plus a document-wide
// prefix-to-URI table collected from xmlns declarations anywhere in the
// document.
type document struct {
	prefixes map[string]string
	channel  *node
}

func parseDocument(r io.Reader) (*document, error) {
	dec := xml.NewDecoder(r)

	root := &node{}
	stack := []*node{root}
	prefixes := map[string]string{"": ""}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse export xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			elem := t.Copy()
			for _, a := range elem.Attr {
				switch {
				case a.Name.Space == "xmlns":
					prefixes[a.Name.Local] = a.Value
				case a.Name.Space == "" && a.Name.Local == "xmlns":
					prefixes[""] = a.Value
				}
			}
			n := &node{name: elem.Name, attrs: elem.Attr}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, n)
			stack = append(stack, n)
		case xml.CharData:
			cur := stack[len(stack)-1]
			cur.text.Write(t)
			cur.hasText = true
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}

	if len(root.children) == 0 {
		return nil, fmt.Errorf("export document has no root element")
	}

	doc := &document{prefixes: prefixes}
	channel := root.children[0].child(xml.Name{Space: prefixes[""], Local: "channel"})
	if channel == nil {
		return nil, fmt.Errorf("export document has no channel element")
	}
	doc.channel = channel

	return doc, nil
}

// resolve turns a "prefix:tag" query into a namespace-resolved xml.Name.
// Unknown prefixes resolve to the empty namespace, so lookups for them
// simply miss.
func (d *document) resolve(query string) xml.Name {
	prefix, tag := "", query
	if i := strings.Index(query, ":"); i > 0 {
		prefix, tag = query[:i], query[i+1:]
	}
	return xml.Name{Space: d.prefixes[prefix], Local: tag}
}

// elem is a namespace-aware view over one element of the tree.
type elem struct {
	doc *document
	n   *node
}

// Field looks up a direct child by its "prefix:tag" query.
func (e elem) Field(query string) Value {
	child := e.n.child(e.doc.resolve(query))
	if child == nil {
		return Value{state: Missing}
	}
	if !child.hasText {
		return Value{state: Empty}
	}
	return Value{state: Found, text: strings.TrimSpace(child.text.String())}
}
