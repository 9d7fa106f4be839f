// Package markup provides a small hierarchical document model with named
// nodes, ordered attributes and ordered children, serialized as YAML.
package markup

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v2"
)

// Node is a single element of a markup document. Attribute and child order
// is preserved across save/load, and sibling nodes may share a name.
type Node struct {
	Name     string        `yaml:"name"`
	Attrs    yaml.MapSlice `yaml:"attrs,omitempty"`
	Children []*Node       `yaml:"children,omitempty"`

	parent *Node
}

// Document wraps a node tree for whole-document IO.
type Document struct {
	root *Node
}

// NewDocument creates a document with an empty root node of the given name.
func NewDocument(rootName string) *Document {
	return &Document{root: &Node{Name: rootName}}
}

// Root returns the document's root node.
func (d *Document) Root() *Node {
	return d.root
}

// Save writes the document as YAML.
func (d *Document) Save(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(d.root); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// Load reads a YAML document written by Save.
func Load(r io.Reader) (*Document, error) {
	var root Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("markup: %w", err)
	}
	root.linkParents()
	return &Document{root: &root}, nil
}

func (n *Node) linkParents() {
	for _, c := range n.Children {
		c.parent = n
		c.linkParents()
	}
}

// CreateChild appends a new child node with the given name.
func (n *Node) CreateChild(name string) *Node {
	c := &Node{Name: name, parent: n}
	n.Children = append(n.Children, c)
	return c
}

// Child returns the first child with the given name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Next returns the next sibling with the given name, or nil. It allows
// iterating same-named children in document order.
func (n *Node) Next(name string) *Node {
	if n.parent == nil {
		return nil
	}
	seen := false
	for _, c := range n.parent.Children {
		if c == n {
			seen = true
			continue
		}
		if seen && c.Name == name {
			return c
		}
	}
	return nil
}

func (n *Node) setAttr(key string, value interface{}) {
	for i, item := range n.Attrs {
		if k, ok := item.Key.(string); ok && k == key {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, yaml.MapItem{Key: key, Value: value})
}

func (n *Node) attr(key string) (interface{}, bool) {
	for _, item := range n.Attrs {
		if k, ok := item.Key.(string); ok && k == key {
			return item.Value, true
		}
	}
	return nil, false
}

// SetFloat stores a float attribute.
func (n *Node) SetFloat(key string, value float64) {
	n.setAttr(key, value)
}

// Float returns a float attribute, or 0 when absent.
func (n *Node) Float(key string) float64 {
	v, ok := n.attr(key)
	if !ok {
		return 0
	}
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case uint64:
		return float64(x)
	}
	return 0
}

// SetUInt stores an unsigned integer attribute.
func (n *Node) SetUInt(key string, value uint32) {
	n.setAttr(key, uint64(value))
}

// UInt returns an unsigned integer attribute, or 0 when absent.
func (n *Node) UInt(key string) uint32 {
	v, ok := n.attr(key)
	if !ok {
		return 0
	}
	switch x := v.(type) {
	case uint64:
		return uint32(x)
	case int:
		return uint32(x)
	case int64:
		return uint32(x)
	case float64:
		return uint32(x)
	}
	return 0
}

// SetInt stores a signed integer attribute.
func (n *Node) SetInt(key string, value int) {
	n.setAttr(key, value)
}

// Int returns a signed integer attribute, or 0 when absent.
func (n *Node) Int(key string) int {
	v, ok := n.attr(key)
	if !ok {
		return 0
	}
	switch x := v.(type) {
	case int:
		return x
	case int64:
		return int(x)
	case uint64:
		return int(x)
	case float64:
		return int(x)
	}
	return 0
}

// SetString stores a string attribute.
func (n *Node) SetString(key, value string) {
	n.setAttr(key, value)
}

// String returns a string attribute, or "" when absent.
func (n *Node) String(key string) string {
	v, ok := n.attr(key)
	if !ok {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}
