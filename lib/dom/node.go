// Package dom is the in-memory host tree components render into.
//
// It models just enough of a browser document for the component runtime:
// elements with ordered attributes, shadow roots as encapsulation
// boundaries, bubbling events that optionally cross those boundaries,
// child-list mutation observation delivered on the loop's microtask queue,
// and lifecycle callbacks when elements join or leave the connected tree.
package dom

import "strings"

// NodeType identifies the kind of a Node.
type NodeType uint8

const (
	ElementNode NodeType = iota + 1
	TextNode
	CommentNode
	ShadowRootNode
	DocumentNode
)

// Attr is a single element attribute.
type Attr struct {
	Name  string
	Value string
}

// Node is an element, text, comment, shadow root or document node.
type Node struct {
	Type NodeType
	Tag  string // lower-case tag name for elements
	Data string // content for text and comment nodes

	attrs     []Attr
	parent    *Node
	children  []*Node
	shadow    *Node
	host      *Node
	doc       *Document
	listeners map[string][]*Listener
}

// Document returns the document that owns n.
func (n *Node) Document() *Document { return n.doc }

// Parent returns the parent node, or nil. Shadow roots have no parent;
// use Host to cross the boundary.
func (n *Node) Parent() *Node { return n.parent }

// Host returns the element a shadow root is attached to.
func (n *Node) Host() *Node { return n.host }

// ShadowRoot returns the element's shadow root, or nil.
func (n *Node) ShadowRoot() *Node { return n.shadow }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// ElementChildren returns the element children only.
func (n *Node) ElementChildren() []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.Type == ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// TextContent concatenates the text of n and all its descendants.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Data
	}
	var sb strings.Builder
	for _, c := range n.children {
		if c.Type == CommentNode {
			continue
		}
		sb.WriteString(c.TextContent())
	}
	return sb.String()
}

// IsConnected reports whether n is reachable from its document root,
// crossing shadow roots into their hosts.
func (n *Node) IsConnected() bool {
	if n.doc == nil {
		return false
	}
	for cur := n; cur != nil; {
		if cur == n.doc.root {
			return true
		}
		if cur.Type == ShadowRootNode {
			cur = cur.host
			continue
		}
		cur = cur.parent
	}
	return false
}

// AttachShadow creates the element's shadow root. Calling it again returns
// the existing root.
func (n *Node) AttachShadow() *Node {
	if n.shadow != nil {
		return n.shadow
	}
	n.shadow = &Node{Type: ShadowRootNode, host: n, doc: n.doc}
	return n.shadow
}

// CloneNode copies n. Listeners and shadow roots are never cloned.
func (n *Node) CloneNode(deep bool) *Node {
	c := &Node{Type: n.Type, Tag: n.Tag, Data: n.Data, doc: n.doc}
	if len(n.attrs) > 0 {
		c.attrs = make([]Attr, len(n.attrs))
		copy(c.attrs, n.attrs)
	}
	if deep {
		for _, child := range n.children {
			cc := child.CloneNode(true)
			cc.parent = c
			c.children = append(c.children, cc)
		}
	}
	return c
}

// --- attributes ---

// Attrs returns a copy of the attribute list in source order.
func (n *Node) Attrs() []Attr {
	out := make([]Attr, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// AttributeNames returns attribute names in source order.
func (n *Node) AttributeNames() []string {
	out := make([]string, len(n.attrs))
	for i, a := range n.attrs {
		out[i] = a.Name
	}
	return out
}

// GetAttribute returns the attribute value and whether it is present.
func (n *Node) GetAttribute(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Attribute returns the attribute value, or "" when absent.
func (n *Node) Attribute(name string) string {
	v, _ := n.GetAttribute(name)
	return v
}

// HasAttribute reports whether the attribute is present.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.GetAttribute(name)
	return ok
}

// SetAttribute sets an attribute and reports the change to the document
// lifecycle. Attribute changes never produce mutation records.
func (n *Node) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	old := ""
	found := false
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			old = n.attrs[i].Value
			n.attrs[i].Value = value
			found = true
			break
		}
	}
	if !found {
		n.attrs = append(n.attrs, Attr{Name: name, Value: value})
	}
	n.doc.attributeChanged(n, name, old, value)
}

// RemoveAttribute deletes an attribute if present.
func (n *Node) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	for i, a := range n.attrs {
		if a.Name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			n.doc.attributeChanged(n, name, a.Value, "")
			return
		}
	}
}

// --- structure ---

// AppendChild appends child, detaching it from any previous parent.
func (n *Node) AppendChild(child *Node) *Node {
	return n.InsertBefore(child, nil)
}

// InsertBefore inserts child before ref. A nil ref appends.
func (n *Node) InsertBefore(child, ref *Node) *Node {
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.adopt(n.doc)

	idx := len(n.children)
	if ref != nil {
		for i, c := range n.children {
			if c == ref {
				idx = i
				break
			}
		}
	}
	n.children = append(n.children, nil)
	copy(n.children[idx+1:], n.children[idx:])
	n.children[idx] = child
	child.parent = n

	n.doc.recordMutation(n, []*Node{child}, nil)
	if n.IsConnected() {
		n.doc.connect(child)
	}
	return child
}

// RemoveChild detaches child from n. It is a no-op when child is not a
// child of n.
func (n *Node) RemoveChild(child *Node) *Node {
	for i, c := range n.children {
		if c != child {
			continue
		}
		wasConnected := n.IsConnected()
		n.children = append(n.children[:i], n.children[i+1:]...)
		child.parent = nil

		n.doc.recordMutation(n, nil, []*Node{child})
		if wasConnected {
			n.doc.disconnect(child)
		}
		return child
	}
	return child
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

// ReplaceChildren removes every child and appends nodes.
func (n *Node) ReplaceChildren(nodes ...*Node) {
	for len(n.children) > 0 {
		n.RemoveChild(n.children[len(n.children)-1])
	}
	for _, c := range nodes {
		n.AppendChild(c)
	}
}

// adopt moves the subtree (including shadow roots) into doc.
func (n *Node) adopt(doc *Document) {
	if n.doc == doc {
		return
	}
	n.doc = doc
	if n.shadow != nil {
		n.shadow.adopt(doc)
	}
	for _, c := range n.children {
		c.adopt(doc)
	}
}
