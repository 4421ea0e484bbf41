package dom

import "strings"

// Scheduler queues deferred callbacks. *loop.Loop satisfies it.
type Scheduler interface {
	QueueMicrotask(fn func())
}

// Lifecycle receives element lifecycle notifications from a Document.
// The component registry installs one to construct and tear down instances.
type Lifecycle interface {
	// Connected is called for every element that becomes reachable from
	// the document root, shadow-including, in tree order.
	Connected(n *Node)
	// Disconnected is called for every element that stops being reachable.
	Disconnected(n *Node)
	// AttributeChanged is called after SetAttribute or RemoveAttribute.
	// Absent values are reported as "".
	AttributeChanged(n *Node, name, oldValue, newValue string)
}

// Document owns a node tree rooted at <html> with <head> and <body>.
type Document struct {
	root *Node
	html *Node
	head *Node
	body *Node

	sched     Scheduler
	lifecycle Lifecycle
	observers []*MutationObserver
}

// NewDocument creates an empty document whose mutation records are
// delivered through sched.
func NewDocument(sched Scheduler) *Document {
	d := &Document{sched: sched}
	d.root = &Node{Type: DocumentNode, doc: d}
	d.html = d.CreateElement("html")
	d.head = d.CreateElement("head")
	d.body = d.CreateElement("body")

	d.html.parent = d.root
	d.root.children = []*Node{d.html}
	d.head.parent = d.html
	d.body.parent = d.html
	d.html.children = []*Node{d.head, d.body}
	return d
}

// Root returns the document node.
func (d *Document) Root() *Node { return d.root }

// Head returns the <head> element.
func (d *Document) Head() *Node { return d.head }

// Body returns the <body> element.
func (d *Document) Body() *Node { return d.body }

// SetLifecycle installs the lifecycle receiver. Only one is supported per
// document; a later call replaces the earlier one.
func (d *Document) SetLifecycle(l Lifecycle) { d.lifecycle = l }

// CreateElement creates a detached element owned by d.
func (d *Document) CreateElement(tag string) *Node {
	return &Node{Type: ElementNode, Tag: strings.ToLower(tag), doc: d}
}

// CreateText creates a detached text node.
func (d *Document) CreateText(text string) *Node {
	return &Node{Type: TextNode, Data: text, doc: d}
}

// CreateComment creates a detached comment node.
func (d *Document) CreateComment(text string) *Node {
	return &Node{Type: CommentNode, Data: text, doc: d}
}

// connect notifies the lifecycle for every element in the subtree. The
// element list is collected first so callbacks that grow the tree (a
// constructor attaching a shadow root) do not see themselves twice.
func (d *Document) connect(n *Node) {
	if d == nil || d.lifecycle == nil {
		return
	}
	for _, el := range shadowIncludingElements(n) {
		if el.IsConnected() {
			d.lifecycle.Connected(el)
		}
	}
}

func (d *Document) disconnect(n *Node) {
	if d == nil || d.lifecycle == nil {
		return
	}
	for _, el := range shadowIncludingElements(n) {
		d.lifecycle.Disconnected(el)
	}
}

func (d *Document) attributeChanged(n *Node, name, oldValue, newValue string) {
	if d == nil || d.lifecycle == nil || n.Type != ElementNode {
		return
	}
	d.lifecycle.AttributeChanged(n, name, oldValue, newValue)
}

// shadowIncludingElements lists n and its descendants in shadow-including
// tree order: an element, then its shadow tree, then its children.
func shadowIncludingElements(n *Node) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		if cur.Type == ElementNode {
			out = append(out, cur)
		}
		if cur.shadow != nil {
			walk(cur.shadow)
		}
		for _, c := range cur.children {
			walk(c)
		}
	}
	walk(n)
	return out
}
