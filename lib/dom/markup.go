package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseFragment parses markup as the content of a <body> element and
// returns detached nodes owned by d.
func (d *Document) ParseFragment(markup string) ([]*Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	parsed, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, err
	}
	out := make([]*Node, 0, len(parsed))
	for _, hn := range parsed {
		if n := d.fromHTML(hn); n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

func (d *Document) fromHTML(hn *html.Node) *Node {
	var n *Node
	switch hn.Type {
	case html.ElementNode:
		n = d.CreateElement(hn.Data)
		for _, a := range hn.Attr {
			name := a.Key
			if a.Namespace != "" {
				name = a.Namespace + ":" + a.Key
			}
			n.attrs = append(n.attrs, Attr{Name: name, Value: a.Val})
		}
	case html.TextNode:
		n = d.CreateText(hn.Data)
	case html.CommentNode:
		n = d.CreateComment(hn.Data)
	default:
		return nil
	}
	for c := hn.FirstChild; c != nil; c = c.NextSibling {
		if child := d.fromHTML(c); child != nil {
			child.parent = n
			n.children = append(n.children, child)
		}
	}
	return n
}

// Render serializes n. Shadow roots are written as declarative
// <template shadowrootmode="open"> children of their host.
func Render(n *Node) string {
	var sb strings.Builder
	if n.Type == ShadowRootNode || n.Type == DocumentNode {
		for _, c := range n.children {
			_ = html.Render(&sb, toHTML(c))
		}
		return sb.String()
	}
	_ = html.Render(&sb, toHTML(n))
	return sb.String()
}

// InnerHTML serializes the children of n (or of a shadow root).
func InnerHTML(n *Node) string {
	var sb strings.Builder
	for _, c := range n.children {
		_ = html.Render(&sb, toHTML(c))
	}
	return sb.String()
}

func toHTML(n *Node) *html.Node {
	var hn *html.Node
	switch n.Type {
	case TextNode:
		return &html.Node{Type: html.TextNode, Data: n.Data}
	case CommentNode:
		return &html.Node{Type: html.CommentNode, Data: n.Data}
	case ElementNode:
		hn = &html.Node{Type: html.ElementNode, Data: n.Tag, DataAtom: atom.Lookup([]byte(n.Tag))}
		for _, a := range n.attrs {
			hn.Attr = append(hn.Attr, html.Attribute{Key: a.Name, Val: a.Value})
		}
	default:
		hn = &html.Node{Type: html.DocumentNode}
	}

	if n.shadow != nil {
		tmpl := &html.Node{
			Type:     html.ElementNode,
			Data:     "template",
			DataAtom: atom.Template,
			Attr:     []html.Attribute{{Key: "shadowrootmode", Val: "open"}},
		}
		for _, c := range n.shadow.children {
			tmpl.AppendChild(toHTML(c))
		}
		hn.AppendChild(tmpl)
	}
	for _, c := range n.children {
		hn.AppendChild(toHTML(c))
	}
	return hn
}
