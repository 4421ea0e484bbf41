package rhtml

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/pthm/rhtml/lib/dom"
	"github.com/pthm/rhtml/lib/loop"
)

// Render runs the render pipeline and returns a future that settles after
// PostRender:
//
//  1. PreRender
//  2. the template, awaited when asynchronous
//  3. parse and replace everything after the reserved styles node
//  4. copy document stylesheets into the styles node
//  5. wait until every custom tag in the content is defined
//  6. PostRender
//
// Template and parse failures are reported and the previous content kept;
// the remaining steps still run. The future never rejects.
func (c *Instance) Render() *loop.Future[struct{}] {
	done := loop.NewFuture[struct{}](c.loop)
	c.rendering++
	if c.state != StateDisconnected {
		c.state = StateRendering
	}

	if c.def.PreRender != nil {
		c.def.PreRender(c)
	}

	finish := func() {
		c.awaitChildren().Then(func([]struct{}, error) {
			c.rendering--
			c.renders++
			if c.rendering == 0 && c.state == StateRendering {
				c.state = StateIdle
			}
			if c.def.PostRender != nil {
				c.def.PostRender(c)
			}
			done.Resolve(struct{}{})
		})
	}

	markup := c.markup()
	if markup == nil {
		finish()
		return done
	}
	markup.Then(func(m string, err error) {
		if err != nil {
			c.reg.reportError(c, fmt.Errorf("%w: %w", ErrTemplate, err))
		} else {
			c.replaceContent(m)
			c.copyStyles()
		}
		finish()
	})
	return done
}

// markup starts the configured template, or returns nil when there is none.
func (c *Instance) markup() *loop.Future[string] {
	switch {
	case c.def.AsyncTemplate != nil:
		f := c.def.AsyncTemplate(c.reg.ctx, c)
		if f == nil {
			return loop.Resolved(c.loop, "")
		}
		return f
	case c.def.Template != nil:
		m, err := c.def.Template(c.reg.ctx, c)
		if err != nil {
			return loop.Failed[string](c.loop, err)
		}
		return loop.Resolved(c.loop, m)
	}
	return nil
}

// replaceContent swaps the rendered children for the parsed markup,
// keeping the reserved styles node first.
func (c *Instance) replaceContent(markup string) {
	nodes, err := c.reg.parse(c.host.Document(), markup)
	if err != nil {
		c.reg.reportError(c, fmt.Errorf("%w: %w", ErrMarkupParse, err))
		return
	}

	for _, child := range c.root.Children() {
		if child != c.styles {
			c.root.RemoveChild(child)
		}
	}
	if c.styles.Parent() != c.root {
		c.root.InsertBefore(c.styles, c.root.FirstChild())
	}
	for _, n := range nodes {
		c.root.AppendChild(n)
	}
}

// copyStyles mirrors the document's stylesheets into the styles node so
// they apply inside the boundary.
func (c *Instance) copyStyles() {
	head := c.host.Document().Head()
	var clones []*dom.Node
	for _, n := range head.ElementChildren() {
		if isStylesheet(n) {
			clones = append(clones, n.CloneNode(true))
		}
	}
	if len(clones) == 0 && c.styles.ChildCount() == 0 {
		return
	}
	c.styles.ReplaceChildren(clones...)
}

func isStylesheet(n *dom.Node) bool {
	switch n.Tag {
	case "style":
		return true
	case "link":
		return n.Attribute("rel") == "stylesheet"
	}
	return false
}

// awaitChildren settles once every custom tag in the rendered content,
// including inside nested shadow roots, is defined.
func (c *Instance) awaitChildren() *loop.Future[[]struct{}] {
	tags := dom.CollectTags(c.root, dom.DescendAll)
	if len(tags) > 0 {
		c.log.Debug("waiting for nested components", zap.Strings("tags", tags))
	}
	return c.reg.whenAllDefined(tags)
}
