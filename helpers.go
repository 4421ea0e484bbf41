package rhtml

import (
	"context"
	"strings"

	"github.com/a-h/templ"

	"github.com/pthm/rhtml/lib/dom"
)

// Templ adapts a templ component producer into a TemplateFunc.
//
//	Template: rhtml.Templ(func(c *rhtml.Instance) templ.Component {
//	    return counterView(c.Prop("label"), c.Data().Get("count"))
//	}),
func Templ(fn func(c *Instance) templ.Component) TemplateFunc {
	return func(ctx context.Context, c *Instance) (string, error) {
		var sb strings.Builder
		if err := fn(c).Render(ctx, &sb); err != nil {
			return "", err
		}
		return sb.String(), nil
	}
}

// Static returns a TemplateFunc that always produces markup.
func Static(markup string) TemplateFunc {
	return func(context.Context, *Instance) (string, error) {
		return markup, nil
	}
}

// HTML returns the rendered content of an instance, without the reserved
// styles node.
func HTML(c *Instance) string {
	var sb strings.Builder
	for _, n := range c.root.Children() {
		if n == c.styles {
			continue
		}
		sb.WriteString(dom.Render(n))
	}
	return sb.String()
}

// OuterHTML serializes the host element with its shadow content as a
// declarative shadow root.
func OuterHTML(c *Instance) string {
	return dom.Render(c.host)
}
