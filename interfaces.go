package rhtml

import (
	"context"

	"github.com/pthm/rhtml/lib/dom"
	"github.com/pthm/rhtml/lib/loop"
)

// TemplateFunc produces an instance's markup from its current props and
// data. It runs on the loop goroutine and may read the instance freely.
//
//	Template: func(ctx context.Context, c *rhtml.Instance) (string, error) {
//	    return fmt.Sprintf(`<h2>%s</h2>`, c.Prop("title")), nil
//	},
type TemplateFunc func(ctx context.Context, c *Instance) (string, error)

// AsyncTemplateFunc produces markup later. Use it when markup depends on
// I/O: read what you need from the instance first, then hand the slow part
// to loop.Go so the result is delivered back on the loop.
//
//	AsyncTemplate: func(ctx context.Context, c *rhtml.Instance) *loop.Future[string] {
//	    id := c.Prop("userId")
//	    return loop.Go(c.Loop(), func() (string, error) {
//	        return fetchProfileMarkup(ctx, id)
//	    })
//	},
type AsyncTemplateFunc func(ctx context.Context, c *Instance) *loop.Future[string]

// MethodFunc is a named method invoked by action bindings in the rendered
// markup or by signals arriving through the event bridge.
type MethodFunc func(c *Instance, call Call)

// Call carries the arguments a method was invoked with.
//
// For DOM action bindings (@click="save") Event is the dispatched event and
// Data its detail. For bridged signals Data is the sender's payload, Props
// is the sender's prop snapshot with "caller" set to the sender's origin
// identifier, and Caller repeats that identifier.
type Call struct {
	Event  *dom.Event
	Data   any
	Props  map[string]any
	Caller string
}

// HookFunc is a lifecycle hook (OnCreate, PreRender, PostRender).
type HookFunc func(c *Instance)

// PropsUpdateFunc receives the names of props that changed.
type PropsUpdateFunc func(c *Instance, changed []string)

// ParseFunc turns rendered markup into detached nodes owned by doc.
// Registries use dom.Document.ParseFragment unless WithParser overrides it.
type ParseFunc func(doc *dom.Document, markup string) ([]*dom.Node, error)
