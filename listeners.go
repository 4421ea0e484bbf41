package rhtml

import (
	"strings"

	"go.uber.org/zap"

	"github.com/pthm/rhtml/lib/dom"
	"github.com/pthm/rhtml/lib/encoding"
)

// actionMarker is an @event="method" binding remembered for a node. Markers
// are stripped from the markup after the first scan, so later scans rely on
// this record instead of the attributes.
type actionMarker struct {
	event  string
	method string
}

type boundListener struct {
	node     *dom.Node
	event    string
	listener *dom.Listener
}

// rebind runs after every batch of child-list changes in the rendered
// content. It always detaches everything before attaching again, so
// repeated runs leave exactly one listener per binding.
func (c *Instance) rebind() {
	c.removeExternalListeners()
	c.removeInternalListeners()
	c.setExternalListeners()
	c.setInternalListeners()
	c.removeProtocolMarkers()
}

func (c *Instance) removeExternalListeners() {
	for _, trigger := range c.def.Triggers {
		c.host.RemoveEventListener(trigger, c.signal)
	}
}

func (c *Instance) setExternalListeners() {
	for _, trigger := range c.def.Triggers {
		c.host.AddEventListener(trigger, c.signal)
	}
}

func (c *Instance) removeInternalListeners() {
	for _, b := range c.bound {
		b.node.RemoveEventListener(b.event, b.listener)
	}
	c.bound = nil
}

func (c *Instance) setInternalListeners() {
	markers := make(map[*dom.Node][]actionMarker)
	for _, el := range c.internalElements() {
		known := c.markers[el]
		for _, a := range el.Attrs() {
			if !strings.HasPrefix(a.Name, encoding.ActionPrefix) {
				continue
			}
			m := actionMarker{event: encoding.EventName(a.Name), method: a.Value}
			if !containsMarker(known, m) {
				known = append(known, m)
			}
		}
		if len(known) == 0 {
			continue
		}
		markers[el] = known

		for _, m := range known {
			l := c.actionListener(m.method)
			if l == nil {
				c.log.Debug("action references unknown method",
					zap.String("event", m.event),
					zap.String("method", m.method))
				continue
			}
			el.AddEventListener(m.event, l)
			c.bound = append(c.bound, boundListener{node: el, event: m.event, listener: l})
		}
	}
	c.markers = markers
}

// removeProtocolMarkers strips :prop and @event attributes from the host
// and the scanned content. Attribute callbacks are suppressed meanwhile so
// stripping a prop marker is not mistaken for the prop being cleared.
func (c *Instance) removeProtocolMarkers() {
	c.ignoreUpdate = true
	defer func() { c.ignoreUpdate = false }()

	stripMarkers(c.host)
	for _, el := range c.internalElements() {
		stripMarkers(el)
	}
}

func stripMarkers(n *dom.Node) {
	for _, name := range n.AttributeNames() {
		if encoding.IsMarker(name) {
			n.RemoveAttribute(name)
		}
	}
}

// actionListener returns the single listener shared by every binding of
// method, or nil when the method does not exist.
func (c *Instance) actionListener(method string) *dom.Listener {
	if l, ok := c.actions[method]; ok {
		return l
	}
	fn, ok := c.def.Methods[method]
	if !ok {
		return nil
	}
	l := dom.NewListener(func(e *dom.Event) {
		fn(c, Call{Event: e, Data: e.Detail})
	})
	c.actions[method] = l
	return l
}

// internalElements lists the rendered elements the instance owns: every
// element under the shadow root except style and slot pass-through nodes,
// the reserved styles node, and nested components with their content.
func (c *Instance) internalElements() []*dom.Node {
	var out []*dom.Node
	var walk func(*dom.Node)
	walk = func(n *dom.Node) {
		for _, child := range n.ElementChildren() {
			if child == c.styles || skipTag(child.Tag) {
				continue
			}
			out = append(out, child)
			walk(child)
		}
	}
	walk(c.root)
	return out
}

func skipTag(tag string) bool {
	switch tag {
	case "style", "slot", "link":
		return true
	}
	return dom.IsCustomTag(tag)
}

func containsMarker(list []actionMarker, m actionMarker) bool {
	for _, cur := range list {
		if cur == m {
			return true
		}
	}
	return false
}
