package rhtml

import (
	"maps"
	"reflect"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/pthm/rhtml/lib/dom"
	"github.com/pthm/rhtml/lib/encoding"
	"github.com/pthm/rhtml/lib/loop"
	"github.com/pthm/rhtml/lib/store"
)

// OriginAttr is set on every host element to its instance's origin
// identifier.
const OriginAttr = "rhtml-id"

// stylesAttr marks the reserved first child of every shadow root.
const stylesAttr = "data-rhtml-styles"

// State is the lifecycle state of an Instance.
type State uint8

const (
	StateConstructed State = iota
	StateConnected
	StateRendering
	StateIdle
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateConnected:
		return "connected"
	case StateRendering:
		return "rendering"
	case StateIdle:
		return "idle"
	case StateDisconnected:
		return "disconnected"
	}
	return "unknown"
}

// Instance is one live occurrence of a registered component.
//
// Instances are created by the Registry when an element with a defined tag
// joins the document, and torn down when it leaves. Every method must be
// called from the loop goroutine.
type Instance struct {
	id   string
	def  *Definition
	reg  *Registry
	loop *loop.Loop
	log  *zap.Logger

	host   *dom.Node
	root   *dom.Node // shadow root
	styles *dom.Node // reserved first child of root

	props  map[string]any
	data   *store.Store
	events map[string]func(data any)
	slots  []string

	observer *dom.MutationObserver
	signal   *dom.Listener
	actions  map[string]*dom.Listener
	markers  map[*dom.Node][]actionMarker
	bound    []boundListener

	state           State
	renderScheduled bool
	rendering       int
	renders         int
	ignoreUpdate    bool
}

// newInstance runs the constructor sequence: identity, encapsulation,
// props, data, hooks, local events, slots, observation, first render.
func newInstance(reg *Registry, def *Definition, host *dom.Node) *Instance {
	c := &Instance{
		id:      reg.newID(),
		def:     def,
		reg:     reg,
		loop:    reg.loop,
		host:    host,
		props:   make(map[string]any, len(def.Props)),
		events:  make(map[string]func(any)),
		actions: make(map[string]*dom.Listener),
		markers: make(map[*dom.Node][]actionMarker),
	}
	c.log = reg.log.With(zap.String("component", def.Name), zap.String("origin", c.id))
	reg.instances[host] = c

	c.ignoreUpdate = true
	host.SetAttribute(OriginAttr, c.id)
	c.ignoreUpdate = false

	c.root = host.AttachShadow()
	c.root.ReplaceChildren()
	c.styles = host.Document().CreateElement("div")
	c.styles.SetAttribute(stylesAttr, "")
	c.root.AppendChild(c.styles)

	for _, field := range def.propFields() {
		c.props[field] = nil
	}
	for _, b := range Bindings(host) {
		switch b.Kind {
		case PropBinding:
			if def.declares(b.Name) {
				c.props[b.Name] = b.Value
			}
		case ActionBinding:
			c.events[b.Name] = c.localEvent(b.Name, b.Raw)
		}
	}

	c.data = store.New(def.Data, func(string) { c.scheduleRender() })
	c.signal = dom.NewListener(c.onSignal)

	if def.OnCreate != nil {
		def.OnCreate(c)
	}

	c.slots = discoverSlots(host)
	c.observer = host.Document().Observe(c.root, func([]dom.MutationRecord) { c.rebind() })

	c.state = StateConnected
	c.Render()
	return c
}

// discoverSlots collects the distinct slot names used by the host's light
// DOM content.
func discoverSlots(host *dom.Node) []string {
	var slots []string
	seen := make(map[string]bool)
	var walk func(*dom.Node)
	walk = func(n *dom.Node) {
		for _, child := range n.ElementChildren() {
			if name, ok := child.GetAttribute("slot"); ok && !seen[name] {
				seen[name] = true
				slots = append(slots, name)
			}
			walk(child)
		}
	}
	walk(host)
	return slots
}

// ID returns the origin identifier.
func (c *Instance) ID() string { return c.id }

// Name returns the component's tag name.
func (c *Instance) Name() string { return c.def.Name }

// Host returns the element the instance is attached to.
func (c *Instance) Host() *dom.Node { return c.host }

// DOM returns the shadow root holding the rendered content.
func (c *Instance) DOM() *dom.Node { return c.root }

// Loop returns the loop the instance runs on.
func (c *Instance) Loop() *loop.Loop { return c.loop }

// Logger returns the instance's logger.
func (c *Instance) Logger() *zap.Logger { return c.log }

// Data returns the reactive store. Writes that change a field schedule a
// render.
func (c *Instance) Data() *store.Store { return c.data }

// Props returns a copy of the current props.
func (c *Instance) Props() map[string]any { return maps.Clone(c.props) }

// Prop returns a single prop value, or nil.
func (c *Instance) Prop(name string) any { return c.props[name] }

// Slots returns the slot names supplied by the host's content.
func (c *Instance) Slots() []string { return append([]string(nil), c.slots...) }

// State returns the lifecycle state.
func (c *Instance) State() State { return c.state }

// RenderCount returns the number of completed renders.
func (c *Instance) RenderCount() int { return c.renders }

// Encode turns a value into an attribute string for child props.
func (c *Instance) Encode(v any) string { return encoding.Encode(v) }

// Parse decodes an attribute string.
func (c *Instance) Parse(raw string) any { return encoding.Parse(raw) }

// Query returns the first element in the rendered content, including
// nested components' content, that matches.
func (c *Instance) Query(match func(*dom.Node) bool) *dom.Node {
	return dom.Query(c.root, match)
}

// QueryAll returns every match in the rendered content, including nested
// components' content.
func (c *Instance) QueryAll(match func(*dom.Node) bool) []*dom.Node {
	return dom.QueryAll(c.root, match)
}

// Call invokes a method by name. It reports false when no such method
// exists.
func (c *Instance) Call(method string, call Call) bool {
	fn, ok := c.def.Methods[method]
	if !ok {
		return false
	}
	fn(c, call)
	return true
}

// UpdateProps merges changed props and, when rerender is true, renders.
// Entries for undeclared props and entries equal to the current value are
// dropped; if nothing remains it is a no-op. PropsUpdate receives the
// changed names in sorted order.
func (c *Instance) UpdateProps(props map[string]any, rerender bool) *loop.Future[struct{}] {
	var changed []string
	for name, v := range props {
		if !c.def.declares(name) {
			continue
		}
		if equalValues(c.props[name], v) {
			continue
		}
		changed = append(changed, name)
	}
	if len(changed) == 0 {
		return loop.Resolved(c.loop, struct{}{})
	}
	sort.Strings(changed)

	for _, name := range changed {
		c.props[name] = props[name]
	}
	if c.def.PropsUpdate != nil {
		c.def.PropsUpdate(c, changed)
	}
	if rerender {
		return c.Render()
	}
	return loop.Resolved(c.loop, struct{}{})
}

// attributeChanged maps an observed :prop attribute change onto props.
func (c *Instance) attributeChanged(name, oldValue, newValue string, present bool) {
	if c.ignoreUpdate || c.state == StateDisconnected || !strings.HasPrefix(name, encoding.PropPrefix) {
		return
	}
	field := encoding.Camel(name)
	if !c.def.declares(field) {
		return
	}
	var next any
	if present {
		next = encoding.Parse(newValue)
	}
	if equalValues(encoding.Parse(oldValue), next) {
		return
	}
	c.UpdateProps(map[string]any{field: next}, true)
}

// Disconnect detaches observation and every listener. It is irreversible
// and does not abort a render already in flight.
func (c *Instance) Disconnect() {
	if c.state == StateDisconnected {
		return
	}
	c.state = StateDisconnected
	c.observer.Disconnect()
	c.removeExternalListeners()
	c.removeInternalListeners()
}

// equalValues compares structured values by fingerprint and everything
// else with ==.
func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if isStructuredValue(a) || isStructuredValue(b) {
		fa, errA := encoding.Fingerprint(a)
		fb, errB := encoding.Fingerprint(b)
		return errA == nil && errB == nil && string(fa) == string(fb)
	}
	if !reflect.TypeOf(a).Comparable() || !reflect.TypeOf(b).Comparable() {
		return false
	}
	return a == b
}

func isStructuredValue(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer:
		return true
	}
	return false
}
