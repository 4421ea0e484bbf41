package rhtml

import (
	"strings"

	"github.com/pthm/rhtml/lib/dom"
	"github.com/pthm/rhtml/lib/encoding"
)

// Encode turns a value into an attribute-safe string. See encoding.Encode.
func Encode(v any) string {
	return encoding.Encode(v)
}

// Parse decodes an attribute string. See encoding.Parse.
func Parse(raw string) any {
	return encoding.Parse(raw)
}

// BindingKind distinguishes the two protocol markers.
type BindingKind uint8

const (
	// PropBinding is a :name="value" attribute.
	PropBinding BindingKind = iota + 1
	// ActionBinding is an @event="method" attribute.
	ActionBinding
)

// Binding is a protocol-marker attribute read from an element.
type Binding struct {
	Kind BindingKind
	Attr string // attribute name including the marker
	Name string // prop field name, or event name for actions
	Raw  string // attribute value as written
	// Value is the decoded prop value. For actions it is the method name.
	Value any
}

// Bindings reads every protocol-marker attribute of n in source order.
func Bindings(n *dom.Node) []Binding {
	var out []Binding
	for _, a := range n.Attrs() {
		switch {
		case strings.HasPrefix(a.Name, encoding.PropPrefix):
			out = append(out, Binding{
				Kind:  PropBinding,
				Attr:  a.Name,
				Name:  encoding.Camel(a.Name),
				Raw:   a.Value,
				Value: encoding.Parse(a.Value),
			})
		case strings.HasPrefix(a.Name, encoding.ActionPrefix):
			out = append(out, Binding{
				Kind:  ActionBinding,
				Attr:  a.Name,
				Name:  encoding.EventName(a.Name),
				Raw:   a.Value,
				Value: a.Value,
			})
		}
	}
	return out
}
