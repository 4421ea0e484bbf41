package rhtml

import (
	"html"

	"github.com/a-h/templ"

	"github.com/pthm/rhtml/lib/encoding"
)

// Bind builds the prop-marker attribute passing value to a child
// component's prop:
//
//	<user-card { rhtml.Bind("user", c.Data().Get("user"))... }></user-card>
//
// The value is encoded, so any JSON-serializable value survives the trip.
func Bind(prop string, value any) templ.Attributes {
	return templ.Attributes{encoding.PropAttr(prop): encoding.Encode(value)}
}

// On builds the action-marker attribute binding event to method:
//
//	<button { rhtml.On("click", "save")... }>Save</button>
//
// On a child component's tag it names the method the parent runs when the
// child emits event.
func On(event, method string) templ.Attributes {
	return templ.Attributes{encoding.ActionAttr(event): method}
}

// BindAttr is the string form of Bind for fmt-built templates. The encoded
// value needs no further escaping.
func BindAttr(prop string, value any) string {
	return encoding.PropAttr(prop) + `="` + encoding.Encode(value) + `"`
}

// OnAttr is the string form of On.
func OnAttr(event, method string) string {
	return encoding.ActionAttr(event) + `="` + html.EscapeString(method) + `"`
}
