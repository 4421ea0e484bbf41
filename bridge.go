package rhtml

import (
	"maps"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/pthm/rhtml/lib/dom"
)

// CallerKey is added to the prop snapshot a bridged method receives.
const CallerKey = "caller"

// Envelope is the detail of every signal a component emits.
//
// Origin identifies the sender so it never handles its own signal. Handler
// is set only when the signal was bound at the sender's usage site
// (<child-el @saved="onSaved">), and names the method the receiving
// component should run. Props is the sender's props at dispatch time.
type Envelope struct {
	Origin  string         `msgpack:"origin" json:"origin"`
	Data    any            `msgpack:"data" json:"data"`
	Handler string         `msgpack:"handler,omitempty" json:"handler,omitempty"`
	Props   map[string]any `msgpack:"props" json:"props"`
}

// Pack serializes the envelope for hosts that carry signals over a
// transport.
func (e Envelope) Pack() ([]byte, error) {
	return msgpack.Marshal(e)
}

// UnpackEnvelope reverses Pack.
func UnpackEnvelope(data []byte) (Envelope, error) {
	var e Envelope
	err := msgpack.Unmarshal(data, &e)
	return e, err
}

// Emit sends a signal. When the host element bound name at its usage site
// the bound dispatch runs, carrying the handler name for the listening
// ancestor. Otherwise a plain envelope is dispatched; it bubbles across
// shadow boundaries but no component method will pick it up.
func (c *Instance) Emit(name string, data any) {
	if fn, ok := c.events[name]; ok {
		fn(data)
		return
	}
	c.host.Dispatch(dom.NewCustomEvent(name, Envelope{
		Origin: c.id,
		Data:   data,
		Props:  c.Props(),
	}))
}

// localEvent builds the dispatcher for an @event="handler" binding found
// on the host element.
func (c *Instance) localEvent(event, handler string) func(data any) {
	return func(data any) {
		c.host.Dispatch(dom.NewCustomEvent(event, Envelope{
			Origin:  c.id,
			Data:    data,
			Handler: handler,
			Props:   c.Props(),
		}))
	}
}

// onSignal handles trigger events arriving at the host. Signals from the
// instance itself and signals without a handler are ignored; otherwise
// propagation stops here and the named method runs with the sender's props.
func (c *Instance) onSignal(e *dom.Event) {
	env, ok := envelopeOf(e.Detail)
	if !ok || env.Origin == c.id || env.Handler == "" {
		return
	}
	fn, ok := c.def.Methods[env.Handler]
	if !ok {
		c.log.Debug("signal names unknown method",
			zap.String("event", e.Type),
			zap.String("method", env.Handler))
		return
	}
	e.StopPropagation()

	props := maps.Clone(env.Props)
	if props == nil {
		props = make(map[string]any, 1)
	}
	props[CallerKey] = env.Origin
	fn(c, Call{Event: e, Data: env.Data, Props: props, Caller: env.Origin})
}

func envelopeOf(detail any) (Envelope, bool) {
	switch env := detail.(type) {
	case Envelope:
		return env, true
	case *Envelope:
		if env != nil {
			return *env, true
		}
	}
	return Envelope{}, false
}
