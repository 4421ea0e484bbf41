// Package rhtml is a headless runtime for reactive HTML components.
//
// A component is a Definition: a lower-case hyphenated tag name, a template
// producing markup, declared props, reactive data and named methods. A
// Registry maps tag names to definitions for one dom.Document. Whenever an
// element with a defined tag joins the document the registry constructs an
// Instance for it; when the element leaves, the instance is torn down.
//
// # Rendering
//
// Each instance renders into its own shadow root. The first child of that
// root is reserved for stylesheets copied from the document head; everything
// after it is replaced by the parsed template output on every render.
// Writes to c.Data() that change a value schedule one render per turn of the
// loop, no matter how many fields changed.
//
//	reg := rhtml.NewRegistry(l, doc, rhtml.WithLogger(logger))
//	reg.MustDefine(rhtml.Definition{
//	    Name:  "click-counter",
//	    Props: []string{"label"},
//	    Data:  map[string]any{"count": 0},
//	    Template: func(ctx context.Context, c *rhtml.Instance) (string, error) {
//	        return fmt.Sprintf(`<button @click="increment">%v: %d</button>`,
//	            c.Prop("label"), c.Data().Get("count")), nil
//	    },
//	    Methods: map[string]rhtml.MethodFunc{
//	        "increment": func(c *rhtml.Instance, _ rhtml.Call) {
//	            c.Data().Set("count", c.Data().Get("count").(int)+1)
//	        },
//	    },
//	})
//
// Templates may also be templ components (see Templ) or asynchronous (see
// AsyncTemplateFunc).
//
// # Markers
//
// Two attribute prefixes form the binding protocol:
//
//   - :name="value" passes a prop. Values produced by Encode carry the
//     "urienc" marker and survive any JSON-serializable type.
//   - @event="method" binds a DOM event inside the rendered content to a
//     method. On a child component's tag it instead names the method the
//     parent runs when the child emits that event.
//
// Markers are stripped once read, so they never appear in rendered output.
//
// # Event bridge
//
// Children talk to ancestors with c.Emit. The signal carries an Envelope
// with the sender's origin identifier, payload and props. An ancestor that
// lists the signal name in Triggers runs the bound method and stops
// propagation; a component never handles its own signal.
//
// # Testing
//
// TestHarness wires a loop, document and registry together and mounts
// components synchronously:
//
//	h := rhtml.NewTestHarness()
//	h.Registry.MustDefine(counter)
//	result, _ := h.Mount("click-counter", map[string]string{":label": "Clicks"})
//	result.HTMLContains("Clicks: 0")
package rhtml
