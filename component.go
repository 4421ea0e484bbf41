package rhtml

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/pthm/rhtml/lib/encoding"
)

// Definition describes a component. It is copied when registered and never
// changes afterwards.
//
// Example:
//
//	counter := rhtml.Definition{
//	    Name:  "click-counter",
//	    Props: []string{"label"},
//	    Data:  map[string]any{"count": 0},
//	    Template: func(ctx context.Context, c *rhtml.Instance) (string, error) {
//	        return fmt.Sprintf(`<button @click="increment">%v: %v</button>`,
//	            c.Prop("label"), c.Data().Get("count")), nil
//	    },
//	    Methods: map[string]rhtml.MethodFunc{
//	        "increment": func(c *rhtml.Instance, _ rhtml.Call) {
//	            c.Data().Set("count", c.Data().Get("count").(int)+1)
//	        },
//	    },
//	}
//
// Props lists the attributes the component reads. A prop declared as
// "myTitle" or "my-title" is bound by the :my-title attribute and exposed
// as c.Prop("myTitle"). Triggers lists signal names the host listens for so
// children can call methods on it through the event bridge.
type Definition struct {
	Name          string
	Template      TemplateFunc
	AsyncTemplate AsyncTemplateFunc
	Props         []string
	Data          map[string]any
	Methods       map[string]MethodFunc
	Triggers      []string
	Components    []Definition

	OnCreate    HookFunc
	PreRender   HookFunc
	PostRender  HookFunc
	PropsUpdate PropsUpdateFunc
}

// validate checks the name and that props are uniquely named.
func (d *Definition) validate() error {
	if !strings.Contains(d.Name, "-") || d.Name != strings.ToLower(d.Name) || strings.ContainsAny(d.Name, " \t\n<>\"'/=") {
		return fmt.Errorf("%w: %q must be lower-case and contain a hyphen", ErrInvalidName, d.Name)
	}
	seen := make(map[string]bool, len(d.Props))
	for _, p := range d.Props {
		field := propField(p)
		if field == "" {
			return fmt.Errorf("%w: %s has an empty prop name", ErrInvalidDefinition, d.Name)
		}
		if seen[field] {
			return fmt.Errorf("%w: %s declares prop %q twice", ErrInvalidDefinition, d.Name, field)
		}
		seen[field] = true
	}
	return nil
}

// clone copies the collections so later edits by the caller cannot reach a
// registered definition.
func (d Definition) clone() *Definition {
	d.Props = slices.Clone(d.Props)
	d.Data = maps.Clone(d.Data)
	d.Methods = maps.Clone(d.Methods)
	d.Triggers = slices.Clone(d.Triggers)
	d.Components = nil
	return &d
}

// propFields returns the declared props as field names, in order.
func (d *Definition) propFields() []string {
	out := make([]string, len(d.Props))
	for i, p := range d.Props {
		out[i] = propField(p)
	}
	return out
}

// declares reports whether field is a declared prop.
func (d *Definition) declares(field string) bool {
	for _, p := range d.Props {
		if propField(p) == field {
			return true
		}
	}
	return false
}

// ObservedAttributes returns the marked attribute names whose changes
// update props.
func (d *Definition) ObservedAttributes() []string {
	out := make([]string, len(d.Props))
	for i, p := range d.Props {
		out[i] = encoding.PropAttr(propField(p))
	}
	return out
}

// propField normalizes a declared prop (kebab or camel) to its field name.
func propField(declared string) string {
	if strings.Contains(declared, "-") {
		return encoding.Camel(declared)
	}
	return declared
}
