package rhtml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/rhtml/lib/dom"
)

type bridgeFixture struct {
	h      *TestHarness
	parent *Instance
	child  *Instance
	calls  []Call
}

// newBridgeFixture mounts a todo-list whose template binds childBinding on
// a todo-item.
func newBridgeFixture(t *testing.T, childBinding string) *bridgeFixture {
	t.Helper()
	f := &bridgeFixture{h: NewTestHarness(sequentialIDs())}
	f.h.Registry.MustDefine(Definition{
		Name:     "todo-list",
		Triggers: []string{"saved"},
		Template: Static(`<todo-item ` + childBinding + ` ` + BindAttr("title", "Milk") + `></todo-item>`),
		Methods: map[string]MethodFunc{
			"onSaved": func(_ *Instance, call Call) { f.calls = append(f.calls, call) },
		},
		Components: []Definition{{
			Name:     "todo-item",
			Props:    []string{"title"},
			Template: Static(`<span>item</span>`),
		}},
	})
	f.h.Capture("saved")

	result, err := f.h.Mount("todo-list", nil)
	require.NoError(t, err)
	f.parent = result.Instance

	var ok bool
	f.child, ok = f.h.Registry.InstanceOf(f.parent.Query(dom.ByTag("todo-item")))
	require.True(t, ok)
	return f
}

func TestBridge_BoundSignalRunsParentMethod(t *testing.T) {
	f := newBridgeFixture(t, `@saved="onSaved"`)

	f.child.Emit("saved", "payload")

	require.Len(t, f.calls, 1)
	call := f.calls[0]
	assert.Equal(t, "payload", call.Data)
	assert.Equal(t, f.child.ID(), call.Caller)
	assert.Equal(t, map[string]any{"title": "Milk", CallerKey: f.child.ID()}, call.Props)
	assert.True(t, call.Event.Stopped())
	assert.Empty(t, f.h.Signals(), "propagation stops at the handling ancestor")

	// the sender's own props are untouched
	assert.NotContains(t, f.child.Props(), CallerKey)
}

func TestBridge_UnboundSignalIsIgnored(t *testing.T) {
	f := newBridgeFixture(t, ``)

	f.child.Emit("saved", "payload")

	assert.Empty(t, f.calls)
	signals := f.h.Signals()
	require.Len(t, signals, 1)
	assert.Equal(t, f.child.ID(), signals[0].Envelope.Origin)
	assert.Empty(t, signals[0].Envelope.Handler)
}

func TestBridge_UnknownHandlerDoesNotStop(t *testing.T) {
	f := newBridgeFixture(t, `@saved="missing"`)

	f.child.Emit("saved", nil)

	assert.Empty(t, f.calls)
	require.Len(t, f.h.Signals(), 1)
	assert.Equal(t, "missing", f.h.Signals()[0].Envelope.Handler)
}

func TestBridge_IgnoresOwnSignal(t *testing.T) {
	h := NewTestHarness()
	var calls int
	h.Registry.MustDefine(Definition{
		Name:     "echo-box",
		Triggers: []string{"ping"},
		Template: Static(`<i></i>`),
		Methods:  map[string]MethodFunc{"onPing": func(*Instance, Call) { calls++ }},
	})
	h.Capture("ping")

	result, err := h.Mount("echo-box", map[string]string{"@ping": "onPing"})
	require.NoError(t, err)

	result.Instance.Emit("ping", 1)

	assert.Zero(t, calls)
	assert.Len(t, h.Signals(), 1)
}

func TestBridge_NestedAncestorHandles(t *testing.T) {
	h := NewTestHarness()
	var got []string
	h.Registry.MustDefine(Definition{Name: "leaf-node", Template: Static(`<b></b>`)})
	h.Registry.MustDefine(Definition{
		Name:     "mid-node",
		Template: Static(`<leaf-node @changed="onChanged"></leaf-node>`),
	})
	h.Registry.MustDefine(Definition{
		Name:     "top-node",
		Triggers: []string{"changed"},
		Template: Static(`<mid-node></mid-node>`),
		Methods: map[string]MethodFunc{
			"onChanged": func(_ *Instance, call Call) { got = append(got, call.Data.(string)) },
		},
	})

	result, err := h.Mount("top-node", nil)
	require.NoError(t, err)

	leaf, ok := h.Registry.InstanceOf(result.Instance.Query(dom.ByTag("leaf-node")))
	require.True(t, ok)
	leaf.Emit("changed", "deep")

	assert.Equal(t, []string{"deep"}, got)
}

func TestEnvelope_Pack(t *testing.T) {
	env := Envelope{
		Origin:  "c1",
		Data:    "hello",
		Handler: "onSaved",
		Props:   map[string]any{"title": "Milk"},
	}

	data, err := env.Pack()
	require.NoError(t, err)

	got, err := UnpackEnvelope(data)
	require.NoError(t, err)
	assert.Equal(t, env, got)

	_, err = UnpackEnvelope([]byte{0xc1})
	assert.Error(t, err)
}

func TestEnvelopeOf(t *testing.T) {
	env := Envelope{Origin: "x"}

	got, ok := envelopeOf(env)
	assert.True(t, ok)
	assert.Equal(t, "x", got.Origin)

	got, ok = envelopeOf(&env)
	assert.True(t, ok)
	assert.Equal(t, "x", got.Origin)

	_, ok = envelopeOf((*Envelope)(nil))
	assert.False(t, ok)
	_, ok = envelopeOf("nope")
	assert.False(t, ok)
}
