package rhtml

import (
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBind(t *testing.T) {
	attrs := Bind("myTitle", map[string]any{"a": 1})
	assert.Equal(t, templ.Attributes{":my-title": "urienc%7B%22a%22%3A1%7D"}, attrs)

	assert.Equal(t, templ.Attributes{"@click": "save"}, On("click", "save"))
}

func TestAttrStrings(t *testing.T) {
	assert.Equal(t, `:count="urienc3"`, BindAttr("count", 3))
	assert.Equal(t, `@click="a&amp;b"`, OnAttr("click", "a&b"))
}

func TestBindings(t *testing.T) {
	h := NewTestHarness()
	nodes, err := h.Doc.ParseFragment(`<x-y :user-name="uriencAda%20L" @saved="onSaved" class="c" :n="4"></x-y>`)
	require.NoError(t, err)

	got := Bindings(nodes[0])
	require.Len(t, got, 3)

	assert.Equal(t, Binding{Kind: PropBinding, Attr: ":user-name", Name: "userName", Raw: "uriencAda%20L", Value: "Ada L"}, got[0])
	assert.Equal(t, Binding{Kind: ActionBinding, Attr: "@saved", Name: "saved", Raw: "onSaved", Value: "onSaved"}, got[1])
	assert.Equal(t, float64(4), got[2].Value)
}

func TestBindRoundTripThroughInstance(t *testing.T) {
	h := NewTestHarness()
	h.Registry.MustDefine(Definition{
		Name:     "tag-list",
		Props:    []string{"tags"},
		Template: Static(`<ul></ul>`),
	})

	el := h.Doc.CreateElement("tag-list")
	for name, value := range Bind("tags", []string{"a", "b c"}) {
		el.SetAttribute(name, value.(string))
	}
	result, err := h.MountNode(el)
	require.NoError(t, err)

	assert.Equal(t, []any{"a", "b c"}, result.Instance.Prop("tags"))
}
