package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/rhtml/lib/loop"
)

type recordingLifecycle struct {
	connected    []string
	disconnected []string
	attrs        []string
}

func (r *recordingLifecycle) Connected(n *Node)    { r.connected = append(r.connected, n.Tag) }
func (r *recordingLifecycle) Disconnected(n *Node) { r.disconnected = append(r.disconnected, n.Tag) }
func (r *recordingLifecycle) AttributeChanged(n *Node, name, oldValue, newValue string) {
	r.attrs = append(r.attrs, name+":"+oldValue+"->"+newValue)
}

func newDoc() (*loop.Loop, *Document) {
	l := loop.New()
	return l, NewDocument(l)
}

func TestParseAndRender(t *testing.T) {
	_, doc := newDoc()
	nodes, err := doc.ParseFragment(`<div class="a"><h2 :title="x" @click="go">Hi</h2></div>text`)
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	div := nodes[0]
	assert.Equal(t, "div", div.Tag)
	h2 := div.FirstChild()
	assert.Equal(t, []string{":title", "@click"}, h2.AttributeNames())
	assert.Equal(t, "Hi", h2.TextContent())
	assert.Equal(t, TextNode, nodes[1].Type)

	assert.Equal(t, `<div class="a"><h2 :title="x" @click="go">Hi</h2></div>`, Render(div))
}

func TestRenderShadowRoot(t *testing.T) {
	_, doc := newDoc()
	host := doc.CreateElement("my-widget")
	shadow := host.AttachShadow()
	shadow.AppendChild(doc.CreateElement("p"))

	assert.Equal(t, `<my-widget><template shadowrootmode="open"><p></p></template></my-widget>`, Render(host))
	assert.Equal(t, `<p></p>`, InnerHTML(shadow))
}

func TestLifecycleConnectShadowIncluding(t *testing.T) {
	_, doc := newDoc()
	lc := &recordingLifecycle{}
	doc.SetLifecycle(lc)

	outer := doc.CreateElement("outer-el")
	inner := doc.CreateElement("inner-el")
	outer.AttachShadow().AppendChild(inner)
	assert.Empty(t, lc.connected, "detached trees do not connect")

	doc.Body().AppendChild(outer)
	assert.Equal(t, []string{"outer-el", "inner-el"}, lc.connected)
	assert.True(t, inner.IsConnected())

	outer.Remove()
	assert.Equal(t, []string{"outer-el", "inner-el"}, lc.disconnected)
	assert.False(t, inner.IsConnected())
}

func TestAttributeChangesReachLifecycle(t *testing.T) {
	_, doc := newDoc()
	lc := &recordingLifecycle{}
	doc.SetLifecycle(lc)

	el := doc.CreateElement("div")
	el.SetAttribute("Title", "a")
	el.SetAttribute("title", "b")
	el.RemoveAttribute("title")
	el.RemoveAttribute("missing")

	assert.Equal(t, []string{"title:->a", "title:a->b", "title:b->"}, lc.attrs)
}

func TestObserverBatchesChildListChanges(t *testing.T) {
	l, doc := newDoc()
	root := doc.CreateElement("div")
	doc.Body().AppendChild(root)

	var batches [][]MutationRecord
	o := doc.Observe(root, func(records []MutationRecord) { batches = append(batches, records) })

	child := doc.CreateElement("span")
	root.AppendChild(child)
	child.AppendChild(doc.CreateText("x"))
	child.SetAttribute("class", "ignored")
	assert.Empty(t, batches, "delivery is deferred")

	l.RunUntilIdle()
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 2)

	o.Disconnect()
	root.AppendChild(doc.CreateElement("p"))
	l.RunUntilIdle()
	assert.Len(t, batches, 1)
}

func TestObserverIgnoresNestedShadowRoots(t *testing.T) {
	l, doc := newDoc()
	root := doc.CreateElement("div")
	host := doc.CreateElement("x-child")
	root.AppendChild(host)
	inner := host.AttachShadow()

	calls := 0
	doc.Observe(root, func([]MutationRecord) { calls++ })
	inner.AppendChild(doc.CreateElement("p"))
	l.RunUntilIdle()

	assert.Zero(t, calls)
}

func TestDispatchBubblesAndCrossesBoundaries(t *testing.T) {
	_, doc := newDoc()
	host := doc.CreateElement("x-host")
	doc.Body().AppendChild(host)
	button := doc.CreateElement("button")
	host.AttachShadow().AppendChild(button)

	var seen []string
	record := func(name string) *Listener {
		return NewListener(func(e *Event) { seen = append(seen, name+":"+e.Type) })
	}
	button.AddEventListener("click", record("button"))
	host.AddEventListener("click", record("host"))
	host.AddEventListener("saved", record("host"))

	button.Dispatch(NewEvent("click"))
	assert.Equal(t, []string{"button:click"}, seen, "non-composed events stop at the shadow root")

	seen = nil
	button.Dispatch(NewCustomEvent("saved", 1))
	assert.Equal(t, []string{"host:saved"}, seen)
}

func TestStopPropagation(t *testing.T) {
	_, doc := newDoc()
	parent := doc.CreateElement("div")
	child := doc.CreateElement("span")
	parent.AppendChild(child)

	parentCalls := 0
	parent.AddEventListener("ping", NewListener(func(*Event) { parentCalls++ }))
	child.AddEventListener("ping", NewListener(func(e *Event) { e.StopPropagation() }))

	child.Dispatch(NewEvent("ping"))
	assert.Zero(t, parentCalls)
}

func TestAddEventListenerIsIdempotent(t *testing.T) {
	_, doc := newDoc()
	el := doc.CreateElement("div")
	l := NewListener(func(*Event) {})

	el.AddEventListener("click", l)
	el.AddEventListener("click", l)
	assert.Equal(t, 1, el.ListenerCount("click"))

	el.RemoveEventListener("click", l)
	assert.Zero(t, el.ListenerCount("click"))
}

func TestCollectTags(t *testing.T) {
	_, doc := newDoc()
	nodes, err := doc.ParseFragment(`<div><a-b></a-b><a-b></a-b><p><c-d></c-d></p></div>`)
	require.NoError(t, err)
	root := nodes[0]
	ab := root.FirstChild()
	ab.AttachShadow().AppendChild(doc.CreateElement("e-f"))

	assert.Equal(t, []string{"a-b", "e-f", "c-d"}, CollectTags(root, DescendAll))
	assert.Equal(t, []string{"a-b", "c-d"}, CollectTags(root, func(*Node) bool { return false }))
}

func TestQueryAllCrossesShadowRoots(t *testing.T) {
	_, doc := newDoc()
	host := doc.CreateElement("x-host")
	doc.Body().AppendChild(host)
	input := doc.CreateElement("input")
	host.AttachShadow().AppendChild(input)

	assert.Same(t, input, Query(doc.Root(), ByTag("input")))
	assert.Nil(t, Query(doc.Root(), ByTag("textarea")))
}
