package rhtml

import (
	"maps"
	"slices"
	"strings"

	"github.com/pthm/rhtml/lib/dom"
	"github.com/pthm/rhtml/lib/loop"
)

// TestHarness wires a loop, a document and a registry for tests.
//
//	h := rhtml.NewTestHarness()
//	h.Registry.MustDefine(counter)
//	result, err := h.Mount("click-counter", map[string]string{":label": "Clicks"})
//	if !result.HTMLContains("Clicks: 0") {
//	    t.Fatal("missing initial render")
//	}
type TestHarness struct {
	Loop     *loop.Loop
	Doc      *dom.Document
	Registry *Registry

	signals []CapturedSignal
	capture map[string]*dom.Listener
}

// CapturedSignal is an envelope that bubbled up to the document.
type CapturedSignal struct {
	Name     string
	Envelope Envelope
}

// NewTestHarness creates a harness with a fresh loop and document.
func NewTestHarness(opts ...Option) *TestHarness {
	l := loop.New()
	doc := dom.NewDocument(l)
	return &TestHarness{
		Loop:     l,
		Doc:      doc,
		Registry: NewRegistry(l, doc, opts...),
		capture:  make(map[string]*dom.Listener),
	}
}

// TestResult holds a mounted instance and its rendered markup.
type TestResult struct {
	Instance *Instance
	HTML     string
}

// Mount appends an element with attrs to the document body, runs the loop
// until idle and returns the resulting instance. Attributes are applied in
// sorted order so results are deterministic.
func (h *TestHarness) Mount(tag string, attrs map[string]string) (*TestResult, error) {
	el := h.Doc.CreateElement(tag)
	for _, name := range sortedKeys(attrs) {
		el.SetAttribute(name, attrs[name])
	}
	return h.MountNode(el)
}

// MountMarkup parses markup, appends it to the body and returns the first
// instance created for a top-level element.
func (h *TestHarness) MountMarkup(markup string) (*TestResult, error) {
	nodes, err := h.Doc.ParseFragment(markup)
	if err != nil {
		return nil, err
	}
	var first *dom.Node
	for _, n := range nodes {
		h.Doc.Body().AppendChild(n)
		if first == nil && n.Type == dom.ElementNode {
			first = n
		}
	}
	h.Flush()
	if first == nil {
		return nil, ErrNotDefined
	}
	c, ok := h.Registry.InstanceOf(first)
	if !ok {
		return nil, ErrNotDefined
	}
	return h.Result(c), nil
}

// MountNode appends el to the body and runs the loop until idle.
func (h *TestHarness) MountNode(el *dom.Node) (*TestResult, error) {
	h.Doc.Body().AppendChild(el)
	h.Flush()
	c, ok := h.Registry.InstanceOf(el)
	if !ok {
		return nil, ErrNotDefined
	}
	return h.Result(c), nil
}

// Flush runs the loop until nothing is pending.
func (h *TestHarness) Flush() {
	h.Loop.RunUntilIdle()
}

// Result snapshots the current markup of c.
func (h *TestHarness) Result(c *Instance) *TestResult {
	return &TestResult{Instance: c, HTML: HTML(c)}
}

// Capture records every envelope named name that reaches the document root.
func (h *TestHarness) Capture(name string) {
	if _, ok := h.capture[name]; ok {
		return
	}
	l := dom.NewListener(func(e *dom.Event) {
		if env, ok := envelopeOf(e.Detail); ok {
			h.signals = append(h.signals, CapturedSignal{Name: e.Type, Envelope: env})
		}
	})
	h.capture[name] = l
	h.Doc.Root().AddEventListener(name, l)
}

// Signals returns the captured envelopes in dispatch order.
func (h *TestHarness) Signals() []CapturedSignal {
	return append([]CapturedSignal(nil), h.signals...)
}

// HTMLContains checks if the HTML contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the HTML contains all the given substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// HTMLContainsAny checks if the HTML contains any of the given substrings.
func (r *TestResult) HTMLContainsAny(substrs ...string) bool {
	for _, s := range substrs {
		if strings.Contains(r.HTML, s) {
			return true
		}
	}
	return false
}

// Query finds an element in the instance's rendered content.
func (r *TestResult) Query(match func(*dom.Node) bool) *dom.Node {
	return r.Instance.Query(match)
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
