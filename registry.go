package rhtml

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pthm/rhtml/lib/dom"
	"github.com/pthm/rhtml/lib/loop"
)

// Constructor upgrades a host element into an instance of one definition.
// Hosts that already carry an instance return it unchanged.
type Constructor func(host *dom.Node) *Instance

// Registry maps tag names to definitions for one document and manages the
// instances living in it.
//
// A registry installs itself as the document's lifecycle receiver: defined
// elements are constructed when they join the tree and torn down when they
// leave. Registries are independent, so tests can run several side by side,
// each with its own loop and document.
//
// A Registry is not safe for concurrent use. Every method must be called
// from the loop goroutine, or before the loop starts running.
type Registry struct {
	defs      map[string]*Definition
	waiting   map[string]*loop.Future[struct{}]
	instances map[*dom.Node]*Instance

	loop  *loop.Loop
	doc   *dom.Document
	ctx   context.Context
	log   *zap.Logger
	parse ParseFunc
	newID func() string

	// OnError is called when a render keeps stale content because the
	// template or the markup failed. The default logs a warning.
	OnError func(c *Instance, err error)
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// WithParser replaces the markup parser.
func WithParser(p ParseFunc) Option {
	return func(r *Registry) { r.parse = p }
}

// WithIDGenerator replaces the origin identifier source. Identifiers must
// be unique per registry.
func WithIDGenerator(fn func() string) Option {
	return func(r *Registry) { r.newID = fn }
}

// WithContext sets the context passed to templates.
func WithContext(ctx context.Context) Option {
	return func(r *Registry) { r.ctx = ctx }
}

// NewRegistry creates a registry for doc, running on l.
func NewRegistry(l *loop.Loop, doc *dom.Document, opts ...Option) *Registry {
	reg := &Registry{
		defs:      make(map[string]*Definition),
		waiting:   make(map[string]*loop.Future[struct{}]),
		instances: make(map[*dom.Node]*Instance),
		loop:      l,
		doc:       doc,
		ctx:       context.Background(),
		log:       zap.NewNop(),
		parse: func(doc *dom.Document, markup string) ([]*dom.Node, error) {
			return doc.ParseFragment(markup)
		},
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(reg)
	}

	reg.OnError = func(c *Instance, err error) {
		c.log.Warn("render kept previous content", zap.Error(err))
	}

	doc.SetLifecycle(reg)
	return reg
}

// Loop returns the registry's loop.
func (reg *Registry) Loop() *loop.Loop { return reg.loop }

// Document returns the registry's document.
func (reg *Registry) Document() *dom.Document { return reg.doc }

// Define registers a definition and its nested Components. Connected
// elements already using the tag are upgraded immediately, and pending
// WhenDefined futures for it resolve.
//
// Define must be called from the loop goroutine or before the loop runs.
func (reg *Registry) Define(def Definition) (Constructor, error) {
	if err := reg.validateTree(&def); err != nil {
		return nil, err
	}
	if _, exists := reg.defs[def.Name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyDefined, def.Name)
	}

	for _, nested := range def.Components {
		if _, ok := reg.Lookup(nested.Name); ok {
			continue
		}
		if _, err := reg.Define(nested); err != nil {
			return nil, fmt.Errorf("%s: %w", def.Name, err)
		}
	}

	stored := def.clone()
	reg.defs[stored.Name] = stored
	waiting := reg.waiting[stored.Name]
	delete(reg.waiting, stored.Name)

	reg.log.Debug("component defined", zap.String("component", stored.Name))

	for _, host := range dom.QueryAll(reg.doc.Root(), dom.ByTag(stored.Name)) {
		if host.IsConnected() {
			reg.upgrade(host, stored)
		}
	}
	if waiting != nil {
		waiting.Resolve(struct{}{})
	}

	return func(host *dom.Node) *Instance {
		return reg.upgrade(host, stored)
	}, nil
}

// validateTree checks def and every nested definition not yet registered,
// so a failing Define leaves nothing behind.
func (reg *Registry) validateTree(def *Definition) error {
	if err := def.validate(); err != nil {
		return err
	}
	for i := range def.Components {
		nested := &def.Components[i]
		if _, ok := reg.defs[nested.Name]; ok {
			continue
		}
		if err := reg.validateTree(nested); err != nil {
			return fmt.Errorf("%s: %w", def.Name, err)
		}
	}
	return nil
}

// MustDefine is like Define but panics on error.
func (reg *Registry) MustDefine(def Definition) Constructor {
	ctor, err := reg.Define(def)
	if err != nil {
		panic(err)
	}
	return ctor
}

// Lookup returns the definition registered for tag.
func (reg *Registry) Lookup(tag string) (Definition, bool) {
	def, ok := reg.defs[tag]
	if !ok {
		return Definition{}, false
	}
	return *def, true
}

// WhenDefined returns a future that resolves once tag is defined.
func (reg *Registry) WhenDefined(tag string) *loop.Future[struct{}] {
	if _, ok := reg.defs[tag]; ok {
		return loop.Resolved(reg.loop, struct{}{})
	}
	f, ok := reg.waiting[tag]
	if !ok {
		f = loop.NewFuture[struct{}](reg.loop)
		reg.waiting[tag] = f
	}
	return f
}

// WhenReady resolves once every distinct custom tag under root, including
// inside shadow roots, is defined.
func (reg *Registry) WhenReady(root *dom.Node) *loop.Future[struct{}] {
	done := loop.NewFuture[struct{}](reg.loop)
	reg.whenAllDefined(dom.CollectTags(root, dom.DescendAll)).Then(func([]struct{}, error) {
		done.Resolve(struct{}{})
	})
	return done
}

func (reg *Registry) whenAllDefined(tags []string) *loop.Future[[]struct{}] {
	futures := make([]*loop.Future[struct{}], len(tags))
	for i, tag := range tags {
		futures[i] = reg.WhenDefined(tag)
	}
	return loop.All(reg.loop, futures)
}

// InstanceOf returns the live instance attached to host.
func (reg *Registry) InstanceOf(host *dom.Node) (*Instance, bool) {
	c, ok := reg.instances[host]
	return c, ok
}

// Len returns the number of live instances.
func (reg *Registry) Len() int { return len(reg.instances) }

func (reg *Registry) upgrade(host *dom.Node, def *Definition) *Instance {
	if c, ok := reg.instances[host]; ok {
		return c
	}
	return newInstance(reg, def, host)
}

func (reg *Registry) reportError(c *Instance, err error) {
	if reg.OnError != nil {
		reg.OnError(c, err)
	}
}

// Connected implements dom.Lifecycle.
func (reg *Registry) Connected(n *dom.Node) {
	if !dom.IsCustomTag(n.Tag) {
		return
	}
	def, ok := reg.defs[n.Tag]
	if ok {
		reg.upgrade(n, def)
	}
}

// Disconnected implements dom.Lifecycle. The instance is dropped so
// nothing keeps it alive once its element leaves the tree.
func (reg *Registry) Disconnected(n *dom.Node) {
	c, ok := reg.instances[n]
	if !ok {
		return
	}
	delete(reg.instances, n)
	c.Disconnect()
}

// AttributeChanged implements dom.Lifecycle.
func (reg *Registry) AttributeChanged(n *dom.Node, name, oldValue, newValue string) {
	c, ok := reg.instances[n]
	if !ok {
		return
	}
	c.attributeChanged(name, oldValue, newValue, n.HasAttribute(name))
}
