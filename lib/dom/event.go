package dom

// Event is dispatched through the tree by Node.Dispatch.
type Event struct {
	Type     string
	Detail   any
	Bubbles  bool
	Composed bool // crosses shadow boundaries while bubbling

	Target        *Node
	CurrentTarget *Node

	stopped bool
}

// NewEvent creates a bubbling event that stays inside its shadow tree,
// the way native input events such as click behave.
func NewEvent(typ string) *Event {
	return &Event{Type: typ, Bubbles: true}
}

// NewCustomEvent creates a bubbling, boundary-crossing event carrying detail.
func NewCustomEvent(typ string, detail any) *Event {
	return &Event{Type: typ, Detail: detail, Bubbles: true, Composed: true}
}

// StopPropagation prevents the event from reaching further nodes. Remaining
// listeners on the current node still run.
func (e *Event) StopPropagation() { e.stopped = true }

// Stopped reports whether StopPropagation was called.
func (e *Event) Stopped() bool { return e.stopped }

// Listener wraps an event callback. Listeners are identified by pointer,
// so keep the *Listener to remove it later.
type Listener struct {
	Handle func(*Event)
}

// NewListener wraps fn.
func NewListener(fn func(*Event)) *Listener {
	return &Listener{Handle: fn}
}

// AddEventListener registers l for typ. Adding the same listener twice is
// a no-op.
func (n *Node) AddEventListener(typ string, l *Listener) {
	if n.listeners == nil {
		n.listeners = make(map[string][]*Listener)
	}
	for _, existing := range n.listeners[typ] {
		if existing == l {
			return
		}
	}
	n.listeners[typ] = append(n.listeners[typ], l)
}

// RemoveEventListener unregisters l for typ.
func (n *Node) RemoveEventListener(typ string, l *Listener) {
	list := n.listeners[typ]
	for i, existing := range list {
		if existing == l {
			n.listeners[typ] = append(list[:i], list[i+1:]...)
			if len(n.listeners[typ]) == 0 {
				delete(n.listeners, typ)
			}
			return
		}
	}
}

// ListenerCount returns how many listeners are registered for typ.
func (n *Node) ListenerCount(typ string) int {
	return len(n.listeners[typ])
}

// Dispatch delivers e to n and, when e bubbles, to each ancestor. A shadow
// root hands the event to its host only when e is composed.
func (n *Node) Dispatch(e *Event) {
	e.Target = n
	for _, cur := range propagationPath(n, e) {
		e.CurrentTarget = cur
		list := cur.listeners[e.Type]
		if len(list) > 0 {
			snapshot := make([]*Listener, len(list))
			copy(snapshot, list)
			for _, l := range snapshot {
				l.Handle(e)
			}
		}
		if e.stopped {
			break
		}
	}
	e.CurrentTarget = nil
}

func propagationPath(n *Node, e *Event) []*Node {
	path := []*Node{n}
	if !e.Bubbles {
		return path
	}
	cur := n
	for {
		switch {
		case cur.parent != nil:
			cur = cur.parent
		case cur.Type == ShadowRootNode && e.Composed && cur.host != nil:
			cur = cur.host
		default:
			return path
		}
		path = append(path, cur)
	}
}
