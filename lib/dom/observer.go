package dom

// MutationRecord describes one child-list change.
type MutationRecord struct {
	Target  *Node
	Added   []*Node
	Removed []*Node
}

// MutationObserver collects child-list changes under a root and delivers
// them in batches on the document scheduler.
type MutationObserver struct {
	doc      *Document
	root     *Node
	callback func([]MutationRecord)
	records  []MutationRecord
	queued   bool
	active   bool
}

// Observe watches root's subtree for added or removed children. Changes
// inside nested shadow roots are not reported, and attribute changes never
// are. Every record produced during one turn is delivered together.
func (d *Document) Observe(root *Node, callback func([]MutationRecord)) *MutationObserver {
	o := &MutationObserver{doc: d, root: root, callback: callback, active: true}
	d.observers = append(d.observers, o)
	return o
}

// Disconnect stops delivery and drops queued records.
func (o *MutationObserver) Disconnect() {
	if !o.active {
		return
	}
	o.active = false
	o.records = nil
	obs := o.doc.observers
	for i, cur := range obs {
		if cur == o {
			o.doc.observers = append(obs[:i], obs[i+1:]...)
			break
		}
	}
}

// Active reports whether the observer is still connected.
func (o *MutationObserver) Active() bool { return o.active }

func (d *Document) recordMutation(target *Node, added, removed []*Node) {
	if d == nil {
		return
	}
	for _, o := range d.observers {
		if !o.active || !within(target, o.root) {
			continue
		}
		o.records = append(o.records, MutationRecord{Target: target, Added: added, Removed: removed})
		if !o.queued {
			o.queued = true
			d.sched.QueueMicrotask(o.deliver)
		}
	}
}

func (o *MutationObserver) deliver() {
	o.queued = false
	records := o.records
	o.records = nil
	if o.active && len(records) > 0 {
		o.callback(records)
	}
}

// within reports whether n is root or a descendant of it inside the same
// tree; the walk stops at shadow roots instead of crossing into hosts.
func within(n, root *Node) bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur == root {
			return true
		}
	}
	return false
}
