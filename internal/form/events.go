package form

import "slices"

// OnClick sets n's inline click handler. Inline handlers are copied by
// Clone, so a template button keeps working in every instance.
func (n *Node) OnClick(fn Handler) *Node {
	return n.setInline(EventClick, fn)
}

// OnBlur sets n's inline blur handler.
func (n *Node) OnBlur(fn Handler) *Node {
	return n.setInline(EventBlur, fn)
}

func (n *Node) setInline(ev Event, fn Handler) *Node {
	if n.inline == nil {
		n.inline = make(map[Event]Handler)
	}
	n.inline[ev] = fn
	return n
}

// On binds fn to ev for descendants of n matching selector. With an empty
// selector fn receives n itself for every event bubbling through it.
// Bindings are not copied by Clone.
func (n *Node) On(ev Event, selector string, fn Handler) *Node {
	n.bindings = append(n.bindings, binding{event: ev, selector: selector, fn: fn})
	return n
}

// Trigger dispatches ev at n and bubbles it to the root. Disabled nodes
// receive no events.
func (n *Node) Trigger(ev Event) {
	if n.Disabled {
		return
	}
	var path []*Node
	for cur := n; cur != nil; cur = cur.parent {
		path = append(path, cur)
	}
	for i, cur := range path {
		if h := cur.inline[ev]; h != nil {
			h(cur)
		}
		for _, b := range slices.Clone(cur.bindings) {
			if b.event != ev {
				continue
			}
			if b.selector == "" {
				b.fn(cur)
				continue
			}
			for _, m := range path[:i] {
				if m.Matches(b.selector) {
					b.fn(m)
					break
				}
			}
		}
	}
}
