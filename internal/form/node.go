// Package form is a headless model of the reaction editor's UI tree.
//
// A Node is an element with classes, attributes, text and children. Every
// fragment carries an explicit State: templates are never part of the live
// document, and a fragment removed by the user stays in the tree as
// PendingUndo until the undo buffer is replaced.
package form

import (
	"slices"
	"strings"
)

// State tags a fragment as live, template or pending undo.
type State int

const (
	Live State = iota
	Template
	PendingUndo
)

func (s State) String() string {
	switch s {
	case Template:
		return "template"
	case PendingUndo:
		return "pending-undo"
	default:
		return "live"
	}
}

// Event names dispatched through the tree.
type Event string

const (
	EventBlur   Event = "blur"
	EventChange Event = "change"
	EventClick  Event = "click"
)

// Handler receives the node an event matched.
type Handler func(n *Node)

type binding struct {
	event    Event
	selector string
	fn       Handler
}

// Option is one entry of a select element.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Node is an element of the UI tree.
type Node struct {
	Tag      string
	ID       string
	State    State
	Hidden   bool
	Editable bool
	Disabled bool
	Options  []*Option

	text     string
	classes  []string
	attrs    map[string]string
	parent   *Node
	children []*Node

	// inline handlers travel with clones; delegated bindings do not.
	inline   map[Event]Handler
	bindings []binding
}

// New creates a detached live node.
func New(tag string, classes ...string) *Node {
	return &Node{Tag: tag, classes: slices.Clone(classes)}
}

func (n *Node) Text() string { return n.text }

func (n *Node) SetText(s string) *Node {
	n.text = s
	return n
}

func (n *Node) Classes() []string { return slices.Clone(n.classes) }

// FirstClass returns the node's leading class, which names the field.
func (n *Node) FirstClass() string {
	if len(n.classes) == 0 {
		return ""
	}
	return n.classes[0]
}

func (n *Node) HasClass(c string) bool { return slices.Contains(n.classes, c) }

func (n *Node) AddClass(c string) *Node {
	if !n.HasClass(c) {
		n.classes = append(n.classes, c)
	}
	return n
}

func (n *Node) RemoveClass(c string) *Node {
	n.classes = slices.DeleteFunc(n.classes, func(x string) bool { return x == c })
	return n
}

func (n *Node) Attr(key string) string { return n.attrs[key] }

func (n *Node) HasAttr(key string) bool {
	_, ok := n.attrs[key]
	return ok
}

func (n *Node) SetAttr(key, value string) *Node {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[key] = value
	return n
}

func (n *Node) RemoveAttr(key string) *Node {
	delete(n.attrs, key)
	return n
}

func (n *Node) WithID(id string) *Node {
	n.ID = id
	return n
}

func (n *Node) Parent() *Node { return n.parent }

func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// Matches reports whether selector names one of n's classes or its tag.
func (n *Node) Matches(selector string) bool {
	return n.HasClass(selector) || n.Tag == selector
}

// Append attaches children at the end of n, detaching them from any
// previous parent.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		if c == nil {
			continue
		}
		c.Remove()
		c.parent = n
		n.children = append(n.children, c)
	}
	return n
}

// InsertAfter places sib immediately after n under n's parent.
func (n *Node) InsertAfter(sib *Node) {
	p := n.parent
	if p == nil {
		return
	}
	sib.Remove()
	i := slices.Index(p.children, n)
	p.children = slices.Insert(p.children, i+1, sib)
	sib.parent = p
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	p := n.parent
	if p == nil {
		return
	}
	p.children = slices.DeleteFunc(p.children, func(c *Node) bool { return c == n })
	n.parent = nil
}

// Empty detaches every child of n.
func (n *Node) Empty() *Node {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
	return n
}

// Attached reports whether n is reachable from root.
func (n *Node) Attached(root *Node) bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur == root {
			return true
		}
	}
	return false
}

// Clone deep-copies n. The copy is detached, keeps inline handlers and
// drops delegated bindings.
func (n *Node) Clone() *Node {
	c := &Node{
		Tag:      n.Tag,
		ID:       n.ID,
		State:    n.State,
		Hidden:   n.Hidden,
		Editable: n.Editable,
		Disabled: n.Disabled,
		text:     n.text,
		classes:  slices.Clone(n.classes),
	}
	for _, o := range n.Options {
		cp := *o
		c.Options = append(c.Options, &cp)
	}
	if n.attrs != nil {
		c.attrs = make(map[string]string, len(n.attrs))
		for k, v := range n.attrs {
			c.attrs[k] = v
		}
	}
	if n.inline != nil {
		c.inline = make(map[Event]Handler, len(n.inline))
		for k, v := range n.inline {
			c.inline[k] = v
		}
	}
	for _, ch := range n.children {
		cc := ch.Clone()
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c
}

// Walk visits n and its descendants in document order. Returning false
// from fn skips the node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range slices.Clone(n.children) {
		c.Walk(fn)
	}
}

// Find returns every descendant of n (excluding n) matching selector.
func (n *Node) Find(selector string) []*Node {
	var out []*Node
	for _, c := range n.children {
		c.Walk(func(x *Node) bool {
			if x.Matches(selector) {
				out = append(out, x)
			}
			return true
		})
	}
	return out
}

// FindLive is Find restricted to live fragments: subtrees of template or
// pending-undo nodes are skipped entirely.
func (n *Node) FindLive(selector string) []*Node {
	var out []*Node
	for _, c := range n.children {
		c.Walk(func(x *Node) bool {
			if !x.IsLive() {
				return false
			}
			if x.Matches(selector) {
				out = append(out, x)
			}
			return true
		})
	}
	return out
}

// First returns the first descendant matching selector, or nil.
func (n *Node) First(selector string) *Node {
	var found *Node
	for _, c := range n.children {
		c.Walk(func(x *Node) bool {
			if found != nil {
				return false
			}
			if x.Matches(selector) {
				found = x
				return false
			}
			return true
		})
		if found != nil {
			break
		}
	}
	return found
}

// ByID searches n and its descendants for the node with id.
func (n *Node) ByID(id string) *Node {
	var found *Node
	n.Walk(func(x *Node) bool {
		if found != nil {
			return false
		}
		if x.ID == id {
			found = x
			return false
		}
		return true
	})
	return found
}

// Closest returns n or its nearest ancestor matching selector.
func (n *Node) Closest(selector string) *Node {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.Matches(selector) {
			return cur
		}
	}
	return nil
}

// Parents returns the ancestors of n matching selector, nearest first.
func (n *Node) Parents(selector string) []*Node {
	var out []*Node
	for cur := n.parent; cur != nil; cur = cur.parent {
		if cur.Matches(selector) {
			out = append(out, cur)
		}
	}
	return out
}

// ChildrenMatching returns direct children of n matching selector.
func (n *Node) ChildrenMatching(selector string) []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.Matches(selector) {
			out = append(out, c)
		}
	}
	return out
}

// IsLive reports whether n is neither a template nor an undo-pending ghost.
func (n *Node) IsLive() bool { return n.State == Live }

// Visible reports whether n and all its ancestors are shown and live.
func (n *Node) Visible() bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.Hidden || !cur.IsLive() {
			return false
		}
	}
	return true
}

// String renders a compact selector-like description for logs.
func (n *Node) String() string {
	var b strings.Builder
	b.WriteString(n.Tag)
	if n.ID != "" {
		b.WriteString("#" + n.ID)
	}
	for _, c := range n.classes {
		b.WriteString("." + c)
	}
	return b.String()
}
