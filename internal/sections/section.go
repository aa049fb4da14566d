// Package sections holds the sub-editors of the reaction form. Each one
// owns a part of the document, builds the templates its repeated entries
// are cloned from, and converts between its part of the tree and the
// matching record type.
package sections

import (
	"github.com/antonkast-google/ord-editor/internal/form"
	"github.com/antonkast-google/ord-editor/internal/models"
)

// Host is the engine the sub-editors drive. Every call happens on the
// engine's event loop.
type Host interface {
	// AddSlowly clones template under root and returns the wired fragment.
	AddSlowly(template string, root *form.Node) *form.Node
	// RemoveSlowly removes the closest ancestor of button matching
	// ancestor, keeping it recoverable through undo.
	RemoveSlowly(button *form.Node, ancestor string)
	// AddChangeHandler calls fn whenever a field under n changes.
	AddChangeHandler(n *form.Node, fn func())
	// Validate submits msg to the remote validator for typeName and renders
	// the result into target, or the first diagnostics target under scope.
	Validate(msg any, typeName string, scope, target *form.Node)
	// UpdateObserver refreshes the sidebar observer after layout changes.
	UpdateObserver()
}

type base struct {
	doc  *form.Document
	host Host
}

// Watch pairs a section node with the validation run on every change in it.
type Watch struct {
	Node     *form.Node
	Validate func()
}

// Singular is a sub-editor for an optional singular sub-record.
type Singular[T any] struct {
	base
	node     *form.Node
	typeName string
	load     func(scope *form.Node, v *T)
	unload   func(scope *form.Node) *T
}

func newSingular[T any](b base, node *form.Node, typeName string, load func(*form.Node, *T), unload func(*form.Node) *T) *Singular[T] {
	return &Singular[T]{base: b, node: node, typeName: typeName, load: load, unload: unload}
}

// Node returns the section's root.
func (s *Singular[T]) Node() *form.Node { return s.node }

// Load populates the section from v. A nil v leaves the defaults in place.
func (s *Singular[T]) Load(v *T) {
	if v == nil {
		return
	}
	s.load(s.node, v)
}

// Unload builds a fresh value from the section's fields.
func (s *Singular[T]) Unload() *T {
	return s.unload(s.node)
}

// Validate submits the section's current value.
func (s *Singular[T]) Validate() {
	s.host.Validate(s.Unload(), s.typeName, s.node, nil)
}

func (s *Singular[T]) watch() Watch {
	return Watch{Node: s.node, Validate: s.Validate}
}

// attach returns v unless it carries no information.
func attach[T any](v *T) *T {
	if models.IsEmptyMessage(v) {
		return nil
	}
	return v
}

func section(id, title string, validation *form.Node, body ...*form.Node) *form.Node {
	return form.Fieldset(id, title, validation, body...).AddClass("section")
}

func removeButton(b base, ancestor string) *form.Node {
	return form.Button("remove", "remove", func(n *form.Node) { b.host.RemoveSlowly(n, ancestor) })
}
