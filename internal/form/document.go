package form

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownTemplate is returned when instantiating an undefined template.
var ErrUnknownTemplate = errors.New("form: unknown template")

// Document is the live tree plus the templates fragments are cloned from.
// Templates are kept outside Body so they never show up in live queries.
type Document struct {
	Body      *Node
	templates map[string]*Node
}

func NewDocument() *Document {
	return &Document{
		Body:      New("body").WithID("body"),
		templates: make(map[string]*Node),
	}
}

// DefineTemplate registers n under name. The node is detached, tagged as a
// template and given name as its identity.
func (d *Document) DefineTemplate(name string, n *Node) *Node {
	n.Remove()
	n.ID = name
	n.State = Template
	d.templates[name] = n
	return n
}

// Template returns the registered template, or nil.
func (d *Document) Template(name string) *Node {
	return d.templates[name]
}

// Templates returns every template ordered by name.
func (d *Document) Templates() []*Node {
	names := make([]string, 0, len(d.templates))
	for k := range d.templates {
		names = append(names, k)
	}
	sort.Strings(names)
	out := make([]*Node, 0, len(names))
	for _, k := range names {
		out = append(out, d.templates[k])
	}
	return out
}

// Instantiate clones the named template into a detached live fragment with
// its identity stripped.
func (d *Document) Instantiate(name string) (*Node, error) {
	t, ok := d.templates[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	c := t.Clone()
	c.ID = ""
	c.State = Live
	return c, nil
}

// ByID finds a node in the live tree.
func (d *Document) ByID(id string) *Node {
	return d.Body.ByID(id)
}

// Find returns matching nodes from the live tree and every template.
func (d *Document) Find(selector string) []*Node {
	out := d.Body.Find(selector)
	for _, t := range d.Templates() {
		if t.Matches(selector) {
			out = append(out, t)
		}
		out = append(out, t.Find(selector)...)
	}
	return out
}
