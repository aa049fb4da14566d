package sections

import (
	"github.com/antonkast-google/ord-editor/internal/form"
	"github.com/antonkast-google/ord-editor/internal/models"
)

const (
	identifierTemplate         = "reaction_identifier_template"
	compoundIdentifierTemplate = "component_identifier_template"
)

// Identifiers edits the reaction's identifier list.
type Identifiers struct {
	base
	root *form.Node
}

func newIdentifiers(b base) (*Identifiers, *form.Node) {
	s := &Identifiers{base: b, root: form.Div("identifiers").WithID("identifiers")}
	b.doc.DefineTemplate(identifierTemplate, form.Div("identifier").Append(
		removeButton(b, "identifier"),
		form.Validation("", func(n *form.Node) { s.Validate(n.Closest("identifier")) }),
		form.Selector("identifier_type", models.EnumReactionIdentifierType),
		form.EditText("identifier_value"),
		form.EditText("identifier_details"),
	))
	node := section("section_identifiers", "identifiers", nil,
		s.root,
		form.Button("add", "add identifier", func(*form.Node) { s.Add() }),
	)
	return s, node
}

// Add appends an empty identifier entry.
func (s *Identifiers) Add() *form.Node {
	node := s.host.AddSlowly(identifierTemplate, s.root)
	s.host.AddChangeHandler(node, func() { s.Validate(node) })
	return node
}

func (s *Identifiers) Load(ids []*models.ReactionIdentifier) {
	for _, id := range ids {
		node := s.Add()
		setSelector(node, "identifier_type", int32(id.Type))
		setText(node, "identifier_value", id.Value)
		setText(node, "identifier_details", id.Details)
	}
}

func (s *Identifiers) Unload() []*models.ReactionIdentifier {
	var out []*models.ReactionIdentifier
	for _, node := range s.root.FindLive("identifier") {
		if id := unloadIdentifier(node); !models.IsEmptyMessage(id) {
			out = append(out, id)
		}
	}
	return out
}

func unloadIdentifier(node *form.Node) *models.ReactionIdentifier {
	return &models.ReactionIdentifier{
		Type:    models.ReactionIdentifierType(selector(node, "identifier_type")),
		Value:   text(node, "identifier_value"),
		Details: text(node, "identifier_details"),
	}
}

// Validate submits the identifier entry at node.
func (s *Identifiers) Validate(node *form.Node) {
	if node == nil {
		return
	}
	s.host.Validate(unloadIdentifier(node), "ReactionIdentifier", node, nil)
}

func defineCompoundIdentifier(b base) {
	b.doc.DefineTemplate(compoundIdentifierTemplate, form.Div("component_identifier").Append(
		removeButton(b, "component_identifier"),
		form.Selector("component_identifier_type", models.EnumCompoundIdentifierType),
		form.EditText("component_identifier_value"),
		form.EditText("component_identifier_details"),
	))
}

func addCompoundIdentifier(b base, root *form.Node) *form.Node {
	return b.host.AddSlowly(compoundIdentifierTemplate, root)
}

func loadCompoundIdentifiers(b base, root *form.Node, ids []*models.CompoundIdentifier) {
	for _, id := range ids {
		node := addCompoundIdentifier(b, root)
		setSelector(node, "component_identifier_type", int32(id.Type))
		setText(node, "component_identifier_value", id.Value)
		setText(node, "component_identifier_details", id.Details)
	}
}

func unloadCompoundIdentifiers(scope *form.Node) []*models.CompoundIdentifier {
	var out []*models.CompoundIdentifier
	for _, node := range scope.FindLive("component_identifier") {
		id := &models.CompoundIdentifier{
			Type:    models.CompoundIdentifierType(selector(node, "component_identifier_type")),
			Value:   text(node, "component_identifier_value"),
			Details: text(node, "component_identifier_details"),
		}
		if !models.IsEmptyMessage(id) {
			out = append(out, id)
		}
	}
	return out
}
