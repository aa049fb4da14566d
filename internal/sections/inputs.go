package sections

import (
	"sort"

	"github.com/antonkast-google/ord-editor/internal/form"
	"github.com/antonkast-google/ord-editor/internal/models"
)

const (
	inputTemplate     = "input_template"
	componentTemplate = "component_template"
)

// Inputs edits the keyed input map and keeps the sidebar entry per input.
type Inputs struct {
	base
	root *form.Node
	nav  *form.Node
}

func newInputs(b base, nav *form.Node) (*Inputs, *form.Node) {
	s := &Inputs{base: b, root: form.Div("inputs").WithID("inputs"), nav: nav}
	b.doc.DefineTemplate(inputTemplate, form.Div("input", "section").Append(
		removeButton(b, "input"),
		form.Validation("", func(n *form.Node) { s.Validate(n.Closest("input")) }),
		form.EditText("input_name").OnBlur(func(*form.Node) { s.UpdateSidebar() }),
	).Append(s.fields()...))
	b.doc.DefineTemplate(componentTemplate, form.Div("component").Append(
		removeButton(b, "component"),
		form.Validation("", func(n *form.Node) { s.ValidateComponent(n.Closest("component")) }),
		form.Selector("component_reaction_role", models.EnumReactionRole),
		form.OptionalBool("component_limiting"),
		form.Div("component_identifiers"),
		form.Button("add", "add identifier", func(n *form.Node) {
			if c := n.Closest("component"); c != nil {
				addCompoundIdentifier(b, c.First("component_identifiers"))
			}
		}),
		form.MetricGroup("amount_mass", models.EnumMassUnit),
		form.MetricGroup("amount_moles", models.EnumMolesUnit),
		form.MetricGroup("amount_volume", models.EnumVolumeUnit),
		form.OptionalBool("amount_volume_includes_solutes"),
	))
	node := section("section_inputs", "inputs", nil,
		s.root,
		form.Button("add", "add input", func(*form.Node) { s.Add() }),
	)
	return s, node
}

// fields are the input body shared by reaction inputs and workup inputs.
func (s *Inputs) fields() []*form.Node {
	return []*form.Node{
		form.Div("input_components"),
		form.Button("add", "add component", func(n *form.Node) {
			if in := n.Closest("input"); in != nil {
				s.AddComponent(in)
			}
		}),
		form.IntegerText("input_addition_order"),
		form.MetricGroup("input_addition_time", models.EnumTimeUnit),
		form.MetricGroup("input_addition_duration", models.EnumTimeUnit),
		form.MetricGroup("input_addition_temperature", models.EnumTemperatureUnit),
	}
}

// workupInput builds the input fragment embedded in a workup.
func (s *Inputs) workupInput() *form.Node {
	return form.Div("input", "section", "workup_input").Append(s.fields()...)
}

// Add appends an empty input entry.
func (s *Inputs) Add() *form.Node {
	node := s.host.AddSlowly(inputTemplate, s.root)
	s.host.AddChangeHandler(node, func() { s.Validate(node) })
	s.UpdateSidebar()
	return node
}

// AddComponent appends an empty component to the input at in.
func (s *Inputs) AddComponent(in *form.Node) *form.Node {
	c := s.host.AddSlowly(componentTemplate, in.First("input_components"))
	s.host.AddChangeHandler(c, func() { s.ValidateComponent(c) })
	return c
}

// Load adds one entry per input, ordered by name.
func (s *Inputs) Load(inputs map[string]*models.ReactionInput) {
	names := make([]string, 0, len(inputs))
	for name := range inputs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		node := s.Add()
		s.loadInput(node, name, inputs[name])
	}
	s.UpdateSidebar()
}

func (s *Inputs) loadInput(node *form.Node, name string, in *models.ReactionInput) {
	setText(node, "input_name", name)
	if in == nil {
		return
	}
	for _, c := range in.Components {
		s.loadComponent(s.AddComponent(node), c)
	}
	setInteger(node, "input_addition_order", in.AdditionOrder)
	form.WriteMetric("input_addition_time", in.AdditionTime, node)
	form.WriteMetric("input_addition_duration", in.AdditionDuration, node)
	form.WriteMetric("input_addition_temperature", in.AdditionTemperature, node)
}

func (s *Inputs) loadComponent(node *form.Node, c *models.Compound) {
	setSelector(node, "component_reaction_role", int32(c.ReactionRole))
	setOptionalBool(node, "component_limiting", c.IsLimiting)
	loadCompoundIdentifiers(s.base, node.First("component_identifiers"), c.Identifiers)
	if a := c.Amount; a != nil {
		form.WriteMetric("amount_mass", a.Mass, node)
		form.WriteMetric("amount_moles", a.Moles, node)
		form.WriteMetric("amount_volume", a.Volume, node)
		setOptionalBool(node, "amount_volume_includes_solutes", a.VolumeIncludesSolutes)
	}
}

// Unload collects every live input. Entries with neither a name nor any
// content are dropped.
func (s *Inputs) Unload() map[string]*models.ReactionInput {
	out := make(map[string]*models.ReactionInput)
	for _, node := range s.root.FindLive("input") {
		name := text(node, "input_name")
		in := unloadInput(node)
		if name != "" || !models.IsEmptyMessage(in) {
			out[name] = in
		}
	}
	return out
}

func unloadInput(node *form.Node) *models.ReactionInput {
	in := &models.ReactionInput{
		AdditionOrder:       integer(node, "input_addition_order"),
		AdditionTime:        attach(form.ReadMetric("input_addition_time", &models.Time{}, node)),
		AdditionDuration:    attach(form.ReadMetric("input_addition_duration", &models.Time{}, node)),
		AdditionTemperature: attach(form.ReadMetric("input_addition_temperature", &models.Temperature{}, node)),
	}
	for _, c := range node.FindLive("component") {
		if comp := unloadComponent(c); !models.IsEmptyMessage(comp) {
			in.Components = append(in.Components, comp)
		}
	}
	return in
}

func unloadComponent(node *form.Node) *models.Compound {
	amount := &models.Amount{
		Mass:                  attach(form.ReadMetric("amount_mass", &models.Mass{}, node)),
		Moles:                 attach(form.ReadMetric("amount_moles", &models.Moles{}, node)),
		Volume:                attach(form.ReadMetric("amount_volume", &models.Volume{}, node)),
		VolumeIncludesSolutes: optionalBool(node, "amount_volume_includes_solutes"),
	}
	return &models.Compound{
		Identifiers:  unloadCompoundIdentifiers(node),
		Amount:       attach(amount),
		ReactionRole: models.ReactionRole(selector(node, "component_reaction_role")),
		IsLimiting:   optionalBool(node, "component_limiting"),
	}
}

// Validate submits the input entry at node.
func (s *Inputs) Validate(node *form.Node) {
	if node == nil {
		return
	}
	s.host.Validate(unloadInput(node), "ReactionInput", node, nil)
}

// ValidateComponent submits the component at node.
func (s *Inputs) ValidateComponent(node *form.Node) {
	if node == nil {
		return
	}
	s.host.Validate(unloadComponent(node), "Compound", node, nil)
}

// UpdateSidebar rebuilds the per-input navigation entries and refreshes
// the observer.
func (s *Inputs) UpdateSidebar() {
	s.nav.Empty()
	for _, node := range s.root.FindLive("input") {
		name := text(node, "input_name")
		node.SetAttr("input_name", name)
		s.nav.Append(form.Div("inputNavSection").SetAttr("input_name", name).SetText(name))
	}
	s.host.UpdateObserver()
}
