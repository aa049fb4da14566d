package sections

import (
	"github.com/antonkast-google/ord-editor/internal/form"
	"github.com/antonkast-google/ord-editor/internal/models"
)

// Names of the top-level sections in document order.
var Names = []string{
	"identifiers", "inputs", "setup", "conditions", "notes",
	"observations", "workups", "outcomes", "provenance",
}

// Set is the full collection of sub-editors making up the reaction form.
type Set struct {
	Identifiers  *Identifiers
	Inputs       *Inputs
	Setup        *Singular[models.ReactionSetup]
	Conditions   *Conditions
	Notes        *Singular[models.ReactionNotes]
	Observations *Observations
	Workups      *Workups
	Outcomes     *Outcomes
	Provenance   *Provenance

	root *form.Node
}

// Provenance is the provenance sub-editor.
type Provenance = Singular[models.ReactionProvenance]

// Build lays out the navigation sidebar and every section under doc.Body
// and registers the templates of all repeated entries.
func Build(doc *form.Document, host Host) *Set {
	b := base{doc: doc, host: host}
	defineCompoundIdentifier(b)

	nav := form.Div("navigation").WithID("navigation")
	for _, name := range Names {
		nav.Append(form.Div("navSection").SetAttr("data-section", name).SetText(name))
	}
	navInputs := form.Div("nav_inputs").WithID("navInputs")
	nav.Append(navInputs)

	s := &Set{root: form.Div("sections").WithID("sections")}
	var identifiers, inputs, observations, workups, outcomes *form.Node
	s.Identifiers, identifiers = newIdentifiers(b)
	s.Inputs, inputs = newInputs(b, navInputs)
	s.Setup = newSetup(b)
	s.Conditions = newConditions(b)
	s.Notes = newNotes(b)
	s.Observations, observations = newObservations(b)
	s.Workups, workups = newWorkups(b, s.Inputs)
	s.Outcomes, outcomes = newOutcomes(b)
	s.Provenance = newProvenance(b)

	s.root.Append(
		identifiers,
		inputs,
		s.Setup.Node(),
		s.Conditions.Node(),
		s.Notes.Node(),
		observations,
		workups,
		outcomes,
		s.Provenance.Node(),
	)
	doc.Body.Append(nav, s.root)
	return s
}

// Root is the container of every section.
func (s *Set) Root() *form.Node { return s.root }

// Watches lists the sections that re-validate on every change inside them.
func (s *Set) Watches() []Watch {
	out := []Watch{s.Setup.watch()}
	out = append(out, s.Conditions.watches()...)
	return append(out, s.Notes.watch(), s.Provenance.watch())
}
