package sections

import (
	"sort"

	"github.com/antonkast-google/ord-editor/internal/form"
	"github.com/antonkast-google/ord-editor/internal/models"
)

const (
	observationTemplate = "observation_template"
	workupTemplate      = "workup_template"
	outcomeTemplate     = "outcome_template"
	productTemplate     = "outcome_product_template"
	analysisTemplate    = "outcome_analysis_template"
)

// Observations edits the observation list.
type Observations struct {
	base
	root *form.Node
}

func newObservations(b base) (*Observations, *form.Node) {
	s := &Observations{base: b, root: form.Div("observations").WithID("observations")}
	b.doc.DefineTemplate(observationTemplate, form.Div("observation").Append(
		removeButton(b, "observation"),
		form.Validation("", func(n *form.Node) { s.Validate(n.Closest("observation")) }),
		form.MetricGroup("observation_time", models.EnumTimeUnit),
		form.EditText("observation_comment"),
		form.EditText("observation_image_description"),
		form.EditText("observation_image_format"),
		form.EditText("observation_image_text"),
		form.EditText("observation_image_url"),
	))
	node := section("section_observations", "observations", nil,
		s.root,
		form.Button("add", "add observation", func(*form.Node) { s.Add() }),
	)
	return s, node
}

func (s *Observations) Add() *form.Node {
	node := s.host.AddSlowly(observationTemplate, s.root)
	s.host.AddChangeHandler(node, func() { s.Validate(node) })
	return node
}

func (s *Observations) Load(obs []*models.ReactionObservation) {
	for _, o := range obs {
		node := s.Add()
		form.WriteMetric("observation_time", o.Time, node)
		setText(node, "observation_comment", o.Comment)
		if img := o.Image; img != nil {
			setText(node, "observation_image_description", img.Description)
			setText(node, "observation_image_format", img.Format)
			if img.StringValue != nil {
				setText(node, "observation_image_text", *img.StringValue)
			}
			if img.URL != nil {
				setText(node, "observation_image_url", *img.URL)
			}
		}
	}
}

func (s *Observations) Unload() []*models.ReactionObservation {
	var out []*models.ReactionObservation
	for _, node := range s.root.FindLive("observation") {
		if o := unloadObservation(node); !models.IsEmptyMessage(o) {
			out = append(out, o)
		}
	}
	return out
}

func unloadObservation(node *form.Node) *models.ReactionObservation {
	img := &models.Data{
		Description: text(node, "observation_image_description"),
		Format:      text(node, "observation_image_format"),
	}
	models.SetString(&img.StringValue, text(node, "observation_image_text"))
	models.SetString(&img.URL, text(node, "observation_image_url"))
	return &models.ReactionObservation{
		Time:    attach(form.ReadMetric("observation_time", &models.Time{}, node)),
		Comment: text(node, "observation_comment"),
		Image:   attach(img),
	}
}

func (s *Observations) Validate(node *form.Node) {
	if node == nil {
		return
	}
	s.host.Validate(unloadObservation(node), "ReactionObservation", node, nil)
}

// Workups edits the workup list. Each workup embeds an input fragment
// managed through Inputs.
type Workups struct {
	base
	root   *form.Node
	inputs *Inputs
}

func newWorkups(b base, inputs *Inputs) (*Workups, *form.Node) {
	s := &Workups{base: b, root: form.Div("workups").WithID("workups"), inputs: inputs}
	body := []*form.Node{
		removeButton(b, "workup"),
		form.Validation("", func(n *form.Node) { s.Validate(n.Closest("workup")) }),
		form.Selector("workup_type", models.EnumWorkupType),
		form.EditText("workup_details"),
		form.MetricGroup("workup_duration", models.EnumTimeUnit),
		form.Div("workup_temperature").Append(temperatureFields("workup_temperature")...),
		form.EditText("workup_keep_phase"),
		form.Div("workup_stirring").Append(stirringFields("workup_stirring")...),
		form.FloatText("workup_target_ph"),
		form.OptionalBool("workup_automated"),
		inputs.workupInput(),
	}
	b.doc.DefineTemplate(workupTemplate, form.Div("workup").Append(body...))
	node := section("section_workups", "workups", nil,
		s.root,
		form.Button("add", "add workup", func(*form.Node) { s.Add() }),
	)
	return s, node
}

func (s *Workups) Add() *form.Node {
	node := s.host.AddSlowly(workupTemplate, s.root)
	s.host.AddChangeHandler(node, func() { s.Validate(node) })
	return node
}

func (s *Workups) Load(workups []*models.ReactionWorkup) {
	for _, w := range workups {
		node := s.Add()
		setSelector(node, "workup_type", int32(w.Type))
		setText(node, "workup_details", w.Details)
		form.WriteMetric("workup_duration", w.Duration, node)
		if w.Temperature != nil {
			loadTemperature("workup_temperature")(node, w.Temperature)
		}
		setText(node, "workup_keep_phase", w.KeepPhase)
		if w.Stirring != nil {
			loadStirring("workup_stirring")(node, w.Stirring)
		}
		setFloat(node, "workup_target_ph", w.TargetPH)
		setOptionalBool(node, "workup_automated", w.IsAutomated)
		if w.Input != nil {
			s.inputs.loadInput(node.First("workup_input"), "", w.Input)
		}
	}
}

func (s *Workups) Unload() []*models.ReactionWorkup {
	var out []*models.ReactionWorkup
	for _, node := range s.root.FindLive("workup") {
		if w := unloadWorkup(node); !models.IsEmptyMessage(w) {
			out = append(out, w)
		}
	}
	return out
}

func unloadWorkup(node *form.Node) *models.ReactionWorkup {
	w := &models.ReactionWorkup{
		Type:        models.WorkupType(selector(node, "workup_type")),
		Details:     text(node, "workup_details"),
		Duration:    attach(form.ReadMetric("workup_duration", &models.Time{}, node)),
		Temperature: attach(unloadTemperature("workup_temperature")(node)),
		KeepPhase:   text(node, "workup_keep_phase"),
		Stirring:    attach(unloadStirring("workup_stirring")(node)),
		TargetPH:    float(node, "workup_target_ph"),
		IsAutomated: optionalBool(node, "workup_automated"),
	}
	if in := node.First("workup_input"); in != nil {
		w.Input = attach(unloadInput(in))
	}
	return w
}

func (s *Workups) Validate(node *form.Node) {
	if node == nil {
		return
	}
	s.host.Validate(unloadWorkup(node), "ReactionWorkup", node, nil)
}

// Outcomes edits the outcome list with nested products and analyses.
type Outcomes struct {
	base
	root *form.Node
}

func newOutcomes(b base) (*Outcomes, *form.Node) {
	s := &Outcomes{base: b, root: form.Div("outcomes").WithID("outcomes")}
	b.doc.DefineTemplate(outcomeTemplate, form.Div("outcome").Append(
		removeButton(b, "outcome"),
		form.Validation("", func(n *form.Node) { s.Validate(n.Closest("outcome")) }),
		form.MetricGroup("outcome_time", models.EnumTimeUnit),
		form.MetricGroup("outcome_conversion", ""),
		form.Div("outcome_products"),
		form.Button("add", "add product", func(n *form.Node) {
			if o := n.Closest("outcome"); o != nil {
				s.AddProduct(o)
			}
		}),
		form.Div("outcome_analyses"),
		form.Button("add", "add analysis", func(n *form.Node) {
			if o := n.Closest("outcome"); o != nil {
				s.AddAnalysis(o)
			}
		}),
	))
	b.doc.DefineTemplate(productTemplate, form.Div("outcome_product").Append(
		removeButton(b, "outcome_product"),
		form.Validation("", func(n *form.Node) { s.ValidateProduct(n.Closest("outcome_product")) }),
		form.Div("outcome_product_identifiers"),
		form.Button("add", "add identifier", func(n *form.Node) {
			if p := n.Closest("outcome_product"); p != nil {
				addCompoundIdentifier(b, p.First("outcome_product_identifiers"))
			}
		}),
		form.OptionalBool("outcome_product_desired"),
		form.MetricGroup("outcome_product_yield", ""),
		form.MetricGroup("outcome_product_purity", ""),
		form.Selector("outcome_product_role", models.EnumReactionRole),
	))
	b.doc.DefineTemplate(analysisTemplate, form.Div("outcome_analysis").Append(
		removeButton(b, "outcome_analysis"),
		form.EditText("outcome_analysis_name"),
		form.Selector("outcome_analysis_type", models.EnumAnalysisType),
		form.EditText("outcome_analysis_details"),
		form.OptionalBool("outcome_analysis_isolated"),
		form.EditText("outcome_analysis_manufacturer"),
	))
	node := section("section_outcomes", "outcomes", nil,
		s.root,
		form.Button("add", "add outcome", func(*form.Node) { s.Add() }),
	)
	return s, node
}

// Add appends an empty outcome entry.
func (s *Outcomes) Add() *form.Node {
	node := s.host.AddSlowly(outcomeTemplate, s.root)
	s.host.AddChangeHandler(node, func() { s.Validate(node) })
	return node
}

func (s *Outcomes) AddProduct(outcome *form.Node) *form.Node {
	node := s.host.AddSlowly(productTemplate, outcome.First("outcome_products"))
	s.host.AddChangeHandler(node, func() { s.ValidateProduct(node) })
	return node
}

func (s *Outcomes) AddAnalysis(outcome *form.Node) *form.Node {
	return s.host.AddSlowly(analysisTemplate, outcome.First("outcome_analyses"))
}

func (s *Outcomes) Load(outcomes []*models.ReactionOutcome) {
	for _, o := range outcomes {
		node := s.Add()
		form.WriteMetric("outcome_time", o.ReactionTime, node)
		form.WriteMetric("outcome_conversion", o.Conversion, node)
		for _, p := range o.Products {
			pn := s.AddProduct(node)
			loadCompoundIdentifiers(s.base, pn.First("outcome_product_identifiers"), p.Identifiers)
			setOptionalBool(pn, "outcome_product_desired", p.IsDesiredProduct)
			form.WriteMetric("outcome_product_yield", p.Yield, pn)
			form.WriteMetric("outcome_product_purity", p.Purity, pn)
			setSelector(pn, "outcome_product_role", int32(p.ReactionRole))
		}
		names := make([]string, 0, len(o.Analyses))
		for name := range o.Analyses {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			a := o.Analyses[name]
			an := s.AddAnalysis(node)
			setText(an, "outcome_analysis_name", name)
			if a == nil {
				continue
			}
			setSelector(an, "outcome_analysis_type", int32(a.Type))
			setText(an, "outcome_analysis_details", a.Details)
			setOptionalBool(an, "outcome_analysis_isolated", a.IsOfIsolatedSpecies)
			setText(an, "outcome_analysis_manufacturer", a.InstrumentManufacturer)
		}
	}
}

func (s *Outcomes) Unload() []*models.ReactionOutcome {
	var out []*models.ReactionOutcome
	for _, node := range s.root.FindLive("outcome") {
		if o := unloadOutcome(node); !models.IsEmptyMessage(o) {
			out = append(out, o)
		}
	}
	return out
}

func unloadOutcome(node *form.Node) *models.ReactionOutcome {
	o := &models.ReactionOutcome{
		ReactionTime: attach(form.ReadMetric("outcome_time", &models.Time{}, node)),
		Conversion:   attach(form.ReadMetric("outcome_conversion", &models.Percentage{}, node)),
	}
	for _, pn := range node.FindLive("outcome_product") {
		if p := unloadProduct(pn); !models.IsEmptyMessage(p) {
			o.Products = append(o.Products, p)
		}
	}
	for _, an := range node.FindLive("outcome_analysis") {
		name := text(an, "outcome_analysis_name")
		a := &models.Analysis{
			Type:                   models.AnalysisType(selector(an, "outcome_analysis_type")),
			Details:                text(an, "outcome_analysis_details"),
			IsOfIsolatedSpecies:    optionalBool(an, "outcome_analysis_isolated"),
			InstrumentManufacturer: text(an, "outcome_analysis_manufacturer"),
		}
		if name == "" && models.IsEmptyMessage(a) {
			continue
		}
		if o.Analyses == nil {
			o.Analyses = make(map[string]*models.Analysis)
		}
		o.Analyses[name] = a
	}
	return o
}

func unloadProduct(node *form.Node) *models.ProductCompound {
	return &models.ProductCompound{
		Identifiers:      unloadCompoundIdentifiers(node),
		IsDesiredProduct: optionalBool(node, "outcome_product_desired"),
		Yield:            attach(form.ReadMetric("outcome_product_yield", &models.Percentage{}, node)),
		Purity:           attach(form.ReadMetric("outcome_product_purity", &models.Percentage{}, node)),
		ReactionRole:     models.ReactionRole(selector(node, "outcome_product_role")),
	}
}

func (s *Outcomes) Validate(node *form.Node) {
	if node == nil {
		return
	}
	s.host.Validate(unloadOutcome(node), "ReactionOutcome", node, nil)
}

func (s *Outcomes) ValidateProduct(node *form.Node) {
	if node == nil {
		return
	}
	s.host.Validate(unloadProduct(node), "ProductCompound", node, nil)
}
