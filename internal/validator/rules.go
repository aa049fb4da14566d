package validator

import (
	"errors"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/antonkast-google/ord-editor/internal/models"
)

// Enum value 1 is CUSTOM for every type that has one.
const custom = 1

var (
	orcidPattern = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`)
	doiPattern   = regexp.MustCompile(`^(doi:|https?://(dx\.)?doi\.org/)?10\.\d{4,9}/\S+$`)
)

func init() {
	register("Reaction", reactionRules, reactionWarnings)
	register("ReactionIdentifier", identifierRules, nil)
	register("ReactionInput", inputRules, inputWarnings)
	register("Compound", compoundRules, compoundWarnings)
	register("ReactionSetup", setupRules, nil)
	register("ReactionConditions", conditionsRules, conditionsWarnings)
	register("TemperatureConditions", temperatureRules, nil)
	register("PressureConditions", pressureRules, nil)
	register("StirringConditions", stirringRules, nil)
	register("IlluminationConditions", illuminationRules, nil)
	register("ElectrochemistryConditions", electrochemistryRules, nil)
	register("FlowConditions", flowRules, nil)
	register("ReactionNotes", notesRules, nil)
	register("ReactionObservation", observationRules, nil)
	register("ReactionWorkup", workupRules, nil)
	register("ReactionOutcome", outcomeRules, outcomeWarnings)
	register("ProductCompound", productRules, productWarnings)
	register("ReactionProvenance", provenanceRules, provenanceWarnings)
	register("Dataset", datasetRules, datasetWarnings)
}

// detailsFor requires details when the enum is CUSTOM.
func detailsFor[E ~int32](typ E) validation.Rule {
	return validation.When(typ == custom, validation.Required.Error("is required for CUSTOM types"))
}

// metric checks a measured value: non-negative unless signed, precision
// non-negative, units present whenever a value is.
func metric(signed bool) validation.Rule {
	return validation.By(func(v any) error {
		if _, isNil := validation.Indirect(v); isNil {
			return nil
		}
		m, ok := v.(models.Metric)
		if !ok {
			return nil
		}
		errs := validation.Errors{}
		if val := m.MetricValue(); val != nil && !signed && *val < 0 {
			errs["value"] = errors.New("must not be negative")
		}
		if p := m.MetricPrecision(); p != nil && *p < 0 {
			errs["precision"] = errors.New("must not be negative")
		}
		if um, ok := m.(models.UnitMetric); ok && m.MetricValue() != nil && um.MetricUnits() == 0 {
			errs["units"] = errors.New("are required when a value is set")
		}
		return errs.Filter()
	})
}

// percentage bounds a Percentage to [0, 105]; values over 100 are reported
// as warnings by the owning message.
var percentage = validation.By(func(v any) error {
	p, _ := v.(*models.Percentage)
	if p == nil || p.Value == nil {
		return metric(false).Validate(v)
	}
	if *p.Value > 105 {
		return validation.Errors{"value": errors.New("must be no greater than 105")}
	}
	return metric(false).Validate(v)
})

var pH = validation.By(func(v any) error {
	p, _ := v.(*float64)
	if p != nil && (*p < 0 || *p > 14) {
		return errors.New("must be between 0 and 14")
	}
	return nil
})

func reactionRules(r *models.Reaction) error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Identifiers, each(identifierRules)),
		validation.Field(&r.Inputs, validation.Required.Error("at least one input is required"), nonEmptyKeys, eachValue(inputRules)),
		validation.Field(&r.Setup, nested(setupRules)),
		validation.Field(&r.Conditions, nested(conditionsRules)),
		validation.Field(&r.Notes, nested(notesRules)),
		validation.Field(&r.Observations, each(observationRules)),
		validation.Field(&r.Workups, each(workupRules)),
		validation.Field(&r.Outcomes, validation.Required.Error("at least one outcome is required"), each(outcomeRules)),
		validation.Field(&r.Provenance, nested(provenanceRules)),
	)
}

func reactionWarnings(r *models.Reaction) []string {
	var out []string
	if len(r.Identifiers) == 0 {
		out = append(out, "reaction has no identifiers")
	}
	if r.Conditions == nil {
		out = append(out, "reaction conditions are not specified")
	}
	if r.Provenance == nil {
		out = append(out, "reaction provenance is not specified")
	} else {
		out = append(out, provenanceWarnings(r.Provenance)...)
	}
	for i, o := range r.Outcomes {
		if o != nil {
			out = append(out, prefixed(fmt.Sprintf("outcomes.%d", i), outcomeWarnings(o))...)
		}
	}
	return out
}

func identifierRules(id *models.ReactionIdentifier) error {
	return validation.ValidateStruct(id,
		validation.Field(&id.Type, validation.Required),
		validation.Field(&id.Value, validation.Required),
		validation.Field(&id.Details, detailsFor(id.Type)),
	)
}

func compoundIdentifierRules(id *models.CompoundIdentifier) error {
	return validation.ValidateStruct(id,
		validation.Field(&id.Type, validation.Required),
		validation.Field(&id.Value, validation.Required),
		validation.Field(&id.Details, detailsFor(id.Type)),
	)
}

func inputRules(in *models.ReactionInput) error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Components, validation.Required.Error("at least one component is required"), each(compoundRules)),
		validation.Field(&in.AdditionOrder, validation.Min(int32(1))),
		validation.Field(&in.AdditionTime, metric(false)),
		validation.Field(&in.AdditionDuration, metric(false)),
		validation.Field(&in.AdditionTemperature, metric(true)),
	)
}

func inputWarnings(in *models.ReactionInput) []string {
	var out []string
	for i, c := range in.Components {
		if c != nil {
			out = append(out, prefixed(fmt.Sprintf("components.%d", i), compoundWarnings(c))...)
		}
	}
	return out
}

func compoundRules(c *models.Compound) error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Identifiers, validation.Required.Error("at least one identifier is required"), each(compoundIdentifierRules)),
		validation.Field(&c.Amount, nested(amountRules)),
	)
}

func compoundWarnings(c *models.Compound) []string {
	var out []string
	if c.Amount == nil {
		out = append(out, "compound has no amount")
	}
	if c.ReactionRole == 0 {
		out = append(out, "compound has no reaction role")
	}
	return out
}

func amountRules(a *models.Amount) error {
	set := 0
	for _, p := range []bool{a.Mass != nil, a.Moles != nil, a.Volume != nil} {
		if p {
			set++
		}
	}
	return validation.ValidateStruct(a,
		validation.Field(&a.Mass,
			validation.When(set > 1, validation.Nil.Error("only one of mass, moles or volume may be set")),
			metric(false)),
		validation.Field(&a.Moles, metric(false)),
		validation.Field(&a.Volume, metric(false)),
		validation.Field(&a.VolumeIncludesSolutes,
			validation.When(a.Volume == nil, validation.Nil.Error("only applies to volumes"))),
	)
}

func setupRules(s *models.ReactionSetup) error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Vessel, nested(func(v *models.Vessel) error {
			return validation.ValidateStruct(v,
				validation.Field(&v.Details, detailsFor(v.Type)),
				validation.Field(&v.Volume, metric(false)),
			)
		})),
		validation.Field(&s.AutomationPlatform,
			validation.When(s.IsAutomated != nil && *s.IsAutomated, validation.Required.Error("is required for automated setups"))),
		validation.Field(&s.Environment, nested(func(e *models.ReactionEnvironment) error {
			return validation.ValidateStruct(e, validation.Field(&e.Details, detailsFor(e.Type)))
		})),
	)
}

func conditionsRules(c *models.ReactionConditions) error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Temperature, nested(temperatureRules)),
		validation.Field(&c.Pressure, nested(pressureRules)),
		validation.Field(&c.Stirring, nested(stirringRules)),
		validation.Field(&c.Illumination, nested(illuminationRules)),
		validation.Field(&c.Electrochemistry, nested(electrochemistryRules)),
		validation.Field(&c.Flow, nested(flowRules)),
		validation.Field(&c.PH, pH),
	)
}

func conditionsWarnings(c *models.ReactionConditions) []string {
	if c.ConditionsAreDynamic != nil && *c.ConditionsAreDynamic && c.Details == "" {
		return []string{"dynamic conditions should be described in details"}
	}
	return nil
}

func temperatureRules(t *models.TemperatureConditions) error {
	return validation.ValidateStruct(t,
		validation.Field(&t.Control, nested(func(c *models.TemperatureControl) error {
			return validation.ValidateStruct(c, validation.Field(&c.Details, detailsFor(c.Type)))
		})),
		validation.Field(&t.Setpoint, metric(true), validation.By(aboveAbsoluteZero)),
	)
}

// aboveAbsoluteZero rejects temperatures below 0 K in the stated units.
func aboveAbsoluteZero(v any) error {
	t, _ := v.(*models.Temperature)
	if t == nil || t.Value == nil {
		return nil
	}
	floor := map[models.TemperatureUnit]float64{
		models.TemperatureUnitCelsius: -273.15,
		2:                             -459.67,
		models.TemperatureUnitKelvin:  0,
	}
	if lowest, ok := floor[t.Units]; ok && *t.Value < lowest {
		return validation.Errors{"value": errors.New("is below absolute zero")}
	}
	return nil
}

func pressureRules(p *models.PressureConditions) error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Control, nested(func(c *models.PressureControl) error {
			return validation.ValidateStruct(c, validation.Field(&c.Details, detailsFor(c.Type)))
		})),
		validation.Field(&p.Setpoint, metric(false)),
		validation.Field(&p.Atmosphere, nested(func(a *models.Atmosphere) error {
			return validation.ValidateStruct(a, validation.Field(&a.Details, detailsFor(a.Type)))
		})),
	)
}

func stirringRules(s *models.StirringConditions) error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Details, detailsFor(s.Type)),
		validation.Field(&s.Rate, nested(func(r *models.StirringRate) error {
			return validation.ValidateStruct(r, validation.Field(&r.RPM, validation.Min(int32(0))))
		})),
	)
}

func illuminationRules(il *models.IlluminationConditions) error {
	return validation.ValidateStruct(il,
		validation.Field(&il.Details, detailsFor(il.Type)),
		validation.Field(&il.PeakWavelength, metric(false)),
		validation.Field(&il.DistanceToVessel, metric(false)),
	)
}

func electrochemistryRules(e *models.ElectrochemistryConditions) error {
	return validation.ValidateStruct(e,
		validation.Field(&e.Details, detailsFor(e.Type)),
		validation.Field(&e.Current, metric(true)),
		validation.Field(&e.Voltage, metric(true)),
	)
}

func flowRules(f *models.FlowConditions) error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Details, detailsFor(f.Type)),
		validation.Field(&f.Tubing, nested(func(t *models.Tubing) error {
			return validation.ValidateStruct(t,
				validation.Field(&t.Details, detailsFor(t.Type)),
				validation.Field(&t.Diameter, metric(false)),
			)
		})),
	)
}

func notesRules(n *models.ReactionNotes) error {
	return validation.ValidateStruct(n,
		validation.Field(&n.SafetyNotes, validation.Length(0, 10000)),
		validation.Field(&n.ProcedureDetails, validation.Length(0, 100000)),
	)
}

func observationRules(o *models.ReactionObservation) error {
	return validation.ValidateStruct(o,
		validation.Field(&o.Time, metric(false)),
		validation.Field(&o.Comment,
			validation.When(o.Image == nil, validation.Required.Error("a comment or an image is required"))),
		validation.Field(&o.Image, nested(dataRules)),
	)
}

func dataRules(d *models.Data) error {
	return validation.ValidateStruct(d,
		validation.Field(&d.URL, validation.NilOrNotEmpty, is.URL),
		validation.Field(&d.StringValue, validation.When(d.URL == nil, validation.Required.Error("a value or a url is required"))),
	)
}

func workupRules(w *models.ReactionWorkup) error {
	return validation.ValidateStruct(w,
		validation.Field(&w.Type, validation.Required),
		validation.Field(&w.Details, detailsFor(w.Type)),
		validation.Field(&w.Duration, metric(false)),
		validation.Field(&w.Input, nested(inputRules)),
		validation.Field(&w.Temperature, nested(temperatureRules)),
		validation.Field(&w.KeepPhase, validation.When(w.Type == models.WorkupTypeExtraction, validation.Required.Error("is required for extractions"))),
		validation.Field(&w.Stirring, nested(stirringRules)),
		validation.Field(&w.TargetPH, pH),
	)
}

func outcomeRules(o *models.ReactionOutcome) error {
	return validation.ValidateStruct(o,
		validation.Field(&o.ReactionTime, metric(false)),
		validation.Field(&o.Conversion, percentage),
		validation.Field(&o.Products, each(productRules)),
		validation.Field(&o.Analyses, nonEmptyKeys, eachValue(func(a *models.Analysis) error {
			return validation.ValidateStruct(a,
				validation.Field(&a.Type, validation.Required),
				validation.Field(&a.Details, detailsFor(a.Type)),
			)
		})),
	)
}

func outcomeWarnings(o *models.ReactionOutcome) []string {
	var out []string
	if len(o.Products) == 0 {
		out = append(out, "outcome has no products")
	}
	for i, p := range o.Products {
		if p != nil {
			out = append(out, prefixed(fmt.Sprintf("products.%d", i), productWarnings(p))...)
		}
	}
	return out
}

func productRules(p *models.ProductCompound) error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Identifiers, validation.Required.Error("at least one identifier is required"), each(compoundIdentifierRules)),
		validation.Field(&p.Yield, percentage),
		validation.Field(&p.Purity, percentage),
	)
}

func productWarnings(p *models.ProductCompound) []string {
	var out []string
	if p.Yield != nil && p.Yield.Value != nil && *p.Yield.Value > 100 {
		out = append(out, "yield is over 100%")
	}
	if p.Purity != nil && p.Purity.Value != nil && *p.Purity.Value > 100 {
		out = append(out, "purity is over 100%")
	}
	return out
}

func personRules(p *models.Person) error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Orcid, validation.Match(orcidPattern).Error("must look like 0000-0000-0000-000X")),
		validation.Field(&p.Email, is.EmailFormat),
	)
}

func provenanceRules(p *models.ReactionProvenance) error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Experimenter, nested(personRules)),
		validation.Field(&p.Doi, validation.Match(doiPattern).Error("must be a DOI")),
		validation.Field(&p.PublicationURL, is.URL),
		validation.Field(&p.RecordCreated, nested(func(e *models.RecordEvent) error {
			return validation.ValidateStruct(e,
				validation.Field(&e.Time, validation.Required),
				validation.Field(&e.Person, validation.Required, nested(personRules)),
			)
		})),
	)
}

func provenanceWarnings(p *models.ReactionProvenance) []string {
	if p.RecordCreated == nil {
		return []string{"provenance.record_created is not set"}
	}
	return nil
}

func datasetRules(ds *models.Dataset) error {
	seen := make(map[string]int)
	dup := validation.Errors{}
	for i, r := range ds.Reactions {
		if r == nil || r.ReactionID == "" {
			continue
		}
		if first, ok := seen[r.ReactionID]; ok {
			dup[fmt.Sprint(i)] = validation.Errors{"reaction_id": fmt.Errorf("duplicates reactions.%d", first)}
			continue
		}
		seen[r.ReactionID] = i
	}
	return validation.ValidateStruct(ds,
		validation.Field(&ds.Name, validation.Required),
		validation.Field(&ds.Reactions, validation.Required, validation.By(func(v any) error {
			var errs validation.Errors
			if err := each(reactionRules).Validate(v); err != nil {
				errs, _ = err.(validation.Errors)
			}
			return merge(errs, dup).Filter()
		})),
	)
}

func datasetWarnings(ds *models.Dataset) []string {
	var out []string
	for i, r := range ds.Reactions {
		if r == nil {
			continue
		}
		if r.ReactionID == "" {
			out = append(out, fmt.Sprintf("reactions.%d: reaction has no reaction_id", i))
		}
	}
	return out
}
