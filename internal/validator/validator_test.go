package validator

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/antonkast-google/ord-editor/internal/apperr"
	"github.com/antonkast-google/ord-editor/internal/codec"
	"github.com/antonkast-google/ord-editor/internal/models"
)

func validReaction() *models.Reaction {
	return &models.Reaction{
		ReactionID: "ord-1",
		Identifiers: []*models.ReactionIdentifier{
			{Type: models.ReactionIdentifierSmiles, Value: "CCO>>CC=O"},
		},
		Inputs: map[string]*models.ReactionInput{
			"ethanol": {Components: []*models.Compound{{
				Identifiers:  []*models.CompoundIdentifier{{Type: models.CompoundIdentifierSmiles, Value: "CCO"}},
				Amount:       &models.Amount{Mass: &models.Mass{Quantity: models.Quantity{Value: models.Ptr(1.5)}, Units: models.MassUnitGram}},
				ReactionRole: models.ReactionRoleReactant,
			}}},
		},
		Conditions: &models.ReactionConditions{PH: models.Ptr(7.0)},
		Outcomes: []*models.ReactionOutcome{{
			Products: []*models.ProductCompound{{
				Identifiers: []*models.CompoundIdentifier{{Type: models.CompoundIdentifierSmiles, Value: "CC=O"}},
				Yield:       &models.Percentage{Quantity: models.Quantity{Value: models.Ptr(80.0)}},
			}},
		}},
		Provenance: &models.ReactionProvenance{
			RecordCreated: &models.RecordEvent{
				Time:   &models.DateTime{Value: "2024-01-01"},
				Person: &models.Person{Username: "chemist"},
			},
		},
	}
}

func mustValidate(t *testing.T, typeName string, msg any) *models.Diagnostics {
	t.Helper()
	body, err := codec.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	d, err := Validate(typeName, body)
	if err != nil {
		t.Fatalf("Validate(%s): %v", typeName, err)
	}
	return d
}

func TestValidReactionHasNoErrors(t *testing.T) {
	d := mustValidate(t, "Reaction", validReaction())
	if len(d.Errors) != 0 {
		t.Errorf("errors = %v", d.Errors)
	}
	if len(d.Warnings) != 0 {
		t.Errorf("warnings = %v", d.Warnings)
	}
}

func TestEmptyReactionRequiresInputsAndOutcomes(t *testing.T) {
	d := mustValidate(t, "Reaction", &models.Reaction{})
	want := []string{
		"inputs: at least one input is required",
		"outcomes: at least one outcome is required",
	}
	if !slices.Equal(d.Errors, want) {
		t.Errorf("errors = %v, want %v", d.Errors, want)
	}
	if len(d.Warnings) != 3 {
		t.Errorf("warnings = %v", d.Warnings)
	}
}

func TestErrorsAreSortedAndPathPrefixed(t *testing.T) {
	r := validReaction()
	r.Inputs["ethanol"].Components[0].Identifiers[0].Value = ""
	r.Outcomes[0].Products[0].Yield.Value = models.Ptr(-1.0)
	r.Conditions.PH = models.Ptr(15.0)

	d := mustValidate(t, "Reaction", r)
	want := []string{
		"conditions.ph: must be between 0 and 14",
		"inputs.ethanol.components.0.identifiers.0.value: cannot be blank",
		"outcomes.0.products.0.yield.value: must not be negative",
	}
	if !slices.Equal(d.Errors, want) {
		t.Errorf("errors = %v, want %v", d.Errors, want)
	}
}

func TestIdentifierCustomNeedsDetails(t *testing.T) {
	d := mustValidate(t, "ReactionIdentifier", &models.ReactionIdentifier{Type: models.ReactionIdentifierCustom, Value: "x"})
	if !slices.Equal(d.Errors, []string{"details: is required for CUSTOM types"}) {
		t.Errorf("errors = %v", d.Errors)
	}

	d = mustValidate(t, "ReactionIdentifier", &models.ReactionIdentifier{})
	if len(d.Errors) != 2 {
		t.Errorf("errors = %v, want type and value", d.Errors)
	}
}

func TestMetricUnitsRequired(t *testing.T) {
	tc := &models.TemperatureConditions{Setpoint: &models.Temperature{Quantity: models.Quantity{Value: models.Ptr(25.0)}}}
	d := mustValidate(t, "TemperatureConditions", tc)
	if !slices.Equal(d.Errors, []string{"setpoint.units: are required when a value is set"}) {
		t.Errorf("errors = %v", d.Errors)
	}

	tc.Setpoint.Units = models.TemperatureUnitKelvin
	tc.Setpoint.Value = models.Ptr(-3.0)
	d = mustValidate(t, "TemperatureConditions", tc)
	if !slices.Equal(d.Errors, []string{"setpoint.value: is below absolute zero"}) {
		t.Errorf("errors = %v", d.Errors)
	}

	tc.Setpoint.Units = models.TemperatureUnitCelsius
	d = mustValidate(t, "TemperatureConditions", tc)
	if len(d.Errors) != 0 {
		t.Errorf("negative celsius should pass: %v", d.Errors)
	}
}

func TestAmountAllowsOneKind(t *testing.T) {
	c := &models.Compound{
		Identifiers: []*models.CompoundIdentifier{{Type: models.CompoundIdentifierName, Value: "water"}},
		Amount: &models.Amount{
			Mass:   &models.Mass{Quantity: models.Quantity{Value: models.Ptr(1.0)}, Units: models.MassUnitGram},
			Volume: &models.Volume{Quantity: models.Quantity{Value: models.Ptr(1.0)}, Units: models.VolumeUnitMilliliter},
		},
	}
	d := mustValidate(t, "Compound", c)
	if !slices.Equal(d.Errors, []string{"amount.mass: only one of mass, moles or volume may be set"}) {
		t.Errorf("errors = %v", d.Errors)
	}
	if !slices.Equal(d.Warnings, []string{"compound has no reaction role"}) {
		t.Errorf("warnings = %v", d.Warnings)
	}
}

func TestWorkupExtractionNeedsPhase(t *testing.T) {
	d := mustValidate(t, "ReactionWorkup", &models.ReactionWorkup{Type: models.WorkupTypeExtraction})
	if !slices.Equal(d.Errors, []string{"keep_phase: is required for extractions"}) {
		t.Errorf("errors = %v", d.Errors)
	}
}

func TestProductYieldWarnings(t *testing.T) {
	p := &models.ProductCompound{
		Identifiers: []*models.CompoundIdentifier{{Type: models.CompoundIdentifierSmiles, Value: "C"}},
		Yield:       &models.Percentage{Quantity: models.Quantity{Value: models.Ptr(102.0)}},
	}
	d := mustValidate(t, "ProductCompound", p)
	if len(d.Errors) != 0 {
		t.Errorf("errors = %v", d.Errors)
	}
	if !slices.Equal(d.Warnings, []string{"yield is over 100%"}) {
		t.Errorf("warnings = %v", d.Warnings)
	}

	p.Yield.Value = models.Ptr(120.0)
	d = mustValidate(t, "ProductCompound", p)
	if !slices.Equal(d.Errors, []string{"yield.value: must be no greater than 105"}) {
		t.Errorf("errors = %v", d.Errors)
	}
}

func TestProvenanceFormats(t *testing.T) {
	p := &models.ReactionProvenance{
		Experimenter:   &models.Person{Orcid: "1234", Email: "not-an-email"},
		Doi:            "nonsense",
		PublicationURL: "not a url",
	}
	d := mustValidate(t, "ReactionProvenance", p)
	want := []string{"doi", "experimenter.email", "experimenter.orcid", "publication_url"}
	if len(d.Errors) != len(want) {
		t.Fatalf("errors = %v", d.Errors)
	}
	for i, prefix := range want {
		if !strings.HasPrefix(d.Errors[i], prefix+": ") {
			t.Errorf("errors[%d] = %q, want prefix %q", i, d.Errors[i], prefix)
		}
	}
	if !slices.Equal(d.Warnings, []string{"provenance.record_created is not set"}) {
		t.Errorf("warnings = %v", d.Warnings)
	}

	p = &models.ReactionProvenance{
		Experimenter: &models.Person{Orcid: "0000-0002-1825-009X", Email: "a@example.com"},
		Doi:          "10.1000/xyz123",
	}
	if d := mustValidate(t, "ReactionProvenance", p); len(d.Errors) != 0 {
		t.Errorf("valid provenance errors = %v", d.Errors)
	}
}

func TestDatasetDuplicateIDs(t *testing.T) {
	ds := &models.Dataset{
		Name:      "demo",
		Reactions: []*models.Reaction{validReaction(), validReaction(), {}},
	}
	d := mustValidate(t, "Dataset", ds)
	want := []string{
		"reactions.1.reaction_id: duplicates reactions.0",
		"reactions.2.inputs: at least one input is required",
		"reactions.2.outcomes: at least one outcome is required",
	}
	if !slices.Equal(d.Errors, want) {
		t.Errorf("errors = %v, want %v", d.Errors, want)
	}
	if !slices.Equal(d.Warnings, []string{"reactions.2: reaction has no reaction_id"}) {
		t.Errorf("warnings = %v", d.Warnings)
	}
}

func TestUnknownType(t *testing.T) {
	_, err := Validate("Nope", []byte("{}"))
	if !errors.Is(err, ErrUnknownType) || !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("err = %v", err)
	}
}

func TestUndecodableBody(t *testing.T) {
	_, err := Validate("Reaction", []byte(`{"bogus": 1}`))
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestTypesCoverFormSections(t *testing.T) {
	types := Types()
	for _, name := range []string{
		"Reaction", "ReactionIdentifier", "ReactionInput", "Compound", "ReactionSetup",
		"ReactionConditions", "TemperatureConditions", "PressureConditions", "StirringConditions",
		"IlluminationConditions", "ElectrochemistryConditions", "FlowConditions", "ReactionNotes",
		"ReactionObservation", "ReactionWorkup", "ReactionOutcome", "ProductCompound",
		"ReactionProvenance", "Dataset",
	} {
		if !slices.Contains(types, name) {
			t.Errorf("missing rule set for %s", name)
		}
	}
}

func TestMessageSkipsDecoding(t *testing.T) {
	d, err := Message("ReactionObservation", &models.ReactionObservation{})
	if err != nil {
		t.Fatalf("Message: %v", err)
	}
	if !slices.Equal(d.Errors, []string{"comment: a comment or an image is required"}) {
		t.Errorf("errors = %v", d.Errors)
	}
}
