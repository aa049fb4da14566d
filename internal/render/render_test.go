package render

import (
	"strings"
	"testing"

	"github.com/antonkast-google/ord-editor/internal/models"
)

func TestReactionSummary(t *testing.T) {
	r := &models.Reaction{
		ReactionID:  "ord-42",
		Identifiers: []*models.ReactionIdentifier{{Type: models.ReactionIdentifierSmiles, Value: "CCO>>CC=O"}},
		Inputs: map[string]*models.ReactionInput{
			"b solvent": {Components: []*models.Compound{{
				Identifiers:  []*models.CompoundIdentifier{{Value: "THF"}},
				Amount:       &models.Amount{Volume: &models.Volume{Quantity: models.Quantity{Value: models.Ptr(10.0)}, Units: models.VolumeUnitMilliliter}},
				ReactionRole: models.ReactionRoleSolvent,
			}}},
			"a ethanol": {Components: []*models.Compound{{
				Identifiers: []*models.CompoundIdentifier{{Value: "CCO"}},
				Amount:      &models.Amount{Mass: &models.Mass{Quantity: models.Quantity{Value: models.Ptr(1.5), Precision: models.Ptr(0.1)}, Units: models.MassUnitGram}},
			}}},
		},
		Conditions: &models.ReactionConditions{
			Temperature: &models.TemperatureConditions{Setpoint: &models.Temperature{Quantity: models.Quantity{Value: models.Ptr(25.0)}, Units: models.TemperatureUnitCelsius}},
			Reflux:      models.Ptr(true),
		},
		Outcomes: []*models.ReactionOutcome{{
			ReactionTime: &models.Time{Quantity: models.Quantity{Value: models.Ptr(2.0)}, Units: models.TimeUnitHour},
			Products: []*models.ProductCompound{{
				Identifiers: []*models.CompoundIdentifier{{Value: "CC=O"}},
				Yield:       &models.Percentage{Quantity: models.Quantity{Value: models.Ptr(80.0)}},
			}},
		}},
	}
	html, err := Reaction(r)
	if err != nil {
		t.Fatalf("Reaction: %v", err)
	}
	for _, want := range []string{
		`<h3 class="reaction-id">ord-42</h3>`,
		`<b>REACTION_SMILES</b> CCO&gt;&gt;CC=O`,
		`CCO 1.5 ± 0.1 gram`,
		`THF 10 milliliter (solvent)`,
		`<li>temperature 25 celsius</li>`,
		`<li>at reflux</li>`,
		`<p>after 2 hour</p>`,
		`CC=O (yield 80%)`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("missing %q in:\n%s", want, html)
		}
	}
	if strings.Index(html, "a ethanol") > strings.Index(html, "b solvent") {
		t.Error("inputs not rendered in name order")
	}
}

func TestReactionEscapesText(t *testing.T) {
	r := &models.Reaction{Notes: &models.ReactionNotes{ProcedureDetails: "<script>alert(1)</script>"}}
	html, err := Reaction(r)
	if err != nil {
		t.Fatalf("Reaction: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("unescaped markup: %s", html)
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Errorf("procedure missing: %s", html)
	}
}

func TestEmptyReaction(t *testing.T) {
	html, err := Reaction(nil)
	if err != nil {
		t.Fatalf("Reaction: %v", err)
	}
	if strings.Contains(html, "<h4>") {
		t.Errorf("empty reaction rendered sections: %s", html)
	}
}

func TestQuantity(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{(*models.Mass)(nil), ""},
		{&models.Mass{}, ""},
		{&models.Mass{Quantity: models.Quantity{Value: models.Ptr(0.1234567891)}}, "0.1234568"},
		{&models.Pressure{Quantity: models.Quantity{Value: models.Ptr(1.0)}, Units: 2}, "1 atmosphere"},
		{&models.Percentage{Quantity: models.Quantity{Value: models.Ptr(50.0)}}, "50%"},
		{"not a metric", ""},
	}
	for _, c := range cases {
		if got := Quantity(c.in); got != c.want {
			t.Errorf("Quantity(%#v) = %q, want %q", c.in, got, c.want)
		}
	}
}
