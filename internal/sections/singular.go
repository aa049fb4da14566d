package sections

import (
	"github.com/antonkast-google/ord-editor/internal/form"
	"github.com/antonkast-google/ord-editor/internal/models"
)

func newSetup(b base) *Singular[models.ReactionSetup] {
	node := section("section_setup", "setup", form.Validation("", nil),
		form.Selector("setup_vessel_type", models.EnumVesselType),
		form.EditText("setup_vessel_details"),
		form.MetricGroup("setup_vessel_volume", models.EnumVolumeUnit),
		form.OptionalBool("setup_automated"),
		form.EditText("setup_platform"),
		form.Selector("setup_environment_type", models.EnumEnvironmentType),
		form.EditText("setup_environment_details"),
	)
	s := newSingular(b, node, "ReactionSetup", loadSetup, unloadSetup)
	bindValidate(node, s.Validate)
	return s
}

func loadSetup(scope *form.Node, v *models.ReactionSetup) {
	if vessel := v.Vessel; vessel != nil {
		setSelector(scope, "setup_vessel_type", int32(vessel.Type))
		setText(scope, "setup_vessel_details", vessel.Details)
		form.WriteMetric("setup_vessel_volume", vessel.Volume, scope)
	}
	setOptionalBool(scope, "setup_automated", v.IsAutomated)
	setText(scope, "setup_platform", v.AutomationPlatform)
	if env := v.Environment; env != nil {
		setSelector(scope, "setup_environment_type", int32(env.Type))
		setText(scope, "setup_environment_details", env.Details)
	}
}

func unloadSetup(scope *form.Node) *models.ReactionSetup {
	return &models.ReactionSetup{
		Vessel: attach(&models.Vessel{
			Type:    models.VesselType(selector(scope, "setup_vessel_type")),
			Details: text(scope, "setup_vessel_details"),
			Volume:  attach(form.ReadMetric("setup_vessel_volume", &models.Volume{}, scope)),
		}),
		IsAutomated:        optionalBool(scope, "setup_automated"),
		AutomationPlatform: text(scope, "setup_platform"),
		Environment: attach(&models.ReactionEnvironment{
			Type:    models.EnvironmentType(selector(scope, "setup_environment_type")),
			Details: text(scope, "setup_environment_details"),
		}),
	}
}

func newNotes(b base) *Singular[models.ReactionNotes] {
	node := section("section_notes", "notes", form.Validation("", nil),
		form.OptionalBool("notes_heterogeneous"),
		form.OptionalBool("notes_precipitate"),
		form.OptionalBool("notes_exothermic"),
		form.OptionalBool("notes_moisture"),
		form.OptionalBool("notes_oxygen"),
		form.OptionalBool("notes_light"),
		form.EditText("notes_safety"),
		form.EditText("notes_details"),
	)
	s := newSingular(b, node, "ReactionNotes", loadNotes, unloadNotes)
	bindValidate(node, s.Validate)
	return s
}

func loadNotes(scope *form.Node, v *models.ReactionNotes) {
	setOptionalBool(scope, "notes_heterogeneous", v.IsHeterogeneous)
	setOptionalBool(scope, "notes_precipitate", v.FormsPrecipitate)
	setOptionalBool(scope, "notes_exothermic", v.IsExothermic)
	setOptionalBool(scope, "notes_moisture", v.IsSensitiveToMoisture)
	setOptionalBool(scope, "notes_oxygen", v.IsSensitiveToOxygen)
	setOptionalBool(scope, "notes_light", v.IsSensitiveToLight)
	setText(scope, "notes_safety", v.SafetyNotes)
	setText(scope, "notes_details", v.ProcedureDetails)
}

func unloadNotes(scope *form.Node) *models.ReactionNotes {
	return &models.ReactionNotes{
		IsHeterogeneous:       optionalBool(scope, "notes_heterogeneous"),
		FormsPrecipitate:      optionalBool(scope, "notes_precipitate"),
		IsExothermic:          optionalBool(scope, "notes_exothermic"),
		IsSensitiveToMoisture: optionalBool(scope, "notes_moisture"),
		IsSensitiveToOxygen:   optionalBool(scope, "notes_oxygen"),
		IsSensitiveToLight:    optionalBool(scope, "notes_light"),
		SafetyNotes:           text(scope, "notes_safety"),
		ProcedureDetails:      text(scope, "notes_details"),
	}
}

func newProvenance(b base) *Singular[models.ReactionProvenance] {
	body := personFields("provenance_experimenter")
	body = append(body,
		form.EditText("provenance_city"),
		form.EditText("provenance_start"),
		form.EditText("provenance_doi"),
		form.EditText("provenance_patent"),
		form.EditText("provenance_url"),
		form.EditText("provenance_created_time"),
		form.EditText("provenance_created_details"),
	)
	body = append(body, personFields("provenance_created_person")...)
	node := section("section_provenance", "provenance", form.Validation("", nil), body...)
	s := newSingular(b, node, "ReactionProvenance", loadProvenance, unloadProvenance)
	bindValidate(node, s.Validate)
	return s
}

func loadProvenance(scope *form.Node, v *models.ReactionProvenance) {
	loadPerson("provenance_experimenter", scope, v.Experimenter)
	setText(scope, "provenance_city", v.City)
	if v.ExperimentStart != nil {
		setText(scope, "provenance_start", v.ExperimentStart.Value)
	}
	setText(scope, "provenance_doi", v.Doi)
	setText(scope, "provenance_patent", v.Patent)
	setText(scope, "provenance_url", v.PublicationURL)
	if ev := v.RecordCreated; ev != nil {
		if ev.Time != nil {
			setText(scope, "provenance_created_time", ev.Time.Value)
		}
		setText(scope, "provenance_created_details", ev.Details)
		loadPerson("provenance_created_person", scope, ev.Person)
	}
}

func unloadProvenance(scope *form.Node) *models.ReactionProvenance {
	return &models.ReactionProvenance{
		Experimenter:    attach(unloadPerson("provenance_experimenter", scope)),
		City:            text(scope, "provenance_city"),
		ExperimentStart: attach(&models.DateTime{Value: text(scope, "provenance_start")}),
		Doi:             text(scope, "provenance_doi"),
		Patent:          text(scope, "provenance_patent"),
		PublicationURL:  text(scope, "provenance_url"),
		RecordCreated: attach(&models.RecordEvent{
			Time:    attach(&models.DateTime{Value: text(scope, "provenance_created_time")}),
			Person:  attach(unloadPerson("provenance_created_person", scope)),
			Details: text(scope, "provenance_created_details"),
		}),
	}
}
