// Package models defines the reaction record types edited by ord-editor.
package models

import "time"

// Reaction is the full record edited by the form.
type Reaction struct {
	Identifiers  []*ReactionIdentifier     `json:"identifiers,omitempty"`
	Inputs       map[string]*ReactionInput `json:"inputs,omitempty"`
	Setup        *ReactionSetup            `json:"setup,omitempty"`
	Conditions   *ReactionConditions       `json:"conditions,omitempty"`
	Notes        *ReactionNotes            `json:"notes,omitempty"`
	Observations []*ReactionObservation    `json:"observations,omitempty"`
	Workups      []*ReactionWorkup         `json:"workups,omitempty"`
	Outcomes     []*ReactionOutcome        `json:"outcomes,omitempty"`
	Provenance   *ReactionProvenance       `json:"provenance,omitempty"`
	ReactionID   string                    `json:"reaction_id,omitempty"`
}

type ReactionIdentifier struct {
	Type    ReactionIdentifierType `json:"type,omitempty"`
	Details string                 `json:"details,omitempty"`
	Value   string                 `json:"value,omitempty"`
}

type CompoundIdentifier struct {
	Type    CompoundIdentifierType `json:"type,omitempty"`
	Details string                 `json:"details,omitempty"`
	Value   string                 `json:"value,omitempty"`
}

// Amount is the quantity of a compound: mass, moles or volume.
type Amount struct {
	Mass                  *Mass   `json:"mass,omitempty"`
	Moles                 *Moles  `json:"moles,omitempty"`
	Volume                *Volume `json:"volume,omitempty"`
	VolumeIncludesSolutes *bool   `json:"volume_includes_solutes,omitempty"`
}

type Compound struct {
	Identifiers  []*CompoundIdentifier `json:"identifiers,omitempty"`
	Amount       *Amount               `json:"amount,omitempty"`
	ReactionRole ReactionRole          `json:"reaction_role,omitempty"`
	IsLimiting   *bool                 `json:"is_limiting,omitempty"`
}

type ReactionInput struct {
	Components          []*Compound  `json:"components,omitempty"`
	AdditionOrder       *int32       `json:"addition_order,omitempty"`
	AdditionTime        *Time        `json:"addition_time,omitempty"`
	AdditionDuration    *Time        `json:"addition_duration,omitempty"`
	AdditionTemperature *Temperature `json:"addition_temperature,omitempty"`
}

type Vessel struct {
	Type    VesselType `json:"type,omitempty"`
	Details string     `json:"details,omitempty"`
	Volume  *Volume    `json:"volume,omitempty"`
}

type ReactionEnvironment struct {
	Type    EnvironmentType `json:"type,omitempty"`
	Details string          `json:"details,omitempty"`
}

type ReactionSetup struct {
	Vessel             *Vessel              `json:"vessel,omitempty"`
	IsAutomated        *bool                `json:"is_automated,omitempty"`
	AutomationPlatform string               `json:"automation_platform,omitempty"`
	Environment        *ReactionEnvironment `json:"environment,omitempty"`
}

type TemperatureControl struct {
	Type    TemperatureControlType `json:"type,omitempty"`
	Details string                 `json:"details,omitempty"`
}

type TemperatureConditions struct {
	Control  *TemperatureControl `json:"control,omitempty"`
	Setpoint *Temperature        `json:"setpoint,omitempty"`
}

type PressureControl struct {
	Type    PressureControlType `json:"type,omitempty"`
	Details string              `json:"details,omitempty"`
}

type Atmosphere struct {
	Type    AtmosphereType `json:"type,omitempty"`
	Details string         `json:"details,omitempty"`
}

type PressureConditions struct {
	Control    *PressureControl `json:"control,omitempty"`
	Setpoint   *Pressure        `json:"setpoint,omitempty"`
	Atmosphere *Atmosphere      `json:"atmosphere,omitempty"`
}

type StirringRate struct {
	Type    StirringRateType `json:"type,omitempty"`
	Details string           `json:"details,omitempty"`
	RPM     *int32           `json:"rpm,omitempty"`
}

type StirringConditions struct {
	Type    StirringMethodType `json:"type,omitempty"`
	Details string             `json:"details,omitempty"`
	Rate    *StirringRate      `json:"rate,omitempty"`
}

type IlluminationConditions struct {
	Type             IlluminationType `json:"type,omitempty"`
	Details          string           `json:"details,omitempty"`
	PeakWavelength   *Wavelength      `json:"peak_wavelength,omitempty"`
	Color            string           `json:"color,omitempty"`
	DistanceToVessel *Length          `json:"distance_to_vessel,omitempty"`
}

type ElectrochemistryConditions struct {
	Type            ElectrochemistryType `json:"type,omitempty"`
	Details         string               `json:"details,omitempty"`
	Current         *Current             `json:"current,omitempty"`
	Voltage         *Voltage             `json:"voltage,omitempty"`
	AnodeMaterial   string               `json:"anode_material,omitempty"`
	CathodeMaterial string               `json:"cathode_material,omitempty"`
}

type Tubing struct {
	Type     TubingType `json:"type,omitempty"`
	Details  string     `json:"details,omitempty"`
	Diameter *Length    `json:"diameter,omitempty"`
}

type FlowConditions struct {
	Type     FlowType `json:"type,omitempty"`
	Details  string   `json:"details,omitempty"`
	PumpType string   `json:"pump_type,omitempty"`
	Tubing   *Tubing  `json:"tubing,omitempty"`
}

type ReactionConditions struct {
	Temperature          *TemperatureConditions      `json:"temperature,omitempty"`
	Pressure             *PressureConditions         `json:"pressure,omitempty"`
	Stirring             *StirringConditions         `json:"stirring,omitempty"`
	Illumination         *IlluminationConditions     `json:"illumination,omitempty"`
	Electrochemistry     *ElectrochemistryConditions `json:"electrochemistry,omitempty"`
	Flow                 *FlowConditions             `json:"flow,omitempty"`
	Reflux               *bool                       `json:"reflux,omitempty"`
	PH                   *float64                    `json:"ph,omitempty"`
	ConditionsAreDynamic *bool                       `json:"conditions_are_dynamic,omitempty"`
	Details              string                      `json:"details,omitempty"`
}

type ReactionNotes struct {
	IsHeterogeneous       *bool  `json:"is_heterogeneous,omitempty"`
	FormsPrecipitate      *bool  `json:"forms_precipitate,omitempty"`
	IsExothermic          *bool  `json:"is_exothermic,omitempty"`
	IsSensitiveToMoisture *bool  `json:"is_sensitive_to_moisture,omitempty"`
	IsSensitiveToOxygen   *bool  `json:"is_sensitive_to_oxygen,omitempty"`
	IsSensitiveToLight    *bool  `json:"is_sensitive_to_light,omitempty"`
	SafetyNotes           string `json:"safety_notes,omitempty"`
	ProcedureDetails      string `json:"procedure_details,omitempty"`
}

// Data is an attached value. StringValue and URL are alternatives: at most
// one is set, and neither is ever set to "".
type Data struct {
	StringValue *string `json:"string_value,omitempty"`
	URL         *string `json:"url,omitempty"`
	Description string  `json:"description,omitempty"`
	Format      string  `json:"format,omitempty"`
}

type ReactionObservation struct {
	Time    *Time  `json:"time,omitempty"`
	Comment string `json:"comment,omitempty"`
	Image   *Data  `json:"image,omitempty"`
}

type ReactionWorkup struct {
	Type        WorkupType             `json:"type,omitempty"`
	Details     string                 `json:"details,omitempty"`
	Duration    *Time                  `json:"duration,omitempty"`
	Input       *ReactionInput         `json:"input,omitempty"`
	Temperature *TemperatureConditions `json:"temperature,omitempty"`
	KeepPhase   string                 `json:"keep_phase,omitempty"`
	Stirring    *StirringConditions    `json:"stirring,omitempty"`
	TargetPH    *float64               `json:"target_ph,omitempty"`
	IsAutomated *bool                  `json:"is_automated,omitempty"`
}

type ProductCompound struct {
	Identifiers      []*CompoundIdentifier `json:"identifiers,omitempty"`
	IsDesiredProduct *bool                 `json:"is_desired_product,omitempty"`
	Yield            *Percentage           `json:"yield,omitempty"`
	Purity           *Percentage           `json:"purity,omitempty"`
	ReactionRole     ReactionRole          `json:"reaction_role,omitempty"`
}

type Analysis struct {
	Type                   AnalysisType `json:"type,omitempty"`
	Details                string       `json:"details,omitempty"`
	IsOfIsolatedSpecies    *bool        `json:"is_of_isolated_species,omitempty"`
	InstrumentManufacturer string       `json:"instrument_manufacturer,omitempty"`
}

type ReactionOutcome struct {
	ReactionTime *Time                `json:"reaction_time,omitempty"`
	Conversion   *Percentage          `json:"conversion,omitempty"`
	Products     []*ProductCompound   `json:"products,omitempty"`
	Analyses     map[string]*Analysis `json:"analyses,omitempty"`
}

type Person struct {
	Username     string `json:"username,omitempty"`
	Name         string `json:"name,omitempty"`
	Orcid        string `json:"orcid,omitempty"`
	Organization string `json:"organization,omitempty"`
	Email        string `json:"email,omitempty"`
}

type DateTime struct {
	Value string `json:"value,omitempty"`
}

type RecordEvent struct {
	Time    *DateTime `json:"time,omitempty"`
	Person  *Person   `json:"person,omitempty"`
	Details string    `json:"details,omitempty"`
}

type ReactionProvenance struct {
	Experimenter    *Person      `json:"experimenter,omitempty"`
	City            string       `json:"city,omitempty"`
	ExperimentStart *DateTime    `json:"experiment_start,omitempty"`
	Doi             string       `json:"doi,omitempty"`
	Patent          string       `json:"patent,omitempty"`
	PublicationURL  string       `json:"publication_url,omitempty"`
	RecordCreated   *RecordEvent `json:"record_created,omitempty"`
}

// Dataset is a named, ordered collection of reactions.
type Dataset struct {
	Name        string      `json:"name,omitempty"`
	Description string      `json:"description,omitempty"`
	DatasetID   string      `json:"dataset_id,omitempty"`
	Reactions   []*Reaction `json:"reactions,omitempty"`
}

// DatasetMetadata is a lightweight representation returned by list operations.
type DatasetMetadata struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	Reactions int       `json:"reactions"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Diagnostics is the result of validating a message.
type Diagnostics struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}
