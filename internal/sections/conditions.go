package sections

import (
	"github.com/antonkast-google/ord-editor/internal/form"
	"github.com/antonkast-google/ord-editor/internal/models"
)

// Conditions edits the reaction conditions and owns one sub-editor per
// conditions group.
type Conditions struct {
	*Singular[models.ReactionConditions]

	Temperature      *Singular[models.TemperatureConditions]
	Pressure         *Singular[models.PressureConditions]
	Stirring         *Singular[models.StirringConditions]
	Illumination     *Singular[models.IlluminationConditions]
	Electrochemistry *Singular[models.ElectrochemistryConditions]
	Flow             *Singular[models.FlowConditions]
}

func newConditions(b base) *Conditions {
	c := &Conditions{}
	group := func(id, title string, fields []*form.Node) *form.Node {
		return form.Fieldset(id, title, form.Validation("", nil), fields...)
	}

	temp := group("section_conditions_temperature", "temperature", temperatureFields("temperature"))
	c.Temperature = newSingular(b, temp, "TemperatureConditions", loadTemperature("temperature"), unloadTemperature("temperature"))

	pres := group("section_conditions_pressure", "pressure", []*form.Node{
		form.Selector("pressure_control_type", models.EnumPressureControlType),
		form.EditText("pressure_control_details"),
		form.MetricGroup("pressure_setpoint", models.EnumPressureUnit),
		form.Selector("pressure_atmosphere_type", models.EnumAtmosphereType),
		form.EditText("pressure_atmosphere_details"),
	})
	c.Pressure = newSingular(b, pres, "PressureConditions", loadPressure, unloadPressure)

	stir := group("section_conditions_stirring", "stirring", stirringFields("stirring"))
	c.Stirring = newSingular(b, stir, "StirringConditions", loadStirring("stirring"), unloadStirring("stirring"))

	illum := group("section_conditions_illumination", "illumination", []*form.Node{
		form.Selector("illumination_type", models.EnumIlluminationType),
		form.EditText("illumination_details"),
		form.MetricGroup("illumination_wavelength", models.EnumWavelengthUnit),
		form.EditText("illumination_color"),
		form.MetricGroup("illumination_distance", models.EnumLengthUnit),
	})
	c.Illumination = newSingular(b, illum, "IlluminationConditions", loadIllumination, unloadIllumination)

	electro := group("section_conditions_electro", "electrochemistry", []*form.Node{
		form.Selector("electro_type", models.EnumElectrochemistryType),
		form.EditText("electro_details"),
		form.MetricGroup("electro_current", models.EnumCurrentUnit),
		form.MetricGroup("electro_voltage", models.EnumVoltageUnit),
		form.EditText("electro_anode"),
		form.EditText("electro_cathode"),
	})
	c.Electrochemistry = newSingular(b, electro, "ElectrochemistryConditions", loadElectro, unloadElectro)

	flow := group("section_conditions_flow", "flow", []*form.Node{
		form.Selector("flow_type", models.EnumFlowType),
		form.EditText("flow_details"),
		form.EditText("flow_pump"),
		form.Selector("flow_tubing_type", models.EnumTubingType),
		form.EditText("flow_tubing_details"),
		form.MetricGroup("flow_tubing_diameter", models.EnumLengthUnit),
	})
	c.Flow = newSingular(b, flow, "FlowConditions", loadFlow, unloadFlow)

	for _, g := range c.groups() {
		bindValidate(g.Node(), g.Validate)
	}

	node := section("section_conditions", "conditions", form.Validation("", nil),
		form.OptionalBool("conditions_reflux"),
		form.FloatText("conditions_ph"),
		form.OptionalBool("conditions_dynamic"),
		form.EditText("conditions_details"),
		temp, pres, stir, illum, electro, flow,
	)
	c.Singular = newSingular(b, node, "ReactionConditions", c.load, c.unload)
	bindValidate(node, c.Singular.Validate)
	return c
}

type validatable interface {
	Node() *form.Node
	Validate()
}

// groups lists the per-group sub-editors.
func (c *Conditions) groups() []validatable {
	return []validatable{
		c.Temperature, c.Pressure, c.Stirring,
		c.Illumination, c.Electrochemistry, c.Flow,
	}
}

// bindValidate points the legend's validate button of a field group at fn.
func bindValidate(fs *form.Node, fn func()) {
	for _, legend := range fs.ChildrenMatching("legend") {
		if btn := legend.First("validate_button"); btn != nil {
			btn.OnClick(func(*form.Node) { fn() })
		}
	}
}

func (c *Conditions) load(scope *form.Node, v *models.ReactionConditions) {
	c.Temperature.Load(v.Temperature)
	c.Pressure.Load(v.Pressure)
	c.Stirring.Load(v.Stirring)
	c.Illumination.Load(v.Illumination)
	c.Electrochemistry.Load(v.Electrochemistry)
	c.Flow.Load(v.Flow)
	setOptionalBool(scope, "conditions_reflux", v.Reflux)
	setFloat(scope, "conditions_ph", v.PH)
	setOptionalBool(scope, "conditions_dynamic", v.ConditionsAreDynamic)
	setText(scope, "conditions_details", v.Details)
}

func (c *Conditions) unload(scope *form.Node) *models.ReactionConditions {
	return &models.ReactionConditions{
		Temperature:          attach(c.Temperature.Unload()),
		Pressure:             attach(c.Pressure.Unload()),
		Stirring:             attach(c.Stirring.Unload()),
		Illumination:         attach(c.Illumination.Unload()),
		Electrochemistry:     attach(c.Electrochemistry.Unload()),
		Flow:                 attach(c.Flow.Unload()),
		Reflux:               optionalBool(scope, "conditions_reflux"),
		PH:                   float(scope, "conditions_ph"),
		ConditionsAreDynamic: optionalBool(scope, "conditions_dynamic"),
		Details:              text(scope, "conditions_details"),
	}
}

func (c *Conditions) watches() []Watch {
	out := []Watch{c.watch()}
	for _, g := range c.groups() {
		out = append(out, Watch{Node: g.Node(), Validate: g.Validate})
	}
	return out
}

func temperatureFields(prefix string) []*form.Node {
	return []*form.Node{
		form.Selector(prefix+"_control_type", models.EnumTemperatureControlType),
		form.EditText(prefix + "_control_details"),
		form.MetricGroup(prefix+"_setpoint", models.EnumTemperatureUnit),
	}
}

func loadTemperature(prefix string) func(*form.Node, *models.TemperatureConditions) {
	return func(scope *form.Node, v *models.TemperatureConditions) {
		if ctl := v.Control; ctl != nil {
			setSelector(scope, prefix+"_control_type", int32(ctl.Type))
			setText(scope, prefix+"_control_details", ctl.Details)
		}
		form.WriteMetric(prefix+"_setpoint", v.Setpoint, scope)
	}
}

func unloadTemperature(prefix string) func(*form.Node) *models.TemperatureConditions {
	return func(scope *form.Node) *models.TemperatureConditions {
		return &models.TemperatureConditions{
			Control: attach(&models.TemperatureControl{
				Type:    models.TemperatureControlType(selector(scope, prefix+"_control_type")),
				Details: text(scope, prefix+"_control_details"),
			}),
			Setpoint: attach(form.ReadMetric(prefix+"_setpoint", &models.Temperature{}, scope)),
		}
	}
}

func loadPressure(scope *form.Node, v *models.PressureConditions) {
	if ctl := v.Control; ctl != nil {
		setSelector(scope, "pressure_control_type", int32(ctl.Type))
		setText(scope, "pressure_control_details", ctl.Details)
	}
	form.WriteMetric("pressure_setpoint", v.Setpoint, scope)
	if a := v.Atmosphere; a != nil {
		setSelector(scope, "pressure_atmosphere_type", int32(a.Type))
		setText(scope, "pressure_atmosphere_details", a.Details)
	}
}

func unloadPressure(scope *form.Node) *models.PressureConditions {
	return &models.PressureConditions{
		Control: attach(&models.PressureControl{
			Type:    models.PressureControlType(selector(scope, "pressure_control_type")),
			Details: text(scope, "pressure_control_details"),
		}),
		Setpoint: attach(form.ReadMetric("pressure_setpoint", &models.Pressure{}, scope)),
		Atmosphere: attach(&models.Atmosphere{
			Type:    models.AtmosphereType(selector(scope, "pressure_atmosphere_type")),
			Details: text(scope, "pressure_atmosphere_details"),
		}),
	}
}

func stirringFields(prefix string) []*form.Node {
	return []*form.Node{
		form.Selector(prefix+"_type", models.EnumStirringMethodType),
		form.EditText(prefix + "_details"),
		form.Selector(prefix+"_rate_type", models.EnumStirringRateType),
		form.EditText(prefix + "_rate_details"),
		form.IntegerText(prefix + "_rpm"),
	}
}

func loadStirring(prefix string) func(*form.Node, *models.StirringConditions) {
	return func(scope *form.Node, v *models.StirringConditions) {
		setSelector(scope, prefix+"_type", int32(v.Type))
		setText(scope, prefix+"_details", v.Details)
		if r := v.Rate; r != nil {
			setSelector(scope, prefix+"_rate_type", int32(r.Type))
			setText(scope, prefix+"_rate_details", r.Details)
			setInteger(scope, prefix+"_rpm", r.RPM)
		}
	}
}

func unloadStirring(prefix string) func(*form.Node) *models.StirringConditions {
	return func(scope *form.Node) *models.StirringConditions {
		return &models.StirringConditions{
			Type:    models.StirringMethodType(selector(scope, prefix+"_type")),
			Details: text(scope, prefix+"_details"),
			Rate: attach(&models.StirringRate{
				Type:    models.StirringRateType(selector(scope, prefix+"_rate_type")),
				Details: text(scope, prefix+"_rate_details"),
				RPM:     integer(scope, prefix+"_rpm"),
			}),
		}
	}
}

func loadIllumination(scope *form.Node, v *models.IlluminationConditions) {
	setSelector(scope, "illumination_type", int32(v.Type))
	setText(scope, "illumination_details", v.Details)
	form.WriteMetric("illumination_wavelength", v.PeakWavelength, scope)
	setText(scope, "illumination_color", v.Color)
	form.WriteMetric("illumination_distance", v.DistanceToVessel, scope)
}

func unloadIllumination(scope *form.Node) *models.IlluminationConditions {
	return &models.IlluminationConditions{
		Type:             models.IlluminationType(selector(scope, "illumination_type")),
		Details:          text(scope, "illumination_details"),
		PeakWavelength:   attach(form.ReadMetric("illumination_wavelength", &models.Wavelength{}, scope)),
		Color:            text(scope, "illumination_color"),
		DistanceToVessel: attach(form.ReadMetric("illumination_distance", &models.Length{}, scope)),
	}
}

func loadElectro(scope *form.Node, v *models.ElectrochemistryConditions) {
	setSelector(scope, "electro_type", int32(v.Type))
	setText(scope, "electro_details", v.Details)
	form.WriteMetric("electro_current", v.Current, scope)
	form.WriteMetric("electro_voltage", v.Voltage, scope)
	setText(scope, "electro_anode", v.AnodeMaterial)
	setText(scope, "electro_cathode", v.CathodeMaterial)
}

func unloadElectro(scope *form.Node) *models.ElectrochemistryConditions {
	return &models.ElectrochemistryConditions{
		Type:            models.ElectrochemistryType(selector(scope, "electro_type")),
		Details:         text(scope, "electro_details"),
		Current:         attach(form.ReadMetric("electro_current", &models.Current{}, scope)),
		Voltage:         attach(form.ReadMetric("electro_voltage", &models.Voltage{}, scope)),
		AnodeMaterial:   text(scope, "electro_anode"),
		CathodeMaterial: text(scope, "electro_cathode"),
	}
}

func loadFlow(scope *form.Node, v *models.FlowConditions) {
	setSelector(scope, "flow_type", int32(v.Type))
	setText(scope, "flow_details", v.Details)
	setText(scope, "flow_pump", v.PumpType)
	if t := v.Tubing; t != nil {
		setSelector(scope, "flow_tubing_type", int32(t.Type))
		setText(scope, "flow_tubing_details", t.Details)
		form.WriteMetric("flow_tubing_diameter", t.Diameter, scope)
	}
}

func unloadFlow(scope *form.Node) *models.FlowConditions {
	return &models.FlowConditions{
		Type:     models.FlowType(selector(scope, "flow_type")),
		Details:  text(scope, "flow_details"),
		PumpType: text(scope, "flow_pump"),
		Tubing: attach(&models.Tubing{
			Type:     models.TubingType(selector(scope, "flow_tubing_type")),
			Details:  text(scope, "flow_tubing_details"),
			Diameter: attach(form.ReadMetric("flow_tubing_diameter", &models.Length{}, scope)),
		}),
	}
}
