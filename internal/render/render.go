// Package render produces the read-only HTML summary of a reaction shown
// below the editor form.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"slices"
	"strings"

	"github.com/antonkast-google/ord-editor/internal/form"
	"github.com/antonkast-google/ord-editor/internal/models"
)

const reactionHTML = `<div class="reaction-summary">
{{- with .ReactionID}}<h3 class="reaction-id">{{.}}</h3>{{end}}
{{- range .Identifiers}}{{if .}}
<p class="identifier"><b>{{enum "ReactionIdentifier.IdentifierType" (num .Type)}}</b> {{.Value}}</p>
{{- end}}{{end}}
{{- if .Inputs}}
<h4>Inputs</h4>
<table class="inputs">
{{- range $name := keys .Inputs}}{{with index $.Inputs $name}}
<tr><td class="input-name">{{$name}}</td><td>{{range $i, $c := .Components}}{{if $i}}; {{end}}{{compound $c}}{{end}}</td></tr>
{{- end}}{{end}}
</table>
{{- end}}
{{- with .Conditions}}{{with conditions .}}
<h4>Conditions</h4>
<ul class="conditions">
{{- range .}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- end}}{{end}}
{{- if .Outcomes}}
<h4>Outcomes</h4>
{{- range $i, $o := .Outcomes}}{{if $o}}
<div class="outcome">
{{- with $o.ReactionTime}}<p>after {{quantity .}}</p>{{end}}
{{- with $o.Conversion}}<p>conversion {{quantity .}}</p>{{end}}
<ul class="products">
{{- range $o.Products}}{{if .}}
<li>{{identifiers .Identifiers}}{{with .Yield}} (yield {{quantity .}}){{end}}{{with .Purity}} (purity {{quantity .}}){{end}}</li>
{{- end}}{{end}}
</ul>
</div>
{{- end}}{{end}}
{{- end}}
{{- with .Notes}}{{with .ProcedureDetails}}
<h4>Procedure</h4>
<p class="procedure">{{.}}</p>
{{- end}}{{end}}
</div>
`

var tmpl = template.Must(template.New("reaction").Funcs(template.FuncMap{
	"enum":        enumName,
	"num":         toInt32,
	"keys":        sortedKeys,
	"quantity":    Quantity,
	"compound":    compound,
	"identifiers": identifiers,
	"conditions":  conditionLines,
}).Parse(reactionHTML))

// Reaction renders r as an HTML fragment.
func Reaction(r *models.Reaction) (string, error) {
	if r == nil {
		r = &models.Reaction{}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, r); err != nil {
		return "", fmt.Errorf("render: reaction: %w", err)
	}
	return buf.String(), nil
}

func enumName(path string, n int32) string {
	return models.DefaultEnums().Name(path, n)
}

func toInt32(v any) int32 {
	switch x := v.(type) {
	case models.ReactionIdentifierType:
		return int32(x)
	case models.ReactionRole:
		return int32(x)
	}
	return 0
}

func sortedKeys(m map[string]*models.ReactionInput) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Quantity formats a metric as "value ± precision UNITS"; an unset value
// renders empty.
func Quantity(v any) string {
	m, ok := v.(models.Metric)
	if !ok || isNilMetric(v) {
		return ""
	}
	val := m.MetricValue()
	if val == nil {
		return ""
	}
	s := form.FormatFloat(*val)
	if p := m.MetricPrecision(); p != nil {
		s += " ± " + form.FormatFloat(*p)
	}
	if um, ok := m.(models.UnitMetric); ok {
		if path := unitPath(v); path != "" && um.MetricUnits() != 0 {
			s += " " + strings.ToLower(enumName(path, um.MetricUnits()))
		}
	} else {
		s += "%"
	}
	return s
}

func isNilMetric(v any) bool {
	switch m := v.(type) {
	case *models.Time:
		return m == nil
	case *models.Mass:
		return m == nil
	case *models.Moles:
		return m == nil
	case *models.Volume:
		return m == nil
	case *models.Temperature:
		return m == nil
	case *models.Pressure:
		return m == nil
	case *models.Current:
		return m == nil
	case *models.Voltage:
		return m == nil
	case *models.Length:
		return m == nil
	case *models.Wavelength:
		return m == nil
	case *models.Percentage:
		return m == nil
	}
	return v == nil
}

func unitPath(v any) string {
	switch v.(type) {
	case *models.Time:
		return models.EnumTimeUnit
	case *models.Mass:
		return models.EnumMassUnit
	case *models.Moles:
		return models.EnumMolesUnit
	case *models.Volume:
		return models.EnumVolumeUnit
	case *models.Temperature:
		return models.EnumTemperatureUnit
	case *models.Pressure:
		return models.EnumPressureUnit
	case *models.Current:
		return models.EnumCurrentUnit
	case *models.Voltage:
		return models.EnumVoltageUnit
	case *models.Length:
		return models.EnumLengthUnit
	case *models.Wavelength:
		return models.EnumWavelengthUnit
	}
	return ""
}

func identifiers(ids []*models.CompoundIdentifier) string {
	for _, id := range ids {
		if id != nil && id.Value != "" {
			return id.Value
		}
	}
	return "unnamed"
}

func compound(c *models.Compound) string {
	if c == nil {
		return ""
	}
	s := identifiers(c.Identifiers)
	if a := c.Amount; a != nil {
		var amt string
		switch {
		case a.Mass != nil:
			amt = Quantity(a.Mass)
		case a.Moles != nil:
			amt = Quantity(a.Moles)
		case a.Volume != nil:
			amt = Quantity(a.Volume)
		}
		if amt != "" {
			s += " " + amt
		}
	}
	if c.ReactionRole != 0 {
		s += " (" + strings.ToLower(enumName(models.EnumReactionRole, int32(c.ReactionRole))) + ")"
	}
	return s
}

func conditionLines(c *models.ReactionConditions) []string {
	var out []string
	if t := c.Temperature; t != nil {
		if q := Quantity(t.Setpoint); q != "" {
			out = append(out, "temperature "+q)
		}
	}
	if p := c.Pressure; p != nil {
		if q := Quantity(p.Setpoint); q != "" {
			out = append(out, "pressure "+q)
		}
		if p.Atmosphere != nil && p.Atmosphere.Type != 0 {
			out = append(out, "under "+strings.ToLower(enumName(models.EnumAtmosphereType, int32(p.Atmosphere.Type))))
		}
	}
	if s := c.Stirring; s != nil && s.Type != 0 {
		out = append(out, "stirred by "+strings.ToLower(enumName(models.EnumStirringMethodType, int32(s.Type))))
	}
	if c.Reflux != nil && *c.Reflux {
		out = append(out, "at reflux")
	}
	if c.PH != nil {
		out = append(out, "pH "+form.FormatFloat(*c.PH))
	}
	if c.Details != "" {
		out = append(out, c.Details)
	}
	return out
}
