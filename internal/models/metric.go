package models

// Quantity holds the value/precision pair shared by every measured field.
type Quantity struct {
	Value     *float64 `json:"value,omitempty"`
	Precision *float64 `json:"precision,omitempty"`
}

func (q *Quantity) MetricValue() *float64 { return q.Value }

func (q *Quantity) SetMetricValue(v float64) { q.Value = &v }

func (q *Quantity) MetricPrecision() *float64 { return q.Precision }

func (q *Quantity) SetMetricPrecision(v float64) { q.Precision = &v }

// Metric is a measured quantity with an optional value and precision.
type Metric interface {
	MetricValue() *float64
	SetMetricValue(v float64)
	MetricPrecision() *float64
	SetMetricPrecision(v float64)
}

// UnitMetric is implemented by metrics that carry a units enum. Types that
// do not implement it (Percentage) have no units field.
type UnitMetric interface {
	Metric
	MetricUnits() int32
	SetMetricUnits(u int32)
}

type Time struct {
	Quantity
	Units TimeUnit `json:"units,omitempty"`
}

func (m *Time) MetricUnits() int32 { return int32(m.Units) }
func (m *Time) SetMetricUnits(u int32) { m.Units = TimeUnit(u) }

type Mass struct {
	Quantity
	Units MassUnit `json:"units,omitempty"`
}

func (m *Mass) MetricUnits() int32 { return int32(m.Units) }
func (m *Mass) SetMetricUnits(u int32) { m.Units = MassUnit(u) }

type Moles struct {
	Quantity
	Units MolesUnit `json:"units,omitempty"`
}

func (m *Moles) MetricUnits() int32 { return int32(m.Units) }
func (m *Moles) SetMetricUnits(u int32) { m.Units = MolesUnit(u) }

type Volume struct {
	Quantity
	Units VolumeUnit `json:"units,omitempty"`
}

func (m *Volume) MetricUnits() int32 { return int32(m.Units) }
func (m *Volume) SetMetricUnits(u int32) { m.Units = VolumeUnit(u) }

type Temperature struct {
	Quantity
	Units TemperatureUnit `json:"units,omitempty"`
}

func (m *Temperature) MetricUnits() int32 { return int32(m.Units) }
func (m *Temperature) SetMetricUnits(u int32) { m.Units = TemperatureUnit(u) }

type Pressure struct {
	Quantity
	Units PressureUnit `json:"units,omitempty"`
}

func (m *Pressure) MetricUnits() int32 { return int32(m.Units) }
func (m *Pressure) SetMetricUnits(u int32) { m.Units = PressureUnit(u) }

type Current struct {
	Quantity
	Units CurrentUnit `json:"units,omitempty"`
}

func (m *Current) MetricUnits() int32 { return int32(m.Units) }
func (m *Current) SetMetricUnits(u int32) { m.Units = CurrentUnit(u) }

type Voltage struct {
	Quantity
	Units VoltageUnit `json:"units,omitempty"`
}

func (m *Voltage) MetricUnits() int32 { return int32(m.Units) }
func (m *Voltage) SetMetricUnits(u int32) { m.Units = VoltageUnit(u) }

type Length struct {
	Quantity
	Units LengthUnit `json:"units,omitempty"`
}

func (m *Length) MetricUnits() int32 { return int32(m.Units) }
func (m *Length) SetMetricUnits(u int32) { m.Units = LengthUnit(u) }

type Wavelength struct {
	Quantity
	Units WavelengthUnit `json:"units,omitempty"`
}

func (m *Wavelength) MetricUnits() int32 { return int32(m.Units) }
func (m *Wavelength) SetMetricUnits(u int32) { m.Units = WavelengthUnit(u) }

// Percentage is a bare quantity; it has no units.
type Percentage struct {
	Quantity
}
