package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownEnum is returned when an enum type path has no registered definition.
var ErrUnknownEnum = errors.New("models: unknown enum")

// Unspecified is the zero value shared by every enum.
const Unspecified = "UNSPECIFIED"

// EnumValue is one named constant of an enum.
type EnumValue struct {
	Name   string `json:"name"`
	Number int32  `json:"number"`
}

// Enum is an enum definition addressed by its type path, e.g.
// "Temperature.TemperatureUnit".
type Enum struct {
	Path   string      `json:"path"`
	Values []EnumValue `json:"values"`
}

// Name returns the constant name for n, or "" when n is not defined.
func (e Enum) Name(n int32) string {
	for _, v := range e.Values {
		if v.Number == n {
			return v.Name
		}
	}
	return ""
}

// Number returns the constant for name.
func (e Enum) Number(name string) (int32, bool) {
	for _, v := range e.Values {
		if v.Name == name {
			return v.Number, true
		}
	}
	return 0, false
}

// EnumRegistry maps normalized type paths to enum definitions. Dotted and
// underscored spellings of a path address the same entry.
type EnumRegistry struct {
	mu    sync.RWMutex
	enums map[string]Enum
}

func NewEnumRegistry(enums ...Enum) *EnumRegistry {
	r := &EnumRegistry{enums: make(map[string]Enum, len(enums))}
	for _, e := range enums {
		r.Register(e)
	}
	return r
}

func normalizePath(path string) string {
	return strings.ReplaceAll(strings.TrimSpace(path), "_", ".")
}

// Register adds or replaces a definition.
func (r *EnumRegistry) Register(e Enum) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enums[normalizePath(e.Path)] = e
}

// Lookup resolves a type path.
func (r *EnumRegistry) Lookup(path string) (Enum, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.enums[normalizePath(path)]
	if !ok {
		return Enum{}, fmt.Errorf("%w: %q", ErrUnknownEnum, path)
	}
	return e, nil
}

// Name returns the constant name of n in the enum at path, falling back to
// the decimal number when either is unknown.
func (r *EnumRegistry) Name(path string, n int32) string {
	e, err := r.Lookup(path)
	if err == nil {
		if name := e.Name(n); name != "" {
			return name
		}
	}
	return fmt.Sprintf("%d", n)
}

// Paths lists registered paths in sorted order.
func (r *EnumRegistry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.enums))
	for _, e := range r.enums {
		out = append(out, e.Path)
	}
	sort.Strings(out)
	return out
}

func newEnum(path string, names ...string) Enum {
	e := Enum{Path: path, Values: []EnumValue{{Name: Unspecified, Number: 0}}}
	for i, n := range names {
		e.Values = append(e.Values, EnumValue{Name: n, Number: int32(i + 1)})
	}
	return e
}

type (
	TimeUnit               int32
	MassUnit               int32
	MolesUnit              int32
	VolumeUnit             int32
	TemperatureUnit        int32
	PressureUnit           int32
	CurrentUnit            int32
	VoltageUnit            int32
	LengthUnit             int32
	WavelengthUnit         int32
	ReactionIdentifierType int32
	CompoundIdentifierType int32
	ReactionRole           int32
	VesselType             int32
	EnvironmentType        int32
	TemperatureControlType int32
	PressureControlType    int32
	AtmosphereType         int32
	StirringMethodType     int32
	StirringRateType       int32
	IlluminationType       int32
	ElectrochemistryType   int32
	FlowType               int32
	TubingType             int32
	WorkupType             int32
	AnalysisType           int32
)

// Enum type paths referenced by selectors.
const (
	EnumTimeUnit               = "Time.TimeUnit"
	EnumMassUnit               = "Mass.MassUnit"
	EnumMolesUnit              = "Moles.MolesUnit"
	EnumVolumeUnit             = "Volume.VolumeUnit"
	EnumTemperatureUnit        = "Temperature.TemperatureUnit"
	EnumPressureUnit           = "Pressure.PressureUnit"
	EnumCurrentUnit            = "Current.CurrentUnit"
	EnumVoltageUnit            = "Voltage.VoltageUnit"
	EnumLengthUnit             = "Length.LengthUnit"
	EnumWavelengthUnit         = "Wavelength.WavelengthUnit"
	EnumReactionIdentifierType = "ReactionIdentifier.IdentifierType"
	EnumCompoundIdentifierType = "CompoundIdentifier.IdentifierType"
	EnumReactionRole           = "ReactionRole.ReactionRoleType"
	EnumVesselType             = "Vessel.VesselType"
	EnumEnvironmentType        = "ReactionSetup.ReactionEnvironment.ReactionEnvironmentType"
	EnumTemperatureControlType = "TemperatureConditions.TemperatureControl.TemperatureControlType"
	EnumPressureControlType    = "PressureConditions.PressureControl.PressureControlType"
	EnumAtmosphereType         = "PressureConditions.Atmosphere.AtmosphereType"
	EnumStirringMethodType     = "StirringConditions.StirringMethod.StirringMethodType"
	EnumStirringRateType       = "StirringConditions.StirringRate.StirringRateType"
	EnumIlluminationType       = "IlluminationConditions.IlluminationType"
	EnumElectrochemistryType   = "ElectrochemistryConditions.ElectrochemistryType"
	EnumFlowType               = "FlowConditions.FlowType"
	EnumTubingType             = "FlowConditions.Tubing.TubingType"
	EnumWorkupType             = "ReactionWorkup.WorkupType"
	EnumAnalysisType           = "Analysis.AnalysisType"
)

// Frequently referenced constants. The full value lists live in the
// registry built by DefaultEnums.
const (
	TimeUnitHour   TimeUnit = 2
	TimeUnitMinute TimeUnit = 3

	MassUnitGram MassUnit = 2

	VolumeUnitMilliliter VolumeUnit = 2

	TemperatureUnitCelsius TemperatureUnit = 1
	TemperatureUnitKelvin  TemperatureUnit = 3

	ReactionIdentifierCustom ReactionIdentifierType = 1
	ReactionIdentifierSmiles ReactionIdentifierType = 2

	CompoundIdentifierSmiles CompoundIdentifierType = 2
	CompoundIdentifierName   CompoundIdentifierType = 6

	ReactionRoleReactant ReactionRole = 1
	ReactionRoleSolvent  ReactionRole = 3
	ReactionRoleProduct  ReactionRole = 8

	StirringMethodStirBar StirringMethodType = 3

	WorkupTypeExtraction WorkupType = 5

	AnalysisTypeNMR1H AnalysisType = 5
)

var (
	defaultOnce sync.Once
	defaultEnum *EnumRegistry
)

// DefaultEnums returns the registry of every enum used by the reaction form.
func DefaultEnums() *EnumRegistry {
	defaultOnce.Do(func() {
		defaultEnum = NewEnumRegistry(
			newEnum(EnumTimeUnit, "DAY", "HOUR", "MINUTE", "SECOND"),
			newEnum(EnumMassUnit, "KILOGRAM", "GRAM", "MILLIGRAM", "MICROGRAM"),
			newEnum(EnumMolesUnit, "MOLE", "MILLIMOLE", "MICROMOLE", "NANOMOLE"),
			newEnum(EnumVolumeUnit, "LITER", "MILLILITER", "MICROLITER", "NANOLITER"),
			newEnum(EnumTemperatureUnit, "CELSIUS", "FAHRENHEIT", "KELVIN"),
			newEnum(EnumPressureUnit, "BAR", "ATMOSPHERE", "PSI", "KPSI", "PASCAL", "KILOPASCAL", "TORR", "MM_HG"),
			newEnum(EnumCurrentUnit, "AMPERE", "MILLIAMPERE"),
			newEnum(EnumVoltageUnit, "VOLT", "MILLIVOLT"),
			newEnum(EnumLengthUnit, "CENTIMETER", "MILLIMETER", "METER", "INCH", "FOOT"),
			newEnum(EnumWavelengthUnit, "NANOMETER", "WAVENUMBER"),
			newEnum(EnumReactionIdentifierType, "CUSTOM", "REACTION_SMILES", "REACTION_CXSMILES", "RDFILE", "RINCHI", "REACTION_TYPE"),
			newEnum(EnumCompoundIdentifierType, "CUSTOM", "SMILES", "INCHI", "MOLBLOCK", "IUPAC_NAME", "NAME", "CAS_NUMBER", "PUBCHEM_CID"),
			newEnum(EnumReactionRole, "REACTANT", "REAGENT", "SOLVENT", "CATALYST", "WORKUP", "INTERNAL_STANDARD", "AUTHENTIC_STANDARD", "PRODUCT"),
			newEnum(EnumVesselType, "CUSTOM", "ROUND_BOTTOM_FLASK", "VIAL", "WELL_PLATE", "MICROWAVE_VIAL", "TUBE", "CONTINUOUS_STIRRED_TANK_REACTOR", "PACKED_BED_REACTOR", "NMR_TUBE"),
			newEnum(EnumEnvironmentType, "CUSTOM", "FUME_HOOD", "BENCH_TOP", "GLOVE_BOX", "GLOVE_BAG"),
			newEnum(EnumTemperatureControlType, "CUSTOM", "AMBIENT", "OIL_BATH", "WATER_BATH", "SAND_BATH", "ICE_BATH", "DRY_ALUMINUM_PLATE", "MICROWAVE", "DRY_ICE_BATH", "AIR_FAN", "LIQUID_NITROGEN"),
			newEnum(EnumPressureControlType, "CUSTOM", "AMBIENT", "SLIGHT_POSITIVE", "SEALED", "PRESSURIZED"),
			newEnum(EnumAtmosphereType, "CUSTOM", "AIR", "NITROGEN", "ARGON", "OXYGEN", "HYDROGEN", "CARBON_MONOXIDE", "CARBON_DIOXIDE", "METHANE", "AMMONIA", "OZONE", "ETHYLENE", "ACETYLENE"),
			newEnum(EnumStirringMethodType, "CUSTOM", "NONE", "STIR_BAR", "OVERHEAD_MIXER", "AGITATION", "BALL_MILLING", "SONICATION"),
			newEnum(EnumStirringRateType, "HIGH", "MEDIUM", "LOW"),
			newEnum(EnumIlluminationType, "CUSTOM", "AMBIENT", "DARK", "LED", "HALOGEN_LAMP", "DEUTERIUM_LAMP", "SOLAR_SIMULATOR", "BROAD_SPECTRUM"),
			newEnum(EnumElectrochemistryType, "CUSTOM", "CONSTANT_CURRENT", "CONSTANT_VOLTAGE"),
			newEnum(EnumFlowType, "CUSTOM", "PLUG_FLOW_REACTOR", "CONTINUOUS_STIRRED_TANK_REACTOR", "PACKED_BED_REACTOR"),
			newEnum(EnumTubingType, "CUSTOM", "STEEL", "COPPER", "PFA", "FEP", "TEFLONAF", "PTFE", "GLASS", "QUARTZ", "SILICON", "PDMS"),
			newEnum(EnumWorkupType, "CUSTOM", "ADDITION", "ALIQUOT", "TEMPERATURE", "EXTRACTION", "CONCENTRATION", "FILTRATION", "WASH", "DRY_IN_VACUUM", "DRY_WITH_MATERIAL", "FLASH_CHROMATOGRAPHY", "OTHER_CHROMATOGRAPHY", "SCAVENGING", "WAIT", "STIRRING", "PH_ADJUST", "DISSOLUTION", "DISTILLATION"),
			newEnum(EnumAnalysisType, "CUSTOM", "LC", "GC", "IR", "NMR_1H", "NMR_13C", "NMR_OTHER", "MP", "UV", "TLC", "MS", "HRMS", "MSMS", "WEIGHT", "LCMS", "GCMS", "ELSD", "CD", "SFC", "EPR", "XRD", "RAMAN", "ED"),
		)
	})
	return defaultEnum
}
